package datastore

import (
	"sensornode-go/errcode"
	"sensornode-go/types"
)

// fanOut walks the registry for typ in insertion order and notifies every
// non-paused subscription whose range contains id. The first callback or
// allocation failure stops the walk: a subscriber that cannot take the
// snapshot most likely cannot allocate its own resources either, so the
// backpressure goes upward. The committed write stands regardless.
func (s *Store) fanOut(typ types.DatapointType, id uint32) {
	reg := s.regs[typ]
	for i := range reg.entries {
		e := &reg.entries[i]
		if e.paused || !e.contains(id) {
			continue
		}
		if err := s.notifyEntry(typ, e); err != nil {
			s.log.Errorf("unable to notify %s entry %d: %v", typ, i, err)
			return
		}
	}
}

// notifyEntry snapshots the subscription's whole range into a fresh pool
// buffer and hands it to the callback, which owns the buffer from then on.
func (s *Store) notifyEntry(typ types.DatapointType, e *subEntry) error {
	p, err := s.pool.Alloc(int(e.count))
	if err != nil {
		return errcode.NoSpace
	}
	arena := s.arenas[typ]
	for i := uint32(0); i < e.count; i++ {
		p.Data[i] = arena[e.startID+i].Value
	}
	return e.cb(p, int(e.count))
}
