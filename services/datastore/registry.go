package datastore

import (
	"sensornode-go/errcode"
	"sensornode-go/types"
)

// subEntry is one registered subscription. The covered range is the
// half-open interval [startID, startID+count).
type subEntry struct {
	startID uint32
	count   uint32
	paused  bool
	cb      Callback
	token   Token
}

func (e *subEntry) contains(id uint32) bool {
	return id >= e.startID && id < e.startID+e.count
}

// registry is a bounded, insertion-ordered subscription array. It is only
// ever touched from the worker goroutine.
type registry struct {
	entries []subEntry
}

func newRegistry(max int) *registry {
	return &registry{entries: make([]subEntry, 0, max)}
}

// add copies the entry into the first free slot. A full registry is left
// unchanged and reported as queue_full.
func (r *registry) add(e subEntry) errcode.Code {
	if len(r.entries) == cap(r.entries) {
		return errcode.QueueFull
	}
	r.entries = append(r.entries, e)
	return errcode.OK
}

// remove deletes the entry with the given token and shifts the tail down,
// preserving insertion order.
func (r *registry) remove(tok Token) errcode.Code {
	for i := range r.entries {
		if r.entries[i].token == tok {
			copy(r.entries[i:], r.entries[i+1:])
			r.entries = r.entries[:len(r.entries)-1]
			return errcode.OK
		}
	}
	return errcode.NotFound
}

func (r *registry) find(tok Token) *subEntry {
	for i := range r.entries {
		if r.entries[i].token == tok {
			return &r.entries[i]
		}
	}
	return nil
}

// addSub registers the entry, assigns its token and fires the initial
// snapshot notification so the subscriber starts in sync.
func (s *Store) addSub(typ types.DatapointType, e subEntry) (Token, errcode.Code) {
	if e.cb == nil || e.count == 0 {
		return 0, errcode.InvalidParams
	}
	if !rangeValid(e.startID, int(e.count), len(s.arenas[typ])) {
		return 0, errcode.InvalidParams
	}
	s.tokenSeq++
	e.token = s.tokenSeq
	if st := s.regs[typ].add(e); st != errcode.OK {
		s.log.Errorf("unable to add %s subscription, entries full", typ)
		return 0, st
	}
	if err := s.notifyEntry(typ, &e); err != nil {
		s.log.Errorf("unable to notify new %s entry: %v", typ, err)
	}
	return e.token, errcode.OK
}

// setPaused flips the pause flag; unpausing fires a snapshot notification,
// pausing does not.
func (s *Store) setPaused(typ types.DatapointType, tok Token, paused bool) errcode.Code {
	e := s.regs[typ].find(tok)
	if e == nil {
		s.log.Warnf("unable to find %s subscription %d", typ, tok)
		return errcode.NotFound
	}
	e.paused = paused
	if paused {
		s.log.Infof("%s subscription %d paused", typ, tok)
		return errcode.OK
	}
	s.log.Infof("%s subscription %d unpaused", typ, tok)
	if err := s.notifyEntry(typ, e); err != nil {
		s.log.Errorf("unable to notify %s entry: %v", typ, err)
	}
	return errcode.OK
}
