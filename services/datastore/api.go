package datastore

import (
	"time"

	"sensornode-go/errcode"
	"sensornode-go/types"
)

// Producer-side half of the worker protocol. Every operation allocates a
// pool payload, enqueues a message and, when a response channel is
// involved, waits on it with a finite timeout. Payload ownership follows
// the transfer protocol: on enqueue failure the producer releases; once
// enqueued, write payloads belong to the worker and read payloads come
// back to the producer with the response.

// read copies the range [id, id+count) into out. The caller supplies the
// response channel (capacity >= 1) so concurrent readers never share one.
func (s *Store) read(typ types.DatapointType, id uint32, count int, resp chan Response, out []types.Word) error {
	p, err := s.pool.Alloc(count)
	if err != nil {
		s.log.Errorf("unable to allocate a buffer for operation: %v", err)
		return err
	}

	msg := message{op: opRead, typ: typ, id: id, payload: p, resp: resp}
	if !s.enqueue(msg) {
		p.Release()
		return errcode.QueueFull
	}

	select {
	case r := <-resp:
		if r.Status == errcode.OK {
			copy(out, p.Data)
		}
		p.Release()
		if r.Status != errcode.OK {
			return r.Status
		}
		return nil
	case <-time.After(s.respTimeout):
		// The worker may still be about to fill the payload; releasing it
		// here would let another producer reuse the block mid-fill. Park
		// ownership until the worker's response lands (it always does, the
		// worker never drops a message), then release.
		go func() {
			<-resp
			p.Release()
		}()
		return errcode.Timeout
	}
}

// write copies values into a payload and hands it to the worker. With a
// nil response channel the call is fire-and-forget.
func (s *Store) write(typ types.DatapointType, id uint32, values []types.Word, resp chan Response) error {
	p, err := s.pool.Alloc(len(values))
	if err != nil {
		s.log.Errorf("unable to allocate a buffer for operation: %v", err)
		return err
	}
	copy(p.Data, values)

	msg := message{op: opWrite, typ: typ, id: id, payload: p, resp: resp}
	if !s.enqueue(msg) {
		p.Release()
		return errcode.QueueFull
	}

	if resp == nil {
		return nil
	}
	select {
	case r := <-resp:
		if r.Status != errcode.OK {
			return r.Status
		}
		return nil
	case <-time.After(s.respTimeout):
		return errcode.Timeout
	}
}

// subscribe registers cb over [startID, startID+count) and returns its
// token. The registration and the initial snapshot notification both run
// on the worker so registry mutation stays single-threaded.
func (s *Store) subscribe(typ types.DatapointType, startID uint32, count int, cb Callback) (Token, error) {
	if cb == nil || count <= 0 {
		return 0, errcode.InvalidParams
	}
	resp := make(chan Response, 1)
	msg := message{
		op:    opSubscribe,
		typ:   typ,
		entry: subEntry{startID: startID, count: uint32(count), cb: cb},
		resp:  resp,
	}
	if !s.enqueue(msg) {
		return 0, errcode.QueueFull
	}
	select {
	case r := <-resp:
		if r.Status != errcode.OK {
			return 0, r.Status
		}
		return r.Token, nil
	case <-time.After(s.ctlTimeout):
		return 0, errcode.Timeout
	}
}

func (s *Store) subControl(op opCode, typ types.DatapointType, tok Token) error {
	resp := make(chan Response, 1)
	if !s.enqueue(message{op: op, typ: typ, token: tok, resp: resp}) {
		return errcode.QueueFull
	}
	select {
	case r := <-resp:
		if r.Status != errcode.OK {
			return r.Status
		}
		return nil
	case <-time.After(s.ctlTimeout):
		return errcode.Timeout
	}
}

func (s *Store) unsubscribe(typ types.DatapointType, tok Token) error {
	return s.subControl(opUnsubscribe, typ, tok)
}

func (s *Store) pause(typ types.DatapointType, tok Token) error {
	return s.subControl(opPause, typ, tok)
}

func (s *Store) unpause(typ types.DatapointType, tok Token) error {
	return s.subControl(opUnpause, typ, tok)
}

// scratch allocates the conversion buffer the typed wrappers use between
// their element type and the Word representation.
func scratch(n int) []types.Word { return make([]types.Word, n) }
