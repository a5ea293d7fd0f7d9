// Package datastore is the typed publish/subscribe datapoint store. All
// arena and registry state is owned by a single worker goroutine; producers
// talk to it through a bounded message queue and pool-backed payloads.
package datastore

import (
	"context"
	"time"

	"sensornode-go/errcode"
	"sensornode-go/pool"
	"sensornode-go/types"
	"sensornode-go/x/logx"
	"sensornode-go/x/timex"
)

const (
	// queueDepth is the bounded request queue capacity.
	queueDepth = 10
	// poolBlocks is the payload pool size.
	poolBlocks = 10

	defaultQueueTimeout    = 100 * time.Millisecond
	defaultResponseTimeout = 5 * time.Millisecond
	defaultControlTimeout  = 50 * time.Millisecond
)

var errInvalid = errcode.InvalidParams

// Token identifies a registered subscription. It replaces callback identity
// as the removal key; tokens are assigned by the worker and never reused.
type Token uint32

// Callback receives a snapshot of a subscription's range. The payload is
// owned by the callback, which must Release it when done. count is the
// number of values in the snapshot.
type Callback func(p *pool.Payload, count int) error

type opCode uint8

const (
	opRead opCode = iota
	opWrite
	opSubscribe
	opUnsubscribe
	opPause
	opUnpause
)

// Response is the worker's answer on a caller-supplied channel.
type Response struct {
	Status errcode.Code
	Token  Token
}

type message struct {
	op      opCode
	typ     types.DatapointType
	id      uint32
	payload *pool.Payload
	entry   subEntry
	token   Token
	resp    chan Response
}

// Config carries the datastore init parameters.
type Config struct {
	// MaxSubs bounds the subscription registry of each type.
	MaxSubs [types.TypeCount]int
	// QueueTimeout is the worker's timed wait on its queue.
	QueueTimeout time.Duration
	// ResponseTimeout bounds read/write response waits.
	ResponseTimeout time.Duration
	// ControlTimeout bounds subscribe/unsubscribe/pause response waits.
	ControlTimeout time.Duration
	// AllocTimeout bounds pool block allocation.
	AllocTimeout time.Duration
}

// Store owns the six typed arenas, their subscription registries, the
// payload pool and the request queue.
type Store struct {
	arenas [types.TypeCount][]types.Datapoint
	regs   [types.TypeCount]*registry
	pool   *pool.Pool
	queue  chan message

	queueTimeout time.Duration
	respTimeout  time.Duration
	ctlTimeout   time.Duration

	tokenSeq Token // worker-owned

	log *logx.Logger
}

// New builds the arenas from the declaration tables, sizes the pool to
// hold the largest arena and creates (but does not start) the worker state.
func New(cfg Config) (*Store, error) {
	if cfg.QueueTimeout <= 0 {
		cfg.QueueTimeout = defaultQueueTimeout
	}
	if cfg.ResponseTimeout <= 0 {
		cfg.ResponseTimeout = defaultResponseTimeout
	}
	if cfg.ControlTimeout <= 0 {
		cfg.ControlTimeout = defaultControlTimeout
	}

	s := &Store{
		queue:        make(chan message, queueDepth),
		queueTimeout: cfg.QueueTimeout,
		respTimeout:  cfg.ResponseTimeout,
		ctlTimeout:   cfg.ControlTimeout,
		log:          logx.New("datastore"),
	}

	for typ := types.DatapointType(0); typ < types.TypeCount; typ++ {
		s.arenas[typ] = buildArena(typ)
		max := cfg.MaxSubs[typ]
		if max < 0 {
			return nil, errcode.InvalidParams
		}
		s.regs[typ] = newRegistry(max)
	}

	p, err := pool.New(poolBlocks, maxArenaLen(), cfg.AllocTimeout)
	if err != nil {
		return nil, err
	}
	s.pool = p

	return s, nil
}

// Start launches the worker goroutine. It returns once the worker runs.
func (s *Store) Start(ctx context.Context) {
	go s.run(ctx)
}

// Pool exposes the payload pool so ownership can be audited: after every
// completed request the free-block count returns to BlockCount.
func (s *Store) Pool() *pool.Pool { return s.pool }

func (s *Store) run(ctx context.Context) {
	s.log.Infof("worker started")
	timer := time.NewTimer(s.queueTimeout)
	defer timer.Stop()

	for {
		timex.ResetTimer(timer, s.queueTimeout)
		select {
		case <-ctx.Done():
			s.log.Infof("worker stopped")
			return
		case msg := <-s.queue:
			s.dispatch(msg)
		case <-timer.C:
			// Idle wait expired; mirrors the RTOS timed queue get.
		}
	}
}

func (s *Store) dispatch(msg message) {
	switch msg.op {
	case opRead:
		st := s.applyRead(msg.typ, msg.id, msg.payload)
		s.respond(msg, Response{Status: st})
	case opWrite:
		st, changed := s.applyWrite(msg.typ, msg.id, msg.payload.Data)
		msg.payload.Release()
		if changed {
			s.fanOut(msg.typ, msg.id)
		}
		s.respond(msg, Response{Status: st})
	case opSubscribe:
		tok, st := s.addSub(msg.typ, msg.entry)
		s.respond(msg, Response{Status: st, Token: tok})
	case opUnsubscribe:
		s.respond(msg, Response{Status: s.regs[msg.typ].remove(msg.token)})
	case opPause:
		s.respond(msg, Response{Status: s.setPaused(msg.typ, msg.token, true)})
	case opUnpause:
		s.respond(msg, Response{Status: s.setPaused(msg.typ, msg.token, false)})
	default:
		s.log.Warnf("unsupported message type %d", msg.op)
		if msg.payload != nil {
			msg.payload.Release()
		}
		s.respond(msg, Response{Status: errcode.Unsupported})
	}
}

// applyRead copies the arena slice [id, id+count) into the payload tail.
func (s *Store) applyRead(typ types.DatapointType, id uint32, p *pool.Payload) errcode.Code {
	arena := s.arenas[typ]
	count := len(p.Data)
	if !rangeValid(id, count, len(arena)) {
		s.log.Errorf("invalid datapoint ID %d or value count %d", id, count)
		return errcode.InvalidParams
	}
	for i := 0; i < count; i++ {
		p.Data[i] = arena[id+uint32(i)].Value
	}
	return errcode.OK
}

// applyWrite copies values into the arena slice and reports whether any
// cell changed bit-for-bit. An invalid range leaves the arena untouched.
func (s *Store) applyWrite(typ types.DatapointType, id uint32, values []types.Word) (errcode.Code, bool) {
	arena := s.arenas[typ]
	count := len(values)
	if !rangeValid(id, count, len(arena)) {
		s.log.Errorf("invalid datapoint ID %d or value count %d", id, count)
		return errcode.InvalidParams, false
	}
	changed := false
	for i := 0; i < count; i++ {
		cell := &arena[id+uint32(i)]
		if cell.Value != values[i] {
			changed = true
		}
		cell.Value = values[i]
	}
	return errcode.OK, changed
}

func rangeValid(id uint32, count, arenaLen int) bool {
	return count > 0 && id < uint32(arenaLen) && uint64(id)+uint64(count) <= uint64(arenaLen)
}

func (s *Store) respond(msg message, r Response) {
	if msg.resp == nil {
		return
	}
	select {
	case msg.resp <- r:
	default:
		s.log.Errorf("unable to respond to operation %d for %s datapoint %d",
			msg.op, msg.typ, msg.id)
	}
}

func (s *Store) enqueue(msg message) bool {
	select {
	case s.queue <- msg:
		return true
	default:
		return false
	}
}
