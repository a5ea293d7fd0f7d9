// Package pool provides the fixed-block payload pool used for inter-service
// message passing. A payload carries the identity of the pool it was drawn
// from; whoever holds it last releases it back there. Allocation is bounded
// in time and never touches the heap after New.
package pool

import (
	"time"

	"sensornode-go/errcode"
	"sensornode-go/types"
)

// DefaultAllocTimeout bounds how long Alloc waits for a free block.
const DefaultAllocTimeout = 4 * time.Millisecond

// Payload is one pool block: a header plus a value tail. DataLen mirrors
// len(Data) in bytes for parity with the wire layout; Data is resliced to
// the requested count on every Alloc.
type Payload struct {
	home    *Pool
	DataLen int
	Data    []types.Word
	backing []types.Word
}

// Release returns the payload to the pool it was allocated from.
// Only the last holder may call it.
func (p *Payload) Release() {
	p.home.free(p)
}

// Pool is a fixed-block allocator: count blocks of blockLen Words each.
// Alloc and free are safe from any goroutine.
type Pool struct {
	blocks       chan *Payload
	blockLen     int
	capacity     int
	allocTimeout time.Duration
}

// New builds a pool of count blocks, each able to hold blockLen values.
func New(count, blockLen int, allocTimeout time.Duration) (*Pool, error) {
	if count <= 0 || blockLen <= 0 {
		return nil, errcode.InvalidParams
	}
	if allocTimeout <= 0 {
		allocTimeout = DefaultAllocTimeout
	}
	p := &Pool{
		blocks:       make(chan *Payload, count),
		blockLen:     blockLen,
		capacity:     count,
		allocTimeout: allocTimeout,
	}
	for i := 0; i < count; i++ {
		pl := &Payload{home: p, backing: make([]types.Word, blockLen)}
		p.blocks <- pl
	}
	return p, nil
}

// Alloc takes a free block and sizes its tail for n values. It blocks up to
// the pool's alloc timeout and then fails with no_space.
func (p *Pool) Alloc(n int) (*Payload, error) {
	if n <= 0 || n > p.blockLen {
		return nil, errcode.InvalidParams
	}
	select {
	case pl := <-p.blocks:
		pl.Data = pl.backing[:n]
		pl.DataLen = n * 4
		return pl, nil
	default:
	}
	t := time.NewTimer(p.allocTimeout)
	defer t.Stop()
	select {
	case pl := <-p.blocks:
		pl.Data = pl.backing[:n]
		pl.DataLen = n * 4
		return pl, nil
	case <-t.C:
		return nil, errcode.NoSpace
	}
}

// Free reports the number of blocks currently available. The count returns
// to BlockCount after every completed request; tests lean on that.
func (p *Pool) Free() int { return len(p.blocks) }

// BlockCount reports the pool capacity.
func (p *Pool) BlockCount() int { return p.capacity }

// BlockLen reports the value capacity of one block.
func (p *Pool) BlockLen() int { return p.blockLen }

func (p *Pool) free(pl *Payload) {
	pl.Data = nil
	pl.DataLen = 0
	select {
	case p.blocks <- pl:
	default:
		// Free list already full: a block was released twice. Drop it so the
		// pool keeps its fixed size and leave a trace for the ownership audit.
		println("[pool] double release dropped")
	}
}
