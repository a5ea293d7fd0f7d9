package adcacq

import (
	"sync/atomic"

	"sensornode-go/errcode"
	"sensornode-go/x/mathx"
)

// Cascade of three first-order RC stages per channel, integer-only. Each
// channel owns four cells: cell 0 holds the last raw sample as given,
// cells 1..3 hold the cascaded states left-shifted by prescaleBits. With
// alpha = tau / 2^prescaleBits the effective third-order -3 dB cutoff sits
// at roughly 0.51x the single-stage cutoff.
//
// The completion context writes the cells while the processing worker and
// the shell read them, so every cell is an atomic.Int32. Only the
// completion context writes; no read-modify-write contention exists, the
// atomics are there for the cross-goroutine visibility guarantee.

const (
	prescaleBits = 9
	tauMin       = 1
	tauMax       = 511

	cellsPerChan = 4
)

type filterBank struct {
	cells     []atomic.Int32
	chanCount int
}

func newFilterBank(chanCount int) (*filterBank, error) {
	if chanCount <= 0 {
		return nil, errcode.InvalidParams
	}
	return &filterBank{
		cells:     make([]atomic.Int32, chanCount*cellsPerChan),
		chanCount: chanCount,
	}, nil
}

// push advances the channel's cascade with one raw sample. tau is clamped
// to [1, 511]; products go through int64 so a full-scale step cannot wrap.
func (f *filterBank) push(ch int, raw, tau int32) error {
	if ch < 0 || ch >= f.chanCount {
		return errcode.InvalidParams
	}
	tau = mathx.Clamp(tau, tauMin, tauMax)

	c := f.cells[ch*cellsPerChan : ch*cellsPerChan+cellsPerChan]
	c[0].Store(raw)
	s := int64(raw) << prescaleBits
	for i := 1; i < cellsPerChan; i++ {
		prev := int64(c[i].Load())
		prev += ((s - prev) * int64(tau)) >> prescaleBits
		c[i].Store(int32(prev))
		s = prev
	}
	return nil
}

// stage returns one cell of the channel. Order 0 is the raw sample as
// stored; orders 1..3 come back right-shifted to the raw scale.
func (f *filterBank) stage(ch, order int) (int32, error) {
	if ch < 0 || ch >= f.chanCount || order < 0 || order >= cellsPerChan {
		return 0, errcode.InvalidParams
	}
	v := f.cells[ch*cellsPerChan+order].Load()
	if order == 0 {
		return v, nil
	}
	return v >> prescaleBits, nil
}
