// Package adc holds the acquisition hardware drivers behind the engine's
// facade: a simulated device for host builds and tests, and the MCP3008
// SPI converter for hardware builds.
package adc

import (
	"sync"
	"time"

	"sensornode-go/errcode"
)

// simVrefCode is the reference code a nominally supplied simulated device
// reports, matching the factory calibration point.
const simVrefCode = 1656

// Sim is an in-memory acquisition device. Raw channel values and the
// reference code are programmable. With auto completion a conversion
// finishes on its own after the configured latency; in manual mode tests
// step the device with Tick and Complete.
type Sim struct {
	mu        sync.Mutex
	chanCount int
	raw       []uint16
	vrefCode  int32
	vrefErr   error

	ready   bool
	manual  bool
	latency time.Duration

	period  time.Duration
	trigger func()
	pending func(raw []uint16)
	reads   int

	stop chan struct{}
}

// NewSim builds a ready device with all channels at zero and the reference
// at its calibration code.
func NewSim(chanCount int) *Sim {
	return &Sim{
		chanCount: chanCount,
		raw:       make([]uint16, chanCount),
		vrefCode:  simVrefCode,
		ready:     true,
	}
}

// SetManual switches to manual stepping: the timer never fires on its own
// and conversions stay pending until Complete.
func (s *Sim) SetManual(manual bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manual = manual
}

// SetLatency sets the auto-completion delay of a conversion.
func (s *Sim) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

// SetReady controls whether ConfigureChannels accepts.
func (s *Sim) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// SetRaw programs one channel's next conversion result.
func (s *Sim) SetRaw(ch int, v uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch >= 0 && ch < s.chanCount {
		s.raw[ch] = v
	}
}

// SetVref programs the reference code; FailVref makes reads fail instead.
func (s *Sim) SetVref(code int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vrefCode = code
	s.vrefErr = nil
}

func (s *Sim) FailVref(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vrefErr = err
}

// Reads reports how many conversions were started.
func (s *Sim) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

func (s *Sim) ConfigureChannels() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return errcode.DeviceBusy
	}
	return nil
}

func (s *Sim) ConfigureTimer(period time.Duration, trigger func()) error {
	if period <= 0 || trigger == nil {
		return errcode.InvalidParams
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.period = period
	s.trigger = trigger
	return nil
}

func (s *Sim) StartTimer() error {
	s.mu.Lock()
	if s.trigger == nil {
		s.mu.Unlock()
		return errcode.InvalidParams
	}
	if s.manual || s.stop != nil {
		s.mu.Unlock()
		return nil
	}
	stop := make(chan struct{})
	s.stop = stop
	period := s.period
	trigger := s.trigger
	s.mu.Unlock()

	go func() {
		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				trigger()
			}
		}
	}()
	return nil
}

func (s *Sim) StopTimer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	return nil
}

// ReadAsync starts one conversion. A second start while one is pending is
// refused, as the hardware would.
func (s *Sim) ReadAsync(done func(raw []uint16)) error {
	if done == nil {
		return errcode.InvalidParams
	}
	s.mu.Lock()
	if s.pending != nil {
		s.mu.Unlock()
		return errcode.DeviceBusy
	}
	s.reads++
	if s.manual {
		s.pending = done
		s.mu.Unlock()
		return nil
	}
	latency := s.latency
	snapshot := make([]uint16, len(s.raw))
	copy(snapshot, s.raw)
	s.mu.Unlock()

	if latency > 0 {
		time.AfterFunc(latency, func() { done(snapshot) })
	} else {
		go done(snapshot)
	}
	return nil
}

func (s *Sim) ReadVref() (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.vrefErr != nil {
		return 0, s.vrefErr
	}
	return s.vrefCode, nil
}

// Tick fires the installed trigger once. Manual-mode tests drive the
// sampling cadence with it.
func (s *Sim) Tick() {
	s.mu.Lock()
	trigger := s.trigger
	s.mu.Unlock()
	if trigger != nil {
		trigger()
	}
}

// Complete finishes the pending conversion with the current raw values.
// It reports whether one was pending.
func (s *Sim) Complete() bool {
	s.mu.Lock()
	done := s.pending
	s.pending = nil
	snapshot := make([]uint16, len(s.raw))
	copy(snapshot, s.raw)
	s.mu.Unlock()
	if done == nil {
		return false
	}
	done(snapshot)
	return true
}
