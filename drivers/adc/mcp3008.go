//go:build tinygo

package adc

import (
	"machine"
	"sync"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/drivers/mcp3008"

	"sensornode-go/errcode"
)

// MCP3008 drives the 8-channel SPI converter. One channel is reserved for
// the reference divider; the rest are sample channels. Device reads are
// 16-bit left-justified, shifted down to the 14-bit engine scale.
//
// Conversions run on one long-lived goroutine with one reusable sample
// buffer: nothing allocates per trigger. The buffer is only valid for the
// duration of the completion callback.
type MCP3008 struct {
	mu  sync.Mutex // serializes SPI transactions
	dev mcp3008.Device

	chanCount int
	vrefChan  int
	raw       []uint16
	convQ     chan func(raw []uint16)

	period  time.Duration
	trigger func()
	stop    chan struct{}

	configured bool
}

// MCP3008Config selects the SPI bus wiring and the channel split.
type MCP3008Config struct {
	Bus       drivers.SPI
	CS        machine.Pin
	ChanCount int // sample channels, starting at CH0
	VrefChan  int // reference channel index
}

func NewMCP3008(cfg MCP3008Config) (*MCP3008, error) {
	if cfg.ChanCount <= 0 || cfg.ChanCount > 7 ||
		cfg.VrefChan < cfg.ChanCount || cfg.VrefChan > 7 {
		return nil, errcode.InvalidParams
	}
	return &MCP3008{
		dev:       mcp3008.New(cfg.Bus, cfg.CS),
		chanCount: cfg.ChanCount,
		vrefChan:  cfg.VrefChan,
		raw:       make([]uint16, cfg.ChanCount),
		convQ:     make(chan func(raw []uint16), 1),
	}, nil
}

func (m *MCP3008) ConfigureChannels() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.dev.Configure(); err != nil {
		return errcode.DeviceBusy
	}
	m.configured = true
	return nil
}

func (m *MCP3008) ConfigureTimer(period time.Duration, trigger func()) error {
	if period <= 0 || trigger == nil {
		return errcode.InvalidParams
	}
	m.period = period
	m.trigger = trigger
	return nil
}

func (m *MCP3008) StartTimer() error {
	if !m.configured || m.trigger == nil {
		return errcode.InvalidParams
	}
	if m.stop != nil {
		return nil
	}
	m.stop = make(chan struct{})
	go m.tickLoop(m.stop, m.period, m.trigger)
	go m.convLoop(m.stop)
	return nil
}

func (m *MCP3008) tickLoop(stop chan struct{}, period time.Duration, trigger func()) {
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
}

// convLoop owns the sample buffer and performs every conversion sequence.
func (m *MCP3008) convLoop(stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case done := <-m.convQ:
			m.mu.Lock()
			for ch := 0; ch < m.chanCount; ch++ {
				v, err := m.dev.Read(ch)
				if err != nil {
					// A failed channel keeps its zero; the filter absorbs it.
					m.raw[ch] = 0
					continue
				}
				m.raw[ch] = v >> 2
			}
			m.mu.Unlock()
			done(m.raw)
		}
	}
}

func (m *MCP3008) StopTimer() error {
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
	return nil
}

// ReadAsync hands one conversion to the conversion goroutine. A second
// start while one is queued is refused, as the hardware would.
func (m *MCP3008) ReadAsync(done func(raw []uint16)) error {
	if done == nil {
		return errcode.InvalidParams
	}
	select {
	case m.convQ <- done:
		return nil
	default:
		return errcode.DeviceBusy
	}
}

func (m *MCP3008) ReadVref() (int32, error) {
	m.mu.Lock()
	v, err := m.dev.Read(m.vrefChan)
	m.mu.Unlock()
	if err != nil {
		return 0, errcode.DeviceBusy
	}
	return int32(v >> 2), nil
}
