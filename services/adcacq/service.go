// Package adcacq runs the analog acquisition pipeline: a hardware timer
// triggers conversions, the completion context feeds every channel through
// a third-order integer low-pass filter, and a slower worker tick converts
// the filtered states to volts and fans them out to subscribers.
package adcacq

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"sensornode-go/errcode"
	"sensornode-go/x/logx"
	"sensornode-go/x/mathx"
)

const (
	// fullRangeCode is the top of the conversion scale: 12-bit resolution
	// with 2 extra oversampling bits.
	fullRangeCode = 16383

	// Factory calibration of the internal reference: code read at the
	// nominal calibration supply voltage.
	vrefCalVoltage = 3.0
	vrefCalCode    = 1656

	defaultSamplingPeriod   = 100 * time.Microsecond
	defaultNotificationRate = 50 * time.Millisecond
	defaultTau              = 51
)

// Token identifies a registered volts subscription.
type Token uint32

// VoltsCallback receives the per-channel volts vector on each processing
// cycle. The slice is shared between subscribers of one cycle; treat it as
// read-only and copy anything kept past the call.
type VoltsCallback func(volts []float32)

// Config carries the engine init parameters.
type Config struct {
	ChanCount int
	// SamplingPeriod is the hardware trigger period.
	SamplingPeriod time.Duration
	// NotificationRate is the subscriber delivery period.
	NotificationRate time.Duration
	// Taus holds the per-channel filter coefficients. Missing entries fall
	// back to the default; values are clamped on every push.
	Taus []int32
	// MaxSubs bounds the subscription registry.
	MaxSubs int
	// Clock defaults to the wall clock; tests inject a mock.
	Clock clock.Clock
}

type voltsSub struct {
	cb     VoltsCallback
	token  Token
	paused bool
}

// Engine owns the acquisition state machine. The busy flag belongs to the
// trigger and completion contexts only; the processing worker never touches
// it.
type Engine struct {
	drv  Driver
	vref VrefReader
	clk  clock.Clock

	chanCount        int
	samplingPeriod   time.Duration
	notificationRate time.Duration
	taus             []int32

	busy        atomic.Bool
	ticks       atomic.Uint32
	conversions atomic.Uint32

	filters *filterBank

	mu       sync.Mutex
	volts    []float32
	subs     []voltsSub
	tokenSeq Token

	log *logx.Logger
}

// New validates the config, builds the filter bank and configures the
// driver's channels and trigger timer. The timer is not started yet.
func New(drv Driver, vref VrefReader, cfg Config) (*Engine, error) {
	if drv == nil || vref == nil || cfg.ChanCount <= 0 || cfg.MaxSubs < 0 {
		return nil, errcode.InvalidParams
	}
	if cfg.SamplingPeriod <= 0 {
		cfg.SamplingPeriod = defaultSamplingPeriod
	}
	if cfg.NotificationRate <= 0 {
		cfg.NotificationRate = defaultNotificationRate
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	taus := make([]int32, cfg.ChanCount)
	for i := range taus {
		if i < len(cfg.Taus) && cfg.Taus[i] != 0 {
			taus[i] = cfg.Taus[i]
		} else {
			taus[i] = defaultTau
		}
	}

	filters, err := newFilterBank(cfg.ChanCount)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		drv:              drv,
		vref:             vref,
		clk:              cfg.Clock,
		chanCount:        cfg.ChanCount,
		samplingPeriod:   cfg.SamplingPeriod,
		notificationRate: cfg.NotificationRate,
		taus:             taus,
		filters:          filters,
		volts:            make([]float32, cfg.ChanCount),
		subs:             make([]voltsSub, 0, cfg.MaxSubs),
		log:              logx.New("adc_acq"),
	}

	if err := drv.ConfigureChannels(); err != nil {
		e.log.Errorf("unable to configure channels: %v", err)
		return nil, err
	}
	if err := drv.ConfigureTimer(e.samplingPeriod, e.onTrigger); err != nil {
		e.log.Errorf("unable to configure trigger timer: %v", err)
		return nil, err
	}
	return e, nil
}

// Start launches the processing worker and the hardware trigger.
func (e *Engine) Start(ctx context.Context) error {
	go e.run(ctx)
	if err := e.drv.StartTimer(); err != nil {
		e.log.Errorf("unable to start trigger timer: %v", err)
		return err
	}
	e.log.Infof("sampling %d channels every %v", e.chanCount, e.samplingPeriod)
	return nil
}

// onTrigger runs in the timer's interrupt-like context. A tick that lands
// while the previous conversion is still in flight is dropped.
func (e *Engine) onTrigger() {
	e.ticks.Add(1)
	if !e.busy.CompareAndSwap(false, true) {
		e.log.Warnf("conversion overrun, tick dropped")
		return
	}
	if err := e.drv.ReadAsync(e.onDone); err != nil {
		e.busy.Store(false)
		e.log.Errorf("unable to start conversion: %v", err)
	}
}

// onDone runs in the conversion completion context. Per-sample work stays
// at one filter push per channel; a failed push does not stop the rest.
func (e *Engine) onDone(raw []uint16) {
	n := mathx.Min(len(raw), e.chanCount)
	for ch := 0; ch < n; ch++ {
		if err := e.filters.push(ch, int32(raw[ch]), e.taus[ch]); err != nil {
			e.log.Errorf("unable to filter channel %d: %v", ch, err)
		}
	}
	e.conversions.Add(1)
	e.busy.Store(false)
}

func (e *Engine) run(ctx context.Context) {
	ticker := e.clk.Ticker(e.notificationRate)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if err := e.drv.StopTimer(); err != nil {
				e.log.Errorf("unable to stop trigger timer: %v", err)
			}
			e.log.Infof("worker stopped")
			return
		case <-ticker.C:
			e.processData()
		}
	}
}

// processData converts the third-order states to volts against the measured
// reference and delivers the vector to every non-paused subscriber. A failed
// reference read skips the whole cycle; subscribers keep last cycle's values.
func (e *Engine) processData() {
	measured, err := e.vref.ReadVref()
	if err != nil || measured <= 0 {
		e.log.Errorf("unable to read voltage reference (%d): %v", measured, err)
		return
	}
	vdd := float32(vrefCalVoltage) * float32(vrefCalCode) / float32(measured)

	snapshot := make([]float32, e.chanCount)
	var cbs []VoltsCallback

	e.mu.Lock()
	for ch := 0; ch < e.chanCount; ch++ {
		s3, err := e.filters.stage(ch, 3)
		if err != nil {
			e.log.Errorf("unable to read filtered channel %d: %v", ch, err)
			continue
		}
		e.volts[ch] = float32(s3) * vdd / fullRangeCode
	}
	copy(snapshot, e.volts)
	for i := range e.subs {
		if !e.subs[i].paused {
			cbs = append(cbs, e.subs[i].cb)
		}
	}
	e.mu.Unlock()

	for _, cb := range cbs {
		cb(snapshot)
	}
}

// Subscribe registers cb for the periodic volts delivery and returns its
// token. Unlike datastore subscriptions there is no immediate snapshot; the
// first delivery comes with the next processing cycle.
func (e *Engine) Subscribe(cb VoltsCallback) (Token, error) {
	if cb == nil {
		return 0, errcode.InvalidParams
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.subs) == cap(e.subs) {
		e.log.Errorf("unable to add subscription, entries full")
		return 0, errcode.QueueFull
	}
	e.tokenSeq++
	e.subs = append(e.subs, voltsSub{cb: cb, token: e.tokenSeq})
	return e.tokenSeq, nil
}

// Unsubscribe removes the subscription, shifting later entries down.
func (e *Engine) Unsubscribe(tok Token) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.subs {
		if e.subs[i].token == tok {
			copy(e.subs[i:], e.subs[i+1:])
			e.subs = e.subs[:len(e.subs)-1]
			return nil
		}
	}
	return errcode.NotFound
}

func (e *Engine) setPaused(tok Token, paused bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.subs {
		if e.subs[i].token == tok {
			e.subs[i].paused = paused
			return nil
		}
	}
	return errcode.NotFound
}

func (e *Engine) Pause(tok Token) error   { return e.setPaused(tok, true) }
func (e *Engine) Unpause(tok Token) error { return e.setPaused(tok, false) }

// ChanCount reports the configured channel count.
func (e *Engine) ChanCount() int { return e.chanCount }

// Raw returns the third-order filtered state of a channel, in counts.
func (e *Engine) Raw(ch int) (int32, error) {
	return e.filters.stage(ch, 3)
}

// Volt returns the last computed voltage of a channel.
func (e *Engine) Volt(ch int) (float32, error) {
	if ch < 0 || ch >= e.chanCount {
		return 0, errcode.InvalidParams
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volts[ch], nil
}

// Ticks reports trigger ticks seen, including dropped ones.
func (e *Engine) Ticks() uint32 { return e.ticks.Load() }

// Conversions reports completed conversion sequences.
func (e *Engine) Conversions() uint32 { return e.conversions.Load() }
