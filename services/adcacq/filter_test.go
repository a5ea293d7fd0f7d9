package adcacq

import (
	"sync"
	"testing"
	"time"

	"sensornode-go/errcode"
)

func mustStage(t *testing.T, f *filterBank, ch, order int) int32 {
	t.Helper()
	v, err := f.stage(ch, order)
	if err != nil {
		t.Fatalf("stage(%d, %d): %v", ch, order, err)
	}
	return v
}

func TestFilterConvergence(t *testing.T) {
	f, err := newFilterBank(1)
	if err != nil {
		t.Fatalf("newFilterBank: %v", err)
	}
	for i := 0; i < 50; i++ {
		if err := f.push(0, 10000, 51); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
	}
	s0 := mustStage(t, f, 0, 0)
	s1 := mustStage(t, f, 0, 1)
	s2 := mustStage(t, f, 0, 2)
	s3 := mustStage(t, f, 0, 3)

	if s0 != 10000 {
		t.Errorf("stage 0: got %d want 10000", s0)
	}
	if s3 < 9000 || s3 > 10000 {
		t.Errorf("stage 3 after 50 pushes: got %d want [9000, 10000]", s3)
	}
	if !(s1 >= s2 && s2 >= s3) {
		t.Errorf("cascade order broken: s1=%d s2=%d s3=%d", s1, s2, s3)
	}
}

func TestFilterIndependentChannels(t *testing.T) {
	f, err := newFilterBank(2)
	if err != nil {
		t.Fatalf("newFilterBank: %v", err)
	}
	if err := f.push(0, 1000, 31); err != nil {
		t.Fatalf("push ch0: %v", err)
	}
	if err := f.push(1, 2000, 31); err != nil {
		t.Fatalf("push ch1: %v", err)
	}
	if v := mustStage(t, f, 0, 0); v != 1000 {
		t.Errorf("ch0 raw: got %d want 1000", v)
	}
	if v := mustStage(t, f, 1, 0); v != 2000 {
		t.Errorf("ch1 raw: got %d want 2000", v)
	}
	// Pushing one channel must not disturb the other's states.
	var ch0Before [cellsPerChan]int32
	for order := 0; order < cellsPerChan; order++ {
		ch0Before[order] = mustStage(t, f, 0, order)
	}
	for i := 0; i < 10; i++ {
		if err := f.push(1, 2000, 31); err != nil {
			t.Fatalf("push ch1 round %d: %v", i, err)
		}
	}
	for order := 0; order < cellsPerChan; order++ {
		if got := mustStage(t, f, 0, order); got != ch0Before[order] {
			t.Errorf("ch0 order %d changed by ch1 pushes: %d -> %d",
				order, ch0Before[order], got)
		}
	}
}

func TestFilterMonotoneAndSettles(t *testing.T) {
	f, err := newFilterBank(1)
	if err != nil {
		t.Fatalf("newFilterBank: %v", err)
	}
	const raw = 12345
	prev := int32(0)
	for i := 0; i < 2000; i++ {
		if err := f.push(0, raw, 100); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
		s3 := mustStage(t, f, 0, 3)
		if s3 < prev {
			t.Fatalf("stage 3 regressed at push %d: %d -> %d", i, prev, s3)
		}
		if s3 > raw {
			t.Fatalf("stage 3 overshot at push %d: %d", i, s3)
		}
		prev = s3
	}
	if prev < raw-1 {
		t.Errorf("stage 3 did not settle: got %d want >= %d", prev, raw-1)
	}
}

func TestFilterTauClamped(t *testing.T) {
	low, _ := newFilterBank(1)
	one, _ := newFilterBank(1)
	high, _ := newFilterBank(1)
	max, _ := newFilterBank(1)
	for i := 0; i < 10; i++ {
		low.push(0, 5000, 0)
		one.push(0, 5000, 1)
		high.push(0, 5000, 1000000)
		max.push(0, 5000, 511)
	}
	for order := 0; order < cellsPerChan; order++ {
		if a, b := mustStage(t, low, 0, order), mustStage(t, one, 0, order); a != b {
			t.Errorf("tau 0 vs 1, order %d: %d != %d", order, a, b)
		}
		if a, b := mustStage(t, high, 0, order), mustStage(t, max, 0, order); a != b {
			t.Errorf("tau 1e6 vs 511, order %d: %d != %d", order, a, b)
		}
	}
}

func TestFilterFullScaleNoOverflow(t *testing.T) {
	f, _ := newFilterBank(1)
	// Full 14-bit range at maximum tau drives the largest intermediate
	// products the cascade ever sees.
	for i := 0; i < 100; i++ {
		if err := f.push(0, fullRangeCode, 511); err != nil {
			t.Fatalf("push %d: %v", i, err)
		}
		s3 := mustStage(t, f, 0, 3)
		if s3 < 0 || s3 > fullRangeCode {
			t.Fatalf("stage 3 out of range at push %d: %d", i, s3)
		}
	}
}

func TestFilterConcurrentPushAndRead(t *testing.T) {
	f, err := newFilterBank(2)
	if err != nil {
		t.Fatalf("newFilterBank: %v", err)
	}

	// Pushes come from the conversion-completion goroutine while the
	// processing worker reads stages; the cells must stay coherent with no
	// torn values.
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if err := f.push(i%2, int32(i%(fullRangeCode+1)), 51); err != nil {
				t.Errorf("push: %v", err)
				return
			}
		}
	}()

	deadline := time.Now().Add(100 * time.Millisecond)
	for time.Now().Before(deadline) {
		for ch := 0; ch < 2; ch++ {
			for order := 0; order < cellsPerChan; order++ {
				v, err := f.stage(ch, order)
				if err != nil {
					t.Fatalf("stage(%d, %d): %v", ch, order, err)
				}
				if v < 0 || v > fullRangeCode {
					t.Fatalf("stage(%d, %d) out of range: %d", ch, order, v)
				}
			}
		}
	}
	close(stop)
	wg.Wait()
}

func TestFilterArgChecks(t *testing.T) {
	if _, err := newFilterBank(0); err != errcode.InvalidParams {
		t.Errorf("newFilterBank(0): got %v want %v", err, errcode.InvalidParams)
	}
	f, _ := newFilterBank(2)
	if err := f.push(2, 1, 51); err != errcode.InvalidParams {
		t.Errorf("push bad channel: got %v want %v", err, errcode.InvalidParams)
	}
	if err := f.push(-1, 1, 51); err != errcode.InvalidParams {
		t.Errorf("push negative channel: got %v want %v", err, errcode.InvalidParams)
	}
	if _, err := f.stage(0, 4); err != errcode.InvalidParams {
		t.Errorf("stage bad order: got %v want %v", err, errcode.InvalidParams)
	}
	if _, err := f.stage(2, 0); err != errcode.InvalidParams {
		t.Errorf("stage bad channel: got %v want %v", err, errcode.InvalidParams)
	}
}
