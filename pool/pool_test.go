package pool

import (
	"sync"
	"testing"
	"time"

	"sensornode-go/errcode"
	"sensornode-go/types"
)

func TestAllocRelease(t *testing.T) {
	p, err := New(4, 8, 0)
	if err != nil {
		t.Fatal(err)
	}
	if p.Free() != 4 {
		t.Fatalf("fresh pool free = %d, want 4", p.Free())
	}

	pl, err := p.Alloc(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(pl.Data) != 5 || pl.DataLen != 20 {
		t.Fatalf("tail sized %d/%d bytes, want 5/20", len(pl.Data), pl.DataLen)
	}
	pl.Data[0] = types.UintWord(7)
	pl.Release()
	if p.Free() != 4 {
		t.Fatalf("free after release = %d, want 4", p.Free())
	}
}

func TestAllocBounds(t *testing.T) {
	p, _ := New(2, 4, 0)
	if _, err := p.Alloc(0); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("Alloc(0) = %v, want invalid_params", err)
	}
	if _, err := p.Alloc(5); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("Alloc(>blockLen) = %v, want invalid_params", err)
	}
}

func TestExhaustionTimesOut(t *testing.T) {
	p, _ := New(1, 4, 2*time.Millisecond)
	pl, err := p.Alloc(1)
	if err != nil {
		t.Fatal(err)
	}
	start := time.Now()
	_, err = p.Alloc(1)
	if errcode.Of(err) != errcode.NoSpace {
		t.Fatalf("exhausted Alloc = %v, want no_space", err)
	}
	if time.Since(start) < 2*time.Millisecond {
		t.Fatal("Alloc returned before the alloc timeout elapsed")
	}
	pl.Release()
	if _, err := p.Alloc(1); err != nil {
		t.Fatalf("Alloc after release failed: %v", err)
	}
}

func TestConcurrentChurn(t *testing.T) {
	p, _ := New(8, 16, 10*time.Millisecond)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				pl, err := p.Alloc(3)
				if err != nil {
					continue
				}
				pl.Data[2] = types.IntWord(int32(j))
				pl.Release()
			}
		}()
	}
	wg.Wait()
	if p.Free() != 8 {
		t.Fatalf("free after churn = %d, want 8", p.Free())
	}
}
