package heartbeat

import (
	"context"
	"testing"
	"time"

	"sensornode-go/pool"
	"sensornode-go/services/datastore"
	"sensornode-go/types"
)

func TestHeartbeatPublishesUptime(t *testing.T) {
	cfg := datastore.Config{
		ResponseTimeout: 500 * time.Millisecond,
		ControlTimeout:  500 * time.Millisecond,
	}
	for typ := types.DatapointType(0); typ < types.TypeCount; typ++ {
		cfg.MaxSubs[typ] = 2
	}
	store, err := datastore.New(cfg)
	if err != nil {
		t.Fatalf("datastore.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	store.Start(ctx)

	notified := make(chan uint32, 8)
	if _, err := store.SubscribeUint(datastore.UintFirst, 1, func(p *pool.Payload, count int) error {
		v := p.Data[0].Uint()
		p.Release()
		notified <- v
		return nil
	}); err != nil {
		t.Fatalf("SubscribeUint: %v", err)
	}
	<-notified // initial snapshot

	New(store, Config{ID: datastore.UintFirst, Interval: 20 * time.Millisecond}).Start(ctx)

	// The first beats write uptime 0, which equals the default and is not a
	// change; wait for the one-second rollover instead of asserting on it.
	select {
	case v := <-notified:
		if v == 0 {
			t.Errorf("change notification for unchanged uptime %d", v)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no uptime notification")
	}
}
