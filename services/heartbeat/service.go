// Package heartbeat publishes a liveness counter: once per interval it
// bumps an unsigned datapoint with the node's uptime in seconds, so any
// datastore subscriber (or a shell read) can tell the firmware is alive.
package heartbeat

import (
	"context"
	"time"

	"sensornode-go/services/datastore"
	"sensornode-go/x/logx"
)

const defaultInterval = time.Second

// Config selects the target datapoint and the beat interval.
type Config struct {
	ID       uint32
	Interval time.Duration
}

type Service struct {
	store    *datastore.Store
	id       uint32
	interval time.Duration
	log      *logx.Logger
}

func New(store *datastore.Store, cfg Config) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	return &Service{
		store:    store,
		id:       cfg.ID,
		interval: cfg.Interval,
		log:      logx.New("heartbeat"),
	}
}

// Start launches the beat loop. It returns once the loop runs.
func (s *Service) Start(ctx context.Context) {
	go s.serviceLoop(ctx)
}

func (s *Service) serviceLoop(ctx context.Context) {
	tick := time.NewTicker(s.interval)
	defer tick.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			s.log.Infof("stopping")
			return
		case now := <-tick.C:
			uptime := uint32(now.Sub(start) / time.Second)
			if err := s.store.WriteUint(s.id, []uint32{uptime}, nil); err != nil {
				s.log.Errorf("unable to publish uptime: %v", err)
			}
		}
	}
}
