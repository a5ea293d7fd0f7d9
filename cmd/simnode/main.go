// simnode runs the whole firmware stack on the host against the simulated
// ADC: synthetic waveforms feed the acquisition pipeline, volts land in the
// float arena, and the diagnostics shell is attached to stdin/stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"time"

	"sensornode-go/drivers/adc"
	"sensornode-go/services/adcacq"
	"sensornode-go/services/config"
	"sensornode-go/services/datastore"
	"sensornode-go/services/heartbeat"
	"sensornode-go/services/shell"
	"sensornode-go/types"
	"sensornode-go/x/mathx"
)

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }

func main() {
	cfgPath := flag.String("config", "", "YAML config file (defaults compiled in)")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		f, err := os.Open(*cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "unable to open config:", err)
			os.Exit(1)
		}
		cfg, err = config.Load(f)
		f.Close()
		if err != nil {
			fmt.Fprintln(os.Stderr, "unable to load config:", err)
			os.Exit(1)
		}
	}
	cfg.Apply()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	store, err := datastore.New(cfg.DatastoreConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, "unable to init datastore:", err)
		os.Exit(1)
	}
	store.Start(ctx)

	sim := adc.NewSim(cfg.ADC.ChanCount)
	engine, err := adcacq.New(sim, sim, cfg.ADCConfig())
	if err != nil {
		fmt.Fprintln(os.Stderr, "unable to init acquisition:", err)
		os.Exit(1)
	}
	if err := engine.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "unable to start acquisition:", err)
		os.Exit(1)
	}

	go waveforms(ctx, sim, cfg.ADC.ChanCount)

	// Bridge the volts deliveries into the float arena so shell reads and
	// datastore subscribers see live acquisition data.
	n := mathx.Min(cfg.ADC.ChanCount, datastore.Count(types.Float))
	if _, err := engine.Subscribe(func(volts []float32) {
		store.WriteFloat(datastore.FloatFirst, volts[:n], nil)
	}); err != nil {
		fmt.Fprintln(os.Stderr, "unable to subscribe to volts:", err)
		os.Exit(1)
	}

	heartbeat.New(store, heartbeat.Config{ID: datastore.UintFirst}).Start(ctx)

	if err := shell.New(engine, store).Run(ctx, stdio{}); err != nil && err != context.Canceled {
		fmt.Fprintln(os.Stderr, "shell:", err)
		os.Exit(1)
	}
}

// waveforms drives each simulated channel with a slow sine at a different
// phase, scaled to the upper half of the conversion range.
func waveforms(ctx context.Context, sim *adc.Sim, chanCount int) {
	t := time.NewTicker(5 * time.Millisecond)
	defer t.Stop()
	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			phase := now.Sub(start).Seconds()
			for ch := 0; ch < chanCount; ch++ {
				s := math.Sin(2*math.Pi*0.2*phase + float64(ch))
				sim.SetRaw(ch, uint16(8192+6000*s))
			}
		}
	}
}
