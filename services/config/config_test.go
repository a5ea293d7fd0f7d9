package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"sensornode-go/types"
)

func TestLoadEmptyKeepsDefaults(t *testing.T) {
	cfg, err := Load(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("empty document changed defaults (-want +got):\n%s", diff)
	}
}

func TestLoadPartialOverride(t *testing.T) {
	doc := `
log_level: debug
adc:
  sampling_period_us: 250
  taus: [31, 31]
datastore:
  max_subs:
    float: 8
`
	cfg, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level: got %q want debug", cfg.LogLevel)
	}
	if cfg.ADC.SamplingPeriodUS != 250 {
		t.Errorf("sampling_period_us: got %d want 250", cfg.ADC.SamplingPeriodUS)
	}
	if diff := cmp.Diff([]int32{31, 31}, cfg.ADC.Taus); diff != "" {
		t.Errorf("taus (-want +got):\n%s", diff)
	}
	if cfg.Datastore.MaxSubs.Float != 8 {
		t.Errorf("max_subs.float: got %d want 8", cfg.Datastore.MaxSubs.Float)
	}
	// Untouched knobs stay on their defaults.
	if cfg.ADC.NotificationRateMS != 50 {
		t.Errorf("notification_rate_ms: got %d want 50", cfg.ADC.NotificationRateMS)
	}
	if cfg.Datastore.MaxSubs.Binary != 4 {
		t.Errorf("max_subs.binary: got %d want 4", cfg.Datastore.MaxSubs.Binary)
	}
}

func TestLoadRejectsUnknownField(t *testing.T) {
	if _, err := Load(strings.NewReader("sampling_rate: 100\n")); err == nil {
		t.Error("unknown top-level field accepted")
	}
	if _, err := Load(strings.NewReader("adc:\n  period: 100\n")); err == nil {
		t.Error("unknown nested field accepted")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	for _, doc := range []string{
		"log_level: loud\n",
		"adc:\n  chan_count: 0\n",
		"adc:\n  sampling_period_us: -1\n",
		"datastore:\n  response_timeout_ms: 0\n",
		"datastore:\n  max_subs:\n    uint: -1\n",
	} {
		if _, err := Load(strings.NewReader(doc)); err == nil {
			t.Errorf("accepted invalid document %q", doc)
		}
	}
}

func TestServiceConfigMapping(t *testing.T) {
	cfg := Default()

	ds := cfg.DatastoreConfig()
	if ds.ResponseTimeout != 5*time.Millisecond {
		t.Errorf("response timeout: got %v want 5ms", ds.ResponseTimeout)
	}
	if ds.MaxSubs[types.MultiState] != 4 {
		t.Errorf("multi_state max subs: got %d want 4", ds.MaxSubs[types.MultiState])
	}

	ac := cfg.ADCConfig()
	if ac.SamplingPeriod != 100*time.Microsecond {
		t.Errorf("sampling period: got %v want 100µs", ac.SamplingPeriod)
	}
	if ac.NotificationRate != 50*time.Millisecond {
		t.Errorf("notification rate: got %v want 50ms", ac.NotificationRate)
	}
	if ac.ChanCount != 4 {
		t.Errorf("chan count: got %d want 4", ac.ChanCount)
	}
}
