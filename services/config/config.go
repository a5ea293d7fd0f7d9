// Package config loads the node configuration. Defaults are compiled in;
// a YAML document can override any knob. Unknown fields are rejected so a
// typo in a deployed config fails loudly instead of silently defaulting.
package config

import (
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"sensornode-go/errcode"
	"sensornode-go/services/adcacq"
	"sensornode-go/services/datastore"
	"sensornode-go/types"
	"sensornode-go/x/logx"
)

type Config struct {
	LogLevel  string    `yaml:"log_level"`
	Datastore Datastore `yaml:"datastore"`
	ADC       ADC       `yaml:"adc"`
}

type Datastore struct {
	QueueTimeoutMS    int     `yaml:"queue_timeout_ms"`
	ResponseTimeoutMS int     `yaml:"response_timeout_ms"`
	AllocTimeoutMS    int     `yaml:"alloc_timeout_ms"`
	MaxSubs           MaxSubs `yaml:"max_subs"`
}

type MaxSubs struct {
	Binary     int `yaml:"binary"`
	Button     int `yaml:"button"`
	Float      int `yaml:"float"`
	Int        int `yaml:"int"`
	MultiState int `yaml:"multi_state"`
	Uint       int `yaml:"uint"`
}

type ADC struct {
	SamplingPeriodUS   int     `yaml:"sampling_period_us"`
	NotificationRateMS int     `yaml:"notification_rate_ms"`
	Taus               []int32 `yaml:"taus"`
	MaxSubs            int     `yaml:"max_subs"`
	ChanCount          int     `yaml:"chan_count"`
}

// Default is the shipped configuration; Load starts from it so a partial
// document only overrides what it names.
func Default() Config {
	return Config{
		LogLevel: "info",
		Datastore: Datastore{
			QueueTimeoutMS:    100,
			ResponseTimeoutMS: 5,
			AllocTimeoutMS:    4,
			MaxSubs: MaxSubs{
				Binary: 4, Button: 4, Float: 4,
				Int: 4, MultiState: 4, Uint: 4,
			},
		},
		ADC: ADC{
			SamplingPeriodUS:   100,
			NotificationRateMS: 50,
			Taus:               []int32{51, 51, 51, 51},
			MaxSubs:            4,
			ChanCount:          4,
		},
	}
}

// Load parses a YAML document over the defaults.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if err == io.EOF {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error", "off", "none":
	default:
		return errcode.InvalidParams
	}
	if c.ADC.ChanCount <= 0 || c.ADC.SamplingPeriodUS <= 0 ||
		c.ADC.NotificationRateMS <= 0 || c.ADC.MaxSubs < 0 {
		return errcode.InvalidParams
	}
	d := c.Datastore
	if d.QueueTimeoutMS <= 0 || d.ResponseTimeoutMS <= 0 || d.AllocTimeoutMS <= 0 {
		return errcode.InvalidParams
	}
	for _, m := range []int{
		d.MaxSubs.Binary, d.MaxSubs.Button, d.MaxSubs.Float,
		d.MaxSubs.Int, d.MaxSubs.MultiState, d.MaxSubs.Uint,
	} {
		if m < 0 {
			return errcode.InvalidParams
		}
	}
	return nil
}

// Apply sets the global log level.
func (c Config) Apply() {
	logx.SetLevel(logx.ParseLevel(c.LogLevel))
}

// DatastoreConfig maps the knobs onto the datastore init parameters.
func (c Config) DatastoreConfig() datastore.Config {
	var subs [types.TypeCount]int
	subs[types.Binary] = c.Datastore.MaxSubs.Binary
	subs[types.Button] = c.Datastore.MaxSubs.Button
	subs[types.Float] = c.Datastore.MaxSubs.Float
	subs[types.Int] = c.Datastore.MaxSubs.Int
	subs[types.MultiState] = c.Datastore.MaxSubs.MultiState
	subs[types.Uint] = c.Datastore.MaxSubs.Uint
	return datastore.Config{
		MaxSubs:         subs,
		QueueTimeout:    time.Duration(c.Datastore.QueueTimeoutMS) * time.Millisecond,
		ResponseTimeout: time.Duration(c.Datastore.ResponseTimeoutMS) * time.Millisecond,
		AllocTimeout:    time.Duration(c.Datastore.AllocTimeoutMS) * time.Millisecond,
	}
}

// ADCConfig maps the knobs onto the engine init parameters.
func (c Config) ADCConfig() adcacq.Config {
	return adcacq.Config{
		ChanCount:        c.ADC.ChanCount,
		SamplingPeriod:   time.Duration(c.ADC.SamplingPeriodUS) * time.Microsecond,
		NotificationRate: time.Duration(c.ADC.NotificationRateMS) * time.Millisecond,
		Taus:             c.ADC.Taus,
		MaxSubs:          c.ADC.MaxSubs,
	}
}
