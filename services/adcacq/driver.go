package adcacq

import "time"

// Driver is the hardware facade the engine drives. ConfigureTimer installs
// the periodic trigger; ReadAsync starts one conversion sequence and calls
// done from the completion context with one raw sample per channel. Both
// callbacks may run from interrupt-like contexts, so they must stay short.
type Driver interface {
	ConfigureChannels() error
	ConfigureTimer(period time.Duration, trigger func()) error
	StartTimer() error
	StopTimer() error
	ReadAsync(done func(raw []uint16)) error
}

// VrefReader reads the internal reference channel, in the same code scale
// as the sample channels. The engine uses it to correct for supply drift.
type VrefReader interface {
	ReadVref() (int32, error)
}
