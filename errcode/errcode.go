package errcode

// Code is a stable, service-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	InvalidParams Code = "invalid_params"
	NoSpace       Code = "no_space"
	QueueFull     Code = "queue_full"
	NotFound      Code = "not_found"
	DeviceBusy    Code = "device_busy"
	Timeout       Code = "timeout"
	Unsupported   Code = "unsupported"

	Error Code = "error" // generic fallback
)

// Errno maps a Code to the numeric identifier the shell reports in
// "FAIL <errno>:" replies. The numbers follow the usual errno values so
// transcripts line up with the firmware's RTOS logs.
func Errno(c Code) int {
	switch c {
	case OK:
		return 0
	case InvalidParams:
		return 22 // EINVAL
	case NoSpace:
		return 28 // ENOSPC
	case QueueFull:
		return 105 // ENOBUFS
	case NotFound:
		return 3 // ESRCH
	case DeviceBusy:
		return 16 // EBUSY
	case Timeout:
		return 116 // ETIMEDOUT
	case Unsupported:
		return 95 // ENOTSUP
	default:
		return 5 // EIO
	}
}

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}
