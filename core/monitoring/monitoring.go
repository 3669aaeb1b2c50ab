package monitoring

import "time"

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	// Recover reports a recovered panic value.
	Recover(r any)
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover(any)                               {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init sets the global monitor implementation. A nil monitor restores the
// no-op default.
func Init(m Monitor) {
	if m == nil {
		m = NopMonitor{}
	}
	current = m
}

// Current returns the global monitor.
func Current() Monitor { return current }

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if err != nil {
		current.CaptureException(err, tags)
	}
}

// Recover reports a panic to the global monitor and re-raises it. It must be
// deferred directly.
func Recover() {
	if r := recover(); r != nil {
		current.Recover(r)
		panic(r)
	}
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	current.Flush(d)
}
