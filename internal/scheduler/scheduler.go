// Package scheduler provides the clock and deferred task queue used to simulate
// acknowledgement latency. Realtime runs on the wall clock; Virtual only moves
// when Advance is called.
package scheduler

import "time"

// Scheduler is a time source that can run a callback after a delay
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func())
}
