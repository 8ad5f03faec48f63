package scheduler

import (
	"time"

	"github.com/mbeoliero/kit/log"
	"github.com/raulk/clock"
)

// Realtime schedules callbacks on the wall clock
type Realtime struct {
	clk clock.Clock
}

// NewRealtime creates a realtime scheduler backed by clk.
// A nil clk uses the system clock.
func NewRealtime(clk clock.Clock) *Realtime {
	if clk == nil {
		clk = clock.New()
	}
	return &Realtime{clk: clk}
}

// Now returns the wall-clock time
func (r *Realtime) Now() time.Time {
	return r.clk.Now()
}

// AfterFunc runs fn on its own goroutine after d; a panic in fn is logged, never propagated
func (r *Realtime) AfterFunc(d time.Duration, fn func()) {
	r.clk.AfterFunc(d, func() {
		defer func() {
			if rec := recover(); rec != nil {
				log.Warn("scheduled task panic: delay=%s, error=%v", d, rec)
			}
		}()
		fn()
	})
}
