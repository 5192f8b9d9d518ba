// Package progress animates research progress on the client. The backend
// reports no progress, so stages advance on a timer and stop at the last one
// until the request returns.
package progress

import (
	"context"
	"sync"
	"time"
)

// Stages are shown in order, one per tick.
var Stages = []string{
	"Generating search queries",
	"Searching the web",
	"Extracting article content",
	"Ranking sources",
	"Writing the report",
}

// StageAt returns the stage index after n ticks, capped at the last stage.
func StageAt(n int) int {
	if n < 0 {
		return 0
	}
	if n >= len(Stages) {
		return len(Stages) - 1
	}
	return n
}

// Percent is the fill for a stage. It never reaches 1; only completion does.
func Percent(stage int) float64 {
	return float64(StageAt(stage)+1) / float64(len(Stages)+1)
}

// Simulate drives r through Stages every interval until the returned stop
// func is called. stop finishes the reporter and is safe to call twice.
func Simulate(ctx context.Context, r Reporter, interval time.Duration) (stop func()) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	r.Start(len(Stages))
	r.Update(0, Stages[0])

	go func() {
		defer close(done)
		t := time.NewTicker(interval)
		defer t.Stop()
		ticks := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				prev := StageAt(ticks)
				ticks++
				if s := StageAt(ticks); s != prev {
					r.Update(s, Stages[s])
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
			r.Finish()
		})
	}
}
