package busy

import (
	"context"
	"sync"
	"time"
)

// Spin calls render with the animated label immediately and then every
// period until ctx is done or the returned stop func is called. stop blocks
// until the ticker goroutine has exited and is safe to call more than once.
func Spin(ctx context.Context, period time.Duration, render func(label string)) (stop func()) {
	if period <= 0 {
		period = Period
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		dots := 0
		render(Label(dots))
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				dots = (dots + 1) % (maxDots + 1)
				render(Label(dots))
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
