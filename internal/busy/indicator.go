// Package busy animates the label of a control while a request is in flight.
package busy

import (
	"strings"
	"time"
)

const (
	// Period is the animation tick interval.
	Period = 300 * time.Millisecond

	// BaseLabel is shown while busy, followed by 0-3 dots.
	BaseLabel = "Fetching"

	maxDots = 3
)

// Button is the trigger control being animated.
type Button struct {
	Label    string
	Disabled bool
}

// Handle identifies one Start/Stop cycle.
type Handle struct {
	seq int
}

// Indicator cycles a button label through "Fetching", "Fetching.", ...
// Ticks carry the handle they were scheduled for; once Stop runs, ticks for
// that handle report false and must not be rescheduled.
type Indicator struct {
	seq    int
	active bool
	dots   int
}

// Start disables b and sets its label to BaseLabel.
func (i *Indicator) Start(b *Button) Handle {
	i.seq++
	i.active = true
	i.dots = 0
	b.Disabled = true
	b.Label = BaseLabel
	return Handle{seq: i.seq}
}

// Tick advances the dot count for h. It returns false when h is no longer the
// running animation.
func (i *Indicator) Tick(h Handle, b *Button) bool {
	if !i.Running(h) {
		return false
	}
	i.dots = (i.dots + 1) % (maxDots + 1)
	b.Label = Label(i.dots)
	return true
}

// Stop ends the animation for h, restores label and re-enables b. Stopping a
// stale handle is a no-op.
func (i *Indicator) Stop(h Handle, b *Button, label string) {
	if !i.Running(h) {
		return
	}
	i.active = false
	i.seq++
	i.dots = 0
	b.Label = label
	b.Disabled = false
}

// Running reports whether h is the active animation.
func (i *Indicator) Running(h Handle) bool {
	return i.active && h.seq == i.seq
}

// Label renders BaseLabel followed by dots trailing dots.
func Label(dots int) string {
	return BaseLabel + strings.Repeat(".", dots)
}
