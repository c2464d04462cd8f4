package term

import (
	"time"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
)

type button int

const (
	btnRight button = iota
	btnLeft
	btnUp
	btnDown
	btnA
	btnB
	btnSelect
	btnStart
	numButtons
)

// latch turns key press events into held buttons. A terminal reports
// presses and auto-repeats but never releases, so a button counts as held
// until hold has passed without another press.
type latch struct {
	hold  time.Duration
	until [numButtons]time.Time
}

func newLatch(hold time.Duration) *latch { return &latch{hold: hold} }

func (l *latch) press(b button, now time.Time) { l.until[b] = now.Add(l.hold) }

func (l *latch) held(b button, now time.Time) bool { return now.Before(l.until[b]) }

func (l *latch) buttons(now time.Time) emu.Buttons {
	return emu.Buttons{
		Right:  l.held(btnRight, now),
		Left:   l.held(btnLeft, now),
		Up:     l.held(btnUp, now),
		Down:   l.held(btnDown, now),
		A:      l.held(btnA, now),
		B:      l.held(btnB, now),
		Select: l.held(btnSelect, now),
		Start:  l.held(btnStart, now),
	}
}
