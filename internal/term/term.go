// Package term runs a session inside a text terminal. The screen is drawn
// with block characters, scaled to the terminal size.
package term

import (
	"fmt"
	"sync"
	"time"

	"github.com/jroimartin/gocui"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/logger"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
)

const logTag = "term"

// one frame of the real machine: 70224 cycles at 4.194304 MHz
const frameTime = time.Duration(ppu.FrameCycles) * time.Second / 4194304

const (
	screenView = "screen"
	statusView = "status"
)

type Config struct {
	Title       string
	Hold        time.Duration // how long a key press keeps a button down
	RedrawEvery int           // redraw the screen every N emulated frames
}

func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbemu"
	}
	if c.Hold <= 0 {
		c.Hold = 150 * time.Millisecond
	}
	if c.RedrawEvery <= 0 {
		c.RedrawEvery = 2
	}
}

type Term struct {
	cfg Config
	m   *emu.Machine
	log *logger.Logger

	mu     sync.Mutex
	keys   *latch
	paused bool
}

func New(cfg Config, m *emu.Machine, log *logger.Logger) *Term {
	cfg.Defaults()
	return &Term{cfg: cfg, m: m, log: log, keys: newLatch(cfg.Hold)}
}

// Run blocks until the user quits (Ctrl+C) or the session stops with an
// error, which is returned.
func (t *Term) Run() error {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return fmt.Errorf("term: %w", err)
	}
	defer g.Close()

	g.SetManagerFunc(t.layout)
	if err := t.bindKeys(g); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go t.drive(g, done)

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

// drive runs frames on a ticker and hands redraws to the gui goroutine.
func (t *Term) drive(g *gocui.Gui, done <-chan struct{}) {
	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()
	n := 0
	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			t.mu.Lock()
			paused := t.paused
			t.m.SetButtons(t.keys.buttons(now))
			t.mu.Unlock()
			if paused {
				continue
			}
			if err := t.m.RunFrame(); err != nil {
				t.log.Warnf(logTag, "session stopped: %v", err)
				g.Update(func(*gocui.Gui) error { return err })
				return
			}
			n++
			if n%t.cfg.RedrawEvery == 0 {
				g.Update(t.redraw)
			}
		}
	}
}

func (t *Term) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	if v, err := g.SetView(screenView, 0, 0, maxX-1, maxY-4); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = t.cfg.Title
		if h := t.m.Header(); h.Title != "" {
			v.Title = t.cfg.Title + " - " + h.Title
		}
	}
	if v, err := g.SetView(statusView, 0, maxY-3, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
	}
	return nil
}

func (t *Term) redraw(g *gocui.Gui) error {
	v, err := g.View(screenView)
	if err != nil {
		return err
	}
	w, h := v.Size()
	f := t.m.LastFrame()
	cols, rows := fit(w, h)
	v.Clear()
	fmt.Fprint(v, render(&f, cols, rows))

	s, err := g.View(statusView)
	if err != nil {
		return err
	}
	t.mu.Lock()
	paused := t.paused
	t.mu.Unlock()
	s.Clear()
	state := "running"
	if paused {
		state = "paused"
	}
	fmt.Fprintf(s, " frame %d  %s  | arrows z x enter space  p: pause  ^C: quit", t.m.Frames(), state)
	return nil
}

func (t *Term) bindKeys(g *gocui.Gui) error {
	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		return err
	}
	bindings := []struct {
		key interface{}
		btn button
	}{
		{gocui.KeyArrowRight, btnRight},
		{gocui.KeyArrowLeft, btnLeft},
		{gocui.KeyArrowUp, btnUp},
		{gocui.KeyArrowDown, btnDown},
		{'z', btnA},
		{'x', btnB},
		{gocui.KeySpace, btnSelect},
		{gocui.KeyEnter, btnStart},
	}
	for _, b := range bindings {
		btn := b.btn
		err := g.SetKeybinding("", b.key, gocui.ModNone, func(*gocui.Gui, *gocui.View) error {
			t.mu.Lock()
			t.keys.press(btn, time.Now())
			t.mu.Unlock()
			return nil
		})
		if err != nil {
			return err
		}
	}
	return g.SetKeybinding("", 'p', gocui.ModNone, func(g *gocui.Gui, _ *gocui.View) error {
		t.mu.Lock()
		t.paused = !t.paused
		t.mu.Unlock()
		return t.redraw(g)
	})
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
