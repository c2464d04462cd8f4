package ui

import (
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/video"
)

// gap between the screen and the background map in the debug view
const mapGap = 8

type App struct {
	cfg Config
	m   *emu.Machine
	pal video.Palette

	tex    *ebiten.Image
	mapTex *ebiten.Image
	pix    []byte
	mapPix []byte

	paused bool
	fast   bool

	// overlay/menu
	showMenu    bool
	menuMode    string // "main", "slot", "keys"
	menuIdx     int
	keysOff     int
	currentSlot int

	msg      string
	msgUntil time.Time
}

func NewApp(cfg Config, m *emu.Machine) (*App, error) {
	cfg.Defaults()
	pal, err := video.Lookup(cfg.Palette)
	if err != nil {
		return nil, err
	}
	a := &App{
		cfg:      cfg,
		m:        m,
		pal:      pal,
		pix:      make([]byte, ppu.Width*ppu.Height*4),
		menuMode: "main",
	}
	title := cfg.Title
	if t := m.Header().Title; t != "" {
		title = cfg.Title + " - [" + t + "]"
	}
	w, h := a.Layout(0, 0)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(w*cfg.Scale, h*cfg.Scale)
	return a, nil
}

func (a *App) Run() error { return ebiten.RunGame(a) }

var keymap = []struct {
	key ebiten.Key
	set func(*emu.Buttons)
}{
	{ebiten.KeyArrowRight, func(b *emu.Buttons) { b.Right = true }},
	{ebiten.KeyArrowLeft, func(b *emu.Buttons) { b.Left = true }},
	{ebiten.KeyArrowUp, func(b *emu.Buttons) { b.Up = true }},
	{ebiten.KeyArrowDown, func(b *emu.Buttons) { b.Down = true }},
	{ebiten.KeyZ, func(b *emu.Buttons) { b.A = true }},
	{ebiten.KeyX, func(b *emu.Buttons) { b.B = true }},
	{ebiten.KeyEnter, func(b *emu.Buttons) { b.Start = true }},
	{ebiten.KeyShiftRight, func(b *emu.Buttons) { b.Select = true }},
}

func (a *App) Update() error {
	// Toggle menu (Escape)
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		a.showMenu = !a.showMenu
		a.menuMode, a.menuIdx = "main", 0
	}
	if a.showMenu {
		// the game sees no input while the menu is up
		a.m.SetButtons(emu.Buttons{})
		switch a.menuMode {
		case "slot":
			a.updateSlotMenu()
		case "keys":
			a.updateKeysMenu()
		default:
			a.updateMainMenu()
		}
		return nil
	}

	// Keyboard → Game Boy buttons
	var btn emu.Buttons
	for _, k := range keymap {
		if ebiten.IsKeyPressed(k.key) {
			k.set(&btn)
		}
	}
	a.m.SetButtons(btn)

	a.updateHotkeys()

	// Pause toggle (P)
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}
	// Fast-forward (Tab): while held, run multiple frames per Ebiten update
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)

	// Frame-step when paused (N)
	if a.paused {
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			return a.m.RunFrame()
		}
		return nil
	}
	frames := 1
	if a.fast {
		frames = 5
	}
	for i := 0; i < frames; i++ {
		if err := a.m.RunFrame(); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) updateHotkeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		a.saveSlot(a.currentSlot)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		a.loadSlot(a.currentSlot)
	}
	for i, k := range []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4} {
		if i < a.cfg.Slots && inpututil.IsKeyJustPressed(k) {
			a.currentSlot = i
			a.toast(fmt.Sprintf("Slot %d", i+1))
		}
	}

	// Layer toggles (F1 background, F2 window, F3 sprites)
	l := a.m.Layers()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		l.Background = !l.Background
	case inpututil.IsKeyJustPressed(ebiten.KeyF2):
		l.Window = !l.Window
	case inpututil.IsKeyJustPressed(ebiten.KeyF3):
		l.Sprites = !l.Sprites
	}
	if l != a.m.Layers() {
		a.m.SetLayers(l)
		a.toast(layersText(l))
	}

	// Screenshot (F12)
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		if err := a.saveScreenshot(); err != nil {
			a.toast("Screenshot failed: " + err.Error())
		}
	}
}

func layersText(l ppu.Layers) string {
	on := map[bool]string{true: "on", false: "off"}
	return fmt.Sprintf("BG %s  Win %s  OBJ %s", on[l.Background], on[l.Window], on[l.Sprites])
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(ppu.Width, ppu.Height)
	}
	f := a.m.LastFrame()
	for y := range f {
		a.pal.WriteRGBA(a.pix[y*ppu.Width*4:], f[y][:])
	}
	a.tex.WritePixels(a.pix)
	screen.DrawImage(a.tex, nil)

	if a.cfg.DebugView {
		a.drawBackgroundMap(screen)
	}

	if a.showMenu {
		w, h := a.Layout(0, 0)
		overlay := ebiten.NewImage(w, h)
		overlay.Fill(color.RGBA{0, 0, 0, 160})
		screen.DrawImage(overlay, nil)
		switch a.menuMode {
		case "slot":
			a.drawSlotMenu(screen)
		case "keys":
			a.drawKeysMenu(screen)
		default:
			a.drawMainMenu(screen)
		}
		return
	}
	if a.paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED", 2, 2)
	}
	if a.msg != "" && time.Now().Before(a.msgUntil) {
		ebitenutil.DebugPrintAt(screen, a.msg, 2, ppu.Height-16)
	}
}

func (a *App) drawBackgroundMap(screen *ebiten.Image) {
	bg := a.m.BackgroundMap()
	if bg == nil {
		return
	}
	if a.mapTex == nil {
		a.mapTex = ebiten.NewImage(ppu.MapSize, ppu.MapSize)
		a.mapPix = make([]byte, ppu.MapSize*ppu.MapSize*4)
	}
	a.pal.WriteRGBA(a.mapPix, bg)
	a.mapTex.WritePixels(a.mapPix)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(ppu.Width+mapGap, 0)
	screen.DrawImage(a.mapTex, op)
}

func (a *App) Layout(outW, outH int) (int, int) {
	if a.cfg.DebugView {
		return ppu.Width + mapGap + ppu.MapSize, ppu.MapSize
	}
	return ppu.Width, ppu.Height
}

func (a *App) toast(s string) {
	a.msg = s
	a.msgUntil = time.Now().Add(2 * time.Second)
}

func (a *App) statePath(slot int) string {
	return fmt.Sprintf("%s.st%d", a.cfg.StateBase, slot+1)
}

func (a *App) saveSlot(slot int) {
	if err := a.m.SaveStateToFile(a.statePath(slot)); err != nil {
		a.toast("Save failed: " + err.Error())
		return
	}
	a.toast(fmt.Sprintf("Saved slot %d", slot+1))
}

func (a *App) loadSlot(slot int) {
	if _, err := os.Stat(a.statePath(slot)); err != nil {
		a.toast("Slot is empty")
		return
	}
	if err := a.m.LoadStateFromFile(a.statePath(slot)); err != nil {
		a.toast("Load failed: " + err.Error())
		return
	}
	a.toast(fmt.Sprintf("Loaded slot %d", slot+1))
}

func (a *App) saveScreenshot() error {
	f := a.m.LastFrame()
	name := fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405"))
	if err := video.WritePNG(name, a.pal, &f); err != nil {
		return err
	}
	a.toast("Saved " + name)
	return nil
}
