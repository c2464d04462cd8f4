package ui

import (
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const lineH = 14

var keyHelp = []string{
	"Z: A",
	"X: B",
	"Enter: Start",
	"RightShift: Select",
	"Arrows: D-Pad",
	"P: Pause",
	"N: Step (when paused)",
	"Tab: Fast-forward",
	"F1/F2/F3: BG/Win/OBJ",
	"F5: Save  F9: Load",
	"1-4: Slot",
	"F12: Screenshot",
	"Esc: Open/Close Menu",
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (a *App) drawMainMenu(screen *ebiten.Image) {
	l := a.m.Layers()
	items := [itemCount]string{
		itemSave:       fmt.Sprintf("Save state (slot %d)", a.currentSlot+1),
		itemLoad:       fmt.Sprintf("Load state (slot %d)", a.currentSlot+1),
		itemSlot:       "Select slot",
		itemBackground: "Background: " + onOff(l.Background),
		itemWindow:     "Window: " + onOff(l.Window),
		itemSprites:    "Sprites: " + onOff(l.Sprites),
		itemKeys:       "Keys",
		itemClose:      "Close",
	}
	ebitenutil.DebugPrintAt(screen, "Menu:", 4, 4)
	for i, s := range items {
		prefix := "  "
		if i == a.menuIdx {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, prefix+s, 4, 4+(i+1)*lineH)
	}
	if a.msg != "" && time.Now().Before(a.msgUntil) {
		ebitenutil.DebugPrintAt(screen, a.msg, 4, 4+(itemCount+1)*lineH)
	}
}

func (a *App) drawSlotMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Select slot:", 4, 4)
	for i := 0; i < a.cfg.Slots; i++ {
		state := ""
		if _, err := os.Stat(a.statePath(i)); err != nil {
			state = "[empty]"
		}
		prefix := "  "
		if i == a.menuIdx {
			prefix = "> "
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s%d %s", prefix, i+1, state), 4, 4+(i+1)*lineH)
	}
}

func (a *App) drawKeysMenu(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, "Keys (Backspace: back)", 4, 4)
	_, h := a.Layout(0, 0)
	rows := (h - 4 - lineH) / lineH
	end := a.keysOff + rows
	if end > len(keyHelp) {
		end = len(keyHelp)
	}
	for i := a.keysOff; i < end; i++ {
		ebitenutil.DebugPrintAt(screen, keyHelp[i], 4, 4+(i-a.keysOff+1)*lineH)
	}
	// scroll indicators
	if a.keysOff > 0 {
		ebitenutil.DebugPrintAt(screen, "^", 150, 4+lineH)
	}
	if end < len(keyHelp) {
		ebitenutil.DebugPrintAt(screen, "v", 150, 4+rows*lineH)
	}
}
