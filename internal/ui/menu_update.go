package ui

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	itemSave = iota
	itemLoad
	itemSlot
	itemBackground
	itemWindow
	itemSprites
	itemKeys
	itemClose
	itemCount
)

func (a *App) updateMainMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < itemCount-1 {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		l := a.m.Layers()
		switch a.menuIdx {
		case itemSave:
			a.saveSlot(a.currentSlot)
		case itemLoad:
			a.loadSlot(a.currentSlot)
		case itemSlot:
			a.menuMode = "slot"
			a.menuIdx = a.currentSlot
		case itemBackground:
			l.Background = !l.Background
		case itemWindow:
			l.Window = !l.Window
		case itemSprites:
			l.Sprites = !l.Sprites
		case itemKeys:
			a.menuMode = "keys"
			a.keysOff = 0
		case itemClose:
			a.showMenu = false
		}
		if l != a.m.Layers() {
			a.m.SetLayers(l)
		}
	}
	// Back with Backspace
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.showMenu = false
	}
}

func (a *App) updateSlotMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.menuIdx > 0 {
		a.menuIdx--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.menuIdx < a.cfg.Slots-1 {
		a.menuIdx++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.currentSlot = a.menuIdx
		a.toast(fmt.Sprintf("Slot set to %d", a.currentSlot+1))
		a.menuMode, a.menuIdx = "main", itemSlot
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		a.menuMode, a.menuIdx = "main", itemSlot
	}
}

func (a *App) updateKeysMenu() {
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) && a.keysOff > 0 {
		a.keysOff--
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) && a.keysOff < len(keyHelp)-1 {
		a.keysOff++
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		a.menuMode, a.menuIdx = "main", itemKeys
	}
}
