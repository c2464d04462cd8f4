package emu

import (
	"io"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
)

// Config contains settings that affect emulation behavior. The zero value
// is a quiet session with every layer visible.
type Config struct {
	Trace      bool       // trace logging, starting once the boot image is unmapped
	Silent     bool       // no logging at all; wins over Trace
	Headless   bool       // no frontend is drawing; debug views are not built
	DebugView  bool       // build the 256x256 background map with every frame
	SerialEcho io.Writer  // receives bytes sent over the link port
	HideLayers ppu.Layers // layers set here start hidden
}

func (c Config) layers() ppu.Layers {
	return ppu.Layers{
		Background: !c.HideLayers.Background,
		Window:     !c.HideLayers.Window,
		Sprites:    !c.HideLayers.Sprites,
	}
}
