package ui

// Config contains window and input related settings.
type Config struct {
	Title     string // window title
	Scale     int    // integer upscaling factor
	Palette   string // display palette name, see video.Names
	DebugView bool   // show the 256x256 background map beside the screen
	StateBase string // save states are written to StateBase + ".stN"
	Slots     int    // number of save state slots
}

// Defaults fills missing fields with reasonable defaults.
func (c *Config) Defaults() {
	if c.Title == "" {
		c.Title = "gbemu"
	}
	if c.Scale <= 0 {
		c.Scale = 3
	}
	if c.StateBase == "" {
		c.StateBase = "gbemu"
	}
	if c.Slots <= 0 {
		c.Slots = 4
	}
}
