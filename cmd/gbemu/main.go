package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/FabianRolfMatthiasNoll/gbcore/internal/emu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/logger"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ppu"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/statsview"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/term"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/ui"
	"github.com/FabianRolfMatthiasNoll/gbcore/internal/video"
)

type CLIFlags struct {
	ROMPath string
	BootROM string
	Scale   int
	Title   string
	Palette string
	Trace   bool
	Silent  bool
	SaveRAM bool // persist battery RAM next to ROM (.sav)
	Serial  bool // echo link port bytes to stdout

	// debugging
	DebugView bool
	NoBG      bool
	NoWindow  bool
	NoSprites bool
	StatsView bool

	// terminal frontend
	Term    bool
	TermLog string

	// headless
	Headless bool
	Frames   int
	PNGOut   string
	Expect   string // expected framebuffer CRC32 hex (e.g., "1a2b3c4d")
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.gb)")
	flag.StringVar(&f.BootROM, "bootrom", "", "optional DMG boot ROM")
	flag.IntVar(&f.Scale, "scale", 3, "window scale")
	flag.StringVar(&f.Title, "title", "gbemu", "window title")
	flag.StringVar(&f.Palette, "palette", video.DefaultPalette, "display palette: "+strings.Join(video.Names(), ", "))
	flag.BoolVar(&f.Trace, "trace", false, "trace log, starting once the boot ROM is unmapped")
	flag.BoolVar(&f.Silent, "silent", false, "no log output at all")
	flag.BoolVar(&f.SaveRAM, "save", true, "persist battery RAM to ROM.sav on exit and load on start")
	flag.BoolVar(&f.Serial, "serial", false, "echo serial output to stdout")

	flag.BoolVar(&f.DebugView, "debugview", false, "show the background map beside the screen")
	flag.BoolVar(&f.NoBG, "nobg", false, "hide the background layer")
	flag.BoolVar(&f.NoWindow, "nowindow", false, "hide the window layer")
	flag.BoolVar(&f.NoSprites, "nosprites", false, "hide sprites")
	flag.BoolVar(&f.StatsView, "statsview", false, "serve runtime charts at "+statsview.URL())

	flag.BoolVar(&f.Term, "term", false, "run inside the terminal instead of a window")
	flag.StringVar(&f.TermLog, "termlog", "gbemu.log", "log file while the terminal frontend is active")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last framebuffer to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.Parse()
	return f
}

func runHeadless(m *emu.Machine, pal video.Palette, frames int, pngPath, expectCRC string) error {
	if frames <= 0 {
		frames = 1
	}

	start := time.Now()
	for i := 0; i < frames; i++ {
		if err := m.RunFrame(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	dur := time.Since(start)

	fb := m.LastFrame()
	crc := pal.Checksum(&fb)
	fps := float64(frames) / dur.Seconds()

	log.Printf("headless: frames=%d elapsed=%s fps=%.2f fb_crc32=%08x",
		frames, dur.Truncate(time.Millisecond), fps, crc)

	if pngPath != "" {
		if err := video.WritePNG(pngPath, pal, &fb); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", pngPath)
	}

	if expectCRC != "" {
		// normalize expected hex (allow with/without 0x, upper/lowercase)
		want := strings.TrimPrefix(strings.ToLower(expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func mustRead(path string) []byte {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}
	return b
}

// savPath is where battery RAM lives for rom: the same name with .sav.
func savPath(rom string) string {
	return strings.TrimSuffix(rom, filepath.Ext(rom)) + ".sav"
}

func main() {
	f := parseFlags()
	if f.ROMPath == "" {
		log.Fatal("no ROM given, use -rom")
	}
	rom := mustRead(f.ROMPath)
	boot := mustRead(f.BootROM)

	pal, err := video.Lookup(f.Palette)
	if err != nil {
		log.Fatal(err)
	}

	// The terminal frontend owns the screen, so diagnostics go to a file.
	var logOut io.Writer = os.Stderr
	var serialOut io.Writer
	if f.Serial {
		serialOut = os.Stdout
	}
	if f.Term && !f.Headless {
		lf, err := os.Create(f.TermLog)
		if err != nil {
			log.Fatalf("open %s: %v", f.TermLog, err)
		}
		defer lf.Close()
		logOut = lf
		log.SetOutput(lf)
		if f.Serial {
			serialOut = lf
		}
	}
	lg := logger.New(logOut, logger.Info)
	defer lg.Flush()

	var save []byte
	sav := savPath(f.ROMPath)
	if f.SaveRAM {
		if data, err := os.ReadFile(sav); err == nil {
			save = data
			log.Printf("loaded save RAM: %s (%d bytes)", sav, len(data))
		} else if !errors.Is(err, os.ErrNotExist) {
			log.Fatalf("read %s: %v", sav, err)
		}
	}

	cfg := emu.Config{
		Trace:      f.Trace,
		Silent:     f.Silent,
		Headless:   f.Headless,
		DebugView:  f.DebugView,
		SerialEcho: serialOut,
		HideLayers: ppu.Layers{
			Background: f.NoBG,
			Window:     f.NoWindow,
			Sprites:    f.NoSprites,
		},
	}
	m, err := emu.New(cfg, rom, save, boot, lg)
	if err != nil {
		log.Fatalf("load cart: %v", err)
	}
	h := m.Header()
	log.Printf("ROM: %q type=%s banks=%d ram=%dB", h.Title, h.CartTypeStr, h.ROMBanks, h.RAMSizeBytes)

	if f.StatsView {
		statsview.Launch(logOut)
	}

	var runErr error
	switch {
	case f.Headless:
		runErr = runHeadless(m, pal, f.Frames, f.PNGOut, f.Expect)
	case f.Term:
		runErr = term.New(term.Config{Title: f.Title}, m, lg).Run()
	default:
		app, err := ui.NewApp(ui.Config{
			Title:     f.Title,
			Scale:     f.Scale,
			Palette:   f.Palette,
			DebugView: f.DebugView,
			StateBase: strings.TrimSuffix(f.ROMPath, filepath.Ext(f.ROMPath)),
		}, m)
		if err != nil {
			log.Fatal(err)
		}
		runErr = app.Run()
	}

	// battery RAM is written even when the session stopped with an error
	if f.SaveRAM {
		if data := m.SaveRAM(); data != nil {
			if err := os.WriteFile(sav, data, 0644); err != nil {
				log.Printf("write %s: %v", sav, err)
			} else {
				log.Printf("wrote %s", sav)
			}
		}
	}
	if runErr != nil {
		lg.Flush()
		log.Fatal(runErr)
	}
}
