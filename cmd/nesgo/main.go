// Command nesgo runs an NES ROM against the nesgo emulator core,
// displaying it through an ebiten window unless run headless.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"

	"github.com/cturner/nesgo/clock"
	"github.com/cturner/nesgo/system"
)

var (
	romPath   string
	headless  bool
	runFor    time.Duration
	cycleRate int64
)

func main() {
	defer glog.Flush()

	root := &cobra.Command{
		Use:   "nesgo",
		Short: "Run an NES ROM against the nesgo emulator core",
		RunE:  run,
	}
	root.Flags().StringVar(&romPath, "rom", "", "path to an iNES ROM file (required)")
	root.Flags().BoolVar(&headless, "headless", false, "run without opening a display window")
	root.Flags().DurationVar(&runFor, "run-for", 0, "in --headless mode, stop after this much emulated wall-clock time (0 = run forever)")
	root.Flags().Int64Var(&cycleRate, "cycle-rate", clock.DefaultCPUClockHz, "override the CPU clock driver's rate in Hz")
	root.MarkFlagRequired("rom")

	if err := root.Execute(); err != nil {
		glog.Exit(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	buf, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading ROM file: %w", err)
	}

	sys := system.New()
	sys.SetCycleRate(cycleRate)
	if err := sys.LoadROM(buf); err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}
	glog.Infof("nesgo: loaded %s at %d Hz", romPath, cycleRate)

	if headless {
		return runHeadless(sys)
	}
	return runWindowed(sys)
}

func runHeadless(sys *system.System) error {
	start := time.Now()
	last := start
	for {
		now := time.Now()
		sys.Tick(now.Sub(last).Nanoseconds())
		last = now
		if sys.Halted() {
			glog.Infof("nesgo: CPU halted after %s", time.Since(start))
			return nil
		}
		if runFor > 0 && time.Since(start) >= runFor {
			return nil
		}
	}
}

func runWindowed(sys *system.System) error {
	w, h := 256, 240
	ebiten.SetWindowSize(w*2, h*2)
	ebiten.SetWindowTitle("nesgo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := &game{sys: sys, last: time.Now()}
	return ebiten.RunGame(g)
}

// game adapts system.System to ebiten's Game interface; it is the
// only place in this module that touches ebiten or does host input
// polling.
type game struct {
	sys  *system.System
	last time.Time
	img  *ebiten.Image
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 256, 240
}

func (g *game) Update() error {
	now := time.Now()
	g.sys.Tick(now.Sub(g.last).Nanoseconds())
	g.last = now
	g.pollInput()
	return nil
}

var keymap = []struct {
	key ebiten.Key
	btn uint8
}{
	{ebiten.KeyZ, system.ButtonA},
	{ebiten.KeyX, system.ButtonB},
	{ebiten.KeyShift, system.ButtonSelect},
	{ebiten.KeyEnter, system.ButtonStart},
	{ebiten.KeyUp, system.ButtonUp},
	{ebiten.KeyDown, system.ButtonDown},
	{ebiten.KeyLeft, system.ButtonLeft},
	{ebiten.KeyRight, system.ButtonRight},
}

func (g *game) pollInput() {
	for _, k := range keymap {
		g.sys.SetButton(system.Port1, k.btn, ebiten.IsKeyPressed(k.key))
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	if !g.sys.FrameReady() {
		if g.img != nil {
			screen.DrawImage(g.img, nil)
		}
		return
	}

	px := g.sys.Framebuffer()
	if g.img == nil {
		g.img = ebiten.NewImage(256, 240)
	}
	g.img.WritePixels(px)
	screen.DrawImage(g.img, nil)
}
