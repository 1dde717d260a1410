// Package system wires the CPU, PPU, cartridge mapper, joypads, and
// clock driver into one owned value exposing the emulator's host-facing
// API. A caller interacts with a single System rather than reaching
// into any subsystem directly.
package system

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/cturner/nesgo/bus"
	"github.com/cturner/nesgo/cartridge"
	"github.com/cturner/nesgo/clock"
	"github.com/cturner/nesgo/joypad"
	"github.com/cturner/nesgo/mappers"
)

// Button mirrors joypad's bit constants so callers never need to
// import joypad directly.
const (
	ButtonA      = joypad.ButtonA
	ButtonB      = joypad.ButtonB
	ButtonSelect = joypad.ButtonSelect
	ButtonStart  = joypad.ButtonStart
	ButtonUp     = joypad.ButtonUp
	ButtonDown   = joypad.ButtonDown
	ButtonLeft   = joypad.ButtonLeft
	ButtonRight  = joypad.ButtonRight
)

// Port selects which controller port a button press targets.
type Port int

const (
	Port1 Port = iota
	Port2
)

// System is the single owned value a host program drives: load a ROM,
// tick it forward by elapsed wall-clock time, read back the
// framebuffer and feed in button state.
type System struct {
	bus    *bus.Bus
	clock  *clock.Driver
	loaded bool
	cpuHz  int64
}

// New constructs an empty System. Call LoadROM before Tick.
func New() *System {
	return &System{cpuHz: clock.DefaultCPUClockHz}
}

// SetCycleRate overrides the clock driver's CPU clock rate; call it
// before LoadROM. Takes effect on the next LoadROM call.
func (s *System) SetCycleRate(hz int64) {
	s.cpuHz = hz
}

// LoadROM parses buf as an iNES 1.0 image, constructs its mapper, and
// wires a fresh bus/CPU/PPU around it, then resets the CPU.
func (s *System) LoadROM(buf []uint8) error {
	rom, err := cartridge.Parse(buf)
	if err != nil {
		return fmt.Errorf("system: parse ROM: %w", err)
	}

	m, err := mappers.Get(rom)
	if err != nil {
		return fmt.Errorf("system: %w", err)
	}

	s.bus = bus.New(m)
	s.clock = clock.New(s.bus.CPU, s.bus.PPU, s.cpuHz)
	s.bus.CPU.Reset()
	s.loaded = true
	glog.Infof("system: loaded ROM, mapper %q", m.Name())
	return nil
}

// Reset re-runs the CPU's power-on/reset sequence without reloading
// the cartridge.
func (s *System) Reset() {
	if !s.loaded {
		return
	}
	s.bus.CPU.Reset()
}

// Tick advances emulation by elapsedNs nanoseconds of wall-clock time.
// It recovers a BRK/JAM trap internally, logging it rather than
// propagating a panic to the host loop, since both are expected
// eventual outcomes of running untrusted ROM code forever.
func (s *System) Tick(elapsedNs int64) {
	if !s.loaded {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			glog.Warningf("system: CPU trapped: %v", r)
		}
	}()
	s.clock.Tick(elapsedNs)
}

// Halted reports whether the CPU has stopped executing (JAM).
func (s *System) Halted() bool {
	return s.loaded && s.bus.CPU.Halted()
}

// Framebuffer returns the most recently composited frame, RGBA8888,
// row-major, 256x240.
func (s *System) Framebuffer() []uint8 {
	if !s.loaded {
		return nil
	}
	return s.bus.PPU.Framebuffer()
}

// FrameReady reports whether a new frame completed since the last call.
func (s *System) FrameReady() bool {
	return s.loaded && s.bus.PPU.FrameReady()
}

// SetButton updates one button's pressed state on the given controller port.
func (s *System) SetButton(p Port, button uint8, pressed bool) {
	if !s.loaded {
		return
	}
	jp := s.bus.Joypad1()
	if p == Port2 {
		jp = s.bus.Joypad2()
	}
	jp.SetButton(button, pressed)
}

// CPUSnapshot is a point-in-time, read-only copy of the CPU's
// registers, useful for debug overlays and traces.
type CPUSnapshot struct {
	A, X, Y     uint8
	SP          uint8
	PC          uint16
	Status      uint8
	TotalCycles uint64
}

func (s CPUSnapshot) String() string {
	return fmt.Sprintf("A:%02X X:%02X Y:%02X SP:%02X PC:%04X P:%02X CYC:%d",
		s.A, s.X, s.Y, s.SP, s.PC, s.Status, s.TotalCycles)
}

// DebugCPU returns a snapshot of the current CPU register state.
func (s *System) DebugCPU() CPUSnapshot {
	if !s.loaded {
		return CPUSnapshot{}
	}
	c := s.bus.CPU
	return CPUSnapshot{
		A: c.A, X: c.X, Y: c.Y, SP: c.SP, PC: c.PC, Status: c.Status,
		TotalCycles: c.TotalCycles,
	}
}

// DebugNametable returns the raw contents of nametable bank n (0-3).
func (s *System) DebugNametable(n int) []uint8 {
	if !s.loaded {
		return nil
	}
	return s.bus.PPU.DebugNametable(n)
}

// DebugPaletteStrip returns all 32 palette entries as a 32x1 strip of
// RGBA8888 pixels.
func (s *System) DebugPaletteStrip() []uint8 {
	if !s.loaded {
		return nil
	}
	return s.bus.PPU.DebugPaletteStrip()
}

// DebugPatternTable renders CHR pattern bank (0 or 1) using paletteID
// for color lookup, as 128x128 RGBA8888 pixels.
func (s *System) DebugPatternTable(bank int, paletteID uint8) []uint8 {
	if !s.loaded {
		return nil
	}
	return s.bus.PPU.DebugPatternTable(bank, paletteID)
}
