// Package clock converts elapsed wall-clock time into CPU/PPU cycle
// batches, draining a saturating nanosecond accumulator each tick.
package clock

// DefaultCPUClockHz is the NTSC 2A03's CPU clock rate.
const DefaultCPUClockHz = 1789773

// PPU cycles run 3 for every CPU cycle on NTSC hardware.
const ppuCyclesPerCPUCycle = 3

// maxBankedNanos caps how much unspent time a single Tick call will
// ever convert in one shot, so a long pause (e.g. the host stalling
// on I/O) can't demand an enormous catch-up batch.
const maxBankedNanos = int64(100_000_000) // 100ms

// CPU is the subset of cpu.CPU the clock drives.
type CPU interface {
	Tick(cycles int)
}

// PPU is the subset of ppu.PPU the clock drives.
type PPU interface {
	Tick(cycles int)
}

// Driver accumulates elapsed nanoseconds and drains them into whole
// CPU cycles (and their corresponding PPU cycles), always advancing
// the CPU for a batch before the PPU, matching the bus's read-timing
// expectations for mid-instruction side effects.
type Driver struct {
	cpu CPU
	ppu PPU

	cpuHz        int64
	nanosPerCyc  float64
	bankedNanos  int64
}

// New constructs a Driver at the given CPU clock rate, driving cpu and ppu.
func New(cpu CPU, ppu PPU, cpuHz int64) *Driver {
	return &Driver{
		cpu:         cpu,
		ppu:         ppu,
		cpuHz:       cpuHz,
		nanosPerCyc: 1e9 / float64(cpuHz),
	}
}

// Tick banks elapsedNs of wall-clock time and drains as many whole CPU
// cycles as it can afford, running the CPU for the batch before the
// PPU (at 3x the CPU's cycle count).
func (d *Driver) Tick(elapsedNs int64) {
	d.bankedNanos += elapsedNs
	if d.bankedNanos > maxBankedNanos {
		d.bankedNanos = maxBankedNanos
	}

	cycles := int64(float64(d.bankedNanos) / d.nanosPerCyc)
	if cycles == 0 {
		return
	}
	d.bankedNanos -= int64(float64(cycles) * d.nanosPerCyc)

	d.cpu.Tick(int(cycles))
	d.ppu.Tick(int(cycles) * ppuCyclesPerCPUCycle)
}
