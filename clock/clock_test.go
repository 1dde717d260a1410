package clock

import "testing"

type fakeCounter struct{ cycles int }

func (f *fakeCounter) Tick(n int) { f.cycles += n }

func TestCPUDrivenBeforePPU(t *testing.T) {
	var order []string
	cpu := orderTrackingCounter{name: "cpu", order: &order}
	ppu := orderTrackingCounter{name: "ppu", order: &order}

	d := New(&cpu, &ppu, DefaultCPUClockHz)
	d.Tick(int64(1e9)/DefaultCPUClockHz + 1) // one CPU cycle's worth, rounded up to a whole nanosecond

	if len(order) < 2 || order[0] != "cpu" || order[1] != "ppu" {
		t.Fatalf("call order = %v, want [cpu ppu]", order)
	}
}

type orderTrackingCounter struct {
	name  string
	order *[]string
}

func (o *orderTrackingCounter) Tick(n int) { *o.order = append(*o.order, o.name) }

func TestPPURatioIsTripleCPU(t *testing.T) {
	cpu := &fakeCounter{}
	ppu := &fakeCounter{}
	d := New(cpu, ppu, DefaultCPUClockHz)

	d.Tick(int64(1e9)) // roughly one second of wall clock
	if ppu.cycles != cpu.cycles*3 {
		t.Fatalf("ppu.cycles = %d, want 3x cpu.cycles (%d)", ppu.cycles, cpu.cycles*3)
	}
}

func TestFractionalCyclesCarryOver(t *testing.T) {
	cpu := &fakeCounter{}
	ppu := &fakeCounter{}
	d := New(cpu, ppu, DefaultCPUClockHz)

	nsPerCycle := 1e9 / float64(DefaultCPUClockHz)
	// Feed half a cycle's worth of time repeatedly; cycles should
	// still accumulate correctly rather than being dropped each call.
	half := int64(nsPerCycle / 2)
	for i := 0; i < 1000; i++ {
		d.Tick(half)
	}
	if cpu.cycles == 0 {
		t.Fatal("expected accumulated partial nanoseconds to eventually drain whole cycles")
	}
}

func TestBankedNanosCapped(t *testing.T) {
	cpu := &fakeCounter{}
	ppu := &fakeCounter{}
	d := New(cpu, ppu, DefaultCPUClockHz)

	d.Tick(int64(10 * 1e9)) // a 10-second stall
	if d.bankedNanos > maxBankedNanos {
		t.Fatalf("bankedNanos = %d, want capped at %d", d.bankedNanos, maxBankedNanos)
	}
}
