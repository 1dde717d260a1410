package system

import "testing"

func buildNROM(t *testing.T, prg []uint8) []uint8 {
	t.Helper()
	buf := []uint8{'N', 'E', 'S', 0x1A, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	prgBank := make([]uint8, 16384)
	copy(prgBank, prg)
	// Reset vector -> 0x8000.
	prgBank[0x3FFC] = 0x00
	prgBank[0x3FFD] = 0x80
	buf = append(buf, prgBank...)
	buf = append(buf, make([]uint8, 8192)...) // CHR bank
	return buf
}

func TestLoadROMAndReset(t *testing.T) {
	s := New()
	if err := s.LoadROM(buildNROM(t, nil)); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	snap := s.DebugCPU()
	if snap.PC != 0x8000 {
		t.Fatalf("PC = %#04x, want 0x8000", snap.PC)
	}
}

// TestMicroProgramEndToEnd runs a short self-contained program through
// the full System (cartridge parse, mapper, bus, CPU, clock) rather
// than an external nestest-style golden trace, since no such ROM or
// log ships with this module.
func TestMicroProgramEndToEnd(t *testing.T) {
	program := []uint8{
		0xA2, 0x03, // LDX #$03
		0xA9, 0x00, // LDA #$00
		0x18,       // CLC
		0x69, 0x05, // ADC #$05
		0xCA,       // DEX
		0xD0, 0xFB, // BNE loop
		0x8D, 0x00, 0x00, // STA $0000
	}
	s := New()
	if err := s.LoadROM(buildNROM(t, program)); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	// A single 1ms batch is far more than the ~30 cycles the program
	// needs; once it falls through into the zero-filled tail of the
	// bank it hits BRK, whose trap System.Tick recovers from (ending
	// that batch), so one Tick call is enough to observe the finished
	// computation.
	s.Tick(1_000_000)

	snap := s.DebugCPU()
	if snap.A != 0x0F {
		t.Fatalf("A = %#02x, want 0x0F after 3 loop iterations", snap.A)
	}
}

func TestButtonRoutingDoesNotPanicBeforeLoad(t *testing.T) {
	s := New()
	s.SetButton(Port1, ButtonA, true) // must be a no-op, not a nil-deref
	if s.Framebuffer() != nil {
		t.Fatal("Framebuffer before LoadROM should be nil")
	}
}

func TestSetCycleRateTakesEffectOnLoad(t *testing.T) {
	s := New()
	s.SetCycleRate(1) // absurdly slow, so a tiny Tick should advance nothing
	if err := s.LoadROM(buildNROM(t, []uint8{0xEA})); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	before := s.DebugCPU().TotalCycles
	s.Tick(1)
	if s.DebugCPU().TotalCycles != before {
		t.Fatalf("expected no cycles consumed at 1Hz within 1ns, got %d -> %d", before, s.DebugCPU().TotalCycles)
	}
}

func TestDebugPaletteStripBeforeAndAfterLoad(t *testing.T) {
	s := New()
	if got := s.DebugPaletteStrip(); got != nil {
		t.Fatal("DebugPaletteStrip before LoadROM should be nil")
	}
	if err := s.LoadROM(buildNROM(t, nil)); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	strip := s.DebugPaletteStrip()
	if len(strip) != 32*4 {
		t.Fatalf("len(DebugPaletteStrip()) = %d, want %d", len(strip), 32*4)
	}
}

func TestHaltedAfterJAM(t *testing.T) {
	program := []uint8{0x02} // JAM
	s := New()
	if err := s.LoadROM(buildNROM(t, program)); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	s.Tick(1_000_000)
	if !s.Halted() {
		t.Fatal("expected System.Halted() after JAM opcode")
	}
}
