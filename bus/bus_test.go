package bus

import (
	"testing"

	"github.com/cturner/nesgo/cartridge"
	"github.com/cturner/nesgo/joypad"
	"github.com/cturner/nesgo/mappers"
	"github.com/cturner/nesgo/ppu"
)

func buildROM(t *testing.T, prgBanks, chrBanks int, mapperNum uint16) *cartridge.ROM {
	t.Helper()
	flags6 := uint8(mapperNum&0x0F) << 4
	flags7 := uint8(mapperNum & 0xF0)
	buf := []uint8{'N', 'E', 'S', 0x1A, uint8(prgBanks), uint8(chrBanks), flags6, flags7, 0, 0, 0, 0, 0, 0, 0, 0}
	buf = append(buf, make([]uint8, prgBanks*16384)...)
	buf = append(buf, make([]uint8, chrBanks*8192)...)
	rom, err := cartridge.Parse(buf)
	if err != nil {
		t.Fatalf("cartridge.Parse: %v", err)
	}
	return rom
}

func newTestBus(t *testing.T) *Bus {
	rom := buildROM(t, 1, 1, 0)
	m, err := mappers.Get(rom)
	if err != nil {
		t.Fatalf("mappers.Get: %v", err)
	}
	return New(m)
}

func TestRAMMirroring(t *testing.T) {
	b := newTestBus(t)
	b.CPUWrite(0x0001, 0x42)
	if got := b.CPURead(0x0801); got != 0x42 {
		t.Fatalf("mirrored read = %#02x, want 0x42", got)
	}
}

func TestPPURegisterMirroring(t *testing.T) {
	b := newTestBus(t)
	b.CPUWrite(0x2003, 0x10)   // OAMADDR via its canonical address
	b.CPUWrite(0x2004+8, 0x77) // 0x200C mirrors OAMDATA (0x2004)
	b.CPUWrite(0x2003, 0x10)   // rewind OAMADDR (the write above advanced it)
	if got := b.PPU.ReadRegister(ppu.OAMDATA); got != 0x77 {
		t.Fatalf("OAMDATA via mirrored write = %#02x, want 0x77", got)
	}
}

func TestJoypadStrobeSharedAcrossPorts(t *testing.T) {
	b := newTestBus(t)
	b.joypad1.SetButton(joypad.ButtonA, true)
	b.CPUWrite(0x4016, 1)
	b.CPUWrite(0x4016, 0)
	if got := b.CPURead(0x4016); got != 1 {
		t.Fatalf("joypad1 first read = %d, want 1", got)
	}
	if got := b.CPURead(0x4017); got != 0 {
		t.Fatalf("joypad2 first read = %d, want 0 (no buttons pressed)", got)
	}
}

func TestOAMDMATransferAndStall(t *testing.T) {
	b := newTestBus(t)
	for i := 0; i < 256; i++ {
		b.CPUWrite(uint16(0x0200+i), uint8(i))
	}
	before := b.CPU.TotalCycles
	b.CPUWrite(0x4014, 0x02) // DMA from page 0x0200
	after := b.CPU.TotalCycles
	if after-before != 513 && after-before != 514 {
		t.Fatalf("DMA stall = %d cycles, want 513 or 514", after-before)
	}
	if got := b.PPU.ReadRegister(ppu.OAMDATA); got != 0 {
		t.Fatalf("OAMDATA[0] after DMA = %#02x, want 0", got)
	}
}

func TestCartridgePRGReadThrough(t *testing.T) {
	b := newTestBus(t)
	if got := b.CPURead(0x8000); got != 0 {
		t.Fatalf("PRG read = %#02x, want 0 (zeroed test ROM)", got)
	}
}
