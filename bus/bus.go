// Package bus implements the CPU's memory-mapped address space:
// internal RAM mirroring, PPU register mirroring, OAM DMA, and
// controller port routing. It owns the CPU, PPU, and cartridge mapper
// and wires the interfaces each of them expects of the others.
package bus

import (
	"github.com/cturner/nesgo/cpu"
	"github.com/cturner/nesgo/joypad"
	"github.com/cturner/nesgo/mappers"
	"github.com/cturner/nesgo/ppu"
)

const (
	maxBaseRAM    = 0x1FFF
	maxPPUMirror  = 0x3FFF
	ioRegStart    = 0x4000
	ioRegEnd      = 0x4020
	oamDMAReg     = 0x4014
	joypad1Reg    = 0x4016
	joypad2Reg    = 0x4017
)

// Bus wires the CPU, PPU, mapper, and joypads together and implements
// the address-decode logic both the CPU and PPU read/write through.
type Bus struct {
	CPU *cpu.CPU
	PPU *ppu.PPU

	mapper   mappers.Mapper
	joypad1  joypad.Joypad
	joypad2  joypad.Joypad
	strobeOn bool
}

// New constructs a Bus wired to mapper, with its own CPU and PPU
// instances (each given this Bus as their external collaborator).
func New(mapper mappers.Mapper) *Bus {
	b := &Bus{mapper: mapper}
	b.CPU = cpu.New(b)
	b.PPU = ppu.New(b)
	return b
}

func (b *Bus) Joypad1() *joypad.Joypad { return &b.joypad1 }
func (b *Bus) Joypad2() *joypad.Joypad { return &b.joypad2 }

// TriggerNMI satisfies ppu.Bus, forwarding vblank NMI delivery to the CPU.
func (b *Bus) TriggerNMI() { b.CPU.TriggerNMI() }

// ChrRead/ChrWrite satisfy ppu.Bus, routing pattern-table access
// through the cartridge mapper.
func (b *Bus) ChrRead(addr uint16) uint8     { return b.mapper.ChrRead(addr) }
func (b *Bus) ChrWrite(addr uint16, v uint8) { b.mapper.ChrWrite(addr, v) }

// Mirroring satisfies ppu.Bus, reporting the cartridge's nametable
// mirroring mode.
func (b *Bus) Mirroring() uint8 { return b.mapper.MirroringMode() }

// CPURead satisfies cpu.Bus: the full CPU memory map per
// https://www.nesdev.org/wiki/CPU_memory_map.
func (b *Bus) CPURead(addr uint16) uint8 {
	switch {
	case addr <= maxBaseRAM:
		return b.mapper.ReadBaseRAM(addr & 0x07FF)
	case addr <= maxPPUMirror:
		return b.PPU.ReadRegister(0x2000 + addr&0x0007)
	case addr == joypad1Reg:
		return b.joypad1.Read()
	case addr == joypad2Reg:
		return b.joypad2.Read()
	case addr < ioRegEnd:
		return 0 // APU and remaining I/O registers: unimplemented, read as 0
	default:
		return b.mapper.PrgRead(addr)
	}
}

// CPUWrite satisfies cpu.Bus.
func (b *Bus) CPUWrite(addr uint16, val uint8) {
	switch {
	case addr <= maxBaseRAM:
		b.mapper.WriteBaseRAM(addr&0x07FF, val)
	case addr <= maxPPUMirror:
		b.PPU.WriteRegister(0x2000+addr&0x0007, val)
	case addr == oamDMAReg:
		b.runOAMDMA(val)
	case addr == joypad1Reg:
		// $4016 strobe is wired to both controller ports simultaneously.
		b.joypad1.Write(val)
		b.joypad2.Write(val)
	case addr == joypad2Reg:
		// $4017 is the APU frame counter on real hardware; unimplemented here.
	case addr < ioRegEnd:
		// Remaining APU/IO registers: unimplemented, writes are no-ops.
	default:
		b.mapper.PrgWrite(addr, val)
	}
}

// runOAMDMA copies 256 bytes starting at val<<8 into OAM, starting at
// the PPU's current OAMADDR, and bills the CPU the transfer's stall
// cycles: 513 on an even CPU cycle count, 514 on an odd one (the extra
// cycle to align with the PPU's next read slot).
func (b *Bus) runOAMDMA(page uint8) {
	base := uint16(page) << 8
	start := b.PPU.OAMAddr()
	for i := 0; i < 256; i++ {
		b.PPU.WriteOAMByte(start+uint8(i), b.CPURead(base+uint16(i)))
	}

	stall := 513
	if b.CPU.TotalCycles%2 != 0 {
		stall = 514
	}
	b.CPU.Stall(stall)
}
