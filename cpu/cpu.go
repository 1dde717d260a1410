// Package cpu implements the Ricoh 2A03's 6502-derived instruction set:
// registers, addressing modes, the dense opcode table, and the
// cycle-budget dispatch loop the rest of the system drains.
package cpu

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
)

// Status flag bits.
const (
	FlagC uint8 = 1 << 0
	FlagZ uint8 = 1 << 1
	FlagI uint8 = 1 << 2
	FlagD uint8 = 1 << 3
	FlagB uint8 = 1 << 4
	Flag1 uint8 = 1 << 5
	FlagV uint8 = 1 << 6
	FlagN uint8 = 1 << 7
)

const (
	vecNMI   = 0xFFFA
	vecReset = 0xFFFC
	vecIRQ   = 0xFFFE

	stackBase = 0x0100
)

// ErrBRK is the sentinel panic value used to signal a BRK/software
// interrupt instruction was executed. BRK performs its normal push and
// vector side effects before the trap, so the caller can distinguish a
// clean halt from a true fault by inspecting PC/status after recovery.
var ErrBRK = errors.New("cpu: BRK executed")

// ErrJAM is the sentinel panic value for a JAM/KIL opcode — the real
// 6502 locks up and requires a reset; this core treats it the same way.
var ErrJAM = errors.New("cpu: JAM opcode, CPU halted")

// Bus is the external memory and DMA collaborator the CPU reads and
// writes through. The system package supplies the concrete bus.
type Bus interface {
	CPURead(addr uint16) uint8
	CPUWrite(addr uint16, v uint8)
}

// CPU is the 6502/2A03 register file plus dispatch state. The zero
// value is not usable; construct with New.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	Status  uint8

	bus Bus

	// remaining is the cycle budget left to drain in the current
	// Tick batch; Stall charges DMA-style idle cycles against it
	// directly so no separate code path is needed for a DMA transfer.
	remaining int

	nmiPending bool
	irqPending bool
	halted     bool

	// TotalCycles counts every cycle ever drained, for trace/debug use.
	TotalCycles uint64
}

// New constructs a CPU wired to bus. Callers must call Reset before
// the first Tick to establish the power-on register state.
func New(bus Bus) *CPU {
	return &CPU{bus: bus}
}

// Reset performs the power-on/reset register sequencing and loads PC
// from the reset vector.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.Status = Flag1 | FlagI
	c.PC = c.read16(vecReset)
	c.remaining = 0
	c.nmiPending = false
	c.irqPending = false
	c.halted = false
	glog.V(1).Infof("cpu: reset, PC=%#04x", c.PC)
}

// TriggerNMI latches a pending non-maskable interrupt. It is serviced
// at the next instruction boundary, never synchronously, so a mid
// instruction call cannot reenter dispatch.
func (c *CPU) TriggerNMI() { c.nmiPending = true }

// TriggerIRQ latches a pending maskable interrupt, serviced at the
// next instruction boundary if FlagI is clear.
func (c *CPU) TriggerIRQ() { c.irqPending = true }

// Stall charges n idle cycles against the CPU's budget and counts them
// in TotalCycles, e.g. to bill an OAM DMA transfer without a separate
// execution path; no instruction runs until the debt is drained.
func (c *CPU) Stall(n int) {
	c.remaining -= n
	c.TotalCycles += uint64(n)
}

// Halted reports whether a JAM opcode has halted the CPU.
func (c *CPU) Halted() bool { return c.halted }

// Tick advances the CPU by up to n cycles, executing whole
// instructions until the budget is exhausted or the CPU halts.
// Partial-instruction cycles carry over as a negative remainder so the
// next Tick continues to drain evenly.
func (c *CPU) Tick(n int) {
	c.remaining += n
	for c.remaining > 0 {
		if c.halted {
			return
		}
		c.serviceInterrupts()
		if c.halted || c.remaining <= 0 {
			return
		}
		used := c.step()
		c.remaining -= used
		c.TotalCycles += uint64(used)
	}
}

func (c *CPU) serviceInterrupts() {
	if c.nmiPending {
		c.nmiPending = false
		c.interrupt(vecNMI, false)
		return
	}
	if c.irqPending && c.Status&FlagI == 0 {
		c.irqPending = false
		c.interrupt(vecIRQ, false)
	}
}

// interrupt performs the generic push-PC/push-status/vector sequence
// shared by NMI, IRQ, and BRK. brk distinguishes BRK's extra PC
// increment and forced B flag in the pushed status copy.
func (c *CPU) interrupt(vector uint16, brk bool) {
	if brk {
		c.PC++
	}
	c.push16(c.PC)
	pushed := c.Status | Flag1
	if brk {
		pushed |= FlagB
	} else {
		pushed &^= FlagB
	}
	c.push8(pushed)
	c.Status |= FlagI
	c.PC = c.read16(vector)
	if !brk {
		c.remaining -= 7
		c.TotalCycles += 7
	}
}

// step fetches, decodes, and executes one instruction, returning the
// number of cycles it consumed (including any addressing page-cross
// penalty).
func (c *CPU) step() int {
	opc := c.bus.CPURead(c.PC)
	op := opcodeTable[opc]
	if op.mnemonic == mnInvalid {
		err := fmt.Errorf("cpu: unimplemented opcode %#02x at %#04x", opc, c.PC)
		glog.Errorf("%v", err)
		panic(err)
	}

	addr, pageCrossed := c.addrOf(op.mode, c.PC+1)
	c.PC += uint16(op.bytes)

	cycles := int(op.cycles)
	if pageCrossed && readSensitive[op.mnemonic] {
		cycles++
	}

	c.exec(op.mnemonic, op.mode, addr)

	return cycles
}

func (c *CPU) read16(addr uint16) uint16 {
	lo := c.bus.CPURead(addr)
	hi := c.bus.CPURead(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// read16Bug reproduces the JMP ($xxFF) indirect-fetch bug: the high
// byte is fetched from the start of the same page rather than wrapping
// into the next page.
func (c *CPU) read16Bug(addr uint16) uint16 {
	lo := c.bus.CPURead(addr)
	hiAddr := (addr & 0xFF00) | uint16(uint8(addr)+1)
	hi := c.bus.CPURead(hiAddr)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push8(v uint8) {
	c.bus.CPUWrite(stackBase+uint16(c.SP), v)
	c.SP--
}

func (c *CPU) pop8() uint8 {
	c.SP++
	return c.bus.CPURead(stackBase + uint16(c.SP))
}

func (c *CPU) push16(v uint16) {
	c.push8(uint8(v >> 8))
	c.push8(uint8(v))
}

func (c *CPU) pop16() uint16 {
	lo := c.pop8()
	hi := c.pop8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) setZN(v uint8) {
	if v == 0 {
		c.Status |= FlagZ
	} else {
		c.Status &^= FlagZ
	}
	if v&0x80 != 0 {
		c.Status |= FlagN
	} else {
		c.Status &^= FlagN
	}
}

func (c *CPU) setFlag(mask uint8, on bool) {
	if on {
		c.Status |= mask
	} else {
		c.Status &^= mask
	}
}

func samePage(a, b uint16) bool { return a&0xFF00 == b&0xFF00 }

// addrOf resolves the effective address for an instruction whose
// operand begins at operandPC, and whether a page boundary was crossed
// while indexing (the only case that ever adds a cycle, and only for
// read-sensitive mnemonics — stores always pay the fixed listed cost).
func (c *CPU) addrOf(mode uint8, operandPC uint16) (addr uint16, pageCrossed bool) {
	switch mode {
	case modeImplied, modeAccumulator:
		return 0, false
	case modeImmediate:
		return operandPC, false
	case modeZeroPage:
		return uint16(c.bus.CPURead(operandPC)), false
	case modeZeroPageX:
		return uint16(c.bus.CPURead(operandPC) + c.X), false
	case modeZeroPageY:
		return uint16(c.bus.CPURead(operandPC) + c.Y), false
	case modeRelative:
		offset := int8(c.bus.CPURead(operandPC))
		base := operandPC + 1
		target := uint16(int32(base) + int32(offset))
		return target, !samePage(base, target)
	case modeAbsolute:
		return c.read16(operandPC), false
	case modeAbsoluteX:
		base := c.read16(operandPC)
		target := base + uint16(c.X)
		return target, !samePage(base, target)
	case modeAbsoluteY:
		base := c.read16(operandPC)
		target := base + uint16(c.Y)
		return target, !samePage(base, target)
	case modeIndirect:
		ptr := c.read16(operandPC)
		return c.read16Bug(ptr), false
	case modeIndirectX:
		zp := c.bus.CPURead(operandPC) + c.X
		lo := c.bus.CPURead(uint16(zp))
		hi := c.bus.CPURead(uint16(zp + 1))
		return uint16(hi)<<8 | uint16(lo), false
	case modeIndirectY:
		zp := c.bus.CPURead(operandPC)
		lo := c.bus.CPURead(uint16(zp))
		hi := c.bus.CPURead(uint16(zp + 1))
		base := uint16(hi)<<8 | uint16(lo)
		target := base + uint16(c.Y)
		return target, !samePage(base, target)
	default:
		panic(fmt.Errorf("cpu: unknown addressing mode %d", mode))
	}
}
