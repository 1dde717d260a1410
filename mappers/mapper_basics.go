// Package mappers implements and registers the cartridge mappers
// referenced numerically by a ROM's iNES header.
package mappers

import (
	"fmt"

	"github.com/cturner/nesgo/cartridge"
)

// A global registry of mapper constructors, keyed by mapper id.
var allMappers = map[uint16]func() Mapper{}

func RegisterMapper(id uint16, ctor func() Mapper) {
	if _, ok := allMappers[id]; ok {
		panic(fmt.Sprintf("mappers: id %d already registered", id))
	}
	allMappers[id] = ctor
}

// Get constructs and initializes the mapper for rom's declared mapper
// id, or returns an error if no mapper is registered for it.
func Get(rom *cartridge.ROM) (Mapper, error) {
	ctor, ok := allMappers[rom.MapperNum()]
	if !ok {
		return nil, fmt.Errorf("mappers: unknown mapper id %d", rom.MapperNum())
	}
	m := ctor()
	m.Init(rom)
	return m, nil
}

// The 2KB of console-internal work RAM lives in the mapper's base
// struct rather than the bus, matching the teacher's original layout:
// every mapper embeds baseMapper and so gets it for free, and the bus
// simply routes $0000-$1FFF there.
const baseRAMSize = 2048

// Mapper is the cartridge-side address decoder: PRG/CHR bank
// switching, the built-in 2KB work RAM, and header metadata passthrough.
type Mapper interface {
	ID() uint16
	Init(*cartridge.ROM)
	Name() string
	ReadBaseRAM(uint16) uint8
	WriteBaseRAM(uint16, uint8)
	PrgRead(uint16) uint8
	PrgWrite(uint16, uint8)
	ChrRead(uint16) uint8
	ChrWrite(uint16, uint8)
	MirroringMode() uint8
	HasSaveRAM() bool
	SaveRAMRead(uint16) uint8
	SaveRAMWrite(uint16, uint8)
}

type baseMapper struct {
	id      uint16
	rom     *cartridge.ROM
	name    string
	baseRAM [baseRAMSize]uint8
	sram    [8192]uint8 // battery-backed PRG-RAM at $6000-$7FFF, when present
}

func (bm *baseMapper) ReadBaseRAM(addr uint16) uint8    { return bm.baseRAM[addr%baseRAMSize] }
func (bm *baseMapper) WriteBaseRAM(addr uint16, v uint8) { bm.baseRAM[addr%baseRAMSize] = v }
func (bm *baseMapper) ID() uint16                        { return bm.id }
func (bm *baseMapper) String() string                    { return bm.name }
func (bm *baseMapper) Name() string                      { return bm.name }
func (bm *baseMapper) Init(r *cartridge.ROM)             { bm.rom = r }
func (bm *baseMapper) MirroringMode() uint8              { return bm.rom.MirroringMode() }
func (bm *baseMapper) HasSaveRAM() bool                  { return bm.rom.HasSaveRAM() }
func (bm *baseMapper) SaveRAMRead(addr uint16) uint8     { return bm.sram[addr%8192] }
func (bm *baseMapper) SaveRAMWrite(addr uint16, v uint8) { bm.sram[addr%8192] = v }

func (bm *baseMapper) ChrRead(addr uint16) uint8 {
	if int(addr) < len(bm.rom.CHR) {
		return bm.rom.CHR[addr]
	}
	return 0
}

func (bm *baseMapper) ChrWrite(addr uint16, v uint8) {
	if bm.rom.HasCHRRAM() && int(addr) < len(bm.rom.CHR) {
		bm.rom.CHR[addr] = v
	}
}
