package mappers

const uxromID = 2

func init() {
	RegisterMapper(uxromID, func() Mapper {
		return &uxrom{baseMapper: &baseMapper{id: uxromID, name: "UxROM"}}
	})
}

// uxrom implements mapper 2: a 16KB switchable bank at $8000-$BFFF
// selected by writing to any PRG address, and the last 16KB bank fixed
// at $C000-$FFFF. CHR is not bank-switched; it is writable only when the
// cartridge has no CHR-ROM and uses 8KB of CHR-RAM instead.
type uxrom struct {
	*baseMapper
	bank uint8
}

func (u *uxrom) PrgRead(addr uint16) uint8 {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		return u.SaveRAMRead(addr - 0x6000)
	case addr < 0x8000:
		return 0 // unmapped: $4020-$5FFF, open bus
	case addr < 0xC000:
		off := int(u.bank)*0x4000 + int(addr-0x8000)
		return u.rom.PRG[off]
	default: // 0xC000-0xFFFF: last bank, fixed
		lastBank := len(u.rom.PRG)/0x4000 - 1
		off := lastBank*0x4000 + int(addr-0xC000)
		return u.rom.PRG[off]
	}
}

func (u *uxrom) PrgWrite(addr uint16, v uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		u.SaveRAMWrite(addr-0x6000, v)
	case addr < 0x8000:
		// $4020-$5FFF is unmapped; writes are no-ops.
	case addr >= 0x8000:
		// Only the low bits matter; most UxROM boards decode 3-4
		// bank-select bits depending on total PRG size.
		u.bank = v & 0x0F
	}
}
