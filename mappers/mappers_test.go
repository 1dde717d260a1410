package mappers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cturner/nesgo/cartridge"
)

func buildROM(t *testing.T, prgBanks, chrBanks int, mapperNum uint16) *cartridge.ROM {
	t.Helper()
	flags6 := uint8(mapperNum&0x0F) << 4
	flags7 := uint8(mapperNum & 0xF0)
	buf := []uint8{'N', 'E', 'S', 0x1A, uint8(prgBanks), uint8(chrBanks), flags6, flags7, 0, 0, 0, 0, 0, 0, 0, 0}
	buf = append(buf, make([]uint8, prgBanks*16384)...)
	buf = append(buf, make([]uint8, chrBanks*8192)...)
	rom, err := cartridge.Parse(buf)
	require.NoError(t, err)
	return rom
}

func TestNROMMirrorsSmallPRG(t *testing.T) {
	rom := buildROM(t, 1, 1, 0)
	rom.PRG[0] = 0x11
	m, err := Get(rom)
	require.NoError(t, err)
	require.Equal(t, uint8(0x11), m.PrgRead(0x8000))
	require.Equal(t, uint8(0x11), m.PrgRead(0xC000), "16KB PRG should mirror into the upper half")
}

func TestUxROMBankSwitch(t *testing.T) {
	rom := buildROM(t, 4, 0, 2)
	rom.PRG[0*0x4000] = 0xA0
	rom.PRG[1*0x4000] = 0xA1
	rom.PRG[3*0x4000] = 0xA3 // last bank, always mapped at 0xC000

	m, err := Get(rom)
	require.NoError(t, err)

	require.Equal(t, uint8(0xA3), m.PrgRead(0xC000), "fixed bank")
	require.Equal(t, uint8(0xA0), m.PrgRead(0x8000), "initial switchable bank")

	m.PrgWrite(0x8000, 1)
	require.Equal(t, uint8(0xA1), m.PrgRead(0x8000), "after bank select")
}

func TestBaseRAMIsPerMapperInstance(t *testing.T) {
	rom := buildROM(t, 1, 1, 0)
	m, err := Get(rom)
	require.NoError(t, err)
	m.WriteBaseRAM(0x10, 0x55)
	require.Equal(t, uint8(0x55), m.ReadBaseRAM(0x10))
}

func TestSaveRAMRoundTrip(t *testing.T) {
	rom := buildROM(t, 1, 1, 0)
	m, err := Get(rom)
	require.NoError(t, err)
	m.PrgWrite(0x6000, 0x77)
	require.Equal(t, uint8(0x77), m.PrgRead(0x6000))
}

func TestUnknownMapperErrors(t *testing.T) {
	rom := buildROM(t, 1, 1, 99)
	_, err := Get(rom)
	require.Error(t, err)
}
