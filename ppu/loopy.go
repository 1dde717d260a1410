package ppu

// loopy packs the PPU's v/t scroll/address registers:
// yyy NN YYYYY XXXXX
// ||| || ||||| +++++-- coarse X scroll
// ||| || +++++-------- coarse Y scroll
// ||| ++-------------- nametable select
// +++----------------- fine Y scroll
// Only coarseX/coarseY/fineY are read out here; nametable select and
// the rest of v/t are manipulated directly as raw bits in ppu.go
// alongside PPUADDR/PPUSCROLL's own latch handling.
type loopy struct {
	data uint16 // only 15 bits used
}

func (l *loopy) coarseX() uint16 {
	return l.data & 0x001F
}

func (l *loopy) coarseY() uint16 {
	return (l.data & 0x03E0) >> 5
}

func (l *loopy) fineY() uint16 {
	return (l.data & 0x7000) >> 12
}
