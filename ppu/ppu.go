// Package ppu implements the Ricoh 2C02 picture processing unit: its
// memory-mapped register file, VRAM/palette address space, the
// scanline/dot schedule, and the background/sprite compositor.
package ppu

import (
	"fmt"

	"github.com/golang/glog"
)

const (
	VRAM_SIZE    = 2048
	OAM_SIZE     = 256
	PALETTE_SIZE = 32
)

// Display constants
const (
	NES_RES_WIDTH  = 256
	NES_RES_HEIGHT = 240
)

// Special Registers
const (
	PPUCTRL   = 0x2000
	PPUMASK   = 0x2001
	PPUSTATUS = 0x2002
	OAMADDR   = 0x2003
	OAMDATA   = 0x2004
	PPUSCROLL = 0x2005
	PPUADDR   = 0x2006
	PPUDATA   = 0x2007
	OAMDMA    = 0x4014
)

// PPUCTRL bit flags
// 7  bit  0
// ---- ----
// VPHB SINN
// |||| ||||
// |||| ||++- Base nametable address
// |||| ||    (0 = $2000; 1 = $2400; 2 = $2800; 3 = $2C00)
// |||| |+--- VRAM address increment per CPU read/write of PPUDATA
// |||| |     (0: add 1, going across; 1: add 32, going down)
// |||| +---- Sprite pattern table address for 8x8 sprites
// ||||       (0: $0000; 1: $1000; ignored in 8x16 mode)
// |||+------ Background pattern table address (0: $0000; 1: $1000)
// ||+------- Sprite size (0: 8x8 pixels; 1: 8x16 pixels)
// |+-------- PPU master/slave select
// +--------- Generate an NMI at the start of the vertical blanking interval
const (
	CTRL_NAMETABLE1             = 1
	CTRL_NAMETABLE2             = 1 << 1
	CTRL_VRAM_ADD_INCREMENT     = 1 << 2
	CTRL_SPRITE_PATTERN_ADDR    = 1 << 3
	CTRL_BACKROUND_PATTERN_ADDR = 1 << 4
	CTRL_SPRITE_SIZE            = 1 << 5
	CTRL_MASTER_SLAVE_SELECT    = 1 << 6
	CTRL_GENERATE_NMI           = 1 << 7
)

// VRAM increment options
const (
	CTRL_INCR_ACROSS = 1
	CTRL_INCR_DOWN   = 32
)

// PPUSTATUS bits
const (
	STATUS_SPRITE_OVERFLOW = 1 << 5
	STATUS_SPRITE_0_HIT    = 1 << 6
	STATUS_VERTICAL_BLANK  = 1 << 7
)

// PPUMASK bits
const (
	MASK_GREYSCALE          = 1 << 0
	MASK_SHOW_BG_LEFT       = 1 << 1
	MASK_SHOW_SPRITES_LEFT  = 1 << 2
	MASK_SHOW_BACKGROUND    = 1 << 3
	MASK_SHOW_SPRITES       = 1 << 4
)

// Mirroring mode
const (
	MIRROR_HORIZONTAL = iota
	MIRROR_VERTICAL
	MIRROR_SINGLE_SCREEN
	MIRROR_FOUR_SCREEN
)

const (
	NAMETABLE_0      = 0x2000
	NAMETABLE_MIRROR = 0x3EFF
	PALETTE_RAM      = 0x3F00
	PALETTE_MIRROR   = 0x3F20
)

// Bus is the PPU's external collaborator: CHR-space access (routed
// through the cartridge mapper) and NMI delivery to the CPU.
type Bus interface {
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, v uint8)
	Mirroring() uint8
	TriggerNMI()
}

type color [4]uint8

// PPU holds the 2C02's register file, VRAM/OAM/palette memories, and
// the scanline/dot counters driving the compositor.
type PPU struct {
	bus Bus

	ctrl, mask, status uint8
	oamAddr            uint8

	oamData [OAM_SIZE]uint8
	vram    [VRAM_SIZE]uint8
	palette [PALETTE_SIZE]uint8

	v, t   loopy
	x      uint8 // fine X scroll, 3 bits
	w      uint8 // write-toggle latch shared by PPUSCROLL/PPUADDR

	bufferData uint8 // delayed PPUDATA read buffer

	scanline int
	dot      int
	frame    uint64

	frameDone    bool
	bgOpaque     [NES_RES_WIDTH]bool
	framebuffer  [NES_RES_WIDTH * NES_RES_HEIGHT]color

	nmiEdgePending bool
}

func New(b Bus) *PPU {
	return &PPU{
		bus:      b,
		scanline: 261, // pre-render line; matches power-on landing in vblank
		dot:      0,
	}
}

// Framebuffer returns a copy of the framebuffer's pixels, row-major,
// RGBA per pixel. Scanlines are composited into it in place, so
// mid-frame the rows already drawn belong to the frame in progress.
func (p *PPU) Framebuffer() []uint8 {
	out := make([]uint8, 0, len(p.framebuffer)*4)
	for _, c := range p.framebuffer {
		out = append(out, c[0], c[1], c[2], c[3])
	}
	return out
}

// FrameReady reports whether a frame completed since the last call,
// clearing the flag.
func (p *PPU) FrameReady() bool {
	r := p.frameDone
	p.frameDone = false
	return r
}

func (p *PPU) Resolution() (int, int) { return NES_RES_WIDTH, NES_RES_HEIGHT }

// WriteRegister handles a CPU write to one of the memory-mapped PPU
// registers (already demirrored to its canonical 0x2000-0x2007 address
// by the bus).
func (p *PPU) WriteRegister(r uint16, val uint8) {
	switch r {
	case PPUCTRL:
		prevNMI := p.ctrl&CTRL_GENERATE_NMI != 0
		p.ctrl = val
		p.t.data = (p.t.data & 0xF3FF) | (uint16(val&0x03) << 10)
		// NMI is edge-triggered: enabling it while already in vblank
		// fires immediately, matching real hardware's "late NMI" quirk.
		if !prevNMI && p.ctrl&CTRL_GENERATE_NMI != 0 && p.status&STATUS_VERTICAL_BLANK != 0 {
			p.bus.TriggerNMI()
		}
	case PPUMASK:
		p.mask = val
	case PPUSTATUS:
		err := fmt.Errorf("ppu: write to read-only register %#04x", r)
		glog.Errorf("%v", err)
		panic(err)
	case OAMADDR:
		p.oamAddr = val
	case OAMDATA:
		p.oamData[p.oamAddr] = val
		p.oamAddr++
	case PPUSCROLL:
		if p.w == 0 {
			p.t.data = (p.t.data & 0xFFE0) | uint16(val>>3)
			p.x = val & 0x07
			p.w = 1
		} else {
			p.t.data = (p.t.data & 0x8FFF) | (uint16(val&0x07) << 12)
			p.t.data = (p.t.data & 0xFC1F) | (uint16(val&0xF8) << 2)
			p.w = 0
		}
	case PPUADDR:
		if p.w == 0 {
			p.t.data = (p.t.data & 0x00FF) | (uint16(val&0x3F) << 8)
			p.w = 1
		} else {
			p.t.data = (p.t.data & 0xFF00) | uint16(val)
			p.v = p.t
			p.w = 0
		}
	case PPUDATA:
		p.writeVRAM(p.v.data, val)
		p.vramIncrement()
	}
}

// ReadRegister handles a CPU read of a memory-mapped PPU register.
func (p *PPU) ReadRegister(r uint16) uint8 {
	switch r {
	case PPUSTATUS:
		ret := (p.status & 0xE0) | (p.bufferData & 0x1F)
		p.status &^= STATUS_VERTICAL_BLANK
		p.w = 0
		return ret
	case OAMDATA:
		return p.oamData[p.oamAddr]
	case PPUDATA:
		addr := p.v.data % 0x4000
		var ret uint8
		if addr < PALETTE_RAM {
			ret = p.bufferData
			p.bufferData = p.readVRAM(addr)
		} else {
			// Palette reads are not delayed; the buffer is instead
			// refilled from the nametable mirror "under" the palette.
			ret = p.readVRAM(addr)
			p.bufferData = p.readVRAM(addr - 0x1000)
		}
		p.vramIncrement()
		return ret
	}
	err := fmt.Errorf("ppu: read of write-only register %#04x", r)
	glog.Errorf("%v", err)
	panic(err)
}

// WriteOAMByte writes directly into OAM at offset, used by the bus's
// OAMDMA transfer.
func (p *PPU) WriteOAMByte(offset uint8, v uint8) { p.oamData[offset] = v }

// OAMAddr returns the current OAMADDR value, the DMA start offset.
func (p *PPU) OAMAddr() uint8 { return p.oamAddr }

func (p *PPU) vramIncrement() {
	step := uint16(CTRL_INCR_ACROSS)
	if p.ctrl&CTRL_VRAM_ADD_INCREMENT != 0 {
		step = CTRL_INCR_DOWN
	}
	p.v.data += step
}

func (p *PPU) nametableAddr(addr uint16) uint16 {
	a := (addr - NAMETABLE_0) % 0x1000
	switch p.bus.Mirroring() {
	case MIRROR_HORIZONTAL:
		table := a / 0x400
		return (table/2)*0x400 + a%0x400
	case MIRROR_VERTICAL:
		return a % 0x800
	case MIRROR_SINGLE_SCREEN:
		return a % 0x400
	default: // four-screen degrades to a single bank; no extra VRAM exists
		return a % 0x400
	}
}

func (p *PPU) readVRAM(addr uint16) uint8 {
	a := addr % 0x4000
	switch {
	case a < NAMETABLE_0:
		return p.bus.ChrRead(a)
	case a < PALETTE_RAM:
		return p.vram[p.nametableAddr(a)]
	case a < PALETTE_MIRROR:
		return p.readPalette(a - PALETTE_RAM)
	default:
		return p.readPalette((a - PALETTE_RAM) % 0x20)
	}
}

func (p *PPU) writeVRAM(addr uint16, v uint8) {
	a := addr % 0x4000
	switch {
	case a < NAMETABLE_0:
		p.bus.ChrWrite(a, v)
	case a < PALETTE_RAM:
		p.vram[p.nametableAddr(a)] = v
	case a < PALETTE_MIRROR:
		p.writePalette(a-PALETTE_RAM, v)
	default:
		p.writePalette((a-PALETTE_RAM)%0x20, v)
	}
}

// Background colors at indices 0x10/0x14/0x18/0x1C mirror their
// 0x00/0x04/0x08/0x0C counterparts: both address the universal
// backdrop entry.
func palMirror(i uint16) uint16 {
	if i >= 0x10 && i%4 == 0 {
		return i - 0x10
	}
	return i
}

func (p *PPU) readPalette(i uint16) uint8  { return p.palette[palMirror(i)] }
func (p *PPU) writePalette(i uint16, v uint8) { p.palette[palMirror(i)] = v }

// Tick advances the PPU by n pixel-clock dots, running the
// scanline/dot schedule; a vblank NMI edge raised during the batch is
// delivered to the bus once, after the last dot.
func (p *PPU) Tick(n int) {
	for i := 0; i < n; i++ {
		p.tick()
	}
	if p.nmiEdgePending {
		p.nmiEdgePending = false
		p.bus.TriggerNMI()
	}
}

// tick advances exactly one dot through the 262-scanline x 341-dot
// schedule.
func (p *PPU) tick() {
	switch {
	case p.scanline >= 0 && p.scanline <= 239:
		if p.dot == 0 {
			p.renderScanline(p.scanline)
		}
	case p.scanline == 241 && p.dot == 1:
		p.status |= STATUS_VERTICAL_BLANK
		if p.ctrl&CTRL_GENERATE_NMI != 0 {
			p.nmiEdgePending = true
		}
		p.frameDone = true
	case p.scanline == 261 && p.dot == 1:
		p.status &^= STATUS_VERTICAL_BLANK | STATUS_SPRITE_0_HIT | STATUS_SPRITE_OVERFLOW
		// Reload the scroll held in t (PPUSCROLL/PPUCTRL) into v, which
		// the next frame's scanlines sample.
		if p.mask&(MASK_SHOW_BACKGROUND|MASK_SHOW_SPRITES) != 0 {
			p.v = p.t
		}
	}

	p.dot++
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > 261 {
			p.scanline = 0
			p.frame++
			glog.V(2).Infof("ppu: frame %d complete", p.frame)
		}
	}
}

// renderScanline composites one visible row of background and sprite
// pixels. Scroll position is sampled once at the start of the row — a
// documented simplification of the real PPU's per-dot fetch pipeline,
// sufficient for games that don't perform mid-scanline scroll splits.
func (p *PPU) renderScanline(y int) {
	for i := range p.bgOpaque {
		p.bgOpaque[i] = false
	}

	ntBase := p.ctrl & 0x03
	scrollX := int(p.v.coarseX())*8 + int(p.x)
	scrollY := int(p.v.coarseY())*8 + int(p.v.fineY())

	for x := 0; x < NES_RES_WIDTH; x++ {
		bgColor, bgOpaque := p.backgroundPixel(x, y, ntBase, scrollX, scrollY)
		if x < 8 && p.mask&MASK_SHOW_BG_LEFT == 0 {
			bgColor, bgOpaque = p.backdrop(), false
		}
		p.bgOpaque[x] = bgOpaque
		p.framebuffer[y*NES_RES_WIDTH+x] = bgColor
	}

	if p.mask&MASK_SHOW_SPRITES != 0 {
		p.renderSprites(y)
	}
}

func (p *PPU) backgroundPixel(x, y int, ntBase uint8, scrollX, scrollY int) (color, bool) {
	if p.mask&MASK_SHOW_BACKGROUND == 0 {
		return p.backdrop(), false
	}

	totalX := scrollX + x
	totalY := scrollY + y

	ntIndexX := (totalX / NES_RES_WIDTH) % 2
	ntIndexY := (totalY / NES_RES_HEIGHT) % 2
	localX := totalX % NES_RES_WIDTH
	localY := totalY % NES_RES_HEIGHT

	effNtX := int(ntBase&0x01) ^ ntIndexX
	effNtY := int((ntBase>>1)&0x01) ^ ntIndexY
	ntNum := uint16(effNtY<<1 | effNtX)

	tileCol, tileRow := localX/8, localY/8
	fineX, fineY := localX%8, localY%8

	base := NAMETABLE_0 + ntNum*0x400
	tileID := p.readVRAM(base + uint16(tileRow*32+tileCol))

	attrByte := p.readVRAM(base + 0x3C0 + uint16((tileRow/4)*8+(tileCol/4)))
	quadrant := uint(((tileRow%4)/2)*2 + ((tileCol % 4) / 2))
	palIdx := (attrByte >> (quadrant * 2)) & 0x03

	patBase := uint16(0)
	if p.ctrl&CTRL_BACKROUND_PATTERN_ADDR != 0 {
		patBase = 0x1000
	}
	lo := p.bus.ChrRead(patBase + uint16(tileID)*16 + uint16(fineY))
	hi := p.bus.ChrRead(patBase + uint16(tileID)*16 + uint16(fineY) + 8)
	bit := uint(7 - fineX)
	colorIdx := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)

	if colorIdx == 0 {
		return p.backdrop(), false
	}
	return p.colorFromPalette(uint16(palIdx)*4 + uint16(colorIdx)), true
}

func (p *PPU) backdrop() color {
	return SYSTEM_PALETTE[p.greyscale(p.readPalette(0)&0x3F)]
}

func (p *PPU) colorFromPalette(i uint16) color {
	return SYSTEM_PALETTE[p.greyscale(p.readPalette(i)&0x3F)]
}

// greyscale forces the color code to a shade of grey when PPUMASK's
// greyscale bit is set, matching hardware's AND-with-$30 behavior on
// the final 6-bit color code.
func (p *PPU) greyscale(nes uint8) uint8 {
	if p.mask&MASK_GREYSCALE != 0 {
		return nes & 0x30
	}
	return nes
}

// renderSprites composites sprites onto scanline y, iterating OAM back
// to front (index 63 down to 0) so sprite 0 is painted last and wins
// any overlap, matching hardware's priority ordering.
func (p *PPU) renderSprites(y int) {
	height := 8
	if p.ctrl&CTRL_SPRITE_SIZE != 0 {
		height = 16
	}

	// Only the first 8 sprites in OAM order that cover this line are
	// drawn; a ninth sets the overflow flag and it and every later
	// sprite are skipped. OAM Y is one less than a sprite's first line.
	last, count := 63, 0
	for i := 0; i < 64; i++ {
		if top := int(p.oamData[i*4]) + 1; top <= 0xEF && y >= top && y-top < height {
			if count++; count > 8 {
				p.status |= STATUS_SPRITE_OVERFLOW
				last = i - 1
				break
			}
		}
	}

	for i := last; i >= 0; i-- {
		o := OAMFromBytes(p.oamData[i*4 : i*4+4])
		if o.y >= 0xEF {
			continue // Y in $EF-$FF is off-screen and never displayed
		}
		row := y - (int(o.y) + 1)
		if row < 0 || row >= height {
			continue
		}

		if o.flipV {
			row = height - 1 - row
		}

		tile := uint16(o.tileId)
		patBase := uint16(0)
		if height == 8 {
			if p.ctrl&CTRL_SPRITE_PATTERN_ADDR != 0 {
				patBase = 0x1000
			}
		} else {
			patBase = uint16(tile&0x01) * 0x1000
			tile &^= 0x01
			if row >= 8 {
				tile++
				row -= 8
			}
		}

		lo := p.bus.ChrRead(patBase + tile*16 + uint16(row))
		hi := p.bus.ChrRead(patBase + tile*16 + uint16(row) + 8)

		for col := 0; col < 8; col++ {
			bitCol := col
			if !o.flipH {
				bitCol = 7 - col
			}
			colorIdx := ((hi>>uint(bitCol))&1)<<1 | ((lo >> uint(bitCol)) & 1)
			if colorIdx == 0 {
				continue
			}
			sx := int(o.x) + col
			if sx < 0 || sx >= NES_RES_WIDTH {
				continue
			}
			if sx < 8 && p.mask&MASK_SHOW_SPRITES_LEFT == 0 {
				continue
			}

			if i == 0 && p.bgOpaque[sx] && sx != 255 {
				p.status |= STATUS_SPRITE_0_HIT
			}

			if o.renderP == BACK && p.bgOpaque[sx] {
				continue
			}
			p.framebuffer[y*NES_RES_WIDTH+sx] = p.colorFromPalette(0x10 + uint16(o.palette)*4 + uint16(colorIdx))
		}
	}
}

// DebugNametable returns the raw 1KB nametable bank n (0-3) for
// diagnostic display; it has no role in rendering.
func (p *PPU) DebugNametable(n int) []uint8 {
	out := make([]uint8, 0x400)
	base := NAMETABLE_0 + uint16(n)*0x400
	for i := range out {
		out[i] = p.readVRAM(base + uint16(i))
	}
	return out
}

// DebugPaletteStrip returns all 32 palette entries (background then
// sprite, 4 palettes of 4 colors each) rendered as a 32x1 strip of
// RGBA8888 pixels, for a debug palette viewer; it has no role in
// rendering.
func (p *PPU) DebugPaletteStrip() []uint8 {
	out := make([]uint8, 0, PALETTE_SIZE*4)
	for i := uint16(0); i < PALETTE_SIZE; i++ {
		c := p.colorFromPalette(i)
		out = append(out, c[0], c[1], c[2], c[3])
	}
	return out
}

// DebugPatternTable renders pattern table bank (0 or 1) as 128x128
// RGBA8888 pixels using paletteID for color lookup, for a debug tile
// viewer; it has no role in rendering.
func (p *PPU) DebugPatternTable(bank int, paletteID uint8) []uint8 {
	const side = 128
	out := make([]uint8, side*side*4)
	base := uint16(bank) * 0x1000
	for tileN := 0; tileN < 256; tileN++ {
		tileX := (tileN % 16) * 8
		tileY := (tileN / 16) * 8
		for row := 0; row < 8; row++ {
			lo := p.bus.ChrRead(base + uint16(tileN)*16 + uint16(row))
			hi := p.bus.ChrRead(base + uint16(tileN)*16 + uint16(row) + 8)
			for col := 0; col < 8; col++ {
				bit := uint(7 - col)
				idx := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
				c := p.colorFromPalette(uint16(paletteID)*4 + uint16(idx))
				px, py := tileX+col, tileY+row
				o := (py*side + px) * 4
				out[o], out[o+1], out[o+2], out[o+3] = c[0], c[1], c[2], c[3]
			}
		}
	}
	return out
}

var SYSTEM_PALETTE [64]color = [64]color{
	{0x80, 0x80, 0x80, 0xff}, {0x00, 0x3D, 0xA6, 0xff}, {0x00, 0x12, 0xB0, 0xff}, {0x44, 0x00, 0x96, 0xff}, {0xA1, 0x00, 0x5E, 0xff},
	{0xC7, 0x00, 0x28, 0xff}, {0xBA, 0x06, 0x00, 0xff}, {0x8C, 0x17, 0x00, 0xff}, {0x5C, 0x2F, 0x00, 0xff}, {0x10, 0x45, 0x00, 0xff},
	{0x05, 0x4A, 0x00, 0xff}, {0x00, 0x47, 0x2E, 0xff}, {0x00, 0x41, 0x66, 0xff}, {0x00, 0x00, 0x00, 0xff}, {0x05, 0x05, 0x05, 0xff},
	{0x05, 0x05, 0x05, 0xff}, {0xC7, 0xC7, 0xC7, 0xff}, {0x00, 0x77, 0xFF, 0xff}, {0x21, 0x55, 0xFF, 0xff}, {0x82, 0x37, 0xFA, 0xff},
	{0xEB, 0x2F, 0xB5, 0xff}, {0xFF, 0x29, 0x50, 0xff}, {0xFF, 0x22, 0x00, 0xff}, {0xD6, 0x32, 0x00, 0xff}, {0xC4, 0x62, 0x00, 0xff},
	{0x35, 0x80, 0x00, 0xff}, {0x05, 0x8F, 0x00, 0xff}, {0x00, 0x8A, 0x55, 0xff}, {0x00, 0x99, 0xCC, 0xff}, {0x21, 0x21, 0x21, 0xff},
	{0x09, 0x09, 0x09, 0xff}, {0x09, 0x09, 0x09, 0xff}, {0xFF, 0xFF, 0xFF, 0xff}, {0x0F, 0xD7, 0xFF, 0xff}, {0x69, 0xA2, 0xFF, 0xff},
	{0xD4, 0x80, 0xFF, 0xff}, {0xFF, 0x45, 0xF3, 0xff}, {0xFF, 0x61, 0x8B, 0xff}, {0xFF, 0x88, 0x33, 0xff}, {0xFF, 0x9C, 0x12, 0xff},
	{0xFA, 0xBC, 0x20, 0xff}, {0x9F, 0xE3, 0x0E, 0xff}, {0x2B, 0xF0, 0x35, 0xff}, {0x0C, 0xF0, 0xA4, 0xff}, {0x05, 0xFB, 0xFF, 0xff},
	{0x5E, 0x5E, 0x5E, 0xff}, {0x0D, 0x0D, 0x0D, 0xff}, {0x0D, 0x0D, 0x0D, 0xff}, {0xFF, 0xFF, 0xFF, 0xff}, {0xA6, 0xFC, 0xFF, 0xff},
	{0xB3, 0xEC, 0xFF, 0xff}, {0xDA, 0xAB, 0xEB, 0xff}, {0xFF, 0xA8, 0xF9, 0xff}, {0xFF, 0xAB, 0xB3, 0xff}, {0xFF, 0xD2, 0xB0, 0xff},
	{0xFF, 0xEF, 0xA6, 0xff}, {0xFF, 0xF7, 0x9C, 0xff}, {0xD7, 0xE8, 0x95, 0xff}, {0xA6, 0xED, 0xAF, 0xff}, {0xA2, 0xF2, 0xDA, 0xff},
	{0x99, 0xFF, 0xFC, 0xff}, {0xDD, 0xDD, 0xDD, 0xff}, {0x11, 0x11, 0x11, 0xff}, {0x11, 0x11, 0x11, 0xff},
}
