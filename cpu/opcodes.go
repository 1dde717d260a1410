package cpu

import "fmt"

// Addressing modes, per the 6502 addressing reference.
const (
	modeImplied = iota
	modeAccumulator
	modeImmediate
	modeZeroPage
	modeZeroPageX
	modeZeroPageY
	modeRelative
	modeAbsolute
	modeAbsoluteX
	modeAbsoluteY
	modeIndirect
	modeIndirectX // Indexed Indirect
	modeIndirectY // Indirect Indexed
)

var modeNames = map[uint8]string{
	modeImplied:     "IMPLIED",
	modeAccumulator: "ACCUMULATOR",
	modeImmediate:   "IMMEDIATE",
	modeZeroPage:    "ZERO_PAGE",
	modeZeroPageX:   "ZERO_PAGE_X",
	modeZeroPageY:   "ZERO_PAGE_Y",
	modeRelative:    "RELATIVE",
	modeAbsolute:    "ABSOLUTE",
	modeAbsoluteX:   "ABSOLUTE_X",
	modeAbsoluteY:   "ABSOLUTE_Y",
	modeIndirect:    "INDIRECT",
	modeIndirectX:   "INDIRECT_X",
	modeIndirectY:   "INDIRECT_Y",
}

// Mnemonics. mnInvalid is the zero value so that an opcode{} left
// unassigned in the table below decodes as invalid without needing a
// separate validity flag.
const (
	mnInvalid = iota
	mnADC
	mnAND
	mnASL
	mnBCC
	mnBCS
	mnBEQ
	mnBIT
	mnBMI
	mnBNE
	mnBPL
	mnBRK
	mnBVC
	mnBVS
	mnCLC
	mnCLD
	mnCLI
	mnCLV
	mnCMP
	mnCPX
	mnCPY
	mnDEC
	mnDEX
	mnDEY
	mnEOR
	mnINC
	mnINX
	mnINY
	mnJMP
	mnJSR
	mnLDA
	mnLDX
	mnLDY
	mnLSR
	mnNOP
	mnORA
	mnPHA
	mnPHP
	mnPLA
	mnPLP
	mnROL
	mnROR
	mnRTI
	mnRTS
	mnSBC
	mnSEC
	mnSED
	mnSEI
	mnSTA
	mnSTX
	mnSTY
	mnTAX
	mnTAY
	mnTSX
	mnTXA
	mnTXS
	mnTYA
	// Illegal/undocumented opcodes.
	mnLAX
	mnSAX
	mnDCP
	mnISB
	mnSLO
	mnRLA
	mnSRE
	mnRRA
	mnANC
	mnALR
	mnUSBC
	mnJAM
)

var mnemonicNames = map[uint8]string{
	mnInvalid: "???",
	mnADC:     "ADC", mnAND: "AND", mnASL: "ASL", mnBCC: "BCC", mnBCS: "BCS",
	mnBEQ: "BEQ", mnBIT: "BIT", mnBMI: "BMI", mnBNE: "BNE", mnBPL: "BPL",
	mnBRK: "BRK", mnBVC: "BVC", mnBVS: "BVS", mnCLC: "CLC", mnCLD: "CLD",
	mnCLI: "CLI", mnCLV: "CLV", mnCMP: "CMP", mnCPX: "CPX", mnCPY: "CPY",
	mnDEC: "DEC", mnDEX: "DEX", mnDEY: "DEY", mnEOR: "EOR", mnINC: "INC",
	mnINX: "INX", mnINY: "INY", mnJMP: "JMP", mnJSR: "JSR", mnLDA: "LDA",
	mnLDX: "LDX", mnLDY: "LDY", mnLSR: "LSR", mnNOP: "NOP", mnORA: "ORA",
	mnPHA: "PHA", mnPHP: "PHP", mnPLA: "PLA", mnPLP: "PLP", mnROL: "ROL",
	mnROR: "ROR", mnRTI: "RTI", mnRTS: "RTS", mnSBC: "SBC", mnSEC: "SEC",
	mnSED: "SED", mnSEI: "SEI", mnSTA: "STA", mnSTX: "STX", mnSTY: "STY",
	mnTAX: "TAX", mnTAY: "TAY", mnTSX: "TSX", mnTXA: "TXA", mnTXS: "TXS",
	mnTYA: "TYA",
	mnLAX: "LAX", mnSAX: "SAX", mnDCP: "DCP", mnISB: "ISB", mnSLO: "SLO",
	mnRLA: "RLA", mnSRE: "SRE", mnRRA: "RRA", mnANC: "ANC", mnALR: "ALR",
	mnUSBC: "USBC", mnJAM: "JAM",
}

// readSensitive reports whether an instruction's addressing resolution
// should add a page-cross penalty cycle. Stores and read-modify-write
// instructions always pay their fixed listed cost instead.
var readSensitive = map[uint8]bool{
	mnADC: true, mnAND: true, mnCMP: true, mnEOR: true, mnLDA: true,
	mnLDX: true, mnLDY: true, mnORA: true, mnSBC: true, mnLAX: true,
	mnNOP: true,
}

type opcode struct {
	mnemonic uint8
	mode     uint8
	bytes    uint8
	cycles   uint8
	illegal  bool
}

func (o opcode) String() string {
	return fmt.Sprintf("%s(%s)", mnemonicNames[o.mnemonic], modeNames[o.mode])
}

// opcodeTable is a dense, array-indexed instruction table: 256 entries,
// one per possible opcode byte. Entries left unassigned decode as
// mnInvalid (the zero value) and trap in dispatch.
var opcodeTable = [256]opcode{
	0x69: {mnADC, modeImmediate, 2, 2, false},
	0x65: {mnADC, modeZeroPage, 2, 3, false},
	0x75: {mnADC, modeZeroPageX, 2, 4, false},
	0x6D: {mnADC, modeAbsolute, 3, 4, false},
	0x7D: {mnADC, modeAbsoluteX, 3, 4, false},
	0x79: {mnADC, modeAbsoluteY, 3, 4, false},
	0x61: {mnADC, modeIndirectX, 2, 6, false},
	0x71: {mnADC, modeIndirectY, 2, 5, false},

	0x29: {mnAND, modeImmediate, 2, 2, false},
	0x25: {mnAND, modeZeroPage, 2, 3, false},
	0x35: {mnAND, modeZeroPageX, 2, 4, false},
	0x2D: {mnAND, modeAbsolute, 3, 4, false},
	0x3D: {mnAND, modeAbsoluteX, 3, 4, false},
	0x39: {mnAND, modeAbsoluteY, 3, 4, false},
	0x21: {mnAND, modeIndirectX, 2, 6, false},
	0x31: {mnAND, modeIndirectY, 2, 5, false},

	0x0A: {mnASL, modeAccumulator, 1, 2, false},
	0x06: {mnASL, modeZeroPage, 2, 5, false},
	0x16: {mnASL, modeZeroPageX, 2, 6, false},
	0x0E: {mnASL, modeAbsolute, 3, 6, false},
	0x1E: {mnASL, modeAbsoluteX, 3, 7, false},

	0x90: {mnBCC, modeRelative, 2, 2, false},
	0xB0: {mnBCS, modeRelative, 2, 2, false},
	0xF0: {mnBEQ, modeRelative, 2, 2, false},
	0x30: {mnBMI, modeRelative, 2, 2, false},
	0xD0: {mnBNE, modeRelative, 2, 2, false},
	0x10: {mnBPL, modeRelative, 2, 2, false},
	0x50: {mnBVC, modeRelative, 2, 2, false},
	0x70: {mnBVS, modeRelative, 2, 2, false},

	0x24: {mnBIT, modeZeroPage, 2, 3, false},
	0x2C: {mnBIT, modeAbsolute, 3, 4, false},

	0x00: {mnBRK, modeImplied, 1, 7, false},

	0x18: {mnCLC, modeImplied, 1, 2, false},
	0xD8: {mnCLD, modeImplied, 1, 2, false},
	0x58: {mnCLI, modeImplied, 1, 2, false},
	0xB8: {mnCLV, modeImplied, 1, 2, false},

	0xC9: {mnCMP, modeImmediate, 2, 2, false},
	0xC5: {mnCMP, modeZeroPage, 2, 3, false},
	0xD5: {mnCMP, modeZeroPageX, 2, 4, false},
	0xCD: {mnCMP, modeAbsolute, 3, 4, false},
	0xDD: {mnCMP, modeAbsoluteX, 3, 4, false},
	0xD9: {mnCMP, modeAbsoluteY, 3, 4, false},
	0xC1: {mnCMP, modeIndirectX, 2, 6, false},
	0xD1: {mnCMP, modeIndirectY, 2, 5, false},

	0xE0: {mnCPX, modeImmediate, 2, 2, false},
	0xE4: {mnCPX, modeZeroPage, 2, 3, false},
	0xEC: {mnCPX, modeAbsolute, 3, 4, false},

	0xC0: {mnCPY, modeImmediate, 2, 2, false},
	0xC4: {mnCPY, modeZeroPage, 2, 3, false},
	0xCC: {mnCPY, modeAbsolute, 3, 4, false},

	0xC6: {mnDEC, modeZeroPage, 2, 5, false},
	0xD6: {mnDEC, modeZeroPageX, 2, 6, false},
	0xCE: {mnDEC, modeAbsolute, 3, 6, false},
	0xDE: {mnDEC, modeAbsoluteX, 3, 7, false},
	0xCA: {mnDEX, modeImplied, 1, 2, false},
	0x88: {mnDEY, modeImplied, 1, 2, false},

	0x49: {mnEOR, modeImmediate, 2, 2, false},
	0x45: {mnEOR, modeZeroPage, 2, 3, false},
	0x55: {mnEOR, modeZeroPageX, 2, 4, false},
	0x4D: {mnEOR, modeAbsolute, 3, 4, false},
	0x5D: {mnEOR, modeAbsoluteX, 3, 4, false},
	0x59: {mnEOR, modeAbsoluteY, 3, 4, false},
	0x41: {mnEOR, modeIndirectX, 2, 6, false},
	0x51: {mnEOR, modeIndirectY, 2, 5, false},

	0xE6: {mnINC, modeZeroPage, 2, 5, false},
	0xF6: {mnINC, modeZeroPageX, 2, 6, false},
	0xEE: {mnINC, modeAbsolute, 3, 6, false},
	0xFE: {mnINC, modeAbsoluteX, 3, 7, false},
	0xE8: {mnINX, modeImplied, 1, 2, false},
	0xC8: {mnINY, modeImplied, 1, 2, false},

	0x4C: {mnJMP, modeAbsolute, 3, 3, false},
	0x6C: {mnJMP, modeIndirect, 3, 5, false},
	0x20: {mnJSR, modeAbsolute, 3, 6, false},

	0xA9: {mnLDA, modeImmediate, 2, 2, false},
	0xA5: {mnLDA, modeZeroPage, 2, 3, false},
	0xB5: {mnLDA, modeZeroPageX, 2, 4, false},
	0xAD: {mnLDA, modeAbsolute, 3, 4, false},
	0xBD: {mnLDA, modeAbsoluteX, 3, 4, false},
	0xB9: {mnLDA, modeAbsoluteY, 3, 4, false},
	0xA1: {mnLDA, modeIndirectX, 2, 6, false},
	0xB1: {mnLDA, modeIndirectY, 2, 5, false},

	0xA2: {mnLDX, modeImmediate, 2, 2, false},
	0xA6: {mnLDX, modeZeroPage, 2, 3, false},
	0xB6: {mnLDX, modeZeroPageY, 2, 4, false},
	0xAE: {mnLDX, modeAbsolute, 3, 4, false},
	0xBE: {mnLDX, modeAbsoluteY, 3, 4, false},

	0xA0: {mnLDY, modeImmediate, 2, 2, false},
	0xA4: {mnLDY, modeZeroPage, 2, 3, false},
	0xB4: {mnLDY, modeZeroPageX, 2, 4, false},
	0xAC: {mnLDY, modeAbsolute, 3, 4, false},
	0xBC: {mnLDY, modeAbsoluteX, 3, 4, false},

	0x4A: {mnLSR, modeAccumulator, 1, 2, false},
	0x46: {mnLSR, modeZeroPage, 2, 5, false},
	0x56: {mnLSR, modeZeroPageX, 2, 6, false},
	0x4E: {mnLSR, modeAbsolute, 3, 6, false},
	0x5E: {mnLSR, modeAbsoluteX, 3, 7, false},

	0xEA: {mnNOP, modeImplied, 1, 2, false},

	0x09: {mnORA, modeImmediate, 2, 2, false},
	0x05: {mnORA, modeZeroPage, 2, 3, false},
	0x15: {mnORA, modeZeroPageX, 2, 4, false},
	0x0D: {mnORA, modeAbsolute, 3, 4, false},
	0x1D: {mnORA, modeAbsoluteX, 3, 4, false},
	0x19: {mnORA, modeAbsoluteY, 3, 4, false},
	0x01: {mnORA, modeIndirectX, 2, 6, false},
	0x11: {mnORA, modeIndirectY, 2, 5, false},

	0x48: {mnPHA, modeImplied, 1, 3, false},
	0x08: {mnPHP, modeImplied, 1, 3, false},
	0x68: {mnPLA, modeImplied, 1, 4, false},
	0x28: {mnPLP, modeImplied, 1, 4, false},

	0x2A: {mnROL, modeAccumulator, 1, 2, false},
	0x26: {mnROL, modeZeroPage, 2, 5, false},
	0x36: {mnROL, modeZeroPageX, 2, 6, false},
	0x2E: {mnROL, modeAbsolute, 3, 6, false},
	0x3E: {mnROL, modeAbsoluteX, 3, 7, false},

	0x6A: {mnROR, modeAccumulator, 1, 2, false},
	0x66: {mnROR, modeZeroPage, 2, 5, false},
	0x76: {mnROR, modeZeroPageX, 2, 6, false},
	0x6E: {mnROR, modeAbsolute, 3, 6, false},
	0x7E: {mnROR, modeAbsoluteX, 3, 7, false},

	0x40: {mnRTI, modeImplied, 1, 6, false},
	0x60: {mnRTS, modeImplied, 1, 6, false},

	0xE9: {mnSBC, modeImmediate, 2, 2, false},
	0xE5: {mnSBC, modeZeroPage, 2, 3, false},
	0xF5: {mnSBC, modeZeroPageX, 2, 4, false},
	0xED: {mnSBC, modeAbsolute, 3, 4, false},
	0xFD: {mnSBC, modeAbsoluteX, 3, 4, false},
	0xF9: {mnSBC, modeAbsoluteY, 3, 4, false},
	0xE1: {mnSBC, modeIndirectX, 2, 6, false},
	0xF1: {mnSBC, modeIndirectY, 2, 5, false},

	0x38: {mnSEC, modeImplied, 1, 2, false},
	0xF8: {mnSED, modeImplied, 1, 2, false},
	0x78: {mnSEI, modeImplied, 1, 2, false},

	0x85: {mnSTA, modeZeroPage, 2, 3, false},
	0x95: {mnSTA, modeZeroPageX, 2, 4, false},
	0x8D: {mnSTA, modeAbsolute, 3, 4, false},
	0x9D: {mnSTA, modeAbsoluteX, 3, 5, false},
	0x99: {mnSTA, modeAbsoluteY, 3, 5, false},
	0x81: {mnSTA, modeIndirectX, 2, 6, false},
	0x91: {mnSTA, modeIndirectY, 2, 6, false},

	0x86: {mnSTX, modeZeroPage, 2, 3, false},
	0x96: {mnSTX, modeZeroPageY, 2, 4, false},
	0x8E: {mnSTX, modeAbsolute, 3, 4, false},

	0x84: {mnSTY, modeZeroPage, 2, 3, false},
	0x94: {mnSTY, modeZeroPageX, 2, 4, false},
	0x8C: {mnSTY, modeAbsolute, 3, 4, false},

	0xAA: {mnTAX, modeImplied, 1, 2, false},
	0xA8: {mnTAY, modeImplied, 1, 2, false},
	0xBA: {mnTSX, modeImplied, 1, 2, false},
	0x8A: {mnTXA, modeImplied, 1, 2, false},
	0x9A: {mnTXS, modeImplied, 1, 2, false},
	0x98: {mnTYA, modeImplied, 1, 2, false},

	// Illegal/undocumented opcodes in their conventional placements.
	0xA3: {mnLAX, modeIndirectX, 2, 6, true},
	0xA7: {mnLAX, modeZeroPage, 2, 3, true},
	0xAF: {mnLAX, modeAbsolute, 3, 4, true},
	0xB3: {mnLAX, modeIndirectY, 2, 5, true},
	0xB7: {mnLAX, modeZeroPageY, 2, 4, true},
	0xBF: {mnLAX, modeAbsoluteY, 3, 4, true},

	0x83: {mnSAX, modeIndirectX, 2, 6, true},
	0x87: {mnSAX, modeZeroPage, 2, 3, true},
	0x8F: {mnSAX, modeAbsolute, 3, 4, true},
	0x97: {mnSAX, modeZeroPageY, 2, 4, true},

	0xC3: {mnDCP, modeIndirectX, 2, 8, true},
	0xC7: {mnDCP, modeZeroPage, 2, 5, true},
	0xCF: {mnDCP, modeAbsolute, 3, 6, true},
	0xD3: {mnDCP, modeIndirectY, 2, 8, true},
	0xD7: {mnDCP, modeZeroPageX, 2, 6, true},
	0xDB: {mnDCP, modeAbsoluteY, 3, 7, true},
	0xDF: {mnDCP, modeAbsoluteX, 3, 7, true},

	0xE3: {mnISB, modeIndirectX, 2, 8, true},
	0xE7: {mnISB, modeZeroPage, 2, 5, true},
	0xEF: {mnISB, modeAbsolute, 3, 6, true},
	0xF3: {mnISB, modeIndirectY, 2, 8, true},
	0xF7: {mnISB, modeZeroPageX, 2, 6, true},
	0xFB: {mnISB, modeAbsoluteY, 3, 7, true},
	0xFF: {mnISB, modeAbsoluteX, 3, 7, true},

	0x03: {mnSLO, modeIndirectX, 2, 8, true},
	0x07: {mnSLO, modeZeroPage, 2, 5, true},
	0x0F: {mnSLO, modeAbsolute, 3, 6, true},
	0x13: {mnSLO, modeIndirectY, 2, 8, true},
	0x17: {mnSLO, modeZeroPageX, 2, 6, true},
	0x1B: {mnSLO, modeAbsoluteY, 3, 7, true},
	0x1F: {mnSLO, modeAbsoluteX, 3, 7, true},

	0x23: {mnRLA, modeIndirectX, 2, 8, true},
	0x27: {mnRLA, modeZeroPage, 2, 5, true},
	0x2F: {mnRLA, modeAbsolute, 3, 6, true},
	0x33: {mnRLA, modeIndirectY, 2, 8, true},
	0x37: {mnRLA, modeZeroPageX, 2, 6, true},
	0x3B: {mnRLA, modeAbsoluteY, 3, 7, true},
	0x3F: {mnRLA, modeAbsoluteX, 3, 7, true},

	0x43: {mnSRE, modeIndirectX, 2, 8, true},
	0x47: {mnSRE, modeZeroPage, 2, 5, true},
	0x4F: {mnSRE, modeAbsolute, 3, 6, true},
	0x53: {mnSRE, modeIndirectY, 2, 8, true},
	0x57: {mnSRE, modeZeroPageX, 2, 6, true},
	0x5B: {mnSRE, modeAbsoluteY, 3, 7, true},
	0x5F: {mnSRE, modeAbsoluteX, 3, 7, true},

	0x63: {mnRRA, modeIndirectX, 2, 8, true},
	0x67: {mnRRA, modeZeroPage, 2, 5, true},
	0x6F: {mnRRA, modeAbsolute, 3, 6, true},
	0x73: {mnRRA, modeIndirectY, 2, 8, true},
	0x77: {mnRRA, modeZeroPageX, 2, 6, true},
	0x7B: {mnRRA, modeAbsoluteY, 3, 7, true},
	0x7F: {mnRRA, modeAbsoluteX, 3, 7, true},

	0x0B: {mnANC, modeImmediate, 2, 2, true},
	0x2B: {mnANC, modeImmediate, 2, 2, true},
	0x4B: {mnALR, modeImmediate, 2, 2, true},
	0xEB: {mnUSBC, modeImmediate, 2, 2, true},

	0x02: {mnJAM, modeImplied, 1, 2, true},
	0x12: {mnJAM, modeImplied, 1, 2, true},
	0x22: {mnJAM, modeImplied, 1, 2, true},
	0x32: {mnJAM, modeImplied, 1, 2, true},
	0x42: {mnJAM, modeImplied, 1, 2, true},
	0x52: {mnJAM, modeImplied, 1, 2, true},
	0x62: {mnJAM, modeImplied, 1, 2, true},
	0x72: {mnJAM, modeImplied, 1, 2, true},
	0x92: {mnJAM, modeImplied, 1, 2, true},
	0xB2: {mnJAM, modeImplied, 1, 2, true},
	0xD2: {mnJAM, modeImplied, 1, 2, true},
	0xF2: {mnJAM, modeImplied, 1, 2, true},

	// Undocumented NOPs: they still fetch/advance like a documented
	// instruction and (for the indexed-absolute forms) still pay the
	// page-cross penalty, so they are real table entries rather than
	// aliases of 0xEA.
	0x1A: {mnNOP, modeImplied, 1, 2, true},
	0x3A: {mnNOP, modeImplied, 1, 2, true},
	0x5A: {mnNOP, modeImplied, 1, 2, true},
	0x7A: {mnNOP, modeImplied, 1, 2, true},
	0xDA: {mnNOP, modeImplied, 1, 2, true},
	0xFA: {mnNOP, modeImplied, 1, 2, true},

	0x80: {mnNOP, modeImmediate, 2, 2, true},
	0x82: {mnNOP, modeImmediate, 2, 2, true},
	0x89: {mnNOP, modeImmediate, 2, 2, true},
	0xC2: {mnNOP, modeImmediate, 2, 2, true},
	0xE2: {mnNOP, modeImmediate, 2, 2, true},

	0x04: {mnNOP, modeZeroPage, 2, 3, true},
	0x44: {mnNOP, modeZeroPage, 2, 3, true},
	0x64: {mnNOP, modeZeroPage, 2, 3, true},

	0x14: {mnNOP, modeZeroPageX, 2, 4, true},
	0x34: {mnNOP, modeZeroPageX, 2, 4, true},
	0x54: {mnNOP, modeZeroPageX, 2, 4, true},
	0x74: {mnNOP, modeZeroPageX, 2, 4, true},
	0xD4: {mnNOP, modeZeroPageX, 2, 4, true},
	0xF4: {mnNOP, modeZeroPageX, 2, 4, true},

	0x0C: {mnNOP, modeAbsolute, 3, 4, true},

	0x1C: {mnNOP, modeAbsoluteX, 3, 4, true},
	0x3C: {mnNOP, modeAbsoluteX, 3, 4, true},
	0x5C: {mnNOP, modeAbsoluteX, 3, 4, true},
	0x7C: {mnNOP, modeAbsoluteX, 3, 4, true},
	0xDC: {mnNOP, modeAbsoluteX, 3, 4, true},
	0xFC: {mnNOP, modeAbsoluteX, 3, 4, true},
}
