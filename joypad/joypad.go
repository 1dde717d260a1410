// Package joypad implements the NES controller's serial shift
// register as seen at $4016/$4017. Host key polling is an external
// concern; this package only tracks button state set via SetButton.
package joypad

// Button bit positions, matching the controller's serial read order.
const (
	ButtonA uint8 = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Joypad is one controller port's shift register.
type Joypad struct {
	strobe  bool
	buttons uint8
	idx     uint8
}

// SetButton sets or clears a single button in the live state. There
// is no separate latched copy: Read always reports bits of the live
// state, so a change takes effect on the next read.
func (j *Joypad) SetButton(b uint8, pressed bool) {
	if pressed {
		j.buttons |= b
	} else {
		j.buttons &^= b
	}
}

// Write handles a CPU write to the controller's strobe register: bit 0
// sets the strobe, and writing it high resets the read index to the
// first button. While strobe stays high, Read keeps reporting button A.
func (j *Joypad) Write(val uint8) {
	j.strobe = val&0x01 != 0
	if j.strobe {
		j.idx = 0
	}
}

// Read returns the next serial bit: one button per read in fixed
// order (A, B, Select, Start, Up, Down, Left, Right), then 1 for every
// read past the eighth.
func (j *Joypad) Read() uint8 {
	if j.strobe {
		// Hardware keeps reporting button 0 (A) for as long as strobe
		// stays high.
		return j.buttons & 0x01
	}
	if j.idx > 7 {
		return 1
	}
	ret := (j.buttons >> j.idx) & 0x01
	j.idx++
	return ret
}
