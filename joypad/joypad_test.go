package joypad

import "testing"

// TestSerialReadOrder is the joypad Testable Property: strobe(1) then
// strobe(0), then 8 reads return the buttons in fixed order, and the
// 9th read returns 1.
func TestSerialReadOrder(t *testing.T) {
	var j Joypad
	j.SetButton(ButtonA, true)
	j.SetButton(ButtonStart, true)
	j.SetButton(ButtonRight, true)

	j.Write(1)
	j.Write(0)

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 1}
	for i, w := range want {
		if got := j.Read(); got != w {
			t.Fatalf("read %d = %d, want %d", i, got, w)
		}
	}
	if got := j.Read(); got != 1 {
		t.Fatalf("9th read = %d, want 1", got)
	}
}

func TestStrobeHighAlwaysReportsButtonA(t *testing.T) {
	var j Joypad
	j.SetButton(ButtonA, true)
	j.Write(1)
	for i := 0; i < 3; i++ {
		if got := j.Read(); got != 1 {
			t.Fatalf("read while strobed = %d, want 1", got)
		}
	}
}

func TestLiveStateReloadsWhileStrobed(t *testing.T) {
	var j Joypad
	j.Write(1)
	j.SetButton(ButtonA, true)
	if got := j.Read(); got != 1 {
		t.Fatalf("read after late SetButton while strobed = %d, want 1", got)
	}
	j.SetButton(ButtonA, false)
	if got := j.Read(); got != 0 {
		t.Fatalf("read after clearing while strobed = %d, want 0", got)
	}
}
