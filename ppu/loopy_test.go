package ppu

import "testing"

func TestLoopyAccessors(t *testing.T) {
	cases := []struct {
		data                     uint16
		wantCoarseX, wantCoarseY uint16
		wantFineY                uint16
	}{
		{0b0000_0000_0000_0000, 0, 0, 0},
		{0b0111_1011_1001_1000, 0b11000, 0b11100, 0b111},
		{0b0011_0111_1001_0111, 0b10111, 0b11100, 0b011},
		{0b0011_0011_1011_0111, 0b10111, 0b11101, 0b011},
		{0b0011_0000_0001_0111, 0b10111, 0, 0b011},
	}

	for i, tc := range cases {
		l := &loopy{tc.data}
		cx, cy, fy := l.coarseX(), l.coarseY(), l.fineY()
		if cx != tc.wantCoarseX || cy != tc.wantCoarseY || fy != tc.wantFineY {
			t.Errorf("%d: got coarseX=%05b coarseY=%05b fineY=%03b, want %05b %05b %03b",
				i, cx, cy, fy, tc.wantCoarseX, tc.wantCoarseY, tc.wantFineY)
		}
	}
}
