package edid

import (
	"errors"
	"testing"
)

// validBlock builds a 128-byte EDID block with a correct header and
// checksum, zeroed otherwise, then applies mutate before checksumming.
func validBlock(mutate func(b []byte)) []byte {
	b := make([]byte, Size)
	copy(b[0:8], header[:])
	if mutate != nil {
		mutate(b)
	}
	var sum byte
	for i := 0; i < Size-1; i++ {
		sum += b[i]
	}
	b[Size-1] = -sum
	return b
}

func TestParseRejectsShortBuffer(t *testing.T) {
	_, err := Parse(make([]byte, 64))
	if !errors.Is(err, ErrShortBuffer) {
		t.Fatalf("err = %v, want ErrShortBuffer", err)
	}
}

func TestParseRejectsBadHeader(t *testing.T) {
	_, err := Parse(make([]byte, Size))
	if !errors.Is(err, ErrBadHeader) {
		t.Fatalf("err = %v, want ErrBadHeader", err)
	}
}

func TestParseRejectsBadChecksum(t *testing.T) {
	b := make([]byte, Size)
	copy(b[0:8], header[:])
	_, err := Parse(b)
	if !errors.Is(err, ErrChecksum) {
		t.Fatalf("err = %v, want ErrChecksum", err)
	}
}

func TestParseValidBlock(t *testing.T) {
	b := validBlock(nil)
	r, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Basic.Gamma != 1.0 {
		t.Errorf("Gamma = %v, want 1.0", r.Basic.Gamma)
	}
}

func TestParseDeterministic(t *testing.T) {
	b := validBlock(func(b []byte) { b[0x17] = 20 })
	r1, err1 := Parse(b)
	r2, err2 := Parse(b)
	if err1 != nil || err2 != nil {
		t.Fatalf("Parse errs: %v, %v", err1, err2)
	}
	if *r1 != *r2 {
		t.Fatalf("Parse not deterministic: %+v != %+v", r1, r2)
	}
}

func TestEstablishedTimingBit5(t *testing.T) {
	b := validBlock(func(b []byte) { b[0x23] = 0x20 })
	r, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.EstablishedTimings != 0x20 {
		t.Fatalf("EstablishedTimings = %#x, want 0x20", r.EstablishedTimings)
	}
	tm := EstablishedTimings()[5]
	if tm.Width != 640 || tm.Height != 480 || tm.Refresh != 60 {
		t.Fatalf("bit5 = %+v, want 640x480@60", tm)
	}
}

func TestParseDescriptorMonitorVsDetail(t *testing.T) {
	b := validBlock(func(b []byte) {
		// descriptor 0 at 0x36: all-zero first three bytes => monitor descriptor
		b[0x36+3] = 0xFC // display name tag
		// descriptor 1 at 0x48: nonzero pixel clock => detail timing
		b[0x48] = 0x10
		b[0x48+1] = 0x01
	})
	r, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if r.Descriptors[0].IsDetail {
		t.Fatalf("descriptor 0 should be a monitor descriptor")
	}
	if r.Descriptors[0].Monitor.Tag != 0xFC {
		t.Fatalf("descriptor 0 tag = %#x, want 0xFC", r.Descriptors[0].Monitor.Tag)
	}
	if !r.Descriptors[1].IsDetail {
		t.Fatalf("descriptor 1 should be a detailed timing")
	}
}

// TestColourWhiteXQuirk pins the documented transcription bug: WhiteX is
// derived from WhiteY rather than from its own high byte. If this ever
// needs correcting, this test documents exactly what changes.
func TestColourWhiteXQuirk(t *testing.T) {
	b := validBlock(func(b []byte) {
		b[0x19] = 0x00 // red/green low
		b[0x1A] = 0x0F // blue/white low: whiteX low bits 0x0C>>2=3, whiteY low bits 0x03=3
		b[0x21] = 0x10 // whiteX high byte -- intentionally ignored by the bug
		b[0x22] = 0x20 // whiteY high byte
	})
	r, err := Parse(b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	wantWhiteY := uint16(0x20)<<2 | 0x3
	if r.Colours.WhiteY != wantWhiteY {
		t.Fatalf("WhiteY = %d, want %d", r.Colours.WhiteY, wantWhiteY)
	}
	wantWhiteX := uint16(3) | wantWhiteY<<2
	if r.Colours.WhiteX != wantWhiteX {
		t.Fatalf("WhiteX = %d, want %d (quirked value, not the 0x10-derived one)", r.Colours.WhiteX, wantWhiteX)
	}
}
