package dlfb

import (
	"context"
	"errors"
	"testing"

	"github.com/ardnew/dlfb/transport"
	"github.com/ardnew/dlfb/transport/loopback"
)

func TestClaimRelease(t *testing.T) {
	d, _ := newTestDevice(t, 16)
	if err := d.Claim(); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if err := d.Claim(); !errors.Is(err, ErrClaimed) {
		t.Fatalf("second Claim err = %v, want ErrClaimed", err)
	}
	if err := d.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := d.Release(); !errors.Is(err, ErrUnclaimed) {
		t.Fatalf("second Release err = %v, want ErrUnclaimed", err)
	}
}

func TestUseDefaultModesThenLookup(t *testing.T) {
	d, _ := newTestDevice(t, 16)
	d.UseDefaultModes()
	idx, ok := d.Lookup(1024, 768, 60, 24)
	if !ok || idx != 21 {
		t.Fatalf("Lookup = (%d,%v), want (21,true)", idx, ok)
	}
}

func validEDID(mutate func(b []byte)) []byte {
	b := make([]byte, 128)
	copy(b[0:8], []byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00})
	if mutate != nil {
		mutate(b)
	}
	var sum byte
	for i := 0; i < 127; i++ {
		sum += b[i]
	}
	b[127] = -sum
	return b
}

func TestReadEDIDPopulatesSupported(t *testing.T) {
	lb := loopback.New(transport.DeviceTypeBase, validEDID(func(b []byte) { b[0x23] = 0x20 }))
	d := newDevice("SN2", transport.DeviceTypeBase, lb, 0, defaultMemory)
	if err := d.ReadEDID(context.Background()); err != nil {
		t.Fatalf("ReadEDID: %v", err)
	}
	if len(d.Supported) != 1 {
		t.Fatalf("len(Supported) = %d, want 1", len(d.Supported))
	}
	idx, ok := d.Lookup(640, 480, 60, 24)
	if !ok || idx != d.Supported[0] {
		t.Fatalf("Lookup after ReadEDID = (%d,%v)", idx, ok)
	}
}

func TestReadEDIDBadChecksumLeavesSupportedUntouched(t *testing.T) {
	bad := make([]byte, 128)
	copy(bad[0:8], []byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00})
	lb := loopback.New(transport.DeviceTypeBase, bad)
	d := newDevice("SN3", transport.DeviceTypeBase, lb, 0, defaultMemory)
	d.UseDefaultModes()
	before := len(d.Supported)
	if err := d.ReadEDID(context.Background()); !errors.Is(err, ErrEdidFail) {
		t.Fatalf("err = %v, want ErrEdidFail", err)
	}
	if len(d.Supported) != before {
		t.Fatalf("Supported changed after failed ReadEDID")
	}
}
