package mode

import (
	"testing"

	"github.com/ardnew/dlfb/catalogue"
	"github.com/ardnew/dlfb/edid"
)

func TestLookupDefaultModesExactRefresh(t *testing.T) {
	s := UseDefaultModes()
	idx, ok := Lookup(s, 1024, 768, 60, 24)
	if !ok || idx != 21 {
		t.Fatalf("Lookup(1024,768,60,24) = (%d,%v), want (21,true)", idx, ok)
	}
}

func TestLookupDefaultModesAnyRefresh(t *testing.T) {
	s := UseDefaultModes()
	idx, ok := Lookup(s, 1024, 768, 0, 24)
	if !ok || idx != 18 {
		t.Fatalf("Lookup(1024,768,0,24) = (%d,%v), want (18,true)", idx, ok)
	}
}

func TestLookupRejectsWrongBPP(t *testing.T) {
	s := UseDefaultModes()
	if _, ok := Lookup(s, 1024, 768, 60, 16); ok {
		t.Fatalf("Lookup with bpp=16 should fail")
	}
}

func TestLookupOnlySearchesSupported(t *testing.T) {
	// supported containing only the 60Hz entry should not find the 85Hz one.
	s := Supported{21}
	if _, ok := Lookup(s, 1024, 768, 85, 24); ok {
		t.Fatalf("Lookup should not find an entry absent from supported")
	}
	idx, ok := Lookup(s, 1024, 768, 0, 24)
	if !ok || idx != 21 {
		t.Fatalf("Lookup(..) = (%d,%v), want (21,true)", idx, ok)
	}
}

func TestBuildSupportedFromEDIDEstablishedBit5(t *testing.T) {
	rec := &edid.Record{EstablishedTimings: 0x20}
	supported, native := BuildSupportedFromEDID(rec)
	if len(supported) != 1 {
		t.Fatalf("len(supported) = %d, want 1", len(supported))
	}
	e, _ := catalogue.Get(supported[0])
	if e.Width != 640 || e.Height != 480 || e.Refresh != 60 {
		t.Fatalf("supported[0] = %+v, want 640x480@60", e)
	}
	if native != nil {
		t.Fatalf("native = %+v, want nil (no detailed descriptors)", native)
	}
}

func TestBuildSupportedFromEDIDDetailedNative(t *testing.T) {
	rec := &edid.Record{
		Descriptors: [4]edid.Descriptor{
			{IsDetail: true, Detail: edid.Detail{HActive: 1280, VActive: 1024}},
		},
	}
	supported, native := BuildSupportedFromEDID(rec)
	if native == nil {
		t.Fatalf("native = nil, want a populated mode")
	}
	if native.Width != 1280 || native.Height != 1024 {
		t.Fatalf("native = %+v, want 1280x1024", native)
	}
	if len(supported) == 0 {
		t.Fatalf("supported is empty, want at least the native hit")
	}
}

func TestBuildSupportedFromEDIDNoMatchYieldsEmpty(t *testing.T) {
	rec := &edid.Record{}
	supported, native := BuildSupportedFromEDID(rec)
	if len(supported) != 0 || native != nil {
		t.Fatalf("supported=%v native=%v, want empty/nil", supported, native)
	}
}
