package catalogue

import "testing"

func TestLen(t *testing.T) {
	if got := Len(); got != 35 {
		t.Fatalf("Len() = %d, want 35", got)
	}
}

func TestAllEntriesAre24BPP(t *testing.T) {
	for i, e := range Entries {
		if e.BPP != 24 {
			t.Errorf("entry %d: BPP = %d, want 24", i, e.BPP)
		}
	}
}

func TestScenarioIndices(t *testing.T) {
	e, ok := Get(21)
	if !ok || e.Width != 1024 || e.Height != 768 || e.Refresh != 60 {
		t.Fatalf("entry 21 = %+v, ok=%v, want 1024x768@60", e, ok)
	}
	e, ok = Get(18)
	if !ok || e.Width != 1024 || e.Height != 768 || e.Refresh != 85 {
		t.Fatalf("entry 18 = %+v, ok=%v, want 1024x768@85", e, ok)
	}
}

func TestGetOutOfRange(t *testing.T) {
	if _, ok := Get(INVALID); ok {
		t.Fatalf("Get(INVALID) ok = true, want false")
	}
	if _, ok := Get(Index(len(Entries))); ok {
		t.Fatalf("Get(len(Entries)) ok = true, want false")
	}
}

func TestDL120ModesBoundary(t *testing.T) {
	if DL120Modes <= 0 || DL120Modes >= len(Entries) {
		t.Fatalf("DL120Modes = %d out of range", DL120Modes)
	}
}
