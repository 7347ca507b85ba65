package catalogue

// Index identifies an entry in Entries. INVALID designates "no mode",
// returned by lookups that find no match; a device's supported-mode
// list never contains it.
type Index int

// INVALID is the reserved sentinel distinct from every valid Index.
const INVALID Index = -1

// BPP is the only pixel depth the catalogue carries entries for.
const BPP = 24

// DL120Modes is the number of leading entries considered "restricted":
// selecting one of them succeeds but is reported back to the caller as
// ModeChange's WarnDL160Mode, since only the newer adapter revision
// drives these geometries reliably.
const DL120Modes = 18

// Entry describes one catalogue-resident mode.
type Entry struct {
	Width, Height int
	Refresh       int // Hz
	BPP           int
	Program       []byte // mode-program blob, opaque, issued via BulkWrite
	Enable        []byte // mode-enable blob, opaque, issued via ControlChannel
	LowBlank      bool
}

// Entries is the adapter's fixed, ordered mode table. Order matters: it
// is the iteration order used by Lookup when refresh or height is
// unconstrained, and the boundary at DL120Modes is positional.
var Entries = []Entry{
	{Width: 1920, Height: 1200, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 1920, Height: 1080, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 1600, Height: 1200, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 1680, Height: 1050, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 1400, Height: 1050, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 1400, Height: 1050, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2)}, // duplicate of index 4; lookups resolve this geometry to index 4
	{Width: 1360, Height: 768, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 1280, Height: 1024, Refresh: 85, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 1280, Height: 1024, Refresh: 75, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 1280, Height: 1024, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 1280, Height: 960, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 1280, Height: 800, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 1280, Height: 768, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 1152, Height: 864, Refresh: 75, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 1152, Height: 864, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 1024, Height: 600, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 960, Height: 600, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 848, Height: 480, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 1024, Height: 768, Refresh: 85, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 1024, Height: 768, Refresh: 75, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 1024, Height: 768, Refresh: 70, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 1024, Height: 768, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 800, Height: 600, Refresh: 85, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 800, Height: 600, Refresh: 75, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 800, Height: 600, Refresh: 72, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 800, Height: 600, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 720, Height: 480, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 640, Height: 480, Refresh: 85, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 640, Height: 480, Refresh: 75, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 640, Height: 480, Refresh: 73, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 640, Height: 480, Refresh: 67, BPP: BPP, Program: blob(4), Enable: blob(2)},
	{Width: 640, Height: 480, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2), LowBlank: true},
	{Width: 720, Height: 400, Refresh: 70, BPP: BPP, Program: blob(4), Enable: blob(2), LowBlank: true},
	{Width: 640, Height: 400, Refresh: 70, BPP: BPP, Program: blob(4), Enable: blob(2), LowBlank: true},
	{Width: 512, Height: 384, Refresh: 60, BPP: BPP, Program: blob(4), Enable: blob(2), LowBlank: true},
}

// blob returns a placeholder mode-program/mode-enable byte sequence of
// the given length. The real content is hardware-specific and opaque to
// the protocol engine; callers never inspect it, only transmit it.
func blob(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = 0xA5
	}
	return b
}

// Get returns the entry at idx, or false if idx is out of range or
// INVALID.
func Get(idx Index) (Entry, bool) {
	if idx < 0 || int(idx) >= len(Entries) {
		return Entry{}, false
	}
	return Entries[idx], true
}

// Len reports the number of catalogue entries.
func Len() int { return len(Entries) }
