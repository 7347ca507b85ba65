package mode

import (
	"github.com/ardnew/dlfb/catalogue"
	"github.com/ardnew/dlfb/edid"
)

// Params describes a mode a caller wants to set: either a fully formed
// request or the geometry matched out of a catalogue entry.
type Params struct {
	Width, Height int
	BPP           int
	Refresh       int
	Base          uint32
}

// Supported is a device's ordered list of catalogue indices it is known
// to drive. Unlike the sentinel-terminated array it is derived from,
// length alone marks the end — there is no trailing INVALID_MODE entry.
type Supported []catalogue.Index

// UseDefaultModes returns every catalogue entry, in catalogue order, for
// devices with no usable EDID.
func UseDefaultModes() Supported {
	s := make(Supported, catalogue.Len())
	for i := range s {
		s[i] = catalogue.Index(i)
	}
	return s
}

// Lookup finds the first entry in supported matching w/h/refresh/bpp.
// A zero value for h, refresh, or bpp means "don't care" for that field;
// width is always significant. bpp values other than 0 or 24 never
// match. Matching candidates are tried in list order.
func Lookup(supported Supported, w, h, refresh, bpp int) (catalogue.Index, bool) {
	if bpp != 0 && bpp != catalogue.BPP {
		return catalogue.INVALID, false
	}
	for _, idx := range supported {
		if matches(idx, w, h, refresh, bpp) {
			return idx, true
		}
	}
	return catalogue.INVALID, false
}

func matches(idx catalogue.Index, w, h, refresh, bpp int) bool {
	e, ok := catalogue.Get(idx)
	if !ok {
		return false
	}
	if e.Width != w {
		return false
	}
	if bpp != 0 && e.BPP != bpp {
		return false
	}
	if h != 0 && e.Height != h {
		return false
	}
	if refresh != 0 && e.Refresh != refresh {
		return false
	}
	return true
}

// lookupCatalogue walks the whole catalogue, independent of any device's
// current supported list. Used while building that list in the first
// place.
func lookupCatalogue(w, h, refresh, bpp int) (catalogue.Index, bool) {
	for i := 0; i < catalogue.Len(); i++ {
		idx := catalogue.Index(i)
		if matches(idx, w, h, refresh, bpp) {
			return idx, true
		}
	}
	return catalogue.INVALID, false
}

// BuildSupportedFromEDID derives a supported-mode list from a parsed
// EDID record: every established-timing bit that is set and maps to a
// catalogue entry, followed by a 50-99Hz sweep against each detailed
// descriptor's geometry that appends every refresh rate with a
// catalogue hit. The first hit of the first detailed descriptor that
// produces one also determines the returned native mode; it is nil if
// none did.
func BuildSupportedFromEDID(rec *edid.Record) (Supported, *Params) {
	var supported Supported
	timings := edid.EstablishedTimings()
	for bit := 0; bit < 24; bit++ {
		if rec.EstablishedTimings&(1<<uint(bit)) == 0 {
			continue
		}
		tm := timings[bit]
		if tm.Width == 0 {
			continue
		}
		if idx, ok := lookupCatalogue(tm.Width, tm.Height, tm.Refresh, catalogue.BPP); ok {
			supported = append(supported, idx)
		}
	}

	var native *Params
	for _, d := range rec.Descriptors {
		if !d.IsDetail {
			continue
		}
		width, height := d.Detail.HActive, d.Detail.VActive
		if width == 0 || height == 0 {
			continue
		}
		for hz := 50; hz < 100; hz++ {
			idx, ok := lookupCatalogue(width, height, hz, catalogue.BPP)
			if !ok {
				continue
			}
			supported = append(supported, idx)
			if native == nil {
				e, _ := catalogue.Get(idx)
				native = &Params{Width: e.Width, Height: e.Height, Refresh: e.Refresh, BPP: e.BPP}
			}
		}
	}
	return supported, native
}
