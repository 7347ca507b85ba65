// Package mode resolves requested or EDID-derived geometries against
// the catalogue and maintains the ordered list of modes a given device
// is known to support; the list's length marks its end, with no
// sentinel entry. It has no transport
// dependency: every function here is pure and safe to unit test without
// a mock device.
package mode
