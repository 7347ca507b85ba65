// Package edid parses the 128-byte Extended Display Identification Data
// block a monitor returns over its I2C/DDC channel. Parsing is pure and
// allocation-light: every field lives at a fixed byte offset, so the
// whole record is extracted with direct indexing rather than a general
// TLV walk.
package edid
