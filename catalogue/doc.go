// Package catalogue holds the adapter's fixed table of supported raster
// modes. Every entry pairs a (width, height, refresh) geometry with the
// opaque byte blobs the adapter firmware requires to switch into it. The
// table is read-only after init and never mutated by callers.
package catalogue
