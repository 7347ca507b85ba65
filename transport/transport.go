package transport

import "context"

// DeviceType identifies an adapter hardware revision, as reported by a
// vendor status control request. The exact encoding (high nibble of the
// fourth response byte) is adapter firmware, not protocol; Transport
// implementations that talk to real hardware are responsible for the
// mapping.
type DeviceType uint8

// Known adapter revisions.
const (
	DeviceTypeUnknown DeviceType = 0x0
	DeviceTypeBase    DeviceType = 0xB
	DeviceTypeAlex    DeviceType = 0xF
	DeviceTypeOllie   DeviceType = 0xF1
)

func (t DeviceType) String() string {
	switch t {
	case DeviceTypeBase:
		return "base"
	case DeviceTypeAlex:
		return "alex"
	case DeviceTypeOllie:
		return "ollie"
	default:
		return "unknown"
	}
}

// Transport is the byte sink the protocol engine writes framed command
// sequences through. Every method honours ctx for cancellation and
// deadline, mirroring the per-device timeout the protocol layer applies
// around each call.
type Transport interface {
	// Write sends data on the adapter's primary bulk-out channel.
	Write(ctx context.Context, data []byte) (int, error)
	// ControlChannel issues a vendor control transfer carrying data,
	// used for channel-select and mode-enable sequences.
	ControlChannel(ctx context.Context, data []byte) (int, error)
	// BulkWrite sends data on the bulk-out channel used for
	// mode-program blobs; distinct from Write only in call site, not
	// semantics, for implementations that route them identically.
	BulkWrite(ctx context.Context, data []byte) (int, error)
	// ReadEDID fetches the attached monitor's 128-byte EDID block.
	ReadEDID(ctx context.Context) ([]byte, error)
	// DetectType issues the vendor status query used to tell adapter
	// revisions apart.
	DetectType(ctx context.Context) (DeviceType, error)
	// Close releases the underlying handle.
	Close() error
}

// Frame kinds used by the loopback transport's wire format.
const (
	FrameWrite byte = iota
	FrameControl
	FrameBulk
)

// Frame prepends a one-byte kind tag and a little-endian uint32 length
// to data, the same header shape used for each named-pipe message in
// the teacher's FIFO test HAL.
func Frame(kind byte, data []byte) []byte {
	out := make([]byte, 5+len(data))
	out[0] = kind
	n := uint32(len(data))
	out[1] = byte(n)
	out[2] = byte(n >> 8)
	out[3] = byte(n >> 16)
	out[4] = byte(n >> 24)
	copy(out[5:], data)
	return out
}
