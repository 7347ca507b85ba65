package dlfb

import "errors"

// Input and capacity errors.
var (
	// ErrBadMode indicates the requested geometry has no catalogue
	// match, or fails a precondition (odd base address, oversized
	// framebuffer footprint).
	ErrBadMode = errors.New("dlfb: bad mode")

	// ErrBufFull indicates a stage call overflowed the device's
	// command buffer; the buffer is unchanged and must be flushed
	// before retrying.
	ErrBufFull = errors.New("dlfb: command buffer full")

	// ErrEdidFail indicates the monitor's EDID block could not be read
	// from the transport or failed length, header or checksum
	// validation.
	ErrEdidFail = errors.New("dlfb: edid validation failed")

	// ErrInvalidMode is catalogue.INVALID's textual counterpart. It is
	// returned only when ModeChange's pre-switch flush fails, for
	// historical-compatibility reasons carried over from the protocol
	// this library replaces; a lookup with no match reports false and
	// catalogue.INVALID instead. See ErrTransport for the corrected
	// behavior used elsewhere.
	ErrInvalidMode = errors.New("dlfb: invalid mode")

	// ErrTransport indicates a transport call failed outside the
	// pre-switch flush (where ErrInvalidMode is returned instead for
	// compatibility with the source protocol's quirk).
	ErrTransport = errors.New("dlfb: transport error")

	// ErrClaimed indicates a device is already claimed by a holder.
	ErrClaimed = errors.New("dlfb: device already claimed")

	// ErrUnclaimed indicates Release was called on a device with no
	// active claim.
	ErrUnclaimed = errors.New("dlfb: device not claimed")

	// ErrBadDevice indicates an operation referenced a serial number
	// the registry does not know about.
	ErrBadDevice = errors.New("dlfb: unknown device")
)

// WarnDL160Mode is returned, unwrapped, by Device.ModeChange in place of
// nil: the requested mode was set, but it belongs to the restricted
// subset of the catalogue that only a newer adapter revision drives
// reliably.
var WarnDL160Mode = errors.New("dlfb: mode requires DL160-class hardware")

// IsWarning reports whether err is, or wraps, a non-fatal warning such
// as WarnDL160Mode. Callers that only care about fatal failures should
// treat a non-nil error satisfying IsWarning as success.
func IsWarning(err error) bool {
	return errors.Is(err, WarnDL160Mode)
}
