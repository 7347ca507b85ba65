//go:build linux

package usbfs

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"
	"unsafe"

	"github.com/ardnew/dlfb/pkg"
	"github.com/ardnew/dlfb/transport"
)

// Endpoint addresses. Fixed by adapter firmware; every adapter this
// package targets exposes exactly one bulk-out endpoint and drives
// control transfers over endpoint 0.
const (
	bulkOutEndpoint = 0x01
)

// Vendor control requests used outside the mode-select protocol itself:
// reading EDID bytes and detecting the adapter revision.
const (
	reqI2CSubIO    = 0x02
	reqStatus      = 0x06
	requestTypeOut = 0x40 // host-to-device, vendor, device
	requestTypeIn  = 0xC0 // device-to-host, vendor, device
)

type ctrlTransfer struct {
	requestType uint8
	request     uint8
	value       uint16
	index       uint16
	length      uint16
	timeout     uint32
	data        uintptr
}

type bulkTransfer struct {
	endpoint uint32
	length   uint32
	timeout  uint32
	_        uint32
	data     uintptr
}

// Transport talks to one adapter through its usbfs device file.
type Transport struct {
	fd        int
	iface     uint8
	timeoutMS uint32

	vid, pid uint16
}

// Open claims iface on the device at path (e.g. /dev/bus/usb/001/004)
// and returns a ready Transport. The device descriptor's vendor and
// product IDs are read up front so VendorProduct can report them
// without an extra round trip later.
func Open(path string, iface uint8) (*Transport, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("usbfs: open %s: %w", path, err)
	}
	fd := int(f.Fd())
	ifaceNum := uint32(iface)
	if err := ioctlRaw(fd, ioctlUsbdevfsClaimInterface, uintptr(unsafe.Pointer(&ifaceNum))); err != nil {
		f.Close()
		return nil, fmt.Errorf("usbfs: claim interface %d: %w", iface, err)
	}
	t := &Transport{fd: fd, iface: iface, timeoutMS: 1000}
	t.readIDs()
	return t, nil
}

// readIDs fetches the 18-byte device descriptor and records the vendor
// and product ID fields (offsets 8 and 10). Failure is not fatal to
// Open; VendorProduct simply reports zeros.
func (t *Transport) readIDs() {
	desc := make([]byte, 18)
	ctrl := ctrlTransfer{
		requestType: 0x80, // device-to-host, standard, device
		request:     0x06, // GET_DESCRIPTOR
		value:       0x0100,
		length:      uint16(len(desc)),
		timeout:     t.timeoutMS,
		data:        uintptr(unsafe.Pointer(&desc[0])),
	}
	if err := ioctlRaw(t.fd, ioctlUsbdevfsControl, uintptr(unsafe.Pointer(&ctrl))); err != nil {
		return
	}
	t.vid = uint16(desc[8]) | uint16(desc[9])<<8
	t.pid = uint16(desc[10]) | uint16(desc[11])<<8
}

// VendorProduct returns the adapter's USB vendor and product IDs, as
// read from its device descriptor at Open.
func (t *Transport) VendorProduct() (vid, pid uint16) {
	return t.vid, t.pid
}

func ioctlRaw(fd int, req uintptr, arg uintptr) error {
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), req, arg)
	if errno != 0 {
		return mapErrno(errno)
	}
	return nil
}

// mapErrno translates the handful of errno values usbdevfs actually
// returns for a failed control/bulk ioctl into the package's own
// transfer-status vocabulary, so callers can match on pkg.ErrStall or
// pkg.ErrTimeout instead of a raw syscall.Errno.
func mapErrno(errno syscall.Errno) error {
	switch errno {
	case syscall.EPIPE:
		return pkg.ErrStall
	case syscall.ETIMEDOUT:
		return pkg.ErrTimeout
	case syscall.EAGAIN:
		return pkg.ErrNAK
	case syscall.ENODEV, syscall.ENOENT:
		return pkg.ErrNoDevice
	case syscall.ECANCELED:
		return pkg.ErrCancelled
	default:
		return errno
	}
}

func timeoutMS(ctx context.Context, fallback uint32) uint32 {
	if dl, ok := ctx.Deadline(); ok {
		if ms := time.Until(dl).Milliseconds(); ms > 0 {
			return uint32(ms)
		}
	}
	return fallback
}

func (t *Transport) control(ctx context.Context, reqType, req uint8, value, index uint16, data []byte) (int, error) {
	ctrl := ctrlTransfer{
		requestType: reqType,
		request:     req,
		value:       value,
		index:       index,
		length:      uint16(len(data)),
		timeout:     timeoutMS(ctx, t.timeoutMS),
	}
	if len(data) > 0 {
		ctrl.data = uintptr(unsafe.Pointer(&data[0]))
	}
	if err := ioctlRaw(t.fd, ioctlUsbdevfsControl, uintptr(unsafe.Pointer(&ctrl))); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (t *Transport) bulk(ctx context.Context, data []byte) (int, error) {
	b := bulkTransfer{
		endpoint: bulkOutEndpoint,
		length:   uint32(len(data)),
		timeout:  timeoutMS(ctx, t.timeoutMS),
	}
	if len(data) > 0 {
		b.data = uintptr(unsafe.Pointer(&data[0]))
	}
	if err := ioctlRaw(t.fd, ioctlUsbdevfsBulk, uintptr(unsafe.Pointer(&b))); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (t *Transport) Write(ctx context.Context, data []byte) (int, error) {
	return t.bulk(ctx, data)
}

func (t *Transport) BulkWrite(ctx context.Context, data []byte) (int, error) {
	return t.bulk(ctx, data)
}

func (t *Transport) ControlChannel(ctx context.Context, data []byte) (int, error) {
	return t.control(ctx, requestTypeOut, reqStatus, 0, 0, data)
}

// ReadEDID reads the monitor's 128-byte EDID block one byte at a time
// over an I2C sub-addressed vendor control request, the same access
// pattern the hardware's DDC bridge requires.
func (t *Transport) ReadEDID(ctx context.Context) ([]byte, error) {
	out := make([]byte, 128)
	one := make([]byte, 1)
	for i := 0; i < len(out); i++ {
		if _, err := t.control(ctx, requestTypeIn, reqI2CSubIO, uint16(i), 0xA1, one); err != nil {
			return nil, fmt.Errorf("usbfs: edid byte %d: %w", i, err)
		}
		out[i] = one[0]
	}
	return out, nil
}

// DetectType issues the vendor status query and derives the adapter
// revision from the high nibble of the fourth response byte; within the
// 0xF nibble, a full byte of 0xF1 identifies Ollie and any other value
// Alex.
func (t *Transport) DetectType(ctx context.Context) (transport.DeviceType, error) {
	resp := make([]byte, 4)
	if _, err := t.control(ctx, requestTypeIn, reqStatus, 0, 0, resp); err != nil {
		return transport.DeviceTypeUnknown, err
	}
	switch resp[3] >> 4 {
	case 0xB:
		return transport.DeviceTypeBase, nil
	case 0xF:
		if resp[3] == 0xF1 {
			return transport.DeviceTypeOllie, nil
		}
		return transport.DeviceTypeAlex, nil
	default:
		return transport.DeviceTypeUnknown, nil
	}
}

func (t *Transport) Close() error {
	ifaceNum := uint32(t.iface)
	ioctlRaw(t.fd, ioctlUsbdevfsReleaseInterface, uintptr(unsafe.Pointer(&ifaceNum)))
	return syscall.Close(t.fd)
}
