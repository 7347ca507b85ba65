//go:build linux

package usbfs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ardnew/dlfb/transport"
)

// sysfsUSBPath and devfsUSBPath mirror the two standard Linux locations
// a USB device shows up under: one for descriptor attributes, one for
// the device node ioctls actually go through. Variables, not constants,
// so tests can point Scan at a synthetic tree.
var (
	sysfsUSBPath = "/sys/bus/usb/devices"
	devfsUSBPath = "/dev/bus/usb"
)

// Discovered pairs a sysfs-reported device with the devfs path needed
// to open it.
type Discovered struct {
	DevfsPath string
	VendorID  uint16
	ProductID uint16
	Serial    string
}

// Scan walks sysfsUSBPath looking for attached devices whose vendor ID
// is in vendorIDs (an empty set matches everything), returning enough
// information to open and identify each one.
func Scan(vendorIDs ...uint16) ([]Discovered, error) {
	entries, err := os.ReadDir(sysfsUSBPath)
	if err != nil {
		return nil, fmt.Errorf("usbfs: scan %s: %w", sysfsUSBPath, err)
	}

	var out []Discovered
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "usb") || strings.Contains(name, ":") {
			continue // hub root entries and interface entries, not devices
		}
		devPath := filepath.Join(sysfsUSBPath, name)

		vid, err := readSysfsHexUint16(filepath.Join(devPath, "idVendor"))
		if err != nil {
			continue
		}
		if len(vendorIDs) > 0 && !contains(vendorIDs, vid) {
			continue
		}
		pid, _ := readSysfsHexUint16(filepath.Join(devPath, "idProduct"))

		busNum, err := readSysfsUint8(filepath.Join(devPath, "busnum"))
		if err != nil {
			continue
		}
		devNum, err := readSysfsUint8(filepath.Join(devPath, "devnum"))
		if err != nil {
			continue
		}
		serial, _ := readSysfsString(filepath.Join(devPath, "serial"))
		if serial == "" {
			serial = fmt.Sprintf("usb-%03d-%03d", busNum, devNum)
		}

		out = append(out, Discovered{
			DevfsPath: formatDevfsPath(busNum, devNum),
			VendorID:  vid,
			ProductID: pid,
			Serial:    serial,
		})
	}
	return out, nil
}

// DiscovererFor returns a discovery function that scans for vendorIDs,
// opens a Transport against each devfs node found, and queries its
// adapter revision.
//
// The return type is expressed in terms this package alone needs: it
// yields []Opened, not []dlfb.Discovered, so it is not a dlfb.Discoverer
// and cannot be passed to dlfb.Registry.Sweep directly. A caller wraps
// it and copies each Opened's Serial, Type and Transport into a
// dlfb.Discovered.
func DiscovererFor(vendorIDs ...uint16) func(ctx context.Context) ([]Opened, error) {
	return func(ctx context.Context) ([]Opened, error) {
		found, err := Scan(vendorIDs...)
		if err != nil {
			return nil, err
		}
		out := make([]Opened, 0, len(found))
		for _, d := range found {
			tp, err := Open(d.DevfsPath, 0)
			if err != nil {
				continue // device vanished or is claimed elsewhere; skip it
			}
			typ, err := tp.DetectType(ctx)
			if err != nil {
				typ = transport.DeviceTypeUnknown
			}
			out = append(out, Opened{
				Serial:    d.Serial,
				Type:      typ,
				Transport: tp,
			})
		}
		return out, nil
	}
}

// Opened is one adapter DiscovererFor successfully opened.
type Opened struct {
	Serial    string
	Type      transport.DeviceType
	Transport transport.Transport
}

func contains(vs []uint16, v uint16) bool {
	for _, x := range vs {
		if x == v {
			return true
		}
	}
	return false
}

func readSysfsString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func readSysfsUint8(path string) (uint8, error) {
	s, err := readSysfsString(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, err
	}
	return uint8(v), nil
}

func readSysfsHexUint16(path string) (uint16, error) {
	s, err := readSysfsString(path)
	if err != nil {
		return 0, err
	}
	s = strings.TrimPrefix(s, "0x")
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

func formatDevfsPath(busNum, devNum uint8) string {
	return fmt.Sprintf("%s/%03d/%03d", devfsUSBPath, busNum, devNum)
}
