// Package usbfs implements transport.Transport against a real adapter
// reachable through Linux's usbfs (/dev/bus/usb/BBB/DDD), issuing raw
// USBDEVFS_CONTROL and USBDEVFS_BULK ioctls directly rather than
// through a cgo libusb binding.
package usbfs
