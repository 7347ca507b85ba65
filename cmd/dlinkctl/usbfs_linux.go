//go:build linux

package main

import (
	"github.com/ardnew/dlfb/pkg"
	"github.com/ardnew/dlfb/pkg/linux/usbid"
	"github.com/ardnew/dlfb/transport"
	"github.com/ardnew/dlfb/transport/usbfs"
)

func openUsbfs(path string) (transport.Transport, error) {
	tp, err := usbfs.Open(path, 0)
	if err != nil {
		return nil, err
	}
	logVendorProduct(tp)
	return tp, nil
}

// logVendorProduct resolves tp's USB vendor and product IDs against the
// system's usb.ids database, if one is installed, purely for a friendlier
// log line; failure to find a database is not an error.
func logVendorProduct(tp *usbfs.Transport) {
	vid, pid := tp.VendorProduct()
	db := usbid.New()
	if !db.Load() {
		return
	}
	pkg.LogInfo(componentCLI, "usb identity",
		"vid", vid, "pid", pid,
		"vendor", db.LookupVendor(vid), "product", db.LookupProduct(vid, pid))
}
