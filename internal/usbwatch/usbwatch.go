// Package usbwatch signals when a USB HID device from a given vendor is
// plugged in, so the daemon can probe for it straight away instead of
// waiting out its poll interval.
package usbwatch

import (
	"errors"
)

// ElgatoVendorID is the USB vendor ID of every Stream Deck model.
const ElgatoVendorID uint16 = 0x0fd9

// ErrUnsupported is returned by Watch on platforms without an arrival API.
var ErrUnsupported = errors.New("usbwatch: not supported on this platform")

// notify delivers one arrival signal without blocking. Arrivals that land
// while a signal is already pending are folded into it.
func notify(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
