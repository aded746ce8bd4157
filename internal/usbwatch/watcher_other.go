//go:build !darwin

package usbwatch

import "context"

// Watch is only implemented on macOS. Elsewhere callers fall back to
// polling.
func Watch(ctx context.Context, vendorID uint16) (<-chan struct{}, error) {
	return nil, ErrUnsupported
}
