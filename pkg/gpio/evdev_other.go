//go:build !linux

package gpio

import "errors"

// OpenEvdev is unsupported off Linux; monitoring stays disabled.
func OpenEvdev(path string) (Device, error) {
	return nil, errors.New("evdev is only available on linux")
}
