//go:build !linux

package can

import (
	"errors"
	"os"
)

// Dial is unsupported off Linux; the transport runs disabled.
func Dial(iface string) (*os.File, error) {
	return nil, errors.New("socketcan is only available on linux")
}
