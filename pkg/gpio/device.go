package gpio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rcar-vhal/vhal-go/pkg/retry"
)

// DefaultDevice is the input node of the switch block.
const DefaultDevice = "/dev/input/event0"

// Device is an input device exposing a key state bitmap.
type Device interface {
	// Wait blocks until input events arrive and consumes them.
	Wait() error

	// KeyState returns the current key bitmap.
	KeyState() ([]byte, error)

	// Close releases the device and unblocks Wait.
	Close() error
}

// OpenFunc opens the device at path.
type OpenFunc func(path string) (Device, error)

// Open opens path with retries on the cfg schedule. It gives up when the
// attempts run out or ctx is cancelled.
func Open(ctx context.Context, path string, open OpenFunc, cfg retry.Config, logger *slog.Logger) (Device, error) {
	if open == nil {
		open = OpenEvdev
	}

	var dev Device
	err := retry.Do(ctx, cfg, func() error {
		d, err := open(path)
		if err != nil {
			return err
		}
		dev = d
		return nil
	}, func(attempt int, err error) {
		if logger != nil {
			logger.Warn("could not open input event device", "path", path, "attempt", attempt, "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return dev, nil
}
