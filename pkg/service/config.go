package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rcar-vhal/vhal-go/pkg/defaults"
	vlog "github.com/rcar-vhal/vhal-go/pkg/log"
	"github.com/rcar-vhal/vhal-go/pkg/power"
)

// Bridge errors.
var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrAlreadyCreated = errors.New("bridge already created")
	ErrClosed         = errors.New("bridge closed")
)

// Config configures a Bridge.
type Config struct {
	// Properties is the table the store is seeded from.
	Properties []defaults.Property

	// HvacGated lists the properties rejected while HVAC power is off.
	HvacGated []int32

	// BackupMode enables the PMIC backup mode toggle on power-state
	// requests received over CAN.
	BackupMode bool

	// Logger for operational messages. Nil disables logging.
	Logger *slog.Logger

	// Recorder captures property operations. Nil disables capture.
	Recorder *vlog.Recorder
}

// DefaultConfig returns a Config with the built-in property table.
func DefaultConfig() (Config, error) {
	props, err := defaults.Load()
	if err != nil {
		return Config{}, err
	}
	return Config{
		Properties: props,
		HvacGated:  defaults.HvacPowerProperties,
		BackupMode: power.PlatformBackupMode,
	}, nil
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	if len(c.Properties) == 0 {
		return fmt.Errorf("%w: empty property table", ErrInvalidConfig)
	}
	seen := make(map[int32]bool, len(c.Properties))
	for _, p := range c.Properties {
		if seen[p.Config.Prop] {
			return fmt.Errorf("%w: duplicate property 0x%x", ErrInvalidConfig, p.Config.Prop)
		}
		seen[p.Config.Prop] = true
	}
	return nil
}
