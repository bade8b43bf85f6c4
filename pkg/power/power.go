// Package power toggles the PMIC backup mode used across suspend.
package power

import (
	"fmt"
	"log/slog"
	"os"
)

// DefaultBackupModePath is the sysfs attribute of the BD9571MWV regulator.
const DefaultBackupModePath = "/sys/bus/platform/devices/bd9571mwv-regulator/backup_mode"

const (
	backupModeOn  = "on"
	backupModeOff = "off"
)

// BackupMode writes the backup_mode attribute.
type BackupMode struct {
	path   string
	logger *slog.Logger
}

// NewBackupMode returns a writer for the attribute at path. An empty path
// selects DefaultBackupModePath.
func NewBackupMode(path string, logger *slog.Logger) *BackupMode {
	if path == "" {
		path = DefaultBackupModePath
	}
	return &BackupMode{path: path, logger: logger}
}

// Path returns the attribute path.
func (b *BackupMode) Path() string {
	return b.path
}

// Set enables or disables backup mode.
func (b *BackupMode) Set(enable bool) error {
	mode := backupModeOff
	if enable {
		mode = backupModeOn
	}

	// The attribute exists on the board; never create it.
	f, err := os.OpenFile(b.path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("open backup mode: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, mode); err != nil {
		return fmt.Errorf("write backup mode %q: %w", mode, err)
	}

	if b.logger != nil {
		b.logger.Info("backup mode changed", "mode", mode, "path", b.path)
	}
	return nil
}
