//go:build salvator

package power

// PlatformBackupMode reports whether the build targets a Salvator board,
// whose power-state requests drive the PMIC backup mode.
const PlatformBackupMode = true
