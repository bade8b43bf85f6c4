package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rcar-vhal/vhal-go/pkg/can"
	"github.com/rcar-vhal/vhal-go/pkg/gpio"
	"github.com/rcar-vhal/vhal-go/pkg/power"
)

// maxFrameID is the largest extended (29-bit) CAN identifier.
const maxFrameID = 0x1fffffff

// Config holds the daemon configuration. Values come from the built-in
// defaults, then the optional config file, then explicitly set flags.
type Config struct {
	ConfigFile string `yaml:"-"`

	CanInterface   string `yaml:"can_interface"`
	CanFrameID     uint   `yaml:"can_frame_id"`
	GpioDevice     string `yaml:"gpio_device"`
	BackupModeFile string `yaml:"backup_mode_file"`
	BackupMode     bool   `yaml:"backup_mode"`
	Properties     string `yaml:"properties"`
	ProtocolLog    string `yaml:"protocol_log"`
	LogLevel       string `yaml:"log_level"`
	Interactive    bool   `yaml:"interactive"`
}

func defaultConfig() Config {
	return Config{
		CanInterface:   can.DefaultInterface,
		GpioDevice:     gpio.DefaultDevice,
		BackupModeFile: power.DefaultBackupModePath,
		BackupMode:     power.PlatformBackupMode,
		LogLevel:       "info",
	}
}

// newFlagSet binds the flags to cfg. The current field values become the
// flag defaults, so binding after the file is loaded keeps file values for
// flags that are not given.
func newFlagSet(cfg *Config, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("vhald", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "Configuration file path (YAML)")
	fs.StringVar(&cfg.CanInterface, "can-interface", cfg.CanInterface, "CAN network interface")
	fs.UintVar(&cfg.CanFrameID, "can-frame-id", cfg.CanFrameID, "CAN identifier for transmitted frames")
	fs.StringVar(&cfg.GpioDevice, "gpio-device", cfg.GpioDevice, "Input device for the gear switches")
	fs.StringVar(&cfg.BackupModeFile, "backup-mode-file", cfg.BackupModeFile, "PMIC backup mode attribute")
	fs.BoolVar(&cfg.BackupMode, "backup-mode", cfg.BackupMode, "Drive PMIC backup mode from power state requests")
	fs.StringVar(&cfg.Properties, "properties", cfg.Properties, "Property table file (default: built-in table)")
	fs.StringVar(&cfg.ProtocolLog, "protocol-log", cfg.ProtocolLog, "File path for capture logging (CBOR format)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.BoolVar(&cfg.Interactive, "interactive", cfg.Interactive, "Run the interactive console")
	return fs
}

// loadConfig resolves the configuration from args.
func loadConfig(args []string, output io.Writer) (Config, error) {
	// First pass only locates the config file.
	probe := defaultConfig()
	if err := newFlagSet(&probe, io.Discard).Parse(args); err != nil {
		// Parse again with the real output so usage is reported.
		cfg := defaultConfig()
		return Config{}, newFlagSet(&cfg, output).Parse(args)
	}

	cfg := defaultConfig()
	if probe.ConfigFile != "" {
		if err := readConfigFile(probe.ConfigFile, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := newFlagSet(&cfg, output).Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validate()
}

func readConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c Config) validate() error {
	if c.CanFrameID > maxFrameID {
		return fmt.Errorf("can frame id 0x%x exceeds 0x%x", c.CanFrameID, maxFrameID)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s (use: debug, info, warn, error)", level)
	}
}
