// Command vhald is the vehicle HAL daemon of the R-Car reference board.
//
// It bridges vehicle properties between the framework-facing property
// store and the vehicle:
//   - CAN frames on a SocketCAN interface, in both directions
//   - gear selection from the PARK and REVERSE switches of an input device
//   - PMIC backup mode driven by power state requests
//   - periodic republishing of subscribed continuous properties
//
// Usage:
//
//	vhald [flags]
//
// Flags:
//
//	-config string            Configuration file path (YAML)
//	-can-interface string     CAN network interface (default "can0")
//	-can-frame-id uint        CAN identifier for transmitted frames
//	-gpio-device string       Input device for the gear switches (default "/dev/input/event0")
//	-backup-mode-file string  PMIC backup mode attribute
//	-backup-mode              Drive PMIC backup mode from power state requests
//	-properties string        Property table file (default: built-in table)
//	-protocol-log string      File path for capture logging (CBOR format)
//	-log-level string         Log level: debug, info, warn, error (default "info")
//	-interactive              Run the interactive console
//
// Examples:
//
//	# Run on the board with defaults
//	vhald
//
//	# Run against a virtual CAN interface with the console and capture
//	vhald -can-interface vcan0 -interactive -protocol-log /tmp/vhald.vlog
//
//	# Run from a config file, overriding the log level
//	vhald -config /etc/vhald.yaml -log-level debug
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rcar-vhal/vhal-go/cmd/vhald/interactive"
	"github.com/rcar-vhal/vhal-go/pkg/can"
	"github.com/rcar-vhal/vhal-go/pkg/defaults"
	"github.com/rcar-vhal/vhal-go/pkg/gpio"
	vlog "github.com/rcar-vhal/vhal-go/pkg/log"
	"github.com/rcar-vhal/vhal-go/pkg/power"
	"github.com/rcar-vhal/vhal-go/pkg/service"
	"github.com/rcar-vhal/vhal-go/pkg/store"
	"github.com/rcar-vhal/vhal-go/pkg/timer"
	"github.com/rcar-vhal/vhal-go/pkg/userhal"
)

func main() {
	config, err := loadConfig(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if err := run(config); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(config Config) error {
	level, _ := parseLevel(config.LogLevel)

	logOut := &switchWriter{w: os.Stderr}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}))

	logger.Info("vehicle HAL daemon starting", "can", config.CanInterface, "gpio", config.GpioDevice)

	// Capture logging
	var captures []vlog.Logger
	var fileLogger *vlog.FileLogger
	if config.ProtocolLog != "" {
		fl, err := vlog.NewFileLogger(config.ProtocolLog)
		if err != nil {
			return fmt.Errorf("create capture log: %w", err)
		}
		fileLogger = fl
		captures = append(captures, fl)
		logger.Info("capture logging", "path", config.ProtocolLog)
	}
	if level <= slog.LevelDebug {
		captures = append(captures, vlog.NewSlogAdapter(logger))
	}
	var recorder *vlog.Recorder
	if len(captures) > 0 {
		recorder = vlog.NewRecorder(vlog.NewMultiLogger(captures...))
		logger = logger.With("session", recorder.SessionID())
	}
	defer func() {
		if fileLogger == nil {
			return
		}
		if n := fileLogger.Dropped(); n > 0 {
			logger.Warn("capture events dropped", "count", n)
		}
		if err := fileLogger.Close(); err != nil {
			logger.Warn("close capture log", "error", err)
		}
	}()

	// Property table
	svcConfig, err := service.DefaultConfig()
	if err != nil {
		return fmt.Errorf("load built-in property table: %w", err)
	}
	if config.Properties != "" {
		props, err := defaults.LoadFile(config.Properties)
		if err != nil {
			return fmt.Errorf("load property table: %w", err)
		}
		svcConfig.Properties = props
	}
	svcConfig.BackupMode = config.BackupMode
	svcConfig.Logger = logger.With("component", "bridge")
	svcConfig.Recorder = recorder

	// Bridge and collaborators
	st := store.New(logger.With("component", "store"))
	bridge := service.NewBridge(svcConfig, st, userhal.New(logger.With("component", "userhal")))

	bridge.SetTimer(timer.New(bridge.OnContinuousTimer))

	bridge.SetCanTransport(can.Open(can.Config{
		Interface: config.CanInterface,
		FrameID:   uint32(config.CanFrameID),
		Logger:    logger.With("component", "can"),
		Recorder:  recorder,
	}))

	gpioConfig := gpio.DefaultConfig()
	gpioConfig.Device = config.GpioDevice
	gpioConfig.Logger = logger.With("component", "gpio")
	gpioConfig.Recorder = recorder
	bridge.SetGearMonitor(gpio.NewMonitor(gpioConfig, bridge.ApplyGear))

	if config.BackupMode {
		bridge.SetBackupMode(power.NewBackupMode(config.BackupModeFile, logger.With("component", "power")))
	}
	defer func() {
		if err := bridge.Close(); err != nil {
			logger.Warn("error stopping bridge", "error", err)
		}
	}()

	// The console must exist before OnCreate so early events reach it.
	var console *interactive.Console
	if config.Interactive {
		console, err = interactive.New(bridge)
		if err != nil {
			return fmt.Errorf("create interactive console: %w", err)
		}
		defer console.Close()

		// Route log output through readline to keep the prompt intact.
		logOut.Set(console.Stdout())
		defer logOut.Set(os.Stderr)
		bridge.OnEvent(console.HandleEvent)
	}

	if err := bridge.OnCreate(); err != nil {
		return fmt.Errorf("start bridge: %w", err)
	}
	logger.Info("bridge started", "properties", len(svcConfig.Properties))

	// Wait for shutdown signal or the console leaving
	quit := make(chan struct{})
	if console != nil {
		var once sync.Once
		go console.Run(func() { once.Do(func() { close(quit) }) })
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig.String())
	case <-quit:
	}

	logger.Info("shutting down")
	return nil
}

// switchWriter lets every logger derived from the root follow a change of
// output.
type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Set(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w = w
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
