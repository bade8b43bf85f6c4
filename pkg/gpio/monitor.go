package gpio

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	vlog "github.com/rcar-vhal/vhal-go/pkg/log"
	"github.com/rcar-vhal/vhal-go/pkg/model"
	"github.com/rcar-vhal/vhal-go/pkg/retry"
)

// DefaultReadErrorDelay is the pause after a failed read.
const DefaultReadErrorDelay = 100 * time.Millisecond

// Sink receives every evaluated gear.
type Sink func(gear int32)

// Config configures a Monitor.
type Config struct {
	// Device is the input node path.
	Device string

	// Retry is the open schedule: 12 attempts from 1 ms, doubling.
	Retry retry.Config

	// Open overrides the device opener. Nil selects OpenEvdev.
	Open OpenFunc

	// ReadErrorDelay is the pause after a failed read before polling
	// again. Zero selects DefaultReadErrorDelay.
	ReadErrorDelay time.Duration

	// Logger for operational messages. Nil disables logging.
	Logger *slog.Logger

	// Recorder captures key bitmaps and errors. Nil disables capture.
	Recorder *vlog.Recorder
}

// DefaultConfig returns the configuration of the reference board.
func DefaultConfig() Config {
	return Config{
		Device: DefaultDevice,
		Retry:  retry.DefaultConfig(),
	}
}

// Monitor translates switch state into gear values on its own goroutine.
type Monitor struct {
	config Config
	sink   Sink

	mu  sync.Mutex
	dev Device

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewMonitor creates a monitor delivering gears to sink.
func NewMonitor(config Config, sink Sink) *Monitor {
	if config.Device == "" {
		config.Device = DefaultDevice
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Monitor{
		config: config,
		sink:   sink,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the monitoring goroutine. The device is opened on that
// goroutine; if every attempt fails monitoring stays disabled.
func (m *Monitor) Start() {
	if !m.running.CompareAndSwap(false, true) {
		return
	}
	m.wg.Add(1)
	go m.run()
}

// Close closes the device, which unblocks the goroutine, then cancels and
// waits for it.
func (m *Monitor) Close() error {
	m.mu.Lock()
	dev := m.dev
	m.dev = nil
	m.mu.Unlock()

	var err error
	if dev != nil {
		err = dev.Close()
	}
	m.cancel()
	m.wg.Wait()
	return err
}

func (m *Monitor) run() {
	defer m.wg.Done()
	defer m.running.Store(false)

	dev, err := Open(m.ctx, m.config.Device, m.config.Open, m.config.Retry, m.config.Logger)
	if err != nil {
		if m.ctx.Err() == nil {
			m.errorLog("GPIO monitoring disabled", "device", m.config.Device, "error", err)
			m.config.Recorder.State(vlog.LayerGPIO, vlog.StateEntityGPIO, "", vlog.StateDisabled, err.Error())
		}
		return
	}

	m.mu.Lock()
	if m.ctx.Err() != nil {
		m.mu.Unlock()
		dev.Close()
		return
	}
	m.dev = dev
	m.mu.Unlock()

	m.config.Recorder.State(vlog.LayerGPIO, vlog.StateEntityGPIO, "", vlog.StateUp, m.config.Device)

	m.evaluate(dev)
	for m.ctx.Err() == nil {
		if err := dev.Wait(); err != nil {
			if m.ctx.Err() != nil || isClosed(err) {
				return
			}
			m.errorLog("GPIO read failed", "error", err)
			m.config.Recorder.Error(vlog.LayerGPIO, "read events", err)
			if !m.pause() {
				return
			}
			continue
		}
		m.evaluate(dev)
	}
}

// pause waits ReadErrorDelay before the next read. It returns false when
// the monitor is closed meanwhile.
func (m *Monitor) pause() bool {
	delay := m.config.ReadErrorDelay
	if delay <= 0 {
		delay = DefaultReadErrorDelay
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-m.ctx.Done():
		return false
	}
}

func (m *Monitor) evaluate(dev Device) {
	bitmap, err := dev.KeyState()
	if err != nil {
		m.errorLog("could not read key state", "error", err)
		m.config.Recorder.Error(vlog.LayerGPIO, "read key state", err)
		return
	}

	gear := Gear(bitmap)
	if m.config.Logger != nil {
		m.config.Logger.Info("current gear", "gear", model.GearName(gear))
	}
	m.config.Recorder.Frame(vlog.LayerGPIO, vlog.DirectionIn, vlog.FrameEvent{
		Size:  len(bitmap),
		Data:  bitmap,
		Prop:  model.GearSelection,
		Value: gear,
	})

	if m.sink != nil {
		m.sink(gear)
	}
}

func isClosed(err error) bool {
	return errors.Is(err, fs.ErrClosed) || errors.Is(err, io.EOF)
}

func (m *Monitor) errorLog(msg string, args ...any) {
	if m.config.Logger != nil {
		m.config.Logger.Error(msg, args...)
	}
}
