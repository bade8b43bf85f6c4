package can

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"syscall"

	vlog "github.com/rcar-vhal/vhal-go/pkg/log"
)

// DefaultInterface is the CAN interface of the reference board.
const DefaultInterface = "can0"

// ErrDisabled is returned by Send when the socket could not be opened.
var ErrDisabled = errors.New("can transport disabled")

// Config configures a Transport.
type Config struct {
	// Interface is the network interface to bind (e.g. "can0").
	Interface string

	// FrameID is the CAN identifier stamped on transmitted frames.
	FrameID uint32

	// Logger for operational messages. Nil disables logging.
	Logger *slog.Logger

	// Recorder captures frames and errors. Nil disables capture.
	Recorder *vlog.Recorder
}

// DefaultConfig returns the configuration of the reference board.
func DefaultConfig() Config {
	return Config{Interface: DefaultInterface}
}

// Handler receives every decoded inbound message on the receive goroutine.
type Handler func(Message)

// Transport owns a CAN socket. The receive goroutine is its only reader;
// Send calls are serialized.
type Transport struct {
	config Config
	conn   io.ReadWriteCloser

	txMu sync.Mutex

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
	closed  atomic.Bool
}

// Open dials the configured interface. A dial failure is logged and yields
// a disabled transport rather than an error.
func Open(config Config) *Transport {
	if config.Interface == "" {
		config.Interface = DefaultInterface
	}

	conn, err := Dial(config.Interface)
	if err != nil {
		if config.Logger != nil {
			config.Logger.Warn("CAN transport disabled", "interface", config.Interface, "error", err)
		}
		config.Recorder.Error(vlog.LayerCAN, "dial "+config.Interface, err)
		config.Recorder.State(vlog.LayerCAN, vlog.StateEntityCAN, "", vlog.StateDisabled, err.Error())
		return New(nil, config)
	}

	if config.Logger != nil {
		config.Logger.Info("CAN transport up", "interface", config.Interface)
	}
	config.Recorder.State(vlog.LayerCAN, vlog.StateEntityCAN, "", vlog.StateUp, config.Interface)
	return New(conn, config)
}

// New wraps an already open connection. A nil conn yields a disabled
// transport.
func New(conn io.ReadWriteCloser, config Config) *Transport {
	ctx, cancel := context.WithCancel(context.Background())
	return &Transport{
		config: config,
		conn:   conn,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Enabled reports whether the transport has a socket.
func (t *Transport) Enabled() bool {
	return t.conn != nil
}

// Start launches the receive goroutine. It is a no-op on a disabled or
// already started transport.
func (t *Transport) Start(handler Handler) {
	if t.conn == nil || t.closed.Load() {
		return
	}
	if !t.running.CompareAndSwap(false, true) {
		return
	}

	t.wg.Add(1)
	go t.receiveLoop(handler)
}

// Send transmits one property update. Failures are logged and returned;
// callers treat them as best effort.
func (t *Transport) Send(prop, value int32) error {
	if t.conn == nil {
		return ErrDisabled
	}

	msg := Message{Prop: prop, Value: value}
	buf := NewFrame(t.config.FrameID, msg).Encode()

	t.txMu.Lock()
	_, err := t.conn.Write(buf)
	t.txMu.Unlock()

	if err != nil {
		err = fmt.Errorf("send %s: %w", msg, err)
		t.errorLog("CAN send failed", "error", err)
		t.config.Recorder.Error(vlog.LayerCAN, "send", err)
		return err
	}

	t.config.Recorder.Frame(vlog.LayerCAN, vlog.DirectionOut, vlog.FrameEvent{
		Size:  len(buf),
		Data:  buf,
		CanID: t.config.FrameID,
		Prop:  prop,
		Value: value,
	})
	return nil
}

// Close closes the socket, which unblocks the receive goroutine, then
// signals exit and waits for it. Safe to call more than once.
func (t *Transport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}

	var err error
	if t.conn != nil {
		err = t.conn.Close()
	}
	t.cancel()
	t.wg.Wait()

	if t.conn != nil {
		t.config.Recorder.State(vlog.LayerCAN, vlog.StateEntityCAN, vlog.StateUp, vlog.StateStopped, "")
	}
	return err
}

func (t *Transport) receiveLoop(handler Handler) {
	defer t.wg.Done()
	defer t.running.Store(false)

	buf := make([]byte, FrameSize)
	for {
		n, err := t.conn.Read(buf)
		if err != nil {
			if t.ctx.Err() != nil || isClosed(err) {
				return
			}
			if errors.Is(err, syscall.ENETDOWN) {
				t.debugLog("CAN network down, retrying read")
				continue
			}
			t.errorLog("CAN receive failed, stopping", "error", err)
			t.config.Recorder.Error(vlog.LayerCAN, "receive", err)
			return
		}

		frame, err := DecodeFrame(buf[:n])
		if err != nil {
			t.debugLog("dropping CAN frame", "error", err)
			continue
		}

		msg := frame.Message()
		t.config.Recorder.Frame(vlog.LayerCAN, vlog.DirectionIn, vlog.FrameEvent{
			Size:  n,
			Data:  append([]byte(nil), buf[:n]...),
			CanID: frame.ID,
			Prop:  msg.Prop,
			Value: msg.Value,
		})

		if handler != nil {
			handler(msg)
		}
	}
}

func isClosed(err error) bool {
	return errors.Is(err, os.ErrClosed) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, io.EOF)
}

func (t *Transport) debugLog(msg string, args ...any) {
	if t.config.Logger != nil {
		t.config.Logger.Debug(msg, args...)
	}
}

func (t *Transport) errorLog(msg string, args ...any) {
	if t.config.Logger != nil {
		t.config.Logger.Error(msg, args...)
	}
}
