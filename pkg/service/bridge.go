package service

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	vlog "github.com/rcar-vhal/vhal-go/pkg/log"
	"github.com/rcar-vhal/vhal-go/pkg/model"
)

// Bridge orchestrates the property store, the user protocol, the CAN
// transport, the gear monitor and the continuous timer.
type Bridge struct {
	config Config
	logger *slog.Logger
	rec    *vlog.Recorder

	store Store
	user  UserProtocol

	timer  Timer
	can    CanTransport
	gear   GearMonitor
	backup BackupModeWriter

	hvacGated map[int32]struct{}

	handlersMu sync.RWMutex
	handlers   []EventHandler

	mu      sync.Mutex
	created bool
	closed  bool

	now func() int64
}

// NewBridge creates a bridge over st and user.
func NewBridge(config Config, st Store, user UserProtocol) *Bridge {
	gated := make(map[int32]struct{}, len(config.HvacGated))
	for _, prop := range config.HvacGated {
		gated[prop] = struct{}{}
	}
	return &Bridge{
		config:    config,
		logger:    config.Logger,
		rec:       config.Recorder,
		store:     st,
		user:      user,
		hvacGated: gated,
		now:       model.ElapsedRealtimeNano,
	}
}

// SetTimer attaches the continuous republishing timer.
func (b *Bridge) SetTimer(t Timer) { b.timer = t }

// SetCanTransport attaches the CAN transport.
func (b *Bridge) SetCanTransport(t CanTransport) { b.can = t }

// SetGearMonitor attaches the gear switch monitor.
func (b *Bridge) SetGearMonitor(m GearMonitor) { b.gear = m }

// SetBackupMode attaches the PMIC backup mode writer.
func (b *Bridge) SetBackupMode(w BackupModeWriter) { b.backup = w }

// OnEvent registers a handler for property change events.
func (b *Bridge) OnEvent(handler EventHandler) {
	b.handlersMu.Lock()
	defer b.handlersMu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// OnCreate seeds the store from the property table, then starts the CAN
// transport, the gear monitor and the timer.
func (b *Bridge) OnCreate() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	if b.created {
		return ErrAlreadyCreated
	}
	if err := b.config.Validate(); err != nil {
		return err
	}
	b.created = true

	for _, p := range b.config.Properties {
		b.store.RegisterProperty(p.Config)

		for _, area := range p.Config.AreaIDs() {
			value, ok := p.InitialValue(area)
			if !ok {
				b.warnLog("no initial value for area",
					"prop", model.PropertyName(p.Config.Prop),
					"area", fmt.Sprintf("0x%x", area))
			}
			if !b.store.WriteValue(model.PropertyValue{
				Prop:   p.Config.Prop,
				AreaID: area,
				Value:  value,
			}, true) {
				b.warnLog("initial value rejected by store",
					"prop", model.PropertyName(p.Config.Prop),
					"area", fmt.Sprintf("0x%x", area))
			}
		}
	}
	b.infoLog("property store seeded", "properties", len(b.config.Properties))

	if b.can != nil {
		b.can.Start(b.HandleCanMessage)
	}
	if b.gear != nil {
		b.gear.Start()
	}
	if b.timer != nil {
		b.timer.Start()
	}

	b.rec.State(vlog.LayerBridge, vlog.StateEntityBridge, "", vlog.StateUp, "")
	return nil
}

// Close stops the timer, the gear monitor and the CAN transport. Safe to
// call more than once.
func (b *Bridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}

	var firstErr error
	if b.gear != nil {
		if err := b.gear.Close(); err != nil {
			firstErr = fmt.Errorf("close gear monitor: %w", err)
		}
	}
	if b.can != nil {
		if err := b.can.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close can transport: %w", err)
		}
	}

	b.rec.State(vlog.LayerBridge, vlog.StateEntityBridge, vlog.StateUp, vlog.StateStopped, "")
	return firstErr
}

// ListProperties returns the configs of every registered property.
func (b *Bridge) ListProperties() []model.PropertyConfig {
	return b.store.AllConfigs()
}

// Values returns a copy of every stored value.
func (b *Bridge) Values() []model.PropertyValue {
	return b.store.ReadAllValues()
}

// Get reads a property. User-managed properties are answered by the user
// protocol; everything else comes from the store.
func (b *Bridge) Get(req model.PropertyValue) (model.PropertyValue, error) {
	r := resolveRoute(req.Prop)

	var (
		value model.PropertyValue
		err   error
	)
	if r.userManaged() {
		value, err = b.getUser(req)
	} else {
		value, err = b.getStored(req)
	}

	event := vlog.PropertyEvent{
		Operation:   vlog.OperationGet,
		Prop:        req.Prop,
		AreaID:      req.AreaID,
		Status:      model.StatusOf(err),
		UserManaged: r.userManaged(),
	}
	if err == nil {
		event.Value = &value.Value
	}
	b.rec.Property(vlog.DirectionIn, event)

	return value, err
}

func (b *Bridge) getUser(req model.PropertyValue) (model.PropertyValue, error) {
	resp, err := b.user.OnGet(req)
	if err != nil {
		b.errorLog("user protocol get failed", "prop", model.PropertyName(req.Prop), "error", err)
		return model.PropertyValue{}, err
	}
	if resp == nil {
		return model.PropertyValue{}, model.Errorf(model.StatusInvalidArg,
			"no value for %s", model.PropertyName(req.Prop))
	}
	b.infoLog("property returned by user protocol", "value", resp.String())
	return *resp, nil
}

func (b *Bridge) getStored(req model.PropertyValue) (model.PropertyValue, error) {
	value, ok := b.store.ReadValue(req.Prop, req.AreaID)
	if !ok {
		return model.PropertyValue{}, model.Errorf(model.StatusInvalidArg,
			"no value for %s area 0x%x", model.PropertyName(req.Prop), req.AreaID)
	}
	return value, nil
}

// Set writes a property value.
func (b *Bridge) Set(value model.PropertyValue) error {
	b.debugLog("set", "value", value.String())
	r := resolveRoute(value.Prop)

	err := b.set(value, r)
	b.rec.Property(vlog.DirectionIn, vlog.PropertyEvent{
		Operation:   vlog.OperationSet,
		Prop:        value.Prop,
		AreaID:      value.AreaID,
		Status:      model.StatusOf(err),
		Value:       &value.Value,
		UserManaged: r.userManaged(),
	})
	return err
}

func (b *Bridge) set(value model.PropertyValue, r route) error {
	if b.hvacPowerOff(value.Prop) {
		return model.Errorf(model.StatusNotAvailable,
			"%s unavailable while HVAC power is off", model.PropertyName(value.Prop))
	}

	final := value
	updated := false
	if r.userManaged() {
		resp, err := b.user.OnSet(value)
		if err != nil {
			b.errorLog("user protocol set failed", "prop", r.user.String(), "error", err)
			return err
		}
		if resp != nil {
			final = *resp
			updated = true
			b.infoLog("updating property returned by user protocol", "value", final.String())
		}
	}

	if !b.store.WriteValue(final, true) {
		b.warnLog("write value error", "value", final.String())
		return model.Errorf(model.StatusInvalidArg, "store rejected %s", model.PropertyName(final.Prop))
	}

	b.sendCan(final)

	if updated {
		b.emit(final)
	}
	return nil
}

// hvacPowerOff reports whether prop is HVAC-gated and HVAC power is
// currently exactly [0].
func (b *Bridge) hvacPowerOff(prop int32) bool {
	if _, gated := b.hvacGated[prop]; !gated {
		return false
	}
	power, ok := b.store.ReadValue(model.HvacPowerOn, model.SeatRow1Center)
	if !ok {
		return false
	}
	v := power.Value.Int32Values
	return len(v) == 1 && v[0] == 0
}

// Subscribe starts periodic republishing of a continuous property. Other
// properties are ignored.
func (b *Bridge) Subscribe(prop int32, sampleRateHz float32) error {
	if !b.isContinuous(prop) {
		b.debugLog("subscribe ignored: not continuous", "prop", model.PropertyName(prop))
		return nil
	}

	period, err := samplePeriod(sampleRateHz)
	if err != nil {
		return err
	}

	b.infoLog("subscribe", "prop", model.PropertyName(prop), "rate_hz", sampleRateHz, "period", period)
	if b.timer != nil {
		b.timer.RegisterRecurrentEvent(period, prop)
	}
	b.rec.Property(vlog.DirectionIn, vlog.PropertyEvent{
		Operation:  vlog.OperationSubscribe,
		Prop:       prop,
		SampleRate: sampleRateHz,
	})
	return nil
}

// Unsubscribe stops periodic republishing. Unknown subscriptions are
// ignored.
func (b *Bridge) Unsubscribe(prop int32) error {
	if !b.isContinuous(prop) {
		return nil
	}

	b.infoLog("unsubscribe", "prop", model.PropertyName(prop))
	if b.timer != nil {
		b.timer.UnregisterRecurrentEvent(prop)
	}
	b.rec.Property(vlog.DirectionIn, vlog.PropertyEvent{
		Operation: vlog.OperationUnsubscribe,
		Prop:      prop,
	})
	return nil
}

// samplePeriod converts a rate to ⌊1e9 / hz⌋ nanoseconds.
func samplePeriod(hz float32) (time.Duration, error) {
	if math.IsNaN(float64(hz)) || hz <= 0 {
		return 0, model.Errorf(model.StatusInvalidArg, "invalid sample rate %v", hz)
	}
	period := time.Duration(math.Floor(1e9 / float64(hz)))
	if period <= 0 {
		return 0, model.Errorf(model.StatusInvalidArg, "sample rate %v too high", hz)
	}
	return period, nil
}

// OnContinuousTimer republishes the current value of every due property.
func (b *Bridge) OnContinuousTimer(props []int32) {
	for _, prop := range props {
		if !b.isContinuous(prop) {
			b.errorLog("unexpected continuous timer event", "prop", model.PropertyName(prop))
			continue
		}

		value, ok := b.store.ReadValue(prop, 0)
		if !ok {
			b.debugLog("continuous property has no value", "prop", model.PropertyName(prop))
			continue
		}
		value.Timestamp = b.now()
		b.emit(value)
	}
}

// ApplyGear writes the gear derived from the switches and then emits it
// again unconditionally.
func (b *Bridge) ApplyGear(gear int32) {
	value := model.PropertyValue{
		Prop:      model.GearSelection,
		Timestamp: b.now(),
		Value:     model.RawValue{Int32Values: []int32{gear}},
	}

	if err := b.Set(value); err != nil {
		b.warnLog("gear update failed", "gear", model.GearName(gear), "error", err)
	}
	b.emit(value)
}

func (b *Bridge) isContinuous(prop int32) bool {
	cfg, ok := b.store.Config(prop)
	return ok && cfg.IsContinuous()
}

func (b *Bridge) emit(value model.PropertyValue) {
	b.rec.Property(vlog.DirectionOut, vlog.PropertyEvent{
		Operation: vlog.OperationEmit,
		Prop:      value.Prop,
		AreaID:    value.AreaID,
		Value:     &value.Value,
	})

	b.handlersMu.RLock()
	handlers := b.handlers
	b.handlersMu.RUnlock()

	for _, h := range handlers {
		h(value.Clone())
	}
}

func (b *Bridge) debugLog(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, args...)
	}
}

func (b *Bridge) infoLog(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Info(msg, args...)
	}
}

func (b *Bridge) warnLog(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Warn(msg, args...)
	}
}

func (b *Bridge) errorLog(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Error(msg, args...)
	}
}
