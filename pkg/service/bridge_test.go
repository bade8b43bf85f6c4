package service

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rcar-vhal/vhal-go/pkg/defaults"
	"github.com/rcar-vhal/vhal-go/pkg/model"
	"github.com/rcar-vhal/vhal-go/pkg/store"
	"github.com/rcar-vhal/vhal-go/pkg/timer"
	"github.com/rcar-vhal/vhal-go/pkg/userhal"
)

const fakeNow = int64(1_000_000)

type eventLog struct {
	mu     sync.Mutex
	events []model.PropertyValue
}

func (l *eventLog) handle(v model.PropertyValue) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, v)
}

func (l *eventLog) all() []model.PropertyValue {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.PropertyValue(nil), l.events...)
}

type harness struct {
	bridge *Bridge
	store  *store.Store
	can    *mockCan
	timer  *mockTimer
	events *eventLog
}

func newHarness(t *testing.T, mutate ...func(*Config)) *harness {
	t.Helper()

	cfg, err := DefaultConfig()
	require.NoError(t, err)
	for _, m := range mutate {
		m(&cfg)
	}

	h := &harness{
		store:  store.New(nil),
		can:    &mockCan{},
		timer:  &mockTimer{},
		events: &eventLog{},
	}
	h.bridge = NewBridge(cfg, h.store, userhal.New(nil))
	h.bridge.now = func() int64 { return fakeNow }
	h.bridge.SetCanTransport(h.can)
	h.bridge.SetTimer(h.timer)
	h.bridge.OnEvent(h.events.handle)

	h.can.On("Start", mock.Anything).Return()
	h.timer.On("Start").Return()
	require.NoError(t, h.bridge.OnCreate())

	return h
}

func (h *harness) expectSends() {
	h.can.On("Send", mock.Anything, mock.Anything).Return(nil)
}

func int32Value(prop, area int32, ts int64, values ...int32) model.PropertyValue {
	return model.PropertyValue{
		Prop:      prop,
		AreaID:    area,
		Timestamp: ts,
		Value:     model.RawValue{Int32Values: values},
	}
}

func TestOnCreateSeedsStore(t *testing.T) {
	h := newHarness(t)

	gear, ok := h.store.ReadValue(model.GearSelection, 0)
	require.True(t, ok)
	assert.Equal(t, []int32{model.GearNeutral}, gear.Value.Int32Values)

	for _, area := range []int32{model.HvacLeft, model.HvacRight} {
		fan, ok := h.store.ReadValue(model.HvacFanSpeed, area)
		require.True(t, ok, "area 0x%x", area)
		assert.Equal(t, []int32{3}, fan.Value.Int32Values)
	}

	_, ok = h.store.ReadValue(model.SwitchUser, 0)
	assert.True(t, ok, "user properties are seeded with an empty value")

	h.can.AssertCalled(t, "Start", mock.Anything)
	h.timer.AssertCalled(t, "Start")
	assert.Empty(t, h.events.all())
}

func TestOnCreateMissingAreaValue(t *testing.T) {
	props := []defaults.Property{{
		Config: model.PropertyConfig{
			Prop:        model.HvacFanSpeed,
			AreaConfigs: []model.AreaConfig{{AreaID: model.HvacLeft}, {AreaID: model.HvacRight}},
		},
		AreaInitial: map[int32]model.RawValue{
			model.HvacLeft: {Int32Values: []int32{2}},
		},
	}}

	st := store.New(nil)
	b := NewBridge(Config{Properties: props}, st, userhal.New(nil))
	require.NoError(t, b.OnCreate())

	right, ok := st.ReadValue(model.HvacFanSpeed, model.HvacRight)
	require.True(t, ok)
	assert.True(t, right.Value.IsEmpty())

	left, ok := st.ReadValue(model.HvacFanSpeed, model.HvacLeft)
	require.True(t, ok)
	assert.Equal(t, []int32{2}, left.Value.Int32Values)
}

func TestOnCreateRejectedSeedIsLogged(t *testing.T) {
	var buf bytes.Buffer
	props := []defaults.Property{{
		Config:  model.PropertyConfig{Prop: model.GearSelection},
		Initial: model.RawValue{Int32Values: []int32{model.GearPark}},
	}}

	st := &mockStore{}
	st.On("RegisterProperty", mock.Anything).Return()
	st.On("WriteValue", mock.Anything, true).Return(false)

	b := NewBridge(Config{
		Properties: props,
		Logger:     slog.New(slog.NewTextHandler(&buf, nil)),
	}, st, userhal.New(nil))
	require.NoError(t, b.OnCreate())

	st.AssertNumberOfCalls(t, "WriteValue", 1)
	assert.Contains(t, buf.String(), "initial value rejected by store")
	assert.Contains(t, buf.String(), "GEAR_SELECTION")
}

func TestOnCreateLifecycle(t *testing.T) {
	h := newHarness(t)

	assert.ErrorIs(t, h.bridge.OnCreate(), ErrAlreadyCreated)

	h.timer.On("Stop").Return()
	h.can.On("Close").Return(nil)
	require.NoError(t, h.bridge.Close())
	require.NoError(t, h.bridge.Close())

	fresh := NewBridge(Config{Properties: []defaults.Property{{}}}, store.New(nil), nil)
	require.NoError(t, fresh.Close())
	assert.ErrorIs(t, fresh.OnCreate(), ErrClosed)
}

func TestOnCreateInvalidConfig(t *testing.T) {
	b := NewBridge(Config{}, store.New(nil), userhal.New(nil))
	assert.ErrorIs(t, b.OnCreate(), ErrInvalidConfig)
}

func TestCloseOrder(t *testing.T) {
	var order []string
	tm, gear, tr := &mockTimer{}, &mockGear{}, &mockCan{}
	tm.On("Stop").Run(func(mock.Arguments) { order = append(order, "timer") }).Return()
	gear.On("Close").Run(func(mock.Arguments) { order = append(order, "gpio") }).Return(nil)
	tr.On("Close").Run(func(mock.Arguments) { order = append(order, "can") }).Return(errors.New("busy"))

	b := NewBridge(Config{}, store.New(nil), nil)
	b.SetTimer(tm)
	b.SetGearMonitor(gear)
	b.SetCanTransport(tr)

	err := b.Close()
	assert.ErrorContains(t, err, "busy")
	assert.Equal(t, []string{"timer", "gpio", "can"}, order)
}

func TestSetStoreProperty(t *testing.T) {
	h := newHarness(t)
	h.expectSends()

	require.NoError(t, h.bridge.Set(int32Value(model.NightMode, 0, 10, 1)))

	v, ok := h.store.ReadValue(model.NightMode, 0)
	require.True(t, ok)
	assert.Equal(t, []int32{1}, v.Value.Int32Values)
	h.can.AssertCalled(t, "Send", model.NightMode, int32(1))
	h.can.AssertNumberOfCalls(t, "Send", 1)
	assert.Empty(t, h.events.all(), "plain writes emit no event")
}

func TestSetHvacGated(t *testing.T) {
	h := newHarness(t)
	h.expectSends()

	require.NoError(t, h.bridge.Set(int32Value(model.HvacPowerOn, model.SeatRow1Center, 10, 0)))
	h.can.AssertNumberOfCalls(t, "Send", 1)

	err := h.bridge.Set(int32Value(model.HvacFanSpeed, model.HvacLeft, 20, 6))
	assert.ErrorIs(t, err, model.ErrNotAvailable)
	assert.Equal(t, model.StatusNotAvailable, model.StatusOf(err))

	fan, _ := h.store.ReadValue(model.HvacFanSpeed, model.HvacLeft)
	assert.Equal(t, []int32{3}, fan.Value.Int32Values, "no store write")
	h.can.AssertNotCalled(t, "Send", model.HvacFanSpeed, mock.Anything)
	assert.Empty(t, h.events.all())

	// Ungated HVAC properties still pass.
	require.NoError(t, h.bridge.Set(int32Value(model.HvacAcOn, model.HvacAll, 20, 0)))
}

func TestSetHvacGateNeedsExactlyZero(t *testing.T) {
	h := newHarness(t)
	h.expectSends()

	require.NoError(t, h.bridge.Set(int32Value(model.HvacPowerOn, model.SeatRow1Center, 10, 0, 1)))
	require.NoError(t, h.bridge.Set(int32Value(model.HvacFanSpeed, model.HvacLeft, 20, 6)))

	require.NoError(t, h.bridge.Set(int32Value(model.HvacPowerOn, model.SeatRow1Center, 30, 1)))
	require.NoError(t, h.bridge.Set(int32Value(model.HvacFanDirection, model.HvacRight, 40, 2)))
}

func TestSetUserProtocolSubstitutes(t *testing.T) {
	h := newHarness(t)

	var order []string
	h.can.On("Send", model.InitialUserInfo, int32(42)).
		Run(func(mock.Arguments) { order = append(order, "can") }).
		Return(nil)
	h.bridge.OnEvent(func(model.PropertyValue) { order = append(order, "event") })

	require.NoError(t, h.bridge.Set(int32Value(model.InitialUserInfo, 0, 10, 42, 0, 7)))

	stored, ok := h.store.ReadValue(model.InitialUserInfo, 0)
	require.True(t, ok)
	want := []int32{42, model.InitialUserInfoActionDefault}
	assert.Equal(t, want, stored.Value.Int32Values)

	events := h.events.all()
	require.Len(t, events, 1)
	assert.Equal(t, want, events[0].Value.Int32Values)
	assert.Equal(t, []string{"can", "event"}, order)
}

func TestSetSwitchUserVehicleRequestEchoes(t *testing.T) {
	h := newHarness(t)
	h.expectSends()

	req := int32Value(model.SwitchUser, 0, 10, -5, model.SwitchUserVehicleRequest, 11)
	require.NoError(t, h.bridge.Set(req))

	events := h.events.all()
	require.Len(t, events, 1)
	assert.Equal(t, req.Value.Int32Values, events[0].Value.Int32Values)
}

func TestSetUserProtocolNoResponse(t *testing.T) {
	h := newHarness(t)
	h.expectSends()

	require.NoError(t, h.bridge.Set(int32Value(model.RemoveUser, 0, 10, 9, 1)))

	stored, ok := h.store.ReadValue(model.RemoveUser, 0)
	require.True(t, ok)
	assert.Equal(t, []int32{9, 1}, stored.Value.Int32Values, "original value persisted")
	h.can.AssertCalled(t, "Send", model.RemoveUser, int32(9))
	assert.Empty(t, h.events.all())
}

func TestSetUserProtocolError(t *testing.T) {
	h := newHarness(t)

	err := h.bridge.Set(int32Value(model.InitialUserInfo, 0, 10))
	assert.ErrorIs(t, err, model.ErrInvalidArg)
	h.can.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	assert.Empty(t, h.events.all())
}

func TestSetStoreRejectionSuppressesCan(t *testing.T) {
	st := &mockStore{}
	st.On("WriteValue", mock.Anything, true).Return(false)

	tr := &mockCan{}
	events := &eventLog{}
	b := NewBridge(Config{}, st, userhal.New(nil))
	b.SetCanTransport(tr)
	b.OnEvent(events.handle)

	err := b.Set(int32Value(model.NightMode, 0, 1, 1))
	assert.ErrorIs(t, err, model.ErrInvalidArg)

	err = b.Set(int32Value(model.CreateUser, 0, 1, 3))
	assert.ErrorIs(t, err, model.ErrInvalidArg)

	st.AssertNumberOfCalls(t, "WriteValue", 2)
	tr.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	assert.Empty(t, events.all())
}

func TestSetUnregisteredProperty(t *testing.T) {
	h := newHarness(t)

	err := h.bridge.Set(int32Value(0x21400999, 0, 10, 1))
	assert.ErrorIs(t, err, model.ErrInvalidArg)
	h.can.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSetCanSendFailureIsNotAnError(t *testing.T) {
	h := newHarness(t)
	h.can.On("Send", mock.Anything, mock.Anything).Return(errors.New("no buffer space"))

	require.NoError(t, h.bridge.Set(int32Value(model.NightMode, 0, 10, 1)))
}

func TestCanValueSelection(t *testing.T) {
	b := NewBridge(Config{}, store.New(nil), nil)

	tests := []struct {
		name  string
		value model.RawValue
		want  int32
	}{
		{"Int32", model.RawValue{Int32Values: []int32{-7, 3}}, -7},
		{"Float", model.RawValue{FloatValues: []float32{22.7}}, 22},
		{"NegativeFloat", model.RawValue{FloatValues: []float32{-1.9}}, -1},
		{"Int64", model.RawValue{Int64Values: []int64{1 << 40}}, 0},
		{"Bytes", model.RawValue{Bytes: []byte{1}}, 0},
		{"Empty", model.RawValue{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.canValue(model.PropertyValue{Value: tt.value})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetStoreProperty(t *testing.T) {
	h := newHarness(t)

	v, err := h.bridge.Get(model.PropertyValue{Prop: model.HvacFanSpeed, AreaID: model.HvacRight})
	require.NoError(t, err)
	assert.Equal(t, []int32{3}, v.Value.Int32Values)

	_, err = h.bridge.Get(model.PropertyValue{Prop: model.HvacFanSpeed, AreaID: model.SeatRow1Center})
	assert.ErrorIs(t, err, model.ErrInvalidArg)

	_, err = h.bridge.Get(model.PropertyValue{Prop: 0x21400999})
	assert.ErrorIs(t, err, model.ErrInvalidArg)
}

func TestGetUserProperty(t *testing.T) {
	h := newHarness(t)

	v, err := h.bridge.Get(int32Value(model.UserIdentificationAssociation, 0, 5, 7, 0, 0, 2, 10, 20))
	require.NoError(t, err)
	na := model.AssociationNotAssociatedAnyUser
	assert.Equal(t, []int32{7, 2, 10, na, 20, na}, v.Value.Int32Values)

	_, err = h.bridge.Get(int32Value(model.SwitchUser, 0, 5, 1))
	assert.ErrorIs(t, err, model.ErrInvalidArg)
}

type nilProtocol struct{}

func (nilProtocol) OnSet(model.PropertyValue) (*model.PropertyValue, error) { return nil, nil }
func (nilProtocol) OnGet(model.PropertyValue) (*model.PropertyValue, error) { return nil, nil }

func TestGetUserEmptyResponse(t *testing.T) {
	b := NewBridge(Config{}, store.New(nil), nilProtocol{})

	_, err := b.Get(int32Value(model.UserIdentificationAssociation, 0, 0, 1))
	assert.ErrorIs(t, err, model.ErrInvalidArg)
}

func TestListProperties(t *testing.T) {
	h := newHarness(t)

	configs := h.bridge.ListProperties()
	assert.Len(t, configs, len(h.bridge.config.Properties))
	for i := 1; i < len(configs); i++ {
		assert.Less(t, configs[i-1].Prop, configs[i].Prop)
	}
}

func TestValues(t *testing.T) {
	h := newHarness(t)

	values := h.bridge.Values()
	assert.Equal(t, h.store.ReadAllValues(), values)

	values[0].Value.Int32Values = append(values[0].Value.Int32Values, 99)
	assert.NotEqual(t, values[0], h.bridge.Values()[0], "Values returns copies")
}

func TestSubscribe(t *testing.T) {
	h := newHarness(t)
	h.timer.On("RegisterRecurrentEvent", mock.Anything, mock.Anything).Return()

	require.NoError(t, h.bridge.Subscribe(model.PerfVehicleSpeed, 10))
	h.timer.AssertCalled(t, "RegisterRecurrentEvent", 100*time.Millisecond, model.PerfVehicleSpeed)

	require.NoError(t, h.bridge.Subscribe(model.EngineRPM, 3))
	h.timer.AssertCalled(t, "RegisterRecurrentEvent", 333333333*time.Nanosecond, model.EngineRPM)

	require.NoError(t, h.bridge.Subscribe(model.NightMode, 10), "non-continuous is a silent no-op")
	h.timer.AssertNotCalled(t, "RegisterRecurrentEvent", mock.Anything, model.NightMode)
}

func TestSubscribeInvalidRate(t *testing.T) {
	h := newHarness(t)

	for _, rate := range []float32{0, -1, float32(math.NaN()), float32(math.Inf(1))} {
		err := h.bridge.Subscribe(model.PerfVehicleSpeed, rate)
		assert.ErrorIs(t, err, model.ErrInvalidArg, "rate %v", rate)
	}
	h.timer.AssertNotCalled(t, "RegisterRecurrentEvent", mock.Anything, mock.Anything)
}

func TestUnsubscribe(t *testing.T) {
	h := newHarness(t)
	h.timer.On("UnregisterRecurrentEvent", mock.Anything).Return()

	require.NoError(t, h.bridge.Unsubscribe(model.PerfVehicleSpeed))
	h.timer.AssertCalled(t, "UnregisterRecurrentEvent", model.PerfVehicleSpeed)

	require.NoError(t, h.bridge.Unsubscribe(model.NightMode))
	h.timer.AssertNotCalled(t, "UnregisterRecurrentEvent", model.NightMode)
}

func TestUnsubscribeNeverRegisteredWithRealTimer(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	st := store.New(nil)
	b := NewBridge(cfg, st, userhal.New(nil))
	tm := timer.New(b.OnContinuousTimer)
	b.SetTimer(tm)
	require.NoError(t, b.OnCreate())
	defer b.Close()

	require.NoError(t, b.Unsubscribe(model.PerfVehicleSpeed))
	assert.Equal(t, 0, tm.Count())
}

func TestSamplePeriod(t *testing.T) {
	tests := []struct {
		hz      float32
		want    time.Duration
		wantErr bool
	}{
		{1, time.Second, false},
		{10, 100 * time.Millisecond, false},
		{0.5, 2 * time.Second, false},
		{3, 333333333, false},
		{0, 0, true},
		{-2, 0, true},
		{2e9, 0, true},
	}

	for _, tt := range tests {
		got, err := samplePeriod(tt.hz)
		if tt.wantErr {
			assert.Error(t, err, "hz %v", tt.hz)
			continue
		}
		require.NoError(t, err, "hz %v", tt.hz)
		assert.Equal(t, tt.want, got, "hz %v", tt.hz)
	}
}

func TestOnContinuousTimer(t *testing.T) {
	h := newHarness(t)

	h.bridge.OnContinuousTimer([]int32{model.PerfVehicleSpeed, model.NightMode, model.EngineRPM})

	events := h.events.all()
	require.Len(t, events, 2)
	assert.Equal(t, model.PerfVehicleSpeed, events[0].Prop)
	assert.Equal(t, model.EngineRPM, events[1].Prop)
	for _, e := range events {
		assert.Equal(t, fakeNow, e.Timestamp)
	}

	stored, _ := h.store.ReadValue(model.PerfVehicleSpeed, 0)
	assert.Zero(t, stored.Timestamp, "republishing does not write the store")
}

func TestApplyGear(t *testing.T) {
	h := newHarness(t)
	h.expectSends()

	h.bridge.ApplyGear(model.GearReverse)

	stored, ok := h.store.ReadValue(model.GearSelection, 0)
	require.True(t, ok)
	assert.Equal(t, []int32{model.GearReverse}, stored.Value.Int32Values)
	h.can.AssertCalled(t, "Send", model.GearSelection, model.GearReverse)

	events := h.events.all()
	require.Len(t, events, 1)
	assert.Equal(t, model.GearSelection, events[0].Prop)
	assert.Equal(t, []int32{model.GearReverse}, events[0].Value.Int32Values)
	assert.Equal(t, fakeNow, events[0].Timestamp)
}

func TestApplyGearEmitsEvenWhenSetFails(t *testing.T) {
	st := &mockStore{}
	st.On("WriteValue", mock.Anything, true).Return(false)

	events := &eventLog{}
	b := NewBridge(Config{}, st, userhal.New(nil))
	b.OnEvent(events.handle)

	b.ApplyGear(model.GearPark)

	got := events.all()
	require.Len(t, got, 1)
	assert.Equal(t, []int32{model.GearPark}, got[0].Value.Int32Values)
}

func TestEventHandlersReceiveCopies(t *testing.T) {
	h := newHarness(t)
	h.expectSends()

	h.bridge.OnEvent(func(v model.PropertyValue) { v.Value.Int32Values[0] = 99 })
	h.bridge.ApplyGear(model.GearPark)

	events := h.events.all()
	require.Len(t, events, 1)
	assert.Equal(t, model.GearPark, events[0].Value.Int32Values[0])
}

func TestConcurrentAccess(t *testing.T) {
	h := newHarness(t)
	h.expectSends()

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(3)
		go func() {
			defer wg.Done()
			for j := range 50 {
				_ = h.bridge.Set(int32Value(model.NightMode, 0, int64(i*100+j), int32(j%2)))
			}
		}()
		go func() {
			defer wg.Done()
			for range 50 {
				h.bridge.OnContinuousTimer([]int32{model.PerfVehicleSpeed})
			}
		}()
		go func() {
			defer wg.Done()
			for range 50 {
				_, _ = h.bridge.Get(model.PropertyValue{Prop: model.NightMode})
			}
		}()
	}
	wg.Wait()
}

func TestValidate(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	empty := Config{}
	assert.ErrorIs(t, empty.Validate(), ErrInvalidConfig)

	dup := Config{Properties: []defaults.Property{
		{Config: model.PropertyConfig{Prop: model.NightMode}},
		{Config: model.PropertyConfig{Prop: model.NightMode}},
	}}
	assert.ErrorIs(t, dup.Validate(), ErrInvalidConfig)
}

func TestResolveRoute(t *testing.T) {
	r := resolveRoute(model.SwitchUser)
	assert.True(t, r.userManaged())
	assert.Equal(t, userhal.KindSwitchUser, r.user)

	assert.False(t, resolveRoute(model.HvacFanSpeed).userManaged())
}
