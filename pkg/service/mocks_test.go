package service

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/rcar-vhal/vhal-go/pkg/can"
	"github.com/rcar-vhal/vhal-go/pkg/model"
)

type mockCan struct{ mock.Mock }

func (m *mockCan) Start(handler can.Handler) { m.Called(handler) }

func (m *mockCan) Send(prop, value int32) error {
	return m.Called(prop, value).Error(0)
}

func (m *mockCan) Close() error { return m.Called().Error(0) }

type mockTimer struct{ mock.Mock }

func (m *mockTimer) RegisterRecurrentEvent(interval time.Duration, prop int32) {
	m.Called(interval, prop)
}

func (m *mockTimer) UnregisterRecurrentEvent(prop int32) { m.Called(prop) }

func (m *mockTimer) Start() { m.Called() }

func (m *mockTimer) Stop() { m.Called() }

type mockGear struct{ mock.Mock }

func (m *mockGear) Start() { m.Called() }

func (m *mockGear) Close() error { return m.Called().Error(0) }

type mockBackup struct{ mock.Mock }

func (m *mockBackup) Set(enable bool) error { return m.Called(enable).Error(0) }

// mockStore is used where a real store cannot be made to fail.
type mockStore struct{ mock.Mock }

func (m *mockStore) RegisterProperty(cfg model.PropertyConfig) { m.Called(cfg) }

func (m *mockStore) WriteValue(v model.PropertyValue, notify bool) bool {
	return m.Called(v, notify).Bool(0)
}

func (m *mockStore) ReadValue(prop, areaID int32) (model.PropertyValue, bool) {
	args := m.Called(prop, areaID)
	return args.Get(0).(model.PropertyValue), args.Bool(1)
}

func (m *mockStore) ReadAllValues() []model.PropertyValue {
	return m.Called().Get(0).([]model.PropertyValue)
}

func (m *mockStore) Config(prop int32) (model.PropertyConfig, bool) {
	args := m.Called(prop)
	return args.Get(0).(model.PropertyConfig), args.Bool(1)
}

func (m *mockStore) AllConfigs() []model.PropertyConfig {
	return m.Called().Get(0).([]model.PropertyConfig)
}
