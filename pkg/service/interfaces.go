package service

import (
	"time"

	"github.com/rcar-vhal/vhal-go/pkg/can"
	"github.com/rcar-vhal/vhal-go/pkg/gpio"
	"github.com/rcar-vhal/vhal-go/pkg/model"
	"github.com/rcar-vhal/vhal-go/pkg/power"
	"github.com/rcar-vhal/vhal-go/pkg/store"
	"github.com/rcar-vhal/vhal-go/pkg/timer"
	"github.com/rcar-vhal/vhal-go/pkg/userhal"
)

// Store is the keyed property storage the bridge persists to. It is
// satisfied by *store.Store.
type Store interface {
	RegisterProperty(cfg model.PropertyConfig)
	WriteValue(v model.PropertyValue, notify bool) bool
	ReadValue(prop, areaID int32) (model.PropertyValue, bool)
	ReadAllValues() []model.PropertyValue
	Config(prop int32) (model.PropertyConfig, bool)
	AllConfigs() []model.PropertyConfig
}

var _ Store = (*store.Store)(nil)

// Timer schedules continuous property republishing. It is satisfied by
// *timer.Timer.
type Timer interface {
	RegisterRecurrentEvent(interval time.Duration, prop int32)
	UnregisterRecurrentEvent(prop int32)
	Start()
	Stop()
}

var _ Timer = (*timer.Timer)(nil)

// CanTransport mirrors property values onto the CAN bus. It is satisfied
// by *can.Transport.
type CanTransport interface {
	Start(handler can.Handler)
	Send(prop, value int32) error
	Close() error
}

var _ CanTransport = (*can.Transport)(nil)

// GearMonitor watches the gear switches. It is satisfied by *gpio.Monitor.
type GearMonitor interface {
	Start()
	Close() error
}

var _ GearMonitor = (*gpio.Monitor)(nil)

// BackupModeWriter toggles the PMIC backup mode. It is satisfied by
// *power.BackupMode.
type BackupModeWriter interface {
	Set(enable bool) error
}

var _ BackupModeWriter = (*power.BackupMode)(nil)

// UserProtocol answers the user-management properties. It is satisfied by
// *userhal.Handler.
type UserProtocol interface {
	OnSet(value model.PropertyValue) (*model.PropertyValue, error)
	OnGet(value model.PropertyValue) (*model.PropertyValue, error)
}

var _ UserProtocol = (*userhal.Handler)(nil)

// EventHandler receives property change events. It must not block.
type EventHandler func(value model.PropertyValue)
