package log

import (
	"time"

	"github.com/rcar-vhal/vhal-go/pkg/model"
)

// Event is one captured occurrence. CBOR encoding uses integer keys for
// compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the daemon run that produced the event (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates data flow relative to the bridge.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"`
	Property    *PropertyEvent    `cbor:"11,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"`
}

// Direction indicates the direction of data flow.
type Direction uint8

const (
	// DirectionIn is data arriving from the vehicle or a caller.
	DirectionIn Direction = 0
	// DirectionOut is data leaving the bridge.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which component captured the event.
type Layer uint8

const (
	// LayerCAN is the SocketCAN transport.
	LayerCAN Layer = 0
	// LayerGPIO is the gear switch input device.
	LayerGPIO Layer = 1
	// LayerBridge is the property bridge.
	LayerBridge Layer = 2
	// LayerPower is the PMIC backup mode control.
	LayerPower Layer = 3
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerCAN:
		return "CAN"
	case LayerGPIO:
		return "GPIO"
	case LayerBridge:
		return "BRIDGE"
	case LayerPower:
		return "POWER"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryFrame indicates raw input (CAN frame or key bitmap).
	CategoryFrame Category = 0
	// CategoryProperty indicates a property operation.
	CategoryProperty Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryFrame:
		return "FRAME"
	case CategoryProperty:
		return "PROPERTY"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw input at the CAN or GPIO layer.
type FrameEvent struct {
	// Size is the frame size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame bytes.
	Data []byte `cbor:"2,keyasint,omitempty"`

	// CanID is the CAN identifier (CAN layer only).
	CanID uint32 `cbor:"3,keyasint,omitempty"`

	// Prop and Value are the decoded payload. For GPIO frames Prop is
	// GEAR_SELECTION and Value the derived gear.
	Prop  int32 `cbor:"4,keyasint"`
	Value int32 `cbor:"5,keyasint"`
}

// PropertyEvent captures an operation on a property at the bridge layer.
type PropertyEvent struct {
	// Operation performed.
	Operation Operation `cbor:"1,keyasint"`

	// Prop and AreaID address the property.
	Prop   int32 `cbor:"2,keyasint"`
	AreaID int32 `cbor:"3,keyasint,omitempty"`

	// Status is the result of the operation.
	Status model.Status `cbor:"4,keyasint,omitempty"`

	// Value carried by the operation, if any.
	Value *model.RawValue `cbor:"5,keyasint,omitempty"`

	// SampleRate for subscribe operations, in Hz.
	SampleRate float32 `cbor:"6,keyasint,omitempty"`

	// UserManaged marks properties resolved by the user-management protocol.
	UserManaged bool `cbor:"7,keyasint,omitempty"`
}

// Operation identifies a property operation.
type Operation uint8

const (
	OperationGet Operation = iota
	OperationSet
	OperationEmit
	OperationSubscribe
	OperationUnsubscribe
)

// String returns the operation name.
func (o Operation) String() string {
	switch o {
	case OperationGet:
		return "GET"
	case OperationSet:
		return "SET"
	case OperationEmit:
		return "EMIT"
	case OperationSubscribe:
		return "SUBSCRIBE"
	case OperationUnsubscribe:
		return "UNSUBSCRIBE"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures component lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	StateEntityCAN        StateEntity = 0
	StateEntityGPIO       StateEntity = 1
	StateEntityTimer      StateEntity = 2
	StateEntityBackupMode StateEntity = 3
	StateEntityBridge     StateEntity = 4
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityCAN:
		return "CAN"
	case StateEntityGPIO:
		return "GPIO"
	case StateEntityTimer:
		return "TIMER"
	case StateEntityBackupMode:
		return "BACKUP_MODE"
	case StateEntityBridge:
		return "BRIDGE"
	default:
		return "UNKNOWN"
	}
}

// Component states used in StateChangeEvent.
const (
	StateUp       = "UP"
	StateDisabled = "DISABLED"
	StateStopped  = "STOPPED"
	StateOn       = "ON"
	StateOff      = "OFF"
)

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Code is the errno or status code (if applicable).
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
