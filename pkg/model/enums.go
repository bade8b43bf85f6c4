package model

// Seat areas.
const (
	SeatRow1Left   int32 = 0x0001
	SeatRow1Center int32 = 0x0002
	SeatRow1Right  int32 = 0x0004
	SeatRow2Left   int32 = 0x0010
	SeatRow2Center int32 = 0x0020
	SeatRow2Right  int32 = 0x0040

	// HvacLeft and HvacRight are the two HVAC zones of the reference board.
	HvacLeft  = SeatRow1Left | SeatRow2Left | SeatRow2Center
	HvacRight = SeatRow1Right | SeatRow2Right
	HvacAll   = HvacLeft | HvacRight
)

// Window areas.
const (
	WindowFrontWindshield int32 = 0x00000001
	WindowRearWindshield  int32 = 0x00000002
)

// Gear values for GEAR_SELECTION and CURRENT_GEAR.
const (
	GearUnknown int32 = 0x0000
	GearNeutral int32 = 0x0001
	GearReverse int32 = 0x0002
	GearPark    int32 = 0x0004
	GearDrive   int32 = 0x0008
)

// GearName returns the symbolic name of a gear value.
func GearName(gear int32) string {
	switch gear {
	case GearNeutral:
		return "NEUTRAL"
	case GearReverse:
		return "REVERSE"
	case GearPark:
		return "PARK"
	case GearDrive:
		return "DRIVE"
	default:
		return "UNKNOWN"
	}
}

// AP_POWER_STATE_REQ request codes (low 16 bits of the CAN value).
const (
	PowerStateReqOn              int32 = 0
	PowerStateReqShutdownPrepare int32 = 1
	PowerStateReqCancelShutdown  int32 = 2
	PowerStateReqFinished        int32 = 3
)

// AP_POWER_STATE_REQ shutdown parameters (high 16 bits of the CAN value).
const (
	ShutdownImmediately int32 = 1
	ShutdownCanSleep    int32 = 2
	ShutdownOnly        int32 = 3
)

// INITIAL_USER_INFO response actions.
const (
	InitialUserInfoActionDefault int32 = 0
	InitialUserInfoActionSwitch  int32 = 1
	InitialUserInfoActionCreate  int32 = 2
)

// SWITCH_USER message types.
const (
	SwitchUserLegacyAndroidSwitch int32 = 1
	SwitchUserAndroidSwitch       int32 = 2
	SwitchUserVehicleResponse     int32 = 3
	SwitchUserVehicleRequest      int32 = 4
	SwitchUserAndroidPostSwitch   int32 = 5
)

// SWITCH_USER and CREATE_USER result codes.
const (
	SwitchUserStatusSuccess int32 = 1
	SwitchUserStatusFailure int32 = 2
	CreateUserStatusSuccess int32 = 1
	CreateUserStatusFailure int32 = 2
)

// USER_IDENTIFICATION_ASSOCIATION values.
const (
	AssociationUnknown               int32 = 1
	AssociationAssociatedCurrentUser int32 = 2
	AssociationAssociatedAnotherUser int32 = 3
	AssociationNotAssociatedAnyUser  int32 = 4
)
