package model

import (
	"fmt"
	"strconv"
)

// Property id bit fields.
const (
	PropertyGroupMask   int32 = -0x10000000 // 0xf0000000
	PropertyGroupSystem int32 = 0x10000000
	PropertyGroupVendor int32 = 0x20000000

	AreaTypeMask   int32 = 0x0f000000
	AreaTypeGlobal int32 = 0x01000000
	AreaTypeWindow int32 = 0x03000000
	AreaTypeMirror int32 = 0x04000000
	AreaTypeSeat   int32 = 0x05000000
	AreaTypeDoor   int32 = 0x06000000
	AreaTypeWheel  int32 = 0x07000000
)

// PropertyType is the value type encoded in a property id.
type PropertyType int32

const (
	PropertyTypeString   PropertyType = 0x00100000
	PropertyTypeBoolean  PropertyType = 0x00200000
	PropertyTypeInt32    PropertyType = 0x00400000
	PropertyTypeInt32Vec PropertyType = 0x00410000
	PropertyTypeInt64    PropertyType = 0x00500000
	PropertyTypeInt64Vec PropertyType = 0x00510000
	PropertyTypeFloat    PropertyType = 0x00600000
	PropertyTypeFloatVec PropertyType = 0x00610000
	PropertyTypeBytes    PropertyType = 0x00700000
	PropertyTypeMixed    PropertyType = 0x00e00000
	PropertyTypeMask     PropertyType = 0x00ff0000
)

// String returns the value type name.
func (t PropertyType) String() string {
	switch t {
	case PropertyTypeString:
		return "STRING"
	case PropertyTypeBoolean:
		return "BOOLEAN"
	case PropertyTypeInt32:
		return "INT32"
	case PropertyTypeInt32Vec:
		return "INT32_VEC"
	case PropertyTypeInt64:
		return "INT64"
	case PropertyTypeInt64Vec:
		return "INT64_VEC"
	case PropertyTypeFloat:
		return "FLOAT"
	case PropertyTypeFloatVec:
		return "FLOAT_VEC"
	case PropertyTypeBytes:
		return "BYTES"
	case PropertyTypeMixed:
		return "MIXED"
	default:
		return "UNKNOWN"
	}
}

// Well-known property ids used by the bridge and the default property table.
const (
	InfoMake                      int32 = 0x11100101
	InfoFuelCapacity              int32 = 0x11600104
	PerfOdometer                  int32 = 0x11600204
	PerfVehicleSpeed              int32 = 0x11600207
	EngineRPM                     int32 = 0x11600305
	GearSelection                 int32 = 0x11400400
	CurrentGear                   int32 = 0x11400401
	ParkingBrakeOn                int32 = 0x11200402
	NightMode                     int32 = 0x11200407
	TurnSignalState               int32 = 0x11400408
	IgnitionState                 int32 = 0x11400409
	HvacFanSpeed                  int32 = 0x15400500
	HvacFanDirection              int32 = 0x15400501
	HvacTemperatureCurrent        int32 = 0x15600502
	HvacTemperatureSet            int32 = 0x15600503
	HvacDefroster                 int32 = 0x13200504
	HvacAcOn                      int32 = 0x15200505
	HvacMaxAcOn                   int32 = 0x15200506
	HvacMaxDefrostOn              int32 = 0x15200507
	HvacRecircOn                  int32 = 0x15200508
	HvacDualOn                    int32 = 0x15200509
	HvacAutoOn                    int32 = 0x1520050A
	HvacSeatTemperature           int32 = 0x1540050B
	HvacTemperatureDisplayUnits   int32 = 0x1140050E
	HvacPowerOn                   int32 = 0x15200510
	HvacAutoRecircOn              int32 = 0x15200512
	ApPowerStateReq               int32 = 0x11410A00
	ApPowerStateReport            int32 = 0x11410A01
	DisplayBrightness             int32 = 0x11400A03
	InitialUserInfo               int32 = 0x11E00F07
	SwitchUser                    int32 = 0x11E00F08
	CreateUser                    int32 = 0x11E00F09
	RemoveUser                    int32 = 0x11E00F0A
	UserIdentificationAssociation int32 = 0x11E00F0B
)

var propertyNames = map[int32]string{
	InfoMake:                      "INFO_MAKE",
	InfoFuelCapacity:              "INFO_FUEL_CAPACITY",
	PerfOdometer:                  "PERF_ODOMETER",
	PerfVehicleSpeed:              "PERF_VEHICLE_SPEED",
	EngineRPM:                     "ENGINE_RPM",
	GearSelection:                 "GEAR_SELECTION",
	CurrentGear:                   "CURRENT_GEAR",
	ParkingBrakeOn:                "PARKING_BRAKE_ON",
	NightMode:                     "NIGHT_MODE",
	TurnSignalState:               "TURN_SIGNAL_STATE",
	IgnitionState:                 "IGNITION_STATE",
	HvacFanSpeed:                  "HVAC_FAN_SPEED",
	HvacFanDirection:              "HVAC_FAN_DIRECTION",
	HvacTemperatureCurrent:        "HVAC_TEMPERATURE_CURRENT",
	HvacTemperatureSet:            "HVAC_TEMPERATURE_SET",
	HvacDefroster:                 "HVAC_DEFROSTER",
	HvacAcOn:                      "HVAC_AC_ON",
	HvacMaxAcOn:                   "HVAC_MAX_AC_ON",
	HvacMaxDefrostOn:              "HVAC_MAX_DEFROST_ON",
	HvacRecircOn:                  "HVAC_RECIRC_ON",
	HvacDualOn:                    "HVAC_DUAL_ON",
	HvacAutoOn:                    "HVAC_AUTO_ON",
	HvacSeatTemperature:           "HVAC_SEAT_TEMPERATURE",
	HvacTemperatureDisplayUnits:   "HVAC_TEMPERATURE_DISPLAY_UNITS",
	HvacPowerOn:                   "HVAC_POWER_ON",
	HvacAutoRecircOn:              "HVAC_AUTO_RECIRC_ON",
	ApPowerStateReq:               "AP_POWER_STATE_REQ",
	ApPowerStateReport:            "AP_POWER_STATE_REPORT",
	DisplayBrightness:             "DISPLAY_BRIGHTNESS",
	InitialUserInfo:               "INITIAL_USER_INFO",
	SwitchUser:                    "SWITCH_USER",
	CreateUser:                    "CREATE_USER",
	RemoveUser:                    "REMOVE_USER",
	UserIdentificationAssociation: "USER_IDENTIFICATION_ASSOCIATION",
}

// PropertyName returns the symbolic name of a property id, or its hex form
// when the id is not one of the well-known properties.
func PropertyName(prop int32) string {
	if name, ok := propertyNames[prop]; ok {
		return name
	}
	return fmt.Sprintf("0x%08x", uint32(prop))
}

// PropertyByName resolves a symbolic property name.
func PropertyByName(name string) (int32, bool) {
	for id, n := range propertyNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// ParseProperty resolves a symbolic name or a numeric property id such
// as "0x11400400".
func ParseProperty(s string) (int32, error) {
	if id, ok := PropertyByName(s); ok {
		return id, nil
	}
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil || n < -1<<31 || n > 1<<32-1 {
		return 0, fmt.Errorf("unknown property %q", s)
	}
	return int32(n), nil
}

// AreaType returns the area type bits of a property id.
func AreaType(prop int32) int32 {
	return prop & AreaTypeMask
}

// IsGlobal reports whether the property has a single implicit area.
func IsGlobal(prop int32) bool {
	return AreaType(prop) == AreaTypeGlobal
}

// TypeOf returns the value type bits of a property id.
func TypeOf(prop int32) PropertyType {
	return PropertyType(prop) & PropertyTypeMask
}
