package model

// ChangeMode describes how a property publishes changes.
type ChangeMode int32

const (
	// ChangeModeStatic values never change after boot.
	ChangeModeStatic ChangeMode = 0

	// ChangeModeOnChange values are published when written.
	ChangeModeOnChange ChangeMode = 1

	// ChangeModeContinuous values are republished periodically while subscribed.
	ChangeModeContinuous ChangeMode = 2
)

// String returns the change mode name.
func (c ChangeMode) String() string {
	switch c {
	case ChangeModeStatic:
		return "STATIC"
	case ChangeModeOnChange:
		return "ON_CHANGE"
	case ChangeModeContinuous:
		return "CONTINUOUS"
	default:
		return "UNKNOWN"
	}
}

// Access flags for properties.
type Access int32

const (
	AccessNone      Access = 0
	AccessRead      Access = 1
	AccessWrite     Access = 2
	AccessReadWrite Access = 3
)

// String returns the access flags as a string.
func (a Access) String() string {
	switch a {
	case AccessRead:
		return "READ"
	case AccessWrite:
		return "WRITE"
	case AccessReadWrite:
		return "READ_WRITE"
	default:
		return "NONE"
	}
}

// AreaConfig describes one area of a zoned property.
type AreaConfig struct {
	AreaID   int32   `yaml:"area_id"`
	MinInt32 int32   `yaml:"min_int32,omitempty"`
	MaxInt32 int32   `yaml:"max_int32,omitempty"`
	MinFloat float32 `yaml:"min_float,omitempty"`
	MaxFloat float32 `yaml:"max_float,omitempty"`
}

// PropertyConfig describes a property supported by the vehicle.
type PropertyConfig struct {
	Prop          int32        `yaml:"prop"`
	Access        Access       `yaml:"access"`
	ChangeMode    ChangeMode   `yaml:"change_mode"`
	AreaConfigs   []AreaConfig `yaml:"area_configs,omitempty"`
	ConfigArray   []int32      `yaml:"config_array,omitempty"`
	MinSampleRate float32      `yaml:"min_sample_rate,omitempty"`
	MaxSampleRate float32      `yaml:"max_sample_rate,omitempty"`
}

// IsContinuous reports whether the property is republished periodically.
func (c PropertyConfig) IsContinuous() bool {
	return c.ChangeMode == ChangeModeContinuous
}

// AreaIDs returns the areas the property is stored under. Global
// properties report the single implicit area 0.
func (c PropertyConfig) AreaIDs() []int32 {
	if IsGlobal(c.Prop) {
		return []int32{0}
	}
	ids := make([]int32, 0, len(c.AreaConfigs))
	for _, ac := range c.AreaConfigs {
		ids = append(ids, ac.AreaID)
	}
	return ids
}
