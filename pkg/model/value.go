package model

import (
	"fmt"
	"slices"
	"strings"
)

// PropertyStatus reports the availability of a property value.
type PropertyStatus int32

const (
	PropertyStatusAvailable   PropertyStatus = 0
	PropertyStatusUnavailable PropertyStatus = 1
	PropertyStatusError       PropertyStatus = 2
)

// String returns the status name.
func (s PropertyStatus) String() string {
	switch s {
	case PropertyStatusAvailable:
		return "AVAILABLE"
	case PropertyStatusUnavailable:
		return "UNAVAILABLE"
	case PropertyStatusError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// RawValue is the payload of a property value.
type RawValue struct {
	Int32Values []int32   `yaml:"int32_values,omitempty" cbor:"1,keyasint,omitempty"`
	FloatValues []float32 `yaml:"float_values,omitempty" cbor:"2,keyasint,omitempty"`
	Int64Values []int64   `yaml:"int64_values,omitempty" cbor:"3,keyasint,omitempty"`
	Bytes       []byte    `yaml:"bytes,omitempty" cbor:"4,keyasint,omitempty"`
	StringValue string    `yaml:"string_value,omitempty" cbor:"5,keyasint,omitempty"`
}

// Clone returns a deep copy of the payload.
func (v RawValue) Clone() RawValue {
	return RawValue{
		Int32Values: slices.Clone(v.Int32Values),
		FloatValues: slices.Clone(v.FloatValues),
		Int64Values: slices.Clone(v.Int64Values),
		Bytes:       slices.Clone(v.Bytes),
		StringValue: v.StringValue,
	}
}

// IsEmpty reports whether no payload variant is populated.
func (v RawValue) IsEmpty() bool {
	return len(v.Int32Values) == 0 && len(v.FloatValues) == 0 &&
		len(v.Int64Values) == 0 && len(v.Bytes) == 0 && v.StringValue == ""
}

// Equal reports whether two payloads hold the same values.
func (v RawValue) Equal(o RawValue) bool {
	return slices.Equal(v.Int32Values, o.Int32Values) &&
		slices.Equal(v.FloatValues, o.FloatValues) &&
		slices.Equal(v.Int64Values, o.Int64Values) &&
		slices.Equal(v.Bytes, o.Bytes) &&
		v.StringValue == o.StringValue
}

// String formats the populated payload variants.
func (v RawValue) String() string {
	var parts []string
	if len(v.Int32Values) > 0 {
		parts = append(parts, fmt.Sprintf("int32%v", v.Int32Values))
	}
	if len(v.FloatValues) > 0 {
		parts = append(parts, fmt.Sprintf("float%v", v.FloatValues))
	}
	if len(v.Int64Values) > 0 {
		parts = append(parts, fmt.Sprintf("int64%v", v.Int64Values))
	}
	if len(v.Bytes) > 0 {
		parts = append(parts, fmt.Sprintf("bytes[% x]", v.Bytes))
	}
	if v.StringValue != "" {
		parts = append(parts, fmt.Sprintf("string%q", v.StringValue))
	}
	if len(parts) == 0 {
		return "{}"
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// PropertyValue is a timestamped value of one (property, area) pair.
type PropertyValue struct {
	Prop   int32 `yaml:"prop"`
	AreaID int32 `yaml:"area_id"`

	// Timestamp is in boot-clock nanoseconds (see ElapsedRealtimeNano).
	Timestamp int64          `yaml:"timestamp"`
	Status    PropertyStatus `yaml:"status"`
	Value     RawValue       `yaml:"value"`
}

// Clone returns a deep copy of the value.
func (p PropertyValue) Clone() PropertyValue {
	p.Value = p.Value.Clone()
	return p
}

// String returns a compact description used in logs.
func (p PropertyValue) String() string {
	return fmt.Sprintf("{prop: %s, areaId: 0x%x, timestamp: %d, status: %s, value: %s}",
		PropertyName(p.Prop), p.AreaID, p.Timestamp, p.Status, p.Value)
}
