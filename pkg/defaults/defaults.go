// Package defaults holds the property table the bridge seeds its store
// from.
//
// The table is YAML. The built-in table is embedded; a board can replace
// it with its own file.
package defaults

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/rcar-vhal/vhal-go/pkg/model"
)

//go:embed properties.yaml
var propertiesYAML []byte

// HvacPowerProperties are rejected with NOT_AVAILABLE while HVAC power is
// off.
var HvacPowerProperties = []int32{
	model.HvacFanSpeed,
	model.HvacFanDirection,
}

var areaNames = map[string]int32{
	"GLOBAL":           0,
	"ROW_1_LEFT":       model.SeatRow1Left,
	"ROW_1_CENTER":     model.SeatRow1Center,
	"ROW_1_RIGHT":      model.SeatRow1Right,
	"ROW_2_LEFT":       model.SeatRow2Left,
	"ROW_2_CENTER":     model.SeatRow2Center,
	"ROW_2_RIGHT":      model.SeatRow2Right,
	"HVAC_LEFT":        model.HvacLeft,
	"HVAC_RIGHT":       model.HvacRight,
	"HVAC_ALL":         model.HvacAll,
	"FRONT_WINDSHIELD": model.WindowFrontWindshield,
	"REAR_WINDSHIELD":  model.WindowRearWindshield,
}

// Property is one entry of the table: a config plus its initial values.
type Property struct {
	Config model.PropertyConfig

	// Initial applies to every area when AreaInitial is empty.
	Initial model.RawValue

	// AreaInitial holds per-area initial values. When it is not empty,
	// areas missing from it start empty.
	AreaInitial map[int32]model.RawValue
}

// InitialValue returns the value area starts with. ok is false when the
// property has per-area values but none for area.
func (p Property) InitialValue(area int32) (value model.RawValue, ok bool) {
	if len(p.AreaInitial) == 0 {
		return p.Initial.Clone(), true
	}
	v, ok := p.AreaInitial[area]
	return v.Clone(), ok
}

type document struct {
	Properties []entry `yaml:"properties"`
}

type entry struct {
	Prop          string           `yaml:"prop"`
	Access        model.Access     `yaml:"access"`
	ChangeMode    model.ChangeMode `yaml:"change_mode"`
	ConfigArray   []int32          `yaml:"config_array"`
	MinSampleRate float32          `yaml:"min_sample_rate"`
	MaxSampleRate float32          `yaml:"max_sample_rate"`
	Areas         []areaEntry      `yaml:"areas"`
	Initial       *model.RawValue  `yaml:"initial"`
}

type areaEntry struct {
	AreaID   string          `yaml:"area_id"`
	MinInt32 int32           `yaml:"min_int32"`
	MaxInt32 int32           `yaml:"max_int32"`
	MinFloat float32         `yaml:"min_float"`
	MaxFloat float32         `yaml:"max_float"`
	Initial  *model.RawValue `yaml:"initial"`
}

// Load returns the built-in table.
func Load() ([]Property, error) {
	return Parse(propertiesYAML)
}

// LoadFile reads a table from path.
func LoadFile(path string) ([]Property, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read property table: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML property table.
func Parse(data []byte) ([]Property, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse property table: %w", err)
	}

	props := make([]Property, 0, len(doc.Properties))
	seen := make(map[int32]bool, len(doc.Properties))
	for i, e := range doc.Properties {
		p, err := e.property()
		if err != nil {
			return nil, fmt.Errorf("property %d: %w", i, err)
		}
		if seen[p.Config.Prop] {
			return nil, fmt.Errorf("property %d: duplicate %s", i, model.PropertyName(p.Config.Prop))
		}
		seen[p.Config.Prop] = true
		props = append(props, p)
	}
	return props, nil
}

func (e entry) property() (Property, error) {
	prop, err := parseID(e.Prop, model.PropertyByName)
	if err != nil {
		return Property{}, fmt.Errorf("prop: %w", err)
	}

	p := Property{
		Config: model.PropertyConfig{
			Prop:          prop,
			Access:        e.Access,
			ChangeMode:    e.ChangeMode,
			ConfigArray:   e.ConfigArray,
			MinSampleRate: e.MinSampleRate,
			MaxSampleRate: e.MaxSampleRate,
		},
	}
	if e.Initial != nil {
		p.Initial = *e.Initial
	}

	if p.Config.IsContinuous() && e.MaxSampleRate < e.MinSampleRate {
		return Property{}, fmt.Errorf("%s: max_sample_rate below min_sample_rate", model.PropertyName(prop))
	}

	for _, a := range e.Areas {
		area, err := parseID(a.AreaID, lookupArea)
		if err != nil {
			return Property{}, fmt.Errorf("%s area: %w", model.PropertyName(prop), err)
		}
		p.Config.AreaConfigs = append(p.Config.AreaConfigs, model.AreaConfig{
			AreaID:   area,
			MinInt32: a.MinInt32,
			MaxInt32: a.MaxInt32,
			MinFloat: a.MinFloat,
			MaxFloat: a.MaxFloat,
		})
		if a.Initial != nil {
			if p.AreaInitial == nil {
				p.AreaInitial = make(map[int32]model.RawValue)
			}
			p.AreaInitial[area] = *a.Initial
		}
	}
	return p, nil
}

// ParseArea resolves an area name such as "HVAC_LEFT" or a numeric area id.
func ParseArea(s string) (int32, error) {
	return parseID(s, lookupArea)
}

func lookupArea(name string) (int32, bool) {
	id, ok := areaNames[name]
	return id, ok
}

func parseID(s string, lookup func(string) (int32, bool)) (int32, error) {
	if s == "" {
		return 0, fmt.Errorf("missing id")
	}
	if id, ok := lookup(s); ok {
		return id, nil
	}
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil || n < -1<<31 || n > 1<<32-1 {
		return 0, fmt.Errorf("unknown id %q", s)
	}
	return int32(n), nil
}
