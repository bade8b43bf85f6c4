package defaults

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcar-vhal/vhal-go/pkg/model"
	"github.com/rcar-vhal/vhal-go/pkg/userhal"
)

func find(t *testing.T, props []Property, prop int32) Property {
	t.Helper()
	for _, p := range props {
		if p.Config.Prop == prop {
			return p
		}
	}
	t.Fatalf("%s not in table", model.PropertyName(prop))
	return Property{}
}

func TestLoadBuiltin(t *testing.T) {
	props, err := Load()
	require.NoError(t, err)
	require.NotEmpty(t, props)

	speed := find(t, props, model.PerfVehicleSpeed)
	assert.True(t, speed.Config.IsContinuous())
	assert.Equal(t, float32(10), speed.Config.MaxSampleRate)

	gear := find(t, props, model.GearSelection)
	assert.Equal(t, []int32{model.GearNeutral}, gear.Initial.Int32Values)

	power := find(t, props, model.ApPowerStateReq)
	assert.Len(t, power.Initial.Int32Values, 2)
}

func TestBuiltinHvacPower(t *testing.T) {
	props, err := Load()
	require.NoError(t, err)

	hvac := find(t, props, model.HvacPowerOn)
	assert.Equal(t, []int32{model.SeatRow1Center}, hvac.Config.AreaIDs())
	assert.ElementsMatch(t, HvacPowerProperties, hvac.Config.ConfigArray)

	v, ok := hvac.InitialValue(model.SeatRow1Center)
	require.True(t, ok)
	assert.Equal(t, []int32{1}, v.Int32Values)
}

func TestBuiltinHasUserProperties(t *testing.T) {
	props, err := Load()
	require.NoError(t, err)

	var count int
	for _, p := range props {
		if userhal.IsSupported(p.Config.Prop) {
			count++
		}
	}
	assert.Equal(t, 5, count)
}

func TestBuiltinPerAreaValues(t *testing.T) {
	props, err := Load()
	require.NoError(t, err)

	fan := find(t, props, model.HvacFanSpeed)
	assert.Equal(t, []int32{model.HvacLeft, model.HvacRight}, fan.Config.AreaIDs())
	for _, area := range fan.Config.AreaIDs() {
		v, ok := fan.InitialValue(area)
		assert.True(t, ok)
		assert.Equal(t, []int32{3}, v.Int32Values)
	}
	_, ok := fan.InitialValue(model.SeatRow1Center)
	assert.False(t, ok)

	ac := find(t, props, model.HvacAcOn)
	v, ok := ac.InitialValue(model.HvacAll)
	assert.True(t, ok)
	assert.Equal(t, []int32{1}, v.Int32Values)
}

func TestInitialValueIsCopy(t *testing.T) {
	p := Property{Initial: model.RawValue{Int32Values: []int32{1}}}
	v, _ := p.InitialValue(0)
	v.Int32Values[0] = 9
	assert.Equal(t, int32(1), p.Initial.Int32Values[0])
}

func TestParseNumericIDs(t *testing.T) {
	props, err := Parse([]byte(`
properties:
  - prop: 0x25400001
    access: 3
    change_mode: 1
    areas:
      - area_id: 0x10
        initial:
          int32_values: [5]
`))
	require.NoError(t, err)
	require.Len(t, props, 1)

	p := props[0]
	assert.Equal(t, int32(0x25400001), p.Config.Prop)
	assert.Equal(t, model.AccessReadWrite, p.Config.Access)
	assert.Equal(t, model.ChangeModeOnChange, p.Config.ChangeMode)
	assert.Equal(t, []int32{0x10}, p.Config.AreaIDs())
	v, ok := p.InitialValue(0x10)
	assert.True(t, ok)
	assert.Equal(t, []int32{5}, v.Int32Values)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"Syntax", "properties: [oops"},
		{"UnknownProp", "properties:\n  - prop: NOT_A_PROPERTY\n"},
		{"MissingProp", "properties:\n  - access: READ\n"},
		{"UnknownArea", "properties:\n  - prop: HVAC_FAN_SPEED\n    areas:\n      - area_id: TRUNK\n"},
		{"BadChangeMode", "properties:\n  - prop: NIGHT_MODE\n    change_mode: SOMETIMES\n"},
		{"Duplicate", "properties:\n  - prop: NIGHT_MODE\n  - prop: NIGHT_MODE\n"},
		{"BadRates", "properties:\n  - prop: ENGINE_RPM\n    change_mode: CONTINUOUS\n    min_sample_rate: 10\n    max_sample_rate: 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "props.yaml")
	require.NoError(t, os.WriteFile(path, []byte("properties:\n  - prop: NIGHT_MODE\n    initial:\n      int32_values: [1]\n"), 0o644))

	props, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, model.NightMode, props[0].Config.Prop)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
