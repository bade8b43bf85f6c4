package interactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcar-vhal/vhal-go/pkg/model"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   model.RawValue
	}{
		{"BareInt", []string{"4"}, model.RawValue{Int32Values: []int32{4}}},
		{"BareList", []string{"1,2,3"}, model.RawValue{Int32Values: []int32{1, 2, 3}}},
		{"BareHex", []string{"0x1e"}, model.RawValue{Int32Values: []int32{0x1e}}},
		{"BareFloat", []string{"21.5"}, model.RawValue{FloatValues: []float32{21.5}}},
		{"Int32", []string{"i32:-1,7"}, model.RawValue{Int32Values: []int32{-1, 7}}},
		{"Float", []string{"f:1,2.5"}, model.RawValue{FloatValues: []float32{1, 2.5}}},
		{"Int64", []string{"i64:9000000000"}, model.RawValue{Int64Values: []int64{9000000000}}},
		{"Bytes", []string{"bytes:0a0B"}, model.RawValue{Bytes: []byte{0x0a, 0x0b}}},
		{"String", []string{"str:hello", "world"}, model.RawValue{StringValue: "hello world"}},
		{"Mixed", []string{"i32:1", "f:2", "str:x"}, model.RawValue{
			Int32Values: []int32{1},
			FloatValues: []float32{2},
			StringValue: "x",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseValue(tt.tokens)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseValueErrors(t *testing.T) {
	for _, tokens := range [][]string{
		nil,
		{"i32:"},
		{"i32:abc"},
		{"i32:9999999999"},
		{"f:x"},
		{"bytes:zz"},
		{"u8:1"},
	} {
		_, err := parseValue(tokens)
		assert.Error(t, err, "%v", tokens)
	}
}
