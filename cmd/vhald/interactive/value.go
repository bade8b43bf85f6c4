package interactive

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/rcar-vhal/vhal-go/pkg/model"
)

// parseValue builds a payload from console tokens. Each token is
// "kind:v1,v2,...": kinds are i32, f, i64, bytes (hex) and str, which
// takes the rest of the line. Bare numbers are int32, or float when they
// contain a dot.
func parseValue(tokens []string) (model.RawValue, error) {
	var v model.RawValue
	if len(tokens) == 0 {
		return v, fmt.Errorf("missing value")
	}

	for i, tok := range tokens {
		kind, list, ok := strings.Cut(tok, ":")
		if !ok {
			list = tok
			kind = "i32"
			if strings.Contains(tok, ".") {
				kind = "f"
			}
		}

		switch strings.ToLower(kind) {
		case "i32", "int32":
			vals, err := parseList(list, func(s string) (int32, error) {
				n, err := strconv.ParseInt(s, 0, 32)
				return int32(n), err
			})
			if err != nil {
				return model.RawValue{}, err
			}
			v.Int32Values = append(v.Int32Values, vals...)
		case "f", "float":
			vals, err := parseList(list, func(s string) (float32, error) {
				f, err := strconv.ParseFloat(s, 32)
				return float32(f), err
			})
			if err != nil {
				return model.RawValue{}, err
			}
			v.FloatValues = append(v.FloatValues, vals...)
		case "i64", "int64":
			vals, err := parseList(list, func(s string) (int64, error) {
				return strconv.ParseInt(s, 0, 64)
			})
			if err != nil {
				return model.RawValue{}, err
			}
			v.Int64Values = append(v.Int64Values, vals...)
		case "bytes":
			b, err := hex.DecodeString(list)
			if err != nil {
				return model.RawValue{}, fmt.Errorf("invalid bytes %q: %w", list, err)
			}
			v.Bytes = append(v.Bytes, b...)
		case "str", "string":
			v.StringValue = strings.Join(append([]string{list}, tokens[i+1:]...), " ")
			return v, nil
		default:
			return model.RawValue{}, fmt.Errorf("unknown value kind %q", kind)
		}
	}
	return v, nil
}

func parseList[T any](list string, parse func(string) (T, error)) ([]T, error) {
	var out []T
	for _, s := range strings.Split(list, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		n, err := parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", s)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty value list")
	}
	return out, nil
}
