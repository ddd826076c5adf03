package model

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// IsPrimitive reports whether v is a known, non-null string, number or bool.
func IsPrimitive(v cty.Value) bool {
	if v.Type() == cty.NilType || v.IsNull() || !v.IsKnown() {
		return false
	}
	return v.Type().IsPrimitiveType()
}

// AsInt64 converts a scalar to a whole number. Strings holding a number are
// accepted, since build scripts frequently quote SDK levels.
func AsInt64(v cty.Value) (int64, error) {
	if !IsPrimitive(v) {
		return 0, fmt.Errorf("value is not a primitive")
	}
	num, err := convert.Convert(v, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("value %s is not numeric", FormatScalar(v))
	}
	bf := num.AsBigFloat()
	if !bf.IsInt() {
		return 0, fmt.Errorf("value %s is not a whole number", FormatScalar(v))
	}
	var out int64
	if err := gocty.FromCtyValue(num, &out); err != nil {
		return 0, fmt.Errorf("value %s is out of range: %w", FormatScalar(v), err)
	}
	return out, nil
}

// AsString converts a scalar to its string form.
func AsString(v cty.Value) (string, error) {
	if !IsPrimitive(v) {
		return "", fmt.Errorf("value is not a primitive")
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", err
	}
	return s.AsString(), nil
}

// AsBool converts a scalar to a boolean. "true"/"false" strings are accepted.
func AsBool(v cty.Value) (bool, error) {
	if !IsPrimitive(v) {
		return false, fmt.Errorf("value is not a primitive")
	}
	b, err := convert.Convert(v, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("value %s is not a boolean", FormatScalar(v))
	}
	return b.True(), nil
}

// GoValue converts a primitive scalar into a plain Go value (string, int64,
// float64 or bool) for encoders that do not understand cty.
func GoValue(v cty.Value) any {
	if !IsPrimitive(v) {
		return nil
	}
	switch v.Type() {
	case cty.String:
		return v.AsString()
	case cty.Bool:
		return v.True()
	case cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i
			}
		}
		f, _ := bf.Float64()
		return f
	}
	return nil
}

// FormatScalar renders a scalar the way it would be written in a build file.
func FormatScalar(v cty.Value) string {
	if v.Type() == cty.NilType {
		return "<nil>"
	}
	if v.IsNull() {
		return "null"
	}
	if !v.IsKnown() {
		return "<unknown>"
	}
	switch v.Type() {
	case cty.String:
		return fmt.Sprintf("%q", v.AsString())
	case cty.Number:
		return v.AsBigFloat().Text('f', -1)
	case cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	}
	return v.GoString()
}
