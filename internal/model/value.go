package model

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// PropertyRef is a deferred reference of the form `extension.field`. The
// field part may itself be dotted (e.g. `android.defaultConfig.minSdk`).
type PropertyRef struct {
	Extension string
	Field     string
}

// String returns the canonical `extension.field` form, which is also the
// property key the reference points at.
func (r PropertyRef) String() string {
	return r.Extension + "." + r.Field
}

// Key is an alias of String, used where the ref is treated as a store key.
func (r PropertyRef) Key() string {
	return r.String()
}

// RefForKey splits a dotted property key into the extension owning it and the
// field inside that extension.
func RefForKey(key string) (PropertyRef, error) {
	ext, field, ok := strings.Cut(key, ".")
	if !ok || ext == "" || field == "" {
		return PropertyRef{}, fmt.Errorf("property key %q must have the form extension.field", key)
	}
	return PropertyRef{Extension: ext, Field: field}, nil
}

// ValueKind tells which arm of a Value is populated.
type ValueKind int

const (
	ValueUnset ValueKind = iota
	ValueScalar
	ValueRef
)

// Value is a tagged variant: either a primitive Scalar or a PropertyRef.
type Value struct {
	kind   ValueKind
	scalar cty.Value
	ref    PropertyRef
}

// ScalarValue wraps a primitive cty value.
func ScalarValue(v cty.Value) Value {
	return Value{kind: ValueScalar, scalar: v}
}

// RefValue wraps a property reference.
func RefValue(r PropertyRef) Value {
	return Value{kind: ValueRef, ref: r}
}

// String is a convenience constructor for string scalars.
func String(s string) Value { return ScalarValue(cty.StringVal(s)) }

// Int is a convenience constructor for integer scalars.
func Int(i int64) Value { return ScalarValue(cty.NumberIntVal(i)) }

// Bool is a convenience constructor for boolean scalars.
func Bool(b bool) Value { return ScalarValue(cty.BoolVal(b)) }

// Ref is a convenience constructor parsing `extension.field`.
func Ref(s string) Value {
	r, err := RefForKey(s)
	if err != nil {
		panic(err)
	}
	return RefValue(r)
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsSet() bool     { return v.kind != ValueUnset }
func (v Value) IsRef() bool     { return v.kind == ValueRef }

// Scalar returns the scalar arm, or cty.NilVal when the value is a reference.
func (v Value) Scalar() cty.Value {
	if v.kind != ValueScalar {
		return cty.NilVal
	}
	return v.scalar
}

// Reference returns the reference arm.
func (v Value) Reference() (PropertyRef, bool) {
	return v.ref, v.kind == ValueRef
}

// Equal reports whether two values hold the same arm with the same content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case ValueScalar:
		return v.scalar.RawEquals(o.scalar)
	case ValueRef:
		return v.ref == o.ref
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case ValueScalar:
		return FormatScalar(v.scalar)
	case ValueRef:
		return v.ref.String()
	}
	return "<unset>"
}
