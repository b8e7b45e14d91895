// pkg/mvt/value.go - Tagged property value type
package mvt

import (
	"encoding/json"
	"strconv"
)

// ValueType identifies which variant a Value holds.
type ValueType uint8

// Value variants, matching the value message of the vector tile schema.
const (
	TypeNull ValueType = iota
	TypeString
	TypeFloat
	TypeDouble
	TypeInt
	TypeUint
	TypeSint
	TypeBool
)

// Value is one entry of a layer's value dictionary: a tagged union over the
// string, float, double, int, uint, sint and bool variants of the wire
// format. The zero Value is the null variant.
type Value struct {
	typ ValueType
	str string
	f64 float64
	i64 int64
	u64 uint64
	b   bool
}

// StringValue returns a Value holding a string.
func StringValue(s string) Value { return Value{typ: TypeString, str: s} }

// FloatValue returns a Value holding a 32-bit float.
func FloatValue(f float32) Value { return Value{typ: TypeFloat, f64: float64(f)} }

// DoubleValue returns a Value holding a 64-bit float.
func DoubleValue(f float64) Value { return Value{typ: TypeDouble, f64: f} }

// IntValue returns a Value holding a signed integer.
func IntValue(i int64) Value { return Value{typ: TypeInt, i64: i} }

// UintValue returns a Value holding an unsigned integer.
func UintValue(u uint64) Value { return Value{typ: TypeUint, u64: u} }

// SintValue returns a Value holding a zigzag-encoded signed integer.
func SintValue(i int64) Value { return Value{typ: TypeSint, i64: i} }

// BoolValue returns a Value holding a boolean.
func BoolValue(b bool) Value { return Value{typ: TypeBool, b: b} }

// Type returns the variant held by the value.
func (v Value) Type() ValueType { return v.typ }

// IsNull reports whether the value is the null variant.
func (v Value) IsNull() bool { return v.typ == TypeNull }

// StringVal returns the string variant, or "" for other variants.
func (v Value) StringVal() string { return v.str }

// Float returns the float variant as float32.
func (v Value) Float() float32 { return float32(v.f64) }

// Double returns the double variant.
func (v Value) Double() float64 { return v.f64 }

// Int returns the int or sint variant.
func (v Value) Int() int64 { return v.i64 }

// Uint returns the uint variant.
func (v Value) Uint() uint64 { return v.u64 }

// Bool returns the bool variant.
func (v Value) Bool() bool { return v.b }

// Interface returns the value as a plain Go value, suitable for JSON
// encoding: string, float64, int64, uint64, bool or nil.
func (v Value) Interface() interface{} {
	switch v.typ {
	case TypeString:
		return v.str
	case TypeFloat, TypeDouble:
		return v.f64
	case TypeInt, TypeSint:
		return v.i64
	case TypeUint:
		return v.u64
	case TypeBool:
		return v.b
	default:
		return nil
	}
}

// MarshalJSON encodes the value as its plain Go form.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// String renders the value as a string, with the null variant rendered as
// the empty string.
func (v Value) String() string {
	switch v.typ {
	case TypeString:
		return v.str
	case TypeFloat:
		return strconv.FormatFloat(v.f64, 'g', -1, 32)
	case TypeDouble:
		return strconv.FormatFloat(v.f64, 'g', -1, 64)
	case TypeInt, TypeSint:
		return strconv.FormatInt(v.i64, 10)
	case TypeUint:
		return strconv.FormatUint(v.u64, 10)
	case TypeBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}
