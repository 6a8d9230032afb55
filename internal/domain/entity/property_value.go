package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ValueKind discriminates the closed set of scalar kinds a category property
// value can hold.
type ValueKind uint8

const (
	KindInvalid ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindDate
)

// String returns the kind name for logs and error messages.
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	default:
		return "invalid"
	}
}

// PropertyValue is a tagged scalar: exactly one of string, number, bool or
// date. On the wire it is a bare JSON scalar; dates serialize as ISO-8601
// strings (date-only or full timestamp, depending on how they were built).
type PropertyValue struct {
	kind     ValueKind
	str      string
	num      float64
	b        bool
	date     time.Time
	dateOnly bool
}

// StringValue builds a string-kinded value.
func StringValue(s string) PropertyValue {
	return PropertyValue{kind: KindString, str: s}
}

// NumberValue builds a number-kinded value.
func NumberValue(n float64) PropertyValue {
	return PropertyValue{kind: KindNumber, num: n}
}

// BoolValue builds a bool-kinded value.
func BoolValue(b bool) PropertyValue {
	return PropertyValue{kind: KindBool, b: b}
}

// DateValue builds a date-kinded value carrying a full timestamp.
func DateValue(t time.Time) PropertyValue {
	return PropertyValue{kind: KindDate, date: t}
}

// DateOnlyValue builds a date-kinded value that serializes as YYYY-MM-DD.
func DateOnlyValue(t time.Time) PropertyValue {
	return PropertyValue{kind: KindDate, date: t, dateOnly: true}
}

// Kind returns the discriminator; KindInvalid for the zero value.
func (v PropertyValue) Kind() ValueKind { return v.kind }

// IsZero reports whether the value is unset.
func (v PropertyValue) IsZero() bool { return v.kind == KindInvalid }

// Str returns the string payload (zero if not KindString).
func (v PropertyValue) Str() string { return v.str }

// Num returns the numeric payload (zero if not KindNumber).
func (v PropertyValue) Num() float64 { return v.num }

// Bool returns the boolean payload (false if not KindBool).
func (v PropertyValue) Bool() bool { return v.b }

// Date returns the date payload (zero if not KindDate).
func (v PropertyValue) Date() time.Time { return v.date }

// Equal compares kind and payload. Used for enum membership checks.
func (v PropertyValue) Equal(o PropertyValue) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindDate:
		return v.date.Equal(o.date)
	default:
		return true
	}
}

// MarshalJSON emits the bare scalar.
func (v PropertyValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	case KindDate:
		if v.dateOnly {
			return json.Marshal(v.date.Format("2006-01-02"))
		}
		return json.Marshal(v.date.Format(time.RFC3339))
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts any JSON scalar. Strings stay KindString even when
// they look like dates; the schema validator decides whether a string is an
// acceptable DATE. JSON null yields the zero value.
func (v *PropertyValue) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*v = PropertyValue{}
		return nil
	}
	if len(s) > 0 && s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*v = StringValue(str)
		return nil
	}
	if s == "true" || s == "false" {
		*v = BoolValue(s == "true")
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("property value must be a JSON scalar, got %s", s)
	}
	*v = NumberValue(n)
	return nil
}

// PropertyValues maps property ids to their scalar values, mirroring the
// JSON column on category_associations.
type PropertyValues map[string]PropertyValue

// Clone returns a shallow copy; nil stays nil.
func (pv PropertyValues) Clone() PropertyValues {
	if pv == nil {
		return nil
	}
	out := make(PropertyValues, len(pv))
	for k, v := range pv {
		out[k] = v
	}
	return out
}
