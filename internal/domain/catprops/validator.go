// Package catprops holds the pure schema logic for category property values:
// format and enum verification plus default-value resolution. No storage, no
// transport — everything here is deterministic over its inputs.
package catprops

import (
	"time"

	"github.com/henn-dt/carbonitor-v2/internal/domain/entity"
)

// dateLayouts accepted for DATE-formatted string values: plain ISO date,
// date-time with Z/offset, date-time without zone. time.Parse additionally
// accepts fractional seconds after the seconds field for all of them.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ParseDate parses an ISO-8601 date or date-time string. Calendar validity
// is enforced (2024-02-30 fails, 2024-02-29 parses).
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// VerifyValue reports whether value conforms to the property schema: the
// runtime kind must match the declared format, and when the schema declares
// an enum the value must be a member. DATE accepts both a date-kinded value
// and a string in one of the ISO-8601 forms.
func VerifyValue(schema entity.PropertySchema, value entity.PropertyValue) bool {
	switch schema.Format {
	case entity.FormatString:
		if value.Kind() != entity.KindString {
			return false
		}
	case entity.FormatNumber:
		if value.Kind() != entity.KindNumber {
			return false
		}
	case entity.FormatBoolean:
		if value.Kind() != entity.KindBool {
			return false
		}
	case entity.FormatDate:
		if !isDateLike(value) {
			return false
		}
	default:
		return false
	}
	if len(schema.Enum) > 0 {
		return enumContains(schema, value)
	}
	return true
}

func isDateLike(value entity.PropertyValue) bool {
	switch value.Kind() {
	case entity.KindDate:
		return true
	case entity.KindString:
		_, ok := ParseDate(value.Str())
		return ok
	default:
		return false
	}
}

// enumContains checks membership. For DATE properties both sides are coerced
// to instants first so "2024-05-01" matches an equivalent date value.
func enumContains(schema entity.PropertySchema, value entity.PropertyValue) bool {
	for _, allowed := range schema.Enum {
		if schema.Format == entity.FormatDate {
			vt, vok := coerceDate(value)
			at, aok := coerceDate(allowed)
			if vok && aok && vt.Equal(at) {
				return true
			}
			continue
		}
		if allowed.Equal(value) {
			return true
		}
	}
	return false
}

func coerceDate(value entity.PropertyValue) (time.Time, bool) {
	switch value.Kind() {
	case entity.KindDate:
		return value.Date(), true
	case entity.KindString:
		return ParseDate(value.Str())
	default:
		return time.Time{}, false
	}
}

// DefaultValues flattens the category's schema into property id -> default.
// Properties without a default are omitted; a values map only ever holds
// typed scalars, never nulls.
func DefaultValues(category *entity.Category) entity.PropertyValues {
	defaults := entity.PropertyValues{}
	for id, schema := range category.PropertySchema {
		if schema.Default != nil {
			defaults[id] = *schema.Default
		}
	}
	return defaults
}

// EnsureDefaults fills values from the category's defaults. An empty or nil
// map yields all defaults; otherwise only absent keys are filled. Presence
// is decided by the key, not the value: an explicit 0, "" or false is kept.
func EnsureDefaults(values entity.PropertyValues, category *entity.Category) entity.PropertyValues {
	defaults := DefaultValues(category)
	if len(values) == 0 {
		return defaults
	}
	merged := values.Clone()
	for id, def := range defaults {
		if _, ok := merged[id]; !ok {
			merged[id] = def
		}
	}
	return merged
}
