package catprops_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henn-dt/carbonitor-v2/internal/domain/catprops"
	"github.com/henn-dt/carbonitor-v2/internal/domain/entity"
)

func schemaOf(format entity.PropertyFormat) entity.PropertySchema {
	return entity.PropertySchema{Name: "p", Format: format}
}

func TestVerifyValue_FormatEnforcement(t *testing.T) {
	cases := []struct {
		name   string
		format entity.PropertyFormat
		value  entity.PropertyValue
		want   bool
	}{
		{"string accepts text", entity.FormatString, entity.StringValue("oak"), true},
		{"string rejects number", entity.FormatString, entity.NumberValue(3), false},
		{"number accepts float", entity.FormatNumber, entity.NumberValue(3.5), true},
		{"number accepts integer", entity.FormatNumber, entity.NumberValue(42), true},
		{"number rejects text", entity.FormatNumber, entity.StringValue("abc"), false},
		{"bool accepts bool", entity.FormatBoolean, entity.BoolValue(false), true},
		{"bool rejects text", entity.FormatBoolean, entity.StringValue("true"), false},
		{"date accepts plain date", entity.FormatDate, entity.StringValue("2024-05-01"), true},
		{"date accepts leap day", entity.FormatDate, entity.StringValue("2024-02-29"), true},
		{"date rejects bad calendar day", entity.FormatDate, entity.StringValue("2024-02-30"), false},
		{"date accepts datetime with Z", entity.FormatDate, entity.StringValue("2024-05-01T10:30:00Z"), true},
		{"date accepts datetime with offset", entity.FormatDate, entity.StringValue("2024-05-01T10:30:00+02:00"), true},
		{"date accepts fractional seconds", entity.FormatDate, entity.StringValue("2024-05-01T10:30:00.250Z"), true},
		{"date accepts zoneless datetime", entity.FormatDate, entity.StringValue("2024-05-01T10:30:00"), true},
		{"date accepts native date", entity.FormatDate, entity.DateValue(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)), true},
		{"date rejects number", entity.FormatDate, entity.NumberValue(20240501), false},
		{"date rejects free text", entity.FormatDate, entity.StringValue("yesterday"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, catprops.VerifyValue(schemaOf(tc.format), tc.value))
		})
	}
}

func TestVerifyValue_Enum(t *testing.T) {
	schema := entity.PropertySchema{
		Name:   "size",
		Format: entity.FormatString,
		Enum:   []entity.PropertyValue{entity.StringValue("S"), entity.StringValue("M"), entity.StringValue("L")},
	}

	assert.True(t, catprops.VerifyValue(schema, entity.StringValue("M")))
	assert.False(t, catprops.VerifyValue(schema, entity.StringValue("XL")), "value outside enum must fail")
	assert.False(t, catprops.VerifyValue(schema, entity.NumberValue(1)), "format check runs before enum")
}

func TestVerifyValue_EnumOnDates(t *testing.T) {
	schema := entity.PropertySchema{
		Name:   "reporting date",
		Format: entity.FormatDate,
		Enum:   []entity.PropertyValue{entity.StringValue("2024-01-01"), entity.StringValue("2024-07-01")},
	}

	assert.True(t, catprops.VerifyValue(schema, entity.StringValue("2024-07-01")))
	assert.True(t, catprops.VerifyValue(schema, entity.DateOnlyValue(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))),
		"native date equal to an enum member must pass")
	assert.False(t, catprops.VerifyValue(schema, entity.StringValue("2024-03-01")))
}

func TestParseDate_RejectsNonISO(t *testing.T) {
	for _, s := range []string{"01.05.2024", "2024/05/01", "2024-13-01", "2024-00-10", ""} {
		_, ok := catprops.ParseDate(s)
		assert.False(t, ok, "%q must not parse", s)
	}
}

func testCategory() *entity.Category {
	black := entity.StringValue("black")
	ten := entity.NumberValue(10)
	return &entity.Category{
		ID:   1,
		Name: "Finish",
		Type: entity.EntityTypeProduct,
		PropertySchema: entity.PropertySchemaMap{
			"1": {Name: "color", Format: entity.FormatString, Required: true, Default: &black},
			"2": {Name: "thickness", Format: entity.FormatNumber, Default: &ten},
			"3": {Name: "certified", Format: entity.FormatBoolean}, // no default
		},
	}
}

func TestDefaultValues_FlattensSchema(t *testing.T) {
	defaults := catprops.DefaultValues(testCategory())

	require.Len(t, defaults, 2, "properties without a default are omitted")
	assert.Equal(t, entity.StringValue("black"), defaults["1"])
	assert.Equal(t, entity.NumberValue(10), defaults["2"])
}

func TestEnsureDefaults_EmptyValuesGetAllDefaults(t *testing.T) {
	out := catprops.EnsureDefaults(nil, testCategory())

	require.Len(t, out, 2)
	assert.Equal(t, entity.StringValue("black"), out["1"])

	out = catprops.EnsureDefaults(entity.PropertyValues{}, testCategory())
	require.Len(t, out, 2)
}

func TestEnsureDefaults_FillsOnlyMissingKeys(t *testing.T) {
	in := entity.PropertyValues{"1": entity.StringValue("red")}
	out := catprops.EnsureDefaults(in, testCategory())

	assert.Equal(t, entity.StringValue("red"), out["1"], "explicit value must not be overwritten")
	assert.Equal(t, entity.NumberValue(10), out["2"], "missing key is filled from default")
}

func TestEnsureDefaults_PresentFalsyValuesAreKept(t *testing.T) {
	// Presence is decided by the key: 0, "" and false are deliberate values.
	in := entity.PropertyValues{
		"1": entity.StringValue(""),
		"2": entity.NumberValue(0),
	}
	out := catprops.EnsureDefaults(in, testCategory())

	assert.Equal(t, entity.StringValue(""), out["1"])
	assert.Equal(t, entity.NumberValue(0), out["2"])
}

func TestEnsureDefaults_DoesNotMutateInput(t *testing.T) {
	in := entity.PropertyValues{"1": entity.StringValue("red")}
	_ = catprops.EnsureDefaults(in, testCategory())

	require.Len(t, in, 1, "input map must stay untouched")
}
