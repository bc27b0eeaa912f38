package liturgy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readerFields() ResolvedFields {
	return ResolvedFields{
		"first_reader": {
			FieldType: FieldTypePerson,
			RawValue:  "p1",
			Value:     PersonValue{FirstName: "John", LastName: "Smith", FullName: "John Smith", Sex: "MALE"},
		},
		"psalm_reader": {
			FieldType: FieldTypePerson,
			RawValue:  "p2",
			Value:     PersonValue{FirstName: "Jane", LastName: "Doe", FullName: "Jane Doe", Sex: "FEMALE"},
		},
		"event_date": {FieldType: FieldTypeDate, RawValue: "2025-06-14"},
		"start_time": {FieldType: FieldTypeTime, RawValue: "14:30:00"},
		"church":     {FieldType: FieldTypeLocation, RawValue: "l1"},
	}
}

func testBag() *EntitiesBag {
	bag := NewEntitiesBag()
	bag.Locations["l1"] = LocationValue{Name: "St. Mary", Street: "1 Main St", City: "Austin", State: "TX"}
	bag.Parish = &ParishValue{Name: "St. Mary Catholic Church", City: "Austin", State: "TX"}
	return bag
}

func TestCompile_SubstitutesPersonProperty(t *testing.T) {
	fields := ResolvedFields{
		"psalm_reader": {FieldType: FieldTypePerson, RawValue: "p1", Value: PersonValue{FullName: "Jane Doe"}},
	}
	require.Equal(t, "Reader: Jane Doe", Compile("Reader: {{psalm_reader.full_name}}", fields, nil))
}

func TestCompile_DistinctReaders(t *testing.T) {
	out := Compile("{{psalm_reader.full_name}}", readerFields(), testBag())
	assert.Contains(t, out, "Jane Doe")
	assert.NotContains(t, out, "John Smith")
}

func TestCompile_MissingAssignmentStaysVerbatim(t *testing.T) {
	fields := readerFields()
	delete(fields, "psalm_reader")
	require.Equal(t, "{{psalm_reader.full_name}}", Compile("{{psalm_reader.full_name}}", fields, testBag()))
}

func TestCompile_UnresolvedTokens(t *testing.T) {
	fields := readerFields()
	fields["cantor"] = ResolvedField{FieldType: FieldTypePerson, RawValue: "missing"}
	cases := map[string]string{
		"unknown identifier":  "{{nobody}}",
		"unknown property":    "{{psalm_reader.shoe_size}}",
		"nil value":           "{{cantor.full_name}}",
		"unknown gendered":    "{{nobody | he | she}}",
		"gendered non-person": "{{church | he | she}}",
	}
	for name, tpl := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tpl, Compile(tpl, fields, testBag()))
		})
	}
}

func TestCompile_EmptyValuesStayVerbatim(t *testing.T) {
	fields := ResolvedFields{
		"venue":  {FieldType: FieldTypeLocation, RawValue: "l9", Value: LocationValue{}},
		"reader": {FieldType: FieldTypePerson, RawValue: "p9", Value: PersonValue{FullName: "Ann Lee"}},
	}
	tpl := "At {{venue}} / {{venue.city}} / {{reader.first_name}} / {{reader}}"
	assert.Equal(t, "At {{venue}} / {{venue.city}} / {{reader.first_name}} / Ann Lee", Compile(tpl, fields, nil))

	bag := NewEntitiesBag()
	bag.Parish = &ParishValue{Name: "Holy Family"}
	assert.Equal(t, "Holy Family {{parish.city_state}}", Compile("{{parish.name}} {{parish.city_state}}", nil, bag))
}

func TestCompile_ReportsUnresolved(t *testing.T) {
	var seen []string
	c := &Compiler{OnUnresolved: func(tok Token) { seen = append(seen, tok.Raw) }}
	out := c.Compile("{{a}} and {{psalm_reader}} and {{b.c}}", readerFields(), nil)
	assert.Equal(t, "{{a}} and Jane Doe and {{b.c}}", out)
	assert.Equal(t, []string{"{{a}}", "{{b.c}}"}, seen)
}

func TestCompile_Idempotent(t *testing.T) {
	templates := []string{
		"Reader: {{psalm_reader.full_name}} on {{event_date}} at {{start_time}}",
		"{{missing}} then {{first_reader.last_name}}",
		"no tokens at all",
		"{{church.address}} / {{parish.city_state}}",
		"{{ broken }} {{a.b.c}} {{x",
	}
	fields := readerFields()
	bag := testBag()
	for _, tpl := range templates {
		once := Compile(tpl, fields, bag)
		assert.Equal(t, once, Compile(once, fields, bag), tpl)
	}
}

func TestCompile_ScalarsFormattedOnAccess(t *testing.T) {
	fields := readerFields()
	fields["confirmed"] = ResolvedField{FieldType: FieldTypeBoolean, RawValue: "true"}
	fields["guests"] = ResolvedField{FieldType: FieldTypeNumber, RawValue: "1250"}
	out := Compile("{{event_date}}|{{start_time}}|{{confirmed}}|{{guests}}|{{event_date.raw}}", fields, nil)
	assert.Equal(t, "Saturday, June 14, 2025|2:30 PM|Yes|1,250|2025-06-14", out)
}

func TestCompile_ResolvesThroughBag(t *testing.T) {
	out := Compile("{{church}}: {{church.address}}", readerFields(), testBag())
	assert.Equal(t, "St. Mary: 1 Main St, Austin, TX", out)
}

func TestCompile_Gendered(t *testing.T) {
	fields := readerFields()
	fields["sponsor"] = ResolvedField{FieldType: FieldTypePerson, RawValue: "p3", Value: PersonValue{FullName: "Pat Lee"}}
	assert.Equal(t, "she", Compile("{{psalm_reader | he | she}}", fields, nil))
	assert.Equal(t, "his", Compile("{{first_reader.full_name|his|her}}", fields, nil))
	assert.Equal(t, "him/her", Compile("{{sponsor | him | her}}", fields, nil))
}

func TestCompile_Parish(t *testing.T) {
	bag := testBag()
	out := Compile("{{parish.name}}, {{parish.city_state}} ({{parish.state}})", nil, bag)
	assert.Equal(t, "St. Mary Catholic Church, Austin, TX (TX)", out)
	assert.Equal(t, "{{parish.name}}", Compile("{{parish.name}}", nil, nil))

	shadow := ResolvedFields{"parish": {FieldType: FieldTypeText, RawValue: "Holy Family"}}
	assert.Equal(t, "Holy Family", Compile("{{parish}}", shadow, bag))
}

func TestCompile_LegacyContentText(t *testing.T) {
	fields := ResolvedFields{
		"homily_note": {FieldType: FieldTypeContent, RawValue: "Welcome everyone"},
		"reading":     {FieldType: FieldTypeContent, RawValue: "6f1c2a3e-1111-4a4a-9a9a-0123456789ab"},
	}
	out := Compile("{{homily_note}} / {{reading.title}}", fields, NewEntitiesBag())
	assert.Equal(t, "Welcome everyone / {{reading.title}}", out)
}

func TestMergeFields_OccurrenceWins(t *testing.T) {
	template := ResolvedFields{
		"presider": {FieldType: FieldTypePerson, RawValue: "p1", Value: PersonValue{FullName: "Fr. Template"}},
		"church":   {FieldType: FieldTypeLocation, RawValue: "l1"},
	}
	occurrence := ResolvedFields{
		"presider": {FieldType: FieldTypePerson, RawValue: "p9", Value: PersonValue{FullName: "Fr. Occurrence"}},
	}
	merged := MergeFields(template, occurrence)
	require.Len(t, merged, 2)
	assert.Equal(t, "Fr. Occurrence", Compile("{{presider}}", merged, nil))
	// inputs are untouched
	assert.Equal(t, "p1", template["presider"].RawValue)
}
