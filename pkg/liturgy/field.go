package liturgy

import (
	"strings"

	"github.com/google/uuid"
)

// FieldType is the type tag carried by field definitions and resolved fields.
type FieldType string

const (
	FieldTypePerson   FieldType = "person"
	FieldTypeLocation FieldType = "location"
	FieldTypeGroup    FieldType = "group"
	FieldTypeContent  FieldType = "content"
	FieldTypeListItem FieldType = "list_item"
	FieldTypeDocument FieldType = "document"
	FieldTypeText     FieldType = "text"
	FieldTypeRichText FieldType = "rich_text"
	FieldTypeDate     FieldType = "date"
	FieldTypeTime     FieldType = "time"
	FieldTypeDateTime FieldType = "datetime"
	FieldTypeBoolean  FieldType = "boolean"
	FieldTypeNumber   FieldType = "number"
)

// ParseFieldType normalises a stored type tag. yes_no is the legacy name of boolean.
func ParseFieldType(s string) (FieldType, bool) {
	t := FieldType(strings.ToLower(strings.TrimSpace(s)))
	if t == "yes_no" {
		t = FieldTypeBoolean
	}
	switch t {
	case FieldTypePerson, FieldTypeLocation, FieldTypeGroup, FieldTypeContent,
		FieldTypeListItem, FieldTypeDocument, FieldTypeText, FieldTypeRichText,
		FieldTypeDate, FieldTypeTime, FieldTypeDateTime, FieldTypeBoolean, FieldTypeNumber:
		return t, true
	}
	return "", false
}

// IsEntity reports whether values of this type are ids into the entities bag.
func (t FieldType) IsEntity() bool {
	switch t {
	case FieldTypePerson, FieldTypeLocation, FieldTypeGroup, FieldTypeContent,
		FieldTypeListItem, FieldTypeDocument:
		return true
	}
	return false
}

// ResolvedValue is the display object of one field. The set of variants is
// closed: every implementation lives in this package.
type ResolvedValue interface {
	resolvedValue()
}

type PersonValue struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Sex       string `json:"sex,omitempty"`
}

type LocationValue struct {
	Name   string `json:"name"`
	Street string `json:"street,omitempty"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
}

type GroupValue struct {
	Name string `json:"name"`
}

type ContentValue struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type ListItemValue struct {
	Value string `json:"value"`
}

type DocumentValue struct {
	FileName string `json:"file_name"`
}

// ScalarValue holds text, date, time, datetime, boolean and number fields.
// Raw is kept untouched; formatting happens in Display.
type ScalarValue struct {
	Type FieldType `json:"type"`
	Raw  string    `json:"raw"`
}

// ParishValue is the parish the event belongs to, used by {{parish.*}} tokens.
type ParishValue struct {
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}

func (PersonValue) resolvedValue()   {}
func (LocationValue) resolvedValue() {}
func (GroupValue) resolvedValue()    {}
func (ContentValue) resolvedValue()  {}
func (ListItemValue) resolvedValue() {}
func (DocumentValue) resolvedValue() {}
func (ScalarValue) resolvedValue()   {}

// DisplayName falls back to first + last when the full name was not denormalised.
func (p PersonValue) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Address joins the non-empty address parts.
func (l LocationValue) Address() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Street, l.City, l.State} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// CityState joins city and state the way the parish letterhead prints them.
func (p ParishValue) CityState() string {
	switch {
	case p.City != "" && p.State != "":
		return p.City + ", " + p.State
	case p.City != "":
		return p.City
	default:
		return p.State
	}
}

// EntitiesBag holds the related entities fetched for one render, keyed by raw id.
type EntitiesBag struct {
	People    map[string]PersonValue
	Locations map[string]LocationValue
	Groups    map[string]GroupValue
	Contents  map[string]ContentValue
	ListItems map[string]ListItemValue
	Documents map[string]DocumentValue
	Parish    *ParishValue
}

// NewEntitiesBag returns a bag with every map allocated.
func NewEntitiesBag() *EntitiesBag {
	return &EntitiesBag{
		People:    make(map[string]PersonValue),
		Locations: make(map[string]LocationValue),
		Groups:    make(map[string]GroupValue),
		Contents:  make(map[string]ContentValue),
		ListItems: make(map[string]ListItemValue),
		Documents: make(map[string]DocumentValue),
	}
}

// Put files a resolved value under the sub-map matching its variant.
func (b *EntitiesBag) Put(raw string, v ResolvedValue) {
	if raw == "" || v == nil {
		return
	}
	switch val := v.(type) {
	case PersonValue:
		b.People[raw] = val
	case LocationValue:
		b.Locations[raw] = val
	case GroupValue:
		b.Groups[raw] = val
	case ContentValue:
		b.Contents[raw] = val
	case ListItemValue:
		b.ListItems[raw] = val
	case DocumentValue:
		b.Documents[raw] = val
	case ScalarValue:
		// scalars are not entities
	}
}

// Resolve maps a raw value of the given type to its display object.
// A nil result is the unassigned state: the raw value is empty or the
// referenced entity is not in the bag.
func Resolve(fieldType FieldType, rawValue string, bag *EntitiesBag) ResolvedValue {
	if rawValue == "" {
		return nil
	}
	if bag == nil {
		bag = &EntitiesBag{}
	}
	switch fieldType {
	case FieldTypePerson:
		if v, ok := bag.People[rawValue]; ok {
			return v
		}
	case FieldTypeLocation:
		if v, ok := bag.Locations[rawValue]; ok {
			return v
		}
	case FieldTypeGroup:
		if v, ok := bag.Groups[rawValue]; ok {
			return v
		}
	case FieldTypeContent:
		if v, ok := bag.Contents[rawValue]; ok {
			return v
		}
		// legacy rows store the text itself instead of a content reference
		if !IsReference(rawValue) {
			return ContentValue{Body: rawValue}
		}
	case FieldTypeListItem:
		if v, ok := bag.ListItems[rawValue]; ok {
			return v
		}
	case FieldTypeDocument:
		if v, ok := bag.Documents[rawValue]; ok {
			return v
		}
	case FieldTypeText, FieldTypeRichText, FieldTypeDate, FieldTypeTime,
		FieldTypeDateTime, FieldTypeBoolean, FieldTypeNumber:
		return ScalarValue{Type: fieldType, Raw: rawValue}
	}
	return nil
}

// IsReference reports whether a raw value looks like an entity id rather
// than inline text: a UUID or a decimal snowflake id.
func IsReference(raw string) bool {
	if _, err := uuid.Parse(raw); err == nil {
		return true
	}
	if len(raw) < 10 {
		return false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// propertyNames lists the sub-properties each entity type exposes.
var propertyNames = map[FieldType][]string{
	FieldTypePerson:   {"full_name", "first_name", "last_name", "sex"},
	FieldTypeLocation: {"name", "street", "city", "state", "address"},
	FieldTypeGroup:    {"name"},
	FieldTypeContent:  {"title", "body"},
	FieldTypeListItem: {"value"},
	FieldTypeDocument: {"file_name"},
	FieldTypeText:     {"value", "raw"},
	FieldTypeRichText: {"value", "raw"},
	FieldTypeDate:     {"value", "raw"},
	FieldTypeTime:     {"value", "raw"},
	FieldTypeDateTime: {"value", "raw"},
	FieldTypeBoolean:  {"value", "raw"},
	FieldTypeNumber:   {"value", "raw"},
}

// HasProperty reports whether name is a valid sub-property for the type.
func HasProperty(t FieldType, name string) bool {
	for _, p := range propertyNames[t] {
		if p == name {
			return true
		}
	}
	return false
}

// Property returns a typed sub-property of a resolved value. A property
// that is missing or empty on the value does not resolve.
func Property(v ResolvedValue, name string, f *Formatter) (string, bool) {
	s, ok := property(v, name, f)
	return s, ok && s != ""
}

func property(v ResolvedValue, name string, f *Formatter) (string, bool) {
	if v == nil {
		return "", false
	}
	switch val := v.(type) {
	case PersonValue:
		switch name {
		case "full_name":
			return val.DisplayName(), true
		case "first_name":
			return val.FirstName, true
		case "last_name":
			return val.LastName, true
		case "sex":
			return val.Sex, true
		}
	case LocationValue:
		switch name {
		case "name":
			return val.Name, true
		case "street":
			return val.Street, true
		case "city":
			return val.City, true
		case "state":
			return val.State, true
		case "address":
			return val.Address(), true
		}
	case GroupValue:
		if name == "name" {
			return val.Name, true
		}
	case ContentValue:
		switch name {
		case "title":
			return val.Title, true
		case "body":
			return val.Body, true
		}
	case ListItemValue:
		if name == "value" {
			return val.Value, true
		}
	case DocumentValue:
		if name == "file_name" {
			return val.FileName, true
		}
	case ScalarValue:
		switch name {
		case "value":
			return f.Scalar(val), true
		case "raw":
			return val.Raw, true
		}
	}
	return "", false
}

// Display returns the whole-field string form of a resolved value. An
// empty display string does not resolve.
func Display(v ResolvedValue, f *Formatter) (string, bool) {
	s, ok := display(v, f)
	return s, ok && s != ""
}

func display(v ResolvedValue, f *Formatter) (string, bool) {
	if v == nil {
		return "", false
	}
	switch val := v.(type) {
	case PersonValue:
		return val.DisplayName(), true
	case LocationValue:
		return val.Name, true
	case GroupValue:
		return val.Name, true
	case ContentValue:
		return val.Body, true
	case ListItemValue:
		return val.Value, true
	case DocumentValue:
		return val.FileName, true
	case ScalarValue:
		return f.Scalar(val), true
	}
	return "", false
}
