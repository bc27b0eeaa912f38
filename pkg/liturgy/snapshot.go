package liturgy

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/gjson"
)

var ErrInvalidSnapshot = errors.New("invalid resolved fields snapshot")

// snapshotField is the stored JSON shape of one resolved field.
type snapshotField struct {
	FieldName     string        `json:"field_name,omitempty"`
	FieldType     FieldType     `json:"field_type"`
	RawValue      string        `json:"raw_value"`
	ResolvedValue ResolvedValue `json:"resolved_value"`
}

// MarshalJSON writes the snapshot shape. Scalars store no resolved value.
func (f ResolvedField) MarshalJSON() ([]byte, error) {
	out := snapshotField{
		FieldName: f.FieldName,
		FieldType: f.FieldType,
		RawValue:  f.RawValue,
	}
	if _, scalar := f.Value.(ScalarValue); !scalar {
		out.ResolvedValue = f.Value
	}
	return json.Marshal(out)
}

// ParseResolvedFields decodes a stored snapshot:
//
//	{"psalm_reader": {"field_type": "person", "raw_value": "42",
//	                  "resolved_value": {"full_name": "Jane Doe"}}}
//
// Entries with an unknown field_type are dropped.
func ParseResolvedFields(data []byte) (ResolvedFields, error) {
	fields := make(ResolvedFields)
	if len(data) == 0 {
		return fields, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidSnapshot
	}
	root := gjson.ParseBytes(data)
	if root.Type == gjson.Null {
		return fields, nil
	}
	if !root.IsObject() {
		return nil, ErrInvalidSnapshot
	}
	root.ForEach(func(key, value gjson.Result) bool {
		ft, ok := ParseFieldType(value.Get("field_type").String())
		if !ok {
			return true
		}
		raw := value.Get("raw_value")
		rawStr := ""
		if raw.Exists() && raw.Type != gjson.Null {
			rawStr = raw.String()
		}
		fields[key.String()] = ResolvedField{
			FieldName: value.Get("field_name").String(),
			FieldType: ft,
			RawValue:  rawStr,
			Value:     decodeValue(ft, value.Get("resolved_value")),
		}
		return true
	})
	return fields, nil
}

// ParseRawValues decodes a {"property_name": raw} object. Non-string raw
// values keep their JSON text form.
func ParseRawValues(data []byte) (map[string]string, error) {
	out := make(map[string]string)
	if len(data) == 0 {
		return out, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidSnapshot
	}
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Null {
			out[key.String()] = value.String()
		}
		return true
	})
	return out, nil
}

func decodeValue(ft FieldType, v gjson.Result) ResolvedValue {
	if !v.Exists() || v.Type == gjson.Null || !v.IsObject() {
		return nil
	}
	switch ft {
	case FieldTypePerson:
		p := PersonValue{
			FirstName: v.Get("first_name").String(),
			LastName:  v.Get("last_name").String(),
			FullName:  v.Get("full_name").String(),
			Sex:       v.Get("sex").String(),
		}
		if p.DisplayName() == "" {
			return nil
		}
		return p
	case FieldTypeLocation:
		return LocationValue{
			Name:   v.Get("name").String(),
			Street: v.Get("street").String(),
			City:   v.Get("city").String(),
			State:  v.Get("state").String(),
		}
	case FieldTypeGroup:
		return GroupValue{Name: v.Get("name").String()}
	case FieldTypeContent:
		return ContentValue{Title: v.Get("title").String(), Body: v.Get("body").String()}
	case FieldTypeListItem:
		return ListItemValue{Value: v.Get("value").String()}
	case FieldTypeDocument:
		return DocumentValue{FileName: v.Get("file_name").String()}
	case FieldTypeText, FieldTypeRichText, FieldTypeDate, FieldTypeTime,
		FieldTypeDateTime, FieldTypeBoolean, FieldTypeNumber:
		return nil
	}
	return nil
}

// BagFromFields builds the entities bag of one render from a snapshot,
// classifying each field by its type and keying by raw value.
func BagFromFields(fields ResolvedFields, parish *ParishValue) *EntitiesBag {
	bag := NewEntitiesBag()
	bag.Parish = parish
	for _, f := range fields {
		if f.RawValue == "" || f.Value == nil {
			continue
		}
		switch f.FieldType {
		case FieldTypePerson:
			if v, ok := f.Value.(PersonValue); ok {
				bag.People[f.RawValue] = v
			}
		case FieldTypeLocation:
			if v, ok := f.Value.(LocationValue); ok {
				bag.Locations[f.RawValue] = v
			}
		case FieldTypeGroup:
			if v, ok := f.Value.(GroupValue); ok {
				bag.Groups[f.RawValue] = v
			}
		case FieldTypeContent:
			if v, ok := f.Value.(ContentValue); ok {
				bag.Contents[f.RawValue] = v
			}
		case FieldTypeListItem:
			if v, ok := f.Value.(ListItemValue); ok {
				bag.ListItems[f.RawValue] = v
			}
		case FieldTypeDocument:
			if v, ok := f.Value.(DocumentValue); ok {
				bag.Documents[f.RawValue] = v
			}
		case FieldTypeText, FieldTypeRichText, FieldTypeDate, FieldTypeTime,
			FieldTypeDateTime, FieldTypeBoolean, FieldTypeNumber:
		}
	}
	return bag
}
