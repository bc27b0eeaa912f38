package liturgy

import (
	"strings"
)

// ParishField is the reserved identifier of {{parish.*}} tokens.
const ParishField = "parish"

// ResolvedField is the snapshot of one field for one event.
type ResolvedField struct {
	FieldName string
	FieldType FieldType
	RawValue  string
	// Value is nil when the snapshot did not denormalise the field; the
	// compiler then resolves RawValue against the entities bag.
	Value ResolvedValue
}

// ResolvedFields is keyed by field definition property_name.
type ResolvedFields map[string]ResolvedField

// MergeFields overlays occurrence-level assignments on template-level ones.
// The occurrence value wins when both define the same property name.
func MergeFields(template, occurrence ResolvedFields) ResolvedFields {
	out := make(ResolvedFields, len(template)+len(occurrence))
	for k, v := range template {
		out[k] = v
	}
	for k, v := range occurrence {
		out[k] = v
	}
	return out
}

// Compiler substitutes placeholders. The zero value is ready to use.
type Compiler struct {
	Formatter *Formatter
	// OnUnresolved is called for every token left verbatim in the output.
	OnUnresolved func(tok Token)
}

var defaultCompiler = &Compiler{}

// Compile substitutes template placeholders with the default compiler.
func Compile(template string, fields ResolvedFields, bag *EntitiesBag) string {
	return defaultCompiler.Compile(template, fields, bag)
}

// Compile replaces every resolvable placeholder in template. Tokens that do
// not resolve are copied to the output unchanged.
func (c *Compiler) Compile(template string, fields ResolvedFields, bag *EntitiesBag) string {
	if !strings.Contains(template, "{{") {
		return template
	}
	var sb strings.Builder
	sb.Grow(len(template))
	last := 0
	for tok := range Scan(template) {
		sb.WriteString(template[last:tok.Start])
		if s, ok := c.resolveToken(tok, fields, bag); ok {
			sb.WriteString(s)
		} else {
			sb.WriteString(tok.Raw)
			if c.OnUnresolved != nil {
				c.OnUnresolved(tok)
			}
		}
		last = tok.End
	}
	sb.WriteString(template[last:])
	return sb.String()
}

func (c *Compiler) resolveToken(tok Token, fields ResolvedFields, bag *EntitiesBag) (string, bool) {
	if tok.Field == ParishField {
		if _, shadowed := fields[ParishField]; !shadowed {
			return resolveParish(tok, bag)
		}
	}

	value := lookup(tok.Field, fields, bag)
	if value == nil {
		return "", false
	}

	if tok.Gendered {
		person, ok := value.(PersonValue)
		if !ok {
			return "", false
		}
		switch strings.ToUpper(strings.TrimSpace(person.Sex)) {
		case "MALE":
			return tok.Male, true
		case "FEMALE":
			return tok.Female, true
		default:
			return tok.Male + "/" + tok.Female, true
		}
	}

	if tok.Property != "" {
		return Property(value, tok.Property, c.Formatter)
	}
	return Display(value, c.Formatter)
}

func lookup(name string, fields ResolvedFields, bag *EntitiesBag) ResolvedValue {
	f, ok := fields[name]
	if !ok {
		return nil
	}
	if f.Value != nil {
		return f.Value
	}
	return Resolve(f.FieldType, f.RawValue, bag)
}

func resolveParish(tok Token, bag *EntitiesBag) (string, bool) {
	if bag == nil || bag.Parish == nil || tok.Gendered {
		return "", false
	}
	p := bag.Parish
	switch tok.Property {
	case "", "name":
		return p.Name, p.Name != ""
	case "city":
		return p.City, p.City != ""
	case "state":
		return p.State, p.State != ""
	case "city_state":
		s := p.CityState()
		return s, s != ""
	}
	return "", false
}
