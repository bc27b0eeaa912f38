package liturgy

import "fmt"

// FieldDefinition is the engine's view of one placeholder slot.
type FieldDefinition struct {
	PropertyName  string
	Name          string
	Type          FieldType
	Required      bool
	PerOccurrence bool
	KeyPerson     bool
}

// LintIssue points at a token that can never resolve for the event type.
type LintIssue struct {
	SectionID   string `json:"sectionId"`
	SectionName string `json:"sectionName"`
	Token       string `json:"token"`
	Reason      string `json:"reason"`
}

var parishProperties = map[string]bool{"": true, "name": true, "city": true, "state": true, "city_state": true}

// Lint checks every placeholder of script against the field definitions.
// Rendering is unaffected; the issues only surface authoring mistakes that
// would otherwise ship as literal {{...}} text.
func Lint(script Script, defs []FieldDefinition) []LintIssue {
	byName := make(map[string]FieldDefinition, len(defs))
	for _, d := range defs {
		byName[d.PropertyName] = d
	}

	var issues []LintIssue
	for _, s := range SortSections(script.Sections) {
		for tok := range Scan(s.Content) {
			if reason := lintToken(tok, byName); reason != "" {
				issues = append(issues, LintIssue{
					SectionID:   s.ID,
					SectionName: s.Name,
					Token:       tok.Raw,
					Reason:      reason,
				})
			}
		}
	}
	return issues
}

func lintToken(tok Token, defs map[string]FieldDefinition) string {
	def, ok := defs[tok.Field]
	if !ok {
		if tok.Field == ParishField {
			if tok.Gendered {
				return "parish placeholders cannot be gendered"
			}
			if !parishProperties[tok.Property] {
				return fmt.Sprintf("unknown parish property %q", tok.Property)
			}
			return ""
		}
		return fmt.Sprintf("no field definition named %q", tok.Field)
	}
	if tok.Gendered {
		if def.Type != FieldTypePerson {
			return fmt.Sprintf("gendered text needs a person field, %q is %s", tok.Field, def.Type)
		}
		return ""
	}
	if tok.Property != "" && !HasProperty(def.Type, tok.Property) {
		return fmt.Sprintf("%s fields have no property %q", def.Type, tok.Property)
	}
	return ""
}
