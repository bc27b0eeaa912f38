package constant

// Operation log actions.
const (
	LogActionCreateScript = 11 + iota
	LogActionUpdateScript
	LogActionDeleteScript
	LogActionReorderScripts
)

const (
	LogActionCreateSection = 21 + iota
	LogActionUpdateSection
	LogActionDeleteSection
	LogActionReorderSections
)

const (
	LogActionCreateFieldDefinition = 31 + iota
	LogActionUpdateFieldDefinition
	LogActionDeleteFieldDefinition
)

const (
	LogActionExportDocument = 41 + iota
	LogActionExportRoster
)
