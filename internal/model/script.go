package model

import (
	"time"

	"gorm.io/gorm"
)

// Script is a template document for an event type. Deleting a script is a
// soft delete.
type Script struct {
	BaseModel
	EventTypeID uint64         `json:"eventTypeId,string" gorm:"index;not null"`
	Name        string         `json:"name" gorm:"type:varchar(100);not null"`
	Description string         `json:"description" gorm:"type:varchar(500)"`
	Order       int            `json:"order" gorm:"column:sort_order;default:0;not null"`
	UpdatedAt   time.Time      `json:"updatedAt,omitzero" gorm:"type:timestamp;not null"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Sections    []*Section     `json:"sections,omitempty" gorm:"foreignKey:ScriptID"`
}

func (s *Script) TableComment() string {
	return "scripts"
}

// Section is one ordered block of a script.
type Section struct {
	BaseModel
	ScriptID       uint64    `json:"scriptId,string" gorm:"index;not null"`
	Name           string    `json:"name" gorm:"type:varchar(100)"`
	Content        string    `json:"content" gorm:"type:text"`
	SectionType    string    `json:"sectionType" gorm:"type:varchar(20);default:text;not null"`
	Order          int       `json:"order" gorm:"column:sort_order;default:0;not null"`
	PageBreakAfter bool      `json:"pageBreakAfter" gorm:"default:false;not null"`
	UpdatedAt      time.Time `json:"updatedAt,omitzero" gorm:"type:timestamp;not null"`
}

func (s *Section) TableComment() string {
	return "script sections"
}

func init() {
	models = append(models, &Script{}, &Section{})
}
