package model

import (
	"time"

	"gorm.io/datatypes"
)

// System types decide how exports are named.
const (
	SystemTypeMass           = "mass"
	SystemTypeSpecialLiturgy = "special-liturgy"
	SystemTypeEvent          = "event"
)

// EventType groups events sharing field definitions and scripts.
type EventType struct {
	BaseModel
	Name       string    `json:"name" gorm:"type:varchar(100);not null"`
	SystemType string    `json:"systemType" gorm:"type:varchar(30);not null;default:event"`
	UpdatedAt  time.Time `json:"updatedAt,omitzero" gorm:"type:timestamp;not null"`
}

func (e *EventType) TableComment() string {
	return "event types"
}

// FieldDefinition is one named placeholder slot of an event type.
type FieldDefinition struct {
	BaseModel
	EventTypeID  uint64 `json:"eventTypeId,string" gorm:"index;not null"`
	PropertyName string `json:"propertyName" gorm:"type:varchar(50);not null"`
	Name         string `json:"name" gorm:"type:varchar(100);not null"`
	Type         string `json:"type" gorm:"type:varchar(20);not null"`
	Required     bool   `json:"required" gorm:"default:false;not null"`
	IsKeyPerson  bool   `json:"isKeyPerson" gorm:"default:false;not null"`
	// IsPerCalendarEvent fields are filled per occurrence instead of on the event.
	IsPerCalendarEvent bool      `json:"isPerCalendarEvent" gorm:"default:false;not null"`
	Order              int       `json:"order" gorm:"column:sort_order;default:0;not null"`
	UpdatedAt          time.Time `json:"updatedAt,omitzero" gorm:"type:timestamp;not null"`
}

func (f *FieldDefinition) TableComment() string {
	return "field definitions"
}

// Event is one liturgy or parish event. FieldValues maps property names to
// raw values: entity ids for reference fields, literals for scalars.
type Event struct {
	BaseModel
	EventTypeID    uint64           `json:"eventTypeId,string" gorm:"index;not null"`
	Name           string           `json:"name" gorm:"type:varchar(200)"`
	FieldValues    datatypes.JSON   `json:"fieldValues"`
	UpdatedAt      time.Time        `json:"updatedAt,omitzero" gorm:"type:timestamp;not null"`
	EventType      *EventType       `json:"eventType,omitempty" gorm:"foreignKey:EventTypeID"`
	CalendarEvents []*CalendarEvent `json:"calendarEvents,omitempty" gorm:"foreignKey:EventID"`
}

func (e *Event) TableComment() string {
	return "events"
}

// CalendarEvent is one dated occurrence of an event.
type CalendarEvent struct {
	BaseModel
	EventID     uint64         `json:"eventId,string" gorm:"index;not null"`
	StartAt     time.Time      `json:"startAt" gorm:"type:timestamp;not null"`
	AllDay      bool           `json:"allDay" gorm:"default:false;not null"`
	IsPrimary   bool           `json:"isPrimary" gorm:"default:false;not null"`
	FieldValues datatypes.JSON `json:"fieldValues"`
}

func (c *CalendarEvent) TableComment() string {
	return "calendar events"
}

func init() {
	models = append(models, &EventType{}, &FieldDefinition{}, &Event{}, &CalendarEvent{})
}
