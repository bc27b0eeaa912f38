package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/pkg/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// weddingFixture is a wedding with two people, a church and one dated occurrence.
type weddingFixture struct {
	eventType *model.EventType
	event     *model.Event
	occ       *model.CalendarEvent
	bride     *model.Person
	groom     *model.Person
	reader    *model.Person
	church    *model.Location
	reading   *model.ContentItem
}

func seedWedding(t *testing.T, db *gorm.DB) *weddingFixture {
	t.Helper()
	f := &weddingFixture{
		eventType: &model.EventType{Name: "Wedding", SystemType: model.SystemTypeSpecialLiturgy},
		bride:     &model.Person{FirstName: "Maria", LastName: "Núñez", Sex: "FEMALE"},
		groom:     &model.Person{FirstName: "John", LastName: "Smith", Sex: "MALE"},
		reader:    &model.Person{FirstName: "Jane", LastName: "Doe", Sex: "FEMALE"},
		church:    &model.Location{Name: "St. Anne", City: "Springfield", State: "IL"},
		reading:   &model.ContentItem{Title: "Genesis 2", Body: "It is not good for the man to be alone."},
	}
	require.NoError(t, db.Create(&model.Parish{Name: "St. Anne Parish", City: "Springfield", State: "IL"}).Error)
	require.NoError(t, db.Create(f.eventType).Error)
	for _, p := range []*model.Person{f.bride, f.groom, f.reader} {
		require.NoError(t, db.Create(p).Error)
	}
	require.NoError(t, db.Create(f.church).Error)
	require.NoError(t, db.Create(f.reading).Error)

	defs := []*model.FieldDefinition{
		{PropertyName: "bride", Name: "Bride", Type: "person", IsKeyPerson: true},
		{PropertyName: "groom", Name: "Groom", Type: "person", IsKeyPerson: true},
		{PropertyName: "church", Name: "Church", Type: "location"},
		{PropertyName: "first_reading", Name: "First Reading", Type: "content"},
		{PropertyName: "psalm_reader", Name: "Psalm Reader", Type: "person", IsPerCalendarEvent: true},
		{PropertyName: "unity_candle", Name: "Unity Candle", Type: "yes_no"},
		{PropertyName: "notes", Name: "Notes", Type: "text"},
	}
	for i, d := range defs {
		d.EventTypeID = f.eventType.ID
		d.Order = i
		require.NoError(t, db.Create(d).Error)
	}

	f.event = &model.Event{
		EventTypeID: f.eventType.ID,
		Name:        "Núñez / Smith wedding",
		FieldValues: datatypes.JSON(`{
			"bride": "` + f.bride.IDString() + `",
			"groom": "` + f.groom.IDString() + `",
			"church": "` + f.church.IDString() + `",
			"first_reading": "` + f.reading.IDString() + `",
			"psalm_reader": "` + f.groom.IDString() + `",
			"unity_candle": "true",
			"notes": "Bring the rings"
		}`),
	}
	require.NoError(t, db.Create(f.event).Error)
	f.occ = &model.CalendarEvent{
		EventID:     f.event.ID,
		StartAt:     time.Date(2025, 6, 14, 14, 0, 0, 0, time.UTC),
		IsPrimary:   true,
		FieldValues: datatypes.JSON(`{"psalm_reader": "` + f.reader.IDString() + `"}`),
	}
	require.NoError(t, db.Create(f.occ).Error)
	return f
}

func seedScript(t *testing.T, db *gorm.DB, eventTypeID uint64, sections ...*model.Section) *model.Script {
	t.Helper()
	script := &model.Script{EventTypeID: eventTypeID, Name: "Wedding Ceremony"}
	require.NoError(t, db.Create(script).Error)
	for i, s := range sections {
		s.ScriptID = script.ID
		s.Order = i
		if s.SectionType == "" {
			s.SectionType = "text"
		}
		require.NoError(t, db.Create(s).Error)
	}
	return script
}
