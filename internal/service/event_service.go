package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/pkg/liturgy"
	"github.com/yockii/parish_tools/pkg/logger"
)

// eventService builds resolved field snapshots from the raw field values
// stored on events and calendar events.
type eventService struct {
	db   *gorm.DB
	defs FieldDefinitionFetcher
}

func NewEventService(db *gorm.DB, defs FieldDefinitionFetcher) *eventService {
	return &eventService{db: db, defs: defs}
}

// GetEntityWithRelations returns nil without error when the event does not exist.
func (s *eventService) GetEntityWithRelations(ctx context.Context, id uint64) (*EntitySnapshot, error) {
	db := s.db.WithContext(ctx)
	var event model.Event
	err := db.Preload("EventType").
		Preload("CalendarEvents", func(db *gorm.DB) *gorm.DB {
			return db.Order("start_at, id")
		}).
		First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error("query event failed", logger.F("id", id), logger.F("error", err))
		return nil, constant.ErrDatabaseError
	}

	defs, err := s.defs.GetFieldDefinitions(ctx, event.EventTypeID)
	if err != nil {
		return nil, err
	}
	typed := toLiturgyDefinitions(defs)

	eventRaw := parseRaw(event.FieldValues, event.ID)
	occurrenceRaw := make([]map[string]string, len(event.CalendarEvents))
	for i, ce := range event.CalendarEvents {
		occurrenceRaw[i] = parseRaw(ce.FieldValues, ce.ID)
	}

	bag, err := s.loadEntities(db, typed, append([]map[string]string{eventRaw}, occurrenceRaw...))
	if err != nil {
		return nil, err
	}

	snapshot := &EntitySnapshot{
		ID:             event.ID,
		EventTypeID:    event.EventTypeID,
		Name:           event.Name,
		ResolvedFields: resolveFields(typed, eventRaw, bag),
		CalendarEvents: make([]*OccurrenceSnapshot, 0, len(event.CalendarEvents)),
	}
	if event.EventType != nil {
		snapshot.EventTypeName = event.EventType.Name
		snapshot.SystemType = event.EventType.SystemType
	}
	for i, ce := range event.CalendarEvents {
		snapshot.CalendarEvents = append(snapshot.CalendarEvents, &OccurrenceSnapshot{
			ID:             ce.ID,
			StartAt:        ce.StartAt,
			AllDay:         ce.AllDay,
			IsPrimary:      ce.IsPrimary,
			ResolvedFields: resolveFields(typed, occurrenceRaw[i], bag),
		})
	}

	var parish model.Parish
	if err := db.Order("id").Limit(1).Find(&parish).Error; err != nil {
		logger.Error("query parish failed", logger.F("error", err))
		return nil, constant.ErrDatabaseError
	}
	if parish.ID != 0 {
		snapshot.Parish = &liturgy.ParishValue{Name: parish.Name, City: parish.City, State: parish.State}
	}
	return snapshot, nil
}

// parseRaw treats an unreadable field_values column as empty.
func parseRaw(data datatypes.JSON, ownerID uint64) map[string]string {
	raw, err := liturgy.ParseRawValues(data)
	if err != nil {
		logger.Warn("ignore invalid field values", logger.F("id", ownerID), logger.F("error", err))
		return map[string]string{}
	}
	return raw
}

// resolveFields snapshots every defined field that has a raw value.
func resolveFields(defs []liturgy.FieldDefinition, raw map[string]string, bag *liturgy.EntitiesBag) liturgy.ResolvedFields {
	fields := make(liturgy.ResolvedFields)
	for _, d := range defs {
		value := strings.TrimSpace(raw[d.PropertyName])
		if value == "" {
			continue
		}
		fields[d.PropertyName] = liturgy.ResolvedField{
			FieldName: d.Name,
			FieldType: d.Type,
			RawValue:  value,
			Value:     liturgy.Resolve(d.Type, value, bag),
		}
	}
	return fields
}

// loadEntities fetches, one query per entity type, every entity referenced
// by the raw values and files it in a bag under the raw value itself.
func (s *eventService) loadEntities(db *gorm.DB, defs []liturgy.FieldDefinition, raws []map[string]string) (*liturgy.EntitiesBag, error) {
	refs := make(map[liturgy.FieldType]map[string]uint64)
	for _, d := range defs {
		if !d.Type.IsEntity() {
			continue
		}
		for _, raw := range raws {
			value := strings.TrimSpace(raw[d.PropertyName])
			id := model.ParseID(value)
			if id == 0 {
				continue
			}
			if refs[d.Type] == nil {
				refs[d.Type] = make(map[string]uint64)
			}
			refs[d.Type][value] = id
		}
	}

	bag := liturgy.NewEntitiesBag()
	for ft, byRaw := range refs {
		values, err := loadValues(db, ft, sortedIDs(byRaw))
		if err != nil {
			logger.Error("load related entities failed", logger.F("type", ft), logger.F("error", err))
			return nil, constant.ErrDatabaseError
		}
		for raw, id := range byRaw {
			if v, ok := values[id]; ok {
				bag.Put(raw, v)
			}
		}
	}
	return bag, nil
}

func sortedIDs(byRaw map[string]uint64) []uint64 {
	ids := make([]uint64, 0, len(byRaw))
	for _, id := range byRaw {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func loadValues(db *gorm.DB, ft liturgy.FieldType, ids []uint64) (map[uint64]liturgy.ResolvedValue, error) {
	out := make(map[uint64]liturgy.ResolvedValue, len(ids))
	switch ft {
	case liturgy.FieldTypePerson:
		var rows []model.Person
		if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, p := range rows {
			out[p.ID] = liturgy.PersonValue{
				FirstName: p.FirstName,
				LastName:  p.LastName,
				FullName:  strings.TrimSpace(p.FirstName + " " + p.LastName),
				Sex:       p.Sex,
			}
		}
	case liturgy.FieldTypeLocation:
		var rows []model.Location
		if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, l := range rows {
			out[l.ID] = liturgy.LocationValue{Name: l.Name, Street: l.Street, City: l.City, State: l.State}
		}
	case liturgy.FieldTypeGroup:
		var rows []model.Group
		if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, g := range rows {
			out[g.ID] = liturgy.GroupValue{Name: g.Name}
		}
	case liturgy.FieldTypeContent:
		var rows []model.ContentItem
		if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, c := range rows {
			out[c.ID] = liturgy.ContentValue{Title: c.Title, Body: c.Body}
		}
	case liturgy.FieldTypeListItem:
		var rows []model.CustomListItem
		if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, li := range rows {
			out[li.ID] = liturgy.ListItemValue{Value: li.Value}
		}
	case liturgy.FieldTypeDocument:
		var rows []model.Document
		if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, d := range rows {
			out[d.ID] = liturgy.DocumentValue{FileName: d.FileName}
		}
	}
	return out, nil
}
