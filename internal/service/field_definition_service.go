package service

import (
	"context"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/pkg/liturgy"
	"github.com/yockii/parish_tools/pkg/logger"
)

var propertyNamePattern = regexp.MustCompile(`^[a-z0-9_]+$`)

type fieldDefinitionService struct {
	*BaseService[*model.FieldDefinition]
	DefaultHooks[*model.FieldDefinition]
}

func NewFieldDefinitionService(db *gorm.DB) *fieldDefinitionService {
	s := &fieldDefinitionService{}
	s.BaseService = NewBaseService[*model.FieldDefinition](db, s)
	return s
}

// Validate normalises the type tag, so legacy yes_no is stored as boolean.
func (s *fieldDefinitionService) Validate(record *model.FieldDefinition) error {
	if record.EventTypeID == 0 || strings.TrimSpace(record.Name) == "" {
		return constant.ErrInvalidParams
	}
	if !propertyNamePattern.MatchString(record.PropertyName) || record.PropertyName == liturgy.ParishField {
		return constant.ErrInvalidPropertyName
	}
	ft, ok := liturgy.ParseFieldType(record.Type)
	if !ok {
		return constant.ErrInvalidFieldType
	}
	record.Type = string(ft)
	return nil
}

// CheckDuplicate enforces property_name uniqueness within the event type.
func (s *fieldDefinitionService) CheckDuplicate(db *gorm.DB, record *model.FieldDefinition) (bool, error) {
	query := db.Model(&model.FieldDefinition{}).Where(&model.FieldDefinition{
		EventTypeID:  record.EventTypeID,
		PropertyName: record.PropertyName,
	})
	if record.ID != 0 {
		query = query.Where("id <> ?", record.ID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *fieldDefinitionService) BuildCondition(query *gorm.DB, condition *model.FieldDefinition) *gorm.DB {
	if condition == nil {
		return query
	}
	if condition.EventTypeID != 0 {
		query = query.Where("event_type_id = ?", condition.EventTypeID)
	}
	if condition.Type != "" {
		query = query.Where("type = ?", condition.Type)
	}
	return query
}

func (s *fieldDefinitionService) ListOrder() string {
	return "sort_order, id"
}

func (s *fieldDefinitionService) UpdateColumns() []string {
	return []string{"property_name", "name", "type", "required", "is_key_person", "is_per_calendar_event", "updated_at"}
}

// Create appends the definition after the event type's existing ones.
func (s *fieldDefinitionService) Create(ctx context.Context, record *model.FieldDefinition) error {
	if record.EventTypeID == 0 {
		return constant.ErrInvalidParams
	}
	order, err := nextOrder(s.db.WithContext(ctx).Model(&model.FieldDefinition{}).Where("event_type_id = ?", record.EventTypeID))
	if err != nil {
		logger.Error("query field definition order failed", logger.F("error", err))
		return constant.ErrDatabaseError
	}
	record.Order = order
	return s.BaseService.Create(ctx, record)
}

// Update keeps the event type a definition belongs to.
func (s *fieldDefinitionService) Update(ctx context.Context, record *model.FieldDefinition) error {
	existing, err := s.Get(ctx, record.ID)
	if err != nil {
		return err
	}
	record.EventTypeID = existing.EventTypeID
	return s.BaseService.Update(ctx, record)
}

// GetFieldDefinitions lists the definitions of an event type in display order.
func (s *fieldDefinitionService) GetFieldDefinitions(ctx context.Context, eventTypeID uint64) ([]*model.FieldDefinition, error) {
	var defs []*model.FieldDefinition
	if err := s.db.WithContext(ctx).Where("event_type_id = ?", eventTypeID).Order("sort_order, id").Find(&defs).Error; err != nil {
		logger.Error("query field definitions failed", logger.F("eventTypeId", eventTypeID), logger.F("error", err))
		return nil, constant.ErrDatabaseError
	}
	return defs, nil
}
