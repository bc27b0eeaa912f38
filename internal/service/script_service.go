package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/pkg/liturgy"
	"github.com/yockii/parish_tools/pkg/logger"
)

type scriptService struct {
	*BaseService[*model.Script]
	DefaultHooks[*model.Script]
	defs FieldDefinitionFetcher
}

func NewScriptService(db *gorm.DB, defs FieldDefinitionFetcher) *scriptService {
	s := &scriptService{defs: defs}
	s.BaseService = NewBaseService[*model.Script](db, s)
	return s
}

func (s *scriptService) Validate(record *model.Script) error {
	if strings.TrimSpace(record.Name) == "" {
		return constant.ErrInvalidParams
	}
	return nil
}

func (s *scriptService) BuildCondition(query *gorm.DB, condition *model.Script) *gorm.DB {
	if condition == nil {
		return query
	}
	if condition.EventTypeID != 0 {
		query = query.Where("event_type_id = ?", condition.EventTypeID)
	}
	if condition.Name != "" {
		query = query.Where("name LIKE ?", "%"+condition.Name+"%")
	}
	return query
}

func (s *scriptService) ListOrder() string {
	return "sort_order, id"
}

func (s *scriptService) UpdateColumns() []string {
	return []string{"name", "description", "updated_at"}
}

// Create appends the script after the event type's existing scripts.
func (s *scriptService) Create(ctx context.Context, record *model.Script) error {
	if record.EventTypeID == 0 {
		return constant.ErrInvalidParams
	}
	var eventType model.EventType
	if err := s.db.WithContext(ctx).First(&eventType, "id = ?", record.EventTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return constant.ErrRecordNotFound
		}
		logger.Error("query event type failed", logger.F("error", err))
		return constant.ErrDatabaseError
	}
	order, err := nextOrder(s.db.WithContext(ctx).Model(&model.Script{}).Where("event_type_id = ?", record.EventTypeID))
	if err != nil {
		logger.Error("query script order failed", logger.F("error", err))
		return constant.ErrDatabaseError
	}
	record.Order = order
	return s.BaseService.Create(ctx, record)
}

func (s *scriptService) Reorder(ctx context.Context, eventTypeID uint64, orderedIDs []uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []uint64
		if err := tx.Model(&model.Script{}).Where("event_type_id = ?", eventTypeID).Pluck("id", &existing).Error; err != nil {
			logger.Error("query scripts failed", logger.F("error", err))
			return constant.ErrDatabaseError
		}
		if !isPermutation(existing, orderedIDs) {
			return constant.ErrInvalidParams
		}
		if err := writeOrder(tx, &model.Script{}, orderedIDs); err != nil {
			logger.Error("reorder scripts failed", logger.F("eventTypeId", eventTypeID), logger.F("error", err))
			return constant.ErrDatabaseError
		}
		return nil
	})
}

// GetScriptWithSections returns nil without error when the script does not
// exist or was deleted.
func (s *scriptService) GetScriptWithSections(ctx context.Context, id uint64) (*model.Script, error) {
	var script model.Script
	err := s.db.WithContext(ctx).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order, id")
		}).
		First(&script, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error("query script failed", logger.F("id", id), logger.F("error", err))
		return nil, constant.ErrDatabaseError
	}
	return &script, nil
}

// Lint lists the placeholders of a script that can never resolve for its
// event type.
func (s *scriptService) Lint(ctx context.Context, id uint64) ([]liturgy.LintIssue, error) {
	script, err := s.GetScriptWithSections(ctx, id)
	if err != nil {
		return nil, err
	}
	if script == nil {
		return nil, constant.ErrScriptNotFound
	}
	defs, err := s.defs.GetFieldDefinitions(ctx, script.EventTypeID)
	if err != nil {
		return nil, err
	}
	issues := liturgy.Lint(toLiturgyScript(script), toLiturgyDefinitions(defs))
	if issues == nil {
		issues = []liturgy.LintIssue{}
	}
	return issues, nil
}
