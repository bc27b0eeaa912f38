package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/pkg/liturgy"
	"github.com/yockii/parish_tools/pkg/logger"
)

// sectionService keeps the orders of a script's sections dense: 0..n-1
// after every create, delete and reorder.
type sectionService struct {
	*BaseService[*model.Section]
	DefaultHooks[*model.Section]
}

func NewSectionService(db *gorm.DB) *sectionService {
	s := &sectionService{}
	s.BaseService = NewBaseService[*model.Section](db, s)
	return s
}

func (s *sectionService) Validate(record *model.Section) error {
	switch record.SectionType {
	case "":
		record.SectionType = liturgy.SectionTypeText
	case liturgy.SectionTypeText, liturgy.SectionTypeOther:
	default:
		return constant.ErrInvalidParams
	}
	return nil
}

func (s *sectionService) UpdateColumns() []string {
	return []string{"name", "content", "section_type", "page_break_after", "updated_at"}
}

// Create appends the section at the end of its script.
func (s *sectionService) Create(ctx context.Context, record *model.Section) error {
	if err := s.Validate(record); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkScript(tx, record.ScriptID); err != nil {
			return err
		}
		order, err := nextOrder(tx.Model(&model.Section{}).Where("script_id = ?", record.ScriptID))
		if err != nil {
			logger.Error("query section order failed", logger.F("error", err))
			return constant.ErrDatabaseError
		}
		record.Order = order
		if err := tx.Create(record).Error; err != nil {
			logger.Error("create section failed", logger.F("error", err))
			return constant.ErrDatabaseError
		}
		return nil
	})
}

// Delete removes the section for good and closes the gap it leaves.
func (s *sectionService) Delete(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		section, err := s.get(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(&model.Section{}, "id = ?", id).Error; err != nil {
			logger.Error("delete section failed", logger.F("id", id), logger.F("error", err))
			return constant.ErrDatabaseError
		}
		var rest []uint64
		if err := tx.Model(&model.Section{}).Where("script_id = ?", section.ScriptID).Order("sort_order, id").Pluck("id", &rest).Error; err != nil {
			logger.Error("query sections failed", logger.F("error", err))
			return constant.ErrDatabaseError
		}
		if err := writeOrder(tx, &model.Section{}, rest); err != nil {
			logger.Error("compact section order failed", logger.F("scriptId", section.ScriptID), logger.F("error", err))
			return constant.ErrDatabaseError
		}
		return nil
	})
}

func (s *sectionService) ListByScript(ctx context.Context, scriptID uint64) ([]*model.Section, error) {
	var sections []*model.Section
	if err := s.db.WithContext(ctx).Where("script_id = ?", scriptID).Order("sort_order, id").Find(&sections).Error; err != nil {
		logger.Error("list sections failed", logger.F("scriptId", scriptID), logger.F("error", err))
		return nil, constant.ErrDatabaseError
	}
	return sections, nil
}

// Reorder rewrites the orders to 0..n-1 following orderedIDs, which must
// name every section of the script exactly once. Nothing is written otherwise.
func (s *sectionService) Reorder(ctx context.Context, scriptID uint64, orderedIDs []uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []uint64
		if err := tx.Model(&model.Section{}).Where("script_id = ?", scriptID).Pluck("id", &existing).Error; err != nil {
			logger.Error("query sections failed", logger.F("error", err))
			return constant.ErrDatabaseError
		}
		if !isPermutation(existing, orderedIDs) {
			return constant.ErrInvalidParams
		}
		if err := writeOrder(tx, &model.Section{}, orderedIDs); err != nil {
			logger.Error("reorder sections failed", logger.F("scriptId", scriptID), logger.F("error", err))
			return constant.ErrDatabaseError
		}
		return nil
	})
}

func checkScript(tx *gorm.DB, scriptID uint64) error {
	if scriptID == 0 {
		return constant.ErrInvalidParams
	}
	if err := tx.Select("id").First(&model.Script{}, "id = ?", scriptID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return constant.ErrRecordNotFound
		}
		logger.Error("query script failed", logger.F("error", err))
		return constant.ErrDatabaseError
	}
	return nil
}
