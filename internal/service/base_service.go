package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"gorm.io/gorm"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/pkg/logger"
)

// Hooks customise the generic CRUD of BaseService. Services embed
// DefaultHooks and override what they need, then hand themselves to
// NewBaseService so the overrides are actually called.
type Hooks[T model.Model] interface {
	CheckDuplicate(db *gorm.DB, record T) (bool, error)
	Validate(record T) error
	BuildCondition(query *gorm.DB, condition T) *gorm.DB
	ListOrder() string
	// UpdateColumns limits Update to these columns so false and empty values
	// are written too. nil updates every non-zero field.
	UpdateColumns() []string
}

type DefaultHooks[T model.Model] struct{}

func (DefaultHooks[T]) CheckDuplicate(db *gorm.DB, record T) (bool, error) {
	return false, nil
}

func (DefaultHooks[T]) Validate(record T) error {
	return nil
}

func (DefaultHooks[T]) BuildCondition(query *gorm.DB, condition T) *gorm.DB {
	return query
}

func (DefaultHooks[T]) ListOrder() string {
	return "created_at DESC"
}

func (DefaultHooks[T]) UpdateColumns() []string {
	return nil
}

type BaseService[T model.Model] struct {
	db    *gorm.DB
	hooks Hooks[T]
}

func NewBaseService[T model.Model](db *gorm.DB, hooks Hooks[T]) *BaseService[T] {
	if hooks == nil {
		hooks = DefaultHooks[T]{}
	}
	return &BaseService[T]{
		db:    db,
		hooks: hooks,
	}
}

func (s *BaseService[T]) NewModel() T {
	var t T
	tType := reflect.TypeOf(t)

	// T is normally a pointer to a model struct
	if tType.Kind() == reflect.Ptr {
		return reflect.New(tType.Elem()).Interface().(T)
	}
	return reflect.New(tType).Elem().Interface().(T)
}

func (s *BaseService[T]) Create(ctx context.Context, record T) error {
	if err := s.hooks.Validate(record); err != nil {
		return err
	}
	db := s.db.WithContext(ctx)
	duplicate, err := s.hooks.CheckDuplicate(db, record)
	if err != nil {
		logger.Error("check duplicate failed", logger.F("table", record.TableComment()), logger.F("error", err))
		return constant.ErrDatabaseError
	}
	if duplicate {
		return constant.ErrRecordDuplicate
	}

	if err := db.Create(record).Error; err != nil {
		logger.Error("create record failed", logger.F("table", record.TableComment()), logger.F("error", err))
		return constant.ErrDatabaseError
	}
	return nil
}

func (s *BaseService[T]) Update(ctx context.Context, record T) error {
	id := record.GetID()
	if id == 0 {
		return constant.ErrRecordIDEmpty
	}
	if err := s.hooks.Validate(record); err != nil {
		return err
	}
	db := s.db.WithContext(ctx)
	if _, err := s.get(db, id); err != nil {
		return err
	}

	duplicate, err := s.hooks.CheckDuplicate(db, record)
	if err != nil {
		logger.Error("check duplicate failed", logger.F("table", record.TableComment()), logger.F("error", err))
		return constant.ErrDatabaseError
	}
	if duplicate {
		return constant.ErrRecordDuplicate
	}

	query := db.Model(record)
	if cols := s.hooks.UpdateColumns(); len(cols) > 0 {
		query = query.Select(cols)
	}
	if err := query.Updates(record).Error; err != nil {
		logger.Error("update record failed", logger.F("table", record.TableComment()), logger.F("id", id), logger.F("error", err))
		return constant.ErrDatabaseError
	}
	return nil
}

func (s *BaseService[T]) Delete(ctx context.Context, id uint64) error {
	db := s.db.WithContext(ctx)
	record, err := s.get(db, id)
	if err != nil {
		return err
	}
	if err := db.Delete(record).Error; err != nil {
		logger.Error("delete record failed", logger.F("table", record.TableComment()), logger.F("id", id), logger.F("error", err))
		return constant.ErrDatabaseError
	}
	return nil
}

func (s *BaseService[T]) Get(ctx context.Context, id uint64) (T, error) {
	return s.get(s.db.WithContext(ctx), id)
}

func (s *BaseService[T]) get(db *gorm.DB, id uint64) (T, error) {
	record := s.NewModel()
	if id == 0 {
		return record, constant.ErrRecordIDEmpty
	}
	if err := db.First(record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return record, constant.ErrRecordNotFound
		}
		logger.Error("query record failed", logger.F("table", record.TableComment()), logger.F("id", id), logger.F("error", err))
		return record, fmt.Errorf("%w: %v", constant.ErrDatabaseError, err)
	}
	return record, nil
}

func (s *BaseService[T]) List(ctx context.Context, condition T, offset, limit int) ([]T, int64, error) {
	var records []T
	var total int64

	query := s.db.WithContext(ctx).Model(s.NewModel())
	query = s.hooks.BuildCondition(query, condition)

	if err := query.Count(&total).Error; err != nil {
		logger.Error("count records failed", logger.F("error", err))
		return records, 0, constant.ErrDatabaseError
	}
	if total == 0 {
		return records, 0, nil
	}

	if err := query.Offset(offset).Limit(limit).Order(s.hooks.ListOrder()).Find(&records).Error; err != nil {
		logger.Error("list records failed", logger.F("error", err))
		return records, 0, constant.ErrDatabaseError
	}
	return records, total, nil
}
