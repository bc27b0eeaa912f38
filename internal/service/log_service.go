package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yockii/parish_tools/internal/constant"
	"github.com/yockii/parish_tools/internal/model"
	"github.com/yockii/parish_tools/pkg/logger"
)

type logService struct {
	db *gorm.DB
}

func NewLogService(db *gorm.DB) *logService {
	return &logService{db: db}
}

func (s *logService) CreateOperationLog(ctx context.Context, callerID string, action int, targetID uint64, ip, userAgent string, failed bool) error {
	log := &model.Log{
		CallerID:  callerID,
		Action:    action,
		TargetID:  targetID,
		IP:        ip,
		UserAgent: userAgent,
		Failed:    failed,
	}
	if err := s.db.WithContext(ctx).Create(log).Error; err != nil {
		logger.Error("create operation log failed", logger.F("action", action), logger.F("error", err))
		return constant.ErrDatabaseError
	}
	return nil
}

func (s *logService) ListLogs(ctx context.Context, callerID string, actions []int, offset, limit int) ([]*model.Log, int64, error) {
	var logs []*model.Log
	var total int64

	query := s.db.WithContext(ctx).Model(&model.Log{})
	if callerID != "" {
		query = query.Where("caller_id = ?", callerID)
	}
	if len(actions) > 0 {
		query = query.Where("action IN ?", actions)
	}

	if err := query.Count(&total).Error; err != nil {
		logger.Error("count logs failed", logger.F("error", err))
		return nil, 0, constant.ErrDatabaseError
	}

	if total > 0 && limit > 0 {
		if err := query.Offset(offset).Limit(limit).Order("created_at DESC, id DESC").Find(&logs).Error; err != nil {
			logger.Error("list logs failed", logger.F("error", err))
			return nil, 0, constant.ErrDatabaseError
		}
	}
	return logs, total, nil
}

func (s *logService) DeleteOldLogs(ctx context.Context, days int) error {
	deadline := time.Now().AddDate(0, 0, -days)
	if err := s.db.WithContext(ctx).Where("created_at < ?", deadline).Delete(&model.Log{}).Error; err != nil {
		logger.Error("delete old logs failed", logger.F("error", err))
		return constant.ErrDatabaseError
	}
	return nil
}
