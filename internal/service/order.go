package service

import (
	"database/sql"

	"gorm.io/gorm"
)

// nextOrder returns max(sort_order)+1 among the rows matching scope, 0 for none.
func nextOrder(scope *gorm.DB) (int, error) {
	var max sql.NullInt64
	if err := scope.Select("MAX(sort_order)").Row().Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

// isPermutation reports whether ordered holds every id of existing exactly once.
func isPermutation(existing, ordered []uint64) bool {
	if len(existing) != len(ordered) {
		return false
	}
	seen := make(map[uint64]bool, len(existing))
	for _, id := range existing {
		seen[id] = false
	}
	for _, id := range ordered {
		used, ok := seen[id]
		if !ok || used {
			return false
		}
		seen[id] = true
	}
	return true
}

// writeOrder sets sort_order = index for each id of table model.
func writeOrder(tx *gorm.DB, model any, ordered []uint64) error {
	for i, id := range ordered {
		if err := tx.Model(model).Where("id = ?", id).Update("sort_order", i).Error; err != nil {
			return err
		}
	}
	return nil
}
