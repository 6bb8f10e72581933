package repos

import (
	"context"
	"errors"

	"workdesk/internal/apperr"

	"gorm.io/gorm"
)

// OptimisticUpdate applies values to the aggregate row of type T identified
// by id, provided the stored row_version still equals expected. The version
// bump is part of the same UPDATE statement, so the compare and the write are
// one atomic step relative to any other writer.
//
// Zero rows affected means another writer got there first: the current
// authoritative row is reloaded and returned inside a Conflict error so the
// caller can re-apply its intent. On success the fresh row, including the
// bumped version, is returned.
func OptimisticUpdate[T any](ctx context.Context, tx *gorm.DB, id uint, expected int64, values map[string]interface{}) (*T, error) {
	cols := make(map[string]interface{}, len(values)+1)
	for k, v := range values {
		cols[k] = v
	}
	cols["row_version"] = gorm.Expr("row_version + 1")

	res := tx.WithContext(ctx).
		Model(new(T)).
		Where("id = ? AND row_version = ?", id, expected).
		Updates(cols)
	if res.Error != nil {
		return nil, res.Error
	}

	current := new(T)
	if err := tx.WithContext(ctx).First(current, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("not_found", "record %d not found", id)
		}
		return nil, err
	}

	if res.RowsAffected == 0 {
		return current, apperr.Conflict("stale_version", current,
			"record %d changed since version %d", id, expected)
	}
	return current, nil
}
