package repos

import (
	"context"

	"workdesk/internal/logger"
	"workdesk/internal/models"

	"gorm.io/gorm"
)

type BoardRepo interface {
	Create(ctx context.Context, tx *gorm.DB, e *models.BoardEntry) error
	ListByWorkOrder(ctx context.Context, tx *gorm.DB, workOrderID uint) ([]*models.BoardEntry, error)
	// LinkedIDs feeds the audit snapshot: the ids of entries linked to a
	// work order at the instant of the query.
	LinkedIDs(ctx context.Context, tx *gorm.DB, workOrderID uint) ([]uint, error)
}

type boardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBoardRepo(db *gorm.DB, baseLog *logger.Logger) BoardRepo {
	return &boardRepo{db: db, log: baseLog.With("repo", "BoardRepo")}
}

func (r *boardRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *boardRepo) Create(ctx context.Context, tx *gorm.DB, e *models.BoardEntry) error {
	return r.handle(tx).WithContext(ctx).Create(e).Error
}

func (r *boardRepo) ListByWorkOrder(ctx context.Context, tx *gorm.DB, workOrderID uint) ([]*models.BoardEntry, error) {
	var out []*models.BoardEntry
	err := r.handle(tx).WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("lane asc, position asc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *boardRepo) LinkedIDs(ctx context.Context, tx *gorm.DB, workOrderID uint) ([]uint, error) {
	var ids []uint
	err := r.handle(tx).WithContext(ctx).
		Model(&models.BoardEntry{}).
		Where("work_order_id = ?", workOrderID).
		Order("id asc").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
