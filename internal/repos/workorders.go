package repos

import (
	"context"
	"errors"

	"workdesk/internal/apperr"
	"workdesk/internal/logger"
	"workdesk/internal/models"

	"gorm.io/gorm"
)

type WorkOrderRepo interface {
	Create(ctx context.Context, tx *gorm.DB, wo *models.WorkOrder) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.WorkOrder, error)
	List(ctx context.Context, tx *gorm.DB, clientID uint) ([]*models.WorkOrder, error)
	// UpdateVersioned is the optimistic-concurrency write; see OptimisticUpdate.
	UpdateVersioned(ctx context.Context, tx *gorm.DB, id uint, expected int64, values map[string]interface{}) (*models.WorkOrder, error)
}

type workOrderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkOrderRepo(db *gorm.DB, baseLog *logger.Logger) WorkOrderRepo {
	return &workOrderRepo{db: db, log: baseLog.With("repo", "WorkOrderRepo")}
}

func (r *workOrderRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *workOrderRepo) Create(ctx context.Context, tx *gorm.DB, wo *models.WorkOrder) error {
	return r.handle(tx).WithContext(ctx).Create(wo).Error
}

func (r *workOrderRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.WorkOrder, error) {
	var wo models.WorkOrder
	err := r.handle(tx).WithContext(ctx).First(&wo, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("work_order_not_found", "work order %d not found", id)
		}
		return nil, err
	}
	return &wo, nil
}

func (r *workOrderRepo) List(ctx context.Context, tx *gorm.DB, clientID uint) ([]*models.WorkOrder, error) {
	q := r.handle(tx).WithContext(ctx).Order("created_at desc")
	if clientID > 0 {
		q = q.Where("client_id = ?", clientID)
	}
	var out []*models.WorkOrder
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *workOrderRepo) UpdateVersioned(ctx context.Context, tx *gorm.DB, id uint, expected int64, values map[string]interface{}) (*models.WorkOrder, error) {
	return OptimisticUpdate[models.WorkOrder](ctx, r.handle(tx), id, expected, values)
}
