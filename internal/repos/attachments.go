package repos

import (
	"context"
	"errors"

	"workdesk/internal/apperr"
	"workdesk/internal/logger"
	"workdesk/internal/models"

	"gorm.io/gorm"
)

type AttachmentRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AttachmentVersion, error)
	// GetLatest returns the current latest version for the name, or nil when
	// no version exists.
	GetLatest(ctx context.Context, tx *gorm.DB, workOrderID uint, originalName string) (*models.AttachmentVersion, error)
	// HighestExcluding returns the highest-numbered remaining version for the
	// name, skipping the given id. Nil when none remain.
	HighestExcluding(ctx context.Context, tx *gorm.DB, workOrderID uint, originalName string, excludeID uint) (*models.AttachmentVersion, error)
	Create(ctx context.Context, tx *gorm.DB, av *models.AttachmentVersion) error
	SetLatest(ctx context.Context, tx *gorm.DB, id uint, latest bool) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
	ListByWorkOrder(ctx context.Context, tx *gorm.DB, workOrderID uint) ([]*models.AttachmentVersion, error)
}

type attachmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttachmentRepo(db *gorm.DB, baseLog *logger.Logger) AttachmentRepo {
	return &attachmentRepo{db: db, log: baseLog.With("repo", "AttachmentRepo")}
}

func (r *attachmentRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *attachmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.AttachmentVersion, error) {
	var av models.AttachmentVersion
	err := r.handle(tx).WithContext(ctx).First(&av, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("attachment_not_found", "attachment %d not found", id)
		}
		return nil, err
	}
	return &av, nil
}

func (r *attachmentRepo) GetLatest(ctx context.Context, tx *gorm.DB, workOrderID uint, originalName string) (*models.AttachmentVersion, error) {
	var av models.AttachmentVersion
	err := r.handle(tx).WithContext(ctx).
		Where("work_order_id = ? AND original_name = ? AND is_latest = ?", workOrderID, originalName, true).
		First(&av).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &av, nil
}

func (r *attachmentRepo) HighestExcluding(ctx context.Context, tx *gorm.DB, workOrderID uint, originalName string, excludeID uint) (*models.AttachmentVersion, error) {
	var av models.AttachmentVersion
	err := r.handle(tx).WithContext(ctx).
		Where("work_order_id = ? AND original_name = ? AND id <> ?", workOrderID, originalName, excludeID).
		Order("version desc").
		First(&av).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &av, nil
}

func (r *attachmentRepo) Create(ctx context.Context, tx *gorm.DB, av *models.AttachmentVersion) error {
	return r.handle(tx).WithContext(ctx).Create(av).Error
}

func (r *attachmentRepo) SetLatest(ctx context.Context, tx *gorm.DB, id uint, latest bool) error {
	return r.handle(tx).WithContext(ctx).
		Model(&models.AttachmentVersion{}).
		Where("id = ?", id).
		Update("is_latest", latest).Error
}

func (r *attachmentRepo) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	return r.handle(tx).WithContext(ctx).Delete(&models.AttachmentVersion{}, id).Error
}

func (r *attachmentRepo) ListByWorkOrder(ctx context.Context, tx *gorm.DB, workOrderID uint) ([]*models.AttachmentVersion, error) {
	var out []*models.AttachmentVersion
	err := r.handle(tx).WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("original_name asc, version desc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
