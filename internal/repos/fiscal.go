package repos

import (
	"context"
	"errors"

	"workdesk/internal/apperr"
	"workdesk/internal/logger"
	"workdesk/internal/models"

	"gorm.io/gorm"
)

// FiscalRepo manages the single settings row. Writes share the
// optimistic-concurrency discipline of the other aggregates.
type FiscalRepo interface {
	Get(ctx context.Context, tx *gorm.DB) (*models.FiscalSettings, error)
	UpdateVersioned(ctx context.Context, tx *gorm.DB, id uint, expected int64, values map[string]interface{}) (*models.FiscalSettings, error)
}

type fiscalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFiscalRepo(db *gorm.DB, baseLog *logger.Logger) FiscalRepo {
	return &fiscalRepo{db: db, log: baseLog.With("repo", "FiscalRepo")}
}

func (r *fiscalRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *fiscalRepo) Get(ctx context.Context, tx *gorm.DB) (*models.FiscalSettings, error) {
	var fs models.FiscalSettings
	err := r.handle(tx).WithContext(ctx).Order("id asc").First(&fs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("fiscal_settings_missing", "fiscal settings row missing")
		}
		return nil, err
	}
	return &fs, nil
}

func (r *fiscalRepo) UpdateVersioned(ctx context.Context, tx *gorm.DB, id uint, expected int64, values map[string]interface{}) (*models.FiscalSettings, error) {
	return OptimisticUpdate[models.FiscalSettings](ctx, r.handle(tx), id, expected, values)
}
