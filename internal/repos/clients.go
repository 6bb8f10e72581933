package repos

import (
	"context"
	"errors"

	"workdesk/internal/apperr"
	"workdesk/internal/logger"
	"workdesk/internal/models"

	"gorm.io/gorm"
)

type ClientRepo interface {
	Create(ctx context.Context, tx *gorm.DB, c *models.Client) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Client, error)
	List(ctx context.Context, tx *gorm.DB) ([]*models.Client, error)
}

type clientRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClientRepo(db *gorm.DB, baseLog *logger.Logger) ClientRepo {
	return &clientRepo{db: db, log: baseLog.With("repo", "ClientRepo")}
}

func (r *clientRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *clientRepo) Create(ctx context.Context, tx *gorm.DB, c *models.Client) error {
	return r.handle(tx).WithContext(ctx).Create(c).Error
}

func (r *clientRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Client, error) {
	var c models.Client
	err := r.handle(tx).WithContext(ctx).First(&c, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("client_not_found", "client %d not found", id)
		}
		return nil, err
	}
	return &c, nil
}

func (r *clientRepo) List(ctx context.Context, tx *gorm.DB) ([]*models.Client, error) {
	var out []*models.Client
	if err := r.handle(tx).WithContext(ctx).Order("name asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
