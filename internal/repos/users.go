package repos

import (
	"context"
	"errors"

	"workdesk/internal/apperr"
	"workdesk/internal/logger"
	"workdesk/internal/models"

	"gorm.io/gorm"
)

type UserRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	// UpdateVersioned routes profile edits through the shared
	// optimistic-concurrency primitive.
	UpdateVersioned(ctx context.Context, tx *gorm.DB, id uint, expected int64, values map[string]interface{}) (*models.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	var u models.User
	err := r.handle(tx).WithContext(ctx).First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user_not_found", "user %d not found", id)
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error) {
	var u models.User
	err := r.handle(tx).WithContext(ctx).
		Where("username = ?", username).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user_not_found", "user %q not found", username)
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) UpdateVersioned(ctx context.Context, tx *gorm.DB, id uint, expected int64, values map[string]interface{}) (*models.User, error) {
	return OptimisticUpdate[models.User](ctx, r.handle(tx), id, expected, values)
}
