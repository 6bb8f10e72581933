package repos

import (
	"context"
	"errors"

	"workdesk/internal/apperr"
	"workdesk/internal/logger"
	"workdesk/internal/models"

	"gorm.io/gorm"
)

type TimeEntryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, e *models.TimeEntry) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.TimeEntry, error)
	// OpenForActor returns the actor's single open entry, or nil. The query
	// spans all work orders: the open-timer invariant is global per actor.
	OpenForActor(ctx context.Context, tx *gorm.DB, actorID uint) (*models.TimeEntry, error)
	Close(ctx context.Context, tx *gorm.DB, e *models.TimeEntry) error
	ListByWorkOrder(ctx context.Context, tx *gorm.DB, workOrderID uint) ([]*models.TimeEntry, error)
	// ClosedMinutes sums the durations of closed entries for a work order.
	ClosedMinutes(ctx context.Context, tx *gorm.DB, workOrderID uint) (int, error)
}

type timeEntryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTimeEntryRepo(db *gorm.DB, baseLog *logger.Logger) TimeEntryRepo {
	return &timeEntryRepo{db: db, log: baseLog.With("repo", "TimeEntryRepo")}
}

func (r *timeEntryRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *timeEntryRepo) Create(ctx context.Context, tx *gorm.DB, e *models.TimeEntry) error {
	return r.handle(tx).WithContext(ctx).Create(e).Error
}

func (r *timeEntryRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.TimeEntry, error) {
	var e models.TimeEntry
	err := r.handle(tx).WithContext(ctx).First(&e, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("time_entry_not_found", "time entry %d not found", id)
		}
		return nil, err
	}
	return &e, nil
}

func (r *timeEntryRepo) OpenForActor(ctx context.Context, tx *gorm.DB, actorID uint) (*models.TimeEntry, error) {
	var e models.TimeEntry
	err := r.handle(tx).WithContext(ctx).
		Where("actor_id = ? AND ended_at IS NULL", actorID).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *timeEntryRepo) Close(ctx context.Context, tx *gorm.DB, e *models.TimeEntry) error {
	return r.handle(tx).WithContext(ctx).
		Model(&models.TimeEntry{}).
		Where("id = ?", e.ID).
		Updates(map[string]interface{}{
			"ended_at":         e.EndedAt,
			"duration_minutes": e.DurationMinutes,
		}).Error
}

func (r *timeEntryRepo) ListByWorkOrder(ctx context.Context, tx *gorm.DB, workOrderID uint) ([]*models.TimeEntry, error) {
	var out []*models.TimeEntry
	err := r.handle(tx).WithContext(ctx).
		Where("work_order_id = ?", workOrderID).
		Order("started_at desc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *timeEntryRepo) ClosedMinutes(ctx context.Context, tx *gorm.DB, workOrderID uint) (int, error) {
	var total int64
	err := r.handle(tx).WithContext(ctx).
		Model(&models.TimeEntry{}).
		Where("work_order_id = ? AND ended_at IS NOT NULL", workOrderID).
		Select("COALESCE(SUM(duration_minutes), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}
