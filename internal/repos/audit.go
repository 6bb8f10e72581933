package repos

import (
	"context"

	"workdesk/internal/logger"
	"workdesk/internal/models"

	"gorm.io/gorm"
)

// AuditRepo is append-only: entries are never updated or deleted through
// this interface. Work-order deletion cascades at the schema level.
type AuditRepo interface {
	Append(ctx context.Context, tx *gorm.DB, entry *models.AuditEntry) error
	// ListByWorkOrder returns entries newest first with the acting user's
	// display identity joined in.
	ListByWorkOrder(ctx context.Context, tx *gorm.DB, workOrderID uint) ([]*models.AuditEntryView, error)
}

type auditRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditRepo(db *gorm.DB, baseLog *logger.Logger) AuditRepo {
	return &auditRepo{db: db, log: baseLog.With("repo", "AuditRepo")}
}

func (r *auditRepo) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *auditRepo) Append(ctx context.Context, tx *gorm.DB, entry *models.AuditEntry) error {
	return r.handle(tx).WithContext(ctx).Create(entry).Error
}

func (r *auditRepo) ListByWorkOrder(ctx context.Context, tx *gorm.DB, workOrderID uint) ([]*models.AuditEntryView, error) {
	var out []*models.AuditEntryView
	err := r.handle(tx).WithContext(ctx).
		Table("audit_entries").
		Select("audit_entries.*, users.username AS actor_username, users.display_name AS actor_display_name").
		Joins("LEFT JOIN users ON users.id = audit_entries.actor_id").
		Where("audit_entries.work_order_id = ?", workOrderID).
		Order("audit_entries.created_at DESC, audit_entries.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
