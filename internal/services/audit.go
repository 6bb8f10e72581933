package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"workdesk/internal/apperr"
	"workdesk/internal/logger"
	"workdesk/internal/models"
	"workdesk/internal/repos"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// appendAuditEntry writes one immutable entry, freezing the board-entry ids
// linked to the work order at this instant. It must be called inside the
// transaction of the mutation it records so both commit or roll back
// together. A non-nil at backdates the entry (manual notes).
func appendAuditEntry(
	ctx context.Context,
	tx *gorm.DB,
	board repos.BoardRepo,
	audit repos.AuditRepo,
	workOrderID, actorID uint,
	action models.AuditAction,
	changes []byte,
	at *time.Time,
) error {
	boardIDs, err := board.LinkedIDs(ctx, tx, workOrderID)
	if err != nil {
		return err
	}
	if boardIDs == nil {
		boardIDs = []uint{}
	}
	snapshot, err := json.Marshal(boardIDs)
	if err != nil {
		return err
	}

	var actor *uint
	if actorID > 0 {
		actor = &actorID
	}
	entry := &models.AuditEntry{
		WorkOrderID:   workOrderID,
		ActorID:       actor,
		Action:        action,
		Changes:       datatypes.JSON(changes),
		BoardSnapshot: datatypes.JSON(snapshot),
	}
	if at != nil {
		entry.CreatedAt = *at
	}
	return audit.Append(ctx, tx, entry)
}

type AuditService interface {
	History(ctx context.Context, workOrderID uint) ([]*models.AuditEntryView, error)
	// AddNote appends a manual note. A supplied historical date (day
	// granularity) is normalized to midnight UTC for ordering; absent a
	// date the entry carries the write time.
	AddNote(ctx context.Context, actorID, workOrderID uint, text string, day *time.Time) error
}

type auditService struct {
	db         *gorm.DB
	log        *logger.Logger
	workOrders repos.WorkOrderRepo
	audit      repos.AuditRepo
	board      repos.BoardRepo
}

func NewAuditService(
	db *gorm.DB,
	baseLog *logger.Logger,
	workOrders repos.WorkOrderRepo,
	audit repos.AuditRepo,
	board repos.BoardRepo,
) AuditService {
	return &auditService{
		db:         db,
		log:        baseLog.With("service", "AuditService"),
		workOrders: workOrders,
		audit:      audit,
		board:      board,
	}
}

func (s *auditService) History(ctx context.Context, workOrderID uint) ([]*models.AuditEntryView, error) {
	if _, err := s.workOrders.GetByID(ctx, nil, workOrderID); err != nil {
		return nil, err
	}
	return s.audit.ListByWorkOrder(ctx, nil, workOrderID)
}

func (s *auditService) AddNote(ctx context.Context, actorID, workOrderID uint, text string, day *time.Time) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return apperr.Validation("note_empty", "note text must not be empty")
	}

	var at *time.Time
	if day != nil {
		midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		at = &midnight
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.workOrders.GetByID(ctx, tx, workOrderID); err != nil {
			return err
		}
		return appendAuditEntry(ctx, tx, s.board, s.audit, workOrderID, actorID, models.AuditNote, payload, at)
	})
}
