package services

import (
	"context"
	"encoding/json"

	"workdesk/internal/apperr"
	"workdesk/internal/logger"
	"workdesk/internal/models"
	"workdesk/internal/repos"

	"gorm.io/gorm"
)

type WorkOrderDetail struct {
	WorkOrder     *models.WorkOrder `json:"work_order"`
	ClosedMinutes int               `json:"closed_minutes"`
}

type WorkOrderService interface {
	Create(ctx context.Context, actorID uint, fields *WorkOrderFields) (*models.WorkOrder, error)
	// Update applies the full field set against the caller's last-known row
	// version. The versioned write and the audit append commit together.
	Update(ctx context.Context, actorID, id uint, expected int64, fields *WorkOrderFields) (*models.WorkOrder, error)
	Get(ctx context.Context, id uint) (*WorkOrderDetail, error)
	List(ctx context.Context, clientID uint) ([]*models.WorkOrder, error)
}

type workOrderService struct {
	db          *gorm.DB
	log         *logger.Logger
	workOrders  repos.WorkOrderRepo
	clients     repos.ClientRepo
	audit       repos.AuditRepo
	board       repos.BoardRepo
	timeEntries repos.TimeEntryRepo
}

func NewWorkOrderService(
	db *gorm.DB,
	baseLog *logger.Logger,
	workOrders repos.WorkOrderRepo,
	clients repos.ClientRepo,
	audit repos.AuditRepo,
	board repos.BoardRepo,
	timeEntries repos.TimeEntryRepo,
) WorkOrderService {
	return &workOrderService{
		db:          db,
		log:         baseLog.With("service", "WorkOrderService"),
		workOrders:  workOrders,
		clients:     clients,
		audit:       audit,
		board:       board,
		timeEntries: timeEntries,
	}
}

func (s *workOrderService) validate(ctx context.Context, tx *gorm.DB, id uint, f *WorkOrderFields) error {
	if f.Title == "" {
		return apperr.Validation("title_required", "title must not be empty")
	}
	if !f.Status.Valid() {
		return apperr.Validation("invalid_status", "unknown status %q", f.Status)
	}
	if !f.PaymentStatus.Valid() {
		return apperr.Validation("invalid_payment_status", "unknown payment status %q", f.PaymentStatus)
	}
	if f.ProgressPercent < 0 || f.ProgressPercent > 100 {
		return apperr.Validation("invalid_progress", "progress must be within [0,100], got %d", f.ProgressPercent)
	}
	if f.ClientID > 0 {
		if _, err := s.clients.GetByID(ctx, tx, f.ClientID); err != nil {
			return err
		}
	}
	if f.ParentID != nil {
		if id != 0 && *f.ParentID == id {
			return apperr.Validation("self_parent", "work order cannot be its own parent")
		}
		if _, err := s.workOrders.GetByID(ctx, tx, *f.ParentID); err != nil {
			return err
		}
	}
	return nil
}

func (s *workOrderService) Create(ctx context.Context, actorID uint, f *WorkOrderFields) (*models.WorkOrder, error) {
	f.Normalize()

	var created *models.WorkOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.validate(ctx, tx, 0, f); err != nil {
			return err
		}

		wo := &models.WorkOrder{
			Title:           f.Title,
			ClientID:        f.ClientID,
			Status:          f.Status,
			SubStatus:       f.SubStatus,
			PaymentStatus:   f.PaymentStatus,
			QuotedAmount:    f.QuotedAmount,
			TotalAmount:     f.TotalAmount,
			PaidAmount:      f.PaidAmount,
			ProgressPercent: f.ProgressPercent,
			EstimatedHours:  f.EstimatedHours,
			ResponsibleID:   f.ResponsibleID,
			Location:        f.Location,
			StartDate:       f.StartDate,
			EndDate:         f.EndDate,
			Notes:           f.Notes,
			ParentID:        f.ParentID,
			Structural:      f.Structural,
			RowVersion:      1,
		}
		if err := s.workOrders.Create(ctx, tx, wo); err != nil {
			return err
		}

		meta, err := json.Marshal(map[string]interface{}{
			"title":  wo.Title,
			"status": wo.Status,
		})
		if err != nil {
			return err
		}
		if err := appendAuditEntry(ctx, tx, s.board, s.audit, wo.ID, actorID, models.AuditCreate, meta, nil); err != nil {
			return err
		}
		created = wo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *workOrderService) Update(ctx context.Context, actorID, id uint, expected int64, f *WorkOrderFields) (*models.WorkOrder, error) {
	f.Normalize()

	var updated *models.WorkOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		prev, err := s.workOrders.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.validate(ctx, tx, id, f); err != nil {
			return err
		}

		changes := diffWorkOrder(prev, f)

		updated, err = s.workOrders.UpdateVersioned(ctx, tx, id, expected, f.columns())
		if err != nil {
			return err
		}

		if len(changes) == 0 {
			return nil
		}
		payload, err := json.Marshal(changes)
		if err != nil {
			return err
		}
		return appendAuditEntry(ctx, tx, s.board, s.audit, id, actorID, models.AuditUpdate, payload, nil)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *workOrderService) Get(ctx context.Context, id uint) (*WorkOrderDetail, error) {
	wo, err := s.workOrders.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	minutes, err := s.timeEntries.ClosedMinutes(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	return &WorkOrderDetail{WorkOrder: wo, ClosedMinutes: minutes}, nil
}

func (s *workOrderService) List(ctx context.Context, clientID uint) ([]*models.WorkOrder, error) {
	return s.workOrders.List(ctx, nil, clientID)
}
