package services

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"workdesk/internal/apperr"
	"workdesk/internal/logger"
	"workdesk/internal/models"
	"workdesk/internal/repos"

	"gorm.io/gorm"
)

type WorkOrderTime struct {
	Entries       []*models.TimeEntry `json:"entries"`
	ClosedMinutes int                 `json:"closed_minutes"`
}

// TimeTrackingService is the per-actor Idle/Tracking state machine. The
// state is nothing but the presence of an open entry row; every transition
// runs its query-then-write inside one transaction.
type TimeTrackingService interface {
	// Start opens a timer. An actor already tracking, on any work order,
	// gets a Conflict carrying the open entry.
	Start(ctx context.Context, actorID, workOrderID uint) (*models.TimeEntry, error)
	// Stop closes the entry, fixing its duration. Only the owner or an
	// elevated actor may stop it; stopping a closed entry is a Conflict and
	// never touches the stored duration.
	Stop(ctx context.Context, actor *models.User, entryID uint) (*models.TimeEntry, error)
	// AddManual records an already-closed entry for a day. It never consults
	// the tracking state: manual entries cannot occupy the active slot.
	// hours accepts both decimal separators ("2.5" and "2,5").
	AddManual(ctx context.Context, actorID, workOrderID uint, day time.Time, hours string, note string) (*models.TimeEntry, error)
	Current(ctx context.Context, actorID uint) (*models.TimeEntry, error)
	ForWorkOrder(ctx context.Context, workOrderID uint) (*WorkOrderTime, error)
}

type timeTrackingService struct {
	db          *gorm.DB
	log         *logger.Logger
	workOrders  repos.WorkOrderRepo
	timeEntries repos.TimeEntryRepo

	// now is swappable in tests.
	now func() time.Time
}

func NewTimeTrackingService(
	db *gorm.DB,
	baseLog *logger.Logger,
	workOrders repos.WorkOrderRepo,
	timeEntries repos.TimeEntryRepo,
) TimeTrackingService {
	return &timeTrackingService{
		db:          db,
		log:         baseLog.With("service", "TimeTrackingService"),
		workOrders:  workOrders,
		timeEntries: timeEntries,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ParseHours parses a locale-flexible decimal hour value: both "2.5" and
// "2,5" yield 2.5.
func ParseHours(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if cleaned == "" {
		return 0, apperr.Validation("hours_required", "hours must not be empty")
	}
	h, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, apperr.Validation("invalid_hours", "cannot parse hours %q", raw)
	}
	if h <= 0 || h > 24 {
		return 0, apperr.Validation("invalid_hours", "hours must be within (0,24], got %v", h)
	}
	return h, nil
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *timeTrackingService) Start(ctx context.Context, actorID, workOrderID uint) (*models.TimeEntry, error) {
	var created *models.TimeEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.workOrders.GetByID(ctx, tx, workOrderID); err != nil {
			return err
		}

		open, err := s.timeEntries.OpenForActor(ctx, tx, actorID)
		if err != nil {
			return err
		}
		if open != nil {
			return apperr.Conflict("timer_already_running", open,
				"actor %d already tracking entry %d", actorID, open.ID)
		}

		now := s.now()
		entry := &models.TimeEntry{
			WorkOrderID: workOrderID,
			ActorID:     actorID,
			Day:         midnightUTC(now),
			StartedAt:   now,
			Source:      models.SourceTimer,
		}
		if err := s.timeEntries.Create(ctx, tx, entry); err != nil {
			return err
		}
		created = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *timeTrackingService) Stop(ctx context.Context, actor *models.User, entryID uint) (*models.TimeEntry, error) {
	var closed *models.TimeEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := s.timeEntries.GetByID(ctx, tx, entryID)
		if err != nil {
			return err
		}
		if entry.ActorID != actor.ID && !actor.Elevated() {
			return apperr.Forbidden("not_owner", "entry %d belongs to another actor", entryID)
		}
		if entry.EndedAt != nil {
			return apperr.Conflict("entry_already_closed", entry,
				"entry %d is already closed", entryID)
		}

		end := s.now()
		entry.EndedAt = &end
		entry.DurationMinutes = models.RoundMinutes(end.Sub(entry.StartedAt))
		if err := s.timeEntries.Close(ctx, tx, entry); err != nil {
			return err
		}
		closed = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return closed, nil
}

func (s *timeTrackingService) AddManual(ctx context.Context, actorID, workOrderID uint, day time.Time, hours string, note string) (*models.TimeEntry, error) {
	h, err := ParseHours(hours)
	if err != nil {
		return nil, err
	}

	var created *models.TimeEntry
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.workOrders.GetByID(ctx, tx, workOrderID); err != nil {
			return err
		}

		start := midnightUTC(day)
		end := start
		entry := &models.TimeEntry{
			WorkOrderID:     workOrderID,
			ActorID:         actorID,
			Day:             start,
			StartedAt:       start,
			EndedAt:         &end,
			DurationMinutes: int(math.Round(h * 60)),
			Note:            note,
			Source:          models.SourceManual,
		}
		if err := s.timeEntries.Create(ctx, tx, entry); err != nil {
			return err
		}
		created = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *timeTrackingService) Current(ctx context.Context, actorID uint) (*models.TimeEntry, error) {
	return s.timeEntries.OpenForActor(ctx, nil, actorID)
}

func (s *timeTrackingService) ForWorkOrder(ctx context.Context, workOrderID uint) (*WorkOrderTime, error) {
	if _, err := s.workOrders.GetByID(ctx, nil, workOrderID); err != nil {
		return nil, err
	}
	entries, err := s.timeEntries.ListByWorkOrder(ctx, nil, workOrderID)
	if err != nil {
		return nil, err
	}
	minutes, err := s.timeEntries.ClosedMinutes(ctx, nil, workOrderID)
	if err != nil {
		return nil, err
	}
	return &WorkOrderTime{Entries: entries, ClosedMinutes: minutes}, nil
}
