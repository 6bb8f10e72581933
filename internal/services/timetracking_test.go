package services

import (
	"context"
	"testing"
	"time"

	"workdesk/internal/apperr"
	"workdesk/internal/models"
)

// fixedClock pins the service's clock and lets tests advance it.
func fixedClock(svc TimeTrackingService, start time.Time) *time.Time {
	now := start
	svc.(*timeTrackingService).now = func() time.Time { return now }
	return &now
}

func TestStartWhileTrackingConflicts(t *testing.T) {
	env := newTestEnv(t)
	w1 := env.createWorkOrder(t, "W1")
	w2 := env.createWorkOrder(t, "W2")
	actor := env.createActor(t, "sara", models.RoleStaff)
	ctx := context.Background()

	open, err := env.trackingSvc.Start(ctx, actor.ID, w1.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// A second start conflicts: on another work order...
	_, err = env.trackingSvc.Start(ctx, actor.ID, w2.ID)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("second start err = %v, want conflict", err)
	}
	carried, ok := apperr.From(err).Current.(*models.TimeEntry)
	if !ok || carried.ID != open.ID {
		t.Fatalf("conflict should carry the open entry, got %+v", apperr.From(err).Current)
	}

	// ...and on the same one (the invariant is per actor, not per order).
	if _, err := env.trackingSvc.Start(ctx, actor.ID, w1.ID); !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("same-order start err = %v, want conflict", err)
	}

	var openCount int64
	env.db.Model(&models.TimeEntry{}).Where("ended_at IS NULL").Count(&openCount)
	if openCount != 1 {
		t.Errorf("open entries system-wide = %d, want 1", openCount)
	}

	// Another actor tracks independently.
	other := env.createActor(t, "tom", models.RoleStaff)
	if _, err := env.trackingSvc.Start(ctx, other.ID, w1.ID); err != nil {
		t.Errorf("other actor start: %v", err)
	}
}

func TestStopDerivesDuration(t *testing.T) {
	env := newTestEnv(t)
	wo := env.createWorkOrder(t, "W1")
	w2 := env.createWorkOrder(t, "W2")
	actor := env.createActor(t, "sara", models.RoleStaff)
	ctx := context.Background()

	now := fixedClock(env.trackingSvc, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	entry, err := env.trackingSvc.Start(ctx, actor.ID, wo.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	*now = now.Add(37 * time.Minute)
	closed, err := env.trackingSvc.Stop(ctx, actor, entry.ID)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if closed.EndedAt == nil || closed.DurationMinutes != 37 {
		t.Fatalf("closed = %+v, want 37 minutes", closed)
	}

	// The slot frees up immediately.
	if _, err := env.trackingSvc.Start(ctx, actor.ID, w2.ID); err != nil {
		t.Errorf("start after stop: %v", err)
	}
}

func TestStopAlreadyClosedKeepsDuration(t *testing.T) {
	env := newTestEnv(t)
	wo := env.createWorkOrder(t, "W1")
	actor := env.createActor(t, "sara", models.RoleStaff)
	ctx := context.Background()

	now := fixedClock(env.trackingSvc, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	entry, err := env.trackingSvc.Start(ctx, actor.ID, wo.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	*now = now.Add(10 * time.Minute)
	if _, err := env.trackingSvc.Stop(ctx, actor, entry.ID); err != nil {
		t.Fatalf("stop: %v", err)
	}

	*now = now.Add(2 * time.Hour)
	_, err = env.trackingSvc.Stop(ctx, actor, entry.ID)
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("second stop err = %v, want conflict", err)
	}

	var stored models.TimeEntry
	if err := env.db.First(&stored, entry.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.DurationMinutes != 10 {
		t.Errorf("duration after rejected stop = %d, want 10", stored.DurationMinutes)
	}
}

func TestStopOwnershipAndPrivilege(t *testing.T) {
	env := newTestEnv(t)
	wo := env.createWorkOrder(t, "W1")
	owner := env.createActor(t, "sara", models.RoleStaff)
	stranger := env.createActor(t, "tom", models.RoleStaff)
	admin := env.createActor(t, "boss", models.RoleAdmin)
	ctx := context.Background()

	entry, err := env.trackingSvc.Start(ctx, owner.ID, wo.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := env.trackingSvc.Stop(ctx, stranger, entry.ID); !apperr.IsKind(err, apperr.KindForbidden) {
		t.Fatalf("stranger stop err = %v, want forbidden", err)
	}
	if _, err := env.trackingSvc.Stop(ctx, admin, entry.ID); err != nil {
		t.Errorf("admin force-stop: %v", err)
	}
}

func TestStopMissingEntry(t *testing.T) {
	env := newTestEnv(t)
	actor := env.createActor(t, "sara", models.RoleStaff)

	_, err := env.trackingSvc.Stop(context.Background(), actor, 9999)
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestAddManualIgnoresTrackingState(t *testing.T) {
	env := newTestEnv(t)
	wo := env.createWorkOrder(t, "W1")
	actor := env.createActor(t, "sara", models.RoleStaff)
	ctx := context.Background()

	// Open timer running; manual entry must still succeed and must not
	// occupy the slot.
	if _, err := env.trackingSvc.Start(ctx, actor.ID, wo.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	day := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	entry, err := env.trackingSvc.AddManual(ctx, actor.ID, wo.ID, day, "2.5", "estimate rework")
	if err != nil {
		t.Fatalf("manual: %v", err)
	}
	if entry.DurationMinutes != 150 {
		t.Errorf("duration = %d, want 150", entry.DurationMinutes)
	}
	if entry.EndedAt == nil || !entry.StartedAt.Equal(day) || !entry.EndedAt.Equal(day) {
		t.Errorf("manual entry span = %v..%v, want midnight..midnight", entry.StartedAt, entry.EndedAt)
	}
	if entry.Source != models.SourceManual {
		t.Errorf("source = %q, want manual", entry.Source)
	}

	var openCount int64
	env.db.Model(&models.TimeEntry{}).Where("actor_id = ? AND ended_at IS NULL", actor.ID).Count(&openCount)
	if openCount != 1 {
		t.Errorf("open entries = %d, manual must not open a second slot", openCount)
	}
}

func TestAddManualCommaDecimal(t *testing.T) {
	env := newTestEnv(t)
	wo := env.createWorkOrder(t, "W1")
	actor := env.createActor(t, "sara", models.RoleStaff)

	day := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	entry, err := env.trackingSvc.AddManual(context.Background(), actor.ID, wo.ID, day, "2,5", "")
	if err != nil {
		t.Fatalf("manual with comma: %v", err)
	}
	if entry.DurationMinutes != 150 {
		t.Errorf("duration = %d, want 150 regardless of decimal separator", entry.DurationMinutes)
	}
}

func TestParseHours(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "2.5", want: 2.5},
		{in: "2,5", want: 2.5},
		{in: " 8 ", want: 8},
		{in: "0.25", want: 0.25},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "0", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "25", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseHours(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseHours(%q) = %v, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHours(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseHours(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestForWorkOrderTotals(t *testing.T) {
	env := newTestEnv(t)
	wo := env.createWorkOrder(t, "W1")
	actor := env.createActor(t, "sara", models.RoleStaff)
	ctx := context.Background()

	day := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)
	if _, err := env.trackingSvc.AddManual(ctx, actor.ID, wo.ID, day, "1", ""); err != nil {
		t.Fatalf("manual 1: %v", err)
	}
	if _, err := env.trackingSvc.AddManual(ctx, actor.ID, wo.ID, day, "0,5", ""); err != nil {
		t.Fatalf("manual 2: %v", err)
	}
	// An open timer does not count toward the closed total.
	if _, err := env.trackingSvc.Start(ctx, actor.ID, wo.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	res, err := env.trackingSvc.ForWorkOrder(ctx, wo.ID)
	if err != nil {
		t.Fatalf("for work order: %v", err)
	}
	if res.ClosedMinutes != 90 {
		t.Errorf("closed minutes = %d, want 90", res.ClosedMinutes)
	}
	if len(res.Entries) != 3 {
		t.Errorf("entries = %d, want 3", len(res.Entries))
	}
}

func TestRoundMinutes(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want int
	}{
		{37 * time.Minute, 37},
		{37*time.Minute + 29*time.Second, 37},
		{37*time.Minute + 30*time.Second, 38},
		{59 * time.Second, 1},
		{29 * time.Second, 0},
	}
	for _, tc := range cases {
		if got := models.RoundMinutes(tc.d); got != tc.want {
			t.Errorf("RoundMinutes(%v) = %d, want %d", tc.d, got, tc.want)
		}
	}
}
