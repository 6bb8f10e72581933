package repos

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"workdesk/internal/models"

	"gorm.io/datatypes"
)

func TestAuditListNewestFirstWithActorIdentity(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	audit := NewAuditRepo(db, testLog())

	user := &models.User{Username: "sara", DisplayName: "Sara N.", Role: models.RoleStaff, PasswordHash: "x", RowVersion: 1}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	wo := &models.WorkOrder{Title: "W", Status: models.StatusOpen, PaymentStatus: models.PaymentUnbilled, RowVersion: 1}
	if err := db.Create(wo).Error; err != nil {
		t.Fatalf("create work order: %v", err)
	}

	changes, _ := json.Marshal([]models.FieldChange{{Field: "title", From: "a", To: "b"}})
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entry := &models.AuditEntry{
			WorkOrderID:   wo.ID,
			ActorID:       &user.ID,
			Action:        models.AuditUpdate,
			Changes:       datatypes.JSON(changes),
			BoardSnapshot: datatypes.JSON([]byte("[]")),
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		}
		if err := audit.Append(ctx, nil, entry); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	views, err := audit.ListByWorkOrder(ctx, nil, wo.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("len = %d, want 3", len(views))
	}
	for i := 1; i < len(views); i++ {
		if views[i-1].CreatedAt.Before(views[i].CreatedAt) {
			t.Errorf("entries not newest-first at index %d", i)
		}
	}
	if views[0].ActorUsername != "sara" || views[0].ActorDisplayName != "Sara N." {
		t.Errorf("actor identity = %q/%q, want sara/Sara N.", views[0].ActorUsername, views[0].ActorDisplayName)
	}
}

func TestAuditSystemEntryWithoutActor(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	audit := NewAuditRepo(db, testLog())

	wo := &models.WorkOrder{Title: "W", Status: models.StatusOpen, PaymentStatus: models.PaymentUnbilled, RowVersion: 1}
	if err := db.Create(wo).Error; err != nil {
		t.Fatalf("create work order: %v", err)
	}

	entry := &models.AuditEntry{
		WorkOrderID:   wo.ID,
		Action:        models.AuditCreate,
		Changes:       datatypes.JSON([]byte(`{}`)),
		BoardSnapshot: datatypes.JSON([]byte("[]")),
	}
	if err := audit.Append(ctx, nil, entry); err != nil {
		t.Fatalf("append: %v", err)
	}

	views, err := audit.ListByWorkOrder(ctx, nil, wo.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 || views[0].ActorID != nil {
		t.Fatalf("want one system entry without actor, got %+v", views)
	}
	if views[0].ActorUsername != "" {
		t.Errorf("system entry should have no joined identity, got %q", views[0].ActorUsername)
	}
}
