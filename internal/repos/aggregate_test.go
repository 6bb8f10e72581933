package repos

import (
	"context"
	"testing"

	"workdesk/internal/apperr"
	"workdesk/internal/models"
)

func TestOptimisticUpdateBumpsVersion(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	wo := &models.WorkOrder{Title: "Before", Status: models.StatusOpen, PaymentStatus: models.PaymentUnbilled, RowVersion: 1}
	if err := db.Create(wo).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := OptimisticUpdate[models.WorkOrder](ctx, db, wo.ID, 1, map[string]interface{}{
		"title": "After",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "After" {
		t.Errorf("title = %q, want %q", updated.Title, "After")
	}
	if updated.RowVersion != 2 {
		t.Errorf("row version = %d, want 2", updated.RowVersion)
	}
}

func TestOptimisticUpdateStaleVersionConflicts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	wo := &models.WorkOrder{Title: "Original", Status: models.StatusOpen, PaymentStatus: models.PaymentUnbilled, RowVersion: 1}
	if err := db.Create(wo).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	// First writer wins.
	if _, err := OptimisticUpdate[models.WorkOrder](ctx, db, wo.ID, 1, map[string]interface{}{
		"title": "First writer",
	}); err != nil {
		t.Fatalf("first update: %v", err)
	}

	// Second writer still holds version 1.
	current, err := OptimisticUpdate[models.WorkOrder](ctx, db, wo.ID, 1, map[string]interface{}{
		"title": "Second writer",
	})
	if !apperr.IsKind(err, apperr.KindConflict) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if current == nil || current.Title != "First writer" {
		t.Fatalf("conflict should return the authoritative row, got %+v", current)
	}

	// Stored row is untouched by the losing write.
	var stored models.WorkOrder
	if err := db.First(&stored, wo.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Title != "First writer" || stored.RowVersion != 2 {
		t.Errorf("stored row changed by stale write: title=%q version=%d", stored.Title, stored.RowVersion)
	}

	// The conflict error carries the same state.
	ae := apperr.From(err)
	carried, ok := ae.Current.(*models.WorkOrder)
	if !ok || carried.RowVersion != 2 {
		t.Errorf("conflict Current = %+v, want row at version 2", ae.Current)
	}
}

func TestOptimisticUpdateMissingRow(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := OptimisticUpdate[models.WorkOrder](ctx, db, 9999, 1, map[string]interface{}{
		"title": "ghost",
	})
	if !apperr.IsKind(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestOptimisticUpdateAcrossAggregates(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	fs := &models.FiscalSettings{VATRate: 21, Currency: "EUR", NextInvoiceNumber: 1, RowVersion: 1}
	if err := db.Create(fs).Error; err != nil {
		t.Fatalf("create settings: %v", err)
	}

	updated, err := OptimisticUpdate[models.FiscalSettings](ctx, db, fs.ID, 1, map[string]interface{}{
		"vat_rate": 19.0,
	})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if updated.VATRate != 19 || updated.RowVersion != 2 {
		t.Errorf("settings = vat %v version %d, want vat 19 version 2", updated.VATRate, updated.RowVersion)
	}
}
