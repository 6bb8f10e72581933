package services

import (
	"context"
	"strings"
	"testing"

	"workdesk/internal/models"
)

func (env *testEnv) upload(t *testing.T, workOrderID uint, name, content string) *models.AttachmentVersion {
	t.Helper()
	av, err := env.attachmentSvc.Upload(context.Background(), 1, workOrderID, name, "application/pdf", int64(len(content)), strings.NewReader(content))
	if err != nil {
		t.Fatalf("upload %s: %v", name, err)
	}
	return av
}

func (env *testEnv) latestCount(t *testing.T, workOrderID uint, name string) int {
	t.Helper()
	var n int64
	err := env.db.Model(&models.AttachmentVersion{}).
		Where("work_order_id = ? AND original_name = ? AND is_latest = ?", workOrderID, name, true).
		Count(&n).Error
	if err != nil {
		t.Fatalf("count latest: %v", err)
	}
	return int(n)
}

func TestUploadBuildsVersionChain(t *testing.T) {
	env := newTestEnv(t)
	wo := env.createWorkOrder(t, "W1")

	v1 := env.upload(t, wo.ID, "piano.pdf", "one")
	if v1.Version != 1 || !v1.IsLatest || v1.PreviousID != nil {
		t.Fatalf("v1 = %+v, want version 1, latest, no previous", v1)
	}
	if got := env.latestCount(t, wo.ID, "piano.pdf"); got != 1 {
		t.Fatalf("latest count after v1 = %d, want 1", got)
	}

	v2 := env.upload(t, wo.ID, "piano.pdf", "two")
	if v2.Version != 2 || !v2.IsLatest {
		t.Fatalf("v2 = %+v, want version 2, latest", v2)
	}
	if v2.PreviousID == nil || *v2.PreviousID != v1.ID {
		t.Fatalf("v2 previous = %v, want %d", v2.PreviousID, v1.ID)
	}
	if got := env.latestCount(t, wo.ID, "piano.pdf"); got != 1 {
		t.Fatalf("latest count after v2 = %d, want 1", got)
	}

	var stored1 models.AttachmentVersion
	if err := env.db.First(&stored1, v1.ID).Error; err != nil {
		t.Fatalf("reload v1: %v", err)
	}
	if stored1.IsLatest {
		t.Error("v1 should be demoted after second upload")
	}

	// Different names keep independent chains.
	other := env.upload(t, wo.ID, "contract.pdf", "c")
	if other.Version != 1 || !other.IsLatest {
		t.Errorf("other chain = %+v, want independent version 1", other)
	}
}

func TestDeleteLatestPromotesPrevious(t *testing.T) {
	env := newTestEnv(t)
	wo := env.createWorkOrder(t, "W1")
	ctx := context.Background()

	v1 := env.upload(t, wo.ID, "piano.pdf", "one")
	v2 := env.upload(t, wo.ID, "piano.pdf", "two")

	if err := env.attachmentSvc.Delete(ctx, 1, v2.ID); err != nil {
		t.Fatalf("delete v2: %v", err)
	}

	var stored1 models.AttachmentVersion
	if err := env.db.First(&stored1, v1.ID).Error; err != nil {
		t.Fatalf("reload v1: %v", err)
	}
	if !stored1.IsLatest {
		t.Error("v1 should be latest again after deleting v2")
	}

	var remaining int64
	env.db.Model(&models.AttachmentVersion{}).
		Where("work_order_id = ? AND original_name = ?", wo.ID, "piano.pdf").
		Count(&remaining)
	if remaining != 1 {
		t.Errorf("remaining rows = %d, want 1", remaining)
	}
	if _, ok := env.blobs.files[v2.StoragePath]; ok {
		t.Error("v2 bytes should be removed")
	}
}

func TestDeleteSupersededVersionKeepsPointer(t *testing.T) {
	env := newTestEnv(t)
	wo := env.createWorkOrder(t, "W1")
	ctx := context.Background()

	v1 := env.upload(t, wo.ID, "piano.pdf", "one")
	v2 := env.upload(t, wo.ID, "piano.pdf", "two")

	if err := env.attachmentSvc.Delete(ctx, 1, v1.ID); err != nil {
		t.Fatalf("delete v1: %v", err)
	}

	var stored2 models.AttachmentVersion
	if err := env.db.First(&stored2, v2.ID).Error; err != nil {
		t.Fatalf("reload v2: %v", err)
	}
	if !stored2.IsLatest {
		t.Error("deleting a superseded version must not move the latest pointer")
	}
	if got := env.latestCount(t, wo.ID, "piano.pdf"); got != 1 {
		t.Errorf("latest count = %d, want 1", got)
	}
}

func TestDeleteOnlyVersionLeavesNoRows(t *testing.T) {
	env := newTestEnv(t)
	wo := env.createWorkOrder(t, "W1")
	ctx := context.Background()

	v1 := env.upload(t, wo.ID, "piano.pdf", "one")
	if err := env.attachmentSvc.Delete(ctx, 1, v1.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var remaining int64
	env.db.Model(&models.AttachmentVersion{}).
		Where("work_order_id = ? AND original_name = ?", wo.ID, "piano.pdf").
		Count(&remaining)
	if remaining != 0 {
		t.Errorf("remaining rows = %d, want 0", remaining)
	}
}

func TestUploadByteStoreFailureRollsBackRow(t *testing.T) {
	env := newTestEnv(t)
	wo := env.createWorkOrder(t, "W1")
	ctx := context.Background()

	env.blobs.failSave = true
	_, err := env.attachmentSvc.Upload(ctx, 1, wo.ID, "piano.pdf", "application/pdf", 3, strings.NewReader("one"))
	if err == nil {
		t.Fatal("upload should fail when the byte store fails")
	}

	var rows int64
	env.db.Model(&models.AttachmentVersion{}).Where("work_order_id = ?", wo.ID).Count(&rows)
	if rows != 0 {
		t.Errorf("index rows after failed upload = %d, want 0", rows)
	}
	var audits int64
	env.db.Model(&models.AuditEntry{}).Where("work_order_id = ?", wo.ID).Count(&audits)
	if audits != 0 {
		t.Errorf("audit rows after failed upload = %d, want 0", audits)
	}
}

func TestAttachmentLifecycleEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	wo := env.createWorkOrder(t, "W1")
	ctx := context.Background()

	v1 := env.upload(t, wo.ID, "piano.pdf", "one")
	v2 := env.upload(t, wo.ID, "piano.pdf", "two")
	if err := env.attachmentSvc.Delete(ctx, 1, v2.ID); err != nil {
		t.Fatalf("delete v2: %v", err)
	}

	list, err := env.attachmentSvc.List(ctx, wo.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != v1.ID || !list[0].IsLatest {
		t.Fatalf("chain = %+v, want only v1 as latest", list)
	}

	// Each chain mutation left one audit entry.
	var audits int64
	env.db.Model(&models.AuditEntry{}).
		Where("work_order_id = ? AND action IN ?", wo.ID,
			[]models.AuditAction{models.AuditAttachmentUploaded, models.AuditAttachmentDeleted}).
		Count(&audits)
	if audits != 3 {
		t.Errorf("attachment audit entries = %d, want 3", audits)
	}
}
