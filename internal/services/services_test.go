package services

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"workdesk/internal/database"
	"workdesk/internal/logger"
	"workdesk/internal/models"
	"workdesk/internal/repos"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// memBlobStore is an in-memory BlobStore so service tests can assert on
// byte-store effects and inject failures.
type memBlobStore struct {
	files    map[string][]byte
	failSave bool
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{files: map[string][]byte{}}
}

func (m *memBlobStore) Save(path string, r io.Reader) error {
	if m.failSave {
		return fmt.Errorf("simulated byte-store failure")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.files[path] = data
	return nil
}

func (m *memBlobStore) Remove(path string) error {
	if _, ok := m.files[path]; !ok {
		return fmt.Errorf("no blob at %s", path)
	}
	delete(m.files, path)
	return nil
}

func (m *memBlobStore) Open(path string) (io.ReadCloser, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("no blob at %s", path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type testEnv struct {
	db          *gorm.DB
	blobs       *memBlobStore
	workOrders  repos.WorkOrderRepo
	attachments repos.AttachmentRepo
	audit       repos.AuditRepo
	board       repos.BoardRepo
	timeEntries repos.TimeEntryRepo
	clients     repos.ClientRepo

	workOrderSvc  WorkOrderService
	attachmentSvc AttachmentService
	auditSvc      AuditService
	trackingSvc   TimeTrackingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	log := logger.NewNop()
	env := &testEnv{
		db:          db,
		blobs:       newMemBlobStore(),
		workOrders:  repos.NewWorkOrderRepo(db, log),
		attachments: repos.NewAttachmentRepo(db, log),
		audit:       repos.NewAuditRepo(db, log),
		board:       repos.NewBoardRepo(db, log),
		timeEntries: repos.NewTimeEntryRepo(db, log),
		clients:     repos.NewClientRepo(db, log),
	}
	env.workOrderSvc = NewWorkOrderService(db, log, env.workOrders, env.clients, env.audit, env.board, env.timeEntries)
	env.attachmentSvc = NewAttachmentService(db, log, env.blobs, env.workOrders, env.attachments, env.audit, env.board)
	env.auditSvc = NewAuditService(db, log, env.workOrders, env.audit, env.board)
	env.trackingSvc = NewTimeTrackingService(db, log, env.workOrders, env.timeEntries)
	return env
}

func (env *testEnv) createWorkOrder(t *testing.T, title string) *models.WorkOrder {
	t.Helper()
	wo := &models.WorkOrder{
		Title:         title,
		Status:        models.StatusOpen,
		PaymentStatus: models.PaymentUnbilled,
		RowVersion:    1,
	}
	if err := env.db.Create(wo).Error; err != nil {
		t.Fatalf("create work order: %v", err)
	}
	return wo
}

func (env *testEnv) createActor(t *testing.T, username string, role models.UserRole) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		PasswordHash: "x",
		DisplayName:  username,
		Role:         role,
		RowVersion:   1,
	}
	if err := env.db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}
