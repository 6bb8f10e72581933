package database

import (
	"fmt"
	"os"
	"time"

	"workdesk/internal/logger"
	"workdesk/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres with a retry loop, runs migrations and seeds the
// default accounts. The returned handle is passed explicitly to the repos;
// there is no package-level connection.
func Open(dsn string, log *logger.Logger) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	const maxAttempts = 10
	for i := 1; i <= maxAttempts; i++ {
		log.Info("connecting to database", "attempt", i, "max", maxAttempts)
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		log.Warn("database connection failed", "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect after %d attempts: %w", maxAttempts, err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := seedDefaultAdmin(db, log); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	if err := seedFiscalSettings(db); err != nil {
		return nil, fmt.Errorf("seed fiscal settings: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema. Exposed so tests can run it against
// their own sqlite handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.WorkOrder{},
		&models.AttachmentVersion{},
		&models.AuditEntry{},
		&models.TimeEntry{},
		&models.BoardEntry{},
		&models.FiscalSettings{},
	)
}

func seedDefaultAdmin(db *gorm.DB, log *logger.Logger) error {
	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin@workdesk.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "Admin123!"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  "Administrator",
		Role:         models.RoleAdmin,
		RowVersion:   1,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Info("created default admin user", "username", username)
	return nil
}

// One settings row must always exist so the optimistic update has a target.
func seedFiscalSettings(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.FiscalSettings{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&models.FiscalSettings{
		VATRate:           21,
		Currency:          "EUR",
		NextInvoiceNumber: 1,
		RowVersion:        1,
	}).Error
}
