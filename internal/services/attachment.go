package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"

	"workdesk/internal/apperr"
	"workdesk/internal/logger"
	"workdesk/internal/models"
	"workdesk/internal/repos"
	"workdesk/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttachmentService interface {
	// Upload appends a new version to the chain for (workOrderID,
	// originalName): the previous latest is demoted, the new row becomes
	// latest, and one audit entry records the step. Index write, audit
	// append and byte-store write succeed or fail as one unit.
	Upload(ctx context.Context, actorID, workOrderID uint, originalName, mimeType string, size int64, r io.Reader) (*models.AttachmentVersion, error)
	// Delete removes one version. Deleting the current latest promotes the
	// highest remaining version for the same name, so the chain never loses
	// its current pointer while older versions exist.
	Delete(ctx context.Context, actorID, attachmentID uint) error
	List(ctx context.Context, workOrderID uint) ([]*models.AttachmentVersion, error)
	Open(ctx context.Context, attachmentID uint) (*models.AttachmentVersion, io.ReadCloser, error)
}

type attachmentService struct {
	db          *gorm.DB
	log         *logger.Logger
	blobs       storage.BlobStore
	workOrders  repos.WorkOrderRepo
	attachments repos.AttachmentRepo
	audit       repos.AuditRepo
	board       repos.BoardRepo
}

func NewAttachmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	blobs storage.BlobStore,
	workOrders repos.WorkOrderRepo,
	attachments repos.AttachmentRepo,
	audit repos.AuditRepo,
	board repos.BoardRepo,
) AttachmentService {
	return &attachmentService{
		db:          db,
		log:         baseLog.With("service", "AttachmentService"),
		blobs:       blobs,
		workOrders:  workOrders,
		attachments: attachments,
		audit:       audit,
		board:       board,
	}
}

// safeExt keeps only a plain extension from the client-supplied name; the
// stored name itself is a generated uuid.
func safeExt(originalName string) string {
	ext := strings.ToLower(path.Ext(path.Base(originalName)))
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}

func (s *attachmentService) Upload(ctx context.Context, actorID, workOrderID uint, originalName, mimeType string, size int64, r io.Reader) (*models.AttachmentVersion, error) {
	originalName = strings.TrimSpace(originalName)
	if originalName == "" {
		return nil, apperr.Validation("filename_required", "original file name must not be empty")
	}
	if size < 0 {
		return nil, apperr.Validation("invalid_size", "negative size %d", size)
	}

	var created *models.AttachmentVersion
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.workOrders.GetByID(ctx, tx, workOrderID); err != nil {
			return err
		}

		prev, err := s.attachments.GetLatest(ctx, tx, workOrderID, originalName)
		if err != nil {
			return err
		}

		version := 1
		var previousID *uint
		if prev != nil {
			if err := s.attachments.SetLatest(ctx, tx, prev.ID, false); err != nil {
				return err
			}
			version = prev.Version + 1
			previousID = &prev.ID
		}

		storedName := uuid.New().String() + safeExt(originalName)
		av := &models.AttachmentVersion{
			WorkOrderID:  workOrderID,
			StoredName:   storedName,
			OriginalName: originalName,
			MimeType:     mimeType,
			SizeBytes:    size,
			StoragePath:  fmt.Sprintf("%d/%s", workOrderID, storedName),
			Version:      version,
			IsLatest:     true,
			PreviousID:   previousID,
		}
		if err := s.attachments.Create(ctx, tx, av); err != nil {
			return err
		}

		meta, err := json.Marshal(map[string]interface{}{
			"attachment_id": av.ID,
			"original_name": av.OriginalName,
			"version":       av.Version,
			"previous_id":   av.PreviousID,
		})
		if err != nil {
			return err
		}
		if err := appendAuditEntry(ctx, tx, s.board, s.audit, workOrderID, actorID, models.AuditAttachmentUploaded, meta, nil); err != nil {
			return err
		}

		// Bytes go last: a byte-store failure rolls the index row back.
		if err := s.blobs.Save(av.StoragePath, r); err != nil {
			return fmt.Errorf("store attachment bytes: %w", err)
		}
		created = av
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *attachmentService) Delete(ctx context.Context, actorID, attachmentID uint) error {
	var target *models.AttachmentVersion
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		av, err := s.attachments.GetByID(ctx, tx, attachmentID)
		if err != nil {
			return err
		}
		target = av

		if av.IsLatest {
			fallback, err := s.attachments.HighestExcluding(ctx, tx, av.WorkOrderID, av.OriginalName, av.ID)
			if err != nil {
				return err
			}
			if fallback != nil {
				if err := s.attachments.SetLatest(ctx, tx, fallback.ID, true); err != nil {
					return err
				}
			}
		}

		if err := s.attachments.Delete(ctx, tx, av.ID); err != nil {
			return err
		}

		meta, err := json.Marshal(map[string]interface{}{
			"attachment_id": av.ID,
			"original_name": av.OriginalName,
			"version":       av.Version,
		})
		if err != nil {
			return err
		}
		return appendAuditEntry(ctx, tx, s.board, s.audit, av.WorkOrderID, actorID, models.AuditAttachmentDeleted, meta, nil)
	})
	if err != nil {
		return err
	}

	// The index row is already gone; a failed byte removal leaves an orphan
	// file, not an inconsistent chain.
	if err := s.blobs.Remove(target.StoragePath); err != nil {
		s.log.Warn("attachment bytes not removed", "path", target.StoragePath, "error", err)
	}
	return nil
}

func (s *attachmentService) List(ctx context.Context, workOrderID uint) ([]*models.AttachmentVersion, error) {
	if _, err := s.workOrders.GetByID(ctx, nil, workOrderID); err != nil {
		return nil, err
	}
	return s.attachments.ListByWorkOrder(ctx, nil, workOrderID)
}

func (s *attachmentService) Open(ctx context.Context, attachmentID uint) (*models.AttachmentVersion, io.ReadCloser, error) {
	av, err := s.attachments.GetByID(ctx, nil, attachmentID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Open(av.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open attachment bytes: %w", err)
	}
	return av, rc, nil
}
