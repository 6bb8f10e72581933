package handlers

import (
	"io"
	"net/http"

	"workdesk/internal/apperr"
	"workdesk/internal/logger"
	"workdesk/internal/services"

	"github.com/gin-gonic/gin"
)

type AttachmentHandler struct {
	log         *logger.Logger
	attachments services.AttachmentService
	devMode     bool
}

func NewAttachmentHandler(log *logger.Logger, attachments services.AttachmentService, devMode bool) *AttachmentHandler {
	return &AttachmentHandler{
		log:         log.With("handler", "AttachmentHandler"),
		attachments: attachments,
		devMode:     devMode,
	}
}

func (h *AttachmentHandler) Upload(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, h.log, h.devMode, apperr.Forbidden("no_actor", "no authenticated actor"))
		return
	}
	workOrderID, err := idParam(c, "id")
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, h.log, h.devMode, apperr.Validation("file_required", "multipart field 'file' is required"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	defer f.Close()

	av, err := h.attachments.Upload(
		c.Request.Context(),
		actor.ID,
		workOrderID,
		fh.Filename,
		fh.Header.Get("Content-Type"),
		fh.Size,
		f,
	)
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusCreated, av)
}

func (h *AttachmentHandler) List(c *gin.Context) {
	workOrderID, err := idParam(c, "id")
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	list, err := h.attachments.List(c.Request.Context(), workOrderID)
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *AttachmentHandler) Delete(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		respondError(c, h.log, h.devMode, apperr.Forbidden("no_actor", "no authenticated actor"))
		return
	}
	attachmentID, err := idParam(c, "id")
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	if err := h.attachments.Delete(c.Request.Context(), actor.ID, attachmentID); err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *AttachmentHandler) Download(c *gin.Context) {
	attachmentID, err := idParam(c, "id")
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	av, rc, err := h.attachments.Open(c.Request.Context(), attachmentID)
	if err != nil {
		respondError(c, h.log, h.devMode, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", `attachment; filename="`+av.OriginalName+`"`)
	c.Header("Content-Type", av.MimeType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		h.log.Warn("attachment download interrupted", "attachment_id", av.ID, "error", err)
	}
}
