package server

import (
	"net/http"

	"workdesk/internal/config"
	"workdesk/internal/handlers"
	"workdesk/internal/logger"
	"workdesk/internal/middleware"
	"workdesk/internal/models"
	"workdesk/internal/repos"
	"workdesk/internal/services"
	"workdesk/internal/storage"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewRouter wires repos, services and handlers onto one gin engine. Every
// dependency is constructed here and passed down explicitly.
func NewRouter(cfg *config.Config, db *gorm.DB, log *logger.Logger, blobs storage.BlobStore) *gin.Engine {
	workOrderRepo := repos.NewWorkOrderRepo(db, log)
	clientRepo := repos.NewClientRepo(db, log)
	attachmentRepo := repos.NewAttachmentRepo(db, log)
	auditRepo := repos.NewAuditRepo(db, log)
	timeEntryRepo := repos.NewTimeEntryRepo(db, log)
	boardRepo := repos.NewBoardRepo(db, log)
	userRepo := repos.NewUserRepo(db, log)
	fiscalRepo := repos.NewFiscalRepo(db, log)

	workOrderSvc := services.NewWorkOrderService(db, log, workOrderRepo, clientRepo, auditRepo, boardRepo, timeEntryRepo)
	attachmentSvc := services.NewAttachmentService(db, log, blobs, workOrderRepo, attachmentRepo, auditRepo, boardRepo)
	auditSvc := services.NewAuditService(db, log, workOrderRepo, auditRepo, boardRepo)
	trackingSvc := services.NewTimeTrackingService(db, log, workOrderRepo, timeEntryRepo)

	authHandler := handlers.NewAuthHandler(log, userRepo, cfg.DevMode)
	workOrderHandler := handlers.NewWorkOrderHandler(log, workOrderSvc, cfg.DevMode)
	attachmentHandler := handlers.NewAttachmentHandler(log, attachmentSvc, cfg.DevMode)
	auditHandler := handlers.NewAuditHandler(log, auditSvc, cfg.DevMode)
	timerHandler := handlers.NewTimerHandler(log, trackingSvc, cfg.DevMode)
	clientHandler := handlers.NewClientHandler(log, clientRepo, cfg.DevMode)
	settingsHandler := handlers.NewSettingsHandler(log, fiscalRepo, userRepo, cfg.DevMode)
	boardHandler := handlers.NewBoardHandler(log, boardRepo, workOrderRepo, cfg.DevMode)

	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("workdesk_session", store))
	r.Use(middleware.InjectActor(userRepo))

	// AUTH
	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	mutating := middleware.RequireRole(models.RoleAdmin, models.RoleManager, models.RoleStaff)

	// WORK ORDERS
	auth.GET("/workorders", workOrderHandler.List)
	auth.POST("/workorders", mutating, workOrderHandler.Create)
	auth.GET("/workorders/:id", workOrderHandler.Get)
	auth.PUT("/workorders/:id", mutating, workOrderHandler.Update)

	// ATTACHMENTS
	auth.GET("/workorders/:id/attachments", attachmentHandler.List)
	auth.POST("/workorders/:id/attachments", mutating, attachmentHandler.Upload)
	auth.GET("/attachments/:id", attachmentHandler.Download)
	auth.DELETE("/attachments/:id", mutating, attachmentHandler.Delete)

	// HISTORY
	auth.GET("/workorders/:id/history", auditHandler.History)
	auth.POST("/workorders/:id/notes", mutating, auditHandler.AddNote)

	// TIME TRACKING
	auth.POST("/timer/start", mutating, timerHandler.Start)
	auth.POST("/timer/stop", mutating, timerHandler.Stop)
	auth.POST("/timer/manual", mutating, timerHandler.AddManual)
	auth.GET("/timer/current", timerHandler.Current)
	auth.GET("/workorders/:id/time", timerHandler.ForWorkOrder)

	// BOARD
	auth.GET("/workorders/:id/board", boardHandler.List)
	auth.POST("/workorders/:id/board", mutating, boardHandler.Create)

	// CLIENTS
	auth.GET("/clients", clientHandler.List)
	auth.GET("/clients/:id", clientHandler.Get)
	auth.POST("/clients",
		middleware.RequireRole(models.RoleAdmin, models.RoleManager),
		clientHandler.Create,
	)

	// SETTINGS
	auth.GET("/settings/fiscal", settingsHandler.GetFiscal)
	auth.PUT("/settings/fiscal",
		middleware.RequireRole(models.RoleAdmin),
		settingsHandler.UpdateFiscal,
	)
	auth.PUT("/profile", settingsHandler.UpdateProfile)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
