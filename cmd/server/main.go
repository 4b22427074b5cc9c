package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"RB-CORE/internal"
	"RB-CORE/internal/config"
	"RB-CORE/internal/handlers"
	"RB-CORE/internal/services"
	"RB-CORE/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := internal.InitDB(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer internal.CloseDB()

	// The artifact store is optional; without a bucket exports stay local.
	var artifacts *storage.ArtifactStore
	if cfg.GCS.BucketName != "" {
		artifacts, err = storage.NewArtifactStore(context.Background(), cfg.GCS.BucketName, cfg.GCS.CredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize artifact store: %v", err)
		}
		defer artifacts.Close()
		log.Printf("Artifact store using bucket %s", cfg.GCS.BucketName)
	} else {
		log.Println("No GCS bucket configured, exports will not be stored")
	}

	templateService := services.NewTemplateService(internal.DB)
	activityLogService := services.NewActivityLogService(internal.DB)
	exportService, err := services.NewExportService(cfg.Gotenberg.URL, cfg.Gotenberg.Timeout, artifacts)
	if err != nil {
		log.Fatalf("Failed to initialize export service: %v", err)
	}

	templatesHandler := handlers.NewTemplatesHandler(templateService)
	renderHandler := handlers.NewRenderHandler(templateService, exportService, cfg.Exports.StagingDir)
	logsHandler := handlers.NewLogsHandler(activityLogService)

	maxAge, err := time.ParseDuration(cfg.Exports.MaxAge)
	if err != nil {
		maxAge = 24 * time.Hour
	}
	cleanupService := handlers.NewFileCleanupService(cfg.Exports.StagingDir, maxAge)
	cleanupService.Start()

	// Graceful shutdown handling
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Println("Shutting down server...")
		cleanupService.Stop()
		internal.CloseDB()
		os.Exit(0)
	}()

	r := gin.Default()
	r.Use(activityLogService.LoggingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Template management and versioning
		v1.POST("/templates", templatesHandler.CreateTemplate)
		v1.GET("/templates", templatesHandler.ListTemplates)
		v1.GET("/templates/:templateId", templatesHandler.GetTemplate)
		v1.PUT("/templates/:templateId", templatesHandler.UpdateTemplate)
		v1.DELETE("/templates/:templateId", templatesHandler.DeleteTemplate)
		v1.POST("/templates/:templateId/versions", templatesHandler.UpdateTemplate)
		v1.GET("/templates/:templateId/versions", templatesHandler.ListVersions)
		v1.POST("/templates/:templateId/revert", templatesHandler.RevertTemplate)
		v1.POST("/templates/:templateId/publish", templatesHandler.PublishTemplate)
		v1.POST("/templates/:templateId/unpublish", templatesHandler.UnpublishTemplate)
		v1.GET("/templates/:templateId/variables", templatesHandler.GetVariables)
		v1.GET("/templates/:templateId/audit", templatesHandler.GetAuditTrail)

		// Rendering and export
		v1.POST("/templates/:templateId/render", renderHandler.RenderTemplate)
		v1.GET("/exports/:exportId/download", renderHandler.DownloadExport)
		v1.POST("/render/preview", renderHandler.PreviewTemplate)

		// Data validation
		v1.POST("/validate/:kind", renderHandler.ValidateData)
		v1.GET("/validate/:kind/example", renderHandler.GetExample)

		// Activity logs
		v1.GET("/logs", logsHandler.GetAllLogs)
		v1.GET("/logs/stats", logsHandler.GetLogStats)
		v1.GET("/logs/history", logsHandler.GetRenderHistory)
	}

	log.Printf("Starting server on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
