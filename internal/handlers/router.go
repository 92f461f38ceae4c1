package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/course-authoring-service/internal/services"
	"github.com/SAP-F-2025/course-authoring-service/internal/utils"
)

type HandlerManager struct {
	authoringHandler *AuthoringHandler
	tokenParser      TokenParser
	logger           utils.Logger
}

func NewHandlerManager(
	authoring services.AuthoringService,
	importExport services.ImportExportService,
	tokenParser TokenParser,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authoringHandler: NewAuthoringHandler(authoring, importExport, logger),
		tokenParser:      tokenParser,
		logger:           logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "course-authoring-service",
		})
	})

	// API v1 routes, administrators only
	v1 := router.Group("/api/v1", AdminMiddleware(hm.tokenParser, hm.logger))
	{
		// Draft routes
		drafts := v1.Group("/drafts")
		{
			drafts.GET("", hm.authoringHandler.GetDraft)
			drafts.PUT("", hm.authoringHandler.SaveDraft)
			drafts.DELETE("", hm.authoringHandler.DiscardDraft)
			drafts.POST("/validate", hm.authoringHandler.ValidateDraft)
			drafts.POST("/publish", hm.authoringHandler.PublishDraft)
			drafts.GET("/last-published", hm.authoringHandler.LastPublished)

			// Spreadsheet round trip
			drafts.POST("/import", hm.authoringHandler.ImportDraft)
			drafts.GET("/export", hm.authoringHandler.ExportDraft)
		}

		// Existing course routes
		courses := v1.Group("/courses")
		{
			courses.GET("/:id/form", hm.authoringHandler.LoadCourse)
			courses.PUT("/:id/sync", hm.authoringHandler.SyncCourse)
			courses.POST("/:id/modules/:module_id/move", hm.authoringHandler.MoveModule)
			courses.DELETE("/:id/modules/:module_id", hm.authoringHandler.DeleteModule)
			courses.POST("/:id/modules/:module_id/questions/:question_id/move", hm.authoringHandler.MoveQuestion)
			courses.DELETE("/:id/modules/:module_id/questions/:question_id", hm.authoringHandler.DeleteQuestion)
			courses.POST("/:id/modules/:module_id/questions/:question_id/options/:option_id/move", hm.authoringHandler.MoveOption)
			courses.DELETE("/:id/modules/:module_id/questions/:question_id/options/:option_id", hm.authoringHandler.DeleteOption)
		}

		v1.GET("/syncs/failed", hm.authoringHandler.ListFailedSyncs)
	}
}
