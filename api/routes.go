package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	handlers "retro_site_builder/internal/api"
)

// RegisterRoutes sets up the API endpoints and groups them logically.
func RegisterRoutes(router *gin.Engine, h *handlers.APIHandler) {
	router.GET("/", h.ShellPage)

	// --- Stateless generation endpoints ---
	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/process", h.Process)                  // prompt -> html+css via the AI backend
		apiGroup.POST("/generate-website", h.GenerateWebsite) // apply one console edit to posted code
	}

	// --- Desktop sessions ---
	router.POST("/sessions", h.CreateSession)
	sessionGroup := router.Group("/sessions/:id")
	{
		sessionGroup.GET("", h.GetSession)
		sessionGroup.DELETE("", h.DeleteSession)
		sessionGroup.PUT("/viewport", h.SetViewport)

		windows := sessionGroup.Group("/windows/:type")
		{
			windows.POST("/open", h.OpenWindow)
			windows.POST("/front", h.BringToFront)
			windows.POST("/minimize", h.MinimizeWindow)
			windows.POST("/resize", h.ResizeWindow)
			windows.POST("/move", h.MoveWindow)
			windows.POST("/zoom", h.ZoomWindow)
			windows.DELETE("", h.CloseWindow)
			windows.GET("/view", h.WindowView)
		}

		sessionGroup.PUT("/document/:field", h.SetDocumentField)
		sessionGroup.POST("/console", h.RunConsole)
		sessionGroup.POST("/assistant", h.Ask)

		sessionGroup.GET("/preview", h.Preview)
		sessionGroup.GET("/export/:file", h.ExportFile)
		sessionGroup.POST("/save", h.Save)
		sessionGroup.GET("/ws", h.Watch)
	}

	// --- Simple Health Check ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
