package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"retro_site_builder/internal/ai"
	"retro_site_builder/internal/assistant"
	"retro_site_builder/internal/console"
	"retro_site_builder/internal/export"
	"retro_site_builder/internal/session"
	"retro_site_builder/internal/shell"
	"retro_site_builder/internal/types"
	"retro_site_builder/internal/utils"
)

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	generator   ai.Collaborator
	sessions    *session.Store
	interpreter *console.Interpreter
	assistant   *assistant.Assistant
	exporter    export.Exporter
	timeout     time.Duration
}

// NewAPIHandler wires the handlers. generator may be nil when no backend is
// configured; exporter may be nil to disable saving.
func NewAPIHandler(generator ai.Collaborator, sessions *session.Store, exporter export.Exporter, timeout time.Duration) *APIHandler {
	if timeout <= 0 {
		timeout = console.DefaultTimeout
	}
	return &APIHandler{
		generator:   generator,
		sessions:    sessions,
		interpreter: console.NewInterpreter(generator, exporter, timeout),
		assistant:   assistant.New(generator, timeout),
		exporter:    exporter,
		timeout:     timeout,
	}
}

// --- Structs for API Requests ---

type ProcessRequest struct {
	Prompt  string `json:"prompt"`
	Command string `json:"command"` // accepted for older clients
}

type GenerateWebsiteRequest struct {
	Command     string            `json:"command" binding:"required"`
	CurrentCode types.WebsiteCode `json:"currentCode"`
}

// --- Stateless endpoints ---

// POST /api/process
func (h *APIHandler) Process(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = strings.TrimSpace(req.Command)
	}
	if prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		return
	}
	if h.generator == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API key not configured"})
		return
	}

	ctx, cancel := withTimeout(c, h.timeout)
	defer cancel()
	resp, err := h.generator.Process(ctx, prompt)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "API key not configured"})
			return
		}
		log.Printf("Error processing prompt: %v", err)
		c.JSON(utils.UpstreamStatus(err), gin.H{"error": "Failed to process the command", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/generate-website
func (h *APIHandler) GenerateWebsite(c *gin.Context) {
	var req GenerateWebsiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	code, err := console.Transform(req.CurrentCode, req.Command)
	if err != nil {
		if errors.Is(err, console.ErrUnknownCommand) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown command"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, code)
}

// --- helpers ---

// session resolves :id, writing a 404 when it is unknown.
func (h *APIHandler) session(c *gin.Context) (*shell.Session, bool) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return s, true
}

// windowType resolves :type, writing a 400 when it is unknown.
func windowType(c *gin.Context) (shell.WindowType, bool) {
	t, err := shell.ParseWindowType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return t, true
}

// windowError maps window manager errors onto status codes.
func windowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shell.ErrWindowNotOpen):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, shell.ErrUnknownWindowType), errors.Is(err, shell.ErrInvalidEdge):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func withTimeout(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), d)
}
