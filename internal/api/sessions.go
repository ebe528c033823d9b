package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"retro_site_builder/internal/shell"
)

type CreateSessionRequest struct {
	Viewport shell.Viewport `json:"viewport"`
}

type ResizeRequest struct {
	Edge string  `json:"edge" binding:"required"`
	DX   float64 `json:"dx"`
	DY   float64 `json:"dy"`
}

type MoveRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ZoomRequest.Delta is a pointer so an explicit 0 still satisfies required.
type ZoomRequest struct {
	Delta *float64 `json:"delta" binding:"required"`
}

// MinimizeRequest toggles when Minimized is omitted.
type MinimizeRequest struct {
	Minimized *bool `json:"minimized"`
}

type DocumentRequest struct {
	Content string `json:"content"`
}

type ConsoleRequest struct {
	Line string `json:"line"`
}

type AssistantRequest struct {
	Text string `json:"text"`
}

// POST /sessions
func (h *APIHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
	}
	s := h.sessions.Create(req.Viewport)
	c.JSON(http.StatusCreated, s.Snapshot())
}

// GET /sessions/:id
func (h *APIHandler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Snapshot())
}

// DELETE /sessions/:id
func (h *APIHandler) DeleteSession(c *gin.Context) {
	if !h.sessions.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// PUT /sessions/:id/viewport
func (h *APIHandler) SetViewport(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var vp shell.Viewport
	if err := c.ShouldBindJSON(&vp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if err := s.SetViewport(vp); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, vp)
}

// --- Windows ---

// windowAction resolves the session and window type, then runs op and writes
// the resulting window state.
func (h *APIHandler) windowAction(c *gin.Context, op func(*shell.Session, shell.WindowType) (shell.WindowState, error)) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	t, ok := windowType(c)
	if !ok {
		return
	}
	w, err := op(s, t)
	if err != nil {
		windowError(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// POST /sessions/:id/windows/:type/open
func (h *APIHandler) OpenWindow(c *gin.Context) {
	h.windowAction(c, func(s *shell.Session, t shell.WindowType) (shell.WindowState, error) {
		return s.OpenWindow(t)
	})
}

// POST /sessions/:id/windows/:type/front
func (h *APIHandler) BringToFront(c *gin.Context) {
	h.windowAction(c, func(s *shell.Session, t shell.WindowType) (shell.WindowState, error) {
		return s.BringToFront(t)
	})
}

// POST /sessions/:id/windows/:type/minimize
func (h *APIHandler) MinimizeWindow(c *gin.Context) {
	var req MinimizeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
			return
		}
	}
	h.windowAction(c, func(s *shell.Session, t shell.WindowType) (shell.WindowState, error) {
		if req.Minimized == nil {
			return s.ToggleMinimized(t)
		}
		return s.SetMinimized(t, *req.Minimized)
	})
}

// POST /sessions/:id/windows/:type/resize
func (h *APIHandler) ResizeWindow(c *gin.Context) {
	var req ResizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	edge, err := shell.ParseEdge(req.Edge)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.windowAction(c, func(s *shell.Session, t shell.WindowType) (shell.WindowState, error) {
		return s.Resize(t, edge, req.DX, req.DY)
	})
}

// POST /sessions/:id/windows/:type/move
func (h *APIHandler) MoveWindow(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	h.windowAction(c, func(s *shell.Session, t shell.WindowType) (shell.WindowState, error) {
		return s.Move(t, shell.Position{X: req.X, Y: req.Y})
	})
}

// POST /sessions/:id/windows/:type/zoom
func (h *APIHandler) ZoomWindow(c *gin.Context) {
	var req ZoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	h.windowAction(c, func(s *shell.Session, t shell.WindowType) (shell.WindowState, error) {
		return s.SetZoom(t, *req.Delta)
	})
}

// DELETE /sessions/:id/windows/:type
func (h *APIHandler) CloseWindow(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	t, ok := windowType(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"closed": s.CloseWindow(t)})
}

// GET /sessions/:id/windows/:type/view
func (h *APIHandler) WindowView(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	t, ok := windowType(c)
	if !ok {
		return
	}
	v, err := s.View(t)
	if err != nil {
		windowError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// --- Document, console and assistant ---

// PUT /sessions/:id/document/:field
func (h *APIHandler) SetDocumentField(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	field, err := shell.ParseDocumentField(c.Param("field"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var req DocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	rev := s.SetField(field, req.Content)
	c.JSON(http.StatusOK, gin.H{"revision": rev})
}

// POST /sessions/:id/console
func (h *APIHandler) RunConsole(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req ConsoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	out := h.interpreter.Execute(c.Request.Context(), s, req.Line)
	c.JSON(http.StatusOK, out)
}

// POST /sessions/:id/assistant
func (h *APIHandler) Ask(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req AssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	reply, ok := h.assistant.Assist(c.Request.Context(), s, req.Text)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message text is required"})
		return
	}
	_, rev := s.Document()
	log.Printf("Assistant replied in session %s", s.ID())
	c.JSON(http.StatusOK, gin.H{"reply": reply, "revision": rev})
}
