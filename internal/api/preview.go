package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"retro_site_builder/internal/preview"
)

// GET /sessions/:id/preview
func (h *APIHandler) Preview(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	doc, rev := s.Document()
	page, err := preview.Compose(doc)
	if err != nil {
		log.Printf("Error composing preview for session %s: %v", s.ID(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render preview"})
		return
	}
	c.Header("Content-Security-Policy", preview.ContentSecurityPolicy)
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Cache-Control", "no-store")
	c.Header("X-Document-Revision", fmt.Sprint(rev))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// GET /sessions/:id/export/:file downloads index.html or styles.css.
func (h *APIHandler) ExportFile(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	name := c.Param("file")
	doc, _ := s.Document()
	for _, f := range doc.Files() {
		if f.Filename != name {
			continue
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		c.Data(http.StatusOK, f.ContentType, []byte(f.Content))
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Unknown export file: " + name})
}

// POST /sessions/:id/save stores both files through the configured exporter.
func (h *APIHandler) Save(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if h.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No export target configured"})
		return
	}
	out := h.interpreter.Execute(c.Request.Context(), s, "save")
	if out.Export == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save files", "entries": out.Entries})
		return
	}
	c.JSON(http.StatusOK, out.Export)
}
