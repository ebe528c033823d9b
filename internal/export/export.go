// Package export writes a session's generated files somewhere the user can
// fetch them: a local directory or an S3-compatible bucket.
package export

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"retro_site_builder/internal/types"
)

// Result describes one completed export.
type Result struct {
	ID       string   `json:"id"`
	Target   string   `json:"target"`
	Location string   `json:"location"`
	Files    []string `json:"files"`
}

// Exporter stores the files produced by a save.
type Exporter interface {
	Export(ctx context.Context, sessionID string, files []types.GeneratedFile) (Result, error)
}

func newExportID() string {
	return uuid.NewString()
}

// cleanName rejects anything that would escape the export directory.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.ToSlash(filepath.Clean(name))
	if strings.HasPrefix(cleaned, "../") || cleaned == ".." || filepath.IsAbs(name) || strings.HasPrefix(cleaned, "/") {
		return "", fmt.Errorf("invalid filename %q", name)
	}
	return cleaned, nil
}
