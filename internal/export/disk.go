package export

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"retro_site_builder/internal/types"
)

const DefaultDir = "tmp/exports"

// DiskExporter writes each export into <root>/<session>/<export id>/.
type DiskExporter struct {
	root string
}

func NewDiskExporter(root string) *DiskExporter {
	if strings.TrimSpace(root) == "" {
		root = DefaultDir
	}
	return &DiskExporter{root: root}
}

func (d *DiskExporter) Export(ctx context.Context, sessionID string, files []types.GeneratedFile) (Result, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Result{}, fmt.Errorf("session id is required")
	}
	if len(files) == 0 {
		return Result{}, fmt.Errorf("nothing to export")
	}

	id := newExportID()
	dir := filepath.Join(d.root, filepath.Base(sessionID), id)
	res := Result{ID: id, Target: "disk", Location: dir}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		name, err := cleanName(f.Filename)
		if err != nil {
			return Result{}, err
		}
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return Result{}, fmt.Errorf("failed to create directory for %s: %w", name, err)
		}
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			return Result{}, fmt.Errorf("failed to write file %s: %w", name, err)
		}
		res.Files = append(res.Files, name)
	}

	log.Printf("Exported %d files for session %s to %s", len(res.Files), sessionID, dir)
	return res, nil
}
