package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"retro_site_builder/internal/types"
)

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ParseGeneration extracts the {"html": ..., "css": ...} object from model
// output. Code fences and prose around the object are tolerated; both fields
// must be present and non-empty.
func ParseGeneration(raw string) (types.WebsiteCode, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if m := jsonObjectPattern.FindString(cleaned); m != "" {
		cleaned = m
	}

	var out struct {
		HTML string `json:"html"`
		CSS  string `json:"css"`
	}
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return types.WebsiteCode{}, fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	if strings.TrimSpace(out.HTML) == "" || strings.TrimSpace(out.CSS) == "" {
		return types.WebsiteCode{}, fmt.Errorf("%w: response missing required fields", ErrUnparseable)
	}
	return types.WebsiteCode{HTML: out.HTML, CSS: out.CSS}, nil
}
