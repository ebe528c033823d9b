package ai

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotConfigured is returned when no generation backend has credentials.
	ErrNotConfigured = errors.New("ai: generation backend not configured")
	// ErrUnparseable marks model output that does not carry an html+css pair.
	ErrUnparseable = errors.New("ai: unparseable model response")
	// ErrEmptyResponse is returned when the backend answers with no text.
	ErrEmptyResponse = errors.New("ai: backend returned empty response")
)

// TextModel is a single completion call against an LLM provider.
type TextModel interface {
	Name() string
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Collaborator turns a natural-language prompt into a markup/styles pair.
// Transport failures are returned as errors; a reply the model produced but
// that could not be parsed comes back as a Response with Success=false.
type Collaborator interface {
	Process(ctx context.Context, prompt string) (Response, error)
}

// Response mirrors the JSON shape of the generation endpoint.
type Response struct {
	Success    bool   `json:"success"`
	HTML       string `json:"html,omitempty"`
	CSS        string `json:"css,omitempty"`
	Error      string `json:"error,omitempty"`
	Details    string `json:"details,omitempty"`
	RawContent string `json:"rawContent,omitempty"`
}

type Generator struct {
	model       TextModel
	maxAttempts int
	backoff     time.Duration
}

func NewGenerator(model TextModel, maxAttempts int) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = 2
	}
	return &Generator{
		model:       model,
		maxAttempts: maxAttempts,
		backoff:     2 * time.Second,
	}
}

// WithBackoff overrides the delay between retried attempts.
func (g *Generator) WithBackoff(d time.Duration) *Generator {
	g.backoff = d
	return g
}

// Configured reports whether a backend is wired in.
func (g *Generator) Configured() bool {
	return g != nil && g.model != nil
}

var _ Collaborator = (*Generator)(nil)

// ExamplePrompts are suggested to the user after an unusable reply.
var ExamplePrompts = []string{
	"Create a simple landing page with a header and two paragraphs",
	"Make a contact form with name and email fields",
	"Design a product card with an image and price",
}

// RephraseHint formats the guidance shown when a reply could not be used.
func RephraseHint(resp Response) string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(resp.Error)
	if resp.Details != "" {
		b.WriteString("\nDetails: ")
		b.WriteString(resp.Details)
	}
	b.WriteString("\n\nTry rephrasing your request. For example:")
	for _, p := range ExamplePrompts {
		b.WriteString("\n- ")
		b.WriteString(p)
	}
	return b.String()
}
