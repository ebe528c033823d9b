package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"retro_site_builder/internal/ai/prompts"
	"retro_site_builder/internal/utils"
)

// Process sends the prompt to the configured model and parses the html+css
// pair out of its reply.
func (g *Generator) Process(ctx context.Context, prompt string) (Response, error) {
	if !g.Configured() {
		return Response{}, ErrNotConfigured
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Response{}, fmt.Errorf("prompt is required")
	}

	fullPrompt := fmt.Sprintf(prompts.GetSiteGenerationPrompt(), prompt)
	log.Printf("Sending generation request to %s (%d bytes)", g.model.Name(), len(fullPrompt))

	raw, err := g.complete(ctx, fullPrompt)
	if err != nil {
		return Response{}, err
	}
	log.Printf("LLM raw output from %s: %s", g.model.Name(), raw)

	code, err := ParseGeneration(raw)
	if err != nil {
		log.Printf("Failed to parse LLM output from %s: %v", g.model.Name(), err)
		return Response{
			Success:    false,
			Error:      "Failed to parse AI response",
			Details:    "The AI generated an invalid response. Please try again with a different prompt.",
			RawContent: raw,
		}, nil
	}
	return Response{Success: true, HTML: code.HTML, CSS: code.CSS}, nil
}

func (g *Generator) complete(ctx context.Context, fullPrompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		out, err := g.model.Complete(ctx, prompts.SystemPrompt, fullPrompt)
		if err == nil {
			if strings.TrimSpace(out) == "" {
				return "", ErrEmptyResponse
			}
			return out, nil
		}
		lastErr = err
		if !utils.ShouldRetry(ctx, err) || attempt+1 >= g.maxAttempts {
			break
		}
		log.Printf("%s call failed, retrying after %s... Error: %v", g.model.Name(), g.backoff, err)
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%s completion failed: %w", g.model.Name(), ctx.Err())
		case <-time.After(g.backoff):
		}
	}
	return "", fmt.Errorf("%s completion failed: %w", g.model.Name(), lastErr)
}
