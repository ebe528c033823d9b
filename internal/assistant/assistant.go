// Package assistant backs the AI Assistant window: a chat log whose user
// turns are sent to the generation backend.
package assistant

import (
	"context"
	"log"
	"strings"
	"time"

	"retro_site_builder/internal/ai"
	"retro_site_builder/internal/shell"
	"retro_site_builder/internal/types"
)

const (
	DefaultTimeout = 60 * time.Second
	generatedReply = "I've generated the HTML and CSS for your website. You can see the preview now."
	failurePrefix  = "Sorry, an error occurred while processing the query: "
)

type Assistant struct {
	gen     ai.Collaborator
	timeout time.Duration
}

func New(gen ai.Collaborator, timeout time.Duration) *Assistant {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Assistant{gen: gen, timeout: timeout}
}

// Assist appends the user's message, asks the backend for a page and appends
// the reply. On success markup and styles are replaced. It reports false when
// text is blank and nothing was done.
func (a *Assistant) Assist(ctx context.Context, s *shell.Session, text string) (types.Message, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return types.Message{}, false
	}
	s.AppendConversation(types.Message{Role: types.RoleUser, Text: text})

	reply := a.reply(ctx, s, text)
	s.AppendConversation(reply)
	return reply, true
}

func (a *Assistant) reply(ctx context.Context, s *shell.Session, text string) types.Message {
	if a.gen == nil {
		return assistantSays(failurePrefix + ai.ErrNotConfigured.Error())
	}

	done := s.BeginRequest()
	defer done()

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	resp, err := a.gen.Process(callCtx, text)
	if err != nil {
		log.Printf("assistant request for session %s failed: %v", s.ID(), err)
		return assistantSays(failurePrefix + err.Error())
	}
	if !resp.Success {
		return assistantSays(ai.RephraseHint(resp))
	}
	s.ApplyGeneration(resp.HTML, resp.CSS)
	return assistantSays(generatedReply)
}

func assistantSays(text string) types.Message {
	return types.Message{Role: types.RoleAssistant, Text: text}
}
