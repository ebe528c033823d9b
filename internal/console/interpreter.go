package console

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"retro_site_builder/internal/ai"
	"retro_site_builder/internal/export"
	"retro_site_builder/internal/shell"
	"retro_site_builder/internal/types"
)

const (
	DefaultTimeout = 60 * time.Second
	excerptLength  = 100
	generatedLine  = "Code has been generated successfully."
)

// Outcome reports what one console line did. Entries are the lines appended
// after the command finished, not including the echoed input.
type Outcome struct {
	Verb     string         `json:"verb"`
	Entries  []types.Entry  `json:"entries"`
	Mutated  bool           `json:"mutated"`
	Revision int            `json:"revision"`
	Export   *export.Result `json:"export,omitempty"`
}

// Interpreter executes console lines against a session. It keeps no state of
// its own; everything lives in the session.
type Interpreter struct {
	gen      ai.Collaborator
	exporter export.Exporter
	timeout  time.Duration
}

func NewInterpreter(gen ai.Collaborator, exporter export.Exporter, timeout time.Duration) *Interpreter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Interpreter{gen: gen, exporter: exporter, timeout: timeout}
}

// Execute runs one line. It never fails: every problem becomes a transcript
// entry. Blank lines are ignored.
func (in *Interpreter) Execute(ctx context.Context, s *shell.Session, line string) Outcome {
	line = strings.TrimSpace(line)
	if line == "" {
		_, rev := s.Document()
		return Outcome{Revision: rev}
	}
	cmd := Parse(line)
	s.AppendTranscript(types.Entry{Kind: types.EntryInput, Text: "> " + line})

	out := Outcome{Verb: cmd.Verb}
	switch cmd.Verb {
	case "help":
		for _, l := range helpLines {
			out.Entries = append(out.Entries, output(l))
		}
	case "clear":
		s.ClearTranscript()
	case "open", "close":
		out.Entries = in.window(s, cmd)
	case "ai":
		out.Entries, out.Mutated = in.generate(ctx, s, cmd)
	case "save":
		out.Entries, out.Export = in.save(ctx, s)
	default:
		_, err := s.UpdateDocument(func(code types.WebsiteCode) (types.WebsiteCode, error) {
			return apply(code, cmd)
		})
		if err != nil {
			out.Entries = []types.Entry{failure(describe(cmd, err))}
		} else {
			out.Mutated = true
			out.Entries = []types.Entry{output(generatedLine)}
		}
	}

	s.AppendTranscript(out.Entries...)
	_, out.Revision = s.Document()
	return out
}

func (in *Interpreter) window(s *shell.Session, cmd Command) []types.Entry {
	if cmd.Arg == "" {
		return []types.Entry{failure(Usage(cmd.Verb))}
	}
	t, err := shell.ParseWindowType(cmd.Arg)
	if err != nil {
		return []types.Entry{failure(fmt.Sprintf("Unknown window type %q. Try generator, html, css, preview, ai or code-editor.", cmd.Arg))}
	}
	if cmd.Verb == "close" {
		s.CloseWindow(t)
		return nil
	}
	if _, err := s.OpenWindow(t); err != nil {
		return []types.Entry{failure(err.Error())}
	}
	return nil
}

// generate forwards the prompt to the collaborator with the session unlocked.
// Either the document is replaced or exactly one error entry is produced.
func (in *Interpreter) generate(ctx context.Context, s *shell.Session, cmd Command) ([]types.Entry, bool) {
	if cmd.Arg == "" {
		return []types.Entry{failure(Usage(cmd.Verb))}, false
	}
	s.AppendTranscript(output("AI Query: " + cmd.Arg))
	if in.gen == nil {
		return []types.Entry{failure("Error: AI backend is not configured.")}, false
	}

	done := s.BeginRequest()
	defer done()

	callCtx, cancel := context.WithTimeout(ctx, in.timeout)
	defer cancel()
	resp, err := in.gen.Process(callCtx, cmd.Arg)
	if err != nil {
		log.Printf("console ai request for session %s failed: %v", s.ID(), err)
		return []types.Entry{failure(transportMessage(err, in.timeout) +
			"\nPlease try again with a different prompt or check the console for more details.")}, false
	}
	if !resp.Success {
		return []types.Entry{failure(ai.RephraseHint(resp))}, false
	}

	s.ApplyGeneration(resp.HTML, resp.CSS)
	return []types.Entry{
		output("AI Response: Website updated with AI-generated code."),
		output("HTML: " + excerpt(resp.HTML) + "..."),
		output("CSS: " + excerpt(resp.CSS) + "..."),
	}, true
}

func (in *Interpreter) save(ctx context.Context, s *shell.Session) ([]types.Entry, *export.Result) {
	if in.exporter == nil {
		return []types.Entry{failure("Save is not available: no export target configured.")}, nil
	}
	code, _ := s.Document()
	res, err := in.exporter.Export(ctx, s.ID(), code.Files())
	if err != nil {
		log.Printf("export for session %s failed: %v", s.ID(), err)
		return []types.Entry{failure("Error saving files: " + err.Error())}, nil
	}
	return []types.Entry{
		output("HTML and CSS files have been saved to " + res.Location),
		output(fmt.Sprintf("Download: /sessions/%s/export/index.html and /sessions/%s/export/styles.css", s.ID(), s.ID())),
	}, &res
}

func transportMessage(err error, timeout time.Duration) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("Error: the AI request timed out after %s.", timeout)
	case errors.Is(err, ai.ErrNotConfigured):
		return "Error: AI backend is not configured."
	}
	return "Error: " + err.Error()
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) > excerptLength {
		r = r[:excerptLength]
	}
	return string(r)
}

func output(text string) types.Entry { return types.Entry{Kind: types.EntryOutput, Text: text} }

func failure(text string) types.Entry { return types.Entry{Kind: types.EntryError, Text: text} }
