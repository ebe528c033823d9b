// Package console interprets the one-line commands typed into the Code
// Generator window.
package console

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"retro_site_builder/internal/types"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("missing argument")
	ErrNoContainer    = errors.New("markup has no closing </div>")
	ErrInvalidColor   = errors.New("invalid color")
)

const containerClose = "</div>"

// ButtonCSS is appended to the styles by add-button.
const ButtonCSS = `
button { padding: 10px 20px; background-color: #4CAF50; color: white; border: none; border-radius: 4px; cursor: pointer; }
button:hover { background-color: #45a049; }`

const colorTemplate = "body { font-family: Arial, sans-serif; background-color: %s; } .container { padding: 20px; }"

var helpLines = []string{
	"Available commands:",
	"add-heading <text> - Adds a heading to the page",
	"add-text <text> - Adds a paragraph of text",
	"change-color <color> - Changes the background color",
	"add-button <text> - Adds a button",
	"clear - Clears the console",
	"open <type> - Opens a window (generator, html, css, preview, ai, code-editor)",
	"close <type> - Closes a window (generator, html, css, preview, ai, code-editor)",
	"ai <prompt> - Send a prompt to the AI assistant to style the website",
	"save - Saves index.html and styles.css",
	"You can also click on the HTML and CSS windows to edit the code directly.",
}

// Command is a tokenized console line. Verb is lower-cased; Arg keeps the
// user's casing.
type Command struct {
	Verb string
	Arg  string
}

// Parse splits a line on its first whitespace run.
func Parse(line string) Command {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return Command{Verb: strings.ToLower(line)}
	}
	return Command{
		Verb: strings.ToLower(line[:i]),
		Arg:  strings.TrimSpace(line[i:]),
	}
}

// Usage is the one-line syntax for a verb.
func Usage(verb string) string {
	switch verb {
	case "add-heading", "add-text", "add-button":
		return fmt.Sprintf("Usage: %s <text>", verb)
	case "change-color":
		return "Usage: change-color <color>"
	case "open", "close":
		return fmt.Sprintf("Usage: %s <type>", verb)
	case "ai":
		return "Usage: ai <prompt>"
	}
	return ""
}

// Transform applies one document-editing command to code and returns the
// result. code is never modified in place; on error it should be kept as is.
func Transform(code types.WebsiteCode, line string) (types.WebsiteCode, error) {
	return apply(code, Parse(line))
}

func apply(code types.WebsiteCode, cmd Command) (types.WebsiteCode, error) {
	switch cmd.Verb {
	case "add-heading":
		return insert(code, cmd, "h1")
	case "add-text":
		return insert(code, cmd, "p")
	case "add-button":
		next, err := insert(code, cmd, "button")
		if err != nil {
			return code, err
		}
		next.CSS += ButtonCSS
		return next, nil
	case "change-color":
		if cmd.Arg == "" {
			return code, fmt.Errorf("%s: %w", cmd.Verb, ErrUsage)
		}
		if strings.ContainsAny(cmd.Arg, ";{}<>") {
			return code, fmt.Errorf("%w: %q", ErrInvalidColor, cmd.Arg)
		}
		code.CSS = fmt.Sprintf(colorTemplate, cmd.Arg)
		return code, nil
	}
	return code, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Verb)
}

// insert places <tag>arg</tag> right before the first closing div, making it
// the last child of the outer container. The argument is inserted as typed.
func insert(code types.WebsiteCode, cmd Command, tag string) (types.WebsiteCode, error) {
	if cmd.Arg == "" {
		return code, fmt.Errorf("%s: %w", cmd.Verb, ErrUsage)
	}
	at := indexFold(code.HTML, containerClose)
	if at < 0 {
		return code, fmt.Errorf("%s: %w", cmd.Verb, ErrNoContainer)
	}
	code.HTML = code.HTML[:at] + "<" + tag + ">" + cmd.Arg + "</" + tag + ">" + code.HTML[at:]
	return code, nil
}

func indexFold(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}

// describe turns a command error into the transcript line shown to the user.
func describe(cmd Command, err error) string {
	switch {
	case errors.Is(err, ErrUnknownCommand):
		return fmt.Sprintf("Unknown command: %q. Type \"help\" for available commands.", cmd.Verb)
	case errors.Is(err, ErrUsage):
		return Usage(cmd.Verb)
	case errors.Is(err, ErrNoContainer):
		return fmt.Sprintf("Cannot run %s: the page has no closing </div> to insert into.", cmd.Verb)
	case errors.Is(err, ErrInvalidColor):
		return fmt.Sprintf("Invalid color %q.", cmd.Arg)
	}
	return "An error occurred while generating the code: " + err.Error()
}
