package shell

import (
	"fmt"

	"retro_site_builder/internal/types"
)

// ViewKind discriminates the content mounted inside a window frame.
type ViewKind string

const (
	ViewConsole    ViewKind = "console"
	ViewEditor     ViewKind = "editor"
	ViewCodeEditor ViewKind = "code-editor"
	ViewPreview    ViewKind = "preview"
	ViewAssistant  ViewKind = "assistant"
	ViewChip       ViewKind = "chip"
)

// View is what a window's content area shows.
type View interface {
	ViewKind() ViewKind
}

// Frame is shared by every view: which window it belongs to and its chrome.
type Frame struct {
	Kind  ViewKind   `json:"kind"`
	Type  WindowType `json:"type"`
	Title string     `json:"title"`
	Zoom  float64    `json:"zoom"`
}

func (f Frame) ViewKind() ViewKind { return f.Kind }

// ConsoleView is the transcript plus a single-line input feeding the interpreter.
type ConsoleView struct {
	Frame
	Transcript []types.Entry `json:"transcript"`
	Prompt     string        `json:"prompt"`
	Pending    bool          `json:"pending"`
}

// EditorView is a raw text surface bound to one document field.
type EditorView struct {
	Frame
	Field DocumentField `json:"field"`
	Text  string        `json:"text"`
}

type EditorTab struct {
	Field    DocumentField `json:"field"`
	Label    string        `json:"label"`
	Text     string        `json:"text"`
	Writable bool          `json:"writable"`
}

type CodeEditorView struct {
	Frame
	Tabs   []EditorTab   `json:"tabs"`
	Active DocumentField `json:"active"`
}

// PreviewView points the sandboxed frame at the composed document.
type PreviewView struct {
	Frame
	Revision int    `json:"revision"`
	Source   string `json:"source"`
}

type AssistantView struct {
	Frame
	Conversation []types.Message `json:"conversation"`
	Pending      bool            `json:"pending"`
}

// ChipView replaces the content of a minimized window.
type ChipView struct {
	Frame
}

// ViewFor selects the view for a window. Minimized windows get a chip and
// their content is not built.
func ViewFor(w WindowState, snap Snapshot) View {
	frame := Frame{Type: w.Type, Title: w.Title, Zoom: w.Zoom}
	if w.Minimized {
		frame.Kind = ViewChip
		return ChipView{Frame: frame}
	}

	switch w.Type {
	case WindowConsole:
		frame.Kind = ViewConsole
		return ConsoleView{Frame: frame, Transcript: snap.Transcript, Prompt: ">", Pending: snap.Pending > 0}
	case WindowHTMLEditor:
		frame.Kind = ViewEditor
		return EditorView{Frame: frame, Field: FieldHTML, Text: snap.Document.HTML}
	case WindowCSSEditor:
		frame.Kind = ViewEditor
		return EditorView{Frame: frame, Field: FieldCSS, Text: snap.Document.CSS}
	case WindowCodeEditor:
		frame.Kind = ViewCodeEditor
		return CodeEditorView{
			Frame: frame,
			Tabs: []EditorTab{
				{Field: FieldHTML, Label: "HTML", Text: snap.Document.HTML, Writable: true},
				{Field: FieldCSS, Label: "CSS", Text: snap.Document.CSS, Writable: true},
				{Field: FieldJS, Label: "JS", Text: snap.Document.JS, Writable: true},
			},
			Active: FieldHTML,
		}
	case WindowPreview:
		frame.Kind = ViewPreview
		return PreviewView{Frame: frame, Revision: snap.Revision, Source: fmt.Sprintf("/sessions/%s/preview", snap.ID)}
	case WindowAssistant:
		frame.Kind = ViewAssistant
		return AssistantView{Frame: frame, Conversation: snap.Conversation, Pending: snap.Pending > 0}
	}
	panic(fmt.Sprintf("shell: no view for window type %q", w.Type))
}

// View renders the content of one open window.
func (s *Session) View(t WindowType) (View, error) {
	snap := s.Snapshot()
	for _, w := range snap.Windows {
		if w.Type == t {
			return ViewFor(w, snap), nil
		}
	}
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWindowType, t)
	}
	return nil, fmt.Errorf("%w: %s", ErrWindowNotOpen, t)
}
