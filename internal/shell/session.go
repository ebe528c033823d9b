package shell

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"retro_site_builder/internal/types"
)

// PlaceholderCode is the document every session starts with.
var PlaceholderCode = types.WebsiteCode{
	HTML: `<div class="container"><h1>Welcome to your new website</h1><p>Start by typing a command in the console or edit the code directly.</p></div>`,
	CSS:  "body { font-family: Arial, sans-serif; } .container { padding: 20px; }",
	JS:   "",
}

var initialTranscript = []string{
	"System ready to generate website...",
	`Type "help" to see available commands.`,
	"You can also click on the HTML and CSS windows to edit the code directly.",
}

const assistantGreeting = "Hello! I'm your AI assistant. How can I help you with your website?"

// DocumentField selects one blob of the document.
type DocumentField string

const (
	FieldHTML DocumentField = "html"
	FieldCSS  DocumentField = "css"
	FieldJS   DocumentField = "js"
)

func ParseDocumentField(raw string) (DocumentField, error) {
	switch f := DocumentField(strings.ToLower(strings.TrimSpace(raw))); f {
	case FieldHTML, FieldCSS, FieldJS:
		return f, nil
	}
	return "", fmt.Errorf("unknown document field %q", raw)
}

// EventKind tells subscribers which part of the session changed.
type EventKind string

const (
	EventWindows      EventKind = "windows"
	EventDocument     EventKind = "document"
	EventTranscript   EventKind = "transcript"
	EventConversation EventKind = "conversation"
	EventPending      EventKind = "pending"
	EventClosed       EventKind = "closed"
)

type Event struct {
	Kind     EventKind `json:"kind"`
	Revision int       `json:"revision"`
}

// Snapshot is a consistent copy of the whole session.
type Snapshot struct {
	ID           string            `json:"id"`
	Windows      []WindowState     `json:"windows"`
	Document     types.WebsiteCode `json:"document"`
	Revision     int               `json:"revision"`
	Transcript   []types.Entry     `json:"transcript"`
	Conversation []types.Message   `json:"conversation"`
	Pending      int               `json:"pending"`
	Viewport     Viewport          `json:"viewport"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// Session is the state behind one desktop: windows, the shared document and
// the two logs. Every method is safe for concurrent use; mutations are
// serialised and published to subscribers after the lock is released.
type Session struct {
	id        string
	createdAt time.Time

	mu           sync.Mutex
	windows      *WindowManager
	viewport     Viewport
	doc          types.WebsiteCode
	revision     int
	transcript   []types.Entry
	conversation []types.Message
	pending      int
	closed       bool

	subMu      sync.Mutex
	nextSub    int
	subs       map[int]chan Event
	subsClosed bool
}

// NewSession starts a session with the placeholder document and the default
// window layout for the given viewport.
func NewSession(id string, vp Viewport) *Session {
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = Viewport{Width: 1024, Height: 768}
	}
	s := &Session{
		id:        id,
		createdAt: time.Now(),
		windows:   NewWindowManager(),
		viewport:  vp,
		doc:       PlaceholderCode,
		subs:      make(map[int]chan Event),
	}
	for _, line := range initialTranscript {
		s.transcript = append(s.transcript, types.Entry{Kind: types.EntryOutput, Text: line})
	}
	s.conversation = append(s.conversation, types.Message{Role: types.RoleAssistant, Text: assistantGreeting})
	s.openDefaultLayout()
	return s
}

func (s *Session) openDefaultLayout() {
	w := s.viewport.Width
	h := s.viewport.Height - ChromeHeight
	aiW, aiH := w*0.3, h*0.4
	s.windows.place(WindowAssistant, Position{X: 0, Y: 0}, Size{Width: aiW, Height: aiH})
	s.windows.place(WindowPreview, Position{X: aiW, Y: 0}, Size{Width: w - aiW, Height: h})
	s.windows.place(WindowCodeEditor, Position{X: 0, Y: aiH}, Size{Width: aiW, Height: h - aiH})
}

func (s *Session) ID() string { return s.id }

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:           s.id,
		Windows:      s.windows.Ordered(),
		Document:     s.doc,
		Revision:     s.revision,
		Transcript:   append([]types.Entry(nil), s.transcript...),
		Conversation: append([]types.Message(nil), s.conversation...),
		Pending:      s.pending,
		Viewport:     s.viewport,
		CreatedAt:    s.createdAt,
	}
}

// --- windows ---

func (s *Session) Window(t WindowType) (WindowState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.windows.Get(t)
}

func (s *Session) Windows() []WindowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.windows.Ordered()
}

func (s *Session) OpenWindow(t WindowType) (WindowState, error) {
	return s.windowOp(func(m *WindowManager) (WindowState, error) { return m.Open(t) })
}

// CloseWindow reports whether a window was actually removed.
func (s *Session) CloseWindow(t WindowType) bool {
	s.mu.Lock()
	removed := s.windows.Close(t)
	s.mu.Unlock()
	if removed {
		s.publish(EventWindows)
	}
	return removed
}

func (s *Session) BringToFront(t WindowType) (WindowState, error) {
	return s.windowOp(func(m *WindowManager) (WindowState, error) { return m.BringToFront(t) })
}

func (s *Session) SetMinimized(t WindowType, minimized bool) (WindowState, error) {
	return s.windowOp(func(m *WindowManager) (WindowState, error) { return m.SetMinimized(t, minimized) })
}

func (s *Session) ToggleMinimized(t WindowType) (WindowState, error) {
	return s.windowOp(func(m *WindowManager) (WindowState, error) { return m.ToggleMinimized(t) })
}

func (s *Session) Resize(t WindowType, edge Edge, dx, dy float64) (WindowState, error) {
	return s.windowOp(func(m *WindowManager) (WindowState, error) { return m.Resize(t, edge, dx, dy) })
}

// Move clamps against the viewport last reported by the browser.
func (s *Session) Move(t WindowType, pos Position) (WindowState, error) {
	return s.windowOp(func(m *WindowManager) (WindowState, error) { return m.Move(t, pos, s.viewport) })
}

func (s *Session) SetZoom(t WindowType, delta float64) (WindowState, error) {
	return s.windowOp(func(m *WindowManager) (WindowState, error) { return m.SetZoom(t, delta) })
}

func (s *Session) SetViewport(vp Viewport) error {
	if vp.Width <= 0 || vp.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %vx%v", vp.Width, vp.Height)
	}
	s.mu.Lock()
	s.viewport = vp
	s.mu.Unlock()
	return nil
}

func (s *Session) windowOp(op func(*WindowManager) (WindowState, error)) (WindowState, error) {
	s.mu.Lock()
	w, err := op(s.windows)
	s.mu.Unlock()
	if err != nil {
		return WindowState{}, err
	}
	s.publish(EventWindows)
	return w, nil
}

// --- document ---

func (s *Session) Document() (types.WebsiteCode, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc, s.revision
}

// SetField is a direct editor write; last write wins.
func (s *Session) SetField(field DocumentField, content string) int {
	return s.mutateDocument(func(doc *types.WebsiteCode) {
		switch field {
		case FieldHTML:
			doc.HTML = content
		case FieldCSS:
			doc.CSS = content
		case FieldJS:
			doc.JS = content
		}
	})
}

// ApplyGeneration replaces markup and styles with a collaborator result.
func (s *Session) ApplyGeneration(html, css string) int {
	return s.mutateDocument(func(doc *types.WebsiteCode) {
		doc.HTML = html
		doc.CSS = css
	})
}

// UpdateDocument runs fn against the current document under the session lock
// and stores its result. When fn fails nothing changes.
func (s *Session) UpdateDocument(fn func(types.WebsiteCode) (types.WebsiteCode, error)) (int, error) {
	s.mu.Lock()
	next, err := fn(s.doc)
	if err != nil {
		rev := s.revision
		s.mu.Unlock()
		return rev, err
	}
	changed := next != s.doc
	if changed {
		s.doc = next
		s.revision++
	}
	rev := s.revision
	s.mu.Unlock()
	if changed {
		s.publish(EventDocument)
	}
	return rev, nil
}

func (s *Session) mutateDocument(fn func(*types.WebsiteCode)) int {
	s.mu.Lock()
	fn(&s.doc)
	s.revision++
	rev := s.revision
	s.mu.Unlock()
	s.publish(EventDocument)
	return rev
}

// --- logs ---

func (s *Session) AppendTranscript(entries ...types.Entry) {
	if len(entries) == 0 {
		return
	}
	s.mu.Lock()
	s.transcript = append(s.transcript, entries...)
	s.mu.Unlock()
	s.publish(EventTranscript)
}

// ClearTranscript empties the console; the document is untouched.
func (s *Session) ClearTranscript() {
	s.mu.Lock()
	s.transcript = nil
	s.mu.Unlock()
	s.publish(EventTranscript)
}

func (s *Session) Transcript() []types.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.Entry(nil), s.transcript...)
}

func (s *Session) AppendConversation(msgs ...types.Message) {
	if len(msgs) == 0 {
		return
	}
	s.mu.Lock()
	s.conversation = append(s.conversation, msgs...)
	s.mu.Unlock()
	s.publish(EventConversation)
}

func (s *Session) Conversation() []types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.Message(nil), s.conversation...)
}

// BeginRequest marks a collaborator call as outstanding until done is called.
func (s *Session) BeginRequest() (done func()) {
	s.mu.Lock()
	s.pending++
	s.mu.Unlock()
	s.publish(EventPending)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.pending > 0 {
				s.pending--
			}
			s.mu.Unlock()
			s.publish(EventPending)
		})
	}
}

func (s *Session) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// --- subscriptions ---

// Subscribe returns a channel of change notifications and a cancel func.
// Slow subscribers lose the oldest notifications, never block the session.
func (s *Session) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	s.subMu.Lock()
	if s.subsClosed {
		s.subMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(c)
		}
	}
}

// Close tears the session down and releases every subscriber.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subsClosed = true
	for id, ch := range s.subs {
		select {
		case ch <- Event{Kind: EventClosed}:
		default:
		}
		close(ch)
		delete(s.subs, id)
	}
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) publish(kind EventKind) {
	s.mu.Lock()
	evt := Event{Kind: kind, Revision: s.revision}
	s.mu.Unlock()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		pushEvent(ch, evt)
	}
}

func pushEvent(ch chan Event, evt Event) {
	select {
	case ch <- evt:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- evt:
	default:
	}
}
