package shell

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// WindowType is the identity of a panel; at most one window per type is open.
type WindowType string

const (
	WindowConsole    WindowType = "console"
	WindowHTMLEditor WindowType = "html-editor"
	WindowCSSEditor  WindowType = "css-editor"
	WindowPreview    WindowType = "preview"
	WindowAssistant  WindowType = "assistant"
	WindowCodeEditor WindowType = "code-editor"
)

// WindowTypes lists every window type in system bar order.
var WindowTypes = []WindowType{
	WindowConsole, WindowHTMLEditor, WindowCSSEditor, WindowPreview, WindowAssistant, WindowCodeEditor,
}

var windowAliases = map[string]WindowType{
	"generator": WindowConsole,
	"html":      WindowHTMLEditor,
	"css":       WindowCSSEditor,
	"ai":        WindowAssistant,
}

const (
	MinWindowSize = 200
	MinZoom       = 0.5
	MaxZoom       = 2.0
	ZoomStep      = 0.1
	// ChromeHeight is the fixed system bar at the bottom of the desktop.
	ChromeHeight = 40
)

var (
	ErrUnknownWindowType = errors.New("unknown window type")
	ErrWindowNotOpen     = errors.New("window is not open")
	ErrInvalidEdge       = errors.New("invalid resize edge")
)

// ParseWindowType accepts canonical names and the legacy short aliases.
func ParseWindowType(raw string) (WindowType, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := windowAliases[name]; ok {
		return alias, nil
	}
	for _, t := range WindowTypes {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownWindowType, raw)
}

func (t WindowType) Valid() bool {
	for _, known := range WindowTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Title is the fixed display name for a window type.
func (t WindowType) Title() string {
	switch t {
	case WindowConsole:
		return "Code Generator"
	case WindowHTMLEditor:
		return "HTML Editor"
	case WindowCSSEditor:
		return "CSS Editor"
	case WindowPreview:
		return "Website Preview"
	case WindowAssistant:
		return "AI Assistant"
	case WindowCodeEditor:
		return "Code Editor"
	}
	return string(t)
}

// DefaultSize gives raw editors a larger footprint than the other panels.
func (t WindowType) DefaultSize() Size {
	if t == WindowHTMLEditor || t == WindowCSSEditor {
		return Size{Width: 600, Height: 400}
	}
	return Size{Width: 400, Height: 300}
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Viewport is the browser area the desktop is drawn in, system bar included.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Edge names the window border a resize drag started from.
type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
)

func ParseEdge(raw string) (Edge, error) {
	switch e := Edge(strings.ToLower(strings.TrimSpace(raw))); e {
	case EdgeTop, EdgeBottom, EdgeLeft, EdgeRight:
		return e, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidEdge, raw)
}

// WindowState is one open panel.
type WindowState struct {
	Type       WindowType `json:"type"`
	Title      string     `json:"title"`
	Position   Position   `json:"position"`
	Size       Size       `json:"size"`
	Zoom       float64    `json:"zoom"`
	Minimized  bool       `json:"minimized"`
	StackOrder int        `json:"stackOrder"`
}

// WindowManager owns the open set. It is not safe for concurrent use; the
// owning Session serialises access.
type WindowManager struct {
	windows  map[WindowType]*WindowState
	topStack int
}

func NewWindowManager() *WindowManager {
	return &WindowManager{windows: make(map[WindowType]*WindowState)}
}

// Open creates the window with defaults, or un-minimizes and raises the
// existing one.
func (m *WindowManager) Open(t WindowType) (WindowState, error) {
	if !t.Valid() {
		return WindowState{}, fmt.Errorf("%w: %q", ErrUnknownWindowType, t)
	}
	if w, ok := m.windows[t]; ok {
		w.Minimized = false
		m.raise(w)
		return *w, nil
	}
	w := &WindowState{
		Type:     t,
		Title:    t.Title(),
		Position: Position{X: 20, Y: 20},
		Size:     t.DefaultSize(),
		Zoom:     1.0,
	}
	m.raise(w)
	m.windows[t] = w
	return *w, nil
}

// place opens t with explicit geometry, used for the initial layout.
func (m *WindowManager) place(t WindowType, pos Position, size Size) {
	if _, err := m.Open(t); err != nil {
		return
	}
	w := m.windows[t]
	w.Position = pos
	w.Size = Size{Width: math.Max(size.Width, MinWindowSize), Height: math.Max(size.Height, MinWindowSize)}
}

// Close removes the window; closing an absent window is a no-op.
func (m *WindowManager) Close(t WindowType) bool {
	if _, ok := m.windows[t]; !ok {
		return false
	}
	delete(m.windows, t)
	return true
}

func (m *WindowManager) BringToFront(t WindowType) (WindowState, error) {
	w, err := m.lookup(t)
	if err != nil {
		return WindowState{}, err
	}
	m.raise(w)
	return *w, nil
}

func (m *WindowManager) SetMinimized(t WindowType, minimized bool) (WindowState, error) {
	w, err := m.lookup(t)
	if err != nil {
		return WindowState{}, err
	}
	w.Minimized = minimized
	return *w, nil
}

func (m *WindowManager) ToggleMinimized(t WindowType) (WindowState, error) {
	w, err := m.lookup(t)
	if err != nil {
		return WindowState{}, err
	}
	w.Minimized = !w.Minimized
	return *w, nil
}

// Resize grows or shrinks the window from one edge. Dragging the left or top
// edge moves the window by the amount actually consumed so the opposite edge
// stays put.
func (m *WindowManager) Resize(t WindowType, edge Edge, dx, dy float64) (WindowState, error) {
	w, err := m.lookup(t)
	if err != nil {
		return WindowState{}, err
	}
	switch edge {
	case EdgeRight:
		w.Size.Width = math.Max(MinWindowSize, w.Size.Width+dx)
	case EdgeBottom:
		w.Size.Height = math.Max(MinWindowSize, w.Size.Height+dy)
	case EdgeLeft:
		next := math.Max(MinWindowSize, w.Size.Width-dx)
		w.Position.X += w.Size.Width - next
		w.Size.Width = next
	case EdgeTop:
		next := math.Max(MinWindowSize, w.Size.Height-dy)
		w.Position.Y += w.Size.Height - next
		w.Size.Height = next
	default:
		return WindowState{}, fmt.Errorf("%w: %q", ErrInvalidEdge, edge)
	}
	return *w, nil
}

// Move drags the window to pos. The vertical coordinate is kept between the
// top of the viewport and the system bar; horizontal is left free.
func (m *WindowManager) Move(t WindowType, pos Position, vp Viewport) (WindowState, error) {
	w, err := m.lookup(t)
	if err != nil {
		return WindowState{}, err
	}
	m.raise(w)
	maxY := vp.Height - ChromeHeight - w.Size.Height
	y := math.Min(pos.Y, maxY)
	if y < 0 {
		y = 0
	}
	w.Position = Position{X: pos.X, Y: y}
	return *w, nil
}

// SetZoom adds delta to the zoom factor, clamped to [MinZoom, MaxZoom].
func (m *WindowManager) SetZoom(t WindowType, delta float64) (WindowState, error) {
	w, err := m.lookup(t)
	if err != nil {
		return WindowState{}, err
	}
	z := math.Round((w.Zoom+delta)*10) / 10
	w.Zoom = math.Min(MaxZoom, math.Max(MinZoom, z))
	return *w, nil
}

func (m *WindowManager) Get(t WindowType) (WindowState, bool) {
	w, ok := m.windows[t]
	if !ok {
		return WindowState{}, false
	}
	return *w, true
}

func (m *WindowManager) Len() int { return len(m.windows) }

// Ordered returns copies of the open windows in paint order, bottom first.
func (m *WindowManager) Ordered() []WindowState {
	out := make([]WindowState, 0, len(m.windows))
	for _, w := range m.windows {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StackOrder < out[j].StackOrder })
	return out
}

// Top is the window that wins hit-testing where panels overlap.
func (m *WindowManager) Top() (WindowState, bool) {
	ordered := m.Ordered()
	if len(ordered) == 0 {
		return WindowState{}, false
	}
	return ordered[len(ordered)-1], true
}

func (m *WindowManager) raise(w *WindowState) {
	m.topStack++
	w.StackOrder = m.topStack
}

func (m *WindowManager) lookup(t WindowType) (*WindowState, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWindowType, t)
	}
	w, ok := m.windows[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrWindowNotOpen, t)
	}
	return w, nil
}
