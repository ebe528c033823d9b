package shell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenTwiceKeepsOneWindowAndRaisesIt(t *testing.T) {
	for _, typ := range WindowTypes {
		m := NewWindowManager()
		first, err := m.Open(typ)
		require.NoError(t, err)
		second, err := m.Open(typ)
		require.NoError(t, err)

		if m.Len() != 1 {
			t.Fatalf("%s: open set has %d windows, want 1", typ, m.Len())
		}
		got, _ := m.Get(typ)
		if got.StackOrder != second.StackOrder || second.StackOrder <= first.StackOrder {
			t.Fatalf("%s: stack order first=%d second=%d stored=%d", typ, first.StackOrder, second.StackOrder, got.StackOrder)
		}
	}
}

func TestOpenDefaults(t *testing.T) {
	m := NewWindowManager()
	html, err := m.Open(WindowHTMLEditor)
	require.NoError(t, err)
	assert.Equal(t, "HTML Editor", html.Title)
	assert.Equal(t, Size{Width: 600, Height: 400}, html.Size)
	assert.Equal(t, Position{X: 20, Y: 20}, html.Position)
	assert.Equal(t, 1.0, html.Zoom)
	assert.False(t, html.Minimized)

	chat, err := m.Open(WindowAssistant)
	require.NoError(t, err)
	assert.Equal(t, Size{Width: 400, Height: 300}, chat.Size)
	assert.Greater(t, chat.StackOrder, html.StackOrder)
}

func TestOpenUnminimizes(t *testing.T) {
	m := NewWindowManager()
	_, _ = m.Open(WindowPreview)
	_, err := m.SetMinimized(WindowPreview, true)
	require.NoError(t, err)

	w, err := m.Open(WindowPreview)
	require.NoError(t, err)
	assert.False(t, w.Minimized)
}

func TestCloseMissingIsNoop(t *testing.T) {
	m := NewWindowManager()
	_, _ = m.Open(WindowConsole)
	if m.Close(WindowPreview) {
		t.Fatalf("Close() on absent window reported removal")
	}
	assert.Equal(t, 1, m.Len())
	assert.True(t, m.Close(WindowConsole))
	assert.Equal(t, 0, m.Len())
}

func TestUnknownAndClosedWindows(t *testing.T) {
	m := NewWindowManager()
	_, err := m.Open(WindowType("taskbar"))
	assert.True(t, errors.Is(err, ErrUnknownWindowType))

	_, err = m.BringToFront(WindowCSSEditor)
	assert.True(t, errors.Is(err, ErrWindowNotOpen))
}

func TestBringToFrontOrdersPaint(t *testing.T) {
	m := NewWindowManager()
	_, _ = m.Open(WindowConsole)
	_, _ = m.Open(WindowPreview)
	_, _ = m.Open(WindowAssistant)
	_, err := m.BringToFront(WindowConsole)
	require.NoError(t, err)

	ordered := m.Ordered()
	require.Len(t, ordered, 3)
	assert.Equal(t, WindowPreview, ordered[0].Type)
	assert.Equal(t, WindowAssistant, ordered[1].Type)
	assert.Equal(t, WindowConsole, ordered[2].Type)

	top, ok := m.Top()
	require.True(t, ok)
	assert.Equal(t, WindowConsole, top.Type)
}

func TestResizeNeverBelowMinimum(t *testing.T) {
	deltas := []float64{-10000, -401, -1, 0, 1, 250, 10000}
	for _, edge := range []Edge{EdgeTop, EdgeBottom, EdgeLeft, EdgeRight} {
		for _, d := range deltas {
			m := NewWindowManager()
			_, _ = m.Open(WindowConsole)
			for i := 0; i < 3; i++ {
				w, err := m.Resize(WindowConsole, edge, d, d)
				require.NoError(t, err)
				if w.Size.Width < MinWindowSize || w.Size.Height < MinWindowSize {
					t.Fatalf("edge=%s delta=%v produced %vx%v", edge, d, w.Size.Width, w.Size.Height)
				}
			}
		}
	}
}

func TestResizeFromLeftKeepsRightEdge(t *testing.T) {
	m := NewWindowManager()
	start, _ := m.Open(WindowConsole)
	right := start.Position.X + start.Size.Width

	w, err := m.Resize(WindowConsole, EdgeLeft, -50, 0)
	require.NoError(t, err)
	assert.Equal(t, 450.0, w.Size.Width)
	assert.Equal(t, right, w.Position.X+w.Size.Width)

	w, err = m.Resize(WindowConsole, EdgeLeft, 1000, 0)
	require.NoError(t, err)
	assert.Equal(t, float64(MinWindowSize), w.Size.Width)
	assert.Equal(t, right, w.Position.X+w.Size.Width)
}

func TestResizeFromTopKeepsBottomEdge(t *testing.T) {
	m := NewWindowManager()
	start, _ := m.Open(WindowConsole)
	bottom := start.Position.Y + start.Size.Height

	w, err := m.Resize(WindowConsole, EdgeTop, 0, 60)
	require.NoError(t, err)
	assert.Equal(t, 240.0, w.Size.Height)
	assert.Equal(t, bottom, w.Position.Y+w.Size.Height)
}

func TestResizeRejectsUnknownEdge(t *testing.T) {
	m := NewWindowManager()
	_, _ = m.Open(WindowConsole)
	_, err := m.Resize(WindowConsole, Edge("corner"), 1, 1)
	assert.ErrorIs(t, err, ErrInvalidEdge)
}

func TestSetZoomClamps(t *testing.T) {
	m := NewWindowManager()
	_, _ = m.Open(WindowPreview)
	var w WindowState
	for i := 0; i < 30; i++ {
		w, _ = m.SetZoom(WindowPreview, ZoomStep)
		if w.Zoom < MinZoom || w.Zoom > MaxZoom {
			t.Fatalf("zoom escaped range: %v", w.Zoom)
		}
	}
	assert.Equal(t, MaxZoom, w.Zoom)
	for i := 0; i < 30; i++ {
		w, _ = m.SetZoom(WindowPreview, -ZoomStep)
		if w.Zoom < MinZoom || w.Zoom > MaxZoom {
			t.Fatalf("zoom escaped range: %v", w.Zoom)
		}
	}
	assert.Equal(t, MinZoom, w.Zoom)

	w, _ = m.SetZoom(WindowPreview, 0.3)
	assert.Equal(t, 0.8, w.Zoom)
	w, _ = m.SetZoom(WindowPreview, 50)
	assert.Equal(t, MaxZoom, w.Zoom)
}

func TestMoveClampsVertical(t *testing.T) {
	vp := Viewport{Width: 1024, Height: 768}
	m := NewWindowManager()
	_, _ = m.Open(WindowConsole) // 400x300
	maxY := vp.Height - ChromeHeight - 300

	for _, y := range []float64{-500, -1, 0, 100, maxY, maxY + 1, 5000} {
		w, err := m.Move(WindowConsole, Position{X: -75, Y: y}, vp)
		require.NoError(t, err)
		if w.Position.Y < 0 || w.Position.Y > maxY {
			t.Fatalf("y=%v moved to %v, outside [0,%v]", y, w.Position.Y, maxY)
		}
		assert.Equal(t, -75.0, w.Position.X)
	}
}

func TestMoveInTinyViewportPinsToTop(t *testing.T) {
	m := NewWindowManager()
	_, _ = m.Open(WindowHTMLEditor)
	w, err := m.Move(WindowHTMLEditor, Position{X: 10, Y: 90}, Viewport{Width: 300, Height: 200})
	require.NoError(t, err)
	assert.Equal(t, 0.0, w.Position.Y)
}

func TestMoveRaisesWindow(t *testing.T) {
	m := NewWindowManager()
	_, _ = m.Open(WindowConsole)
	_, _ = m.Open(WindowPreview)
	_, err := m.Move(WindowConsole, Position{X: 5, Y: 5}, Viewport{Width: 1024, Height: 768})
	require.NoError(t, err)
	top, _ := m.Top()
	assert.Equal(t, WindowConsole, top.Type)
}

func TestParseWindowTypeAliases(t *testing.T) {
	cases := map[string]WindowType{
		"generator":   WindowConsole,
		"HTML":        WindowHTMLEditor,
		"css":         WindowCSSEditor,
		"ai":          WindowAssistant,
		"preview":     WindowPreview,
		"code-editor": WindowCodeEditor,
		" console ":   WindowConsole,
	}
	for in, want := range cases {
		got, err := ParseWindowType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseWindowType("desktop")
	assert.ErrorIs(t, err, ErrUnknownWindowType)
}
