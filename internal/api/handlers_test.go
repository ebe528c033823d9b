package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	routes "retro_site_builder/api"
	"retro_site_builder/internal/ai"
	"retro_site_builder/internal/api"
	"retro_site_builder/internal/export"
	"retro_site_builder/internal/session"
	"retro_site_builder/internal/shell"
	"retro_site_builder/internal/types"
)

type fakeGenerator struct {
	resp ai.Response
	err  error
}

func (f *fakeGenerator) Process(_ context.Context, _ string) (ai.Response, error) {
	return f.resp, f.err
}

func newRouter(t *testing.T, gen ai.Collaborator, exporter export.Exporter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := session.NewStore(8, shell.Viewport{Width: 1024, Height: 768})
	require.NoError(t, err)
	t.Cleanup(store.Close)

	router := gin.New()
	routes.RegisterRoutes(router, api.NewAPIHandler(gen, store, exporter, time.Second))
	return router
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createSession(t *testing.T, router http.Handler) shell.Snapshot {
	t.Helper()
	w := do(t, router, http.MethodPost, "/sessions", map[string]any{"viewport": map[string]float64{"width": 1200, "height": 800}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[shell.Snapshot](t, w)
}

func TestHealth(t *testing.T) {
	w := do(t, newRouter(t, nil, nil), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestShellPage(t *testing.T) {
	w := do(t, newRouter(t, nil, nil), http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), `sandbox", "allow-scripts"`)
}

func TestProcess(t *testing.T) {
	router := newRouter(t, nil, nil)
	w := do(t, router, http.MethodPost, "/api/process", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/api/process", map[string]string{"prompt": "landing page"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"API key not configured"}`, w.Body.String())

	gen := &fakeGenerator{resp: ai.Response{Success: true, HTML: "<div/>", CSS: "div{}"}}
	w = do(t, newRouter(t, gen, nil), http.MethodPost, "/api/process", map[string]string{"command": "landing page"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[ai.Response](t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, "div{}", resp.CSS)

	gen = &fakeGenerator{err: &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"}}
	w = do(t, newRouter(t, gen, nil), http.MethodPost, "/api/process", map[string]string{"prompt": "x"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	gen = &fakeGenerator{err: ai.ErrNotConfigured}
	w = do(t, newRouter(t, gen, nil), http.MethodPost, "/api/process", map[string]string{"prompt": "x"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGenerateWebsite(t *testing.T) {
	router := newRouter(t, nil, nil)
	body := map[string]any{
		"command":     "add-heading Hello",
		"currentCode": types.WebsiteCode{HTML: "<div>old</div>", CSS: "a{}"},
	}
	w := do(t, router, http.MethodPost, "/api/generate-website", body)
	require.Equal(t, http.StatusOK, w.Code)
	code := decode[types.WebsiteCode](t, w)
	assert.Equal(t, "<div>old<h1>Hello</h1></div>", code.HTML)
	assert.Equal(t, "a{}", code.CSS)

	body["command"] = "launch rockets"
	w = do(t, router, http.MethodPost, "/api/generate-website", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Unknown command"}`, w.Body.String())
}

func TestSessionLifecycle(t *testing.T) {
	router := newRouter(t, nil, nil)
	snap := createSession(t, router)
	assert.Len(t, snap.Windows, 3)
	assert.Equal(t, shell.Viewport{Width: 1200, Height: 800}, snap.Viewport)

	w := do(t, router, http.MethodGet, "/sessions/"+snap.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodDelete, "/sessions/"+snap.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = do(t, router, http.MethodGet, "/sessions/"+snap.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, router, http.MethodPost, "/sessions/nope/console", map[string]string{"line": "help"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWindowEndpoints(t *testing.T) {
	router := newRouter(t, nil, nil)
	id := createSession(t, router).ID
	base := "/sessions/" + id + "/windows/"

	w := do(t, router, http.MethodPost, base+"html/open", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	win := decode[shell.WindowState](t, w)
	assert.Equal(t, shell.WindowHTMLEditor, win.Type)

	w = do(t, router, http.MethodPost, base+"html-editor/move", map[string]float64{"x": 50, "y": 5000})
	require.Equal(t, http.StatusOK, w.Code)
	win = decode[shell.WindowState](t, w)
	assert.Equal(t, 800.0-shell.ChromeHeight-400, win.Position.Y)

	w = do(t, router, http.MethodPost, base+"html-editor/resize", map[string]any{"edge": "right", "dx": -1000})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(shell.MinWindowSize), decode[shell.WindowState](t, w).Size.Width)

	w = do(t, router, http.MethodPost, base+"html-editor/resize", map[string]any{"edge": "corner", "dx": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, base+"html-editor/zoom", map[string]float64{"delta": 5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, shell.MaxZoom, decode[shell.WindowState](t, w).Zoom)

	w = do(t, router, http.MethodPost, base+"html-editor/zoom", map[string]float64{"delta": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, shell.MaxZoom, decode[shell.WindowState](t, w).Zoom)

	w = do(t, router, http.MethodPost, base+"html-editor/zoom", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, base+"html-editor/minimize", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[shell.WindowState](t, w).Minimized)

	w = do(t, router, http.MethodGet, base+"html-editor/view", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "chip", decode[map[string]any](t, w)["kind"])

	w = do(t, router, http.MethodDelete, base+"html-editor", nil)
	assert.JSONEq(t, `{"closed":true}`, w.Body.String())
	w = do(t, router, http.MethodDelete, base+"html-editor", nil)
	assert.JSONEq(t, `{"closed":false}`, w.Body.String())

	w = do(t, router, http.MethodPost, base+"html-editor/front", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, router, http.MethodPost, base+"taskbar/open", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDocumentConsoleAndPreview(t *testing.T) {
	router := newRouter(t, nil, nil)
	id := createSession(t, router).ID

	w := do(t, router, http.MethodPut, "/sessions/"+id+"/document/html", map[string]string{"content": "<div>old</div>"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodPost, "/sessions/"+id+"/console", map[string]string{"line": "add-text Fresh words"})
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[map[string]any](t, w)
	assert.Equal(t, true, out["mutated"])

	w = do(t, router, http.MethodGet, "/sessions/"+id+"/preview", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sandbox allow-scripts", w.Header().Get("Content-Security-Policy"))
	assert.Contains(t, w.Body.String(), "<div>old<p>Fresh words</p></div>")

	w = do(t, router, http.MethodGet, "/sessions/"+id+"/export/index.html", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html", w.Header().Get("Content-Type"))
	assert.Equal(t, "<div>old<p>Fresh words</p></div>", w.Body.String())

	w = do(t, router, http.MethodGet, "/sessions/"+id+"/export/styles.css", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/css", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="styles.css"`, w.Header().Get("Content-Disposition"))

	w = do(t, router, http.MethodGet, "/sessions/"+id+"/export/secrets.txt", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPut, "/sessions/"+id+"/document/python", map[string]string{"content": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPut, "/sessions/"+id+"/document/html", map[string]string{"content": `<frameset cols="50%,50%"><frame src="a.html"></frameset>`})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, router, http.MethodGet, "/sessions/"+id+"/preview", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "<frameset")
}

func TestAssistantEndpoint(t *testing.T) {
	gen := &fakeGenerator{resp: ai.Response{Success: true, HTML: "<main>ai</main>", CSS: "main{}"}}
	router := newRouter(t, gen, nil)
	id := createSession(t, router).ID

	w := do(t, router, http.MethodPost, "/sessions/"+id+"/assistant", map[string]string{"text": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/sessions/"+id+"/assistant", map[string]string{"text": "a page please"})
	require.Equal(t, http.StatusOK, w.Code)

	snap := decode[shell.Snapshot](t, do(t, router, http.MethodGet, "/sessions/"+id, nil))
	assert.Equal(t, "<main>ai</main>", snap.Document.HTML)
	require.Len(t, snap.Conversation, 3)
	assert.Equal(t, types.RoleUser, snap.Conversation[1].Role)
}

func TestSave(t *testing.T) {
	router := newRouter(t, nil, nil)
	id := createSession(t, router).ID
	w := do(t, router, http.MethodPost, "/sessions/"+id+"/save", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	router = newRouter(t, nil, export.NewDiskExporter(t.TempDir()))
	id = createSession(t, router).ID
	w = do(t, router, http.MethodPost, "/sessions/"+id+"/save", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[export.Result](t, w)
	assert.Equal(t, []string{"index.html", "styles.css"}, res.Files)
}

func TestWatchPushesPreviewOnDocumentChange(t *testing.T) {
	router := newRouter(t, nil, nil)
	srv := httptest.NewServer(router)
	defer srv.Close()
	id := createSession(t, router).ID

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/sessions/"+id+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	first := readMessage(t, conn)
	assert.Equal(t, "snapshot", first["type"])
	assert.Contains(t, first["preview"], "Welcome to your new website")

	w := do(t, router, http.MethodPut, "/sessions/"+id+"/document/html", map[string]string{"content": "<div>pushed</div>"})
	require.Equal(t, http.StatusOK, w.Code)
	msg := readUntilRevision(t, conn, 1)
	assert.Contains(t, msg["preview"], "<div>pushed</div>")

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "console", "line": "change-color teal"}))
	msg = readUntilRevision(t, conn, 2)
	assert.Contains(t, msg["preview"], "background-color: teal")
}

func TestWatchSendsPreviewWithEveryNewRevision(t *testing.T) {
	router := newRouter(t, nil, nil)
	srv := httptest.NewServer(router)
	defer srv.Close()
	id := createSession(t, router).ID

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/sessions/"+id+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	readMessage(t, conn)

	const edits = 40
	for i := 1; i <= edits; i++ {
		w := do(t, router, http.MethodPost, "/sessions/"+id+"/console", map[string]string{"line": fmt.Sprintf("add-text line %d", i)})
		require.Equal(t, http.StatusOK, w.Code)
	}

	seen := 0
	for seen < edits {
		msg := readMessage(t, conn)
		rev, ok := msg["revision"].(float64)
		if !ok || int(rev) == seen {
			continue
		}
		require.Greater(t, int(rev), seen)
		assert.NotEmpty(t, msg["preview"], "revision %d arrived without a preview", int(rev))
		assert.Contains(t, msg["preview"], fmt.Sprintf("line %d</p>", int(rev)))
		seen = int(rev)
	}
}

// readUntilRevision skips messages until one at rev arrives; that message
// must carry the preview.
func readUntilRevision(t *testing.T, conn *websocket.Conn, rev int) map[string]any {
	t.Helper()
	for {
		msg := readMessage(t, conn)
		if got, ok := msg["revision"].(float64); ok && int(got) >= rev {
			return msg
		}
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	var msg map[string]any
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read websocket message: %v", err)
	}
	return msg
}
