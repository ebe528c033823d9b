package api

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"retro_site_builder/internal/preview"
	"retro_site_builder/internal/shell"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type wsInbound struct {
	Type     string          `json:"type"`
	Line     string          `json:"line,omitempty"`
	Text     string          `json:"text,omitempty"`
	Viewport *shell.Viewport `json:"viewport,omitempty"`
}

// wsOutbound carries the whole session on every change. The first message
// written at a new revision also carries the composed preview page for the
// frame's srcdoc, whichever event produced it.
type wsOutbound struct {
	Type     string          `json:"type"`
	Revision int             `json:"revision,omitempty"`
	Snapshot *shell.Snapshot `json:"snapshot,omitempty"`
	Preview  string          `json:"preview,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// GET /sessions/:id/ws
func (h *APIHandler) Watch(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		log.Printf("session ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	writeCh := make(chan wsOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()
		sentRevision := -1

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if out.Snapshot != nil && out.Revision != sentRevision {
					out.Preview = composePreview(s, out.Snapshot)
				}
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
				if out.Preview != "" {
					sentRevision = out.Revision
				}
				if out.Type == string(shell.EventClosed) {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
						time.Now().Add(wsWriteWait))
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	events, unsubscribe := s.Subscribe(16)
	defer unsubscribe()

	pushWS(writeCh, sessionMessage(s, "snapshot"))

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok || evt.Kind == shell.EventClosed {
					pushWS(writeCh, wsOutbound{Type: string(shell.EventClosed)})
					return
				}
				pushWS(writeCh, sessionMessage(s, string(evt.Kind)))
			}
		}
	}()

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		switch msgType := strings.ToLower(strings.TrimSpace(in.Type)); msgType {
		case "ping":
			pushWS(writeCh, wsOutbound{Type: "pong"})
		case "console":
			go h.interpreter.Execute(ctx, s, in.Line)
		case "assistant":
			go h.assistant.Assist(ctx, s, in.Text)
		case "viewport":
			if in.Viewport == nil {
				pushWS(writeCh, wsOutbound{Type: "error", Message: "viewport is required"})
				continue
			}
			if err := s.SetViewport(*in.Viewport); err != nil {
				pushWS(writeCh, wsOutbound{Type: "error", Message: err.Error()})
			}
		case "":
			pushWS(writeCh, wsOutbound{Type: "error", Message: "type is required"})
		default:
			pushWS(writeCh, wsOutbound{Type: "error", Message: "unsupported type: " + msgType})
		}
	}
}

func sessionMessage(s *shell.Session, kind string) wsOutbound {
	snap := s.Snapshot()
	return wsOutbound{Type: kind, Revision: snap.Revision, Snapshot: &snap}
}

func composePreview(s *shell.Session, snap *shell.Snapshot) string {
	page, err := preview.Compose(snap.Document)
	if err != nil {
		log.Printf("Error composing preview for session %s: %v", s.ID(), err)
		return ""
	}
	return page
}

// pushWS never blocks: when the writer is behind the oldest message is dropped.
func pushWS(writeCh chan wsOutbound, out wsOutbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
