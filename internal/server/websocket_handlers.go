package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/MeKo-Tech/boxlabel/internal/editor"
	"github.com/MeKo-Tech/boxlabel/internal/input"
	"github.com/gorilla/websocket"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
	eventBuffer  = 64
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// the editor is usually served from another origin during development
		return true
	},
}

// ClientMessage is an input event sent by the editor client.
//
//	{"type":"pointer","kind":"down","x":10,"y":20}
//	{"type":"key","code":5}
//	{"type":"key","name":"ctrl+e"}
//	{"type":"text","text":"cat"}
type ClientMessage struct {
	Type string `json:"type"`
	Kind string `json:"kind,omitempty"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Code *int   `json:"code,omitempty"`
	Name string `json:"name,omitempty"`
	Text string `json:"text,omitempty"`
}

// WebSocketErrorMessage reports a rejected client message or a failed session.
type WebSocketErrorMessage struct {
	Type      string `json:"type"`
	Error     string `json:"error"`
	ErrorType string `json:"error_type,omitempty"`
}

// WebSocketConnWriter is an interface for writing WebSocket messages.
type WebSocketConnWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// lockedWriter serializes writes from the session and reader goroutines.
type lockedWriter struct {
	mu   sync.Mutex
	conn WebSocketConnWriter
}

func (w *lockedWriter) WriteMessage(messageType int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.WriteMessage(messageType, data); err != nil {
		return err
	}
	websocketMessagesTotal.WithLabelValues("sent").Inc()
	return nil
}

// DecodeClientMessage converts a client message to editor events.
func DecodeClientMessage(data []byte) ([]editor.Event, error) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	switch msg.Type {
	case "pointer":
		kind, err := editor.ParsePointerKind(msg.Kind)
		if err != nil {
			return nil, err
		}
		return []editor.Event{editor.PointerEvent{Kind: kind, X: msg.X, Y: msg.Y}}, nil
	case "key":
		if msg.Code != nil {
			if *msg.Code < 0 {
				return nil, fmt.Errorf("invalid key code %d", *msg.Code)
			}
			return []editor.Event{editor.KeyEvent{Code: editor.Key(*msg.Code)}}, nil
		}
		k, err := editor.ParseKey(msg.Name)
		if err != nil {
			return nil, err
		}
		return []editor.Event{editor.KeyEvent{Code: k}}, nil
	case "text":
		events := make([]editor.Event, 0, len(msg.Text))
		for _, r := range msg.Text {
			events = append(events, editor.KeyEvent{Code: editor.Key(r)})
		}
		return events, nil
	}
	return nil, fmt.Errorf("unsupported message type %q", msg.Type)
}

// editorWebSocketHandler attaches a client to the annotation session. Only
// one client may be attached at a time; the session is saved when it leaves.
func (s *Server) editorWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if !s.editorActive.CompareAndSwap(false, true) {
		websocketRejected.Inc()
		s.writeErrorResponse(w, "Another editor is already connected", http.StatusConflict)
		return
	}
	defer s.editorActive.Store(false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done, ok := s.attachEditor(cancel)
	if !ok {
		websocketRejected.Inc()
		s.writeErrorResponse(w, "Server is shutting down", http.StatusServiceUnavailable)
		return
	}
	defer s.detachEditor(done)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	remote := getClientIP(r)
	s.logger.Info("Editor connected", "remote_addr", remote)

	out := &lockedWriter{conn: conn}
	events := make(chan editor.Event, eventBuffer)
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		s.readEditorMessages(ctx, conn, out, events)
	}()

	runErr := s.app.Run(ctx, input.NewChannel(events), s.newFrameRenderer(out))
	cancel()

	closeCode, reason := websocket.CloseNormalClosure, "session ended"
	switch {
	case s.isClosed():
		closeCode, reason = websocket.CloseGoingAway, "server shutting down"
	case runErr != nil && !errors.Is(runErr, context.Canceled):
		s.logger.Error("Editor session failed", "remote_addr", remote, "error", runErr)
		s.sendWebSocketError(out, "session_error", runErr.Error())
		closeCode, reason = websocket.CloseInternalServerErr, "session failed"
	}
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(closeCode, reason), time.Now().Add(writeTimeout))
	_ = conn.Close()
	<-readerDone

	s.logger.Info("Editor disconnected", "remote_addr", remote)
}

// readEditorMessages forwards decoded client messages to events until the
// connection fails or ctx is done. It closes events on return.
func (s *Server) readEditorMessages(ctx context.Context, conn *websocket.Conn, out WebSocketConnWriter, events chan<- editor.Event) {
	defer close(events)

	// Set read deadline to prevent hanging connections
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	// Send ping messages to keep connection alive
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeTimeout)); err != nil {
					return
				}
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && ctx.Err() == nil {
				s.logger.Warn("WebSocket error", "error", err)
			}
			return
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()
		if messageType != websocket.TextMessage {
			continue
		}

		evs, err := DecodeClientMessage(data)
		if err != nil {
			s.sendWebSocketError(out, "invalid_request", err.Error())
			continue
		}
		for _, ev := range evs {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

// sendWebSocketError sends an error message over WebSocket.
func (s *Server) sendWebSocketError(conn WebSocketConnWriter, errorType, message string) {
	data, err := json.Marshal(WebSocketErrorMessage{
		Type:      "error",
		Error:     message,
		ErrorType: errorType,
	})
	if err != nil {
		s.logger.Error("Failed to marshal WebSocket error response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.logger.Debug("Failed to send WebSocket error message", "error", err)
	}
}
