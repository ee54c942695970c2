package server

import (
	"io"
	"log/slog"
	"testing"

	"github.com/MeKo-Tech/boxlabel/internal/app"
	"github.com/MeKo-Tech/boxlabel/internal/editor"
	"github.com/MeKo-Tech/boxlabel/internal/render"
	"github.com/MeKo-Tech/boxlabel/internal/session"
	"github.com/MeKo-Tech/boxlabel/internal/testutil"
	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// mockWebSocketConn records written messages.
type mockWebSocketConn struct {
	sentMessages []sentMessage
}

type sentMessage struct {
	messageType int
	data        []byte
}

func (m *mockWebSocketConn) WriteMessage(messageType int, data []byte) error {
	m.sentMessages = append(m.sentMessages, sentMessage{
		messageType: messageType,
		data:        append([]byte(nil), data...),
	})
	return nil
}

func twoImages(t *testing.T) *testutil.Workspace {
	t.Helper()
	return testutil.NewWorkspace(t,
		testutil.ImageSpec{Name: "a.png", Width: 100, Height: 50},
		testutil.ImageSpec{Name: "b.png", Width: 80, Height: 60},
	)
}

func newTestApp(t *testing.T, listPath string) *app.App {
	t.Helper()
	sess, err := session.NewManager(listPath, session.WithLogger(quietLogger))
	require.NoError(t, err)
	return app.New(editor.New(editor.DefaultConfig()), sess, app.Options{
		Palette: render.DefaultPalette(),
		Logger:  quietLogger,
	})
}

func newTestServer(t *testing.T, listPath, frameMode string) *Server {
	t.Helper()
	return NewServer(newTestApp(t, listPath), Config{
		CORSOrigin: "*",
		FrameMode:  frameMode,
		Palette:    render.DefaultPalette(),
		Logger:     quietLogger,
	})
}
