package server

import (
	"encoding/json"
	"image"
	"testing"

	"github.com/MeKo-Tech/boxlabel/internal/editor"
	"github.com/MeKo-Tech/boxlabel/internal/render"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpsRenderer(t *testing.T) {
	server := newTestServer(t, twoImages(t).ListPath, FrameModeOps)
	require.NoError(t, server.app.Open())
	conn := &mockWebSocketConn{}

	r, ok := server.newFrameRenderer(conn).(*opsRenderer)
	require.True(t, ok)

	r.Clear(image.NewRGBA(image.Rect(0, 0, 100, 50)))
	r.DrawRectangle(image.Rect(1, 2, 3, 4), editor.StyleBox)
	r.DrawLine(image.Pt(5, 6), image.Pt(7, 8), editor.StyleActiveEdge)
	r.DrawText("cat", image.Pt(9, 10), editor.StyleLabel)
	require.NoError(t, r.Present())

	require.Len(t, conn.sentMessages, 1)
	assert.Equal(t, websocket.TextMessage, conn.sentMessages[0].messageType)

	var frame FrameMessage
	require.NoError(t, json.Unmarshal(conn.sentMessages[0].data, &frame))
	assert.Equal(t, FrameMessage{
		Type:   "frame",
		Image:  0,
		Name:   "a.png",
		Width:  100,
		Height: 50,
		Ops: []DrawOp{
			{Op: "rect", Style: "box", X0: 1, Y0: 2, X1: 3, Y1: 4},
			{Op: "line", Style: "active_edge", X0: 5, Y0: 6, X1: 7, Y1: 8},
			{Op: "text", Style: "label", X0: 9, Y0: 10, Text: "cat"},
		},
	}, frame)

	// Clear starts a new op list
	r.Clear(image.NewRGBA(image.Rect(0, 0, 10, 10)))
	require.NoError(t, r.Present())
	require.NoError(t, json.Unmarshal(conn.sentMessages[1].data, &frame))
	assert.Empty(t, frame.Ops)
	assert.Equal(t, 10, frame.Width)
}

func TestOpsRendererMeasuresLikeRaster(t *testing.T) {
	server := newTestServer(t, twoImages(t).ListPath, FrameModeOps)
	r := server.newFrameRenderer(&mockWebSocketConn{})

	m, ok := r.(editor.TextMeasurer)
	require.True(t, ok)
	assert.Equal(t, render.NewRaster(render.DefaultPalette()).MeasureText("a\nbc"), m.MeasureText("a\nbc"))
}

func TestNewFrameRendererPNG(t *testing.T) {
	server := newTestServer(t, twoImages(t).ListPath, FrameModePNG)
	_, ok := server.newFrameRenderer(&mockWebSocketConn{}).(*render.Raster)
	assert.True(t, ok)
}
