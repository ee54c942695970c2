package server

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"

	"github.com/MeKo-Tech/boxlabel/internal/editor"
	"github.com/MeKo-Tech/boxlabel/internal/mempool"
	"github.com/MeKo-Tech/boxlabel/internal/render"
	"github.com/gorilla/websocket"
)

// DrawOp is one draw call of a frame. Rectangles and lines use both points,
// text uses X0/Y0 as the baseline origin.
type DrawOp struct {
	Op    string `json:"op"`
	Style string `json:"style"`
	X0    int    `json:"x0"`
	Y0    int    `json:"y0"`
	X1    int    `json:"x1"`
	Y1    int    `json:"y1"`
	Text  string `json:"text,omitempty"`
}

// FrameMessage carries the draw calls of one frame in ops mode. The client
// draws them over /image/{image}.
type FrameMessage struct {
	Type   string   `json:"type"`
	Image  int      `json:"image"`
	Name   string   `json:"name"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Ops    []DrawOp `json:"ops"`
}

// opsRenderer sends each frame as a list of draw operations. Text is
// measured with the raster font so layout matches the png mode.
type opsRenderer struct {
	s       *Server
	out     WebSocketConnWriter
	measure *render.Raster
	size    image.Point
	ops     []DrawOp
}

var _ editor.Renderer = (*opsRenderer)(nil)
var _ editor.TextMeasurer = (*opsRenderer)(nil)

func (r *opsRenderer) Clear(img image.Image) {
	r.size = img.Bounds().Size()
	r.ops = r.ops[:0]
}

func (r *opsRenderer) DrawRectangle(rect image.Rectangle, s editor.Style) {
	r.ops = append(r.ops, DrawOp{Op: "rect", Style: s.String(), X0: rect.Min.X, Y0: rect.Min.Y, X1: rect.Max.X, Y1: rect.Max.Y})
}

func (r *opsRenderer) DrawLine(p0, p1 image.Point, s editor.Style) {
	r.ops = append(r.ops, DrawOp{Op: "line", Style: s.String(), X0: p0.X, Y0: p0.Y, X1: p1.X, Y1: p1.Y})
}

func (r *opsRenderer) DrawText(text string, origin image.Point, s editor.Style) {
	r.ops = append(r.ops, DrawOp{Op: "text", Style: s.String(), X0: origin.X, Y0: origin.Y, Text: text})
}

func (r *opsRenderer) MeasureText(text string) image.Point {
	return r.measure.MeasureText(text)
}

func (r *opsRenderer) Present() error {
	msg := FrameMessage{
		Type:   "frame",
		Image:  r.s.app.CurrentIndex(),
		Width:  r.size.X,
		Height: r.size.Y,
		Ops:    r.ops,
	}
	if f := r.s.app.Frame(); f != nil {
		msg.Name = f.Name
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal frame: %w", err)
	}
	frameBytes.WithLabelValues(FrameModeOps).Observe(float64(len(data)))
	return r.out.WriteMessage(websocket.TextMessage, data)
}

// newFrameRenderer returns the renderer for the configured frame mode. In
// png mode every frame is rasterized and sent as a binary message.
func (s *Server) newFrameRenderer(out WebSocketConnWriter) editor.Renderer {
	if s.frameMode == FrameModePNG {
		return render.NewRaster(s.palette, render.WithPresenter(func(frame *image.RGBA) error {
			b := frame.Bounds()
			buf := mempool.GetBuffer(mempool.FrameSizeHint(b.Dx(), b.Dy()))
			defer mempool.PutBuffer(buf)
			if err := png.Encode(buf, frame); err != nil {
				return fmt.Errorf("encode frame: %w", err)
			}
			frameBytes.WithLabelValues(FrameModePNG).Observe(float64(buf.Len()))
			return out.WriteMessage(websocket.BinaryMessage, buf.Bytes())
		}))
	}
	return &opsRenderer{
		s:       s,
		out:     out,
		measure: render.NewRaster(s.palette),
	}
}
