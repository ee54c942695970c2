package input

import (
	"context"
	"io"

	"github.com/MeKo-Tech/boxlabel/internal/editor"
)

// Channel is an InputSource fed by another goroutine. Closing the channel
// ends the stream.
type Channel struct {
	ch <-chan editor.Event
}

var _ editor.InputSource = Channel{}

// NewChannel returns a source reading from ch.
func NewChannel(ch <-chan editor.Event) Channel {
	return Channel{ch: ch}
}

// Next blocks until an event arrives, ch is closed (io.EOF) or ctx is done.
func (c Channel) Next(ctx context.Context) (editor.Event, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case ev, ok := <-c.ch:
		if !ok {
			return nil, io.EOF
		}
		return ev, nil
	}
}
