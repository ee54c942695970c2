// Package input provides editor.InputSource implementations.
package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/boxlabel/internal/editor"
)

// ScriptError describes a script line that could not be parsed.
type ScriptError struct {
	Line int
	Text string
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script line %d: %v", e.Line, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

var errUsage = errors.New("bad arguments")

// Script replays a fixed list of events.
//
// The text form has one directive per line:
//
//	down X Y | move X Y | up X Y
//	drag X0 Y0 X1 Y1       down, move and up
//	key NAME               see editor.ParseKey
//	type TEXT              one key per rune of the rest of the line
//
// Blank lines and lines starting with # are ignored.
type Script struct {
	events []editor.Event
	pos    int
}

var _ editor.InputSource = (*Script)(nil)

// NewScript wraps a list of events.
func NewScript(events ...editor.Event) *Script {
	return &Script{events: events}
}

// LoadScript parses the script file at path.
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path) //nolint:gosec // G304: script path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseScript(f)
}

// ParseScript parses a script from r.
func ParseScript(r io.Reader) (*Script, error) {
	s := &Script{}
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		events, err := parseDirective(trimmed)
		if err != nil {
			return nil, &ScriptError{Line: n, Text: line, Err: err}
		}
		s.events = append(s.events, events...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return s, nil
}

func parseDirective(line string) ([]editor.Event, error) {
	verb, rest, _ := strings.Cut(line, " ")
	verb = strings.ToLower(verb)

	switch verb {
	case "down", "move", "up":
		kind, err := editor.ParsePointerKind(verb)
		if err != nil {
			return nil, err
		}
		xy, err := ints(rest, 2)
		if err != nil {
			return nil, err
		}
		return []editor.Event{editor.PointerEvent{Kind: kind, X: xy[0], Y: xy[1]}}, nil

	case "drag":
		v, err := ints(rest, 4)
		if err != nil {
			return nil, err
		}
		return []editor.Event{
			editor.PointerEvent{Kind: editor.PointerDown, X: v[0], Y: v[1]},
			editor.PointerEvent{Kind: editor.PointerMove, X: v[2], Y: v[3]},
			editor.PointerEvent{Kind: editor.PointerUp, X: v[2], Y: v[3]},
		}, nil

	case "key":
		var events []editor.Event
		for _, name := range strings.Fields(rest) {
			k, err := editor.ParseKey(name)
			if err != nil {
				return nil, err
			}
			events = append(events, editor.KeyEvent{Code: k})
		}
		if len(events) == 0 {
			return nil, fmt.Errorf("%w: key needs a name", errUsage)
		}
		return events, nil

	case "type":
		var events []editor.Event
		for _, r := range rest {
			events = append(events, editor.KeyEvent{Code: editor.Key(r)})
		}
		return events, nil
	}
	return nil, fmt.Errorf("unknown directive %q", verb)
}

func ints(s string, n int) ([]int, error) {
	fields := strings.Fields(s)
	if len(fields) != n {
		return nil, fmt.Errorf("%w: want %d numbers, got %d", errUsage, n, len(fields))
	}
	out := make([]int, n)
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errUsage, err)
		}
		out[i] = v
	}
	return out, nil
}

// Events returns the remaining events.
func (s *Script) Events() []editor.Event { return s.events[s.pos:] }

// Len returns the total number of events.
func (s *Script) Len() int { return len(s.events) }

// Next returns the next event, or io.EOF after the last one.
func (s *Script) Next(ctx context.Context) (editor.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.events) {
		return nil, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}
