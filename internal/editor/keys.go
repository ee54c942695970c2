package editor

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/MeKo-Tech/boxlabel/internal/textedit"
)

// Key is a key code. Values below utf8.MaxRune are characters, with the
// ASCII control range carrying Ctrl combinations; navigation keys live above
// the Unicode range.
type Key rune

// Control characters.
const (
	KeyCtrlA     Key = 0x01
	KeyCtrlB     Key = 0x02
	KeyCtrlD     Key = 0x04
	KeyCtrlE     Key = 0x05
	KeyCtrlF     Key = 0x06
	KeyBackspace Key = 0x08
	KeyTab       Key = 0x09
	KeyLineFeed  Key = 0x0a
	KeyCtrlK     Key = 0x0b
	KeyEnter     Key = 0x0d
	KeyCtrlN     Key = 0x0e
	KeyCtrlP     Key = 0x10
	KeyCtrlQ     Key = 0x11
	KeyCtrlS     Key = 0x13
	KeyCtrlU     Key = 0x15
	KeyCtrlX     Key = 0x18
	KeyEscape    Key = 0x1b
	KeyDEL       Key = 0x7f
)

// Navigation keys.
const (
	KeyLeft Key = utf8.MaxRune + 1 + iota
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyDelete
)

var keyNames = map[string]Key{
	"enter":     KeyEnter,
	"return":    KeyEnter,
	"esc":       KeyEscape,
	"escape":    KeyEscape,
	"backspace": KeyBackspace,
	"del":       KeyDEL,
	"delete":    KeyDelete,
	"tab":       KeyTab,
	"space":     ' ',
	"left":      KeyLeft,
	"right":     KeyRight,
	"up":        KeyUp,
	"down":      KeyDown,
	"home":      KeyHome,
	"end":       KeyEnd,
}

// ParseKey parses a key name such as "a", "ctrl+e", "enter" or "left".
func ParseKey(name string) (Key, error) {
	if name == "" {
		return 0, fmt.Errorf("empty key name")
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return Key(r), nil
	}

	lower := strings.ToLower(name)
	if k, ok := keyNames[lower]; ok {
		return k, nil
	}
	for _, prefix := range []string{"ctrl+", "ctrl-", "c-", "^"} {
		rest, found := strings.CutPrefix(lower, prefix)
		if !found || len(rest) != 1 {
			continue
		}
		c := rest[0]
		if c >= 'a' && c <= 'z' {
			return Key(c - 'a' + 1), nil
		}
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

// Printable reports whether the key inserts a character into a label.
func (k Key) Printable() bool {
	return k >= 0 && k <= utf8.MaxRune && textedit.Printable(rune(k))
}

func (k Key) String() string {
	switch k {
	case KeyEnter:
		return "enter"
	case KeyEscape:
		return "esc"
	case KeyBackspace:
		return "backspace"
	case KeyDEL:
		return "del"
	case KeyTab:
		return "tab"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyHome:
		return "home"
	case KeyEnd:
		return "end"
	case KeyDelete:
		return "delete"
	case ' ':
		return "space"
	}
	if k >= 1 && k <= 26 {
		return "ctrl+" + string(rune('a'+k-1))
	}
	if k.Printable() {
		return string(rune(k))
	}
	return fmt.Sprintf("key(%#x)", int32(k))
}

// HelpText lists the key bindings of both modes.
func HelpText() string {
	return `VIEW MODE
  i / k / j / l, arrows   move box up / down / left / right by one unit
  ^ / _                   grow / shrink box height by one unit
  > / <                   grow / shrink box width by one unit
  + / -                   increase / decrease the unit size (default 5)
  ctrl+e                  edit label
  ctrl+d, delete          remove box
  ctrl+n / ctrl+p         next / previous image (saves first)
  ctrl+s                  save
  ctrl+x                  export annotated image
  h                       help
  ctrl+q                  save and quit

EDIT MODE
  enter                   confirm
  esc                     cancel
  backspace, del          delete character before the cursor
  ctrl+d, delete          delete character after the cursor
  ctrl+a, home            move to start
  ctrl+e, end             move to end
  ctrl+b / ctrl+f, arrows move left / right
  ctrl+k                  delete to end
  ctrl+u                  delete to start`
}
