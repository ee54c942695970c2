// Package textedit implements the cursor-indexed line buffer used to edit
// box labels.
package textedit

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Buffer is a single line of text with a cursor. The cursor counts runes and
// is always within [0, Len()].
type Buffer struct {
	text   []rune
	cursor int
}

// New returns a buffer holding s with the cursor at the end.
func New(s string) *Buffer {
	b := &Buffer{}
	b.Reset(s)
	return b
}

// Reset replaces the content and moves the cursor to the end.
func (b *Buffer) Reset(s string) {
	b.text = []rune(s)
	b.cursor = len(b.text)
}

// String returns the current text.
func (b *Buffer) String() string { return string(b.text) }

// Len returns the text length in runes.
func (b *Buffer) Len() int { return len(b.text) }

// Cursor returns the cursor position in runes.
func (b *Buffer) Cursor() int { return b.cursor }

// Insert inserts s at the cursor and advances the cursor past it.
// Characters that are not printable are dropped.
func (b *Buffer) Insert(s string) {
	ins := make([]rune, 0, len(s))
	for _, r := range s {
		if Printable(r) {
			ins = append(ins, r)
		}
	}
	if len(ins) == 0 {
		return
	}
	text := make([]rune, 0, len(b.text)+len(ins))
	text = append(text, b.text[:b.cursor]...)
	text = append(text, ins...)
	text = append(text, b.text[b.cursor:]...)
	b.text = text
	b.cursor += len(ins)
}

// Backspace deletes the rune before the cursor.
func (b *Buffer) Backspace() bool {
	if b.cursor == 0 {
		return false
	}
	b.text = append(b.text[:b.cursor-1], b.text[b.cursor:]...)
	b.cursor--
	return true
}

// Delete deletes the rune after the cursor.
func (b *Buffer) Delete() bool {
	if b.cursor >= len(b.text) {
		return false
	}
	b.text = append(b.text[:b.cursor], b.text[b.cursor+1:]...)
	return true
}

// Home moves the cursor to the start.
func (b *Buffer) Home() { b.cursor = 0 }

// End moves the cursor to the end.
func (b *Buffer) End() { b.cursor = len(b.text) }

// Left moves the cursor one rune left.
func (b *Buffer) Left() {
	if b.cursor > 0 {
		b.cursor--
	}
}

// Right moves the cursor one rune right.
func (b *Buffer) Right() {
	if b.cursor < len(b.text) {
		b.cursor++
	}
}

// KillToEnd deletes everything from the cursor to the end.
func (b *Buffer) KillToEnd() {
	b.text = b.text[:b.cursor]
}

// KillToStart deletes everything before the cursor and moves it to 0.
func (b *Buffer) KillToStart() {
	b.text = append([]rune(nil), b.text[b.cursor:]...)
	b.cursor = 0
}

// Display renders the text with marker inserted at the cursor position.
func (b *Buffer) Display(marker string) string {
	var sb strings.Builder
	sb.WriteString(string(b.text[:b.cursor]))
	sb.WriteString(marker)
	sb.WriteString(string(b.text[b.cursor:]))
	return sb.String()
}

// Commit returns the text in NFC form, the representation labels are stored in.
func (b *Buffer) Commit() string {
	return norm.NFC.String(string(b.text))
}

// Printable reports whether r may be typed into a label. Tabs and line
// breaks are excluded since they delimit box records.
func Printable(r rune) bool {
	return r != '\t' && unicode.IsPrint(r)
}
