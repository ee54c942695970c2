package textedit

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestInsertThenBackspaceRestores verifies that typing one character and
// deleting it again is invisible, for any cursor position.
func TestInsertThenBackspaceRestores(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("insert then backspace is identity", prop.ForAll(
		func(text string, pos int, c rune) bool {
			b := New(text)
			b.Home()
			for range pos % (b.Len() + 1) {
				b.Right()
			}
			before, cursor := b.String(), b.Cursor()

			b.Insert(string(c))
			if b.Cursor() != cursor+1 {
				return false
			}
			b.Backspace()
			return b.String() == before && b.Cursor() == cursor
		},
		gen.AlphaString(),
		gen.IntRange(0, 100),
		gen.RuneRange('!', '~'),
	))

	properties.Property("cursor stays in range under any edit sequence", prop.ForAll(
		func(text string, ops []int) bool {
			b := New(text)
			for _, op := range ops {
				switch op {
				case 0:
					b.Insert("x")
				case 1:
					b.Backspace()
				case 2:
					b.Delete()
				case 3:
					b.Home()
				case 4:
					b.End()
				case 5:
					b.Left()
				case 6:
					b.Right()
				case 7:
					b.KillToEnd()
				case 8:
					b.KillToStart()
				}
				if b.Cursor() < 0 || b.Cursor() > b.Len() {
					return false
				}
			}
			return true
		},
		gen.AlphaString(),
		gen.SliceOf(gen.IntRange(0, 8)),
	))

	properties.TestingRun(t)
}
