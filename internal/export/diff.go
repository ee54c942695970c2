package export

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/boxlabel/internal/box"
	difflib "github.com/pmezard/go-difflib/difflib"
)

// DefaultDiffContext is the number of context lines in DiffRecords hunks.
const DefaultDiffContext = 3

// DiffRecords returns a unified diff between two box record files after
// normalizing both: malformed lines are dropped and every box is re-encoded.
// Identical records yield an empty string.
func DiffRecords(aPath, bPath string, context int) (string, error) {
	a, err := normalizedLines(aPath)
	if err != nil {
		return "", err
	}
	b, err := normalizedLines(bPath)
	if err != nil {
		return "", err
	}
	return diffLines(a, b, aPath, bPath, context)
}

// DiffBoxes is DiffRecords for in-memory boxes.
func DiffBoxes(a, b []box.Box, aName, bName string, context int) (string, error) {
	return diffLines(lines(a), lines(b), aName, bName, context)
}

func diffLines(a, b []string, aName, bName string, context int) (string, error) {
	if context <= 0 {
		context = DefaultDiffContext
	}
	u := difflib.UnifiedDiff{
		A:        a,
		B:        b,
		FromFile: aName,
		ToFile:   bName,
		Context:  context,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil {
		return "", fmt.Errorf("diff records: %w", err)
	}
	return s, nil
}

func normalizedLines(path string) ([]string, error) {
	boxes, _, err := box.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record %s: %w", path, err)
	}
	return lines(boxes), nil
}

func lines(boxes []box.Box) []string {
	out := make([]string, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, box.FormatRecord(b)+"\n")
	}
	return out
}

// CountChanges returns the number of removed and added lines of a unified diff.
func CountChanges(diff string) (removed, added int) {
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		case strings.HasPrefix(line, "-"):
			removed++
		case strings.HasPrefix(line, "+"):
			added++
		}
	}
	return removed, added
}
