// Package export reports on the box records of an image list: inventories in
// several formats, annotated images and record diffs.
package export

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/MeKo-Tech/boxlabel/internal/box"
	"github.com/MeKo-Tech/boxlabel/internal/session"
	"github.com/MeKo-Tech/boxlabel/internal/utils"
)

// Record states of an ImageSummary.
const (
	StatusOK           = "ok"
	StatusNoRecord     = "no_record"
	StatusMissingImage = "missing_image"
	StatusUnreadable   = "unreadable"
)

// Entry is one box of a summary.
type Entry struct {
	X     int    `json:"x" yaml:"x"`
	Y     int    `json:"y" yaml:"y"`
	W     int    `json:"width" yaml:"width"`
	H     int    `json:"height" yaml:"height"`
	Label string `json:"label" yaml:"label"`
}

// ImageSummary describes the record of one listed image.
type ImageSummary struct {
	Index   int     `json:"index" yaml:"index"`
	Image   string  `json:"image" yaml:"image"`
	Width   int     `json:"width" yaml:"width"`
	Height  int     `json:"height" yaml:"height"`
	Record  string  `json:"record,omitempty" yaml:"record,omitempty"`
	Status  string  `json:"status" yaml:"status"`
	Boxes   []Entry `json:"boxes" yaml:"boxes"`
	Skipped int     `json:"skipped_lines" yaml:"skipped_lines"`
	Error   string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Collect summarizes every image of the list. Only image headers are decoded,
// and the position of m is not changed.
func Collect(m *session.Manager) []ImageSummary {
	out := make([]ImageSummary, 0, m.Len())
	for i := range m.Len() {
		out = append(out, summarize(m, i))
	}
	return out
}

func summarize(m *session.Manager, index int) ImageSummary {
	name, _ := m.Name(index)
	s := ImageSummary{Index: index, Image: name, Boxes: []Entry{}}

	path, _ := m.ImagePath(index)
	size, err := utils.ImageSize(path)
	if err != nil {
		s.Status = StatusUnreadable
		if errors.Is(err, os.ErrNotExist) {
			s.Status = StatusMissingImage
		}
		s.Error = err.Error()
		return s
	}
	s.Width, s.Height = size.X, size.Y
	s.Record = m.BoxPath(name, size)

	boxes, bad, err := box.ReadFile(s.Record)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.Status = StatusNoRecord
		s.Record = ""
		return s
	case err != nil:
		s.Status = StatusUnreadable
		s.Error = err.Error()
		return s
	}

	s.Status = StatusOK
	s.Skipped = len(bad)
	for _, b := range boxes {
		r := b.Rect.Normalize()
		s.Boxes = append(s.Boxes, Entry{X: r.X, Y: r.Y, W: r.W, H: r.H, Label: b.Label})
	}
	return s
}

// Size returns the decoded image size.
func (s ImageSummary) Size() image.Point { return image.Pt(s.Width, s.Height) }

// Totals counts images with a record and boxes across summaries.
func Totals(summaries []ImageSummary) (withRecord, boxes int) {
	for _, s := range summaries {
		if s.Status == StatusOK {
			withRecord++
		}
		boxes += len(s.Boxes)
	}
	return withRecord, boxes
}

func (s ImageSummary) heading() string {
	switch s.Status {
	case StatusOK:
		return fmt.Sprintf("%s (%dx%d) %d box(es)", s.Image, s.Width, s.Height, len(s.Boxes))
	case StatusNoRecord:
		return fmt.Sprintf("%s (%dx%d) no record", s.Image, s.Width, s.Height)
	default:
		return fmt.Sprintf("%s %s: %s", s.Image, s.Status, s.Error)
	}
}
