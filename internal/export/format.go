package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/boxlabel/internal/box"
	"gopkg.in/yaml.v3"
)

// Formats lists the names accepted by Format.
var Formats = []string{"text", "json", "csv", "yaml"}

// Format writes summaries to w in the named format. An empty name means text.
func Format(w io.Writer, summaries []ImageSummary, format string) error {
	var (
		out string
		err error
	)
	switch strings.ToLower(format) {
	case "json":
		out, err = formatJSON(summaries)
	case "csv":
		out, err = formatCSV(summaries)
	case "yaml":
		out, err = formatYAML(summaries)
	case "", "text":
		out = formatText(summaries)
	default:
		return fmt.Errorf("unsupported format %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func formatJSON(summaries []ImageSummary) (string, error) {
	withRecord, boxes := Totals(summaries)
	doc := struct {
		Images     []ImageSummary `json:"images"`
		WithRecord int            `json:"images_with_record"`
		Boxes      int            `json:"boxes"`
	}{summaries, withRecord, boxes}

	bts, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(bts) + "\n", nil
}

func formatYAML(summaries []ImageSummary) (string, error) {
	withRecord, boxes := Totals(summaries)
	doc := struct {
		Images     []ImageSummary `yaml:"images"`
		WithRecord int            `yaml:"images_with_record"`
		Boxes      int            `yaml:"boxes"`
	}{summaries, withRecord, boxes}

	bts, err := yaml.Marshal(doc)
	return string(bts), err
}

func formatCSV(summaries []ImageSummary) (string, error) {
	var output strings.Builder
	writer := csv.NewWriter(&output)
	rows := [][]string{{"image", "image_width", "image_height", "status", "box_index", "x", "y", "width", "height", "label"}}

	for _, s := range summaries {
		head := []string{s.Image, strconv.Itoa(s.Width), strconv.Itoa(s.Height), s.Status}
		if len(s.Boxes) == 0 {
			rows = append(rows, append(head, "", "", "", "", "", ""))
			continue
		}
		for i, b := range s.Boxes {
			row := append(append([]string(nil), head...),
				strconv.Itoa(i), strconv.Itoa(b.X), strconv.Itoa(b.Y), strconv.Itoa(b.W), strconv.Itoa(b.H), b.Label)
			rows = append(rows, row)
		}
	}

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	return output.String(), writer.Error()
}

func formatText(summaries []ImageSummary) string {
	var output strings.Builder
	for i, s := range summaries {
		if i > 0 {
			output.WriteString("\n")
		}
		output.WriteString("# " + s.heading() + "\n")
		for _, b := range s.Boxes {
			output.WriteString(box.FormatRecord(box.Box{Rect: box.Rect{X: b.X, Y: b.Y, W: b.W, H: b.H}, Label: b.Label}) + "\n")
		}
	}
	withRecord, boxes := Totals(summaries)
	fmt.Fprintf(&output, "\n%d image(s), %d with a record, %d box(es)\n", len(summaries), withRecord, boxes)
	return output.String()
}
