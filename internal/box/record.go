package box

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Extension is the file extension of box record files.
const Extension = ".box"

// MaxRecordLine is the longest record line ReadRecords decodes, in bytes.
const MaxRecordLine = 64 * 1024

// MaxLabelLength is the longest label, in runes, the editor accepts.
const MaxLabelLength = 1024

const (
	minRecordFields = 4
	recordFileMode  = 0o644
)

var (
	errTooFewFields = errors.New("too few fields")
	errLineTooLong  = fmt.Errorf("line exceeds %d bytes", MaxRecordLine)

	labelSanitizer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")
)

// RecordError describes a record line that could not be decoded.
type RecordError struct {
	Line int
	Text string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record line %d: %v", e.Line, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// FormatRecord encodes b as a single record line without the trailing newline.
func FormatRecord(b Box) string {
	r := b.Rect.Normalize()
	return fmt.Sprintf("%d\t%d\t%d\t%d\t%s", r.X, r.Y, r.W, r.H, labelSanitizer.Replace(b.Label))
}

// ParseRecord decodes one record line. The label field is optional.
func ParseRecord(line string) (Box, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.SplitN(line, "\t", minRecordFields+1)
	if len(fields) < minRecordFields {
		return Box{}, fmt.Errorf("%w: got %d, want at least %d", errTooFewFields, len(fields), minRecordFields)
	}

	var nums [minRecordFields]int
	for i := range minRecordFields {
		v, err := strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			return Box{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		nums[i] = v
	}

	b := Box{Rect: Rect{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]}}
	if len(fields) > minRecordFields {
		b.Label = fields[minRecordFields]
	}
	return b, nil
}

// ReadRecords decodes every line of r. Malformed lines, including lines
// longer than MaxRecordLine, are reported in the returned slice of
// *RecordError and skipped; blank lines are ignored. The error result is only
// set when reading r itself fails.
func ReadRecords(r io.Reader) ([]Box, []*RecordError, error) {
	var (
		boxes   []Box
		skipped []*RecordError
	)
	br := bufio.NewReader(r)
	for lineNo := 1; ; lineNo++ {
		text, tooLong, err := readLine(br)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("reading records: %w", err)
		}
		eof := err != nil

		switch {
		case tooLong:
			skipped = append(skipped, &RecordError{Line: lineNo, Err: errLineTooLong})
		case strings.TrimSpace(text) == "":
		default:
			b, perr := ParseRecord(text)
			if perr != nil {
				skipped = append(skipped, &RecordError{Line: lineNo, Text: text, Err: perr})
				break
			}
			boxes = append(boxes, b)
		}

		if eof {
			return boxes, skipped, nil
		}
	}
}

// readLine returns the next line without its terminator. A line longer than
// MaxRecordLine is consumed up to its newline and reported as tooLong with
// empty text.
func readLine(br *bufio.Reader) (text string, tooLong bool, err error) {
	var sb strings.Builder
	for {
		chunk, rerr := br.ReadSlice('\n')
		chunk = bytes.TrimRight(chunk, "\r\n")
		if !tooLong {
			if sb.Len()+len(chunk) > MaxRecordLine {
				tooLong = true
				sb.Reset()
			} else {
				sb.Write(chunk)
			}
		}
		if errors.Is(rerr, bufio.ErrBufferFull) {
			continue
		}
		return sb.String(), tooLong, rerr
	}
}

// WriteRecords writes one line per box.
func WriteRecords(w io.Writer, boxes []Box) error {
	bw := bufio.NewWriter(w)
	for _, b := range boxes {
		if _, err := bw.WriteString(FormatRecord(b) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadFile reads a record file. A missing file is reported with an error
// matching os.ErrNotExist.
func ReadFile(path string) ([]Box, []*RecordError, error) {
	f, err := os.Open(path) //nolint:gosec // G304: record paths are derived from the image list
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = f.Close() }()
	return ReadRecords(f)
}

// WriteFile writes boxes to path, creating missing parent directories. The
// file is replaced atomically so a failed write never truncates old records.
func WriteFile(path string, boxes []Box) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create record directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temporary record: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := WriteRecords(tmp, boxes); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write records: %w", err)
	}
	if err := tmp.Chmod(recordFileMode); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("set record permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temporary record: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("replace record: %w", err)
	}
	return nil
}
