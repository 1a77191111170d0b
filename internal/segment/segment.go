package segment

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
)

// ErrNoRows is matched by every SegmentationError.
var ErrNoRows = errors.New("no operation rows found")

// anchorRe finds the leading "start end duration" token run of an operation
// row. Tokens may be glued together, e.g. "06:0009:003.0".
var anchorRe = regexp.MustCompile(`([01]?\d|2[0-4]):([0-5]\d)\s*([01]?\d|2[0-4]):([0-5]\d)\s*(\d{1,2}(?:[.,]\d{1,2})?)`)

type SegmentationError struct {
	InputLength int
}

func (e *SegmentationError) Error() string {
	if e.InputLength == 0 {
		return "segmentation: empty input"
	}
	return fmt.Sprintf("segmentation: no row anchors (HH:MM HH:MM duration) in %d bytes of input", e.InputLength)
}

func (e *SegmentationError) Is(target error) bool {
	return target == ErrNoRows
}

// Rows splits a pasted report into one string per operation entry, in input order.
func Rows(raw string) ([]string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, &SegmentationError{}
	}

	var anchors []int
	for _, loc := range anchorRe.FindAllStringIndex(text, -1) {
		anchors = append(anchors, loc[0])
	}
	if len(anchors) == 0 {
		return nil, &SegmentationError{InputLength: len(text)}
	}

	if pre := strings.TrimSpace(text[:anchors[0]]); pre != "" {
		log.Printf("segment preamble-dropped bytes=%d", len(pre))
	}

	rows := make([]string, 0, len(anchors))
	for i, start := range anchors {
		end := len(text)
		if i+1 < len(anchors) {
			end = anchors[i+1]
		}
		row := normalizeSpace(text[start:end])
		if row == "" {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, &SegmentationError{InputLength: len(text)}
	}
	return rows, nil
}

// normalizeSpace folds the line breaks of a multi-line entry into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
