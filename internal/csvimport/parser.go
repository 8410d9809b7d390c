// Package csvimport turns an uploaded attendee list into roster records.
//
// The format is deliberately loose: one attendee per line (\n, \r\n or \r),
// fields separated by plain commas (no quoting), name first and email second.
// A leading UTF-8 byte order mark is ignored. A first line that
// mentions both "name" and "email" is taken to be a header and skipped.
package csvimport

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"event-checkin/internal/model"
	apperrors "event-checkin/pkg/app_errors"
)

const maxLineBytes = 1 << 20

// Parse reads every line of r and returns the accepted records in input order.
// Rows with fewer than two fields are dropped without error.
func Parse(r io.Reader) ([]model.AttendeeRecord, error) {
	records := make([]model.AttendeeRecord, 0)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	scanner.Split(scanLines)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrCSVParse, err)
		}
		return records, nil
	}

	first := strings.TrimPrefix(scanner.Text(), "\uFEFF")
	if first == "" {
		return records, nil
	}
	if !IsHeader(first) {
		if rec, ok := parseLine(first); ok {
			records = append(records, rec)
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if rec, ok := parseLine(line); ok {
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCSVParse, err)
	}

	return records, nil
}

// scanLines ends a line at "\n", "\r\n" or a lone "\r".
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	i := bytes.IndexAny(data, "\r\n")
	switch {
	case i < 0:
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	case data[i] == '\n':
		return i + 1, data[:i], nil
	case i+1 < len(data):
		if data[i+1] == '\n' {
			return i + 2, data[:i], nil
		}
		return i + 1, data[:i], nil
	case atEOF:
		return i + 1, data[:i], nil
	}
	// a trailing '\r' may be the first half of "\r\n"
	return 0, nil, nil
}

// IsHeader reports whether line looks like a "Name,Email" header row.
// Only the first line of a file is ever tested.
func IsHeader(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "name") && strings.Contains(lower, "email")
}

func parseLine(line string) (model.AttendeeRecord, bool) {
	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return model.AttendeeRecord{}, false
	}
	return model.AttendeeRecord{
		Name:  strings.TrimSpace(fields[0]),
		Email: strings.TrimSpace(fields[1]),
	}, true
}
