package graph

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// scanRecords feeds every meaningful line of r to fn as whitespace-separated
// fields. Blank lines, lines starting with '#' and trailing "# ..." comments
// are dropped. Line numbers are 1-based and count every physical line.
func scanRecords(r io.Reader, source string, fn func(line int, fields []string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if idx := strings.IndexByte(text, '#'); idx >= 0 {
			text = text[:idx]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if err := fn(line, fields); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return &MalformedInputError{Source: source, Line: line + 1, Reason: err.Error()}
	}
	return nil
}

// parseHeader reads the single positive integer that opens both file formats
func parseHeader(source string, line int, fields []string, what string) (int, error) {
	if len(fields) != 1 {
		return 0, &MalformedInputError{Source: source, Line: line, Reason: what + " header must be a single integer"}
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, &MalformedInputError{Source: source, Line: line, Reason: what + " " + strconv.Quote(fields[0]) + " is not an integer"}
	}
	if n < 1 {
		return 0, &MalformedInputError{Source: source, Line: line, Reason: what + " must be at least 1, got " + fields[0]}
	}
	return n, nil
}
