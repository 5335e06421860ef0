// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aat scans cache simulator logs for L1 average access time (AAT)
// measurements and tracks the smallest one.
package aat

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	// Label is the literal prefix of a line carrying an L1 AAT measurement.
	Label = "L1 average access time (AAT):"

	// DefaultLogPath is the log file scanned by the CLI, relative to the
	// working directory.
	DefaultLogPath = "test.log"

	settingsHeader = "Cache Settings"
	l1Settings     = "L1 ("
	l2Settings     = "L2 ("
	l2Disabled     = "L2 disabled"

	initialBufSize = 64 * 1024
)

var (
	// ErrFileAccess is returned when the log file cannot be opened or read.
	ErrFileAccess = errors.New("file access error")

	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("parse error")
)

// ParseError reports a labelled line whose value is not a float literal.
type ParseError struct {
	Line  int
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: could not convert %q to float: %v", e.Line, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrParse) match any ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Summary is the outcome of one scan. Found is false when no line carried
// the label, in which case Value is meaningless.
type Summary struct {
	Value float64
	Found bool

	// Line is the 1-based line number of the minimal measurement.
	Line int
	// Run is the 1-based index of the simulator run that produced the
	// minimum, or 0 when the log has no Cache Settings headers.
	Run int
	// Settings holds the cache settings lines printed for that run.
	Settings []string

	// Lines and Matches count all lines read and all labelled lines.
	Lines   int
	Matches int
}

// FindMinimum scans the file at path and returns the smallest L1 AAT it
// contains. The file is closed on every return path.
func FindMinimum(path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: opening %s: %w", ErrFileAccess, path, err)
	}
	defer f.Close()

	return Scan(f)
}

// Scan reads r line by line and returns the smallest L1 AAT found. A
// labelled line with an unparsable value aborts the scan.
func Scan(r io.Reader) (Summary, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initialBufSize), math.MaxInt)
	sc.Split(scanUniversalLines)

	var (
		sum      Summary
		run      int
		settings []string
	)
	for sc.Scan() {
		sum.Lines++
		line := sc.Text()

		switch {
		case strings.HasPrefix(line, settingsHeader):
			run++
			settings = nil
			continue
		case strings.HasPrefix(line, l1Settings), strings.HasPrefix(line, l2Settings), strings.HasPrefix(line, l2Disabled):
			settings = append(settings, strings.TrimSpace(line))
			continue
		case !strings.HasPrefix(line, Label):
			continue
		}

		sum.Matches++
		v, err := parseValue(line)
		if err != nil {
			return Summary{}, &ParseError{Line: sum.Lines, Value: field(line), Err: err}
		}

		if !sum.Found || v < sum.Value {
			sum.Value = v
			sum.Found = true
			sum.Line = sum.Lines
			sum.Run = run
			sum.Settings = settings
		}
	}
	if err := sc.Err(); err != nil {
		return Summary{}, fmt.Errorf("%w: reading log: %w", ErrFileAccess, err)
	}

	return sum, nil
}

// field returns the second colon-separated segment of line, trimmed.
func field(line string) string {
	parts := strings.Split(line, ":")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func parseValue(line string) (float64, error) {
	lit, err := normalizeLiteral(field(line))
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		// Overflow saturates to ±Inf rather than failing.
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return v, nil
		}
		return 0, err
	}
	return v, nil
}

// normalizeLiteral restricts s to decimal float syntax: hex literals are
// rejected, and single underscores between digits are allowed and removed.
func normalizeLiteral(s string) (string, error) {
	syntaxErr := &strconv.NumError{Func: "ParseFloat", Num: s, Err: strconv.ErrSyntax}

	body := strings.TrimLeft(s, "+-")
	if len(s)-len(body) > 1 {
		return "", syntaxErr
	}
	if len(body) >= 2 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X') {
		return "", syntaxErr
	}
	if !strings.Contains(s, "_") {
		return s, nil
	}

	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", syntaxErr
		}
	}
	return strings.ReplaceAll(s, "_", ""), nil
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// scanUniversalLines is a bufio.SplitFunc that treats "\n", "\r\n" and a
// lone "\r" as line terminators.
func scanUniversalLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// "\r" at the end of the buffer may be half of "\r\n".
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
