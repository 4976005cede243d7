// navdata/primitives.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdata

import (
	"bufio"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// fieldReader walks whitespace-delimited fields of a single row, tracking
// the consumed offset so errors can be reported with a rendered position.
type fieldReader struct {
	line  string
	pos   int
	stage string
}

func newFieldReader(stage, line string) *fieldReader {
	return &fieldReader{line: line, stage: stage}
}

func (r *fieldReader) remaining() string { return r.line[r.pos:] }

func (r *fieldReader) skipSpaces() {
	for r.pos < len(r.line) && r.line[r.pos] == ' ' {
		r.pos++
	}
}

// boundedString consumes leading spaces, then a maximal run of non-space
// characters; it fails if that run exceeds maxLen.
func (r *fieldReader) boundedString(maxLen int) (string, error) {
	r.skipSpaces()
	start := r.pos
	for r.pos < len(r.line) && r.line[r.pos] != ' ' {
		r.pos++
	}
	s := r.line[start:r.pos]
	if len(s) == 0 {
		return "", newParseFieldError(r.stage, r.remaining())
	}
	if len(s) > maxLen {
		return "", newParseFieldError(r.stage, s)
	}
	return s, nil
}

// fixedString is like boundedString but requires the token's length to be
// exactly n.
func (r *fieldReader) fixedString(n int) (string, error) {
	r.skipSpaces()
	start := r.pos
	for r.pos < len(r.line) && r.line[r.pos] != ' ' {
		r.pos++
	}
	s := r.line[start:r.pos]
	if len(s) != n {
		return "", newParseFieldError(r.stage, s)
	}
	return s, nil
}

// restOfLine consumes and returns everything remaining, including spaces,
// with leading whitespace trimmed. Used for free-text trailing fields
// (spoken names, copyright tails).
func (r *fieldReader) restOfLine() string {
	r.skipSpaces()
	s := r.line[r.pos:]
	r.pos = len(r.line)
	return strings.TrimRight(s, "\r\n")
}

func (r *fieldReader) int64(bitSize int) (int64, error) {
	tok, err := r.boundedString(20)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(tok, 10, bitSize)
	if err != nil {
		return 0, newParseFieldError(r.stage, tok)
	}
	return v, nil
}

func (r *fieldReader) uint64(bitSize int) (uint64, error) {
	tok, err := r.boundedString(20)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(tok, 10, bitSize)
	if err != nil {
		return 0, newParseFieldError(r.stage, tok)
	}
	return v, nil
}

func (r *fieldReader) float64() (float64, error) {
	tok, err := r.boundedString(32)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, newParseFieldError(r.stage, tok)
	}
	return v, nil
}

func (r *fieldReader) decimal() (decimal.Decimal, error) {
	tok, err := r.boundedString(32)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(tok)
	if err != nil {
		return decimal.Zero, newParseFieldError(r.stage, tok)
	}
	return d, nil
}

///////////////////////////////////////////////////////////////////////////
// Combined-field (packed-decimal) splitting.

// splitLocalizerCourse decodes funny_number = crs_mag*360 + crs_true, using
// an exact decimal intermediate so that values straddling a 360-degree
// boundary (e.g. 265.123) split exactly rather than via float rounding.
func splitLocalizerCourse(funnyNumber decimal.Decimal) (crsTrue, crsMag float32) {
	three60 := decimal.NewFromInt(360)
	rem := funnyNumber.Mod(three60)
	if rem.IsNegative() {
		return float32(math.NaN()), float32(math.NaN())
	}
	mag := funnyNumber.Sub(rem).Div(three60)

	ct, _ := rem.Float64()
	cm, _ := mag.Float64()
	return float32(ct), float32(cm)
}

// splitGlideslopeCourse decodes funny_number = angle_hundredths*1000 +
// crs_true.
func splitGlideslopeCourse(funnyNumber decimal.Decimal) (crsTrue float32, angleHundredths uint16) {
	thousand := decimal.NewFromInt(1000)
	rem := funnyNumber.Mod(thousand)
	if rem.IsNegative() {
		return float32(math.NaN()), math.MaxUint16
	}
	angle := funnyNumber.Sub(rem).Div(thousand).Truncate(0)

	ct, _ := rem.Float64()
	a := angle.IntPart()
	if a < 0 || a > math.MaxUint16 {
		return float32(ct), math.MaxUint16
	}
	return float32(ct), uint16(a)
}

///////////////////////////////////////////////////////////////////////////
// Line scanning shared by every per-format parser.

// lineScanner wraps a bufio.Scanner, skipping blank lines and recognizing
// the "99" sentinel.
type lineScanner struct {
	sc       *bufio.Scanner
	done     bool
	lastLine string
}

func newLineScanner(sc *bufio.Scanner) *lineScanner {
	return &lineScanner{sc: sc}
}

// next returns the next non-blank line, or ok=false once the sentinel "99"
// has been consumed. If EOF is reached before the sentinel, err reports
// BadLastLineError when at least one row line was already seen (the file
// simply never terminates with "99"), or MissingLineError when no row
// line was ever found at all.
func (s *lineScanner) next() (line string, ok bool, err error) {
	if s.done {
		return "", false, nil
	}
	for s.sc.Scan() {
		l := strings.TrimRight(s.sc.Text(), "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		if strings.TrimSpace(l) == "99" {
			s.done = true
			return "", false, nil
		}
		s.lastLine = l
		return l, true, nil
	}
	if err := s.sc.Err(); err != nil {
		return "", false, newIOError(err)
	}
	if s.lastLine != "" {
		return "", false, newBadLastLineError(s.lastLine)
	}
	return "", false, newMissingLineError()
}
