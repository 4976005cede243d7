// navdata/primitives_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdata

import (
	"bufio"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFieldReaderBoundedString(t *testing.T) {
	r := newFieldReader("test", "  ABEAM  FIKLO")
	s, err := r.boundedString(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "ABEAM" {
		t.Errorf("got %q, expected ABEAM", s)
	}

	s, err = r.boundedString(8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "FIKLO" {
		t.Errorf("got %q, expected FIKLO", s)
	}
}

func TestFieldReaderBoundedStringTooLong(t *testing.T) {
	r := newFieldReader("test", "TOOLONGIDENT")
	if _, err := r.boundedString(5); err == nil {
		t.Errorf("expected error for token exceeding max length")
	}
}

func TestFieldReaderFixedString(t *testing.T) {
	r := newFieldReader("test", "ENRT K2")
	s, err := r.fixedString(4)
	if err != nil || s != "ENRT" {
		t.Errorf("got %q, %v; expected ENRT, nil", s, err)
	}
	s, err = r.fixedString(2)
	if err != nil || s != "K2" {
		t.Errorf("got %q, %v; expected K2, nil", s, err)
	}
}

func TestFieldReaderFixedStringWrongLength(t *testing.T) {
	r := newFieldReader("test", "K2X")
	if _, err := r.fixedString(2); err == nil {
		t.Errorf("expected error for wrong-length token")
	}
}

func TestFieldReaderNumerics(t *testing.T) {
	r := newFieldReader("test", "37.618050000 -122.374770000 385 -250")
	lat, err := r.float64()
	if err != nil || lat != 37.61805 {
		t.Errorf("got %v, %v; expected 37.61805, nil", lat, err)
	}
	lon, err := r.float64()
	if err != nil || lon != -122.37477 {
		t.Errorf("got %v, %v; expected -122.37477, nil", lon, err)
	}
	freq, err := r.int64(32)
	if err != nil || freq != 385 {
		t.Errorf("got %v, %v; expected 385, nil", freq, err)
	}
	elev, err := r.int64(32)
	if err != nil || elev != -250 {
		t.Errorf("got %v, %v; expected -250, nil", elev, err)
	}
}

func TestFieldReaderRestOfLine(t *testing.T) {
	r := newFieldReader("test", "OSI  SAN FRANCISCO")
	if _, err := r.boundedString(8); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s := r.restOfLine(); s != "SAN FRANCISCO" {
		t.Errorf("got %q, expected %q", s, "SAN FRANCISCO")
	}
}

// TestLocalizerCourseSplitRoundTrip checks the round-trip law from the
// testable-properties list: crs_mag*360 + crs_true reconstructs the
// original funny_number for a range of values that straddle the
// 360-degree boundary.
func TestLocalizerCourseSplitRoundTrip(t *testing.T) {
	cases := []struct {
		funny             string
		wantTrue, wantMag float32
	}{
		{"1345.123", 265.123, 3},
		{"1080.0", 0, 3},
		{"90.5", 90.5, 0},
		{"36000.0", 0, 100},
	}
	for _, c := range cases {
		fn, err := decimal.NewFromString(c.funny)
		if err != nil {
			t.Fatalf("bad test fixture %q: %v", c.funny, err)
		}
		crsTrue, crsMag := splitLocalizerCourse(fn)
		if math.Abs(float64(crsTrue-c.wantTrue)) > 1e-3 {
			t.Errorf("%s: crsTrue = %v, expected %v", c.funny, crsTrue, c.wantTrue)
		}
		if math.Abs(float64(crsMag-c.wantMag)) > 1e-3 {
			t.Errorf("%s: crsMag = %v, expected %v", c.funny, crsMag, c.wantMag)
		}
		// round trip
		recon := crsMag*360 + crsTrue
		want, _ := fn.Float64()
		if math.Abs(float64(recon)-want) > 1e-2 {
			t.Errorf("%s: round trip gave %v, expected %v", c.funny, recon, want)
		}
	}
}

func TestGlideslopeCourseSplit(t *testing.T) {
	// angle_hundredths=300 (3.00 degrees), crs_true=265.123
	fn, _ := decimal.NewFromString("300265.123")
	crsTrue, angle := splitGlideslopeCourse(fn)
	if math.Abs(float64(crsTrue-265.123)) > 1e-3 {
		t.Errorf("crsTrue = %v, expected ~265.123", crsTrue)
	}
	if angle != 300 {
		t.Errorf("angleHundredths = %d, expected 300", angle)
	}
}

func TestGlideslopeCourseSplitNegativeRemainderSentinel(t *testing.T) {
	fn := decimal.NewFromInt(-5)
	crsTrue, angle := splitGlideslopeCourse(fn)
	if !math.IsNaN(float64(crsTrue)) {
		t.Errorf("expected NaN sentinel for negative remainder, got %v", crsTrue)
	}
	if angle != math.MaxUint16 {
		t.Errorf("expected MaxUint16 sentinel, got %d", angle)
	}
}

func TestLineScannerSkipsBlankLinesAndStopsAtSentinel(t *testing.T) {
	input := "row one\n\nrow two\n\n99\nrow three should be ignored\n"
	sc := bufio.NewScanner(strings.NewReader(input))
	ls := newLineScanner(sc)

	var got []string
	for {
		line, ok, err := ls.next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			break
		}
		got = append(got, line)
	}
	if len(got) != 2 || got[0] != "row one" || got[1] != "row two" {
		t.Errorf("got %v, expected [row one, row two]", got)
	}
}

func TestLineScannerMissingSentinelIsBadLastLine(t *testing.T) {
	input := "row one\nrow two\n"
	sc := bufio.NewScanner(strings.NewReader(input))
	ls := newLineScanner(sc)

	var err error
	for {
		var ok bool
		_, ok, err = ls.next()
		if err != nil || !ok {
			break
		}
	}
	if err == nil {
		t.Fatalf("expected an error when sentinel is missing")
	}
	if _, ok := err.(*BadLastLineError); !ok {
		t.Errorf("got %T, expected *BadLastLineError", err)
	}
}

func TestLineScannerEmptyFileIsMissingLine(t *testing.T) {
	sc := bufio.NewScanner(strings.NewReader(""))
	ls := newLineScanner(sc)
	_, ok, err := ls.next()
	if ok {
		t.Fatalf("expected ok=false for empty input")
	}
	if _, isMissing := err.(*MissingLineError); !isMissing {
		t.Errorf("got %T, expected *MissingLineError", err)
	}
}
