// navdata/header_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdata

import (
	"bufio"
	"strings"
	"testing"
)

func TestParseHeaderLine(t *testing.T) {
	line := "1200 Version - data cycle 2401, build 20240101, metadata FixXP1200. (c) 2024 example"
	h, err := parseHeaderLine("header", line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Version != XP1200 {
		t.Errorf("version = %v, expected XP1200", h.Version)
	}
	if h.Cycle != 2401 {
		t.Errorf("cycle = %d, expected 2401", h.Cycle)
	}
	if h.Build != 20240101 {
		t.Errorf("build = %d, expected 20240101", h.Build)
	}
	if h.MetadataTag != "FixXP1200" {
		t.Errorf("tag = %q, expected FixXP1200", h.MetadataTag)
	}
	if h.Copyright != "(c) 2024 example" {
		t.Errorf("copyright = %q, expected %q", h.Copyright, "(c) 2024 example")
	}
}

// TestParseHeaderLineInjective checks that parsing the same input twice
// yields identical (version, cycle, build) triples.
func TestParseHeaderLineInjective(t *testing.T) {
	line := "1140 Version - data cycle 2403, build 20240305, metadata HoldXP1140. copyright"
	a, err := parseHeaderLine("header", line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := parseHeaderLine("header", line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Version != b.Version || a.Cycle != b.Cycle || a.Build != b.Build {
		t.Errorf("parsing the same line twice gave different results: %+v vs %+v", a, b)
	}
}

func TestParseHeaderLineBadVersion(t *testing.T) {
	line := "9999 Version - data cycle 2401, build 20240101, metadata FixXP1200. copyright"
	if _, err := parseHeaderLine("header", line); err == nil {
		t.Errorf("expected error for unrecognized version code")
	} else if _, ok := err.(*UnsupportedVersionError); !ok {
		t.Errorf("got %T, expected *UnsupportedVersionError", err)
	}
}

func TestParseHeaderLineMalformed(t *testing.T) {
	line := "1200 totally wrong shape"
	if _, err := parseHeaderLine("header", line); err == nil {
		t.Errorf("expected error for malformed header line")
	}
}

func TestReadHeaderBadBOM(t *testing.T) {
	input := "X\n1200 Version - data cycle 2401, build 20240101, metadata FixXP1200. c\n"
	sc := bufio.NewScanner(strings.NewReader(input))
	_, err := readHeader("header", sc, func(string) bool { return true })
	if err == nil {
		t.Fatalf("expected BadBOMError")
	}
	if _, ok := err.(*BadBOMError); !ok {
		t.Errorf("got %T, expected *BadBOMError", err)
	}
}

func TestReadHeaderAcceptsAOrI(t *testing.T) {
	for _, bom := range []string{"A", "I"} {
		input := bom + "\n1200 Version - data cycle 2401, build 20240101, metadata FixXP1200. c\n"
		sc := bufio.NewScanner(strings.NewReader(input))
		h, err := readHeader("header", sc, func(tag string) bool { return tag == "FixXP1200" }, XP1200)
		if err != nil {
			t.Fatalf("BOM %q: unexpected error: %v", bom, err)
		}
		if h.Cycle != 2401 {
			t.Errorf("BOM %q: cycle = %d, expected 2401", bom, h.Cycle)
		}
	}
}

func TestReadHeaderRejectsWrongTag(t *testing.T) {
	input := "A\n1200 Version - data cycle 2401, build 20240101, metadata NavXP1200. c\n"
	sc := bufio.NewScanner(strings.NewReader(input))
	_, err := readHeader("header", sc, func(tag string) bool { return tag == "FixXP1200" }, XP1200)
	if err == nil {
		t.Errorf("expected error for mismatched metadata tag")
	}
}

func TestReadHeaderRejectsUnacceptedVersion(t *testing.T) {
	input := "A\n1101 Version - data cycle 2401, build 20240101, metadata FixXP1100. c\n"
	sc := bufio.NewScanner(strings.NewReader(input))
	_, err := readHeader("header", sc, func(tag string) bool { return true }, XP1200)
	if err == nil {
		t.Errorf("expected error when version isn't in the accept list")
	}
	if _, ok := err.(*UnsupportedVersionError); !ok {
		t.Errorf("got %T, expected *UnsupportedVersionError", err)
	}
}
