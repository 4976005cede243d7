// navdata/fix_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdata

import (
	"strconv"
	"strings"
	"testing"
)

func packFlags(b0, b1, b2, b3 byte) uint32 {
	return uint32(b0) | uint32(b1)<<8 | uint32(b2)<<16 | uint32(b3)<<24
}

func TestDecodeFixFlagsBasic(t *testing.T) {
	flags := packFlags('R', ' ', ' ', 0)
	typ, fn, proc := decodeFixFlags(flags, "ENRT")
	if typ != FixTypeNamedIntx {
		t.Errorf("type = %v, expected NamedIntx", typ)
	}
	if fn != FixFunctionUnspecified {
		t.Errorf("function = %v, expected Unspecified", fn)
	}
	if proc != FixProcedureUnspecified {
		t.Errorf("procedure = %v, expected Unspecified", proc)
	}
}

func TestDecodeFixFlagsStepdownContextSensitivity(t *testing.T) {
	flags := packFlags('W', 'P', 'D', 0)

	typ, fn, proc := decodeFixFlags(flags, "KSFO")
	if typ != FixTypeRnavWpt {
		t.Errorf("type = %v, expected RnavWpt", typ)
	}
	if fn != FixFunctionUnnamedStepdownFix {
		t.Errorf("terminal!=ENRT: function = %v, expected UnnamedStepdownFix", fn)
	}
	if proc != FixProcedureSID {
		t.Errorf("procedure = %v, expected SID", proc)
	}

	_, fnEnrt, _ := decodeFixFlags(flags, "ENRT")
	if fnEnrt != FixFunctionPitchAndCatchPoint {
		t.Errorf("terminal==ENRT: function = %v, expected PitchAndCatchPoint", fnEnrt)
	}
}

func TestDecodeFixFlagsStepdownS(t *testing.T) {
	flags := packFlags(' ', 'S', ' ', 0)
	_, fn, _ := decodeFixFlags(flags, "KSFO")
	if fn != FixFunctionNamedStepdownFix {
		t.Errorf("terminal!=ENRT: function = %v, expected NamedStepdownFix", fn)
	}
	_, fnEnrt, _ := decodeFixFlags(flags, "ENRT")
	if fnEnrt != FixFunctionAacaaAndSuaWpt {
		t.Errorf("terminal==ENRT: function = %v, expected AacaaAndSuaWpt", fnEnrt)
	}
}

func TestDecodeFixFlagsUnrecognizedBytePreserved(t *testing.T) {
	flags := packFlags('Q', '9', '~', 0)
	typ, fn, proc := decodeFixFlags(flags, "ENRT")
	if !typ.Unrecognized || typ.Code != 'Q' {
		t.Errorf("type = %+v, expected Unrecognized('Q')", typ)
	}
	if !fn.Unrecognized || fn.Code != '9' {
		t.Errorf("function = %+v, expected Unrecognized('9')", fn)
	}
	if !proc.Unrecognized || proc.Code != '~' {
		t.Errorf("procedure = %+v, expected Unrecognized('~')", proc)
	}
}

func TestDecodeFixFlagsByte3Ignored(t *testing.T) {
	a := packFlags('R', ' ', ' ', 0x00)
	b := packFlags('R', ' ', ' ', 0xFF)
	ta, fa, pa := decodeFixFlags(a, "ENRT")
	tb, fb, pb := decodeFixFlags(b, "ENRT")
	if ta != tb || fa != fb || pa != pb {
		t.Errorf("byte 3 affected decoding: %v/%v/%v vs %v/%v/%v", ta, fa, pa, tb, fb, pb)
	}
}

func TestParseFixRow(t *testing.T) {
	flags := packFlags('R', ' ', ' ', 0)
	line := "  37.618050000 -122.374770000 ABEAM ENRT K2 " + strconv.FormatUint(uint64(flags), 10) + " SAN FRANCISCO"
	fix, err := parseFixRow(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fix.Lat != 37.61805 || fix.Lon != -122.37477 {
		t.Errorf("lat/lon = %v/%v, expected 37.61805/-122.37477", fix.Lat, fix.Lon)
	}
	if fix.Ident != "ABEAM" {
		t.Errorf("ident = %q, expected ABEAM", fix.Ident)
	}
	if fix.TerminalRegion != "ENRT" {
		t.Errorf("terminal region = %q, expected ENRT", fix.TerminalRegion)
	}
	if fix.IcaoRegion != "K2" {
		t.Errorf("icao region = %q, expected K2", fix.IcaoRegion)
	}
	if fix.Type != FixTypeNamedIntx {
		t.Errorf("type = %v, expected NamedIntx", fix.Type)
	}
	if fix.Name != "SAN FRANCISCO" {
		t.Errorf("name = %q, expected %q", fix.Name, "SAN FRANCISCO")
	}
}

func TestParseFixRowIdentTooLong(t *testing.T) {
	line := "0.0 0.0 WAYTOOLONGIDENTVALUE ENRT K2 0 NAME"
	if _, err := parseFixRow(line); err == nil {
		t.Errorf("expected error for ident exceeding max length")
	}
}

func TestParseFixFileSentinel(t *testing.T) {
	flags := packFlags('W', ' ', ' ', 0)
	input := "A\n" +
		"1200 Version - data cycle 2401, build 20240101, metadata FixXP1200. copyright\n" +
		"37.0 -122.0 FIKLO ENRT K2 " + strconv.FormatUint(uint64(flags), 10) + "\n" +
		"99\n"
	h, fixes, err := parseFixFile(strings.NewReader(input), func(tag string) bool { return tag == "FixXP1200" }, XP1101, XP1200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Cycle != 2401 {
		t.Errorf("cycle = %d, expected 2401", h.Cycle)
	}
	if len(fixes) != 1 || fixes[0].Ident != "FIKLO" {
		t.Errorf("fixes = %+v, expected one FIKLO fix", fixes)
	}
}
