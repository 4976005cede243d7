// navdata/fix.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdata

import (
	"bufio"
	"encoding/binary"
	"io"
)

// FixType is byte 0 of a fix row's packed flags field.
type FixType struct {
	Code         byte
	Unrecognized bool
}

var (
	FixTypeArcCenterFix       = FixType{Code: 'A'}
	FixTypeNamedIntxAndRnav   = FixType{Code: 'C'}
	FixTypeUnnamedChartedIntx = FixType{Code: 'I'}
	FixTypeMiddleMarker       = FixType{Code: 'M'}
	FixTypeNdbAsWpt           = FixType{Code: 'N'}
	FixTypeOuterMarker        = FixType{Code: 'O'}
	FixTypeNamedIntx          = FixType{Code: 'R'}
	FixTypeVfrWpt             = FixType{Code: 'V'}
	FixTypeRnavWpt            = FixType{Code: 'W'}
	FixTypeUnspecified        = FixType{Code: ' '}
)

func decodeFixType(b byte) FixType {
	switch b {
	case 'A':
		return FixTypeArcCenterFix
	case 'C':
		return FixTypeNamedIntxAndRnav
	case 'I':
		return FixTypeUnnamedChartedIntx
	case 'M':
		return FixTypeMiddleMarker
	case 'N':
		return FixTypeNdbAsWpt
	case 'O':
		return FixTypeOuterMarker
	case 'R':
		return FixTypeNamedIntx
	case 'V':
		return FixTypeVfrWpt
	case 'W':
		return FixTypeRnavWpt
	case ' ':
		return FixTypeUnspecified
	default:
		return FixType{Code: b, Unrecognized: true}
	}
}

// FixFunction is byte 1 of a fix row's packed flags field. Codes P and S
// are context-sensitive on whether the fix's terminal region is ENRT.
type FixFunction struct {
	Code         byte
	Unrecognized bool
}

var (
	FixFunctionUnspecified        = FixFunction{Code: ' '}
	FixFunctionUnnamedStepdownFix = FixFunction{Code: 'p'} // P, terminal != ENRT
	FixFunctionNamedStepdownFix   = FixFunction{Code: 's'} // S, terminal != ENRT
	FixFunctionPitchAndCatchPoint = FixFunction{Code: 'P'} // P, terminal == ENRT
	FixFunctionAacaaAndSuaWpt     = FixFunction{Code: 'S'} // S, terminal == ENRT
)

const fixFunctionKnownCodes = "ABCDEFIKLMNOUVW"

func decodeFixFunction(b byte, terminalRegion string) FixFunction {
	switch b {
	case ' ':
		return FixFunctionUnspecified
	case 'P':
		if terminalRegion != "ENRT" {
			return FixFunctionUnnamedStepdownFix
		}
		return FixFunctionPitchAndCatchPoint
	case 'S':
		if terminalRegion != "ENRT" {
			return FixFunctionNamedStepdownFix
		}
		return FixFunctionAacaaAndSuaWpt
	}
	for i := 0; i < len(fixFunctionKnownCodes); i++ {
		if fixFunctionKnownCodes[i] == b {
			return FixFunction{Code: b}
		}
	}
	return FixFunction{Code: b, Unrecognized: true}
}

// FixProcedure is byte 2 of a fix row's packed flags field.
type FixProcedure struct {
	Code         byte
	Unrecognized bool
}

var (
	FixProcedureSID         = FixProcedure{Code: 'D'}
	FixProcedureSTAR        = FixProcedure{Code: 'E'}
	FixProcedureApproach    = FixProcedure{Code: 'F'}
	FixProcedureMultiple    = FixProcedure{Code: 'Z'}
	FixProcedureUnspecified = FixProcedure{Code: ' '}
)

func decodeFixProcedure(b byte) FixProcedure {
	switch b {
	case 'D':
		return FixProcedureSID
	case 'E':
		return FixProcedureSTAR
	case 'F':
		return FixProcedureApproach
	case 'Z':
		return FixProcedureMultiple
	case ' ':
		return FixProcedureUnspecified
	default:
		return FixProcedure{Code: b, Unrecognized: true}
	}
}

// Fix is a named point in space with no radio signal, decoded from
// earth_fix.dat / user_fix.dat.
type Fix struct {
	Lat, Lon       float64
	Ident          string
	TerminalRegion string // ICAO airport code, or "ENRT" for en-route
	IcaoRegion     string
	Type           FixType
	Function       FixFunction
	Procedure      FixProcedure
	Name           string
}

// decodeFixFlags reinterprets the packed 32-bit flags field as four
// little-endian bytes; bytes 0, 1, 2 select FixType, FixFunction, and
// FixProcedure respectively (byte 3 has no defined meaning).
func decodeFixFlags(flags uint32, terminalRegion string) (FixType, FixFunction, FixProcedure) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], flags)
	return decodeFixType(b[0]), decodeFixFunction(b[1], terminalRegion), decodeFixProcedure(b[2])
}

func parseFixRow(line string) (Fix, error) {
	r := newFieldReader("fix row", line)

	lat, err := r.float64()
	if err != nil {
		return Fix{}, err
	}
	lon, err := r.float64()
	if err != nil {
		return Fix{}, err
	}
	ident, err := r.boundedString(8)
	if err != nil {
		return Fix{}, err
	}
	terminalRegion, err := r.fixedString(4)
	if err != nil {
		return Fix{}, err
	}
	icaoRegion, err := r.fixedString(2)
	if err != nil {
		return Fix{}, err
	}
	flags, err := r.uint64(32)
	if err != nil {
		return Fix{}, err
	}
	name := r.restOfLine()

	typ, fn, proc := decodeFixFlags(uint32(flags), terminalRegion)

	return Fix{
		Lat: lat, Lon: lon,
		Ident:          ident,
		TerminalRegion: terminalRegion,
		IcaoRegion:     icaoRegion,
		Type:           typ,
		Function:       fn,
		Procedure:      proc,
		Name:           name,
	}, nil
}

// parseFixFile reads a fix header followed by fix rows until the
// sentinel "99".
func parseFixFile(r io.Reader, acceptTag func(string) bool, accept ...DataVersion) (Header, []Fix, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)

	h, err := readHeader("header", sc, acceptTag, accept...)
	if err != nil {
		return Header{}, nil, err
	}

	ls := newLineScanner(sc)
	var fixes []Fix
	for {
		line, ok, err := ls.next()
		if err != nil {
			return Header{}, nil, err
		}
		if !ok {
			break
		}
		fix, err := parseFixRow(line)
		if err != nil {
			return Header{}, nil, err
		}
		fixes = append(fixes, fix)
	}

	return h, fixes, nil
}
