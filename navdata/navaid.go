// navdata/navaid.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdata

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// NdbClass is the power-class of an NDB, decoded from a small integer
// code with a catch-all Unrecognized fallback.
type NdbClass struct {
	Watts        int
	Unrecognized bool
	Raw          int
}

var (
	NdbClassLocator  = NdbClass{Watts: 15}
	NdbClassLowPower = NdbClass{Watts: 25}
	NdbClassNormal   = NdbClass{Watts: 50}
	NdbClassHigh     = NdbClass{Watts: 75}
)

func decodeNdbClass(code int) NdbClass {
	switch code {
	case 15:
		return NdbClassLocator
	case 25:
		return NdbClassLowPower
	case 50:
		return NdbClassNormal
	case 75:
		return NdbClassHigh
	default:
		return NdbClass{Unrecognized: true, Raw: code}
	}
}

// VorClass is the power-class of a VOR.
type VorClass struct {
	Range        int
	Unspecified  bool
	Unrecognized bool
	Raw          int
}

var (
	VorClassTerminal = VorClass{Range: 25}
	VorClassLowAlt   = VorClass{Range: 40}
	VorClassHighAlt  = VorClass{Range: 130}
)

func decodeVorClass(code int) VorClass {
	switch code {
	case 25:
		return VorClassTerminal
	case 40:
		return VorClassLowAlt
	case 130:
		return VorClassHighAlt
	case 125:
		return VorClass{Range: 125, Unspecified: true}
	default:
		return VorClass{Unrecognized: true, Raw: code}
	}
}

// MarkerType distinguishes the three ILS marker beacons.
type MarkerType int

const (
	MarkerOuter MarkerType = iota
	MarkerMiddle
	MarkerInner
)

// TypeSpecificData is the sealed set of ten navaid variants, discriminated
// by row_code at parse time.
type TypeSpecificData interface {
	navaidKind() string
}

type NDB struct {
	FreqKHz int
	Class   NdbClass
	Flags   float32 // 1.0 if BFO use is required, XPNAV1200 only
	Name    string
}

func (NDB) navaidKind() string { return "NDB" }

type VOR struct {
	FreqKHz100      int // hundredths of a MHz (11130 = 111.30 MHz)
	Range           int
	Class           VorClass
	SlavedVariation float32
	Name            string
}

func (VOR) navaidKind() string { return "VOR" }

// Localizer covers both ILS-coupled and standalone localizers; Standalone
// distinguishes row_code 5 from row_code 4.
type Localizer struct {
	Standalone  bool
	FreqKHz100  int
	Range       int
	CourseTrue  float32
	CourseMag   float32
	RunwayIdent string
	AirportIcao string
	Name        string
}

func (Localizer) navaidKind() string { return "Localizer" }

type Glideslope struct {
	FreqKHz100      int
	Range           int
	CourseTrue      float32
	AngleHundredths uint16
	RunwayIdent     string
	AirportIcao     string
	Name            string
}

func (Glideslope) navaidKind() string { return "Glideslope" }

// MarkerBeacon carries the two undocumented numeric slots from the row
// verbatim (meaning not specified by the source format).
type MarkerBeacon struct {
	Type        MarkerType
	Unused1     int
	Unused2     int
	CourseTrue  float32
	RunwayIdent string
	AirportIcao string
	Name        string
}

func (MarkerBeacon) navaidKind() string { return "MarkerBeacon" }

// DME covers both row_code 12 (paired with a VOR, not independently
// displayed) and row_code 13 (displayed independently); DisplayFreq
// distinguishes them and is the predicate used by waypoint resolution
// to tell a standalone DME from one slaved to a VOR.
type DME struct {
	FreqKHz100  int
	Range       int
	Bias        float32
	DisplayFreq bool
	Name        string
}

func (DME) navaidKind() string { return "DME" }

type FPAP struct {
	Channel      int
	LengthOffset float32
	CourseTrue   float32
	RunwayIdent  string
	AirportIcao  string
	Name         string
}

func (FPAP) navaidKind() string { return "FPAP" }

type ThresholdPoint struct {
	Channel                 int
	ThresholdCrossingHeight float32
	CourseTrue              float32
	AngleHundredths         uint16
	RunwayIdent             string
	AirportIcao             string
	Name                    string
}

func (ThresholdPoint) navaidKind() string { return "ThresholdPoint" }

type GLS struct {
	Channel         int
	CourseTrue      float32
	AngleHundredths uint16
	RunwayIdent     string
	AirportIcao     string
	Name            string
}

func (GLS) navaidKind() string { return "GLS" }

// Navaid is a radio navigation facility decoded from earth_nav.dat /
// user_nav.dat.
type Navaid struct {
	Lat, Lon       float64
	ElevationFt    int32
	Ident          string
	IcaoRegion     string
	TerminalRegion string // literal "ENRT" for VOR rows and en-route facilities
	TypeData       TypeSpecificData
}

// navaidDiscriminant identifies a navaid's type_data variant for identity
// comparisons (user overlay matching).
func navaidDiscriminant(t TypeSpecificData) string { return t.navaidKind() }

func peekRowCode(line string) (int, string, error) {
	line = strings.TrimLeft(line, " ")
	i := 0
	for i < len(line) && line[i] != ' ' {
		i++
	}
	code, err := strconv.Atoi(line[:i])
	if err != nil {
		return 0, line, newParseFieldError("navaid row", line)
	}
	return code, line, nil
}

// parseNavaidRow dispatches on the leading row-code to the variant-specific
// grammar, consuming the shared lead (row_code lat lon elevation) first.
func parseNavaidRow(line string) (Navaid, error) {
	code, _, err := peekRowCode(line)
	if err != nil {
		return Navaid{}, err
	}

	r := newFieldReader("navaid row", line)
	if _, err := r.int64(32); err != nil { // row_code, consumed
		return Navaid{}, err
	}
	lat, err := r.float64()
	if err != nil {
		return Navaid{}, err
	}
	lon, err := r.float64()
	if err != nil {
		return Navaid{}, err
	}
	elev, err := r.int64(32)
	if err != nil {
		return Navaid{}, err
	}

	n := Navaid{Lat: lat, Lon: lon, ElevationFt: int32(elev)}

	switch code {
	case 2: // NDB
		freq, err := r.int64(32)
		if err != nil {
			return Navaid{}, err
		}
		classCode, err := r.int64(32)
		if err != nil {
			return Navaid{}, err
		}
		flags, err := r.float64()
		if err != nil {
			return Navaid{}, err
		}
		ident, err := r.boundedString(5)
		if err != nil {
			return Navaid{}, err
		}
		terminal, err := r.fixedString(4)
		if err != nil {
			return Navaid{}, err
		}
		icao, err := r.fixedString(2)
		if err != nil {
			return Navaid{}, err
		}
		n.Ident, n.TerminalRegion, n.IcaoRegion = ident, terminal, icao
		n.TypeData = NDB{FreqKHz: int(freq), Class: decodeNdbClass(int(classCode)), Flags: float32(flags), Name: r.restOfLine()}

	case 3: // VOR
		freq, err := r.int64(32)
		if err != nil {
			return Navaid{}, err
		}
		rng, err := r.int64(32)
		if err != nil {
			return Navaid{}, err
		}
		slaved, err := r.float64()
		if err != nil {
			return Navaid{}, err
		}
		ident, err := r.boundedString(5)
		if err != nil {
			return Navaid{}, err
		}
		terminal, err := r.fixedString(4)
		if err != nil {
			return Navaid{}, err
		}
		if terminal != "ENRT" {
			return Navaid{}, newParseFieldError("navaid row", terminal)
		}
		icao, err := r.fixedString(2)
		if err != nil {
			return Navaid{}, err
		}
		n.Ident, n.TerminalRegion, n.IcaoRegion = ident, terminal, icao
		n.TypeData = VOR{FreqKHz100: int(freq), Range: int(rng), Class: decodeVorClass(int(rng)),
			SlavedVariation: float32(slaved), Name: r.restOfLine()}

	case 4, 5: // Localizer: ILS-coupled (4) or standalone (5)
		freq, err := r.int64(32)
		if err != nil {
			return Navaid{}, err
		}
		rng, err := r.int64(32)
		if err != nil {
			return Navaid{}, err
		}
		funny, err := r.decimal()
		if err != nil {
			return Navaid{}, err
		}
		ident, err := r.boundedString(5)
		if err != nil {
			return Navaid{}, err
		}
		terminal, err := r.fixedString(4)
		if err != nil {
			return Navaid{}, err
		}
		icao, err := r.fixedString(2)
		if err != nil {
			return Navaid{}, err
		}
		runway, err := r.boundedString(4)
		if err != nil {
			return Navaid{}, err
		}
		crsTrue, crsMag := splitLocalizerCourse(funny)
		n.Ident, n.TerminalRegion, n.IcaoRegion = ident, terminal, icao
		n.TypeData = Localizer{
			Standalone: code == 5, FreqKHz100: int(freq), Range: int(rng),
			CourseTrue: crsTrue, CourseMag: crsMag,
			RunwayIdent: runway, AirportIcao: terminal, Name: r.restOfLine(),
		}

	case 6: // Glideslope
		freq, err := r.int64(32)
		if err != nil {
			return Navaid{}, err
		}
		rng, err := r.int64(32)
		if err != nil {
			return Navaid{}, err
		}
		funny, err := r.decimal()
		if err != nil {
			return Navaid{}, err
		}
		ident, err := r.boundedString(5)
		if err != nil {
			return Navaid{}, err
		}
		terminal, err := r.fixedString(4)
		if err != nil {
			return Navaid{}, err
		}
		icao, err := r.fixedString(2)
		if err != nil {
			return Navaid{}, err
		}
		runway, err := r.boundedString(4)
		if err != nil {
			return Navaid{}, err
		}
		crsTrue, angle := splitGlideslopeCourse(funny)
		n.Ident, n.TerminalRegion, n.IcaoRegion = ident, terminal, icao
		n.TypeData = Glideslope{
			FreqKHz100: int(freq), Range: int(rng),
			CourseTrue: crsTrue, AngleHundredths: angle,
			RunwayIdent: runway, AirportIcao: terminal, Name: r.restOfLine(),
		}

	case 7, 8, 9: // Marker beacon: Outer, Middle, Inner
		unused1, err := r.int64(32)
		if err != nil {
			return Navaid{}, err
		}
		unused2, err := r.int64(32)
		if err != nil {
			return Navaid{}, err
		}
		course, err := r.float64()
		if err != nil {
			return Navaid{}, err
		}
		ident, err := r.boundedString(5)
		if err != nil {
			return Navaid{}, err
		}
		terminal, err := r.fixedString(4)
		if err != nil {
			return Navaid{}, err
		}
		icao, err := r.fixedString(2)
		if err != nil {
			return Navaid{}, err
		}
		runway, err := r.boundedString(4)
		if err != nil {
			return Navaid{}, err
		}
		typ := map[int]MarkerType{7: MarkerOuter, 8: MarkerMiddle, 9: MarkerInner}[code]
		n.Ident, n.TerminalRegion, n.IcaoRegion = ident, terminal, icao
		n.TypeData = MarkerBeacon{
			Type: typ, Unused1: int(unused1), Unused2: int(unused2), CourseTrue: float32(course),
			RunwayIdent: runway, AirportIcao: terminal, Name: r.restOfLine(),
		}

	case 12, 13: // DME: paired (12) or independently displayed (13)
		freq, err := r.int64(32)
		if err != nil {
			return Navaid{}, err
		}
		rng, err := r.int64(32)
		if err != nil {
			return Navaid{}, err
		}
		bias, err := r.float64()
		if err != nil {
			return Navaid{}, err
		}
		ident, err := r.boundedString(5)
		if err != nil {
			return Navaid{}, err
		}
		terminal, err := r.fixedString(4)
		if err != nil {
			return Navaid{}, err
		}
		icao, err := r.fixedString(2)
		if err != nil {
			return Navaid{}, err
		}
		n.Ident, n.TerminalRegion, n.IcaoRegion = ident, terminal, icao
		n.TypeData = DME{
			FreqKHz100: int(freq), Range: int(rng), Bias: float32(bias),
			DisplayFreq: code == 13, Name: r.restOfLine(),
		}

	case 14: // FPAP
		channel, err := r.int64(32)
		if err != nil {
			return Navaid{}, err
		}
		lengthOffset, err := r.float64()
		if err != nil {
			return Navaid{}, err
		}
		crsTrue, err := r.float64()
		if err != nil {
			return Navaid{}, err
		}
		ident, err := r.boundedString(5)
		if err != nil {
			return Navaid{}, err
		}
		terminal, err := r.fixedString(4)
		if err != nil {
			return Navaid{}, err
		}
		icao, err := r.fixedString(2)
		if err != nil {
			return Navaid{}, err
		}
		runway, err := r.fixedString(3)
		if err != nil {
			return Navaid{}, err
		}
		n.Ident, n.TerminalRegion, n.IcaoRegion = ident, terminal, icao
		n.TypeData = FPAP{
			Channel: int(channel), LengthOffset: float32(lengthOffset), CourseTrue: float32(crsTrue),
			RunwayIdent: runway, AirportIcao: terminal, Name: r.restOfLine(),
		}

	case 15: // GLS
		channel, err := r.int64(32)
		if err != nil {
			return Navaid{}, err
		}
		if _, err := r.int64(32); err != nil { // unused digit column
			return Navaid{}, err
		}
		funny, err := r.decimal()
		if err != nil {
			return Navaid{}, err
		}
		ident, err := r.boundedString(5)
		if err != nil {
			return Navaid{}, err
		}
		terminal, err := r.fixedString(4)
		if err != nil {
			return Navaid{}, err
		}
		icao, err := r.fixedString(2)
		if err != nil {
			return Navaid{}, err
		}
		runway, err := r.fixedString(3)
		if err != nil {
			return Navaid{}, err
		}
		crsTrue, angle := splitGlideslopeCourse(funny)
		n.Ident, n.TerminalRegion, n.IcaoRegion = ident, terminal, icao
		n.TypeData = GLS{
			Channel: int(channel), CourseTrue: crsTrue, AngleHundredths: angle,
			RunwayIdent: runway, AirportIcao: terminal, Name: r.restOfLine(),
		}

	case 16: // Landing Threshold Point
		channel, err := r.int64(32)
		if err != nil {
			return Navaid{}, err
		}
		tch, err := r.float64()
		if err != nil {
			return Navaid{}, err
		}
		funny, err := r.decimal()
		if err != nil {
			return Navaid{}, err
		}
		ident, err := r.boundedString(5)
		if err != nil {
			return Navaid{}, err
		}
		terminal, err := r.fixedString(4)
		if err != nil {
			return Navaid{}, err
		}
		icao, err := r.fixedString(2)
		if err != nil {
			return Navaid{}, err
		}
		runway, err := r.fixedString(3)
		if err != nil {
			return Navaid{}, err
		}
		crsTrue, angle := splitGlideslopeCourse(funny)
		n.Ident, n.TerminalRegion, n.IcaoRegion = ident, terminal, icao
		n.TypeData = ThresholdPoint{
			Channel: int(channel), ThresholdCrossingHeight: float32(tch), CourseTrue: crsTrue, AngleHundredths: angle,
			RunwayIdent: runway, AirportIcao: terminal, Name: r.restOfLine(),
		}

	default:
		return Navaid{}, newParseFieldError("navaid row", line)
	}

	return n, nil
}

func parseNavaidFile(r io.Reader, acceptTag func(string) bool, accept ...DataVersion) (Header, []Navaid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)

	h, err := readHeader("header", sc, acceptTag, accept...)
	if err != nil {
		return Header{}, nil, err
	}

	ls := newLineScanner(sc)
	var navaids []Navaid
	for {
		line, ok, err := ls.next()
		if err != nil {
			return Header{}, nil, err
		}
		if !ok {
			break
		}
		navaid, err := parseNavaidRow(line)
		if err != nil {
			return Header{}, nil, err
		}
		navaids = append(navaids, navaid)
	}

	return h, navaids, nil
}
