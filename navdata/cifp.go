// navdata/cifp.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdata

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/iancoleman/orderedmap"
)

// CIFPProcedureKind is the tag on a SID/STAR/APPCH row. RWY rows are
// decoded separately as CIFPRunwayRow, and PRDAT is recognized but
// discarded (format undocumented in the ARINC revision used), so neither
// has a corresponding kind here.
type CIFPProcedureKind int

const (
	CIFPSid CIFPProcedureKind = iota
	CIFPStar
	CIFPAppch
)

func (k CIFPProcedureKind) String() string {
	switch k {
	case CIFPSid:
		return "SID"
	case CIFPStar:
		return "STAR"
	case CIFPAppch:
		return "APPCH"
	default:
		return "?"
	}
}

// RNP is a packed significand×10^-exponent value, e.g. "30" over an
// implied exponent of 1 means 3.0.
type RNP struct {
	Significand int
	Exponent    int
}

func (r RNP) Value() float64 {
	v := float64(r.Significand)
	for i := 0; i < r.Exponent; i++ {
		v /= 10
	}
	return v
}

func parseRNP(s string) (*RNP, error) {
	if isBlank(s) {
		return nil, nil
	}
	if len(s) != 3 {
		return nil, newParseFieldError("cifp row", s)
	}
	sig, err := strconv.Atoi(s[:2])
	if err != nil {
		return nil, newParseFieldError("cifp row", s)
	}
	exp, err := strconv.Atoi(s[2:3])
	if err != nil {
		return nil, newParseFieldError("cifp row", s)
	}
	return &RNP{Significand: sig, Exponent: exp}, nil
}

// NavaidRef is a recommended-navaid or center-fix reference: an
// identifier plus its ICAO region and ARINC section/subsection chars.
type NavaidRef struct {
	Ident      string
	IcaoRegion string
	Section    byte
	Subsection byte
}

// CIFPProcedureRow is one SID, STAR, or APPCH row; every field
// beyond the procedure/transition/waypoint identifiers is optional.
type CIFPProcedureRow struct {
	Kind                    CIFPProcedureKind
	Sequence                int
	RouteType               byte
	ProcedureIdent          string
	TransitionIdent         string
	WaypointIdent           string
	WaypointIcaoRegion      string
	Section                 byte
	Subsection              byte
	WaypointDescription     string
	TurnDirection           byte
	RNP                     *RNP
	PathAndTermination      string
	TurnDirectionValid      byte
	RecommendedNavaid       *NavaidRef
	ArcRadiusNM             *float64
	ThetaDeg                *float64
	RhoNM                   *float64
	OutboundMagneticCrs     *float64
	RouteDistOrHoldDist     string
	AltitudeDescriptor      byte
	Altitude1               *int
	Altitude2               *int
	TransitionAltitude      *int
	SpeedLimitDescriptor    byte
	SpeedLimit              *int
	VerticalAngleHundredths *int
	CenterFix               *NavaidRef
	MultipleCodeOrTAA       string
	GpsFmsIndicator         byte
	RouteQualifier1         byte
	RouteQualifier2         byte
}

// CIFPRunwayRow is one RWY row.
type CIFPRunwayRow struct {
	RunwayIdent               string
	GradientHundredthsPercent *int
	EllipsoidalHeightTenthsM  *int
	LandingThresholdElevFt    *int
	TCHValueIndicator         byte
	LocMlsGlsIdent            string
	IlsMlsGlsCategory         byte
	ThresholdCrossingHeightFt *int
	Lat, Lon                  string
	DisplacedThresholdDistFt  *int
}

// CIFPProcedure groups all rows (across continuation/transition records)
// belonging to one procedure identifier, in file order.
type CIFPProcedure struct {
	Kind CIFPProcedureKind
	Id   string
	Rows []CIFPProcedureRow
}

// CIFPFile is the decoded contents of one CIFP/<icao>.dat file.
type CIFPFile struct {
	// Procedures maps "KIND:ID" to *CIFPProcedure, in first-seen order.
	Procedures *orderedmap.OrderedMap
	Runways    []CIFPRunwayRow
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

func optionalFloat(s string) (*float64, error) {
	if isBlank(s) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, newParseFieldError("cifp row", s)
	}
	return &v, nil
}

func optionalInt(s string) (*int, error) {
	if isBlank(s) {
		return nil, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, newParseFieldError("cifp row", s)
	}
	return &v, nil
}

func scaledFloat(s string, divisor float64) (*float64, error) {
	v, err := optionalInt(s)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	f := float64(*v) / divisor
	return &f, nil
}

func optionalByte(s string) byte {
	if isBlank(s) {
		return ' '
	}
	return s[0]
}

func optionalNavaidRef(ident, region string, section, subsection byte) *NavaidRef {
	if isBlank(ident) {
		return nil
	}
	return &NavaidRef{Ident: strings.TrimSpace(ident), IcaoRegion: strings.TrimSpace(region), Section: section, Subsection: subsection}
}

func parseCIFPProcedureRow(kind CIFPProcedureKind, fields []string) (CIFPProcedureRow, error) {
	if len(fields) < 38 {
		return CIFPProcedureRow{}, newParseFieldError("cifp row", strings.Join(fields, ","))
	}

	seq, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return CIFPProcedureRow{}, newParseFieldError("cifp row", fields[0])
	}

	rnp, err := parseRNP(strings.TrimSpace(fields[10]))
	if err != nil {
		return CIFPProcedureRow{}, err
	}

	arcRadius, err := scaledFloat(fields[17], 1000)
	if err != nil {
		return CIFPProcedureRow{}, err
	}
	theta, err := scaledFloat(fields[18], 10)
	if err != nil {
		return CIFPProcedureRow{}, err
	}
	rho, err := scaledFloat(fields[19], 10)
	if err != nil {
		return CIFPProcedureRow{}, err
	}
	outboundCrs, err := optionalFloat(fields[20])
	if err != nil {
		return CIFPProcedureRow{}, err
	}

	alt1, err := optionalInt(fields[23])
	if err != nil {
		return CIFPProcedureRow{}, err
	}
	alt2, err := optionalInt(fields[24])
	if err != nil {
		return CIFPProcedureRow{}, err
	}
	transAlt, err := optionalInt(fields[25])
	if err != nil {
		return CIFPProcedureRow{}, err
	}
	speedLimit, err := optionalInt(fields[27])
	if err != nil {
		return CIFPProcedureRow{}, err
	}
	vertAngle, err := optionalInt(fields[28])
	if err != nil {
		return CIFPProcedureRow{}, err
	}
	// fields[29] is the undocumented ARINC 5.293 column; skipped.

	return CIFPProcedureRow{
		Kind:                kind,
		Sequence:            seq,
		RouteType:           optionalByte(fields[1]),
		ProcedureIdent:      strings.TrimSpace(fields[2]),
		TransitionIdent:     strings.TrimSpace(fields[3]),
		WaypointIdent:       strings.TrimSpace(fields[4]),
		WaypointIcaoRegion:  strings.TrimSpace(fields[5]),
		Section:             optionalByte(fields[6]),
		Subsection:          optionalByte(fields[7]),
		WaypointDescription: strings.TrimSpace(fields[8]),
		TurnDirection:       optionalByte(fields[9]),
		RNP:                 rnp,
		PathAndTermination:  strings.TrimSpace(fields[11]),
		TurnDirectionValid:  optionalByte(fields[12]),
		RecommendedNavaid:   optionalNavaidRef(fields[13], fields[14], optionalByte(fields[15]), optionalByte(fields[16])),
		ArcRadiusNM:         arcRadius,
		ThetaDeg:            theta,
		RhoNM:               rho,
		OutboundMagneticCrs: outboundCrs,
		RouteDistOrHoldDist:     strings.TrimSpace(fields[21]),
		AltitudeDescriptor:      optionalByte(fields[22]),
		Altitude1:               alt1,
		Altitude2:               alt2,
		TransitionAltitude:      transAlt,
		SpeedLimitDescriptor:    optionalByte(fields[26]),
		SpeedLimit:              speedLimit,
		VerticalAngleHundredths: vertAngle,
		CenterFix:               optionalNavaidRef(fields[30], fields[31], optionalByte(fields[32]), optionalByte(fields[33])),
		MultipleCodeOrTAA:       strings.TrimSpace(fields[34]),
		GpsFmsIndicator:         optionalByte(fields[35]),
		RouteQualifier1:         optionalByte(fields[36]),
		RouteQualifier2:         optionalByte(fields[37]),
	}, nil
}

func parseCIFPRunwayRow(fields []string) (CIFPRunwayRow, error) {
	// The RWY row's grammar has an intentional mid-row semicolon: fields
	// before it are comma-delimited as usual, fields after describe the
	// threshold position. We're handed the two halves pre-split.
	if len(fields) < 8 {
		return CIFPRunwayRow{}, newParseFieldError("cifp row", strings.Join(fields, ","))
	}

	grad, err := optionalInt(fields[1])
	if err != nil {
		return CIFPRunwayRow{}, err
	}
	height, err := optionalInt(fields[2])
	if err != nil {
		return CIFPRunwayRow{}, err
	}
	elev, err := optionalInt(fields[3])
	if err != nil {
		return CIFPRunwayRow{}, err
	}
	tch, err := optionalInt(fields[7])
	if err != nil {
		return CIFPRunwayRow{}, err
	}

	row := CIFPRunwayRow{
		RunwayIdent:               strings.TrimSpace(fields[0]),
		GradientHundredthsPercent: grad,
		EllipsoidalHeightTenthsM:  height,
		LandingThresholdElevFt:    elev,
		TCHValueIndicator:         optionalByte(fields[4]),
		LocMlsGlsIdent:            strings.TrimSpace(fields[5]),
		IlsMlsGlsCategory:         optionalByte(fields[6]),
		ThresholdCrossingHeightFt: tch,
	}

	if len(fields) >= 11 {
		row.Lat = strings.TrimSpace(fields[8])
		row.Lon = strings.TrimSpace(fields[9])
		dist, err := optionalInt(fields[10])
		if err != nil {
			return CIFPRunwayRow{}, err
		}
		row.DisplacedThresholdDistFt = dist
	}

	return row, nil
}

func splitCIFPLine(line string) (tag string, fields []string, ok bool) {
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return "", nil, false
	}
	tag = line[:colon]
	body := strings.TrimSuffix(strings.TrimRight(line, "\r"), ";")
	body = body[colon+1:]
	fields = strings.Split(body, ",")
	return tag, fields, true
}

// splitCIFPRunwayLine handles the RWY row's intentional mid-row
// semicolon: comma-delimited fields up to it, comma-delimited fields
// (plus a final terminating ";") after it.
func splitCIFPRunwayLine(line string) (fields []string, ok bool) {
	colon := strings.IndexByte(line, ':')
	if colon < 0 {
		return nil, false
	}
	body := strings.TrimSuffix(strings.TrimRight(line, "\r"), ";")
	body = body[colon+1:]

	semi := strings.IndexByte(body, ';')
	if semi < 0 {
		return strings.Split(body, ","), true
	}
	lead := strings.Split(body[:semi], ",")
	tail := strings.Split(body[semi+1:], ",")
	return append(lead, tail...), true
}

// ParseCIFPFile decodes one CIFP/<icao>.dat file: SID/STAR/APPCH/RWY rows
// are collected; PRDAT rows are recognized and discarded; any other tag
// fails.
func ParseCIFPFile(r io.Reader) (CIFPFile, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)

	file := CIFPFile{Procedures: orderedmap.New()}

	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		tag, fields, ok := splitCIFPLine(line)
		if !ok {
			return CIFPFile{}, newParseFieldError("cifp row", line)
		}

		var kind CIFPProcedureKind
		switch tag {
		case "SID":
			kind = CIFPSid
		case "STAR":
			kind = CIFPStar
		case "APPCH":
			kind = CIFPAppch
		case "RWY":
			rwyFields, ok := splitCIFPRunwayLine(line)
			if !ok {
				return CIFPFile{}, newParseFieldError("cifp row", line)
			}
			row, err := parseCIFPRunwayRow(rwyFields)
			if err != nil {
				return CIFPFile{}, err
			}
			file.Runways = append(file.Runways, row)
			continue
		case "PRDAT":
			continue
		default:
			return CIFPFile{}, newParseFieldError("cifp row", line)
		}

		row, err := parseCIFPProcedureRow(kind, fields)
		if err != nil {
			return CIFPFile{}, err
		}

		key := kind.String() + ":" + row.ProcedureIdent
		if existing, ok := file.Procedures.Get(key); ok {
			proc := existing.(*CIFPProcedure)
			proc.Rows = append(proc.Rows, row)
		} else {
			file.Procedures.Set(key, &CIFPProcedure{Kind: kind, Id: row.ProcedureIdent, Rows: []CIFPProcedureRow{row}})
		}
	}
	if err := sc.Err(); err != nil {
		return CIFPFile{}, newIOError(err)
	}

	return file, nil
}
