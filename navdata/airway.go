// navdata/airway.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdata

import (
	"bufio"
	"io"
	"strings"
)

// WptKind classifies how a symbolic waypoint reference in an airway or
// hold row should be resolved against the graph.
type WptKind int

const (
	WptKindFix WptKind = iota
	WptKindVHF
	WptKindNDB
)

func decodeWptKind(stage string, code int64) (WptKind, error) {
	switch code {
	case 2:
		return WptKindVHF, nil
	case 3:
		return WptKindNDB, nil
	case 11:
		return WptKindFix, nil
	default:
		return 0, newParseFieldError(stage, "")
	}
}

// ParsedNodeRef is a symbolic waypoint reference as it appears in an
// airway or hold row, prior to resolution into a graph vertex.
type ParsedNodeRef struct {
	Ident      string
	IcaoRegion string
	Kind       WptKind
}

// AirwayEdge is a directed segment of a named airway between two
// resolved vertices.
type AirwayEdge struct {
	Name   string
	BaseFL uint16
	TopFL  uint16
	IsHigh bool
}

// airwayRow is one decoded line of earth_awy.dat, prior to endpoint
// resolution and direction expansion (done by the graph builder).
type airwayRow struct {
	Start, End    ParsedNodeRef
	Direction     byte // 'F', 'B', or 'N'
	IsHigh        bool
	BaseFL, TopFL uint16
	Names         []string
}

func parseAirwayRow(line string) (airwayRow, error) {
	r := newFieldReader("airway row", line)

	startIdent, err := r.boundedString(5)
	if err != nil {
		return airwayRow{}, err
	}
	startRegion, err := r.fixedString(2)
	if err != nil {
		return airwayRow{}, err
	}
	startTypeCode, err := r.int64(32)
	if err != nil {
		return airwayRow{}, err
	}
	startType, err := decodeWptKind("airway row", startTypeCode)
	if err != nil {
		return airwayRow{}, err
	}

	endIdent, err := r.boundedString(5)
	if err != nil {
		return airwayRow{}, err
	}
	endRegion, err := r.fixedString(2)
	if err != nil {
		return airwayRow{}, err
	}
	endTypeCode, err := r.int64(32)
	if err != nil {
		return airwayRow{}, err
	}
	endType, err := decodeWptKind("airway row", endTypeCode)
	if err != nil {
		return airwayRow{}, err
	}

	dirStr, err := r.boundedString(1)
	if err != nil {
		return airwayRow{}, err
	}
	dir := dirStr[0]
	if dir != 'F' && dir != 'B' && dir != 'N' {
		return airwayRow{}, newInvalidAwyDirError(dir)
	}

	isHighCode, err := r.int64(32)
	if err != nil {
		return airwayRow{}, err
	}
	if isHighCode != 1 && isHighCode != 2 {
		return airwayRow{}, newParseFieldError("airway row", "")
	}

	baseFL, err := r.int64(16)
	if err != nil {
		return airwayRow{}, err
	}
	topFL, err := r.int64(16)
	if err != nil {
		return airwayRow{}, err
	}

	namesField, err := r.boundedString(64)
	if err != nil {
		return airwayRow{}, err
	}
	names := strings.Split(namesField, "-")

	return airwayRow{
		Start:     ParsedNodeRef{Ident: startIdent, IcaoRegion: startRegion, Kind: startType},
		End:       ParsedNodeRef{Ident: endIdent, IcaoRegion: endRegion, Kind: endType},
		Direction: dir,
		IsHigh:    isHighCode == 2,
		BaseFL:    uint16(baseFL),
		TopFL:     uint16(topFL),
		Names:     names,
	}, nil
}

func parseAirwayFile(r io.Reader, acceptTag func(string) bool) (Header, []airwayRow, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)

	h, err := readHeader("header", sc, acceptTag, XP1100)
	if err != nil {
		return Header{}, nil, err
	}

	ls := newLineScanner(sc)
	var rows []airwayRow
	for {
		line, ok, err := ls.next()
		if err != nil {
			return Header{}, nil, err
		}
		if !ok {
			break
		}
		row, err := parseAirwayRow(line)
		if err != nil {
			return Header{}, nil, err
		}
		rows = append(rows, row)
	}

	return h, rows, nil
}
