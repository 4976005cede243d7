// navdata/hold.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdata

import (
	"bufio"
	"io"
)

// TurnDirection is a hold's turn direction.
type TurnDirection int

const (
	TurnLeft TurnDirection = iota
	TurnRight
)

// LegLengthUnit distinguishes a time-based leg from a DME-distance-based
// leg; exactly one unit carries a nonzero value.
type LegLengthUnit int

const (
	LegLengthMinutes LegLengthUnit = iota
	LegLengthDME
)

// LegLength is the hold leg's length, exactly one dimension (minutes XOR
// DME nautical miles).
type LegLength struct {
	Unit  LegLengthUnit
	Value float64
}

// HoldEdge is a self-loop edge on a resolved hold-point vertex.
type HoldEdge struct {
	InboundCourseMagnetic float64
	LegLength             LegLength
	TurnDirection         TurnDirection
	MinAltitudeFt         *int32
	MaxAltitudeFt         *int32
	MaxSpeedKt            *int32
}

// holdRow is one decoded line of earth_hold.dat, prior to endpoint
// resolution.
type holdRow struct {
	Node           ParsedNodeRef
	TerminalRegion string
	Edge           HoldEdge
}

func optionalInt32(v int64) *int32 {
	if v == 0 {
		return nil
	}
	i := int32(v)
	return &i
}

func parseHoldRow(line string) (holdRow, error) {
	r := newFieldReader("hold row", line)

	ident, err := r.boundedString(5)
	if err != nil {
		return holdRow{}, err
	}
	region, err := r.fixedString(2)
	if err != nil {
		return holdRow{}, err
	}
	terminal, err := r.fixedString(4)
	if err != nil {
		return holdRow{}, err
	}
	typeCode, err := r.int64(32)
	if err != nil {
		return holdRow{}, err
	}
	kind, err := decodeWptKind("hold row", typeCode)
	if err != nil {
		return holdRow{}, err
	}

	inboundCrs, err := r.float64()
	if err != nil {
		return holdRow{}, err
	}
	legMinutes, err := r.float64()
	if err != nil {
		return holdRow{}, err
	}
	legNM, err := r.float64()
	if err != nil {
		return holdRow{}, err
	}

	dirStr, err := r.boundedString(1)
	if err != nil {
		return holdRow{}, err
	}
	var dir TurnDirection
	switch dirStr[0] {
	case 'L':
		dir = TurnLeft
	case 'R':
		dir = TurnRight
	default:
		return holdRow{}, newInvalidHoldDirError(dirStr[0])
	}

	minAlt, err := r.int64(32)
	if err != nil {
		return holdRow{}, err
	}
	maxAlt, err := r.int64(32)
	if err != nil {
		return holdRow{}, err
	}
	maxSpd, err := r.int64(32)
	if err != nil {
		return holdRow{}, err
	}

	var leg LegLength
	switch {
	case legMinutes != 0 && legNM != 0:
		return holdRow{}, newConflictingHoldLegLengthsError(legMinutes, legNM)
	case legNM != 0:
		leg = LegLength{Unit: LegLengthDME, Value: legNM}
	default:
		// Either legMinutes alone is nonzero, or both are zero — the
		// source records the latter as Minutes(0) rather than an error.
		leg = LegLength{Unit: LegLengthMinutes, Value: legMinutes}
	}

	return holdRow{
		Node:           ParsedNodeRef{Ident: ident, IcaoRegion: region, Kind: kind},
		TerminalRegion: terminal,
		Edge: HoldEdge{
			InboundCourseMagnetic: inboundCrs,
			LegLength:             leg,
			TurnDirection:         dir,
			MinAltitudeFt:         optionalInt32(minAlt),
			MaxAltitudeFt:         optionalInt32(maxAlt),
			MaxSpeedKt:            optionalInt32(maxSpd),
		},
	}, nil
}

func parseHoldFile(r io.Reader, acceptTag func(string) bool) (Header, []holdRow, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)

	h, err := readHeader("header", sc, acceptTag, XP1140)
	if err != nil {
		return Header{}, nil, err
	}

	ls := newLineScanner(sc)
	var rows []holdRow
	for {
		line, ok, err := ls.next()
		if err != nil {
			return Header{}, nil, err
		}
		if !ok {
			break
		}
		row, err := parseHoldRow(line)
		if err != nil {
			return Header{}, nil, err
		}
		rows = append(rows, row)
	}

	return h, rows, nil
}
