// navdata/header.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdata

import (
	"bufio"
	"strconv"
	"strings"
)

// DataVersion is one of the X-Plane navigation-data format generations.
type DataVersion int

const (
	XP1100 DataVersion = iota
	XP1101
	XP1140
	XP1150
	XP1200
)

func (v DataVersion) String() string {
	switch v {
	case XP1100:
		return "1100"
	case XP1101:
		return "1101"
	case XP1140:
		return "1140"
	case XP1150:
		return "1150"
	case XP1200:
		return "1200"
	default:
		return "unknown"
	}
}

func parseDataVersion(s string) (DataVersion, bool) {
	switch s {
	case "1100":
		return XP1100, true
	case "1101":
		return XP1101, true
	case "1140":
		return XP1140, true
	case "1150":
		return XP1150, true
	case "1200":
		return XP1200, true
	default:
		return 0, false
	}
}

// Header is the shared two-line preamble of every primary navigation-data
// file: a byte-order marker followed by a version/cycle/build/tag/
// copyright line.
type Header struct {
	Version     DataVersion
	Cycle       uint16
	Build       uint32
	MetadataTag string
	Copyright   string
}

// readHeader consumes the BOM line and the version line from sc, checking
// the metadata tag against acceptTag and the version against accept.
func readHeader(stage string, sc *bufio.Scanner, acceptTag func(string) bool, accept ...DataVersion) (Header, error) {
	if !sc.Scan() {
		return Header{}, newMissingLineError()
	}
	bomLine := strings.TrimRight(sc.Text(), "\r")
	if bomLine != "A" && bomLine != "I" {
		var b byte
		if len(bomLine) > 0 {
			b = bomLine[0]
		}
		return Header{}, newBadBOMError(b)
	}

	if !sc.Scan() {
		return Header{}, newMissingLineError()
	}
	line := strings.TrimRight(sc.Text(), "\r")

	h, err := parseHeaderLine(stage, line)
	if err != nil {
		return Header{}, err
	}

	if acceptTag != nil && !acceptTag(h.MetadataTag) {
		return Header{}, newParseFieldError(stage, h.MetadataTag)
	}

	ok := len(accept) == 0
	for _, a := range accept {
		if h.Version == a {
			ok = true
		}
	}
	if !ok {
		return Header{}, newUnsupportedVersionError(h.Version.String())
	}

	return h, nil
}

// parseHeaderLine decodes:
//
//	<4-digit version> " Version - data cycle " <4-digit cycle> ", build "
//	<8-digit build> ", metadata " <tag> "." <copyright>
func parseHeaderLine(stage, line string) (Header, error) {
	const marker1 = " Version - data cycle "
	const marker2 = ", build "
	const marker3 = ", metadata "

	if len(line) < 4 {
		return Header{}, newParseFieldError(stage, line)
	}
	versionStr, rest := line[:4], line[4:]
	version, ok := parseDataVersion(versionStr)
	if !ok {
		return Header{}, newUnsupportedVersionError(versionStr)
	}

	rest, ok = cutPrefix(rest, marker1)
	if !ok {
		return Header{}, newParseFieldError(stage, line)
	}
	if len(rest) < 4 {
		return Header{}, newParseFieldError(stage, line)
	}
	cycleStr, rest := rest[:4], rest[4:]
	cycle, err := strconv.ParseUint(cycleStr, 10, 16)
	if err != nil {
		return Header{}, newParseFieldError(stage, cycleStr)
	}

	rest, ok = cutPrefix(rest, marker2)
	if !ok {
		return Header{}, newParseFieldError(stage, line)
	}
	if len(rest) < 8 {
		return Header{}, newParseFieldError(stage, line)
	}
	buildStr, rest := rest[:8], rest[8:]
	build, err := strconv.ParseUint(buildStr, 10, 32)
	if err != nil {
		return Header{}, newParseFieldError(stage, buildStr)
	}

	rest, ok = cutPrefix(rest, marker3)
	if !ok {
		return Header{}, newParseFieldError(stage, line)
	}

	dot := strings.IndexByte(rest, '.')
	if dot < 0 {
		return Header{}, newParseFieldError(stage, line)
	}
	tag := rest[:dot]
	copyright := strings.TrimLeft(rest[dot+1:], " ")

	return Header{
		Version:     version,
		Cycle:       uint16(cycle),
		Build:       uint32(build),
		MetadataTag: tag,
		Copyright:   copyright,
	}, nil
}

func cutPrefix(s, prefix string) (string, bool) {
	if !strings.HasPrefix(s, prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
