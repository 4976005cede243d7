// navdata/errors.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package navdata

import (
	"fmt"

	"github.com/jdemille/xpnav/log"
)

// IOError wraps a lower-level I/O failure encountered while reading a
// navigation-data file.
type IOError struct {
	Err   error
	Stack log.StackFrames
}

func (e *IOError) Error() string { return fmt.Sprintf("io error: %v", e.Err) }
func (e *IOError) Unwrap() error { return e.Err }
func newIOError(err error) error { return &IOError{Err: err, Stack: log.Callstack(nil)} }

// ParseFieldError is any grammar failure while decoding a row or header.
// Stage names the offending grammar ("header", "fix row", "navaid row",
// "airway row", "hold row", "cifp row"); Rendered is the malformed text.
type ParseFieldError struct {
	Stage    string
	Rendered string
	Stack    log.StackFrames
}

func (e *ParseFieldError) Error() string {
	return fmt.Sprintf("%s: parse error at %q", e.Stage, e.Rendered)
}

func newParseFieldError(stage, rendered string) error {
	return &ParseFieldError{Stage: stage, Rendered: rendered, Stack: log.Callstack(nil)}
}

// BadBOMError indicates the first line of a file was not "A" or "I".
type BadBOMError struct {
	BOM   byte
	Stack log.StackFrames
}

func (e *BadBOMError) Error() string { return fmt.Sprintf("bad byte order marker: %q", e.BOM) }

func newBadBOMError(bom byte) error {
	return &BadBOMError{BOM: bom, Stack: log.Callstack(nil)}
}

// BadLastLineError indicates the final non-blank line of a file was not
// the sentinel "99".
type BadLastLineError struct {
	LastLine string
	Stack    log.StackFrames
}

func (e *BadLastLineError) Error() string {
	return fmt.Sprintf("final line is not the sentinel 99: %q", e.LastLine)
}

func newBadLastLineError(lastLine string) error {
	return &BadLastLineError{LastLine: lastLine, Stack: log.Callstack(nil)}
}

// MissingLineError indicates EOF was reached where a line was expected.
type MissingLineError struct {
	Stack log.StackFrames
}

func (e *MissingLineError) Error() string { return "unexpected end of file" }

func newMissingLineError() error {
	return &MissingLineError{Stack: log.Callstack(nil)}
}

// UnsupportedVersionError indicates the parsed version is not in the
// per-format accept list.
type UnsupportedVersionError struct {
	Version string
	Stack   log.StackFrames
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("unsupported version: %s", e.Version)
}

func newUnsupportedVersionError(version string) error {
	return &UnsupportedVersionError{Version: version, Stack: log.Callstack(nil)}
}

// CycleMismatchError indicates two files in the same folder carry
// different AIRAC cycles.
type CycleMismatchError struct {
	Established, New uint16
	Stack            log.StackFrames
}

func (e *CycleMismatchError) Error() string {
	return fmt.Sprintf("cycle mismatch: established %d, got %d", e.Established, e.New)
}

func newCycleMismatchError(established, n uint16) error {
	return &CycleMismatchError{Established: established, New: n, Stack: log.Callstack(nil)}
}

// ReferencedNonexistentWptError indicates an airway or hold row referenced
// a waypoint that does not resolve to any graph vertex.
type ReferencedNonexistentWptError struct {
	Wpt   string
	Stack log.StackFrames
}

func (e *ReferencedNonexistentWptError) Error() string {
	return fmt.Sprintf("referenced nonexistent waypoint: %s", e.Wpt)
}

func newReferencedNonexistentWptError(wpt string) error {
	return &ReferencedNonexistentWptError{Wpt: wpt, Stack: log.Callstack(nil)}
}

// InvalidAwyDirError indicates an airway row's direction column was not
// one of {F,B,N}.
type InvalidAwyDirError struct {
	Char  byte
	Stack log.StackFrames
}

func (e *InvalidAwyDirError) Error() string {
	return fmt.Sprintf("invalid airway direction: %q", e.Char)
}

func newInvalidAwyDirError(c byte) error {
	return &InvalidAwyDirError{Char: c, Stack: log.Callstack(nil)}
}

// InvalidHoldDirError indicates a hold row's direction column was not one
// of {L,R}.
type InvalidHoldDirError struct {
	Char  byte
	Stack log.StackFrames
}

func (e *InvalidHoldDirError) Error() string {
	return fmt.Sprintf("invalid hold direction: %q", e.Char)
}

func newInvalidHoldDirError(c byte) error {
	return &InvalidHoldDirError{Char: c, Stack: log.Callstack(nil)}
}

// ConflictingHoldLegLengthsError indicates a hold row specified both a
// minutes-based and a DME-based leg length.
type ConflictingHoldLegLengthsError struct {
	Minutes, DME float64
	Stack        log.StackFrames
}

func (e *ConflictingHoldLegLengthsError) Error() string {
	return fmt.Sprintf("conflicting hold leg lengths: minutes=%v dme=%v", e.Minutes, e.DME)
}

func newConflictingHoldLegLengthsError(minutes, dme float64) error {
	return &ConflictingHoldLegLengthsError{Minutes: minutes, DME: dme, Stack: log.Callstack(nil)}
}

///////////////////////////////////////////////////////////////////////////
// AirwayTraverseError: a separate taxonomy for query-time failures.

// NotOnAirwayError indicates the given node has no incident edge (or, for
// Start==false, no reachable vertex) bearing the named airway.
type NotOnAirwayError struct {
	Node  string
	Awy   string
	Start bool
	Stack log.StackFrames
}

func (e *NotOnAirwayError) Error() string {
	if e.Start {
		return fmt.Sprintf("%s: not on airway %s", e.Node, e.Awy)
	}
	return fmt.Sprintf("no vertex reachable from %s via airway %s", e.Node, e.Awy)
}

func newNotOnAirwayError(node, awy string, start bool) error {
	return &NotOnAirwayError{Node: node, Awy: awy, Start: start, Stack: log.Callstack(nil)}
}

// NoPathError indicates traversal could not continue from node.
type NoPathError struct {
	Node  string
	Stack log.StackFrames
}

func (e *NoPathError) Error() string { return fmt.Sprintf("no path from %s", e.Node) }

func newNoPathError(node string) error {
	return &NoPathError{Node: node, Stack: log.Callstack(nil)}
}

// BadNodeError indicates a node index does not exist in the graph.
type BadNodeError struct {
	Idx   int
	Stack log.StackFrames
}

func (e *BadNodeError) Error() string { return fmt.Sprintf("bad node index: %d", e.Idx) }

func newBadNodeError(idx int) error {
	return &BadNodeError{Idx: idx, Stack: log.Callstack(nil)}
}
