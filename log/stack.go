// log/stack.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"path/filepath"
	"strconv"
	"strings"

	"runtime"
)

// StackFrame records one frame of a captured call stack.
type StackFrame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
}

func (f StackFrame) String() string {
	return f.File + ":" + strconv.Itoa(f.Line) + ":" + f.Function
}

// StackFrames is a captured call stack, innermost frame first.
type StackFrames []StackFrame

func (s StackFrames) String() string {
	var sb strings.Builder
	for _, f := range s {
		sb.WriteString(f.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (s StackFrames) Strings() []string {
	r := make([]string, len(s))
	for i, f := range s {
		r[i] = f.String()
	}
	return r
}

// Callstack captures the call stack starting at the caller of the function
// that invoked it: that function's own frame (a Logger method or an error
// constructor) is skipped, so the first frame is the site being reported.
// Function names have the module path prefix removed. fr, if non-nil, is
// reused to avoid an allocation.
func Callstack(fr StackFrames) StackFrames {
	var callers [32]uintptr
	n := runtime.Callers(3, callers[:]) // skip runtime.Callers, Callstack, and its caller
	frames := runtime.CallersFrames(callers[:n])

	fr = fr[:0]
	for {
		frame, more := frames.Next()
		fn := strings.TrimPrefix(frame.Function, "github.com/jdemille/xpnav/")

		fr = append(fr, StackFrame{
			File:     filepath.Base(frame.File),
			Line:     frame.Line,
			Function: fn,
		})

		if !more {
			break
		}
	}
	return fr
}
