// log/stack_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import "testing"

// captureViaHelper stands in for a logging method or error constructor:
// Callstack skips this frame, so the capture starts at its caller.
func captureViaHelper() StackFrames { return Callstack(nil) }

func TestCallstackCapturesCaller(t *testing.T) {
	frames := captureViaHelper()
	if len(frames) == 0 {
		t.Fatalf("expected at least one captured frame")
	}
	if frames[0].Function != "log.TestCallstackCapturesCaller" {
		t.Errorf("innermost frame = %q, expected log.TestCallstackCapturesCaller", frames[0].Function)
	}
}

func TestStackFramesString(t *testing.T) {
	frames := StackFrames{
		{File: "foo.go", Line: 10, Function: "Foo"},
		{File: "bar.go", Line: 20, Function: "Bar"},
	}
	s := frames.String()
	if s != "foo.go:10:Foo\nbar.go:20:Bar\n" {
		t.Errorf("got %q", s)
	}
	strs := frames.Strings()
	if len(strs) != 2 || strs[0] != "foo.go:10:Foo" {
		t.Errorf("Strings() = %v", strs)
	}
}
