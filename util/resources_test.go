// util/resources_test.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenMaybeCompressedPlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "earth_fix.dat")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	rc, err := OpenMaybeCompressed(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("unexpected error reading: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("got %q, expected %q", data, "hello")
	}
}

func TestResolveDataFilePrefersCompressedSibling(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "earth_fix.dat")
	compressed := filepath.Join(dir, "earth_fix.dat.zst")
	if err := os.WriteFile(plain, []byte("plain"), 0644); err != nil {
		t.Fatalf("writing plain fixture: %v", err)
	}
	if err := os.WriteFile(compressed, []byte("compressed"), 0644); err != nil {
		t.Fatalf("writing compressed fixture: %v", err)
	}

	got, err := ResolveDataFile(dir, "earth_fix.dat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != compressed {
		t.Errorf("got %q, expected the compressed sibling %q", got, compressed)
	}
}

func TestResolveDataFileFallsBackToPlain(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "earth_nav.dat")
	if err := os.WriteFile(plain, []byte("plain"), 0644); err != nil {
		t.Fatalf("writing plain fixture: %v", err)
	}

	got, err := ResolveDataFile(dir, "earth_nav.dat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != plain {
		t.Errorf("got %q, expected %q", got, plain)
	}
}

func TestResolveDataFileMissingErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := ResolveDataFile(dir, "earth_awy.dat"); err == nil {
		t.Errorf("expected error when neither plain nor compressed file exists")
	}
}
