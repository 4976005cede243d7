// util/resources.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// OpenMaybeCompressed opens path for reading. If path has a ".zst"
// extension, the returned ReadCloser transparently decompresses it;
// otherwise the file is returned unmodified. Closing the returned
// ReadCloser closes the underlying file.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if filepath.Ext(path) != ".zst" {
		return f, nil
	}

	zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(0))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &zstdReadCloser{zr: zr, f: f}, nil
}

// zstdReadCloser adapts a *zstd.Decoder (whose Close returns nothing) to
// io.ReadCloser while also closing the underlying file.
type zstdReadCloser struct {
	zr *zstd.Decoder
	f  *os.File
}

func (z *zstdReadCloser) Read(p []byte) (int, error) {
	return z.zr.Read(p)
}

func (z *zstdReadCloser) Close() error {
	z.zr.Close()
	return z.f.Close()
}

// ResolveDataFile finds the navigation-data file named base within dir,
// preferring a zstd-compressed sibling (base+".zst") when both exist.
func ResolveDataFile(dir, base string) (string, error) {
	compressed := filepath.Join(dir, base+".zst")
	if _, err := os.Stat(compressed); err == nil {
		return compressed, nil
	}

	plain := filepath.Join(dir, base)
	if _, err := os.Stat(plain); err == nil {
		return plain, nil
	}

	return "", fmt.Errorf("%s: not found (looked for %s and %s)", base, plain, compressed)
}
