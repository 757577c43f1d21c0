// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunRaw_RelaysBytesVerbatim(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.bin")
	outPath := filepath.Join(dir, "out.bin")

	want := []byte("raw passthrough payload")
	if err := os.WriteFile(inPath, want, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := runRaw("File://"+inPath, "File://"+outPath); err != nil {
		t.Fatalf("runRaw: %v", err)
	}

	got, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRunRaw_BadInput(t *testing.T) {
	if err := runRaw("Bogus://nope", ""); err == nil {
		t.Fatalf("expected error for unknown scheme")
	}
}
