package platform

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
)

func TestChmod(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "test.txt")
	if err := os.WriteFile(path, []byte("test"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Chmod(afero.NewOsFs(), path, 0600); err != nil {
		t.Fatalf("Chmod failed: %v", err)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("permissions = %o, want %o", perm, 0600)
		}
	}
}

func TestAddExecBits(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not supported on Windows")
	}

	tests := []struct {
		start os.FileMode
		want  os.FileMode
	}{
		{0644, 0755},
		{0600, 0711},
		{0755, 0755},
		{0444, 0555},
	}

	for _, tt := range tests {
		t.Run(tt.start.String(), func(t *testing.T) {
			tmp := t.TempDir()
			path := filepath.Join(tmp, "cli.js")
			if err := os.WriteFile(path, []byte("#!/usr/bin/env node\n"), 0644); err != nil {
				t.Fatal(err)
			}
			if err := os.Chmod(path, tt.start); err != nil {
				t.Fatal(err)
			}

			mode, err := AddExecBits(afero.NewOsFs(), path)
			if err != nil {
				t.Fatalf("AddExecBits failed: %v", err)
			}
			if mode.Perm() != tt.want {
				t.Errorf("returned mode = %o, want %o", mode.Perm(), tt.want)
			}

			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if perm := info.Mode().Perm(); perm != tt.want {
				t.Errorf("permissions = %o, want %o", perm, tt.want)
			}
		})
	}
}

func TestAddExecBits_MemFs(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not supported on Windows")
	}

	mem := afero.NewMemMapFs()
	if err := afero.WriteFile(mem, "/dist/cli.js", []byte("#!/bin/sh\n"), 0640); err != nil {
		t.Fatal(err)
	}

	mode, err := AddExecBits(mem, "/dist/cli.js")
	if err != nil {
		t.Fatalf("AddExecBits failed: %v", err)
	}
	if mode.Perm() != 0751 {
		t.Errorf("mode = %o, want %o", mode.Perm(), 0751)
	}
}

func TestAddExecBits_MissingFile(t *testing.T) {
	_, err := AddExecBits(afero.NewMemMapFs(), "/dist/gone.js")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("AddExecBits error = %v, want fs.ErrNotExist", err)
	}
}
