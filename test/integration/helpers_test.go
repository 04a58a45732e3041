//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir    string // HOME, holds .binplugin/config.yaml
	ProjectDir string // A mock package with sources under src/
}

// setupTestEnv creates isolated temp directories and points HOME at one of
// them so user settings never leak between tests.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:    t.TempDir(),
		ProjectDir: t.TempDir(),
	}
	t.Setenv("HOME", env.HomeDir)
	t.Setenv("USERPROFILE", env.HomeDir)
	return env
}

// setupProject writes a small command-line package: a TypeScript entry with
// a shebang, a helper module, and a library entry without one.
func setupProject(t *testing.T, projectDir string) {
	t.Helper()

	writeFile(t, filepath.Join(projectDir, "src", "cli.ts"), `#!/usr/bin/env node
import { format } from './format';

const name = process.argv[2] ?? 'world';
console.log(format(name));
`)
	writeFile(t, filepath.Join(projectDir, "src", "format.ts"), `export function format(name: string): string {
  return 'BINPLUGIN_OK:' + name;
}
`)
	writeFile(t, filepath.Join(projectDir, "src", "index.ts"), `export { format } from './format';
`)
}

// writeFile creates a file with the given content, creating parent dirs as needed.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertFirstLine fails unless the file's first line is want and no other
// line starts with "#!".
func assertFirstLine(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	lines := strings.Split(string(data), "\n")
	if lines[0] != want {
		t.Errorf("first line of %s = %q, want %q", path, lines[0], want)
	}
	for i, line := range lines[1:] {
		if strings.HasPrefix(line, "#!") {
			t.Errorf("%s has a second shebang on line %d: %q", path, i+2, line)
		}
	}
}

// assertExecutable checks the execute bits of path. Windows has none.
func assertExecutable(t *testing.T, path string, want bool) {
	t.Helper()
	if runtime.GOOS == "windows" {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("stat %s: %v", path, err)
		return
	}
	if got := info.Mode().Perm()&0o111 == 0o111; got != want {
		t.Errorf("%s mode = %o, executable = %v, want %v", path, info.Mode().Perm(), got, want)
	}
}
