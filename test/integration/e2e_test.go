//go:build integration

package integration_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/agentx-labs/binplugin/internal/config"
	"github.com/agentx-labs/binplugin/internal/esbuildhost"
	"github.com/agentx-labs/binplugin/internal/pipeline"
	"github.com/agentx-labs/binplugin/internal/shebang"
	"github.com/agentx-labs/binplugin/internal/sourcemap"
	"github.com/spf13/afero"
)

func build(t *testing.T, env *testEnv, opts esbuildhost.Options) pipeline.Bundle {
	t.Helper()

	project, err := config.LoadOptions(env.ProjectDir, nil)
	if err != nil {
		t.Fatalf("LoadOptions: %v", err)
	}
	opts.AbsWorkingDir = env.ProjectDir
	if opts.Outdir == "" {
		opts.Outdir = "dist"
	}

	bundle, err := esbuildhost.Build(context.Background(), opts, shebang.New(project.Options))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return bundle
}

// TestFullFlowBuildCLI bundles a TypeScript CLI and checks the written file
// keeps its shebang, is executable and carries a usable source map.
func TestFullFlowBuildCLI(t *testing.T) {
	env := setupTestEnv(t)
	setupProject(t, env.ProjectDir)

	build(t, env, esbuildhost.Options{
		EntryPoints: []string{"src/cli.ts", "src/index.ts"},
		Format:      "esm",
		Sourcemap:   true,
	})

	cli := filepath.Join(env.ProjectDir, "dist", "cli.js")
	index := filepath.Join(env.ProjectDir, "dist", "index.js")

	assertFirstLine(t, cli, "#!/usr/bin/env node")
	assertExecutable(t, cli, true)
	assertExecutable(t, index, false)
	assertFileExists(t, cli+".map")

	data, err := os.ReadFile(cli + ".map")
	if err != nil {
		t.Fatalf("reading map: %v", err)
	}
	m, err := sourcemap.Parse(data)
	if err != nil {
		t.Fatalf("parsing map: %v", err)
	}
	if m.File != "cli.js" {
		t.Errorf("map file = %q, want cli.js", m.File)
	}
}

// TestFullFlowProjectOptions checks that binplugin.yaml reaches the plugin.
func TestFullFlowProjectOptions(t *testing.T) {
	env := setupTestEnv(t)
	setupProject(t, env.ProjectDir)
	writeFile(t, filepath.Join(env.ProjectDir, "binplugin.yaml"), `shebang: "#!/usr/bin/env -S node --enable-source-maps"
executable: false
`)

	build(t, env, esbuildhost.Options{EntryPoints: []string{"src/cli.ts"}, Format: "cjs"})

	cli := filepath.Join(env.ProjectDir, "dist", "cli.js")
	assertFirstLine(t, cli, "#!/usr/bin/env -S node --enable-source-maps")
	assertExecutable(t, cli, false)
}

// TestFullFlowInvalidProjectOptions checks a malformed options file stops
// the build before esbuild runs.
func TestFullFlowInvalidProjectOptions(t *testing.T) {
	env := setupTestEnv(t)
	setupProject(t, env.ProjectDir)
	writeFile(t, filepath.Join(env.ProjectDir, "binplugin.yaml"), "shebang: node\n")

	if _, err := config.LoadOptions(env.ProjectDir, nil); err == nil {
		t.Fatal("expected schema error, got nil")
	}
}

// TestFullFlowRunBuiltCLI executes the output directly, relying on the
// shebang and the execute bits.
func TestFullFlowRunBuiltCLI(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shebang execution is not supported on Windows")
	}
	if _, err := exec.LookPath("node"); err != nil {
		t.Skip("Node.js not available, skipping")
	}

	env := setupTestEnv(t)
	setupProject(t, env.ProjectDir)
	build(t, env, esbuildhost.Options{EntryPoints: []string{"src/cli.ts"}, Format: "esm"})

	out, err := exec.Command(filepath.Join(env.ProjectDir, "dist", "cli.js"), "gopher").CombinedOutput()
	if err != nil {
		t.Fatalf("running built CLI: %v\n%s", err, out)
	}
	if !strings.Contains(string(out), "BINPLUGIN_OK:gopher") {
		t.Errorf("output = %q", out)
	}
}

// TestFullFlowChmodForeignBuild makes files written by another tool
// executable with the standalone setter.
func TestFullFlowChmodForeignBuild(t *testing.T) {
	env := setupTestEnv(t)
	dist := filepath.Join(env.ProjectDir, "dist")
	writeFile(t, filepath.Join(dist, "bin", "tool.mjs"), "#!/usr/bin/env node\nconsole.log(1);\n")
	writeFile(t, filepath.Join(dist, "lib.mjs"), "export {};\n")

	bundle := pipeline.Bundle{
		"bin/tool.mjs": {FileName: "bin/tool.mjs", Kind: pipeline.KindChunk, Code: "#!/usr/bin/env node\nconsole.log(1);\n"},
		"lib.mjs":      {FileName: "lib.mjs", Kind: pipeline.KindChunk, Code: "export {};\n"},
	}
	changed, err := shebang.MakeExecutable(afero.NewOsFs(), dist, bundle, nil)
	if err != nil {
		t.Fatalf("MakeExecutable: %v", err)
	}
	if len(changed) != 1 {
		t.Errorf("changed = %v, want only bin/tool.mjs", changed)
	}
	assertExecutable(t, filepath.Join(dist, "bin", "tool.mjs"), true)
	assertExecutable(t, filepath.Join(dist, "lib.mjs"), false)
}
