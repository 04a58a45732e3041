package config

import (
	"errors"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadOptions_NoFile(t *testing.T) {
	p, err := LoadOptions(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("LoadOptions error: %v", err)
	}
	if p.File != "" {
		t.Errorf("File = %q, want empty", p.File)
	}
	if p.Options.Shebang != nil || p.Options.Executable != nil || p.Options.Hires != nil {
		t.Errorf("Options = %+v, want zero value", p.Options)
	}
}

func TestLoadOptions_File(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "binplugin.yaml", "shebang: '#!/usr/bin/env bun'\nexecutable: false\n")

	p, err := LoadOptions(dir, nil)
	if err != nil {
		t.Fatalf("LoadOptions error: %v", err)
	}
	if p.File == "" {
		t.Error("File should name binplugin.yaml")
	}
	if got := p.Options.Shebang.Apply("#!/usr/bin/env node"); got != "#!/usr/bin/env bun" {
		t.Errorf("shebang = %q, want the configured literal", got)
	}
	if p.Options.Executable == nil || *p.Options.Executable {
		t.Error("executable should be false")
	}
	if p.Options.Hires != nil {
		t.Error("hires should be left unset")
	}
}

func TestLoadOptions_SchemaError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "binplugin.yaml", "shebang: /usr/bin/env node\n")

	_, err := LoadOptions(dir, nil)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("LoadOptions error = %v, want *SchemaError", err)
	}
	if len(schemaErr.Issues) == 0 || schemaErr.Issues[0].Path != "/shebang" {
		t.Errorf("Issues = %+v, want one for /shebang", schemaErr.Issues)
	}
}

func TestLoadOptions_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "binplugin.yaml", "executable: true\n")
	t.Setenv("BINPLUGIN_EXECUTABLE", "false")
	t.Setenv("BINPLUGIN_HIRES", "false")

	p, err := LoadOptions(dir, nil)
	if err != nil {
		t.Fatalf("LoadOptions error: %v", err)
	}
	if p.Options.Executable == nil || *p.Options.Executable {
		t.Error("BINPLUGIN_EXECUTABLE=false should win over the file")
	}
	if p.Options.Hires == nil || *p.Options.Hires {
		t.Error("BINPLUGIN_HIRES=false should be applied")
	}
}

func TestLoadOptions_Flags(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "binplugin.yaml", "shebang: '#!/usr/bin/env node'\nhires: false\n")

	fs := pflag.NewFlagSet("build", pflag.ContinueOnError)
	fs.String(KeyShebang, "", "")
	fs.Bool(KeyExecutable, true, "")
	fs.Bool(KeyHires, true, "")
	if err := fs.Parse([]string{"--shebang", "#!/usr/bin/env deno"}); err != nil {
		t.Fatal(err)
	}

	p, err := LoadOptions(dir, fs)
	if err != nil {
		t.Fatalf("LoadOptions error: %v", err)
	}
	if got := p.Options.Shebang.Apply(""); got != "#!/usr/bin/env deno" {
		t.Errorf("shebang = %q, want the flag value", got)
	}
	if p.Options.Executable != nil {
		t.Error("an unchanged flag should not set executable")
	}
	if p.Options.Hires == nil || *p.Options.Hires {
		t.Error("hires from the file should survive an unchanged flag")
	}
}
