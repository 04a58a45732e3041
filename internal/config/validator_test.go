package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v6/kind"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidate_Valid(t *testing.T) {
	docs := map[string]string{
		"empty":        "",
		"all keys":     "shebang: '#!/usr/bin/env node'\nexecutable: false\nhires: true\n",
		"json":         `{"shebang": "#!/usr/bin/env -S node --enable-source-maps"}`,
		"executable":   "executable: true\n",
		"bare marker":  "shebang: '#!'\n",
		"empty object": "{}",
	}

	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			result, err := Validate([]byte(doc))
			if err != nil {
				t.Fatalf("Validate error: %v", err)
			}
			if !result.Valid {
				t.Errorf("expected valid, got issues: %v", result.Issues)
			}
		})
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		path    string
		keyword string
	}{
		{"missing marker", "shebang: /usr/bin/env node\n", "/shebang", "pattern"},
		{"multi-line shebang", "shebang: \"#!/bin/sh\\necho\"\n", "/shebang", "pattern"},
		{"line separator", "shebang: \"#!/bin/sh\\Lecho\"\n", "/shebang", "pattern"},
		{"non-string key", "1: x\n", "", "additionalProperties"},
		{"string executable", "executable: yes please\n", "/executable", "type"},
		{"unknown key", "shebangs: '#!/bin/sh'\n", "", "additionalProperties"},
		{"not an object", "- shebang\n", "", "type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Validate([]byte(tt.doc))
			if err != nil {
				t.Fatalf("Validate error: %v", err)
			}
			if result.Valid {
				t.Fatal("expected invalid, got valid")
			}

			found := false
			for _, issue := range result.Issues {
				if issue.Path == tt.path && issue.Keyword == tt.keyword {
					found = true
				}
				if issue.Message == "" {
					t.Errorf("issue %+v has an empty message", issue)
				}
			}
			if !found {
				t.Errorf("no issue with path %q and keyword %q in %+v", tt.path, tt.keyword, result.Issues)
			}
		})
	}
}

func TestValidate_InvalidYAML(t *testing.T) {
	if _, err := Validate([]byte("shebang: [unclosed")); err == nil {
		t.Fatal("expected error for invalid YAML, got nil")
	}
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		file  string
		body  string
		valid bool
	}{
		{"yaml", "a.yaml", "hires: false\n", true},
		{"json", "b.json", `{"executable": "no"}`, false},
		{"toml valid", "c.toml", "shebang = \"#!/usr/bin/env node\"\n", true},
		{"toml invalid", "d.toml", "shebang = \"node\"\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateFile(writeFile(t, dir, tt.file, tt.body))
			if err != nil {
				t.Fatalf("ValidateFile error: %v", err)
			}
			if result.Valid != tt.valid {
				t.Errorf("Valid = %v, want %v (issues: %v)", result.Valid, tt.valid, result.Issues)
			}
		})
	}
}

func TestValidateFile_NotFound(t *testing.T) {
	if _, err := ValidateFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
}

func TestSchemaCompiles(t *testing.T) {
	if _, err := getSchema(); err != nil {
		t.Fatalf("embedded schema does not compile: %v", err)
	}
}

func TestValidate_MultiLineShebangNamesPath(t *testing.T) {
	result, err := Validate([]byte("shebang: \"#!/usr/bin/env node\\nrm -rf /\"\n"))
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if result.Valid {
		t.Fatal("a shebang spanning two lines should be rejected")
	}
	if len(result.Issues) != 1 {
		t.Fatalf("Issues = %+v, want exactly one", result.Issues)
	}
	if issue := result.Issues[0]; issue.Path != "/shebang" || issue.Keyword != "pattern" {
		t.Errorf("issue = %+v, want a pattern failure at /shebang", issue)
	}
}

func TestKeywordOf_EmptyKeywordPath(t *testing.T) {
	if got := keywordOf(&kind.Not{}); got != "not" {
		t.Errorf("keywordOf(*kind.Not) = %q, want %q", got, "not")
	}
	if got := keywordOf(&kind.Pattern{}); got != "pattern" {
		t.Errorf("keywordOf(*kind.Pattern) = %q, want %q", got, "pattern")
	}
}
