package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agentx-labs/binplugin/internal/branding"
	"github.com/agentx-labs/binplugin/internal/shebang"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Option keys, shared by the project file, environment variables
// (BINPLUGIN_SHEBANG, ...) and command-line flags.
const (
	KeyShebang    = "shebang"
	KeyExecutable = "executable"
	KeyHires      = "hires"
)

// SchemaError is returned when a project config file does not match the
// options schema.
type SchemaError struct {
	File   string
	Issues []ValidationIssue
}

func (e *SchemaError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.String()
	}
	return fmt.Sprintf("invalid options in %s: %s", e.File, strings.Join(msgs, "; "))
}

// Project is the outcome of LoadOptions.
type Project struct {
	// File is the config file that was read, empty when none was found.
	File    string
	Options shebang.Options
}

// LoadOptions reads the project config file from dir, checks it against the
// options schema and overlays environment variables and the flags in fs
// whose names match an option key. A missing file is not an error. fs may
// be nil.
func LoadOptions(dir string, fs *pflag.FlagSet) (*Project, error) {
	v := viper.New()
	v.SetConfigName(branding.ConfigName())
	v.AddConfigPath(dir)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	if fs != nil {
		for _, key := range []string{KeyShebang, KeyExecutable, KeyHires} {
			if f := fs.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", key, err)
				}
			}
		}
	}

	p := &Project{}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading project config: %w", err)
		}
	} else {
		p.File = v.ConfigFileUsed()
		result, err := ValidateFile(p.File)
		if err != nil {
			return nil, err
		}
		if !result.Valid {
			return nil, &SchemaError{File: p.File, Issues: result.Issues}
		}
	}

	if v.IsSet(KeyShebang) {
		p.Options.Shebang = shebang.Literal(v.GetString(KeyShebang))
	}
	if v.IsSet(KeyExecutable) {
		p.Options.Executable = shebang.Bool(v.GetBool(KeyExecutable))
	}
	if v.IsSet(KeyHires) {
		p.Options.Hires = shebang.Bool(v.GetBool(KeyHires))
	}
	return p, nil
}
