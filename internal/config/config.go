package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/agentx-labs/binplugin/internal/branding"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// User setting keys, shared by the user config file and environment
// variables (BINPLUGIN_LOG_LEVEL, ...).
const (
	KeyLogLevel   = "log_level"
	KeyTimestamps = "timestamps"
)

// UserKeys lists every user setting key.
var UserKeys = []string{KeyLogLevel, KeyTimestamps}

// Settings are the user-level defaults for the CLI's logger.
type Settings struct {
	LogLevel   string
	Timestamps bool
}

// Dir returns the path to the user config directory (~/.binplugin/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the user config file (~/.binplugin/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// UserStore reads and writes the user config file.
type UserStore struct {
	fs   afero.Fs
	path string
	v    *viper.Viper
}

// OpenUserStore reads the user config file at path from fs and overlays
// environment variables. A missing file yields the defaults.
func OpenUserStore(fs afero.Fs, path string) (*UserStore, error) {
	v, err := readUserFile(fs, path)
	if err != nil {
		return nil, err
	}
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyTimestamps, false)

	return &UserStore{fs: fs, path: path, v: v}, nil
}

func readUserFile(fs afero.Fs, path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetConfigType(fileType)

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}
	if exists {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading user config %s: %w", path, err)
		}
	}
	return v, nil
}

// Path returns the file the store writes to.
func (s *UserStore) Path() string { return s.path }

// Settings returns the resolved user settings.
func (s *UserStore) Settings() Settings {
	return Settings{
		LogLevel:   s.v.GetString(KeyLogLevel),
		Timestamps: s.v.GetBool(KeyTimestamps),
	}
}

// Get returns the resolved value of a user setting.
func (s *UserStore) Get(key string) (string, error) {
	if err := checkUserKey(key); err != nil {
		return "", err
	}
	return s.v.GetString(key), nil
}

// Set checks value against key's type, then writes it to the user config
// file. Values from the environment are never written back.
func (s *UserStore) Set(key, value string) error {
	var typed any
	switch key {
	case KeyLogLevel:
		if _, err := log.ParseLevel(strings.ToLower(value)); err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
		typed = strings.ToLower(value)
	case KeyTimestamps:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: want true or false", key, value)
		}
		typed = b
	default:
		return checkUserKey(key)
	}

	file, err := readUserFile(s.fs, s.path)
	if err != nil {
		return err
	}
	file.Set(key, typed)

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", filepath.Dir(s.path), err)
	}
	if err := file.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	s.v.Set(key, typed)
	return nil
}

func checkUserKey(key string) error {
	for _, k := range UserKeys {
		if k == key {
			return nil
		}
	}
	return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(UserKeys, ", "))
}
