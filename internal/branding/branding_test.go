package branding

import "testing"

func TestEmbeddedValues(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"CLIName", CLIName(), "binplugin"},
		{"PluginName", PluginName(), "binplugin"},
		{"HomeDir", HomeDir(), ".binplugin"},
		{"EnvPrefix", EnvPrefix(), "BINPLUGIN"},
		{"ConfigName", ConfigName(), "binplugin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s() = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestEnvVar(t *testing.T) {
	if got := EnvVar("executable"); got != "BINPLUGIN_EXECUTABLE" {
		t.Errorf("EnvVar(\"executable\") = %q, want %q", got, "BINPLUGIN_EXECUTABLE")
	}
}
