// Copyright 2024-2026 Aiku AI

package bot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aiku/pagebot/pkg/pagination"
)

func TestConfigUnmarshalAppliesDefaults(t *testing.T) {
	t.Parallel()
	var cfg Config
	err := yaml.Unmarshal([]byte(`
platform: mattermost
mattermost:
    server_url: https://chat.example.com
    token: secret
`), &cfg)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if cfg.CommandPrefix != "!" {
		t.Errorf("command prefix: got %q, want %q", cfg.CommandPrefix, "!")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("log level: got %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.Navigator.TimeoutSeconds != 300 {
		t.Errorf("timeout seconds: got %d, want 300", cfg.Navigator.TimeoutSeconds)
	}
	if cfg.Navigator.MaxPageSize != pagination.DefaultMaxPageSize {
		t.Errorf("max page size: got %d, want %d", cfg.Navigator.MaxPageSize, pagination.DefaultMaxPageSize)
	}
	if got := cfg.Navigator.Timeout(); got != 5*time.Minute {
		t.Errorf("Timeout(): got %s, want 5m", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfigUnmarshalKeepsExplicitValues(t *testing.T) {
	t.Parallel()
	var cfg Config
	err := yaml.Unmarshal([]byte(`
platform: matrix
command_prefix: "?"
log_level: debug
navigator:
    timeout_seconds: 60
    max_page_size: 500
matrix:
    homeserver_url: https://matrix.example.com
    user_id: "@bot:example.com"
    access_token: syt_secret
`), &cfg)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if cfg.CommandPrefix != "?" || cfg.LogLevel != "debug" {
		t.Errorf("explicit values overwritten: %+v", cfg)
	}
	if cfg.Navigator.TimeoutSeconds != 60 || cfg.Navigator.MaxPageSize != 500 {
		t.Errorf("navigator values overwritten: %+v", cfg.Navigator)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "missing platform",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name:    "unknown platform",
			cfg:     Config{Platform: "irc"},
			wantErr: true,
		},
		{
			name:    "mattermost without token",
			cfg:     Config{Platform: PlatformMattermost, Mattermost: MattermostConfig{ServerURL: "https://x"}},
			wantErr: true,
		},
		{
			name:    "matrix without access token",
			cfg:     Config{Platform: PlatformMatrix, Matrix: MatrixConfig{HomeserverURL: "https://x", UserID: "@b:x"}},
			wantErr: true,
		},
		{
			name: "negative timeout",
			cfg: Config{
				Platform:   PlatformMattermost,
				Mattermost: MattermostConfig{ServerURL: "https://x", Token: "t"},
				Navigator:  NavigatorConfig{TimeoutSeconds: -1},
			},
			wantErr: true,
		},
		{
			name: "valid mattermost",
			cfg: Config{
				Platform:   PlatformMattermost,
				Mattermost: MattermostConfig{ServerURL: "https://x", Token: "t"},
			},
			wantErr: false,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("Validate should fail")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
platform: mattermost
owner_id: admin
mattermost:
    server_url: https://chat.example.com
    token: secret
`), 0o600)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.OwnerID != "admin" {
		t.Errorf("owner_id: got %q", cfg.OwnerID)
	}
	if cfg.CommandPrefix != "!" {
		t.Errorf("default command prefix not applied: %q", cfg.CommandPrefix)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	t.Parallel()
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfig should fail on a missing file")
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("platform: irc\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig should reject an unknown platform")
	}
}
