package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	pkgerrors "github.com/zhubert/travelchat/internal/errors"
)

// clearAPIURLEnv unsets the API URL overrides for the duration of the test.
func clearAPIURLEnv(t *testing.T) {
	t.Helper()
	for _, name := range apiURLEnvVars {
		t.Setenv(name, "")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		apiURL  string
		wantErr bool
	}{
		{"empty is allowed", "", false},
		{"http", "http://localhost:8000", false},
		{"https with path", "https://travel.example.com/api", false},
		{"missing scheme", "localhost:8000", true},
		{"ftp scheme", "ftp://example.com", true},
		{"no host", "http://", true},
		{"unparseable", "http://[::1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{APIURL: tt.apiURL}
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !pkgerrors.Is(err, pkgerrors.KindInvalid) {
				t.Errorf("Validate() error kind = %v, want KindInvalid", pkgerrors.GetKind(err))
			}
		})
	}
}

func TestConfig_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.json")

	cfg := &Config{
		APIURL:               "http://travel.local:9000",
		Theme:                "nord",
		NotificationsEnabled: true,
		filePath:             configPath,
	}

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Failed to unmarshal config: %v", err)
	}
	if raw["api_url"] != "http://travel.local:9000" {
		t.Errorf("Expected api_url in file, got %v", raw["api_url"])
	}
	if _, ok := raw["welcome_shown"]; ok {
		t.Error("welcome_shown should be omitted when false")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.GetAPIURL() != "http://travel.local:9000" {
		t.Errorf("Expected API URL to round trip, got %q", loaded.GetAPIURL())
	}
	if loaded.GetTheme() != "nord" {
		t.Errorf("Expected theme 'nord', got %q", loaded.GetTheme())
	}
	if !loaded.GetNotificationsEnabled() {
		t.Error("Expected notifications to be enabled")
	}
}

func TestLoad_NewConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.GetAPIURL() != "" {
		t.Errorf("New config should have no API URL, got %q", cfg.GetAPIURL())
	}

	// Saving a fresh config creates ~/.travelchat/config.json
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, ".travelchat", "config.json")); err != nil {
		t.Errorf("Expected config file to be created: %v", err)
	}
}

func TestLoad_ExistingConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	dir := filepath.Join(tmpDir, ".travelchat")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	configData := `{"api_url": "https://api.example.com", "theme": "dracula"}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(configData), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.GetAPIURL() != "https://api.example.com" {
		t.Errorf("Expected API URL 'https://api.example.com', got %q", cfg.GetAPIURL())
	}
	if cfg.GetTheme() != "dracula" {
		t.Errorf("Expected theme 'dracula', got %q", cfg.GetTheme())
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("invalid json"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Fatal("LoadFrom() should fail with invalid JSON")
	}
	if !pkgerrors.Is(err, pkgerrors.KindConfig) {
		t.Errorf("Expected KindConfig, got %v", pkgerrors.GetKind(err))
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"api_url": "not a url"}`), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("LoadFrom() should fail validation for a bad api_url")
	}
}

func TestConfig_ResolveAPIURL(t *testing.T) {
	tests := []struct {
		name      string
		override  string
		envTravel string
		envPublic string
		file      string
		want      string
	}{
		{
			name: "default",
			want: DefaultAPIURL,
		},
		{
			name: "config file",
			file: "http://file:1",
			want: "http://file:1",
		},
		{
			name:      "public env beats file",
			envPublic: "http://public:2",
			file:      "http://file:1",
			want:      "http://public:2",
		},
		{
			name:      "travelchat env beats public env",
			envTravel: "http://travel:3",
			envPublic: "http://public:2",
			file:      "http://file:1",
			want:      "http://travel:3",
		},
		{
			name:      "override beats everything",
			override:  "http://flag:4",
			envTravel: "http://travel:3",
			file:      "http://file:1",
			want:      "http://flag:4",
		},
		{
			name:     "trailing slashes trimmed",
			override: "http://flag:4//",
			want:     "http://flag:4",
		},
		{
			name:     "whitespace override ignored",
			override: "   ",
			file:     "http://file:1/",
			want:     "http://file:1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearAPIURLEnv(t)
			t.Setenv("TRAVELCHAT_API_URL", tt.envTravel)
			t.Setenv("NEXT_PUBLIC_API_URL", tt.envPublic)

			cfg := &Config{APIURL: tt.file}
			if got := cfg.ResolveAPIURL(tt.override); got != tt.want {
				t.Errorf("ResolveAPIURL(%q) = %q, want %q", tt.override, got, tt.want)
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	clearAPIURLEnv(t)
	os.Unsetenv("TRAVELCHAT_API_URL")

	// No .env file is fine
	if err := LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() without .env returned %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TRAVELCHAT_API_URL=http://dotenv:7\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	if err := LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() returned %v", err)
	}

	cfg := &Config{}
	if got := cfg.ResolveAPIURL(""); got != "http://dotenv:7" {
		t.Errorf("ResolveAPIURL() = %q, want value from .env", got)
	}
}

func TestConfig_Setters(t *testing.T) {
	cfg := &Config{}

	cfg.SetAPIURL("http://x:1")
	if cfg.GetAPIURL() != "http://x:1" {
		t.Errorf("GetAPIURL() = %q", cfg.GetAPIURL())
	}

	cfg.SetTheme("gruvbox")
	if cfg.GetTheme() != "gruvbox" {
		t.Errorf("GetTheme() = %q", cfg.GetTheme())
	}

	cfg.SetNotificationsEnabled(true)
	if !cfg.GetNotificationsEnabled() {
		t.Error("Expected notifications enabled")
	}
	cfg.SetNotificationsEnabled(false)
	if cfg.GetNotificationsEnabled() {
		t.Error("Expected notifications disabled")
	}

	if cfg.HasSeenWelcome() {
		t.Error("Fresh config should not have seen welcome")
	}
	cfg.MarkWelcomeShown()
	if !cfg.HasSeenWelcome() {
		t.Error("Expected welcome to be marked shown")
	}
}

func TestConfig_ConcurrentAccess(t *testing.T) {
	cfg := &Config{}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cfg.SetTheme("nord")
			cfg.SetNotificationsEnabled(true)
		}()
		go func() {
			defer wg.Done()
			_ = cfg.GetTheme()
			_ = cfg.ResolveAPIURL("")
		}()
	}
	wg.Wait()
}
