package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "127.0.0.1")
	}
	if cfg.API.Port != 8787 {
		t.Errorf("API.Port = %d, want %d", cfg.API.Port, 8787)
	}
	if cfg.API.AllowedOrigin != "*" {
		t.Errorf("API.AllowedOrigin = %q, want %q", cfg.API.AllowedOrigin, "*")
	}
	if cfg.Store.CacheTTL != "30s" {
		t.Errorf("Store.CacheTTL = %q, want %q", cfg.Store.CacheTTL, "30s")
	}
	if len(cfg.Periods.Default) != 4 || cfg.Periods.Default[0] != "00:00" {
		t.Errorf("Periods.Default = %v", cfg.Periods.Default)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Port != 8787 {
		t.Errorf("API.Port = %d, want default", cfg.API.Port)
	}
}

func TestLoad_PartialFileLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[api]
port = 9000
allowed_origin = "http://localhost:5173"

[sheets]
users = "https://example.com/users.csv"

[periods]
default = ["08:00", "20:00"]
`
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("API.Port = %d, want 9000", cfg.API.Port)
	}
	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host = %q, unset field should keep default", cfg.API.Host)
	}
	if cfg.API.Addr() != "127.0.0.1:9000" {
		t.Errorf("Addr = %q", cfg.API.Addr())
	}
	if cfg.Sheets.Users != "https://example.com/users.csv" {
		t.Errorf("Sheets.Users = %q", cfg.Sheets.Users)
	}
	if len(cfg.Periods.Default) != 2 || cfg.Periods.Default[1] != "20:00" {
		t.Errorf("Periods.Default = %v", cfg.Periods.Default)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[api\nport="), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDurationFallbacks(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"45s", 45 * time.Second},
		{"2m", 2 * time.Minute},
		{"", 30 * time.Second},
		{"soon", 30 * time.Second},
		{"-5s", 30 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := StoreConfig{CacheTTL: tt.input}.CacheTTLDuration()
			if got != tt.want {
				t.Errorf("CacheTTLDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
