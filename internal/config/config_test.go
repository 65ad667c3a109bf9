package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestLoadFromEnvUsesDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Env != EnvProd {
		t.Fatalf("unexpected env %q", cfg.Env)
	}
	if cfg.Server.Port != "8080" || cfg.Server.ShutdownTimeout != 30*time.Second {
		t.Fatalf("unexpected server config %+v", cfg.Server)
	}
	if cfg.RowStore.Backend != BackendPostgres || cfg.RowStore.PageSize != 1000 {
		t.Fatalf("unexpected row store config %+v", cfg.RowStore)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Fatalf("unexpected cache ttl %v", cfg.Cache.TTL)
	}
	if cfg.LocaleTag() != language.BrazilianPortuguese {
		t.Fatalf("unexpected locale %v", cfg.LocaleTag())
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.yaml")
	content := `
env: local
locale: en-US
server:
  port: "9090"
row_store:
  backend: SQLite
  page_size: 50
auth:
  jwt_secret: from-file
cors:
  allowed_origins: ["http://localhost:5173", "https://app.example.com"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Env != EnvLocal || cfg.Server.Port != "9090" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.RowStore.Backend != BackendSQLite || cfg.RowStore.PageSize != 50 {
		t.Fatalf("unexpected row store config %+v", cfg.RowStore)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("unexpected origins %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.LocaleTag() != language.AmericanEnglish {
		t.Fatalf("unexpected locale %v", cfg.LocaleTag())
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"AUTH_JWT_SECRET": ""}},
		{"unknown backend", map[string]string{"ROWSTORE_BACKEND": "mongo"}},
		{"postgrest without url", map[string]string{"ROWSTORE_BACKEND": "postgrest"}},
		{"zero page size", map[string]string{"ROWSTORE_PAGE_SIZE": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_PATH", "")
			t.Setenv("AUTH_JWT_SECRET", "secret")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLocaleTagFallsBack(t *testing.T) {
	cfg := Config{Locale: "not a tag!"}
	if cfg.LocaleTag() != language.BrazilianPortuguese {
		t.Fatalf("unexpected locale %v", cfg.LocaleTag())
	}
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "w", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=w sslmode=disable"
	if got := c.DSN(); got != want {
		t.Fatalf("DSN() = %q, want %q", got, want)
	}
}
