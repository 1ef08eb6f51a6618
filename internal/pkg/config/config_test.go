package config

import (
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.StorageDriver != StorageMongo {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.IncidentMaxAge != 24*time.Hour || cfg.DriverTick != 4*time.Second {
		t.Errorf("unexpected durations %v %v", cfg.IncidentMaxAge, cfg.DriverTick)
	}
	if cfg.Gemini.Model != "gemini-3-flash-preview" {
		t.Errorf("unexpected model %q", cfg.Gemini.Model)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development by default")
	}
}

func TestLoadFrom_DevelopmentNeverSignsWithAnEmptyKey(t *testing.T) {
	first, err := LoadFrom(envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := LoadFrom(envconfig.MapLookuper(map[string]string{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first.JWTSecret) != 64 || !first.JWTSecretGenerated {
		t.Fatalf("expected a generated 32 byte hex secret, got %q", first.JWTSecret)
	}
	if first.JWTSecret == second.JWTSecret {
		t.Fatal("each process must get its own secret")
	}

	set, err := LoadFrom(envconfig.MapLookuper(map[string]string{"JWT_SECRET": "s3cret"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.JWTSecret != "s3cret" || set.JWTSecretGenerated {
		t.Fatalf("an explicit secret must be kept, got %q", set.JWTSecret)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(envconfig.MapLookuper(map[string]string{
		"ENV":            "production",
		"JWT_SECRET":     "s3cret",
		"STORAGE_DRIVER": "file",
		"STATE_FILE":     "/tmp/state.json",
		"DRIVER_TICK":    "1s",
		"REDIS_DB":       "2",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StorageDriver != StorageFile || cfg.StateFile != "/tmp/state.json" {
		t.Errorf("unexpected storage %+v", cfg)
	}
	if cfg.DriverTick != time.Second || cfg.Redis.DB != 2 {
		t.Errorf("unexpected overrides %+v", cfg)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown storage", map[string]string{"STORAGE_DRIVER": "sqlite"}},
		{"production without secret", map[string]string{"ENV": "production"}},
		{"bad duration", map[string]string{"DRIVER_TICK": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFrom(envconfig.MapLookuper(tt.env)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
