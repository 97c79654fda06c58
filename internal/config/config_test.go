package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadTOMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "game.toml", `
[asteroids]
capacity = 3
time_between = 500

[logging]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Asteroids.Capacity != 3 {
		t.Errorf("capacity = %d, want 3", cfg.Asteroids.Capacity)
	}
	if cfg.Asteroids.TimeBetweenAsteroids != 500 {
		t.Errorf("time_between = %v, want 500", cfg.Asteroids.TimeBetweenAsteroids)
	}
	if cfg.Asteroids.MaxSpeed != 120 {
		t.Errorf("untouched max_speed = %v, want default 120", cfg.Asteroids.MaxSpeed)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging level = %q", cfg.Logging.Level)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "game.yaml", "bullets:\n  speed: 350\nexplosions:\n  colour:\n    g: 128\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Bullets.Speed != 350 {
		t.Errorf("bullet speed = %v, want 350", cfg.Bullets.Speed)
	}
	if cfg.Explosions.Colour.G != 128 || cfg.Explosions.Colour.R != 255 {
		t.Errorf("colour = %+v", cfg.Explosions.Colour)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := writeFile(t, "bad.toml", "[asteroids]\nmin_speed = 200\nmax_speed = 100\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "min_speed") {
		t.Fatalf("expected min_speed error, got %v", err)
	}
}

func TestLoadUnknownExtension(t *testing.T) {
	path := writeFile(t, "game.ini", "")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for .ini")
	}
}

func TestLoadFromEnvWithoutVariable(t *testing.T) {
	t.Setenv("SHOOTER_CONFIG", "")
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Field.SizeX != Default().Field.SizeX {
		t.Error("expected default config")
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("SHOOTER_TEST_BOOL", "true")
	t.Setenv("SHOOTER_TEST_DUR", "nonsense")
	if !GetEnvBool("SHOOTER_TEST_BOOL", false) {
		t.Error("GetEnvBool")
	}
	if got := GetEnvDuration("SHOOTER_TEST_DUR", 5); got != 5 {
		t.Errorf("GetEnvDuration fallback = %v", got)
	}
}
