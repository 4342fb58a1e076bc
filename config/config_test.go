package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"asm14/config"
)

func TestDefaultConfigPreservesOpenQuestionBehavior(t *testing.T) {
	cfg := config.DefaultConfig()
	if cfg.Diagnostics.ExitNonzeroOnError {
		t.Fatal("default exit code behavior must stay 0-on-error until opted in")
	}
	if cfg.Dialect.AcceptBareZero {
		t.Fatal("bare-zero rejection must stay the default until opted in")
	}
	if cfg.Symbols.MaxNameLength != 31 {
		t.Fatalf("MaxNameLength = %d, want 31", cfg.Symbols.MaxNameLength)
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !cfg.Output.EmitAm {
		t.Fatal("expected default EmitAm=true")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.DefaultConfig()
	cfg.Dialect.AcceptBareZero = true
	cfg.Diagnostics.MaxErrorsPerFile = 5

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	loaded, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !loaded.Dialect.AcceptBareZero || loaded.Diagnostics.MaxErrorsPerFile != 5 {
		t.Fatalf("round-trip mismatch: %+v", loaded)
	}
}
