package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Depth int `env:"GREATWHEEL_TEST_DEPTH" envDefault:"16"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Depth != 16 {
		t.Fatalf("expected default depth 16, got %d", cfg.Depth)
	}
}

func TestParseEnvOverride(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("GREATWHEEL_TEST_DEPTH", "32")

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Depth != 32 {
		t.Fatalf("expected depth 32, got %d", cfg.Depth)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("GREATWHEEL_TEST_DEPTH", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
