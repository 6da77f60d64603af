// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/playbymail/asn2eth/internal/config"
)

func TestLoad(t *testing.T) {
	// Test non-existent file
	t.Run("non-existent file", func(t *testing.T) {
		cfg, err := config.Load("non-existent-file.json", false)
		if err != nil {
			t.Errorf("expected no error for non-existent file, got %v", err)
		}
		if cfg == nil {
			t.Fatalf("expected non-nil config")
		}
		// Should return default config
		if cfg.Compiler.Encoding != "per" {
			t.Errorf("expected default encoding per, got %q", cfg.Compiler.Encoding)
		}
	})

	// Test directory instead of file
	t.Run("directory error", func(t *testing.T) {
		dir := t.TempDir()
		_, err := config.Load(dir, false)
		if err != config.ErrIsDirectory {
			t.Errorf("expected ErrIsDirectory, got %v", err)
		}
	})

	// Test malformed json falls back to defaults
	t.Run("malformed json", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "asn2eth.json")
		if err := os.WriteFile(name, []byte("{not json"), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := config.Load(name, false)
		if err != nil {
			t.Errorf("expected no error for malformed file, got %v", err)
		}
		if cfg.Compiler.Encoding != "per" {
			t.Errorf("expected default encoding per, got %q", cfg.Compiler.Encoding)
		}
	})

	// Test overrides win over defaults
	t.Run("overrides", func(t *testing.T) {
		name := filepath.Join(t.TempDir(), "asn2eth.json")
		want := config.Config{
			AllowConfig: true,
			Compiler: config.Compiler_t{
				Encoding:  "ber",
				LegacyAPI: true,
				Proto:     "h225",
				Conform:   []string{"h225.cnf"},
			},
			DebugFlags: config.DebugFlags_t{Tables: true},
		}
		data, err := json.MarshalIndent(want, "", "  ")
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(name, data, 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := config.Load(name, false)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Compiler.Encoding != "ber" {
			t.Errorf("expected encoding ber, got %q", cfg.Compiler.Encoding)
		}
		if !cfg.Compiler.LegacyAPI {
			t.Errorf("expected legacy api")
		}
		if cfg.Compiler.Proto != "h225" {
			t.Errorf("expected proto h225, got %q", cfg.Compiler.Proto)
		}
		if len(cfg.Compiler.Conform) != 1 || cfg.Compiler.Conform[0] != "h225.cnf" {
			t.Errorf("expected conform list, got %v", cfg.Compiler.Conform)
		}
		if !cfg.DebugFlags.Tables {
			t.Errorf("expected tables debug flag")
		}
	})
}
