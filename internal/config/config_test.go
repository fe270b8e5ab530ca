package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatchesDocumentedValues(t *testing.T) {
	cfg := Default()
	if cfg.TCPPort != 44818 {
		t.Errorf("tcp_port default: %d", cfg.TCPPort)
	}
	if cfg.UDPPort != 2222 {
		t.Errorf("udp_port default: %d", cfg.UDPPort)
	}
	if cfg.BindHost != "0.0.0.0" {
		t.Errorf("bind_host default: %q", cfg.BindHost)
	}
	if cfg.IdleTimeoutMs != 300_000 {
		t.Errorf("idle_timeout_ms default: %d", cfg.IdleTimeoutMs)
	}
	if cfg.SweepIntervalMs != 60_000 {
		t.Errorf("sweep_interval_ms default: %d", cfg.SweepIntervalMs)
	}
	if cfg.TagCount != 100 {
		t.Errorf("tag_count default: %d", cfg.TagCount)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	contents := "tcp_port: 1234\nproduct_name: \"Custom Device\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TCPPort != 1234 {
		t.Errorf("expected overridden tcp_port, got %d", cfg.TCPPort)
	}
	if cfg.ProductName != "Custom Device" {
		t.Errorf("expected overridden product_name, got %q", cfg.ProductName)
	}
	if cfg.UDPPort != 2222 {
		t.Errorf("expected default udp_port to survive, got %d", cfg.UDPPort)
	}
}

func TestValidateRejectsOverlongProductName(t *testing.T) {
	cfg := Default()
	cfg.ProductName = "this product name is far too long to fit"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for overlong product name")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error loading a missing file")
	}
}
