// Package config loads the server's startup configuration, mirroring
// the fields documented as recognized at startup: network bind
// addresses, identity attribute values, and session timing.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every value the server recognizes at startup.
type Config struct {
	TCPPort          uint16 `yaml:"tcp_port"`
	UDPPort          uint16 `yaml:"udp_port"`
	BindHost         string `yaml:"bind_host"`
	DeviceSlotNumber uint8  `yaml:"device_slot_number"`

	VendorID    uint16 `yaml:"vendor_id"`
	DeviceType  uint16 `yaml:"device_type"`
	ProductCode uint32 `yaml:"product_code"`
	ProductName string `yaml:"product_name"`

	IdleTimeoutMs   int `yaml:"idle_timeout_ms"`
	SweepIntervalMs int `yaml:"sweep_interval_ms"`

	// TagCount is not part of spec.md's enumerated startup fields; it
	// sizes the tag store and defaults to 100, matching the
	// documented default tag-table size.
	TagCount int `yaml:"tag_count"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		TCPPort:          44818,
		UDPPort:          2222,
		BindHost:         "0.0.0.0",
		DeviceSlotNumber: 0,
		VendorID:         1,
		DeviceType:       0x0C,
		ProductCode:      1,
		ProductName:      "EtherNet/IP Simulator",
		IdleTimeoutMs:    300_000,
		SweepIntervalMs:  60_000,
		TagCount:         100,
	}
}

// Load reads a YAML config file at path and overlays it onto the
// documented defaults; fields absent from the file keep their
// default value.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the few invariants that would otherwise surface as
// a confusing bind or protocol failure later.
func (c Config) Validate() error {
	if len(c.ProductName) > 32 {
		return fmt.Errorf("product_name exceeds 32 ASCII bytes: %q", c.ProductName)
	}
	if c.TagCount < 0 {
		return fmt.Errorf("tag_count must not be negative: %d", c.TagCount)
	}
	if c.IdleTimeoutMs <= 0 {
		return fmt.Errorf("idle_timeout_ms must be positive: %d", c.IdleTimeoutMs)
	}
	if c.SweepIntervalMs <= 0 {
		return fmt.Errorf("sweep_interval_ms must be positive: %d", c.SweepIntervalMs)
	}
	return nil
}
