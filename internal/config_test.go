package internal

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
}

func TestAppConfig_InvalidFormat(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown format should fail validation")
	}
}

func TestDiscoveryConfig_NegativeDepth(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Discovery.Depth = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative depth should fail validation")
	}
}

func TestDiscoveryConfig_EmptyFiltersAllowed(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Discovery.Filters = nil
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty filter chain should pass: %v", err)
	}
}

func TestDiscoveryConfig_HalfIDPair(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Discovery.VendorID = "1e0e"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("vendor id without model id should fail")
	}
	if !strings.Contains(err.Error(), "set together") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDiscoveryConfig_AdHoc(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Discovery.Model = ""
	cfg.Discovery.VendorID = "2c7c"
	cfg.Discovery.ModelID = "0125"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("ad hoc ids should pass: %v", err)
	}
	if !cfg.Discovery.AdHoc() {
		t.Error("expected ad hoc target")
	}
}

func TestDiscoveryConfig_NoTarget(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Discovery.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing target should fail")
	}
}

func TestQueryConfig_EmptyCommand(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Query.Command = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty command should fail")
	}
}

func TestWatchConfig_NegativeDebounce(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Watch.Debounce = -time.Second
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative debounce should fail")
	}
}
