package main

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/urfave/cli/v3"

	"github.com/starford/modemfind/internal"
)

// parse runs the command tree with args and returns the configuration the
// selected command would run with.
func parse(t *testing.T, args ...string) *internal.Config {
	t.Helper()
	var got *internal.Config
	capture := func(_ context.Context, cmd *cli.Command) error {
		cfg, err := configFromCommand(cmd)
		if err != nil {
			return err
		}
		got = cfg
		return nil
	}

	root := newCommand()
	root.Action = capture
	for _, sub := range root.Commands {
		sub.Action = capture
	}
	if err := root.Run(context.Background(), append([]string{"modemfind"}, args...)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got == nil {
		t.Fatal("no action ran")
	}
	return got
}

func TestConfig_Defaults(t *testing.T) {
	cfg := parse(t)
	want := internal.NewDefaultConfig()
	if cfg.Discovery.Root != want.Discovery.Root {
		t.Errorf("root = %q, want %q", cfg.Discovery.Root, want.Discovery.Root)
	}
	if diff := cmp.Diff(want.Discovery.Filters, cfg.Discovery.Filters); diff != "" {
		t.Errorf("filters mismatch (-want +got):\n%s", diff)
	}
	if cfg.Discovery.Depth != 7 || cfg.Discovery.Model != "SIM7600" {
		t.Errorf("discovery = %+v", cfg.Discovery)
	}
	if cfg.App.LogLevel != slog.LevelWarn {
		t.Errorf("log level = %v", cfg.App.LogLevel)
	}
}

func TestConfig_RootAndFilters(t *testing.T) {
	cfg := parse(t, "--depth", "3", "/sys/bus/usb/devices/usb1", "dev", "ttyUSB")
	if cfg.Discovery.Root != "/sys/bus/usb/devices/usb1" {
		t.Errorf("root = %q", cfg.Discovery.Root)
	}
	if diff := cmp.Diff([]string{"dev", "ttyUSB"}, cfg.Discovery.Filters); diff != "" {
		t.Errorf("filters mismatch (-want +got):\n%s", diff)
	}
	if cfg.Discovery.Depth != 3 {
		t.Errorf("depth = %d", cfg.Discovery.Depth)
	}
}

func TestConfig_RootOnlyMeansEmptyChain(t *testing.T) {
	cfg := parse(t, "/sys/devices/usb1/1-1/1-1:1.2")
	if len(cfg.Discovery.Filters) != 0 {
		t.Errorf("filters = %v, want empty", cfg.Discovery.Filters)
	}
}

func TestConfig_AdHocIDsLowercased(t *testing.T) {
	cfg := parse(t, "--vid", "1E0E", "--pid", "9001")
	if cfg.Discovery.VendorID != "1e0e" || cfg.Discovery.ModelID != "9001" {
		t.Errorf("ids = %s:%s", cfg.Discovery.VendorID, cfg.Discovery.ModelID)
	}
}

func TestConfig_QueryCommand(t *testing.T) {
	cfg := parse(t, "--query-cmd", "udevadm info --query=property --path={path}", "--query-timeout", "2s")
	want := []string{"udevadm", "info", "--query=property", "--path={path}"}
	if diff := cmp.Diff(want, cfg.Query.Command); diff != "" {
		t.Errorf("command mismatch (-want +got):\n%s", diff)
	}
	if cfg.Query.Timeout != 2*time.Second {
		t.Errorf("timeout = %v", cfg.Query.Timeout)
	}
}

func TestConfig_Env(t *testing.T) {
	t.Setenv("MODEMFIND_MODEL", "EC25")
	t.Setenv("MODEMFIND_LOG_LEVEL", "debug")
	cfg := parse(t)
	if cfg.Discovery.Model != "EC25" {
		t.Errorf("model = %q", cfg.Discovery.Model)
	}
	if cfg.App.LogLevel != slog.LevelDebug {
		t.Errorf("log level = %v", cfg.App.LogLevel)
	}
}

func TestConfig_WatchFlags(t *testing.T) {
	cfg := parse(t, "watch", "--watch-dir", "/tmp/dev", "--debounce", "1s")
	if cfg.Watch.Dir != "/tmp/dev" || cfg.Watch.Debounce != time.Second {
		t.Errorf("watch = %+v", cfg.Watch)
	}
}

func TestParseLevel_Invalid(t *testing.T) {
	if _, err := parseLevel("loud"); err == nil {
		t.Error("expected error")
	}
}
