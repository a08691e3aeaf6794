// Package testutil provides shared test helpers for building device trees and
// scripting property sources.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/starford/modemfind/internal/udev"
)

// Tree creates a temporary directory holding the given entries and returns
// its path. Entries ending in "/" are directories, everything else is an
// empty file. Parent directories are created as needed.
func Tree(t *testing.T, entries ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, e := range entries {
		p := filepath.Join(root, filepath.FromSlash(e))
		if strings.HasSuffix(e, "/") {
			if err := os.MkdirAll(p, 0o755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

// Symlink creates link (relative to root) pointing at target.
func Symlink(t *testing.T, root, link, target string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(link))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, p); err != nil {
		t.Fatal(err)
	}
}

// ModemTree lays out a SIM7600-like modem under usb1/1-1 with interfaces
// 02 to 04 bound to ttyUSB2..ttyUSB4 and returns the tree root.
func ModemTree(t *testing.T) string {
	t.Helper()
	root := Tree(t,
		"usb1/1-1/idVendor",
		"usb1/1-1/1-1:1.2/ttyUSB2/tty/ttyUSB2/dev",
		"usb1/1-1/1-1:1.3/ttyUSB3/tty/ttyUSB3/dev",
		"usb1/1-1/1-1:1.4/ttyUSB4/tty/ttyUSB4/dev",
		"usb1/1-1/1-1:1.5/net/wwan0/dev_id",
		"usb1/1-2/1-2:1.0/input/input3/event3/dev",
	)
	for _, n := range []string{"2", "3", "4"} {
		node := "usb1/1-1/1-1:1." + n + "/ttyUSB" + n + "/tty/ttyUSB" + n
		Symlink(t, root, node+"/device", "../../../ttyUSB"+n)
	}
	return root
}

// Dump renders KEY=VALUE pairs the way udevadm prints them.
func Dump(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(pairs[i])
		b.WriteByte('=')
		b.WriteString(pairs[i+1])
		b.WriteByte('\n')
	}
	return b.String()
}

// Source is a scripted udev.Source. Paths without a script fail with exit
// status 1 and no output.
type Source struct {
	mu      sync.Mutex
	scripts map[string]udev.Result
	errs    map[string]error
	calls   []string
}

// NewSource returns an empty scripted source.
func NewSource() *Source {
	return &Source{scripts: map[string]udev.Result{}, errs: map[string]error{}}
}

// Set scripts a successful query for path.
func (s *Source) Set(path, stdout string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[path] = udev.Result{ExitStatus: udev.Status(0), Stdout: &stdout}
}

// SetResult scripts an arbitrary result for path.
func (s *Source) SetResult(path string, r udev.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[path] = r
}

// SetError scripts a spawn failure for path.
func (s *Source) SetError(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[path] = err
}

// Query implements udev.Source.
func (s *Source) Query(_ context.Context, path string) (udev.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, path)
	if err, ok := s.errs[path]; ok {
		return udev.Result{}, err
	}
	if r, ok := s.scripts[path]; ok {
		return r, nil
	}
	return udev.Result{ExitStatus: udev.Status(1)}, nil
}

// Calls returns the queried paths in order.
func (s *Source) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
