// Package udev queries device properties through an external command,
// normally `udevadm info -q property`.
package udev

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"
)

// waitDelay bounds how long a killed query may hold its output pipes open.
const waitDelay = time.Second

// PathToken is replaced by the device path in a command template.
const PathToken = "{path}"

// DefaultTemplate prints the udev properties of the device at {path}.
var DefaultTemplate = []string{"udevadm", "info", "-q", "property", "-p", PathToken}

// Result is the outcome of one property query. ExitStatus is nil when the
// command did not exit normally. Stdout and Stderr are nil when the stream
// was empty or not valid UTF-8.
type Result struct {
	ExitStatus *int
	Stdout     *string
	Stderr     *string
}

// Usable reports whether r carries properties: a zero exit status and
// some output.
func (r Result) Usable() bool {
	return r.ExitStatus != nil && *r.ExitStatus == 0 && r.Stdout != nil
}

// Status returns a pointer to code, for building results.
func Status(code int) *int {
	return &code
}

// Source returns the raw property dump of a device.
type Source interface {
	Query(ctx context.Context, path string) (Result, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, path string) (Result, error)

// Query calls f.
func (f SourceFunc) Query(ctx context.Context, path string) (Result, error) {
	return f(ctx, path)
}

// Command runs an external program per query.
type Command struct {
	template []string
	timeout  time.Duration
}

// NewCommand builds a Command from template. Every PathToken in template is
// replaced by the queried path; without a token the path is appended. A
// positive timeout bounds each query.
func NewCommand(template []string, timeout time.Duration) (*Command, error) {
	if len(template) == 0 || template[0] == "" {
		return nil, errors.New("udev: empty command template")
	}
	return &Command{
		template: append([]string(nil), template...),
		timeout:  timeout,
	}, nil
}

// Args returns the argument vector used to query path.
func (c *Command) Args(path string) []string {
	args := make([]string, 0, len(c.template)+1)
	substituted := false
	for _, a := range c.template {
		if strings.Contains(a, PathToken) {
			a = strings.ReplaceAll(a, PathToken, path)
			substituted = true
		}
		args = append(args, a)
	}
	if !substituted {
		args = append(args, path)
	}
	return args
}

// Query runs the command for path. A non-zero exit is reported through the
// result, not as an error; err is set only when the command could not be
// run at all.
func (c *Command) Query(ctx context.Context, path string) (Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := c.Args(path)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	var res Result
	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		res.ExitStatus = Status(0)
	case errors.As(err, &exitErr):
		// -1 means the process was killed by a signal.
		if code := exitErr.ExitCode(); code >= 0 {
			res.ExitStatus = Status(code)
		}
	default:
		return Result{}, fmt.Errorf("udev: run %s: %w", args[0], err)
	}
	res.Stdout = text(stdout.Bytes())
	res.Stderr = text(stderr.Bytes())
	return res, nil
}

func text(b []byte) *string {
	if len(b) == 0 || !utf8.Valid(b) {
		return nil
	}
	s := string(b)
	return &s
}
