// Package apperr holds the sentinel errors shared across packages. Callers
// test for them with errors.Is.
package apperr

import "errors"

var (
	// ErrDeviceNotFound means discovery completed but no attached device
	// matched the target model. The CLI exits with status 1.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrModelUnknown means the requested model name is not in the catalog.
	ErrModelUnknown = errors.New("unknown model")

	// ErrNoProperties wraps every per-candidate reason reported by
	// discovery.Engine.Skipped: the property source failed to run, exited
	// non-zero, or printed nothing usable.
	ErrNoProperties = errors.New("no properties")

	// ErrQueryFailed means candidates were found but the property source
	// failed for every one of them, so discovery could not decide whether
	// the device is attached. It is never wrapped together with
	// ErrDeviceNotFound.
	ErrQueryFailed = errors.New("property query failed for every candidate")
)
