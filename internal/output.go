package internal

import (
	"fmt"
	"io"

	"github.com/starford/modemfind/internal/models"
)

// writeResult prints d in the configured format.
//
//	env:   TTY_START=2\nTTY_TOTAL=5\n
//	plain: 2 5\n
func writeResult(w io.Writer, format string, d models.Discovery) error {
	var err error
	switch format {
	case FormatPlain:
		_, err = fmt.Fprintf(w, "%d %d\n", d.Ports.Start, d.Ports.Count)
	default:
		_, err = fmt.Fprintf(w, "TTY_START=%d\nTTY_TOTAL=%d\n", d.Ports.Start, d.Ports.Count)
	}
	if err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// writeModels lists catalog models, one per line.
func writeModels(w io.Writer, ms []models.Model) error {
	for _, m := range ms {
		if _, err := fmt.Fprintf(w, "%-10s %-8s %s:%s\n", m.Name, m.Vendor, m.VendorID, m.ModelID); err != nil {
			return fmt.Errorf("write models: %w", err)
		}
	}
	return nil
}
