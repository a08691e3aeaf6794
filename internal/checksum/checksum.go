// Package checksum fingerprints discovery results so unchanged results can
// be recognised between rescans.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"

	"github.com/starford/modemfind/internal/models"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Of fingerprints a discovery result. A nil result stands for "not found".
func Of(d *models.Discovery) string {
	if d == nil {
		return Sum(nil)
	}
	buf := []byte(d.Model.VendorID + ":" + d.Model.ModelID + "\x00")
	buf = strconv.AppendInt(buf, int64(d.Ports.Start), 10)
	buf = append(buf, '/')
	buf = strconv.AppendInt(buf, int64(d.Ports.Count), 10)
	for _, n := range d.Nodes {
		buf = append(buf, 0)
		buf = append(buf, n...)
	}
	return Sum(buf)
}
