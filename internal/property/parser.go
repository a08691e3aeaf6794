// Package property extracts and matches values in udev property dumps.
//
// A dump is the text printed by `udevadm info -q property`: one KEY=VALUE
// pair per line, each line terminated by a newline.
package property

import "strings"

// Keys reported by udev for USB serial interfaces.
const (
	KeyVendorID     = "ID_VENDOR_ID"
	KeyModelID      = "ID_MODEL_ID"
	KeyInterfaceNum = "ID_USB_INTERFACE_NUM"
	KeyDevName      = "DEVNAME"
)

// Value returns the value stored for key in block.
//
// The first occurrence of key is used. The value starts right after the next
// '=' and ends at the next newline. A missing key, a missing '=' or a value
// that is not newline terminated yields ok == false. The value is returned
// verbatim.
func Value(block, key string) (string, bool) {
	if key == "" {
		return "", false
	}
	start := strings.Index(block, key)
	if start < 0 {
		return "", false
	}
	rest := block[start+len(key):]
	eq := strings.IndexByte(rest, '=')
	if eq < 0 {
		return "", false
	}
	rest = rest[eq+1:]
	end := strings.IndexByte(rest, '\n')
	if end < 0 {
		// Truncated dump.
		return "", false
	}
	return rest[:end], true
}
