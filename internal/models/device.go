// Package models defines the domain types for modemfind.
package models

// Model identifies a modem by the USB identifiers udev reports for it.
type Model struct {
	Name     string `yaml:"name"`
	Vendor   string `yaml:"vendor"`
	VendorID string `yaml:"vendor_id"`
	ModelID  string `yaml:"model_id"`
}

// PortRange is the span of serial interfaces a modem exposes.
// Start is the lowest interface number, Count the number of interfaces.
type PortRange struct {
	Start int
	Count int
}

// Discovery is the outcome of locating one model on the host.
type Discovery struct {
	Model Model
	Ports PortRange
	Nodes []string // device nodes (DEVNAME) of the matching interfaces, in discovery order
}
