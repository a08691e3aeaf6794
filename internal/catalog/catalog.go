// Package catalog holds the table of known modem models.
package catalog

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/samber/lo"

	"github.com/starford/modemfind/internal/apperr"
	"github.com/starford/modemfind/internal/models"
	pkgconfig "github.com/starford/modemfind/pkg/config"
)

//go:embed models.yaml
var builtin []byte

var usbID = regexp.MustCompile(`^[0-9a-f]{4}$`)

// Catalog is a list of modem models.
type Catalog struct {
	Models []models.Model `yaml:"models"`
}

// Validate validates every model in the catalog.
func (c *Catalog) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Models, validation.Required),
	); err != nil {
		return err
	}
	for i := range c.Models {
		if err := validateModel(&c.Models[i]); err != nil {
			return fmt.Errorf("models[%d]: %w", i, err)
		}
	}
	dup := lo.FindDuplicatesBy(c.Models, func(m models.Model) string {
		return strings.ToLower(m.Name)
	})
	if len(dup) > 0 {
		return fmt.Errorf("duplicate model name %q", dup[0].Name)
	}
	return nil
}

func validateModel(m *models.Model) error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Name, validation.Required),
		validation.Field(&m.VendorID, validation.Required, validation.Match(usbID).Error("must be 4 lowercase hex digits")),
		validation.Field(&m.ModelID, validation.Required, validation.Match(usbID).Error("must be 4 lowercase hex digits")),
	)
}

// ValidateModel checks an ad hoc model, such as one built from flags.
func ValidateModel(m models.Model) error {
	return validateModel(&m)
}

// Builtin returns the catalog compiled into the binary.
func Builtin() (*Catalog, error) {
	c := &Catalog{}
	if err := pkgconfig.LoadBytes("builtin catalog", builtin, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads a catalog from path, or returns the builtin one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Builtin()
	}
	c := &Catalog{}
	if err := pkgconfig.Load(path, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Lookup returns the model called name, ignoring case.
func (c *Catalog) Lookup(name string) (models.Model, error) {
	m, ok := lo.Find(c.Models, func(m models.Model) bool {
		return strings.EqualFold(m.Name, name)
	})
	if !ok {
		return models.Model{}, fmt.Errorf("catalog: %q: %w", name, apperr.ErrModelUnknown)
	}
	return m, nil
}

// Names returns the model names in catalog order.
func (c *Catalog) Names() []string {
	return lo.Map(c.Models, func(m models.Model, _ int) string {
		return m.Name
	})
}
