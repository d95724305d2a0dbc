package engine

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Variant selects which audit-subject workflow a catalog is evaluated for
type Variant string

const (
	VariantDeveloper    Variant = "developer"
	VariantOrganization Variant = "organization"
)

// Variants lists every supported audit-subject variant.
var Variants = []Variant{VariantDeveloper, VariantOrganization}

var (
	// ErrUnknownVariant is returned whenever a variant outside Variants is used.
	ErrUnknownVariant = errors.New("unknown audit-subject variant")
	// ErrInvalidCatalog is returned when a catalog definition fails validation.
	ErrInvalidCatalog = errors.New("invalid control catalog")
)

// ParseVariant matches s exactly (lowercase by convention).
func ParseVariant(s string) (Variant, error) {
	v := Variant(s)
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
	return v, nil
}

// Valid reports whether v is a supported variant.
func (v Variant) Valid() bool {
	return slices.Contains(Variants, v)
}

// Control represents a single security practice evaluated by one question
type Control struct {
	Question        string    `yaml:"question" json:"question"`
	DefaultSeverity Severity  `yaml:"severity" json:"severity"`
	CriticalWeight  bool      `yaml:"critical_weight" json:"critical_weight"`
	Variants        []Variant `yaml:"variants,omitempty" json:"variants,omitempty"` // empty means every variant
}

// AppliesTo reports whether the control is evaluated for v.
func (c Control) AppliesTo(v Variant) bool {
	return len(c.Variants) == 0 || slices.Contains(c.Variants, v)
}

// catalogDoc is the YAML layout of a catalog file
type catalogDoc struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Controls    []Control `yaml:"controls"`
}

// Catalog is an immutable, ordered registry of controls.
// It is safe for concurrent use.
type Catalog struct {
	name     string
	controls []Control
}

// NewCatalog validates controls and returns a catalog holding its own copy of them.
func NewCatalog(name string, controls []Control) (*Catalog, error) {
	seen := make(map[string]bool, len(controls))
	owned := make([]Control, 0, len(controls))

	for i, c := range controls {
		q := strings.TrimSpace(c.Question)
		if q == "" {
			return nil, fmt.Errorf("%w: control %d has an empty question", ErrInvalidCatalog, i)
		}
		if seen[q] {
			return nil, fmt.Errorf("%w: duplicate question %q", ErrInvalidCatalog, q)
		}
		seen[q] = true

		sev, ok := LookupSeverity(string(c.DefaultSeverity))
		if !ok {
			return nil, fmt.Errorf("%w: question %q has unknown severity %q", ErrInvalidCatalog, q, c.DefaultSeverity)
		}
		for _, v := range c.Variants {
			if !v.Valid() {
				return nil, fmt.Errorf("%w: question %q: %w: %q", ErrInvalidCatalog, q, ErrUnknownVariant, v)
			}
		}

		owned = append(owned, Control{
			Question:        q,
			DefaultSeverity: sev,
			CriticalWeight:  c.CriticalWeight,
			Variants:        slices.Clone(c.Variants),
		})
	}

	return &Catalog{name: name, controls: owned}, nil
}

// ParseCatalog builds a catalog from its YAML definition.
func ParseCatalog(data []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if len(doc.Controls) == 0 {
		return nil, fmt.Errorf("%w: no controls defined", ErrInvalidCatalog)
	}
	return NewCatalog(doc.Name, doc.Controls)
}

//go:embed catalogs/baseline.yaml
var defaultCatalogYAML []byte

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded baseline catalog: %v", err))
	}
	return c
})

// DefaultCatalog returns the built-in baseline catalog.
func DefaultCatalog() *Catalog {
	return defaultCatalog()
}

// Name returns the catalog's name
func (c *Catalog) Name() string {
	return c.name
}

// Controls returns the ordered controls applicable to v.
// The returned slice is a copy; mutating it does not affect the catalog.
func (c *Catalog) Controls(v Variant) ([]Control, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, v)
	}

	var out []Control
	for _, ctrl := range c.controls {
		if ctrl.AppliesTo(v) {
			ctrl.Variants = slices.Clone(ctrl.Variants)
			out = append(out, ctrl)
		}
	}
	return out, nil
}

// Lookup finds the control for question, if any.
func (c *Catalog) Lookup(question string) (Control, bool) {
	for _, ctrl := range c.controls {
		if ctrl.Question == question {
			ctrl.Variants = slices.Clone(ctrl.Variants)
			return ctrl, true
		}
	}
	return Control{}, false
}
