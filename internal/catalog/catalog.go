package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/apperr"
	"github.com/MuizHR/MVOHeadcountSimulation-sub001/internal/validation"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// WorkMix is the share of a sub-function's work in each signal category.
type WorkMix struct {
	Routine     float64 `json:"routine" yaml:"routine" validate:"gte=0,lte=1"`
	Knowledge   float64 `json:"knowledge" yaml:"knowledge" validate:"gte=0,lte=1"`
	Operational float64 `json:"operational" yaml:"operational" validate:"gte=0,lte=1"`
	Project     float64 `json:"project" yaml:"project" validate:"gte=0,lte=1"`
}

// IsZero reports whether no share was supplied.
func (m WorkMix) IsZero() bool {
	return m.Routine == 0 && m.Knowledge == 0 && m.Operational == 0 && m.Project == 0
}

// WorkTypeCoefficients are the per-category tuning constants for one work type.
type WorkTypeCoefficients struct {
	ID               string  `json:"id" yaml:"id" validate:"required"`
	Name             string  `json:"name" yaml:"name" validate:"required"`
	Version          string  `json:"version" yaml:"version" validate:"required"`
	ProductivityRate float64 `json:"productivity_rate" yaml:"productivity_rate" validate:"gt=0"`
	ComplexityFactor float64 `json:"complexity_factor" yaml:"complexity_factor" validate:"gt=0"`
	VarianceLevel    float64 `json:"variance_level" yaml:"variance_level" validate:"gt=0"`
	MinHeadcountRule int     `json:"min_headcount_rule" yaml:"min_headcount_rule" validate:"gt=0"`
	MinHeadcountBase int     `json:"min_headcount_base" yaml:"min_headcount_base" validate:"gt=0"`
	RiskMultiplier   float64 `json:"risk_multiplier" yaml:"risk_multiplier" validate:"gt=0"`
	RoleKey          string  `json:"role_key" yaml:"role_key" validate:"required"`
	Mix              WorkMix `json:"mix" yaml:"mix"`
}

type document struct {
	Version   string                 `yaml:"version"`
	WorkTypes []WorkTypeCoefficients `yaml:"work_types"`
	Costs     rateDocument           `yaml:"costs"`
}

// Catalog is an immutable, id-indexed set of work-type coefficients plus the
// cost rate table that ships with it.
type Catalog struct {
	version   string
	workTypes map[string]WorkTypeCoefficients
	order     []string
	costs     *RateTable
}

var validate = validation.NewValidator()

// New builds a catalog from already-decoded entries. Every entry is validated
// and ids must be unique.
func New(version string, entries []WorkTypeCoefficients, costs *RateTable) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, apperr.Configuration("catalog", "no work types defined")
	}

	c := &Catalog{
		version:   version,
		workTypes: make(map[string]WorkTypeCoefficients, len(entries)),
		costs:     costs,
	}
	for _, e := range entries {
		if err := validate.Struct(e); err != nil {
			return nil, fmt.Errorf("catalog: work type %q: %w", e.ID, err)
		}
		if _, dup := c.workTypes[e.ID]; dup {
			return nil, apperr.Configuration("catalog", "duplicate work type %q", e.ID)
		}
		c.workTypes[e.ID] = e
		c.order = append(c.order, e.ID)
	}
	sort.Strings(c.order)
	return c, nil
}

// Parse decodes a catalog from YAML bytes.
func Parse(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("catalog: payload is empty")
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}

	costs, err := doc.Costs.table()
	if err != nil {
		return nil, err
	}
	return New(doc.Version, doc.WorkTypes, costs)
}

// LoadReader reads catalog YAML from r.
func LoadReader(r io.Reader) (*Catalog, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("catalog: read: %w", err)
	}
	return Parse(content)
}

// LoadFile loads catalog YAML from path.
func LoadFile(path string) (*Catalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, nil
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalogYAML)
}

// Load returns the catalog at path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	c, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	log.Info().Str("path", path).Str("version", c.version).Int("work_types", len(c.order)).Msg("Loaded work type catalog")
	return c, nil
}

func (c *Catalog) Version() string { return c.version }

// Lookup returns the coefficients for id or a ConfigurationError.
func (c *Catalog) Lookup(id string) (WorkTypeCoefficients, error) {
	wt, ok := c.workTypes[id]
	if !ok {
		return WorkTypeCoefficients{}, apperr.ConfigurationWrap(apperr.ErrUnknownWorkType, "work_type", "no coefficients for %q", id)
	}
	return wt, nil
}

// List returns every entry ordered by id.
func (c *Catalog) List() []WorkTypeCoefficients {
	out := make([]WorkTypeCoefficients, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.workTypes[id])
	}
	return out
}

// Costs returns the rate table bundled with the catalog. It may be nil.
func (c *Catalog) Costs() *RateTable {
	return c.costs
}
