package configurator

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Material is a product material with its density.
type Material struct {
	Key        string  `yaml:"key" json:"key"`
	Label      string  `yaml:"label" json:"label"`
	Density    float64 `yaml:"density" json:"density"`
	TakesRebar bool    `yaml:"takes_rebar" json:"takes_rebar"`
}

// Mix is a concrete mix grade and its price factor.
type Mix struct {
	Key    string  `yaml:"key" json:"key"`
	Label  string  `yaml:"label" json:"label"`
	Factor float64 `yaml:"factor" json:"factor"`
}

// Rebar is a reinforcement option expressed as steel kg per m3 of concrete.
type Rebar struct {
	Key     string  `yaml:"key" json:"key"`
	Label   string  `yaml:"label" json:"label"`
	KgPerM3 float64 `yaml:"kg_per_m3" json:"kg_per_m3"`
}

// Finish is an inner lining or outer coat priced per m2.
type Finish struct {
	Key       string  `yaml:"key" json:"key"`
	Label     string  `yaml:"label" json:"label"`
	RatePerM2 float64 `yaml:"rate_per_m2" json:"rate_per_m2"`
}

// Defaults names the option picked when a request leaves one out.
type Defaults struct {
	Material string `yaml:"material" json:"material"`
	Mix      string `yaml:"mix" json:"mix"`
	Steel    string `yaml:"steel" json:"steel"`
	Inner    string `yaml:"inner" json:"inner"`
	Outer    string `yaml:"outer" json:"outer"`
}

// Catalog lists the commercial options shared by every shape.
type Catalog struct {
	Currency     string     `yaml:"currency" json:"currency"`
	Defaults     Defaults   `yaml:"defaults" json:"defaults"`
	Materials    []Material `yaml:"materials" json:"materials"`
	Mixes        []Mix      `yaml:"mixes" json:"mixes"`
	Rebar        []Rebar    `yaml:"rebar" json:"rebar"`
	InnerLinings []Finish   `yaml:"inner_linings" json:"inner_linings"`
	OuterCoats   []Finish   `yaml:"outer_coats" json:"outer_coats"`
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog file, or returns the embedded one when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Materials) == 0 || len(c.Mixes) == 0 || len(c.Rebar) == 0 ||
		len(c.InnerLinings) == 0 || len(c.OuterCoats) == 0 {
		return fmt.Errorf("catalog must list materials, mixes, rebar, inner_linings and outer_coats")
	}
	for _, m := range c.Materials {
		if m.Density <= 0 {
			return fmt.Errorf("material %q: density must be positive", m.Key)
		}
	}
	if _, ok := c.Material(c.Defaults.Material); !ok {
		return fmt.Errorf("default material %q not in catalog", c.Defaults.Material)
	}
	if _, ok := c.Mix(c.Defaults.Mix); !ok {
		return fmt.Errorf("default mix %q not in catalog", c.Defaults.Mix)
	}
	if _, ok := c.RebarOption(c.Defaults.Steel); !ok {
		return fmt.Errorf("default steel %q not in catalog", c.Defaults.Steel)
	}
	if _, ok := findFinish(c.InnerLinings, c.Defaults.Inner); !ok {
		return fmt.Errorf("default inner lining %q not in catalog", c.Defaults.Inner)
	}
	if _, ok := findFinish(c.OuterCoats, c.Defaults.Outer); !ok {
		return fmt.Errorf("default outer coat %q not in catalog", c.Defaults.Outer)
	}
	return nil
}

func (c *Catalog) Material(key string) (Material, bool) {
	for _, m := range c.Materials {
		if m.Key == key {
			return m, true
		}
	}
	return Material{}, false
}

func (c *Catalog) Mix(key string) (Mix, bool) {
	for _, m := range c.Mixes {
		if m.Key == key {
			return m, true
		}
	}
	return Mix{}, false
}

func (c *Catalog) RebarOption(key string) (Rebar, bool) {
	for _, r := range c.Rebar {
		if r.Key == key {
			return r, true
		}
	}
	return Rebar{}, false
}

func (c *Catalog) InnerLining(key string) (Finish, bool) { return findFinish(c.InnerLinings, key) }

func (c *Catalog) OuterCoat(key string) (Finish, bool) { return findFinish(c.OuterCoats, key) }

func findFinish(list []Finish, key string) (Finish, bool) {
	for _, f := range list {
		if f.Key == key {
			return f, true
		}
	}
	return Finish{}, false
}

// Options are the commercial choices sent with a configuration request.
type Options struct {
	Units    string `json:"units" example:"mm"`
	Material string `json:"material" example:"concrete"`
	Qty      int    `json:"qty" example:"1"`
	Mix      string `json:"mix" example:"M30"`
	Steel    string `json:"steel" example:"mesh_std"`
	Inner    string `json:"inner" example:"none"`
	Outer    string `json:"outer" example:"acrylic"`
}

// Resolved is Options after catalog lookup and defaulting.
type Resolved struct {
	Units    Units
	Material Material
	Qty      int
	Mix      Mix
	Steel    Rebar
	Inner    Finish
	Outer    Finish
}

// Params returns the option keys actually used, in the same shape as Options.
func (r Resolved) Params() Options {
	return Options{
		Units:    string(r.Units),
		Material: r.Material.Key,
		Qty:      r.Qty,
		Mix:      r.Mix.Key,
		Steel:    r.Steel.Key,
		Inner:    r.Inner.Key,
		Outer:    r.Outer.Key,
	}
}

// Resolve looks every option up in the catalog. Unknown keys fall back to the default and
// produce a warning; quantity is coerced to at least 1.
func (c *Catalog) Resolve(o Options) (Resolved, []string) {
	var warnings []string
	pick := func(kind, key, def string, ok func(string) bool) string {
		if key == "" {
			return def
		}
		if !ok(key) {
			warnings = append(warnings, fmt.Sprintf("unknown %s %q, using %q", kind, key, def))
			return def
		}
		return key
	}

	matKey := pick("material", o.Material, c.Defaults.Material, func(k string) bool { _, ok := c.Material(k); return ok })
	mixKey := pick("mix", o.Mix, c.Defaults.Mix, func(k string) bool { _, ok := c.Mix(k); return ok })
	steelKey := pick("steel", o.Steel, c.Defaults.Steel, func(k string) bool { _, ok := c.RebarOption(k); return ok })
	innerKey := pick("inner lining", o.Inner, c.Defaults.Inner, func(k string) bool { _, ok := c.InnerLining(k); return ok })
	outerKey := pick("outer coat", o.Outer, c.Defaults.Outer, func(k string) bool { _, ok := c.OuterCoat(k); return ok })

	r := Resolved{Units: ParseUnits(o.Units), Qty: o.Qty}
	if r.Qty < 1 {
		r.Qty = 1
	}
	r.Material, _ = c.Material(matKey)
	r.Mix, _ = c.Mix(mixKey)
	r.Steel, _ = c.RebarOption(steelKey)
	r.Inner, _ = c.InnerLining(innerKey)
	r.Outer, _ = c.OuterCoat(outerKey)
	return r, warnings
}
