package configurator

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrUnknownShape is returned when a shape type is not registered.
var ErrUnknownShape = errors.New("unknown shape")

// ParamSpec describes one dimension of a shape. Lengths are in millimetres; Unitless
// params (angles) are neither converted nor suffixed with the request unit.
type ParamSpec struct {
	Key      string  `json:"key"`
	Label    string  `json:"label"`
	Default  float64 `json:"default"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Unitless bool    `json:"unitless,omitempty"`
	Integer  bool    `json:"integer,omitempty"`
	Suffix   string  `json:"suffix,omitempty"`
}

// Dims holds normalized dimension values keyed by ParamSpec.Key, in millimetres.
type Dims map[string]float64

// KPI is one headline figure shown for a configuration.
type KPI struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// Geometry is what a shape computes on its own; the configurator derives the rest.
type Geometry struct {
	VolumeM3    float64
	InnerAreaM2 float64
	OuterAreaM2 float64
	Metrics     map[string]float64
	KPIs        []KPI
}

// Shape is a parametric product.
type Shape interface {
	Type() string
	Product() string
	Params() []ParamSpec
	// Adjust applies limits that depend on other dimensions and returns warnings.
	Adjust(d Dims) []string
	Compute(d Dims, r Resolved) Geometry
}

// Request is a configuration request. Dims are expressed in Options.Units.
type Request struct {
	Options
	Dims map[string]float64 `json:"dims"`
}

// Derived are the engineering quantities of a configuration, per order (already times qty).
type Derived struct {
	VolumeM3      float64            `json:"volume_m3"`
	WeightKg      float64            `json:"weight_kg"`
	RebarKg       float64            `json:"rebar_kg"`
	OrderWeightKg float64            `json:"order_weight_kg"`
	InnerAreaM2   float64            `json:"inner_area_m2"`
	OuterAreaM2   float64            `json:"outer_area_m2"`
	CoatCost      float64            `json:"coat_cost"`
	MixFactor     float64            `json:"mix_factor"`
	Metrics       map[string]float64 `json:"metrics"`
}

// Result is a normalized configuration ready to be shown or put in a cart.
type Result struct {
	Type         string             `json:"type"`
	Product      string             `json:"product"`
	Params       Options            `json:"params"`
	Dims         map[string]float64 `json:"dims"`
	DimsMM       Dims               `json:"dims_mm"`
	Derived      Derived            `json:"derived"`
	KPIs         []KPI              `json:"kpis"`
	Warnings     []string           `json:"warnings,omitempty"`
	SummaryHTML  string             `json:"summary_html"`
	SummaryHTML2 string             `json:"summary_html2"`
	Currency     string             `json:"currency"`
}

// Configurator computes configurations against a catalog.
type Configurator struct {
	catalog *Catalog
	shapes  map[string]Shape
}

// New builds a Configurator with the four built-in shapes.
func New(c *Catalog) *Configurator {
	if c == nil {
		c = DefaultCatalog()
	}
	cfg := &Configurator{catalog: c, shapes: map[string]Shape{}}
	for _, s := range []Shape{BoxCulvert{}, ElbowPipe{}, Manhole{}, StraightPipe{}} {
		cfg.shapes[s.Type()] = s
	}
	return cfg
}

func (c *Configurator) Catalog() *Catalog { return c.catalog }

// Shape looks up a registered shape by type.
func (c *Configurator) Shape(kind string) (Shape, error) {
	s, ok := c.shapes[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, kind)
	}
	return s, nil
}

// Shapes returns the registered shapes sorted by type.
func (c *Configurator) Shapes() []Shape {
	out := make([]Shape, 0, len(c.shapes))
	for _, s := range c.shapes {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type() < out[j].Type() })
	return out
}

// Configure normalizes a request for the given shape and computes its derived quantities.
func (c *Configurator) Configure(kind string, req Request) (*Result, error) {
	shape, err := c.Shape(kind)
	if err != nil {
		return nil, err
	}

	opts, warnings := c.catalog.Resolve(req.Options)
	dims := Normalize(shape.Params(), req.Dims, opts.Units)
	warnings = append(warnings, shape.Adjust(dims)...)

	g := shape.Compute(dims, opts)
	d := Derived{
		VolumeM3:    math.Max(0, g.VolumeM3),
		InnerAreaM2: g.InnerAreaM2,
		OuterAreaM2: g.OuterAreaM2,
		MixFactor:   opts.Mix.Factor,
		Metrics:     g.Metrics,
	}
	d.WeightKg = d.VolumeM3 * opts.Material.Density
	if opts.Material.TakesRebar {
		d.RebarKg = opts.Steel.KgPerM3 * d.VolumeM3
	}
	d.OrderWeightKg = d.WeightKg + d.RebarKg
	d.CoatCost = d.InnerAreaM2*opts.Inner.RatePerM2 + d.OuterAreaM2*opts.Outer.RatePerM2

	kpis := append(g.KPIs, KPI{Label: "Order weight", Value: FormatNumber(d.OrderWeightKg, 2), Unit: "kg"})

	return &Result{
		Type:         shape.Type(),
		Product:      shape.Product(),
		Params:       opts.Params(),
		Dims:         displayDims(shape.Params(), dims, opts.Units),
		DimsMM:       dims,
		Derived:      d,
		KPIs:         kpis,
		Warnings:     warnings,
		SummaryHTML:  dimsSummary(shape.Params(), dims, opts.Units),
		SummaryHTML2: optionsSummary(opts),
		Currency:     c.catalog.Currency,
	}, nil
}

// Normalize fills missing dims with defaults, converts from u to millimetres and clamps
// every value to its static range. Keys are matched case-insensitively.
func Normalize(specs []ParamSpec, in map[string]float64, u Units) Dims {
	lookup := make(map[string]float64, len(in))
	for k, v := range in {
		lookup[strings.ToLower(k)] = v
	}

	out := make(Dims, len(specs))
	for _, p := range specs {
		v, ok := lookup[strings.ToLower(p.Key)]
		switch {
		case !ok || math.IsNaN(v) || math.IsInf(v, 0):
			v = p.Default
		case !p.Unitless:
			v = u.ToMM(v)
		}
		if p.Integer {
			v = math.Round(v)
		}
		out[p.Key] = Clamp(v, p.Min, p.Max)
	}
	return out
}

func displayDims(specs []ParamSpec, d Dims, u Units) map[string]float64 {
	out := make(map[string]float64, len(specs))
	for _, p := range specs {
		v := d[p.Key]
		if !p.Unitless {
			v = u.FromMM(v)
		}
		out[p.Key] = Round(v, 2)
	}
	return out
}

// lengthKPI formats a millimetre value in the request unit.
func lengthKPI(label string, mm float64, u Units) KPI {
	return KPI{Label: label, Value: FormatNumber(u.FromMM(mm), 2), Unit: string(u)}
}

func mm2ToM2(v float64) float64 { return v / 1e6 }
func mm3ToM3(v float64) float64 { return v / 1e9 }
