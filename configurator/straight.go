package configurator

import "math"

// StraightPipe is a plain cylindrical pipe.
type StraightPipe struct{}

func (StraightPipe) Type() string    { return "straight" }
func (StraightPipe) Product() string { return "Straight Pipe" }

func (StraightPipe) Params() []ParamSpec {
	return []ParamSpec{
		{Key: "Dia", Label: "Outer diameter", Default: 100, Min: 4, Max: 5000},
		{Key: "t", Label: "Wall thickness", Default: 5, Min: 0, Max: 2500},
		{Key: "L", Label: "Length", Default: 1000, Min: 10, Max: 40000},
	}
}

func (StraightPipe) Adjust(d Dims) []string {
	return fitPipeWall(d, true)
}

func (StraightPipe) Compute(d Dims, r Resolved) Geometry {
	dia, t, l := d["Dia"], d["t"], d["L"]
	qty := float64(r.Qty)
	lm := l / 1000

	ro := dia / 2 / 1000
	ri := math.Max(0.0005, ro-t/1000)
	area := math.Pi * (ro*ro - ri*ri)
	kgPerM := area * r.Material.Density
	id := dia - 2*t

	return Geometry{
		VolumeM3:    area * lm * qty,
		InnerAreaM2: math.Pi * (math.Max(0.01, id) / 1000) * lm * qty,
		OuterAreaM2: math.Pi * (dia / 1000) * lm * qty,
		Metrics: map[string]float64{
			"id_mm":    id,
			"area_cm2": area * 1e4,
			"kg_per_m": kgPerM,
		},
		KPIs: []KPI{
			lengthKPI("Inner diameter (ID)", id, r.Units),
			{Label: "Cross-sectional area", Value: FormatNumber(area*1e4, 2), Unit: "cm²"},
			{Label: "Weight per meter", Value: FormatNumber(kgPerM, 3), Unit: "kg/m"},
		},
	}
}
