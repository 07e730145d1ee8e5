package configurator

import "math"

// ElbowPipe is a toroidal pipe segment bent around a centreline radius.
type ElbowPipe struct{}

func (ElbowPipe) Type() string    { return "elbow" }
func (ElbowPipe) Product() string { return "Elbow Pipe" }

func (ElbowPipe) Params() []ParamSpec {
	return []ParamSpec{
		{Key: "Dia", Label: "Outer diameter", Default: 100, Min: 4, Max: 5000},
		{Key: "t", Label: "Wall thickness", Default: 5, Min: 0, Max: 2500},
		{Key: "CLR", Label: "Centreline radius", Default: 200, Min: 10, Max: 20000},
		{Key: "angle", Label: "Bend angle", Default: 45, Min: 1, Max: 180, Unitless: true, Integer: true, Suffix: "°"},
	}
}

func (ElbowPipe) Adjust(d Dims) []string {
	return fitPipeWall(d, false)
}

func (ElbowPipe) Compute(d Dims, r Resolved) Geometry {
	dia, t, clr, angle := d["Dia"], d["t"], d["CLR"], d["angle"]
	qty := float64(r.Qty)

	arcM := math.Pi * (clr / 1000) * angle / 180
	ro := dia / 2 / 1000
	ri := math.Max(0.0005, ro-t/1000)
	area := math.Pi * (ro*ro - ri*ri)
	id := dia - 2*t

	return Geometry{
		VolumeM3:    area * arcM * qty,
		InnerAreaM2: 2 * math.Pi * ri * arcM * qty,
		OuterAreaM2: 2 * math.Pi * ro * arcM * qty,
		Metrics: map[string]float64{
			"id_mm":     id,
			"clr_mm":    clr,
			"angle_deg": angle,
			"arc_len_m": arcM,
			"area_cm2":  area * 1e4,
			"kg_per_m":  area * r.Material.Density,
		},
		KPIs: []KPI{
			lengthKPI("Inner diameter (ID)", id, r.Units),
			lengthKPI("Centerline radius", clr, r.Units),
			{Label: "Arc length", Value: FormatNumber(arcM, 3), Unit: "m"},
		},
	}
}

// fitPipeWall clamps the wall to Dia/2-0.2 and then keeps the bore at least 1 mm wide.
func fitPipeWall(d Dims, warn bool) []string {
	dia := d["Dia"]
	d["t"] = Clamp(d["t"], 0, dia/2-0.2)
	if dia-2*d["t"] < 1 {
		d["t"] = (dia - 1) / 2
		if warn {
			return []string{"Wall auto-adjusted to keep ID ≥ 1 mm."}
		}
	}
	return nil
}
