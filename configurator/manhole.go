package configurator

import "math"

// minBaseMM is the thinnest base disc cast under a manhole riser.
const minBaseMM = 60

// Manhole is a cylindrical chamber with a base disc and a top slab with an access opening.
type Manhole struct{}

func (Manhole) Type() string    { return "manhole" }
func (Manhole) Product() string { return "Manhole (Cylindrical)" }

func (Manhole) Params() []ParamSpec {
	return []ParamSpec{
		{Key: "ID", Label: "Inner diameter", Default: 800, Min: 300, Max: 5000},
		{Key: "t", Label: "Wall thickness", Default: 120, Min: 20, Max: 1000},
		{Key: "H", Label: "Height", Default: 1200, Min: 300, Max: 10000},
		{Key: "slab", Label: "Top slab", Default: 120, Min: 30, Max: 1000},
		{Key: "Do", Label: "Top opening", Default: 600, Min: 200, Max: 4980},
	}
}

func (Manhole) Adjust(d Dims) []string {
	d["Do"] = Clamp(d["Do"], 200, math.Max(100, d["ID"]-20))
	return nil
}

func (Manhole) Compute(d Dims, r Resolved) Geometry {
	id, t, h, slab, do := d["ID"], d["t"], d["H"], d["slab"], d["Do"]
	od := id + 2*t
	qty := float64(r.Qty)

	ro, ri, rd := od/2, id/2, do/2
	wall := math.Pi * (ro*ro - ri*ri) * h
	base := math.Pi * ro * ro * math.Max(minBaseMM, t)
	top := math.Pi * (ro*ro - rd*rd) * slab
	volume := mm3ToM3(wall+base+top) * qty

	return Geometry{
		VolumeM3:    volume,
		InnerAreaM2: mm2ToM2(math.Pi*id*h) * qty,
		OuterAreaM2: mm2ToM2(math.Pi*od*h+math.Pi*(od*od-do*do)/4) * qty,
		Metrics: map[string]float64{
			"od_mm": od,
			"do_mm": do,
		},
		KPIs: []KPI{
			lengthKPI("Outer diameter (OD)", od, r.Units),
			lengthKPI("Top opening (Do)", do, r.Units),
			{Label: "Concrete volume", Value: FormatNumber(volume, 3), Unit: "m³"},
		},
	}
}
