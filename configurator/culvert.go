package configurator

// BoxCulvert is a rectangular hollow section with independent wall, top and bottom slabs.
type BoxCulvert struct{}

func (BoxCulvert) Type() string    { return "culvert" }
func (BoxCulvert) Product() string { return "Box Culvert" }

func (BoxCulvert) Params() []ParamSpec {
	return []ParamSpec{
		{Key: "Wi", Label: "Inner width", Default: 1500, Min: 100, Max: 10000},
		{Key: "Hi", Label: "Inner height", Default: 1200, Min: 100, Max: 10000},
		{Key: "t", Label: "Wall thickness", Default: 200, Min: 20, Max: 2000},
		{Key: "top", Label: "Top slab", Default: 200, Min: 20, Max: 2000},
		{Key: "bot", Label: "Bottom slab", Default: 250, Min: 20, Max: 2000},
		{Key: "L", Label: "Length", Default: 2000, Min: 200, Max: 40000},
	}
}

func (BoxCulvert) Adjust(Dims) []string { return nil }

func (BoxCulvert) Compute(d Dims, r Resolved) Geometry {
	wi, hi, t, top, bot, l := d["Wi"], d["Hi"], d["t"], d["top"], d["bot"], d["L"]
	wo := wi + 2*t
	ho := hi + top + bot
	qty := float64(r.Qty)

	openingCM2 := (wi / 10) * (hi / 10)
	return Geometry{
		VolumeM3:    mm3ToM3(l*wo*ho-l*wi*hi) * qty,
		InnerAreaM2: mm2ToM2(2*(wi+hi)*l) * qty,
		OuterAreaM2: mm2ToM2(2*(wo+ho)*l) * qty,
		Metrics: map[string]float64{
			"wo_mm":            wo,
			"ho_mm":            ho,
			"opening_area_cm2": openingCM2,
		},
		KPIs: []KPI{
			lengthKPI("Outer width (Wo)", wo, r.Units),
			lengthKPI("Outer height (Ho)", ho, r.Units),
			{Label: "Opening area", Value: FormatNumber(openingCM2, 2), Unit: "cm²"},
		},
	}
}
