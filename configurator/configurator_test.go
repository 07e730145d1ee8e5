package configurator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxCulvert_ReferenceWeight(t *testing.T) {
	c := New(nil)

	res, err := c.Configure("culvert", Request{
		Options: Options{Units: "mm", Material: "concrete", Qty: 1},
		Dims:    map[string]float64{"Wi": 1500, "Hi": 1200, "t": 200, "top": 200, "bot": 250, "L": 2000},
	})
	require.NoError(t, err)

	assert.Equal(t, 1900.0, res.Derived.Metrics["wo_mm"])
	assert.Equal(t, 1650.0, res.Derived.Metrics["ho_mm"])
	assert.InDelta(t, 2.67, res.Derived.VolumeM3, 1e-9)
	assert.InDelta(t, 6408, res.Derived.WeightKg, 1e-6)
	assert.InDelta(t, 90*2.67, res.Derived.RebarKg, 1e-6)
	assert.InDelta(t, 6408+90*2.67, res.Derived.OrderWeightKg, 1e-6)
	assert.InDelta(t, 10.8, res.Derived.InnerAreaM2, 1e-9)
	assert.InDelta(t, 14.2, res.Derived.OuterAreaM2, 1e-9)
	assert.InDelta(t, 14.2*18, res.Derived.CoatCost, 1e-6)
	assert.Equal(t, 1.0, res.Derived.MixFactor)
	assert.Equal(t, "Box Culvert", res.Product)
	assert.Equal(t, "SAR", res.Currency)
}

func TestStraightPipe_CrossSection(t *testing.T) {
	c := New(nil)

	res, err := c.Configure("straight", Request{
		Dims: map[string]float64{"Dia": 100, "t": 5, "L": 1000},
	})
	require.NoError(t, err)

	area := math.Pi * (0.05*0.05 - 0.045*0.045)
	assert.InDelta(t, area*1e4, res.Derived.Metrics["area_cm2"], 1e-9)
	assert.InDelta(t, area, res.Derived.VolumeM3, 1e-12)
	assert.InDelta(t, area*2400, res.Derived.WeightKg, 1e-9)
	assert.Equal(t, 90.0, res.Derived.Metrics["id_mm"])
	assert.Empty(t, res.Warnings)
}

func TestStraightPipe_WallAutoAdjusted(t *testing.T) {
	c := New(nil)

	res, err := c.Configure("straight", Request{Dims: map[string]float64{"Dia": 10, "t": 5, "L": 100}})
	require.NoError(t, err)

	assert.Equal(t, 4.5, res.DimsMM["t"])
	assert.Contains(t, res.Warnings, "Wall auto-adjusted to keep ID ≥ 1 mm.")
}

func TestElbowPipe_ArcLength(t *testing.T) {
	c := New(nil)

	res, err := c.Configure("elbow", Request{
		Options: Options{Qty: 2},
		Dims:    map[string]float64{"Dia": 100, "t": 5, "CLR": 200, "angle": 45.4},
	})
	require.NoError(t, err)

	arc := math.Pi * 0.2 * 45 / 180
	area := math.Pi * (0.05*0.05 - 0.045*0.045)
	assert.Equal(t, 45.0, res.DimsMM["angle"])
	assert.InDelta(t, arc, res.Derived.Metrics["arc_len_m"], 1e-12)
	assert.InDelta(t, area*2400*arc*2, res.Derived.WeightKg, 1e-9)
	assert.InDelta(t, 2*math.Pi*0.05*arc*2, res.Derived.OuterAreaM2, 1e-12)
	assert.Contains(t, res.SummaryHTML, "angle=<b>45°</b>")
}

func TestElbowPipe_ThinBoreKeepsOneMillimetre(t *testing.T) {
	c := New(nil)

	res, err := c.Configure("elbow", Request{Dims: map[string]float64{"Dia": 4, "t": 3}})
	require.NoError(t, err)

	assert.Equal(t, 1.5, res.DimsMM["t"])
	assert.Empty(t, res.Warnings)
}

func TestManhole_VolumeIsWallBaseAndSlab(t *testing.T) {
	c := New(nil)

	res, err := c.Configure("manhole", Request{Options: Options{Material: "frp"}})
	require.NoError(t, err)

	ro, ri, rd := 520.0, 400.0, 300.0
	wall := math.Pi * (ro*ro - ri*ri) * 1200
	base := math.Pi * ro * ro * 120
	slab := math.Pi * (ro*ro - rd*rd) * 120
	assert.InDelta(t, (wall+base+slab)/1e9, res.Derived.VolumeM3, 1e-9)
	assert.Equal(t, 1040.0, res.Derived.Metrics["od_mm"])
	assert.Zero(t, res.Derived.RebarKg, "frp takes no rebar")
}

func TestManhole_OpeningLimitedByInnerDiameter(t *testing.T) {
	c := New(nil)

	res, err := c.Configure("manhole", Request{Dims: map[string]float64{"ID": 300, "Do": 600, "t": 20}})
	require.NoError(t, err)

	assert.Equal(t, 280.0, res.DimsMM["Do"])
	ro := 170.0
	base := math.Pi * ro * ro * minBaseMM
	wall := math.Pi * (ro*ro - 150*150) * 1200
	slab := math.Pi * (ro*ro - 140*140) * 120
	assert.InDelta(t, (wall+base+slab)/1e9, res.Derived.VolumeM3, 1e-9)
}

func TestConfigure_InchesAndClamping(t *testing.T) {
	c := New(nil)

	res, err := c.Configure("culvert", Request{
		Options: Options{Units: "in"},
		Dims:    map[string]float64{"wi": 2, "HI": 100},
	})
	require.NoError(t, err)

	assert.Equal(t, 100.0, res.DimsMM["Wi"], "2 in is below the 100 mm minimum")
	assert.InDelta(t, 2540, res.DimsMM["Hi"], 1e-9)
	assert.Equal(t, 100.0, res.Dims["Hi"])
	assert.Equal(t, 3.94, res.Dims["Wi"])
	assert.Equal(t, "in", res.Params.Units)
	assert.Contains(t, res.SummaryHTML, "Hi=<b>100 in</b>")
}

func TestConfigure_OptionsFallback(t *testing.T) {
	c := New(nil)

	res, err := c.Configure("straight", Request{Options: Options{Material: "gold", Qty: -4, Mix: "M40"}})
	require.NoError(t, err)

	assert.Equal(t, "concrete", res.Params.Material)
	assert.Equal(t, 1, res.Params.Qty)
	assert.Equal(t, 1.12, res.Derived.MixFactor)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], `unknown material "gold"`)
	assert.Contains(t, res.SummaryHTML2, "SteelR=<b>Standard mesh (90 kg/m3)</b>")
}

// Every derived quantity is per order, coated areas included, for all shapes.
func TestConfigure_QuantityScales(t *testing.T) {
	c := New(nil)

	for _, shape := range []string{"culvert", "elbow", "manhole", "straight"} {
		one, err := c.Configure(shape, Request{Options: Options{Qty: 1}})
		require.NoError(t, err, shape)
		three, err := c.Configure(shape, Request{Options: Options{Qty: 3}})
		require.NoError(t, err, shape)

		assert.InDelta(t, one.Derived.VolumeM3*3, three.Derived.VolumeM3, 1e-9, shape)
		assert.InDelta(t, one.Derived.InnerAreaM2*3, three.Derived.InnerAreaM2, 1e-9, shape)
		assert.InDelta(t, one.Derived.OuterAreaM2*3, three.Derived.OuterAreaM2, 1e-9, shape)
		assert.InDelta(t, one.Derived.CoatCost*3, three.Derived.CoatCost, 1e-9, shape)
	}
}

func TestConfigure_UnknownShape(t *testing.T) {
	_, err := New(nil).Configure("pyramid", Request{})
	assert.ErrorIs(t, err, ErrUnknownShape)
}

func TestUnits_RoundTrip(t *testing.T) {
	for _, v := range []float64{0, 1, 12.5, 39.37} {
		assert.InDelta(t, v, UnitsInch.FromMM(UnitsInch.ToMM(v)), 1e-12)
	}
	assert.Equal(t, 25.4, UnitsInch.ToMM(1))
	assert.Equal(t, UnitsMM, ParseUnits("bogus"))
	assert.Equal(t, 5.0, Clamp(1, 5, 3), "lower bound wins")
}

func TestParseCatalog_RejectsMissingDefault(t *testing.T) {
	_, err := ParseCatalog([]byte(`
currency: SAR
defaults: {material: stone, mix: M30, steel: none, inner: none, outer: none}
materials: [{key: concrete, density: 2400}]
mixes: [{key: M30, factor: 1}]
rebar: [{key: none}]
inner_linings: [{key: none}]
outer_coats: [{key: none}]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `default material "stone"`)
}
