package configurator

import (
	"math"
	"strconv"
	"strings"
)

// MMPerInch is the conversion factor between the two supported length units.
const MMPerInch = 25.4

// Units is the length unit a request is expressed in. Computation always happens in millimetres.
type Units string

const (
	UnitsMM   Units = "mm"
	UnitsInch Units = "in"
)

// ParseUnits maps user input onto a supported unit, defaulting to millimetres.
func ParseUnits(s string) Units {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "inch", "inches":
		return UnitsInch
	default:
		return UnitsMM
	}
}

// ToMM converts a value expressed in u to millimetres.
func (u Units) ToMM(v float64) float64 {
	if u == UnitsInch {
		return v * MMPerInch
	}
	return v
}

// FromMM converts millimetres to u.
func (u Units) FromMM(mm float64) float64 {
	if u == UnitsInch {
		return mm / MMPerInch
	}
	return mm
}

// Clamp limits v to [lo, hi]. When hi < lo the lower bound wins.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Round rounds v to d decimal places.
func Round(v float64, d int) float64 {
	p := math.Pow(10, float64(d))
	return math.Round(v*p) / p
}

// FormatNumber renders v rounded to d decimals without trailing zeros.
func FormatNumber(v float64, d int) string {
	return strconv.FormatFloat(Round(v, d), 'f', -1, 64)
}
