package configurator

import (
	"html"
	"strings"
)

// dimsSummary renders the dimension line of a cart item, e.g. "Wi=<b>1500 mm</b>".
func dimsSummary(specs []ParamSpec, d Dims, u Units) string {
	var b strings.Builder
	for i, p := range specs {
		if i > 0 {
			b.WriteString(", ")
		}
		v := d[p.Key]
		value := FormatNumber(v, 2)
		if !p.Unitless {
			value = FormatNumber(u.FromMM(v), 2) + " " + string(u)
		}
		b.WriteString(html.EscapeString(p.Key))
		b.WriteString("=<b>")
		b.WriteString(html.EscapeString(value + p.Suffix))
		b.WriteString("</b>")
	}
	return b.String()
}

// optionsSummary renders the commercial options of a cart item.
func optionsSummary(r Resolved) string {
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString("<div>")
		b.WriteString(label)
		b.WriteString("=<b>")
		b.WriteString(html.EscapeString(value))
		b.WriteString("</b></div>")
	}
	line("Material", r.Material.Label)
	line("Mix", r.Mix.Label)
	line("SteelR", r.Steel.Label)
	line("Inner lining", r.Inner.Label)
	line("Outer coat", r.Outer.Label)
	return b.String()
}
