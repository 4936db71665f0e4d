package estimator

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	MarkerIncreasing = "▲"
	MarkerDecreasing = "▼"
)

// FormatPrice renders whole dollars with grouped thousands, e.g. $1,498.
func FormatPrice(amount int) string {
	p := message.NewPrinter(language.English)
	if amount < 0 {
		return p.Sprintf("-$%d", -amount)
	}
	return p.Sprintf("$%d", amount)
}

func (d Direction) Marker() string {
	switch d {
	case DirectionIncreasing:
		return MarkerIncreasing
	case DirectionDecreasing:
		return MarkerDecreasing
	}
	return ""
}

// Render is the plain-text form of a view. Invisible views render as "".
func Render(v View) string {
	if !v.Visible {
		return ""
	}

	var b strings.Builder
	b.WriteString("Estimated total: ")
	b.WriteString(FormatPrice(v.Displayed))
	if m := v.Direction.Marker(); m != "" {
		b.WriteString(" ")
		b.WriteString(m)
	}
	if v.PackageSelected {
		b.WriteString("\nPackage: ")
		b.WriteString(v.PackageName)
	}
	if v.Savings > 0 {
		b.WriteString("\nYou save ")
		b.WriteString(FormatPrice(v.Savings))
		b.WriteString(" vs. ")
		b.WriteString(FormatPrice(v.IndividualTotal))
		b.WriteString(" à la carte")
	}
	return b.String()
}
