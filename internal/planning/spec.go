package planning

import (
	"strings"
)

const SpecUnknown = "unknown"

// SpecFromProduct derives the required line capability from the product
// name. Product names carry their diameter class ("5mm 微喷带",
// "8mm drip tape"); anything else maps to SpecUnknown, which no line
// supports.
func SpecFromProduct(product string) string {
	switch {
	case strings.Contains(product, "5mm"):
		return "5mm"
	case strings.Contains(product, "8mm"):
		return "8mm"
	default:
		return SpecUnknown
	}
}
