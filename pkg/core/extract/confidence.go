package extract

// confidenceBoolean implements spec.md §4.1's boolean confidence table:
// 0.95/0.85/0.75 for >=3/>=2/1 keyword hits, else 0.60 if the extractor
// settled on false or 0.50 if it settled on true with no keyword hits.
// A boolean pattern match that settles on true is scored
// confidencePatternMatch by extractBoolean and does not come through here.
func confidenceBoolean(hits int, result bool) float64 {
	switch {
	case hits >= 3:
		return 0.95
	case hits >= 2:
		return 0.85
	case hits == 1:
		return 0.75
	case result:
		return 0.50
	default:
		return 0.60
	}
}

const (
	confidencePatternMatch = 0.95
	confidenceEnumExact    = 0.90
	confidenceEnumFallback = 0.70
	confidenceNumeric      = 0.90
	confidenceISODate      = 0.90
	confidenceOtherDate    = 0.75
	confidenceDefault      = 0.70
)

func confidenceList(n int) float64 {
	switch {
	case n >= 3:
		return 0.90
	case n >= 1:
		return 0.80
	default:
		return 0.50
	}
}
