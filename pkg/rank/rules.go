package rank

import (
	"kalkulai-be/pkg/textnorm"
)

// Reason tags emitted by the domain rules.
const (
	ReasonSubtypeMatch    = "subtype anchor"
	ReasonSubtypeMissing  = "subtype missing"
	ReasonSubtypeConflict = "conflicting subtype"
	ReasonWrongSurface    = "wrong surface"
	ReasonVolumeFit       = "volume fit"
	ReasonVolumeNear      = "volume near"
	ReasonVolumeOff       = "volume off"
	ReasonVolumeFar       = "volume far"
)

// Primer sub-type anchors. A query asserting one of these expects the
// candidate name to carry the same anchor; a candidate carrying a different
// anchor is a conflicting sub-type even when raw lexical overlap is high.
var primerAnchors = []string{"tiefgrund", "putzgrund", "haftgrund", "sperrgrund"}

// Surfaces a given primer sub-type is not made for. Queries naming such a
// surface push the candidate down.
var incompatibleSurfaces = map[string][]string{
	"tiefgrund": {"holz", "metall", "lack"},
	"putzgrund": {"holz", "metall"},
	"haftgrund": {"tapete"},
}

// RuleWeights holds the tuned magnitudes of the disambiguation rules.
type RuleWeights struct {
	SubtypeMatch    float64
	SubtypeMissing  float64
	SubtypeConflict float64
	WrongSurface    float64
	VolumeFit       float64
	VolumeNear      float64
	VolumeOff       float64
	VolumeFar       float64
}

// DefaultRuleWeights returns the tuned defaults.
func DefaultRuleWeights() RuleWeights {
	return RuleWeights{
		SubtypeMatch:    0.6,
		SubtypeMissing:  -0.4,
		SubtypeConflict: -0.8,
		WrongSurface:    -0.3,
		VolumeFit:       0.4,
		VolumeNear:      0.1,
		VolumeOff:       -0.2,
		VolumeFar:       -0.4,
	}
}

// applyDomainRules evaluates the named disambiguation rules for one candidate
// and returns the accumulated rule signal plus the reason tags that fired.
// queryTokens and candTokens are the full (pre-semantic-filter) token sets so
// compound anchors like "tiefgrund" survive.
func applyDomainRules(query string, queryTokens, candTokens textnorm.TokenSet, candName string, w RuleWeights) (float64, []string) {
	signal := 0.0
	var reasons []string

	queryAnchor := findAnchor(queryTokens)
	candAnchor := findAnchor(candTokens)

	if queryAnchor != "" {
		switch {
		case candAnchor == queryAnchor:
			signal += w.SubtypeMatch
			reasons = append(reasons, ReasonSubtypeMatch)
		case candAnchor != "":
			signal += w.SubtypeConflict
			reasons = append(reasons, ReasonSubtypeConflict)
		default:
			signal += w.SubtypeMissing
			reasons = append(reasons, ReasonSubtypeMissing)
		}
	}

	// Wrong-surface penalty: the query names a surface the candidate's
	// sub-type is not meant for.
	if candAnchor != "" {
		for _, surface := range incompatibleSurfaces[candAnchor] {
			if queryTokens.Contains(surface) {
				signal += w.WrongSurface
				reasons = append(reasons, ReasonWrongSurface)
				break
			}
		}
	}

	// Volume reconciliation with tiered ratio bands.
	if queryVol, ok := ParseVolume(query); ok {
		if candVol, ok := ParseVolume(candName); ok && candVol.Dimension == queryVol.Dimension {
			delta, reason := volumeBand(candVol.Amount/queryVol.Amount, w)
			signal += delta
			reasons = append(reasons, reason)
		}
	}

	return signal, reasons
}

// volumeBand maps the candidate/query volume ratio onto the tuned bands:
// roughly 80-125% is a fit, 60-160% is near, 25-60% (and the upper mirror)
// is off, anything beyond is far.
func volumeBand(ratio float64, w RuleWeights) (float64, string) {
	switch {
	case ratio >= 0.80 && ratio <= 1.25:
		return w.VolumeFit, ReasonVolumeFit
	case ratio >= 0.60 && ratio <= 1.60:
		return w.VolumeNear, ReasonVolumeNear
	case ratio >= 0.25 && ratio <= 4.0:
		return w.VolumeOff, ReasonVolumeOff
	default:
		return w.VolumeFar, ReasonVolumeFar
	}
}

func findAnchor(tokens textnorm.TokenSet) string {
	for _, anchor := range primerAnchors {
		if tokens.Contains(anchor) {
			return anchor
		}
	}
	return ""
}
