// Package rank handles confidence classification, deterministic sort and
// truncation, the minimum-score filter, and the output payload shapes for
// hook/json/agent-profile modes.
package rank

import (
	"sort"

	"github.com/Emasoft/perfect-skill-suggester/internal/element"
	"github.com/Emasoft/perfect-skill-suggester/internal/score"
)

// Confidence is the categorical label derived from raw score.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// Classify maps a raw integer score to its confidence band.
func Classify(raw int) Confidence {
	switch {
	case raw >= 12:
		return ConfidenceHigh
	case raw >= 6:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// commitmentString is the verbatim instruction attached to HIGH-confidence
// results.
const commitmentString = "This suggestion is high confidence. Evaluate whether it genuinely fits the current task before acting on it; do not invoke it reflexively."

// Ranked pairs an element with its final score and confidence, the unit
// the sort and emit stages operate on.
type Ranked struct {
	Element    element.Element
	Score      score.ElementScore
	Confidence Confidence
	Commitment string
}

// FromScores builds the Ranked list from a name->ElementScore map and the
// element records it references, classifying confidence along the way.
// useTierTieBreak is false in incomplete mode, which skips tier boosts and
// explicit boost values.
func FromScores(scores map[string]score.ElementScore, elements map[string]element.Element, useTierTieBreak bool) []Ranked {
	out := make([]Ranked, 0, len(scores))
	for name, es := range scores {
		el, ok := elements[name]
		if !ok {
			continue
		}
		conf := Classify(es.RawScore)
		r := Ranked{Element: el, Score: es, Confidence: conf}
		if conf == ConfidenceHigh {
			r.Commitment = commitmentString
		}
		out = append(out, r)
	}
	Sort(out, useTierTieBreak)
	return out
}

// Sort applies a deterministic tie-break: relative_score desc -> raw_score
// desc -> tier priority (primary first, when useTierTieBreak) -> name asc.
func Sort(ranked []Ranked, useTierTieBreak bool) {
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score.RelativeScore != b.Score.RelativeScore {
			return a.Score.RelativeScore > b.Score.RelativeScore
		}
		if a.Score.RawScore != b.Score.RawScore {
			return a.Score.RawScore > b.Score.RawScore
		}
		if useTierTieBreak {
			pa, pb := element.TierPriority(a.Element.Tier), element.TierPriority(b.Element.Tier)
			if pa != pb {
				return pa < pb
			}
		}
		return a.Element.NormalizedName() < b.Element.NormalizedName()
	})
}

// FilterAndTruncate applies the minimum-score filter and top_k truncation:
// entries below minRelative are dropped unless doing so would leave fewer
// than topK candidates, in which case the highest-scoring dropped entries
// are used to fill back up to topK. ranked must already be sorted by Sort.
func FilterAndTruncate(ranked []Ranked, minRelative float64, topK int) []Ranked {
	kept := make([]Ranked, 0, len(ranked))
	rest := make([]Ranked, 0)
	for _, r := range ranked {
		if r.Score.RelativeScore >= minRelative {
			kept = append(kept, r)
		} else {
			rest = append(rest, r)
		}
	}
	if len(kept) < topK {
		need := topK - len(kept)
		if need > len(rest) {
			need = len(rest)
		}
		kept = append(kept, rest[:need]...)
		Sort(kept, true)
	}
	if topK > 0 && len(kept) > topK {
		kept = kept[:topK]
	}
	return kept
}
