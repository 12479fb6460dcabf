package score

import (
	"math"
	"sort"

	"github.com/Emasoft/perfect-skill-suggester/internal/gate"
	"github.com/Emasoft/perfect-skill-suggester/internal/match"
)

// ElementScore is the scoring record for one (element, sub-task) pair,
// plus the aggregation bookkeeping needed once multiple sub-tasks are
// folded down to one entry per element.
type ElementScore struct {
	ElementName   string
	RawScore      int
	Evidence      []match.Evidence
	FirstMatch    bool
	FuzzyUsed     bool
	GateFailed    bool
	FailedGates   []string
	SubTaskIndex  int
	RelativeScore float64
}

// ScoreElement computes the raw integer score for one Matcher report,
// applying per-signal weights, first-keyword bonus, original-token bonus,
// description/use-case overlap (capped), a coherence bonus, the whole-name
// bonus (base plus a per-part component scaled by nameParts), keyword
// damping, the low-signal stoplist attenuation, and finally the gate
// penalty, which multiplies the entire summed total, whole-name bonus
// included. nameParts is the element's NameParts count; callers pass 0 or 1
// to suppress the per-part component (e.g. in incomplete mode).
func ScoreElement(r match.Report, gr gate.Result, nameParts int, w Weights) ElementScore {
	total := 0.0

	total += float64(r.DirectoryHits) * float64(w.Directory)
	total += float64(r.PathHits) * float64(w.Path)
	total += float64(r.IntentHits) * float64(w.Intent)
	total += float64(r.PatternHits) * float64(w.Pattern)

	keywordHitIndex := 0
	firstSeen := false
	for _, ev := range r.Evidence {
		if ev.Signal != match.SignalKeyword {
			continue
		}
		keywordHitIndex++
		pts := float64(w.Keyword)
		if IsLowSignal(ev.Value) {
			pts = pts / float64(w.LowSignalDivisor)
		}
		total += pts
		if !firstSeen && ev.Value == r.FirstKeyword {
			total += float64(w.FirstKeywordBonus)
			firstSeen = true
		}
	}
	total -= dampingPenalty(keywordHitIndex, w)

	distinctOriginal := map[string]struct{}{}
	for _, ev := range r.Evidence {
		if ev.FromOriginal {
			distinctOriginal[string(ev.Signal)+"|"+ev.Value] = struct{}{}
		}
	}
	total += float64(len(distinctOriginal)) * float64(w.OriginalTokenBonus)

	descOverlap := r.DescriptionHits
	if descOverlap > w.DescriptionOverlapCap {
		descOverlap = w.DescriptionOverlapCap
	}
	total += float64(descOverlap) * float64(w.DescriptionOverlapPoints)

	ucOverlap := r.UseCaseHits
	if ucOverlap > w.UseCaseOverlapCap {
		ucOverlap = w.UseCaseOverlapCap
	}
	total += float64(ucOverlap) * float64(w.UseCaseOverlapPoints)

	clusters := coherenceClusters(r)
	coherence := float64(clusters) * float64(w.CoherencePoints)
	if coherence > float64(w.CoherenceCap) {
		coherence = float64(w.CoherenceCap)
	}
	total += coherence

	if r.NameHit {
		total += float64(w.WholeNameBase)
		if nameParts > 1 {
			total += float64(w.WholeNamePerPart) * float64(nameParts-1)
		}
	}

	if gr.Passed {
		return finalize(r, total, false, nil)
	}
	total *= w.GatePenalty
	return finalize(r, total, true, gr.FailedGates)
}

func finalize(r match.Report, total float64, gateFailed bool, failedGates []string) ElementScore {
	rounded := int(math.Round(total))
	if rounded < 0 {
		rounded = 0
	}
	return ElementScore{
		ElementName: r.ElementName,
		RawScore:    rounded,
		Evidence:    r.Evidence,
		FirstMatch:  r.FirstKeyword != "",
		FuzzyUsed:   r.FuzzyUsed,
		GateFailed:  gateFailed,
		FailedGates: failedGates,
	}
}

func dampingPenalty(keywordHits int, w Weights) float64 {
	if keywordHits < w.DampingStartHit {
		return 0
	}
	extra := keywordHits - w.DampingStartHit + 1
	penalty := float64(extra) * float64(w.DampingPerHit)
	if penalty > float64(w.DampingCap) {
		return float64(w.DampingCap)
	}
	return penalty
}

// coherenceClusters counts distinct signal classes with at least one hit,
// beyond the first, as a proxy for multiple hits landing on the same
// phrase cluster. A single isolated signal is not itself a cluster.
func coherenceClusters(r match.Report) int {
	distinct := 0
	if r.KeywordHits > 0 {
		distinct++
	}
	if r.IntentHits > 0 {
		distinct++
	}
	if r.PatternHits > 0 {
		distinct++
	}
	if r.DirectoryHits > 0 {
		distinct++
	}
	if r.PathHits > 0 {
		distinct++
	}
	if r.NameHit {
		distinct++
	}
	if r.DescriptionHits > 0 {
		distinct++
	}
	if r.UseCaseHits > 0 {
		distinct++
	}
	if distinct <= 1 {
		return 0
	}
	return distinct - 1
}

// AggregateMax implements the sub-task aggregation rule: for each element,
// take the maximum raw score across sub-tasks, preserving the evidence set
// from the winning sub-task. Aggregation is max, never sum.
func AggregateMax(perSubTask []ElementScore) ElementScore {
	if len(perSubTask) == 0 {
		return ElementScore{}
	}
	best := perSubTask[0]
	for _, es := range perSubTask[1:] {
		if es.RawScore > best.RawScore {
			best = es
		}
	}
	return best
}

// Normalize implements the relative-score formula across every element
// scored in this invocation. maxRaw is the highest raw score among all
// elements; a zero maxRaw (no matches at all) yields 0 for everything
// rather than dividing by zero.
func Normalize(scores map[string]ElementScore, w Weights) map[string]ElementScore {
	maxRaw := 0
	for _, es := range scores {
		if es.RawScore > maxRaw {
			maxRaw = es.RawScore
		}
	}

	out := make(map[string]ElementScore, len(scores))
	for name, es := range scores {
		floor := math.Min(float64(es.RawScore)/w.AbsoluteFloorDenominator, w.AbsoluteFloorCap)
		var relative float64
		if maxRaw > 0 {
			relative = math.Max(float64(es.RawScore)/float64(maxRaw), floor)
		} else {
			relative = floor
		}
		es.RelativeScore = relative
		out[name] = es
	}
	return out
}

// SortedNames returns scores' keys sorted, used where callers need a
// deterministic iteration order distinct from rank's final tie-break.
func SortedNames(scores map[string]ElementScore) []string {
	names := make([]string, 0, len(scores))
	for n := range scores {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
