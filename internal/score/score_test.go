package score

import (
	"testing"

	"github.com/Emasoft/perfect-skill-suggester/internal/gate"
	"github.com/Emasoft/perfect-skill-suggester/internal/match"
)

func TestScoreElementAppliesWeights(t *testing.T) {
	w := DefaultWeights()
	r := match.Report{
		ElementName: "example",
		Evidence: []match.Evidence{
			{Signal: match.SignalDirectory, Value: "internal"},
			{Signal: match.SignalIntent, Value: "fix"},
		},
		DirectoryHits: 1,
		IntentHits:    1,
	}
	es := ScoreElement(r, gate.Result{Passed: true}, 0, w)
	// Two distinct signal classes hit, so one coherence cluster is added.
	want := w.Directory + w.Intent + w.CoherencePoints
	if es.RawScore != want {
		t.Fatalf("raw score = %d, want %d", es.RawScore, want)
	}
}

func TestScoreElementGatePenaltyMultipliesTotal(t *testing.T) {
	w := DefaultWeights()
	r := match.Report{
		ElementName:   "example",
		DirectoryHits: 10,
		Evidence:      []match.Evidence{{Signal: match.SignalDirectory, Value: "internal"}},
	}
	passed := ScoreElement(r, gate.Result{Passed: true}, 0, w)
	failed := ScoreElement(r, gate.Result{Passed: false, FailedGates: []string{"g"}}, 0, w)
	if !failed.GateFailed {
		t.Fatalf("expected GateFailed to be true")
	}
	if failed.RawScore >= passed.RawScore {
		t.Fatalf("gate-failed score (%d) should be lower than passing score (%d)", failed.RawScore, passed.RawScore)
	}
}

func TestKeywordDampingReducesLaterHits(t *testing.T) {
	w := DefaultWeights()
	evidence := make([]match.Evidence, 0, 6)
	for i := 0; i < 6; i++ {
		evidence = append(evidence, match.Evidence{Signal: match.SignalKeyword, Value: "kw" + string(rune('a'+i))})
	}
	r := match.Report{ElementName: "many-keywords", Evidence: evidence, KeywordHits: 6, FirstKeyword: "kwa"}
	es := ScoreElement(r, gate.Result{Passed: true}, 0, w)

	undamped := 6*w.Keyword + w.FirstKeywordBonus
	if es.RawScore >= undamped {
		t.Fatalf("expected damping to reduce score below undamped total %d, got %d", undamped, es.RawScore)
	}
}

func TestLowSignalStoplistAttenuatesKeywordPoints(t *testing.T) {
	w := DefaultWeights()
	r := match.Report{
		ElementName: "generic-tool",
		Evidence:    []match.Evidence{{Signal: match.SignalKeyword, Value: "fix"}},
		KeywordHits: 1,
		FirstKeyword: "fix",
	}
	es := ScoreElement(r, gate.Result{Passed: true}, 0, w)
	// "fix" is stoplisted: keyword weight is divided by 10, but the
	// first-keyword bonus still applies in full.
	want := w.Keyword/w.LowSignalDivisor + w.FirstKeywordBonus
	if es.RawScore != want {
		t.Fatalf("raw score = %d, want %d", es.RawScore, want)
	}
}

func TestWholeNamePartBonusIsIncludedInGatePenalty(t *testing.T) {
	w := DefaultWeights()
	r := match.Report{
		ElementName: "example",
		Evidence:    []match.Evidence{{Signal: match.SignalName, Value: "example"}},
		NameHit:     true,
	}
	passed := ScoreElement(r, gate.Result{Passed: true}, 3, w)
	failed := ScoreElement(r, gate.Result{Passed: false, FailedGates: []string{"g"}}, 3, w)

	wantPassed := w.WholeNameBase + w.WholeNamePerPart*2
	if passed.RawScore != wantPassed {
		t.Fatalf("passed raw score = %d, want %d", passed.RawScore, wantPassed)
	}

	wantFailed := int(float64(wantPassed) * w.GatePenalty)
	if failed.RawScore != wantFailed {
		t.Fatalf("gate penalty must apply to the whole-name bonus including its per-part component: got %d, want %d", failed.RawScore, wantFailed)
	}
}

func TestAggregateMaxTakesHighestSubTaskScore(t *testing.T) {
	scores := []ElementScore{
		{ElementName: "el", RawScore: 5},
		{ElementName: "el", RawScore: 42},
		{ElementName: "el", RawScore: 10},
	}
	agg := AggregateMax(scores)
	if agg.RawScore != 42 {
		t.Fatalf("expected max aggregation to yield 42, got %d", agg.RawScore)
	}
}

func TestNormalizeRelativeScoreRange(t *testing.T) {
	w := DefaultWeights()
	scores := map[string]ElementScore{
		"top":    {ElementName: "top", RawScore: 2000},
		"middle": {ElementName: "middle", RawScore: 100},
		"bottom": {ElementName: "bottom", RawScore: 1},
	}
	out := Normalize(scores, w)
	for name, es := range out {
		if es.RelativeScore < 0 || es.RelativeScore > 1 {
			t.Fatalf("%s: relative score %v out of [0,1]", name, es.RelativeScore)
		}
	}
	if out["top"].RelativeScore != 1.0 {
		t.Fatalf("top scorer should normalize to 1.0, got %v", out["top"].RelativeScore)
	}
}

func TestNormalizeEmptyScoresDoesNotPanic(t *testing.T) {
	out := Normalize(map[string]ElementScore{}, DefaultWeights())
	if len(out) != 0 {
		t.Fatalf("expected empty output for empty input")
	}
}
