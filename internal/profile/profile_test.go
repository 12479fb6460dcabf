package profile

import (
	"sort"
	"strings"
	"testing"

	"github.com/Emasoft/perfect-skill-suggester/internal/element"
	"github.com/Emasoft/perfect-skill-suggester/internal/engine"
	"github.com/Emasoft/perfect-skill-suggester/internal/index"
	"github.com/Emasoft/perfect-skill-suggester/internal/match"
	"github.com/Emasoft/perfect-skill-suggester/internal/score"
)

func scoreWithEvidence(raw int, signal match.Signal, value string) score.ElementScore {
	return score.ElementScore{
		RawScore: raw,
		Evidence: []match.Evidence{{Signal: signal, Value: value}},
	}
}

func buildIndex(t *testing.T, elements ...element.Element) *index.Index {
	t.Helper()
	idx := &index.Index{
		Elements: map[string]element.Element{},
		Derived:  map[string]index.Derived{},
		NameSet:  map[string]struct{}{},
	}
	for _, el := range elements {
		key := el.NormalizedName()
		idx.Elements[key] = el
		idx.NameSet[key] = struct{}{}

		var derived index.Derived
		for _, kw := range el.Keywords {
			kw = strings.ToLower(kw)
			if strings.Contains(kw, " ") {
				derived.MultiWordKeywords = append(derived.MultiWordKeywords, kw)
			} else {
				derived.SingleTokenKeywords = append(derived.SingleTokenKeywords, kw)
			}
		}
		idx.Derived[key] = derived
		idx.Order = append(idx.Order, key)
	}
	sort.Strings(idx.Order)
	idx.Registry = index.NewRegistry(map[string]index.DomainEntry{})
	return idx
}

func TestSynthesizePromptsFixedFieldOrder(t *testing.T) {
	d := Descriptor{
		Name:                "release manager",
		Description:         "ships releases",
		Role:                "devops",
		Duties:              []string{"cut branches", "tag versions"},
		Tools:               []string{"git", "docker"},
		Domains:             []string{"backend"},
		RequirementsSummary: "needs ci access",
	}
	prompts := synthesizePrompts(d)
	want := []string{
		"release manager",
		"ships releases",
		"devops",
		"cut branches; tag versions",
		"uses git docker",
		"works with backend",
		"needs ci access",
	}
	if len(prompts) != len(want) {
		t.Fatalf("expected %d prompts, got %d: %v", len(want), len(prompts), prompts)
	}
	for i, w := range want {
		if prompts[i] != w {
			t.Fatalf("prompt %d: expected %q, got %q", i, w, prompts[i])
		}
	}
}

func TestSynthesizePromptsSkipsEmptyFields(t *testing.T) {
	d := Descriptor{Name: "solo", Description: "  "}
	prompts := synthesizePrompts(d)
	if len(prompts) != 1 || prompts[0] != "solo" {
		t.Fatalf("expected only the non-blank 'solo' prompt, got %v", prompts)
	}
}

func TestRunMergesPerElementScoresByMax(t *testing.T) {
	idx := buildIndex(t, element.Element{
		Name: "docker-expert", Type: element.TypeSkill,
		Keywords: []string{"docker", "kubernetes"},
	})
	d := Descriptor{
		Name:        "helper",
		Description: "generic assistant",
		Duties:      []string{"docker kubernetes deployment work"},
	}
	ranked := Run(idx, d, engine.DefaultOptions())
	if len(ranked) == 0 {
		t.Fatalf("expected docker-expert to be ranked, got none")
	}
	want := 0
	for _, p := range synthesizePrompts(d) {
		if es, ok := engine.ScoreAll(idx, p, d.CWD, engine.DefaultOptions())["docker-expert"]; ok && es.RawScore > want {
			want = es.RawScore
		}
	}
	found := false
	for _, r := range ranked {
		if r.Element.Name == "docker-expert" {
			found = true
			if r.Score.RawScore != want {
				t.Fatalf("expected merged raw score to be the per-prompt maximum %d, got %d", want, r.Score.RawScore)
			}
		}
	}
	if !found {
		t.Fatalf("expected docker-expert among ranked results, got %+v", ranked)
	}
}

func TestRunReturnsEmptyForEmptyDescriptor(t *testing.T) {
	idx := buildIndex(t, element.Element{
		Name: "docker-expert", Type: element.TypeSkill,
		Keywords: []string{"docker"},
	})
	ranked := Run(idx, Descriptor{}, engine.DefaultOptions())
	if len(ranked) != 0 {
		t.Fatalf("expected no ranked elements for an all-blank descriptor, got %+v", ranked)
	}
}

func TestMergeEvidenceUnionsAcrossSides(t *testing.T) {
	winner := scoreWithEvidence(10, "keyword", "docker")
	loser := scoreWithEvidence(5, "keyword", "kubernetes")
	merged := mergeEvidence(winner, loser, true)
	if len(merged.Evidence) != 2 {
		t.Fatalf("expected union of 2 distinct evidence entries, got %d: %+v", len(merged.Evidence), merged.Evidence)
	}
	if merged.RawScore != 10 {
		t.Fatalf("expected winner's raw score to be kept, got %d", merged.RawScore)
	}
}

func TestMergeEvidenceDeduplicatesIdenticalEntries(t *testing.T) {
	winner := scoreWithEvidence(10, "keyword", "docker")
	loser := scoreWithEvidence(5, "keyword", "docker")
	merged := mergeEvidence(winner, loser, true)
	if len(merged.Evidence) != 1 {
		t.Fatalf("expected duplicate evidence to collapse to 1 entry, got %d: %+v", len(merged.Evidence), merged.Evidence)
	}
}

func TestMergeEvidenceNoLoserReturnsWinnerUnchanged(t *testing.T) {
	winner := scoreWithEvidence(10, "keyword", "docker")
	merged := mergeEvidence(winner, winner, false)
	if len(merged.Evidence) != 1 {
		t.Fatalf("expected winner's evidence untouched when there is no loser, got %+v", merged.Evidence)
	}
}
