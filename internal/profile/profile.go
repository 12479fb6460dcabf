// Package profile turns a structured agent descriptor into several
// synthesized prompts, scores each independently through the normal
// pipeline, and merges the per-element results by maximum.
package profile

import (
	"strings"

	"github.com/Emasoft/perfect-skill-suggester/internal/engine"
	"github.com/Emasoft/perfect-skill-suggester/internal/index"
	"github.com/Emasoft/perfect-skill-suggester/internal/match"
	"github.com/Emasoft/perfect-skill-suggester/internal/rank"
	"github.com/Emasoft/perfect-skill-suggester/internal/score"
)

// Descriptor is the structured input to agent-profile mode.
type Descriptor struct {
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	Role                string   `json:"role"`
	Duties              []string `json:"duties"`
	Tools               []string `json:"tools"`
	Domains             []string `json:"domains"`
	RequirementsSummary string   `json:"requirements_summary"`
	CWD                 string   `json:"cwd"`
}

// synthesizePrompts generates one internal prompt per descriptor field that
// carries lexical content. Field order is fixed for determinism.
func synthesizePrompts(d Descriptor) []string {
	var prompts []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" {
			prompts = append(prompts, s)
		}
	}

	add(d.Name)
	add(d.Description)
	add(d.Role)
	if len(d.Duties) > 0 {
		add(strings.Join(d.Duties, "; "))
	}
	if len(d.Tools) > 0 {
		add("uses " + strings.Join(d.Tools, " "))
	}
	if len(d.Domains) > 0 {
		add("works with " + strings.Join(d.Domains, " "))
	}
	add(d.RequirementsSummary)

	return prompts
}

// Run synthesizes prompts from d, scores each independently, merges by
// maximum, classifies the merged score, and hands back a sorted Ranked list
// for the caller to group (BuildGroupedPayload in package rank).
func Run(idx *index.Index, d Descriptor, opts engine.Options) []rank.Ranked {
	prompts := synthesizePrompts(d)

	merged := map[string]score.ElementScore{}
	for _, p := range prompts {
		perPrompt := engine.ScoreAll(idx, p, d.CWD, opts)
		for name, es := range perPrompt {
			existing, ok := merged[name]
			if !ok || es.RawScore > existing.RawScore {
				merged[name] = mergeEvidence(es, existing, ok)
				continue
			}
			merged[name] = mergeEvidence(existing, es, true)
		}
	}

	normalized := score.Normalize(merged, opts.Weights)
	ranked := rank.FromScores(normalized, idx.Elements, !opts.IncompleteMode)
	rank.Sort(ranked, !opts.IncompleteMode)
	return ranked
}

// mergeEvidence keeps winner's raw score and metadata but unions the
// evidence sets from both sides.
func mergeEvidence(winner, loser score.ElementScore, haveLoser bool) score.ElementScore {
	if !haveLoser {
		return winner
	}
	seen := make(map[string]struct{}, len(winner.Evidence)+len(loser.Evidence))
	out := make([]match.Evidence, 0, len(winner.Evidence)+len(loser.Evidence))
	for _, ev := range append(append([]match.Evidence{}, winner.Evidence...), loser.Evidence...) {
		key := string(ev.Signal) + "|" + ev.Value
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ev)
	}
	winner.Evidence = out
	return winner
}
