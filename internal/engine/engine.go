// Package engine wires the pipeline stages into a single call: normalize,
// expand, decompose, detect domains, match, gate, score, aggregate,
// normalize to relative score, classify, and sort.
package engine

import (
	"github.com/Emasoft/perfect-skill-suggester/internal/cwdcontext"
	"github.com/Emasoft/perfect-skill-suggester/internal/decompose"
	"github.com/Emasoft/perfect-skill-suggester/internal/domaindetect"
	"github.com/Emasoft/perfect-skill-suggester/internal/expand"
	"github.com/Emasoft/perfect-skill-suggester/internal/gate"
	"github.com/Emasoft/perfect-skill-suggester/internal/index"
	"github.com/Emasoft/perfect-skill-suggester/internal/match"
	"github.com/Emasoft/perfect-skill-suggester/internal/promptin"
	"github.com/Emasoft/perfect-skill-suggester/internal/rank"
	"github.com/Emasoft/perfect-skill-suggester/internal/score"
)

// Options controls the invocation-level behavior the CLI exposes.
type Options struct {
	TopK             int
	MinRelativeScore float64
	IncompleteMode   bool
	Weights          score.Weights
}

// DefaultOptions returns the CLI's default hook-mode settings.
func DefaultOptions() Options {
	w := score.DefaultWeights()
	return Options{TopK: 10, MinRelativeScore: w.MinRelativeScore, Weights: w}
}

// Run executes the full pipeline for one prompt against idx and returns the
// final sorted, filtered, truncated ranking.
func Run(idx *index.Index, rawPrompt, cwd string, opts Options) []rank.Ranked {
	final := ScoreAll(idx, rawPrompt, cwd, opts)
	normalized := score.Normalize(final, opts.Weights)
	ranked := rank.FromScores(normalized, idx.Elements, !opts.IncompleteMode)
	return rank.FilterAndTruncate(ranked, opts.MinRelativeScore, opts.TopK)
}

// ScoreAll runs normalize through aggregate and returns the per-element raw
// scores before relative-score normalization. Exposed separately so the
// agent-profile synthesizer can merge raw scores across multiple
// synthesized prompts by maximum before normalizing once.
func ScoreAll(idx *index.Index, rawPrompt, cwd string, opts Options) map[string]score.ElementScore {
	p := promptin.Normalize(rawPrompt, cwd)
	expanded := expand.Expand(p)

	if ctxKeywords := cwdcontext.Detect(cwd); len(ctxKeywords) > 0 {
		expanded.AddContextTokens(ctxKeywords)
	}

	subTasks := decompose.Decompose(expanded)
	active := domaindetect.Active(expanded.TokenSet, idx.Registry)

	final := map[string]score.ElementScore{}
	for _, name := range idx.Order {
		el := idx.Elements[name]
		derived := idx.Derived[name]

		perSubTask := make([]score.ElementScore, 0, len(subTasks))
		for _, sub := range subTasks {
			report := match.Match(sub, el, derived)
			if !hasAnyEvidence(report) {
				continue
			}
			gr := gate.Evaluate(el, sub.Text, active)
			nameParts := 0
			if !opts.IncompleteMode {
				nameParts = len(el.NameParts())
			}
			es := score.ScoreElement(report, gr, nameParts, opts.Weights)
			perSubTask = append(perSubTask, es)
		}
		if len(perSubTask) == 0 {
			continue
		}
		final[name] = score.AggregateMax(perSubTask)
	}
	return final
}

func hasAnyEvidence(r match.Report) bool {
	return len(r.Evidence) > 0
}
