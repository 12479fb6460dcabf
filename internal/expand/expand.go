// Package expand applies two deterministic, token-appending transforms to a
// normalized prompt in a fixed order: abbreviation substitution, then
// synonym expansion. It tracks which tokens were present verbatim in the
// original prompt versus introduced by expansion. A third transform, light
// morphological stemming, is not applied here: stems are computed and
// compared only at match time (see internal/match), never stored as tokens
// in their own right.
package expand

import (
	"sort"
	"strings"

	"github.com/Emasoft/perfect-skill-suggester/internal/promptin"
)

// Expanded is the prompt after expansion: an enriched token set and text
// blob, plus the set of tokens that were present in the original prompt
// (used by the scorer's original-token bonus).
type Expanded struct {
	promptin.Prompt

	// Text is Prompt.Text with expansion-derived phrases appended. The
	// keyword, intent and pattern matcher signals all search this expanded
	// text (through each sub-task's slice of it).
	Text string

	// Tokens is the deduplicated union of original and expansion tokens, in
	// first-seen order (original tokens first, so downstream tie-breaks
	// that iterate Tokens see original tokens before introduced ones).
	Tokens []string

	// TokenSet is Tokens as a set, for O(1) membership tests (domain
	// detection, gate evaluation).
	TokenSet map[string]struct{}

	// OriginalSet holds exactly the tokens present in the un-expanded
	// prompt. Membership, not insertion order, decides originality: any
	// expanded token that coincides with an original token inherits
	// original status, and stems never remove a token from this set.
	OriginalSet map[string]struct{}
}

// IsOriginal reports whether tok was present in the prompt before expansion.
func (e Expanded) IsOriginal(tok string) bool {
	_, ok := e.OriginalSet[tok]
	return ok
}

// Expand runs the two transforms over p in fixed order: abbreviation
// substitution, then synonym expansion. Each transform only
// appends tokens; it never deletes or reorders p's own tokens, so expansion
// is strictly additive.
func Expand(p promptin.Prompt) Expanded {
	original := make(map[string]struct{}, len(p.Tokens))
	for _, t := range p.Tokens {
		original[t] = struct{}{}
	}

	seen := make(map[string]struct{}, len(p.Tokens)*2)
	tokens := make([]string, 0, len(p.Tokens)*2)
	var extra strings.Builder

	appendToken := func(t string) {
		if t == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	appendPhrase := func(phrase string) {
		extra.WriteByte(' ')
		extra.WriteString(phrase)
		for _, t := range strings.Fields(phrase) {
			appendToken(t)
		}
	}

	for _, t := range p.Tokens {
		appendToken(t)
	}

	for _, t := range p.Tokens {
		if phrases, ok := abbreviations[t]; ok {
			for _, phrase := range phrases {
				appendPhrase(phrase)
			}
		}
	}

	for _, rule := range synonymRules {
		if _, ok := seen[rule.term]; !ok {
			continue
		}
		for _, syn := range rule.synonyms {
			appendPhrase(syn)
		}
	}

	tokenSet := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		tokenSet[t] = struct{}{}
	}

	return Expanded{
		Prompt:      p,
		Text:        strings.TrimSpace(p.Text + extra.String()),
		Tokens:      tokens,
		TokenSet:    tokenSet,
		OriginalSet: original,
	}
}

// AddContextTokens merges ambient, non-prompt-derived keywords (cwd project
// detection) into the expanded text and token set. These are never
// original: the caller typed none of them.
func (e *Expanded) AddContextTokens(tokens []string) {
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := e.TokenSet[t]; ok {
			continue
		}
		e.TokenSet[t] = struct{}{}
		e.Tokens = append(e.Tokens, t)
		e.Text = strings.TrimSpace(e.Text + " " + t)
	}
}

// SortedTokens returns e.Tokens sorted, for callers that need a canonical
// ordering (diagnostics, tests) rather than the first-seen order used by
// scoring's original-token-count bonus.
func SortedTokens(e Expanded) []string {
	out := append([]string(nil), e.Tokens...)
	sort.Strings(out)
	return out
}
