// Package decompose splits a long prompt into sub-tasks that are scored
// independently and later aggregated by the scorer's max-across-sub-tasks
// rule.
package decompose

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Emasoft/perfect-skill-suggester/internal/expand"
)

// SubTask is one independently-scored slice of the decomposed prompt. It
// carries its own token sequence and the parent Expanded's original-token
// set (unchanged — decomposition never reclassifies a token's origin).
type SubTask struct {
	Text        string
	Tokens      []string
	TokenSet    map[string]struct{}
	OriginalSet map[string]struct{}
	PathTokens  []string
	CWD         string
}

// minMeaningfulTokens is the floor below which a candidate sub-task is
// considered too thin to stand alone; falling below it on any candidate
// abandons the whole split.
const minMeaningfulTokens = 2

// numberedMarker and bulletMarker detect list markers anywhere a token
// boundary allows one, rather than requiring a true line start: the prompt
// normalizer collapses all whitespace runs, including newlines, into
// single spaces before this stage ever sees the text, so "line start" is
// approximated by "preceded by start-of-string or whitespace".
var (
	numberedMarker   = regexp.MustCompile(`(^|\s)\d+[.)]\s+`)
	bulletMarker     = regexp.MustCompile(`(^|\s)[-*•]\s+`)
	// The prompt normalizer replaces commas with spaces, so of these
	// alternatives only "and then" can occur in the text this stage sees.
	connectivePhrase = regexp.MustCompile(`\b(and then|then,|also,|plus,)\b`)
	sentenceTerminator = regexp.MustCompile(`[.!?]+\s+`)
)

// imperativeVerbs are the clause-opening verbs that, following a sentence
// terminator, mark the start of an independent sub-task ("Fix the login
// bug. Deploy to staging." splits after "bug."). Lowercase only; the
// check against the following word is case-folded.
var imperativeVerbs = map[string]struct{}{
	"fix": {}, "add": {}, "remove": {}, "delete": {}, "update": {},
	"create": {}, "build": {}, "write": {}, "implement": {}, "refactor": {},
	"test": {}, "debug": {}, "check": {}, "run": {}, "install": {},
	"configure": {}, "set": {}, "setup": {}, "rename": {}, "move": {},
	"optimize": {}, "review": {}, "investigate": {}, "analyze": {},
	"document": {}, "migrate": {}, "merge": {}, "revert": {}, "rollback": {},
	"restart": {}, "deploy": {}, "ship": {}, "clean": {}, "format": {},
	"lint": {}, "verify": {}, "validate": {}, "publish": {}, "release": {},
	"generate": {}, "rewrite": {}, "simplify": {},
}

// Decompose always returns a non-empty slice; if splitting would produce a
// sub-task with fewer than minMeaningfulTokens tokens, it abandons the
// split and returns e as a single sub-task.
func Decompose(e expand.Expanded) []SubTask {
	pieces := splitText(e.Text)
	if len(pieces) <= 1 {
		return []SubTask{wholeSubTask(e)}
	}

	subs := make([]SubTask, 0, len(pieces))
	for _, piece := range pieces {
		tokens := strings.Fields(piece)
		if len(tokens) < minMeaningfulTokens {
			return []SubTask{wholeSubTask(e)}
		}
		subs = append(subs, buildSubTask(piece, tokens, e))
	}
	return subs
}

func wholeSubTask(e expand.Expanded) SubTask {
	return SubTask{
		Text:        e.Text,
		Tokens:      e.Tokens,
		TokenSet:    e.TokenSet,
		OriginalSet: e.OriginalSet,
		PathTokens:  e.PathTokens,
		CWD:         e.CWD,
	}
}

func buildSubTask(text string, tokens []string, e expand.Expanded) SubTask {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return SubTask{
		Text:        text,
		Tokens:      tokens,
		TokenSet:    set,
		OriginalSet: e.OriginalSet,
		PathTokens:  e.PathTokens,
		CWD:         e.CWD,
	}
}

// splitText applies a fixed delimiter priority order: numbered/bullet list
// markers first (line-oriented), then semicolons, then connective phrases,
// then sentence terminators followed by a new imperative clause.
func splitText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{text}
	}

	if numberedMarker.MatchString(text) || bulletMarker.MatchString(text) {
		lines := numberedMarker.Split(text, -1)
		if len(lines) <= 1 {
			lines = bulletMarker.Split(text, -1)
		} else {
			// A numbered split may still contain embedded bullets; run
			// each resulting piece through the bullet splitter too.
			var expanded []string
			for _, l := range lines {
				expanded = append(expanded, bulletMarker.Split(l, -1)...)
			}
			lines = expanded
		}
		return cleanPieces(lines)
	}

	if strings.Contains(text, ";") {
		return cleanPieces(strings.Split(text, ";"))
	}

	if connectivePhrase.MatchString(text) {
		return cleanPieces(connectivePhrase.Split(text, -1))
	}

	if pieces := splitSentenceImperative(text); len(pieces) > 1 {
		return cleanPieces(pieces)
	}

	return []string{text}
}

// splitSentenceImperative splits text at a sentence terminator only when
// the clause immediately following it opens with a recognized imperative
// verb, distinguishing "Fix the bug. Deploy it." (split) from "Fix
// the bug. It crashes often." (no split: "it" is not imperative).
func splitSentenceImperative(text string) []string {
	locs := sentenceTerminator.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []string{text}
	}
	var pieces []string
	last := 0
	for _, loc := range locs {
		word := firstWord(text[loc[1]:])
		if _, ok := imperativeVerbs[strings.ToLower(word)]; !ok {
			continue
		}
		pieces = append(pieces, text[last:loc[0]])
		last = loc[1]
	}
	pieces = append(pieces, text[last:])
	return pieces
}

// firstWord returns the leading run of letters in s, ignoring any leading
// whitespace.
func firstWord(s string) string {
	s = strings.TrimLeft(s, " \t\n\r")
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
	if end < 0 {
		return s
	}
	return s[:end]
}

func cleanPieces(pieces []string) []string {
	out := make([]string, 0, len(pieces))
	for _, p := range pieces {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}
