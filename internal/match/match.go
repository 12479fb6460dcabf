// Package match computes, for one (sub-task, element) pair, evidence hits
// across the seven signal classes and reports them for the scorer to
// weigh.
package match

import (
	"strings"

	"github.com/Emasoft/perfect-skill-suggester/internal/decompose"
	"github.com/Emasoft/perfect-skill-suggester/internal/element"
	"github.com/Emasoft/perfect-skill-suggester/internal/index"
)

// Signal tags which evidence class a hit belongs to.
type Signal string

const (
	SignalKeyword     Signal = "keyword"
	SignalIntent      Signal = "intent"
	SignalPattern     Signal = "pattern"
	SignalDirectory   Signal = "directory"
	SignalPath        Signal = "path"
	SignalName        Signal = "name"
	SignalDescription Signal = "description"
	SignalUseCase     Signal = "use_case"
)

// Evidence is one matched item, tagged by signal and provenance.
type Evidence struct {
	Signal       Signal
	Value        string
	Fuzzy        bool
	FromOriginal bool
}

// Report is the per-(sub-task, element) result the scorer consumes.
type Report struct {
	ElementName      string
	Evidence         []Evidence
	FirstKeyword     string
	FuzzyUsed        bool
	AnyFromOriginal  bool
	KeywordHits      int
	DirectoryHits    int
	PathHits         int
	IntentHits       int
	PatternHits      int
	NameHit          bool
	DescriptionHits  int
	UseCaseHits      int
}

// stemMinLen guards against over-eager stemming of short words ("bus" ->
// "bu" would be nonsense); only words at least this long are stemmed, for
// both the description/use-case stemming and the keyword-vs-prompt-token
// stem comparison below.
const stemMinLen = 5

// stemSuffixes is checked in order; the first matching suffix wins. Longer
// suffixes are listed first so "-ied" is preferred over a spurious "-ed"
// match on the same word.
var stemSuffixes = []struct {
	suffix  string
	trimLen int
	add     string
}{
	{"ies", 3, "y"},
	{"ied", 3, "y"},
	{"ing", 3, ""},
	{"ed", 2, ""},
	{"es", 2, ""},
	{"s", 1, ""},
}

// stemOf applies a light, non-aggressive suffix strip. It is intentionally
// simple: the goal is matching "testing" against "test", not a full
// linguistic stemmer. Stems are computed here, at match time, and compared
// directly against each other; they are never stored as prompt tokens.
func stemOf(word string) (string, bool) {
	if len(word) < stemMinLen {
		return "", false
	}
	for _, rule := range stemSuffixes {
		if strings.HasSuffix(word, rule.suffix) {
			base := word[:len(word)-rule.trimLen] + rule.add
			if len(base) < 3 || base == word {
				continue
			}
			return base, true
		}
	}
	return "", false
}

// Match computes the evidence set for one sub-task against one element.
func Match(sub decompose.SubTask, el element.Element, derived index.Derived) Report {
	r := Report{ElementName: el.NormalizedName()}

	matchKeywords(&r, sub, derived)
	matchIntents(&r, sub, el)
	matchPatterns(&r, sub, derived)
	matchDirectories(&r, sub, el)
	matchPath(&r, sub, el)
	matchName(&r, sub, el)
	matchDescriptionAndUseCases(&r, sub, el)

	for _, ev := range r.Evidence {
		if ev.FromOriginal {
			r.AnyFromOriginal = true
			break
		}
	}
	return r
}

func fromOriginal(sub decompose.SubTask, tok string) bool {
	_, ok := sub.OriginalSet[tok]
	return ok
}

func matchKeywords(r *Report, sub decompose.SubTask, derived index.Derived) {
	first := true
	takeFirst := func(kw string) {
		if first {
			r.FirstKeyword = kw
			first = false
		}
	}

	for _, kw := range derived.MultiWordKeywords {
		if strings.Contains(sub.Text, kw) {
			r.KeywordHits++
			takeFirst(kw)
			r.Evidence = append(r.Evidence, Evidence{Signal: SignalKeyword, Value: kw, FromOriginal: phraseFromOriginal(sub, kw)})
		}
	}

	for _, kw := range derived.SingleTokenKeywords {
		if strings.Contains(sub.Text, kw) {
			r.KeywordHits++
			takeFirst(kw)
			r.Evidence = append(r.Evidence, Evidence{Signal: SignalKeyword, Value: kw, FromOriginal: fromOriginal(sub, kw)})
			continue
		}
		kwStem, kwStemOK := stemOf(kw)
		for _, tok := range sub.Tokens {
			if isFuzzyHit(tok, kw) {
				r.KeywordHits++
				r.FuzzyUsed = true
				takeFirst(kw)
				r.Evidence = append(r.Evidence, Evidence{Signal: SignalKeyword, Value: kw, Fuzzy: true, FromOriginal: fromOriginal(sub, tok)})
				break
			}
			if kwStemOK {
				if tokStem, ok := stemOf(tok); ok && tokStem == kwStem {
					r.KeywordHits++
					takeFirst(kw)
					r.Evidence = append(r.Evidence, Evidence{Signal: SignalKeyword, Value: kw, FromOriginal: fromOriginal(sub, tok)})
					break
				}
			}
		}
	}
}

func phraseFromOriginal(sub decompose.SubTask, phrase string) bool {
	for _, tok := range strings.Fields(phrase) {
		if !fromOriginal(sub, tok) {
			return false
		}
	}
	return true
}

func matchIntents(r *Report, sub decompose.SubTask, el element.Element) {
	for _, intent := range el.Intents {
		intent = strings.ToLower(strings.TrimSpace(intent))
		if intent == "" {
			continue
		}
		if strings.Contains(sub.Text, intent) {
			r.IntentHits++
			r.Evidence = append(r.Evidence, Evidence{Signal: SignalIntent, Value: intent, FromOriginal: phraseFromOriginal(sub, intent)})
		}
	}
}

func matchPatterns(r *Report, sub decompose.SubTask, derived index.Derived) {
	// Patterns are searched against the sub-task's text, which includes
	// expansion-derived phrases. SubTask carries no raw, un-expanded text,
	// so a pattern can also match words that only expansion introduced.
	for _, pat := range derived.Patterns {
		if pat.MatchString(sub.Text) {
			r.PatternHits++
			r.Evidence = append(r.Evidence, Evidence{Signal: SignalPattern, Value: pat.String()})
		}
	}
}

func matchDirectories(r *Report, sub decompose.SubTask, el element.Element) {
	haystacks := make([]string, 0, len(sub.PathTokens)+1)
	haystacks = append(haystacks, sub.CWD)
	haystacks = append(haystacks, sub.PathTokens...)

	for _, dir := range el.Directories {
		dir = strings.ToLower(strings.TrimSpace(dir))
		if dir == "" {
			continue
		}
		for _, h := range haystacks {
			if h == "" {
				continue
			}
			if pathContainsSegment(strings.ToLower(h), dir) {
				r.DirectoryHits++
				r.Evidence = append(r.Evidence, Evidence{Signal: SignalDirectory, Value: dir, FromOriginal: true})
				break
			}
		}
	}
}

func pathContainsSegment(path, segment string) bool {
	segment = strings.Trim(segment, "/\\")
	if segment == "" {
		return false
	}
	normalized := strings.ReplaceAll(path, "\\", "/")
	for _, part := range strings.Split(normalized, "/") {
		if part == segment {
			return true
		}
	}
	return strings.Contains(normalized, segment)
}

func matchPath(r *Report, sub decompose.SubTask, el element.Element) {
	elPath := strings.ToLower(strings.TrimSpace(el.Path))
	if elPath == "" {
		return
	}
	segments := strings.Split(strings.Trim(strings.ReplaceAll(elPath, "\\", "/"), "/"), "/")
	for _, pt := range sub.PathTokens {
		pt = strings.ToLower(pt)
		if strings.HasPrefix(pt, elPath) || strings.Contains(elPath, pt) {
			r.PathHits++
			r.Evidence = append(r.Evidence, Evidence{Signal: SignalPath, Value: pt, FromOriginal: true})
			continue
		}
		for _, seg := range segments {
			if seg != "" && strings.Contains(pt, seg) {
				r.PathHits++
				r.Evidence = append(r.Evidence, Evidence{Signal: SignalPath, Value: pt, FromOriginal: true})
				break
			}
		}
	}
}

func matchName(r *Report, sub decompose.SubTask, el element.Element) {
	name := el.NormalizedName()
	if name == "" {
		return
	}
	flexName := strings.NewReplacer("-", " ", "_", " ").Replace(name)
	flexText := strings.NewReplacer("-", " ", "_", " ").Replace(sub.Text)
	if strings.Contains(sub.Text, name) || strings.Contains(flexText, flexName) {
		r.NameHit = true
		r.Evidence = append(r.Evidence, Evidence{Signal: SignalName, Value: name, FromOriginal: true})
	}
}

func matchDescriptionAndUseCases(r *Report, sub decompose.SubTask, el element.Element) {
	promptStems := stemSet(sub.Tokens)

	if el.Description != "" {
		descStems := stemSet(strings.Fields(strings.ToLower(el.Description)))
		for stem := range descStems {
			if _, ok := promptStems[stem]; ok {
				r.DescriptionHits++
				r.Evidence = append(r.Evidence, Evidence{Signal: SignalDescription, Value: stem})
			}
		}
	}

	for _, uc := range el.UseCases {
		ucStems := stemSet(strings.Fields(strings.ToLower(uc)))
		hit := false
		for stem := range ucStems {
			if _, ok := promptStems[stem]; ok {
				hit = true
				break
			}
		}
		if hit {
			r.UseCaseHits++
			r.Evidence = append(r.Evidence, Evidence{Signal: SignalUseCase, Value: uc})
		}
	}
}

func stemSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		t = strings.Trim(t, ".,!?;:")
		if t == "" {
			continue
		}
		if stem, ok := stemOf(t); ok {
			set[stem] = struct{}{}
			continue
		}
		set[t] = struct{}{}
	}
	return set
}
