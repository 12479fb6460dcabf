// Package gate evaluates a gated element's domain_gates against the
// expanded prompt and the set of active domains, producing a soft penalty
// rather than a hard discard.
package gate

import (
	"strings"

	"github.com/Emasoft/perfect-skill-suggester/internal/element"
)

// Result reports the outcome of evaluating all of an element's gates.
type Result struct {
	Passed      bool
	FailedGates []string
}

// Evaluate reports whether every one of an element's gates passes: a gate
// passes iff at least one of its keywords is lexically present in the
// expanded prompt text, or it carries the wildcard and its canonical domain
// is active.
func Evaluate(el element.Element, promptText string, activeDomains map[string]struct{}) Result {
	if !el.IsGated() {
		return Result{Passed: true}
	}

	res := Result{Passed: true}
	for gname, g := range el.DomainGates {
		if gatePasses(g, promptText, gname, activeDomains) {
			continue
		}
		res.Passed = false
		res.FailedGates = append(res.FailedGates, gname)
	}
	return res
}

func gatePasses(g element.Gate, promptText string, domainName string, activeDomains map[string]struct{}) bool {
	for _, kw := range g.LiteralKeywords() {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(promptText, kw) {
			return true
		}
	}
	if g.HasGeneric() {
		if _, active := activeDomains[strings.ToLower(strings.TrimSpace(domainName))]; active {
			return true
		}
	}
	return false
}
