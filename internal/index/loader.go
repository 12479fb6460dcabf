// Package index parses skill-index.json and domain-registry.json into an
// immutable in-memory structure with the derived lookup tables the rest of
// the pipeline needs.
package index

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/Emasoft/perfect-skill-suggester/internal/element"
)

const supportedSchemaVersion = "3.0"

// Derived holds the per-element structures the matcher needs that aren't
// part of the raw Element record itself.
type Derived struct {
	SingleTokenKeywords []string         // lowercase, fuzzy-eligible
	MultiWordKeywords   []string         // lowercase, substring-only
	Patterns            []*regexp.Regexp // compiled; failed patterns dropped
}

// Index is the immutable, load-once result of a successful load.
type Index struct {
	Elements map[string]element.Element // keyed by NormalizedName
	Order    []string                   // sorted keys, for deterministic iteration
	Derived  map[string]Derived         // keyed by NormalizedName

	// NameSet backs whole-name-in-prompt detection for the whole-name bonus.
	NameSet map[string]struct{}

	Registry Registry

	// Warnings accumulates non-fatal conditions encountered during load
	// (schema mismatch, registry degradation, pattern compile failures).
	Warnings []string
}

// DomainEntry is one canonical gate-name's aggregated keyword set.
type DomainEntry struct {
	Keywords   map[string]struct{}
	HasGeneric bool
}

// Registry is the domain registry: canonical domain name -> aggregated
// keyword set, plus an inverted token->domains lookup built once so
// domain detection runs in O(|tokens|) instead of O(|tokens|x|domains|).
type Registry struct {
	Domains       map[string]DomainEntry
	tokenToDomain map[string][]string
}

// Active returns the set of domains that are active for the given expanded
// prompt token set: those with at least one registered keyword among the
// tokens. A domain with an empty keyword set is never active.
func (r Registry) Active(tokens map[string]struct{}) map[string]struct{} {
	active := map[string]struct{}{}
	for tok := range tokens {
		for _, dom := range r.tokenToDomain[tok] {
			active[dom] = struct{}{}
		}
	}
	return active
}

// NewRegistry builds a Registry from a caller-supplied domain map, for use
// by tests and by embedders that already have domain data in memory rather
// than a domain-registry.json file on disk.
func NewRegistry(domains map[string]DomainEntry) Registry {
	r := Registry{Domains: domains}
	r.buildInverted()
	return r
}

func (r *Registry) buildInverted() {
	r.tokenToDomain = map[string][]string{}
	for domain, entry := range r.Domains {
		for kw := range entry.Keywords {
			r.tokenToDomain[kw] = append(r.tokenToDomain[kw], domain)
		}
	}
}

// Load parses the index and registry files into an Index. A missing or
// unparseable index is fatal (KindIndexUnavailable). A missing or invalid
// registry is not: the loader synthesizes a degraded registry by scanning
// every element's domain_gates (KindRegistryDegraded, logged as a warning,
// load proceeds).
func Load(indexPath, registryPath string) (*Index, error) {
	raw, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, wrapErr(KindIndexUnavailable, fmt.Errorf("read index: %w", err))
	}
	rawIdx, err := parseRawIndex(raw)
	if err != nil {
		return nil, wrapErr(KindIndexUnavailable, fmt.Errorf("parse index: %w", err))
	}

	idx := &Index{
		Elements: make(map[string]element.Element, len(rawIdx.Skills)),
		Derived:  make(map[string]Derived, len(rawIdx.Skills)),
		NameSet:  make(map[string]struct{}, len(rawIdx.Skills)),
	}

	if strings.TrimSpace(rawIdx.Version) != "" && rawIdx.Version != supportedSchemaVersion {
		idx.Warnings = append(idx.Warnings, fmt.Sprintf(
			"schema version %q differs from supported %q; attempting best-effort load",
			rawIdx.Version, supportedSchemaVersion))
	}

	for name, re := range rawIdx.Skills {
		el, derived, warnings := convertElement(name, re, rawIdx.Pass)
		key := el.NormalizedName()
		if key == "" {
			continue
		}
		idx.Elements[key] = el
		idx.Derived[key] = derived
		idx.NameSet[key] = struct{}{}
		idx.Warnings = append(idx.Warnings, warnings...)
	}

	idx.Order = make([]string, 0, len(idx.Elements))
	for k := range idx.Elements {
		idx.Order = append(idx.Order, k)
	}
	sort.Strings(idx.Order)

	registry, regWarnings, err := loadRegistry(registryPath, idx.Elements)
	if err != nil {
		return nil, err
	}
	idx.Registry = registry
	idx.Warnings = append(idx.Warnings, regWarnings...)

	return idx, nil
}

func convertElement(name string, re rawElement, pass int) (element.Element, Derived, []string) {
	var warnings []string

	gates := make(map[string]element.Gate, len(re.DomainGates))
	for gname, kws := range re.DomainGates {
		if len(kws) == 0 {
			continue
		}
		gates[strings.ToLower(strings.TrimSpace(gname))] = element.Gate{
			Name:     gname,
			Keywords: kws,
		}
	}

	co := element.CoUsage{
		UsuallyWith:  re.CoUsage.UsuallyWith,
		Precedes:     re.CoUsage.Precedes,
		Follows:      re.CoUsage.Follows,
		Alternatives: re.CoUsage.Alternatives,
	}
	if pass == 1 {
		// A pass:1 index is valid but carries empty co_usage on every
		// element.
		co = element.CoUsage{}
	}

	cat := element.Category(strings.ToLower(strings.TrimSpace(re.Category)))
	if re.Category != "" && !cat.Valid() {
		warnings = append(warnings, fmt.Sprintf("element %q: unrecognized category %q, treating as absent", name, re.Category))
		cat = ""
	}

	el := element.Element{
		Name:        name,
		Type:        element.Type(strings.ToLower(strings.TrimSpace(re.Type))),
		Source:      element.Source(strings.ToLower(strings.TrimSpace(re.Source))),
		Path:        re.Path,
		Description: re.Description,
		UseCases:    re.UseCases,
		Category:    cat,
		Keywords:    re.Keywords,
		Intents:     re.Intents,
		Patterns:    re.Patterns,
		Directories: re.Directories,
		Platforms:   re.Platforms,
		Frameworks:  re.Frameworks,
		Languages:   re.Languages,
		Tools:       re.Tools,
		FileTypes:   re.FileTypes,
		Domains:     re.Domains,
		DomainGates: gates,
		CoUsage:     co,
		Tier:        element.Tier(strings.ToLower(strings.TrimSpace(re.Tier))),
	}

	derived := Derived{}
	seenSingle := map[string]struct{}{}
	seenMulti := map[string]struct{}{}
	for _, kw := range re.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.ContainsAny(kw, " \t") {
			if _, ok := seenMulti[kw]; !ok {
				seenMulti[kw] = struct{}{}
				derived.MultiWordKeywords = append(derived.MultiWordKeywords, kw)
			}
			continue
		}
		if _, ok := seenSingle[kw]; !ok {
			seenSingle[kw] = struct{}{}
			derived.SingleTokenKeywords = append(derived.SingleTokenKeywords, kw)
		}
	}
	sort.Strings(derived.SingleTokenKeywords)
	sort.Strings(derived.MultiWordKeywords)

	for _, pat := range re.Patterns {
		compiled, err := regexp.Compile("(?i)" + pat)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("element %q: %s: %v", name, KindPatternCompileFail, err))
			continue
		}
		derived.Patterns = append(derived.Patterns, compiled)
	}

	return el, derived, warnings
}

// loadRegistry loads domain-registry.json, or synthesizes a degraded
// registry from every element's domain_gates when registryPath is empty
// or unreadable/unparseable.
func loadRegistry(registryPath string, elements map[string]element.Element) (Registry, []string, error) {
	var warnings []string
	reg := Registry{Domains: map[string]DomainEntry{}}

	if strings.TrimSpace(registryPath) != "" {
		raw, err := os.ReadFile(registryPath)
		if err == nil {
			rawReg, perr := parseRawRegistry(raw)
			if perr == nil {
				for name, entry := range rawReg {
					de := DomainEntry{Keywords: map[string]struct{}{}, HasGeneric: entry.HasGeneric}
					for _, kw := range entry.Keywords {
						kw = strings.ToLower(strings.TrimSpace(kw))
						if kw != "" && kw != "generic" {
							de.Keywords[kw] = struct{}{}
						}
					}
					reg.Domains[strings.ToLower(strings.TrimSpace(name))] = de
				}
				reg.buildInverted()
				return reg, warnings, nil
			}
			warnings = append(warnings, fmt.Sprintf("%s: parse registry: %v", KindRegistryDegraded, perr))
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: read registry: %v", KindRegistryDegraded, err))
		}
	}

	// Synthesize: union of keywords across all elements' domain_gates.
	for _, el := range elements {
		for gname, gate := range el.DomainGates {
			de, ok := reg.Domains[gname]
			if !ok {
				de = DomainEntry{Keywords: map[string]struct{}{}}
			}
			if gate.HasGeneric() {
				de.HasGeneric = true
			}
			for _, kw := range gate.LiteralKeywords() {
				kw = strings.ToLower(strings.TrimSpace(kw))
				if kw != "" {
					de.Keywords[kw] = struct{}{}
				}
			}
			reg.Domains[gname] = de
		}
	}
	reg.buildInverted()
	return reg, warnings, nil
}
