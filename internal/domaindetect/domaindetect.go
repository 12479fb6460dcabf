// Package domaindetect reports which canonical domains are active for a
// given expanded prompt against the loaded domain registry, used downstream
// by the Gate Filter to evaluate wildcard ("generic") gates.
package domaindetect

import "github.com/Emasoft/perfect-skill-suggester/internal/index"

// Active reports the set of canonical domain names for which the token set
// contains at least one of that domain's registered keywords. A domain
// backed by an empty keyword set is never active, matching Registry.Active.
func Active(tokens map[string]struct{}, registry index.Registry) map[string]struct{} {
	return registry.Active(tokens)
}
