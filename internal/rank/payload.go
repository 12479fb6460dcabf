package rank

import (
	"github.com/Emasoft/perfect-skill-suggester/internal/element"
	"github.com/Emasoft/perfect-skill-suggester/internal/match"
)

// HookEntry is one element in hook-mode output.
type HookEntry struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Path            string   `json:"path"`
	Score           float64  `json:"score"`
	Confidence      string   `json:"confidence"`
	KeywordsMatched []string `json:"keywords_matched"`
	Commitment      string   `json:"commitment,omitempty"`
}

// HookPayload is the top-level hook-mode envelope.
type HookPayload struct {
	HookSpecificOutput HookSpecificOutput `json:"hookSpecificOutput"`
}

type HookSpecificOutput struct {
	HookEventName     string      `json:"hookEventName"`
	AdditionalContext []HookEntry `json:"additionalContext"`
}

// BuildHookPayload builds the hook shape: skills and agents only, as a flat list.
func BuildHookPayload(ranked []Ranked) HookPayload {
	entries := make([]HookEntry, 0, len(ranked))
	for _, r := range ranked {
		if r.Element.Type != element.TypeSkill && r.Element.Type != element.TypeAgent {
			continue
		}
		entries = append(entries, toHookEntry(r))
	}
	return HookPayload{HookSpecificOutput: HookSpecificOutput{
		HookEventName:     "UserPromptSubmit",
		AdditionalContext: entries,
	}}
}

func toHookEntry(r Ranked) HookEntry {
	return HookEntry{
		Name:            r.Element.Name,
		Type:            string(r.Element.Type),
		Path:            r.Element.Path,
		Score:           r.Score.RelativeScore,
		Confidence:      string(r.Confidence),
		KeywordsMatched: matchedKeywords(r.Score.Evidence),
		Commitment:      r.Commitment,
	}
}

func matchedKeywords(evidence []match.Evidence) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(evidence))
	for _, ev := range evidence {
		if ev.Signal != match.SignalKeyword {
			continue
		}
		if _, ok := seen[ev.Value]; ok {
			continue
		}
		seen[ev.Value] = struct{}{}
		out = append(out, ev.Value)
	}
	return out
}

// BuildJSONPayload builds the json mode shape: a flat, type-agnostic ranked list.
func BuildJSONPayload(ranked []Ranked) []HookEntry {
	entries := make([]HookEntry, 0, len(ranked))
	for _, r := range ranked {
		entries = append(entries, toHookEntry(r))
	}
	return entries
}

// GroupedPayload is the agent-profile output shape: all types, grouped
// under fixed keys, with skills further tiered.
type GroupedPayload struct {
	Skills               TieredSkills `json:"skills"`
	ComplementaryAgents  []HookEntry  `json:"complementary_agents"`
	Commands             []HookEntry  `json:"commands"`
	Rules                []HookEntry  `json:"rules"`
	MCP                  []HookEntry  `json:"mcp"`
	LSP                  []HookEntry  `json:"lsp"`
}

// TieredSkills partitions skill results by tier, each independently
// top-K'd (primary <= 7, secondary <= 12, specialized <= 8).
type TieredSkills struct {
	Primary     []HookEntry `json:"primary"`
	Secondary   []HookEntry `json:"secondary"`
	Specialized []HookEntry `json:"specialized"`
}

const (
	primaryCap     = 7
	secondaryCap   = 12
	specializedCap = 8
)

// BuildGroupedPayload builds the agent-profile grouped shape. lsp is
// supplied by the caller separately: the engine does not attempt to score
// LSP entries through the general pipeline, so ranked should not contain
// LSP elements.
func BuildGroupedPayload(ranked []Ranked, lsp []HookEntry) GroupedPayload {
	g := GroupedPayload{LSP: lsp}
	for _, r := range ranked {
		entry := toHookEntry(r)
		switch r.Element.Type {
		case element.TypeSkill:
			switch r.Element.Tier {
			case element.TierPrimary:
				if len(g.Skills.Primary) < primaryCap {
					g.Skills.Primary = append(g.Skills.Primary, entry)
				}
			case element.TierSecondary:
				if len(g.Skills.Secondary) < secondaryCap {
					g.Skills.Secondary = append(g.Skills.Secondary, entry)
				}
			default:
				if len(g.Skills.Specialized) < specializedCap {
					g.Skills.Specialized = append(g.Skills.Specialized, entry)
				}
			}
		case element.TypeAgent:
			g.ComplementaryAgents = append(g.ComplementaryAgents, entry)
		case element.TypeCommand:
			g.Commands = append(g.Commands, entry)
		case element.TypeRule:
			g.Rules = append(g.Rules, entry)
		case element.TypeMCP:
			g.MCP = append(g.MCP, entry)
		}
	}
	return g
}
