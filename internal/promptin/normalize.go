// Package promptin turns raw hook input into the deterministic Prompt
// value every later pipeline stage operates on.
package promptin

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// Prompt is the normalized request: raw text, normalized text, an ordered
// token sequence, extracted path-like tokens, and optional cwd.
type Prompt struct {
	Raw        string
	Text       string // lowercased, whitespace-collapsed, punctuation-stripped
	Tokens     []string
	PathTokens []string
	CWD        string
	Hash       string // sha256 hex of Raw, logging only, never used in scoring
}

// recognizedExtensions backs path-like token detection: a token containing
// a dot followed by one of these is treated as path-like even without a
// slash (e.g. "main.go").
var recognizedExtensions = map[string]struct{}{
	".go": {}, ".rs": {}, ".py": {}, ".js": {}, ".ts": {}, ".tsx": {}, ".jsx": {},
	".swift": {}, ".kt": {}, ".java": {}, ".rb": {}, ".ex": {}, ".exs": {},
	".c": {}, ".h": {}, ".cpp": {}, ".cxx": {}, ".cc": {}, ".hpp": {}, ".hxx": {},
	".cs": {}, ".m": {}, ".mm": {}, ".md": {}, ".yaml": {}, ".yml": {}, ".json": {},
	".toml": {}, ".sh": {}, ".sql": {}, ".html": {}, ".css": {}, ".proto": {},
}

// Normalize is deterministic and allocates O(|raw|).
func Normalize(raw, cwd string) Prompt {
	sum := sha256.Sum256([]byte(raw))

	lowered := strings.ToLower(raw)
	collapsed := collapseWhitespace(lowered)
	text := stripPunctuationKeepHyphens(collapsed)

	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	pathTokens := make([]string, 0, 2)
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:)*•")
		if f == "" {
			continue
		}
		tokens = append(tokens, f)
		if isPathLike(f) {
			pathTokens = append(pathTokens, f)
		}
	}

	return Prompt{
		Raw:        raw,
		Text:       text,
		Tokens:     tokens,
		PathTokens: pathTokens,
		CWD:        strings.TrimSpace(cwd),
		Hash:       hex.EncodeToString(sum[:]),
	}
}

func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastWasSpace := false
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f' {
			if !lastWasSpace {
				b.WriteByte(' ')
			}
			lastWasSpace = true
			continue
		}
		b.WriteRune(r)
		lastWasSpace = false
	}
	return strings.TrimSpace(b.String())
}

// stripPunctuationKeepHyphens removes punctuation but keeps hyphens (so
// "github-pr" and "use-when" survive as single tokens), path separators (so
// path-like tokens remain intact for isPathLike), and the delimiters the
// Task Decomposer splits on (';', ')' for numbered markers, '•' bullets,
// '.', '!', '?' as sentence terminators) so that stage survives
// normalization intact.
func stripPunctuationKeepHyphens(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '/' || r == '\\' || r == '.' || r == ' ':
			b.WriteRune(r)
		case r == ';' || r == ')' || r == '•' || r == '*' || r == '!' || r == '?':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func isPathLike(token string) bool {
	if strings.ContainsAny(token, "/\\") {
		return true
	}
	ext := filepath.Ext(token)
	if ext == "" {
		return false
	}
	_, ok := recognizedExtensions[ext]
	return ok
}
