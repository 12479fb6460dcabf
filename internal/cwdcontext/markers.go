// Package cwdcontext detects a project's language/platform from marker
// files present in its working directory. The resulting keywords are
// injected into the prompt as expansion-flagged tokens so a generic prompt
// ("fix the failing test") still carries keyword/gate signal in a
// Cargo.toml or go.mod tree.
package cwdcontext

import (
	"os"
	"path/filepath"
)

// markers maps a file or directory name present at cwd's top level to the
// context keywords it implies.
var markers = []struct {
	file     string
	keywords []string
}{
	{"Cargo.toml", []string{"rust", "cargo", "crate"}},
	{"Cargo.lock", []string{"rust", "cargo"}},
	{"package.json", []string{"javascript", "typescript", "node", "npm"}},
	{"tsconfig.json", []string{"typescript", "ts"}},
	{"pyproject.toml", []string{"python", "pip", "uv"}},
	{"setup.py", []string{"python", "pip"}},
	{"requirements.txt", []string{"python", "pip"}},
	{"go.mod", []string{"go", "golang"}},
	{"go.sum", []string{"go", "golang"}},
	{"Package.swift", []string{"swift", "ios", "macos", "xcode"}},
	{"Podfile", []string{"ios", "swift", "xcode", "cocoapods"}},
	{"build.gradle", []string{"android", "kotlin", "gradle"}},
	{"build.gradle.kts", []string{"android", "kotlin", "gradle"}},
	{"CMakeLists.txt", []string{"c++", "cpp", "cmake"}},
	{"Makefile", []string{"make", "build"}},
	{"Gemfile", []string{"ruby", "rails", "gem"}},
	{"mix.exs", []string{"elixir", "phoenix"}},
	{"pubspec.yaml", []string{"flutter", "dart"}},
	{"meson.build", []string{"c++", "cpp", "c", "meson"}},
	{"configure.ac", []string{"c", "autoconf", "autotools"}},
	{"conanfile.txt", []string{"c++", "cpp", "conan"}},
	{"conanfile.py", []string{"c++", "cpp", "conan"}},
	{"vcpkg.json", []string{"c++", "cpp", "vcpkg"}},
}

// extensionKeywords backs a weaker fallback signal: when no marker file is
// present, a handful of files with a recognized extension in the top-level
// directory still imply a language. A slice, not a map, so the fallback
// walk below stays in a fixed order regardless of map iteration order.
var extensionKeywords = []struct {
	ext      string
	keywords []string
}{
	{".rs", []string{"rust"}},
	{".py", []string{"python"}},
	{".js", []string{"javascript"}},
	{".ts", []string{"typescript"}},
	{".tsx", []string{"typescript", "react"}},
	{".jsx", []string{"javascript", "react"}},
	{".swift", []string{"swift", "ios", "macos"}},
	{".kt", []string{"kotlin", "android"}},
	{".go", []string{"go", "golang"}},
	{".rb", []string{"ruby"}},
	{".ex", []string{"elixir"}},
	{".exs", []string{"elixir"}},
	{".cs", []string{"c#", "csharp", "dotnet"}},
}

// Detect inspects the top level of cwd for marker files and returns the
// deduplicated union of implied keywords, in table order. An empty or
// unreadable cwd yields no keywords (never an error — this is a soft
// enrichment signal, not a required input).
func Detect(cwd string) []string {
	cwd = filepath_clean(cwd)
	if cwd == "" {
		return nil
	}
	entries, err := os.ReadDir(cwd)
	if err != nil {
		return nil
	}
	present := make(map[string]struct{}, len(entries))
	extSeen := make(map[string]struct{})
	for _, e := range entries {
		present[e.Name()] = struct{}{}
		if !e.IsDir() {
			if ext := filepath.Ext(e.Name()); ext != "" {
				extSeen[ext] = struct{}{}
			}
		}
	}

	seen := map[string]struct{}{}
	out := make([]string, 0, 4)
	add := func(kws []string) {
		for _, k := range kws {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}

	matchedMarker := false
	for _, m := range markers {
		if _, ok := present[m.file]; ok {
			add(m.keywords)
			matchedMarker = true
		}
	}
	if matchedMarker {
		return out
	}

	for _, e := range extensionKeywords {
		if _, ok := extSeen[e.ext]; ok {
			add(e.keywords)
		}
	}
	return out
}

func filepath_clean(p string) string {
	if p == "" {
		return ""
	}
	return filepath.Clean(p)
}
