// Command skillrank is the CLI entry point for the skill-activation engine.
// It reads a prompt (or agent-profile descriptor) from stdin or a file,
// runs it through the engine, and writes a JSON payload to stdout whose
// shape depends on --format.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/Emasoft/perfect-skill-suggester/internal/activationlog"
	"github.com/Emasoft/perfect-skill-suggester/internal/config"
	"github.com/Emasoft/perfect-skill-suggester/internal/engine"
	"github.com/Emasoft/perfect-skill-suggester/internal/index"
	"github.com/Emasoft/perfect-skill-suggester/internal/profile"
	"github.com/Emasoft/perfect-skill-suggester/internal/rank"
)

func init() {
	log.SetFlags(0)
	log.SetPrefix("[skillrank] ")
}

type flags struct {
	format         string
	top            int
	incompleteMode bool
	agentProfile   string
	loadIndex      string
	loadRegistry   string
	minScore       float64
	configPath     string
}

func parseFlags(args []string) flags {
	fs := flag.NewFlagSet("skillrank", flag.ExitOnError)
	var f flags
	fs.StringVar(&f.format, "format", "hook", "output shape: hook or json")
	fs.IntVar(&f.top, "top", 0, "max results to return (0 = mode default)")
	fs.BoolVar(&f.incompleteMode, "incomplete-mode", false, "skip tier boosts and explicit boost values")
	fs.StringVar(&f.agentProfile, "agent-profile", "", "path to an agent descriptor JSON file; switches to profile mode")
	fs.StringVar(&f.loadIndex, "load-index", "", "override the configured skill-index.json path")
	fs.StringVar(&f.loadRegistry, "load-registry", "", "override the configured domain-registry.json path")
	fs.Float64Var(&f.minScore, "min-score", -1, "override the minimum relative score filter (0..1)")
	fs.StringVar(&f.configPath, "config", "", "path to an optional YAML config file")
	_ = fs.Parse(args)
	return f
}

// hookInput mirrors the stdin JSON for hook mode. Unknown fields
// (context_platforms, transcriptPath, and the like) are ignored by
// encoding/json's default decode behavior.
type hookInput struct {
	Prompt string `json:"prompt"`
	CWD    string `json:"cwd"`
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("recovered panic: %v", r)
			emitEmptyHookPayload(stdout)
		}
	}()

	f := parseFlags(args)

	cfg, err := config.Load(f.configPath)
	if err != nil {
		log.Printf("config load failed, using defaults: %v", err)
		cfg, _ = config.Load("")
	}

	indexPath := cfg.IndexPath
	if f.loadIndex != "" {
		indexPath = f.loadIndex
	}
	registryPath := cfg.RegistryPath
	if f.loadRegistry != "" {
		registryPath = f.loadRegistry
	}

	idx, err := index.Load(indexPath, registryPath)
	if err != nil {
		log.Printf("index unavailable: %v", err)
		emitEmptyHookPayload(stdout)
		return fmt.Errorf("index unavailable: %w", err)
	}
	for _, w := range idx.Warnings {
		log.Printf("warning: %s", w)
	}

	opts := engine.Options{
		TopK:             resolveTopK(f, cfg),
		MinRelativeScore: resolveMinScore(f, cfg),
		IncompleteMode:   f.incompleteMode || cfg.IncompleteMode,
		Weights:          cfg.Weights,
	}

	alog, err := activationlog.Open(cfg.ActivationLog)
	if err != nil {
		log.Printf("activation log disabled: %v", err)
	}
	defer alog.Close()

	if f.agentProfile != "" {
		return runProfile(idx, f, opts, alog, stdout)
	}
	return runHookOrJSON(idx, f, opts, alog, stdin, stdout)
}

func resolveTopK(f flags, cfg config.Config) int {
	if f.top > 0 {
		return f.top
	}
	return cfg.TopK
}

func resolveMinScore(f flags, cfg config.Config) float64 {
	if f.minScore >= 0 {
		return f.minScore
	}
	return cfg.MinScore
}

func runHookOrJSON(idx *index.Index, f flags, opts engine.Options, alog *activationlog.Log, stdin io.Reader, stdout io.Writer) error {
	raw, err := io.ReadAll(stdin)
	if err != nil {
		emitEmptyHookPayload(stdout)
		return fmt.Errorf("prompt malformed: read stdin: %w", err)
	}

	var in hookInput
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &in); err != nil {
			emitEmptyHookPayload(stdout)
			return fmt.Errorf("prompt malformed: %w", err)
		}
	}

	ranked := engine.Run(idx, in.Prompt, in.CWD, opts)
	logActivation(alog, in.Prompt, f.format, ranked)

	switch f.format {
	case "json":
		return writeJSON(stdout, rank.BuildJSONPayload(ranked))
	default:
		return writeJSON(stdout, rank.BuildHookPayload(ranked))
	}
}

func runProfile(idx *index.Index, f flags, opts engine.Options, alog *activationlog.Log, stdout io.Writer) error {
	raw, err := os.ReadFile(f.agentProfile)
	if err != nil {
		emitEmptyHookPayload(stdout)
		return fmt.Errorf("prompt malformed: read agent-profile: %w", err)
	}
	var desc profile.Descriptor
	if err := json.Unmarshal(raw, &desc); err != nil {
		emitEmptyHookPayload(stdout)
		return fmt.Errorf("prompt malformed: %w", err)
	}

	ranked := profile.Run(idx, desc, opts)
	logActivation(alog, desc.Name, "agent-profile", ranked)

	grouped := rank.BuildGroupedPayload(ranked, nil)
	return writeJSON(stdout, grouped)
}

func logActivation(alog *activationlog.Log, prompt, mode string, ranked []rank.Ranked) {
	if alog == nil {
		return
	}
	top := make([]string, 0, len(ranked))
	for _, r := range ranked {
		top = append(top, r.Element.Name)
	}
	sum := sha256.Sum256([]byte(prompt))
	entry := activationlog.Entry{
		Timestamp:   time.Now(),
		PromptHash:  hex.EncodeToString(sum[:]),
		Mode:        mode,
		TopElements: top,
	}
	if err := alog.Append(entry); err != nil {
		log.Printf("activation log append failed: %v", err)
	}
}

func emitEmptyHookPayload(w io.Writer) {
	_ = writeJSON(w, rank.BuildHookPayload(nil))
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	return enc.Encode(v)
}
