package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Emasoft/perfect-skill-suggester/internal/config"
)

func loadDefaultConfig(t *testing.T) (config.Config, error) {
	t.Helper()
	return config.Load("")
}

const testIndex = `{
  "version": "3.0",
  "pass": 2,
  "skills": {
    "docker-expert": {
      "type": "skill",
      "source": "user",
      "path": "docker-expert.md",
      "description": "manage containers and orchestration",
      "category": "deployment-infra",
      "keywords": ["docker", "kubernetes"],
      "tier": "primary"
    }
  }
}`

func writeTestIndex(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "skill-index.json")
	if err := os.WriteFile(path, []byte(testIndex), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}
	return path
}

func TestRunHookModeEndToEnd(t *testing.T) {
	idxPath := writeTestIndex(t)
	stdin := strings.NewReader(`{"prompt": "help me with docker containers", "cwd": ""}`)
	var stdout bytes.Buffer

	err := run([]string{"--load-index", idxPath}, stdin, &stdout)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var payload struct {
		HookSpecificOutput struct {
			AdditionalContext []struct {
				Name string `json:"name"`
			} `json:"additionalContext"`
		} `json:"hookSpecificOutput"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal stdout: %v, raw=%s", err, stdout.String())
	}
	if len(payload.HookSpecificOutput.AdditionalContext) != 1 {
		t.Fatalf("expected 1 ranked entry, got %+v", payload.HookSpecificOutput.AdditionalContext)
	}
	if payload.HookSpecificOutput.AdditionalContext[0].Name != "docker-expert" {
		t.Fatalf("expected docker-expert to rank, got %+v", payload.HookSpecificOutput.AdditionalContext)
	}
}

func TestRunJSONModeEndToEnd(t *testing.T) {
	idxPath := writeTestIndex(t)
	stdin := strings.NewReader(`{"prompt": "docker containers"}`)
	var stdout bytes.Buffer

	err := run([]string{"--load-index", idxPath, "--format", "json"}, stdin, &stdout)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var entries []map[string]interface{}
	if err := json.Unmarshal(stdout.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal stdout: %v, raw=%s", err, stdout.String())
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry in flat json payload, got %d", len(entries))
	}
}

func TestRunMissingIndexEmitsEmptyPayloadAndErrors(t *testing.T) {
	stdin := strings.NewReader(`{"prompt": "anything"}`)
	var stdout bytes.Buffer

	missing := filepath.Join(t.TempDir(), "does-not-exist.json")
	err := run([]string{"--load-index", missing}, stdin, &stdout)
	if err == nil {
		t.Fatalf("expected an error for a missing index")
	}
	var payload struct {
		HookSpecificOutput struct {
			AdditionalContext []interface{} `json:"additionalContext"`
		} `json:"hookSpecificOutput"`
	}
	if uErr := json.Unmarshal(stdout.Bytes(), &payload); uErr != nil {
		t.Fatalf("expected a well-formed empty payload on stdout despite the fatal error, got parse error %v, raw=%s", uErr, stdout.String())
	}
	if len(payload.HookSpecificOutput.AdditionalContext) != 0 {
		t.Fatalf("expected an empty additionalContext list, got %+v", payload.HookSpecificOutput.AdditionalContext)
	}
}

func TestRunMalformedPromptJSONErrorsWithEmptyPayload(t *testing.T) {
	idxPath := writeTestIndex(t)
	stdin := strings.NewReader(`{not valid json`)
	var stdout bytes.Buffer

	err := run([]string{"--load-index", idxPath}, stdin, &stdout)
	if err == nil {
		t.Fatalf("expected an error for malformed stdin json")
	}
	if !strings.Contains(err.Error(), "prompt malformed") {
		t.Fatalf("expected a prompt-malformed error, got %v", err)
	}
}

func TestRunAgentProfileModeEndToEnd(t *testing.T) {
	idxPath := writeTestIndex(t)
	dir := t.TempDir()
	descPath := filepath.Join(dir, "descriptor.json")
	desc := `{"name": "container ops", "description": "docker kubernetes deployment", "cwd": ""}`
	if err := os.WriteFile(descPath, []byte(desc), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}

	var stdout bytes.Buffer
	err := run([]string{"--load-index", idxPath, "--agent-profile", descPath}, strings.NewReader(""), &stdout)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	var grouped struct {
		Skills struct {
			Primary []map[string]interface{} `json:"primary"`
		} `json:"skills"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &grouped); err != nil {
		t.Fatalf("unmarshal stdout: %v, raw=%s", err, stdout.String())
	}
	if len(grouped.Skills.Primary) != 1 {
		t.Fatalf("expected docker-expert to land in the primary tier, got %+v", grouped.Skills.Primary)
	}
}

func TestResolveTopKPrefersFlagOverConfig(t *testing.T) {
	cfg, err := loadDefaultConfig(t)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.TopK = 10
	if got := resolveTopK(flags{top: 5}, cfg); got != 5 {
		t.Fatalf("expected flag value 5 to win, got %d", got)
	}
	if got := resolveTopK(flags{top: 0}, cfg); got != 10 {
		t.Fatalf("expected config value 10 when flag unset, got %d", got)
	}
}

func TestResolveMinScorePrefersFlagOverConfig(t *testing.T) {
	cfg, err := loadDefaultConfig(t)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.MinScore = 0.3
	if got := resolveMinScore(flags{minScore: 0.7}, cfg); got != 0.7 {
		t.Fatalf("expected flag value 0.7 to win, got %v", got)
	}
	if got := resolveMinScore(flags{minScore: -1}, cfg); got != 0.3 {
		t.Fatalf("expected config value 0.3 when flag unset (-1 sentinel), got %v", got)
	}
}
