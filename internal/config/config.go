// Package config loads and validates the build configuration from spec
// §6.3: a JSON file overriding a fixed set of keys, each with a documented
// default.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reactagentic/compiler/internal/diag"
)

// Config is the resolved build configuration. Every field is always
// populated (defaults applied), so downstream packages never branch on a
// zero value meaning "unset".
type Config struct {
	OutputDir  string `json:"outputDir"`
	RuntimeDir string `json:"runtimeDir"`
	Minify     bool   `json:"minify"`
	CodeSplit  bool   `json:"codeSplit"`
	AgentsDir  string `json:"agentsDir"`
}

func Default() Config {
	return Config{
		OutputDir:  ".claude/commands",
		RuntimeDir: ".claude/runtime",
		Minify:     false,
		CodeSplit:  false,
		AgentsDir:  "~/.claude/agents/",
	}
}

// Load reads a JSON config file at path (if non-empty) over the defaults,
// expands `~` in AgentsDir, and runs the §6.3 structural validation. An
// empty path returns the defaults unchanged — a config file is optional.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, &diag.Error{Kind: diag.ConfigError, Message: fmt.Sprintf("reading config %q: %v", path, err)}
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, &diag.Error{Kind: diag.ConfigError, Message: fmt.Sprintf("parsing config %q: %v", path, err)}
		}
	}
	cfg.AgentsDir = expandHome(cfg.AgentsDir)
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	out := filepath.Clean(c.OutputDir)
	runtime := filepath.Clean(c.RuntimeDir)
	if out == runtime {
		return &diag.Error{Kind: diag.ConfigError, Message: "outputDir and runtimeDir must not be equal"}
	}
	if nests(out, runtime) || nests(runtime, out) {
		return &diag.Error{Kind: diag.ConfigError, Message: "outputDir and runtimeDir must not nest inside each other"}
	}
	return nil
}

func nests(outer, inner string) bool {
	rel, err := filepath.Rel(outer, inner)
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..")
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
