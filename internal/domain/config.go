package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/camelcase"
)

// Probe names in their fixed run order.
const (
	ProbeSystem  = "system"
	ProbePython  = "python"
	ProbeNode    = "node"
	ProbeNPM     = "npm"
	ProbePip     = "pip"
	ProbeGPU     = "gpu"
	ProbeEnvFile = "env_file"
)

// ProbeOrder enumerates every probe in the order they run.
var ProbeOrder = []string{
	ProbeSystem, ProbePython, ProbeNode, ProbeNPM, ProbePip, ProbeGPU, ProbeEnvFile,
}

const (
	DefaultEnvFile        = ".env"
	DefaultReportPath     = "data/env_report.txt"
	DefaultHistoryPath    = "data/history.json"
	DefaultCommandTimeout = 5 * time.Second
)

// Config holds the settings loaded from .heartlink.yaml.
type Config struct {
	EnvFile         string        `yaml:"env_file"          json:"env_file"`
	RequiredEnvKeys []string      `yaml:"required_env_keys" json:"required_env_keys"`
	ReportPath      string        `yaml:"report_path"       json:"report_path"`
	HistoryPath     string        `yaml:"history_path"      json:"history_path"`
	CommandTimeout  time.Duration `yaml:"command_timeout"   json:"command_timeout"`
	Python          []string      `yaml:"python"            json:"python"`
	Skip            []string      `yaml:"skip"              json:"skip,omitempty"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		EnvFile:         DefaultEnvFile,
		RequiredEnvKeys: []string{"OPENAI_API_KEY"},
		ReportPath:      DefaultReportPath,
		HistoryPath:     DefaultHistoryPath,
		CommandTimeout:  DefaultCommandTimeout,
		Python:          []string{"python3", "python"},
	}
}

// NormalizeProbeName maps user spellings such as "EnvFile", "envFile" or
// "env-file" to the canonical snake_case probe name.
func NormalizeProbeName(name string) string {
	var words []string
	for _, w := range camelcase.Split(strings.TrimSpace(name)) {
		if isWord(w) {
			words = append(words, strings.ToLower(w))
		}
	}
	return strings.Join(words, "_")
}

func isWord(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return s != ""
}

// IsSkipped reports whether the named probe is excluded.
func (c Config) IsSkipped(probe string) bool {
	for _, s := range c.Skip {
		if NormalizeProbeName(s) == probe {
			return true
		}
	}
	return false
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("command_timeout must be positive, got %s", c.CommandTimeout)
	}
	if strings.TrimSpace(c.EnvFile) == "" {
		return fmt.Errorf("env_file must not be empty")
	}
	if strings.TrimSpace(c.ReportPath) == "" {
		return fmt.Errorf("report_path must not be empty")
	}
	if len(c.Python) == 0 {
		return fmt.Errorf("python must list at least one interpreter")
	}
	for _, p := range c.Python {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("python contains an empty interpreter name")
		}
	}
	for _, k := range c.RequiredEnvKeys {
		if strings.TrimSpace(k) == "" || strings.ContainsAny(k, "= \t") {
			return fmt.Errorf("invalid required_env_keys entry %q", k)
		}
	}
	for _, s := range c.Skip {
		if !isKnownProbe(NormalizeProbeName(s)) {
			return fmt.Errorf("unknown probe %q in skip (valid: %s)", s, strings.Join(ProbeOrder, ", "))
		}
	}
	return nil
}

func isKnownProbe(name string) bool {
	for _, p := range ProbeOrder {
		if p == name {
			return true
		}
	}
	return false
}
