// Package config loads the importer's settings: environment variables
// (optionally from a .env file), the per-source policy file and batch
// manifests.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/athapong/kgimport/pkg/graph"
	"github.com/athapong/kgimport/pkg/graph/nodes"
	"github.com/athapong/kgimport/pkg/graph/staging"
)

// SourcePolicy overrides a transform's declared defaults. Zero values keep
// the transform's own setting.
type SourcePolicy struct {
	DefaultWeight   *float64   `yaml:"default_weight,omitempty"`
	Merge           string     `yaml:"merge,omitempty"`
	Dangling        string     `yaml:"dangling,omitempty"`
	DefaultLanguage string     `yaml:"default_language,omitempty"`
	Aliases         [][]string `yaml:"aliases,omitempty"`
	Blocklist       []string   `yaml:"blocklist,omitempty"`
}

// Policy is the contents of a policy file.
type Policy struct {
	Version string                  `yaml:"version"`
	Sources map[string]SourcePolicy `yaml:"sources"`
}

// LoadPolicy loads and parses a YAML policy file from the given path.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %s: %w", path, err)
	}
	return ParsePolicy(data)
}

// ParsePolicy parses YAML data into a Policy.
func ParsePolicy(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse policy YAML: %w", err)
	}

	applyPolicyDefaults(&p)

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func applyPolicyDefaults(p *Policy) {
	if p.Version == "" {
		p.Version = "1"
	}
	if p.Sources == nil {
		p.Sources = make(map[string]SourcePolicy)
	}
	for name, sp := range p.Sources {
		sp.Merge = strings.ToLower(strings.TrimSpace(sp.Merge))
		sp.Dangling = strings.ToLower(strings.TrimSpace(sp.Dangling))
		p.Sources[name] = sp
	}
}

// Validate checks enumerated values.
func (p *Policy) Validate() error {
	for name, sp := range p.Sources {
		if sp.Merge != "" {
			if _, err := graph.ParseMergePolicy(sp.Merge); err != nil {
				return fmt.Errorf("source %s: %w", name, err)
			}
		}
		if sp.DefaultLanguage != "" && !nodes.RecognizedLanguage(sp.DefaultLanguage) {
			return fmt.Errorf("source %s: unknown default language %q", name, sp.DefaultLanguage)
		}
		switch staging.DanglingPolicy(sp.Dangling) {
		case "", staging.DanglingDrop, staging.DanglingFallback:
		default:
			return fmt.Errorf("source %s: unknown dangling policy %q", name, sp.Dangling)
		}
	}
	return nil
}

// For returns the overrides for source. A nil policy has none.
func (p *Policy) For(source string) SourcePolicy {
	if p == nil {
		return SourcePolicy{}
	}
	return p.Sources[source]
}

// Neo4j holds the optional graph database connection.
type Neo4j struct {
	URI      string
	Username string
	Password string
	Database string
}

// Enabled reports whether a Neo4j URI was configured.
func (n Neo4j) Enabled() bool { return n.URI != "" }

// Env is the process environment the CLI reads.
type Env struct {
	LogLevel   string
	PolicyPath string
	StagingDir string
	Neo4j      Neo4j
}

// LoadEnv loads envFile into the process environment when it exists and
// then reads the KGIMPORT_* and NEO4J_* variables.
func LoadEnv(envFile string) (Env, error) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return Env{}, fmt.Errorf("failed to load env file %s: %w", envFile, err)
			}
		}
	}

	env := Env{
		LogLevel:   os.Getenv("KGIMPORT_LOG_LEVEL"),
		PolicyPath: os.Getenv("KGIMPORT_POLICY"),
		StagingDir: os.Getenv("KGIMPORT_STAGING_DIR"),
		Neo4j: Neo4j{
			URI:      os.Getenv("NEO4J_URI"),
			Username: os.Getenv("NEO4J_USER"),
			Password: os.Getenv("NEO4J_PASSWORD"),
			Database: os.Getenv("NEO4J_DATABASE"),
		},
	}
	if env.LogLevel == "" {
		env.LogLevel = "info"
	}
	if env.Neo4j.Username == "" {
		env.Neo4j.Username = "neo4j"
	}
	return env, nil
}

// Job is one entry of a batch manifest.
type Job struct {
	Source  string   `yaml:"source"`
	Inputs  []string `yaml:"inputs"`
	DB      string   `yaml:"db,omitempty"`
	Output  string   `yaml:"output"`
	Mapping string   `yaml:"mapping,omitempty"`
}

// Manifest lists independent runs to execute together.
type Manifest struct {
	Concurrency int   `yaml:"concurrency"`
	Jobs        []Job `yaml:"jobs"`
}

// LoadManifest loads a batch manifest. Relative paths are taken relative
// to the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest YAML: %w", err)
	}

	applyManifestDefaults(&m, filepath.Dir(path))

	for i, job := range m.Jobs {
		if job.Source == "" {
			return nil, fmt.Errorf("manifest job %d: missing source", i+1)
		}
		if len(job.Inputs) == 0 {
			return nil, fmt.Errorf("manifest job %d (%s): missing inputs", i+1, job.Source)
		}
	}
	return &m, nil
}

func applyManifestDefaults(m *Manifest, base string) {
	if m.Concurrency <= 0 {
		m.Concurrency = 2
	}

	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	for i := range m.Jobs {
		j := &m.Jobs[i]
		for k := range j.Inputs {
			j.Inputs[k] = resolve(j.Inputs[k])
		}
		j.DB = resolve(j.DB)
		j.Output = resolve(j.Output)
		j.Mapping = resolve(j.Mapping)
	}
}
