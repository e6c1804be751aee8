package internal

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"astuart.co/scrape"
	"astuart.co/scrape/gen"
)

// CurrentConfigVersion is the current version of the scrapegen.yaml format.
const CurrentConfigVersion = 1

// DefaultConfigFile is read by `scrapegen run` when no file is named.
const DefaultConfigFile = "scrapegen.yaml"

// Config is a scrapegen.yaml file.
type Config struct {
	Version int         `yaml:"version"`
	Derive  []DeriveJob `yaml:"derive,omitempty"`
	HTTP    []HTTPJob   `yaml:"http,omitempty"`
}

// DeriveJob generates extraction functions for the packages matched by
// Patterns below Dir.
type DeriveJob struct {
	Dir      string   `yaml:"dir,omitempty"`
	Patterns []string `yaml:"patterns,omitempty"`
	Flavors  []string `yaml:"flavors,omitempty"`
	Types    []string `yaml:"types,omitempty"`
	Output   string   `yaml:"output,omitempty"`
}

// HTTPJob generates request functions from one template.
type HTTPJob struct {
	Input   string            `yaml:"input"`
	Output  string            `yaml:"output,omitempty"`
	Package string            `yaml:"package,omitempty"`
	Client  string            `yaml:"client,omitempty"`
	Vars    map[string]string `yaml:"vars,omitempty"`
}

// LoadConfig reads a Config from a file path.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	if c.Version != CurrentConfigVersion {
		return errors.New("unsupported config version")
	}
	if len(c.Derive) == 0 && len(c.HTTP) == 0 {
		return errors.New("no jobs configured")
	}

	known := gen.DefaultRegistry()
	var errs []error
	for i, j := range c.Derive {
		for _, f := range j.Flavors {
			if _, err := known.Get(scrape.Flavor(f)); err != nil {
				errs = append(errs, fmt.Errorf("derive[%d]: %w", i, err))
			}
		}
		if j.Output != "" && filepath.Ext(j.Output) != ".go" {
			errs = append(errs, fmt.Errorf("derive[%d]: output %q is not a .go file", i, j.Output))
		}
	}
	for i, j := range c.HTTP {
		if j.Input == "" {
			errs = append(errs, fmt.Errorf("http[%d]: input is required", i))
		}
		if j.Package != "" && !token.IsIdentifier(j.Package) {
			errs = append(errs, fmt.Errorf("http[%d]: invalid package name %q", i, j.Package))
		}
		if j.Client != "" && !token.IsIdentifier(j.Client) {
			errs = append(errs, fmt.Errorf("http[%d]: invalid client name %q", i, j.Client))
		}
	}
	return errors.Join(errs...)
}

// resolve makes the paths of every job relative to dir.
func (c *Config) resolve(dir string) {
	rel := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i := range c.Derive {
		c.Derive[i].Dir = rel(c.Derive[i].Dir)
		if c.Derive[i].Dir == "" {
			c.Derive[i].Dir = dir
		}
	}
	for i := range c.HTTP {
		c.HTTP[i].Input = rel(c.HTTP[i].Input)
		c.HTTP[i].Output = rel(c.HTTP[i].Output)
	}
}

func (j DeriveJob) withDefaults() DeriveJob {
	if j.Dir == "" {
		j.Dir = "."
	}
	if len(j.Patterns) == 0 {
		j.Patterns = []string{"."}
	}
	if j.Output == "" {
		j.Output = "scrape_gen.go"
	}
	return j
}

func (j HTTPJob) withDefaults() HTTPJob {
	if j.Output == "" {
		j.Output = strings.TrimSuffix(j.Input, filepath.Ext(j.Input)) + "_http.go"
	}
	if j.Package == "" {
		j.Package = packageName(filepath.Dir(j.Output))
	}
	return j
}

// packageName guesses a package clause from a directory name.
func packageName(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "main"
	}
	name := strings.ToLower(filepath.Base(abs))
	name = strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}
		return r
	}, name)
	if !token.IsIdentifier(name) || token.IsKeyword(name) {
		return "main"
	}
	return name
}
