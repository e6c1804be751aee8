package internal

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func registerRunCmd(parent *cobra.Command, a *app) {
	var path string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every job of a scrapegen.yaml file",
		Example: `  # scrapegen.yaml
  version: 1
  derive:
    - dir: internal/example
  http:
    - input: api/github.http
      package: api
      vars:
        owner: astuart`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runConfig(path)
		},
	}

	cmd.Flags().StringVarP(&path, "config", "c", DefaultConfigFile, "Path to the config file")

	parent.AddCommand(cmd)
}

func (a *app) runConfig(path string) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	cfg.resolve(filepath.Dir(path))

	for i, job := range cfg.Derive {
		a.logger.Debug("derive job", "index", i, "dir", job.Dir)
		if err := a.derive(job.withDefaults()); err != nil {
			return fmt.Errorf("derive[%d]: %w", i, err)
		}
	}
	for i, job := range cfg.HTTP {
		a.logger.Debug("http job", "index", i, "input", job.Input)
		if err := a.generateHTTP(job.withDefaults()); err != nil {
			return fmt.Errorf("http[%d]: %w", i, err)
		}
	}
	return nil
}
