package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"astuart.co/scrape/httpfile"
)

func registerHTTPCmd(parent *cobra.Command, a *app) {
	job := &HTTPJob{}

	cmd := &cobra.Command{
		Use:   "http <file.http>",
		Short: "Generate one request function per named request of a template",
		Example: `  # Writes api_http.go next to api.http
  scrapegen http api.http

  # Custom package, client supplier and variable overrides
  scrapegen http api.http -o client/api.go --package client --client HTTPClient --var host=localhost`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job.Input = args[0]
			return a.generateHTTP(job.withDefaults())
		},
	}

	cmd.Flags().StringVarP(&job.Output, "output", "o", "", "Output file (default <input>_http.go)")
	cmd.Flags().StringVar(&job.Package, "package", "", "Package clause of the output (default from the output directory)")
	cmd.Flags().StringVar(&job.Client, "client", "", "Name of a func() *http.Client in the output package")
	cmd.Flags().StringToStringVar(&job.Vars, "var", nil, "Fixed values for {name} placeholders")

	parent.AddCommand(cmd)
}

func registerInspectCmd(parent *cobra.Command, a *app) {
	var vars map[string]string

	cmd := &cobra.Command{
		Use:   "inspect <file.http>",
		Short: "List the requests of a template with their parameters and environment lookups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := httpfile.ParseFile(args[0], httpfile.WithVars(vars))
			if err != nil {
				return err
			}
			a.inspect(f)
			return nil
		},
	}

	cmd.Flags().StringToStringVar(&vars, "var", nil, "Fixed values for {name} placeholders")

	parent.AddCommand(cmd)
}

func (a *app) generateHTTP(job HTTPJob) error {
	f, err := httpfile.ParseFile(job.Input, httpfile.WithVars(job.Vars))
	if err != nil {
		return err
	}
	a.logger.Debug("parsed template", "file", job.Input, "requests", len(f.Requests), "variables", len(f.Variables))

	out, err := httpfile.Generate(f, httpfile.GenerateOptions{
		Package: job.Package,
		Client:  job.Client,
		Source:  filepath.Base(job.Input),
	})
	if err != nil {
		return err
	}
	if dir := filepath.Dir(job.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(job.Output, out, 0o644); err != nil { //nolint:gosec // generated source is world readable
		return fmt.Errorf("failed to write %s: %w", job.Output, err)
	}
	a.logger.Info("wrote", "file", job.Output, "package", job.Package, "requests", len(f.Requests))
	return nil
}

func (a *app) inspect(f *httpfile.File) {
	for _, name := range f.VariableNames() {
		fmt.Fprintf(a.stdout, "@%s = %s\n", name, f.Variables[name])
	}
	for _, r := range f.Requests {
		fmt.Fprintf(a.stdout, "%s:%d %s\n", f.Name, r.Line, r.Signature())
		line := r.Method + " " + r.URL.String()
		if r.Proto != "" {
			line += " " + r.Proto
		}
		fmt.Fprintf(a.stdout, "  %s\n", line)
		for _, h := range r.Headers {
			fmt.Fprintf(a.stdout, "  %s: %s\n", h.Key, h.Value.String())
		}
		if r.Body != nil {
			fmt.Fprintf(a.stdout, "  body: %d bytes\n", len(r.Body.String()))
		}
		for _, e := range r.Env {
			fmt.Fprintf(a.stdout, "  env %s default %q\n", e.Name, e.Default)
		}
		if len(r.Params) > 0 {
			params := make([]string, len(r.Params))
			for i, p := range r.Params {
				params[i] = p.Name + " " + p.Type
			}
			fmt.Fprintf(a.stdout, "  params: %s\n", strings.Join(params, ", "))
		}
	}
}
