package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"astuart.co/scrape"
	"astuart.co/scrape/gen"
)

type deriveOptions struct {
	job  DeriveJob
	list bool
}

func registerDeriveCmd(parent *cobra.Command, a *app) {
	opts := &deriveOptions{}

	cmd := &cobra.Command{
		Use:   "derive [dir]",
		Short: "Generate extraction functions for annotated struct types",
		Long: fmt.Sprintf(`Generate extraction functions for the annotated struct types of a package.

Available flavors: %s`, strings.Join(flavorNames(), ", ")),
		Example: `  # Generate scrape_gen.go in the current package
  scrapegen derive

  # Only the css flavor, for two types
  scrapegen derive --flavor css --type Repo,Owner ./internal/example

  # Show the resolved annotations without writing anything
  scrapegen derive --list`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.job.Dir = args[0]
			}
			if opts.list {
				return a.listDerive(opts.job.withDefaults())
			}
			return a.derive(opts.job.withDefaults())
		},
	}

	cmd.Flags().StringSliceVarP(&opts.job.Patterns, "pattern", "p", nil, "Package patterns, relative to dir (default \".\")")
	cmd.Flags().StringSliceVarP(&opts.job.Flavors, "flavor", "f", nil, "Flavors to generate (default all)")
	cmd.Flags().StringSliceVarP(&opts.job.Types, "type", "t", nil, "Types to generate entry functions for (default every annotated type)")
	cmd.Flags().StringVarP(&opts.job.Output, "output", "o", "scrape_gen.go", "Output file, relative to each package directory")
	cmd.Flags().BoolVarP(&opts.list, "list", "l", false, "Print the resolved annotations instead of generating")

	parent.AddCommand(cmd)
}

func flavorNames() []string {
	var names []string
	for _, f := range gen.DefaultRegistry().Names() {
		names = append(names, string(f))
	}
	return names
}

func (j DeriveJob) flavors() []scrape.Flavor {
	out := make([]scrape.Flavor, len(j.Flavors))
	for i, f := range j.Flavors {
		out[i] = scrape.Flavor(f)
	}
	return out
}

func (a *app) derive(job DeriveJob) error {
	pkgs, err := gen.Load(job.Dir, job.Patterns...)
	if err != nil {
		return err
	}

	written := 0
	for _, pkg := range pkgs {
		out, err := gen.Derive(pkg, gen.DeriveOptions{
			Flavors: job.flavors(),
			Types:   job.Types,
			Logger:  a.logger,
		})
		if errors.Is(err, gen.ErrNoTypes) {
			a.logger.Info("skipping package without annotated types", "package", pkg.Path)
			continue
		}
		if err != nil {
			return err
		}

		path := job.Output
		if !filepath.IsAbs(path) {
			path = filepath.Join(pkg.Dir, path)
		}
		if err := os.WriteFile(path, out, 0o644); err != nil { //nolint:gosec // generated source is world readable
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		a.logger.Info("wrote", "file", path, "package", pkg.Path)
		written++
	}
	if written == 0 {
		return gen.ErrNoTypes
	}
	return nil
}

func (a *app) listDerive(job DeriveJob) error {
	pkgs, err := gen.Load(job.Dir, job.Patterns...)
	if err != nil {
		return err
	}
	reg := gen.DefaultRegistry()
	names := job.flavors()
	if len(names) == 0 {
		names = reg.Names()
	}

	for _, pkg := range pkgs {
		for _, name := range names {
			flavor, err := reg.Get(name)
			if err != nil {
				return err
			}
			types, err := gen.Analyze(pkg, flavor, job.Types...)
			if err != nil {
				return err
			}
			for _, t := range types {
				printType(a, pkg.Path, t)
			}
		}
	}
	return nil
}

func printType(a *app, pkgPath string, t *gen.Type) {
	form := "single"
	if t.Path != "" {
		form = fmt.Sprintf("collection %q", t.Path)
	}
	if !t.Root {
		form = "nested"
	}
	fmt.Fprintf(a.stdout, "%s.%s [%s] %s\n", pkgPath, t.Type, t.Flavor, form)
	for _, f := range t.Fields {
		line := fmt.Sprintf("  %s %s %s %q", f.Name, f.Shape, f.Elem, f.Path)
		if f.Target == scrape.ValueTarget {
			line += " " + f.Mode.String()
		}
		if f.HasDefault {
			line += fmt.Sprintf(" default=%q", f.Default)
		}
		fmt.Fprintln(a.stdout, line)
	}
}
