// Package gen generates extraction code for annotated struct types ahead of
// time. The generated functions behave like the reflective extraction of the
// css and xpath packages without paying for reflection on every document.
package gen

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// Package is a parsed and type-checked Go package.
type Package struct {
	Name  string
	Path  string
	Dir   string
	Fset  *token.FileSet
	Files []*ast.File
	Types *types.Package
	Info  *types.Info
}

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
	packages.NeedTypes | packages.NeedTypesInfo | packages.NeedModule

// Load loads the packages matching patterns, relative to dir. Type errors in
// previously generated files are ignored so that stale output does not block
// regeneration.
func Load(dir string, patterns ...string) ([]*Package, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	cfg := &packages.Config{Mode: loadMode, Dir: dir}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages match %s", strings.Join(patterns, " "))
	}

	out := make([]*Package, 0, len(pkgs))
	for _, p := range pkgs {
		if err := loadErrors(p); err != nil {
			return nil, err
		}
		pkg := &Package{
			Name:  p.Name,
			Path:  p.PkgPath,
			Fset:  p.Fset,
			Files: p.Syntax,
			Types: p.Types,
			Info:  p.TypesInfo,
		}
		if len(p.GoFiles) > 0 {
			pkg.Dir = filepath.Dir(p.GoFiles[0])
		}
		out = append(out, pkg)
	}
	return out, nil
}

func loadErrors(p *packages.Package) error {
	generated := map[string]bool{}
	for _, f := range p.Syntax {
		if ast.IsGenerated(f) {
			generated[p.Fset.File(f.Pos()).Name()] = true
		}
	}

	var errs []error
	for _, e := range p.Errors {
		if e.Kind == packages.TypeError && generated[fileOf(e.Pos)] {
			continue
		}
		errs = append(errs, e)
	}
	if len(errs) > 0 {
		return fmt.Errorf("package %s: %w", p.PkgPath, errors.Join(errs...))
	}
	return nil
}

// fileOf strips the line and column from a "file:line:col" position.
func fileOf(pos string) string {
	for i := 0; i < 2; i++ {
		if j := strings.LastIndexByte(pos, ':'); j >= 0 {
			pos = pos[:j]
		}
	}
	return pos
}
