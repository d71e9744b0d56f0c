// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package walk is a demonstration driver that adapts godoctor's old
// control-flow-graph builder and dataflow variable extraction into a
// single recursive descent over real Go function bodies, calling
// straight into a usedef.Builder instead of building an intermediate
// graph for a later fixpoint pass. It exists to exercise the use-def
// engine end to end against real source; it is not part of the
// engine's core contract.
package walk

import (
	"fmt"
	"go/token"

	"golang.org/x/tools/go/packages"
)

// Program is a type-checked set of packages, trimmed down from
// godoctor's analysis/loader.Program to the fields a demonstration
// walker needs: the shared position base and the loaded packages
// themselves.
type Program struct {
	Fset *token.FileSet
	Pkgs []*packages.Package
}

// Load loads the packages named by patterns, with full type and
// syntax information, the way godoctor's analysis/loader.Load does,
// minus the conf.Tests = true the rename refactoring needed and this
// walker does not.
func Load(patterns ...string) (*Program, error) {
	fset := token.NewFileSet()
	cfg := &packages.Config{
		Fset: fset,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedDeps |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo |
			packages.NeedTypesSizes,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("walk: load %v: %w", patterns, err)
	}

	var firstErr error
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			if firstErr == nil {
				firstErr = e
			}
		}
	})
	if firstErr != nil {
		return nil, fmt.Errorf("walk: %v: %w", patterns, firstErr)
	}

	return &Program{Fset: fset, Pkgs: pkgs}, nil
}
