// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command usedefdump loads a Go package, walks each of its function
// bodies, and prints the reaching definitions and possibly-unbound
// status the use-def engine computes for every use and every
// variable's end-of-scope state. It is a demonstration of the usedef
// library against real source, not part of the library itself.
package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log"
	"os"

	"github.com/godoctor/usedef"
	"github.com/godoctor/usedef/walk"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <package pattern>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0)); err != nil {
		log.Fatal(err)
	}
}

func run(pattern string) error {
	prog, err := walk.Load(pattern)
	if err != nil {
		return err
	}

	for _, pkg := range prog.Pkgs {
		for _, file := range pkg.Syntax {
			for _, decl := range file.Decls {
				fn, ok := decl.(*ast.FuncDecl)
				if !ok || fn.Body == nil {
					continue
				}
				dumpFunction(prog.Fset, fn, pkg.TypesInfo)
			}
		}
	}
	return nil
}

func dumpFunction(fset *token.FileSet, fn *ast.FuncDecl, info *types.Info) {
	result := walk.WalkFunction(info, fn)
	m := result.Map

	fmt.Printf("func %s at %s\n", fn.Name.Name, fset.Position(fn.Pos()))

	for _, sym := range result.Symbols {
		label := fmt.Sprintf("  %s (public)", sym.Name)
		printDefs(label, m.PublicDefinitions(sym.Id), m.PublicMayBeUnbound(sym.Id))
	}

	for _, site := range result.Uses {
		label := fmt.Sprintf("  use %q at %s", site.Name, fset.Position(site.Pos))
		printDefs(label, m.DefinitionsForUse(site.Id), m.UseMayBeUnbound(site.Id))
	}
}

func printDefs(label string, defs []usedef.ResolvedDef, mayBeUnbound bool) {
	fmt.Printf("%s: %d definition(s), may_be_unbound=%v\n", label, len(defs), mayBeUnbound)
	for _, d := range defs {
		fmt.Printf("    def=%v preds=%v\n", describe(d.Def), d.Preds)
	}
}

func describe(v any) string {
	if n, ok := v.(ast.Node); ok {
		return fmt.Sprintf("%T", n)
	}
	return fmt.Sprintf("%v", v)
}
