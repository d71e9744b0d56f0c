// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package walk

import (
	"go/ast"
	"go/token"
	"go/types"
	"sort"
)

// defs extracts the local variables whose values are assigned by
// stmt, adapted from godoctor's analysis/dataflow.defs. The original's
// TypeSwitchStmt case is gone: the walker handles type switches
// structurally, recording each case clause's implicit variable at
// clause entry (see walkCaseClauses and typeCaseVar).
func defs(stmt ast.Stmt, info *types.Info) []*types.Var {
	idnts := make(map[*ast.Ident]struct{})

	switch stmt := stmt.(type) {
	case *ast.DeclStmt:
		ast.Inspect(stmt, func(n ast.Node) bool {
			if v, ok := n.(*ast.ValueSpec); ok {
				for _, name := range v.Names {
					idnts[name] = struct{}{}
				}
			}
			return true
		})
	case *ast.IncDecStmt:
		idnts = idents(stmt.X)
	case *ast.AssignStmt:
		for _, x := range stmt.Lhs {
			if !containsIndexExpr(x) {
				idnts = union(idnts, idents(x))
			}
		}
	case *ast.RangeStmt:
		idnts = union(idents(stmt.Key), idents(stmt.Value))
	}

	return varsOf(idnts, info)
}

// typeCaseVar returns the implicit *types.Var a type switch case
// clause binds, if any. go/types records one distinct variable per
// clause in Info.Implicits, the field that replaced go/loader's
// PackageInfo.Implicits when the toolchain moved to go/packages.
func typeCaseVar(info *types.Info, cc *ast.CaseClause) *types.Var {
	if v, ok := info.Implicits[cc].(*types.Var); ok {
		return v
	}
	return nil
}

// uses extracts the local variables whose values are read by stmt,
// adapted from godoctor's analysis/dataflow.uses.
func uses(stmt ast.Stmt, info *types.Info) []*types.Var {
	idnts := make(map[*ast.Ident]struct{})

	switch s := stmt.(type) {
	case *ast.AssignStmt:
		for _, x := range s.Lhs {
			if containsIndexExpr(x) || (s.Tok != token.ASSIGN && s.Tok != token.DEFINE) {
				idnts = union(idnts, idents(x))
			}
		}
		for _, rhs := range s.Rhs {
			idnts = union(idnts, idents(rhs))
		}
	case *ast.BlockStmt, *ast.BranchStmt, *ast.CaseClause, *ast.CommClause,
		*ast.LabeledStmt, *ast.SelectStmt, *ast.TypeSwitchStmt:
		// no uses directly at this statement
	case *ast.DeclStmt:
		ast.Inspect(s, func(n ast.Node) bool {
			if v, ok := n.(*ast.ValueSpec); ok {
				for _, val := range v.Values {
					idnts = union(idnts, idents(val))
				}
			}
			return true
		})
	case *ast.DeferStmt:
		idnts = idents(s.Call)
	case *ast.ForStmt:
		idnts = idents(s.Cond)
	case *ast.IfStmt:
		idnts = idents(s.Cond)
	case *ast.RangeStmt:
		idnts = idents(s.X)
	case *ast.SwitchStmt:
		idnts = idents(s.Tag)
	default:
		idnts = idents(s)
	}

	return varsOf(idnts, info)
}

// varsOf resolves a set of identifiers to their *types.Var objects, in
// ascending source-position order. idents returns a map (godoctor's
// ReferencedVars only ever folds the result into another set, where
// order is irrelevant) but FunctionWalker assigns UseIds and DefIds
// from this order, so it must be deterministic run to run.
func varsOf(idnts map[*ast.Ident]struct{}, info *types.Info) []*types.Var {
	ids := make([]*ast.Ident, 0, len(idnts))
	for i := range idnts {
		ids = append(ids, i)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Pos() < ids[j].Pos() })

	var vars []*types.Var
	for _, i := range ids {
		if v, ok := info.ObjectOf(i).(*types.Var); ok {
			vars = append(vars, v)
		}
	}
	return vars
}

func containsIndexExpr(x ast.Expr) bool {
	found := false
	ast.Inspect(x, func(n ast.Node) bool {
		if _, ok := n.(*ast.IndexExpr); ok {
			found = true
			return false
		}
		return true
	})
	return found
}

// idents returns the set of all identifiers appearing in node.
func idents(node ast.Node) map[*ast.Ident]struct{} {
	result := make(map[*ast.Ident]struct{})
	if node == nil {
		return result
	}
	ast.Inspect(node, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			result[id] = struct{}{}
		}
		return true
	})
	return result
}

func union(one, two map[*ast.Ident]struct{}) map[*ast.Ident]struct{} {
	for k := range one {
		two[k] = struct{}{}
	}
	return two
}
