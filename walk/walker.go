// Copyright 2015 Auburn University. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package walk

import (
	"go/ast"
	"go/token"
	"go/types"

	"github.com/godoctor/usedef"
)

// FunctionWalker drives a usedef.Builder across a single function's
// body. Its traversal shape is adapted from godoctor's
// extras/cfg.builder (buildBlock/buildIf/buildFor/buildSwitch): the
// same statement-type dispatch and recursive descent, but instead of
// recording graph edges to be handed to a later fixpoint pass, each
// construct calls straight into the Builder's
// snapshot/process/restore/merge primitives, because the engine
// underneath is already single-pass.
type FunctionWalker struct {
	info      *types.Info
	builder   *usedef.Builder
	symbols   map[*types.Var]usedef.SymbolId
	symOrder  []*types.Var
	nextUse   usedef.UseId
	useSites  []UseSite
}

// Symbol names a local variable discovered in a walked function,
// paired with the dense SymbolId the Builder assigned it.
type Symbol struct {
	Id   usedef.SymbolId
	Name string
}

// UseSite names an occurrence of a local variable read, paired with
// the UseId the Builder recorded it under and the position it was
// read at.
type UseSite struct {
	Id   usedef.UseId
	Name string
	Pos  token.Pos
}

// Result is everything WalkFunction learned about a single function:
// the finished use-def Map, plus enough metadata about the symbols and
// use sites it discovered to make the Map's ids meaningful to a
// caller that only has source positions and names to go on.
type Result struct {
	Map     *usedef.Map
	Symbols []Symbol
	Uses    []UseSite
}

// WalkFunction discovers fn's local variables, assigns each a dense
// SymbolId in first-occurrence order, walks fn's body recording every
// definition and use, and returns the finished Result.
func WalkFunction(info *types.Info, fn *ast.FuncDecl) *Result {
	w := &FunctionWalker{
		info:    info,
		builder: usedef.New(),
		symbols: make(map[*types.Var]usedef.SymbolId),
	}
	w.discoverSymbols(fn)
	w.defineParams(fn)
	if fn.Body != nil {
		w.walkBlock(fn.Body.List)
	}

	symbols := make([]Symbol, len(w.symOrder))
	for i, v := range w.symOrder {
		symbols[i] = Symbol{Id: w.symbols[v], Name: v.Name()}
	}

	return &Result{
		Map:     w.builder.Finish(),
		Symbols: symbols,
		Uses:    w.useSites,
	}
}

// discoverSymbols walks fn's identifiers in source order and assigns
// a SymbolId to every local *types.Var the first time it is seen,
// satisfying the Builder's ascending-allocation contract before any
// RecordDefinition/RecordUse call can reference it.
func (w *FunctionWalker) discoverSymbols(fn *ast.FuncDecl) {
	ast.Inspect(fn, func(n ast.Node) bool {
		id, ok := n.(*ast.Ident)
		if !ok {
			return true
		}
		v, ok := w.info.ObjectOf(id).(*types.Var)
		if !ok || !w.isLocalTo(v, fn) {
			return true
		}
		w.symbolFor(v)
		return true
	})
}

// isLocalTo reports whether v was declared within fn's source range,
// the same boundary godoctor's ReferencedVars assumes a Program's
// per-function analysis respects.
func (w *FunctionWalker) isLocalTo(v *types.Var, fn *ast.FuncDecl) bool {
	return v.Pos() >= fn.Pos() && v.Pos() < fn.End()
}

func (w *FunctionWalker) symbolFor(v *types.Var) usedef.SymbolId {
	if s, ok := w.symbols[v]; ok {
		return s
	}
	s := usedef.SymbolId(len(w.symbols))
	w.builder.AddSymbol(s)
	w.symbols[v] = s
	w.symOrder = append(w.symOrder, v)
	return s
}

// defineParams records each parameter and named result as defined at
// function entry: by the time the body starts executing, they are
// already bound.
func (w *FunctionWalker) defineParams(fn *ast.FuncDecl) {
	record := func(fields *ast.FieldList) {
		if fields == nil {
			return
		}
		for _, field := range fields.List {
			for _, name := range field.Names {
				if v, ok := w.info.ObjectOf(name).(*types.Var); ok {
					w.builder.RecordDefinition(w.symbolFor(v), name)
				}
			}
		}
	}
	if fn.Recv != nil {
		record(fn.Recv)
	}
	record(fn.Type.Params)
	record(fn.Type.Results)
}

func (w *FunctionWalker) recordUses(vars []*types.Var) {
	for _, v := range vars {
		s, ok := w.symbols[v]
		if !ok {
			continue // not a symbol local to this function (e.g. a package-level var)
		}
		w.builder.RecordUse(s, w.nextUse)
		w.useSites = append(w.useSites, UseSite{Id: w.nextUse, Name: v.Name(), Pos: v.Pos()})
		w.nextUse++
	}
}

func (w *FunctionWalker) recordDefs(vars []*types.Var, node ast.Node) {
	for _, v := range vars {
		if _, ok := w.symbols[v]; !ok && (v.Parent() == nil || (v.Pkg() != nil && v.Parent() == v.Pkg().Scope())) {
			continue // a struct field or package-level var, not local to this function
		}
		w.builder.RecordDefinition(w.symbolFor(v), node)
	}
}

// walkBlock processes a list of statements in order.
func (w *FunctionWalker) walkBlock(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		w.walkStmt(stmt)
	}
}

// walkStmt dispatches on statement kind, mirroring
// extras/cfg.builder.buildStmt's switch.
func (w *FunctionWalker) walkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.IfStmt:
		w.walkIf(s)
	case *ast.ForStmt:
		w.walkForStmt(s)
	case *ast.RangeStmt:
		w.walkRangeStmt(s)
	case *ast.SwitchStmt:
		w.walkSwitch(s)
	case *ast.TypeSwitchStmt:
		w.walkTypeSwitch(s)
	case *ast.SelectStmt:
		w.walkSelect(s)
	case *ast.BlockStmt:
		w.walkBlock(s.List)
	case *ast.LabeledStmt:
		w.walkStmt(s.Stmt)
	case *ast.BranchStmt, *ast.EmptyStmt:
		// no definitions, uses, or predicates
	default:
		w.recordUses(uses(stmt, w.info))
		w.recordDefs(defs(stmt, w.info), stmt)
	}
}

// walkIf implements the two-way-branch recipe: process the test
// (including its narrowing predicate), snapshot, process the then
// arm, snapshot again, restore, process the else arm (if any, with a
// negated predicate marker), then merge the then-arm snapshot back in.
func (w *FunctionWalker) walkIf(s *ast.IfStmt) {
	if s.Init != nil {
		w.walkStmt(s.Init)
	}
	w.recordUses(varsIn(s.Cond, w.info))
	w.builder.RecordPredicate(s.Cond)

	s0 := w.builder.Snapshot()
	w.walkBlock(s.Body.List)
	s1 := w.builder.Snapshot()
	w.builder.Restore(s0)

	switch e := s.Else.(type) {
	case *ast.BlockStmt:
		w.builder.RecordPredicate(negated{s.Cond})
		w.walkBlock(e.List)
	case *ast.IfStmt:
		w.builder.RecordPredicate(negated{s.Cond})
		w.walkIf(e)
	}

	w.builder.Merge(s1)
}

// negated marks a predicate payload as the negation of an observed
// condition expression, so a caller inspecting recorded predicates
// can tell the two arms apart.
type negated struct {
	Cond ast.Expr
}

// walkForStmt approximates zero-or-more iterations: process init and
// the loop test once, snapshot, process the body and post statement,
// then merge the pre-loop snapshot back in to account for the
// zero-iteration path.
func (w *FunctionWalker) walkForStmt(s *ast.ForStmt) {
	if s.Init != nil {
		w.walkStmt(s.Init)
	}
	if s.Cond != nil {
		w.recordUses(varsIn(s.Cond, w.info))
		w.builder.RecordPredicate(s.Cond)
	}

	s0 := w.builder.Snapshot()
	w.walkBlock(s.Body.List)
	if s.Post != nil {
		w.walkStmt(s.Post)
	}
	w.builder.Merge(s0)
}

// walkRangeStmt treats the range key/value as defined on loop entry,
// then approximates zero-or-more iterations the same way walkForStmt
// does.
func (w *FunctionWalker) walkRangeStmt(s *ast.RangeStmt) {
	w.recordUses(varsIn(s.X, w.info))

	s0 := w.builder.Snapshot()
	w.recordDefs(rangeVars(s, w.info), s)
	w.walkBlock(s.Body.List)
	w.builder.Merge(s0)
}

// walkSwitch folds every case clause's arm into the pre-switch
// snapshot via repeated two-way merges, the n-way generalization of
// walkIf's single merge; if there is no default case, the
// zero-cases-taken path is folded in too.
func (w *FunctionWalker) walkSwitch(s *ast.SwitchStmt) {
	if s.Init != nil {
		w.walkStmt(s.Init)
	}
	if s.Tag != nil {
		w.recordUses(varsIn(s.Tag, w.info))
	}
	w.walkCaseClauses(s.Body.List)
}

func (w *FunctionWalker) walkTypeSwitch(s *ast.TypeSwitchStmt) {
	if s.Init != nil {
		w.walkStmt(s.Init)
	}
	w.walkStmt(s.Assign)
	w.walkCaseClauses(s.Body.List)
}

func (w *FunctionWalker) walkCaseClauses(clauses []ast.Stmt) {
	s0 := w.builder.Snapshot()
	arms := newArmFold(w.builder, s0)
	hasDefault := false

	for _, clause := range clauses {
		cc := clause.(*ast.CaseClause)
		if cc.List == nil {
			hasDefault = true
		}
		w.builder.Restore(s0)
		for _, expr := range cc.List {
			w.recordUses(varsIn(expr, w.info))
		}
		w.builder.RecordPredicate(cc)
		if v := typeCaseVar(w.info, cc); v != nil {
			w.recordDefs([]*types.Var{v}, cc)
		}
		w.walkBlock(cc.Body)
		arms.fold()
	}

	arms.finish(!hasDefault)
}

// walkSelect folds every comm clause's arm the same way walkSwitch
// folds case clauses. A select with clauses and no default blocks
// until one clause can run, so exactly one arm is always taken and
// the pre-select path is never folded back in; a default clause, if
// present, is just one more arm.
func (w *FunctionWalker) walkSelect(s *ast.SelectStmt) {
	s0 := w.builder.Snapshot()
	arms := newArmFold(w.builder, s0)
	for _, clause := range s.Body.List {
		cc := clause.(*ast.CommClause)
		w.builder.Restore(s0)
		if cc.Comm != nil {
			w.walkStmt(cc.Comm)
		}
		w.walkBlock(cc.Body)
		arms.fold()
	}
	arms.finish(false)
}

// armFold accumulates the join of several alternative arms that all
// start from the same snapshot: the caller restores the start state
// before each arm, runs it, and calls fold to join the arm's exit
// state into the running result.
type armFold struct {
	builder *usedef.Builder
	s0      usedef.Snapshot
	merged  *usedef.Snapshot
}

func newArmFold(b *usedef.Builder, s0 usedef.Snapshot) *armFold {
	return &armFold{builder: b, s0: s0}
}

func (f *armFold) fold() {
	snap := f.builder.Snapshot()
	if f.merged == nil {
		f.merged = &snap
		return
	}
	f.builder.Restore(*f.merged)
	f.builder.Merge(snap)
	joined := f.builder.Snapshot()
	f.merged = &joined
}

// finish leaves the builder in the joined state of every folded arm.
// includeStart additionally joins the no-arm-taken path (the start
// snapshot). With no arms folded at all, the builder is simply
// restored to the start snapshot.
func (f *armFold) finish(includeStart bool) {
	if f.merged == nil {
		f.builder.Restore(f.s0)
		return
	}
	f.builder.Restore(*f.merged)
	if includeStart {
		f.builder.Merge(f.s0)
	}
}

// varsIn extracts the local variables read by expr, in ascending
// source-position order (see extract.go's varsOf for why order
// matters here).
func varsIn(expr ast.Expr, info *types.Info) []*types.Var {
	return varsOf(idents(expr), info)
}

// rangeVars returns the *types.Var's a range statement's key and
// value clauses bind.
func rangeVars(s *ast.RangeStmt, info *types.Info) []*types.Var {
	var vars []*types.Var
	for _, e := range []ast.Expr{s.Key, s.Value} {
		if e == nil {
			continue
		}
		if id, ok := e.(*ast.Ident); ok {
			if v, ok := info.ObjectOf(id).(*types.Var); ok {
				vars = append(vars, v)
			}
		}
	}
	return vars
}
