// Package evaluator walks a parsed Grace program against the runtime
// object model, maintaining the current scope and the "partial" register
// described in spec.md §4.6.
package evaluator

import (
	"github.com/blorente/gograce/internal/runtime"
	"github.com/blorente/gograce/pkg/ast"
)

// Evaluator drives AST evaluation. Its Heap, scope stack, and partial
// register are owned exclusively by this instance for its lifetime; there
// is no concurrent access (spec.md §5).
type Evaluator struct {
	Heap   *runtime.Heap
	scopes *runtime.ScopeStack
	hook   DebugHook

	partial   *runtime.Value
	returning bool // set by Return; consumed at the nearest method/block frame

	maxDepth int // 0 means unbounded
	depth    int // current user-method/block invocation nesting
}

// New creates an Evaluator with a fresh heap and root scope, and no
// invocation-depth limit. hook may be nil, in which case a NoopHook is
// installed so call sites never need a nil check.
func New(hook DebugHook) *Evaluator {
	return NewWithDepthLimit(hook, 0)
}

// NewWithDepthLimit is like New but bounds user-method/block invocation
// nesting to maxDepth (0 for unbounded), surfacing a RecursionLimitError
// once exceeded. The CLI wires this to EvaluatorConfig.MaxRecursionDepth.
func NewWithDepthLimit(hook DebugHook, maxDepth int) *Evaluator {
	heap := runtime.NewHeap()
	root := heap.MakeScope(nil)
	if hook == nil {
		hook = NoopHook{}
	}
	e := &Evaluator{
		Heap:     heap,
		scopes:   runtime.NewScopeStack(heap, root),
		hook:     hook,
		partial:  heap.MakeDone(),
		maxDepth: maxDepth,
	}
	return e
}

// Partial returns the handle to the last computed value.
func (e *Evaluator) Partial() *runtime.Value {
	return e.partial
}

// CurrentScope returns the evaluator's current scope handle.
func (e *Evaluator) CurrentScope() *runtime.Value {
	return e.scopes.Current()
}

// CreateNewScope pushes a fresh child scope and installs it as current.
func (e *Evaluator) CreateNewScope() *runtime.Value {
	return e.scopes.CreateNewScope()
}

// RestoreScope pops back to the scope active before the last
// CreateNewScope call.
func (e *Evaluator) RestoreScope() error {
	return e.scopes.RestoreScope()
}

// SetScope unconditionally replaces the current scope, used when entering
// a method or block body whose lexical parent is its defining scope.
func (e *Evaluator) SetScope(handle *runtime.Value) {
	e.scopes.SetScope(handle)
}

// EvaluateAST evaluates a sequence of top-level statements in the root
// scope and leaves the last value in partial.
func (e *Evaluator) EvaluateAST(program *ast.Program) (*runtime.Value, error) {
	if err := e.execStatements(program.Statements); err != nil {
		return nil, err
	}
	e.returning = false
	return e.partial, nil
}

// EvaluateSandbox evaluates program identically to EvaluateAST but
// preserves caller-visible scope state: it pushes a fresh scope, evaluates,
// pops it, and returns the final partial, so an embedder can evaluate a
// throwaway program against the live scope without adding bindings to it.
// The debugger's `inspect` command does not use it; it looks names up in
// the scope chain directly.
func (e *Evaluator) EvaluateSandbox(program *ast.Program) (*runtime.Value, error) {
	e.CreateNewScope()
	defer func() { _ = e.RestoreScope() }()

	if err := e.execStatements(program.Statements); err != nil {
		return nil, err
	}
	e.returning = false
	return e.partial, nil
}

// execStatements runs stmts in order, stopping early (without clearing the
// returning flag) once a Return has fired, so the flag propagates up to
// whichever method/block-apply frame is listening for it.
func (e *Evaluator) execStatements(stmts []ast.Statement) error {
	for _, s := range stmts {
		if err := e.Eval(s); err != nil {
			return err
		}
		if e.returning {
			break
		}
	}
	return nil
}
