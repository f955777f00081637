package evaluator

import "github.com/blorente/gograce/pkg/ast"

// DebugHook is the capability the evaluator invokes around every node
// evaluation, per spec.md §4.7. Apart from NoopHook, implementations live
// outside this package (the interactive debugger in internal/debugger);
// the evaluator core never imports them back, only this interface.
//
// BeforeNode may block the calling goroutine until an external driver
// resumes it — that is how "stepping" is implemented without the
// evaluator knowing anything about breakpoints.
type DebugHook interface {
	BeforeNode(node ast.Node, e *Evaluator)
	AfterNode(node ast.Node, e *Evaluator)
}

// Halter is an optional capability a DebugHook may also implement to raise
// the Halt signal described in spec.md §5: rather than merely declining to
// resume, a hook can have the evaluator unwind the current
// evaluateAST/evaluateSandbox call entirely. Checked once per node right
// after BeforeNode returns.
type Halter interface {
	Halted() (bool, error)
}

// NoopHook implements DebugHook with no behavior; used when no debugger is
// attached so the evaluator's hook call sites never need a nil check.
type NoopHook struct{}

func (NoopHook) BeforeNode(ast.Node, *Evaluator) {}
func (NoopHook) AfterNode(ast.Node, *Evaluator)  {}
