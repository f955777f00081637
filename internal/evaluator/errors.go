package evaluator

import (
	"fmt"

	"github.com/blorente/gograce/pkg/ast"
)

// UnknownNodeError is raised when the evaluator is handed an AST node
// variant its type switch does not recognize, or when a MethodDef's Body
// does not hold the *ast.Block the evaluator expects. This indicates a
// parser/evaluator mismatch rather than a user scripting error.
type UnknownNodeError struct {
	Node ast.Node
}

func (e *UnknownNodeError) Error() string {
	if e.Node == nil {
		return "evaluator: method or block body is not a block"
	}
	return fmt.Sprintf("evaluator: unhandled AST node %T", e.Node)
}

// RecursionLimitError is raised when invoking a user method or block would
// push the invocation depth past the evaluator's configured MaxDepth. This
// is an embedder-level safety net (spec.md describes no such limit as part
// of the language itself), guarding against runaway unbounded recursion
// such as a method that calls itself with no base case.
type RecursionLimitError struct {
	Limit int
}

func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("evaluator: recursion limit of %d exceeded", e.Limit)
}
