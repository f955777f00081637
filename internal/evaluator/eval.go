package evaluator

import (
	"github.com/blorente/gograce/internal/runtime"
	"github.com/blorente/gograce/pkg/ast"
)

// Eval evaluates a single AST node, updating e.partial with its result.
// Dispatch is a plain type switch keyed on node variant, not a
// virtual-method visitor: the evaluator owns all control flow, and node
// types own only their data (spec.md §9).
func (e *Evaluator) Eval(node ast.Node) error {
	e.hook.BeforeNode(node, e)
	if h, ok := e.hook.(Halter); ok {
		if halted, haltErr := h.Halted(); halted {
			return haltErr
		}
	}
	err := e.evalNode(node)
	e.hook.AfterNode(node, e)
	return err
}

func (e *Evaluator) evalNode(node ast.Node) error {
	switch n := node.(type) {

	case *ast.BooleanLiteral:
		e.partial = e.Heap.MakeBoolean(n.Value)
		return nil

	case *ast.NumberLiteral:
		e.partial = e.Heap.MakeNumber(n.Value)
		return nil

	case *ast.StringLiteral:
		e.partial = e.Heap.MakeString(n.Value)
		return nil

	case *ast.VariableReference:
		return e.evalImplicitRequest(n.Name, nil)

	case *ast.ConstantDeclaration:
		if err := e.Eval(n.Init); err != nil {
			return err
		}
		scope := e.scopes.Current()
		scope.SetField(n.Name, e.partial)
		scope.MarkConstant(n.Name)
		return nil

	case *ast.VariableDeclaration:
		if n.Init != nil {
			if err := e.Eval(n.Init); err != nil {
				return err
			}
		} else {
			e.partial = e.Heap.MakeDone()
		}
		e.scopes.Current().SetField(n.Name, e.partial)
		return nil

	case *ast.Assignment:
		if err := e.Eval(n.Value); err != nil {
			return err
		}
		return e.evalAssignment(n.Name, e.partial)

	case *ast.MethodDeclaration:
		params := paramNames(n.Params)
		def := runtime.NewUserMethod(params, n.Body, e.scopes.Current())
		e.scopes.Current().SetMethod(n.Selector, def)
		e.partial = e.Heap.MakeDone()
		return nil

	case *ast.Block:
		e.partial = e.Heap.MakeBlock(paramNames(n.Params), n, e.scopes.Current())
		return nil

	case *ast.ObjectConstructor:
		return e.evalObjectConstructor(n)

	case *ast.ImplicitRequestNode:
		args, err := e.evalArgs(n.Args)
		if err != nil {
			return err
		}
		return e.evalImplicitRequest(n.Selector, args)

	case *ast.ExplicitRequestNode:
		return e.evalExplicitRequest(n)

	case *ast.Return:
		if n.Value != nil {
			if err := e.Eval(n.Value); err != nil {
				return err
			}
		}
		e.returning = true
		return nil

	case *ast.IfThen:
		return e.evalIfThen(n.Condition, n.Then, nil)

	case *ast.IfThenElse:
		return e.evalIfThen(n.Condition, n.Then, n.Else)

	case *ast.While:
		return e.evalWhile(n)

	case *ast.ExpressionStatement:
		if n.Expression == nil {
			e.partial = e.Heap.MakeDone()
			return nil
		}
		return e.Eval(n.Expression)

	default:
		return &UnknownNodeError{Node: node}
	}
}

func paramNames(params []ast.Param) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

func (e *Evaluator) evalArgs(exprs []ast.Expression) ([]*runtime.Value, error) {
	args := make([]*runtime.Value, len(exprs))
	for i, expr := range exprs {
		if err := e.Eval(expr); err != nil {
			return nil, err
		}
		args[i] = e.partial
	}
	return args, nil
}

// evalImplicitRequest resolves a receiver-less request against the scope
// chain (spec.md §4.2 steps 2-5).
func (e *Evaluator) evalImplicitRequest(selector string, args []*runtime.Value) error {
	res, err := runtime.ResolveImplicit(e.scopes.Current(), selector, len(args))
	if err != nil {
		return err
	}
	if res.IsFieldRead {
		e.partial = res.FieldValue
		return nil
	}
	return e.invoke(res.Method, res.Receiver, args, selector)
}

func (e *Evaluator) evalExplicitRequest(n *ast.ExplicitRequestNode) error {
	if err := e.Eval(n.Receiver); err != nil {
		return err
	}
	receiver := e.partial

	args, err := e.evalArgs(n.Args)
	if err != nil {
		return err
	}

	def, err := runtime.LookupMethod(receiver, n.Selector)
	if err != nil {
		return err
	}
	return e.invoke(def, receiver, args, n.Selector)
}

// invoke dispatches to a native host function or pushes a fresh frame for
// a user-defined method/block body, per spec.md §4.2's invocation rules.
func (e *Evaluator) invoke(def *runtime.MethodDef, receiver *runtime.Value, args []*runtime.Value, selector string) error {
	if def.IsNative() {
		result, err := def.Native(receiver, args)
		if err != nil {
			return err
		}
		e.partial = result
		return nil
	}
	return e.invokeUser(def, args, selector)
}

// invokeUser runs a user method or block-apply body: a fresh scope whose
// parent is the definition's lexical scope (not the caller's current
// scope), one binding per parameter, sequential statement execution with
// Return short-circuiting, then the saved scope is restored.
func (e *Evaluator) invokeUser(def *runtime.MethodDef, args []*runtime.Value, selector string) error {
	if len(args) != len(def.Params) {
		return runtime.NewArityMismatchError(selector, len(def.Params), len(args))
	}
	if e.maxDepth > 0 && e.depth >= e.maxDepth {
		return &RecursionLimitError{Limit: e.maxDepth}
	}

	body, ok := def.Body.(*ast.Block)
	if !ok {
		return &UnknownNodeError{Node: nil}
	}

	saved := e.scopes.Current()
	frame := e.Heap.MakeScope(def.Defined)
	for i, p := range def.Params {
		frame.SetField(p, args[i])
	}
	e.scopes.SetScope(frame)
	e.depth++

	if len(body.Statements) == 0 {
		e.partial = e.Heap.MakeDone()
	}
	err := e.execStatements(body.Statements)
	e.returning = false
	e.depth--
	e.scopes.SetScope(saved)
	return err
}

// evalObjectConstructor implements spec.md §4.6's ObjectConstructor rule:
// the new UserObject itself stands in as the scope used while evaluating
// the body, so declarations land directly in the object's field/method
// maps and are visible to later statements in the same body via the usual
// scope-chain rules (its Parent is the enclosing scope at the point of
// construction, for names the body references but does not declare).
func (e *Evaluator) evalObjectConstructor(n *ast.ObjectConstructor) error {
	obj := e.Heap.MakeUserObject()
	obj.Parent = e.scopes.Current()

	saved := e.scopes.Current()
	e.scopes.SetScope(obj)
	err := e.execStatements(n.Body.Statements)
	e.returning = false
	e.scopes.SetScope(saved)
	if err != nil {
		return err
	}

	e.partial = obj
	return nil
}

func (e *Evaluator) evalIfThen(cond ast.Expression, then, els *ast.Block) error {
	if err := e.Eval(cond); err != nil {
		return err
	}
	if e.partial.Kind != runtime.KindBoolean {
		return runtime.NewTypeMismatchError(runtime.KindBoolean, e.partial.Kind)
	}
	branch := then
	taken := e.partial.Bool
	if !taken {
		branch = els
	}
	if branch == nil {
		e.partial = e.Heap.MakeDone()
		return nil
	}

	e.CreateNewScope()
	err := e.execStatements(branch.Statements)
	if restoreErr := e.RestoreScope(); err == nil {
		err = restoreErr
	}
	return err
}

func (e *Evaluator) evalWhile(n *ast.While) error {
	for {
		if err := e.Eval(n.Condition); err != nil {
			return err
		}
		if e.partial.Kind != runtime.KindBoolean {
			return runtime.NewTypeMismatchError(runtime.KindBoolean, e.partial.Kind)
		}
		if !e.partial.Bool {
			break
		}

		e.CreateNewScope()
		err := e.execStatements(n.Body.Statements)
		if restoreErr := e.RestoreScope(); err == nil {
			err = restoreErr
		}
		if err != nil {
			return err
		}
		if e.returning {
			// A Return inside the loop body must keep carrying its value
			// up to the enclosing method/block frame, not be overwritten
			// by the loop's own normal-exit value below.
			return nil
		}
	}
	e.partial = e.Heap.MakeDone()
	return nil
}

// evalAssignment implements spec.md §4.4: rebind name in the nearest scope
// where it already exists, failing if that binding is constant or if no
// such binding exists anywhere in the chain.
func (e *Evaluator) evalAssignment(name string, value *runtime.Value) error {
	for s := e.scopes.Current(); s != nil; s = s.Parent {
		if s.HasField(name) {
			if s.IsConstant(name) {
				return runtime.NewConstantReassignmentError(name)
			}
			s.SetField(name, value)
			return nil
		}
	}
	return runtime.NewUndefinedNameError(name)
}
