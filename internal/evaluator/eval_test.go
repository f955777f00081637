package evaluator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blorente/gograce/internal/evaluator"
	"github.com/blorente/gograce/internal/lexer"
	"github.com/blorente/gograce/internal/parser"
	"github.com/blorente/gograce/internal/runtime"
)

func run(t *testing.T, src string) (*runtime.Value, *evaluator.Evaluator) {
	t.Helper()
	p := parser.New(lexer.New(src))
	program := p.ParseProgram()
	require.Empty(t, p.Errors(), "parse errors for %q", src)

	e := evaluator.New(nil)
	result, err := e.EvaluateAST(program)
	require.NoError(t, err, "eval error for %q", src)
	return result, e
}

// 1. Literal.
func TestLiteralBoolean(t *testing.T) {
	result, _ := run(t, "true")
	assert.Equal(t, runtime.KindBoolean, result.Kind)
	assert.True(t, result.Bool)
}

// 2. Prefix not.
func TestPrefixNot(t *testing.T) {
	result, _ := run(t, "!true")
	assert.False(t, result.Bool)
}

// 3. Short-circuit and (spec's example is a plain literal &&, not actual
// short-circuit evaluation: arguments are always evaluated eagerly per
// spec.md §4.6's "argument evaluation order is left-to-right and strictly
// before receiver dispatch").
func TestBooleanAnd(t *testing.T) {
	result, _ := run(t, "true && false")
	assert.False(t, result.Bool)
}

// 4. Block apply.
func TestBlockApply(t *testing.T) {
	result, _ := run(t, `
def blk = { x -> !x; return }
blk.apply(true)
`)
	assert.Equal(t, runtime.KindBoolean, result.Kind)
	assert.False(t, result.Bool)
}

// 5. User method via implicit request.
func TestUserMethodImplicitRequest(t *testing.T) {
	result, _ := run(t, `
def tru = true
def fal = false
method myAnd(a, b) { return a && b }
myAnd(true, false)
`)
	assert.False(t, result.Bool)
}

// 6. Object method via explicit receiver.
func TestObjectMethodExplicitReceiver(t *testing.T) {
	result, _ := run(t, `
def x = object {
    method f(p) { return p }
}
x.f(false)
`)
	assert.False(t, result.Bool)
}

// 7. VariableReference fail-then-succeed.
func TestVariableReferenceFailThenSucceed(t *testing.T) {
	p := parser.New(lexer.New("x"))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	e := evaluator.New(nil)
	_, err := e.EvaluateAST(program)
	require.Error(t, err)
	var undef *runtime.UndefinedNameError
	require.ErrorAs(t, err, &undef)

	e.CurrentScope().SetField("x", e.Heap.MakeBoolean(true))
	result, err := e.EvaluateAST(program)
	require.NoError(t, err)
	assert.True(t, result.Bool)
}

// 8. String comparison.
func TestStringComparison(t *testing.T) {
	result, _ := run(t, `
def a = "hello"
def b = "world"
a < b
`)
	assert.True(t, result.Bool)

	result, _ = run(t, `
def a = "hello"
def b = "world"
a > b
`)
	assert.False(t, result.Bool)

	result, _ = run(t, `
def a = "hello"
a == "hello"
`)
	assert.True(t, result.Bool)
}

func TestConstantReassignmentFails(t *testing.T) {
	p := parser.New(lexer.New("def x = 1\nx := 2"))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	e := evaluator.New(nil)
	_, err := e.EvaluateAST(program)
	require.Error(t, err)
	var reassign *runtime.ConstantReassignmentError
	require.ErrorAs(t, err, &reassign)
}

func TestAssignmentToUndeclaredNameFails(t *testing.T) {
	p := parser.New(lexer.New("x := 2"))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	e := evaluator.New(nil)
	_, err := e.EvaluateAST(program)
	require.Error(t, err)
	var undef *runtime.UndefinedNameError
	require.ErrorAs(t, err, &undef)
}

func TestIfThenElse(t *testing.T) {
	result, _ := run(t, `if (false) then { 1 } else { 2 }`)
	assert.Equal(t, 2.0, result.Num)
}

func TestIfThenWithoutElseYieldsDoneWhenFalse(t *testing.T) {
	result, _ := run(t, `if (false) then { 1 }`)
	assert.Equal(t, runtime.KindDone, result.Kind)
}

func TestWhileLoopAccumulates(t *testing.T) {
	result, _ := run(t, `
var i := 0
var total := 0
while (i < 5) {
    total := total + i
    i := i + 1
}
total
`)
	assert.Equal(t, 10.0, result.Num)
}

func TestReturnEscapesMethodEarly(t *testing.T) {
	result, _ := run(t, `
method f() {
    return 1
    return 2
}
f()
`)
	assert.Equal(t, 1.0, result.Num)
}

func TestReturnInsideWhileEscapesEnclosingMethod(t *testing.T) {
	result, _ := run(t, `
method f() {
    var i := 0
    while (i < 10) {
        if (i == 3) then { return i }
        i := i + 1
    }
    return -1
}
f()
`)
	assert.Equal(t, 3.0, result.Num)
}

func TestLexicalCaptureUsesDefiningScopeNotCallerScope(t *testing.T) {
	result, _ := run(t, `
def makeBlk = object {
    var captured := 1
    method get() { return { captured } }
}
def blk = makeBlk.get()
var captured := 999
blk.apply()
`)
	assert.Equal(t, 1.0, result.Num)
}

// Selectors encode arity, so `f(1)` requests `f(_)`, which nothing in the
// scope chain defines: the call fails as an undefined name rather than
// reaching the two-parameter `f(_,_)`.
func TestWrongArgumentCountIsUndefinedName(t *testing.T) {
	p := parser.New(lexer.New("method f(a, b) { return a }\nf(1)"))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	e := evaluator.New(nil)
	_, err := e.EvaluateAST(program)
	require.Error(t, err)
	var undef *runtime.UndefinedNameError
	require.ErrorAs(t, err, &undef)
}

func TestTypeMismatchOnIfCondition(t *testing.T) {
	p := parser.New(lexer.New("if (1) then { true }"))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	e := evaluator.New(nil)
	_, err := e.EvaluateAST(program)
	require.Error(t, err)
	var mismatch *runtime.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestRecursionLimitStopsUnboundedSelfCall(t *testing.T) {
	p := parser.New(lexer.New(`
method loop(n) { return loop(n + 1) }
loop(0)
`))
	program := p.ParseProgram()
	require.Empty(t, p.Errors())

	e := evaluator.NewWithDepthLimit(nil, 50)
	_, err := e.EvaluateAST(program)
	require.Error(t, err)
	var limit *evaluator.RecursionLimitError
	require.ErrorAs(t, err, &limit)
	assert.Equal(t, 50, limit.Limit)
}

func TestNoRecursionLimitByDefault(t *testing.T) {
	result, _ := run(t, `
method count(n) {
    if (n >= 2000) then { return n }
    return count(n + 1)
}
count(0)
`)
	assert.Equal(t, 2000.0, result.Num)
}
