package parser

import (
	"testing"

	"github.com/blorente/gograce/internal/lexer"
	"github.com/blorente/gograce/pkg/ast"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(lexer.New(src))
	program := p.ParseProgram()
	if len(p.Errors()) != 0 {
		t.Fatalf("parser errors for %q: %v", src, p.Errors())
	}
	return program
}

func TestParsesLiterals(t *testing.T) {
	program := parseProgram(t, "true")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	lit, ok := stmt.Expression.(*ast.BooleanLiteral)
	if !ok || lit.Value != true {
		t.Fatalf("expected BooleanLiteral(true), got %#v", stmt.Expression)
	}
}

func TestInfixOperatorDesugarsToExplicitRequest(t *testing.T) {
	program := parseProgram(t, "1 + 2")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	req, ok := stmt.Expression.(*ast.ExplicitRequestNode)
	if !ok {
		t.Fatalf("expected ExplicitRequestNode, got %#v", stmt.Expression)
	}
	if req.Selector != "+(_)" {
		t.Fatalf("expected selector +(_), got %s", req.Selector)
	}
	if len(req.Args) != 1 {
		t.Fatalf("expected 1 arg, got %d", len(req.Args))
	}
}

func TestPrefixNot(t *testing.T) {
	program := parseProgram(t, "!true")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	req, ok := stmt.Expression.(*ast.ExplicitRequestNode)
	if !ok || req.Selector != "prefix!" {
		t.Fatalf("expected prefix! request, got %#v", stmt.Expression)
	}
}

func TestVariableAndConstantDeclarations(t *testing.T) {
	program := parseProgram(t, "var x := 5\ndef y = 10")

	v, ok := program.Statements[0].(*ast.VariableDeclaration)
	if !ok || v.Name != "x" {
		t.Fatalf("expected VariableDeclaration x, got %#v", program.Statements[0])
	}
	c, ok := program.Statements[1].(*ast.ConstantDeclaration)
	if !ok || c.Name != "y" {
		t.Fatalf("expected ConstantDeclaration y, got %#v", program.Statements[1])
	}
}

func TestAssignment(t *testing.T) {
	program := parseProgram(t, "x := 5")
	a, ok := program.Statements[0].(*ast.Assignment)
	if !ok || a.Name != "x" {
		t.Fatalf("expected Assignment x, got %#v", program.Statements[0])
	}
}

func TestMethodDeclarationOperatorSelector(t *testing.T) {
	program := parseProgram(t, `method +(other) { return self }`)
	m, ok := program.Statements[0].(*ast.MethodDeclaration)
	if !ok {
		t.Fatalf("expected MethodDeclaration, got %#v", program.Statements[0])
	}
	if m.Selector != "+(_)" {
		t.Fatalf("expected selector +(_), got %s", m.Selector)
	}
	if len(m.Params) != 1 || m.Params[0].Name != "other" {
		t.Fatalf("unexpected params: %#v", m.Params)
	}
}

func TestMethodDeclarationPrefixSelector(t *testing.T) {
	program := parseProgram(t, `method prefix! { return false }`)
	m := program.Statements[0].(*ast.MethodDeclaration)
	if m.Selector != "prefix!" {
		t.Fatalf("expected prefix!, got %s", m.Selector)
	}
}

func TestBlockLiteralWithParams(t *testing.T) {
	program := parseProgram(t, `{ x -> x }`)
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	block, ok := stmt.Expression.(*ast.Block)
	if !ok {
		t.Fatalf("expected Block, got %#v", stmt.Expression)
	}
	if len(block.Params) != 1 || block.Params[0].Name != "x" {
		t.Fatalf("unexpected params: %#v", block.Params)
	}
	if len(block.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(block.Statements))
	}
}

func TestObjectConstructor(t *testing.T) {
	program := parseProgram(t, `object { def x = 1 }`)
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	obj, ok := stmt.Expression.(*ast.ObjectConstructor)
	if !ok {
		t.Fatalf("expected ObjectConstructor, got %#v", stmt.Expression)
	}
	if len(obj.Body.Statements) != 1 {
		t.Fatalf("expected 1 statement in object body, got %d", len(obj.Body.Statements))
	}
}

func TestIfThenElse(t *testing.T) {
	program := parseProgram(t, `if (true) then { 1 } else { 2 }`)
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	ite, ok := stmt.Expression.(*ast.IfThenElse)
	if !ok {
		t.Fatalf("expected IfThenElse, got %#v", stmt.Expression)
	}
	if len(ite.Then.Statements) != 1 || len(ite.Else.Statements) != 1 {
		t.Fatalf("unexpected branch shapes: %#v", ite)
	}
}

func TestExplicitRequestWithReceiver(t *testing.T) {
	program := parseProgram(t, `x.f(true, false)`)
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	req, ok := stmt.Expression.(*ast.ExplicitRequestNode)
	if !ok {
		t.Fatalf("expected ExplicitRequestNode, got %#v", stmt.Expression)
	}
	if req.Selector != "f(_,_)" {
		t.Fatalf("expected selector f(_,_), got %s", req.Selector)
	}
}

func TestWhileLoop(t *testing.T) {
	program := parseProgram(t, `while (true) { x := 1 }`)
	w, ok := program.Statements[0].(*ast.While)
	if !ok {
		t.Fatalf("expected While, got %#v", program.Statements[0])
	}
	if len(w.Body.Statements) != 1 {
		t.Fatalf("expected 1 statement in while body, got %d", len(w.Body.Statements))
	}
}
