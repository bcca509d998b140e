package rucc

import "testing"

func mustLex(t *testing.T, src string) []Token {
	t.Helper()
	toks, diags := Lex(src)
	if len(diags) > 0 {
		t.Fatalf("Lex(%q) unexpected diagnostics: %v", src, diags)
	}
	return toks
}

func TestParseTopLevelShapes(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr bool
		check   func(t *testing.T, stmts []Stmt)
	}{
		{
			name: "function definition",
			src:  "int main() { return 0; }",
			check: func(t *testing.T, stmts []Stmt) {
				if len(stmts) != 1 {
					t.Fatalf("got %d top-level statements, want 1", len(stmts))
				}
				fn, ok := stmts[0].(*Function)
				if !ok {
					t.Fatalf("got %T, want *Function", stmts[0])
				}
				if fn.Name != "main" || fn.ReturnType != Int {
					t.Errorf("unexpected function shape: %+v", fn)
				}
			},
		},
		{
			name: "function declaration",
			src:  "int f(int x);",
			check: func(t *testing.T, stmts []Stmt) {
				decl, ok := stmts[0].(*FunctionDeclaration)
				if !ok {
					t.Fatalf("got %T, want *FunctionDeclaration", stmts[0])
				}
				if len(decl.Params) != 1 || decl.Params[0].Name != "x" {
					t.Errorf("unexpected params: %+v", decl.Params)
				}
			},
		},
		{
			name: "global declaration",
			src:  "int x;",
			check: func(t *testing.T, stmts []Stmt) {
				if _, ok := stmts[0].(*DeclareVar); !ok {
					t.Fatalf("got %T, want *DeclareVar", stmts[0])
				}
			},
		},
		{
			name: "global init",
			src:  "int x = 5;",
			check: func(t *testing.T, stmts []Stmt) {
				if _, ok := stmts[0].(*InitVar); !ok {
					t.Fatalf("got %T, want *InitVar", stmts[0])
				}
			},
		},
		{
			name: "global init list",
			src:  "int x[3] = {1, 2, 3};",
			check: func(t *testing.T, stmts []Stmt) {
				il, ok := stmts[0].(*InitList)
				if !ok {
					t.Fatalf("got %T, want *InitList", stmts[0])
				}
				if len(il.Elems) != 3 {
					t.Errorf("got %d elements, want 3", len(il.Elems))
				}
			},
		},
		{
			name: "pointer declarator",
			src:  "int *p;",
			check: func(t *testing.T, stmts []Stmt) {
				decl := stmts[0].(*DeclareVar)
				if !decl.Type.IsPointer() {
					t.Errorf("got %s, want a pointer type", decl.Type)
				}
			},
		},
		{
			name:    "bad top-level statement",
			src:     "return 1;",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts, diags := Parse(mustLex(t, tt.src))
			if tt.wantErr {
				if len(diags) == 0 {
					t.Fatalf("Parse(%q) = no error, want error", tt.src)
				}
				return
			}
			if len(diags) > 0 {
				t.Fatalf("Parse(%q) unexpected diagnostics: %v", tt.src, diags)
			}
			tt.check(t, stmts)
		})
	}
}

func TestParseForDesugarsToBlockWithWhile(t *testing.T) {
	src := "int main() { for (int i = 0; i < 10; i = i + 1) { x = i; } return 0; }"
	stmts, diags := Parse(mustLex(t, src))
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	fn := stmts[0].(*Function)
	block, ok := fn.Body.Stmts[0].(*Block)
	if !ok {
		t.Fatalf("got %T, want desugared *Block", fn.Body.Stmts[0])
	}
	if _, ok := block.Stmts[0].(*InitVar); !ok {
		t.Fatalf("first statement of desugared block should be the init, got %T", block.Stmts[0])
	}
	while, ok := block.Stmts[1].(*While)
	if !ok {
		t.Fatalf("second statement of desugared block should be *While, got %T", block.Stmts[1])
	}
	innerBlock, ok := while.Body.(*Block)
	if !ok {
		t.Fatalf("while body should be a *Block holding body+inc, got %T", while.Body)
	}
	if len(innerBlock.Stmts) != 2 {
		t.Fatalf("while body should hold [body, inc], got %d statements", len(innerBlock.Stmts))
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	src := "int main() { return 1 + 2 * 3; }"
	stmts, diags := Parse(mustLex(t, src))
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	fn := stmts[0].(*Function)
	ret := fn.Body.Stmts[0].(*Return)
	bin, ok := ret.Value.(*Binary)
	if !ok {
		t.Fatalf("got %T, want *Binary", ret.Value)
	}
	if bin.Op.Type != PLUS {
		t.Fatalf("top-level operator should be +, got %s", bin.Op.Type)
	}
	if _, ok := bin.Right.(*Binary); !ok {
		t.Fatalf("right operand should be the higher-precedence 2*3, got %T", bin.Right)
	}
}

func TestParsePreIncrementLoweredToCompoundAssign(t *testing.T) {
	src := "int main() { ++x; return 0; }"
	stmts, diags := Parse(mustLex(t, src))
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	fn := stmts[0].(*Function)
	es := fn.Body.Stmts[0].(*ExprStmt)
	ca, ok := es.Expr.(*CompoundAssign)
	if !ok {
		t.Fatalf("got %T, want *CompoundAssign", es.Expr)
	}
	if ca.Op.Type != PLUS {
		t.Fatalf("lowered pre-increment should use +, got %s", ca.Op.Type)
	}
}

func TestParseErrorRecoverySynchronizes(t *testing.T) {
	src := "int main() { 1 + ; return 0; }"
	_, diags := Parse(mustLex(t, src))
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want exactly 1 (parser should resynchronize and keep going): %v", len(diags), diags)
	}
}
