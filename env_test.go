package rucc

import "testing"

func TestEnvDeclareAndLookupShadowing(t *testing.T) {
	e := NewEnv()
	if !e.Declare("x", Int) {
		t.Fatal("first declaration of x should succeed")
	}
	if e.Declare("x", Long) {
		t.Fatal("redeclaring x in the same frame should fail")
	}

	e.PushBlock()
	if !e.Declare("x", Char) {
		t.Fatal("declaring x in a nested block should shadow the outer one")
	}
	got, ok := e.Lookup("x")
	if !ok || got.Kind != KindChar {
		t.Fatalf("Lookup(x) in nested block = %v, %v; want char, true", got, ok)
	}
	e.PopBlock()

	got, ok = e.Lookup("x")
	if !ok || got.Kind != KindInt {
		t.Fatalf("Lookup(x) after popping block = %v, %v; want int, true", got, ok)
	}
}

func TestEnvLookupWalksParentChain(t *testing.T) {
	e := NewEnv()
	e.Declare("g", Int)
	e.PushBlock()
	e.PushBlock()
	if _, ok := e.Lookup("g"); !ok {
		t.Fatal("Lookup should walk outward through nested blocks to find a global")
	}
	e.PopBlock()
	e.PopBlock()
}

func TestEnvUndeclaredLookupFails(t *testing.T) {
	e := NewEnv()
	if _, ok := e.Lookup("nope"); ok {
		t.Fatal("Lookup of an undeclared name should fail")
	}
}

func TestEnvCurrentFunctionTracksNearestEnclosing(t *testing.T) {
	e := NewEnv()
	if _, ok := e.CurrentFunction(); ok {
		t.Fatal("CurrentFunction should report false at global scope")
	}
	e.PushFunction("f", Int)
	tag, ok := e.CurrentFunction()
	if !ok || tag.FuncName != "f" || tag.ReturnType != Int {
		t.Fatalf("CurrentFunction = %+v, %v; want f/int, true", tag, ok)
	}
	e.PushBlock()
	tag, ok = e.CurrentFunction()
	if !ok || tag.FuncName != "f" {
		t.Fatal("CurrentFunction should see through a nested block to the enclosing function")
	}
	e.PopBlock()
	e.PopFunction()
	if _, ok := e.CurrentFunction(); ok {
		t.Fatal("CurrentFunction should report false again after popping the function")
	}
}

func TestEnvDeclareFunctionFirstDeclThenMatchingDefIsOK(t *testing.T) {
	e := NewEnv()
	sig := FuncSig{ReturnType: Int, Params: []Param{{Type: Int, Name: "x"}}}
	mismatch, redef := e.DeclareFunction("f", sig, false)
	if mismatch || redef {
		t.Fatalf("first declaration should succeed cleanly, got mismatch=%v redef=%v", mismatch, redef)
	}
	mismatch, redef = e.DeclareFunction("f", sig, true)
	if mismatch || redef {
		t.Fatalf("a matching definition following a declaration should succeed, got mismatch=%v redef=%v", mismatch, redef)
	}
	sig2, ok := e.LookupFunction("f")
	if !ok || len(sig2.Params) != 1 {
		t.Fatalf("LookupFunction(f) = %+v, %v; want the declared signature", sig2, ok)
	}
}

func TestEnvDeclareFunctionArityMismatchIsDetected(t *testing.T) {
	e := NewEnv()
	e.DeclareFunction("f", FuncSig{ReturnType: Int}, false)
	mismatch, _ := e.DeclareFunction("f", FuncSig{ReturnType: Int, Params: []Param{{Type: Int, Name: "x"}}}, false)
	if !mismatch {
		t.Fatal("a second declaration with a different arity should be a mismatch")
	}
}

func TestEnvDeclareFunctionSecondDefinitionIsRedefinition(t *testing.T) {
	e := NewEnv()
	sig := FuncSig{ReturnType: Int}
	e.DeclareFunction("f", sig, true)
	_, redef := e.DeclareFunction("f", sig, true)
	if !redef {
		t.Fatal("defining the same function twice should be reported as a redefinition")
	}
}

func TestEnvLookupFunctionPrefersDefinitionOverDeclaration(t *testing.T) {
	e := NewEnv()
	declSig := FuncSig{ReturnType: Int, Params: []Param{{Type: Int, Name: "a"}}}
	e.DeclareFunction("f", declSig, false)
	defSig := FuncSig{ReturnType: Int, Params: []Param{{Type: Int, Name: "renamed"}}}
	e.DeclareFunction("f", defSig, true)
	got, ok := e.LookupFunction("f")
	if !ok || got.Params[0].Name != "renamed" {
		t.Fatalf("LookupFunction should return the definition's signature, got %+v", got)
	}
}
