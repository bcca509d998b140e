package rucc

import "fmt"

// Checker walks the untyped AST, annotating every expression in place and
// validating spec.md §4.3's semantic rules. Grounded throughout on
// original_source/typechecker.rs (the only available reference
// implementation of this exact pass); re-expressed with explicit Go error
// returns instead of Rust's Result, and wrapCastUp/wrapScaleDown-style
// node-replacement helpers (ast.go) instead of the `cast!` macro.
//
// exprType returns both the resolved type AND the (possibly wrapped)
// expression: most nodes annotate themselves in place and return themselves
// unchanged, but a pointer-difference Binary node must be replaced by its
// caller with a ScaleDown wrapper (spec.md §8's "Scale-down after pointer
// diff" law) — Go has no mutable self-reference the way Rust's `cast!`
// macro swaps a node through &mut self, so the replacement is threaded back
// through the return value instead and the caller is responsible for
// storing it in whatever slot held the original child.
type Checker struct {
	env   *Env
	diags []*Diagnostic

	foundMain bool

	funcStackSize map[string]int
	curStackSize  int
	curFuncName   string

	constLabels     map[string]int
	constLabelCount int
}

// Check runs the type checker over a parsed program. It returns the two
// tables handed to the code generator (spec.md §4.3 "Result") and any
// diagnostics; a non-empty diagnostic slice means the AST must not be handed
// to code generation (spec.md §7).
func Check(stmts []Stmt) (funcStackSize map[string]int, constLabels map[string]int, diags []*Diagnostic) {
	c := &Checker{
		env:           NewEnv(),
		funcStackSize: make(map[string]int),
		constLabels:   make(map[string]int),
	}
	for _, s := range stmts {
		c.checkTopLevel(s)
	}
	if !c.foundMain {
		c.diags = append(c.diags, missingEntrypoint())
	}
	return c.funcStackSize, c.constLabels, c.diags
}

func (c *Checker) errorf(tok Token, format string, args ...interface{}) {
	c.diags = append(c.diags, newDiagnostic(tok, fmt.Sprintf(format, args...)))
}

// --- top level ---

func (c *Checker) checkTopLevel(s Stmt) {
	switch n := s.(type) {
	case *FunctionDeclaration:
		c.functionDeclaration(n)
	case *Function:
		c.functionDefinition(n)
	case *DeclareVar, *InitVar, *InitList:
		c.checkStatement(s) // globals share the declare/init machinery, is_global already set true
	default:
		c.diags = append(c.diags, &Diagnostic{Msg: "statement not allowed at global scope"})
	}
}

func (c *Checker) functionDeclaration(n *FunctionDeclaration) {
	sig := FuncSig{ReturnType: n.ReturnType, Params: n.Params}
	mismatch, _ := c.env.DeclareFunction(n.Name, sig, false)
	if mismatch {
		c.errorf(n.Tok, "conflicting declaration of function '%s'", n.Name)
	}
}

// functionDefinition implements spec.md §4.3's 9-step "Function definition".
func (c *Checker) functionDefinition(n *Function) {
	sig := FuncSig{ReturnType: n.ReturnType, Params: n.Params}
	mismatch, redef := c.env.DeclareFunction(n.Name, sig, true)
	if mismatch {
		c.errorf(n.Tok, "conflicting declaration of function '%s'", n.Name)
		return
	}
	if redef {
		c.errorf(n.Tok, "redefinition of function '%s'", n.Name)
		return
	}

	if n.Name == "main" {
		c.foundMain = true
		if n.ReturnType.Kind != KindInt {
			c.errorf(n.Tok, "'main' must return int")
		}
	}

	c.env.PushFunction(n.Name, n.ReturnType)
	prevName, prevSize := c.curFuncName, c.curStackSize
	c.curFuncName, c.curStackSize = n.Name, 0
	c.funcStackSize[n.Name] = 0

	for _, param := range n.Params {
		c.incrementStackSize(param.Type)
		if !c.env.Declare(param.Name, param.Type) {
			c.errorf(param.Tok, "redefinition of parameter '%s'", param.Name)
		}
	}

	returnsAllPaths := c.checkBlockBody(n.Body)

	if n.Name == "main" && !returnsAllPaths {
		n.Body.Stmts = append(n.Body.Stmts, &Return{
			Keyword: n.Tok,
			Value:   &Number{ExprInfo: ExprInfo{Type: Int, Kind: Rvalue}, Value: 0, Tok: n.Tok},
		})
		returnsAllPaths = true
	}

	if n.ReturnType.Kind != KindVoid && !returnsAllPaths {
		c.errorf(n.Tok, "function '%s' does not return a value on all paths", n.Name)
	}

	c.funcStackSize[n.Name] = alignBy(c.curStackSize, 16)
	c.curFuncName, c.curStackSize = prevName, prevSize
	c.env.PopFunction()
}

// incrementStackSize grows the current function's frame by size(t), then
// re-aligns to size(t) — spec.md §4.3 "Variable initialization": "Locals
// cause the enclosing function's frame size to be incremented by size(T),
// then re-aligned to size(T)." Grounded on
// original_source/typechecker.rs's increment_stack_size.
func (c *Checker) incrementStackSize(t *Type) {
	c.curStackSize += t.Size()
	c.curStackSize = alignBy(c.curStackSize, t.Alignment())
}

// alignBy rounds offset up to the next multiple of size, per
// original_source/typechecker.rs's align_by (align_by(12,8)=16,
// align_by(9,4)=12, align_by(31,16)=32, align_by(5,16)=16).
func alignBy(offset, size int) int {
	if size <= 0 {
		return offset
	}
	rem := offset % size
	if rem == 0 {
		return offset
	}
	return offset + (size - rem)
}

// --- statements ---

// checkBlockBody opens no new scope (the function's own frame is already
// current) and returns whether the body returns on all paths.
func (c *Checker) checkBlockBody(b *Block) bool {
	returnsAllPaths := false
	for _, s := range b.Stmts {
		returnsAllPaths = c.checkStatement(s)
	}
	return returnsAllPaths
}

// checkStatement dispatches on statement kind and returns the updated
// returns_all_paths flag for definite-return analysis (spec.md §4.3).
func (c *Checker) checkStatement(s Stmt) bool {
	switch n := s.(type) {
	case *DeclareVar:
		c.declareVar(n)
		return false
	case *InitVar:
		c.initVar(n)
		return false
	case *InitList:
		c.initList(n)
		return false
	case *Return:
		c.returnStatement(n)
		return true
	case *If:
		return c.ifStatement(n)
	case *While:
		c.whileStatement(n)
		return false
	case *Block:
		c.env.PushBlock()
		defer c.env.PopBlock()
		return c.checkBlockBody(n)
	case *ExprStmt:
		e, _ := c.exprType(n.Expr)
		n.Expr = e
		return false
	case *Function, *FunctionDeclaration:
		c.errorf(Token{}, "nested function declarations are not allowed")
		return false
	}
	return false
}

func (c *Checker) declareVar(n *DeclareVar) {
	if n.Type.Kind == KindVoid {
		c.errorf(n.Tok, "variable '%s' cannot have type void", n.Name)
		return
	}
	if !c.env.Declare(n.Name, n.Type) {
		c.errorf(n.Tok, "redefinition of '%s'", n.Name)
		return
	}
	if !n.IsGlobal {
		c.incrementStackSize(n.Type)
	}
}

// initVar implements spec.md §4.3 "Variable initialization" for a single
// initializer expression.
func (c *Checker) initVar(n *InitVar) {
	if n.Type.Kind == KindVoid {
		c.errorf(n.Tok, "variable '%s' cannot have type void", n.Name)
		return
	}
	if !c.env.Declare(n.Name, n.Type) {
		c.errorf(n.Tok, "redefinition of '%s'", n.Name)
		return
	}

	rhsExpr, rhs := c.exprType(n.Init)
	n.Init = rhsExpr

	// char-array-from-string-literal special case: no decay, string stored as-is.
	if n.Type.IsArray() && n.Type.Elem.Kind == KindChar {
		if _, ok := n.Init.(*StringLit); ok {
			if n.IsGlobal && !c.isConstant(n.Init) {
				c.errorf(n.Tok, "global initializer for '%s' must be a compile-time constant", n.Name)
			}
			if !n.IsGlobal {
				c.incrementStackSize(n.Type)
			}
			return
		}
	}

	if n.IsGlobal {
		if !c.isConstant(n.Init) {
			c.errorf(n.Tok, "global initializer for '%s' must be a compile-time constant", n.Name)
		}
	}

	n.Init = c.assignConvert(n.Tok, n.Type, rhs, n.Init)

	if !n.IsGlobal {
		c.incrementStackSize(n.Type)
	}
}

func (c *Checker) initList(n *InitList) {
	if !c.env.Declare(n.Name, n.Type) {
		c.errorf(n.Tok, "redefinition of '%s'", n.Name)
		return
	}
	elemType := n.Type.Elem
	for i, e := range n.Elems {
		rhsExpr, rhs := c.exprType(e)
		if n.IsGlobal && !c.isConstant(rhsExpr) {
			c.errorf(n.Tok, "global initializer for '%s' must be a compile-time constant", n.Name)
		}
		n.Elems[i] = c.assignConvert(n.Tok, elemType, rhs, rhsExpr)
	}
	if !n.IsGlobal {
		c.incrementStackSize(n.Type)
	}
}

// isConstant mirrors original_source/typechecker.rs's is_constant: String,
// Number, CharLit literals and CastUp/CastDown of such are constant; an
// Assign is constant if its r_expr recursively is.
func (c *Checker) isConstant(e Expr) bool {
	switch n := e.(type) {
	case *Number, *CharLit, *StringLit:
		return true
	case *CastUp:
		return c.isConstant(n.Inner)
	case *CastDown:
		return c.isConstant(n.Inner)
	case *Assign:
		return c.isConstant(n.Value)
	case *Grouping:
		return c.isConstant(n.Inner)
	default:
		return false
	}
}

func (c *Checker) returnStatement(n *Return) {
	tag, ok := c.env.CurrentFunction()
	if !ok {
		c.errorf(n.Keyword, "return outside of a function")
		return
	}
	if n.Value == nil {
		if tag.ReturnType.Kind != KindVoid {
			c.errorf(n.Keyword, "non-void function must return a value")
		}
		return
	}
	if tag.ReturnType.Kind == KindVoid {
		c.errorf(n.Keyword, "void function must not return a value")
		return
	}
	rhsExpr, rhs := c.exprType(n.Value)
	rhsExpr, rhs = c.decayIfArray(rhsExpr, rhs)
	n.Value = c.assignConvert(n.Keyword, tag.ReturnType, rhs, rhsExpr)
}

// ifStatement implements the definite-return rule: true only if both
// branches are true (spec.md §4.3 "Definite-return analysis").
func (c *Checker) ifStatement(n *If) bool {
	condExpr, cond := c.exprType(n.Cond)
	n.Cond = condExpr
	if cond.Decay().IsVoid() {
		c.errorf(n.Keyword, "if condition must not be void")
	}
	thenReturns := c.checkStatement(n.Then)
	elseReturns := false
	if n.Else != nil {
		elseReturns = c.checkStatement(n.Else)
	}
	return thenReturns && elseReturns
}

// whileStatement always resets returns_all_paths to false after the loop,
// regardless of the body, per spec.md §4.3.
func (c *Checker) whileStatement(n *While) {
	condExpr, cond := c.exprType(n.Cond)
	n.Cond = condExpr
	if cond.Decay().IsVoid() {
		c.errorf(n.Keyword, "while condition must not be void")
	}
	c.checkStatement(n.Body)
}

// --- assignment typing (shared by Assign, InitVar, InitList, Return, Call-args) ---

// assignConvert implements spec.md §4.3 "Assignment typing": compatibility
// check, then CastUp/CastDown to match target size if sizes differ.
func (c *Checker) assignConvert(tok Token, target, rhs *Type, rhsExpr Expr) Expr {
	rhsExpr, rhs = c.decayIfArray(rhsExpr, rhs)
	if !Compatible(target, rhs) {
		c.errorf(tok, "incompatible types: cannot assign %s to %s", rhs, target)
		return rhsExpr
	}
	if target.Size() == rhs.Size() {
		return rhsExpr
	}
	if target.Size() > rhs.Size() {
		return wrapCastUp(rhsExpr, target)
	}
	return wrapCastDown(rhsExpr, target)
}

// decayIfArray applies spec.md §4.3 "Array decay" to e/t: array-typed
// expressions become rvalue pointer(element) in place (no wrapping needed,
// unlike Cast/Scale — decay only ever changes the node's own annotation).
func (c *Checker) decayIfArray(e Expr, t *Type) (Expr, *Type) {
	if !t.IsArray() {
		return e, t
	}
	decayed := t.Decay()
	e.Info().Type = decayed
	e.Info().Kind = Rvalue
	return e, decayed
}

// --- expression typing: the central annotator ---

// exprType recursively annotates e, returning its resolved type and the
// (possibly replaced) expression node. Grounded on
// original_source/typechecker.rs's expr_type, the key in-place-mutation
// function.
func (c *Checker) exprType(e Expr) (Expr, *Type) {
	switch n := e.(type) {
	case *Number:
		n.Type = Int
		return n, Int
	case *CharLit:
		n.Type = Char
		return n, Char
	case *StringLit:
		return c.stringLiteral(n)
	case *Ident:
		return c.identExpr(n)
	case *Grouping:
		innerExpr, innerType := c.exprType(n.Inner)
		n.Inner = innerExpr
		n.Type = innerType
		n.Kind = innerExpr.Info().Kind
		return n, innerType
	case *Unary:
		return c.unaryExpr(n)
	case *PostUnary:
		return c.postUnary(n)
	case *Binary:
		return c.binaryExpr(n)
	case *Logical:
		return c.logicalExpr(n)
	case *Assign:
		return c.assignExpr(n)
	case *CompoundAssign:
		return c.compoundAssign(n)
	case *Call:
		return c.callExpr(n)
	case *CastUp:
		return n, n.Type
	case *CastDown:
		return n, n.Type
	case *ScaleUp:
		return n, n.Type
	case *ScaleDown:
		return n, n.Type
	}
	panic("rucc: unreachable expression kind in exprType")
}

// stringLiteral interns the literal text, assigning a fresh ordinal label on
// first occurrence (spec.md §4.3 "String literals"; §9 "keyed by raw text").
func (c *Checker) stringLiteral(n *StringLit) (Expr, *Type) {
	if label, ok := c.constLabels[n.Value]; ok {
		n.Label = label
	} else {
		label = c.constLabelCount
		c.constLabelCount++
		c.constLabels[n.Value] = label
		n.Label = label
	}
	t := ArrayOf(Char, len(n.Value)+1)
	n.Type = t
	n.Kind = Lvalue
	return n, t
}

func (c *Checker) identExpr(n *Ident) (Expr, *Type) {
	t, ok := c.env.Lookup(n.Name)
	if !ok {
		c.errorf(n.Tok, "undeclared identifier '%s'", n.Name)
		n.Type = Int
		return n, Int
	}
	n.Type = t
	n.Kind = Lvalue
	return n, t
}

// unaryExpr implements spec.md §4.3 "Unary": * deref, & address-of (no
// array decay under &), ! logical-not, -/~ promote-and-negate.
func (c *Checker) unaryExpr(n *Unary) (Expr, *Type) {
	switch n.Op.Type {
	case AMP:
		operandExpr, operandType := c.exprType(n.Operand)
		n.Operand = operandExpr
		if operandExpr.Info().Kind != Lvalue {
			c.errorf(n.Op, "cannot take the address of an rvalue")
		}
		t := PointerTo(operandType)
		n.Type = t
		n.Kind = Rvalue
		return n, t
	case STAR:
		operandExpr, operandType := c.exprType(n.Operand)
		operandExpr, decayed := c.decayIfArray(operandExpr, operandType)
		n.Operand = operandExpr
		elem, ok := decayed.Deref()
		if !ok {
			c.errorf(n.Op, "cannot dereference non-pointer type %s", decayed)
			elem = Int
		}
		n.Type = elem
		n.Kind = Lvalue
		return n, elem
	case BANG:
		operandExpr, operandType := c.exprType(n.Operand)
		operandExpr, decayed := c.decayIfArray(operandExpr, operandType)
		n.Operand = operandExpr
		if decayed.IsVoid() {
			c.errorf(n.Op, "operand of '!' must not be void")
		}
		n.Type = Int
		n.Kind = Rvalue
		return n, Int
	case MINUS, TILDE:
		operandExpr, operandType := c.exprType(n.Operand)
		operandExpr, decayed := c.decayIfArray(operandExpr, operandType)
		if decayed.IsPointer() {
			c.errorf(n.Op, "operator '%s' not allowed on pointer operand", n.Op.Type)
		}
		operandExpr = c.maybeIntPromote(operandExpr, decayed)
		n.Operand = operandExpr
		n.Type = Int
		n.Kind = Rvalue
		return n, n.Type
	}
	panic("rucc: unreachable unary operator")
}

// maybeIntPromote inserts CastUp when t's rank is below int's, per spec.md
// §4.3 "Integer promotion".
func (c *Checker) maybeIntPromote(e Expr, t *Type) Expr {
	if t.IsInteger() && t.promotionRank() < Int.promotionRank() {
		return wrapCastUp(e, Int)
	}
	return e
}

// postUnary implements spec.md §4.3 "Post-unary (e++, e--)".
func (c *Checker) postUnary(n *PostUnary) (Expr, *Type) {
	operandExpr, operandType := c.exprType(n.Operand)
	n.Operand = operandExpr
	if operandExpr.Info().Kind != Lvalue {
		c.errorf(n.Op, "operand of '%s' must be a modifiable lvalue", n.Op.Type)
	}
	if operandType.IsArray() {
		c.errorf(n.Op, "operand of '%s' must not be an array", n.Op.Type)
	}
	if operandType.IsPointer() {
		elem, _ := operandType.Deref()
		n.ByAmount = elem.Size()
	} else {
		n.ByAmount = 1
	}
	n.Type = operandType
	n.Kind = Rvalue
	return n, operandType
}

// binaryExpr implements spec.md §4.3 "Binary-operator typing" in full,
// including the pointer-difference ScaleDown wrapping law from §8's "Laws".
func (c *Checker) binaryExpr(n *Binary) (Expr, *Type) {
	leftExpr, lt := c.exprType(n.Left)
	rightExpr, rt := c.exprType(n.Right)
	leftExpr, lt = c.decayIfArray(leftExpr, lt)
	rightExpr, rt = c.decayIfArray(rightExpr, rt)
	n.Left, n.Right = leftExpr, rightExpr

	if lt.IsVoid() || rt.IsVoid() {
		c.errorf(n.Op, "operand of '%s' must not be void", n.Op.Type)
		n.Type = Int
		n.Kind = Rvalue
		return n, Int
	}

	if lt.IsPointer() && rt.IsPointer() {
		return c.pointerPointerBinary(n, lt, rt)
	}
	if lt.IsPointer() != rt.IsPointer() {
		return c.pointerScalarBinary(n, lt, rt)
	}

	// both non-pointer: widen smaller to larger, result is the larger.
	n.Left = c.maybeIntPromote(n.Left, lt)
	n.Right = c.maybeIntPromote(n.Right, rt)
	lt = n.Left.Info().Type
	rt = n.Right.Info().Type
	if lt.promotionRank() < rt.promotionRank() {
		n.Left = wrapCastUp(n.Left, rt)
		n.Type = rt
	} else if rt.promotionRank() < lt.promotionRank() {
		n.Right = wrapCastUp(n.Right, lt)
		n.Type = lt
	} else {
		n.Type = lt
	}
	n.Kind = Rvalue
	return n, n.Type
}

var comparisonOps = map[TokenType]bool{EQ_EQ: true, BANG_EQ: true}

// pointerPointerBinary: only -, ==, != are valid, requiring compatible
// element types; p - q yields long, wrapped in ScaleDown(log2 size)
// (spec.md §4.3, §8's "Scale-down after pointer diff" law).
func (c *Checker) pointerPointerBinary(n *Binary, lt, rt *Type) (Expr, *Type) {
	le, _ := lt.Deref()
	re, _ := rt.Deref()
	if !Compatible(le, re) {
		c.errorf(n.Op, "incompatible pointer element types %s and %s", lt, rt)
	}
	if n.Op.Type != MINUS && !comparisonOps[n.Op.Type] {
		c.errorf(n.Op, "operator '%s' not allowed between two pointers", n.Op.Type)
	}
	if comparisonOps[n.Op.Type] {
		n.Type = Int
		n.Kind = Rvalue
		return n, Int
	}
	n.Type = Long
	n.Kind = Rvalue
	elemSize := le.Size()
	if elemSize < 1 {
		return n, Long
	}
	shift := log2(elemSize)
	return wrapScaleDown(n, shift, Long), Long
}

// pointerScalarBinary: exactly one side is a pointer — only + (either side)
// and - (pointer on LHS) are valid; the non-pointer side is scaled by the
// element size.
func (c *Checker) pointerScalarBinary(n *Binary, lt, rt *Type) (Expr, *Type) {
	var ptrType *Type
	if lt.IsPointer() {
		ptrType = lt
		if n.Op.Type != PLUS && n.Op.Type != MINUS {
			c.errorf(n.Op, "operator '%s' not allowed between pointer and integer", n.Op.Type)
		}
		n.Right = c.maybeIntPromote(n.Right, rt)
		elem, _ := ptrType.Deref()
		if elem.Size() > 1 {
			n.Right = wrapScaleUp(n.Right, elem.Size())
		}
	} else {
		ptrType = rt
		if n.Op.Type != PLUS {
			c.errorf(n.Op, "operator '%s' not allowed between integer and pointer unless pointer is the left operand", n.Op.Type)
		}
		n.Left = c.maybeIntPromote(n.Left, lt)
		elem, _ := ptrType.Deref()
		if elem.Size() > 1 {
			n.Left = wrapScaleUp(n.Left, elem.Size())
		}
	}
	n.Type = ptrType
	n.Kind = Rvalue
	return n, ptrType
}

// log2 returns the base-2 logarithm of x, requiring x to be a power of two
// (spec.md §3 ScaleDown); grounded on original_source/typechecker.rs's
// log_2 bit-trick, re-expressed as a shift loop.
func log2(x int) int {
	if x <= 0 {
		panic("rucc: log2 requires a positive power of two")
	}
	n := 0
	for x > 1 {
		x >>= 1
		n++
	}
	return n
}

// logicalExpr: && || force rvalue both sides, reject void, result int.
func (c *Checker) logicalExpr(n *Logical) (Expr, *Type) {
	leftExpr, lt := c.exprType(n.Left)
	rightExpr, rt := c.exprType(n.Right)
	leftExpr, lt = c.decayIfArray(leftExpr, lt)
	rightExpr, rt = c.decayIfArray(rightExpr, rt)
	n.Left, n.Right = leftExpr, rightExpr
	if lt.IsVoid() || rt.IsVoid() {
		c.errorf(n.Op, "operand of '%s' must not be void", n.Op.Type)
	}
	n.Type = Int
	n.Kind = Rvalue
	return n, Int
}

// assignExpr: LHS must be lvalue, arrays not assignable, RHS converted to
// LHS type (spec.md §4.3 "Assignment typing").
func (c *Checker) assignExpr(n *Assign) (Expr, *Type) {
	targetExpr, lt := c.exprType(n.Target)
	n.Target = targetExpr
	if targetExpr.Info().Kind != Lvalue {
		c.errorf(n.Op, "left-hand side of assignment must be an lvalue")
	}
	if lt.IsArray() {
		c.errorf(n.Op, "cannot assign to an array")
	}
	valueExpr, rt := c.exprType(n.Value)
	n.Value = c.assignConvert(n.Op, lt, rt, valueExpr)
	n.Type = lt
	n.Kind = Rvalue
	return n, lt
}

// compoundAssign: x op= e is typed as x = x op e but with x evaluated once;
// computed via the shared binary-typing logic. Any pointer-subtraction
// ScaleDown wrapping from binaryExpr is deliberately discarded here — only
// the resulting type matters, and ptr -= ptr is independently rejected below
// because Long is incompatible with a pointer target (spec.md §4.3
// "Compound assignment").
func (c *Checker) compoundAssign(n *CompoundAssign) (Expr, *Type) {
	targetExpr, lt := c.exprType(n.Target)
	n.Target = targetExpr
	if targetExpr.Info().Kind != Lvalue {
		c.errorf(n.Op, "left-hand side of compound assignment must be an lvalue")
	}
	synthetic := &Binary{ExprInfo: ExprInfo{Kind: Rvalue}, Op: comparisonOpToBinary(n.Op), Left: targetExpr, Right: n.Value}
	_, resultType := c.binaryExpr(synthetic)
	n.Value = synthetic.Right
	n.Target = synthetic.Left
	n.Type = lt
	if !Compatible(lt, resultType) {
		c.errorf(n.Op, "incompatible types in compound assignment: %s and %s", lt, resultType)
	}
	n.Kind = Rvalue
	return n, lt
}

// comparisonOpToBinary strips the trailing '=' of a compound-assignment
// operator to recover the underlying binary operator, e.g. PLUS_EQ -> PLUS
// (original_source/typechecker.rs's comp_to_binary). ++/-- lowering already
// hands the parser's synthetic PLUS/MINUS token through unchanged.
func comparisonOpToBinary(op Token) Token {
	var binType TokenType
	switch op.Type {
	case PLUS_EQ:
		binType = PLUS
	case MINUS_EQ:
		binType = MINUS
	case STAR_EQ:
		binType = STAR
	case SLASH_EQ:
		binType = SLASH
	case PERCENT_EQ:
		binType = PERCENT
	case AMP_EQ:
		binType = AMP
	case PIPE_EQ:
		binType = PIPE
	case CARET_EQ:
		binType = CARET
	case SHL_EQ:
		binType = SHL
	case SHR_EQ:
		binType = SHR
	default:
		binType = op.Type
	}
	return Token{Type: binType, Lexeme: tokenNames[binType], Line: op.Line, Column: op.Column, LineText: op.LineText}
}

// callExpr: callee must be an Ident naming a function declared or defined at
// global scope; args array-decay and are converted to the parameter types
// (spec.md §4.3 "Identifier resolution").
func (c *Checker) callExpr(n *Call) (Expr, *Type) {
	ident, ok := n.Callee.(*Ident)
	if !ok {
		c.errorf(n.Paren, "callee must be a function name")
		n.Type = Int
		n.Kind = Rvalue
		return n, Int
	}
	sig, found := c.env.LookupFunction(ident.Name)
	if !found {
		c.errorf(n.Paren, "call to undeclared function '%s'", ident.Name)
		n.Type = Int
		n.Kind = Rvalue
		return n, Int
	}
	ident.Type = sig.ReturnType

	if len(n.Args) != len(sig.Params) {
		c.errorf(n.Paren, "function '%s' expects %d argument(s), got %d", ident.Name, len(sig.Params), len(n.Args))
	}
	for i, arg := range n.Args {
		argExpr, at := c.exprType(arg)
		if i < len(sig.Params) {
			n.Args[i] = c.assignConvert(n.Paren, sig.Params[i].Type, at, argExpr)
		} else {
			n.Args[i] = argExpr
		}
	}

	n.Type = sig.ReturnType
	n.Kind = Rvalue
	return n, sig.ReturnType
}
