package ir

// Expr is the compilable source-form expression language described by
// §4.7's translation table. Predicate and Updater bodies carry an
// Expr tree (in addition to an eval.Evaluator) so the model-checker
// back-end can translate them without re-parsing JS or re-deriving
// semantics from the runtime closure. Front-ends that only hand the
// monitor a Native Go closure should still populate Expr with the
// equivalent tree, or leave it nil and accept that BuildActions will
// degrade that predicate/update to TRUE/no-op with a warning (§4.7,
// §7 "Translation warnings").
type Expr struct {
	Kind ExprKind
	Span Span

	// ExprLit
	LitValue interface{}

	// ExprVar
	VarName string

	// ExprField: a.f — Base names the bound variable ("tracks", a
	// message/reply binder, or a lambda parameter); Marker says
	// whether the field should read current or primed state when Base
	// is an action-local binder.
	Base   string
	Field  string
	Marker FieldMarker

	// ExprBinOp / ExprUnOp
	Op          string
	Left, Right *Expr
	Operand     *Expr

	// ExprCall: fn(args...)
	Func string
	Args []Expr

	// ExprFn: fn args -> body
	Params []string
	Body   *Expr

	// ExprCase: case Subject of arms
	Subject *Expr
	Arms    []CaseArm

	// ExprBlock: sequence of statements, value is the last
	Stmts []Expr
}

// ExprKind discriminates Expr.
type ExprKind int

const (
	ExprInvalid ExprKind = iota
	ExprLit
	ExprVar
	ExprField
	ExprBinOp
	ExprUnOp
	ExprCall
	ExprFn
	ExprCase
	ExprBlock
)

// FieldMarker distinguishes a.f meaning current-state f from a.f
// meaning primed (next-state) f, per §4.7's translation table.
type FieldMarker int

const (
	MarkerNone FieldMarker = iota
	MarkerCurrent
	MarkerPrimed
)

// CaseArm is one arm of a `case` expression over a reply pattern.
type CaseArm struct {
	// Pattern is one of: a literal value (exact-equality arm), a tag
	// string (tagged(tag, _) arm, matched by tag equality), or "_"
	// (wildcard/fallback arm).
	PatternLiteral interface{}
	PatternTag     string
	Wildcard       bool

	Body Expr
}

// Lit, Var, Field, BinOp, UnOp, Call, Fn, Case, Block are
// constructors kept small and unexported-field-free so front-ends and
// tests can build trees with plain struct literals too; they exist
// for readability at call sites.

func Lit(v interface{}) Expr { return Expr{Kind: ExprLit, LitValue: v} }
func Var(name string) Expr   { return Expr{Kind: ExprVar, VarName: name} }

func Field(base, field string, marker FieldMarker) Expr {
	return Expr{Kind: ExprField, Base: base, Field: field, Marker: marker}
}

func BinOp(op string, left, right Expr) Expr {
	return Expr{Kind: ExprBinOp, Op: op, Left: &left, Right: &right}
}

func UnOp(op string, operand Expr) Expr {
	return Expr{Kind: ExprUnOp, Op: op, Operand: &operand}
}

func Call(fn string, args ...Expr) Expr {
	return Expr{Kind: ExprCall, Func: fn, Args: args}
}

func Fn(params []string, body Expr) Expr {
	return Expr{Kind: ExprFn, Params: params, Body: &body}
}

func Case(subject Expr, arms ...CaseArm) Expr {
	return Expr{Kind: ExprCase, Subject: &subject, Arms: arms}
}

func Block(stmts ...Expr) Expr {
	return Expr{Kind: ExprBlock, Stmts: stmts}
}
