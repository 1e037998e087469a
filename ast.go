package main

//
// AST nodes. Expressions and statements are held as any and walked
// with type switches; every node is a pointer to one of the structs
// below.
//

type expr = any
type stmt = any

//
// Expressions
//

type numberExpr struct {
	val any // int16, float32 or float64, per the literal's suffix
}

type stringExpr struct {
	val string
}

type varExpr struct {
	name string
}

type arrayExpr struct {
	name string
	subs []expr
}

type callExpr struct {
	name string
	args []expr
}

type binaryExpr struct {
	op  tokenKind
	lhs expr
	rhs expr
}

type unaryExpr struct {
	op      tokenKind
	operand expr
}

//
// Statements. An lvalue is a *varExpr or *arrayExpr.
//

type lvalue = any

type letStmt struct {
	target lvalue
	value  expr
}

type printStmt struct {
	fileNum expr // nil for the console
	printer bool // LPRINT
	items   []expr
	seps    []byte // separator after each item: ';' ',' or 0
}

type printUsingStmt struct {
	fileNum expr
	printer bool
	format  expr
	items   []expr
}

type writeStmt struct {
	fileNum expr
	items   []expr
}

type inputStmt struct {
	fileNum   expr
	prompt    string
	showQMark bool
	targets   []lvalue
}

type lineInputStmt struct {
	fileNum expr
	prompt  string
	target  lvalue
}

type ifStmt struct {
	cond      expr
	thenLine  int // 0 when thenStmts is used
	thenStmts []stmt
	elseLine  int
	elseStmts []stmt
}

type forStmt struct {
	name  string
	start expr
	end   expr
	step  expr // nil means 1
}

type nextStmt struct {
	names []string
}

type whileStmt struct {
	cond expr
}

type wendStmt struct{}

type gotoStmt struct {
	target int
}

type gosubStmt struct {
	target int
}

type returnStmt struct {
	target int // 0 = return to caller
}

type onGotoStmt struct {
	sel     expr
	targets []int
	gosub   bool
}

type onErrorStmt struct {
	target int // 0 disables the handler
	gosub  bool
}

type resumeStmt struct {
	next   bool
	target int // 0 = retry the faulting statement
}

type errorStmt struct {
	code expr
}

type dataStmt struct {
	values []any
}

type readStmt struct {
	targets []lvalue
}

type restoreStmt struct {
	target int // -1 = from the beginning
}

type dimDecl struct {
	name string
	dims []expr
}

type dimStmt struct {
	decls []dimDecl
}

type eraseStmt struct {
	names []string
}

type defFnStmt struct {
	name   string
	params []string
	body   expr
}

type defTypeStmt struct {
	vtype  varType
	ranges [][2]byte // inclusive letter ranges, lowercase
}

type optionBaseStmt struct {
	base int
}

type swapStmt struct {
	a lvalue
	b lvalue
}

type midAssignStmt struct {
	target lvalue
	start  expr
	length expr // nil = to end of replacement
	value  expr
}

type endStmt struct{}

type stopStmt struct{}

type clsStmt struct{}

type remStmt struct {
	text string
}

type clearStmt struct{}

type randomizeStmt struct {
	seed expr // nil prompts in real MBASIC; here reseeds from the clock
}

type tronStmt struct {
	on bool
}

type widthStmt struct {
	width expr
}

type pokeStmt struct {
	addr expr
	val  expr
}

type outStmt struct {
	port expr
	val  expr
}

type waitStmt struct {
	port expr
	and  expr
	xor  expr // nil allowed
}

type callStmt struct {
	name string
	args []expr
}

type openStmt struct {
	mode     fileMode
	modeExpr expr // legacy OPEN "I",... form: mode comes from a string
	filename expr
	fileNum  expr
	recLen   expr // nil = defaultRecordLen
}

type closeStmt struct {
	fileNums []expr // empty closes everything
}

type fieldDecl struct {
	width expr
	name  string
}

type fieldStmt struct {
	fileNum expr
	decls   []fieldDecl
}

type getStmt struct {
	fileNum expr
	recNum  expr // nil = next record
}

type putStmt struct {
	fileNum expr
	recNum  expr
}

type lsetStmt struct {
	name  string
	value expr
	right bool // RSET
}

type chainStmt struct {
	filename  expr
	lineNo    int
	hasLine   bool
	all       bool
	merge     bool
	deleteAll bool
}

type commonStmt struct {
	names []string
}

type runStmt struct {
	filename expr // nil = rerun the loaded program
	lineNo   int
	hasLine  bool
}

type mergeStmt struct {
	filename expr
}

type killStmt struct {
	filename expr
}

type nameStmt struct {
	oldName expr
	newName expr
}

//
// A parsed program, in source order (the statement table sorts on
// insert)
//

type program struct {
	lines []*progLine
}
