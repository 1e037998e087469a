package main

import (
	"math"
	"strings"
)

//
// Expression evaluation. Everything returns a value (int16, float32,
// float64 or string); faults crawl out via runtimeError.
//

func (ip *interp) evalExpr(e expr) any {

	switch n := e.(type) {
	case *numberExpr:
		return n.val
	case *stringExpr:
		return n.val
	case *varExpr:
		return ip.r.getVar(n.name)
	case *arrayExpr:
		return ip.r.getArrayElem(n.name, ip.evalSubs(n.subs))
	case *callExpr:
		return ip.evalCall(n)
	case *unaryExpr:
		return ip.evalUnary(n)
	case *binaryExpr:
		return ip.evalBinary(n)
	}
	fatalError("bad expression node %T", e)
	return nil
}

func (ip *interp) evalNumber(e expr) float64 {

	return toNumber(ip.evalExpr(e))
}

func (ip *interp) evalString(e expr) string {

	return toString(ip.evalExpr(e))
}

func (ip *interp) evalInt(e expr) int {

	return toInt(ip.evalExpr(e))
}

func (ip *interp) evalSubs(subs []expr) []int {

	out := make([]int, len(subs))
	for i, s := range subs {
		out[i] = ip.evalInt(s)
	}
	return out
}

func (ip *interp) evalUnary(n *unaryExpr) any {

	switch n.op {
	case tokMinus:
		v := ip.evalExpr(n.operand)
		if i, ok := v.(int16); ok && i != math.MinInt16 {
			return -i
		}
		return -toNumber(v)
	case tokNot:
		return ^toInt16(ip.evalExpr(n.operand))
	}
	fatalError("bad unary operator %d", n.op)
	return nil
}

func (ip *interp) evalBinary(n *binaryExpr) any {

	lhs := ip.evalExpr(n.lhs)
	rhs := ip.evalExpr(n.rhs)

	switch n.op {
	case tokPlus:
		if isString(lhs) || isString(rhs) {
			return checkStringLen(toString(lhs) + toString(rhs))
		}
		return numericResult(lhs, rhs, toNumber(lhs)+toNumber(rhs))

	case tokMinus:
		return numericResult(lhs, rhs, toNumber(lhs)-toNumber(rhs))

	case tokStar:
		return numericResult(lhs, rhs, toNumber(lhs)*toNumber(rhs))

	case tokSlash:
		d := toNumber(rhs)
		if d == 0 {
			runtimeError(errDivisionByZero)
		}
		return toNumber(lhs) / d

	case tokBackslash:
		d := toInt(rhs)
		if d == 0 {
			runtimeError(errDivisionByZero)
		}
		return roundToInt16(float64(toInt(lhs) / d))

	case tokMod:
		d := toInt(rhs)
		if d == 0 {
			runtimeError(errDivisionByZero)
		}
		return roundToInt16(float64(toInt(lhs) % d))

	case tokCaret:
		return math.Pow(toNumber(lhs), toNumber(rhs))

	case tokEq, tokNe, tokLt, tokGt, tokLe, tokGe:
		return ip.compare(n.op, lhs, rhs)

	case tokAnd:
		return toInt16(lhs) & toInt16(rhs)
	case tokOr:
		return toInt16(lhs) | toInt16(rhs)
	case tokXor:
		return toInt16(lhs) ^ toInt16(rhs)
	case tokEqv:
		return ^(toInt16(lhs) ^ toInt16(rhs))
	case tokImp:
		return ^toInt16(lhs) | toInt16(rhs)
	}

	fatalError("bad binary operator %d", n.op)
	return nil
}

//
// Addition, subtraction and multiplication stay integer when both
// operands are integers and the result fits; otherwise the result is
// a double
//

func numericResult(lhs, rhs any, d float64) any {

	_, li := lhs.(int16)
	_, ri := rhs.(int16)
	if li && ri && d >= math.MinInt16 && d <= math.MaxInt16 {
		return int16(d)
	}
	return d
}

//
// Comparisons yield -1 (true) or 0 (false). Numeric equality is
// tolerant; strings compare bytewise.
//

func (ip *interp) compare(op tokenKind, lhs, rhs any) any {

	if isString(lhs) != isString(rhs) {
		runtimeError(errTypeMismatch)
	}

	if isString(lhs) {
		a, b := lhs.(string), rhs.(string)
		switch op {
		case tokEq:
			return boolValue(a == b)
		case tokNe:
			return boolValue(a != b)
		case tokLt:
			return boolValue(a < b)
		case tokGt:
			return boolValue(a > b)
		case tokLe:
			return boolValue(a <= b)
		case tokGe:
			return boolValue(a >= b)
		}
	}

	a, b := toNumber(lhs), toNumber(rhs)
	eq := floatEqual(a, b)
	switch op {
	case tokEq:
		return boolValue(eq)
	case tokNe:
		return boolValue(!eq)
	case tokLt:
		return boolValue(a < b && !eq)
	case tokGt:
		return boolValue(a > b && !eq)
	case tokLe:
		return boolValue(a < b || eq)
	case tokGe:
		return boolValue(a > b || eq)
	}

	fatalError("bad comparison operator %d", op)
	return nil
}

//
// Function calls: user FN functions first, then the built-in table
//

func (ip *interp) evalCall(n *callExpr) any {

	if strings.HasPrefix(n.name, "fn") && len(n.name) > 2 {
		return ip.callUserFunc(n)
	}

	fn := lookupBuiltin(n.name)
	if fn == nil {
		runtimeError(errUndefinedUserFunc)
	}

	args := make([]any, len(n.args))
	for i, a := range n.args {
		args[i] = ip.evalExpr(a)
	}
	return fn(ip, args)
}

//
// User functions evaluate their body with parameters dynamically
// shadowing same-named variables, restored afterwards
//

func (ip *interp) callUserFunc(n *callExpr) any {

	def, ok := ip.r.userFuncs[n.name]
	if !ok {
		runtimeError(errUndefinedUserFunc)
	}
	if len(n.args) != len(def.params) {
		runtimeError(errIllegalFunctionCall)
	}
	if ip.r.fnDepth >= fnRecursionMax {
		runtimeError(errOutOfMemory)
	}

	args := make([]any, len(n.args))
	for i, a := range n.args {
		args[i] = ip.evalExpr(a)
	}

	saved := make([]any, len(def.params))
	existed := make([]bool, len(def.params))
	for i, p := range def.params {
		saved[i], existed[i] = ip.r.vars[p]
		ip.r.setVar(p, args[i])
	}

	ip.r.fnDepth++
	result := ip.evalExpr(def.body)
	ip.r.fnDepth--

	for i, p := range def.params {
		if existed[i] {
			ip.r.vars[p] = saved[i]
		} else {
			delete(ip.r.vars, p)
		}
	}

	return coerceValue(result, ip.r.resolveType(n.name))
}

//
// Assignment through an lvalue
//

func (ip *interp) assign(target lvalue, v any) {

	switch t := target.(type) {
	case *varExpr:
		ip.r.setVar(t.name, v)
	case *arrayExpr:
		ip.r.setArrayElem(t.name, ip.evalSubs(t.subs), v)
	default:
		fatalError("bad assignment target %T", target)
	}
}

func lvalueName(target lvalue) string {

	switch t := target.(type) {
	case *varExpr:
		return t.name
	case *arrayExpr:
		return t.name
	}
	fatalError("bad lvalue %T", target)
	return ""
}
