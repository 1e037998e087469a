package main

//
// Variable and array storage. MBASIC lets a scalar and an array share
// a name, so arrays live in their own map. Names arrive normalized
// (lowercase, optional type suffix).
//

type arrayData struct {
	vtype  varType
	base   int
	bounds []int // upper bound per axis, inclusive
	vals   []any
}

//
// The declared or default type of a name: its suffix if it has one,
// otherwise the DEFtype mapping for its first letter (SINGLE unless
// changed)
//

func (r *run) resolveType(name string) varType {

	if t := nameSuffixType(name); t != noType {
		return t
	}
	if name != "" && name[0] >= 'a' && name[0] <= 'z' {
		if t := r.defTypes[name[0]-'a']; t != noType {
			return t
		}
	}
	return sngType
}

func (r *run) hasVar(name string) bool {

	_, ok := r.vars[name]
	return ok
}

//
// Reading an unset variable yields the zero value of its resolved type
//

func (r *run) getVar(name string) any {

	if v, ok := r.vars[name]; ok {
		return v
	}
	return defaultValue(r.resolveType(name))
}

func (r *run) setVar(name string, v any) {

	r.vars[name] = coerceValue(v, r.resolveType(name))
}

//
// Array bookkeeping
//

func newArrayData(vtype varType, base int, bounds []int) *arrayData {

	total := 1
	for _, b := range bounds {
		total *= b - base + 1
	}

	a := &arrayData{vtype: vtype, base: base, bounds: bounds}
	a.vals = make([]any, total)
	zero := defaultValue(vtype)
	for i := range a.vals {
		a.vals[i] = zero
	}
	return a
}

//
// Row-major flat index, last subscript varying fastest
//

func (a *arrayData) index(subs []int) int {

	if len(subs) != len(a.bounds) {
		runtimeError(errSubscriptOutOfRange)
	}

	idx := 0
	for i, s := range subs {
		if s < a.base || s > a.bounds[i] {
			runtimeError(errSubscriptOutOfRange)
		}
		idx = idx*(a.bounds[i]-a.base+1) + (s - a.base)
	}
	return idx
}

func (r *run) dimArray(name string, bounds []int) {

	if _, ok := r.arrays[name]; ok {
		runtimeError(errDuplicateDefinition)
	}
	for _, b := range bounds {
		if b < r.arrayBase {
			runtimeError(errSubscriptOutOfRange)
		}
	}
	r.arrays[name] = newArrayData(r.resolveType(name), r.arrayBase, bounds)
}

//
// Referencing an undimensioned array implicitly dimensions every axis
// to 10
//

func (r *run) autoDim(name string, naxes int) *arrayData {

	bounds := make([]int, naxes)
	for i := range bounds {
		bounds[i] = autoDimBound
	}
	a := newArrayData(r.resolveType(name), r.arrayBase, bounds)
	r.arrays[name] = a
	return a
}

func (r *run) arrayFor(name string, naxes int) *arrayData {

	if a, ok := r.arrays[name]; ok {
		return a
	}
	return r.autoDim(name, naxes)
}

func (r *run) getArrayElem(name string, subs []int) any {

	a := r.arrayFor(name, len(subs))
	return a.vals[a.index(subs)]
}

func (r *run) setArrayElem(name string, subs []int, v any) {

	a := r.arrayFor(name, len(subs))
	a.vals[a.index(subs)] = coerceValue(v, a.vtype)
}

func (r *run) eraseArray(name string) {

	if _, ok := r.arrays[name]; !ok {
		runtimeError(errIllegalFunctionCall)
	}
	delete(r.arrays, name)
}
