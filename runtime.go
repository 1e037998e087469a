package main

import (
	"math/rand"
	"time"
)

//
// Per-run interpreter state. A run survives until NEW or a program
// load replaces it; RUN and CLEAR reset it in place.
//

type dataMark struct {
	lineNo int
	index  int
}

type run struct {
	stmts *stmtTable
	cur   pcInfo
	jump  *pcInfo // branch target for the next advance, nil = fall through

	vars     map[string]any
	arrays   map[string]*arrayData
	defTypes [26]varType

	execStack []stackEntry
	forStates map[string]*forState
	forOrder  []string // activation order, most recent last

	dataVals  []any
	dataIndex int
	dataMarks []dataMark // ascending by line

	userFuncs map[string]*defFnStmt
	fnDepth   int

	files     map[int]*basicFile
	fieldBufs map[int]*fieldBuffer

	errTarget int // ON ERROR line, 0 = no handler
	errGosub  bool
	errPC     *pcInfo // faulting statement awaiting RESUME

	arrayBase   int
	rng         *rand.Rand
	rndLast     float64
	breakpoints map[pcKey]bool
	commonVars  map[string]bool
	directMode  bool
	traceOn     bool
}

func newRun() *run {

	r := &run{
		stmts: newStmtTable(),
		cur:   haltedPC(stopEnd),
		rng:   newRandSource(1),
	}
	r.vars = make(map[string]any)
	r.arrays = make(map[string]*arrayData)
	r.forStates = make(map[string]*forState)
	r.userFuncs = make(map[string]*defFnStmt)
	r.files = make(map[int]*basicFile)
	r.fieldBufs = make(map[int]*fieldBuffer)
	r.breakpoints = make(map[pcKey]bool)
	r.commonVars = make(map[string]bool)
	r.rndLast = r.rng.Float64()
	return r
}

//
// Load a parsed program: rebuild the statement table, re-collect DATA
// and DEF FN bodies, and park the PC before the first statement
//

func (r *run) load(prog *program) {

	r.stmts.build(prog)
	r.collectProgram()
	r.cur = haltedPC(stopEnd)
	r.jump = nil
}

//
// Overlay a program (MERGE): matching lines are replaced, DATA and
// user functions are re-collected from the merged table
//

func (r *run) overlay(prog *program) {

	r.stmts.merge(prog)
	r.collectProgram()
}

func (r *run) collectProgram() {

	r.dataVals = nil
	r.dataMarks = nil
	r.dataIndex = 0
	r.userFuncs = make(map[string]*defFnStmt)

	for pl := r.stmts.firstLine(); pl != nil; pl = r.stmts.nextLine(pl) {
		marked := false
		for _, st := range pl.stmts {
			switch s := st.(type) {
			case *dataStmt:
				if !marked {
					r.dataMarks = append(r.dataMarks, dataMark{lineNo: pl.lineNo, index: len(r.dataVals)})
					marked = true
				}
				r.dataVals = append(r.dataVals, s.values...)
			case *defFnStmt:
				r.userFuncs[s.name] = s
			}
		}
	}
}

//
// Reset clears run state but keeps the program, its DATA constants,
// user functions, breakpoints and DEFtype map. The err%/erl% pseudo
// variables survive so a handler's context outlives CLEAR.
//

func (r *run) reset() {

	savedErr, hadErr := r.vars["err%"]
	savedErl, hadErl := r.vars["erl%"]

	r.vars = make(map[string]any)
	if hadErr {
		r.vars["err%"] = savedErr
	}
	if hadErl {
		r.vars["erl%"] = savedErl
	}

	r.arrays = make(map[string]*arrayData)
	r.execStack = nil
	r.forStates = make(map[string]*forState)
	r.forOrder = nil
	r.dataIndex = 0
	r.fnDepth = 0
	r.errTarget = 0
	r.errGosub = false
	r.errPC = nil
	r.arrayBase = 0
	r.closeAllFiles()
}

//
// Clear is reset plus dropping everything derived from the program
// text: DATA, user functions, breakpoints, DEFtype state
//

func (r *run) clear() {

	r.reset()
	delete(r.vars, "err%")
	delete(r.vars, "erl%")
	r.dataVals = nil
	r.dataMarks = nil
	r.userFuncs = make(map[string]*defFnStmt)
	r.breakpoints = make(map[pcKey]bool)
	r.commonVars = make(map[string]bool)
	r.defTypes = [26]varType{}
}

func (r *run) closeAllFiles() {

	for n, f := range r.files {
		f.handle.close()
		delete(r.files, n)
		delete(r.fieldBufs, n)
	}
}

//
// DATA cursor
//

func (r *run) readData() any {

	if r.dataIndex >= len(r.dataVals) {
		runtimeError(errOutOfData)
	}
	v := r.dataVals[r.dataIndex]
	r.dataIndex++
	return v
}

//
// RESTORE: -1 rewinds; a line number restores to that line's DATA, or
// the first DATA statement at or after it, or the end of the pool
//

func (r *run) restoreData(lineNo int) {

	if lineNo < 0 {
		r.dataIndex = 0
		return
	}
	for _, m := range r.dataMarks {
		if m.lineNo >= lineNo {
			r.dataIndex = m.index
			return
		}
	}
	r.dataIndex = len(r.dataVals)
}

//
// FOR activation order, for NEXT without a variable
//

func (r *run) noteForEntered(name string) {

	r.forRetired(name)
	r.forOrder = append(r.forOrder, name)
}

func (r *run) forRetired(name string) {

	for i, n := range r.forOrder {
		if n == name {
			r.forOrder = append(r.forOrder[:i], r.forOrder[i+1:]...)
			break
		}
	}
}

func (r *run) mostRecentFor() string {

	if len(r.forOrder) == 0 {
		return ""
	}
	return r.forOrder[len(r.forOrder)-1]
}

//
// DEFtype application (DEFINT A-C and friends)
//

func (r *run) applyDefType(t varType, ranges [][2]byte) {

	for _, rg := range ranges {
		for c := rg[0]; c <= rg[1]; c++ {
			if c >= 'a' && c <= 'z' {
				r.defTypes[c-'a'] = t
			}
		}
	}
}

//
// RANDOMIZE / RND support
//

func (r *run) reseed(seed int64) {

	r.rng = rand.New(rand.NewSource(seed))
	r.rndLast = r.rng.Float64()
}

func (r *run) reseedFromClock() {

	r.reseed(time.Now().UnixNano())
}

func (r *run) nextRnd() float64 {

	r.rndLast = r.rng.Float64()
	return r.rndLast
}
