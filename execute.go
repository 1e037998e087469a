package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

//
// The interpreter: one statement per tick, panic/recover crawlout for
// runtime errors, ON ERROR routing, and pending CHAIN/RUN requests
// handed back to the host.
//

type interp struct {
	r    *run
	cons console
	fs   fileSystem

	errInfo  *basicError // unhandled fault, for the host to report
	chainReq *chainRequest
	runReq   *runRequest

	pauseReq bool
	skipBp   bool

	lastErrCode int
	lastErrLine int
	lpCol       int
}

func newInterp(r *run, cons console, fs fileSystem) *interp {

	return &interp{r: r, cons: cons, fs: fs}
}

//
// Position the run at its first statement (or a specific line) with a
// clean slate, ready for ticking
//

func (ip *interp) startRun(lineNo int) {

	r := ip.r

	start := r.stmts.first()
	if lineNo > 0 {
		target, ok := r.stmts.findLine(lineNo)
		if !ok {
			start = haltedPC(stopError)
			ip.errInfo = &basicError{code: errUndefinedLineNumber, msg: errorText(errUndefinedLineNumber)}
			r.cur = start
			return
		}
		start = target
	}

	r.reset()
	ip.errInfo = nil
	ip.chainReq = nil
	ip.runReq = nil
	ip.skipBp = false
	r.cur = start
	r.jump = nil
}

func (ip *interp) runToCompletion() {

	for ip.tick() {
	}
}

//
// Execute one statement. Returns false once the run has halted.
//

func (ip *interp) tick() bool {

	r := ip.r

	if r.cur.reason != stopNone {
		return false
	}

	if ip.pauseReq {
		ip.pauseReq = false
		r.cur.reason = stopStop
		return false
	}

	if breakRequested {
		breakRequested = false
		r.cur.reason = stopBreak
		return false
	}

	if r.breakpoints[pcKey{lineNo: r.cur.lineNo, stmtNo: r.cur.stmtNo}] {
		if !ip.skipBp {
			ip.skipBp = true
			r.cur.reason = stopBreakpoint
			return false
		}
	}
	ip.skipBp = false

	st := r.stmts.get(r.cur)
	if st == nil {
		r.cur = haltedPC(stopEnd)
		return false
	}

	if r.traceOn && r.cur.stmtNo == 0 {
		ip.cons.print(fmt.Sprintf("[%d]", r.cur.lineNo))
	}

	s.stmtCount++

	if be := ip.execGuard(st); be != nil {
		ip.handleFault(be)
		return r.cur.reason == stopNone
	}

	ip.advancePC()
	return r.cur.reason == stopNone
}

func (ip *interp) execGuard(st stmt) (be *basicError) {

	defer func() {
		if e := recover(); e != nil {
			caught, ok := e.(*basicError)
			if !ok {
				panic(e)
			}
			be = caught
		}
	}()

	ip.executeStmt(st)
	return nil
}

func (ip *interp) advancePC() {

	r := ip.r
	if r.jump != nil {
		r.cur = *r.jump
		r.jump = nil
		return
	}
	if r.cur.reason == stopNone {
		r.cur = r.stmts.next(r.cur)
	}
}

//
// Fault routing. With a handler registered and no error already
// pending, snapshot the faulting PC and divert to the handler (a
// GOSUB-style handler also gets a return frame). Otherwise the fault
// is terminal for this run.
//

func (ip *interp) handleFault(be *basicError) {

	r := ip.r
	be.lineNo = r.cur.lineNo

	ip.lastErrCode = be.code
	ip.lastErrLine = 0
	if r.cur.lineNo > 0 {
		ip.lastErrLine = r.cur.lineNo
	}
	r.vars["err%"] = roundToInt16(float64(be.code))
	r.vars["erl%"] = roundToInt16(float64(ip.lastErrLine))

	if r.errTarget != 0 && r.errPC == nil && !r.directMode {
		if target, ok := r.stmts.findLine(r.errTarget); ok {
			snap := r.cur
			r.errPC = &snap
			if r.errGosub {
				r.execStack = append(r.execStack, stackEntry{
					kind:     gosubFrame,
					returnPC: r.stmts.next(r.cur),
				})
			}
			r.cur = target
			r.jump = nil
			return
		}
	}

	ip.errInfo = be
	r.cur.reason = stopError
}

//
// The statement dispatcher
//

func (ip *interp) executeStmt(st stmt) {

	switch n := st.(type) {
	case *letStmt:
		ip.assign(n.target, ip.evalExpr(n.value))
	case *printStmt:
		ip.executePrint(n)
	case *printUsingStmt:
		ip.executePrintUsing(n)
	case *writeStmt:
		ip.executeWrite(n)
	case *inputStmt:
		ip.executeInput(n)
	case *lineInputStmt:
		ip.executeLineInput(n)
	case *ifStmt:
		ip.executeIf(n)
	case *forStmt:
		ip.executeFor(n)
	case *nextStmt:
		ip.executeNext(n)
	case *whileStmt:
		ip.executeWhile(n)
	case *wendStmt:
		ip.executeWend(n)
	case *gotoStmt:
		ip.jumpToLine(n.target)
	case *gosubStmt:
		ip.executeGosub(n.target)
	case *returnStmt:
		ip.executeReturn(n)
	case *onGotoStmt:
		ip.executeOnGoto(n)
	case *onErrorStmt:
		ip.executeOnError(n)
	case *resumeStmt:
		ip.executeResume(n)
	case *errorStmt:
		ip.executeError(n)
	case *dataStmt:
		if ip.r.directMode {
			runtimeError(errIllegalDirect)
		}
	case *readStmt:
		ip.executeRead(n)
	case *restoreStmt:
		ip.r.restoreData(n.target)
	case *dimStmt:
		ip.executeDim(n)
	case *eraseStmt:
		for _, name := range n.names {
			ip.r.eraseArray(name)
		}
	case *defFnStmt:
		if ip.r.directMode {
			runtimeError(errIllegalDirect)
		}
		ip.r.userFuncs[n.name] = n
	case *defTypeStmt:
		ip.r.applyDefType(n.vtype, n.ranges)
	case *endStmt:
		ip.executeEnd()
	case *stopStmt:
		ip.r.cur.reason = stopStop
	case *clsStmt:
		ip.cons.clearScreen()
	case *remStmt:
		// nothing
	case *swapStmt:
		ip.executeSwap(n)
	case *clearStmt:
		ip.r.reset()
	case *optionBaseStmt:
		if len(ip.r.arrays) > 0 {
			runtimeError(errDuplicateDefinition)
		}
		ip.r.arrayBase = n.base
	case *randomizeStmt:
		if n.seed != nil {
			ip.r.reseed(int64(math.Float64bits(ip.evalNumber(n.seed))))
		} else {
			ip.r.reseedFromClock()
		}
	case *tronStmt:
		ip.r.traceOn = n.on
	case *widthStmt:
		ip.executeWidth(n)
	case *pokeStmt:
		ip.evalInt(n.addr)
		ip.evalInt(n.val)
	case *outStmt:
		ip.evalInt(n.port)
		ip.evalInt(n.val)
	case *waitStmt:
		ip.evalInt(n.port)
		ip.evalInt(n.and)
		if n.xor != nil {
			ip.evalInt(n.xor)
		}
	case *callStmt:
		for _, a := range n.args {
			ip.evalExpr(a)
		}
	case *openStmt:
		ip.openFile(n)
	case *closeStmt:
		ip.executeClose(n)
	case *fieldStmt:
		ip.fieldFile(n)
	case *getStmt:
		ip.getRecord(n)
	case *putStmt:
		ip.putRecord(n)
	case *lsetStmt:
		ip.lsetField(n)
	case *chainStmt:
		ip.executeChain(n)
	case *commonStmt:
		for _, name := range n.names {
			ip.r.commonVars[name] = true
		}
	case *runStmt:
		ip.executeRun(n)
	case *mergeStmt:
		ip.executeMerge(n)
	case *killStmt:
		ip.executeKill(n)
	case *nameStmt:
		ip.executeName(n)
	case *midAssignStmt:
		ip.executeMidAssign(n)
	default:
		fatalError("bad statement node %T", st)
	}
}

//
// Branch helpers
//

func (ip *interp) jumpToLine(lineNo int) {

	target, ok := ip.r.stmts.findLine(lineNo)
	if !ok {
		runtimeError(errUndefinedLineNumber)
	}
	ip.r.jump = &target
}

func (ip *interp) jumpToPC(pc pcInfo) {

	ip.r.jump = &pc
}

//
// IF: a branch may be a line number or an inline statement list. The
// inline list stops early if a statement branches or halts.
//

func (ip *interp) executeIf(n *ifStmt) {

	var line int
	var stmts []stmt

	if toBool(ip.evalExpr(n.cond)) {
		line, stmts = n.thenLine, n.thenStmts
	} else {
		line, stmts = n.elseLine, n.elseStmts
	}

	if line > 0 {
		ip.jumpToLine(line)
		return
	}
	for _, st := range stmts {
		ip.executeStmt(st)
		if ip.r.jump != nil || ip.r.cur.reason != stopNone {
			return
		}
	}
}

//
// FOR evaluates its bounds once. A loop whose first iteration cannot
// run skips forward past its matching NEXT without ever activating.
//

func (ip *interp) executeFor(n *forStmt) {

	r := ip.r

	start := ip.evalNumber(n.start)
	end := ip.evalNumber(n.end)
	step := 1.0
	if n.step != nil {
		step = ip.evalNumber(n.step)
	}

	r.setVar(n.name, start)

	if (step > 0 && start > end) || (step < 0 && start < end) {
		ip.skipForBody(n.name)
		return
	}

	r.forStates[n.name] = &forState{resumePC: r.cur, endVal: end, stepVal: step}
	r.noteForEntered(n.name)
}

//
// Scan forward for the NEXT that closes this FOR, counting loop
// nesting. A bare NEXT closes the innermost loop; a NEXT list closes
// one loop per name. A named NEXT for some other loop at our level is
// ignored.
//

func (ip *interp) skipForBody(name string) {

	r := ip.r
	depth := 0

	for pc := r.stmts.next(r.cur); r.stmts.valid(pc); pc = r.stmts.next(pc) {
		switch st := r.stmts.get(pc).(type) {
		case *forStmt:
			depth++
		case *nextStmt:
			if len(st.names) == 0 {
				if depth == 0 {
					ip.jumpToPC(r.stmts.next(pc))
					return
				}
				depth--
				break
			}
			for _, nm := range st.names {
				if depth == 0 {
					if nm == name {
						ip.jumpToPC(r.stmts.next(pc))
						return
					}
					break
				}
				depth--
			}
		}
	}
	runtimeError(errForWithoutNext)
}

//
// NEXT: increment, test, and either loop back to the statement after
// the FOR or retire the loop. A bare NEXT means the most recently
// entered loop; a list is processed in order until one continues.
//

func (ip *interp) executeNext(n *nextStmt) {

	r := ip.r

	names := n.names
	if len(names) == 0 {
		name := r.mostRecentFor()
		if name == "" {
			runtimeError(errNextWithoutFor)
		}
		names = []string{name}
	}

	for _, name := range names {
		fs, ok := r.forStates[name]
		if !ok {
			runtimeError(errNextWithoutFor)
		}

		cur := toNumber(r.getVar(name)) + fs.stepVal
		r.setVar(name, cur)

		done := false
		if fs.stepVal > 0 {
			done = cur > fs.endVal
		} else {
			done = cur < fs.endVal
		}

		if !done {
			ip.jumpToPC(r.stmts.next(fs.resumePC))
			return
		}

		delete(r.forStates, name)
		r.forRetired(name)
	}
}

//
// WHILE pushes a frame and runs the body when true; otherwise it
// skips past the matching WEND. WEND pops the nearest WHILE frame and
// loops back to re-test.
//

func (ip *interp) executeWhile(n *whileStmt) {

	r := ip.r

	if toBool(ip.evalExpr(n.cond)) {
		r.execStack = append(r.execStack, stackEntry{kind: whileFrame, loopPC: r.cur})
		return
	}

	depth := 0
	for pc := r.stmts.next(r.cur); r.stmts.valid(pc); pc = r.stmts.next(pc) {
		switch r.stmts.get(pc).(type) {
		case *whileStmt:
			depth++
		case *wendStmt:
			if depth == 0 {
				ip.jumpToPC(r.stmts.next(pc))
				return
			}
			depth--
		}
	}
	runtimeError(errWhileWithoutWend)
}

func (ip *interp) executeWend(n *wendStmt) {

	r := ip.r

	for i := len(r.execStack) - 1; i >= 0; i-- {
		if r.execStack[i].kind == whileFrame {
			loop := r.execStack[i].loopPC
			r.execStack = r.execStack[:i]
			ip.jumpToPC(loop)
			return
		}
	}
	runtimeError(errWendWithoutWhile)
}

//
// GOSUB/RETURN. RETURN pops the nearest GOSUB frame, discarding any
// WHILE frames opened since, and may redirect to an explicit line.
//

func (ip *interp) executeGosub(target int) {

	r := ip.r
	r.execStack = append(r.execStack, stackEntry{kind: gosubFrame, returnPC: r.stmts.next(r.cur)})
	ip.jumpToLine(target)
}

func (ip *interp) executeReturn(n *returnStmt) {

	r := ip.r

	for i := len(r.execStack) - 1; i >= 0; i-- {
		if r.execStack[i].kind == gosubFrame {
			frame := r.execStack[i]
			r.execStack = r.execStack[:i]
			if n.target > 0 {
				ip.jumpToLine(n.target)
			} else {
				ip.jumpToPC(frame.returnPC)
			}
			return
		}
	}
	runtimeError(errReturnWithoutGosub)
}

//
// ON expr GOTO/GOSUB: 1-based selection, out-of-range selectors fall
// through to the next statement
//

func (ip *interp) executeOnGoto(n *onGotoStmt) {

	sel := ip.evalInt(n.sel)
	if sel < 0 || sel > 255 {
		runtimeError(errIllegalFunctionCall)
	}
	if sel < 1 || sel > len(n.targets) {
		return
	}
	if n.gosub {
		ip.executeGosub(n.targets[sel-1])
	} else {
		ip.jumpToLine(n.targets[sel-1])
	}
}

//
// Error machine
//

func (ip *interp) executeOnError(n *onErrorStmt) {

	r := ip.r

	if n.target == 0 {
		r.errTarget = 0
		r.errGosub = false
		return
	}
	if _, ok := r.stmts.findLine(n.target); !ok {
		runtimeError(errUndefinedLineNumber)
	}
	r.errTarget = n.target
	r.errGosub = n.gosub
}

func (ip *interp) executeResume(n *resumeStmt) {

	r := ip.r

	r.vars["err%"] = int16(0)
	ip.lastErrCode = 0

	if r.errPC == nil {
		runtimeError(errResumeWithoutError)
	}
	epc := *r.errPC
	r.errPC = nil

	switch {
	case n.next:
		ip.jumpToPC(r.stmts.next(epc))
	case n.target > 0:
		ip.jumpToLine(n.target)
	default:
		epc.reason = stopNone
		ip.jumpToPC(epc)
	}
}

func (ip *interp) executeError(n *errorStmt) {

	code := ip.evalInt(n.code)
	if code < 1 || code > 255 {
		runtimeError(errIllegalFunctionCall)
	}
	runtimeError(code)
}

//
// END with an error still pending means the handler fell off the end
// without RESUME
//

func (ip *interp) executeEnd() {

	r := ip.r
	if r.errPC != nil {
		runtimeError(errNoResume)
	}
	r.closeAllFiles()
	r.cur.reason = stopEnd
}

//
// READ / DIM / SWAP / MID$= / WIDTH
//

func (ip *interp) executeRead(n *readStmt) {

	for _, target := range n.targets {
		ip.assign(target, ip.r.readData())
	}
}

func (ip *interp) executeDim(n *dimStmt) {

	for _, decl := range n.decls {
		bounds := make([]int, len(decl.dims))
		for i, d := range decl.dims {
			bounds[i] = ip.evalInt(d)
		}
		ip.r.dimArray(decl.name, bounds)
	}
}

func (ip *interp) executeSwap(n *swapStmt) {

	a := ip.evalExpr(n.a)
	b := ip.evalExpr(n.b)
	if isString(a) != isString(b) {
		runtimeError(errTypeMismatch)
	}
	ip.assign(n.a, b)
	ip.assign(n.b, a)
}

func (ip *interp) executeMidAssign(n *midAssignStmt) {

	cur := toString(ip.evalExpr(n.target))
	start := ip.evalInt(n.start)
	repl := ip.evalString(n.value)

	if start < 1 || start > len(cur) {
		runtimeError(errIllegalFunctionCall)
	}

	count := len(repl)
	if n.length != nil {
		want := ip.evalInt(n.length)
		if want < 0 {
			runtimeError(errIllegalFunctionCall)
		}
		if want < count {
			count = want
		}
	}
	if room := len(cur) - start + 1; count > room {
		count = room
	}

	buf := []byte(cur)
	copy(buf[start-1:start-1+count], repl[:count])
	ip.assign(n.target, string(buf))
}

func (ip *interp) executeWidth(n *widthStmt) {

	w := ip.evalInt(n.width)
	if w < 15 || w > 255 {
		runtimeError(errIllegalFunctionCall)
	}
	ip.cons.setWidth(w)
}

//
// PRINT and friends
//

type printSink struct {
	out func(text string)
	col func() int
}

func (ip *interp) sinkFor(fileNum expr, printer bool) printSink {

	if fileNum != nil {
		f := ip.fileFor(ip.evalInt(fileNum))
		if f.mode != modeOutput && f.mode != modeAppend {
			runtimeError(errBadFileMode)
		}
		return printSink{
			out: func(text string) { f.writeTracking(ip, text) },
			col: func() int { return f.printCol },
		}
	}
	if printer {
		return printSink{
			out: func(text string) { ip.printerOut(text) },
			col: func() int { return ip.lpCol },
		}
	}
	return printSink{
		out: ip.cons.print,
		col: ip.cons.column,
	}
}

//
// With no attached printer, LPRINT output lands on the console but
// keeps its own column for LPOS
//

func (ip *interp) printerOut(text string) {

	ip.cons.print(text)
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		ip.lpCol = len(text) - i - 1
	} else {
		ip.lpCol += len(text)
	}
}

func (ip *interp) executePrint(n *printStmt) {

	sink := ip.sinkFor(n.fileNum, n.printer)

	trailing := byte(0)
	for i, item := range n.items {
		v := ip.evalExpr(item)
		if isString(v) {
			sink.out(v.(string))
		} else {
			sink.out(numberString(v))
		}

		sep := n.seps[i]
		trailing = sep
		if sep == ',' {
			pad := zoneWidth - sink.col()%zoneWidth
			sink.out(strings.Repeat(" ", pad))
		}
	}

	if trailing == 0 {
		sink.out("\n")
	}
}

func (ip *interp) executePrintUsing(n *printUsingStmt) {

	sink := ip.sinkFor(n.fileNum, n.printer)
	format := ip.evalString(n.format)

	vals := make([]any, len(n.items))
	for i, item := range n.items {
		vals[i] = ip.evalExpr(item)
	}

	sink.out(formatUsing(format, vals))
	sink.out("\n")
}

//
// WRITE: comma-delimited, strings quoted, no padding
//

func (ip *interp) executeWrite(n *writeStmt) {

	sink := ip.sinkFor(n.fileNum, false)

	for i, item := range n.items {
		if i > 0 {
			sink.out(",")
		}
		v := ip.evalExpr(item)
		if s, ok := v.(string); ok {
			sink.out("\"" + s + "\"")
		} else {
			sink.out(plainNumberString(v))
		}
	}
	sink.out("\n")
}

//
// INPUT and LINE INPUT
//

func (ip *interp) executeInput(n *inputStmt) {

	if n.fileNum != nil {
		ip.inputFromFile(n)
		return
	}

	prompt := n.prompt
	if n.showQMark {
		prompt += "? "
	}

	var fields []string
	for {
		line, ok := ip.cons.inputLine(prompt)
		if !ok {
			ip.r.cur.reason = stopInputWait
			return
		}
		fields = splitInputFields(line)

		if len(fields) < len(n.targets) {
			prompt = "?? "
			continue
		}

		if ip.assignInputFields(n.targets, fields) {
			break
		}
		ip.cons.print("?Redo from start\n")
		prompt = "? "
	}

	if len(fields) > len(n.targets) {
		ip.cons.print("?Extra ignored\n")
	}
}

func (ip *interp) inputFromFile(n *inputStmt) {

	f := ip.fileFor(ip.evalInt(n.fileNum))
	if f.mode != modeInput {
		runtimeError(errBadFileMode)
	}

	var fields []string
	for len(fields) < len(n.targets) {
		line, err := f.readLine()
		if err != nil {
			runtimeError(errInputPastEnd)
		}
		fields = append(fields, splitInputFields(line)...)
	}

	if !ip.assignInputFields(n.targets, fields) {
		runtimeError(errTypeMismatch)
	}
}

func (f *basicFile) readLine() (string, error) {

	return f.handle.readLine()
}

//
// Try to bind input fields to targets; false means a numeric target
// got non-numeric text
//

func (ip *interp) assignInputFields(targets []lvalue, fields []string) bool {

	vals := make([]any, len(targets))
	for i, target := range targets {
		text := fields[i]
		if ip.r.resolveType(lvalueName(target)) == strType {
			vals[i] = text
			continue
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return false
		}
		vals[i] = d
	}
	for i, target := range targets {
		ip.assign(target, vals[i])
	}
	return true
}

//
// Split an input line on commas, honoring quoted fields
//

func splitInputFields(line string) []string {

	var fields []string
	var cur strings.Builder
	inQuote := false
	quoted := false

	flush := func() {
		text := cur.String()
		if !quoted {
			text = strings.TrimSpace(text)
		}
		fields = append(fields, text)
		cur.Reset()
		quoted = false
	}

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			quoted = true
		case c == ',' && !inQuote:
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return fields
}

func (ip *interp) executeLineInput(n *lineInputStmt) {

	if n.fileNum != nil {
		f := ip.fileFor(ip.evalInt(n.fileNum))
		if f.mode != modeInput {
			runtimeError(errBadFileMode)
		}
		line, err := f.readLine()
		if err != nil {
			runtimeError(errInputPastEnd)
		}
		ip.assign(n.target, line)
		return
	}

	line, ok := ip.cons.inputLine(n.prompt)
	if !ok {
		ip.r.cur.reason = stopInputWait
		return
	}
	ip.assign(n.target, line)
}

//
// CLOSE
//

func (ip *interp) executeClose(n *closeStmt) {

	if len(n.fileNums) == 0 {
		ip.r.closeAllFiles()
		return
	}
	for _, fe := range n.fileNums {
		ip.closeFileNum(ip.evalInt(fe))
	}
}

//
// CHAIN and RUN hand control back to the host; MERGE happens in place
//

func (ip *interp) executeChain(n *chainStmt) {

	req := &chainRequest{
		filename: ip.evalString(n.filename),
		lineNo:   n.lineNo,
		hasLine:  n.hasLine,
		all:      n.all,
		merge:    n.merge,
	}
	if n.deleteAll {
		req.deleteLow = 0
		req.deleteHi = maxLineNumber
	}
	ip.chainReq = req
	ip.r.cur.reason = stopEnd
}

func (ip *interp) executeRun(n *runStmt) {

	r := ip.r

	if n.filename == nil {
		var target pcInfo
		if n.hasLine {
			t, ok := r.stmts.findLine(n.lineNo)
			if !ok {
				runtimeError(errUndefinedLineNumber)
			}
			target = t
		} else {
			target = r.stmts.first()
		}
		r.reset()
		ip.jumpToPC(target)
		return
	}

	ip.runReq = &runRequest{
		filename: ip.evalString(n.filename),
		lineNo:   n.lineNo,
		hasLine:  n.hasLine,
	}
	r.cur.reason = stopEnd
}

func (ip *interp) executeMerge(n *mergeStmt) {

	name := ip.evalString(n.filename)
	prog, err := ip.loadProgramFile(name)
	if err != nil {
		runtimeError(errFileNotFound)
	}
	ip.r.overlay(prog)
}

//
// Read and parse a program file through the filesystem abstraction
//

func (ip *interp) loadProgramFile(name string) (*program, error) {

	h, err := ip.fs.open(name, modeInput, defaultRecordLen)
	if err != nil {
		return nil, err
	}
	defer h.close()

	var sb strings.Builder
	for {
		line, rerr := h.readLine()
		if rerr != nil {
			break
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}

	prog, perr := parseProgramSource(sb.String())
	if perr != nil {
		if strings.Contains(perr.Error(), "missing line number") {
			runtimeError(errDirectStatement)
		}
		runtimeErrorMsg(errSyntaxError, "%s", perr.Error())
	}
	return prog, nil
}

//
// KILL and NAME
//

func (ip *interp) executeKill(n *killStmt) {

	name := ip.evalString(n.filename)
	if !ip.fs.exists(name) {
		runtimeError(errFileNotFound)
	}
	if err := ip.fs.remove(name); err != nil {
		runtimeError(errDiskIOError)
	}
}

func (ip *interp) executeName(n *nameStmt) {

	oldName := ip.evalString(n.oldName)
	newName := ip.evalString(n.newName)
	if !ip.fs.exists(oldName) {
		runtimeError(errFileNotFound)
	}
	if ip.fs.exists(newName) {
		runtimeError(errFileExists)
	}
	if err := ip.fs.rename(oldName, newName); err != nil {
		runtimeError(errDiskIOError)
	}
}
