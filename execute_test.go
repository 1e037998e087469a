package main

import (
	"strings"
	"testing"
)

//
// In-memory console for tests
//

type testConsole struct {
	out      strings.Builder
	inputs   []string
	keys     []string
	col      int
	colWidth int
}

func newTestConsole(inputs ...string) *testConsole {

	return &testConsole{inputs: inputs, colWidth: defaultWidth}
}

func (c *testConsole) print(text string) {

	c.out.WriteString(text)
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		c.col = len(text) - i - 1
	} else {
		c.col += len(text)
	}
}

func (c *testConsole) inputLine(prompt string) (string, bool) {

	if len(c.inputs) == 0 {
		return "", false
	}
	line := c.inputs[0]
	c.inputs = c.inputs[1:]
	c.col = 0
	return line, true
}

func (c *testConsole) inkey() string {

	if len(c.keys) == 0 {
		return ""
	}
	k := c.keys[0]
	c.keys = c.keys[1:]
	return k
}

func (c *testConsole) column() int { return c.col }

func (c *testConsole) width() int { return c.colWidth }

func (c *testConsole) setWidth(w int) { c.colWidth = w }

func (c *testConsole) clearScreen() { c.out.Reset(); c.col = 0 }

//
// Harness: parse, load, run to completion
//

func runSource(t *testing.T, src string, inputs ...string) (*interp, *testConsole) {

	t.Helper()

	prog, err := parseProgramSource(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	r := newRun()
	r.load(prog)
	tc := newTestConsole(inputs...)
	ip := newInterp(r, tc, osFileSystem{})
	ip.startRun(0)
	ip.runToCompletion()
	return ip, tc
}

func wantOutput(t *testing.T, tc *testConsole, want string) {

	t.Helper()
	if got := tc.out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func wantClean(t *testing.T, ip *interp) {

	t.Helper()
	if ip.errInfo != nil {
		t.Fatalf("unexpected error: %s in %d", ip.errInfo.msg, ip.errInfo.lineNo)
	}
	if ip.r.cur.reason != stopEnd {
		t.Fatalf("halt reason = %d, want end", ip.r.cur.reason)
	}
}

func wantErrCode(t *testing.T, ip *interp, code, lineNo int) {

	t.Helper()
	if ip.errInfo == nil {
		t.Fatalf("expected error %d, run finished clean", code)
	}
	if ip.errInfo.code != code {
		t.Errorf("error code = %d, want %d", ip.errInfo.code, code)
	}
	if lineNo > 0 && ip.errInfo.lineNo != lineNo {
		t.Errorf("error line = %d, want %d", ip.errInfo.lineNo, lineNo)
	}
}

//
// Loops
//

func TestForLoopCountsAndRetires(t *testing.T) {

	ip, tc := runSource(t, `
10 FOR I=1 TO 5
20 PRINT I;
30 NEXT I
40 PRINT "DONE"`)

	wantClean(t, ip)
	wantOutput(t, tc, " 1  2  3  4  5 DONE\n")
	if len(ip.r.forStates) != 0 {
		t.Errorf("FOR state left behind: %v", ip.r.forStates)
	}
}

func TestForLoopZeroTrip(t *testing.T) {

	ip, tc := runSource(t, `
10 FOR I=5 TO 1
20 PRINT "BODY"
30 NEXT I
40 PRINT "DONE"`)

	wantClean(t, ip)
	wantOutput(t, tc, "DONE\n")
}

func TestForLoopZeroTripSkipsUnrelatedNext(t *testing.T) {

	// the NEXT X closes some other loop and must not end the scan
	ip, tc := runSource(t, `
10 FOR I=5 TO 1
20 PRINT "BODY"
30 NEXT X
40 NEXT I
50 PRINT "DONE"`)

	wantClean(t, ip)
	wantOutput(t, tc, "DONE\n")
}

func TestForLoopZeroTripNextList(t *testing.T) {

	ip, tc := runSource(t, `
10 FOR I=5 TO 1
20 FOR J=1 TO 2
30 PRINT "BODY"
40 NEXT J,I
50 PRINT "DONE"`)

	wantClean(t, ip)
	wantOutput(t, tc, "DONE\n")
}

func TestForLoopNegativeStep(t *testing.T) {

	ip, tc := runSource(t, `
10 FOR I=3 TO 1 STEP -1
20 PRINT I;
30 NEXT
40 PRINT`)

	wantClean(t, ip)
	wantOutput(t, tc, " 3  2  1 \n")
}

func TestNextWithoutVariableClosesMostRecent(t *testing.T) {

	ip, tc := runSource(t, `
10 FOR I=1 TO 2
20 FOR J=1 TO 2
30 PRINT I;J;
40 NEXT
50 NEXT
60 PRINT "OK"`)

	wantClean(t, ip)
	wantOutput(t, tc, " 1  1  1  2  2  1  2  2 OK\n")
}

func TestNextWithoutFor(t *testing.T) {

	ip, _ := runSource(t, `10 NEXT I`)
	wantErrCode(t, ip, errNextWithoutFor, 10)
}

func TestForWithoutNext(t *testing.T) {

	ip, _ := runSource(t, `
10 FOR I=5 TO 1
20 PRINT "NEVER"`)
	wantErrCode(t, ip, errForWithoutNext, 10)
}

func TestWhileWend(t *testing.T) {

	ip, tc := runSource(t, `
10 I=0
20 WHILE I<3
30 I=I+1
40 WEND
50 PRINT I`)

	wantClean(t, ip)
	wantOutput(t, tc, " 3 \n")
}

func TestWhileFalseSkipsBody(t *testing.T) {

	ip, tc := runSource(t, `
10 WHILE 0
20 PRINT "NEVER"
30 WEND
40 PRINT "OK"`)

	wantClean(t, ip)
	wantOutput(t, tc, "OK\n")
}

func TestWendWithoutWhile(t *testing.T) {

	ip, _ := runSource(t, `10 WEND`)
	wantErrCode(t, ip, errWendWithoutWhile, 10)
}

//
// Subroutines
//

func TestGosubReturnNesting(t *testing.T) {

	ip, tc := runSource(t, `
10 GOSUB 100
20 PRINT "MAIN"
30 END
100 GOSUB 200
110 PRINT "SUB1"
120 RETURN
200 PRINT "SUB2"
210 RETURN`)

	wantClean(t, ip)
	wantOutput(t, tc, "SUB2\nSUB1\nMAIN\n")
}

func TestReturnWithoutGosub(t *testing.T) {

	ip, _ := runSource(t, `10 RETURN`)
	wantErrCode(t, ip, errReturnWithoutGosub, 10)
}

func TestOnGotoSelects(t *testing.T) {

	ip, tc := runSource(t, `
10 ON 2 GOTO 100,200,300
100 PRINT "ONE"
110 END
200 PRINT "TWO"
210 END
300 PRINT "THREE"`)

	wantClean(t, ip)
	wantOutput(t, tc, "TWO\n")
}

func TestOnGotoOutOfRangeFallsThrough(t *testing.T) {

	ip, tc := runSource(t, `
10 ON 5 GOTO 100,200
20 PRINT "FELL"
30 END
100 PRINT "NO"
200 PRINT "NO"`)

	wantClean(t, ip)
	wantOutput(t, tc, "FELL\n")
}

func TestGotoUndefinedLine(t *testing.T) {

	ip, _ := runSource(t, `10 GOTO 999`)
	wantErrCode(t, ip, errUndefinedLineNumber, 10)
}

//
// IF / ELSE
//

func TestIfThenElse(t *testing.T) {

	ip, tc := runSource(t, `
10 A=2
20 IF A=1 THEN PRINT "ONE" ELSE PRINT "TWO"
30 IF A=2 THEN PRINT "YES":PRINT "STILL" ELSE PRINT "NO"`)

	wantClean(t, ip)
	wantOutput(t, tc, "TWO\nYES\nSTILL\n")
}

func TestIfGotoLine(t *testing.T) {

	ip, tc := runSource(t, `
10 IF 1 GOTO 100
20 PRINT "NO"
30 END
100 PRINT "JUMPED"`)

	wantClean(t, ip)
	wantOutput(t, tc, "JUMPED\n")
}

//
// Error handling and RESUME
//

func TestOnErrorGotoAndResumeNext(t *testing.T) {

	ip, tc := runSource(t, `
10 ON ERROR GOTO 100
20 X = 1/0
30 PRINT "AFTER"
40 END
100 PRINT ERR;ERL
110 RESUME NEXT`)

	wantClean(t, ip)
	wantOutput(t, tc, " 11  20 \nAFTER\n")
}

func TestResumeRetriesFaultingStatement(t *testing.T) {

	ip, tc := runSource(t, `
10 ON ERROR GOTO 100
20 D=0
30 X = 1/D
40 PRINT X
50 END
100 D=2
110 RESUME`)

	wantClean(t, ip)
	wantOutput(t, tc, " .5 \n")
}

func TestUnhandledErrorHalts(t *testing.T) {

	ip, _ := runSource(t, `
10 PRINT "START"
20 X = 1/0
30 PRINT "NEVER"`)

	wantErrCode(t, ip, errDivisionByZero, 20)
	if ip.r.cur.reason != stopError {
		t.Errorf("halt reason = %d, want error", ip.r.cur.reason)
	}
}

func TestEndWithPendingErrorIsNoResume(t *testing.T) {

	ip, _ := runSource(t, `
10 ON ERROR GOTO 100
20 ERROR 11
30 END
100 END`)

	wantErrCode(t, ip, errNoResume, 100)
}

func TestResumeWithoutError(t *testing.T) {

	ip, _ := runSource(t, `10 RESUME`)
	wantErrCode(t, ip, errResumeWithoutError, 10)
}

func TestFaultInsideHandlerIsFatal(t *testing.T) {

	ip, _ := runSource(t, `
10 ON ERROR GOTO 100
20 ERROR 11
30 END
100 ERROR 6`)

	wantErrCode(t, ip, errOverflow, 100)
}

func TestErrorStatementRaisesCode(t *testing.T) {

	ip, _ := runSource(t, `10 ERROR 53`)
	wantErrCode(t, ip, errFileNotFound, 10)
}

//
// DATA / READ / RESTORE
//

func TestReadAndRestore(t *testing.T) {

	ip, tc := runSource(t, `
10 DATA 1,2,HELLO
20 READ A,B,C$
30 RESTORE
40 READ X
50 PRINT A;B;C$;X`)

	wantClean(t, ip)
	wantOutput(t, tc, " 1  2 HELLO 1 \n")
}

func TestRestoreToLine(t *testing.T) {

	ip, tc := runSource(t, `
10 DATA 1
20 DATA 2
30 READ A
40 RESTORE 20
50 READ B
60 PRINT A;B`)

	wantClean(t, ip)
	wantOutput(t, tc, " 1  2 \n")
}

func TestOutOfData(t *testing.T) {

	ip, _ := runSource(t, `
10 DATA 1
20 READ A,B`)
	wantErrCode(t, ip, errOutOfData, 20)
}

func TestDataStringsKeepCase(t *testing.T) {

	ip, tc := runSource(t, `
10 DATA Hello There,"Quoted, comma"
20 READ A$,B$
30 PRINT A$;B$`)

	wantClean(t, ip)
	wantOutput(t, tc, "Hello ThereQuoted, comma\n")
}

//
// Arrays
//

func TestDimAndSubscripts(t *testing.T) {

	ip, tc := runSource(t, `
10 DIM A(2,3)
20 A(2,3)=7
30 PRINT A(2,3);A(0,0)`)

	wantClean(t, ip)
	wantOutput(t, tc, " 7  0 \n")
}

func TestDuplicateDim(t *testing.T) {

	ip, _ := runSource(t, `
10 DIM A(5)
20 DIM A(5)`)
	wantErrCode(t, ip, errDuplicateDefinition, 20)
}

func TestSubscriptOutOfRange(t *testing.T) {

	ip, _ := runSource(t, `
10 DIM A(5)
20 A(6)=1`)
	wantErrCode(t, ip, errSubscriptOutOfRange, 20)
}

func TestAutoDimAndErase(t *testing.T) {

	ip, tc := runSource(t, `
10 A(10)=5
20 PRINT A(10)
30 ERASE A
40 DIM A(3)
50 PRINT A(3)`)

	wantClean(t, ip)
	wantOutput(t, tc, " 5 \n 0 \n")
}

func TestOptionBaseOne(t *testing.T) {

	ip, _ := runSource(t, `
10 OPTION BASE 1
20 DIM A(3)
30 A(0)=1`)
	wantErrCode(t, ip, errSubscriptOutOfRange, 30)
}

//
// Variables, types, functions
//

func TestTypeSuffixesAndDefInt(t *testing.T) {

	ip, tc := runSource(t, `
10 DEFINT I-K
20 I=2.5
30 J=3.5
40 X=2.5
50 PRINT I;J;X`)

	wantClean(t, ip)
	// banker's rounding: 2.5 rounds to 2, 3.5 rounds to 4
	wantOutput(t, tc, " 2  4  2.5 \n")
}

func TestNumericToStringIsTypeMismatch(t *testing.T) {

	ip, _ := runSource(t, `10 A$ = 5`)
	wantErrCode(t, ip, errTypeMismatch, 10)
}

func TestDefFnShadowsParameters(t *testing.T) {

	ip, tc := runSource(t, `
10 DEF FNSQ(X) = X*X
20 X = 7
30 PRINT FNSQ(3);X`)

	wantClean(t, ip)
	wantOutput(t, tc, " 9  7 \n")
}

func TestUndefinedUserFunction(t *testing.T) {

	ip, _ := runSource(t, `10 PRINT FNZZ(1)`)
	wantErrCode(t, ip, errUndefinedUserFunc, 10)
}

func TestSwap(t *testing.T) {

	ip, tc := runSource(t, `
10 A$="X":B$="Y"
20 SWAP A$,B$
30 PRINT A$;B$`)

	wantClean(t, ip)
	wantOutput(t, tc, "YX\n")
}

func TestMidAssignment(t *testing.T) {

	ip, tc := runSource(t, `
10 A$="KANSAS CITY"
20 MID$(A$,8,2)="MO"
30 PRINT A$`)

	wantClean(t, ip)
	wantOutput(t, tc, "KANSAS MOTY\n")
}

//
// PRINT formatting
//

func TestPrintZones(t *testing.T) {

	ip, tc := runSource(t, `10 PRINT "A","B"`)

	wantClean(t, ip)
	wantOutput(t, tc, "A             B\n")
}

func TestPrintTab(t *testing.T) {

	ip, tc := runSource(t, `10 PRINT TAB(10);"X"`)

	wantClean(t, ip)
	wantOutput(t, tc, "         X\n")
}

func TestPrintTrailingSemicolonSuppressesNewline(t *testing.T) {

	ip, tc := runSource(t, `
10 PRINT "A";
20 PRINT "B"`)

	wantClean(t, ip)
	wantOutput(t, tc, "AB\n")
}

func TestPrintUsingStatement(t *testing.T) {

	ip, tc := runSource(t, `10 PRINT USING "###.##"; 3.14159`)

	wantClean(t, ip)
	wantOutput(t, tc, "  3.14\n")
}

func TestWriteQuotesStrings(t *testing.T) {

	ip, tc := runSource(t, `10 WRITE "HI",42`)

	wantClean(t, ip)
	wantOutput(t, tc, "\"HI\",42\n")
}

//
// INPUT
//

func TestInputAssignsFields(t *testing.T) {

	ip, tc := runSource(t, `
10 INPUT "NAME";A$,B
20 PRINT A$;B`, "ALICE, 42")

	wantClean(t, ip)
	wantOutput(t, tc, "ALICE 42 \n")
}

func TestInputRedoOnBadNumber(t *testing.T) {

	ip, tc := runSource(t, `
10 INPUT A
20 PRINT A`, "oops", "7")

	wantClean(t, ip)
	wantOutput(t, tc, "?Redo from start\n 7 \n")
}

func TestLineInputTakesWholeLine(t *testing.T) {

	ip, tc := runSource(t, `
10 LINE INPUT A$
20 PRINT A$`, "a, b, c")

	wantClean(t, ip)
	wantOutput(t, tc, "a, b, c\n")
}

//
// RUN, CHAIN, control requests
//

func TestRunStatementResetsVariables(t *testing.T) {

	ip, tc := runSource(t, `
10 A=5
20 RUN 40
30 PRINT "NO"
40 PRINT A`)

	wantClean(t, ip)
	wantOutput(t, tc, " 0 \n")
}

func TestChainPostsRequest(t *testing.T) {

	ip, _ := runSource(t, `10 CHAIN "other.bas",100,ALL`)

	if ip.chainReq == nil {
		t.Fatal("no chain request posted")
	}
	if ip.chainReq.filename != "other.bas" || !ip.chainReq.hasLine ||
		ip.chainReq.lineNo != 100 || !ip.chainReq.all {
		t.Errorf("bad chain request: %+v", ip.chainReq)
	}
	if ip.r.cur.reason != stopEnd {
		t.Errorf("halt reason = %d, want end", ip.r.cur.reason)
	}
}

//
// Breakpoints and breaks
//

func TestBreakpointHaltsBeforeStatement(t *testing.T) {

	prog, err := parseProgramSource(`
10 PRINT "A"
20 PRINT "B"
30 PRINT "C"`)
	if err != nil {
		t.Fatal(err)
	}

	r := newRun()
	r.load(prog)
	tc := newTestConsole()
	ip := newInterp(r, tc, osFileSystem{})
	r.breakpoints[pcKey{lineNo: 20}] = true

	ip.startRun(0)
	ip.runToCompletion()

	if r.cur.reason != stopBreakpoint || r.cur.lineNo != 20 {
		t.Fatalf("halt = %+v, want breakpoint at 20", r.cur)
	}
	if got := tc.out.String(); got != "A\n" {
		t.Errorf("output before break = %q", got)
	}

	// resume: the one-shot skip lets line 20 run this time
	r.cur.reason = stopNone
	ip.runToCompletion()
	wantClean(t, ip)
	if got := tc.out.String(); got != "A\nB\nC\n" {
		t.Errorf("output after resume = %q", got)
	}
}

func TestStopThenResumeAtNextStatement(t *testing.T) {

	prog, err := parseProgramSource(`
10 PRINT "A"
20 STOP
30 PRINT "B"`)
	if err != nil {
		t.Fatal(err)
	}

	r := newRun()
	r.load(prog)
	tc := newTestConsole()
	ip := newInterp(r, tc, osFileSystem{})
	ip.startRun(0)
	ip.runToCompletion()

	if r.cur.reason != stopStop || r.cur.lineNo != 20 {
		t.Fatalf("halt = %+v, want stop at 20", r.cur)
	}

	r.cur.reason = stopNone
	r.cur = r.stmts.next(r.cur)
	ip.runToCompletion()
	wantClean(t, ip)
	if got := tc.out.String(); got != "A\nB\n" {
		t.Errorf("output = %q", got)
	}
}

//
// CLEAR and state reset
//

func TestClearWipesVariablesButKeepsProgramRunning(t *testing.T) {

	ip, tc := runSource(t, `
10 A=5
20 CLEAR
30 PRINT A`)

	wantClean(t, ip)
	wantOutput(t, tc, " 0 \n")
}

func TestTracePrintsLineNumbers(t *testing.T) {

	ip, tc := runSource(t, `
10 TRON
20 PRINT "X"
30 TROFF
40 PRINT "Y"`)

	// the trace tag prints before each traced line; TROFF itself is
	// still traced, the line after it is not
	wantClean(t, ip)
	wantOutput(t, tc, "[20]X\n[30]Y\n")
}
