package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/goforj/godump"
	"github.com/tklauser/go-sysconf"
	"golang.org/x/term"
)

//
// The interactive front end: program editing, direct-mode execution,
// and the commands that drive the engine
//

var mach *interp
var cons console

func main() {

	//
	// Close the liner instances on the way out so we end up back in
	// normal (cooked) terminal mode
	//

	defer teardownTerminal()

	setupTerminal()

	cons = newTermConsole()
	mach = newInterp(newRun(), cons, osFileSystem{})

	go sigHdlr()

	printVersionInfo()

	switch len(os.Args) {
	default:
		fmt.Println("Usage: mbasic [program]")
		return

	case 1:
		// nothing to do

	case 2:
		if loadProgram(os.Args[1]) {
			mach.startRun(0)
			runLoop()
		}
	}

	for !g.exiting {
		fmt.Println("Ok")
		line, err := readCommandLine("")
		if err != nil {
			if err == errPromptAborted {
				continue
			}
			break
		}
		handleCommandLine(line)
	}
}

func printVersionInfo() {

	fmt.Printf("BASIC-80 Rev. %s\n[MBASIC interpreter]\n", VERSION)
}

//
// SIGINT requests a break at the next tick; SIGWINCH re-reads the
// window geometry
//

func sigHdlr() {

	ch := make(chan os.Signal, 1)

	signal.Ignore(syscall.SIGTSTP)

	signal.Notify(ch, syscall.SIGINT)
	signal.Notify(ch, syscall.SIGWINCH)

	for {
		sig := <-ch

		switch sig {

		case syscall.SIGINT:
			breakRequested = true

		case syscall.SIGWINCH:
			if cols, rows, err := term.GetSize(stdinFd); err == nil {
				g.windowCols = cols
				g.windowRows = rows
			}
		}
	}
}

//
// One line from the prompt: a numbered line edits the program, a
// known command runs here, anything else executes as direct-mode
// statements
//

func handleCommandLine(text string) {

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}

	if trimmed[0] >= '0' && trimmed[0] <= '9' {
		editProgramLine(text)
		return
	}

	if handleCommand(trimmed) {
		return
	}

	executeDirect(trimmed)
}

func editProgramLine(text string) {

	lineNo, rest, ok := splitLineNumber(text)
	if !ok {
		fmt.Println("?Syntax error")
		return
	}

	r := mach.r

	if strings.TrimSpace(rest) == "" {
		if !r.stmts.removeLine(lineNo) {
			fmt.Println("?Undefined line number")
			return
		}
	} else {
		pl, err := parseLineText(lineNo, rest, strings.TrimSpace(text))
		if err != nil {
			fmt.Println("?Syntax error")
			return
		}
		r.stmts.insertLine(pl)
	}

	//
	// Any edit invalidates CONT and drops run state
	//

	r.collectProgram()
	r.reset()
	r.cur = haltedPC(stopEnd)
	g.modified = true
}

//
// Direct-mode execution. A statement that branches into the program
// (GOTO, RUN) starts the tick loop.
//

func executeDirect(text string) {

	stmts, err := parseDirect(text)
	if err != nil {
		fmt.Println("?Syntax error")
		return
	}

	r := mach.r

	for _, st := range stmts {
		r.directMode = true
		be := mach.execGuard(st)
		r.directMode = false

		if be != nil {
			fmt.Printf("?%s\n", be.msg)
			return
		}

		if r.jump != nil {
			r.cur = *r.jump
			r.jump = nil
			g.modified = false
			runLoop()
			return
		}

		if mach.runReq != nil || mach.chainReq != nil {
			runLoop()
			return
		}
	}
}

//
// Tick until the run halts, servicing CHAIN/RUN requests, then report
//

func runLoop() {

	breakRequested = false
	u0, s0 := getCPUInfo()

	for {
		mach.runToCompletion()

		if mach.runReq != nil {
			req := mach.runReq
			mach.runReq = nil
			if !loadProgram(req.filename) {
				break
			}
			startLine := 0
			if req.hasLine {
				startLine = req.lineNo
			}
			mach.startRun(startLine)
			continue
		}

		if mach.chainReq != nil {
			if !serviceChain(mach.chainReq) {
				break
			}
			continue
		}
		break
	}

	reportHalt()

	if g.statsOn {
		u1, s1 := getCPUInfo()
		fmt.Printf("user %ds, system %ds, %d statements\n", u1-u0, s1-s0, s.stmtCount)
	}
}

//
// CHAIN: load (or merge) the named program, restart at its first
// line or the requested one, carrying over COMMON variables (all of
// them with the ALL option)
//

func serviceChain(req *chainRequest) bool {

	mach.chainReq = nil
	r := mach.r

	savedVars := make(map[string]any)
	savedArrays := make(map[string]*arrayData)
	for name, v := range r.vars {
		if req.all || r.commonVars[name] {
			savedVars[name] = v
		}
	}
	for name, a := range r.arrays {
		if req.all || r.commonVars[name] {
			savedArrays[name] = a
		}
	}

	prog, err := readProgramFile(req.filename)
	if err != nil {
		fmt.Printf("?%s\n", err)
		return false
	}

	if req.merge {
		r.overlay(prog)
	} else {
		r.load(prog)
	}

	startLine := 0
	if req.hasLine {
		startLine = req.lineNo
	}
	mach.startRun(startLine)

	for name, v := range savedVars {
		r.vars[name] = v
	}
	for name, a := range savedArrays {
		r.arrays[name] = a
	}
	return true
}

func reportHalt() {

	r := mach.r

	switch r.cur.reason {
	case stopEnd:
		// quiet

	case stopStop, stopBreakpoint, stopBreak, stopInputWait:
		if r.cur.lineNo > 0 {
			fmt.Printf("Break in %d\n", r.cur.lineNo)
		} else {
			fmt.Println("Break")
		}

	case stopError:
		if e := mach.errInfo; e != nil {
			if e.lineNo > 0 {
				fmt.Printf("?%s in %d\n", e.msg, e.lineNo)
			} else {
				fmt.Printf("?%s\n", e.msg)
			}
		}
	}
}

//
// REPL commands that are not BASIC statements. Returns false if the
// line should go to the direct-mode executor instead.
//

func handleCommand(text string) bool {

	word := strings.ToLower(text)
	arg := ""
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		word = strings.ToLower(text[:i])
		arg = strings.TrimSpace(text[i+1:])
	}

	switch word {
	case "list":
		cmdList(arg)
	case "new":
		cmdNew()
	case "load":
		cmdLoad(arg)
	case "save":
		cmdSave(arg)
	case "cont":
		cmdCont()
	case "delete":
		cmdDelete(arg)
	case "renum":
		cmdRenum(arg)
	case "files":
		cmdFiles(arg)
	case "reset":
		mach.r.closeAllFiles()
	case "break":
		cmdBreak(arg)
	case "unbreak":
		cmdUnbreak(arg)
	case "stats":
		g.statsOn = !g.statsOn
	case "dump":
		cmdDump(arg)
	case "help":
		printHelp(arg)
	case "bye", "system", "quit", "exit":
		g.exiting = true
	default:
		return false
	}
	return true
}

//
// LIST [start][-end]
//

func parseLineRange(arg string) (int, int, bool) {

	lo, hi := 0, maxLineNumber
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return lo, hi, true
	}

	parts := strings.SplitN(arg, "-", 2)
	if p := strings.TrimSpace(parts[0]); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, false
		}
		lo = n
		if len(parts) == 1 {
			hi = n
		}
	}
	if len(parts) == 2 {
		if p := strings.TrimSpace(parts[1]); p != "" {
			n, err := strconv.Atoi(p)
			if err != nil {
				return 0, 0, false
			}
			hi = n
		}
	}
	return lo, hi, true
}

func cmdList(arg string) {

	lo, hi, ok := parseLineRange(arg)
	if !ok {
		fmt.Println("?Syntax error")
		return
	}

	t := mach.r.stmts
	for pl := t.firstLine(); pl != nil; pl = t.nextLine(pl) {
		if pl.lineNo >= lo && pl.lineNo <= hi {
			fmt.Println(pl.text)
		}
	}
}

func cmdNew() {

	mach.r.clear()
	mach.r.stmts.build(&program{})
	mach.r.collectProgram()
	mach.r.cur = haltedPC(stopEnd)
	g.progName = ""
	g.modified = false
}

//
// LOAD/SAVE. A bare name gets the .bas suffix.
//

func programFilename(arg string) string {

	name := strings.Trim(strings.TrimSpace(arg), "\"")
	if name != "" && filepath.Ext(name) == "" {
		name += basFileSuffix
	}
	return name
}

func readProgramFile(name string) (*program, error) {

	contents, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("File not found")
	}
	prog, perr := parseProgramSource(string(contents))
	if perr != nil {
		return nil, perr
	}
	return prog, nil
}

func loadProgram(arg string) bool {

	name := programFilename(arg)
	if name == "" {
		fmt.Println("?Bad file name")
		return false
	}

	prog, err := readProgramFile(name)
	if err != nil {
		fmt.Printf("?%s\n", err)
		return false
	}

	mach.r.clear()
	mach.r.load(prog)
	g.progName = name
	g.modified = false
	return true
}

func cmdLoad(arg string) {

	loadProgram(arg)
}

func cmdSave(arg string) {

	name := programFilename(arg)
	if name == "" {
		name = g.progName
	}
	if name == "" {
		fmt.Println("?Bad file name")
		return
	}

	var sb strings.Builder
	t := mach.r.stmts
	for pl := t.firstLine(); pl != nil; pl = t.nextLine(pl) {
		sb.WriteString(pl.text)
		sb.WriteByte('\n')
	}

	if err := os.WriteFile(name, []byte(sb.String()), 0644); err != nil {
		fmt.Println("?Disk I/O error")
		return
	}
	g.progName = name
	g.modified = false
}

//
// CONT resumes a stopped run. STOP halts after executing, so the PC
// moves past it; a breakpoint or break halts before, so it does not.
//

func cmdCont() {

	r := mach.r

	if g.modified {
		fmt.Println("?Can't continue")
		return
	}

	switch r.cur.reason {
	case stopStop:
		r.cur.reason = stopNone
		r.cur = r.stmts.next(r.cur)
	case stopBreakpoint, stopBreak, stopInputWait:
		r.cur.reason = stopNone
	default:
		fmt.Println("?Can't continue")
		return
	}

	runLoop()
}

func cmdDelete(arg string) {

	lo, hi, ok := parseLineRange(arg)
	if !ok || strings.TrimSpace(arg) == "" {
		fmt.Println("?Syntax error")
		return
	}

	r := mach.r
	removed := false

	t := r.stmts
	var doomed []int
	for pl := t.firstLine(); pl != nil; pl = t.nextLine(pl) {
		if pl.lineNo >= lo && pl.lineNo <= hi {
			doomed = append(doomed, pl.lineNo)
		}
	}
	for _, n := range doomed {
		t.removeLine(n)
		removed = true
	}

	if !removed {
		fmt.Println("?Undefined line number")
		return
	}

	r.collectProgram()
	r.reset()
	r.cur = haltedPC(stopEnd)
	g.modified = true
}

func cmdFiles(arg string) {

	pattern := strings.Trim(strings.TrimSpace(arg), "\"")
	if pattern == "" {
		pattern = "*"
	}

	entries, err := os.ReadDir(".")
	if err != nil {
		fmt.Println("?Disk I/O error")
		return
	}

	for _, e := range entries {
		if ok, _ := filepath.Match(pattern, e.Name()); ok {
			fmt.Println(e.Name())
		}
	}
}

//
// Breakpoints: BREAK lists, BREAK n sets, UNBREAK n (or UNBREAK)
// clears
//

func cmdBreak(arg string) {

	r := mach.r

	if strings.TrimSpace(arg) == "" {
		for key := range r.breakpoints {
			fmt.Printf("Breakpoint at %d\n", key.lineNo)
		}
		return
	}

	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || !r.stmts.valid(pcInfo{lineNo: n}) {
		fmt.Println("?Undefined line number")
		return
	}
	r.breakpoints[pcKey{lineNo: n}] = true
}

func cmdUnbreak(arg string) {

	r := mach.r

	if strings.TrimSpace(arg) == "" {
		r.breakpoints = make(map[pcKey]bool)
		return
	}

	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		fmt.Println("?Syntax error")
		return
	}
	delete(r.breakpoints, pcKey{lineNo: n})
}

//
// DUMP [line]: dump parsed statement structures for debugging
//

func cmdDump(arg string) {

	t := mach.r.stmts

	if strings.TrimSpace(arg) == "" {
		godump.Dump(mach.r.cur)
		return
	}

	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		fmt.Println("?Syntax error")
		return
	}
	pl := t.lookupLine(n)
	if pl == nil {
		fmt.Println("?Undefined line number")
		return
	}
	godump.Dump(pl.stmts)
}

//
// Post-run CPU accounting, clock ticks scaled to seconds
//

func getCPUInfo() (int64, int64) {

	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil || clktck == 0 {
		return 0, 0
	}

	contents, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return 0, 0
	}

	fields := strings.Fields(string(contents))
	if len(fields) < 15 {
		return 0, 0
	}

	utime, err := strconv.ParseInt(fields[13], 10, 64)
	if err != nil {
		return 0, 0
	}
	stime, err := strconv.ParseInt(fields[14], 10, 64)
	if err != nil {
		return 0, 0
	}

	return utime / clktck, stime / clktck
}

//
// RENUM [newstart[,increment]]: renumber every line and rewrite the
// line references inside the source text, then reparse
//

func cmdRenum(arg string) {

	start, inc := 10, 10
	arg = strings.TrimSpace(arg)
	if arg != "" {
		parts := strings.SplitN(arg, ",", 2)
		n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil || n < 1 {
			fmt.Println("?Syntax error")
			return
		}
		start = n
		if len(parts) == 2 {
			m, merr := strconv.Atoi(strings.TrimSpace(parts[1]))
			if merr != nil || m < 1 {
				fmt.Println("?Syntax error")
				return
			}
			inc = m
		}
	}

	r := mach.r
	t := r.stmts

	mapping := make(map[int]int)
	next := start
	for pl := t.firstLine(); pl != nil; pl = t.nextLine(pl) {
		mapping[pl.lineNo] = next
		next += inc
	}
	if next > maxLineNumber {
		fmt.Println("?Illegal function call")
		return
	}

	var sb strings.Builder
	for pl := t.firstLine(); pl != nil; pl = t.nextLine(pl) {
		_, rest, _ := splitLineNumber(pl.text)
		renumbered, err := renumberLineText(rest, mapping)
		if err != nil {
			fmt.Println("?Syntax error")
			return
		}
		fmt.Fprintf(&sb, "%d %s\n", mapping[pl.lineNo], renumbered)
	}

	prog, err := parseProgramSource(sb.String())
	if err != nil {
		fmt.Println("?Syntax error")
		return
	}

	r.clear()
	r.load(prog)
	g.modified = true
}

//
// Rewrite the line numbers that follow branching keywords in one
// statement text, splicing by token position
//

var lineRefWords = map[string]bool{
	"goto":    true,
	"gosub":   true,
	"then":    true,
	"else":    true,
	"restore": true,
	"resume":  true,
	"run":     true,
}

func renumberLineText(text string, mapping map[int]int) (string, error) {

	toks, err := tokenize(text)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	pos := 0 // byte index into text

	copyThrough := func(end int) {
		if end > pos {
			out.WriteString(text[pos:end])
			pos = end
		}
	}

	expectingRef := false
	for _, tok := range toks {
		if tok.kind == tokEOF {
			break
		}

		if tok.kind == tokNumber && expectingRef {
			old := toInt(tok.num)
			if n, ok := mapping[old]; ok {
				copyThrough(tok.col - 1)
				out.WriteString(strconv.Itoa(n))
				pos = tok.col - 1 + len(tok.text)
			}
			// a comma keeps an ON ... GOTO list going
			continue
		}

		switch tok.kind {
		case tokIdent:
			expectingRef = lineRefWords[strings.ToLower(tok.text)]
		case tokComma:
			// keep expectingRef as is for target lists
		default:
			expectingRef = false
		}
	}

	copyThrough(len(text))
	return out.String(), nil
}
