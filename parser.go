package main

import (
	"fmt"
	"strconv"
	"strings"
)

//
// Recursive-descent parser. One parser instance handles one source
// line; parse failures panic with a *parseFailure and are converted
// to an error at the entry points.
//

type parseFailure struct {
	msg string
}

type parser struct {
	src    string
	toks   []token
	pos    int
	lineNo int // 0 in direct mode
}

func (p *parser) fail(format string, args ...any) {

	panic(&parseFailure{msg: fmt.Sprintf(format, args...)})
}

func (p *parser) cur() token {

	return p.toks[p.pos]
}

func (p *parser) advance() token {

	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) accept(kind tokenKind) bool {

	if p.cur().kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(kind tokenKind, what string) token {

	if p.cur().kind != kind {
		p.fail("expected %s", what)
	}
	return p.advance()
}

func (p *parser) peekWord(word string) bool {

	t := p.cur()
	return t.kind == tokIdent && strings.ToLower(t.text) == word
}

func (p *parser) acceptWord(word string) bool {

	if p.peekWord(word) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectWord(word string) {

	if !p.acceptWord(word) {
		p.fail("expected %s", strings.ToUpper(word))
	}
}

func (p *parser) atStmtEnd() bool {

	k := p.cur().kind
	return k == tokEOF || k == tokColon || p.peekWord("else")
}

//
// Entry points
//

func parseProgramSource(src string) (*program, error) {

	prog := &program{}

	for n, raw := range strings.Split(src, "\n") {
		text := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		lineNo, rest, ok := splitLineNumber(text)
		if !ok {
			return nil, fmt.Errorf("line %d: missing line number", n+1)
		}
		pl, err := parseLineText(lineNo, rest, text)
		if err != nil {
			return nil, err
		}
		prog.lines = append(prog.lines, pl)
	}
	return prog, nil
}

func splitLineNumber(text string) (int, string, bool) {

	t := strings.TrimLeft(text, " \t")
	i := 0
	for i < len(t) && t[i] >= '0' && t[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(t[:i])
	if err != nil || n > maxLineNumber {
		return 0, "", false
	}
	return n, strings.TrimLeft(t[i:], " "), true
}

func parseLineText(lineNo int, stmtText, fullText string) (pl *progLine, err error) {

	defer func() {
		if e := recover(); e != nil {
			pf, ok := e.(*parseFailure)
			if !ok {
				panic(e)
			}
			err = fmt.Errorf("line %d: %s", lineNo, pf.msg)
		}
	}()

	toks, lexErr := tokenize(stmtText)
	if lexErr != nil {
		return nil, fmt.Errorf("line %d: %s", lineNo, lexErr)
	}

	p := &parser{src: stmtText, toks: toks, lineNo: lineNo}
	stmts := p.parseStmtList(false)
	if p.cur().kind != tokEOF {
		p.fail("unexpected %q", p.cur().text)
	}
	return &progLine{lineNo: lineNo, stmts: stmts, text: fullText}, nil
}

//
// Direct-mode commands and THEN/ELSE clauses share this path
//

func parseDirect(text string) (stmts []stmt, err error) {

	defer func() {
		if e := recover(); e != nil {
			pf, ok := e.(*parseFailure)
			if !ok {
				panic(e)
			}
			err = fmt.Errorf("%s", pf.msg)
		}
	}()

	toks, lexErr := tokenize(text)
	if lexErr != nil {
		return nil, lexErr
	}

	p := &parser{src: text, toks: toks}
	stmts = p.parseStmtList(false)
	if p.cur().kind != tokEOF {
		p.fail("unexpected %q", p.cur().text)
	}
	return stmts, nil
}

//
// A colon-separated statement list. When inline (a THEN/ELSE clause)
// the list also stops at ELSE.
//

func (p *parser) parseStmtList(inline bool) []stmt {

	var stmts []stmt

	for {
		for p.accept(tokColon) {
		}
		if p.cur().kind == tokEOF || (inline && p.peekWord("else")) {
			break
		}
		stmts = append(stmts, p.parseStatement())
		if p.cur().kind != tokColon {
			break
		}
	}
	return stmts
}

func (p *parser) parseStatement() stmt {

	t := p.cur()

	if t.kind == tokRemark {
		p.advance()
		return &remStmt{text: t.text}
	}
	if t.kind != tokIdent {
		p.fail("expected statement, got %q", t.text)
	}

	word := strings.ToLower(t.text)
	switch word {
	case "let":
		p.advance()
		return p.parseAssignment()
	case "print":
		p.advance()
		return p.parsePrint(false)
	case "lprint":
		p.advance()
		return p.parsePrint(true)
	case "write":
		p.advance()
		return p.parseWrite()
	case "input":
		p.advance()
		return p.parseInput()
	case "line":
		p.advance()
		p.expectWord("input")
		return p.parseLineInput()
	case "if":
		p.advance()
		return p.parseIf()
	case "for":
		p.advance()
		return p.parseFor()
	case "next":
		p.advance()
		return p.parseNext()
	case "while":
		p.advance()
		return &whileStmt{cond: p.parseExpr()}
	case "wend":
		p.advance()
		return &wendStmt{}
	case "goto":
		p.advance()
		return &gotoStmt{target: p.parseLineNumber()}
	case "gosub":
		p.advance()
		return &gosubStmt{target: p.parseLineNumber()}
	case "return":
		p.advance()
		rs := &returnStmt{}
		if p.cur().kind == tokNumber {
			rs.target = p.parseLineNumber()
		}
		return rs
	case "on":
		p.advance()
		return p.parseOn()
	case "resume":
		p.advance()
		return p.parseResume()
	case "error":
		p.advance()
		return &errorStmt{code: p.parseExpr()}
	case "data":
		p.advance()
		return p.parseData(t.col - 1 + len(t.text))
	case "read":
		p.advance()
		return p.parseRead()
	case "restore":
		p.advance()
		rs := &restoreStmt{target: -1}
		if p.cur().kind == tokNumber {
			rs.target = p.parseLineNumber()
		}
		return rs
	case "dim":
		p.advance()
		return p.parseDim()
	case "erase":
		p.advance()
		return &eraseStmt{names: p.parseNameList()}
	case "def":
		p.advance()
		return p.parseDefFn()
	case "defint":
		p.advance()
		return p.parseDefType(intType)
	case "defsng":
		p.advance()
		return p.parseDefType(sngType)
	case "defdbl":
		p.advance()
		return p.parseDefType(dblType)
	case "defstr":
		p.advance()
		return p.parseDefType(strType)
	case "end":
		p.advance()
		return &endStmt{}
	case "stop":
		p.advance()
		return &stopStmt{}
	case "cls":
		p.advance()
		return &clsStmt{}
	case "swap":
		p.advance()
		a := p.parseLvalue()
		p.expect(tokComma, "comma")
		return &swapStmt{a: a, b: p.parseLvalue()}
	case "clear":
		p.advance()
		// CLEAR [,memory[,stack]] arguments are accepted and ignored
		for !p.atStmtEnd() {
			p.advance()
		}
		return &clearStmt{}
	case "option":
		p.advance()
		p.expectWord("base")
		n := p.parseLineNumber()
		if n != 0 && n != 1 {
			p.fail("OPTION BASE must be 0 or 1")
		}
		return &optionBaseStmt{base: n}
	case "randomize":
		p.advance()
		rs := &randomizeStmt{}
		if !p.atStmtEnd() {
			rs.seed = p.parseExpr()
		}
		return rs
	case "tron":
		p.advance()
		return &tronStmt{on: true}
	case "troff":
		p.advance()
		return &tronStmt{on: false}
	case "width":
		p.advance()
		return &widthStmt{width: p.parseExpr()}
	case "poke":
		p.advance()
		a := p.parseExpr()
		p.expect(tokComma, "comma")
		return &pokeStmt{addr: a, val: p.parseExpr()}
	case "out":
		p.advance()
		a := p.parseExpr()
		p.expect(tokComma, "comma")
		return &outStmt{port: a, val: p.parseExpr()}
	case "wait":
		p.advance()
		return p.parseWait()
	case "call":
		p.advance()
		return p.parseCall()
	case "open":
		p.advance()
		return p.parseOpen()
	case "close":
		p.advance()
		return p.parseClose()
	case "field":
		p.advance()
		return p.parseField()
	case "get":
		p.advance()
		return p.parseGetPut(false)
	case "put":
		p.advance()
		return p.parseGetPut(true)
	case "lset":
		p.advance()
		return p.parseLset(false)
	case "rset":
		p.advance()
		return p.parseLset(true)
	case "chain":
		p.advance()
		return p.parseChain()
	case "common":
		p.advance()
		return p.parseCommon()
	case "run":
		p.advance()
		return p.parseRun()
	case "merge":
		p.advance()
		return &mergeStmt{filename: p.parseExpr()}
	case "kill":
		p.advance()
		return &killStmt{filename: p.parseExpr()}
	case "name":
		p.advance()
		old := p.parseExpr()
		p.expectWord("as")
		return &nameStmt{oldName: old, newName: p.parseExpr()}
	case "mid$":
		return p.parseMidAssign()
	}

	return p.parseAssignment()
}

//
// LET (explicit or implied): lvalue = expr
//

func (p *parser) parseAssignment() stmt {

	target := p.parseLvalue()
	p.expect(tokEq, "=")
	return &letStmt{target: target, value: p.parseExpr()}
}

func (p *parser) parseLvalue() lvalue {

	t := p.expect(tokIdent, "variable name")
	name := normalizeName(t.text)

	if p.accept(tokLParen) {
		var subs []expr
		for {
			subs = append(subs, p.parseExpr())
			if !p.accept(tokComma) {
				break
			}
		}
		p.expect(tokRParen, ")")
		return &arrayExpr{name: name, subs: subs}
	}
	return &varExpr{name: name}
}

func (p *parser) parseNameList() []string {

	var names []string
	for {
		t := p.expect(tokIdent, "variable name")
		names = append(names, normalizeName(t.text))
		if p.accept(tokLParen) {
			p.expect(tokRParen, ")")
		}
		if !p.accept(tokComma) {
			break
		}
	}
	return names
}

func (p *parser) parseLineNumber() int {

	t := p.expect(tokNumber, "line number")
	n := 0
	switch v := t.num.(type) {
	case int16:
		n = int(v)
	case float64:
		n = int(v)
	}
	if n < 0 || n > maxLineNumber {
		p.fail("bad line number %s", t.text)
	}
	return n
}

//
// PRINT / LPRINT, with optional #file and USING clause
//

func (p *parser) parsePrint(printer bool) stmt {

	var fileNum expr
	if !printer && p.accept(tokHash) {
		fileNum = p.parseExpr()
		p.expect(tokComma, "comma")
	}

	if p.acceptWord("using") {
		format := p.parseExpr()
		p.expect(tokSemi, "semicolon")
		ps := &printUsingStmt{fileNum: fileNum, printer: printer, format: format}
		for {
			ps.items = append(ps.items, p.parseExpr())
			if !p.accept(tokSemi) && !p.accept(tokComma) {
				break
			}
			if p.atStmtEnd() {
				break
			}
		}
		return ps
	}

	ps := &printStmt{fileNum: fileNum, printer: printer}
	for !p.atStmtEnd() {
		ps.items = append(ps.items, p.parseExpr())
		switch {
		case p.accept(tokSemi):
			ps.seps = append(ps.seps, ';')
		case p.accept(tokComma):
			ps.seps = append(ps.seps, ',')
		default:
			if p.atStmtEnd() {
				ps.seps = append(ps.seps, 0)
			} else {
				// juxtaposed items act as if separated by ;
				ps.seps = append(ps.seps, ';')
			}
		}
	}
	return ps
}

func (p *parser) parseWrite() stmt {

	ws := &writeStmt{}
	if p.accept(tokHash) {
		ws.fileNum = p.parseExpr()
		p.expect(tokComma, "comma")
	}
	for !p.atStmtEnd() {
		ws.items = append(ws.items, p.parseExpr())
		if !p.accept(tokComma) && !p.accept(tokSemi) {
			break
		}
	}
	return ws
}

//
// INPUT ["prompt"{;|,}] var-list, or INPUT #n, var-list
//

func (p *parser) parseInput() stmt {

	is := &inputStmt{showQMark: true}
	p.accept(tokSemi)

	if p.accept(tokHash) {
		is.fileNum = p.parseExpr()
		p.expect(tokComma, "comma")
	} else if p.cur().kind == tokString {
		is.prompt = p.advance().text
		if p.accept(tokComma) {
			is.showQMark = false
		} else {
			p.expect(tokSemi, "; or , after prompt")
		}
	}

	for {
		is.targets = append(is.targets, p.parseLvalue())
		if !p.accept(tokComma) {
			break
		}
	}
	return is
}

func (p *parser) parseLineInput() stmt {

	ls := &lineInputStmt{}

	if p.accept(tokHash) {
		ls.fileNum = p.parseExpr()
		p.expect(tokComma, "comma")
	} else if p.cur().kind == tokString {
		ls.prompt = p.advance().text
		if !p.accept(tokSemi) {
			p.accept(tokComma)
		}
	}
	ls.target = p.parseLvalue()
	return ls
}

//
// IF cond THEN line|stmts [ELSE line|stmts], or IF cond GOTO line
//

func (p *parser) parseIf() stmt {

	is := &ifStmt{cond: p.parseExpr()}

	if p.acceptWord("goto") {
		is.thenLine = p.parseLineNumber()
	} else {
		p.expectWord("then")
		if p.cur().kind == tokNumber {
			is.thenLine = p.parseLineNumber()
		} else {
			is.thenStmts = p.parseStmtList(true)
		}
	}

	if p.acceptWord("else") {
		if p.cur().kind == tokNumber {
			is.elseLine = p.parseLineNumber()
		} else {
			is.elseStmts = p.parseStmtList(true)
		}
	}
	return is
}

func (p *parser) parseFor() stmt {

	t := p.expect(tokIdent, "loop variable")
	name := normalizeName(t.text)
	if nameSuffixType(name) == strType {
		p.fail("FOR variable must be numeric")
	}
	p.expect(tokEq, "=")
	start := p.parseExpr()
	p.expectWord("to")
	end := p.parseExpr()

	fs := &forStmt{name: name, start: start, end: end}
	if p.acceptWord("step") {
		fs.step = p.parseExpr()
	}
	return fs
}

func (p *parser) parseNext() stmt {

	ns := &nextStmt{}
	for p.cur().kind == tokIdent && !p.peekWord("else") {
		ns.names = append(ns.names, normalizeName(p.advance().text))
		if !p.accept(tokComma) {
			break
		}
	}
	return ns
}

//
// ON expr GOTO/GOSUB list, and ON ERROR GOTO/GOSUB line
//

func (p *parser) parseOn() stmt {

	if p.acceptWord("error") {
		gosub := false
		if !p.acceptWord("goto") {
			p.expectWord("gosub")
			gosub = true
		}
		return &onErrorStmt{target: p.parseLineNumber(), gosub: gosub}
	}

	sel := p.parseExpr()
	gosub := false
	if !p.acceptWord("goto") {
		p.expectWord("gosub")
		gosub = true
	}

	os := &onGotoStmt{sel: sel, gosub: gosub}
	for {
		os.targets = append(os.targets, p.parseLineNumber())
		if !p.accept(tokComma) {
			break
		}
	}
	return os
}

func (p *parser) parseResume() stmt {

	rs := &resumeStmt{}
	if p.acceptWord("next") {
		rs.next = true
	} else if p.cur().kind == tokNumber {
		rs.target = p.parseLineNumber()
	}
	return rs
}

//
// DATA items are read from the raw source text so unquoted strings
// keep their spelling. startCol is the 1-based column just past the
// DATA keyword.
//

func (p *parser) parseData(startCol int) stmt {

	ds := &dataStmt{}
	i := startCol
	end := len(p.src)

	itemStart := i
	inQuote := false
	flush := func(stop int) {
		ds.values = append(ds.values, parseDataItem(p.src[itemStart:stop]))
	}

scan:
	for ; i < end; i++ {
		switch p.src[i] {
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				flush(i)
				itemStart = i + 1
			}
		case ':':
			if !inQuote {
				break scan
			}
		}
	}
	flush(i)

	// resynchronize the token stream past the consumed text
	for p.cur().kind != tokEOF && p.cur().col <= i {
		p.advance()
	}
	return ds
}

func parseDataItem(raw string) any {

	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "\"") {
		s = s[1:]
		if j := strings.IndexByte(s, '"'); j >= 0 {
			s = s[:j]
		}
		return s
	}
	if d, err := strconv.ParseFloat(s, 64); err == nil {
		if d == float64(int16(d)) && !strings.ContainsAny(s, ".eEdD") {
			return int16(d)
		}
		return d
	}
	return s
}

func (p *parser) parseRead() stmt {

	rs := &readStmt{}
	for {
		rs.targets = append(rs.targets, p.parseLvalue())
		if !p.accept(tokComma) {
			break
		}
	}
	return rs
}

func (p *parser) parseDim() stmt {

	ds := &dimStmt{}
	for {
		t := p.expect(tokIdent, "array name")
		decl := dimDecl{name: normalizeName(t.text)}
		p.expect(tokLParen, "(")
		for {
			decl.dims = append(decl.dims, p.parseExpr())
			if !p.accept(tokComma) {
				break
			}
		}
		p.expect(tokRParen, ")")
		ds.decls = append(ds.decls, decl)
		if !p.accept(tokComma) {
			break
		}
	}
	return ds
}

//
// DEF FNname[(params)] = expr
//

func (p *parser) parseDefFn() stmt {

	t := p.expect(tokIdent, "function name")
	name := normalizeName(t.text)
	if !strings.HasPrefix(name, "fn") {
		p.fail("DEF function name must start with FN")
	}

	fs := &defFnStmt{name: name}
	if p.accept(tokLParen) {
		for {
			pt := p.expect(tokIdent, "parameter name")
			fs.params = append(fs.params, normalizeName(pt.text))
			if !p.accept(tokComma) {
				break
			}
		}
		p.expect(tokRParen, ")")
	}
	p.expect(tokEq, "=")
	fs.body = p.parseExpr()
	return fs
}

//
// DEFINT/DEFSNG/DEFDBL/DEFSTR letter ranges: A, A-C, ...
//

func (p *parser) parseDefType(t varType) stmt {

	ds := &defTypeStmt{vtype: t}
	for {
		first := p.expect(tokIdent, "letter")
		if len(first.text) != 1 {
			p.fail("expected single letter")
		}
		lo := strings.ToLower(first.text)[0]
		hi := lo
		if p.accept(tokMinus) {
			second := p.expect(tokIdent, "letter")
			if len(second.text) != 1 {
				p.fail("expected single letter")
			}
			hi = strings.ToLower(second.text)[0]
		}
		if hi < lo {
			lo, hi = hi, lo
		}
		ds.ranges = append(ds.ranges, [2]byte{lo, hi})
		if !p.accept(tokComma) {
			break
		}
	}
	return ds
}

func (p *parser) parseWait() stmt {

	port := p.parseExpr()
	p.expect(tokComma, "comma")
	and := p.parseExpr()
	ws := &waitStmt{port: port, and: and}
	if p.accept(tokComma) {
		ws.xor = p.parseExpr()
	}
	return ws
}

func (p *parser) parseCall() stmt {

	t := p.expect(tokIdent, "routine name")
	cs := &callStmt{name: normalizeName(t.text)}
	if p.accept(tokLParen) {
		for {
			cs.args = append(cs.args, p.parseExpr())
			if !p.accept(tokComma) {
				break
			}
		}
		p.expect(tokRParen, ")")
	}
	return cs
}

//
// OPEN has two shapes:
//   OPEN mode$, [#]n, file$ [, reclen]
//   OPEN file$ [FOR mode] AS [#]n [LEN = reclen]
//

func (p *parser) parseOpen() stmt {

	first := p.parseExpr()

	if p.peekWord("for") || p.peekWord("as") {
		os := &openStmt{filename: first, mode: modeRandom}
		if p.acceptWord("for") {
			switch {
			case p.acceptWord("input"):
				os.mode = modeInput
			case p.acceptWord("output"):
				os.mode = modeOutput
			case p.acceptWord("append"):
				os.mode = modeAppend
			case p.acceptWord("random"):
				os.mode = modeRandom
			default:
				p.fail("bad OPEN mode")
			}
		}
		p.expectWord("as")
		p.accept(tokHash)
		os.fileNum = p.parseExpr()
		if p.acceptWord("len") {
			p.expect(tokEq, "=")
			os.recLen = p.parseExpr()
		}
		return os
	}

	os := &openStmt{modeExpr: first}
	p.expect(tokComma, "comma")
	p.accept(tokHash)
	os.fileNum = p.parseExpr()
	p.expect(tokComma, "comma")
	os.filename = p.parseExpr()
	if p.accept(tokComma) {
		os.recLen = p.parseExpr()
	}
	return os
}

func (p *parser) parseClose() stmt {

	cs := &closeStmt{}
	for !p.atStmtEnd() {
		p.accept(tokHash)
		cs.fileNums = append(cs.fileNums, p.parseExpr())
		if !p.accept(tokComma) {
			break
		}
	}
	return cs
}

func (p *parser) parseField() stmt {

	fs := &fieldStmt{}
	p.accept(tokHash)
	fs.fileNum = p.parseExpr()
	p.expect(tokComma, "comma")

	for {
		width := p.parseExpr()
		p.expectWord("as")
		t := p.expect(tokIdent, "string variable")
		name := normalizeName(t.text)
		if nameSuffixType(name) != strType {
			p.fail("FIELD variable must be a string")
		}
		fs.decls = append(fs.decls, fieldDecl{width: width, name: name})
		if !p.accept(tokComma) {
			break
		}
	}
	return fs
}

func (p *parser) parseGetPut(put bool) stmt {

	p.accept(tokHash)
	fileNum := p.parseExpr()
	var recNum expr
	if p.accept(tokComma) {
		recNum = p.parseExpr()
	}
	if put {
		return &putStmt{fileNum: fileNum, recNum: recNum}
	}
	return &getStmt{fileNum: fileNum, recNum: recNum}
}

func (p *parser) parseLset(right bool) stmt {

	t := p.expect(tokIdent, "string variable")
	name := normalizeName(t.text)
	p.expect(tokEq, "=")
	return &lsetStmt{name: name, value: p.parseExpr(), right: right}
}

func (p *parser) parseChain() stmt {

	cs := &chainStmt{}
	if p.acceptWord("merge") {
		cs.merge = true
	}
	cs.filename = p.parseExpr()

	if p.accept(tokComma) {
		if p.cur().kind == tokNumber {
			cs.lineNo = p.parseLineNumber()
			cs.hasLine = true
		}
		if p.accept(tokComma) {
			if p.acceptWord("all") {
				cs.all = true
				p.accept(tokComma)
			}
			if p.acceptWord("delete") {
				cs.deleteAll = true
				for !p.atStmtEnd() {
					p.advance()
				}
			}
		}
	}
	return cs
}

func (p *parser) parseCommon() stmt {

	return &commonStmt{names: p.parseNameList()}
}

func (p *parser) parseRun() stmt {

	rs := &runStmt{}
	if p.cur().kind == tokNumber {
		rs.lineNo = p.parseLineNumber()
		rs.hasLine = true
	} else if !p.atStmtEnd() {
		rs.filename = p.parseExpr()
		if p.accept(tokComma) {
			// RUN "file",R keeps files open; accepted, not distinguished
			p.advance()
		}
	}
	return rs
}

//
// MID$(v$, start [, len]) = expr
//

func (p *parser) parseMidAssign() stmt {

	p.advance() // mid$
	p.expect(tokLParen, "(")
	target := p.parseLvalue()
	p.expect(tokComma, "comma")
	start := p.parseExpr()
	ms := &midAssignStmt{target: target, start: start}
	if p.accept(tokComma) {
		ms.length = p.parseExpr()
	}
	p.expect(tokRParen, ")")
	p.expect(tokEq, "=")
	ms.value = p.parseExpr()
	return ms
}

//
// Expression grammar, loosest to tightest:
//   IMP  EQV  XOR  OR  AND  NOT  relational  + -  MOD  \  * /  unary  ^
//

func (p *parser) parseExpr() expr {

	return p.parseBinary(0)
}

var binaryLevels = [][]tokenKind{
	{tokImp},
	{tokEqv},
	{tokXor},
	{tokOr},
	{tokAnd},
	{tokEq, tokNe, tokLt, tokGt, tokLe, tokGe},
	{tokPlus, tokMinus},
	{tokMod},
	{tokBackslash},
	{tokStar, tokSlash},
}

const notLevel = 5 // NOT binds between AND and the relationals

func (p *parser) parseBinary(level int) expr {

	if level == notLevel && p.cur().kind == tokNot {
		p.advance()
		return &unaryExpr{op: tokNot, operand: p.parseBinary(level)}
	}
	if level >= len(binaryLevels) {
		return p.parseUnary()
	}

	lhs := p.parseBinary(level + 1)
	for {
		k := p.cur().kind
		matched := false
		for _, op := range binaryLevels[level] {
			if k == op {
				matched = true
				break
			}
		}
		if !matched {
			return lhs
		}
		p.advance()
		lhs = &binaryExpr{op: k, lhs: lhs, rhs: p.parseBinary(level + 1)}
	}
}

func (p *parser) parseUnary() expr {

	switch p.cur().kind {
	case tokMinus:
		p.advance()
		return &unaryExpr{op: tokMinus, operand: p.parseUnary()}
	case tokPlus:
		p.advance()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() expr {

	base := p.parsePrimary()
	if p.accept(tokCaret) {
		return &binaryExpr{op: tokCaret, lhs: base, rhs: p.parseUnary()}
	}
	return base
}

//
// Built-ins callable without parentheses
//

var bareBuiltins = map[string]bool{
	"inkey$": true,
	"date$":  true,
	"time$":  true,
	"timer":  true,
	"erl":    true,
	"err":    true,
}

func (p *parser) parsePrimary() expr {

	t := p.cur()

	switch t.kind {
	case tokNumber:
		p.advance()
		return &numberExpr{val: t.num}

	case tokString:
		p.advance()
		return &stringExpr{val: t.text}

	case tokLParen:
		p.advance()
		e := p.parseExpr()
		p.expect(tokRParen, ")")
		return e

	case tokIdent:
		p.advance()
		name := normalizeName(t.text)

		if p.accept(tokLParen) {
			var args []expr
			if p.cur().kind != tokRParen {
				for {
					p.accept(tokHash) // INPUT$(n, #f) and friends
					args = append(args, p.parseExpr())
					if !p.accept(tokComma) {
						break
					}
				}
			}
			p.expect(tokRParen, ")")
			if isBuiltinName(name) || strings.HasPrefix(name, "fn") {
				return &callExpr{name: name, args: args}
			}
			return &arrayExpr{name: name, subs: args}
		}

		if bareBuiltins[name] || strings.HasPrefix(name, "fn") {
			return &callExpr{name: name}
		}
		return &varExpr{name: name}
	}

	p.fail("expected expression, got %q", t.text)
	return nil
}
