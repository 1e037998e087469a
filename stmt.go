package main

import (
	"github.com/danswartzendruber/avl"
)

//
// The statement table: program lines keyed by line number in an AVL
// tree, with (line, stmt-index) addressing for the dispatcher. Wrapper
// routines hide the AVL interface from the interpreter code.
//
// Lines inserted by MERGE replace same-numbered lines in place; the
// replaced nodes drop out of the tree and the merged nodes live as
// long as the table does.
//

type stmtTable struct {
	root *avl.AvlNode
}

func newStmtTable() *stmtTable {

	// an empty tree is a nil root
	return &stmtTable{}
}

func cmpLineNums(n1, n2 int) int {

	switch {
	case n1 < n2:
		return -1
	case n1 > n2:
		return 1
	}
	return 0
}

func cmpLineKey(key any, node any) int {

	return cmpLineNums(key.(int), node.(*progLine).lineNo)
}

func cmpLineNode(node1, node2 any) int {

	return cmpLineNums(node1.(*progLine).lineNo, node2.(*progLine).lineNo)
}

//
// Tree primitives
//

func (t *stmtTable) lookupLine(lineNo int) *progLine {

	p := avl.AvlTreeLookup(t.root, lineNo, cmpLineKey)
	if p != nil {
		return p.(*progLine)
	}
	return nil
}

func (t *stmtTable) firstLine() *progLine {

	p := avl.AvlTreeFirstInOrder(t.root)
	if p != nil {
		return p.(*progLine)
	}
	return nil
}

func (t *stmtTable) lastLine() *progLine {

	p := avl.AvlTreeLastInOrder(t.root)
	if p != nil {
		return p.(*progLine)
	}
	return nil
}

func (t *stmtTable) nextLine(pl *progLine) *progLine {

	p := avl.AvlTreeNextInOrder(&pl.avl)
	if p != nil {
		return p.(*progLine)
	}
	return nil
}

func (t *stmtTable) insertLine(pl *progLine) {

	if old := t.lookupLine(pl.lineNo); old != nil {
		avl.AvlTreeRemove(&t.root, &old.avl)
	}
	dup := avl.AvlTreeInsert(&t.root, &pl.avl, pl, cmpLineNode)
	basicAssert(dup == nil, "duplicate line survived replacement")
}

func (t *stmtTable) removeLine(lineNo int) bool {

	pl := t.lookupLine(lineNo)
	if pl == nil {
		return false
	}
	avl.AvlTreeRemove(&t.root, &pl.avl)
	return true
}

func (t *stmtTable) empty() bool {

	return t.firstLine() == nil
}

//
// Build replaces the whole table with a parsed program; merge overlays
// one, replacing matching line numbers and inserting the rest
//

func (t *stmtTable) build(prog *program) {

	t.root = nil
	t.merge(prog)
}

func (t *stmtTable) merge(prog *program) {

	for _, pl := range prog.lines {
		t.insertLine(pl)
	}
}

//
// PC-level navigation
//

func haltedPC(reason stopReason) pcInfo {

	return pcInfo{lineNo: -1, reason: reason}
}

func (t *stmtTable) get(pc pcInfo) stmt {

	pl := t.lookupLine(pc.lineNo)
	if pl == nil || pc.stmtNo < 0 || pc.stmtNo >= len(pl.stmts) {
		return nil
	}
	return pl.stmts[pc.stmtNo]
}

func (t *stmtTable) valid(pc pcInfo) bool {

	return t.get(pc) != nil
}

//
// First executable statement, skipping any lines that parsed to
// nothing but a remark-free empty list
//

func (t *stmtTable) first() pcInfo {

	for pl := t.firstLine(); pl != nil; pl = t.nextLine(pl) {
		if len(pl.stmts) > 0 {
			return pcInfo{lineNo: pl.lineNo, stmtNo: 0}
		}
	}
	return haltedPC(stopEnd)
}

//
// The statement following pc in program order: the next statement on
// the same line, else the first statement of the next line
//

func (t *stmtTable) next(pc pcInfo) pcInfo {

	pl := t.lookupLine(pc.lineNo)
	if pl == nil {
		return haltedPC(stopEnd)
	}
	if pc.stmtNo+1 < len(pl.stmts) {
		return pcInfo{lineNo: pc.lineNo, stmtNo: pc.stmtNo + 1}
	}
	for pl = t.nextLine(pl); pl != nil; pl = t.nextLine(pl) {
		if len(pl.stmts) > 0 {
			return pcInfo{lineNo: pl.lineNo, stmtNo: 0}
		}
	}
	return haltedPC(stopEnd)
}

//
// Jump target lookup. The bool is false when no such line exists.
//

func (t *stmtTable) findLine(lineNo int) (pcInfo, bool) {

	pl := t.lookupLine(lineNo)
	if pl == nil || len(pl.stmts) == 0 {
		return haltedPC(stopError), false
	}
	return pcInfo{lineNo: lineNo, stmtNo: 0}, true
}

func (t *stmtTable) lineText(lineNo int) string {

	pl := t.lookupLine(lineNo)
	if pl == nil {
		return ""
	}
	return pl.text
}
