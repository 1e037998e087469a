package main

import (
	"testing"
)

func mkTable(t *testing.T, src string) *stmtTable {

	t.Helper()
	prog, err := parseProgramSource(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	st := newStmtTable()
	st.build(prog)
	return st
}

func TestFreshTableIsEmpty(t *testing.T) {

	st := newStmtTable()
	if !st.empty() {
		t.Error("new table not empty")
	}
	if pl := st.lookupLine(10); pl != nil {
		t.Errorf("lookup on empty table = %v", pl)
	}
	if pc := st.first(); pc.reason != stopEnd {
		t.Errorf("first on empty table = %+v", pc)
	}
}

func TestTableOrdersLines(t *testing.T) {

	st := mkTable(t, "30 PRINT\n10 PRINT\n20 PRINT")

	var got []int
	for pl := st.firstLine(); pl != nil; pl = st.nextLine(pl) {
		got = append(got, pl.lineNo)
	}
	want := []int{10, 20, 30}
	if len(got) != len(want) {
		t.Fatalf("lines = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("lines = %v, want %v", got, want)
		}
	}
}

func TestNextWalksStatementsThenLines(t *testing.T) {

	st := mkTable(t, "10 PRINT:PRINT\n20 PRINT")

	pc := st.first()
	if pc.lineNo != 10 || pc.stmtNo != 0 {
		t.Fatalf("first = %+v", pc)
	}
	pc = st.next(pc)
	if pc.lineNo != 10 || pc.stmtNo != 1 {
		t.Fatalf("second = %+v", pc)
	}
	pc = st.next(pc)
	if pc.lineNo != 20 || pc.stmtNo != 0 {
		t.Fatalf("third = %+v", pc)
	}
	pc = st.next(pc)
	if pc.reason != stopEnd {
		t.Fatalf("end = %+v", pc)
	}
}

func TestFindLine(t *testing.T) {

	st := mkTable(t, "10 PRINT\n20 PRINT")

	if pc, ok := st.findLine(20); !ok || pc.lineNo != 20 {
		t.Errorf("findLine(20) = %+v, %v", pc, ok)
	}
	if _, ok := st.findLine(15); ok {
		t.Error("findLine(15) found a line that does not exist")
	}
}

func TestMergeReplacesMatchingLines(t *testing.T) {

	st := mkTable(t, `
10 PRINT "OLD"
20 PRINT "KEEP"`)

	overlay, err := parseProgramSource(`
10 PRINT "NEW"
30 PRINT "ADDED"`)
	if err != nil {
		t.Fatal(err)
	}
	st.merge(overlay)

	if text := st.lineText(10); text != `10 PRINT "NEW"` {
		t.Errorf("line 10 = %q", text)
	}
	if text := st.lineText(20); text != `20 PRINT "KEEP"` {
		t.Errorf("line 20 = %q", text)
	}
	if text := st.lineText(30); text != `30 PRINT "ADDED"` {
		t.Errorf("line 30 = %q", text)
	}
}

func TestRemoveLine(t *testing.T) {

	st := mkTable(t, "10 PRINT\n20 PRINT")

	if !st.removeLine(10) {
		t.Fatal("removeLine(10) failed")
	}
	if st.removeLine(10) {
		t.Fatal("removeLine(10) succeeded twice")
	}
	if pc := st.first(); pc.lineNo != 20 {
		t.Errorf("first after removal = %+v", pc)
	}
	st.removeLine(20)
	if !st.empty() {
		t.Error("table should be empty")
	}
}
