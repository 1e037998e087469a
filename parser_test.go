package main

import (
	"strings"
	"testing"
)

func TestSplitLineNumber(t *testing.T) {

	n, rest, ok := splitLineNumber("10 PRINT X")
	if !ok || n != 10 || rest != "PRINT X" {
		t.Errorf("split = %d, %q, %v", n, rest, ok)
	}

	if _, _, ok := splitLineNumber("PRINT X"); ok {
		t.Error("accepted a line with no number")
	}

	if _, _, ok := splitLineNumber("99999 PRINT"); ok {
		t.Error("accepted a line number above the limit")
	}
}

func TestQuestionMarkIsPrint(t *testing.T) {

	toks, err := tokenize(`? "HI"`)
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].kind != tokIdent || strings.ToLower(toks[0].text) != "print" {
		t.Errorf("first token = %+v", toks[0])
	}
}

func TestNumberLiteralShapes(t *testing.T) {

	cases := []struct {
		src  string
		want any
	}{
		{"5", int16(5)},
		{"40000", float64(40000)},
		{"3.5", float64(3.5)},
		{"1E3", float64(1000)},
		{"1.5!", float32(1.5)},
		{"2%", int16(2)},
		{"&HFF", int16(255)},
		{"&O10", int16(8)},
	}

	for _, c := range cases {
		toks, err := tokenize(c.src)
		if err != nil {
			t.Fatalf("tokenize(%q): %v", c.src, err)
		}
		if toks[0].kind != tokNumber || toks[0].num != c.want {
			t.Errorf("tokenize(%q) = %v (%T), want %v (%T)",
				c.src, toks[0].num, toks[0].num, c.want, c.want)
		}
	}
}

func TestParseDirectStatementList(t *testing.T) {

	stmts, err := parseDirect(`PRINT 1: PRINT 2`)
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 2 {
		t.Errorf("got %d statements", len(stmts))
	}
}

func TestParseRejectsStringForVariable(t *testing.T) {

	if _, err := parseLineText(10, "FOR X$=1 TO 2", "10 FOR X$=1 TO 2"); err == nil {
		t.Error("FOR with a string variable parsed")
	}
}

func TestParseProgramRequiresLineNumbers(t *testing.T) {

	_, err := parseProgramSource("PRINT 1")
	if err == nil || !strings.Contains(err.Error(), "missing line number") {
		t.Errorf("err = %v", err)
	}
}

func TestParseLineRange(t *testing.T) {

	lo, hi, ok := parseLineRange("")
	if !ok || lo != 0 || hi != maxLineNumber {
		t.Errorf("empty range = %d-%d, %v", lo, hi, ok)
	}

	lo, hi, ok = parseLineRange("100")
	if !ok || lo != 100 || hi != 100 {
		t.Errorf("single = %d-%d, %v", lo, hi, ok)
	}

	lo, hi, ok = parseLineRange("100-200")
	if !ok || lo != 100 || hi != 200 {
		t.Errorf("pair = %d-%d, %v", lo, hi, ok)
	}

	lo, hi, ok = parseLineRange("100-")
	if !ok || lo != 100 || hi != maxLineNumber {
		t.Errorf("open end = %d-%d, %v", lo, hi, ok)
	}

	if _, _, ok = parseLineRange("abc"); ok {
		t.Error("accepted a non-numeric range")
	}
}

func TestProgramFilename(t *testing.T) {

	if got := programFilename(`"demo"`); got != "demo.bas" {
		t.Errorf("quoted bare name = %q", got)
	}
	if got := programFilename("demo.txt"); got != "demo.txt" {
		t.Errorf("explicit extension = %q", got)
	}
}

func TestRenumberLineText(t *testing.T) {

	mapping := map[int]int{10: 1, 20: 2, 100: 5}

	cases := []struct {
		in   string
		want string
	}{
		{"GOTO 100", "GOTO 5"},
		{"ON I GOSUB 10,20", "ON I GOSUB 1,2"},
		{"IF X THEN 10 ELSE 20", "IF X THEN 1 ELSE 2"},
		{"PRINT 100", "PRINT 100"},
		{"RESTORE 10", "RESTORE 1"},
	}

	for _, c := range cases {
		got, err := renumberLineText(c.in, mapping)
		if err != nil {
			t.Fatalf("renumber(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("renumber(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
