package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestSequentialWriteThenRead(t *testing.T) {

	path := filepath.Join(t.TempDir(), "seq.dat")
	src := fmt.Sprintf(`
10 OPEN "O",#1,"%s"
20 PRINT #1,"HELLO"
30 PRINT #1, 42
40 CLOSE #1
50 OPEN "I",#1,"%s"
60 LINE INPUT #1,A$
70 INPUT #1,B
80 CLOSE #1
90 PRINT A$;B`, path, path)

	ip, tc := runSource(t, src)
	wantClean(t, ip)
	wantOutput(t, tc, "HELLO 42 \n")
}

func TestAppendModeExtendsFile(t *testing.T) {

	path := filepath.Join(t.TempDir(), "app.dat")
	src := fmt.Sprintf(`
10 OPEN "O",#1,"%s"
20 PRINT #1,"ONE"
30 CLOSE #1
40 OPEN "A",#1,"%s"
50 PRINT #1,"TWO"
60 CLOSE #1
70 OPEN "I",#1,"%s"
80 LINE INPUT #1,A$
90 LINE INPUT #1,B$
100 CLOSE #1
110 PRINT A$;B$`, path, path, path)

	ip, tc := runSource(t, src)
	wantClean(t, ip)
	wantOutput(t, tc, "ONETWO\n")
}

func TestRandomAccessRoundTrip(t *testing.T) {

	path := filepath.Join(t.TempDir(), "rand.dat")
	src := fmt.Sprintf(`
10 OPEN "R",#1,"%s",16
20 FIELD #1, 5 AS N$, 3 AS V$
30 LSET N$="HI"
40 RSET V$="9"
50 PUT #1,1
60 LSET N$="OTHER"
70 PUT #1,2
80 GET #1,1
90 PRINT N$;V$
100 CLOSE #1`, path)

	ip, tc := runSource(t, src)
	wantClean(t, ip)
	// LSET pads right, RSET pads left
	wantOutput(t, tc, "HI     9\n")
}

func TestGetPastEndOfFileSpaceFills(t *testing.T) {

	path := filepath.Join(t.TempDir(), "rand.dat")
	src := fmt.Sprintf(`
10 OPEN "R",#1,"%s",8
20 FIELD #1, 4 AS A$
30 GET #1,5
40 PRINT "["; A$; "]"
50 CLOSE #1`, path)

	ip, tc := runSource(t, src)
	wantClean(t, ip)
	wantOutput(t, tc, "[    ]\n")
}

func TestEofFunction(t *testing.T) {

	path := filepath.Join(t.TempDir(), "eof.dat")
	src := fmt.Sprintf(`
10 OPEN "O",#1,"%s"
20 PRINT #1,"X"
30 CLOSE #1
40 OPEN "I",#1,"%s"
50 PRINT EOF(1);
60 LINE INPUT #1,A$
70 PRINT EOF(1)
80 CLOSE #1`, path, path)

	ip, tc := runSource(t, src)
	wantClean(t, ip)
	wantOutput(t, tc, " 0 -1 \n")
}

func TestLofReportsByteLength(t *testing.T) {

	path := filepath.Join(t.TempDir(), "lof.dat")
	src := fmt.Sprintf(`
10 OPEN "O",#1,"%s"
20 PRINT #1,"HELLO"
30 CLOSE #1
40 OPEN "I",#1,"%s"
50 PRINT LOF(1)
60 CLOSE #1`, path, path)

	ip, tc := runSource(t, src)
	wantClean(t, ip)
	wantOutput(t, tc, " 6 \n")
}

func TestInputPastEnd(t *testing.T) {

	path := filepath.Join(t.TempDir(), "empty.dat")
	src := fmt.Sprintf(`
10 OPEN "O",#1,"%s"
20 CLOSE #1
30 OPEN "I",#1,"%s"
40 INPUT #1,A`, path, path)

	ip, _ := runSource(t, src)
	wantErrCode(t, ip, errInputPastEnd, 40)
}

func TestPrintToInputFileIsBadMode(t *testing.T) {

	path := filepath.Join(t.TempDir(), "f.dat")
	if err := os.WriteFile(path, []byte("x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	src := fmt.Sprintf(`
10 OPEN "I",#1,"%s"
20 PRINT #1,"NO"`, path)

	ip, _ := runSource(t, src)
	wantErrCode(t, ip, errBadFileMode, 20)
}

func TestBadFileNumber(t *testing.T) {

	ip, _ := runSource(t, `10 PRINT #99,"X"`)
	wantErrCode(t, ip, errBadFileNumber, 10)
}

func TestFileAlreadyOpen(t *testing.T) {

	path := filepath.Join(t.TempDir(), "f.dat")
	src := fmt.Sprintf(`
10 OPEN "O",#1,"%s"
20 OPEN "O",#1,"%s"`, path, path)

	ip, _ := runSource(t, src)
	wantErrCode(t, ip, errFileAlreadyOpen, 20)
}

func TestOpenMissingFileForInput(t *testing.T) {

	path := filepath.Join(t.TempDir(), "nope.dat")
	ip, _ := runSource(t, fmt.Sprintf(`10 OPEN "I",#1,"%s"`, path))
	wantErrCode(t, ip, errFileNotFound, 10)
}

func TestFieldOverflow(t *testing.T) {

	path := filepath.Join(t.TempDir(), "f.dat")
	src := fmt.Sprintf(`
10 OPEN "R",#1,"%s",4
20 FIELD #1, 5 AS A$`, path)

	ip, _ := runSource(t, src)
	wantErrCode(t, ip, errFieldOverflow, 20)
}

func TestKillRemovesFile(t *testing.T) {

	path := filepath.Join(t.TempDir(), "victim.dat")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	ip, _ := runSource(t, fmt.Sprintf(`10 KILL "%s"`, path))
	wantClean(t, ip)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still exists after KILL")
	}
}

func TestKillMissingFile(t *testing.T) {

	path := filepath.Join(t.TempDir(), "nope.dat")
	ip, _ := runSource(t, fmt.Sprintf(`10 KILL "%s"`, path))
	wantErrCode(t, ip, errFileNotFound, 10)
}

func TestNameRenamesFile(t *testing.T) {

	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.dat")
	newPath := filepath.Join(dir, "new.dat")
	if err := os.WriteFile(oldPath, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	ip, _ := runSource(t, fmt.Sprintf(`10 NAME "%s" AS "%s"`, oldPath, newPath))
	wantClean(t, ip)
	if _, err := os.Stat(newPath); err != nil {
		t.Error("renamed file missing")
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Error("old file still exists")
	}
}

func TestNameOntoExistingFile(t *testing.T) {

	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.dat")
	newPath := filepath.Join(dir, "new.dat")
	for _, p := range []string{oldPath, newPath} {
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	ip, _ := runSource(t, fmt.Sprintf(`10 NAME "%s" AS "%s"`, oldPath, newPath))
	wantErrCode(t, ip, errFileExists, 10)
}

func TestMergeStatementOverlaysLines(t *testing.T) {

	path := filepath.Join(t.TempDir(), "overlay.bas")
	overlay := "20 PRINT \"NEW\"\n30 PRINT \"ADDED\"\n"
	if err := os.WriteFile(path, []byte(overlay), 0644); err != nil {
		t.Fatal(err)
	}

	src := fmt.Sprintf(`
10 MERGE "%s"
20 PRINT "OLD"`, path)

	ip, tc := runSource(t, src)
	wantClean(t, ip)
	wantOutput(t, tc, "NEW\nADDED\n")
}

func TestEndClosesOpenFiles(t *testing.T) {

	path := filepath.Join(t.TempDir(), "f.dat")
	src := fmt.Sprintf(`
10 OPEN "O",#1,"%s"
20 PRINT #1,"DATA"
30 END`, path)

	ip, _ := runSource(t, src)
	wantClean(t, ip)
	if len(ip.r.files) != 0 {
		t.Error("files left open after END")
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "DATA\n" {
		t.Errorf("file contents = %q, %v", data, err)
	}
}
