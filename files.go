package main

import (
	"bufio"
	"io"
	"os"
	"strings"
)

//
// File I/O abstraction. The interpreter only sees fileHandle and
// fileSystem; the os-backed implementations live below and tests can
// swap in their own.
//

type fileHandle interface {
	close()
	readLine() (string, error)
	writeString(s string) error
	readChars(n int) (string, error)
	eof() bool
	position() int64
	length() int64
	readRecord(recNo, recLen int, buf []byte) error
	writeRecord(recNo, recLen int, buf []byte) error
}

type fileSystem interface {
	open(name string, mode fileMode, recLen int) (fileHandle, error)
	exists(name string) bool
	remove(name string) error
	rename(oldName, newName string) error
}

//
// Native implementation
//

type osFileHandle struct {
	f      *os.File
	reader *bufio.Reader
	offset int64 // consumed bytes for sequential input
}

type osFileSystem struct{}

func (osFileSystem) open(name string, mode fileMode, recLen int) (fileHandle, error) {

	var f *os.File
	var err error

	switch mode {
	case modeInput:
		f, err = os.Open(name)
	case modeOutput:
		f, err = os.Create(name)
	case modeAppend:
		f, err = os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	case modeRandom:
		f, err = os.OpenFile(name, os.O_RDWR|os.O_CREATE, 0644)
	}
	if err != nil {
		return nil, err
	}

	h := &osFileHandle{f: f}
	if mode == modeInput {
		h.reader = bufio.NewReader(f)
	}
	return h, nil
}

func (osFileSystem) exists(name string) bool {

	_, err := os.Stat(name)
	return err == nil
}

func (osFileSystem) remove(name string) error {

	return os.Remove(name)
}

func (osFileSystem) rename(oldName, newName string) error {

	return os.Rename(oldName, newName)
}

func (h *osFileHandle) close() {

	h.f.Close()
}

func (h *osFileHandle) readLine() (string, error) {

	if h.reader == nil {
		return "", io.EOF
	}
	line, err := h.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	h.offset += int64(len(line))
	line = strings.TrimRight(line, "\n")
	line = strings.TrimRight(line, "\r")
	return line, nil
}

func (h *osFileHandle) writeString(s string) error {

	_, err := h.f.WriteString(s)
	return err
}

func (h *osFileHandle) readChars(n int) (string, error) {

	if h.reader == nil {
		return "", io.EOF
	}
	buf := make([]byte, n)
	got, err := io.ReadFull(h.reader, buf)
	h.offset += int64(got)
	if got < n {
		return string(buf[:got]), err
	}
	return string(buf), nil
}

func (h *osFileHandle) eof() bool {

	if h.reader == nil {
		return false
	}
	_, err := h.reader.Peek(1)
	return err != nil
}

func (h *osFileHandle) position() int64 {

	if h.reader != nil {
		return h.offset
	}
	pos, err := h.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0
	}
	return pos
}

func (h *osFileHandle) length() int64 {

	fi, err := h.f.Stat()
	if err != nil {
		return 0
	}
	return fi.Size()
}

//
// Random-access records are 1-based. Reading past the end of the file
// fills the remainder of the buffer with spaces.
//

func (h *osFileHandle) readRecord(recNo, recLen int, buf []byte) error {

	got, err := h.f.ReadAt(buf, int64(recNo-1)*int64(recLen))
	if err != nil && err != io.EOF {
		return err
	}
	for i := got; i < len(buf); i++ {
		buf[i] = ' '
	}
	return nil
}

func (h *osFileHandle) writeRecord(recNo, recLen int, buf []byte) error {

	_, err := h.f.WriteAt(buf, int64(recNo-1)*int64(recLen))
	return err
}

//
// Interpreter-side file table operations
//

func checkFileNum(n int) {

	if n < 1 || n > maxFilenums {
		runtimeError(errBadFileNumber)
	}
}

func (ip *interp) fileFor(n int) *basicFile {

	checkFileNum(n)
	f, ok := ip.r.files[n]
	if !ok {
		runtimeError(errBadFileNumber)
	}
	return f
}

func parseFileMode(s string) fileMode {

	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "I":
		return modeInput
	case "O":
		return modeOutput
	case "A":
		return modeAppend
	case "R":
		return modeRandom
	}
	runtimeError(errBadFileMode)
	return modeRandom
}

func (ip *interp) openFile(st *openStmt) {

	n := ip.evalInt(st.fileNum)
	checkFileNum(n)
	if _, ok := ip.r.files[n]; ok {
		runtimeError(errFileAlreadyOpen)
	}

	mode := st.mode
	if st.modeExpr != nil {
		mode = parseFileMode(ip.evalString(st.modeExpr))
	}

	name := ip.evalString(st.filename)
	if strings.TrimSpace(name) == "" {
		runtimeError(errBadFileName)
	}

	recLen := defaultRecordLen
	if st.recLen != nil {
		recLen = ip.evalInt(st.recLen)
		if recLen < 1 {
			runtimeError(errIllegalFunctionCall)
		}
	}

	handle, err := ip.fs.open(name, mode, recLen)
	if err != nil {
		if mode == modeInput {
			runtimeError(errFileNotFound)
		}
		runtimeError(errDiskIOError)
	}

	ip.r.files[n] = &basicFile{name: name, mode: mode, handle: handle, recLen: recLen}
}

func (ip *interp) closeFileNum(n int) {

	f := ip.fileFor(n)
	f.handle.close()
	delete(ip.r.files, n)
	delete(ip.r.fieldBufs, n)
}

//
// FIELD carves a random-access record buffer into named string
// windows. The buffer is freshly space-filled and sized to the sum of
// the declared widths.
//

func (ip *interp) fieldFile(st *fieldStmt) {

	n := ip.evalInt(st.fileNum)
	f := ip.fileFor(n)
	if f.mode != modeRandom {
		runtimeError(errBadFileMode)
	}

	fb := &fieldBuffer{}
	offset := 0
	for _, decl := range st.decls {
		width := ip.evalInt(decl.width)
		if width < 0 {
			runtimeError(errIllegalFunctionCall)
		}
		fb.fields = append(fb.fields, fieldDef{name: decl.name, offset: offset, width: width})
		offset += width
	}
	if offset > f.recLen {
		runtimeError(errFieldOverflow)
	}

	fb.buf = []byte(strings.Repeat(" ", offset))
	ip.r.fieldBufs[n] = fb

	for _, fd := range fb.fields {
		ip.r.setVar(fd.name, string(fb.buf[fd.offset:fd.offset+fd.width]))
	}
}

//
// GET reads a record into the field buffer and republishes the field
// variables; PUT writes the buffer out. Record numbers default to the
// one after the last accessed.
//

func (ip *interp) getRecord(st *getStmt) {

	n := ip.evalInt(st.fileNum)
	f := ip.fileFor(n)
	if f.mode != modeRandom {
		runtimeError(errBadFileMode)
	}

	rec := f.lastRec + 1
	if st.recNum != nil {
		rec = ip.evalInt(st.recNum)
	}
	if rec < 1 {
		runtimeError(errBadRecordNumber)
	}

	fb, ok := ip.r.fieldBufs[n]
	if !ok {
		runtimeError(errBadFileMode)
	}

	if err := f.handle.readRecord(rec, f.recLen, fb.buf); err != nil {
		runtimeError(errDiskIOError)
	}
	f.lastRec = rec

	for _, fd := range fb.fields {
		ip.r.setVar(fd.name, string(fb.buf[fd.offset:fd.offset+fd.width]))
	}
}

func (ip *interp) putRecord(st *putStmt) {

	n := ip.evalInt(st.fileNum)
	f := ip.fileFor(n)
	if f.mode != modeRandom {
		runtimeError(errBadFileMode)
	}

	rec := f.lastRec + 1
	if st.recNum != nil {
		rec = ip.evalInt(st.recNum)
	}
	if rec < 1 {
		runtimeError(errBadRecordNumber)
	}

	fb, ok := ip.r.fieldBufs[n]
	if !ok {
		runtimeError(errBadFileMode)
	}

	if err := f.handle.writeRecord(rec, f.recLen, fb.buf); err != nil {
		runtimeError(errDiskIOError)
	}
	f.lastRec = rec
}

//
// LSET/RSET justify a value into a field window, updating both the
// record buffer and the plain variable. A non-field variable just
// gets the justified assignment.
//

func (ip *interp) lsetField(st *lsetStmt) {

	val := ip.evalString(st.value)

	for _, fb := range ip.r.fieldBufs {
		for _, fd := range fb.fields {
			if fd.name != st.name {
				continue
			}
			padded := padString(val, fd.width, st.right)
			copy(fb.buf[fd.offset:fd.offset+fd.width], padded)
			ip.r.setVar(st.name, padded)
			return
		}
	}

	// not a field variable: justify into the current string's width
	cur := toString(ip.r.getVar(st.name))
	if len(cur) > 0 {
		ip.r.setVar(st.name, padString(val, len(cur), st.right))
	} else {
		ip.r.setVar(st.name, val)
	}
}

//
// Sequential output column tracking for PRINT# comma zones
//

func (f *basicFile) writeTracking(ip *interp, text string) {

	if err := f.handle.writeString(text); err != nil {
		runtimeError(errDiskIOError)
	}
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		f.printCol = len(text) - i - 1
	} else {
		f.printCol += len(text)
	}
}
