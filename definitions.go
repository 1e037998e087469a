package main

import (
	"math/rand"
	"os"

	"github.com/danswartzendruber/avl"
	"github.com/danswartzendruber/liner"
)

//
// Constants
//

const VERSION = "5.21"

const basFileSuffix = ".bas"

const maxLineNumber = 65529
const maxStringLen = 255

const zoneWidth = 14
const defaultWidth = 80

const maxFilenums = 15
const defaultRecordLen = 128

const autoDimBound = 10

const fnRecursionMax = 100

//
// Variable types. Every variable, array and expression value resolves to
// one of these. The zero value is deliberately invalid so an unset type
// shows up in traces.
//

type varType int

const (
	noType varType = iota
	intType
	sngType
	dblType
	strType
)

//
// Why the interpreter is not (or no longer) running
//

type stopReason int

const (
	stopNone stopReason = iota
	stopEnd
	stopStop
	stopBreakpoint
	stopError
	stopInputWait
	stopBreak
)

//
// Program counter: a statement table key plus the reason execution
// halted there (stopNone while running)
//

type pcInfo struct {
	lineNo int
	stmtNo int
	reason stopReason
}

type pcKey struct {
	lineNo int
	stmtNo int
}

//
// Control stack entries. GOSUB frames carry the return location,
// WHILE frames the location of the WHILE statement itself.
//

type frameKind int

const (
	gosubFrame frameKind = iota
	whileFrame
	errorFrame
)

type stackEntry struct {
	kind     frameKind
	returnPC pcInfo
	loopPC   pcInfo
}

//
// Active FOR loop bookkeeping, keyed by control variable name
//

type forState struct {
	resumePC pcInfo
	endVal   float64
	stepVal  float64
}

//
// File open modes for the OPEN statement
//

type fileMode int

const (
	modeInput fileMode = iota
	modeOutput
	modeAppend
	modeRandom
)

//
// An open BASIC file (slots 1..maxFilenums)
//

type basicFile struct {
	name     string
	mode     fileMode
	handle   fileHandle
	recLen   int
	lastRec  int
	printCol int
}

//
// FIELD buffer for a random-access file: the shared record buffer and
// the string variables mapped onto slices of it
//

type fieldDef struct {
	name   string
	offset int
	width  int
}

type fieldBuffer struct {
	buf    []byte
	fields []fieldDef
}

//
// Requests the engine hands back to the host when CHAIN or RUN names
// a new program file
//

type chainRequest struct {
	filename  string
	lineNo    int
	hasLine   bool
	all       bool
	merge     bool
	deleteLow int
	deleteHi  int
}

type runRequest struct {
	filename string
	lineNo   int
	hasLine  bool
}

//
// A program line in the statement table. Nodes embed the AVL linkage
// and are kept alive by the tree across MERGE overlays.
//

type progLine struct {
	avl    avl.AvlNode
	lineNo int
	stmts  []stmt
	text   string
}

//
// Persistent interpreter state (survives individual RUNs)
//

type global struct {
	parserLiner *liner.State
	inputLiner  *liner.State

	windowRows int
	windowCols int
	isTerminal bool

	progName string
	modified bool

	traceDump bool
	statsOn   bool

	exiting bool
}

var g global

//
// Per-run statistics
//

type stats struct {
	stmtCount int64
	userTime  float64
	sysTime   float64
}

var s stats

//
// Break flag set by the SIGINT handler, polled once per tick
//

var breakRequested bool

//
// Default random source for RND and RANDOMIZE
//

func newRandSource(seed int64) *rand.Rand {

	return rand.New(rand.NewSource(seed))
}

var stdinFd = int(os.Stdin.Fd())
