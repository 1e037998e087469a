package main

import (
	"fmt"
	"os"
)

//
// MBASIC 5.21 trappable error codes
//

const (
	errNextWithoutFor      = 1
	errSyntaxError         = 2
	errReturnWithoutGosub  = 3
	errOutOfData           = 4
	errIllegalFunctionCall = 5
	errOverflow            = 6
	errOutOfMemory         = 7
	errUndefinedLineNumber = 8
	errSubscriptOutOfRange = 9
	errDuplicateDefinition = 10
	errDivisionByZero      = 11
	errIllegalDirect       = 12
	errTypeMismatch        = 13
	errOutOfStringSpace    = 14
	errStringTooLong       = 15
	errStringTooComplex    = 16
	errCantContinue        = 17
	errUndefinedUserFunc   = 18
	errNoResume            = 19
	errResumeWithoutError  = 20
	errMissingOperand      = 22
	errLineBufferOverflow  = 23
	errForWithoutNext      = 26
	errWhileWithoutWend    = 29
	errWendWithoutWhile    = 30

	errFieldOverflow   = 50
	errInternalError   = 51
	errBadFileNumber   = 52
	errFileNotFound    = 53
	errBadFileMode     = 54
	errFileAlreadyOpen = 55
	errDiskIOError     = 57
	errFileExists      = 58
	errDiskFull        = 61
	errInputPastEnd    = 62
	errBadRecordNumber = 63
	errBadFileName     = 64
	errDirectStatement = 66
	errTooManyFiles    = 67
)

var errorMessages = map[int]string{
	errNextWithoutFor:      "NEXT without FOR",
	errSyntaxError:         "Syntax error",
	errReturnWithoutGosub:  "RETURN without GOSUB",
	errOutOfData:           "Out of DATA",
	errIllegalFunctionCall: "Illegal function call",
	errOverflow:            "Overflow",
	errOutOfMemory:         "Out of memory",
	errUndefinedLineNumber: "Undefined line number",
	errSubscriptOutOfRange: "Subscript out of range",
	errDuplicateDefinition: "Duplicate Definition",
	errDivisionByZero:      "Division by zero",
	errIllegalDirect:       "Illegal direct",
	errTypeMismatch:        "Type mismatch",
	errOutOfStringSpace:    "Out of string space",
	errStringTooLong:       "String too long",
	errStringTooComplex:    "String formula too complex",
	errCantContinue:        "Can't continue",
	errUndefinedUserFunc:   "Undefined user function",
	errNoResume:            "No RESUME",
	errResumeWithoutError:  "RESUME without error",
	errMissingOperand:      "Missing operand",
	errLineBufferOverflow:  "Line buffer overflow",
	errForWithoutNext:      "FOR without NEXT",
	errWhileWithoutWend:    "WHILE without WEND",
	errWendWithoutWhile:    "WEND without WHILE",
	errFieldOverflow:       "Field overflow",
	errInternalError:       "Internal error",
	errBadFileNumber:       "Bad file number",
	errFileNotFound:        "File not found",
	errBadFileMode:         "Bad file mode",
	errFileAlreadyOpen:     "File already open",
	errDiskIOError:         "Disk I/O error",
	errFileExists:          "File already exists",
	errDiskFull:            "Disk full",
	errInputPastEnd:        "Input past end",
	errBadRecordNumber:     "Bad record number",
	errBadFileName:         "Bad file name",
	errDirectStatement:     "Direct statement in file",
	errTooManyFiles:        "Too many files",
}

//
// Return the canonical message for an error code. Codes outside the
// table get the generic text MBASIC prints for them.
//

func errorText(code int) string {

	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "Unprintable error"
}

//
// A trappable BASIC error, raised via panic and recovered once per
// statement by the dispatcher
//

type basicError struct {
	code   int
	msg    string
	lineNo int
}

func (e *basicError) Error() string {

	return e.msg
}

//
// Raise a runtime error: panics with a *basicError that tick() catches.
// The faulting line number is filled in by the dispatcher.
//

func runtimeError(code int) {

	panic(&basicError{code: code, msg: errorText(code)})
}

func runtimeErrorMsg(code int, format string, args ...any) {

	panic(&basicError{code: code, msg: fmt.Sprintf(format, args...)})
}

//
// Internal invariant violations are not trappable: report and exit
//

func fatalError(format string, args ...any) {

	fmt.Fprintf(os.Stderr, "?Internal error: "+format+"\n", args...)
	os.Exit(1)
}

func basicAssert(cond bool, msg string) {

	if !cond {
		fatalError("assertion failed: %s", msg)
	}
}
