package main

import (
	"encoding/binary"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

//
// Built-in functions, keyed by lowercase name (suffix included)
//

type builtinFn func(ip *interp, args []any) any

var builtins map[string]builtinFn

func isBuiltinName(name string) bool {

	_, ok := builtins[name]
	return ok
}

func lookupBuiltin(name string) builtinFn {

	return builtins[name]
}

//
// Argument plumbing
//

func wantArgs(args []any, n int) {

	if len(args) != n {
		runtimeError(errIllegalFunctionCall)
	}
}

func argNum(args []any, i int) float64 {

	return toNumber(args[i])
}

func argInt(args []any, i int) int {

	return toInt(args[i])
}

func argStr(args []any, i int) string {

	return toString(args[i])
}

func init() {

	builtins = map[string]builtinFn{
		"abs":      fnAbs,
		"atn":      fnAtn,
		"cos":      fnCos,
		"exp":      fnExp,
		"fix":      fnFix,
		"int":      fnInt,
		"log":      fnLog,
		"rnd":      fnRnd,
		"sgn":      fnSgn,
		"sin":      fnSin,
		"sqr":      fnSqr,
		"tan":      fnTan,
		"cint":     fnCint,
		"csng":     fnCsng,
		"cdbl":     fnCdbl,
		"asc":      fnAsc,
		"chr$":     fnChr,
		"hex$":     fnHex,
		"oct$":     fnOct,
		"left$":    fnLeft,
		"right$":   fnRight,
		"mid$":     fnMid,
		"len":      fnLen,
		"str$":     fnStr,
		"val":      fnVal,
		"space$":   fnSpace,
		"string$":  fnString,
		"instr":    fnInstr,
		"tab":      fnTab,
		"spc":      fnSpc,
		"fre":      fnFre,
		"pos":      fnPos,
		"peek":     fnPeek,
		"inp":      fnInp,
		"eof":      fnEof,
		"lof":      fnLof,
		"loc":      fnLoc,
		"cvi":      fnCvi,
		"cvs":      fnCvs,
		"cvd":      fnCvd,
		"mki$":     fnMki,
		"mks$":     fnMks,
		"mkd$":     fnMkd,
		"inkey$":   fnInkey,
		"input$":   fnInput,
		"lpos":     fnLpos,
		"erl":      fnErl,
		"err":      fnErr,
		"timer":    fnTimer,
		"date$":    fnDate,
		"time$":    fnTime,
		"environ$": fnEnviron,
		"error$":   fnErrorStr,
		"varptr":   fnVarptr,
	}
}

//
// Numeric functions
//

func fnAbs(ip *interp, args []any) any {

	wantArgs(args, 1)
	if i, ok := args[0].(int16); ok && i != math.MinInt16 {
		if i < 0 {
			return -i
		}
		return i
	}
	return math.Abs(argNum(args, 0))
}

func fnAtn(ip *interp, args []any) any {

	wantArgs(args, 1)
	return math.Atan(argNum(args, 0))
}

func fnCos(ip *interp, args []any) any {

	wantArgs(args, 1)
	return math.Cos(argNum(args, 0))
}

func fnExp(ip *interp, args []any) any {

	wantArgs(args, 1)
	d := math.Exp(argNum(args, 0))
	if math.IsInf(d, 0) {
		runtimeError(errOverflow)
	}
	return d
}

func fnFix(ip *interp, args []any) any {

	wantArgs(args, 1)
	return math.Trunc(argNum(args, 0))
}

func fnInt(ip *interp, args []any) any {

	wantArgs(args, 1)
	return math.Floor(argNum(args, 0))
}

func fnLog(ip *interp, args []any) any {

	wantArgs(args, 1)
	d := argNum(args, 0)
	if d <= 0 {
		runtimeError(errIllegalFunctionCall)
	}
	return math.Log(d)
}

//
// RND(x): x > 0 or absent draws the next number, x = 0 repeats the
// last one, x < 0 reseeds deterministically from x
//

func fnRnd(ip *interp, args []any) any {

	if len(args) > 1 {
		runtimeError(errIllegalFunctionCall)
	}
	if len(args) == 1 {
		d := argNum(args, 0)
		if d == 0 {
			return ip.r.rndLast
		}
		if d < 0 {
			ip.r.reseed(int64(math.Float64bits(d)))
			return ip.r.rndLast
		}
	}
	return ip.r.nextRnd()
}

func fnSgn(ip *interp, args []any) any {

	wantArgs(args, 1)
	d := argNum(args, 0)
	switch {
	case d > 0:
		return int16(1)
	case d < 0:
		return int16(-1)
	}
	return int16(0)
}

func fnSin(ip *interp, args []any) any {

	wantArgs(args, 1)
	return math.Sin(argNum(args, 0))
}

func fnSqr(ip *interp, args []any) any {

	wantArgs(args, 1)
	d := argNum(args, 0)
	if d < 0 {
		runtimeError(errIllegalFunctionCall)
	}
	return math.Sqrt(d)
}

func fnTan(ip *interp, args []any) any {

	wantArgs(args, 1)
	return math.Tan(argNum(args, 0))
}

//
// Type conversions. CINT faults on overflow instead of saturating.
//

func fnCint(ip *interp, args []any) any {

	wantArgs(args, 1)
	d := argNum(args, 0)
	if d < math.MinInt16-0.5 || d >= math.MaxInt16+0.5 {
		runtimeError(errOverflow)
	}
	return roundToInt16(d)
}

func fnCsng(ip *interp, args []any) any {

	wantArgs(args, 1)
	return float32(argNum(args, 0))
}

func fnCdbl(ip *interp, args []any) any {

	wantArgs(args, 1)
	return argNum(args, 0)
}

//
// String functions
//

func fnAsc(ip *interp, args []any) any {

	wantArgs(args, 1)
	s := argStr(args, 0)
	if s == "" {
		runtimeError(errIllegalFunctionCall)
	}
	return int16(s[0])
}

func fnChr(ip *interp, args []any) any {

	wantArgs(args, 1)
	n := argInt(args, 0)
	if n < 0 || n > 255 {
		runtimeError(errIllegalFunctionCall)
	}
	return string(byte(n))
}

func fnHex(ip *interp, args []any) any {

	wantArgs(args, 1)
	return strings.ToUpper(strconv.FormatUint(uint64(uint16(toInt16(args[0]))), 16))
}

func fnOct(ip *interp, args []any) any {

	wantArgs(args, 1)
	return strconv.FormatUint(uint64(uint16(toInt16(args[0]))), 8)
}

func fnLeft(ip *interp, args []any) any {

	wantArgs(args, 2)
	s := argStr(args, 0)
	n := argInt(args, 1)
	if n < 0 {
		runtimeError(errIllegalFunctionCall)
	}
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

func fnRight(ip *interp, args []any) any {

	wantArgs(args, 2)
	s := argStr(args, 0)
	n := argInt(args, 1)
	if n < 0 {
		runtimeError(errIllegalFunctionCall)
	}
	if n > len(s) {
		n = len(s)
	}
	return s[len(s)-n:]
}

func fnMid(ip *interp, args []any) any {

	if len(args) != 2 && len(args) != 3 {
		runtimeError(errIllegalFunctionCall)
	}
	s := argStr(args, 0)
	start := argInt(args, 1)
	if start < 1 {
		runtimeError(errIllegalFunctionCall)
	}
	if start > len(s) {
		return ""
	}
	rest := s[start-1:]
	if len(args) == 3 {
		n := argInt(args, 2)
		if n < 0 {
			runtimeError(errIllegalFunctionCall)
		}
		if n < len(rest) {
			rest = rest[:n]
		}
	}
	return rest
}

func fnLen(ip *interp, args []any) any {

	wantArgs(args, 1)
	return int16(len(argStr(args, 0)))
}

func fnStr(ip *interp, args []any) any {

	wantArgs(args, 1)
	if isString(args[0]) {
		runtimeError(errTypeMismatch)
	}
	return strings.TrimSuffix(numberString(args[0]), " ")
}

//
// VAL parses the longest numeric prefix, ignoring leading blanks;
// anything unparseable is 0
//

func fnVal(ip *interp, args []any) any {

	wantArgs(args, 1)
	s := strings.TrimLeft(argStr(args, 0), " \t")

	for end := len(s); end > 0; end-- {
		if d, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return d
		}
	}
	return float64(0)
}

func fnSpace(ip *interp, args []any) any {

	wantArgs(args, 1)
	n := argInt(args, 0)
	if n < 0 || n > maxStringLen {
		runtimeError(errIllegalFunctionCall)
	}
	return strings.Repeat(" ", n)
}

func fnString(ip *interp, args []any) any {

	wantArgs(args, 2)
	n := argInt(args, 0)
	if n < 0 || n > maxStringLen {
		runtimeError(errIllegalFunctionCall)
	}

	var ch byte
	if s, ok := args[1].(string); ok {
		if s == "" {
			runtimeError(errIllegalFunctionCall)
		}
		ch = s[0]
	} else {
		c := toInt(args[1])
		if c < 0 || c > 255 {
			runtimeError(errIllegalFunctionCall)
		}
		ch = byte(c)
	}
	return strings.Repeat(string(ch), n)
}

//
// INSTR([start,] haystack$, needle$): 1-based position or 0
//

func fnInstr(ip *interp, args []any) any {

	start := 1
	var hay, needle string

	switch len(args) {
	case 2:
		hay, needle = argStr(args, 0), argStr(args, 1)
	case 3:
		start = argInt(args, 0)
		hay, needle = argStr(args, 1), argStr(args, 2)
	default:
		runtimeError(errIllegalFunctionCall)
	}

	if start < 1 || start > 255 {
		runtimeError(errIllegalFunctionCall)
	}
	if start > len(hay) {
		return int16(0)
	}
	if i := strings.Index(hay[start-1:], needle); i >= 0 {
		return int16(start + i)
	}
	return int16(0)
}

//
// TAB and SPC are only meaningful inside PRINT; both yield padding
// strings based on the live console column
//

func fnTab(ip *interp, args []any) any {

	wantArgs(args, 1)
	target := argInt(args, 0)
	col := ip.cons.column() + 1
	if target <= col {
		return ""
	}
	return strings.Repeat(" ", target-col)
}

func fnSpc(ip *interp, args []any) any {

	wantArgs(args, 1)
	n := argInt(args, 0)
	if n < 0 {
		runtimeError(errIllegalFunctionCall)
	}
	return strings.Repeat(" ", n)
}

//
// Environment probes. FRE, PEEK and INP answer with fixed values on a
// machine with no 8080 behind the curtain.
//

func fnFre(ip *interp, args []any) any {

	wantArgs(args, 1)
	return float64(65535)
}

func fnPos(ip *interp, args []any) any {

	wantArgs(args, 1)
	return int16(ip.cons.column() + 1)
}

func fnPeek(ip *interp, args []any) any {

	wantArgs(args, 1)
	argInt(args, 0)
	return int16(255)
}

func fnInp(ip *interp, args []any) any {

	wantArgs(args, 1)
	argInt(args, 0)
	return int16(0)
}

func fnVarptr(ip *interp, args []any) any {

	wantArgs(args, 1)
	return int16(0)
}

//
// File probes
//

func fnEof(ip *interp, args []any) any {

	wantArgs(args, 1)
	f := ip.fileFor(argInt(args, 0))
	return boolValue(f.handle.eof())
}

func fnLof(ip *interp, args []any) any {

	wantArgs(args, 1)
	f := ip.fileFor(argInt(args, 0))
	return float64(f.handle.length())
}

func fnLoc(ip *interp, args []any) any {

	wantArgs(args, 1)
	f := ip.fileFor(argInt(args, 0))
	if f.mode == modeRandom {
		return float64(f.lastRec)
	}
	return float64(f.handle.position() / defaultRecordLen)
}

//
// Binary field conversions for random-access records
//

func fnCvi(ip *interp, args []any) any {

	wantArgs(args, 1)
	s := argStr(args, 0)
	if len(s) < 2 {
		runtimeError(errIllegalFunctionCall)
	}
	return int16(binary.LittleEndian.Uint16([]byte(s[:2])))
}

func fnCvs(ip *interp, args []any) any {

	wantArgs(args, 1)
	s := argStr(args, 0)
	if len(s) < 4 {
		runtimeError(errIllegalFunctionCall)
	}
	return math.Float32frombits(binary.LittleEndian.Uint32([]byte(s[:4])))
}

func fnCvd(ip *interp, args []any) any {

	wantArgs(args, 1)
	s := argStr(args, 0)
	if len(s) < 8 {
		runtimeError(errIllegalFunctionCall)
	}
	return math.Float64frombits(binary.LittleEndian.Uint64([]byte(s[:8])))
}

func fnMki(ip *interp, args []any) any {

	wantArgs(args, 1)
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(toInt16(args[0])))
	return string(buf)
}

func fnMks(ip *interp, args []any) any {

	wantArgs(args, 1)
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(argNum(args, 0))))
	return string(buf)
}

func fnMkd(ip *interp, args []any) any {

	wantArgs(args, 1)
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(argNum(args, 0)))
	return string(buf)
}

//
// Keyboard and printer
//

func fnInkey(ip *interp, args []any) any {

	wantArgs(args, 0)
	return ip.cons.inkey()
}

//
// INPUT$(n [, filenum]) reads exactly n characters
//

func fnInput(ip *interp, args []any) any {

	n := 0
	switch len(args) {
	case 1:
		n = argInt(args, 0)
	case 2:
		n = argInt(args, 0)
		f := ip.fileFor(argInt(args, 1))
		s, err := f.handle.readChars(n)
		if err != nil {
			runtimeError(errInputPastEnd)
		}
		return s
	default:
		runtimeError(errIllegalFunctionCall)
	}

	if n < 0 || n > maxStringLen {
		runtimeError(errIllegalFunctionCall)
	}
	var sb strings.Builder
	for sb.Len() < n {
		if k := ip.cons.inkey(); k != "" {
			sb.WriteString(k)
		}
	}
	return sb.String()
}

func fnLpos(ip *interp, args []any) any {

	wantArgs(args, 1)
	return int16(ip.lpCol + 1)
}

//
// Error context
//

func fnErl(ip *interp, args []any) any {

	wantArgs(args, 0)
	return float64(ip.lastErrLine)
}

func fnErr(ip *interp, args []any) any {

	wantArgs(args, 0)
	return int16(ip.lastErrCode)
}

func fnErrorStr(ip *interp, args []any) any {

	if len(args) == 1 {
		return errorText(argInt(args, 0))
	}
	wantArgs(args, 0)
	return errorText(ip.lastErrCode)
}

//
// Clock and environment
//

func fnTimer(ip *interp, args []any) any {

	wantArgs(args, 0)
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return now.Sub(midnight).Seconds()
}

func fnDate(ip *interp, args []any) any {

	wantArgs(args, 0)
	return time.Now().Format("01-02-2006")
}

func fnTime(ip *interp, args []any) any {

	wantArgs(args, 0)
	return time.Now().Format("15:04:05")
}

func fnEnviron(ip *interp, args []any) any {

	wantArgs(args, 1)
	return os.Getenv(argStr(args, 0))
}
