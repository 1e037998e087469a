package main

import (
	"math"
	"strconv"
	"strings"
)

//
// Values are held as any, one of: int16, float32, float64, string.
// Everything below enforces and converts between those four shapes.
//

func valueType(v any) varType {

	switch v.(type) {
	case int16:
		return intType
	case float32:
		return sngType
	case float64:
		return dblType
	case string:
		return strType
	}
	fatalError("bad value shape %T", v)
	return noType
}

func isString(v any) bool {

	_, ok := v.(string)
	return ok
}

func isNumeric(v any) bool {

	return !isString(v)
}

//
// Widen any numeric value to float64. Strings in numeric context are
// a type mismatch.
//

func toNumber(v any) float64 {

	switch n := v.(type) {
	case int16:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	runtimeError(errTypeMismatch)
	return 0
}

func toString(v any) string {

	if s, ok := v.(string); ok {
		return s
	}
	runtimeError(errTypeMismatch)
	return ""
}

//
// Round a float to int16 with banker's rounding (round half to even),
// saturating at the int16 limits
//

func roundToInt16(d float64) int16 {

	r := math.RoundToEven(d)
	if r > math.MaxInt16 {
		return math.MaxInt16
	}
	if r < math.MinInt16 {
		return math.MinInt16
	}
	return int16(r)
}

func toInt16(v any) int16 {

	if n, ok := v.(int16); ok {
		return n
	}
	return roundToInt16(toNumber(v))
}

//
// Convert to int for subscripts, file numbers, record numbers etc,
// using the same rounding as int16 but without the saturation
//

func toInt(v any) int {

	if n, ok := v.(int16); ok {
		return int(n)
	}
	return int(math.RoundToEven(toNumber(v)))
}

//
// Truthiness: any nonzero number is true. MBASIC comparisons yield
// -1 for true and 0 for false.
//

func toBool(v any) bool {

	return toNumber(v) != 0
}

func boolValue(b bool) any {

	if b {
		return int16(-1)
	}
	return int16(0)
}

//
// Coerce a value to the type of an assignment target. Numeric values
// convert freely between numeric widths; anything crossing the
// string/number line is a type mismatch.
//

func coerceValue(v any, t varType) any {

	if t == strType {
		if s, ok := v.(string); ok {
			return s
		}
		runtimeError(errTypeMismatch)
	}
	switch t {
	case intType:
		return toInt16(v)
	case sngType:
		return float32(toNumber(v))
	case dblType:
		return toNumber(v)
	}
	fatalError("bad coercion target %d", t)
	return nil
}

func defaultValue(t varType) any {

	switch t {
	case intType:
		return int16(0)
	case sngType:
		return float32(0)
	case dblType:
		return float64(0)
	case strType:
		return ""
	}
	fatalError("bad default type %d", t)
	return nil
}

//
// Tolerant float comparison: exact equality short-circuits, otherwise
// relative tolerance 1e-6 with an absolute floor of 1e-9 near zero
//

func floatEqual(a, b float64) bool {

	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	if diff < 1e-9 {
		return true
	}
	larger := math.Max(math.Abs(a), math.Abs(b))
	return diff <= larger*1e-6
}

//
// Render a number the way PRINT and STR$ do: a leading space stands in
// for the sign of non-negative numbers, and a trailing space always
// follows
//

func numberString(v any) string {

	var body string

	switch n := v.(type) {
	case int16:
		body = strconv.FormatInt(int64(n), 10)
	case float32:
		body = formatFloat(float64(n), 32)
	case float64:
		body = formatFloat(n, 64)
	default:
		runtimeError(errTypeMismatch)
	}

	if body[0] != '-' {
		body = " " + body
	}
	return body + " "
}

func formatFloat(d float64, bits int) string {

	if d == math.Trunc(d) && math.Abs(d) < 1e10 {
		return strconv.FormatInt(int64(d), 10)
	}
	s := strings.ToUpper(strconv.FormatFloat(d, 'g', -1, bits))
	// MBASIC drops the zero before the point: .5 and -.5
	if strings.HasPrefix(s, "0.") {
		return s[1:]
	}
	if strings.HasPrefix(s, "-0.") {
		return "-" + s[2:]
	}
	return s
}

//
// Bare numeric text without the PRINT padding, for WRITE and file output
//

func plainNumberString(v any) string {

	return strings.TrimSpace(numberString(v))
}

//
// String field helpers for LSET/RSET and FIELD buffers: force a string
// to an exact width by padding with spaces or truncating
//

func padString(src string, width int, padLeft bool) string {

	if len(src) >= width {
		return src[:width]
	}
	pad := strings.Repeat(" ", width-len(src))
	if padLeft {
		return pad + src
	}
	return src + pad
}

//
// Normalize an identifier: BASIC names are case-insensitive
//

func normalizeName(name string) string {

	return strings.ToLower(name)
}

//
// The type suffix of a variable name, or noType when it has none
//

func nameSuffixType(name string) varType {

	if name == "" {
		return noType
	}
	switch name[len(name)-1] {
	case '%':
		return intType
	case '!':
		return sngType
	case '#':
		return dblType
	case '$':
		return strType
	}
	return noType
}

//
// Guard string results against the 255-character limit
//

func checkStringLen(s string) string {

	if len(s) > maxStringLen {
		runtimeError(errStringTooLong)
	}
	return s
}
