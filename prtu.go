package main

import (
	"math"
	"strconv"
	"strings"
)

//
// PRINT USING formatter. The format string is scanned left to right
// in a single pass; numeric and string field specs each consume one
// value. When the values run out, the rest of the format is emitted
// literally. When the format runs out first, the remaining values are
// dropped.
//

type numField struct {
	leadPlus  bool
	trailSign byte // '+', '-' or 0
	dollar    bool
	fill      byte
	width     int
	intDigits int
	commas    bool
	prec      int // digits after the point, -1 = no point
	exp       bool
}

func formatUsing(format string, vals []any) string {

	var out strings.Builder
	vi := 0
	i := 0

	literalTail := func(from int) string {
		out.WriteString(format[from:])
		return out.String()
	}

	for i < len(format) {
		c := format[i]

		switch {
		case c == '_':
			if i+1 < len(format) {
				out.WriteByte(format[i+1])
				i += 2
			} else {
				out.WriteByte(c)
				i++
			}

		case c == '!':
			if vi >= len(vals) {
				return literalTail(i)
			}
			s := toString(vals[vi])
			vi++
			out.WriteString(padString(s, 1, false))
			i++

		case c == '&':
			if vi >= len(vals) {
				return literalTail(i)
			}
			out.WriteString(toString(vals[vi]))
			vi++
			i++

		case c == '\\':
			j := strings.IndexByte(format[i+1:], '\\')
			if j < 0 {
				out.WriteByte(c)
				i++
				break
			}
			width := j + 2
			if vi >= len(vals) {
				return literalTail(i)
			}
			s := toString(vals[vi])
			vi++
			out.WriteString(padString(s, width, false))
			i += width

		default:
			nf, next, ok := scanNumField(format, i)
			if !ok {
				out.WriteByte(c)
				i++
				break
			}
			if vi >= len(vals) {
				return literalTail(i)
			}
			d := toNumber(vals[vi])
			vi++
			out.WriteString(nf.render(d))
			i = next
		}
	}

	return out.String()
}

//
// Recognize a numeric field spec starting at position i. A field must
// contain at least one #.
//

func scanNumField(format string, i int) (numField, int, bool) {

	nf := numField{fill: ' ', prec: -1}
	start := i

	if i < len(format) && format[i] == '+' {
		nf.leadPlus = true
		nf.width++
		i++
	}

	switch {
	case strings.HasPrefix(format[i:], "**$"):
		nf.fill = '*'
		nf.dollar = true
		nf.width += 3
		i += 3
	case strings.HasPrefix(format[i:], "**"):
		nf.fill = '*'
		nf.width += 2
		i += 2
	case strings.HasPrefix(format[i:], "$$"):
		nf.dollar = true
		nf.width += 2
		i += 2
	}

	for i < len(format) && (format[i] == '#' || format[i] == ',') {
		if format[i] == ',' {
			nf.commas = true
		} else {
			nf.intDigits++
		}
		nf.width++
		i++
	}

	if nf.intDigits == 0 && !nf.dollar && nf.fill == ' ' {
		return nf, start, false
	}

	if i < len(format) && format[i] == '.' {
		nf.prec = 0
		nf.width++
		i++
		for i < len(format) && format[i] == '#' {
			nf.prec++
			nf.width++
			i++
		}
	}

	if strings.HasPrefix(format[i:], "^^^^") {
		nf.exp = true
		nf.width += 4
		i += 4
	}

	if i < len(format) && (format[i] == '-' || format[i] == '+') {
		nf.trailSign = format[i]
		nf.width++
		i++
	}

	if nf.intDigits == 0 && nf.prec < 0 {
		return nf, start, false
	}
	return nf, i, true
}

func (nf numField) render(d float64) string {

	if nf.exp {
		return nf.renderExp(d)
	}

	neg := d < 0
	abs := math.Abs(d)

	prec := nf.prec
	if prec < 0 {
		prec = 0
	}
	body := strconv.FormatFloat(abs, 'f', prec, 64)
	if nf.prec < 0 {
		// no decimal point in the field
		body = strconv.FormatFloat(abs, 'f', 0, 64)
	}

	if nf.commas {
		body = insertCommas(body)
	}

	prefix := ""
	switch {
	case nf.leadPlus && neg:
		prefix = "-"
	case nf.leadPlus:
		prefix = "+"
	case neg && nf.trailSign == 0:
		prefix = "-"
	}
	if nf.dollar {
		prefix += "$"
	}

	suffix := ""
	switch nf.trailSign {
	case '-':
		if neg {
			suffix = "-"
		} else {
			suffix = " "
		}
	case '+':
		if neg {
			suffix = "-"
		} else {
			suffix = "+"
		}
	}

	text := prefix + body
	room := nf.width - len(suffix)
	if len(text) > room {
		return "%" + text + suffix
	}
	return strings.Repeat(string(nf.fill), room-len(text)) + text + suffix
}

//
// ^^^^ exponential fields: mantissa rounded to the field's precision,
// two-digit exponent
//

func (nf numField) renderExp(d float64) string {

	prec := nf.prec
	if prec < 0 {
		prec = 0
	}

	body := strconv.FormatFloat(d, 'E', prec, 64)
	// normalize E+2 style exponents to E+02
	if j := strings.IndexByte(body, 'E'); j >= 0 && len(body)-j == 3 {
		body = body[:j+2] + "0" + body[j+2:]
	}

	if !strings.HasPrefix(body, "-") {
		if nf.leadPlus {
			body = "+" + body
		} else {
			body = " " + body
		}
	}

	if len(body) > nf.width {
		return "%" + body
	}
	return strings.Repeat(" ", nf.width-len(body)) + body
}

func insertCommas(body string) string {

	intPart := body
	frac := ""
	if j := strings.IndexByte(body, '.'); j >= 0 {
		intPart, frac = body[:j], body[j:]
	}

	var sb strings.Builder
	n := len(intPart)
	for i, c := range intPart {
		sb.WriteRune(c)
		rem := n - i - 1
		if rem > 0 && rem%3 == 0 {
			sb.WriteByte(',')
		}
	}
	return sb.String() + frac
}
