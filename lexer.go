package main

import (
	"fmt"
	"strconv"
	"strings"
)

//
// Token kinds. Word operators (AND, MOD, ...) lex directly to their
// operator kind; all other keywords stay tokIdent and the parser
// matches them by name.
//

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokRemark

	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokBackslash
	tokCaret
	tokLParen
	tokRParen
	tokComma
	tokSemi
	tokColon
	tokHash
	tokEq
	tokLt
	tokGt
	tokLe
	tokGe
	tokNe
	tokAnd
	tokOr
	tokXor
	tokEqv
	tokImp
	tokMod
	tokNot
)

type token struct {
	kind tokenKind
	text string // original spelling
	num  any    // int16 or float64 for tokNumber
	col  int
}

var wordOperators = map[string]tokenKind{
	"and": tokAnd,
	"or":  tokOr,
	"xor": tokXor,
	"eqv": tokEqv,
	"imp": tokImp,
	"mod": tokMod,
	"not": tokNot,
}

//
// Tokenize one source line (the text after any line number). Returns
// a syntax error with the offending column for anything unrecognized.
//

func tokenize(src string) ([]token, error) {

	var toks []token
	i := 0

	emit := func(kind tokenKind, text string, col int) {
		toks = append(toks, token{kind: kind, text: text, col: col})
	}

	for i < len(src) {
		c := src[i]
		col := i + 1

		switch {
		case c == ' ' || c == '\t':
			i++

		case c == '\'':
			emit(tokRemark, src[i+1:], col)
			i = len(src)

		case c == '"':
			j := i + 1
			for j < len(src) && src[j] != '"' {
				j++
			}
			toks = append(toks, token{kind: tokString, text: src[i+1 : j], col: col})
			if j < len(src) {
				j++
			}
			i = j

		case c >= '0' && c <= '9' || c == '.':
			tok, next, err := lexNumber(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i = next

		case c == '&':
			tok, next, err := lexRadixNumber(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i = next

		case isNameStart(c):
			j := i + 1
			for j < len(src) && isNameChar(src[j]) {
				j++
			}
			if j < len(src) && isSuffixChar(src[j]) {
				j++
			}
			word := src[i:j]
			lower := strings.ToLower(word)
			if lower == "rem" {
				rest := strings.TrimPrefix(src[j:], " ")
				emit(tokRemark, rest, col)
				i = len(src)
				break
			}
			if op, ok := wordOperators[lower]; ok {
				emit(op, word, col)
			} else {
				emit(tokIdent, word, col)
			}
			i = j

		case c == '?':
			emit(tokIdent, "print", col)
			i++

		case c == '<':
			if i+1 < len(src) && src[i+1] == '=' {
				emit(tokLe, "<=", col)
				i += 2
			} else if i+1 < len(src) && src[i+1] == '>' {
				emit(tokNe, "<>", col)
				i += 2
			} else {
				emit(tokLt, "<", col)
				i++
			}

		case c == '>':
			if i+1 < len(src) && src[i+1] == '=' {
				emit(tokGe, ">=", col)
				i += 2
			} else {
				emit(tokGt, ">", col)
				i++
			}

		default:
			kind, ok := singleCharToken(c)
			if !ok {
				return nil, fmt.Errorf("unexpected character %q at column %d", c, col)
			}
			emit(kind, string(c), col)
			i++
		}
	}

	toks = append(toks, token{kind: tokEOF, col: len(src) + 1})
	return toks, nil
}

func singleCharToken(c byte) (tokenKind, bool) {

	switch c {
	case '+':
		return tokPlus, true
	case '-':
		return tokMinus, true
	case '*':
		return tokStar, true
	case '/':
		return tokSlash, true
	case '\\':
		return tokBackslash, true
	case '^':
		return tokCaret, true
	case '(':
		return tokLParen, true
	case ')':
		return tokRParen, true
	case ',':
		return tokComma, true
	case ';':
		return tokSemi, true
	case ':':
		return tokColon, true
	case '#':
		return tokHash, true
	case '=':
		return tokEq, true
	}
	return tokEOF, false
}

func isNameStart(c byte) bool {

	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isNameChar(c byte) bool {

	return isNameStart(c) || c >= '0' && c <= '9' || c == '.'
}

func isSuffixChar(c byte) bool {

	return c == '%' || c == '!' || c == '#' || c == '$'
}

//
// Decimal numeric literal, with optional fraction, E or D exponent,
// and a trailing type suffix. Integral literals without a suffix that
// fit in 16 bits lex as integers, everything else as double.
//

func lexNumber(src string, start int) (token, int, error) {

	i := start
	sawDot := false
	sawExp := false
	forceDbl := false
	forceInt := false
	forceSng := false

	for i < len(src) {
		c := src[i]
		if c >= '0' && c <= '9' {
			i++
		} else if c == '.' && !sawDot && !sawExp {
			sawDot = true
			i++
		} else if (c == 'e' || c == 'E' || c == 'd' || c == 'D') && !sawExp && i > start {
			if c == 'd' || c == 'D' {
				forceDbl = true
			}
			sawExp = true
			i++
			if i < len(src) && (src[i] == '+' || src[i] == '-') {
				i++
			}
		} else {
			break
		}
	}

	if i < len(src) {
		switch src[i] {
		case '%':
			forceInt = true
			i++
		case '!':
			forceSng = true
			i++
		case '#':
			forceDbl = true
			i++
		}
	}

	text := src[start:i]
	numText := strings.TrimRight(text, "%!#")
	numText = strings.Map(func(r rune) rune {
		if r == 'd' || r == 'D' {
			return 'e'
		}
		return r
	}, numText)

	d, err := strconv.ParseFloat(numText, 64)
	if err != nil {
		return token{}, i, fmt.Errorf("bad number %q at column %d", text, start+1)
	}

	tok := token{kind: tokNumber, text: text, col: start + 1}
	switch {
	case forceInt:
		tok.num = roundToInt16(d)
	case forceSng:
		tok.num = float32(d)
	case forceDbl || sawDot || sawExp:
		tok.num = d
	case d >= -32768 && d <= 32767:
		tok.num = int16(d)
	default:
		tok.num = d
	}
	return tok, i, nil
}

//
// &H hex and &O octal literals (a bare & also means octal)
//

func lexRadixNumber(src string, start int) (token, int, error) {

	i := start + 1
	base := 8
	digits := "01234567"

	if i < len(src) && (src[i] == 'h' || src[i] == 'H') {
		base = 16
		digits = "0123456789abcdefABCDEF"
		i++
	} else if i < len(src) && (src[i] == 'o' || src[i] == 'O') {
		i++
	}

	j := i
	for j < len(src) && strings.IndexByte(digits, src[j]) >= 0 {
		j++
	}
	if j == i {
		return token{}, j, fmt.Errorf("bad radix literal at column %d", start+1)
	}

	n, err := strconv.ParseUint(strings.ToLower(src[i:j]), base, 16)
	if err != nil {
		return token{}, j, fmt.Errorf("bad radix literal at column %d", start+1)
	}

	return token{kind: tokNumber, text: src[start:j], num: int16(uint16(n)), col: start + 1}, j, nil
}
