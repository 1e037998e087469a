package main

import (
	"testing"
)

func TestFormatUsingNumericFields(t *testing.T) {

	cases := []struct {
		format string
		vals   []any
		want   string
	}{
		{"###.##", []any{3.14159}, "  3.14"},
		{"##.#", []any{-0.5}, "-0.5"},
		{"###", []any{float64(7)}, "  7"},
		{"##", []any{float64(123)}, "%123"},
		{"+##", []any{float64(5)}, " +5"},
		{"+##", []any{float64(-5)}, " -5"},
		{"##-", []any{float64(-4)}, " 4-"},
		{"##-", []any{float64(4)}, " 4 "},
		{"#,###", []any{float64(1234)}, "1,234"},
		{"#,###,###", []any{float64(1234567)}, "1,234,567"},
		{"$$###.##", []any{12.5}, "  $12.50"},
		{"**#.#", []any{1.2}, "**1.2"},
		{"##.##^^^^", []any{123.456}, " 1.23E+02"},
	}

	for _, c := range cases {
		if got := formatUsing(c.format, c.vals); got != c.want {
			t.Errorf("formatUsing(%q, %v) = %q, want %q", c.format, c.vals, got, c.want)
		}
	}
}

func TestFormatUsingStringFields(t *testing.T) {

	cases := []struct {
		format string
		vals   []any
		want   string
	}{
		{"!", []any{"HELLO"}, "H"},
		{`\ \`, []any{"ABCDE"}, "ABC"},
		{`\ \`, []any{"A"}, "A  "},
		{"&", []any{"Hi"}, "Hi"},
	}

	for _, c := range cases {
		if got := formatUsing(c.format, c.vals); got != c.want {
			t.Errorf("formatUsing(%q, %v) = %q, want %q", c.format, c.vals, got, c.want)
		}
	}
}

func TestFormatUsingLiteralsAndEscapes(t *testing.T) {

	if got := formatUsing("X#X", []any{float64(5)}); got != "X5X" {
		t.Errorf("literal wrap = %q", got)
	}
	// _# emits a literal # instead of starting a field
	if got := formatUsing("_##", []any{float64(5)}); got != "#5" {
		t.Errorf("escape = %q", got)
	}
}

func TestFormatUsingValueExhaustionEmitsTail(t *testing.T) {

	if got := formatUsing("## and ##", []any{int16(5)}); got != " 5 and ##" {
		t.Errorf("exhausted tail = %q", got)
	}
}

func TestFormatUsingDropsExtraValues(t *testing.T) {

	if got := formatUsing("##", []any{float64(1), float64(2), float64(3)}); got != " 1" {
		t.Errorf("extra values = %q", got)
	}
	if got := formatUsing("#: &", []any{float64(1), "A", "B"}); got != "1: A" {
		t.Errorf("extra values = %q", got)
	}
}
