package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/danswartzendruber/liner"
	"golang.org/x/term"
)

//
// Console abstraction. The interpreter talks to one of these for all
// PRINT/INPUT/INKEY$ traffic; tests substitute an in-memory one.
//

type console interface {
	print(text string)
	inputLine(prompt string) (string, bool)
	inkey() string
	column() int
	width() int
	setWidth(w int)
	clearScreen()
}

//
// The real terminal console: liner for line input, x/term for raw
// single-key reads, column tracked across prints
//

type termConsole struct {
	col      int
	colWidth int
}

func newTermConsole() *termConsole {

	c := &termConsole{colWidth: defaultWidth}
	if g.windowCols > 0 {
		c.colWidth = g.windowCols
	}
	return c
}

func (c *termConsole) print(text string) {

	fmt.Print(text)
	c.trackColumn(text)
}

func (c *termConsole) trackColumn(text string) {

	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		c.col = len(text) - i - 1
	} else {
		c.col += len(text)
	}
}

//
// Line input via the dedicated input liner, so program INPUT never
// pollutes the command-line history. ^C during input surfaces as an
// unavailable read, which the dispatcher turns into a break.
//

func (c *termConsole) inputLine(prompt string) (string, bool) {

	if g.inputLiner == nil {
		return "", false
	}
	line, err := g.inputLiner.Prompt(prompt)
	c.col = 0
	if err != nil {
		return "", false
	}
	return line, true
}

//
// Poll for one pending key. Raw mode with a short read deadline, so
// a quiet keyboard yields the empty string
//

func (c *termConsole) inkey() string {

	if !g.isTerminal {
		return ""
	}

	oldState, err := term.MakeRaw(stdinFd)
	if err != nil {
		return ""
	}
	defer term.Restore(stdinFd, oldState)

	os.Stdin.SetReadDeadline(time.Now().Add(time.Millisecond))
	defer os.Stdin.SetReadDeadline(time.Time{})

	buf := make([]byte, 1)
	n, _ := os.Stdin.Read(buf)
	if n == 0 {
		return ""
	}
	return string(buf[:1])
}

func (c *termConsole) column() int {

	return c.col
}

func (c *termConsole) width() int {

	return c.colWidth
}

func (c *termConsole) setWidth(w int) {

	c.colWidth = w
}

func (c *termConsole) clearScreen() {

	fmt.Print("\033[2J\033[H")
	c.col = 0
}

//
// Discover terminal geometry and build the two liner instances. The
// parser liner owns the command prompt history; the input liner is
// for program INPUT statements.
//

func setupTerminal() {

	g.isTerminal = term.IsTerminal(stdinFd)
	if g.isTerminal {
		if cols, rows, err := term.GetSize(stdinFd); err == nil {
			g.windowCols = cols
			g.windowRows = rows
		}
	}

	g.parserLiner = liner.NewLiner()
	g.parserLiner.SetMultiLineMode(true)
	g.inputLiner = liner.NewLiner()
}

func teardownTerminal() {

	if g.parserLiner != nil {
		g.parserLiner.Close()
	}
	if g.inputLiner != nil {
		g.inputLiner.Close()
	}
}

//
// Read one command line at the REPL prompt
//

func readCommandLine(prompt string) (string, error) {

	line, err := g.parserLiner.Prompt(prompt)
	if err == nil && strings.TrimSpace(line) != "" {
		g.parserLiner.AppendHistory(line)
	}
	return line, err
}

var errPromptAborted = liner.ErrPromptAborted
