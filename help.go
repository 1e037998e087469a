package main

import (
	"fmt"
)

//
// The HELP command
//

var helpTopics = map[string]string{
	"commands": `LIST [n[-m]]     list program lines
NEW              erase the program
LOAD name        load a program file
SAVE [name]      save the program
RUN [n|"file"]   run from line n, or a file
CONT             continue after STOP or a break
DELETE n[-m]     delete program lines
RENUM [n[,inc]]  renumber the program
MERGE "file"     overlay lines from a file
FILES [pattern]  list directory entries
KILL "file"      delete a file
NAME "a" AS "b"  rename a file
RESET            close all open files
TRON / TROFF     trace executed line numbers
BREAK [n]        set or list breakpoints
UNBREAK [n]      clear breakpoints
STATS            toggle post-run CPU statistics
DUMP [n]         dump parsed statements
SYSTEM           exit the interpreter`,

	"errors": `Trappable errors set ERR and ERL and can be caught with
ON ERROR GOTO line. RESUME retries the faulting statement,
RESUME NEXT continues after it, RESUME line jumps.`,
}

func printHelp(arg string) {

	if topic, ok := helpTopics[arg]; ok {
		fmt.Println(topic)
		return
	}
	fmt.Println("Topics: commands, errors")
	fmt.Println(helpTopics["commands"])
}
