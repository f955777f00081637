// Command grace is the CLI front-end for the interpreter: it runs Grace
// source to completion or drives it interactively through the debugger.
package main

import (
	"os"

	"github.com/blorente/gograce/cmd/grace/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
