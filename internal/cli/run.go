// Package cli implements the absfs command line: the thin driver loop
// around the state oracle that scans basepaths and compares the
// resulting signatures.
package cli

import (
	"io"
)

// Run is the main entry point. Returns exit code.
func Run(out, errOut io.Writer, args []string) int {
	o := NewIO(out, errOut)

	commands := []*Command{
		scanCommand(),
		compareCommand(),
		hashesCommand(),
	}

	if len(args) < 2 {
		printUsage(o, commands)
		return 0
	}

	name := args[1]
	if name == "-h" || name == "--help" || name == "help" {
		printUsage(o, commands)
		return 0
	}

	for _, c := range commands {
		if c.Name() == name {
			return c.Run(o, args[2:])
		}
	}

	o.ErrPrintln("error: unknown command:", name)
	o.ErrPrintln()
	printUsage(o, commands)

	return 1
}

func printUsage(o *IO, commands []*Command) {
	o.Println("Usage: absfs <command> [flags]")
	o.Println()
	o.Println("Summarize mounted filesystem trees into abstract state signatures")
	o.Println("and compare them across filesystem instances.")
	o.Println()
	o.Println("Commands:")

	for _, c := range commands {
		o.Println(c.HelpLine())
	}

	o.Println()
	o.Println("Run 'absfs <command> --help' for command details.")
}
