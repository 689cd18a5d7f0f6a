// Package main provides absfs, a filesystem state oracle for
// crash-consistency and equivalence testing: it summarizes a mounted
// tree into a deterministic signature and compares signatures across
// filesystem instances.
package main

import (
	"os"

	"github.com/fstestkit/absfs/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Stdout, os.Stderr, os.Args))
}
