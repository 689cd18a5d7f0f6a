package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"
	"golang.org/x/sys/unix"

	"github.com/fstestkit/absfs/internal/absfs"
)

var errPathRequired = errors.New("exactly one basepath is required")

func scanCommand() *Command {
	flags := flag.NewFlagSet("scan", flag.ContinueOnError)
	walk := addWalkFlags(flags)

	var output string

	flags.StringVarP(&output, "output", "o", "", "also write '<signature>  <path>' to this file (atomic)")

	return &Command{
		Flags: flags,
		Usage: "scan <path> [flags]",
		Short: "Walk one basepath and print its state signature",
		Long: `Walk the filesystem tree rooted at <path> and print the abstract state
signature: a deterministic digest of every entry's abstract path, link
target, normalized attributes, and regular-file content.

The basepath must be quiesced: the oracle assumes nothing mutates the
tree while the walk runs.`,
		Exec: func(o *IO, args []string) error {
			if len(args) != 1 {
				return errPathRequired
			}

			opts, err := walk.options(o)
			if err != nil {
				return err
			}

			sig, findings, err := absfs.Scan(walk.fs(o), args[0], opts)
			if err != nil {
				return walkError(err)
			}

			o.Printf("%s  %s\n", sig, args[0])

			if len(findings) > 0 {
				o.ErrPrintf("%d validity finding(s); see diagnostics above\n", len(findings))
			}

			if output != "" {
				report := fmt.Sprintf("%s  %s\n", sig, args[0])
				if err := atomic.WriteFile(output, strings.NewReader(report)); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
			}

			return nil
		},
	}
}

// walkError decorates a fatal walk error with the errno name and the
// negated status code the orchestrator protocol uses.
func walkError(err error) error {
	errno := absfs.Errno(err)
	if errno == 0 {
		return err
	}

	name := unix.ErrnoName(errno)
	if name == "" {
		name = fmt.Sprintf("errno %d", int(errno))
	}

	return fmt.Errorf("%w [%s, status %d]", err, name, -int(errno))
}
