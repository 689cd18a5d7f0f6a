package cli

import (
	"errors"

	flag "github.com/spf13/pflag"

	"github.com/fstestkit/absfs/internal/absfs"
)

var (
	errTwoPathsRequired = errors.New("at least two basepaths are required")

	// ErrStatesDiverge reports that the walked instances are not
	// equivalent at the abstract level.
	ErrStatesDiverge = errors.New("abstract states diverge")
)

func compareCommand() *Command {
	flags := flag.NewFlagSet("compare", flag.ContinueOnError)
	walk := addWalkFlags(flags)

	return &Command{
		Flags: flags,
		Usage: "compare <path> <path>... [flags]",
		Short: "Walk several basepaths and check their signatures match",
		Long: `Walk each basepath with identical options and compare the resulting
signatures bit-wise. All instances must have replayed the same operation
sequence; a divergence means the filesystems disagree about the
resulting state.

Exits non-zero if any signature differs from the first.`,
		Exec: func(o *IO, args []string) error {
			if len(args) < 2 {
				return errTwoPathsRequired
			}

			opts, err := walk.options(o)
			if err != nil {
				return err
			}

			fsys := walk.fs(o)

			sigs := make([]*absfs.Signature, len(args))
			for i, basepath := range args {
				sig, _, err := absfs.Scan(fsys, basepath, opts)
				if err != nil {
					return walkError(err)
				}

				sigs[i] = sig
				o.Printf("%s  %s\n", sig, basepath)
			}

			diverged := false
			for i := 1; i < len(sigs); i++ {
				if !sigs[i].Equal(sigs[0]) {
					diverged = true
					o.ErrPrintf("divergence: '%s' and '%s' disagree\n", args[0], args[i])
				}
			}

			if diverged {
				return ErrStatesDiverge
			}

			o.Println("states match")

			return nil
		},
	}
}
