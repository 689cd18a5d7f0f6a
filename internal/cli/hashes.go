package cli

import (
	flag "github.com/spf13/pflag"

	"github.com/fstestkit/absfs/internal/absfs"
)

func hashesCommand() *Command {
	return &Command{
		Flags: flag.NewFlagSet("hashes", flag.ContinueOnError),
		Usage: "hashes",
		Short: "List supported hash algorithms",
		Exec: func(o *IO, args []string) error {
			descriptions := map[absfs.Algorithm]string{
				absfs.AlgoWide:     "128-bit, fast, non-cryptographic (default)",
				absfs.AlgoFast:     "64-bit, fastest, lower collision resistance",
				absfs.AlgoCrypto:   "128-bit cryptographic primitive, slowest",
				absfs.AlgoChecksum: "32-bit checksum, reference/compatibility mode",
			}

			for _, algo := range absfs.Algorithms() {
				o.Printf("  %-8s %3d-bit  %s\n", algo, algo.Size()*8, descriptions[algo])
			}

			return nil
		},
	}
}
