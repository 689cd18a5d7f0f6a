package cli

import (
	"github.com/fstestkit/absfs/internal/absfs"
	"github.com/fstestkit/absfs/internal/sysfs"

	flag "github.com/spf13/pflag"
)

// walkFlags holds the flags shared by every command that performs walks.
// Precedence, highest first: explicit flag, config file, built-in default.
type walkFlags struct {
	flags *flag.FlagSet

	configPath string
	hash       string
	fstype     string
	maxDepth   int
	exclude    []string
	verbose    bool
	retryLimit int
}

// addWalkFlags registers the shared walk flags on fs.
func addWalkFlags(fs *flag.FlagSet) *walkFlags {
	w := &walkFlags{flags: fs}

	fs.StringVarP(&w.configPath, "config", "c", "", "config file (default "+absfs.ConfigFileName+" if present)")
	fs.StringVar(&w.hash, "hash", string(absfs.DefaultAlgorithm), "hash algorithm (see 'absfs hashes')")
	fs.StringVar(&w.fstype, "fstype", "", "filesystem type under test (enables type-specific corrections)")
	fs.IntVar(&w.maxDepth, "max-depth", absfs.DefaultMaxDepth, "abort if the tree is deeper than this")
	fs.StringArrayVar(&w.exclude, "exclude", nil, "extra abstract path to exclude (repeatable)")
	fs.BoolVarP(&w.verbose, "verbose", "v", false, "dump one line per recorded entry to stderr")
	fs.IntVar(&w.retryLimit, "retry-limit", sysfs.DefaultRetryLimit, "attempts per syscall before a transient error is fatal")

	return w
}

// options resolves config file and flag overrides into walk options.
func (w *walkFlags) options(o *IO) (absfs.Options, error) {
	path := w.configPath
	explicit := path != ""

	if path == "" {
		path = absfs.ConfigFileName
	}

	cfg, err := absfs.LoadConfig(path, explicit)
	if err != nil {
		return absfs.Options{}, err
	}

	if w.flags.Changed("hash") {
		cfg.Hash = w.hash
	}

	if w.flags.Changed("fstype") {
		cfg.FsType = w.fstype
	}

	if w.flags.Changed("max-depth") {
		cfg.MaxDepth = w.maxDepth
	}

	cfg.Exclude = append(cfg.Exclude, w.exclude...)

	opts := cfg.Options()
	opts.Verbose = w.verbose
	opts.Diag = o.Diag()

	return opts, nil
}

// fs builds the primitive layer every walk runs on: the real filesystem
// behind the transient-error retry wrapper.
func (w *walkFlags) fs(o *IO) sysfs.FS {
	return sysfs.NewRetry(sysfs.NewReal(), w.retryLimit, o.Diag())
}
