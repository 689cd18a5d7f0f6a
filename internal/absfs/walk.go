package absfs

import (
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/fstestkit/absfs/internal/sysfs"
)

// DefaultMaxDepth bounds traversal depth. Test-generated trees are far
// shallower; hitting the bound means the walk was pointed at the wrong
// tree.
const DefaultMaxDepth = 64

// Options configures one walk. The zero value is usable: wide hash,
// generic filesystem type, default depth bound and exclusions, quiet.
type Options struct {
	// Algorithm selects the hash engine, fixed for the walk's lifetime.
	Algorithm Algorithm

	// FsType declares the filesystem implementation under test, enabling
	// type-specific attribute corrections.
	FsType FsType

	// MaxDepth bounds traversal depth; 0 means [DefaultMaxDepth].
	MaxDepth int

	// Exclusions overrides [DefaultExclusions] when non-nil.
	Exclusions *ExclusionSet

	// Verbose dumps one line per record to Diag.
	Verbose bool

	// Diag receives diagnostic text. The oracle never owns process-wide
	// logging; nil discards.
	Diag io.Writer
}

func (o *Options) applyDefaults() error {
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}

	if !o.Algorithm.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, o.Algorithm)
	}

	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}

	if o.MaxDepth < 0 {
		return fmt.Errorf("%w: %d", ErrMaxDepthInvalid, o.MaxDepth)
	}

	if o.Exclusions == nil {
		o.Exclusions = DefaultExclusions()
	}

	if o.Diag == nil {
		o.Diag = io.Discard
	}

	return nil
}

// Scan walks the tree rooted at basepath and folds every entry into one
// signature. On success it returns the signature plus any advisory
// validity findings. On failure it returns a nil signature and the error
// from the first fatal fault; a failed walk never yields a partial
// signature.
//
// The caller must guarantee basepath is quiesced for the duration:
// Scan performs no locking of its own. Concurrent Scans of different
// basepaths are safe; each call owns its accumulator and record list.
func Scan(fsys sysfs.FS, basepath string, opts Options) (*Signature, []Finding, error) {
	if basepath == "" {
		return nil, nil, ErrBasepathEmpty
	}

	if err := opts.applyDefaults(); err != nil {
		return nil, nil, err
	}

	w := &walker{fs: fsys, basepath: filepath.Clean(basepath), opts: &opts}

	if err := w.walk(w.basepath, "/", 0); err != nil {
		return nil, nil, err
	}

	// Children are listed in filesystem order; sorting by abstract path
	// is what makes the signature independent of native directory order.
	sortRecords(w.records)

	sig, err := accumulate(w.fs, w.records, &opts)
	if err != nil {
		return nil, nil, err
	}

	findings := checkValidity(w.records, opts.Diag)

	return sig, findings, nil
}

// sortRecords imposes the total order the signature is defined over:
// lexicographic on the abstract path.
func sortRecords(records []FileRecord) {
	slices.SortFunc(records, func(a, b FileRecord) int {
		return strings.Compare(a.AbstractPath, b.AbstractPath)
	})
}

// walker holds the state of one traversal. All of it is owned by a
// single Scan invocation.
type walker struct {
	fs       sysfs.FS
	basepath string
	opts     *Options
	records  []FileRecord
}

// walk records the entry at full/abstract and recurses into directories.
// Physical traversal: symlinks are recorded but never followed.
func (w *walker) walk(full, abstract string, depth int) error {
	if depth > w.opts.MaxDepth {
		return fmt.Errorf("%w: '%s' at depth %d", ErrDepthExceeded, abstract, depth)
	}

	st, err := w.fs.Lstat(full)
	if err != nil {
		return fmt.Errorf("walk: cannot stat '%s': %w", full, err)
	}

	rec := FileRecord{FullPath: full, AbstractPath: abstract}
	rec.Attrs, rec.Extra = attrsFromStat(st)

	if rec.Attrs.IsSymlink() {
		target, err := w.fs.Readlink(full)
		if err != nil {
			return fmt.Errorf("walk: cannot read link target of '%s': %w", full, err)
		}

		rec.SymlinkTarget = relativizeTarget(w.basepath, target)
	}

	w.records = append(w.records, rec)

	if !rec.Attrs.IsDir() {
		return nil
	}

	names, err := w.fs.ReadDirNames(full)
	if err != nil {
		return fmt.Errorf("walk: unable to list '%s': %w", full, err)
	}

	slices.Sort(names)

	for _, name := range names {
		// The raw layer should not report these, but a defect there must
		// not turn into an infinite loop here.
		if name == "." || name == ".." {
			continue
		}

		childAbstract := path.Join(abstract, name)
		if w.opts.Exclusions.Excluded(childAbstract) {
			continue
		}

		if err := w.walk(filepath.Join(full, name), childAbstract, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// relativizeTarget re-expresses an absolute symlink target as an
// abstract path when it points inside the basepath. Relative targets and
// absolute targets escaping the basepath are hashed as-is: relative ones
// are already mount-independent, escaping ones have no abstract form.
func relativizeTarget(basepath, target string) string {
	if !filepath.IsAbs(target) {
		return target
	}

	rel, err := filepath.Rel(basepath, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return target
	}

	if rel == "." {
		return "/"
	}

	return "/" + filepath.ToSlash(rel)
}

// accumulate folds the ordered records into one hash context and
// finalizes it. Per record: abstract-path bytes, symlink-target bytes
// (possibly empty), the fixed-layout normalized attribute block, and for
// regular files the file content.
func accumulate(fsys sysfs.FS, records []FileRecord, opts *Options) (*Signature, error) {
	eng, err := newEngine(opts.Algorithm)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, attrsBlockSize)

	for i := range records {
		rec := &records[i]
		attrs := normalize(rec.Attrs, rec.AbstractPath == "/", opts.FsType)

		if opts.Verbose {
			dumpRecord(opts.Diag, rec, attrs)
		}

		if err := eng.update([]byte(rec.AbstractPath)); err != nil {
			return nil, fmt.Errorf("hashing path of '%s': %w", rec.AbstractPath, err)
		}

		if err := eng.update([]byte(rec.SymlinkTarget)); err != nil {
			return nil, fmt.Errorf("hashing link target of '%s': %w", rec.AbstractPath, err)
		}

		buf = attrs.appendBinary(buf[:0])
		if err := eng.update(buf); err != nil {
			return nil, fmt.Errorf("hashing attributes of '%s': %w", rec.AbstractPath, err)
		}

		if attrs.IsRegular() {
			if err := hashContent(fsys, rec.FullPath, eng); err != nil {
				return nil, err
			}
		}
	}

	digest, err := eng.sum()
	if err != nil {
		return nil, err
	}

	return newSignature(opts.Algorithm, digest), nil
}

// dumpRecord prints one verbose line in the shape
// "/a/b, mode=<file 644>, size=12, nlink=1, uid=1000, gid=1000".
func dumpRecord(diag io.Writer, rec *FileRecord, attrs Attrs) {
	ignored := ""
	if !attrs.IsRegular() {
		ignored = " (ignored)"
	}

	fmt.Fprintf(diag, "%s, mode=%s, size=%d%s, nlink=%d, uid=%d, gid=%d\n",
		rec.AbstractPath, formatMode(attrs.Mode), rec.Attrs.Size, ignored,
		attrs.Nlink, attrs.UID, attrs.GID)
}

// Errno extracts the originating OS error code from a fatal walk error,
// for callers that report negated-errno status codes. Returns 0 when the
// error carries no errno.
func Errno(err error) syscall.Errno {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}

	return 0
}
