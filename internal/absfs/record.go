package absfs

// FileRecord is one entry encountered during a walk.
//
// FullPath is only ever used for I/O. AbstractPath is the path relative
// to the basepath, with the basepath itself rendered as "/", and is what
// enters the hash. That keeps signatures independent of where the tree
// is mounted.
type FileRecord struct {
	FullPath     string
	AbstractPath string

	// SymlinkTarget is the link target re-expressed relative to the
	// basepath; empty for everything but symlinks.
	SymlinkTarget string

	// Attrs holds the raw stat-derived fields. Normalization happens at
	// hash time so the true size stays available to the content hasher
	// and validity checker.
	Attrs Attrs

	// Extra is diagnostic-only and excluded from the hash.
	Extra ExtraAttrs
}
