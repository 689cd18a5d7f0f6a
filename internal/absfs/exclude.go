package absfs

import (
	"path"
	"strings"
)

// Reserved and transient names excluded from every walk: filesystem
// recovery areas, the harness's own marker files, and FUSE's
// hidden-rename artifacts.
const (
	excludeLostFound  = "/lost+found"
	excludeNilfsDir   = "/.nilfs"
	excludeMarkerFile = "/.mcfs_dummy"

	transientNamePrefix = ".fuse_hidden"
)

// ExclusionSet decides which abstract paths never influence a signature.
// Matching is always by abstract path, never by concrete path, so the
// same set behaves identically across mount locations.
//
// Two rules, in order: an exact match skips the entry (for a directory,
// the whole subtree is never visited); a base-name prefix match catches
// transient files that may pop in and out of existence between walks.
type ExclusionSet struct {
	exact    map[string]struct{}
	prefixes []string
}

// NewExclusionSet returns a set holding the given exact abstract paths
// plus the transient-name prefix rule.
func NewExclusionSet(paths ...string) *ExclusionSet {
	s := &ExclusionSet{
		exact:    make(map[string]struct{}, len(paths)),
		prefixes: []string{transientNamePrefix},
	}

	for _, p := range paths {
		s.Add(p)
	}

	return s
}

// DefaultExclusions returns the reserved paths excluded for every
// filesystem under test.
func DefaultExclusions() *ExclusionSet {
	return NewExclusionSet(excludeLostFound, excludeNilfsDir, excludeMarkerFile)
}

// Add registers an exact abstract path. Paths are cleaned and rooted so
// "lost+found" and "/lost+found" mean the same entry.
func (s *ExclusionSet) Add(p string) {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	s.exact[path.Clean(p)] = struct{}{}
}

// Excluded reports whether the abstract path must be skipped.
func (s *ExclusionSet) Excluded(abstract string) bool {
	if _, ok := s.exact[abstract]; ok {
		return true
	}

	base := path.Base(abstract)
	for _, prefix := range s.prefixes {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}

	return false
}
