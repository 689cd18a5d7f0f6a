package sysfs

import (
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// Real implements [FS] using the real filesystem.
//
// Lstat goes through [unix.Lstat] rather than [os.Lstat] because the oracle
// needs the raw stat fields. The other methods are passthroughs to [os] with
// identical error semantics.
type Real struct{}

// NewReal returns a new [Real] filesystem.
func NewReal() *Real {
	return &Real{}
}

// Lstat wraps [unix.Lstat], returning errors as [*fs.PathError] so callers
// can treat them like [os] package errors.
func (r *Real) Lstat(path string) (unix.Stat_t, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return unix.Stat_t{}, &fs.PathError{Op: "lstat", Path: path, Err: err}
	}

	return st, nil
}

// A passthrough wrapper for [os.Open].
func (r *Real) Open(path string) (File, error) {
	return os.Open(path)
}

// ReadDirNames lists a directory without sorting. os.File.Readdirnames
// reports entries in the filesystem's native order, which POSIX leaves
// unspecified; the walker imposes its own order.
func (r *Real) ReadDirNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.Readdirnames(-1)
}

// A passthrough wrapper for [os.Readlink].
func (r *Real) Readlink(path string) (string, error) {
	return os.Readlink(path)
}

// Compile-time interface checks.
var (
	_ FS   = (*Real)(nil)
	_ File = (*os.File)(nil)
)
