// Package sysfs provides the filesystem primitives the state oracle walks on.
//
// The main types are:
//   - [FS]: interface over the five primitives a walk needs
//     (lstat, open, read, directory listing, readlink)
//   - [Real]: production implementation on [os] and [golang.org/x/sys/unix]
//   - [Retry]: wrapper that retries transient errnos (EINTR, EAGAIN)
//   - [Chaos]: testing wrapper that injects scripted faults
//
// Only read-side operations are exposed: the oracle never mutates the tree
// it is summarizing. All paths are concrete (on-disk) paths; abstract-path
// handling lives in the absfs package.
package sysfs

import (
	"io"

	"golang.org/x/sys/unix"
)

// File is an open file being read by the content hasher.
// Satisfied by [os.File].
type File interface {
	io.ReadCloser

	// Fd returns the file descriptor. See [os.File.Fd].
	Fd() uintptr
}

// FS defines the read-side filesystem operations used by a walk.
//
// Implementations:
//   - [Real]: production use
//   - [Retry]: transient-error retry around any FS
//   - [Chaos]: scripted fault injection for tests
type FS interface {
	// Lstat stats a path without following symlinks.
	// The full raw stat is exposed because the oracle needs fields
	// (nlink, uid, gid, blocks, blksize) that os.FileInfo hides.
	Lstat(path string) (unix.Stat_t, error)

	// Open opens a file for reading. See [os.Open].
	Open(path string) (File, error)

	// ReadDirNames returns the names of the entries in a directory,
	// excluding "." and "..", in whatever order the filesystem reports
	// them. Callers that need a stable order must sort.
	ReadDirNames(path string) ([]string, error)

	// Readlink returns the target of a symbolic link. See [os.Readlink].
	Readlink(path string) (string, error)
}

// Op names one of the FS primitives, used in diagnostics and fault scripts.
type Op string

const (
	OpLstat    Op = "lstat"
	OpOpen     Op = "open"
	OpRead     Op = "read"
	OpReadDir  Op = "readdir"
	OpReadlink Op = "readlink"
)
