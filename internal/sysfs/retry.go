package sysfs

import (
	"errors"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/sys/unix"
)

// DefaultRetryLimit is the total number of attempts a primitive gets
// before a transient error is surfaced to the caller.
const DefaultRetryLimit = 5

// Retry wraps an [FS] and retries operations that fail with a transient
// errno, up to a bounded number of attempts. Retries are immediate
// busy-retries: no sleeping, no backoff. Each retry emits one diagnostic
// line (with the attempt ordinal) to the configured sink.
//
// Non-transient errors pass through on the first attempt. Files returned
// by Open retry their reads the same way.
type Retry struct {
	fs    FS
	limit int
	diag  io.Writer
}

// NewRetry returns a [Retry] around fs. limit is the total attempt count
// per operation; values below 1 fall back to [DefaultRetryLimit]. diag
// receives one line per retry; nil discards diagnostics.
func NewRetry(fs FS, limit int, diag io.Writer) *Retry {
	if limit < 1 {
		limit = DefaultRetryLimit
	}

	if diag == nil {
		diag = io.Discard
	}

	return &Retry{fs: fs, limit: limit, diag: diag}
}

// IsTransient reports whether err is worth retrying with unchanged
// arguments: an interrupted call or a would-block condition.
func IsTransient(err error) bool {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}

	return errno == unix.EINTR || errno == unix.EAGAIN || errno == unix.EWOULDBLOCK
}

// retry runs fn up to r.limit times, retrying only transient errors.
func retry[T any](r *Retry, op Op, path string, fn func() (T, error)) (T, error) {
	var (
		v   T
		err error
	)

	for attempt := 1; ; attempt++ {
		v, err = fn()
		if err == nil || !IsTransient(err) || attempt >= r.limit {
			return v, err
		}

		fmt.Fprintf(r.diag, "retrying %s '%s' after transient error: %v (attempt %d of %d)\n",
			op, path, err, attempt, r.limit)
	}
}

func (r *Retry) Lstat(path string) (unix.Stat_t, error) {
	return retry(r, OpLstat, path, func() (unix.Stat_t, error) {
		return r.fs.Lstat(path)
	})
}

func (r *Retry) Open(path string) (File, error) {
	f, err := retry(r, OpOpen, path, func() (File, error) {
		return r.fs.Open(path)
	})
	if err != nil {
		return nil, err
	}

	return &retryFile{File: f, r: r, path: path}, nil
}

func (r *Retry) ReadDirNames(path string) ([]string, error) {
	return retry(r, OpReadDir, path, func() ([]string, error) {
		return r.fs.ReadDirNames(path)
	})
}

func (r *Retry) Readlink(path string) (string, error) {
	return retry(r, OpReadlink, path, func() (string, error) {
		return r.fs.Readlink(path)
	})
}

// retryFile retries transient read errors with the same buffer.
type retryFile struct {
	File

	r    *Retry
	path string
}

func (f *retryFile) Read(p []byte) (int, error) {
	return retry(f.r, OpRead, f.path, func() (int, error) {
		return f.File.Read(p)
	})
}

var _ FS = (*Retry)(nil)
