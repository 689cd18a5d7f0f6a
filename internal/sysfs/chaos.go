package sysfs

import (
	"io/fs"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

// Chaos wraps an [FS] and injects scripted failures for testing.
//
// Faults are keyed by (operation, path) and scripted explicitly rather than
// drawn from a random distribution, so tests exercising the retry layer are
// fully deterministic: a fault armed with Inject fires for exactly the next
// n calls, a fault armed with InjectSticky fires forever.
//
// All injected errors are real OS errors (a [syscall.Errno] wrapped in
// [*fs.PathError]) so they behave identically to genuine filesystem errors;
// errors.As and the retry layer's transient classification work unchanged.
type Chaos struct {
	fs FS

	mu     sync.Mutex
	faults map[faultKey]*fault

	// Counter for testing verification.
	injected int
}

type faultKey struct {
	op   Op
	path string
}

type fault struct {
	errno  syscall.Errno
	times  int // remaining fires; ignored when sticky
	sticky bool
}

// NewChaos creates a new Chaos filesystem wrapping the given [FS].
func NewChaos(fs FS) *Chaos {
	return &Chaos{fs: fs, faults: make(map[faultKey]*fault)}
}

// Inject arms a fault: the next n calls of op on path fail with errno.
// n below 1 disarms any existing fault.
func (c *Chaos) Inject(op Op, path string, errno syscall.Errno, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n < 1 {
		delete(c.faults, faultKey{op, path})
		return
	}

	c.faults[faultKey{op, path}] = &fault{errno: errno, times: n}
}

// InjectSticky arms a permanent fault: every call of op on path fails
// with errno.
func (c *Chaos) InjectSticky(op Op, path string, errno syscall.Errno) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.faults[faultKey{op, path}] = &fault{errno: errno, sticky: true}
}

// Injected returns how many faults have fired so far.
func (c *Chaos) Injected() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.injected
}

// fire consumes one armed fault for (op, path), if any.
func (c *Chaos) fire(op Op, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := faultKey{op, path}

	f, ok := c.faults[key]
	if !ok {
		return nil
	}

	if !f.sticky {
		f.times--
		if f.times <= 0 {
			delete(c.faults, key)
		}
	}

	c.injected++

	return &fs.PathError{Op: string(op), Path: path, Err: f.errno}
}

func (c *Chaos) Lstat(path string) (unix.Stat_t, error) {
	if err := c.fire(OpLstat, path); err != nil {
		return unix.Stat_t{}, err
	}

	return c.fs.Lstat(path)
}

func (c *Chaos) Open(path string) (File, error) {
	if err := c.fire(OpOpen, path); err != nil {
		return nil, err
	}

	f, err := c.fs.Open(path)
	if err != nil {
		return nil, err
	}

	return &chaosFile{File: f, c: c, path: path}, nil
}

func (c *Chaos) ReadDirNames(path string) ([]string, error) {
	if err := c.fire(OpReadDir, path); err != nil {
		return nil, err
	}

	return c.fs.ReadDirNames(path)
}

func (c *Chaos) Readlink(path string) (string, error) {
	if err := c.fire(OpReadlink, path); err != nil {
		return "", err
	}

	return c.fs.Readlink(path)
}

// chaosFile applies read faults scripted against the file's path.
type chaosFile struct {
	File

	c    *Chaos
	path string
}

func (f *chaosFile) Read(p []byte) (int, error) {
	if err := f.c.fire(OpRead, f.path); err != nil {
		return 0, err
	}

	return f.File.Read(p)
}

var _ FS = (*Chaos)(nil)
