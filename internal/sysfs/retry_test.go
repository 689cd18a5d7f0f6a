package sysfs

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/sys/unix"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
}

func TestRetry_TransientErrorIsRetried(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	writeFile(t, path, "hello")

	chaos := NewChaos(NewReal())
	chaos.Inject(OpLstat, path, unix.EINTR, 2)

	var diag strings.Builder
	r := NewRetry(chaos, 5, &diag)

	st, err := r.Lstat(path)
	if err != nil {
		t.Fatalf("Lstat after transient faults: %v", err)
	}

	if got, want := int64(st.Size), int64(len("hello")); got != want {
		t.Fatalf("size=%d, want=%d", got, want)
	}

	if got, want := chaos.Injected(), 2; got != want {
		t.Fatalf("injected=%d, want=%d", got, want)
	}

	// One diagnostic line per retry, carrying the attempt ordinal.
	if got, want := strings.Count(diag.String(), "retrying lstat"), 2; got != want {
		t.Fatalf("retry diagnostics=%d, want=%d\n%s", got, want, diag.String())
	}

	if !strings.Contains(diag.String(), "(attempt 1 of 5)") {
		t.Fatalf("diagnostic missing attempt ordinal:\n%s", diag.String())
	}
}

func TestRetry_NonTransientErrorSurfacesImmediately(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	writeFile(t, path, "x")

	chaos := NewChaos(NewReal())
	chaos.InjectSticky(OpOpen, path, unix.EACCES)

	var diag strings.Builder
	r := NewRetry(chaos, 5, &diag)

	_, err := r.Open(path)
	if !errors.Is(err, unix.EACCES) {
		t.Fatalf("err=%v, want EACCES", err)
	}

	// A non-transient error must not burn retry attempts.
	if got, want := chaos.Injected(), 1; got != want {
		t.Fatalf("injected=%d, want=%d", got, want)
	}

	if got, want := diag.String(), ""; got != want {
		t.Fatalf("unexpected diagnostics: %q", got)
	}
}

func TestRetry_BoundedAttempts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	writeFile(t, path, "x")

	chaos := NewChaos(NewReal())
	chaos.InjectSticky(OpLstat, path, unix.EINTR)

	r := NewRetry(chaos, 3, io.Discard)

	_, err := r.Lstat(path)
	if !errors.Is(err, unix.EINTR) {
		t.Fatalf("err=%v, want EINTR after exhausting retries", err)
	}

	if got, want := chaos.Injected(), 3; got != want {
		t.Fatalf("attempts=%d, want=%d", got, want)
	}
}

func TestRetry_ReadRetriesTransientErrno(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	writeFile(t, path, "content under test")

	chaos := NewChaos(NewReal())
	chaos.Inject(OpRead, path, unix.EAGAIN, 1)

	r := NewRetry(chaos, 5, io.Discard)

	f, err := r.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read after transient fault: %v", err)
	}

	if got, want := string(data), "content under test"; got != want {
		t.Fatalf("data=%q, want=%q", got, want)
	}
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"eintr", unix.EINTR, true},
		{"eagain", unix.EAGAIN, true},
		{"wrapped eintr", &fs.PathError{Op: "read", Path: "/x", Err: unix.EINTR}, true},
		{"eacces", unix.EACCES, false},
		{"enoent", &fs.PathError{Op: "open", Path: "/x", Err: unix.ENOENT}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := IsTransient(tc.err); got != tc.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
