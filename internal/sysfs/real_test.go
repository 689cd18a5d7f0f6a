package sysfs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"golang.org/x/sys/unix"
)

func TestReal_LstatReturnsRawFields(t *testing.T) {
	t.Parallel()

	fsys := NewReal()
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	writeFile(t, path, "12345")

	st, err := fsys.Lstat(path)
	if err != nil {
		t.Fatalf("Lstat: %v", err)
	}

	if got, want := int64(st.Size), int64(5); got != want {
		t.Fatalf("size=%d, want=%d", got, want)
	}

	if got, want := uint32(st.Mode)&unix.S_IFMT, uint32(unix.S_IFREG); got != want {
		t.Fatalf("mode type=%o, want=%o", got, want)
	}

	if got, want := uint32(st.Uid), uint32(os.Getuid()); got != want {
		t.Fatalf("uid=%d, want=%d", got, want)
	}
}

func TestReal_LstatDoesNotFollowSymlinks(t *testing.T) {
	t.Parallel()

	fsys := NewReal()
	dir := t.TempDir()
	target := filepath.Join(dir, "target.txt")
	link := filepath.Join(dir, "link")
	writeFile(t, target, "payload")

	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("setup: %v", err)
	}

	st, err := fsys.Lstat(link)
	if err != nil {
		t.Fatalf("Lstat: %v", err)
	}

	if got, want := uint32(st.Mode)&unix.S_IFMT, uint32(unix.S_IFLNK); got != want {
		t.Fatalf("mode type=%o, want symlink (%o)", got, want)
	}
}

func TestReal_LstatMissingPath(t *testing.T) {
	t.Parallel()

	fsys := NewReal()

	_, err := fsys.Lstat(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, unix.ENOENT) {
		t.Fatalf("err=%v, want ENOENT", err)
	}
}

func TestReal_ReadDirNamesListsAllEntries(t *testing.T) {
	t.Parallel()

	fsys := NewReal()
	dir := t.TempDir()

	for _, name := range []string{"b.txt", "a.txt", "c.txt"} {
		writeFile(t, filepath.Join(dir, name), "x")
	}

	names, err := fsys.ReadDirNames(dir)
	if err != nil {
		t.Fatalf("ReadDirNames: %v", err)
	}

	slices.Sort(names)

	want := []string{"a.txt", "b.txt", "c.txt"}
	if !slices.Equal(names, want) {
		t.Fatalf("names=%v, want=%v", names, want)
	}
}

func TestReal_OpenAndRead(t *testing.T) {
	t.Parallel()

	fsys := NewReal()
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	writeFile(t, path, "stream me")

	f, err := fsys.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if got, want := string(data), "stream me"; got != want {
		t.Fatalf("data=%q, want=%q", got, want)
	}
}

func TestReal_Readlink(t *testing.T) {
	t.Parallel()

	fsys := NewReal()
	dir := t.TempDir()
	link := filepath.Join(dir, "link")

	if err := os.Symlink("sub/target", link); err != nil {
		t.Fatalf("setup: %v", err)
	}

	target, err := fsys.Readlink(link)
	if err != nil {
		t.Fatalf("Readlink: %v", err)
	}

	if got, want := target, "sub/target"; got != want {
		t.Fatalf("target=%q, want=%q", got, want)
	}
}
