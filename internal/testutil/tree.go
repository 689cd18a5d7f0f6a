// Package testutil builds filesystem fixture trees for oracle tests.
//
// Trees are described declaratively as a map from slash-separated
// relative paths to [Entry] values, and can be materialized in any
// creation order so tests can prove that signatures do not depend on the
// order entries hit the filesystem.
package testutil

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// Entry describes one node of a fixture tree.
type Entry struct {
	// Dir marks a directory. Content and Target must be empty.
	Dir bool

	// Content is the file body for regular files.
	Content string

	// Target makes the entry a symlink pointing at Target.
	Target string

	// Mode overrides the default permissions (0755 for directories,
	// 0644 for files). Ignored for symlinks.
	Mode os.FileMode
}

// BuildTree materializes entries under root in sorted path order.
func BuildTree(t *testing.T, root string, entries map[string]Entry) {
	t.Helper()

	paths := make([]string, 0, len(entries))
	for p := range entries {
		paths = append(paths, p)
	}

	slices.Sort(paths)

	BuildTreeOrdered(t, root, paths, entries)
}

// BuildTreeReversed materializes entries under root in reverse sorted
// order, creating missing parents on demand. Structurally identical to
// [BuildTree], but the filesystem sees the entries in a different
// sequence.
func BuildTreeReversed(t *testing.T, root string, entries map[string]Entry) {
	t.Helper()

	paths := make([]string, 0, len(entries))
	for p := range entries {
		paths = append(paths, p)
	}

	slices.Sort(paths)
	slices.Reverse(paths)

	BuildTreeOrdered(t, root, paths, entries)
}

// BuildTreeOrdered materializes entries under root in the given order.
// Parents missing at creation time are created implicitly with 0755;
// explicit directory entries later re-assert their mode.
func BuildTreeOrdered(t *testing.T, root string, paths []string, entries map[string]Entry) {
	t.Helper()

	for _, p := range paths {
		e, ok := entries[p]
		if !ok {
			t.Fatalf("BuildTreeOrdered: no entry for path %q", p)
		}

		full := filepath.Join(root, filepath.FromSlash(p))

		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir parents of %s: %v", p, err)
		}

		switch {
		case e.Dir:
			mode := e.Mode
			if mode == 0 {
				mode = 0o755
			}

			if err := os.MkdirAll(full, mode); err != nil {
				t.Fatalf("mkdir %s: %v", p, err)
			}

			if err := os.Chmod(full, mode); err != nil {
				t.Fatalf("chmod %s: %v", p, err)
			}

		case e.Target != "":
			if err := os.Symlink(e.Target, full); err != nil {
				t.Fatalf("symlink %s -> %s: %v", p, e.Target, err)
			}

		default:
			mode := e.Mode
			if mode == 0 {
				mode = 0o644
			}

			if err := os.WriteFile(full, []byte(e.Content), mode); err != nil {
				t.Fatalf("write %s: %v", p, err)
			}

			if err := os.Chmod(full, mode); err != nil {
				t.Fatalf("chmod %s: %v", p, err)
			}
		}
	}
}

// GenerateTree returns a pseudo-random tree description derived entirely
// from seed: the same seed always yields the same entries. Useful for
// determinism and cross-basepath tests that want non-trivial shapes
// without hand-written fixtures.
func GenerateTree(seed int64, dirs, filesPerDir int) map[string]Entry {
	rng := rand.New(rand.NewSource(seed))
	entries := make(map[string]Entry)

	dirPaths := []string{""}

	for i := 0; i < dirs; i++ {
		parent := dirPaths[rng.Intn(len(dirPaths))]
		name := fmt.Sprintf("d%02d", i)

		p := name
		if parent != "" {
			p = parent + "/" + name
		}

		entries[p] = Entry{Dir: true}
		dirPaths = append(dirPaths, p)
	}

	for _, dir := range dirPaths {
		for j := 0; j < filesPerDir; j++ {
			name := fmt.Sprintf("f%02d.dat", j)

			p := name
			if dir != "" {
				p = dir + "/" + name
			}

			size := rng.Intn(512)
			entries[p] = Entry{Content: randomContent(rng, size)}
		}
	}

	return entries
}

func randomContent(rng *rand.Rand, size int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789\n"

	var b strings.Builder
	for i := 0; i < size; i++ {
		b.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}

	return b.String()
}
