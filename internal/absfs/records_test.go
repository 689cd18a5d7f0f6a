package absfs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/fstestkit/absfs/internal/sysfs"
	"github.com/fstestkit/absfs/internal/testutil"
)

// collect walks dir and returns its sorted records.
func collect(t *testing.T, dir string) []FileRecord {
	t.Helper()

	opts := Options{}
	if err := (&opts).applyDefaults(); err != nil {
		t.Fatalf("defaults: %v", err)
	}

	w := &walker{fs: sysfs.NewReal(), basepath: dir, opts: &opts}
	if err := w.walk(dir, "/", 0); err != nil {
		t.Fatalf("walk(%s): %v", dir, err)
	}

	sortRecords(w.records)

	return w.records
}

// Two trees with identical content under different basepaths must
// produce identical records except for the concrete paths and
// filesystem-dependent diagnostics.
func TestWalkRecordsEquivalentAcrossBasepaths(t *testing.T) {
	t.Parallel()

	entries := testutil.GenerateTree(7, 4, 2)

	dirA := t.TempDir()
	dirB := t.TempDir()
	testutil.BuildTree(t, dirA, entries)
	testutil.BuildTreeReversed(t, dirB, entries)

	recsA := collect(t, dirA)
	recsB := collect(t, dirB)

	ignore := cmpopts.IgnoreFields(FileRecord{}, "FullPath", "Extra")

	if diff := cmp.Diff(recsA, recsB, ignore); diff != "" {
		t.Errorf("record mismatch (-dirA +dirB):\n%s", diff)
	}
}

func TestWalkRecordsCaptureSymlinkTargets(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.BuildTree(t, dir, map[string]testutil.Entry{
		"real.txt": {Content: "x"},
		"alias":    {Target: "real.txt"},
	})

	recs := collect(t, dir)

	byPath := make(map[string]FileRecord, len(recs))
	for _, rec := range recs {
		byPath[rec.AbstractPath] = rec
	}

	if got, want := byPath["/alias"].SymlinkTarget, "real.txt"; got != want {
		t.Errorf("symlink target=%q, want=%q", got, want)
	}

	if got, want := byPath["/real.txt"].SymlinkTarget, ""; got != want {
		t.Errorf("regular file target=%q, want empty", got)
	}
}
