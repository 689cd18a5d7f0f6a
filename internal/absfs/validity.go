package absfs

import (
	"fmt"
	"io"
)

// Sanity ceilings for the validity pass. Generous on purpose: anything
// over them signals a bug in test generation or in the filesystem under
// test, not a plausible fixture.
const (
	// MaxPlausibleSize caps regular-file sizes (1 GiB).
	MaxPlausibleSize = 1 << 30

	// MaxPlausibleNlink caps link counts.
	MaxPlausibleNlink = 4096

	// allocSlack tolerates preallocation and tail-packing differences
	// between reported size and allocated storage, on top of one block.
	allocSlack = 1 << 20
)

// FindingKind classifies a validity finding.
type FindingKind string

const (
	// FindingUnexpectedType flags an entry that is neither a regular
	// file nor a directory; the experiments this oracle serves generate
	// no other types at rest.
	FindingUnexpectedType FindingKind = "unexpected-type"

	// FindingSizeCeiling flags a file size over [MaxPlausibleSize].
	FindingSizeCeiling FindingKind = "size-over-ceiling"

	// FindingNlinkCeiling flags a link count over [MaxPlausibleNlink].
	FindingNlinkCeiling FindingKind = "nlink-over-ceiling"

	// FindingAllocMismatch flags a reported size diverging from
	// allocated storage beyond tolerance.
	FindingAllocMismatch FindingKind = "alloc-mismatch"
)

// Finding is one advisory validity result. Findings never abort a walk
// and never influence the signature; they point the orchestrator at
// entries worth investigating.
type Finding struct {
	Path   string
	Kind   FindingKind
	Detail string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s (%s)", f.Path, f.Kind, f.Detail)
}

// checkValidity runs the post-hoc sanity pass over the collected records,
// reporting each finding to diag.
func checkValidity(records []FileRecord, diag io.Writer) []Finding {
	var findings []Finding

	report := func(rec *FileRecord, kind FindingKind, format string, args ...any) {
		f := Finding{Path: rec.AbstractPath, Kind: kind, Detail: fmt.Sprintf(format, args...)}
		findings = append(findings, f)
		fmt.Fprintf(diag, "validity: %s\n", f)
	}

	for i := range records {
		rec := &records[i]

		if !rec.Attrs.IsRegular() && !rec.Attrs.IsDir() {
			report(rec, FindingUnexpectedType, "mode=%s", formatMode(rec.Attrs.Mode))
		}

		if rec.Attrs.Size > MaxPlausibleSize {
			report(rec, FindingSizeCeiling, "size=%d", rec.Attrs.Size)
		}

		if rec.Attrs.Nlink > MaxPlausibleNlink {
			report(rec, FindingNlinkCeiling, "nlink=%d", rec.Attrs.Nlink)
		}

		// Only regular files have a meaningful size/allocation relation.
		if rec.Attrs.IsRegular() && allocMismatch(rec.Attrs, rec.Extra) {
			report(rec, FindingAllocMismatch, "size=%d allocated=%d",
				rec.Attrs.Size, rec.Extra.Blocks*512)
		}
	}

	return findings
}

// allocMismatch reports whether size and allocated storage diverge
// beyond one block plus slack in either direction. Sparse files and
// preallocation both show up here; in these experiments neither is
// generated, so large divergence is suspicious.
func allocMismatch(attrs Attrs, extra ExtraAttrs) bool {
	allocated := uint64(extra.Blocks) * 512

	tolerance := uint64(extra.BlkSize) + allocSlack
	if extra.BlkSize <= 0 {
		tolerance = contentChunkSize + allocSlack
	}

	var diff uint64
	if attrs.Size > allocated {
		diff = attrs.Size - allocated
	} else {
		diff = allocated - attrs.Size
	}

	return diff > tolerance
}
