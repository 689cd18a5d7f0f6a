package absfs

import (
	"errors"
	"fmt"
	"io"

	"github.com/fstestkit/absfs/internal/sysfs"
)

// contentChunkSize is the read granularity for content hashing.
const contentChunkSize = 4096

// hashContent streams a regular file through the active engine in fixed
// chunks. The descriptor is closed on every path. Open and read failures
// carry the underlying error; an engine failure is wrapped in
// [ErrHashEngine] (via the engine) with the offending path, because a
// half-updated context would produce a silently wrong signature.
func hashContent(fsys sysfs.FS, fullpath string, eng engine) error {
	f, err := fsys.Open(fullpath)
	if err != nil {
		return fmt.Errorf("hash: cannot open '%s': %w", fullpath, err)
	}
	defer f.Close()

	buf := make([]byte, contentChunkSize)

	for {
		n, err := f.Read(buf)
		if n > 0 {
			if uerr := eng.update(buf[:n]); uerr != nil {
				return fmt.Errorf("hash: engine failed on '%s': %w", fullpath, uerr)
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("hash: read error on '%s': %w", fullpath, err)
		}
	}
}
