package absfs

import (
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// FsType identifies the filesystem implementation under test. It is an
// explicit structured input: the oracle never infers the type from the
// mount path, because a path that happens to contain a type name would
// silently trigger type-specific corrections.
type FsType string

const (
	FsGeneric FsType = ""
	FsExt2    FsType = "ext2"
	FsExt3    FsType = "ext3"
	FsExt4    FsType = "ext4"
	FsJFFS2   FsType = "jffs2"
	FsBtrfs   FsType = "btrfs"
	FsXFS     FsType = "xfs"
	FsF2FS    FsType = "f2fs"
	FsNilfs2  FsType = "nilfs2"
)

// hasReservedRootEntry reports whether the filesystem allocates an
// implicit subdirectory at the root (lost+found and kin), which inflates
// the root's link count by one relative to other filesystems holding the
// same tree.
func (t FsType) hasReservedRootEntry() bool {
	switch t {
	case FsExt2, FsExt3, FsExt4, FsJFFS2:
		return true
	default:
		return false
	}
}

// Attrs is the stat-derived metadata the oracle compares across
// filesystem implementations.
type Attrs struct {
	Mode  uint32 // file type + permission bits
	UID   uint32
	GID   uint32
	Nlink uint64
	Size  uint64
}

// ExtraAttrs is diagnostic-only metadata. It never enters the signature;
// only the validity checker reads it.
type ExtraAttrs struct {
	BlkSize int64 // preferred I/O block size
	Blocks  int64 // 512-byte units actually allocated
}

// IsRegular reports whether the mode bits describe a regular file.
func (a Attrs) IsRegular() bool {
	return a.Mode&unix.S_IFMT == unix.S_IFREG
}

// IsDir reports whether the mode bits describe a directory.
func (a Attrs) IsDir() bool {
	return a.Mode&unix.S_IFMT == unix.S_IFDIR
}

// IsSymlink reports whether the mode bits describe a symbolic link.
func (a Attrs) IsSymlink() bool {
	return a.Mode&unix.S_IFMT == unix.S_IFLNK
}

// attrsFromStat extracts the comparable and diagnostic subsets from a
// raw stat.
func attrsFromStat(st unix.Stat_t) (Attrs, ExtraAttrs) {
	attrs := Attrs{
		Mode:  uint32(st.Mode),
		UID:   uint32(st.Uid),
		GID:   uint32(st.Gid),
		Nlink: uint64(st.Nlink),
		Size:  uint64(st.Size),
	}
	extra := ExtraAttrs{
		BlkSize: int64(st.Blksize),
		Blocks:  int64(st.Blocks),
	}

	return attrs, extra
}

// normalize returns the hash-relevant view of raw attributes.
//
// Sizes of non-regular entries are forced to zero: filesystems disagree
// on directory and special-file sizes, and only regular-file content size
// is meaningful. The raw value stays untouched in the record for the
// content hasher and validity checker.
//
// For the basepath root on a filesystem with an implicit reserved root
// subdirectory, the link count is reduced by one so that the same logical
// tree hashes identically across filesystem types. Every other entry
// keeps its raw link count.
func normalize(raw Attrs, root bool, fstype FsType) Attrs {
	a := raw

	if !a.IsRegular() {
		a.Size = 0
	}

	if root && fstype.hasReservedRootEntry() && a.Nlink > 0 {
		a.Nlink--
	}

	return a
}

// attrsBlockSize is the wire size of the fixed attribute layout.
const attrsBlockSize = 4 + 4 + 4 + 8 + 8

// appendBinary appends the fixed-layout attribute block: little-endian
// mode, uid, gid (u32 each) then nlink, size (u64 each). The layout is
// part of the signature contract; changing field order or widths changes
// every signature.
func (a Attrs) appendBinary(buf []byte) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, a.Mode)
	buf = binary.LittleEndian.AppendUint32(buf, a.UID)
	buf = binary.LittleEndian.AppendUint32(buf, a.GID)
	buf = binary.LittleEndian.AppendUint64(buf, a.Nlink)
	buf = binary.LittleEndian.AppendUint64(buf, a.Size)

	return buf
}

// formatMode renders mode bits for the verbose record dump, e.g.
// "<dir 755>", "<file suid 644>", "<symlink 777>".
func formatMode(mode uint32) string {
	var b strings.Builder

	b.WriteByte('<')

	switch mode & unix.S_IFMT {
	case unix.S_IFDIR:
		b.WriteString("dir ")
	case unix.S_IFCHR:
		b.WriteString("chrdev ")
	case unix.S_IFBLK:
		b.WriteString("blkdev ")
	case unix.S_IFREG:
		b.WriteString("file ")
	case unix.S_IFLNK:
		b.WriteString("symlink ")
	case unix.S_IFSOCK:
		b.WriteString("socket ")
	case unix.S_IFIFO:
		b.WriteString("fifo ")
	}

	if mode&unix.S_ISUID != 0 {
		b.WriteString("suid ")
	}

	if mode&unix.S_ISGID != 0 {
		b.WriteString("sgid ")
	}

	if mode&unix.S_ISVTX != 0 {
		b.WriteString("sticky ")
	}

	fmt.Fprintf(&b, "%03o>", mode&0o777)

	return b.String()
}
