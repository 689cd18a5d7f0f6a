package absfs

import (
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"hash/crc32"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"
)

// Algorithm selects the hash engine for a walk. The choice trades speed
// against collision resistance; every algorithm produces the same
// signature for the same abstract state, so instances under comparison
// must all use the same one.
type Algorithm string

const (
	// AlgoWide is XXH3-128: fast, 128-bit, non-cryptographic.
	// The default strength/speed balance.
	AlgoWide Algorithm = "xxh128"

	// AlgoFast is XXH64: highest throughput, 64-bit.
	AlgoFast Algorithm = "xxh64"

	// AlgoCrypto is MD5: slowest, used when adversarial collision
	// resistance matters more than speed.
	AlgoCrypto Algorithm = "md5"

	// AlgoChecksum is CRC-32/IEEE: weakest, reference/compatibility mode.
	AlgoChecksum Algorithm = "crc32"
)

// DefaultAlgorithm is used when no algorithm is configured.
const DefaultAlgorithm = AlgoWide

// Algorithms returns the supported algorithms in a fixed order.
func Algorithms() []Algorithm {
	return []Algorithm{AlgoWide, AlgoFast, AlgoCrypto, AlgoChecksum}
}

// Size returns the digest size in bytes, or 0 for an unknown algorithm.
func (a Algorithm) Size() int {
	switch a {
	case AlgoWide, AlgoCrypto:
		return 16
	case AlgoFast:
		return 8
	case AlgoChecksum:
		return 4
	default:
		return 0
	}
}

// Valid reports whether a names a supported algorithm.
func (a Algorithm) Valid() bool {
	return a.Size() != 0
}

// engine is the uniform update/finalize contract over the concrete
// algorithms. sum is destructive: after it returns, update fails with
// [ErrFinalized].
type engine interface {
	update(p []byte) error
	sum() ([]byte, error)
}

// newEngine returns a fresh context for a. Contexts are never reused
// across walks.
func newEngine(a Algorithm) (engine, error) {
	switch a {
	case AlgoWide:
		return &xxh128Engine{h: xxh3.New()}, nil
	case AlgoFast:
		return &hashEngine{h: xxhash.New(), size: 8}, nil
	case AlgoCrypto:
		return &hashEngine{h: md5.New(), size: 16}, nil
	case AlgoChecksum:
		return &hashEngine{h: crc32.NewIEEE(), size: 4}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, a)
	}
}

// hashEngine adapts any [hash.Hash] (md5, xxh64, crc32) to the engine
// contract and enforces finalize-once.
type hashEngine struct {
	h         hash.Hash
	size      int
	finalized bool
}

func (e *hashEngine) update(p []byte) error {
	if e.finalized {
		return ErrFinalized
	}

	if _, err := e.h.Write(p); err != nil {
		return fmt.Errorf("%w: %v", ErrHashEngine, err)
	}

	return nil
}

func (e *hashEngine) sum() ([]byte, error) {
	if e.finalized {
		return nil, ErrFinalized
	}

	e.finalized = true

	return e.h.Sum(nil)[:e.size], nil
}

// xxh128Engine wraps the xxh3 hasher, whose 128-bit digest is not
// reachable through [hash.Hash].
type xxh128Engine struct {
	h         *xxh3.Hasher
	finalized bool
}

func (e *xxh128Engine) update(p []byte) error {
	if e.finalized {
		return ErrFinalized
	}

	if _, err := e.h.Write(p); err != nil {
		return fmt.Errorf("%w: %v", ErrHashEngine, err)
	}

	return nil
}

func (e *xxh128Engine) sum() ([]byte, error) {
	if e.finalized {
		return nil, ErrFinalized
	}

	e.finalized = true
	u := e.h.Sum128()

	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf[:8], u.Hi)
	binary.BigEndian.PutUint64(buf[8:], u.Lo)

	return buf, nil
}

// SignatureSize is the common comparison width: shorter digests are
// zero-padded up to it.
const SignatureSize = 16

// Signature is the final digest of one walk: the abstract filesystem
// state folded through the selected algorithm.
type Signature struct {
	algo Algorithm
	sum  [SignatureSize]byte
}

// newSignature pads digest to [SignatureSize].
func newSignature(algo Algorithm, digest []byte) *Signature {
	s := &Signature{algo: algo}
	copy(s.sum[:], digest)

	return s
}

// Algorithm returns the algorithm that produced s.
func (s *Signature) Algorithm() Algorithm {
	return s.algo
}

// Bytes returns the zero-padded digest, always [SignatureSize] long.
func (s *Signature) Bytes() []byte {
	return s.sum[:]
}

// Equal reports whether two signatures have identical algorithm and digest.
func (s *Signature) Equal(o *Signature) bool {
	return s.algo == o.algo && s.sum == o.sum
}

// String renders the digest as lowercase hex at the algorithm's natural
// width: 32 characters for 128-bit modes, 16 for 64-bit, 8 for 32-bit.
func (s *Signature) String() string {
	return hex.EncodeToString(s.sum[:s.algo.Size()])
}
