package absfs

import (
	"errors"
	"testing"
)

func TestAlgorithmSizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		algo Algorithm
		size int
	}{
		{AlgoWide, 16},
		{AlgoFast, 8},
		{AlgoCrypto, 16},
		{AlgoChecksum, 4},
	}

	for _, tc := range tests {
		t.Run(string(tc.algo), func(t *testing.T) {
			t.Parallel()

			if got, want := tc.algo.Size(), tc.size; got != want {
				t.Errorf("Size()=%d, want=%d", got, want)
			}

			if !tc.algo.Valid() {
				t.Errorf("Valid()=false, want=true")
			}
		})
	}

	if got, want := Algorithm("sha1").Valid(), false; got != want {
		t.Errorf("Valid(sha1)=%v, want=%v", got, want)
	}
}

func TestNewEngineUnknownAlgorithm(t *testing.T) {
	t.Parallel()

	_, err := newEngine(Algorithm("whirlpool"))
	if !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("err=%v, want ErrUnknownAlgorithm", err)
	}
}

func TestEngineDigestsDifferAcrossInputs(t *testing.T) {
	t.Parallel()

	for _, algo := range Algorithms() {
		t.Run(string(algo), func(t *testing.T) {
			t.Parallel()

			digest := func(inputs ...string) []byte {
				eng, err := newEngine(algo)
				if err != nil {
					t.Fatalf("newEngine: %v", err)
				}

				for _, in := range inputs {
					if err := eng.update([]byte(in)); err != nil {
						t.Fatalf("update: %v", err)
					}
				}

				d, err := eng.sum()
				if err != nil {
					t.Fatalf("sum: %v", err)
				}

				return d
			}

			a := digest("/a", "file-one")
			b := digest("/a", "file-one")
			c := digest("/a", "file-two")

			if got, want := len(a), algo.Size(); got != want {
				t.Fatalf("digest length=%d, want=%d", got, want)
			}

			if string(a) != string(b) {
				t.Errorf("same input produced different digests")
			}

			if string(a) == string(c) {
				t.Errorf("different inputs produced equal digests")
			}
		})
	}
}

func TestEngineFinalizeIsDestructive(t *testing.T) {
	t.Parallel()

	for _, algo := range Algorithms() {
		t.Run(string(algo), func(t *testing.T) {
			t.Parallel()

			eng, err := newEngine(algo)
			if err != nil {
				t.Fatalf("newEngine: %v", err)
			}

			if err := eng.update([]byte("payload")); err != nil {
				t.Fatalf("update: %v", err)
			}

			if _, err := eng.sum(); err != nil {
				t.Fatalf("sum: %v", err)
			}

			if err := eng.update([]byte("late")); !errors.Is(err, ErrFinalized) {
				t.Errorf("update after sum: err=%v, want ErrFinalized", err)
			}

			if _, err := eng.sum(); !errors.Is(err, ErrFinalized) {
				t.Errorf("second sum: err=%v, want ErrFinalized", err)
			}
		})
	}
}

func TestSignatureStringWidths(t *testing.T) {
	t.Parallel()

	widths := map[Algorithm]int{
		AlgoWide:     32,
		AlgoFast:     16,
		AlgoCrypto:   32,
		AlgoChecksum: 8,
	}

	for algo, width := range widths {
		eng, err := newEngine(algo)
		if err != nil {
			t.Fatalf("newEngine: %v", err)
		}

		if err := eng.update([]byte("x")); err != nil {
			t.Fatalf("update: %v", err)
		}

		digest, err := eng.sum()
		if err != nil {
			t.Fatalf("sum: %v", err)
		}

		sig := newSignature(algo, digest)

		if got, want := len(sig.String()), width; got != want {
			t.Errorf("%s: hex width=%d, want=%d", algo, got, want)
		}

		if got, want := len(sig.Bytes()), SignatureSize; got != want {
			t.Errorf("%s: padded length=%d, want=%d", algo, got, want)
		}
	}
}

func TestSignatureEqual(t *testing.T) {
	t.Parallel()

	a := newSignature(AlgoFast, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	b := newSignature(AlgoFast, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	c := newSignature(AlgoFast, []byte{1, 2, 3, 4, 5, 6, 7, 9})

	// Same padded bytes under a different algorithm must not compare equal.
	d := newSignature(AlgoWide, []byte{1, 2, 3, 4, 5, 6, 7, 8})

	if !a.Equal(b) {
		t.Errorf("identical signatures compare unequal")
	}

	if a.Equal(c) {
		t.Errorf("different digests compare equal")
	}

	if a.Equal(d) {
		t.Errorf("different algorithms compare equal")
	}
}
