package tiered

import (
	"errors"
	"fmt"

	cockroacherrors "github.com/cockroachdb/errors"
)

// Sentinel errors for recoverable misuse at public boundaries (§6, §7).
// They carry no structured context: ErrEmpty and ErrOutOfRange are
// returned bare, while ErrKeyNotFound and ErrDuplicateKey are wrapped with
// the offending key via fmt.Errorf (see keyNotFoundf/duplicateKeyf). All
// of them match with errors.Is.
var (
	// ErrDuplicateKey is returned by PersistentDictionary.Add and
	// CachingDictionary.Add when the key is already indexed.
	ErrDuplicateKey = errors.New("tiered: duplicate key")

	// ErrKeyNotFound is returned by lookups that require the key to be
	// present.
	ErrKeyNotFound = errors.New("tiered: key not found")

	// ErrEmpty is returned by CircularBuffer.Front when the buffer holds
	// no elements.
	ErrEmpty = errors.New("tiered: buffer is empty")

	// ErrOutOfRange is returned by CircularBuffer index/insert/remove
	// operations whose index argument is outside the permitted bounds.
	ErrOutOfRange = errors.New("tiered: index out of range")
)

// Structural failures indicate a bug in the calling code or a broken
// medium, not ordinary misuse; they carry handle/offset/length context via
// github.com/cockroachdb/errors so the embedder can diagnose without the
// core ever logging (§7: "the core emits no logs").

// ErrInvalidHandle is the sentinel wrapped by every invalid-handle failure;
// match it with errors.Is.
var ErrInvalidHandle = errors.New("tiered: invalid handle")

func newInvalidHandleError(h Handle) error {
	return cockroacherrors.WithDetailf(
		cockroacherrors.Wrapf(ErrInvalidHandle, "handle %d", uint64(h)),
		"handle %d is not present in the allocated index", uint64(h),
	)
}

// ErrBlockTooSmall is the sentinel wrapped when Fragment is asked to carve
// a block larger than its source free block.
var ErrBlockTooSmall = errors.New("tiered: block too small to fragment")

func newBlockTooSmallError(have, want uint64) error {
	return cockroacherrors.WithDetailf(
		cockroacherrors.Wrapf(ErrBlockTooSmall, "have %d want %d", have, want),
		"free block of %d bytes cannot satisfy a %d byte fragment", have, want,
	)
}

// ErrOutOfAddressSpace is the sentinel wrapped when the heap's address
// space cannot grow further without overflowing a uint64 offset.
var ErrOutOfAddressSpace = errors.New("tiered: out of address space")

func newOutOfAddressSpaceError(current, grow uint64) error {
	return cockroacherrors.WithDetailf(
		cockroacherrors.Wrapf(ErrOutOfAddressSpace, "current %d grow %d", current, grow),
		"growing the heap by %d bytes from %d would overflow the address space", grow, current,
	)
}

// ErrLengthMismatch is the sentinel wrapped when Heap.Write is given a
// buffer whose length does not match the target block's length.
var ErrLengthMismatch = errors.New("tiered: length mismatch")

func newLengthMismatchError(h Handle, want, got int) error {
	return cockroacherrors.WithDetailf(
		cockroacherrors.Wrapf(ErrLengthMismatch, "handle %d want %d got %d", uint64(h), want, got),
		"write to handle %d expected exactly %d bytes, got %d", uint64(h), want, got,
	)
}

// ErrUnexpectedEndOfStream is the sentinel wrapped when the medium reaches
// EOF before a Heap.Read completes.
var ErrUnexpectedEndOfStream = errors.New("tiered: unexpected end of stream")

func newUnexpectedEOFError(h Handle, want, got int) error {
	return cockroacherrors.WithDetailf(
		cockroacherrors.Wrapf(ErrUnexpectedEndOfStream, "handle %d want %d got %d", uint64(h), want, got),
		"read from handle %d expected %d bytes, medium yielded only %d before EOF", uint64(h), want, got,
	)
}

// keyNotFoundf annotates ErrKeyNotFound with the offending key for error
// messages while staying errors.Is-comparable to ErrKeyNotFound.
func keyNotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrKeyNotFound}, args...)...)
}

// duplicateKeyf annotates ErrDuplicateKey with the offending key.
func duplicateKeyf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrDuplicateKey}, args...)...)
}
