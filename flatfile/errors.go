package flatfile

import (
	"errors"
)

var (
	ErrFileOpen        = errors.New("file open error")
	ErrFileClose       = errors.New("file close error")
	ErrFileDelete      = errors.New("file delete error")
	ErrFileRead        = errors.New("file read error")
	ErrBadSeek         = errors.New("file bad seek")
	ErrIncompleteRead  = errors.New("incomplete read")
	ErrIncompleteWrite = errors.New("incomplete write")
	ErrInitialization  = errors.New("store initialization failed")
	ErrItemNotFound    = errors.New("item not found")

	// ErrMisalignedWrite rejects a row write whose segments would land at
	// the wrong offsets, leaving corrupted data on disk with no detection.
	ErrMisalignedWrite = errors.New("misaligned row write")

	// ErrNotImplemented is returned by every operation of the sorted scan
	// strategy, which is reserved but not implemented.
	ErrNotImplemented = errors.New("not implemented")
)

// errEndOfTable is the internal scan sentinel: the traversal reached the
// table boundary without a match. The CRUD layer translates it into
// operation-specific semantics (not found, upsert, append position), so it
// never surfaces to callers.
var errEndOfTable = errors.New("end of table")
