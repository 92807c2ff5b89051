package flatfile

import (
	"errors"
	"testing"

	. "github.com/fulldump/biff"
)

func TestScanEmptyFile(t *testing.T) {
	Environment(func(dir string) {
		s := newTestStore(dir, 1, 4, 4, 2)
		defer s.Destroy()

		loc, _, err := s.scan(startUnspecified, scanForward, EmptyTest{})
		AssertEqual(err, errEndOfTable)
		AssertEqual(loc, int64(0))

		loc, _, err = s.scan(startUnspecified, scanBackward, EmptyTest{})
		AssertEqual(err, errEndOfTable)
		AssertEqual(loc, int64(0))
	})
}

func TestScanFirstMatchWins(t *testing.T) {
	Environment(func(dir string) {
		s := newTestStore(dir, 1, 4, 4, 2)
		defer s.Destroy()

		s.Insert([]byte("key1"), []byte("v_01"))
		s.Insert([]byte("key2"), []byte("v_02"))
		s.Insert([]byte("key1"), []byte("v_03"))

		loc, row, err := s.scan(startUnspecified, scanForward, KeyMatchTest{Key: []byte("key1")})
		AssertNil(err)
		AssertEqual(loc, int64(0))
		AssertEqual(string(row.Value), "v_01")
	})
}

func TestScanBackward(t *testing.T) {
	Environment(func(dir string) {
		// Single-row buffer makes the backward traversal visit rows
		// strictly last to first.
		s := newTestStore(dir, 1, 4, 4, 1)
		defer s.Destroy()

		s.Insert([]byte("key1"), []byte("v_01"))
		s.Insert([]byte("key2"), []byte("v_02"))
		s.Insert([]byte("key1"), []byte("v_03"))

		loc, row, err := s.scan(startUnspecified, scanBackward, KeyMatchTest{Key: []byte("key1")})
		AssertNil(err)
		AssertEqual(loc, int64(2))
		AssertEqual(string(row.Value), "v_03")
	})
}

func TestScanBackwardClampsAtStartOfData(t *testing.T) {
	Environment(func(dir string) {
		// 3 rows with a 2-row buffer: the final backward block would start
		// before the data, so it must clamp and shrink to a single row.
		s := newTestStore(dir, 1, 4, 4, 2)
		defer s.Destroy()

		s.Insert([]byte("key1"), []byte("v_01"))
		s.Insert([]byte("key2"), []byte("v_02"))
		s.Insert([]byte("key3"), []byte("v_03"))

		loc, row, err := s.scan(startUnspecified, scanBackward, KeyMatchTest{Key: []byte("key1")})
		AssertNil(err)
		AssertEqual(loc, int64(0))
		AssertEqual(string(row.Value), "v_01")
	})
}

func TestScanResumeFromIndex(t *testing.T) {
	Environment(func(dir string) {
		s := newTestStore(dir, 1, 4, 4, 2)
		defer s.Destroy()

		s.Insert([]byte("key1"), []byte("v_01"))
		s.Insert([]byte("key1"), []byte("v_02"))

		loc, _, err := s.scan(startUnspecified, scanForward, KeyMatchTest{Key: []byte("key1")})
		AssertNil(err)
		AssertEqual(loc, int64(0))

		loc, row, err := s.scan(loc+1, scanForward, KeyMatchTest{Key: []byte("key1")})
		AssertNil(err)
		AssertEqual(loc, int64(1))
		AssertEqual(string(row.Value), "v_02")

		loc, _, err = s.scan(loc+1, scanForward, KeyMatchTest{Key: []byte("key1")})
		AssertEqual(err, errEndOfTable)
		AssertEqual(loc, int64(2)) // the append position
	})
}

func TestScanStartOutOfBounds(t *testing.T) {
	Environment(func(dir string) {
		s := newTestStore(dir, 1, 4, 4, 2)
		defer s.Destroy()

		s.Insert([]byte("key1"), []byte("v_01"))

		_, _, err := s.scan(100, scanForward, EmptyTest{})
		AssertTrue(errors.Is(err, ErrFileRead))

		_, _, err = s.scan(-2, scanForward, EmptyTest{})
		AssertTrue(errors.Is(err, ErrFileRead))
	})
}

func TestScanNotFoundReturnsAppendPosition(t *testing.T) {
	Environment(func(dir string) {
		s := newTestStore(dir, 1, 4, 4, 2)
		defer s.Destroy()

		s.Insert([]byte("key1"), []byte("v_01"))
		s.Insert([]byte("key2"), []byte("v_02"))
		s.Insert([]byte("key3"), []byte("v_03"))

		loc, _, err := s.scan(startUnspecified, scanForward, KeyMatchTest{Key: []byte("nope")})
		AssertEqual(err, errEndOfTable)
		AssertEqual(loc, int64(3))
	})
}
