package flatfile

import (
	"errors"
	"testing"

	. "github.com/fulldump/biff"
)

func TestWriteRowStatusOnly(t *testing.T) {
	Environment(func(dir string) {
		s := newTestStore(dir, 1, 4, 4, 2)
		defer s.Destroy()

		s.Insert([]byte("key1"), []byte("val1"))

		// Rewriting only the status leaves the payload bytes untouched.
		AssertNil(s.writeRow(0, StatusEmpty, nil, nil))

		_, _, err := s.scan(startUnspecified, scanForward, OccupiedTest{})
		AssertEqual(err, errEndOfTable)

		AssertNil(s.writeRow(0, StatusOccupied, nil, nil))

		value := make([]byte, 4)
		count, err := s.Get([]byte("key1"), value)
		AssertNil(err)
		AssertEqual(count, 1)
		AssertEqual(string(value), "val1")
	})
}

func TestWriteRowRejectsMisalignment(t *testing.T) {
	Environment(func(dir string) {
		s := newTestStore(dir, 1, 4, 4, 2)
		defer s.Destroy()

		// Writes are sequential from the start of the row: without a key,
		// the value bytes would land in the key segment.
		err := s.writeRow(0, StatusOccupied, nil, []byte("val1"))
		AssertTrue(errors.Is(err, ErrMisalignedWrite))

		err = s.writeRow(0, StatusOccupied, []byte("key"), []byte("val1"))
		AssertTrue(errors.Is(err, ErrMisalignedWrite))

		err = s.writeRow(0, StatusOccupied, []byte("key1"), []byte("value too long"))
		AssertTrue(errors.Is(err, ErrMisalignedWrite))
	})
}

// flakyFile fails every write after the first failAfter ones.
type flakyFile struct {
	dataFile
	writes    int
	failAfter int
}

func (f *flakyFile) Write(p []byte) (int, error) {
	f.writes++
	if f.writes > f.failAfter {
		return 0, errors.New("disk full")
	}
	return f.dataFile.Write(p)
}

func TestPartialWriteLeavesRowOccupied(t *testing.T) {
	Environment(func(dir string) {
		s := newTestStore(dir, 1, 4, 4, 2)
		defer s.Destroy()

		s.Insert([]byte("key1"), []byte("val1"))

		// Status and key go through, the value write fails: the row stays
		// occupied with its previous payload and no rollback happens.
		s.file = &flakyFile{dataFile: s.file, failAfter: 2}

		count, err := s.Update([]byte("key1"), []byte("val2"))
		AssertTrue(errors.Is(err, ErrIncompleteWrite))
		AssertEqual(count, 0)

		s.file = s.file.(*flakyFile).dataFile

		value := make([]byte, 4)
		count, err = s.Get([]byte("key1"), value)
		AssertNil(err)
		AssertEqual(count, 1)
		AssertEqual(string(value), "val1")
	})
}

func TestMultiMatchStopsAtFirstWriteError(t *testing.T) {
	Environment(func(dir string) {
		s := newTestStore(dir, 1, 4, 4, 2)
		defer s.Destroy()

		s.Insert([]byte("key1"), []byte("v_01"))
		s.Insert([]byte("key1"), []byte("v_02"))

		// The first row updates fully, every write of the second one fails:
		// the error is reported together with the rows already modified.
		s.file = &flakyFile{dataFile: s.file, failAfter: 3}

		count, err := s.Update([]byte("key1"), []byte("v_03"))
		AssertTrue(errors.Is(err, ErrIncompleteWrite))
		AssertEqual(count, 1)
	})
}

func TestTruncatedAppendSurfacesIncompleteRead(t *testing.T) {
	Environment(func(dir string) {
		s := newTestStore(dir, 1, 4, 4, 1)
		defer s.Destroy()

		s.Insert([]byte("key1"), []byte("val1"))

		// The append of a second row dies after status and key, leaving a
		// truncated trailing row on disk.
		s.file = &flakyFile{dataFile: s.file, failAfter: 2}
		_, err := s.Insert([]byte("key2"), []byte("val2"))
		AssertTrue(errors.Is(err, ErrIncompleteWrite))
		s.file = s.file.(*flakyFile).dataFile

		// The corruption is not masked: scanning into the truncated row
		// fails instead of fabricating data.
		value := make([]byte, 4)
		_, err = s.Get([]byte("key2"), value)
		AssertTrue(errors.Is(err, ErrIncompleteRead))
	})
}
