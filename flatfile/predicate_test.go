package flatfile

import (
	"bytes"
	"testing"

	. "github.com/fulldump/biff"
)

func TestKeyMatchDelegatesToComparator(t *testing.T) {
	Environment(func(dir string) {
		s, err := NewStore(&Config{
			Dir:        dir,
			ID:         1,
			KeySize:    4,
			ValueSize:  4,
			BufferRows: 2,
			Compare: func(a, b []byte) int {
				return bytes.Compare(bytes.ToLower(a), bytes.ToLower(b))
			},
		})
		AssertNil(err)
		defer s.Destroy()

		s.Insert([]byte("KEY1"), []byte("val1"))

		value := make([]byte, 4)
		count, err := s.Get([]byte("key1"), value)
		AssertNil(err)
		AssertEqual(count, 1)
		AssertEqual(string(value), "val1")
	})
}

func TestEmptyTestIgnoresPayload(t *testing.T) {
	Environment(func(dir string) {
		s := newTestStore(dir, 1, 4, 4, 2)
		defer s.Destroy()

		s.Insert([]byte("key1"), []byte("val1"))
		s.Delete([]byte("key1"))

		// The deleted row still holds its payload but matches as empty.
		loc, row, err := s.scan(startUnspecified, scanForward, EmptyTest{})
		AssertNil(err)
		AssertEqual(loc, int64(0))
		AssertEqual(row.Status, StatusEmpty)
		AssertEqual(string(row.Key), "key1")
	})
}
