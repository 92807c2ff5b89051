package flatfile

import (
	"bytes"
	"fmt"
	"os"
	"time"
)

func Environment(f func(dir string)) {
	dir := fmt.Sprintf("temp-%v", time.Now().UnixNano())
	os.MkdirAll(dir, 0755)
	defer os.RemoveAll(dir)

	f(dir)
}

func newTestStore(dir string, id uint64, keySize, valueSize, bufferRows int) *Store {
	s, err := NewStore(&Config{
		Dir:        dir,
		ID:         id,
		KeySize:    keySize,
		ValueSize:  valueSize,
		BufferRows: bufferRows,
		Compare: func(a, b []byte) int {
			return bytes.Compare(a, b)
		},
	})
	if err != nil {
		panic(err)
	}

	return s
}
