// Package flatfile implements a record store backed by a single binary
// file: a flat sequence of fixed-size rows, located by buffered linear
// scan rather than by any index. It is the simplest storage backend of
// the dictionary layer sitting on top of it.
package flatfile

import (
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"sync"
)

const (
	// FileSuffix is appended to the decimal store id to form the name of
	// the backing file.
	FileSuffix = ".ffs"

	// MaxFilenameLength is the longest backing file name accepted,
	// matching the usual host limit for one path component.
	MaxFilenameLength = 255
)

// Comparator reports the order of two keys of the store's key type: a
// negative result means a < b, zero means equal. It is an injected
// capability, the store never interprets key bytes itself.
type Comparator func(a, b []byte) int

// dataFile is what the store needs from its backing file. os.File
// satisfies it; tests substitute failing implementations.
type dataFile interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
}

type Config struct {
	Dir        string
	ID         uint64
	KeyType    int
	KeySize    int
	ValueSize  int
	BufferRows int // rows read per I/O round trip, clamped to >= 1
	Sorted     bool
	Compare    Comparator
}

// Store is a handle to one flat file. It owns the open file and a single
// scan buffer for its whole lifetime; the buffer is reused destructively
// by every scan, so row views must not outlive the next scan call.
// Operations serialize on an internal mutex, so a Store can be shared by
// concurrent callers, but it still assumes exclusive ownership of its
// backing file.
type Store struct {
	id      uint64
	keyType int

	// mu guards the file offset and the scan buffer, which every
	// operation shares.
	mu sync.Mutex

	file dataFile
	path string

	// startOfData is where the first row begins. There is no header yet,
	// so it equals the position right after opening; rows live at
	// startOfData + index*rowSize either way, which leaves room to add a
	// header later without breaking addressing.
	startOfData int64

	rowSize    int
	keySize    int
	valueSize  int
	bufferRows int

	buffer   []byte
	compare  Comparator
	strategy scanStrategy
}

// Filename returns the backing file name for the given store id.
func Filename(id uint64) string {
	return strconv.FormatUint(id, 10) + FileSuffix
}

// NewStore opens the backing file for the configured id, creating it
// empty when it does not exist yet, and computes the row geometry.
func NewStore(c *Config) (*Store, error) {

	if c.KeySize <= 0 || c.ValueSize <= 0 {
		return nil, fmt.Errorf("%w: key size %d, value size %d", ErrInitialization, c.KeySize, c.ValueSize)
	}
	if c.Compare == nil {
		return nil, fmt.Errorf("%w: comparator is required", ErrInitialization)
	}

	bufferRows := c.BufferRows
	if bufferRows < 1 {
		// Always buffer at least one row.
		bufferRows = 1
	}

	filename := Filename(c.ID)
	if len(filename) > MaxFilenameLength {
		return nil, fmt.Errorf("%w: filename '%s' is too long", ErrInitialization, filename)
	}

	s := &Store{
		id:         c.ID,
		keyType:    c.KeyType,
		path:       path.Join(c.Dir, filename),
		keySize:    c.KeySize,
		valueSize:  c.ValueSize,
		bufferRows: bufferRows,
		compare:    c.Compare,
		strategy:   unsortedScan{},
	}
	if c.Sorted {
		s.strategy = sortedScan{}
	}

	file, err := os.OpenFile(s.path, os.O_RDWR, 0666)
	if os.IsNotExist(err) {
		// The file did not exist, open again to create it.
		file, err = os.OpenFile(s.path, os.O_RDWR|os.O_CREATE, 0666)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileOpen, err)
	}
	s.file = file

	s.startOfData, err = file.Seek(0, io.SeekCurrent)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: %v", ErrFileRead, err)
	}

	// A row is laid out as | STATUS (1) | KEY (keySize) | VALUE (valueSize) |
	s.rowSize = 1 + c.KeySize + c.ValueSize
	s.buffer = make([]byte, bufferRows*s.rowSize)

	return s, nil
}

func (s *Store) ID() uint64 {
	return s.id
}

func (s *Store) KeyType() int {
	return s.keyType
}

func (s *Store) KeySize() int {
	return s.keySize
}

func (s *Store) ValueSize() int {
	return s.valueSize
}

func (s *Store) RowSize() int {
	return s.rowSize
}

func (s *Store) Path() string {
	return s.path
}

// Rows returns how many row slots the file holds, live or empty.
func (s *Store) Rows() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	eof, err := s.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadSeek, err)
	}

	return (eof - s.startOfData) / int64(s.rowSize), nil
}

// Insert writes the record into the first empty slot, appending a new row
// at the end of the file when every slot is occupied. Duplicate keys are
// permitted.
func (s *Store) Insert(key, value []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.strategy.Insert(s, key, value)
}

// Get copies the value of the first record matching key into value, which
// must be at least ValueSize bytes. It returns ErrItemNotFound when no
// record matches.
func (s *Store) Get(key, value []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.strategy.Get(s, key, value)
}

// Update overwrites the value of every record matching key and returns how
// many it touched. When no record matches it inserts the pair instead, so
// an update of an absent key behaves exactly like Insert.
func (s *Store) Update(key, value []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.strategy.Update(s, key, value)
}

// Delete marks every record matching key as empty and returns how many it
// removed, or ErrItemNotFound when there was none.
func (s *Store) Delete(key []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.strategy.Delete(s, key)
}

// Each calls f with every live record in file order, stopping early when f
// returns false. The row view passed to f is only valid during the call.
func (s *Store) Each(f func(index int64, row Row) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc := startUnspecified

	for {
		var err error
		var row Row
		loc, row, err = s.scan(loc, scanForward, OccupiedTest{})
		if err == errEndOfTable {
			return nil
		}
		if err != nil {
			return err
		}

		if !f(loc, row) {
			return nil
		}
		loc++
	}
}

// Close releases the scan buffer and closes the backing file, keeping its
// contents on disk.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closeFile()
}

func (s *Store) closeFile() error {
	s.buffer = nil

	if err := s.file.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrFileClose, err)
	}

	return nil
}

// Destroy closes the store and deletes the backing file. This is
// irreversible teardown, only for stores whose contents are intentionally
// discarded.
func (s *Store) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.closeFile(); err != nil {
		return err
	}

	if err := os.Remove(s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrFileDelete, err)
	}

	return nil
}
