package flatfile

import (
	"fmt"
	"io"
)

type RowStatus byte

// A row is either empty (available for insertion) or occupied (holds a live
// record). Any other status byte is reserved and must never be written.
const (
	StatusEmpty    RowStatus = 0
	StatusOccupied RowStatus = 1
)

// Row is a view of one record slot. Key and Value point into the store's
// scan buffer: they are valid only until the next buffer refill, so copy
// them out if they are needed beyond one predicate call or one operation.
type Row struct {
	Status RowStatus
	Key    []byte
	Value  []byte
}

// rowAt decodes the i-th row of the current scan buffer as a zero-copy view.
func (s *Store) rowAt(i int) Row {
	base := i * s.rowSize
	return Row{
		Status: RowStatus(s.buffer[base]),
		Key:    s.buffer[base+1 : base+1+s.keySize],
		Value:  s.buffer[base+1+s.keySize : base+s.rowSize],
	}
}

// writeRow writes a row at the given row index. The status byte is always
// written. A nil key or value skips that segment, which allows a status-only
// rewrite that leaves the old payload in place. Segments are written
// sequentially from the start of the row, so a nil key with a non-nil value
// is rejected: the value bytes would land where the key belongs.
func (s *Store) writeRow(index int64, status RowStatus, key, value []byte) error {
	if key == nil && value != nil {
		return fmt.Errorf("%w: key omitted but value present", ErrMisalignedWrite)
	}
	if key != nil && len(key) != s.keySize {
		return fmt.Errorf("%w: key is %d bytes, want %d", ErrMisalignedWrite, len(key), s.keySize)
	}
	if value != nil && len(value) != s.valueSize {
		return fmt.Errorf("%w: value is %d bytes, want %d", ErrMisalignedWrite, len(value), s.valueSize)
	}

	offset := s.startOfData + index*int64(s.rowSize)
	if _, err := s.file.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %v", ErrBadSeek, err)
	}

	if _, err := s.file.Write([]byte{byte(status)}); err != nil {
		return fmt.Errorf("%w: status at row %d: %v", ErrIncompleteWrite, index, err)
	}
	if key != nil {
		if _, err := s.file.Write(key); err != nil {
			return fmt.Errorf("%w: key at row %d: %v", ErrIncompleteWrite, index, err)
		}
	}
	if value != nil {
		if _, err := s.file.Write(value); err != nil {
			return fmt.Errorf("%w: value at row %d: %v", ErrIncompleteWrite, index, err)
		}
	}

	return nil
}
