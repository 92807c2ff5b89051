package flatfile

import (
	"fmt"
	"io"
)

type scanDirection int

const (
	scanForward scanDirection = iota
	scanBackward
)

// startUnspecified resolves to the first row on a forward scan and to the
// logical end of the table on a backward scan.
const startUnspecified int64 = -1

// scan performs a buffered linear traversal of the file, testing every
// visited row against the predicate. It returns the row index and a view of
// the first match in traversal order. When the traversal reaches the table
// boundary without a match it returns errEndOfTable together with the row
// count of the table, which is the canonical append position.
//
// Each round trip reads up to bufferRows rows into the store's single scan
// buffer, so any Row view obtained earlier is invalidated.
func (s *Store) scan(start int64, dir scanDirection, predicate Predicate) (int64, Row, error) {

	var none Row

	eof, err := s.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, none, fmt.Errorf("%w: %v", ErrBadSeek, err)
	}

	rowSize := int64(s.rowSize)

	cur := s.startOfData + start*rowSize
	end := eof
	if dir == scanBackward {
		end = s.startOfData
	}

	if start == startUnspecified {
		if dir == scanForward {
			cur = s.startOfData
		} else {
			cur = eof
		}
	}

	if cur > eof || cur < s.startOfData {
		return 0, none, fmt.Errorf("%w: start row %d is out of bounds", ErrFileRead, start)
	}

	for cur != end {
		if _, err := s.file.Seek(cur, io.SeekStart); err != nil {
			return 0, none, fmt.Errorf("%w: %v", ErrBadSeek, err)
		}

		// base is the offset of the block being processed, needed to turn an
		// intra-block position into an absolute row index.
		base := cur
		rows := s.bufferRows

		if dir == scanForward {
			// A partial read near EOF is fine as long as at least one full
			// row came back.
			n, err := io.ReadFull(s.file, s.buffer)
			if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
				return 0, none, fmt.Errorf("%w: %v", ErrFileRead, err)
			}
			rows = n / s.rowSize
			if rows == 0 {
				return 0, none, fmt.Errorf("%w: no rows before offset %d", ErrIncompleteRead, eof)
			}
			cur += int64(n)
		} else {
			// Step one block back, clamping at start of data and shrinking
			// the row count by however far past it we went.
			cur -= int64(s.bufferRows) * rowSize
			if cur < s.startOfData {
				rows = s.bufferRows - int((s.startOfData-cur)/rowSize)
				cur = s.startOfData
			}

			if _, err := s.file.Seek(cur, io.SeekStart); err != nil {
				return 0, none, fmt.Errorf("%w: %v", ErrBadSeek, err)
			}

			// The count was already clamped to fit, so a short read here is
			// a hard failure.
			if _, err := io.ReadFull(s.file, s.buffer[:rows*s.rowSize]); err != nil {
				return 0, none, fmt.Errorf("%w: %v", ErrIncompleteRead, err)
			}
			base = cur
		}

		for i := 0; i < rows; i++ {
			row := s.rowAt(i)
			if predicate.Match(s, &row) {
				return (base-s.startOfData)/rowSize + int64(i), row, nil
			}
		}
	}

	return (eof - s.startOfData) / rowSize, none, errEndOfTable
}

// A scanStrategy decides how records are located and maintained on disk.
type scanStrategy interface {
	Insert(s *Store, key, value []byte) (int, error)
	Get(s *Store, key, value []byte) (int, error)
	Update(s *Store, key, value []byte) (int, error)
	Delete(s *Store, key []byte) (int, error)
}

// unsortedScan locates records by linear scan and inserts into the first
// empty slot, appending when there is none.
type unsortedScan struct{}

func (unsortedScan) Insert(s *Store, key, value []byte) (int, error) {
	loc, _, err := s.scan(startUnspecified, scanForward, EmptyTest{})
	if err != nil && err != errEndOfTable {
		// Hitting the end of the table is not a failure here: it yields the
		// first never-written row, the append position.
		return 0, err
	}

	if err := s.writeRow(loc, StatusOccupied, key, value); err != nil {
		return 0, err
	}

	return 1, nil
}

func (unsortedScan) Get(s *Store, key, value []byte) (int, error) {
	_, row, err := s.scan(startUnspecified, scanForward, KeyMatchTest{Key: key})
	if err == errEndOfTable {
		return 0, ErrItemNotFound
	}
	if err != nil {
		return 0, err
	}

	copy(value, row.Value)

	return 1, nil
}

func (u unsortedScan) Update(s *Store, key, value []byte) (int, error) {
	count := 0
	loc := startUnspecified

	for {
		var err error
		loc, _, err = s.scan(loc, scanForward, KeyMatchTest{Key: key})
		if err == errEndOfTable {
			if count == 0 {
				// Nothing to update, do an upsert instead.
				return u.Insert(s, key, value)
			}
			return count, nil
		}
		if err != nil {
			return count, err
		}

		if err := s.writeRow(loc, StatusOccupied, key, value); err != nil {
			return count, err
		}
		count++

		// Resume one row past the match so it is not matched again.
		loc++
	}
}

func (unsortedScan) Delete(s *Store, key []byte) (int, error) {
	count := 0
	loc := startUnspecified

	for {
		var err error
		loc, _, err = s.scan(loc, scanForward, KeyMatchTest{Key: key})
		if err == errEndOfTable {
			if count == 0 {
				return 0, ErrItemNotFound
			}
			return count, nil
		}
		if err != nil {
			return count, err
		}

		// A status-only rewrite: occupancy is governed by the status byte
		// alone, so the old payload can stay in place.
		if err := s.writeRow(loc, StatusEmpty, nil, nil); err != nil {
			return count, err
		}
		count++
		loc++
	}
}

// sortedScan is a reserved variant that would keep rows ordered by key and
// locate them by binary search. None of its operations are implemented.
type sortedScan struct{}

func (sortedScan) Insert(s *Store, key, value []byte) (int, error) {
	return 0, ErrNotImplemented
}

func (sortedScan) Get(s *Store, key, value []byte) (int, error) {
	return 0, ErrNotImplemented
}

func (sortedScan) Update(s *Store, key, value []byte) (int, error) {
	return 0, ErrNotImplemented
}

func (sortedScan) Delete(s *Store, key []byte) (int, error) {
	return 0, ErrNotImplemented
}
