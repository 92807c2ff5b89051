package dictionary

import (
	"fmt"
	"os"
	"path"
	"testing"
	"time"

	. "github.com/fulldump/biff"
)

func Environment(f func(dir string)) {
	dir := fmt.Sprintf("temp-%v", time.Now().UnixNano())
	os.MkdirAll(dir, 0755)
	defer os.RemoveAll(dir)

	f(dir)
}

func TestCreateAndGet(t *testing.T) {
	Environment(func(dir string) {
		d := NewDictionary(&Config{Dir: dir})
		AssertNil(d.Load())
		AssertEqual(d.GetStatus(), StatusOperating)
		defer d.Stop()

		entry, err := d.Create(&StoreEntry{
			ID:         1,
			KeyType:    KeyTypeString,
			KeySize:    8,
			ValueSize:  16,
			BufferRows: 4,
		})
		AssertNil(err)
		AssertNotNil(entry.Store())

		got, err := d.Get(1)
		AssertNil(err)
		AssertEqual(got, entry)

		_, err = d.Get(2)
		AssertEqual(err, ErrStoreNotFound)

		_, err = d.Create(&StoreEntry{ID: 1, KeyType: KeyTypeString, KeySize: 8, ValueSize: 16})
		AssertEqual(err, ErrStoreAlreadyExists)
	})
}

func TestCatalogSurvivesReload(t *testing.T) {
	Environment(func(dir string) {
		d := NewDictionary(&Config{Dir: dir})
		AssertNil(d.Load())

		_, err := d.Create(&StoreEntry{
			ID:         42,
			KeyType:    KeyTypeNumericUnsigned,
			KeySize:    4,
			ValueSize:  8,
			BufferRows: 2,
		})
		AssertNil(err)

		entry, _ := d.Get(42)
		key, _ := EncodeKey(KeyTypeNumericUnsigned, 4, "7")
		value, _ := EncodeValue(8, "seven")
		_, err = entry.Store().Insert(key, value)
		AssertNil(err)

		d.Stop()

		// A brand-new dictionary over the same directory sees the store and
		// its data.
		d = NewDictionary(&Config{Dir: dir})
		AssertNil(d.Load())
		defer d.Stop()

		entry, err = d.Get(42)
		AssertNil(err)
		AssertEqual(entry.KeyType, KeyTypeNumericUnsigned)
		AssertEqual(entry.ValueSize, 8)

		got := make([]byte, 8)
		count, err := entry.Store().Get(key, got)
		AssertNil(err)
		AssertEqual(count, 1)
		AssertEqual(DecodeValue(got), "seven")
	})
}

func TestDropRemovesBackingFile(t *testing.T) {
	Environment(func(dir string) {
		d := NewDictionary(&Config{Dir: dir})
		AssertNil(d.Load())
		defer d.Stop()

		entry, err := d.Create(&StoreEntry{ID: 9, KeyType: KeyTypeBytes, KeySize: 4, ValueSize: 4})
		AssertNil(err)

		path := entry.Store().Path()
		_, err = os.Stat(path)
		AssertNil(err)

		AssertNil(d.Drop(9))

		_, err = os.Stat(path)
		AssertTrue(os.IsNotExist(err))

		_, err = d.Get(9)
		AssertEqual(err, ErrStoreNotFound)

		AssertEqual(d.Drop(9), ErrStoreNotFound)
	})
}

func TestCreateRollsBackWhenCatalogFails(t *testing.T) {
	Environment(func(dir string) {
		d := NewDictionary(&Config{Dir: dir})
		AssertNil(d.Load())
		defer d.Stop()

		// A directory in the catalog's place makes every catalog write fail.
		AssertNil(os.Mkdir(path.Join(dir, CatalogFilename), 0755))

		_, err := d.Create(&StoreEntry{ID: 5, KeyType: KeyTypeBytes, KeySize: 4, ValueSize: 4})
		AssertNotNil(err)

		// The store did not stay registered behind the caller's back.
		_, err = d.Get(5)
		AssertEqual(err, ErrStoreNotFound)
	})
}

func TestDropUnregistersWhenBackingFileIsGone(t *testing.T) {
	Environment(func(dir string) {
		d := NewDictionary(&Config{Dir: dir})
		AssertNil(d.Load())
		defer d.Stop()

		entry, err := d.Create(&StoreEntry{ID: 9, KeyType: KeyTypeBytes, KeySize: 4, ValueSize: 4})
		AssertNil(err)

		// Pull the file out from under the store so its teardown fails.
		AssertNil(os.Remove(entry.Store().Path()))

		err = d.Drop(9)
		AssertNotNil(err)

		// The half-destroyed store is not addressable anymore, here or after
		// a reload.
		_, err = d.Get(9)
		AssertEqual(err, ErrStoreNotFound)

		d2 := NewDictionary(&Config{Dir: dir})
		AssertNil(d2.Load())
		defer d2.Stop()

		_, err = d2.Get(9)
		AssertEqual(err, ErrStoreNotFound)
	})
}

func TestNumericKeyWidthLimit(t *testing.T) {
	Environment(func(dir string) {
		d := NewDictionary(&Config{Dir: dir})
		AssertNil(d.Load())
		defer d.Stop()

		_, err := d.Create(&StoreEntry{ID: 3, KeyType: KeyTypeNumericUnsigned, KeySize: 16, ValueSize: 4})
		AssertNotNil(err)

		_, err = d.Create(&StoreEntry{ID: 3, KeyType: KeyTypeNumericSigned, KeySize: 9, ValueSize: 4})
		AssertNotNil(err)

		// Non-numeric keys can be as wide as they like.
		_, err = d.Create(&StoreEntry{ID: 3, KeyType: KeyTypeBytes, KeySize: 16, ValueSize: 4})
		AssertNil(err)
	})
}

func TestListIsOrderedByID(t *testing.T) {
	Environment(func(dir string) {
		d := NewDictionary(&Config{Dir: dir})
		AssertNil(d.Load())
		defer d.Stop()

		for _, id := range []uint64{30, 10, 20} {
			_, err := d.Create(&StoreEntry{ID: id, KeyType: KeyTypeBytes, KeySize: 4, ValueSize: 4})
			AssertNil(err)
		}

		ids := []uint64{}
		for _, entry := range d.List() {
			ids = append(ids, entry.ID)
		}
		AssertEqual(ids, []uint64{10, 20, 30})
	})
}
