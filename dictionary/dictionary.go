package dictionary

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"sync"
	"time"

	"github.com/google/btree"

	"github.com/fulldump/flatfiledb/flatfile"
)

const (
	StatusOpening   = "opening"
	StatusOperating = "operating"
	StatusClosing   = "closing"
)

// CatalogFilename is where the dictionary persists store geometry. The row
// file format has no header yet, so key type and sizes must live somewhere
// else to reopen a store.
const CatalogFilename = "catalog.json"

var (
	ErrStoreNotFound      = errors.New("store not found")
	ErrStoreAlreadyExists = errors.New("store already exists")
)

type Config struct {
	Dir string
}

// StoreEntry is the catalogued description of one store plus, when the
// dictionary is operating, its open handle.
type StoreEntry struct {
	ID         uint64  `json:"id"`
	KeyType    KeyType `json:"key_type"`
	KeySize    int     `json:"key_size"`
	ValueSize  int     `json:"value_size"`
	BufferRows int     `json:"buffer_rows"`

	store *flatfile.Store
}

func (e *StoreEntry) Store() *flatfile.Store {
	return e.store
}

// Dictionary manages every flat file store under one data directory.
type Dictionary struct {
	config *Config
	status string
	stores *btree.BTreeG[*StoreEntry]
	mu     sync.Mutex
	exit   chan struct{}
}

func NewDictionary(config *Config) *Dictionary {
	return &Dictionary{
		config: config,
		status: StatusOpening,
		stores: btree.NewG(32, func(a, b *StoreEntry) bool {
			return a.ID < b.ID
		}),
		exit: make(chan struct{}),
	}
}

func (d *Dictionary) GetStatus() string {
	return d.status
}

// Load reads the catalog and reopens every store in it.
func (d *Dictionary) Load() error {

	dir := d.config.Dir
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	entries, err := readCatalog(path.Join(dir, CatalogFilename))
	if err != nil {
		d.status = StatusClosing
		return err
	}

	for _, entry := range entries {
		t0 := time.Now()
		err := d.open(entry)
		if err != nil {
			d.status = StatusClosing
			return fmt.Errorf("open store %d: %w", entry.ID, err)
		}
		fmt.Println(flatfile.Filename(entry.ID), time.Since(t0)) // todo: move to logger

		d.stores.ReplaceOrInsert(entry)
	}

	d.status = StatusOperating

	return nil
}

func (d *Dictionary) open(entry *StoreEntry) error {

	numeric := entry.KeyType == KeyTypeNumericSigned || entry.KeyType == KeyTypeNumericUnsigned
	if numeric && entry.KeySize > 8 {
		// The text codec renders numeric keys through uint64, wider keys
		// would come back truncated.
		return fmt.Errorf("numeric keys are limited to 8 bytes, got %d", entry.KeySize)
	}

	store, err := flatfile.NewStore(&flatfile.Config{
		Dir:        d.config.Dir,
		ID:         entry.ID,
		KeyType:    int(entry.KeyType),
		KeySize:    entry.KeySize,
		ValueSize:  entry.ValueSize,
		BufferRows: entry.BufferRows,
		Compare:    ComparatorFor(entry.KeyType),
	})
	if err != nil {
		return err
	}

	entry.store = store
	return nil
}

func (d *Dictionary) Create(entry *StoreEntry) (*StoreEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, exist := d.stores.Get(&StoreEntry{ID: entry.ID})
	if exist {
		return nil, ErrStoreAlreadyExists
	}

	if err := d.open(entry); err != nil {
		return nil, err
	}

	d.stores.ReplaceOrInsert(entry)

	if err := d.saveCatalog(); err != nil {
		// The entry would vanish on restart anyway, so roll it back now
		// instead of leaving a registered store the catalog knows nothing
		// about.
		d.stores.Delete(entry)
		entry.store.Close()
		entry.store = nil
		return nil, err
	}

	return entry, nil
}

func (d *Dictionary) Get(id uint64) (*StoreEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, exist := d.stores.Get(&StoreEntry{ID: id})
	if !exist {
		return nil, ErrStoreNotFound
	}

	return entry, nil
}

// Drop destroys the store: the entry leaves the catalog and the backing
// file is deleted from disk.
func (d *Dictionary) Drop(id uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, exist := d.stores.Get(&StoreEntry{ID: id})
	if !exist {
		return ErrStoreNotFound
	}

	// The entry leaves the registry even when teardown fails: its handle is
	// closed by then, so keeping it addressable would only produce
	// closed-file errors on every later operation.
	destroyErr := entry.store.Destroy()
	d.stores.Delete(entry)

	if err := d.saveCatalog(); err != nil {
		return err
	}

	return destroyErr
}

// List returns the catalogued entries in ascending id order.
func (d *Dictionary) List() []*StoreEntry {
	d.mu.Lock()
	defer d.mu.Unlock()

	result := []*StoreEntry{}
	d.stores.Ascend(func(entry *StoreEntry) bool {
		result = append(result, entry)
		return true
	})

	return result
}

func (d *Dictionary) Start() error {

	go d.Load()

	<-d.exit

	return nil
}

// Stop closes every open store, keeping their files on disk.
func (d *Dictionary) Stop() error {

	defer close(d.exit)

	d.status = StatusClosing

	d.mu.Lock()
	defer d.mu.Unlock()

	var lastErr error
	d.stores.Ascend(func(entry *StoreEntry) bool {
		err := entry.store.Close()
		if err != nil {
			fmt.Printf("ERROR: close store %d: %s\n", entry.ID, err.Error())
			lastErr = err
		}
		return true
	})

	return lastErr
}

// saveCatalog rewrites the catalog file. Callers hold d.mu.
func (d *Dictionary) saveCatalog() error {

	entries := []*StoreEntry{}
	d.stores.Ascend(func(entry *StoreEntry) bool {
		entries = append(entries, entry)
		return true
	})

	filename := path.Join(d.config.Dir, CatalogFilename)
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open catalog for write: %w", err)
	}

	e := json.NewEncoder(f)
	e.SetIndent("", "    ")
	if err := e.Encode(entries); err != nil {
		f.Close()
		return fmt.Errorf("encode catalog: %w", err)
	}

	return f.Close()
}

func readCatalog(filename string) ([]*StoreEntry, error) {

	f, err := os.Open(filename)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open catalog for read: %w", err)
	}
	defer f.Close()

	entries := []*StoreEntry{}
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	return entries, nil
}
