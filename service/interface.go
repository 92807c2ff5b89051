package service

import (
	"github.com/fulldump/flatfiledb/dictionary"
	"github.com/fulldump/flatfiledb/flatfile"
)

// Errors the API layer branches on, re-exported so handlers only need to
// know about the service.
var (
	ErrStoreNotFound      = dictionary.ErrStoreNotFound
	ErrStoreAlreadyExists = dictionary.ErrStoreAlreadyExists
	ErrItemNotFound       = flatfile.ErrItemNotFound
)

type CreateStoreRequest struct {
	ID         uint64 `json:"id"`
	KeyType    string `json:"key_type"`
	KeySize    int    `json:"key_size"`
	ValueSize  int    `json:"value_size"`
	BufferRows int    `json:"buffer_rows"`
}

type StoreInfo struct {
	ID         uint64 `json:"id"`
	KeyType    string `json:"key_type"`
	KeySize    int    `json:"key_size"`
	ValueSize  int    `json:"value_size"`
	BufferRows int    `json:"buffer_rows"`
	Rows       int64  `json:"rows"`
	Records    int64  `json:"records"`
}

type Record struct {
	Index int64  `json:"index"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Servicer interface {
	CreateStore(request *CreateStoreRequest) (*StoreInfo, error)
	GetStore(id uint64) (*StoreInfo, error)
	ListStores() ([]*StoreInfo, error)
	DropStore(id uint64) error

	Insert(id uint64, key, value string) (int, error)
	Get(id uint64, key string) (string, error)
	Update(id uint64, key, value string) (int, error)
	Delete(id uint64, key string) (int, error)
	Records(id uint64, f func(record *Record) bool) error
}
