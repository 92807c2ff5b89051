package service

import (
	"strconv"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/fulldump/flatfiledb/dictionary"
	"github.com/fulldump/flatfiledb/flatfile"
)

type Service struct {
	dict *dictionary.Dictionary

	// values holds a read-through cache of Get results. Every mutation of
	// a key invalidates its entry, so the cache never outlives the data.
	values *ristretto.Cache[string, string]
}

func NewService(dict *dictionary.Dictionary) *Service {

	values, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters: 100_000,
		MaxCost:     16 * 1024 * 1024,
		BufferItems: 64,
	})
	if err != nil {
		// The configuration is constant, NewCache cannot reject it.
		panic(err)
	}

	return &Service{
		dict:   dict,
		values: values,
	}
}

func (s *Service) Close() {
	s.values.Close()
}

func (s *Service) CreateStore(request *CreateStoreRequest) (*StoreInfo, error) {

	keyType, err := dictionary.ParseKeyType(request.KeyType)
	if err != nil {
		return nil, err
	}

	entry, err := s.dict.Create(&dictionary.StoreEntry{
		ID:         request.ID,
		KeyType:    keyType,
		KeySize:    request.KeySize,
		ValueSize:  request.ValueSize,
		BufferRows: request.BufferRows,
	})
	if err != nil {
		return nil, err
	}

	return storeInfo(entry)
}

func (s *Service) GetStore(id uint64) (*StoreInfo, error) {

	entry, err := s.dict.Get(id)
	if err != nil {
		return nil, err
	}

	return storeInfo(entry)
}

func (s *Service) ListStores() ([]*StoreInfo, error) {

	result := []*StoreInfo{}
	for _, entry := range s.dict.List() {
		info, err := storeInfo(entry)
		if err != nil {
			return nil, err
		}
		result = append(result, info)
	}

	return result, nil
}

func (s *Service) DropStore(id uint64) error {
	return s.dict.Drop(id)
}

func (s *Service) Insert(id uint64, key, value string) (int, error) {

	entry, rawKey, err := s.encodeKey(id, key)
	if err != nil {
		return 0, err
	}

	rawValue, err := dictionary.EncodeValue(entry.ValueSize, value)
	if err != nil {
		return 0, err
	}

	// An insert can land in a slot before an existing duplicate, changing
	// what a Get of this key returns.
	s.invalidate(id, key)

	return entry.Store().Insert(rawKey, rawValue)
}

func (s *Service) Get(id uint64, key string) (string, error) {

	if value, exist := s.values.Get(cacheKey(id, key)); exist {
		return value, nil
	}

	entry, rawKey, err := s.encodeKey(id, key)
	if err != nil {
		return "", err
	}

	rawValue := make([]byte, entry.ValueSize)
	if _, err := entry.Store().Get(rawKey, rawValue); err != nil {
		return "", err
	}

	value := dictionary.DecodeValue(rawValue)
	s.values.Set(cacheKey(id, key), value, int64(len(value)))

	return value, nil
}

func (s *Service) Update(id uint64, key, value string) (int, error) {

	entry, rawKey, err := s.encodeKey(id, key)
	if err != nil {
		return 0, err
	}

	rawValue, err := dictionary.EncodeValue(entry.ValueSize, value)
	if err != nil {
		return 0, err
	}

	s.invalidate(id, key)

	return entry.Store().Update(rawKey, rawValue)
}

func (s *Service) Delete(id uint64, key string) (int, error) {

	entry, rawKey, err := s.encodeKey(id, key)
	if err != nil {
		return 0, err
	}

	s.invalidate(id, key)

	return entry.Store().Delete(rawKey)
}

func (s *Service) Records(id uint64, f func(record *Record) bool) error {

	entry, err := s.dict.Get(id)
	if err != nil {
		return err
	}

	return entry.Store().Each(func(index int64, row flatfile.Row) bool {
		return f(&Record{
			Index: index,
			Key:   dictionary.DecodeKey(entry.KeyType, row.Key),
			Value: dictionary.DecodeValue(row.Value),
		})
	})
}

func (s *Service) encodeKey(id uint64, key string) (*dictionary.StoreEntry, []byte, error) {

	entry, err := s.dict.Get(id)
	if err != nil {
		return nil, nil, err
	}

	rawKey, err := dictionary.EncodeKey(entry.KeyType, entry.KeySize, key)
	if err != nil {
		return nil, nil, err
	}

	return entry, rawKey, nil
}

func (s *Service) invalidate(id uint64, key string) {
	s.values.Del(cacheKey(id, key))
	// Del is buffered, make it visible before the caller's next read.
	s.values.Wait()
}

func cacheKey(id uint64, key string) string {
	return strconv.FormatUint(id, 10) + ":" + key
}

func storeInfo(entry *dictionary.StoreEntry) (*StoreInfo, error) {

	rows, err := entry.Store().Rows()
	if err != nil {
		return nil, err
	}

	records := int64(0)
	err = entry.Store().Each(func(index int64, row flatfile.Row) bool {
		records++
		return true
	})
	if err != nil {
		return nil, err
	}

	return &StoreInfo{
		ID:         entry.ID,
		KeyType:    entry.KeyType.String(),
		KeySize:    entry.KeySize,
		ValueSize:  entry.ValueSize,
		BufferRows: entry.BufferRows,
		Rows:       rows,
		Records:    records,
	}, nil
}
