package storage

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// Well-known keys persisted by the client. Token and role are always
// written and cleared together.
const (
	KeyToken = "auth_token"
	KeyRole  = "user_role"
)

var ErrKeyNotFound = errors.New("storage: key not found")

// Store is a minimal string key-value store, the client-side analog of
// browser local storage.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(keys ...string) error
}

// FileStore keeps values in memory and mirrors every mutation to a
// JSON file so sessions survive restarts.
type FileStore struct {
	mu       sync.Mutex
	values   map[string]string
	dataFile string
}

func NewFileStore(dataFile string) (*FileStore, error) {
	st := &FileStore{
		values:   make(map[string]string),
		dataFile: dataFile,
	}
	if err := st.loadFromFile(); err != nil {
		if _, err := os.Create(dataFile); err != nil {
			return st, err
		}
	}
	return st, nil
}

func (st *FileStore) loadFromFile() error {
	file, err := os.Open(st.dataFile)
	if err != nil {
		return err
	}
	defer file.Close()

	values := make(map[string]string)
	if err := json.NewDecoder(file).Decode(&values); err != nil {
		return err
	}
	st.values = values
	return nil
}

func (st *FileStore) saveToFile() error {
	file, err := os.Create(st.dataFile)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(st.values)
}

func (st *FileStore) Get(key string) (string, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	v, ok := st.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (st *FileStore) Set(key, value string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.values[key] = value
	return st.saveToFile()
}

func (st *FileStore) Delete(keys ...string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, key := range keys {
		delete(st.values, key)
	}
	return st.saveToFile()
}

// MemoryStore is a volatile Store used in tests and as a fallback when
// no storage file is configured.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (st *MemoryStore) Get(key string) (string, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	v, ok := st.values[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (st *MemoryStore) Set(key, value string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.values[key] = value
	return nil
}

func (st *MemoryStore) Delete(keys ...string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, key := range keys {
		delete(st.values, key)
	}
	return nil
}
