// Package storage provides the key/value backends the editor autosaves to.
//
// The editor keeps one serialized graph under one key, the way a browser
// editor keeps it in local storage. Backends differ only in where the bytes
// live:
//   - [Memory]: in process, for tests and throwaway sessions
//   - [File]: one JSON file per key under the user's data directory
//   - redis: a Redis server (subpackage redis)
//   - mongo: a MongoDB collection (subpackage mongo)
//   - sqlite: a local SQLite database (subpackage sqlite)
//
// # Usage
//
//	st, err := storage.NewFile("")
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	data, found, err := st.Get(ctx, "data-lineage-flow")
package storage

import (
	"context"
	"strings"

	"github.com/matzehuels/lineageflow/pkg/errors"
)

// Store is a byte-oriented key/value store.
type Store interface {
	// Get returns the value for key and true, or false when the key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// ValidateKey rejects keys that are empty or could escape a directory when
// used as a file name.
func ValidateKey(key string) error {
	if key == "" {
		return errors.New(errors.ErrCodeInvalidInput, "storage key cannot be empty")
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") || strings.ContainsRune(key, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid storage key %q", key)
	}
	return nil
}
