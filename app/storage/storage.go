package storage

import (
	"errors"
)

// ErrQuotaExceeded is reported when a write would push a key's value
// past the configured storage quota. The device-local store the
// application mirrors into is size-bounded, so writes can fail.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Store is the persistent key-value byte store the record collections
// are mirrored into. Implementations are synchronous and process-local.
type Store interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Stats() (keys int, bytes int64, err error)
}
