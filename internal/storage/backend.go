// Package storage implements the durable slot the todo store persists to.
//
// A backend is a single key-value slot: one opaque payload, replaced
// wholesale on every save. There is no cross-process locking; two
// processes writing the same slot race and the last save wins.
package storage

// Backend is the persistence contract used by the todo store.
type Backend interface {
	// Load returns the stored payload, or (nil, nil) when nothing has
	// ever been saved.
	Load() ([]byte, error)

	// Save replaces the stored payload.
	Save(data []byte) error

	// Close releases any resources held by the backend.
	Close() error
}
