package entity

import "context"

// Repository is the only component allowed to mutate persisted records.
//
// Delete returns an error wrapping ErrReferentialIntegrity when dependent
// records still reference the entity; callers treat that as an expected,
// recoverable outcome. Update and Delete return ErrNotFound for unknown IDs.
type Repository interface {
	Find(ctx context.Context, filter Filter) ([]Entity, error)
	Create(ctx context.Context, data NewEntity) (*Entity, error)
	Update(ctx context.Context, id int64, data Update) (*Entity, error)
	Delete(ctx context.Context, id int64) error
}

// FileStore is the destination asset store. Both operations are idempotent
// from the engine's point of view.
type FileStore interface {
	Exists(name string) (bool, error)
	Copy(source, name string) error
	// Ref returns the reference recorded on an entity for a stored file.
	Ref(name string) string
}
