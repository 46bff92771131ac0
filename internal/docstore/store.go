// Package docstore persists named JSON documents whole. Two backends exist:
// a local-disk store and an S3-compatible object store. Both seed a missing
// document exactly once from a caller-provided default.
package docstore

import "context"

// Store is the whole-document persistence contract. Load returns the stored
// bytes for name, writing seed first if no document exists yet. Save
// replaces the document outright; callers assemble the full document in
// memory before writing, so a failed save never leaves a partial document.
type Store interface {
	Load(ctx context.Context, name string, seed []byte) ([]byte, error)
	Save(ctx context.Context, name string, doc []byte) error
}
