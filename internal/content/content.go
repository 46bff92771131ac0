// Package content manages the free-form site copy document edited from the
// admin panel. No shape is imposed beyond being a JSON object; the meta
// block is stamped on every save.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"coastline/api/internal/docstore"
)

const documentName = "content-data"

type Manager struct {
	store docstore.Store
	seed  []byte
	now   func() time.Time
}

func NewManager(store docstore.Store, seed []byte) *Manager {
	return &Manager{store: store, seed: seed, now: time.Now}
}

func (m *Manager) Get(ctx context.Context) (map[string]any, error) {
	data, err := m.store.Load(ctx, documentName, m.seed)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode content document: %w", err)
	}
	return doc, nil
}

// Put persists doc after rewriting meta.lastUpdated to now. Other meta
// fields the caller sent (version and anything else) are kept as-is.
func (m *Manager) Put(ctx context.Context, doc map[string]any) (map[string]any, error) {
	if doc == nil {
		return nil, fmt.Errorf("content document must be an object")
	}

	meta, _ := doc["meta"].(map[string]any)
	if meta == nil {
		meta = map[string]any{}
	}
	meta["lastUpdated"] = m.now().UTC().Format(time.RFC3339)
	doc["meta"] = meta

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode content document: %w", err)
	}
	if err := m.store.Save(ctx, documentName, data); err != nil {
		return nil, err
	}
	return doc, nil
}
