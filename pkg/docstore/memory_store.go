package docstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-argdoc"
	"github.com/goliatone/go-argdoc/codec"
)

// MemoryStore is a minimal in-memory Store implementation intended for
// tests and tooling. It assigns a fresh ETag and snapshot id on every
// save and keys records by Ref.Identifier().
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
}

type memoryRecord struct {
	ref  Ref
	doc  *argdoc.Document
	meta Meta
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]memoryRecord{}}
}

func (s *MemoryStore) Load(_ context.Context, ref Ref) (*argdoc.Document, Meta, bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return nil, Meta{}, false, err
	}

	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return nil, Meta{}, false, nil
	}
	return cloneDocument(record.doc), cloneMeta(record.meta), true, nil
}

func (s *MemoryStore) Save(_ context.Context, ref Ref, doc *argdoc.Document, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}

	saved := cloneMeta(meta)
	saved.ETag = uuid.NewString()
	if saved.SnapshotID == "" {
		saved.SnapshotID = uuid.NewString()
	}
	if saved.UpdatedAt.IsZero() {
		saved.UpdatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.records[key] = memoryRecord{ref: ref, doc: cloneDocument(doc), meta: cloneMeta(saved)}
	s.mu.Unlock()
	return saved, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Ref, error) {
	s.mu.RLock()
	keys := make([]string, 0, len(s.records))
	byKey := make(map[string]Ref, len(s.records))
	for key, record := range s.records {
		keys = append(keys, key)
		byKey[key] = record.ref
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	out := make([]Ref, 0, len(keys))
	for _, key := range keys {
		out = append(out, byKey[key])
	}
	return out, nil
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}

func cloneDocument(doc *argdoc.Document) *argdoc.Document {
	if doc == nil {
		return nil
	}
	raw, err := codec.CompactJSON().Marshal(doc)
	if err != nil {
		copied := *doc
		return &copied
	}
	out, err := codec.CompactJSON().Unmarshal(raw)
	if err != nil {
		copied := *doc
		return &copied
	}
	return out
}
