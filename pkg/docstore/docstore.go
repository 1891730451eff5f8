// Package docstore persists dumped parser documents under stable
// references with optimistic concurrency control. It is the storage
// seam for tooling that keeps CLI contracts versioned over time.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-argdoc"
	"github.com/goliatone/go-argdoc/codec"
	"github.com/goliatone/go-argdoc/schema/jsonschema"
)

var ErrETagMismatch = errors.New("docstore: etag mismatch")

// Ref identifies one stored document revision. Version is optional; an
// empty version addresses the unversioned head revision.
type Ref struct {
	Prog    string
	Version string
}

// Identifier returns the deterministic storage key for the reference.
func (r Ref) Identifier() (string, error) {
	prog := strings.TrimSpace(r.Prog)
	if prog == "" {
		return "", fmt.Errorf("docstore: prog is required")
	}
	if strings.ContainsAny(prog, "@/") {
		return "", fmt.Errorf("docstore: prog %q must not contain %q or %q", prog, "@", "/")
	}
	if r.Version == "" {
		return prog, nil
	}
	return fmt.Sprintf("%s@%s", prog, r.Version), nil
}

// Meta is storage-owned metadata used for audit and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads and saves one document per reference.
type Store interface {
	Load(ctx context.Context, ref Ref) (doc *argdoc.Document, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, doc *argdoc.Document, meta Meta) (Meta, error)
	List(ctx context.Context) ([]Ref, error)
}

// Mutator edits one document in place.
type Mutator func(*argdoc.Document) error

// Catalog orchestrates validated publishes and guarded edits on top of
// an arbitrary Store.
type Catalog struct {
	Store Store
}

// Publish validates doc against the wire contract and saves it.
func (c Catalog) Publish(ctx context.Context, ref Ref, doc *argdoc.Document, meta Meta) (Meta, error) {
	if c.Store == nil {
		return Meta{}, fmt.Errorf("docstore: store is required")
	}
	if err := validateDocument(doc); err != nil {
		return Meta{}, err
	}
	savedMeta, err := c.Store.Save(ctx, ref, doc, meta)
	if err != nil {
		return Meta{}, fmt.Errorf("docstore: save %q: %w", ref.Prog, err)
	}
	return savedMeta, nil
}

// Mutate loads one document, applies fn, validates, then saves. When
// meta carries an ETag it must match the stored revision or the edit is
// rejected with ErrETagMismatch.
func (c Catalog) Mutate(ctx context.Context, ref Ref, meta Meta, fn Mutator) (*argdoc.Document, Meta, error) {
	if c.Store == nil {
		return nil, Meta{}, fmt.Errorf("docstore: store is required")
	}
	if fn == nil {
		return nil, Meta{}, fmt.Errorf("docstore: mutator is required")
	}

	doc, loadedMeta, ok, err := c.Store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("docstore: load %q: %w", ref.Prog, err)
	}
	if !ok || doc == nil {
		doc = &argdoc.Document{SchemaVersion: argdoc.SchemaVersion}
		loadedMeta = Meta{}
	}

	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return nil, loadedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}

	if err := fn(doc); err != nil {
		return nil, loadedMeta, err
	}
	if err := validateDocument(doc); err != nil {
		return nil, loadedMeta, err
	}

	saveMeta := mergeMeta(loadedMeta, meta)
	savedMeta, err := c.Store.Save(ctx, ref, doc, saveMeta)
	if err != nil {
		return nil, loadedMeta, fmt.Errorf("docstore: save %q: %w", ref.Prog, err)
	}
	return doc, savedMeta, nil
}

func validateDocument(doc *argdoc.Document) error {
	raw, err := codec.CompactJSON().Marshal(doc)
	if err != nil {
		return fmt.Errorf("docstore: encode document: %w", err)
	}
	if err := jsonschema.ValidateBytes(raw); err != nil {
		return fmt.Errorf("docstore: invalid document: %w", err)
	}
	return nil
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
