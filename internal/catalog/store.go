package catalog

import (
	"context"
	"errors"

	"github.com/tokhel/ink/internal/entities"
)

// Field names understood by every store adapter. They match the persisted
// wire shape of a novel record.
const (
	FieldTitle       = "title"
	FieldQuote       = "quote"
	FieldDescription = "description"
	FieldIsFeatured  = "isFeatured"
)

// ErrNotFound is returned by store adapters when the referenced record does
// not exist.
var ErrNotFound = errors.New("novel not found")

// Fields is a partial update: wire field name to new value.
type Fields map[string]any

// BatchUpdate is one element of an atomic multi-record update.
type BatchUpdate struct {
	ID     string
	Fields Fields
}

// Store is the catalog persistence boundary. Adapters exist for Firestore
// (hosted), GORM/SQLite (self-hosted) and an in-memory map (tests, local dev).
//
// List returns all novels ordered by isFeatured descending, then releaseDate
// descending. ApplyBatch commits every update as a single indivisible unit:
// either all updates are observable afterwards, or none are.
type Store interface {
	List(ctx context.Context) ([]entities.Novel, error)
	Get(ctx context.Context, id string) (*entities.Novel, error)
	Insert(ctx context.Context, n *entities.Novel) (string, error)
	Update(ctx context.Context, id string, fields Fields) error
	Delete(ctx context.Context, id string) error
	ApplyBatch(ctx context.Context, updates []BatchUpdate) error
}
