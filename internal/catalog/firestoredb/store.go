// Package firestoredb is the Cloud Firestore catalog store, the hosted
// document database the production site runs on. The featured-flag batch is
// committed inside a Firestore transaction, which applies it as one unit or
// not at all.
package firestoredb

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/tokhel/ink/internal/catalog"
	"github.com/tokhel/ink/internal/entities"
)

// DefaultCollection is the collection name used by the production project.
const DefaultCollection = "novels"

type Store struct {
	client     *firestore.Client
	collection string
}

var _ catalog.Store = (*Store)(nil)

// New verifies connectivity with an empty transaction and returns the store.
func New(ctx context.Context, client *firestore.Client, collection string) (*Store, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	err := client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("firestoredb: could not connect: %w", err)
	}
	return &Store{client: client, collection: collection}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) List(ctx context.Context) ([]entities.Novel, error) {
	novels := make([]entities.Novel, 0)
	iter := s.client.Collection(s.collection).
		OrderBy("isFeatured", firestore.Desc).
		OrderBy("releaseDate", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestoredb: list novels: %w", err)
		}
		var n entities.Novel
		if err := doc.DataTo(&n); err != nil {
			return nil, fmt.Errorf("firestoredb: decode novel %s: %w", doc.Ref.ID, err)
		}
		n.ID = doc.Ref.ID
		novels = append(novels, n)
	}
	return novels, nil
}

func (s *Store) Get(ctx context.Context, id string) (*entities.Novel, error) {
	doc, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("firestoredb: get novel %s: %w", id, err)
	}
	var n entities.Novel
	if err := doc.DataTo(&n); err != nil {
		return nil, fmt.Errorf("firestoredb: decode novel %s: %w", id, err)
	}
	n.ID = doc.Ref.ID
	return &n, nil
}

func (s *Store) Insert(ctx context.Context, n *entities.Novel) (string, error) {
	ref := s.client.Collection(s.collection).NewDoc()
	n.ID = ref.ID
	if _, err := ref.Create(ctx, n); err != nil {
		return "", fmt.Errorf("firestoredb: create novel: %w", err)
	}
	return ref.ID, nil
}

func (s *Store) Update(ctx context.Context, id string, fields catalog.Fields) error {
	_, err := s.client.Collection(s.collection).Doc(id).Update(ctx, toUpdates(fields))
	if status.Code(err) == codes.NotFound {
		return catalog.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("firestoredb: update novel %s: %w", id, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	// Firestore deletes are idempotent; the existence precondition makes a
	// missing id observable so the caller can report it.
	_, err := s.client.Collection(s.collection).Doc(id).Delete(ctx, firestore.Exists)
	if status.Code(err) == codes.NotFound || status.Code(err) == codes.FailedPrecondition {
		return catalog.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("firestoredb: delete novel %s: %w", id, err)
	}
	return nil
}

func (s *Store) ApplyBatch(ctx context.Context, updates []catalog.BatchUpdate) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		for _, u := range updates {
			ref := s.client.Collection(s.collection).Doc(u.ID)
			if err := t.Update(ref, toUpdates(u.Fields)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("firestoredb: batch update: %w", err)
	}
	return nil
}

func toUpdates(fields catalog.Fields) []firestore.Update {
	ups := make([]firestore.Update, 0, len(fields))
	for k, v := range fields {
		ups = append(ups, firestore.Update{Path: k, Value: v})
	}
	return ups
}
