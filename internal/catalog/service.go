package catalog

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tokhel/ink/internal/entities"
)

// PlaceholderDescription is persisted when a novel is created with neither an
// explicit description nor content to summarize.
const PlaceholderDescription = "وصف الرواية سيُضاف قريبًا."

// Summarizer produces a short descriptive summary of a novel's full text.
// Exemplars are existing descriptions passed along for tonal consistency and
// may be empty.
type Summarizer interface {
	Summarize(ctx context.Context, novelContent string, exemplars []string) (string, error)
}

// FileStore persists a named byte blob and returns a durable retrieval URL.
type FileStore interface {
	Put(ctx context.Context, pathHint, contentType string, r io.Reader) (string, error)
}

// Invalidator receives invalidation signals for rendered public pages after a
// successful catalog write.
type Invalidator interface {
	Invalidate(paths ...string)
}

// Upload is an attachment supplied with a create request.
type Upload struct {
	Filename    string
	ContentType string
	Data        io.Reader
}

// CreateInput carries the fields of a create request. Description and
// NovelContent are both optional; Cover and PDF may be nil.
type CreateInput struct {
	Title        string
	Quote        string
	Description  string
	NovelContent string
	Cover        *Upload
	PDF          *Upload
}

// EditInput carries the three mutable fields of a novel. All are required.
type EditInput struct {
	Title       string
	Quote       string
	Description string
}

// Service orchestrates validation, summarization, file storage and catalog
// mutations. It holds no record state of its own; every read goes back to the
// store.
type Service struct {
	store       Store
	files       FileStore
	summarizer  Summarizer
	invalidator Invalidator
}

// invalidatedPaths are the public views that list novels; they are refreshed
// after every successful write.
var invalidatedPaths = []string{"/", "/novels", "/admin"}

func NewService(store Store, files FileStore, summarizer Summarizer, invalidator Invalidator) *Service {
	return &Service{
		store:       store,
		files:       files,
		summarizer:  summarizer,
		invalidator: invalidator,
	}
}

// List returns all novels, featured first, newest first among equals. When
// the store is unreachable it logs and serves the placeholder set instead of
// failing: the public site stays up at the cost of freshness.
func (s *Service) List(ctx context.Context) []entities.Novel {
	novels, err := s.store.List(ctx)
	if err != nil {
		log.Printf("catalog: list failed, serving placeholder set: %v", err)
		return PlaceholderNovels()
	}
	return novels
}

// Featured returns the currently featured novel, or nil if none is set.
func (s *Service) Featured(ctx context.Context) *entities.Novel {
	for _, n := range s.List(ctx) {
		if n.IsFeatured {
			return &n
		}
	}
	return nil
}

// Get fetches a single novel by id.
func (s *Service) Get(ctx context.Context, id string) (*entities.Novel, error) {
	return s.store.Get(ctx, id)
}

// Create validates the input, stores attachments, resolves the description
// and inserts the new record. Nothing is written to the catalog until every
// upload has succeeded.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entities.Novel, error) {
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields[FieldTitle] = "العنوان مطلوب."
	}
	if strings.TrimSpace(in.Quote) == "" {
		fields[FieldQuote] = "الاقتباس مطلوب."
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	coverURL, pdfURL, err := s.storeAttachments(ctx, in.Cover, in.PDF)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	description, err := s.resolveDescription(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("summarize description: %w", err)
	}

	novel := &entities.Novel{
		Title:       strings.TrimSpace(in.Title),
		Quote:       strings.TrimSpace(in.Quote),
		Description: description,
		CoverImage:  coverURL,
		PdfURL:      pdfURL,
		ReleaseDate: time.Now().UTC(),
		IsFeatured:  false,
	}

	id, err := s.store.Insert(ctx, novel)
	if err != nil {
		return nil, fmt.Errorf("insert novel: %w", err)
	}
	novel.ID = id

	s.invalidate()
	return novel, nil
}

// Edit updates the three mutable fields of an existing novel. It never
// touches the file URLs or the featured flag, and it does not re-invoke the
// summarizer.
func (s *Service) Edit(ctx context.Context, id string, in EditInput) error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields[FieldTitle] = "العنوان مطلوب."
	}
	if strings.TrimSpace(in.Quote) == "" {
		fields[FieldQuote] = "الاقتباس مطلوب."
	}
	if strings.TrimSpace(in.Description) == "" {
		fields[FieldDescription] = "الوصف مطلوب."
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	err := s.store.Update(ctx, id, Fields{
		FieldTitle:       strings.TrimSpace(in.Title),
		FieldQuote:       strings.TrimSpace(in.Quote),
		FieldDescription: strings.TrimSpace(in.Description),
	})
	if err != nil {
		return fmt.Errorf("update novel %s: %w", id, err)
	}

	s.invalidate()
	return nil
}

// Delete removes the record. Attached files are left in place. Deleting a
// missing id surfaces ErrNotFound; callers report it without failing the
// session.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete novel %s: %w", id, err)
	}
	s.invalidate()
	return nil
}

// SetFeatured marks the identified novel as featured and clears the flag on
// every other record, as one atomic batch. After a successful call exactly
// one novel is featured; a failed commit leaves the prior state intact, which
// is the store's atomicity guarantee, not re-implemented here. Concurrent
// callers race read-then-write; the last committed batch wins.
func (s *Service) SetFeatured(ctx context.Context, id string) error {
	novels, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("list novels: %w", err)
	}

	found := false
	updates := make([]BatchUpdate, 0, len(novels))
	for _, n := range novels {
		if n.ID == id {
			found = true
		}
		updates = append(updates, BatchUpdate{
			ID:     n.ID,
			Fields: Fields{FieldIsFeatured: n.ID == id},
		})
	}
	if !found {
		return fmt.Errorf("set featured %s: %w", id, ErrNotFound)
	}

	if err := s.store.ApplyBatch(ctx, updates); err != nil {
		return fmt.Errorf("apply featured batch: %w", err)
	}

	s.invalidate()
	return nil
}

// storeAttachments uploads the cover image and the PDF. The two uploads run
// concurrently; both must complete before the caller may touch the catalog.
func (s *Service) storeAttachments(ctx context.Context, cover, pdf *Upload) (coverURL, pdfURL string, err error) {
	if cover == nil && pdf == nil {
		return "", "", nil
	}
	if s.files == nil {
		return "", "", fmt.Errorf("no file store configured")
	}

	g, gctx := errgroup.WithContext(ctx)
	if cover != nil {
		g.Go(func() error {
			url, err := s.files.Put(gctx, "covers/"+cover.Filename, cover.ContentType, cover.Data)
			if err != nil {
				return fmt.Errorf("cover image: %w", err)
			}
			coverURL = url
			return nil
		})
	}
	if pdf != nil {
		g.Go(func() error {
			url, err := s.files.Put(gctx, "novels/"+pdf.Filename, pdf.ContentType, pdf.Data)
			if err != nil {
				return fmt.Errorf("novel pdf: %w", err)
			}
			pdfURL = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return coverURL, pdfURL, nil
}

// resolveDescription picks the description for a new novel: an explicit one
// wins, otherwise supplied content is summarized with the existing
// descriptions as style exemplars, otherwise the fixed placeholder is used.
func (s *Service) resolveDescription(ctx context.Context, in CreateInput) (string, error) {
	if desc := strings.TrimSpace(in.Description); desc != "" {
		return desc, nil
	}

	content := strings.TrimSpace(in.NovelContent)
	if content == "" {
		return PlaceholderDescription, nil
	}

	if s.summarizer == nil {
		log.Printf("catalog: novel content supplied but no summarizer configured, using placeholder description")
		return PlaceholderDescription, nil
	}

	existing, err := s.store.List(ctx)
	if err != nil {
		// Exemplars are a nicety; summarize without them.
		log.Printf("catalog: could not load exemplar descriptions: %v", err)
		existing = nil
	}
	exemplars := make([]string, 0, len(existing))
	for _, n := range existing {
		if n.Description != "" && n.Description != PlaceholderDescription {
			exemplars = append(exemplars, n.Description)
		}
	}

	return s.summarizer.Summarize(ctx, content, exemplars)
}

func (s *Service) invalidate() {
	if s.invalidator != nil {
		s.invalidator.Invalidate(invalidatedPaths...)
	}
}
