package catalog_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokhel/ink/internal/catalog"
	"github.com/tokhel/ink/internal/catalog/memorystore"
	"github.com/tokhel/ink/internal/entities"
)

type fakeSummarizer struct {
	summary   string
	err       error
	calls     int
	exemplars []string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, content string, exemplars []string) (string, error) {
	f.calls++
	f.exemplars = exemplars
	if f.err != nil {
		return "", f.err
	}
	return f.summary, nil
}

type fakeFileStore struct {
	mu   sync.Mutex
	urls map[string]string
	err  error
}

func (f *fakeFileStore) Put(ctx context.Context, pathHint, contentType string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	url := "https://files.example/" + pathHint
	f.urls[pathHint] = url
	return url, nil
}

type recordingInvalidator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingInvalidator) Invalidate(paths ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, paths...)
}

// failingStore simulates an unreachable catalog store.
type failingStore struct{}

var errStoreDown = errors.New("store unavailable")

func (failingStore) List(context.Context) ([]entities.Novel, error)       { return nil, errStoreDown }
func (failingStore) Get(context.Context, string) (*entities.Novel, error) { return nil, errStoreDown }
func (failingStore) Insert(context.Context, *entities.Novel) (string, error) {
	return "", errStoreDown
}
func (failingStore) Update(context.Context, string, catalog.Fields) error { return errStoreDown }
func (failingStore) Delete(context.Context, string) error                 { return errStoreDown }
func (failingStore) ApplyBatch(context.Context, []catalog.BatchUpdate) error {
	return errStoreDown
}

func newTestService(t *testing.T) (*catalog.Service, *memorystore.Store, *fakeSummarizer, *recordingInvalidator) {
	t.Helper()
	store := memorystore.New()
	summarizer := &fakeSummarizer{summary: "ملخص من ثلاثة أسطر"}
	invalidator := &recordingInvalidator{}
	svc := catalog.NewService(store, &fakeFileStore{urls: map[string]string{}}, summarizer, invalidator)
	return svc, store, summarizer, invalidator
}

func TestCreate_EmptyTitleIsValidationError(t *testing.T) {
	svc, store, _, invalidator := newTestService(t)

	_, err := svc.Create(context.Background(), catalog.CreateInput{Title: "  ", Quote: "اقتباس"})

	ve, ok := catalog.AsValidationError(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	assert.Contains(t, ve.Fields, "title")

	novels, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, novels, "no record may be written on validation failure")
	assert.Empty(t, invalidator.paths, "no invalidation on failure")
}

func TestCreate_EmptyQuoteIsValidationError(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), catalog.CreateInput{Title: "عنوان"})

	ve, ok := catalog.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "quote")
}

func TestCreate_UsesExplicitDescription(t *testing.T) {
	svc, _, summarizer, _ := newTestService(t)

	novel, err := svc.Create(context.Background(), catalog.CreateInput{
		Title:        "عنوان",
		Quote:        "اقتباس",
		Description:  "وصف صريح",
		NovelContent: "نص الرواية الكامل",
	})
	require.NoError(t, err)

	assert.Equal(t, "وصف صريح", novel.Description)
	assert.Zero(t, summarizer.calls, "explicit description must not invoke the summarizer")
}

func TestCreate_SummarizesContent(t *testing.T) {
	svc, store, summarizer, _ := newTestService(t)

	// An existing novel provides the tonal exemplar.
	_, err := store.Insert(context.Background(), &entities.Novel{Title: "أ", Quote: "ق", Description: "وصف قائم"})
	require.NoError(t, err)

	novel, err := svc.Create(context.Background(), catalog.CreateInput{
		Title:        "عنوان",
		Quote:        "اقتباس",
		NovelContent: "نص الرواية الكامل",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summarizer.calls)
	assert.Equal(t, "ملخص من ثلاثة أسطر", novel.Description, "summary persists verbatim")
	assert.Equal(t, []string{"وصف قائم"}, summarizer.exemplars)
}

func TestCreate_SummarizerFailureAbortsCreate(t *testing.T) {
	store := memorystore.New()
	summarizer := &fakeSummarizer{err: errors.New("model overloaded")}
	svc := catalog.NewService(store, nil, summarizer, nil)

	_, err := svc.Create(context.Background(), catalog.CreateInput{
		Title:        "عنوان",
		Quote:        "اقتباس",
		NovelContent: "نص",
	})
	require.Error(t, err)

	novels, _ := store.List(context.Background())
	assert.Empty(t, novels)
}

func TestCreate_FallsBackToPlaceholderDescription(t *testing.T) {
	svc, _, summarizer, _ := newTestService(t)

	novel, err := svc.Create(context.Background(), catalog.CreateInput{Title: "X", Quote: "Y"})
	require.NoError(t, err)

	assert.Equal(t, catalog.PlaceholderDescription, novel.Description)
	assert.False(t, novel.IsFeatured, "new novels are never featured")
	assert.Zero(t, summarizer.calls)
}

func TestCreate_StoresAttachmentsBeforeInsert(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	novel, err := svc.Create(context.Background(), catalog.CreateInput{
		Title: "عنوان",
		Quote: "اقتباس",
		Cover: &catalog.Upload{Filename: "cover.jpg", ContentType: "image/jpeg", Data: strings.NewReader("img")},
		PDF:   &catalog.Upload{Filename: "book.pdf", ContentType: "application/pdf", Data: strings.NewReader("pdf")},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://files.example/covers/cover.jpg", novel.CoverImage)
	assert.Equal(t, "https://files.example/novels/book.pdf", novel.PdfURL)

	stored, err := store.Get(context.Background(), novel.ID)
	require.NoError(t, err)
	assert.Equal(t, novel.CoverImage, stored.CoverImage)
}

func TestCreate_UploadFailureLeavesCatalogUntouched(t *testing.T) {
	store := memorystore.New()
	files := &fakeFileStore{urls: map[string]string{}, err: errors.New("bucket gone")}
	svc := catalog.NewService(store, files, nil, nil)

	_, err := svc.Create(context.Background(), catalog.CreateInput{
		Title: "عنوان",
		Quote: "اقتباس",
		Cover: &catalog.Upload{Filename: "cover.jpg", ContentType: "image/jpeg", Data: strings.NewReader("img")},
	})
	require.ErrorIs(t, err, catalog.ErrUpload)

	novels, _ := store.List(context.Background())
	assert.Empty(t, novels)
}

func TestEdit_UpdatesOnlyMutableFields(t *testing.T) {
	svc, store, _, _ := newTestService(t)

	id, err := store.Insert(context.Background(), &entities.Novel{
		Title:       "قديم",
		Quote:       "اقتباس قديم",
		Description: "وصف قديم",
		CoverImage:  "https://files.example/covers/old.jpg",
		PdfURL:      "https://files.example/novels/old.pdf",
		IsFeatured:  true,
	})
	require.NoError(t, err)

	err = svc.Edit(context.Background(), id, catalog.EditInput{
		Title:       "جديد",
		Quote:       "اقتباس جديد",
		Description: "وصف جديد",
	})
	require.NoError(t, err)

	got, err := store.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "جديد", got.Title)
	assert.Equal(t, "اقتباس جديد", got.Quote)
	assert.Equal(t, "وصف جديد", got.Description)
	assert.Equal(t, "https://files.example/covers/old.jpg", got.CoverImage)
	assert.Equal(t, "https://files.example/novels/old.pdf", got.PdfURL)
	assert.True(t, got.IsFeatured, "edit must not clear the featured flag")
}

func TestEdit_AllFieldsRequired(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	id, err := store.Insert(context.Background(), &entities.Novel{Title: "أ", Quote: "ق", Description: "و"})
	require.NoError(t, err)

	err = svc.Edit(context.Background(), id, catalog.EditInput{Title: "أ", Quote: "ق"})
	ve, ok := catalog.AsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "description")
}

func TestEdit_MissingIDSurfacesNotFound(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	err := svc.Edit(context.Background(), "missing", catalog.EditInput{
		Title: "أ", Quote: "ق", Description: "و",
	})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestDelete_RemovedFromListing(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	id, err := store.Insert(context.Background(), &entities.Novel{Title: "أ", Quote: "ق", Description: "و"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), id))

	for _, n := range svc.List(context.Background()) {
		assert.NotEqual(t, id, n.ID)
	}
}

func TestDelete_MissingIDIsReportedNotFatal(t *testing.T) {
	svc, _, _, invalidator := newTestService(t)

	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
	assert.Empty(t, invalidator.paths)
}

func TestSetFeatured_AtMostOneFeatured(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, catalog.CreateInput{Title: "X", Quote: "Y"})
	require.NoError(t, err)

	require.NoError(t, svc.SetFeatured(ctx, a.ID))
	assertFeaturedCount(t, store, 1)

	b, err := svc.Create(ctx, catalog.CreateInput{Title: "ب", Quote: "ق"})
	require.NoError(t, err)
	assertFeaturedCount(t, store, 1)

	require.NoError(t, svc.SetFeatured(ctx, b.ID))
	assertFeaturedCount(t, store, 1)

	gotA, err := store.Get(ctx, a.ID)
	require.NoError(t, err)
	gotB, err := store.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, gotA.IsFeatured)
	assert.True(t, gotB.IsFeatured)
}

func TestSetFeatured_MissingIDIsNotFound(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, &entities.Novel{Title: "أ", Quote: "ق", Description: "و", IsFeatured: true})
	require.NoError(t, err)

	err = svc.SetFeatured(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrNotFound)

	// Prior state is untouched.
	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.IsFeatured)
}

func TestList_FeaturedFirstThenNewest(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()

	for _, n := range catalog.PlaceholderNovels() {
		novel := n
		novel.IsFeatured = false
		_, err := store.Insert(ctx, &novel)
		require.NoError(t, err)
	}
	require.NoError(t, svc.SetFeatured(ctx, "4"))

	got := svc.List(ctx)
	require.Len(t, got, 4)
	assert.Equal(t, "4", got[0].ID, "featured novel sorts first")
	// Remaining novels newest first.
	assert.Equal(t, "1", got[1].ID)
	assert.Equal(t, "2", got[2].ID)
	assert.Equal(t, "3", got[3].ID)
}

func TestList_StoreFailureServesPlaceholders(t *testing.T) {
	svc := catalog.NewService(failingStore{}, nil, nil, nil)

	got := svc.List(context.Background())
	assert.Equal(t, catalog.PlaceholderNovels(), got)
}

func TestWrites_InvalidatePublicPages(t *testing.T) {
	svc, _, _, invalidator := newTestService(t)

	novel, err := svc.Create(context.Background(), catalog.CreateInput{Title: "X", Quote: "Y"})
	require.NoError(t, err)

	assert.Equal(t, []string{"/", "/novels", "/admin"}, invalidator.paths)

	invalidator.paths = nil
	require.NoError(t, svc.SetFeatured(context.Background(), novel.ID))
	assert.Equal(t, []string{"/", "/novels", "/admin"}, invalidator.paths)
}

func assertFeaturedCount(t *testing.T, store *memorystore.Store, want int) {
	t.Helper()
	novels, err := store.List(context.Background())
	require.NoError(t, err)
	count := 0
	for _, n := range novels {
		if n.IsFeatured {
			count++
		}
	}
	assert.Equal(t, want, count, "featured invariant violated")
}
