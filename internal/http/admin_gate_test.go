package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tokhel/ink/internal/auth"
	"github.com/tokhel/ink/internal/catalog"
	"github.com/tokhel/ink/internal/catalog/memorystore"
	"github.com/tokhel/ink/internal/config"
	"github.com/tokhel/ink/internal/entities"
	"github.com/tokhel/ink/internal/pagecache"
)

const (
	testAdminEmail    = "author@tokhel.ink"
	testAdminPassword = "correct-horse-battery"
)

func newSessionRouter(t *testing.T, store catalog.Store) *routerFixture {
	t.Helper()

	hash, err := auth.HashPassword(testAdminPassword, 4)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	authCfg := config.Auth{
		AdminEmail:        testAdminEmail,
		AdminPasswordHash: hash,
		SessionsDBPath:    filepath.Join(t.TempDir(), "sessions.db"),
		SessionLifetime:   time.Hour,
	}

	sessions, err := auth.NewSessionManager(authCfg)
	if err != nil {
		t.Fatalf("creating session manager: %v", err)
	}
	t.Cleanup(func() { sessions.Close() })

	authService := auth.NewService(authCfg)
	svc := catalog.NewService(store, nil, nil, nil)

	router := NewRouter(RouterConfig{
		Catalog:        svc,
		Store:          store,
		AuthService:    authService,
		AuthController: auth.NewController(authService, sessions),
		AuthMiddleware: auth.NewMiddleware(authService, sessions),
		SessionManager: sessions,
		TemplatesPath:  writeTestTemplates(t),
		StaticPath:     t.TempDir(),
		Version:        "test",
	})

	return &routerFixture{router: router}
}

type routerFixture struct {
	router http.Handler
	cookie *http.Cookie
}

func (f *routerFixture) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if f.cookie != nil {
		req.AddCookie(f.cookie)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	for _, c := range rec.Result().Cookies() {
		if c.Name == "tokhel-ink-session" {
			if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
				f.cookie = nil
			} else {
				f.cookie = c
			}
		}
	}
	return rec
}

func (f *routerFixture) login(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	return f.do(http.MethodPost, "/login", url.Values{
		"email":    {email},
		"password": {password},
	})
}

func TestAdminPanelRequiresSession(t *testing.T) {
	fixture := newSessionRouter(t, memorystore.New())

	rec := fixture.do(http.MethodGet, "/admin", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("GET /admin status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login") {
		t.Errorf("unauthenticated /admin redirect = %q, want /login", loc)
	}

	rec = fixture.do(http.MethodPost, "/admin/novels", url.Values{"title": {"x"}, "quote": {"y"}})
	if rec.Code != http.StatusFound {
		t.Errorf("POST /admin/novels status = %d, want 302 redirect to login", rec.Code)
	}
}

func TestLoginLogoutFlow(t *testing.T) {
	store := memorystore.New()
	seedNovels(t, store)
	fixture := newSessionRouter(t, store)

	// Wrong password stays on the login page with the generic message.
	rec := fixture.login(t, testAdminEmail, "wrong-password-here")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("failed login status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "البريد الإلكتروني أو كلمة المرور غير صحيحة.") {
		t.Error("failed login does not show the invalid credentials message")
	}

	// Correct credentials land on the dashboard.
	rec = fixture.login(t, testAdminEmail, testAdminPassword)
	if rec.Code != http.StatusFound {
		t.Fatalf("login status = %d, want 302", rec.Code)
	}
	if fixture.cookie == nil {
		t.Fatal("no session cookie issued after login")
	}

	rec = fixture.do(http.MethodGet, "/admin", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /admin after login status = %d, want 200", rec.Code)
	}

	// Mutations work with the session.
	rec = fixture.do(http.MethodPost, "/admin/novels", url.Values{
		"title":       {"رواية محمية"},
		"quote":       {"اقتباس"},
		"description": {"وصف"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("authenticated create status = %d, want 303", rec.Code)
	}

	// Logout closes the door again.
	rec = fixture.do(http.MethodPost, "/logout", nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("logout status = %d, want 302", rec.Code)
	}

	rec = fixture.do(http.MethodGet, "/admin", nil)
	if rec.Code != http.StatusFound {
		t.Errorf("GET /admin after logout status = %d, want 302 to login", rec.Code)
	}
}

// countingStore counts List calls so cache hits are observable.
type countingStore struct {
	catalog.Store
	lists atomic.Int64
}

func (s *countingStore) List(ctx context.Context) ([]entities.Novel, error) {
	s.lists.Add(1)
	return s.Store.List(ctx)
}

func TestPageCacheInvalidatedByWrites(t *testing.T) {
	store := &countingStore{Store: memorystore.New()}
	seedNovels(t, store)

	cache := pagecache.New(time.Hour)
	svc := catalog.NewService(store, nil, nil, cache)
	router := NewRouter(RouterConfig{
		Catalog:       svc,
		Store:         store,
		PageCache:     cache,
		TemplatesPath: writeTestTemplates(t),
		StaticPath:    t.TempDir(),
		Version:       "test",
	})

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := get("/novels"); rec.Code != http.StatusOK {
		t.Fatalf("GET /novels status = %d, want 200", rec.Code)
	}
	after := store.lists.Load()

	// Second read is served from cache, no store access.
	if rec := get("/novels"); rec.Code != http.StatusOK {
		t.Fatalf("cached GET /novels status = %d, want 200", rec.Code)
	}
	if store.lists.Load() != after {
		t.Errorf("cached read hit the store %d extra times", store.lists.Load()-after)
	}

	// A write invalidates the cached page.
	novels, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("listing store: %v", err)
	}
	rec := postForm(router, "/admin/novels/"+novels[0].ID+"/edit", url.Values{
		"title":       {"عنوان معدل"},
		"quote":       {novels[0].Quote},
		"description": {novels[0].Description},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("edit status = %d, want 303", rec.Code)
	}

	before := store.lists.Load()
	rec = get("/novels")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /novels after edit status = %d, want 200", rec.Code)
	}
	if store.lists.Load() == before {
		t.Error("read after write did not go back to the store")
	}
	if !strings.Contains(rec.Body.String(), "عنوان معدل") {
		t.Error("page after invalidation does not show the edited title")
	}
}
