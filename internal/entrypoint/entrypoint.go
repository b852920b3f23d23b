package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"github.com/tokhel/ink/internal/auth"
	"github.com/tokhel/ink/internal/catalog"
	"github.com/tokhel/ink/internal/catalog/firestoredb"
	"github.com/tokhel/ink/internal/catalog/gormstore"
	"github.com/tokhel/ink/internal/catalog/memorystore"
	"github.com/tokhel/ink/internal/config"
	"github.com/tokhel/ink/internal/files"
	http_controllers "github.com/tokhel/ink/internal/http"
	"github.com/tokhel/ink/internal/pagecache"
	"github.com/tokhel/ink/internal/scheduler"
	"github.com/tokhel/ink/internal/summarize"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// BuildStore constructs the catalog store selected by STORE_BACKEND. The
// returned close func releases the backend connection and is safe to call
// once.
func BuildStore(ctx context.Context, cfg *config.Config) (catalog.Store, func() error, error) {
	switch cfg.Store.Backend {
	case config.StoreFirestore:
		if cfg.Store.FirestoreProject == "" {
			return nil, nil, fmt.Errorf("firestore backend requires FIRESTORE_PROJECT")
		}
		client, err := firestore.NewClient(ctx, cfg.Store.FirestoreProject)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to firestore: %w", err)
		}
		store, err := firestoredb.New(ctx, client, cfg.Store.FirestoreCollection)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		return store, client.Close, nil

	case config.StoreSQLite:
		store, err := gormstore.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite catalog: %w", err)
		}
		return store, store.Close, nil

	case config.StoreMemory:
		return memorystore.New(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// buildFileStore constructs the upload store selected by FILES_BACKEND.
func buildFileStore(ctx context.Context, cfg *config.Config) (catalog.FileStore, error) {
	switch cfg.Files.Backend {
	case config.FilesGCS:
		if cfg.Files.GCSBucket == "" {
			return nil, fmt.Errorf("gcs backend requires GCS_BUCKET")
		}
		return files.NewGCS(ctx, cfg.Files.GCSBucket)

	case config.FilesLocal:
		return files.NewLocal(cfg.Files.LocalDir, cfg.Files.BaseURL)

	default:
		return nil, fmt.Errorf("unknown files backend %q", cfg.Files.Backend)
	}
}

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts down
// gracefully within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires every component from configuration and serves until shutdown.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting tokhel-ink v%s", version)

	ctx := context.Background()

	store, closeStore, err := BuildStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize catalog store: %v", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("Error closing catalog store: %v", err)
		}
	}()
	log.Printf("Catalog store: %s", cfg.Store.Backend)

	fileStore, err := buildFileStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize file store: %v", err)
	}
	log.Printf("File store: %s", cfg.Files.Backend)

	// The summarizer is optional; without an API key new novels fall back to
	// the placeholder description.
	var summarizer catalog.Summarizer
	if cfg.Gemini.APIKey != "" {
		gemini, err := summarize.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		summarizer = gemini
		log.Printf("Summarizer: gemini (%s)", gemini.Model())
	} else {
		log.Printf("WARNING: GEMINI_API_KEY is not set. Descriptions will not be generated from novel content.")
	}

	var pageCache *pagecache.Cache
	var invalidator catalog.Invalidator
	if cfg.Cache.Enabled {
		pageCache = pagecache.New(cfg.Cache.TTL)
		invalidator = pageCache
	}

	catalogService := catalog.NewService(store, fileStore, summarizer, invalidator)

	// Authentication. Without a configured credential the admin panel stays
	// locked and no session infrastructure is started.
	var (
		authController *auth.Controller
		authMiddleware *auth.Middleware
		sessionManager *auth.SessionManager
		csrfSecret     []byte
	)

	authService := auth.NewService(cfg.Auth)
	if authService.Enabled() {
		sessionManager, err = auth.NewSessionManager(cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}
		defer func() {
			if err := sessionManager.Close(); err != nil {
				log.Printf("Error closing session store: %v", err)
			}
		}()

		authController = auth.NewController(authService, sessionManager)
		authMiddleware = auth.NewMiddleware(authService, sessionManager)

		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				// Not hex, use as raw bytes
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, _ = hex.DecodeString(secret)
			log.Printf("Generated session secret (set SESSION_SECRET to persist logins across restarts)")
		}
	} else {
		log.Printf("WARNING: ADMIN_EMAIL or ADMIN_PASSWORD_HASH is not set. The admin panel is locked.")
	}

	// Periodic cache purge keeps pages fresh when the store changes out of
	// band, e.g. a manual Firestore edit.
	var refreshScheduler *scheduler.CacheRefreshScheduler
	if pageCache != nil && cfg.Cache.RefreshEnabled {
		refreshScheduler = scheduler.NewCacheRefreshScheduler(pageCache, cfg.Cache.RefreshSchedule)
		if err := refreshScheduler.Start(ctx); err != nil {
			log.Fatalf("Failed to start cache refresh scheduler: %v", err)
		}
	}

	uploadsDir := ""
	if cfg.Files.Backend == config.FilesLocal {
		uploadsDir = cfg.Files.LocalDir
	}

	routerCfg := http_controllers.RouterConfig{
		Catalog:        catalogService,
		Store:          store,
		AuthService:    authService,
		AuthController: authController,
		AuthMiddleware: authMiddleware,
		SessionManager: sessionManager,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		PageCache:      pageCache,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		UploadsDir:     uploadsDir,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if refreshScheduler != nil {
			refreshScheduler.Stop()
		}
	}

	Serve(router, cfg, onShutdown)
}
