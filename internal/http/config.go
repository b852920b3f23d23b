package http

import (
	"github.com/tokhel/ink/internal/auth"
	"github.com/tokhel/ink/internal/catalog"
	"github.com/tokhel/ink/internal/pagecache"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog *catalog.Service
	Store   catalog.Store

	// Authentication
	AuthService    *auth.Service
	AuthController *auth.Controller
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	CSRFSecret     []byte
	SecureCookies  bool

	// Rendered page cache, nil disables caching
	PageCache *pagecache.Cache

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Local uploads directory, served under /uploads when non-empty
	UploadsDir string

	// Application info
	Version string
}
