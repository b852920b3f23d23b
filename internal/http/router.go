package http

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"github.com/tokhel/ink/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// The page cache runs last so it captures fully rendered responses.
	if cfg.PageCache != nil {
		router.Use(cfg.PageCache.Middleware("/", "/novels"))
	}

	if cfg.TemplatesPath != "" {
		funcMap := template.FuncMap{
			"csrfInput": func(token string) template.HTML {
				if token == "" {
					return ""
				}
				return template.HTML(`<input type="hidden" name="gorilla.csrf.Token" value="` + template.HTMLEscapeString(token) + `">`)
			},
		}
		tmpl := template.Must(template.New("").Funcs(funcMap).ParseGlob(cfg.TemplatesPath + "/*.html"))
		router.SetHTMLTemplate(tmpl)
	}

	router.Static("/static", cfg.StaticPath)
	if cfg.UploadsDir != "" {
		router.Static("/uploads", cfg.UploadsDir)
	}

	health := NewHealthController(cfg.Store, cfg.Version)
	publicController := NewPublicController(cfg.Catalog)
	adminController := NewAdminController(cfg.Catalog)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Public pages
	router.GET("/", publicController.HomePage)
	router.GET("/novels", publicController.NovelsPage)
	router.GET("/about", publicController.AboutPage)
	router.GET("/contact", publicController.ContactPage)

	// Public API
	router.GET("/api/novels", publicController.ListNovels)

	// Login and logout
	if cfg.AuthController != nil {
		loginPage := gin.HandlersChain{cfg.AuthController.LoginPage}
		if cfg.AuthMiddleware != nil {
			loginPage = gin.HandlersChain{
				cfg.AuthMiddleware.RedirectIfAuthenticated("/admin"),
				cfg.AuthController.LoginPage,
			}
		}
		router.GET("/login", loginPage...)
		router.POST("/login", cfg.AuthController.Login)
		router.POST("/logout", cfg.AuthController.Logout)
		router.GET("/logout", cfg.AuthController.Logout)
	}

	// Admin panel, gated behind the session middleware
	admin := router.Group("/admin")
	if cfg.AuthMiddleware != nil {
		admin.Use(cfg.AuthMiddleware.RequireAdmin())
	}
	admin.GET("", adminController.Dashboard)
	admin.POST("/novels", adminController.CreateNovel)
	admin.POST("/novels/:id/edit", adminController.EditNovel)
	admin.POST("/novels/:id/delete", adminController.DeleteNovel)
	admin.POST("/novels/:id/feature", adminController.FeatureNovel)

	return router
}
