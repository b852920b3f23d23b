package config

import (
	"time"

	"github.com/spf13/viper"
)

// StoreBackend selects the catalog persistence adapter.
type StoreBackend string

const (
	StoreFirestore StoreBackend = "firestore" // hosted document database
	StoreSQLite    StoreBackend = "sqlite"    // self-hosted GORM/SQLite
	StoreMemory    StoreBackend = "memory"    // non-durable, local dev only
)

// FilesBackend selects where uploaded blobs are stored.
type FilesBackend string

const (
	FilesGCS   FilesBackend = "gcs"
	FilesLocal FilesBackend = "local"
)

type (
	Config struct {
		HTTP
		Global
		Store
		Files
		Gemini
		Auth
		Cache
		UI
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Store struct {
		Backend             StoreBackend
		FirestoreProject    string
		FirestoreCollection string
		SQLitePath          string
	}
	Files struct {
		Backend   FilesBackend
		GCSBucket string
		LocalDir  string
		BaseURL   string // public base URL for locally stored uploads
	}
	Gemini struct {
		APIKey string
		Model  string
	}
	Auth struct {
		AdminEmail        string
		AdminPasswordHash string // bcrypt hash, generate with the hash-password command
		SessionSecret     string
		SessionLifetime   time.Duration
		SessionsDBPath    string
		BcryptCost        int
		SecureCookies     bool // set to false for local dev without HTTPS
	}
	Cache struct {
		Enabled         bool
		TTL             time.Duration
		RefreshEnabled  bool
		RefreshSchedule string // cron format, e.g. "0 * * * *"
	}
	UI struct {
		TemplatesPath string
		StaticPath    string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("store_backend", "sqlite")
	v.SetDefault("firestore_project", "")
	v.SetDefault("firestore_collection", "novels")
	v.SetDefault("sqlite_path", "./data/catalog.db")

	v.SetDefault("files_backend", "local")
	v.SetDefault("gcs_bucket", "")
	v.SetDefault("uploads_dir", "./data/uploads")
	v.SetDefault("uploads_base_url", "/uploads")

	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "")

	v.SetDefault("admin_email", "")
	v.SetDefault("admin_password_hash", "")
	v.SetDefault("session_secret", "") // auto-generated if empty
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("sessions_db_path", "./data/sessions.db")
	v.SetDefault("bcrypt_cost", 12)
	v.SetDefault("secure_cookies", true)

	v.SetDefault("page_cache_enabled", true)
	v.SetDefault("page_cache_ttl", "10m")
	v.SetDefault("page_cache_refresh_enabled", true)
	v.SetDefault("page_cache_refresh_schedule", "0 0 * * *") // daily at midnight

	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Store: Store{
			Backend:             StoreBackend(v.GetString("STORE_BACKEND")),
			FirestoreProject:    v.GetString("FIRESTORE_PROJECT"),
			FirestoreCollection: v.GetString("FIRESTORE_COLLECTION"),
			SQLitePath:          v.GetString("SQLITE_PATH"),
		},
		Files: Files{
			Backend:   FilesBackend(v.GetString("FILES_BACKEND")),
			GCSBucket: v.GetString("GCS_BUCKET"),
			LocalDir:  v.GetString("UPLOADS_DIR"),
			BaseURL:   v.GetString("UPLOADS_BASE_URL"),
		},
		Gemini: Gemini{
			APIKey: v.GetString("GEMINI_API_KEY"),
			Model:  v.GetString("GEMINI_MODEL"),
		},
		Auth: Auth{
			AdminEmail:        v.GetString("ADMIN_EMAIL"),
			AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
			SessionSecret:     v.GetString("SESSION_SECRET"),
			SessionLifetime:   v.GetDuration("SESSION_LIFETIME"),
			SessionsDBPath:    v.GetString("SESSIONS_DB_PATH"),
			BcryptCost:        v.GetInt("BCRYPT_COST"),
			SecureCookies:     v.GetBool("SECURE_COOKIES"),
		},
		Cache: Cache{
			Enabled:         v.GetBool("PAGE_CACHE_ENABLED"),
			TTL:             v.GetDuration("PAGE_CACHE_TTL"),
			RefreshEnabled:  v.GetBool("PAGE_CACHE_REFRESH_ENABLED"),
			RefreshSchedule: v.GetString("PAGE_CACHE_REFRESH_SCHEDULE"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
	}
}
