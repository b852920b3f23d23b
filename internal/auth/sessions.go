package auth

import (
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tokhel/ink/internal/config"
)

// Session data keys
const (
	SessionKeyAdmin = "is_admin"
	SessionKeyEmail = "email"
)

// SessionManager wraps scs.SessionManager with admin-session helpers.
// Sessions are stored in their own SQLite file so the session gate works the
// same regardless of which catalog backend is configured.
type SessionManager struct {
	*scs.SessionManager
	db *sql.DB
}

func NewSessionManager(cfg config.Auth) (*SessionManager, error) {
	db, err := sql.Open("sqlite3", cfg.SessionsDBPath)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		db.Close()
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = "tokhel-ink-session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm, db: db}, nil
}

func (sm *SessionManager) Close() error {
	return sm.db.Close()
}

// CreateAdminSession marks the request's session as authenticated. The token
// is renewed first to prevent session fixation.
func (sm *SessionManager) CreateAdminSession(r *http.Request, email string) error {
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}
	sm.Put(r.Context(), SessionKeyAdmin, true)
	sm.Put(r.Context(), SessionKeyEmail, email)
	return nil
}

// DestroySession removes all session data and invalidates the session.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// IsAdmin reports whether the request carries an authenticated admin session.
func (sm *SessionManager) IsAdmin(r *http.Request) bool {
	return sm.GetBool(r.Context(), SessionKeyAdmin)
}

// AdminEmail returns the email the session was created with.
func (sm *SessionManager) AdminEmail(r *http.Request) string {
	return sm.GetString(r.Context(), SessionKeyEmail)
}
