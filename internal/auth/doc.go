// Package auth gates the admin panel behind a session cookie. There is a
// single administrator identity configured by email and bcrypt password hash;
// sessions are persisted in SQLite via scs, and non-GET form submissions are
// CSRF-protected.
package auth
