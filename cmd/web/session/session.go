// Package session ties a browser to its editor workspace through a signed
// cookie.
package session

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	CookieName   = "retouch_session"
	WorkspaceKey = "workspace_id"
)

var ErrNoWorkspace = errors.New("no workspace in session")

type Manager struct {
	store  *sessions.CookieStore
	maxAge int
}

// NewManager returns a cookie-backed session manager signing with secret.
// The config layer guarantees a non-empty secret.
func NewManager(secret string) *Manager {
	return &Manager{
		store:  sessions.NewCookieStore([]byte(secret)),
		maxAge: 86400, // 1 day
	}
}

// WorkspaceID reads the workspace id from the request's cookie.
func (m *Manager) WorkspaceID(r *http.Request) (string, error) {
	sess, err := m.store.Get(r, CookieName)
	if err != nil {
		_, cookieErr := r.Cookie(CookieName)
		slog.Warn("failed to decode session", "error", err, "host", r.Host, "has_cookie", cookieErr == nil)
		return "", err
	}
	id, ok := sess.Values[WorkspaceKey].(string)
	if !ok || id == "" {
		return "", ErrNoWorkspace
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrNoWorkspace
	}
	return id, nil
}

// EnsureWorkspace returns the request's workspace id, issuing a new one and
// setting the cookie when the request has none (or an unreadable one).
func (m *Manager) EnsureWorkspace(w http.ResponseWriter, r *http.Request) (id string, created bool, err error) {
	if id, err := m.WorkspaceID(r); err == nil {
		return id, false, nil
	}

	// A cookie signed with an old secret fails to decode; Get still returns a
	// fresh session to overwrite it.
	sess, _ := m.store.Get(r, CookieName)
	id = uuid.NewString()
	sess.Values[WorkspaceKey] = id
	sess.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   m.maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https",
	}
	if err := sess.Save(r, w); err != nil {
		return "", false, err
	}
	return id, true, nil
}
