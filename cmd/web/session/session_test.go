package session

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func TestManager_EnsureWorkspace_RoundTrip(t *testing.T) {
	m := NewManager("test-secret")

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	rr := httptest.NewRecorder()

	id, created, err := m.EnsureWorkspace(rr, req)
	require.NoError(t, err)
	require.True(t, created)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	cookie := sessionCookie(t, rr)
	require.True(t, cookie.HttpOnly)
	require.False(t, cookie.Secure)

	req2 := httptest.NewRequest("GET", "http://example.com/", nil)
	req2.AddCookie(cookie)

	got, err := m.WorkspaceID(req2)
	require.NoError(t, err)
	require.Equal(t, id, got)

	rr2 := httptest.NewRecorder()
	again, created, err := m.EnsureWorkspace(rr2, req2)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, id, again)
	require.Empty(t, rr2.Result().Cookies(), "existing sessions are not rewritten")
}

func TestManager_EnsureWorkspace_SecureDetection(t *testing.T) {
	m := NewManager("test-secret")

	t.Run("tls implies secure", func(t *testing.T) {
		req := httptest.NewRequest("GET", "https://example.com/", nil)
		req.TLS = &tls.ConnectionState{}
		rr := httptest.NewRecorder()

		_, _, err := m.EnsureWorkspace(rr, req)
		require.NoError(t, err)
		require.True(t, sessionCookie(t, rr).Secure)
	})

	t.Run("x-forwarded-proto implies secure", func(t *testing.T) {
		req := httptest.NewRequest("GET", "http://example.com/", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		rr := httptest.NewRecorder()

		_, _, err := m.EnsureWorkspace(rr, req)
		require.NoError(t, err)
		require.True(t, sessionCookie(t, rr).Secure)
	})
}

func TestManager_WorkspaceID_Missing(t *testing.T) {
	m := NewManager("test-secret")

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	id, err := m.WorkspaceID(req)
	require.ErrorIs(t, err, ErrNoWorkspace)
	require.Empty(t, id)
}

func TestManager_BadCookieIsReplaced(t *testing.T) {
	m := NewManager("test-secret")

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "this-is-not-a-valid-cookie"})

	_, err := m.WorkspaceID(req)
	require.Error(t, err)

	rr := httptest.NewRecorder()
	id, created, err := m.EnsureWorkspace(rr, req)
	require.NoError(t, err)
	require.True(t, created)
	require.NotEmpty(t, id)
}

func TestManager_CookieFromOtherSecretIsRejected(t *testing.T) {
	a := NewManager("secret-a")
	b := NewManager("secret-b")

	rr := httptest.NewRecorder()
	_, _, err := a.EnsureWorkspace(rr, httptest.NewRequest("GET", "http://example.com/", nil))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "http://example.com/", nil)
	req.AddCookie(sessionCookie(t, rr))
	_, err = b.WorkspaceID(req)
	require.Error(t, err)
}
