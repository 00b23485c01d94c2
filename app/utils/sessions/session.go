package sessions

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "mellomelt-session"

	userIDSessionKey = "userID"
	cartIDSessionKey = "cartID"
)

type SessionStore interface {
	GetUserID(r *http.Request) string
	SetUserID(w http.ResponseWriter, r *http.Request, userID string) error
	ClearUserID(w http.ResponseWriter, r *http.Request) error

	GetCartID(r *http.Request) string
	EnsureCartID(w http.ResponseWriter, r *http.Request) (string, error)
	ClearCartID(w http.ResponseWriter, r *http.Request) error

	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

// NewCookieSessionStore signs cookies with authKey and encrypts them with
// encKey. secure should be true whenever the site is served over TLS.
func NewCookieSessionStore(authKey, encKey []byte, secure bool) *CookieSessionStore {
	store := sessions.NewCookieStore(authKey, encKey)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

// getSession never fails: a cookie that cannot be decoded (rotated keys,
// tampering) yields a fresh session.
func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, _ := c.store.Get(r, sessionCookieName)
	return session
}

func (c *CookieSessionStore) stringValue(r *http.Request, key string) string {
	v, _ := c.getSession(r).Values[key].(string)
	return v
}

func (c *CookieSessionStore) GetUserID(r *http.Request) string {
	return c.stringValue(r, userIDSessionKey)
}

func (c *CookieSessionStore) SetUserID(w http.ResponseWriter, r *http.Request, userID string) error {
	session := c.getSession(r)
	session.Values[userIDSessionKey] = userID
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearUserID(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	delete(session.Values, userIDSessionKey)
	return session.Save(r, w)
}

func (c *CookieSessionStore) GetCartID(r *http.Request) string {
	return c.stringValue(r, cartIDSessionKey)
}

// EnsureCartID returns the browser's cart session id, issuing a new one on
// first contact.
func (c *CookieSessionStore) EnsureCartID(w http.ResponseWriter, r *http.Request) (string, error) {
	session := c.getSession(r)
	if cartID, ok := session.Values[cartIDSessionKey].(string); ok && cartID != "" {
		return cartID, nil
	}

	cartID := uuid.New().String()
	session.Values[cartIDSessionKey] = cartID
	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return cartID, nil
}

func (c *CookieSessionStore) ClearCartID(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	delete(session.Values, cartIDSessionKey)
	return session.Save(r, w)
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
