package session

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	cookieName = "fender_session"
	keyField   = "session_key"
)

// Store хранит ключ анонимной корзины в подписанной cookie.
type Store struct {
	cookies *sessions.CookieStore
}

func NewStore(secret string, maxAge time.Duration, secure bool) *Store {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{cookies: cs}
}

// Key returns the session key of the request or "" when there is none or the
// cookie does not verify.
func (s *Store) Key(r *http.Request) string {
	sess, err := s.cookies.Get(r, cookieName)
	if err != nil {
		return ""
	}
	key, _ := sess.Values[keyField].(string)
	return key
}

func (s *Store) Save(w http.ResponseWriter, r *http.Request, key string) error {
	sess, _ := s.cookies.Get(r, cookieName)
	sess.Values[keyField] = key
	return sess.Save(r, w)
}
