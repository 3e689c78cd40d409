package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type SessionStore interface {
	Key(r *http.Request) string
	Save(w http.ResponseWriter, r *http.Request, key string) error
}

// Session кладёт ключ анонимной сессии из cookie в контекст.
// Новый ключ выпускает CartService, сохраняет его обработчик.
func Session(store SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := store.Key(c.Request); key != "" {
			c.Set(CtxSessionKey, key)
		}
		c.Next()
	}
}
