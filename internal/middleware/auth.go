package middleware

import (
	"context"
	"net/http"
	"strings"

	"fender-store/internal/dto"
	"fender-store/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context keys for user info
const (
	CtxUserID      = "user_id"
	CtxIsStaff     = "is_staff"
	CtxAccessToken = "access_token"
	CtxSessionKey  = "session_key"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*service.Claims, error)
}

// OptionalAuth проверяет Bearer токен, если он передан. Запрос без заголовка
// проходит как анонимный, невалидный токен даёт 401.
func OptionalAuth(auth Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.Next()
			return
		}
		token, ok := ExtractBearerToken(authz)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid Authorization header"))
			return
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("empty token"))
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("invalid token"))
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxIsStaff, claims.IsStaff)
		c.Set(CtxAccessToken, token)
		c.Next()
	}
}

// RequireAuth пропускает только аутентифицированные запросы. Ставится после OptionalAuth.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("authentication required"))
			return
		}
		c.Next()
	}
}

// RequireStaff пропускает только staff пользователей.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedError("authentication required"))
			return
		}
		if !c.GetBool(CtxIsStaff) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewForbiddenError("staff access required"))
			return
		}
		c.Next()
	}
}

func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// RequesterFrom собирает Requester из контекста запроса
func RequesterFrom(c *gin.Context) service.Requester {
	if id, ok := UserID(c); ok {
		return service.User(id, c.GetBool(CtxIsStaff))
	}
	return service.Anonymous(c.GetString(CtxSessionKey))
}

// ExtractBearerToken извлекает токен из заголовка Authorization, устойчиво к лишним символам
// Примеры допустимых значений:
// - "Bearer abc.def.ghi"
// - "Bearer \"abc.def.ghi\""
// - "Bearer abc.def.ghi, extra"
func ExtractBearerToken(authz string) (string, bool) {
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	t := strings.Trim(strings.TrimSpace(parts[1]), " \"'")
	// Обрезать всё после первой запятой
	if i := strings.IndexRune(t, ','); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	if i := strings.IndexByte(t, ' '); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return strings.Trim(t, " \"'"), true
}
