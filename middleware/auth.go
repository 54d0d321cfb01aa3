package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/evanmmo/vod-dashboard/models"
	"github.com/evanmmo/vod-dashboard/services"
)

const (
	ContextRoleKey    = "role"
	ContextUserIDKey  = "user_id"
	ContextSessionKey = "session"

	SessionCookieName = "session"
)

// ExtractToken lấy token theo thứ tự: Authorization: Bearer, X-Auth-Token (cho iOS),
// cookie "session", và ?token= nếu allowQuery (websocket không gửi được header)
func ExtractToken(r *http.Request, allowQuery bool) string {
	if token := bearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}

	if raw := strings.TrimSpace(r.Header.Get("X-Auth-Token")); raw != "" {
		if token := bearerToken(raw); token != "" {
			return token
		}
		if !strings.Contains(raw, " ") {
			return raw
		}
	}

	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	if allowQuery {
		return strings.TrimSpace(r.URL.Query().Get("token"))
	}
	return ""
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// AuthMiddleware giải mã phiên và lưu role vào context. Không có phiên hợp lệ
// thì role = anonymous và request vẫn đi tiếp; việc chặn do RequireAuth/RequireAdminPage/service.
func AuthMiddleware(sessions *services.SessionService, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextRoleKey, models.RoleAnonymous)

		token := ExtractToken(c.Request, allowQuery)
		if token == "" {
			c.Next()
			return
		}

		sess, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ContextRoleKey, sess.Role)
		c.Set(ContextUserIDKey, sess.UserID.String())
		c.Set(ContextSessionKey, sess)
		c.Next()
	}
}

// RoleFromContext đọc role do AuthMiddleware đặt, mặc định anonymous
func RoleFromContext(c *gin.Context) models.UserRole {
	if v, ok := c.Get(ContextRoleKey); ok {
		if role, ok := v.(models.UserRole); ok {
			return role
		}
	}
	return models.RoleAnonymous
}

// SessionFromContext trả về phiên hiện tại, nil nếu anonymous
func SessionFromContext(c *gin.Context) *services.Session {
	if v, ok := c.Get(ContextSessionKey); ok {
		if sess, ok := v.(*services.Session); ok {
			return sess
		}
	}
	return nil
}

// RequireAuth chặn request không có phiên hợp lệ
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if SessionFromContext(c) == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token không hợp lệ hoặc hết hạn"})
			c.Abort()
			return
		}
		c.Next()
	}
}
