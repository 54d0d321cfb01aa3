package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evanmmo/vod-dashboard/models"
)

// RequireAdminPage dùng cho trang dashboard: ai không phải admin đều nhận 404,
// không để lộ việc trang tồn tại
func RequireAdminPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if RoleFromContext(c) != models.RoleAdmin {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoles cho phép chỉ định nhiều vai trò được quyền truy cập
func RequireRoles(allowedRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := RoleFromContext(c)
		if role == models.RoleAnonymous {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token không hợp lệ hoặc hết hạn"})
			c.Abort()
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không có quyền truy cập tài nguyên này"})
		c.Abort()
	}
}
