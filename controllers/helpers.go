package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	applog "github.com/evanmmo/vod-dashboard/logger"
	"github.com/evanmmo/vod-dashboard/middleware"
	"github.com/evanmmo/vod-dashboard/models"
	"github.com/evanmmo/vod-dashboard/services"
)

func dbFrom(c *gin.Context) *gorm.DB {
	return c.MustGet("db").(*gorm.DB)
}

// CurrentRole là role của người gọi, anonymous nếu chưa đăng nhập
func CurrentRole(c *gin.Context) models.UserRole {
	return middleware.RoleFromContext(c)
}

// respondServiceError ánh xạ lỗi service sang HTTP status
func respondServiceError(c *gin.Context, op string, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fields", "fields": verr.Fields})
	case errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không có quyền thực hiện thao tác này"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy VOD"})
	default:
		applog.WithComponent("controllers").Error().
			Err(err).
			Str("op", op).
			Str("path", c.Request.URL.Path).
			Msg("store failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi hệ thống, vui lòng thử lại"})
	}
}
