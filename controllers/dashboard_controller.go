package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evanmmo/vod-dashboard/config"
)

// Dashboard: GET /dashboard - dữ liệu khởi tạo trang quản trị (trang đầu + phân trang).
// Route này nằm sau RequireAdminPage nên người không phải admin chỉ thấy 404.
func Dashboard(c *gin.Context) {
	svc := vodService(c)
	role := CurrentRole(c)
	ctx := c.Request.Context()

	vods, err := svc.List(ctx, role, 0)
	if err != nil {
		respondServiceError(c, "dashboard list", err)
		return
	}
	total, err := svc.Count(ctx, role)
	if err != nil {
		respondServiceError(c, "dashboard count", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vods":           toVODResponses(vods),
		"page":           0,
		"page_size":      svc.PageSize(),
		"total":          total,
		"total_pages":    svc.TotalPages(total),
		"preview_length": config.DescriptionPreviewLength,
		"updates_ws":     "/ws/vods",
	})
}
