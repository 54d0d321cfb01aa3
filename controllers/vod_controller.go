package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/evanmmo/vod-dashboard/config"
	"github.com/evanmmo/vod-dashboard/models"
	"github.com/evanmmo/vod-dashboard/services"
	"github.com/evanmmo/vod-dashboard/utils"
	"github.com/evanmmo/vod-dashboard/ws"
)

type pieceRequest struct {
	MP4URL  string  `json:"mp4_url"`
	JSONURL *string `json:"json_url"`
}

type vodRequest struct {
	StreamDate  string         `json:"stream_date"`
	Description string         `json:"description"`
	Pieces      []pieceRequest `json:"pieces"`
}

// VODResponse là VOD kèm mô tả rút gọn cho danh sách
type VODResponse struct {
	models.VOD
	DescriptionPreview      string   `json:"description_preview"`
	DescriptionPreviewLines []string `json:"description_preview_lines"`
}

func vodService(c *gin.Context) *services.VODService {
	return services.NewVODService(dbFrom(c), config.VODsPerPage)
}

// vodIDParam đọc :id; id sai định dạng thành uuid.Nil để service vẫn kiểm tra quyền trước
// rồi trả về ErrNotFound
func vodIDParam(c *gin.Context) uuid.UUID {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func toVODResponse(v models.VOD) VODResponse {
	preview := utils.PreviewDescription(v.Description, config.DescriptionPreviewLength)
	return VODResponse{
		VOD:                     v,
		DescriptionPreview:      preview,
		DescriptionPreviewLines: utils.DescriptionLines(preview),
	}
}

func toVODResponses(vods []models.VOD) []VODResponse {
	out := make([]VODResponse, 0, len(vods))
	for _, v := range vods {
		out = append(out, toVODResponse(v))
	}
	return out
}

// toInput chuyển body thành VODInput; ngày sai định dạng trả về lỗi theo field
func (r vodRequest) toInput() (services.VODInput, map[string]string) {
	in := services.VODInput{Description: r.Description}
	fields := map[string]string{}

	if r.StreamDate != "" {
		d, err := utils.ParseStreamDate(r.StreamDate)
		if err != nil {
			fields["stream_date"] = "stream_date must be a date (YYYY-MM-DD)"
		} else {
			in.StreamDate = &d
		}
	}

	in.Pieces = make([]services.PieceInput, 0, len(r.Pieces))
	for _, p := range r.Pieces {
		in.Pieces = append(in.Pieces, services.PieceInput{MP4URL: p.MP4URL, JSONURL: p.JSONURL})
	}
	return in, fields
}

// formErrors gộp lỗi parse với lỗi validate form
func formErrors(in services.VODInput, parseErrs map[string]string) map[string]string {
	fields := services.ValidateVODForm(in)
	for k, v := range parseErrs {
		fields[k] = v
	}
	return fields
}

// GetVODs: GET /api/admin/vods?page=N (N bắt đầu từ 0)
func GetVODs(c *gin.Context) {
	page, err := utils.ParsePage(c.Query("page"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc := vodService(c)
	role := CurrentRole(c)
	ctx := c.Request.Context()

	vods, err := svc.List(ctx, role, page)
	if err != nil {
		respondServiceError(c, "list vods", err)
		return
	}
	total, err := svc.Count(ctx, role)
	if err != nil {
		respondServiceError(c, "count vods", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":        toVODResponses(vods),
		"page":        page,
		"page_size":   svc.PageSize(),
		"total":       total,
		"total_pages": svc.TotalPages(total),
	})
}

// GetVODCount: GET /api/admin/vods/count
func GetVODCount(c *gin.Context) {
	svc := vodService(c)
	total, err := svc.Count(c.Request.Context(), CurrentRole(c))
	if err != nil {
		respondServiceError(c, "count vods", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":       total,
		"page_size":   svc.PageSize(),
		"total_pages": svc.TotalPages(total),
	})
}

// GetVODDetail: GET /api/admin/vods/:id
func GetVODDetail(c *gin.Context) {
	vod, err := vodService(c).Get(c.Request.Context(), CurrentRole(c), vodIDParam(c))
	if err != nil {
		respondServiceError(c, "get vod", err)
		return
	}
	c.JSON(http.StatusOK, toVODResponse(*vod))
}

// CreateVOD: POST /api/admin/vods
func CreateVOD(c *gin.Context) {
	var req vodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in, parseErrs := req.toInput()
	if len(parseErrs) > 0 && CurrentRole(c) == models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fields", "fields": formErrors(in, parseErrs)})
		return
	}

	vod, err := vodService(c).Insert(c.Request.Context(), CurrentRole(c), in)
	if err != nil {
		respondServiceError(c, "insert vod", err)
		return
	}

	ws.BroadcastVODListChanged("insert", vod.ID.String())
	c.JSON(http.StatusCreated, gin.H{
		"message": "Tạo VOD thành công",
		"vod":     toVODResponse(*vod),
	})
}

// ValidateVOD: POST /api/admin/vods/validate - chỉ kiểm tra form, không ghi DB
func ValidateVOD(c *gin.Context) {
	if CurrentRole(c) != models.RoleAdmin {
		respondServiceError(c, "validate vod", services.ErrUnauthorized)
		return
	}

	var req vodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in, parseErrs := req.toInput()
	fields := formErrors(in, parseErrs)
	c.JSON(http.StatusOK, gin.H{
		"valid":  len(fields) == 0,
		"fields": fields,
	})
}

// DeleteVOD: DELETE /api/admin/vods/:id
func DeleteVOD(c *gin.Context) {
	id := vodIDParam(c)
	if err := vodService(c).Delete(c.Request.Context(), CurrentRole(c), id); err != nil {
		respondServiceError(c, "delete vod", err)
		return
	}

	ws.BroadcastVODListChanged("delete", id.String())
	c.JSON(http.StatusOK, gin.H{
		"message":    "Xóa VOD thành công",
		"id":         id,
		"deleted_at": time.Now().UTC(),
	})
}
