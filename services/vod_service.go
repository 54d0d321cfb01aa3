package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/evanmmo/vod-dashboard/config"
	"github.com/evanmmo/vod-dashboard/metrics"
	"github.com/evanmmo/vod-dashboard/models"
)

// VODService là nơi duy nhất đọc/ghi VOD. Không cache: mỗi lần gọi đọc lại trạng thái DB.
type VODService struct {
	db       *gorm.DB
	pageSize int
}

func NewVODService(db *gorm.DB, pageSize int) *VODService {
	if pageSize < 1 {
		pageSize = config.VODsPerPage
	}
	return &VODService{db: db, pageSize: pageSize}
}

func (s *VODService) PageSize() int {
	return s.pageSize
}

// TotalPages = ceil(count / pageSize)
func (s *VODService) TotalPages(count int64) int64 {
	if count <= 0 {
		return 0
	}
	size := int64(s.pageSize)
	return (count + size - 1) / size
}

func requireAdmin(role models.UserRole) error {
	if role != models.RoleAdmin {
		return ErrUnauthorized
	}
	return nil
}

// listing order: mới nhất trước, created_at rồi id để thứ tự luôn xác định
func orderedVODs(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Pieces", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("stream_date DESC").
		Order("created_at DESC").
		Order("id DESC")
}

// List trả về trang thứ page (bắt đầu từ 0). Trang vượt quá phạm vi trả về slice rỗng.
func (s *VODService) List(ctx context.Context, role models.UserRole, page int) ([]models.VOD, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}
	if page < 0 {
		return nil, &ValidationError{Fields: map[string]string{"page": "page must be a non-negative integer"}}
	}

	vods := []models.VOD{}
	if page > (math.MaxInt32-s.pageSize)/s.pageSize {
		return vods, nil
	}

	err := orderedVODs(s.db.WithContext(ctx)).
		Offset(page * s.pageSize).
		Limit(s.pageSize).
		Find(&vods).Error
	if err != nil {
		return nil, storeError("list vods", err)
	}

	if vods == nil {
		vods = []models.VOD{}
	}
	for i := range vods {
		if vods[i].Pieces == nil {
			vods[i].Pieces = []models.Piece{}
		}
	}
	return vods, nil
}

// Count đếm tổng số VOD hiện có
func (s *VODService) Count(ctx context.Context, role models.UserRole) (int64, error) {
	if err := requireAdmin(role); err != nil {
		return 0, err
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.VOD{}).Count(&total).Error; err != nil {
		return 0, storeError("count vods", err)
	}
	return total, nil
}

// Get lấy một VOD kèm pieces theo thứ tự
func (s *VODService) Get(ctx context.Context, role models.UserRole, id uuid.UUID) (*models.VOD, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}

	var vod models.VOD
	err := s.db.WithContext(ctx).
		Preload("Pieces", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&vod, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError("get vod", err)
	}
	if vod.Pieces == nil {
		vod.Pieces = []models.Piece{}
	}
	return &vod, nil
}

// Insert tạo VOD và toàn bộ pieces trong một transaction
func (s *VODService) Insert(ctx context.Context, role models.UserRole, in VODInput) (*models.VOD, error) {
	vod, err := s.insert(ctx, role, in)
	metrics.VODMutationsTotal.WithLabelValues("insert", outcome(err)).Inc()
	return vod, err
}

func (s *VODService) insert(ctx context.Context, role models.UserRole, in VODInput) (*models.VOD, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}
	if fields := ValidateVODForm(in); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	vod := models.VOD{
		StreamDate:  normalizeStreamDate(*in.StreamDate),
		Description: in.Description,
	}
	pieces := make([]models.Piece, 0, len(in.Pieces))
	for i, p := range in.Pieces {
		pieces = append(pieces, models.Piece{
			Position: i,
			MP4URL:   strings.TrimSpace(p.MP4URL),
			JSONURL:  normalizeJSONURL(p.JSONURL),
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&vod).Error; err != nil {
			return err
		}
		if len(pieces) == 0 {
			return nil
		}
		for i := range pieces {
			pieces[i].VODID = vod.ID
		}
		return tx.Create(&pieces).Error
	})
	if err != nil {
		return nil, storeError("insert vod", err)
	}

	vod.Pieces = pieces
	return &vod, nil
}

// Delete xóa VOD và pieces của nó; không tìm thấy -> ErrNotFound
func (s *VODService) Delete(ctx context.Context, role models.UserRole, id uuid.UUID) error {
	err := s.delete(ctx, role, id)
	metrics.VODMutationsTotal.WithLabelValues("delete", outcome(err)).Inc()
	return err
}

func (s *VODService) delete(ctx context.Context, role models.UserRole, id uuid.UUID) error {
	if err := requireAdmin(role); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vod_id = ?", id).Delete(&models.Piece{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.VOD{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	default:
		return storeError("delete vod", err)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "store_error"
	}
}
