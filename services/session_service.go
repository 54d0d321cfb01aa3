package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/evanmmo/vod-dashboard/metrics"
	"github.com/evanmmo/vod-dashboard/models"
	"github.com/evanmmo/vod-dashboard/utils"
)

// Session là kết quả giải mã một token hợp lệ
type Session struct {
	UserID    uuid.UUID
	Role      models.UserRole
	TokenID   string
	ExpiresAt time.Time
}

// SessionService phát hành, giải mã và thu hồi JWT phiên đăng nhập
type SessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

// Issue ký token mới cho user
func (s *SessionService) Issue(user *models.User) (string, error) {
	return utils.GenerateToken(user.ID.String(), string(user.Role))
}

// Resolve kiểm tra token: chữ ký/hạn, danh sách thu hồi, trạng thái user.
// Role lấy từ DB chứ không tin claim trong token.
func (s *SessionService) Resolve(ctx context.Context, token string) (*Session, error) {
	claims, err := utils.VerifyToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	db := s.db.WithContext(ctx)

	var revoked int64
	if err := db.Model(&models.RevokedToken{}).Where("jti = ?", claims.ID).Count(&revoked).Error; err != nil {
		return nil, storeError("check revoked token", err)
	}
	if revoked > 0 {
		return nil, ErrUnauthorized
	}

	var user models.User
	err = db.Select("id", "role", "status").First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, storeError("load session user", err)
	}
	if !user.Active() {
		return nil, ErrUnauthorized
	}

	sess := &Session{
		UserID:  user.ID,
		Role:    user.Role,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		sess.ExpiresAt = claims.ExpiresAt.Time
	}
	return sess, nil
}

// CurrentRole trả về role của phiên, hoặc RoleAnonymous nếu token không dùng được
func (s *SessionService) CurrentRole(ctx context.Context, token string) models.UserRole {
	sess, err := s.Resolve(ctx, token)
	if err != nil {
		return models.RoleAnonymous
	}
	return sess.Role
}

// Revoke ghi jti vào revoked_tokens; logout hai lần không lỗi
func (s *SessionService) Revoke(ctx context.Context, sess *Session) error {
	expires := sess.ExpiresAt
	if expires.IsZero() {
		expires = time.Now().Add(24 * time.Hour)
	}
	row := models.RevokedToken{
		JTI:       sess.TokenID,
		UserID:    sess.UserID,
		ExpiresAt: expires.UTC(),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return storeError("revoke token", err)
	}
	return nil
}

// PurgeExpired xóa các jti đã quá hạn (token gốc cũng đã hết hạn nên không cần lưu nữa)
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&models.RevokedToken{})
	if res.Error != nil {
		return 0, storeError("purge revoked tokens", res.Error)
	}
	metrics.RevokedTokensPurgedTotal.Add(float64(res.RowsAffected))
	return res.RowsAffected, nil
}
