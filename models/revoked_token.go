package models

import (
	"time"

	"github.com/google/uuid"
)

// RevokedToken lưu jti của JWT đã logout cho tới khi token hết hạn
type RevokedToken struct {
	JTI       string    `gorm:"column:jti;primaryKey;size:64" json:"jti"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
