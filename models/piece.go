package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Piece struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VODID     uuid.UUID `gorm:"column:vod_id;type:uuid;not null;uniqueIndex:idx_pieces_vod_position,priority:1" json:"vod_id"`
	Position  int       `gorm:"column:position;not null;uniqueIndex:idx_pieces_vod_position,priority:2" json:"position"` // thứ tự trong form tạo VOD, bắt đầu từ 0
	MP4URL    string    `gorm:"column:mp4_url;type:text;not null" json:"mp4_url"`
	JSONURL   *string   `gorm:"column:json_url;type:text" json:"json_url"` // nil = không có metadata
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Piece) TableName() string {
	return "pieces"
}

func (p *Piece) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
