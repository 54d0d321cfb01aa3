package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VOD is one archived stream. Pieces are owned exclusively and ordered by Position.
type VOD struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StreamDate  time.Time `gorm:"type:date;not null;index:idx_vods_listing,priority:1" json:"stream_date"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_vods_listing,priority:2" json:"created_at"`
	Pieces      []Piece   `gorm:"foreignKey:VODID;constraint:OnDelete:CASCADE" json:"pieces"`
}

func (VOD) TableName() string {
	return "vods"
}

func (v *VOD) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
