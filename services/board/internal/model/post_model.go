package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(30);not null" json:"name"`
	Gender    string    `gorm:"type:varchar(10);not null" json:"gender"`
	Content   string    `gorm:"type:varchar(500);not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;index:idx_posts_created" json:"created_at"`
	Likes     int       `gorm:"not null;default:0" json:"likes"`
	// LikedBy lives on the post row so the (likes, liked_by) pair is read and
	// written as one unit.
	LikedBy []string `gorm:"type:text;not null;serializer:json" json:"liked_by"`
	Version int64    `gorm:"not null;default:0" json:"-"`
}

func (PostModel) TableName() string {
	return "posts"
}

func (p *PostModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.LikedBy == nil {
		p.LikedBy = []string{}
	}
	return nil
}
