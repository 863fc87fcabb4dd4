package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	PostID    string    `gorm:"type:varchar(36);not null;index:idx_comments_post_created,priority:1" json:"post_id"`
	Name      string    `gorm:"type:varchar(30);not null" json:"name"`
	Gender    string    `gorm:"type:varchar(10);not null" json:"gender"`
	Content   string    `gorm:"type:varchar(500);not null" json:"content"`
	CreatedAt time.Time `gorm:"not null;index:idx_comments_post_created,priority:2" json:"created_at"`
}

func (CommentModel) TableName() string {
	return "comments"
}

func (c *CommentModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
