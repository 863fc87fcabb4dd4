package persistent

import (
	"lovewall/services/board/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate creates the board tables. Production Postgres schemas are owned
// by the goose migrations in /migrations; this is for sqlite and tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.PostModel{}, &model.CommentModel{})
}
