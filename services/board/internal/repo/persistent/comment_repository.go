package persistent

import (
	"context"

	"lovewall/services/board/internal/entity"
	"lovewall/services/board/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentRepository reads comments only through the (post_id, created_at)
// index; nothing scans the whole table.
type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	ListByPost(ctx context.Context, postID string) ([]*entity.Comment, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
	CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error)
}

type commentRepository struct {
	db    *gorm.DB
	clock *monotonicClock
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db, clock: defaultClock}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	commentModel := ToCommentModel(comment)
	if commentModel.ID == "" {
		commentModel.ID = uuid.New().String()
	}
	commentModel.CreatedAt = r.clock.Next()

	if err := r.db.WithContext(ctx).Create(commentModel).Error; err != nil {
		return err
	}

	*comment = *ToCommentEntity(commentModel)
	return nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]*entity.Comment, error) {
	var commentModels []model.CommentModel
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&commentModels).Error; err != nil {
		return nil, err
	}

	comments := make([]*entity.Comment, len(commentModels))
	for i := range commentModels {
		comments[i] = ToCommentEntity(&commentModels[i])
	}
	return comments, nil
}

func (r *commentRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CommentModel{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// CountByPosts returns a count for every requested id, zero included.
func (r *commentRepository) CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	for _, id := range postIDs {
		counts[id] = 0
	}

	var rows []struct {
		PostID string
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.CommentModel{}).
		Select("post_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.PostID] = row.Total
	}
	return counts, nil
}
