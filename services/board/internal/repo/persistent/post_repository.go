package persistent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lovewall/services/board/internal/entity"
	"lovewall/services/board/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostMutator transforms the current post in place. It must be pure: it is
// applied to a fresh read inside the update transaction and may run again
// after a conflict.
type PostMutator func(post *entity.Post) error

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, mutate PostMutator) (*entity.Post, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.Post, error)
}

type postRepository struct {
	db    *gorm.DB
	clock *monotonicClock
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, clock: defaultClock}
}

// Create assigns id and created_at and inserts. An existing id is never
// overwritten: a duplicate key surfaces as an error.
func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postModel := ToPostModel(post)
	if postModel.ID == "" {
		postModel.ID = uuid.New().String()
	}
	postModel.CreatedAt = r.clock.Next()
	postModel.Likes = 0
	postModel.LikedBy = []string{}
	postModel.Version = 0

	if err := r.db.WithContext(ctx).Create(postModel).Error; err != nil {
		return err
	}

	*post = *ToPostEntity(postModel)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	var postModel model.PostModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&postModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrPostNotFound
		}
		return nil, err
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PostModel{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Update is the store's only read-modify-write. The row is read under
// SELECT ... FOR UPDATE (a no-op on sqlite) and written back with a
// compare-and-swap on version, so concurrent updates of one post are
// linearized and updates of different posts never contend. A lost CAS returns
// entity.ErrConflict. Only the mutable like fields are written.
func (r *postRepository) Update(ctx context.Context, id string, mutate PostMutator) (*entity.Post, error) {
	var updated *entity.Post

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.PostModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entity.ErrPostNotFound
			}
			return err
		}

		post := ToPostEntity(&current)
		if err := mutate(post); err != nil {
			return err
		}
		if post.Likes != len(post.LikedBy) || post.Likes < 0 {
			return fmt.Errorf("post %s: likes %d does not match %d likers", id, post.Likes, len(post.LikedBy))
		}

		likedBy, err := json.Marshal(sessionStrings(post.LikedBy))
		if err != nil {
			return err
		}

		res := tx.Table(model.PostModel{}.TableName()).
			Where("id = ? AND version = ?", id, current.Version).
			Updates(map[string]interface{}{
				"likes":    post.Likes,
				"liked_by": string(likedBy),
				"version":  current.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return entity.ErrConflict
		}

		post.Version = current.Version + 1
		updated = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListRecent scans posts newest first. created_at is strictly increasing per
// process; id breaks any cross-process tie deterministically.
func (r *postRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Post, error) {
	var postModels []model.PostModel
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&postModels).Error; err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts, nil
}
