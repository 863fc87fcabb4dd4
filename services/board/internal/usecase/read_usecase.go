package usecase

import (
	"context"
	"fmt"

	"lovewall/pkg/logger"
	"lovewall/services/board/internal/entity"
	"lovewall/services/board/internal/repo/cache"
	"lovewall/services/board/internal/repo/persistent"
)

const MaxFeedLimit = 100

type ReadUseCase interface {
	ListPosts(ctx context.Context, limit int) ([]*entity.PostSummary, error)
	GetPost(ctx context.Context, postID string) (*entity.PostDetail, error)
}

type readUseCase struct {
	postRepo     persistent.PostRepository
	commentRepo  persistent.CommentRepository
	postCache    cache.PostCache
	defaultLimit int
	logger       *logger.Logger
}

// NewReadUseCase wires the read side. postCache may be nil; defaultLimit is
// used when a caller asks for no limit and is capped at MaxFeedLimit.
func NewReadUseCase(
	postRepo persistent.PostRepository,
	commentRepo persistent.CommentRepository,
	postCache cache.PostCache,
	defaultLimit int,
	logger *logger.Logger,
) ReadUseCase {
	if defaultLimit <= 0 || defaultLimit > MaxFeedLimit {
		defaultLimit = MaxFeedLimit
	}
	return &readUseCase{
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		postCache:    postCache,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

func (uc *readUseCase) ListPosts(ctx context.Context, limit int) ([]*entity.PostSummary, error) {
	if limit <= 0 {
		limit = uc.defaultLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}

	if uc.postCache != nil {
		if feed, ok := uc.postCache.GetFeed(ctx, limit); ok {
			return feed, nil
		}
	}

	posts, err := uc.postRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	counts, err := uc.commentRepo.CountByPosts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	feed := make([]*entity.PostSummary, len(posts))
	for i, p := range posts {
		feed[i] = &entity.PostSummary{Post: p, CommentCount: counts[p.ID]}
	}

	if uc.postCache != nil {
		uc.postCache.SetFeed(ctx, limit, feed)
	}
	return feed, nil
}

// GetPost returns entity.ErrPostNotFound for an unknown id.
func (uc *readUseCase) GetPost(ctx context.Context, postID string) (*entity.PostDetail, error) {
	if uc.postCache != nil {
		if detail, ok := uc.postCache.GetDetail(ctx, postID); ok {
			return detail, nil
		}
	}

	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comments, err := uc.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	detail := &entity.PostDetail{
		Post:         post,
		Comments:     comments,
		CommentCount: int64(len(comments)),
	}

	if uc.postCache != nil {
		uc.postCache.SetDetail(ctx, detail)
	}
	return detail, nil
}
