package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"lovewall/pkg/logger"
	"lovewall/services/board/internal/entity"
	"lovewall/services/board/internal/repo/cache"
	"lovewall/services/board/internal/repo/persistent"
)

type MutationUseCase interface {
	CreatePost(ctx context.Context, in CreatePostInput) (string, error)
	CreateComment(ctx context.Context, postID string, in CreateCommentInput) (string, error)
	ToggleLike(ctx context.Context, postID string, session entity.SessionID) (*entity.LikeResult, error)
}

type mutationUseCase struct {
	postRepo    persistent.PostRepository
	commentRepo persistent.CommentRepository
	postCache   cache.PostCache
	events      EventPublisher
	logger      *logger.Logger

	baseBackoff time.Duration
	maxBackoff  time.Duration
}

// NewMutationUseCase wires the write side. postCache and events may be nil.
func NewMutationUseCase(
	postRepo persistent.PostRepository,
	commentRepo persistent.CommentRepository,
	postCache cache.PostCache,
	events EventPublisher,
	logger *logger.Logger,
) MutationUseCase {
	return &mutationUseCase{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		postCache:   postCache,
		events:      events,
		logger:      logger,
		baseBackoff: 2 * time.Millisecond,
		maxBackoff:  50 * time.Millisecond,
	}
}

func (uc *mutationUseCase) CreatePost(ctx context.Context, in CreatePostInput) (string, error) {
	in.normalize()
	if err := validateInput(&in); err != nil {
		return "", err
	}

	post := &entity.Post{
		Name:    in.Name,
		Gender:  in.Gender,
		Content: in.Content,
		LikedBy: []entity.SessionID{},
	}
	if err := uc.postRepo.Create(ctx, post); err != nil {
		return "", fmt.Errorf("failed to create post: %w", err)
	}

	uc.invalidate(ctx, "")
	uc.publish(postCreatedEvent(post.ID))
	return post.ID, nil
}

// CreateComment checks the post exists before validating, so a comment on a
// missing post is always reported as not found and nothing is written.
func (uc *mutationUseCase) CreateComment(ctx context.Context, postID string, in CreateCommentInput) (string, error) {
	exists, err := uc.postRepo.Exists(ctx, postID)
	if err != nil {
		return "", fmt.Errorf("failed to look up post: %w", err)
	}
	if !exists {
		return "", entity.ErrPostNotFound
	}

	in.normalize()
	if err := validateInput(&in); err != nil {
		return "", err
	}

	comment := &entity.Comment{
		PostID:  postID,
		Name:    in.Name,
		Gender:  in.Gender,
		Content: in.Content,
	}
	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		return "", fmt.Errorf("failed to create comment: %w", err)
	}

	uc.invalidate(ctx, postID)
	uc.publish(commentCreatedEvent(postID, comment.ID))
	return comment.ID, nil
}

// ToggleLike flips session's membership in one atomic update. A lost
// compare-and-swap is retried with jittered backoff until it commits or ctx
// ends; entity.ErrConflict never reaches the caller.
func (uc *mutationUseCase) ToggleLike(ctx context.Context, postID string, session entity.SessionID) (*entity.LikeResult, error) {
	if err := validateSession(session); err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		var liked bool
		post, err := uc.postRepo.Update(ctx, postID, func(p *entity.Post) error {
			liked = p.ToggleLike(session)
			return nil
		})
		if err == nil {
			result := &entity.LikeResult{PostID: post.ID, Liked: liked, Likes: post.Likes}
			uc.invalidate(ctx, postID)
			uc.publish(likeToggledEvent(result))
			return result, nil
		}
		if !errors.Is(err, entity.ErrConflict) {
			return nil, err
		}

		uc.logger.Debug("Toggle like conflict on post %s, attempt %d", postID, attempt+1)
		if err := uc.wait(ctx, attempt); err != nil {
			return nil, err
		}
	}
}

func (uc *mutationUseCase) wait(ctx context.Context, attempt int) error {
	backoff := uc.baseBackoff << uint(min(attempt, 5))
	if backoff > uc.maxBackoff {
		backoff = uc.maxBackoff
	}
	if backoff > 0 {
		backoff = backoff/2 + time.Duration(rand.Int63n(int64(backoff)/2+1))
	}

	timer := time.NewTimer(backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// invalidate drops the cached feeds and, when postID is set, that post's
// detail snapshot. Failures only leave snapshots to expire on their TTL.
func (uc *mutationUseCase) invalidate(ctx context.Context, postID string) {
	if uc.postCache == nil {
		return
	}
	if postID != "" {
		if err := uc.postCache.InvalidatePost(ctx, postID); err != nil {
			uc.logger.Warn("Failed to invalidate cached post %s: %v", postID, err)
		}
	}
	if err := uc.postCache.InvalidateFeeds(ctx); err != nil {
		uc.logger.Warn("Failed to invalidate cached feeds: %v", err)
	}
}

// publish sends the event in the background. It never fails the mutation.
func (uc *mutationUseCase) publish(routingKey string, event BoardEvent) {
	if uc.events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := uc.events.Publish(ctx, routingKey, event); err != nil {
			uc.logger.Error("Failed to publish %s event for post %s: %v", routingKey, event.PostID, err)
		}
	}()
}
