package usecase

import (
	"context"
	"time"

	"lovewall/pkg/queue"
	"lovewall/services/board/internal/entity"
)

// EventPublisher is satisfied by *queue.Client. A nil publisher disables
// change events.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event interface{}) error
}

type BoardEvent struct {
	Type      string    `json:"type"`
	PostID    string    `json:"post_id"`
	CommentID string    `json:"comment_id,omitempty"`
	Liked     *bool     `json:"liked,omitempty"`
	Likes     *int      `json:"likes,omitempty"`
	At        time.Time `json:"at"`
}

const publishTimeout = 5 * time.Second

func postCreatedEvent(postID string) (string, BoardEvent) {
	return queue.RoutingPostCreated, BoardEvent{Type: queue.RoutingPostCreated, PostID: postID, At: time.Now().UTC()}
}

func commentCreatedEvent(postID, commentID string) (string, BoardEvent) {
	return queue.RoutingCommentCreated, BoardEvent{
		Type:      queue.RoutingCommentCreated,
		PostID:    postID,
		CommentID: commentID,
		At:        time.Now().UTC(),
	}
}

func likeToggledEvent(result *entity.LikeResult) (string, BoardEvent) {
	liked, likes := result.Liked, result.Likes
	return queue.RoutingLikeToggled, BoardEvent{
		Type:   queue.RoutingLikeToggled,
		PostID: result.PostID,
		Liked:  &liked,
		Likes:  &likes,
		At:     time.Now().UTC(),
	}
}
