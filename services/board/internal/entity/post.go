package entity

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ValidForPost reports whether g is accepted on a post.
func (g Gender) ValidForPost() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// ValidForComment reports whether g is accepted on a comment. Comments only
// know male and female.
func (g Gender) ValidForComment() bool {
	return g == GenderMale || g == GenderFemale
}

// SessionID identifies an anonymous browser session. It is self-asserted and
// only ever compared for equality.
type SessionID string

type Post struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Gender    Gender      `json:"gender"`
	Content   string      `json:"content"`
	CreatedAt time.Time   `json:"created_at"`
	Likes     int         `json:"likes"`
	LikedBy   []SessionID `json:"liked_by"`

	// Version is bumped on every write and used for compare-and-swap.
	Version int64 `json:"-"`
}

// HasLiked reports whether session is in the post's liked_by set.
func (p *Post) HasLiked(session SessionID) bool {
	for _, s := range p.LikedBy {
		if s == session {
			return true
		}
	}
	return false
}

// ToggleLike flips session's membership and keeps Likes equal to len(LikedBy).
// It returns the new membership state.
func (p *Post) ToggleLike(session SessionID) bool {
	for i, s := range p.LikedBy {
		if s == session {
			p.LikedBy = append(p.LikedBy[:i:i], p.LikedBy[i+1:]...)
			p.Likes = len(p.LikedBy)
			return false
		}
	}
	p.LikedBy = append(p.LikedBy, session)
	p.Likes = len(p.LikedBy)
	return true
}

// PostSummary is a feed entry: the post plus its derived comment count.
type PostSummary struct {
	Post         *Post `json:"post"`
	CommentCount int64 `json:"comment_count"`
}

// PostDetail is a single post with its comments, newest first.
type PostDetail struct {
	Post         *Post      `json:"post"`
	Comments     []*Comment `json:"comments"`
	CommentCount int64      `json:"comment_count"`
}

// LikeResult is the authoritative state after a toggle.
type LikeResult struct {
	PostID string `json:"post_id"`
	Liked  bool   `json:"liked"`
	Likes  int    `json:"likes"`
}
