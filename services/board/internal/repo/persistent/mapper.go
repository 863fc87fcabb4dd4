package persistent

import (
	"lovewall/services/board/internal/entity"
	"lovewall/services/board/internal/model"
)

func ToPostEntity(m *model.PostModel) *entity.Post {
	if m == nil {
		return nil
	}

	likedBy := make([]entity.SessionID, len(m.LikedBy))
	for i, s := range m.LikedBy {
		likedBy[i] = entity.SessionID(s)
	}

	return &entity.Post{
		ID:        m.ID,
		Name:      m.Name,
		Gender:    entity.Gender(m.Gender),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		Likes:     m.Likes,
		LikedBy:   likedBy,
		Version:   m.Version,
	}
}

func ToPostModel(e *entity.Post) *model.PostModel {
	if e == nil {
		return nil
	}

	return &model.PostModel{
		ID:        e.ID,
		Name:      e.Name,
		Gender:    string(e.Gender),
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
		Likes:     e.Likes,
		LikedBy:   sessionStrings(e.LikedBy),
		Version:   e.Version,
	}
}

func ToCommentEntity(m *model.CommentModel) *entity.Comment {
	if m == nil {
		return nil
	}

	return &entity.Comment{
		ID:        m.ID,
		PostID:    m.PostID,
		Name:      m.Name,
		Gender:    entity.Gender(m.Gender),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func ToCommentModel(e *entity.Comment) *model.CommentModel {
	if e == nil {
		return nil
	}

	return &model.CommentModel{
		ID:        e.ID,
		PostID:    e.PostID,
		Name:      e.Name,
		Gender:    string(e.Gender),
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
	}
}

func sessionStrings(ids []entity.SessionID) []string {
	out := make([]string, len(ids))
	for i, s := range ids {
		out[i] = string(s)
	}
	return out
}
