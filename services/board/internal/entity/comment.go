package entity

import "time"

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Name      string    `json:"name"`
	Gender    Gender    `json:"gender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
