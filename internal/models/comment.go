package models

import "time"

// Comment belongs to a post and may reply to another comment.
type Comment struct {
	ID            string    `db:"id" json:"id"`
	PostID        string    `db:"post_id" json:"post_id"`
	UserID        string    `db:"user_id" json:"-"`
	ParentID      *string   `db:"parent_id" json:"parent_id,omitempty"`
	AnonymousName string    `db:"anonymous_name" json:"anonymous_name"`
	Content       string    `db:"content" json:"content"`
	LikeCount     int       `db:"like_count" json:"like_count"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
