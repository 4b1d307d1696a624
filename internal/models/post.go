package models

import "time"

// PostCategory is the closed set of board categories.
type PostCategory string

const (
	CategoryDailyShare      PostCategory = "DAILY_SHARE"
	CategoryConsult         PostCategory = "CONSULT"
	CategoryAnonymousDebate PostCategory = "ANONYMOUS_DEBATE"
)

// Valid reports whether the category is one of the known variants.
func (c PostCategory) Valid() bool {
	switch c {
	case CategoryDailyShare, CategoryConsult, CategoryAnonymousDebate:
		return true
	}
	return false
}

// Post is an anonymous board post. The author is tracked internally but
// rendered under a generated anonymous name.
type Post struct {
	ID            string       `db:"id" json:"id"`
	UserID        string       `db:"user_id" json:"-"`
	AnonymousName string       `db:"anonymous_name" json:"anonymous_name"`
	Category      PostCategory `db:"category" json:"category"`
	Content       string       `db:"content" json:"content"`
	LikeCount     int          `db:"like_count" json:"like_count"`
	CreatedAt     time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updated_at"`
}

// PostFilter selects and paginates posts.
type PostFilter struct {
	Category *PostCategory
	Page     int
	PageSize int
}
