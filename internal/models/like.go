package models

import "time"

// LikeTarget distinguishes what a like points at.
type LikeTarget string

const (
	LikeTargetPost    LikeTarget = "POST"
	LikeTargetComment LikeTarget = "COMMENT"
)

// Like records one user liking one post or comment. The (user, target)
// pair is unique.
type Like struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"user_id"`
	Target    LikeTarget `db:"target" json:"target"`
	TargetID  string     `db:"target_id" json:"target_id"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
