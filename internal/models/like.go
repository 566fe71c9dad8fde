package models

import "time"

// Like marks a post as liked by a user. Row existence is the liked state; the
// unique index keeps at most one like per (user, post) pair.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_like"`
	PostID    uint      `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_like"`
	CreatedAt time.Time `json:"created_at"`
}

// ToggleLikeRequest defines the request body for POST /posts/like-post.
type ToggleLikeRequest struct {
	UserID uint `json:"userId" validate:"required"`
	PostID uint `json:"postId" validate:"required"`
}
