package models

import "time"

// Comment is an append-only remark on a post.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"post_id" gorm:"index"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentData is the comment payload inside POST /posts/comment-post.
type CommentData struct {
	Content  string `json:"content" validate:"required,min=1,max=500"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
}

// CreateCommentRequest defines the request body for POST /posts/comment-post.
type CreateCommentRequest struct {
	UserID      uint        `json:"userId" validate:"required"`
	PostID      uint        `json:"postId" validate:"required"`
	CommentData CommentData `json:"commentData" validate:"required"`
}
