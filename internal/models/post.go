package models

import "time"

// Post visibility levels.
const (
	VisibilityPublic  = "PUBLIC"
	VisibilityFriends = "FRIENDS"
	VisibilityPrivate = "PRIVATE"
)

// Post is authored content. Posts are immutable once created; engagement lives
// in the Like and Comment tables.
type Post struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	AuthorID     uint      `json:"author_id" gorm:"index"`
	Content      string    `json:"content"`
	ImageURL     string    `json:"image_url,omitempty"`
	VideoURL     string    `json:"video_url,omitempty"`
	GroupID      *uint     `json:"group_id,omitempty"`
	SharedPostID *uint     `json:"shared_post_id,omitempty"`
	Visibility   string    `json:"visibility" gorm:"type:varchar(10);default:'PUBLIC';index"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreatePostRequest defines the post payload carried by POST /posts/create.
type CreatePostRequest struct {
	Content      string `json:"content" validate:"omitempty,max=2000"`
	ImageURL     string `json:"imageUrl" validate:"omitempty,url"`
	VideoURL     string `json:"videoUrl" validate:"omitempty,url"`
	GroupID      *uint  `json:"groupId"`
	SharedPostID *uint  `json:"sharedPostId"`
	Visibility   string `json:"publicStatus" validate:"omitempty,oneof=PUBLIC FRIENDS PRIVATE"`
}
