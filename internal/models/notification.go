package models

import "time"

// Notification types.
const (
	NotificationPostLike      = "POST_LIKE"
	NotificationPostComment   = "POST_COMMENT"
	NotificationFriendRequest = "FRIEND_REQUEST"
	NotificationFriendAccept  = "FRIEND_ACCEPT"
)

// Notification actor source types.
const (
	SourceTypeUser = "USER"
)

// Notification is a write-only side-effect record addressed to a recipient.
// Rows are deleted only when the triggering Like is removed; every other
// action, including a friend-request cancellation, appends.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Type      string    `json:"type" gorm:"size:30;index"`
	UserID    uint      `json:"user_id" gorm:"index"` // recipient
	FromID    uint      `json:"from_id" gorm:"index"` // actor
	FromType  string    `json:"from_type" gorm:"size:10"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}
