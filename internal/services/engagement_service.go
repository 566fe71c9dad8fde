package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nabilhq/openwall/backend/internal/logging"
	"github.com/nabilhq/openwall/backend/internal/models"
	"github.com/nabilhq/openwall/backend/internal/repositories"
)

const notificationListLimit = 50

// EngagementService handles likes, comments, and their notification side
// effects.
type EngagementService struct {
	repos  *repositories.Repositories
	tx     repositories.TxManager
	logger *logging.Logger
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(repos *repositories.Repositories, tx repositories.TxManager, logger *logging.Logger) *EngagementService {
	return &EngagementService{repos: repos, tx: tx, logger: logger}
}

// ToggleLike creates the like for (user, post) or removes it when present.
// Creating notifies the post's author unless the liker is the author;
// removing retracts that notification. Check and act share one transaction.
// Returns whether the post is liked after the call.
func (s *EngagementService) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	user, err := s.repos.Users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, NewNotFoundError("user not found")
		}
		return false, NewInternalError("looking up user", err)
	}

	var liked bool
	err = s.tx.InTx(ctx, func(r *repositories.Repositories) error {
		post, err := r.Posts.GetPostByID(postID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("post not found")
			}
			return err
		}

		like, err := r.Likes.GetLike(userID, postID)
		switch {
		case err == nil:
			if err := r.Likes.DeleteLike(like.ID); err != nil {
				return err
			}
			return r.Notifications.DeleteByTypeRecipientActor(
				models.NotificationPostLike, post.AuthorID, userID, models.SourceTypeUser)
		case errors.Is(err, gorm.ErrRecordNotFound):
			liked = true
			if err := r.Likes.CreateLike(&models.Like{UserID: userID, PostID: postID}); err != nil {
				return err
			}
			if post.AuthorID == userID {
				return nil
			}
			return r.Notifications.CreateNotification(&models.Notification{
				Type:     models.NotificationPostLike,
				UserID:   post.AuthorID,
				FromID:   userID,
				FromType: models.SourceTypeUser,
				Message:  fmt.Sprintf("%s liked your post.", user.Name),
			})
		default:
			return err
		}
	})
	if err != nil {
		if KindOf(err) != KindInternal {
			return false, err
		}
		return false, NewInternalError("toggling like", err)
	}
	return liked, nil
}

// AddComment appends a comment to a post and notifies the author unless the
// commenter is the author.
func (s *EngagementService) AddComment(ctx context.Context, userID, postID uint, data models.CommentData) (*models.Comment, error) {
	if data.Content == "" {
		return nil, NewValidationError("comment content is required")
	}

	user, err := s.repos.Users.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("user not found")
		}
		return nil, NewInternalError("looking up user", err)
	}

	post, err := s.repos.Posts.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("post not found")
		}
		return nil, NewInternalError("looking up post", err)
	}

	comment := &models.Comment{
		PostID:   postID,
		UserID:   userID,
		Content:  data.Content,
		ImageURL: data.ImageURL,
	}
	if err := s.repos.Comments.CreateComment(comment); err != nil {
		return nil, NewInternalError("creating comment", err)
	}

	if post.AuthorID != userID {
		err := s.repos.Notifications.CreateNotification(&models.Notification{
			Type:     models.NotificationPostComment,
			UserID:   post.AuthorID,
			FromID:   userID,
			FromType: models.SourceTypeUser,
			Message:  fmt.Sprintf("%s commented on your post.", user.Name),
		})
		if err != nil {
			return nil, NewInternalError("creating notification", err)
		}
	}

	return comment, nil
}

// Comments lists a post's comments, oldest first.
func (s *EngagementService) Comments(ctx context.Context, postID uint) ([]models.Comment, error) {
	if _, err := s.repos.Posts.GetPostByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("post not found")
		}
		return nil, NewInternalError("looking up post", err)
	}

	comments, err := s.repos.Comments.GetCommentsByPost(postID)
	if err != nil {
		return nil, NewInternalError("listing comments", err)
	}
	return comments, nil
}

// Likes lists the likes on a post, oldest first.
func (s *EngagementService) Likes(ctx context.Context, postID uint) ([]models.Like, error) {
	if _, err := s.repos.Posts.GetPostByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("post not found")
		}
		return nil, NewInternalError("looking up post", err)
	}

	likes, err := s.repos.Likes.GetLikesByPost(postID)
	if err != nil {
		return nil, NewInternalError("listing likes", err)
	}
	return likes, nil
}

// LikedPosts lists the posts a user has liked, most recently liked first.
func (s *EngagementService) LikedPosts(ctx context.Context, userID uint) ([]models.Post, error) {
	if _, err := s.repos.Users.GetUserByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("user not found")
		}
		return nil, NewInternalError("looking up user", err)
	}

	likes, err := s.repos.Likes.GetLikesByUser(userID)
	if err != nil {
		return nil, NewInternalError("listing likes", err)
	}

	ids := make([]uint, len(likes))
	for i, l := range likes {
		ids[i] = l.PostID
	}
	posts, err := s.repos.Posts.GetPostsByIDs(ids)
	if err != nil {
		return nil, NewInternalError("loading liked posts", err)
	}

	byID := make(map[uint]models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

// Notifications lists a user's most recent notifications.
func (s *EngagementService) Notifications(ctx context.Context, userID uint) ([]models.Notification, error) {
	if _, err := s.repos.Users.GetUserByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("user not found")
		}
		return nil, NewInternalError("looking up user", err)
	}

	notifications, err := s.repos.Notifications.GetByRecipient(userID, notificationListLimit)
	if err != nil {
		return nil, NewInternalError("listing notifications", err)
	}
	return notifications, nil
}
