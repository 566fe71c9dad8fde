package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/nabilhq/openwall/backend/internal/logging"
	"github.com/nabilhq/openwall/backend/internal/models"
	"github.com/nabilhq/openwall/backend/internal/repositories"
)

// FriendSetSource resolves a viewer's accepted-friend id set.
type FriendSetSource interface {
	AcceptedFriendIDs(ctx context.Context, userID uint) ([]uint, error)
}

// FeedService creates posts and computes visibility-filtered feed pages.
type FeedService struct {
	repos    *repositories.Repositories
	friends  FriendSetSource
	pageSize int
	// overfetch selects the pagination policy: when true (default) raw pages
	// are fetched and filtered until the requested page is full, so offsets
	// count visible posts. When false, the legacy behavior is kept: one raw
	// page is taken first and filtered after, which can return short pages.
	overfetch bool
	logger    *logging.Logger
}

// NewFeedService creates a new FeedService
func NewFeedService(repos *repositories.Repositories, friends FriendSetSource, pageSize int, overfetch bool, logger *logging.Logger) *FeedService {
	if pageSize < 1 {
		pageSize = 3
	}
	return &FeedService{repos: repos, friends: friends, pageSize: pageSize, overfetch: overfetch, logger: logger}
}

// CreatePost stores a new post for the author. Visibility defaults to PUBLIC.
func (s *FeedService) CreatePost(ctx context.Context, userID uint, req models.CreatePostRequest) (*models.Post, error) {
	if userID == 0 {
		return nil, NewValidationError("invalid input data")
	}
	if req.Content == "" && req.ImageURL == "" && req.VideoURL == "" && req.SharedPostID == nil {
		return nil, NewValidationError("post must carry content or media")
	}

	if err := s.requireUser(userID); err != nil {
		return nil, err
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	post := &models.Post{
		AuthorID:     userID,
		Content:      req.Content,
		ImageURL:     req.ImageURL,
		VideoURL:     req.VideoURL,
		GroupID:      req.GroupID,
		SharedPostID: req.SharedPostID,
		Visibility:   visibility,
	}
	if err := s.repos.Posts.CreatePost(post); err != nil {
		return nil, NewInternalError("creating post", err)
	}

	s.logger.Info("post created", map[string]interface{}{"post_id": post.ID, "author_id": userID})
	return post, nil
}

// VisiblePosts returns one feed page for the viewer, newest first. PUBLIC
// posts are always visible; FRIENDS posts when the author is an accepted
// friend of the viewer or the viewer; PRIVATE posts only to their author.
func (s *FeedService) VisiblePosts(ctx context.Context, viewerID uint, page int) ([]models.Post, error) {
	if err := s.requireUser(viewerID); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	friendSet, err := s.friendSet(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	if !s.overfetch {
		posts, err := s.repos.Posts.GetPosts((page-1)*s.pageSize, s.pageSize)
		if err != nil {
			return nil, NewInternalError("fetching posts", err)
		}
		return s.filter(posts, viewerID, friendSet), nil
	}

	// Over-fetch rounds until the requested page of visible posts is full or
	// the table is exhausted. A short batch means the store has no more rows.
	want := page * s.pageSize
	batchSize := s.pageSize * 4
	offset := 0
	visible := make([]models.Post, 0, want)
	for len(visible) < want {
		batch, err := s.repos.Posts.GetPosts(offset, batchSize)
		if err != nil {
			return nil, NewInternalError("fetching posts", err)
		}
		offset += len(batch)
		visible = append(visible, s.filter(batch, viewerID, friendSet)...)
		if len(batch) < batchSize {
			break
		}
	}

	start := (page - 1) * s.pageSize
	if start >= len(visible) {
		return []models.Post{}, nil
	}
	end := start + s.pageSize
	if end > len(visible) {
		end = len(visible)
	}
	return visible[start:end], nil
}

// PostsByAuthor returns the author's posts the viewer may see, newest first.
func (s *FeedService) PostsByAuthor(ctx context.Context, authorID, viewerID uint) ([]models.Post, error) {
	if err := s.requireUser(authorID); err != nil {
		return nil, err
	}
	if err := s.requireUser(viewerID); err != nil {
		return nil, err
	}

	friendSet, err := s.friendSet(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	posts, err := s.repos.Posts.GetPostsByAuthor(authorID)
	if err != nil {
		return nil, NewInternalError("fetching posts", err)
	}
	return s.filter(posts, viewerID, friendSet), nil
}

func (s *FeedService) filter(posts []models.Post, viewerID uint, friendSet map[uint]bool) []models.Post {
	visible := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		switch p.Visibility {
		case models.VisibilityPublic:
			visible = append(visible, p)
		case models.VisibilityFriends:
			if p.AuthorID == viewerID || friendSet[p.AuthorID] {
				visible = append(visible, p)
			}
		case models.VisibilityPrivate:
			if p.AuthorID == viewerID {
				visible = append(visible, p)
			}
		}
	}
	return visible
}

func (s *FeedService) friendSet(ctx context.Context, viewerID uint) (map[uint]bool, error) {
	ids, err := s.friends.AcceptedFriendIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (s *FeedService) requireUser(id uint) error {
	if _, err := s.repos.Users.GetUserByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("user not found")
		}
		return NewInternalError("looking up user", err)
	}
	return nil
}
