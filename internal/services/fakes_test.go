package services

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/nabilhq/openwall/backend/internal/logging"
	"github.com/nabilhq/openwall/backend/internal/models"
	"github.com/nabilhq/openwall/backend/internal/repositories"
)

// memStore is an in-memory implementation of every relational repository.
// Slices hold rows in insertion order; listings that the real store returns
// newest first are served reversed.
type memStore struct {
	users         []models.User
	friends       []models.Friend
	posts         []models.Post
	likes         []models.Like
	comments      []models.Comment
	notifications []models.Notification

	nextUserID         uint
	nextFriendID       uint
	nextPostID         uint
	nextLikeID         uint
	nextCommentID      uint
	nextNotificationID uint

	// failCreateNotification, when set, makes the next notification insert
	// fail with this error.
	failCreateNotification error
}

func newMemStore() *memStore {
	return &memStore{}
}

func (m *memStore) repositories() *repositories.Repositories {
	return &repositories.Repositories{
		Users:         m,
		Friends:       m,
		Posts:         m,
		Likes:         m,
		Comments:      m,
		Notifications: m,
	}
}

// UserRepository

func (m *memStore) CreateUser(user *models.User) error {
	m.nextUserID++
	user.ID = m.nextUserID
	m.users = append(m.users, *user)
	return nil
}

func (m *memStore) GetUserByID(id uint) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) GetUserByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) GetUsersByIDs(ids []uint) ([]models.User, error) {
	want := make(map[uint]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.User
	for _, u := range m.users {
		if want[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memStore) GetUsersExcluding(excluded []uint, limit int) ([]models.User, error) {
	skip := make(map[uint]bool, len(excluded))
	for _, id := range excluded {
		skip[id] = true
	}
	var out []models.User
	for _, u := range m.users {
		if !skip[u.ID] {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) UpdateUser(user *models.User) error {
	for i, u := range m.users {
		if u.ID == user.ID {
			m.users[i] = *user
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// FriendRepository

func (m *memStore) GetEdge(userID, friendID uint) (*models.Friend, error) {
	for _, e := range m.friends {
		if e.UserID == userID && e.FriendID == friendID {
			edge := e
			return &edge, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) CreateEdge(edge *models.Friend) error {
	m.nextFriendID++
	edge.ID = m.nextFriendID
	if edge.Status == "" {
		edge.Status = models.FriendStatusPending
	}
	m.friends = append(m.friends, *edge)
	return nil
}

func (m *memStore) DeleteEdge(id uint) error {
	for i, e := range m.friends {
		if e.ID == id {
			m.friends = append(m.friends[:i], m.friends[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memStore) UpdateEdgeStatus(id uint, status string) error {
	for i, e := range m.friends {
		if e.ID == id {
			m.friends[i].Status = status
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memStore) GetAcceptedEdgesInvolving(userID uint) ([]models.Friend, error) {
	var out []models.Friend
	for i := len(m.friends) - 1; i >= 0; i-- {
		e := m.friends[i]
		if e.Status == models.FriendStatusAccepted && (e.UserID == userID || e.FriendID == userID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) GetIncomingEdges(userID uint, statuses []string) ([]models.Friend, error) {
	var out []models.Friend
	for i := len(m.friends) - 1; i >= 0; i-- {
		e := m.friends[i]
		if e.FriendID == userID && statusMatch(e.Status, statuses) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) GetOutgoingEdges(userID uint, statuses []string) ([]models.Friend, error) {
	var out []models.Friend
	for i := len(m.friends) - 1; i >= 0; i-- {
		e := m.friends[i]
		if e.UserID == userID && statusMatch(e.Status, statuses) {
			out = append(out, e)
		}
	}
	return out, nil
}

func statusMatch(status string, statuses []string) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// PostRepository

func (m *memStore) CreatePost(post *models.Post) error {
	m.nextPostID++
	post.ID = m.nextPostID
	if post.Visibility == "" {
		post.Visibility = models.VisibilityPublic
	}
	m.posts = append(m.posts, *post)
	return nil
}

func (m *memStore) GetPostByID(id uint) (*models.Post, error) {
	for _, p := range m.posts {
		if p.ID == id {
			post := p
			return &post, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) GetPosts(offset, limit int) ([]models.Post, error) {
	desc := make([]models.Post, 0, len(m.posts))
	for i := len(m.posts) - 1; i >= 0; i-- {
		desc = append(desc, m.posts[i])
	}
	if offset >= len(desc) {
		return nil, nil
	}
	desc = desc[offset:]
	if len(desc) > limit {
		desc = desc[:limit]
	}
	return desc, nil
}

func (m *memStore) GetPostsByAuthor(authorID uint) ([]models.Post, error) {
	var out []models.Post
	for i := len(m.posts) - 1; i >= 0; i-- {
		if m.posts[i].AuthorID == authorID {
			out = append(out, m.posts[i])
		}
	}
	return out, nil
}

func (m *memStore) GetPostsByIDs(ids []uint) ([]models.Post, error) {
	want := make(map[uint]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Post
	for _, p := range m.posts {
		if want[p.ID] {
			out = append(out, p)
		}
	}
	return out, nil
}

// LikeRepository

func (m *memStore) GetLike(userID, postID uint) (*models.Like, error) {
	for _, l := range m.likes {
		if l.UserID == userID && l.PostID == postID {
			like := l
			return &like, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) CreateLike(like *models.Like) error {
	m.nextLikeID++
	like.ID = m.nextLikeID
	m.likes = append(m.likes, *like)
	return nil
}

func (m *memStore) DeleteLike(id uint) error {
	for i, l := range m.likes {
		if l.ID == id {
			m.likes = append(m.likes[:i], m.likes[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memStore) GetLikesByUser(userID uint) ([]models.Like, error) {
	var out []models.Like
	for i := len(m.likes) - 1; i >= 0; i-- {
		if m.likes[i].UserID == userID {
			out = append(out, m.likes[i])
		}
	}
	return out, nil
}

func (m *memStore) GetLikesByPost(postID uint) ([]models.Like, error) {
	var out []models.Like
	for _, l := range m.likes {
		if l.PostID == postID {
			out = append(out, l)
		}
	}
	return out, nil
}

// CommentRepository

func (m *memStore) CreateComment(comment *models.Comment) error {
	m.nextCommentID++
	comment.ID = m.nextCommentID
	m.comments = append(m.comments, *comment)
	return nil
}

func (m *memStore) GetCommentsByPost(postID uint) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range m.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

// NotificationRepository

func (m *memStore) CreateNotification(notification *models.Notification) error {
	if m.failCreateNotification != nil {
		err := m.failCreateNotification
		m.failCreateNotification = nil
		return err
	}
	m.nextNotificationID++
	notification.ID = m.nextNotificationID
	m.notifications = append(m.notifications, *notification)
	return nil
}

func (m *memStore) DeleteByTypeRecipientActor(ntype string, recipientID, fromID uint, fromType string) error {
	kept := m.notifications[:0]
	for _, n := range m.notifications {
		if n.Type == ntype && n.UserID == recipientID && n.FromID == fromID && n.FromType == fromType {
			continue
		}
		kept = append(kept, n)
	}
	m.notifications = kept
	return nil
}

func (m *memStore) GetByRecipient(recipientID uint, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for i := len(m.notifications) - 1; i >= 0; i-- {
		if m.notifications[i].UserID == recipientID {
			out = append(out, m.notifications[i])
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// passthroughTx runs the function against the same store, with optional
// rollback: when fn fails, the store is restored to its pre-call snapshot.
type passthroughTx struct {
	store *memStore
}

func (t *passthroughTx) InTx(ctx context.Context, fn func(r *repositories.Repositories) error) error {
	snapshot := *t.store
	snapshot.friends = append([]models.Friend(nil), t.store.friends...)
	snapshot.likes = append([]models.Like(nil), t.store.likes...)
	snapshot.notifications = append([]models.Notification(nil), t.store.notifications...)

	if err := fn(t.store.repositories()); err != nil {
		*t.store = snapshot
		return err
	}
	return nil
}

// fakeFriendCache records invalidations and optionally serves a canned set.
type fakeFriendCache struct {
	sets        map[uint][]uint
	invalidated []uint
}

func newFakeFriendCache() *fakeFriendCache {
	return &fakeFriendCache{sets: make(map[uint][]uint)}
}

func (c *fakeFriendCache) Get(ctx context.Context, userID uint) ([]uint, bool) {
	ids, ok := c.sets[userID]
	return ids, ok
}

func (c *fakeFriendCache) Set(ctx context.Context, userID uint, ids []uint) {
	c.sets[userID] = ids
}

func (c *fakeFriendCache) Invalidate(ctx context.Context, userIDs ...uint) {
	for _, id := range userIDs {
		delete(c.sets, id)
		c.invalidated = append(c.invalidated, id)
	}
}

func testLogger() *logging.Logger {
	return logging.New().SetLevel(logging.LevelError)
}

// seedUser inserts a user and returns its id.
func seedUser(m *memStore, name, email string) uint {
	u := &models.User{Name: name, Email: email, Password: "x"}
	m.CreateUser(u)
	return u.ID
}
