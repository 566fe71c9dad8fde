package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nabilhq/openwall/backend/internal/cache"
	"github.com/nabilhq/openwall/backend/internal/logging"
	"github.com/nabilhq/openwall/backend/internal/models"
	"github.com/nabilhq/openwall/backend/internal/repositories"
)

// friendListLimit caps every friend-graph listing.
const friendListLimit = 20

// SocialService owns the friend-request state machine and the derived
// friend-set views.
type SocialService struct {
	repos  *repositories.Repositories
	tx     repositories.TxManager
	cache  cache.FriendSet
	logger *logging.Logger
}

// NewSocialService creates a new SocialService
func NewSocialService(repos *repositories.Repositories, tx repositories.TxManager, friendCache cache.FriendSet, logger *logging.Logger) *SocialService {
	return &SocialService{repos: repos, tx: tx, cache: friendCache, logger: logger}
}

// ToggleFriendRequest creates a PENDING edge requester->target, or cancels
// it when one already exists. Both directions notify the target: a request
// notification on create, a cancellation notification on cancel. Exactly one
// edge state transition per call, all writes in one transaction. Returns
// whether a request now exists.
func (s *SocialService) ToggleFriendRequest(ctx context.Context, requesterID, targetID uint) (bool, error) {
	if requesterID == targetID {
		return false, NewValidationError("cannot send a friend request to yourself")
	}

	requester, err := s.getUser(requesterID)
	if err != nil {
		return false, err
	}
	if _, err := s.getUser(targetID); err != nil {
		return false, err
	}

	var created bool
	err = s.tx.InTx(ctx, func(r *repositories.Repositories) error {
		edge, err := r.Friends.GetEdge(requesterID, targetID)
		switch {
		case err == nil:
			// Cancel: the edge goes first, then the cancellation record.
			// Earlier notifications stay; only unlike deletes rows.
			if err := r.Friends.DeleteEdge(edge.ID); err != nil {
				return err
			}
			return r.Notifications.CreateNotification(&models.Notification{
				Type:     models.NotificationFriendRequest,
				UserID:   targetID,
				FromID:   requesterID,
				FromType: models.SourceTypeUser,
				Message:  fmt.Sprintf("%s cancelled their friend request.", requester.Name),
			})
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			if err := r.Friends.CreateEdge(&models.Friend{
				UserID:   requesterID,
				FriendID: targetID,
				Status:   models.FriendStatusPending,
			}); err != nil {
				return err
			}
			return r.Notifications.CreateNotification(&models.Notification{
				Type:     models.NotificationFriendRequest,
				UserID:   targetID,
				FromID:   requesterID,
				FromType: models.SourceTypeUser,
				Message:  fmt.Sprintf("%s sent you a friend request.", requester.Name),
			})
		default:
			return err
		}
	})
	if err != nil {
		return false, NewInternalError("toggling friend request", err)
	}

	s.cache.Invalidate(ctx, requesterID, targetID)
	return created, nil
}

// AcceptFriendRequest turns the PENDING edge requester->accepter into an
// ACCEPTED pair: the original edge is promoted and the reverse edge is
// created (or promoted) so both directions read ACCEPTED. Both parties get a
// FRIEND_ACCEPT notification. All three writes share one transaction.
func (s *SocialService) AcceptFriendRequest(ctx context.Context, accepterID, requesterID uint) error {
	accepter, err := s.getUser(accepterID)
	if err != nil {
		return err
	}
	requester, err := s.getUser(requesterID)
	if err != nil {
		return err
	}

	err = s.tx.InTx(ctx, func(r *repositories.Repositories) error {
		edge, err := r.Friends.GetEdge(requesterID, accepterID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewNotFoundError("friend request not found")
			}
			return err
		}
		if edge.Status != models.FriendStatusPending {
			return NewNotFoundError("friend request not found")
		}

		if err := r.Friends.UpdateEdgeStatus(edge.ID, models.FriendStatusAccepted); err != nil {
			return err
		}

		reverse, err := r.Friends.GetEdge(accepterID, requesterID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := r.Friends.CreateEdge(&models.Friend{
				UserID:   accepterID,
				FriendID: requesterID,
				Status:   models.FriendStatusAccepted,
			}); err != nil {
				return err
			}
		case err != nil:
			return err
		case reverse.Status != models.FriendStatusAccepted:
			if err := r.Friends.UpdateEdgeStatus(reverse.ID, models.FriendStatusAccepted); err != nil {
				return err
			}
		}

		if err := r.Notifications.CreateNotification(&models.Notification{
			Type:     models.NotificationFriendAccept,
			UserID:   requesterID,
			FromID:   accepterID,
			FromType: models.SourceTypeUser,
			Message:  fmt.Sprintf("%s accepted your friend request.", accepter.Name),
		}); err != nil {
			return err
		}
		return r.Notifications.CreateNotification(&models.Notification{
			Type:     models.NotificationFriendAccept,
			UserID:   accepterID,
			FromID:   requesterID,
			FromType: models.SourceTypeUser,
			Message:  fmt.Sprintf("You are now friends with %s.", requester.Name),
		})
	})
	if err != nil {
		if KindOf(err) != KindInternal {
			return err
		}
		return NewInternalError("accepting friend request", err)
	}

	s.cache.Invalidate(ctx, accepterID, requesterID)
	s.logger.Info("friend request accepted", map[string]interface{}{
		"accepter_id": accepterID, "requester_id": requesterID,
	})
	return nil
}

// Friends returns the deduplicated union of users connected to userID by an
// ACCEPTED edge in either direction, most recent first, capped at 20.
func (s *SocialService) Friends(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.getUser(userID); err != nil {
		return nil, err
	}

	edges, err := s.repos.Friends.GetAcceptedEdgesInvolving(userID)
	if err != nil {
		return nil, NewInternalError("listing friends", err)
	}

	ids := make([]uint, 0, len(edges))
	seen := make(map[uint]bool)
	for _, e := range edges {
		other := e.FriendID
		if e.FriendID == userID {
			other = e.UserID
		}
		if !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
		if len(ids) == friendListLimit {
			break
		}
	}

	return s.usersInOrder(ids)
}

// PendingRequests returns users whose incoming request userID has not yet
// reciprocated with an outgoing ACCEPTED edge, most recent first, capped at 20.
func (s *SocialService) PendingRequests(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.getUser(userID); err != nil {
		return nil, err
	}

	incoming, err := s.repos.Friends.GetIncomingEdges(userID,
		[]string{models.FriendStatusPending, models.FriendStatusAccepted})
	if err != nil {
		return nil, NewInternalError("listing friend requests", err)
	}

	outgoing, err := s.repos.Friends.GetOutgoingEdges(userID, []string{models.FriendStatusAccepted})
	if err != nil {
		return nil, NewInternalError("listing friend requests", err)
	}
	reciprocated := make(map[uint]bool, len(outgoing))
	for _, e := range outgoing {
		reciprocated[e.FriendID] = true
	}

	ids := make([]uint, 0, len(incoming))
	for _, e := range incoming {
		if reciprocated[e.UserID] {
			continue
		}
		ids = append(ids, e.UserID)
		if len(ids) == friendListLimit {
			break
		}
	}

	return s.usersInOrder(ids)
}

// NonFriends returns users with no outgoing edge from userID, excluding the
// user, capped at 20.
func (s *SocialService) NonFriends(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.getUser(userID); err != nil {
		return nil, err
	}

	outgoing, err := s.repos.Friends.GetOutgoingEdges(userID, nil)
	if err != nil {
		return nil, NewInternalError("listing non-friends", err)
	}

	excluded := make([]uint, 0, len(outgoing)+1)
	excluded = append(excluded, userID)
	for _, e := range outgoing {
		excluded = append(excluded, e.FriendID)
	}

	users, err := s.repos.Users.GetUsersExcluding(excluded, friendListLimit)
	if err != nil {
		return nil, NewInternalError("listing non-friends", err)
	}
	return users, nil
}

// AcceptedFriendIDs returns the uncapped accepted-friend id set for a user,
// read through the cache. Feed visibility filtering uses this set.
func (s *SocialService) AcceptedFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	if ids, ok := s.cache.Get(ctx, userID); ok {
		return ids, nil
	}

	edges, err := s.repos.Friends.GetAcceptedEdgesInvolving(userID)
	if err != nil {
		return nil, NewInternalError("loading friend set", err)
	}

	ids := make([]uint, 0, len(edges))
	seen := make(map[uint]bool)
	for _, e := range edges {
		other := e.FriendID
		if e.FriendID == userID {
			other = e.UserID
		}
		if !seen[other] {
			seen[other] = true
			ids = append(ids, other)
		}
	}

	s.cache.Set(ctx, userID, ids)
	return ids, nil
}

func (s *SocialService) getUser(id uint) (*models.User, error) {
	user, err := s.repos.Users.GetUserByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("user not found")
		}
		return nil, NewInternalError("looking up user", err)
	}
	return user, nil
}

// usersInOrder fetches the users for an id list, preserving list order.
func (s *SocialService) usersInOrder(ids []uint) ([]models.User, error) {
	users, err := s.repos.Users.GetUsersByIDs(ids)
	if err != nil {
		return nil, NewInternalError("loading users", err)
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	ordered := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			ordered = append(ordered, u)
		}
	}
	return ordered, nil
}
