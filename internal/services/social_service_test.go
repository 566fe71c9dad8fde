package services

import (
	"context"
	"errors"
	"testing"

	"github.com/nabilhq/openwall/backend/internal/models"
)

func newSocialFixture() (*SocialService, *memStore, *fakeFriendCache) {
	store := newMemStore()
	cache := newFakeFriendCache()
	svc := NewSocialService(store.repositories(), &passthroughTx{store: store}, cache, testLogger())
	return svc, store, cache
}

func TestToggleFriendRequestCreatesEdgeAndNotification(t *testing.T) {
	svc, store, _ := newSocialFixture()
	alice := seedUser(store, "Alice", "alice@example.com")
	bob := seedUser(store, "Bob", "bob@example.com")

	created, err := svc.ToggleFriendRequest(context.Background(), alice, bob)
	if err != nil {
		t.Fatalf("ToggleFriendRequest: %v", err)
	}
	if !created {
		t.Fatal("expected request to be created")
	}

	edge, err := store.GetEdge(alice, bob)
	if err != nil {
		t.Fatalf("edge not stored: %v", err)
	}
	if edge.Status != models.FriendStatusPending {
		t.Fatalf("edge status = %q, want PENDING", edge.Status)
	}

	notifications, _ := store.GetByRecipient(bob, 10)
	if len(notifications) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifications))
	}
	n := notifications[0]
	if n.Type != models.NotificationFriendRequest || n.FromID != alice {
		t.Fatalf("unexpected notification: %+v", n)
	}
	if n.Message != "Alice sent you a friend request." {
		t.Fatalf("unexpected message: %q", n.Message)
	}
}

func TestToggleFriendRequestTwiceCancels(t *testing.T) {
	svc, store, _ := newSocialFixture()
	alice := seedUser(store, "Alice", "alice@example.com")
	bob := seedUser(store, "Bob", "bob@example.com")

	ctx := context.Background()
	if _, err := svc.ToggleFriendRequest(ctx, alice, bob); err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	created, err := svc.ToggleFriendRequest(ctx, alice, bob)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if created {
		t.Fatal("expected second toggle to cancel")
	}

	if len(store.friends) != 0 {
		t.Fatalf("got %d edges, want 0", len(store.friends))
	}

	// The target keeps the original request notification and gains a
	// cancellation notification, newest first.
	notifications, _ := store.GetByRecipient(bob, 10)
	if len(notifications) != 2 {
		t.Fatalf("got %d notifications after cancel, want 2", len(notifications))
	}
	cancellation := notifications[0]
	if cancellation.Type != models.NotificationFriendRequest || cancellation.FromID != alice {
		t.Fatalf("unexpected cancellation notification: %+v", cancellation)
	}
	if cancellation.Message != "Alice cancelled their friend request." {
		t.Fatalf("unexpected cancellation message: %q", cancellation.Message)
	}
	if notifications[1].Message != "Alice sent you a friend request." {
		t.Fatalf("original request notification lost: %+v", notifications[1])
	}
}

func TestToggleFriendRequestRejectsSelf(t *testing.T) {
	svc, store, _ := newSocialFixture()
	alice := seedUser(store, "Alice", "alice@example.com")

	_, err := svc.ToggleFriendRequest(context.Background(), alice, alice)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestToggleFriendRequestUnknownUsers(t *testing.T) {
	svc, store, _ := newSocialFixture()
	alice := seedUser(store, "Alice", "alice@example.com")

	if _, err := svc.ToggleFriendRequest(context.Background(), 99, alice); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown requester: got %v, want not found", err)
	}
	if _, err := svc.ToggleFriendRequest(context.Background(), alice, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown target: got %v, want not found", err)
	}
	if len(store.friends) != 0 {
		t.Fatal("no edge should be written")
	}
}

func TestToggleFriendRequestInvalidatesCache(t *testing.T) {
	svc, store, cache := newSocialFixture()
	alice := seedUser(store, "Alice", "alice@example.com")
	bob := seedUser(store, "Bob", "bob@example.com")
	cache.Set(context.Background(), alice, []uint{7})
	cache.Set(context.Background(), bob, []uint{8})

	if _, err := svc.ToggleFriendRequest(context.Background(), alice, bob); err != nil {
		t.Fatalf("ToggleFriendRequest: %v", err)
	}

	if _, ok := cache.Get(context.Background(), alice); ok {
		t.Fatal("requester cache entry should be invalidated")
	}
	if _, ok := cache.Get(context.Background(), bob); ok {
		t.Fatal("target cache entry should be invalidated")
	}
}

func TestAcceptFriendRequest(t *testing.T) {
	svc, store, _ := newSocialFixture()
	alice := seedUser(store, "Alice", "alice@example.com")
	bob := seedUser(store, "Bob", "bob@example.com")

	ctx := context.Background()
	if _, err := svc.ToggleFriendRequest(ctx, alice, bob); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := svc.AcceptFriendRequest(ctx, bob, alice); err != nil {
		t.Fatalf("AcceptFriendRequest: %v", err)
	}

	forward, err := store.GetEdge(alice, bob)
	if err != nil || forward.Status != models.FriendStatusAccepted {
		t.Fatalf("forward edge = %+v, %v; want ACCEPTED", forward, err)
	}
	reverse, err := store.GetEdge(bob, alice)
	if err != nil || reverse.Status != models.FriendStatusAccepted {
		t.Fatalf("reverse edge = %+v, %v; want ACCEPTED", reverse, err)
	}

	toAlice, _ := store.GetByRecipient(alice, 10)
	var accepts []models.Notification
	for _, n := range toAlice {
		if n.Type == models.NotificationFriendAccept {
			accepts = append(accepts, n)
		}
	}
	if len(accepts) != 1 {
		t.Fatalf("requester got %d accept notifications, want 1", len(accepts))
	}
	if accepts[0].Message != "Bob accepted your friend request." {
		t.Fatalf("unexpected message: %q", accepts[0].Message)
	}

	toBob, _ := store.GetByRecipient(bob, 10)
	found := false
	for _, n := range toBob {
		if n.Type == models.NotificationFriendAccept && n.Message == "You are now friends with Alice." {
			found = true
		}
	}
	if !found {
		t.Fatal("accepter missing their accept notification")
	}
}

func TestAcceptFriendRequestWithoutPending(t *testing.T) {
	svc, store, _ := newSocialFixture()
	alice := seedUser(store, "Alice", "alice@example.com")
	bob := seedUser(store, "Bob", "bob@example.com")

	err := svc.AcceptFriendRequest(context.Background(), bob, alice)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
	if len(store.notifications) != 0 {
		t.Fatal("no notifications should be written")
	}
}

func TestAcceptFriendRequestRollsBackOnFailure(t *testing.T) {
	svc, store, _ := newSocialFixture()
	alice := seedUser(store, "Alice", "alice@example.com")
	bob := seedUser(store, "Bob", "bob@example.com")

	ctx := context.Background()
	if _, err := svc.ToggleFriendRequest(ctx, alice, bob); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	store.failCreateNotification = errors.New("insert failed")
	if err := svc.AcceptFriendRequest(ctx, bob, alice); err == nil {
		t.Fatal("expected failure")
	}

	edge, err := store.GetEdge(alice, bob)
	if err != nil {
		t.Fatalf("edge lost: %v", err)
	}
	if edge.Status != models.FriendStatusPending {
		t.Fatalf("edge status = %q after rollback, want PENDING", edge.Status)
	}
	if _, err := store.GetEdge(bob, alice); err == nil {
		t.Fatal("reverse edge should have been rolled back")
	}
}

func TestFriendsUnionDedupAndCap(t *testing.T) {
	svc, store, _ := newSocialFixture()
	me := seedUser(store, "Me", "me@example.com")

	for i := 0; i < 25; i++ {
		other := seedUser(store, "Friend", "friend@example.com")
		if i%2 == 0 {
			store.CreateEdge(&models.Friend{UserID: me, FriendID: other, Status: models.FriendStatusAccepted})
		} else {
			store.CreateEdge(&models.Friend{UserID: other, FriendID: me, Status: models.FriendStatusAccepted})
		}
		// Some friendships carry both directions; they must not double count.
		if i%5 == 0 {
			store.CreateEdge(&models.Friend{UserID: other, FriendID: me, Status: models.FriendStatusAccepted})
		}
	}

	friends, err := svc.Friends(context.Background(), me)
	if err != nil {
		t.Fatalf("Friends: %v", err)
	}
	if len(friends) != 20 {
		t.Fatalf("got %d friends, want 20", len(friends))
	}
	seen := make(map[uint]bool)
	for _, f := range friends {
		if seen[f.ID] {
			t.Fatalf("user %d listed twice", f.ID)
		}
		seen[f.ID] = true
	}
}

func TestFriendsExcludesPending(t *testing.T) {
	svc, store, _ := newSocialFixture()
	me := seedUser(store, "Me", "me@example.com")
	pending := seedUser(store, "Pending", "pending@example.com")
	accepted := seedUser(store, "Accepted", "accepted@example.com")

	store.CreateEdge(&models.Friend{UserID: me, FriendID: pending, Status: models.FriendStatusPending})
	store.CreateEdge(&models.Friend{UserID: me, FriendID: accepted, Status: models.FriendStatusAccepted})

	friends, err := svc.Friends(context.Background(), me)
	if err != nil {
		t.Fatalf("Friends: %v", err)
	}
	if len(friends) != 1 || friends[0].ID != accepted {
		t.Fatalf("got %+v, want only the accepted friend", friends)
	}
}

func TestPendingRequestsExcludesReciprocated(t *testing.T) {
	svc, store, _ := newSocialFixture()
	me := seedUser(store, "Me", "me@example.com")
	waiting := seedUser(store, "Waiting", "waiting@example.com")
	friend := seedUser(store, "Friend", "friend@example.com")

	// An unanswered incoming request.
	store.CreateEdge(&models.Friend{UserID: waiting, FriendID: me, Status: models.FriendStatusPending})
	// A settled friendship: incoming ACCEPTED reciprocated by an outgoing
	// ACCEPTED edge.
	store.CreateEdge(&models.Friend{UserID: friend, FriendID: me, Status: models.FriendStatusAccepted})
	store.CreateEdge(&models.Friend{UserID: me, FriendID: friend, Status: models.FriendStatusAccepted})

	requests, err := svc.PendingRequests(context.Background(), me)
	if err != nil {
		t.Fatalf("PendingRequests: %v", err)
	}
	if len(requests) != 1 || requests[0].ID != waiting {
		t.Fatalf("got %+v, want only the waiting requester", requests)
	}
}

func TestNonFriendsExcludesSelfAndOutgoingTargets(t *testing.T) {
	svc, store, _ := newSocialFixture()
	me := seedUser(store, "Me", "me@example.com")
	requested := seedUser(store, "Requested", "requested@example.com")
	stranger := seedUser(store, "Stranger", "stranger@example.com")

	store.CreateEdge(&models.Friend{UserID: me, FriendID: requested, Status: models.FriendStatusPending})

	users, err := svc.NonFriends(context.Background(), me)
	if err != nil {
		t.Fatalf("NonFriends: %v", err)
	}
	if len(users) != 1 || users[0].ID != stranger {
		t.Fatalf("got %+v, want only the stranger", users)
	}
}

func TestAcceptedFriendIDsReadsThroughCache(t *testing.T) {
	svc, store, cache := newSocialFixture()
	me := seedUser(store, "Me", "me@example.com")
	friend := seedUser(store, "Friend", "friend@example.com")
	store.CreateEdge(&models.Friend{UserID: me, FriendID: friend, Status: models.FriendStatusAccepted})

	ctx := context.Background()
	ids, err := svc.AcceptedFriendIDs(ctx, me)
	if err != nil {
		t.Fatalf("AcceptedFriendIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != friend {
		t.Fatalf("got %v, want [%d]", ids, friend)
	}

	// The miss populated the cache; a canned entry now wins over the store.
	cache.Set(ctx, me, []uint{42})
	ids, err = svc.AcceptedFriendIDs(ctx, me)
	if err != nil {
		t.Fatalf("AcceptedFriendIDs (cached): %v", err)
	}
	if len(ids) != 1 || ids[0] != 42 {
		t.Fatalf("got %v, want the cached set", ids)
	}
}
