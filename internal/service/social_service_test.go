package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
)

type mockSocialRepo struct {
	requests    map[string]*models.FriendRequest
	friendships map[[2]string]bool
	messages    []models.Message
	friendsErr  error
	respondErr  error
}

func newMockSocialRepo() *mockSocialRepo {
	return &mockSocialRepo{requests: map[string]*models.FriendRequest{}, friendships: map[[2]string]bool{}}
}

func (m *mockSocialRepo) PendingBetween(ctx context.Context, a, b string) (bool, error) {
	for _, r := range m.requests {
		if r.Status == models.RequestPending &&
			((r.SenderID == a && r.ReceiverID == b) || (r.SenderID == b && r.ReceiverID == a)) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSocialRepo) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	req.ID = "req-" + req.SenderID + "-" + req.ReceiverID
	m.requests[req.ID] = req
	return nil
}

func (m *mockSocialRepo) FindRequest(ctx context.Context, id string) (*models.FriendRequest, error) {
	if r, ok := m.requests[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSocialRepo) ListRequests(ctx context.Context, userID string, sent bool) ([]models.FriendRequestDetail, error) {
	return []models.FriendRequestDetail{}, nil
}

func (m *mockSocialRepo) Respond(ctx context.Context, req *models.FriendRequest, status string) error {
	if m.respondErr != nil {
		return m.respondErr
	}
	m.requests[req.ID].Status = status
	if status == models.RequestAccepted {
		a, b := models.OrderedPair(req.SenderID, req.ReceiverID)
		m.friendships[[2]string{a, b}] = true
	}
	return nil
}

func (m *mockSocialRepo) AreFriends(ctx context.Context, a, b string) (bool, error) {
	x, y := models.OrderedPair(a, b)
	return m.friendships[[2]string{x, y}], nil
}

func (m *mockSocialRepo) Friends(ctx context.Context, userID string) ([]models.Friend, error) {
	if m.friendsErr != nil {
		return nil, m.friendsErr
	}
	return []models.Friend{{}}, nil
}

func (m *mockSocialRepo) Conversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	return nil, errors.New("lateral join failed")
}

func (m *mockSocialRepo) Messages(ctx context.Context, userID, friendID string) ([]models.Message, error) {
	return m.messages, nil
}

func (m *mockSocialRepo) CreateMessage(ctx context.Context, msg *models.Message) error {
	msg.ID = "msg-1"
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *mockSocialRepo) MarkRead(ctx context.Context, userID, friendID string) (int64, error) {
	return 2, nil
}

type recordingPusher struct {
	pushed []*models.Message
}

func (r *recordingPusher) PushMessage(ctx context.Context, msg *models.Message) {
	r.pushed = append(r.pushed, msg)
}

func newSocialService(repo *mockSocialRepo, notifier Notifier, pusher messagePusher) *SocialService {
	users := stubUsers{
		"u1": newUser("u1", models.RoleStudent, "AIE-A"),
		"u2": newUser("u2", models.RoleStudent, "AIE-A"),
		"u3": newUser("u3", models.RoleFaculty, ""),
	}
	return NewSocialService(repo, users, notifier, pusher, nil, nil)
}

func TestFriendRequestToSelfIsInvalid(t *testing.T) {
	svc := newSocialService(newMockSocialRepo(), nil, nil)
	_, err := svc.SendRequest(context.Background(), models.FriendRequestInput{SenderID: "u1", ReceiverID: "u1"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestFriendRequestDuplicateEitherDirectionConflicts(t *testing.T) {
	repo := newMockSocialRepo()
	notifier := &recordingNotifier{}
	svc := newSocialService(repo, notifier, nil)
	ctx := context.Background()

	req, err := svc.SendRequest(ctx, models.FriendRequestInput{SenderID: "u1", ReceiverID: "u2"})
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, req.Status)

	ev := notifier.last()
	assert.Equal(t, models.NotifFriendRequest, ev.Type)
	assert.Equal(t, []string{"u2"}, ev.Audience.UserIDs)

	_, err = svc.SendRequest(ctx, models.FriendRequestInput{SenderID: "u1", ReceiverID: "u2"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
	_, err = svc.SendRequest(ctx, models.FriendRequestInput{SenderID: "u2", ReceiverID: "u1"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.SendRequest(ctx, models.FriendRequestInput{SenderID: "u1", ReceiverID: "ghost"})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestRespondOnlyReceiverOnlyPending(t *testing.T) {
	repo := newMockSocialRepo()
	notifier := &recordingNotifier{}
	svc := newSocialService(repo, notifier, nil)
	ctx := context.Background()

	req, err := svc.SendRequest(ctx, models.FriendRequestInput{SenderID: "u2", ReceiverID: "u1"})
	require.NoError(t, err)

	_, err = svc.Respond(ctx, req.ID, models.FriendRequestAction{Action: "accept", UserID: "u2"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))

	_, err = svc.Respond(ctx, req.ID, models.FriendRequestAction{Action: "accept"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Respond(ctx, req.ID, models.FriendRequestAction{Action: "maybe", UserID: "u1"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	accepted, err := svc.Respond(ctx, req.ID, models.FriendRequestAction{Action: "accept", UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, accepted.Status)
	assert.Len(t, repo.friendships, 1)
	assert.True(t, repo.friendships[[2]string{"u1", "u2"}])
	assert.Equal(t, []string{"u2"}, notifier.last().Audience.UserIDs)

	_, err = svc.Respond(ctx, req.ID, models.FriendRequestAction{Action: "reject", UserID: "u1"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))

	_, err = svc.SendRequest(ctx, models.FriendRequestInput{SenderID: "u1", ReceiverID: "u2"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestRespondLostRaceIsConflict(t *testing.T) {
	repo := newMockSocialRepo()
	svc := newSocialService(repo, nil, nil)
	req, err := svc.SendRequest(context.Background(), models.FriendRequestInput{SenderID: "u2", ReceiverID: "u1"})
	require.NoError(t, err)

	repo.respondErr = sql.ErrNoRows
	_, err = svc.Respond(context.Background(), req.ID, models.FriendRequestAction{Action: "accept", UserID: "u1"})
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
}

func TestMessageRequiresFriendship(t *testing.T) {
	repo := newMockSocialRepo()
	notifier := &recordingNotifier{}
	pusher := &recordingPusher{}
	svc := newSocialService(repo, notifier, pusher)
	ctx := context.Background()

	_, err := svc.SendMessage(ctx, models.MessageInput{SenderID: "u1", ReceiverID: "u3", Content: "hi"})
	assert.True(t, errors.Is(err, appErrors.ErrForbidden))
	assert.Empty(t, pusher.pushed)

	repo.friendships[[2]string{"u1", "u3"}] = true
	msg, err := svc.SendMessage(ctx, models.MessageInput{SenderID: "u3", ReceiverID: "u1", Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "text", msg.MessageType)
	require.Len(t, pusher.pushed, 1)
	assert.Equal(t, "u1", pusher.pushed[0].ReceiverID)

	ev := notifier.last()
	assert.Equal(t, models.NotifChat, ev.Type)
	assert.Equal(t, []string{"u1"}, ev.Audience.UserIDs)
	assert.Equal(t, "u3", ev.ActorID)
}

func TestFriendsAndConversationsDegrade(t *testing.T) {
	repo := newMockSocialRepo()
	repo.friendsErr = errors.New("boom")
	svc := newSocialService(repo, nil, nil)

	assert.Equal(t, []models.Friend{}, svc.Friends(context.Background(), "u1"))
	assert.Equal(t, []models.Conversation{}, svc.Conversations(context.Background(), "u1"))
}

func TestPreviewTruncates(t *testing.T) {
	long := make([]rune, 100)
	for i := range long {
		long[i] = 'a'
	}
	assert.Len(t, []rune(preview(string(long))), 80)
	assert.Equal(t, "short", preview("short"))
}
