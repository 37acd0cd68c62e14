package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/aie-portal-api/internal/models"
	appErrors "github.com/noah-isme/aie-portal-api/pkg/errors"
	"github.com/noah-isme/aie-portal-api/pkg/jobs"
	"github.com/noah-isme/aie-portal-api/pkg/realtime"
)

// NotificationTaskKind tags queued notification fan-out tasks.
const NotificationTaskKind = "notification.fanout"

const inboxLimit = 100

type notificationRepository interface {
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, error)
	FindByID(ctx context.Context, id string) (*models.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	Delete(ctx context.Context, id string) error
	InsertBatch(ctx context.Context, items []models.Notification) error
	StudentsInClass(ctx context.Context, class string) ([]string, error)
	StudentsInCourse(ctx context.Context, courseID string) ([]string, error)
}

type taskEnqueuer interface {
	Enqueue(task jobs.Task) error
}

type eventPublisher interface {
	Publish(ctx context.Context, ev realtime.Event) error
}

// Notifier accepts notification events from mutating operations. Implementations never fail
// the caller.
type Notifier interface {
	Notify(ctx context.Context, ev models.NotificationEvent)
}

// NotificationService owns the inbox endpoints and the outbound fan-out of notification events.
type NotificationService struct {
	repo      notificationRepository
	queue     taskEnqueuer
	publisher eventPublisher
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewNotificationService constructs a NotificationService. Without an attached queue events are
// delivered inline.
func NewNotificationService(repo notificationRepository, publisher eventPublisher, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, publisher: publisher, metrics: metrics, logger: logger}
}

// AttachQueue routes Notify through q. The queue's handler must be HandleTask.
func (s *NotificationService) AttachQueue(q taskEnqueuer) {
	s.queue = q
}

// Notify hands ev to the outbound queue. Errors are logged and counted, never returned.
func (s *NotificationService) Notify(ctx context.Context, ev models.NotificationEvent) {
	if ev.Audience.Empty() {
		return
	}
	if s.queue == nil {
		if err := s.deliver(ctx, ev); err != nil {
			s.metrics.NotificationFailed(ev.Type)
			s.logger.Warn("notification delivery failed", zap.String("type", ev.Type), zap.Error(err))
		}
		return
	}
	if err := s.queue.Enqueue(jobs.Task{Kind: NotificationTaskKind, Payload: ev}); err != nil {
		s.metrics.NotificationDropped(ev.Type)
		s.logger.Warn("notification dropped", zap.String("type", ev.Type), zap.Error(err))
		return
	}
	s.metrics.NotificationQueued(ev.Type)
}

// HandleTask is the queue handler. A returned error makes the queue retry the task.
func (s *NotificationService) HandleTask(ctx context.Context, task jobs.Task) error {
	ev, ok := task.Payload.(models.NotificationEvent)
	if !ok {
		s.logger.Error("unexpected notification payload", zap.String("task_id", task.ID), zap.String("kind", task.Kind))
		return nil
	}
	if err := s.deliver(ctx, ev); err != nil {
		s.metrics.NotificationFailed(ev.Type)
		return err
	}
	return nil
}

func (s *NotificationService) deliver(ctx context.Context, ev models.NotificationEvent) error {
	recipients, err := s.resolve(ctx, ev.Audience, ev.ActorID)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	meta := types.JSONText("{}")
	if len(ev.Meta) > 0 {
		raw, err := json.Marshal(ev.Meta)
		if err != nil {
			s.logger.Warn("notification meta not encodable", zap.String("type", ev.Type), zap.Error(err))
		} else {
			meta = types.JSONText(raw)
		}
	}

	rows := make([]models.Notification, 0, len(recipients))
	for _, id := range recipients {
		rows = append(rows, models.Notification{
			RecipientID:   id,
			ActorID:       strPtr(ev.ActorID),
			NotifType:     ev.Type,
			Title:         ev.Title,
			Message:       strPtr(ev.Message),
			Meta:          meta,
			ResourceID:    strPtr(ev.Links.ResourceID),
			AssignmentID:  strPtr(ev.Links.AssignmentID),
			EventID:       strPtr(ev.Links.EventID),
			TimetableID:   strPtr(ev.Links.TimetableID),
			SaturdayRowID: strPtr(ev.Links.SaturdayRowID),
		})
	}
	if err := s.repo.InsertBatch(ctx, rows); err != nil {
		return fmt.Errorf("insert notifications: %w", err)
	}
	s.metrics.NotificationsCreated(ev.Type, len(rows))

	if s.publisher != nil {
		for i := range rows {
			s.push(ctx, realtime.KindNotification, rows[i].RecipientID, rows[i])
		}
	}
	return nil
}

// resolve unions the audience and drops the actor and duplicates, keeping first-seen order.
func (s *NotificationService) resolve(ctx context.Context, audience models.Audience, actorID string) ([]string, error) {
	ids := append([]string(nil), audience.UserIDs...)
	if audience.Class != "" {
		students, err := s.repo.StudentsInClass(ctx, audience.Class)
		if err != nil {
			return nil, err
		}
		ids = append(ids, students...)
	}
	if audience.CourseID != "" {
		students, err := s.repo.StudentsInCourse(ctx, audience.CourseID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, students...)
	}

	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || id == actorID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// push sends data to a connected user. Delivery is best effort.
func (s *NotificationService) push(ctx context.Context, kind, userID string, data interface{}) {
	if s.publisher == nil {
		return
	}
	raw, err := json.Marshal(data)
	if err != nil {
		s.logger.Warn("realtime payload not encodable", zap.String("kind", kind), zap.Error(err))
		return
	}
	pushCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.publisher.Publish(pushCtx, realtime.Event{Kind: kind, UserID: userID, Data: raw}); err != nil {
		s.logger.Debug("realtime publish failed", zap.String("kind", kind), zap.Error(err))
		return
	}
	s.metrics.RealtimePublished(kind)
}

// PushMessage forwards a direct message to the receiver's live connections.
func (s *NotificationService) PushMessage(ctx context.Context, msg *models.Message) {
	s.push(ctx, realtime.KindMessage, msg.ReceiverID, msg)
}

// List returns the user's inbox, newest first.
func (s *NotificationService) List(ctx context.Context, userID string, unreadOnly bool) ([]models.Notification, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id is required")
	}
	items, err := s.repo.List(ctx, models.NotificationFilter{RecipientID: userID, UnreadOnly: unreadOnly, Limit: inboxLimit})
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list notifications")
	}
	return items, nil
}

// UnreadCount counts unread notifications; failures degrade to zero.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "user_id is required")
	}
	count, err := s.repo.CountUnread(ctx, userID)
	return degradeToEmpty(s.logger, "unread_count", count, err, 0), nil
}

// MarkRead flags one notification read; only its recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		return writeError(err, "mark notification read")
	}
	return nil
}

// MarkAllRead flags every unread notification of userID.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "user_id is required")
	}
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, appErrors.Internal(err, "failed to mark notifications read")
	}
	return n, nil
}

// Delete removes one notification; only its recipient may do so.
func (s *NotificationService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return writeError(err, "delete notification")
	}
	return nil
}

func (s *NotificationService) owned(ctx context.Context, id, userID string) (*models.Notification, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user_id is required")
	}
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "notification")
	}
	if n.RecipientID != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "notification belongs to another user")
	}
	return n, nil
}
