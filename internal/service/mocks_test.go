package service

import (
	"context"
	"database/sql"
	"sync"

	"github.com/noah-isme/aie-portal-api/internal/models"
)

type stubUsers map[string]*models.User

func (s stubUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func newUser(id string, role models.UserRole, class string) *models.User {
	u := &models.User{ID: id, Role: role, FirstName: id, IsActive: true}
	if class != "" {
		u.Class = &class
	}
	return u
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.NotificationEvent
}

func (r *recordingNotifier) Notify(ctx context.Context, event models.NotificationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingNotifier) last() models.NotificationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return models.NotificationEvent{}
	}
	return r.events[len(r.events)-1]
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
