package service

import (
	"sort"
	"time"

	"github.com/noah-isme/aie-portal-api/internal/models"
)

// AnnouncementService serves the portal-wide notices shown on the landing page.
type AnnouncementService struct {
	items []models.Announcement
}

// NewAnnouncementService uses items, or the built-in notices when items is empty.
func NewAnnouncementService(items []models.Announcement) *AnnouncementService {
	if len(items) == 0 {
		items = defaultAnnouncements()
	}
	sorted := make([]models.Announcement, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.After(sorted[j].CreatedAt) })
	return &AnnouncementService{items: sorted}
}

// List returns announcements newest first.
func (s *AnnouncementService) List() []models.Announcement {
	out := make([]models.Announcement, len(s.items))
	copy(out, s.items)
	return out
}

func defaultAnnouncements() []models.Announcement {
	return []models.Announcement{
		{
			ID:        "welcome",
			Title:     "Welcome to AIE Portal",
			Message:   "Your timetable, assignments and course resources are now in one place.",
			Type:      "info",
			CreatedAt: time.Date(2025, 1, 6, 8, 0, 0, 0, time.UTC),
		},
		{
			ID:        "saturday-classes",
			Title:     "Saturday classes",
			Message:   "Some Saturdays follow a weekday timetable. Check the timetable for your class.",
			Type:      "update",
			CreatedAt: time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC),
		},
		{
			ID:        "friends-chat",
			Title:     "Friends and messages",
			Message:   "Send friend requests and chat with classmates from the Friends page.",
			Type:      "feature",
			CreatedAt: time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC),
		},
	}
}
