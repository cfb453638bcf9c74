package notify

import (
	"log"

	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/models"
)

// Pusher delivers a live event to a user's active connections.
// *realtime.Hub satisfies it; tests substitute their own.
type Pusher interface {
	Push(userID uint, event string, payload any)
}

type Service struct {
	db     *gorm.DB
	pusher Pusher
}

func NewService(db *gorm.DB, pusher Pusher) *Service {
	return &Service{db: db, pusher: pusher}
}

// Create persists the notification and then pushes it live. The row is the
// durable record; the push is best effort.
func (s *Service) Create(userID uint, typ, title, message string, data map[string]any) (*models.Notification, error) {
	n := models.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Data:    data,
	}
	if err := s.db.Create(&n).Error; err != nil {
		return nil, err
	}

	if s.pusher != nil {
		s.pusher.Push(userID, "notification", n)
	}

	return &n, nil
}

// Notify is Create for callers that treat delivery as a side effect: the
// error is logged and swallowed.
func (s *Service) Notify(userID uint, typ, title, message string, data map[string]any) {
	if _, err := s.Create(userID, typ, title, message, data); err != nil {
		log.Printf("notify: failed to create notification for user %d: %v", userID, err)
	}
}
