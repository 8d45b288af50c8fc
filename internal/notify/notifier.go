package notify

import (
	"gorm.io/gorm"

	"telehealth-app-server/internal/logger"
	"telehealth-app-server/internal/models"
)

// Notifier delivers user notifications. Callers fire and forget: delivery is
// never awaited and failures never surface to the triggering operation.
type Notifier interface {
	Notify(userID, kind, title, message string, payload map[string]string)
}

// StoreNotifier persists notifications for later delivery by the external
// push/e-mail channel. The write happens on its own goroutine.
type StoreNotifier struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewStoreNotifier creates a StoreNotifier.
func NewStoreNotifier(db *gorm.DB, log *logger.Logger) *StoreNotifier {
	return &StoreNotifier{db: db, log: log}
}

// Notify records the notification asynchronously.
func (n *StoreNotifier) Notify(userID, kind, title, message string, payload map[string]string) {
	notification := models.Notification{
		UserID:  userID,
		Kind:    kind,
		Title:   title,
		Message: message,
		Payload: payload,
	}
	go func() {
		if err := n.db.Create(&notification).Error; err != nil {
			n.log.Error("failed to store notification",
				"userId", userID, "kind", kind, "error", err)
			return
		}
		n.log.Info("notification queued", "userId", userID, "kind", kind)
	}()
}
