package ui

import (
	"log"
	"sync"
)

// NotificationLevel orders admin notifications by importance.
type NotificationLevel int

const (
	LevelInfo NotificationLevel = iota
	LevelWarn
	LevelError
)

func (l NotificationLevel) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// NotificationManager shows desktop notifications about the application
// itself: reloads, degraded input and errors. Desktop switches never notify.
type NotificationManager struct {
	enabled  bool
	appName  string
	minLevel NotificationLevel
	icon     []byte

	// notify is the platform sender; replaced in tests.
	notify func(n *NotificationManager, title, message string) error
}

// NewNotificationManager creates a manager. icon is written to a temporary
// file for platforms that want an image path.
func NewNotificationManager(enabled bool, appName string, minLevel NotificationLevel, icon []byte) *NotificationManager {
	return &NotificationManager{
		enabled:  enabled,
		appName:  appName,
		minLevel: minLevel,
		icon:     icon,
		notify:   (*NotificationManager).platformNotify,
	}
}

// ShowAdminNotification displays a notification if notifications are on and
// level is at least the configured minimum. Everything is logged.
func (n *NotificationManager) ShowAdminNotification(level NotificationLevel, title, message string) {
	log.Printf("Notification [%s] %s: %s", level, title, message)
	if !n.enabled || level < n.minLevel {
		return
	}
	if err := n.notify(n, title, message); err != nil {
		log.Printf("Error showing notification: %v", err)
	}
}

var (
	globalMu                  sync.RWMutex
	globalNotificationManager *NotificationManager
)

// InitGlobalNotifications installs the manager used by ShowAdminNotification.
func InitGlobalNotifications(n *NotificationManager) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalNotificationManager = n
}

// ShowAdminNotification is a convenience function for showing notifications
// without directly referencing the notification manager
func ShowAdminNotification(level NotificationLevel, title, message string) {
	globalMu.RLock()
	n := globalNotificationManager
	globalMu.RUnlock()

	if n == nil {
		log.Printf("Notification not shown (manager not initialized): %s - %s", title, message)
		return
	}
	n.ShowAdminNotification(level, title, message)
}
