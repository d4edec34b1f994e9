package ui

import (
	"errors"
	"testing"
)

func TestShowAdminNotificationFilters(t *testing.T) {
	tests := []struct {
		name     string
		enabled  bool
		minLevel NotificationLevel
		level    NotificationLevel
		want     int
	}{
		{"disabled", false, LevelInfo, LevelError, 0},
		{"info passes", true, LevelInfo, LevelInfo, 1},
		{"below minimum", true, LevelWarn, LevelInfo, 0},
		{"error at warn minimum", true, LevelWarn, LevelError, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNotificationManager(tt.enabled, "BinkyBox", tt.minLevel, nil)
			sent := 0
			n.notify = func(*NotificationManager, string, string) error {
				sent++
				return nil
			}
			n.ShowAdminNotification(tt.level, "Title", "Message")
			if sent != tt.want {
				t.Errorf("sent = %d, want %d", sent, tt.want)
			}
		})
	}
}

func TestGlobalNotifications(t *testing.T) {
	InitGlobalNotifications(nil)
	ShowAdminNotification(LevelError, "ignored", "no manager")

	n := NewNotificationManager(true, "BinkyBox", LevelInfo, nil)
	var titles []string
	n.notify = func(_ *NotificationManager, title, _ string) error {
		titles = append(titles, title)
		return errors.New("platform unavailable")
	}
	InitGlobalNotifications(n)
	defer InitGlobalNotifications(nil)

	ShowAdminNotification(LevelInfo, "Configuration Reloaded", "ok")
	if len(titles) != 1 || titles[0] != "Configuration Reloaded" {
		t.Errorf("titles = %v", titles)
	}
}
