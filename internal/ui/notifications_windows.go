//go:build windows

package ui

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-toast/toast"
)

func (n *NotificationManager) platformNotify(title, message string) error {
	var iconPath string
	if len(n.icon) > 0 {
		p, err := writeTempIcon(n.icon)
		if err != nil {
			log.Printf("Error writing temporary icon: %v", err)
		} else {
			iconPath = p
			time.AfterFunc(10*time.Second, func() {
				if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
					log.Printf("Error removing temporary icon file %s: %v", p, err)
				}
			})
		}
	}

	notification := toast.Notification{
		AppID:   n.appName,
		Title:   title,
		Message: message,
		Icon:    iconPath,
	}
	if err := notification.Push(); err != nil {
		if strings.Contains(err.Error(), "notification platform is unavailable") {
			log.Println("Toast notification failed: platform unavailable (notifications might be disabled in Windows Settings).")
		}
		return fmt.Errorf("toast: %w", err)
	}
	return nil
}

func writeTempIcon(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("cannot write empty icon data")
	}
	tmp, err := os.CreateTemp("", "binkybox-icon-*.png")
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := tmp.Write(data); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}

	abs, err := filepath.Abs(tmp.Name())
	if err != nil {
		return tmp.Name(), nil
	}
	return abs, nil
}
