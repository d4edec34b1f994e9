package ui

import (
	"errors"
	"fmt"
	"log"

	"github.com/ncruces/zenity"
	"github.com/pkg/browser"
)

// ProjectURL is the BinkyBox home page.
const ProjectURL = "https://github.com/TanaroSch/binkybox"

// OpenHelp opens the project page in the default browser.
func OpenHelp() {
	log.Printf("Opening help page: %s", ProjectURL)
	if err := browser.OpenURL(ProjectURL); err != nil {
		log.Printf("Failed to open help page: %v", err)
		ShowAdminNotification(LevelWarn, "Help", fmt.Sprintf("Could not open %s: %v", ProjectURL, err))
	}
}

// ShowAbout shows the version dialog. Choosing the project page opens it.
func ShowAbout(version string) {
	err := zenity.Question(
		fmt.Sprintf("BinkyBox %s\n\nSwitch virtual desktops with keyboard shortcuts.", version),
		zenity.Title("About BinkyBox"),
		zenity.InfoIcon,
		zenity.OKLabel("Project Page"),
		zenity.CancelLabel("Close"),
	)
	if err == nil {
		OpenHelp()
		return
	}
	if !errors.Is(err, zenity.ErrCanceled) {
		log.Printf("About dialog failed: %v", err)
	}
}
