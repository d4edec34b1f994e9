package ui

import (
	"fmt"
	"log"
	"sync"

	"github.com/getlantern/systray"

	"github.com/TanaroSch/binkybox/internal/resources"
)

// MenuActions are the callbacks behind the tray menu. Nil actions hide
// nothing; their clicks are only logged.
type MenuActions struct {
	SwitchTo   func(index int)
	Settings   func()
	Reload     func()
	OpenConfig func()
	Help       func()
	About      func()
	Quit       func()
}

// SystrayManager handles the system tray icon and menu
type SystrayManager struct {
	version   string
	actions   MenuActions
	indicator *StatusIndicator

	mu           sync.Mutex
	shortcuts    []string
	desktopItems []*systray.MenuItem

	onStart func()
	done    chan struct{}
}

// NewSystrayManager creates a tray with one "Desktops" entry per shortcut.
// onStart runs once the tray is ready.
func NewSystrayManager(version string, shortcuts []string, actions MenuActions, onStart func()) *SystrayManager {
	return &SystrayManager{
		version:   version,
		actions:   actions,
		shortcuts: append([]string(nil), shortcuts...),
		indicator: NewStatusIndicator(systray.SetIcon),
		onStart:   onStart,
		done:      make(chan struct{}),
	}
}

// Indicator returns the status glyph of this tray.
func (s *SystrayManager) Indicator() *StatusIndicator { return s.indicator }

// Run initializes and starts the system tray. It blocks until Quit.
func (s *SystrayManager) Run() {
	systray.Run(s.onReady, s.onExit)
}

// Quit closes the tray and makes Run return.
func (s *SystrayManager) Quit() {
	systray.Quit()
}

// UpdateShortcuts refreshes the tooltips of the Desktops submenu after a
// rebind.
func (s *SystrayManager) UpdateShortcuts(shortcuts []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shortcuts = append([]string(nil), shortcuts...)
	for i, item := range s.desktopItems {
		if i < len(s.shortcuts) {
			item.SetTooltip(desktopTooltip(i, s.shortcuts[i]))
		}
	}
}

func (s *SystrayManager) onReady() {
	title := fmt.Sprintf("BinkyBox %s", s.version)
	systray.SetTitle("BinkyBox")
	systray.SetTooltip(title)
	if icon, err := resources.AppIcon(); err != nil {
		log.Printf("Warning: failed to render tray icon: %v", err)
	} else {
		systray.SetIcon(icon)
	}
	go s.indicator.Run(s.done)

	miVersion := systray.AddMenuItem(fmt.Sprintf("Version: %s", s.version), "BinkyBox version")
	miVersion.Disable()
	systray.AddSeparator()

	s.addDesktopMenu()
	systray.AddSeparator()

	miSettings := systray.AddMenuItem("Settings...", "Change the keyboard shortcuts")
	miReload := systray.AddMenuItem("Reload Configuration", "Read the shortcut file again and rebind")
	miOpenConfig := systray.AddMenuItem("Open Config File", "Open the shortcut file in the default editor")
	systray.AddSeparator()
	miHelp := systray.AddMenuItem("Help", "Open the BinkyBox help page")
	miAbout := systray.AddMenuItem("About", "About BinkyBox")
	systray.AddSeparator()
	miQuit := systray.AddMenuItem("Quit", "Exit the application")

	s.handle(miSettings, "Settings...", s.actions.Settings)
	s.handle(miReload, "Reload Configuration", s.actions.Reload)
	s.handle(miOpenConfig, "Open Config File", s.actions.OpenConfig)
	s.handle(miHelp, "Help", s.actions.Help)
	s.handle(miAbout, "About", s.actions.About)

	go func() {
		<-miQuit.ClickedCh
		log.Println("Quit menu item clicked.")
		if s.actions.Quit != nil {
			s.actions.Quit()
		}
		systray.Quit()
	}()

	log.Println("Systray ready and menu configured.")
	if s.onStart != nil {
		s.onStart()
	}
}

func (s *SystrayManager) addDesktopMenu() {
	s.mu.Lock()
	defer s.mu.Unlock()

	miDesktops := systray.AddMenuItem("Desktops", "Switch to a desktop")
	s.desktopItems = make([]*systray.MenuItem, 0, len(s.shortcuts))
	for i, sc := range s.shortcuts {
		item := miDesktops.AddSubMenuItem(fmt.Sprintf("Desktop %d", i+1), desktopTooltip(i, sc))
		s.desktopItems = append(s.desktopItems, item)

		go func(item *systray.MenuItem, index int) {
			for range item.ClickedCh {
				log.Printf("Desktop %d menu item clicked.", index+1)
				if s.actions.SwitchTo != nil {
					s.actions.SwitchTo(index)
				}
			}
		}(item, i)
	}
}

func (s *SystrayManager) handle(item *systray.MenuItem, name string, fn func()) {
	go func() {
		for range item.ClickedCh {
			log.Printf("%s menu item clicked.", name)
			if fn != nil {
				fn()
			}
		}
	}()
}

// onExit is called when the systray is exiting
func (s *SystrayManager) onExit() {
	close(s.done)
	log.Println("Systray exiting.")
}

func desktopTooltip(index int, shortcut string) string {
	if shortcut == "" {
		return fmt.Sprintf("Switch to Desktop %d (no shortcut)", index+1)
	}
	return fmt.Sprintf("Switch to Desktop %d (%s)", index+1, shortcut)
}
