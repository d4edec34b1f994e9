// Package app wires the binding table, the desktop executor and the tray
// into the running BinkyBox application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/TanaroSch/binkybox/internal/config"
	"github.com/TanaroSch/binkybox/internal/desktop"
	"github.com/TanaroSch/binkybox/internal/hotkey"
	"github.com/TanaroSch/binkybox/internal/ipc"
	"github.com/TanaroSch/binkybox/internal/ui"
)

// Options are the process settings taken from the command line.
type Options struct {
	Version     string
	ConfigPath  string
	Slots       int
	Input       hotkey.Preference
	MaxAttempts int
	Focus       bool
	PipeName    string
}

// Application represents the main application
type Application struct {
	opts Options

	mu  sync.Mutex
	cfg *config.Config

	service  desktop.Service
	executor *desktop.Executor
	layer    hotkey.Layer
	table    *hotkey.Table
	triggers chan hotkey.Press

	systrayManager *ui.SystrayManager
	settings       *ui.Settings

	ctx context.Context
}

// New loads the shortcut file and creates the application. Missing
// platform pieces leave the application in a degraded but running state.
func New(opts Options) *Application {
	opts.Slots = config.ClampSlots(opts.Slots)
	if opts.ConfigPath == "" {
		opts.ConfigPath = config.DefaultPath
	}

	a := &Application{
		opts:     opts,
		cfg:      config.Load(opts.ConfigPath, opts.Slots),
		triggers: make(chan hotkey.Press, triggerQueueSize),
	}

	service, err := desktop.NewService()
	if err != nil {
		log.Printf("Warning: virtual desktop service unavailable: %v", err)
		ui.ShowAdminNotification(ui.LevelWarn, "Virtual Desktops Unavailable", fmt.Sprintf("Desktop switching is disabled: %v", err))
	}
	a.service = service

	var focuser desktop.Focuser
	if f, ok := service.(desktop.Focuser); ok && opts.Focus {
		focuser = f
	}
	a.executor = desktop.NewExecutor(service, opts.MaxAttempts, focuser)
	a.executor.ExcludeTitle = ui.SettingsTitle

	layer, err := hotkey.SelectLayer(opts.Input)
	if err != nil {
		log.Printf("Warning: no input layer, shortcuts are disabled: %v", err)
		ui.ShowAdminNotification(ui.LevelWarn, "Shortcuts Unavailable", fmt.Sprintf("Keyboard shortcuts are disabled: %v", err))
	} else {
		a.layer = layer
		a.table = hotkey.NewTable(layer, opts.Slots, a.dispatch)
	}

	a.settings = ui.NewSettings(a.currentConfig, a.saveConfig)
	a.systrayManager = ui.NewSystrayManager(opts.Version, effectiveShortcuts(a.cfg), ui.MenuActions{
		SwitchTo:   func(index int) { a.requestSwitch(index, "tray menu") },
		Settings:   a.settings.Show,
		Reload:     a.onReloadConfig,
		OpenConfig: a.onOpenConfigFile,
		Help:       ui.OpenHelp,
		About:      func() { ui.ShowAbout(opts.Version) },
		Quit:       a.onQuit,
	}, func() { a.start(a.ctx) })

	return a
}

// Run starts every background loop and blocks in the tray until Quit.
func (a *Application) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.ctx = ctx

	goSafe("SWITCH WORKER", func() { runSwitcher(ctx, a.triggers, a.executor.SwitchTo) })

	a.systrayManager.Run()

	cancel()
	if a.table != nil {
		a.table.Clear()
	}
	log.Println("Application stopped.")
}

// start runs once the tray is ready, so glyph updates have somewhere to go.
func (a *Application) start(ctx context.Context) {
	indicator := a.systrayManager.Indicator()
	if current, err := a.service.Current(); err == nil {
		indicator.SetIconForIndex(current)
	} else {
		log.Printf("Warning: failed to read the current desktop: %v", err)
	}

	goSafe("DESKTOP NOTIFIER", func() {
		if err := desktop.NewNotifier(a.service, indicator).Run(ctx); err != nil {
			log.Printf("Warning: desktop change notifications disabled: %v", err)
		}
	})

	if a.layer != nil {
		a.rebind(a.currentConfig())
		goSafe("INPUT LAYER", func() {
			if err := a.layer.Run(ctx); err != nil {
				log.Printf("Error: input layer %s stopped: %v", a.layer.Name(), err)
				ui.ShowAdminNotification(ui.LevelError, "Shortcuts Stopped", fmt.Sprintf("The %s input layer stopped: %v", a.layer.Name(), err))
			}
		})
	}

	goSafe("CONFIG WATCHER", func() {
		err := config.Watch(ctx, a.opts.ConfigPath, config.DefaultDebounce, func() {
			log.Printf("Config file '%s' changed on disk.", a.opts.ConfigPath)
			a.reload(false)
		})
		if err != nil {
			log.Printf("Warning: config file watching disabled: %v", err)
		}
	})

	goSafe("IPC SERVER", func() {
		err := ipc.Serve(ctx, a.opts.PipeName, controlHandler{
			slots:    a.opts.Slots,
			switchTo: func(index int) bool { return a.requestSwitch(index, "control pipe") },
			reload:   a.onReloadConfig,
			settings: func() { go a.settings.Show() },
			quit:     a.systrayManager.Quit,
		})
		if err != nil && !errors.Is(err, ipc.ErrUnsupported) {
			log.Printf("Warning: instance control disabled: %v", err)
		}
	})
}

func (a *Application) dispatch(t hotkey.Press) bool {
	return enqueue(a.triggers, t)
}

func (a *Application) requestSwitch(index int, source string) bool {
	ok := enqueue(a.triggers, hotkey.Press{Slot: index + 1, Index: index, Shortcut: source})
	if !ok {
		log.Printf("Switch worker busy, dropped request for desktop %d from %s", index+1, source)
	}
	return ok
}

func (a *Application) currentConfig() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// saveConfig persists cfg and rebinds. Used by the settings dialogs.
func (a *Application) saveConfig(cfg *config.Config) error {
	if err := cfg.Save(); err != nil {
		return err
	}
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()
	a.rebind(cfg)
	return nil
}

// rebind replaces the live bindings and returns the slots that fell back to
// their default shortcut.
func (a *Application) rebind(cfg *config.Config) []int {
	if a.table == nil {
		a.systrayManager.UpdateShortcuts(effectiveShortcuts(cfg))
		return nil
	}
	report := a.table.Rebind(cfg.Shortcuts)
	for _, err := range report.Errors {
		log.Printf("Warning: %v", err)
	}
	a.systrayManager.UpdateShortcuts(menuShortcuts(a.table.Entries(), cfg.Slots()))
	return report.FellBack
}

func (a *Application) reload(notify bool) {
	cfg := config.Load(a.opts.ConfigPath, a.opts.Slots)
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()

	fellBack := a.rebind(cfg)
	if !notify {
		return
	}
	if len(fellBack) > 0 {
		ui.ShowAdminNotification(ui.LevelWarn, "Configuration Reloaded",
			fmt.Sprintf("Invalid shortcuts replaced by defaults for desktops %v.", fellBack))
		return
	}
	ui.ShowAdminNotification(ui.LevelInfo, "Configuration Reloaded", "Keyboard shortcuts have been refreshed.")
}

// onReloadConfig is called when the reload config menu item is clicked
func (a *Application) onReloadConfig() {
	log.Println("Reloading configuration...")
	a.reload(true)
}

// onQuit is called when the quit menu item is clicked
func (a *Application) onQuit() {
	log.Println("Quit requested. Unbinding shortcuts.")
	if a.table != nil {
		a.table.Clear()
	}
}

// onOpenConfigFile is called when the open config menu item is clicked
func (a *Application) onOpenConfigFile() {
	absPath, err := filepath.Abs(a.opts.ConfigPath)
	if err != nil {
		log.Printf("Warning: failed to get absolute path for '%s': %v", a.opts.ConfigPath, err)
		absPath = a.opts.ConfigPath
	}

	if _, err := os.Stat(absPath); err != nil {
		errMsg := fmt.Sprintf("Config file not available: %s", absPath)
		log.Printf("Error checking config file '%s': %v", absPath, err)
		ui.ShowAdminNotification(ui.LevelWarn, "Error Opening File", errMsg)
		return
	}

	if err := ui.OpenFileInDefaultApp(absPath); err != nil {
		ui.ShowAdminNotification(ui.LevelWarn, "Error Opening File", fmt.Sprintf("Could not open config file '%s': %v", absPath, err))
	}
}

// goSafe runs fn on its own goroutine and logs a panic instead of crashing
// the tray.
func goSafe(name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("RECOVERED FROM PANIC IN %s: %v", name, r)
			}
		}()
		fn()
	}()
}
