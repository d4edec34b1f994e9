package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/TanaroSch/binkybox/internal/app"
	"github.com/TanaroSch/binkybox/internal/config"
	"github.com/TanaroSch/binkybox/internal/desktop"
	"github.com/TanaroSch/binkybox/internal/hotkey"
	"github.com/TanaroSch/binkybox/internal/ipc"
	"github.com/TanaroSch/binkybox/internal/resources"
	"github.com/TanaroSch/binkybox/internal/singleinstance"
	"github.com/TanaroSch/binkybox/internal/ui"
)

var version = "v0.3.0"

func main() {
	configPath := flag.String("config", config.DefaultPath, "shortcut file")
	desktops := flag.Int("desktops", config.DefaultSlots, fmt.Sprintf("number of desktop shortcuts (%d-%d)", config.MinSlots, config.MaxSlots))
	input := flag.String("input", string(hotkey.PreferHook), "input layer: hook or hotkey")
	maxAttempts := flag.Int("max-attempts", desktop.DefaultMaxAttempts, "desktops created at most while switching")
	focus := flag.Bool("focus", true, "focus a window on the new desktop after switching")
	notify := flag.Bool("notify", true, "show notifications for configuration and input problems")
	logPath := flag.String("log", "binkybox.log", "log file, empty to log to stderr only")
	send := flag.String("send", "", "send reload, settings, quit or switch:N to the running instance and exit")
	flag.Parse()

	if *send != "" {
		os.Exit(sendCommand(*send))
	}

	if closeLog := setupLogging(*logPath); closeLog != nil {
		defer closeLog()
	}
	log.Printf("BinkyBox %s starting...", version)

	pref, err := hotkey.ParsePreference(*input)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	lock, err := singleinstance.TryLock(singleinstance.DefaultMutexName())
	if errors.Is(err, singleinstance.ErrAlreadyRunning) {
		log.Println("BinkyBox is already running. Opening its settings.")
		if _, err := ipc.Send("", ipc.Request{Command: ipc.CommandSettings}); err != nil {
			log.Printf("Failed to reach the running instance: %v", err)
		}
		return
	}
	if err != nil {
		log.Printf("Warning: single instance check failed: %v", err)
	}
	defer lock.Release()

	icon, err := resources.AppIconPNG()
	if err != nil {
		log.Printf("Warning: failed to render notification icon: %v", err)
	}
	ui.InitGlobalNotifications(ui.NewNotificationManager(*notify, "BinkyBox", ui.LevelInfo, icon))

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Fatal error: %v", r)
			os.Exit(1)
		}
	}()

	app.New(app.Options{
		Version:     version,
		ConfigPath:  *configPath,
		Slots:       *desktops,
		Input:       pref,
		MaxAttempts: *maxAttempts,
		Focus:       *focus,
	}).Run()
}

func sendCommand(text string) int {
	req, err := ipc.ParseCommand(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "binkybox: %v\n", err)
		return 2
	}
	resp, err := ipc.Send("", req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "binkybox: %v\n", err)
		return 1
	}
	if !resp.OK {
		fmt.Fprintf(os.Stderr, "binkybox: %s failed: %s\n", req, resp.Error)
		return 1
	}
	return 0
}

// setupLogging tees the log to path. The returned func closes the file.
func setupLogging(path string) func() {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		log.Printf("Warning: failed to open log file '%s': %v", path, err)
		return nil
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	return func() { f.Close() }
}
