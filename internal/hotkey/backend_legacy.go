//go:build windows

package hotkey

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.design/x/hotkey"

	"github.com/TanaroSch/binkybox/internal/keys"
)

var errPerKeyBinding = errors.New("RegisterHotKey layer binds whole combinations only")

// LegacyLayer registers combinations with RegisterHotKey through
// golang.design/x/hotkey. The system only knows generic modifiers, so
// LCTRL+1 and RCTRL+1 share one registration. Each registration fans out to
// its chords in bind order and the exact one wins.
type LegacyLayer struct {
	mu     sync.Mutex
	combos map[string]*legacyCombo
}

type legacyCombo struct {
	name   string
	hk     *hotkey.Hotkey
	chords []legacyChord
	stopCh chan struct{}
}

type legacyChord struct {
	chord keys.Chord
	fn    Listener
}

// NewLegacyLayer creates a layer backed by golang.design/x/hotkey.
func NewLegacyLayer() *LegacyLayer {
	return &LegacyLayer{combos: make(map[string]*legacyCombo)}
}

func (b *LegacyLayer) Name() string { return "RegisterHotKey (golang.design/x/hotkey)" }

func (b *LegacyLayer) IsPressed(k keys.ID) bool { return isKeyDown(k) }

func (b *LegacyLayer) Bind(keys.ID, bool, Listener) error { return errPerKeyBinding }

func (b *LegacyLayer) Unbind(keys.ID) error { return nil }

// BindChord registers c with the system, or adds it to an existing
// registration of the same generic combination.
func (b *LegacyLayer) BindChord(c keys.Chord, fn Listener) error {
	mods, key, err := toHotkey(c)
	if err != nil {
		return err
	}
	name := comboName(mods, key)

	b.mu.Lock()
	defer b.mu.Unlock()

	if combo, ok := b.combos[name]; ok {
		combo.chords = append(combo.chords, legacyChord{chord: c, fn: fn})
		log.Printf("Legacy layer: '%s' shares registration '%s'", c, name)
		return nil
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return fmt.Errorf("failed to register '%s': %w", c, err)
	}
	combo := &legacyCombo{
		name:   name,
		hk:     hk,
		chords: []legacyChord{{chord: c, fn: fn}},
		stopCh: make(chan struct{}),
	}
	b.combos[name] = combo
	go b.listen(combo)

	log.Printf("Legacy layer: registered '%s' as '%s'", c, name)
	return nil
}

// UnbindChord removes c and releases the registration once no chord uses it.
func (b *LegacyLayer) UnbindChord(c keys.Chord) error {
	mods, key, err := toHotkey(c)
	if err != nil {
		return err
	}
	name := comboName(mods, key)

	b.mu.Lock()
	defer b.mu.Unlock()

	combo, ok := b.combos[name]
	if !ok {
		return nil
	}
	kept := combo.chords[:0]
	for _, lc := range combo.chords {
		if !lc.chord.Equal(c) {
			kept = append(kept, lc)
		}
	}
	combo.chords = kept
	if len(combo.chords) > 0 {
		return nil
	}

	delete(b.combos, name)
	return combo.close()
}

// Run blocks until ctx is done and then releases every registration.
func (b *LegacyLayer) Run(ctx context.Context) error {
	<-ctx.Done()

	b.mu.Lock()
	defer b.mu.Unlock()
	log.Printf("Legacy layer: unregistering all %d combinations", len(b.combos))
	for name, combo := range b.combos {
		if err := combo.close(); err != nil {
			log.Printf("Legacy layer: error unregistering '%s': %v", name, err)
		}
	}
	b.combos = make(map[string]*legacyCombo)
	return nil
}

func (b *LegacyLayer) listen(combo *legacyCombo) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("RECOVERED FROM PANIC IN LEGACY HOTKEY LISTENER (%s): %v", combo.name, r)
		}
	}()

	for {
		select {
		case <-combo.stopCh:
			return
		case <-combo.hk.Keydown():
			b.mu.Lock()
			chords := append([]legacyChord(nil), combo.chords...)
			b.mu.Unlock()

			for _, lc := range chords {
				if safeCall(lc.fn) == Trigger {
					break
				}
			}
		}
	}
}

func (c *legacyCombo) close() error {
	close(c.stopCh)
	if err := c.hk.Unregister(); err != nil {
		return fmt.Errorf("failed to unregister '%s': %w", c.name, err)
	}
	return nil
}

var _ ChordLayer = (*LegacyLayer)(nil)
