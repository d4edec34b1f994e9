package hotkey

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/TanaroSch/binkybox/internal/config"
	"github.com/TanaroSch/binkybox/internal/keys"
	"github.com/TanaroSch/binkybox/internal/shortcut"
)

// Press is sent when a bound chord is pressed.
type Press struct {
	Slot     int // 1-based desktop slot
	Index    int // zero-based desktop index
	Shortcut string
}

// Entry is one live binding: a resolved chord and the desktop it switches to.
type Entry struct {
	Slot      int
	Index     int
	Shortcut  string // canonical form actually bound
	Keys      keys.Chord
	FellBack  bool     // the configured string was invalid and the default is used
	Dropped   []string // tokens the resolver did not know
	Duplicate bool
}

// Report describes the outcome of a Rebind.
type Report struct {
	Entries    []Entry
	Bound      int   // entries whose binding the input layer accepted
	FellBack   []int // slots that use their default shortcut
	Duplicates []int // slots whose chord is already bound by a lower slot
	Empty      []int // slots whose shortcut resolved to no keys
	Errors     []error
}

func (r Report) String() string {
	return fmt.Sprintf("%d bound, %d fell back to default, %d duplicate, %d empty, %d errors",
		r.Bound, len(r.FellBack), len(r.Duplicates), len(r.Empty), len(r.Errors))
}

type snapshot struct {
	entries []Entry
	byKey   map[keys.ID][]Entry
}

// Table owns the set of bindings registered with an input layer. Rebind is
// the only writer; listeners read the committed snapshot without locking.
type Table struct {
	mu       sync.Mutex
	layer    Layer
	slots    int
	dispatch func(Press) bool

	current     atomic.Pointer[snapshot]
	boundKeys   []keys.ID
	boundChords []keys.Chord
}

// NewTable creates a table for the given number of desktop slots. dispatch
// is called on the input thread when a chord triggers; it must not block and
// reports whether the trigger was accepted.
func NewTable(layer Layer, slots int, dispatch func(Press) bool) *Table {
	return &Table{
		layer:    layer,
		slots:    slots,
		dispatch: dispatch,
	}
}

// Evaluate applies the matching rule for one chord. Every key before the
// terminal key must be held, and no key of universe outside the chord may be
// held. The terminal key itself is the one being pressed and is not queried.
func Evaluate(chord keys.Chord, held func(keys.ID) bool, universe []keys.ID) Result {
	if len(chord) == 0 {
		return Defer
	}
	for _, k := range chord[:len(chord)-1] {
		if !held(k) {
			return Defer
		}
	}
	for _, k := range universe {
		if chord.Contains(k) {
			continue
		}
		if held(k) {
			return PassThrough
		}
	}
	return Trigger
}

// Entries returns the bindings committed by the last Rebind.
func (t *Table) Entries() []Entry {
	snap := t.current.Load()
	if snap == nil {
		return nil
	}
	return append([]Entry(nil), snap.entries...)
}

// Rebind tears down every binding and installs the shortcuts of s. Slots with
// an invalid shortcut use their default. When two slots resolve to the same
// chord the lower slot keeps it.
func (t *Table) Rebind(s config.Shortcuts) Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	var report Report
	t.unbindAllLocked(&report)

	snap := &snapshot{byKey: make(map[keys.ID][]Entry)}
	var live []Entry
	for slot := 1; slot <= t.slots; slot++ {
		raw, _ := s.Get(slot)
		canonical, fellBack := shortcut.Effective(slot, raw)
		res := keys.Resolve(canonical)

		e := Entry{
			Slot:     slot,
			Index:    slot - 1,
			Shortcut: canonical,
			Keys:     res.Keys,
			FellBack: fellBack,
			Dropped:  res.Dropped,
		}
		if fellBack {
			report.FellBack = append(report.FellBack, slot)
			log.Printf("Binding table: shortcut '%s' for %s is invalid, using default '%s'",
				raw, config.SlotName(slot), canonical)
		}
		if len(res.Dropped) > 0 {
			log.Printf("Binding table: dropped unknown keys %v from '%s'", res.Dropped, canonical)
		}

		switch {
		case len(e.Keys) == 0:
			report.Empty = append(report.Empty, slot)
			log.Printf("Binding table: '%s' for %s has no known keys, not bound", canonical, config.SlotName(slot))
		case duplicateOf(live, e.Keys) > 0:
			e.Duplicate = true
			report.Duplicates = append(report.Duplicates, slot)
			log.Printf("Binding table: '%s' for %s is already bound to %s, not bound",
				canonical, config.SlotName(slot), config.SlotName(duplicateOf(live, e.Keys)))
		default:
			live = append(live, e)
			terminal, _ := e.Keys.Terminal()
			snap.byKey[terminal] = append(snap.byKey[terminal], e)
		}
		snap.entries = append(snap.entries, e)
	}
	report.Entries = snap.entries

	// Commit before installing listeners so the first event already sees
	// the complete new table.
	t.current.Store(snap)

	if cl, ok := t.layer.(ChordLayer); ok {
		for _, e := range live {
			if err := cl.BindChord(e.Keys, t.entryListener(e)); err != nil {
				report.Errors = append(report.Errors, fmt.Errorf("bind '%s': %w", e.Shortcut, err))
				continue
			}
			t.boundChords = append(t.boundChords, e.Keys)
			report.Bound++
		}
	} else {
		failed := make(map[keys.ID]bool)
		for _, e := range live {
			terminal, _ := e.Keys.Terminal()
			if failed[terminal] {
				continue
			}
			if !t.isBoundLocked(terminal) {
				if err := t.layer.Bind(terminal, true, t.keyListener(terminal)); err != nil {
					report.Errors = append(report.Errors, fmt.Errorf("bind key %s: %w", terminal, err))
					failed[terminal] = true
					continue
				}
				t.boundKeys = append(t.boundKeys, terminal)
			}
			report.Bound++
		}
	}

	log.Printf("Binding table: rebind on %s complete: %s", t.layer.Name(), report)
	return report
}

// Clear removes every binding from the input layer.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	var report Report
	t.unbindAllLocked(&report)
	t.current.Store(nil)
}

func (t *Table) unbindAllLocked(report *Report) {
	for _, k := range t.boundKeys {
		if err := t.layer.Unbind(k); err != nil {
			log.Printf("Binding table: error unbinding %s: %v", k, err)
			report.Errors = append(report.Errors, err)
		}
	}
	t.boundKeys = nil

	if cl, ok := t.layer.(ChordLayer); ok {
		for _, c := range t.boundChords {
			if err := cl.UnbindChord(c); err != nil {
				log.Printf("Binding table: error unbinding %s: %v", c, err)
				report.Errors = append(report.Errors, err)
			}
		}
	}
	t.boundChords = nil
}

func (t *Table) isBoundLocked(k keys.ID) bool {
	for _, b := range t.boundKeys {
		if b == k {
			return true
		}
	}
	return false
}

// keyListener evaluates all entries ending in k in slot order. The first
// exact match wins.
func (t *Table) keyListener(k keys.ID) Listener {
	return func() Result {
		snap := t.current.Load()
		if snap == nil {
			return Defer
		}
		result := Defer
		for _, e := range snap.byKey[k] {
			r := Evaluate(e.Keys, t.layer.IsPressed, keys.All())
			if r == Trigger {
				t.fire(e)
				return Trigger
			}
			if r > result {
				result = r
			}
		}
		return result
	}
}

func (t *Table) entryListener(e Entry) Listener {
	return func() Result {
		r := Evaluate(e.Keys, t.layer.IsPressed, keys.All())
		if r == Trigger {
			t.fire(e)
		}
		return r
	}
}

func (t *Table) fire(e Entry) {
	if t.dispatch == nil {
		return
	}
	if !t.dispatch(Press{Slot: e.Slot, Index: e.Index, Shortcut: e.Shortcut}) {
		log.Printf("Binding table: trigger for '%s' dropped, switch queue is full", e.Shortcut)
	}
}

// duplicateOf returns the slot of the live entry bound to chord, or 0.
func duplicateOf(live []Entry, chord keys.Chord) int {
	for _, e := range live {
		if e.Keys.Equal(chord) {
			return e.Slot
		}
	}
	return 0
}
