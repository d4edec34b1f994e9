package hotkey

import (
	"log"

	"github.com/TanaroSch/binkybox/internal/keys"
)

type binding struct {
	fn        Listener
	blockable bool
}

// keyGate decides which key events an input layer consumes. A key whose
// press triggered stays blocked until it is released, so neither its
// auto-repeat nor its key-up reaches other applications. Not safe for
// concurrent use; layers call it from their input thread.
type keyGate struct {
	blocked map[keys.ID]bool
	lookup  func(keys.ID) (binding, bool)
}

func newKeyGate(lookup func(keys.ID) (binding, bool)) *keyGate {
	return &keyGate{
		blocked: make(map[keys.ID]bool),
		lookup:  lookup,
	}
}

// handle reports whether the event of k is consumed.
func (g *keyGate) handle(k keys.ID, down bool) bool {
	if !down {
		if g.blocked[k] {
			delete(g.blocked, k)
			return true
		}
		return false
	}
	if g.blocked[k] {
		// Auto-repeat of a key whose press already triggered.
		return true
	}

	b, ok := g.lookup(k)
	if !ok {
		return false
	}
	if safeCall(b.fn) == Trigger && b.blockable {
		g.blocked[k] = true
		return true
	}
	return false
}

func safeCall(fn Listener) (r Result) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("RECOVERED FROM PANIC IN KEY LISTENER: %v", p)
			r = Defer
		}
	}()
	return fn()
}
