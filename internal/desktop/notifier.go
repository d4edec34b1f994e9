package desktop

import (
	"context"
	"fmt"
	"log"
)

// Indicator shows which desktop is active.
type Indicator interface {
	// IconCount returns how many desktop glyphs are available.
	IconCount() int
	// SetIconForIndex shows the glyph for the zero-based desktop index.
	SetIconForIndex(index int)
}

// Notifier keeps an Indicator in sync with the active desktop.
type Notifier struct {
	service   Service
	indicator Indicator
}

func NewNotifier(service Service, indicator Indicator) *Notifier {
	return &Notifier{service: service, indicator: indicator}
}

// Run subscribes to desktop changes and forwards them until ctx is done or
// the stream ends. Desktops without a glyph are ignored.
func (n *Notifier) Run(ctx context.Context) error {
	changes, err := n.service.Subscribe(ctx)
	if err != nil {
		log.Printf("Desktop notifier: failed to subscribe to desktop changes: %v", err)
		return fmt.Errorf("subscribe to desktop changes: %w", err)
	}
	log.Println("Desktop notifier: listening for desktop changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-changes:
			if !ok {
				log.Println("Desktop notifier: change stream closed")
				return nil
			}
			n.forward(c)
		}
	}
}

func (n *Notifier) forward(c Change) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("RECOVERED FROM PANIC IN DESKTOP NOTIFIER: %v", r)
		}
	}()

	if c.New < 0 || c.New >= n.indicator.IconCount() {
		log.Printf("Desktop notifier: no glyph for desktop %d, icon unchanged", c.New+1)
		return
	}
	n.indicator.SetIconForIndex(c.New)
}
