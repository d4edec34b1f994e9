package ui

import (
	"log"

	"github.com/TanaroSch/binkybox/internal/resources"
)

// StatusIndicator shows the active desktop as the tray glyph. Updates are
// queued and applied by the tray goroutine, so callers never block.
type StatusIndicator struct {
	pending chan int
	setIcon func([]byte)
}

// NewStatusIndicator creates an indicator that applies icons with setIcon.
func NewStatusIndicator(setIcon func([]byte)) *StatusIndicator {
	return &StatusIndicator{
		pending: make(chan int, 4),
		setIcon: setIcon,
	}
}

// IconCount returns the number of desktop glyphs.
func (s *StatusIndicator) IconCount() int { return resources.GlyphCount }

// SetIconForIndex queues the glyph for the zero-based desktop index. When
// the queue is full the oldest update is discarded.
func (s *StatusIndicator) SetIconForIndex(index int) {
	for {
		select {
		case s.pending <- index:
			return
		default:
		}
		select {
		case <-s.pending:
		default:
		}
	}
}

// Run applies queued updates until done is closed.
func (s *StatusIndicator) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case index := <-s.pending:
			icon, err := resources.DesktopIcon(index)
			if err != nil {
				log.Printf("Status indicator: %v", err)
				continue
			}
			s.setIcon(icon)
		}
	}
}
