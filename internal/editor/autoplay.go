package editor

import (
	"context"
	"sync"
	"time"

	"kirin-dashboard/pkg/logger"
)

// Autoplayer advances the selected carousel on its configured interval. It
// follows the store: a change of selection, section type, autoplay flag or
// interval cancels the running ticker and starts a new one when needed.
type Autoplayer struct {
	store *Store

	mu          sync.Mutex
	current     autoplaySettings
	cancel      context.CancelFunc
	done        chan struct{}
	unsubscribe func()
	closed      bool
}

func NewAutoplayer(store *Store) *Autoplayer {
	initMetrics()

	a := &Autoplayer{store: store}
	a.unsubscribe = store.Subscribe(func(Event) { a.reconcile() })
	a.reconcile()
	return a
}

// Running reports whether a ticker is active, and for which section.
func (a *Autoplayer) Running() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current.sectionID, a.cancel != nil
}

// reconcile never waits for the previous ticker: it may run on that ticker's
// own goroutine through a store event.
func (a *Autoplayer) reconcile() {
	settings := a.store.autoplaySettings()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}
	if a.cancel != nil && settings == a.current {
		return
	}
	if a.cancel == nil && !settings.enabled {
		return
	}

	a.stopLocked()
	a.current = settings
	if !settings.enabled {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	a.cancel = cancel
	a.done = done

	logger.Debug("Carousel autoplay started", map[string]interface{}{
		"section_id": settings.sectionID,
		"interval":   settings.interval.String(),
	})

	go a.run(ctx, done, settings)
}

func (a *Autoplayer) run(ctx context.Context, done chan struct{}, settings autoplaySettings) {
	defer close(done)

	ticker := time.NewTicker(settings.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if a.store.AutoAdvance(settings.sectionID) {
				autoplayTicksTotal.WithLabelValues("advanced").Inc()
			} else {
				autoplayTicksTotal.WithLabelValues("skipped").Inc()
			}
		}
	}
}

func (a *Autoplayer) stopLocked() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.current = autoplaySettings{}
}

// Close stops autoplay for good and waits for the ticker goroutine to exit.
func (a *Autoplayer) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.stopLocked()
	done := a.done
	a.done = nil
	a.mu.Unlock()

	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if done != nil {
		<-done
	}
}
