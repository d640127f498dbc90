package discovery

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Watches a backend for adapter list changes (adapters added, removed or driver updates).
// This is intended for tooling; engine start-up enumerates synchronously instead.
type AdapterWatcher struct {

	// The backend being watched
	backend Backend

	// How long to wait between polling operations
	interval time.Duration

	// The logger used to log diagnostic information
	logger *zap.SugaredLogger

	// The channel used to request a forced refresh of the adapter list
	refresh chan struct{}

	// The channel used to stop the watch goroutine
	shutdown chan struct{}

	// The channel used to report errors
	Errors chan error

	// The channel used to report adapter list updates
	Updates chan []AdapterDescriptor
}

// Starts watching the backend, reporting the initial adapter list immediately
func NewAdapterWatcher(backend Backend, interval time.Duration, logger *zap.SugaredLogger) *AdapterWatcher {
	watcher := &AdapterWatcher{
		backend:  backend,
		interval: interval,
		logger:   logger,
		refresh:  make(chan struct{}, 1),
		shutdown: make(chan struct{}),
		Errors:   make(chan error, 1),
		Updates:  make(chan []AdapterDescriptor, 1),
	}

	// Start the watcher goroutine
	go watcher.watchAdapters()

	return watcher
}

// Stops the watch goroutine
func (w *AdapterWatcher) Destroy() {
	close(w.shutdown)
}

// Forces a refresh of the adapter list, irrespective of whether the current list is stale
func (w *AdapterWatcher) ForceRefresh() {
	select {
	case w.refresh <- struct{}{}:
	default:
	}
}

// Enumerates the adapters and reports the new list, giving up if shutdown is requested first
func (w *AdapterWatcher) refreshAdapters() error {
	adapters, err := w.backend.EnumerateAdapters()
	if err != nil {
		return err
	}

	select {
	case w.Updates <- adapters:
	case <-w.shutdown:
	}

	return nil
}

// The main adapter watch loop
func (w *AdapterWatcher) watchAdapters() {

	// Use a timer for waiting between polling operations rather than sleeping, so we remain responsive to shutdown and refresh events
	timer := time.NewTimer(0)
	defer timer.Stop()

	// The first poll always reports the current list
	forceRefresh := true
	for {
		select {

		case <-w.shutdown:
			return

		case <-w.refresh:
			forceRefresh = true
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(0)

		case <-timer.C:

			// Poll for adapter list changes
			current, err := w.backend.IsCurrent()
			if err != nil {
				w.report(err)
				return
			}

			// Retrieve the updated adapter list if one is available or if a forced refresh has been requested
			if !current || forceRefresh {
				w.logger.Infow("Refreshing adapter list", "backend", w.backend.Name(), "forced", forceRefresh)
				if err := w.refreshAdapters(); err != nil {
					w.report(err)
					return
				}
			}

			forceRefresh = false
			timer.Reset(w.interval)
		}
	}
}

// Reports an error unless shutdown has been requested
func (w *AdapterWatcher) report(err error) {
	select {
	case w.Errors <- err:
	case <-w.shutdown:
	}
}

// WaitForUpdate returns the next adapter list, or an error if the watcher fails or the context expires
func (w *AdapterWatcher) WaitForUpdate(ctx context.Context) ([]AdapterDescriptor, error) {
	select {
	case adapters := <-w.Updates:
		return adapters, nil
	case err := <-w.Errors:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
