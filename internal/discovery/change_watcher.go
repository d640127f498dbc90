package discovery

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watches a single file for modification, replacement or deletion
type ChangeWatcher struct {
	watcher *fsnotify.Watcher
	file    string
	Changed chan struct{}
	Errors  chan error
}

// Starts watching the specified file. The parent directory is watched so that editors which replace the file are detected.
func WatchForChanges(file string) (*ChangeWatcher, error) {

	// Resolve the absolute path so we can match it against event names
	absolute, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}

	// Create a new filesystem watcher
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Add a watch for the directory containing the file
	if err := fsWatcher.Add(filepath.Dir(absolute)); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	// Wrap the filesystem watcher in a change watcher
	changeWatcher := &ChangeWatcher{
		watcher: fsWatcher,
		file:    absolute,
		Changed: make(chan struct{}, 1),
		Errors:  make(chan error, 1),
	}

	// Start the watcher goroutine
	go changeWatcher.watch()
	return changeWatcher, nil
}

// Cancels the watch
func (c *ChangeWatcher) Cancel() {
	c.watcher.Close()
}

// Reports a change without blocking, coalescing changes that have not been consumed yet
func (c *ChangeWatcher) notify() {
	select {
	case c.Changed <- struct{}{}:
	default:
	}
}

func (c *ChangeWatcher) watch() {

	// Ensure the channels are closed when we are done
	defer close(c.Changed)
	defer close(c.Errors)

	// Process events and errors
	for {
		select {
		case event, ok := <-c.watcher.Events:
			if !ok {
				return
			}

			// Ignore events for other files in the same directory
			if filepath.Clean(event.Name) != c.file {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				c.notify()
			}

		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}

			select {
			case c.Errors <- err:
			default:
			}
		}
	}
}
