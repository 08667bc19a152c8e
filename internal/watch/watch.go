// Package watch reports debounced changes of a single file.
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors one file for writes. The parent directory is watched
// so that editors replacing the file by a rename are still noticed.
type Watcher struct {
	File    string
	Changes <-chan struct{} // Read-only external channel
	Errors  <-chan error

	changes  chan struct{}
	errs     chan error
	done     chan struct{}
	debounce time.Duration
	watcher  *fsnotify.Watcher
}

// New creates a watcher for file. Changes closer than debounce are
// coalesced into one notification.
func New(file string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	ch := make(chan struct{}, 1)
	errs := make(chan error, 1)
	return &Watcher{
		File:     abs,
		Changes:  ch,
		Errors:   errs,
		changes:  ch,
		errs:     errs,
		done:     make(chan struct{}),
		debounce: max(debounce, time.Millisecond),
		watcher:  fw,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.File)); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and its channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
	close(w.errs)
}

func (w *Watcher) loop() {
	defer close(w.done)
	var last time.Time
	pending := false
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if pending {
					w.emit()
				}
				return
			}
			if filepath.Clean(event.Name) != w.File {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending, last = true, time.Now()
			}

		case <-ticker.C:
			if pending && time.Since(last) >= w.debounce {
				w.emit()
				pending = false
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

// emit never blocks: a notification already waiting covers this one.
func (w *Watcher) emit() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
