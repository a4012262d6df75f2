package config

import (
	"github.com/fsnotify/fsnotify"

	"github.com/stlalpha/telnetcore/internal/telnet/telnetlog"
)

// Watcher reloads Config from disk on change and pushes the new value
// to Changes, letting a long-running listener pick up a new
// always_do/always_will set without a restart.
type Watcher struct {
	path    string
	fw      *fsnotify.Watcher
	Changes chan Config
}

// NewWatcher starts watching path for writes and begins pushing
// reloaded configs to Changes (capacity 1: only the latest value
// matters to a listener that may be mid-iteration).
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, err
	}
	w := &Watcher{path: path, fw: fw, Changes: make(chan Config, 1)}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				telnetlog.Error("config reload of %s failed: %v", w.path, err)
				continue
			}
			select {
			case w.Changes <- cfg:
			default:
				// drop the stale pending value, keep only the freshest
				select {
				case <-w.Changes:
				default:
				}
				w.Changes <- cfg
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			telnetlog.Error("config watcher error: %v", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
