// Package assetwatch reports edits to model, texture and manifest files.
package assetwatch

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long a file must stay quiet before its change is sent.
// Editors and copies often write a file in several steps.
const debounce = 100 * time.Millisecond

// Kind classifies a changed file.
type Kind int

const (
	KindModel Kind = iota
	KindTexture
	KindManifest
)

func (k Kind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindTexture:
		return "texture"
	case KindManifest:
		return "manifest"
	default:
		return "unknown"
	}
}

type Change struct {
	Path string
	Kind Kind
}

// Watcher watches directories and sends changes on Events. Events is closed
// after Close returns.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Change
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// New watches the given directories. Duplicates are ignored.
func New(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, dir := range dirs {
		dir = filepath.Clean(dir)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// DirsOf returns the distinct directories containing paths.
func DirsOf(paths ...string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range paths {
		d := filepath.Dir(p)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	return dirs
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// Poll returns the changes queued so far without blocking.
func (w *Watcher) Poll() []Change {
	var out []Change
	for {
		select {
		case c, ok := <-w.Events:
			if !ok {
				return out
			}
			out = append(out, c)
		default:
			return out
		}
	}
}

func (w *Watcher) run() {
	defer close(w.done)

	type pendingChange struct {
		kind Kind
		last time.Time
	}
	pending := make(map[string]pendingChange)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	armed := false

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			kind, ok := Classify(event.Name)
			if !ok {
				continue
			}
			pending[event.Name] = pendingChange{kind: kind, last: time.Now()}
			if !armed {
				timer.Reset(debounce)
				armed = true
			}

		case <-timer.C:
			armed = false
			now := time.Now()
			var next time.Duration
			for path, p := range pending {
				quiet := now.Sub(p.last)
				if quiet < debounce {
					if wait := debounce - quiet; next == 0 || wait < next {
						next = wait
					}
					continue
				}
				delete(pending, path)
				select {
				case w.Events <- Change{Path: path, Kind: p.kind}:
				case <-w.closeCh:
					return
				}
			}
			if next > 0 {
				timer.Reset(next)
				armed = true
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// Classify maps a file extension to a Kind.
func Classify(path string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gltf", ".glb", ".obj", ".bin":
		return KindModel, true
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp":
		return KindTexture, true
	case ".yaml", ".yml":
		return KindManifest, true
	}
	return 0, false
}
