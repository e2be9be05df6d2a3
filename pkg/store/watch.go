package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"tableflip.dev/labdash/pkg/record"
)

// EventType describes the nature of a change notification.
type EventType int

const (
	// EventKindChanged indicates records of Event.Kind were added, edited or
	// removed.
	EventKindChanged EventType = iota

	// EventInvalidated signals a change that could not be attributed to one
	// kind; callers should reload everything.
	EventInvalidated
)

func (t EventType) String() string {
	switch t {
	case EventKindChanged:
		return "changed"
	case EventInvalidated:
		return "invalidated"
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// Event is emitted by Watch when underlying storage changes.
type Event struct {
	Type EventType
	Kind record.Kind
}

// throttleDelay coalesces bursts of writes into one event per kind.
const throttleDelay = 100 * time.Millisecond

// Watch streams change events until ctx is cancelled. Callers should drain the
// returned channel; events are dropped rather than blocking the watcher. The
// channel is closed once ctx is done or the watcher fails.
func (p *diskvBackend) Watch(ctx context.Context) (<-chan Event, error) {
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				p.log.WithError(err).Warn("store: watcher close")
			}
		})
	}

	dirs, err := collectDirs(p.basePath)
	if err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: enumerate directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			closeWatcher()
			return nil, fmt.Errorf("store: watch %s: %w", dir, err)
		}
	}

	events := make(chan Event, 64)

	go func() {
		defer close(events)
		defer closeWatcher()

		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
				// Consumer is behind; its next reload picks the change up.
			}
		}

		throttle := newEventThrottle(throttleDelay)
		defer throttle.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.log.WithError(err).Debug("store: watcher error")
				throttle.Enqueue(Event{Type: EventInvalidated}, send)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}

				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						dir := filepath.Clean(evt.Name)
						if _, found := watched[dir]; !found {
							if err := watcher.Add(dir); err != nil {
								p.log.WithError(err).WithField("dir", dir).Warn("store: watch directory")
							} else {
								watched[dir] = struct{}{}
							}
						}
						// A new bucket directory; its first record write
						// may already have happened.
						if kind := p.kindForPath(dir); kind != "" {
							throttle.Enqueue(Event{Type: EventKindChanged, Kind: kind}, send)
						} else {
							throttle.Enqueue(Event{Type: EventInvalidated}, send)
						}
						continue
					}
				}

				kind := p.kindForPath(evt.Name)
				if kind == "" {
					throttle.Enqueue(Event{Type: EventInvalidated}, send)
					continue
				}
				throttle.Enqueue(Event{Type: EventKindChanged, Kind: kind}, send)
			}
		}
	}()

	return events, nil
}

// collectDirs walks base and returns all directories that should be watched.
func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}

// kindForPath derives the record kind from a path inside the base directory.
func (p *diskvBackend) kindForPath(path string) record.Kind {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return ""
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	name := fromBucket(parts[0])
	if name == "" {
		return ""
	}
	kind, err := record.ParseKind(name)
	if err != nil {
		return ""
	}
	return kind
}

// eventThrottle coalesces rapid change notifications so consumers reload once
// per burst of filesystem activity instead of on every write.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending map[EventType]map[record.Kind]struct{}
	delay   time.Duration
	stopped bool
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{
		delay:   delay,
		pending: make(map[EventType]map[record.Kind]struct{}),
	}
}

func (t *eventThrottle) Enqueue(ev Event, send func(Event)) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	if t.pending[ev.Type] == nil {
		t.pending[ev.Type] = make(map[record.Kind]struct{})
	}
	t.pending[ev.Type][ev.Kind] = struct{}{}

	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, func() {
			t.flush(send)
		})
	}
	t.mu.Unlock()
}

// flush holds the lock while sending so nothing is sent after Stop; send
// must not block.
func (t *eventThrottle) flush(send func(Event)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	pending := t.pending
	t.pending = make(map[EventType]map[record.Kind]struct{})
	t.timer = nil
	if t.stopped {
		return
	}

	for eventType, kinds := range pending {
		for kind := range kinds {
			send(Event{Type: eventType, Kind: kind})
		}
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}

// Ensure the on-disk backend reports changes.
var _ Watcher = (*diskvBackend)(nil)

// Fields describes e for structured logging.
func (e Event) Fields() logrus.Fields {
	return logrus.Fields{"event": e.Type.String(), "kind": e.Kind}
}
