package level

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// levelFileRE matches level file names and captures the level number.
var levelFileRE = regexp.MustCompile(`^level(\d+)\.txt$`)

// watchDebounce is how long level files must stay quiet before a change is
// reported. Editors often truncate and then write.
const watchDebounce = 100 * time.Millisecond

// LevelNumber extracts n from a path ending in level<n>.txt.
func LevelNumber(path string) (int, bool) {
	m := levelFileRE.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Watcher reports changes to level files in a directory so a ride can
// reload the level being authored. Events and Errors are closed once the
// watcher stops.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan int // level numbers that changed
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher starts watching dir for level<n>.txt writes.
func NewWatcher(dir string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan int, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watcher and waits for Events and Errors to be closed.
// Safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	<-w.done
	return err
}

// run emits a level number once its file has been quiet for watchDebounce,
// so a truncate followed by a write reports the final content only.
func (w *Watcher) run() {
	defer func() {
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()

	pending := make(map[int]struct{})
	var (
		timer *time.Timer
		flush <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			n, ok := LevelNumber(event.Name)
			if !ok {
				continue
			}
			pending[n] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(watchDebounce)
			flush = timer.C
		case <-flush:
			flush = nil
			levels := make([]int, 0, len(pending))
			for n := range pending {
				levels = append(levels, n)
			}
			clear(pending)
			sort.Ints(levels)
			for _, n := range levels {
				select {
				case w.Events <- n:
				case <-w.closeCh:
					return
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			case <-w.closeCh:
				return
			default: // keep the first unread error only
			}
		case <-w.closeCh:
			return
		}
	}
}
