package statefile

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/vango-dev/reactor/internal/errors"
)

// Update is one decoded revision of a watched state file.
type Update struct {
	State map[string]any
	Err   error
}

// Watcher watches a state file and emits its decoded contents.
type Watcher struct {
	path   string
	logger *slog.Logger
}

// NewWatcher creates a Watcher for path. A nil logger uses slog.Default().
func NewWatcher(path string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{path: filepath.Clean(path), logger: logger}
}

// Watch begins watching and returns a channel that emits the state whenever
// the file is written or recreated. The current contents are emitted first.
// The directory is watched rather than the file so that editors replacing
// the file by rename are followed. The channel is closed when ctx is done.
func (w *Watcher) Watch(ctx context.Context) (<-chan Update, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.New("R042").Wrap(err)
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return nil, errors.New("R042").WithDetailf("cannot watch %s", w.path).Wrap(err)
	}

	out := make(chan Update)

	go func() {
		defer close(out)
		defer fw.Close()

		if !w.send(ctx, out) {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if !w.send(ctx, out) {
					return
				}

			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				w.logger.Warn("state watcher error", "path", w.path, "error", err)
			}
		}
	}()

	return out, nil
}

// send reads, decodes and emits the file. It reports false once ctx is done.
func (w *Watcher) send(ctx context.Context, out chan<- Update) bool {
	var u Update
	u.State, u.Err = Load(w.path)
	if u.Err != nil {
		w.logger.Warn("state file not applied", "path", w.path, "error", u.Err)
	}

	select {
	case out <- u:
		return true
	case <-ctx.Done():
		return false
	}
}
