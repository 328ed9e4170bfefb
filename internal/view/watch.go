// internal/view/watch.go
//
// Template hot reload.
//
// Context
// -------
// With `templates.reload` on, Watch subscribes to fsnotify events for the
// template root and its layout directory and purges the parsed-set cache
// after each burst of changes.  Rendering therefore always reflects the
// files on disk, as if every call reparsed, while steady-state requests
// still hit the cache.
//
// Notes
// -----
// • Bursts are debounced so an editor's write-rename-chmod sequence costs
//   one purge.
// • The watcher stops when ctx is cancelled.
package view

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DebounceDelay groups rapid file events into one purge.
const DebounceDelay = 100 * time.Millisecond

// Watch starts a goroutine that invalidates r on template changes.  The
// returned error covers watcher setup only.
func (r *Renderer) Watch(ctx context.Context, log *zap.SugaredLogger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dirs := []string{r.root}
	if fi, err := os.Stat(filepath.Join(r.root, LayoutDir)); err == nil && fi.IsDir() {
		dirs = append(dirs, filepath.Join(r.root, LayoutDir))
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			_ = w.Close()
			return err
		}
	}

	go r.watchLoop(ctx, w, log)
	log.Infow("template watcher online", "dirs", dirs)
	return nil
}

func (r *Renderer) watchLoop(ctx context.Context, w *fsnotify.Watcher, log *zap.SugaredLogger) {
	defer w.Close()

	timer := time.NewTimer(DebounceDelay)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			log.Debugw("template change", "file", ev.Name, "op", ev.Op.String())
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(DebounceDelay)
			pending = true

		case <-timer.C:
			pending = false
			r.Invalidate()
			log.Infow("template cache purged")

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warnw("template watcher error", "err", err)
		}
	}
}
