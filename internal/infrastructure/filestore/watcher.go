package filestore

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jhoicas/catalog-api/pkg/logger"
)

// Watcher recarga el CatalogStore cuando otro proceso modifica el archivo del catálogo.
// Vigila el directorio (no el archivo) porque los editores y el propio store reemplazan el
// archivo con rename, lo que invalida un watch sobre el inodo original.
type Watcher struct {
	store    *CatalogStore
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      *logger.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher crea el watcher; no empieza a vigilar hasta Start.
func NewWatcher(store *CatalogStore, log *logger.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		store:    store,
		watcher:  w,
		debounce: 200 * time.Millisecond,
		log:      log.Component("filestore.watcher"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start empieza a vigilar en segundo plano. No bloquea.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}
	dir := filepath.Dir(w.store.Path())
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.running = true
	w.log.Info().Str("dir", dir).Msg("vigilando archivo del catálogo")
	go w.run(ctx)
	return nil
}

// Stop detiene el watcher y espera a que termine el loop.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		w.log.Error().Err(err).Msg("cerrar watcher")
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			// Agrupar ráfagas de escrituras en una sola recarga
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := w.store.Reload(ctx); err != nil {
				w.log.Warn().Err(err).Msg("recarga ignorada, se conserva el catálogo en memoria")
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("error del watcher")
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.store.Path() {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
