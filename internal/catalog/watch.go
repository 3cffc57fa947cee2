package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

const changeOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watch invalidates p whenever its raw source changes and eagerly reloads
// on writes. It blocks until ctx is done.
func Watch(ctx context.Context, p *Provider) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer w.Close()

	// watch the directory: editors replace files via rename
	dir := filepath.Dir(p.rawPath)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Info().Str("path", p.rawPath).Msg("watching catalog source")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !p.affectedBy(ev) {
				continue
			}
			p.Invalidate()
			log.Info().Str("op", ev.Op.String()).Str("path", ev.Name).Msg("catalog source changed")
			if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) {
				if _, err := p.Load(ctx); err != nil {
					log.Warn().Err(err).Msg("catalog reload failed")
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("catalog watcher error")
		}
	}
}

func (p *Provider) affectedBy(ev fsnotify.Event) bool {
	if ev.Op&changeOps == 0 {
		return false
	}
	return filepath.Clean(ev.Name) == filepath.Clean(p.rawPath)
}
