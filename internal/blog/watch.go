package blog

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"animedex/internal/debounce"
)

// Watch reloads the library when any file under its directory changes and
// then calls onReload. It blocks until ctx is done.
func (l *Library) Watch(ctx context.Context, onReload func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// fsnotify 不递归，逐个目录添加
	err = filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	reload := debounce.New(debounce.Reload, func() {
		rctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := l.Reload(rctx); err != nil {
			l.log.Error().Err(err).Msg("blog reload failed")
			return
		}
		if onReload != nil {
			onReload()
		}
	})
	defer reload.Stop()

	l.log.Info().Str("dir", l.dir).Msg("watching blog for changes")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				// 新建的子目录也要监听
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = w.Add(ev.Name)
				}
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				reload.Trigger()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.log.Warn().Err(err).Msg("watcher error")
		}
	}
}
