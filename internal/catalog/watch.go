package catalog

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"animedex/internal/debounce"
)

var ErrNotWatchable = errors.New("catalog: only file sources can be watched")

// Watch reloads s whenever its file source changes on disk, coalescing bursts
// of events (editors often write, rename and chmod in one save). It blocks
// until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	fs, ok := s.src.(FileSource)
	if !ok {
		return ErrNotWatchable
	}
	path, err := filepath.Abs(fs.Path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// 监听目录而不是文件本身：原子保存会替换 inode
	if err := w.Add(filepath.Dir(path)); err != nil {
		return err
	}

	reload := debounce.New(debounce.Reload, func() {
		s.Load(ctx)
	})
	defer reload.Stop()

	s.log.Info().Str("path", path).Msg("watching catalog for changes")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				reload.Trigger()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Warn().Err(err).Msg("watcher error")
		}
	}
}
