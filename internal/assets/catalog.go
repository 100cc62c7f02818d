package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"time"

	"geeksounds/internal/game/sound"

	"github.com/fsnotify/fsnotify"
	"github.com/patrickmn/go-cache"
)

// DirCatalog lists the audio files found directly inside the standard and
// bonus sound directories. Listings are cached for ttl.
type DirCatalog struct {
	dirs  map[sound.CatalogKey]string
	cache *cache.Cache
}

func NewDirCatalog(standardDir, bonusDir string, ttl time.Duration) *DirCatalog {
	return &DirCatalog{
		dirs: map[sound.CatalogKey]string{
			sound.Standard: standardDir,
			sound.Bonus:    bonusDir,
		},
		cache: cache.New(ttl, 2*ttl),
	}
}

// List implements sound.Catalog. A missing directory is an empty catalog,
// not an error.
func (c *DirCatalog) List(key sound.CatalogKey) ([]string, error) {
	if cached, found := c.cache.Get(key.String()); found {
		return slices.Clone(cached.([]string)), nil
	}

	dir, ok := c.dirs[key]
	if !ok || dir == "" {
		return nil, fmt.Errorf("no directory configured for %s catalog", key)
	}
	ids, err := listAudioFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s catalog: %w", key, err)
	}

	c.cache.SetDefault(key.String(), ids)
	return slices.Clone(ids), nil
}

// Flush drops cached listings so the next List rescans the directories.
func (c *DirCatalog) Flush() {
	c.cache.Flush()
}

// Watch flushes the cache whenever one of the sound directories changes. It
// blocks until ctx is done. Directories that do not exist are skipped.
func (c *DirCatalog) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for key, dir := range c.dirs {
		if dir == "" {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			log.Printf("[Catalog] WARN: Not watching %s directory %s: %v", key, dir, err)
			continue
		}
		log.Printf("[Catalog] Watching %s directory %s.", key, dir)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				c.Flush()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[Catalog] WARN: Watcher error: %v", err)
		}
	}
}

// ReadableCheck returns a health check that fails when the catalog directory
// for key exists but cannot be read.
func (c *DirCatalog) ReadableCheck(key sound.CatalogKey) func() error {
	return func() error {
		_, err := listAudioFiles(c.dirs[key])
		return err
	}
}

func listAudioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !IsAudioFile(entry.Name()) {
			continue
		}
		ids = append(ids, entry.Name())
	}
	slices.Sort(ids)
	return ids, nil
}

// resolve returns the path of name inside dir when it is a regular file.
func resolve(dir, name string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", ErrNotFound
	}
	return path, nil
}
