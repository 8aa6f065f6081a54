// Package store persists dashboard state as flat JSON files, one file per
// concern, replaced wholesale on every write. Reads that fail fall back
// to an empty default so the dashboard degrades instead of crashing, but
// the swallowed error is logged.
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"charmlive/internal/models"
	"charmlive/internal/utils"
)

// Store bundles the per-file stores over a shared data directory.
type Store struct {
	Favorites   *FavoritesStore
	Notes       *NotesStore
	Preferences *PreferencesStore
	Clips       *ClipsStore
	RoomCache   *RoomCacheStore
}

// New constructs the file stores rooted at paths' data directory.
func New(paths *utils.Paths, logger *utils.Logger) *Store {
	return &Store{
		Favorites:   &FavoritesStore{file: jsonFile{path: paths.FavoritesFile(), logger: logger}},
		Notes:       &NotesStore{file: jsonFile{path: paths.NotesFile(), logger: logger}},
		Preferences: &PreferencesStore{file: jsonFile{path: paths.PreferencesFile(), logger: logger}},
		Clips:       &ClipsStore{file: jsonFile{path: paths.ClipsFile(), logger: logger}},
		RoomCache:   &RoomCacheStore{file: jsonFile{path: paths.RoomCacheFile(), logger: logger}},
	}
}

// InitFiles creates any missing data files with their empty defaults so a
// fresh data directory starts in a known state.
func (s *Store) InitFiles() error {
	inits := []func() error{
		func() error { return s.Favorites.file.initIfMissing([]string{}) },
		func() error { return s.Notes.file.initIfMissing(map[string]string{}) },
		func() error { return s.Preferences.file.initIfMissing(models.Preferences{}) },
		func() error { return s.Clips.file.initIfMissing(map[string][]models.Clip{}) },
		func() error { return s.RoomCache.file.initIfMissing(CacheEnvelope{Rooms: []models.Room{}}) },
	}
	for _, init := range inits {
		if err := init(); err != nil {
			return err
		}
	}
	return nil
}

// jsonFile is one whole-file-replace JSON document on disk.
type jsonFile struct {
	path   string
	mu     sync.RWMutex
	logger *utils.Logger
}

// load reads the document into v. A missing file returns os.ErrNotExist;
// any other failure is logged and returned so callers can substitute
// their default.
func (f *jsonFile) load(v interface{}) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) && f.logger != nil {
			f.logger.Writef("error reading %s: %v", f.path, err)
		}
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		if f.logger != nil {
			f.logger.Writef("error decoding %s: %v", f.path, err)
		}
		return err
	}
	return nil
}

// save replaces the document atomically (write temp file, rename over).
func (f *jsonFile) save(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saveLocked(v)
}

func (f *jsonFile) saveLocked(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *jsonFile) initIfMissing(defaultValue interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := os.Stat(f.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return f.saveLocked(defaultValue)
}

// FavoritesStore persists the set of favorited usernames as an ordered
// JSON array, replaced wholesale on save.
type FavoritesStore struct {
	file jsonFile
}

// Get returns the favorites list, empty when missing or unreadable.
func (s *FavoritesStore) Get() []string {
	favorites := []string{}
	if err := s.file.load(&favorites); err != nil {
		return []string{}
	}
	if favorites == nil {
		favorites = []string{}
	}
	return favorites
}

// Save replaces the favorites list.
func (s *FavoritesStore) Save(favorites []string) error {
	if favorites == nil {
		favorites = []string{}
	}
	return s.file.save(favorites)
}

// NotesStore persists free-text notes keyed by username.
type NotesStore struct {
	file jsonFile
}

// Get returns the notes map, empty when missing or unreadable.
func (s *NotesStore) Get() map[string]string {
	notes := map[string]string{}
	if err := s.file.load(&notes); err != nil {
		return map[string]string{}
	}
	return notes
}

// Save replaces the notes map.
func (s *NotesStore) Save(notes map[string]string) error {
	if notes == nil {
		notes = map[string]string{}
	}
	return s.file.save(notes)
}

// PreferencesStore persists the viewer's UI settings.
type PreferencesStore struct {
	file jsonFile
}

// Get returns the stored preferences, or the defaults when the file is
// missing, unreadable, or empty.
func (s *PreferencesStore) Get() models.Preferences {
	prefs := models.Preferences{}
	if err := s.file.load(&prefs); err != nil || len(prefs) == 0 {
		return models.DefaultPreferences()
	}
	return prefs
}

// Save replaces the preferences.
func (s *PreferencesStore) Save(prefs models.Preferences) error {
	if prefs == nil {
		prefs = models.Preferences{}
	}
	return s.file.save(prefs)
}
