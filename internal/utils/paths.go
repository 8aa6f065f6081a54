// Package utils contains utility types for logging and filesystem path
// management used throughout the charmlive server.
package utils

import (
	"os"
	"path/filepath"
)

// Paths resolves the filesystem locations of the flat JSON data files and
// the application log, rooted at a single data directory.
type Paths struct {
	DataDir string `json:"data_dir"`
}

// NewPaths constructs Paths rooted at the specified data directory.
func NewPaths(dataDir string) *Paths {
	return &Paths{DataDir: dataDir}
}

// EnsureDataDir creates the data directory if it does not exist.
func (p *Paths) EnsureDataDir() error {
	return os.MkdirAll(p.DataDir, 0o755)
}

// FavoritesFile returns the path of the persisted favorites list.
func (p *Paths) FavoritesFile() string {
	return filepath.Join(p.DataDir, "favorites.json")
}

// NotesFile returns the path of the persisted per-room notes map.
func (p *Paths) NotesFile() string {
	return filepath.Join(p.DataDir, "notes.json")
}

// PreferencesFile returns the path of the persisted viewer preferences.
func (p *Paths) PreferencesFile() string {
	return filepath.Join(p.DataDir, "preferences.json")
}

// RoomCacheFile returns the path of the room-list cache envelope.
func (p *Paths) RoomCacheFile() string {
	return filepath.Join(p.DataDir, "room_cache.json")
}

// ClipsFile returns the path of the persisted clip recordings.
func (p *Paths) ClipsFile() string {
	return filepath.Join(p.DataDir, "clips.json")
}

// LogFile returns the path of the application log file.
func (p *Paths) LogFile() string {
	return filepath.Join(p.DataDir, "charmlive.log")
}
