package store

import (
	"strconv"
	"time"

	"charmlive/internal/models"
)

// ClipsStore persists recorded clips as a map of username to an ordered
// list of clips, replaced wholesale on every mutation.
type ClipsStore struct {
	file jsonFile

	// now is injectable for deterministic clip IDs in tests.
	now func() time.Time
}

func (s *ClipsStore) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// All returns every user's clips, empty when missing or unreadable.
func (s *ClipsStore) All() map[string][]models.Clip {
	clips := map[string][]models.Clip{}
	if err := s.file.load(&clips); err != nil {
		return map[string][]models.Clip{}
	}
	return clips
}

// ForUser returns the clips recorded for one username, oldest first.
func (s *ClipsStore) ForUser(username string) []models.Clip {
	clips := s.All()[username]
	if clips == nil {
		return []models.Clip{}
	}
	return clips
}

// Add appends a new clip for the username. The clip ID is the capture
// time as a millisecond unix timestamp string.
func (s *ClipsStore) Add(username, data string) (models.Clip, error) {
	now := s.clock()
	clip := models.Clip{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Timestamp: now.Format(time.RFC3339Nano),
		Data:      data,
	}

	clips := s.All()
	clips[username] = append(clips[username], clip)
	if err := s.file.save(clips); err != nil {
		return models.Clip{}, err
	}
	return clip, nil
}

// Delete removes the clip with the given ID from every user's list. A
// missing ID is not an error; the store is simply rewritten unchanged.
func (s *ClipsStore) Delete(clipID string) error {
	clips := s.All()
	for username, userClips := range clips {
		kept := make([]models.Clip, 0, len(userClips))
		for _, clip := range userClips {
			if clip.ID != clipID {
				kept = append(kept, clip)
			}
		}
		clips[username] = kept
	}
	return s.file.save(clips)
}
