package store

import (
	"time"

	"charmlive/internal/models"
)

// CacheTTL is how long a fetched room list stays fresh.
const CacheTTL = 60 * time.Second

// CacheEnvelope is the persisted room-list cache: the rooms from the most
// recent successful fetch plus the absolute expiry time. Expires is a
// float unix timestamp in seconds, matching existing room_cache.json files.
type CacheEnvelope struct {
	Rooms   []models.Room `json:"rooms"`
	Expires float64       `json:"expires"`
}

// RoomCacheStore persists the room-list cache envelope. A corrupt or
// missing file reads as an expired (empty) envelope, which forces a
// cold-start fetch; a failed fetch never overwrites the previous entry.
type RoomCacheStore struct {
	file jsonFile
}

// Get returns the persisted envelope and whether it is still fresh at
// the given instant.
func (s *RoomCacheStore) Get(now time.Time) (CacheEnvelope, bool) {
	env := CacheEnvelope{}
	if err := s.file.load(&env); err != nil {
		return CacheEnvelope{Rooms: []models.Room{}}, false
	}
	if env.Rooms == nil {
		env.Rooms = []models.Room{}
	}
	fresh := env.Expires > float64(now.Unix())
	return env, fresh
}

// Put overwrites the envelope with freshly fetched rooms, stamped to
// expire one TTL after the fetch time.
func (s *RoomCacheStore) Put(rooms []models.Room, fetchTime time.Time) error {
	if rooms == nil {
		rooms = []models.Room{}
	}
	env := CacheEnvelope{
		Rooms:   rooms,
		Expires: float64(fetchTime.Add(CacheTTL).Unix()),
	}
	return s.file.save(env)
}
