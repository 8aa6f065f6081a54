// Package rooms implements the room-list cache policy and the reshaping
// applied to rooms before they reach the dashboard.
package rooms

import (
	"context"
	"sort"
	"strings"
	"time"

	"charmlive/internal/models"
	"charmlive/internal/platform"
	"charmlive/internal/store"
	"charmlive/internal/utils"
)

// Fetcher fetches the upstream room list. *platform.Client satisfies it;
// tests inject fakes.
type Fetcher interface {
	RoomList(ctx context.Context) ([]models.Room, error)
}

// Service serves room lists through the persisted 60-second cache: fresh
// envelopes are returned untouched, stale ones trigger a single upstream
// fetch whose result is persisted before being returned. A failed fetch
// leaves the previous envelope alone.
type Service struct {
	fetcher Fetcher
	cache   *store.RoomCacheStore
	logger  *utils.Logger

	// now is injectable for deterministic cache-expiry tests.
	now func() time.Time
}

// NewService constructs the room service.
func NewService(fetcher Fetcher, cache *store.RoomCacheStore, logger *utils.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		logger:  logger,
		now:     time.Now,
	}
}

// Rooms returns the room list, served from the cache while it is fresh.
// On a stale or missing cache it fetches upstream exactly once, persists
// a new envelope stamped fetchTime+60s, and returns the fresh rooms.
func (s *Service) Rooms(ctx context.Context) ([]models.Room, error) {
	now := s.now()
	if env, fresh := s.cache.Get(now); fresh {
		return env.Rooms, nil
	}
	return s.Refresh(ctx)
}

// Refresh bypasses the freshness check: it always fetches upstream and,
// on success, rewrites the cache envelope. On failure the previous
// envelope is left untouched and the error is returned.
func (s *Service) Refresh(ctx context.Context) ([]models.Room, error) {
	fetchTime := s.now()
	rooms, err := s.fetcher.RoomList(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Put(rooms, fetchTime); err != nil {
		// The fetch succeeded; serve the rooms even if persisting failed.
		if s.logger != nil {
			s.logger.Writef("error persisting room cache: %v", err)
		}
	}
	return rooms, nil
}

// Decorate sorts rooms by viewer count (descending) and fills in the
// render-time derived fields: flag glyph, gender label, uptime, is-new.
func (s *Service) Decorate(rooms []models.Room) []models.Room {
	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].NumUsers > rooms[j].NumUsers
	})

	nowUnix := s.now().Unix()
	for i := range rooms {
		room := &rooms[i]
		room.Flag = platform.CountryFlag(room.Country)
		room.GenderDisplay = platform.GenderDisplay(room.Gender)
		start := room.StartTimestamp
		if start == 0 {
			start = nowUnix
		}
		room.Uptime = platform.RoomUptime(nowUnix, start)
		room.IsNew = platform.IsNewRoom(room.Uptime)
	}
	return rooms
}

// Stats aggregates the header numbers: total viewers, rooms charging for
// privates, and the sorted set of lowercased tags.
func Stats(rooms []models.Room) models.DashboardStats {
	stats := models.DashboardStats{Tags: []string{}}
	seen := map[string]bool{}
	for _, room := range rooms {
		stats.TotalViewers += room.NumUsers
		if room.PrivatePrice > 0 {
			stats.PrivateRooms++
		}
		for _, tag := range room.Tags {
			tag = strings.ToLower(tag)
			if !seen[tag] {
				seen[tag] = true
				stats.Tags = append(stats.Tags, tag)
			}
		}
	}
	sort.Strings(stats.Tags)
	return stats
}

// OnlineFavorites returns the favorited usernames that appear in the
// given room list, in room-list order.
func OnlineFavorites(rooms []models.Room, favorites []string) []string {
	favoriteSet := make(map[string]bool, len(favorites))
	for _, username := range favorites {
		favoriteSet[username] = true
	}
	online := []string{}
	for _, room := range rooms {
		if favoriteSet[room.Username] {
			online = append(online, room.Username)
		}
	}
	return online
}
