// Package updater keeps the room-list cache warm with a cron-scheduled
// background refresh, pushing each result to connected dashboards.
package updater

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"

	"charmlive/internal/rooms"
	"charmlive/internal/utils"

	"github.com/robfig/cron/v3"
)

const defaultSchedule = "@every 1m"

// Broadcaster pushes refresh events to connected dashboards.
type Broadcaster interface {
	Broadcast(message []byte)
}

// Updater runs the scheduled room-list refresh.
type Updater struct {
	sync.Mutex
	ctx    context.Context
	svc    *rooms.Service
	hub    Broadcaster
	logger *utils.Logger
	Cron   *cron.Cron
}

// Initialize builds the updater and starts its cron schedule. The
// schedule comes from CHARMLIVE_SYNC_CRON, defaulting to every minute to
// match the cache TTL.
func Initialize(ctx context.Context, svc *rooms.Service, hub Broadcaster, logger *utils.Logger) (*Updater, error) {
	instance := &Updater{
		ctx:    ctx,
		svc:    svc,
		hub:    hub,
		logger: logger,
	}

	schedule := strings.TrimSpace(os.Getenv("CHARMLIVE_SYNC_CRON"))
	if schedule == "" {
		schedule = defaultSchedule
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		go instance.RefreshRooms(ctx)
	}); err != nil {
		return nil, err
	}
	c.Start()
	instance.Cron = c

	return instance, nil
}

// RefreshRooms performs one forced refresh. Only one refresh runs at a
// time; failures are logged and the previous cache envelope survives.
func (instance *Updater) RefreshRooms(ctx context.Context) {
	instance.Lock()
	defer instance.Unlock()

	select {
	case <-ctx.Done():
		return
	default:
	}

	roomList, err := instance.svc.Refresh(ctx)
	if err != nil {
		instance.logf("background refresh failed: %v", err)
		return
	}
	instance.logf("background refresh: cached %d rooms", len(roomList))

	if instance.hub == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"event":      "rooms_refreshed",
		"room_count": len(roomList),
	})
	if err != nil {
		return
	}
	instance.hub.Broadcast(payload)
}

// Stop halts the cron schedule.
func (instance *Updater) Stop() {
	if instance.Cron != nil {
		instance.Cron.Stop()
	}
}

func (instance *Updater) logf(format string, args ...interface{}) {
	if instance.logger != nil {
		instance.logger.Writef(format, args...)
	}
}
