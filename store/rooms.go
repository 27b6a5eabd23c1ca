package store

import (
	"sort"
	"sync"

	"github.com/openmingle/mingle-go/model"
)

// RoomDirectory maps room id to room metadata plus two per-room progress
// flags: whether full history has been fetched (pagination) and whether
// the room has an unseen message (badge rendering).
type RoomDirectory struct {
	mu       sync.RWMutex
	rooms    map[int64]model.RoomInfo
	fetchAll map[int64]bool
	newMsg   map[int64]bool
}

// NewRoomDirectory creates an empty directory.
func NewRoomDirectory() *RoomDirectory {
	return &RoomDirectory{
		rooms:    make(map[int64]model.RoomInfo),
		fetchAll: make(map[int64]bool),
		newMsg:   make(map[int64]bool),
	}
}

// AddOrUpdateRoomInfo merges info into any existing entry for its id:
// provided fields overwrite, zero-valued fields keep the prior value. A
// new id creates the entry as given.
func (d *RoomDirectory) AddOrUpdateRoomInfo(info model.RoomInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cur, ok := d.rooms[info.ID]
	if !ok {
		d.rooms[info.ID] = info
		return
	}
	if info.Name != "" {
		cur.Name = info.Name
	}
	if info.Type != "" {
		cur.Type = info.Type
	}
	if info.ParticipantInfos != nil {
		cur.ParticipantInfos = info.ParticipantInfos
	}
	d.rooms[info.ID] = cur
}

// RoomInfo returns the stored metadata for roomID.
func (d *RoomDirectory) RoomInfo(roomID int64) (model.RoomInfo, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	info, ok := d.rooms[roomID]
	return info, ok
}

// RoomInfos returns every known room ordered by id.
func (d *RoomDirectory) RoomInfos() []model.RoomInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.RoomInfo, 0, len(d.rooms))
	for _, info := range d.rooms {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RemoveRoomInfo deletes the room entry and both flags as a single state
// transition.
func (d *RoomDirectory) RemoveRoomInfo(roomID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.rooms, roomID)
	delete(d.fetchAll, roomID)
	delete(d.newMsg, roomID)
}

// SetRoomFetchAllMessageState marks whether roomID's full history has
// been retrieved.
func (d *RoomDirectory) SetRoomFetchAllMessageState(roomID int64, v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fetchAll[roomID] = v
}

// RoomFetchAllMessageState reports the history flag; unknown rooms are
// false.
func (d *RoomDirectory) RoomFetchAllMessageState(roomID int64) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fetchAll[roomID]
}

// SetRoomNewMessageState marks unseen-message presence for roomID.
func (d *RoomDirectory) SetRoomNewMessageState(roomID int64, v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.newMsg[roomID] = v
}

// RoomNewMessageState reports the unseen flag; unknown rooms are false.
func (d *RoomDirectory) RoomNewMessageState(roomID int64) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.newMsg[roomID]
}

// Reset drops every room and flag.
func (d *RoomDirectory) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rooms = make(map[int64]model.RoomInfo)
	d.fetchAll = make(map[int64]bool)
	d.newMsg = make(map[int64]bool)
}
