package store

import (
	"sync"

	"github.com/openmingle/mingle-go/model"
)

// Inbox accumulates notification and friend-request events in arrival
// order (newest last). Removal is keyed on the numeric id: entries that
// arrive without one are assigned a process-local negative id on insert
// so removal always has a stable key, even for values that crossed a
// serialization boundary.
type Inbox struct {
	mu             sync.RWMutex
	notifications  []model.Notification
	friendRequests []model.FriendRequest
	synthID        int64 // counts down below zero
}

// NewInbox creates an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{}
}

// AddNotification appends n.
func (in *Inbox) AddNotification(n model.Notification) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if n.ID == 0 {
		in.synthID--
		n.ID = in.synthID
	}
	in.notifications = append(in.notifications, n)
}

// RemoveNotification drops every notification with the given id.
func (in *Inbox) RemoveNotification(id int64) {
	if id == 0 {
		return
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	kept := in.notifications[:0]
	for _, n := range in.notifications {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	in.notifications = kept
}

// AddFriendRequest appends req.
func (in *Inbox) AddFriendRequest(req model.FriendRequest) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if req.ID == 0 {
		in.synthID--
		req.ID = in.synthID
	}
	in.friendRequests = append(in.friendRequests, req)
}

// RemoveFriendRequest drops every request whose id matches req's, so
// removal works whether the caller holds the originally stored value or
// a freshly decoded duplicate with the same id.
func (in *Inbox) RemoveFriendRequest(req model.FriendRequest) {
	if req.ID == 0 {
		return
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	kept := in.friendRequests[:0]
	for _, r := range in.friendRequests {
		if r.ID != req.ID {
			kept = append(kept, r)
		}
	}
	in.friendRequests = kept
}

// Notifications returns a copy of the notification list, oldest first.
func (in *Inbox) Notifications() []model.Notification {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]model.Notification, len(in.notifications))
	copy(out, in.notifications)
	return out
}

// FriendRequests returns a copy of the pending request list, oldest
// first.
func (in *Inbox) FriendRequests() []model.FriendRequest {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]model.FriendRequest, len(in.friendRequests))
	copy(out, in.friendRequests)
	return out
}

// Reset drops everything.
func (in *Inbox) Reset() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.notifications = nil
	in.friendRequests = nil
	in.synthID = 0
}
