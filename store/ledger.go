package store

import (
	"sort"
	"sync"

	"github.com/openmingle/mingle-go/model"
)

// MessageLedger keeps one independent, time-ordered message sequence per
// room. Messages arrive out of order (network reordering, optimistic
// local echo followed by a server confirmation with a corrected
// timestamp); the ledger keeps every sequence sorted ascending by
// creation time so readers never re-sort.
type MessageLedger struct {
	mu    sync.RWMutex
	rooms map[int64][]model.MessageInfo
}

// NewMessageLedger creates an empty ledger.
func NewMessageLedger() *MessageLedger {
	return &MessageLedger{rooms: make(map[int64][]model.MessageInfo)}
}

// insertSorted places msg at the position that keeps the sequence
// ordered ascending by creation time. Equal timestamps keep insertion
// order: the new message goes after every existing message with an equal
// or earlier time.
func insertSorted(list []model.MessageInfo, msg model.MessageInfo) []model.MessageInfo {
	i := sort.Search(len(list), func(i int) bool {
		return list[i].CreatedAt.Time.After(msg.CreatedAt.Time)
	})
	list = append(list, model.MessageInfo{})
	copy(list[i+1:], list[i:])
	list[i] = msg
	return list
}

// AddMessage inserts msg into roomID's sequence, creating the sequence
// if this is the room's first message.
func (l *MessageLedger) AddMessage(roomID int64, msg model.MessageInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rooms[roomID] = insertSorted(l.rooms[roomID], msg)
}

// UpdateMessage removes any message with messageID from roomID's
// sequence and re-inserts msg by its (possibly changed) timestamp. An
// unknown room is a no-op: a late update racing room teardown is benign.
func (l *MessageLedger) UpdateMessage(roomID, messageID int64, msg model.MessageInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()
	list, ok := l.rooms[roomID]
	if !ok {
		return
	}
	filtered := make([]model.MessageInfo, 0, len(list))
	for _, m := range list {
		if m.ID != messageID {
			filtered = append(filtered, m)
		}
	}
	l.rooms[roomID] = insertSorted(filtered, msg)
}

// Messages returns a copy of roomID's ordered sequence.
func (l *MessageLedger) Messages(roomID int64) []model.MessageInfo {
	l.mu.RLock()
	defer l.mu.RUnlock()
	list := l.rooms[roomID]
	out := make([]model.MessageInfo, len(list))
	copy(out, list)
	return out
}

// Reset drops every room's sequence.
func (l *MessageLedger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rooms = make(map[int64][]model.MessageInfo)
}
