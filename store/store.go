// Package store holds the client-side state engine: the room directory,
// the per-room message ledger, the notification inbox, and the session.
// Each container carries its own lock; construct them explicitly and
// pass them to whatever owns the connection lifecycle.
package store

// Stores bundles the four state containers backing the UI.
type Stores struct {
	Rooms    *RoomDirectory
	Messages *MessageLedger
	Inbox    *Inbox
	Session  *Session
}

// New creates empty stores.
func New() *Stores {
	return &Stores{
		Rooms:    NewRoomDirectory(),
		Messages: NewMessageLedger(),
		Inbox:    NewInbox(),
		Session:  NewSession(),
	}
}

// Reset returns every container to its initial state.
func (s *Stores) Reset() {
	s.Rooms.Reset()
	s.Messages.Reset()
	s.Inbox.Reset()
	s.Session.Reset()
}
