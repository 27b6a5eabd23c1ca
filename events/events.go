// Package events decodes known server events once at the transport
// boundary and applies them to the stores. Raw listeners registered
// directly on the socket still see every frame; the binder only covers
// the event names it knows.
package events

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/openmingle/mingle-go/model"
	"github.com/openmingle/mingle-go/socket"
	"github.com/openmingle/mingle-go/store"
)

// Event names carried in the wire frame's name field.
const (
	EventMessage              = "message"
	EventMessageUpdate        = "message_update"
	EventRoom                 = "room"
	EventRoomRemove           = "room_remove"
	EventNotification         = "notification"
	EventFriendRequest        = "friend_request"
	EventFriendRequestRemoved = "friend_request_removed"
)

type messageEvent struct {
	model.MessageInfo
	RoomID int64 `json:"roomId"`
}

type messageUpdateEvent struct {
	model.MessageInfo
	RoomID int64 `json:"roomId"`
	// MessageID is the id being replaced; it differs from the embedded
	// id when a server confirmation supersedes an optimistic local echo.
	MessageID int64 `json:"messageId"`
}

type roomRemoveEvent struct {
	RoomID int64 `json:"roomId"`
}

// Bind registers store-updating handlers for every known event name and
// returns a func that unregisters all of them. onApply, when non-nil, is
// invoked with the event name after each successfully applied event so
// a UI can re-render from store snapshots.
func Bind(c *socket.Client, s *store.Stores, logger *zap.Logger, onApply func(event string)) (unbind func()) {
	if logger == nil {
		logger = zap.NewNop()
	}
	notify := func(event string) {
		if onApply != nil {
			onApply(event)
		}
	}
	decodeErr := func(event string, err error) {
		// Framing and decode errors stay contained at this boundary.
		logger.Warn("dropping undecodable event", zap.String("event", event), zap.Error(err))
	}

	offs := []func(){
		c.On(EventMessage, func(data json.RawMessage) {
			var ev messageEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				decodeErr(EventMessage, err)
				return
			}
			s.Messages.AddMessage(ev.RoomID, ev.MessageInfo)
			s.Rooms.SetRoomNewMessageState(ev.RoomID, true)
			notify(EventMessage)
		}),
		c.On(EventMessageUpdate, func(data json.RawMessage) {
			var ev messageUpdateEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				decodeErr(EventMessageUpdate, err)
				return
			}
			target := ev.MessageID
			if target == 0 {
				target = ev.ID
			}
			s.Messages.UpdateMessage(ev.RoomID, target, ev.MessageInfo)
			notify(EventMessageUpdate)
		}),
		c.On(EventRoom, func(data json.RawMessage) {
			var info model.RoomInfo
			if err := json.Unmarshal(data, &info); err != nil {
				decodeErr(EventRoom, err)
				return
			}
			s.Rooms.AddOrUpdateRoomInfo(info)
			notify(EventRoom)
		}),
		c.On(EventRoomRemove, func(data json.RawMessage) {
			var ev roomRemoveEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				decodeErr(EventRoomRemove, err)
				return
			}
			s.Rooms.RemoveRoomInfo(ev.RoomID)
			notify(EventRoomRemove)
		}),
		c.On(EventNotification, func(data json.RawMessage) {
			var n model.Notification
			if err := json.Unmarshal(data, &n); err != nil {
				decodeErr(EventNotification, err)
				return
			}
			s.Inbox.AddNotification(n)
			notify(EventNotification)
		}),
		c.On(EventFriendRequest, func(data json.RawMessage) {
			var req model.FriendRequest
			if err := json.Unmarshal(data, &req); err != nil {
				decodeErr(EventFriendRequest, err)
				return
			}
			s.Inbox.AddFriendRequest(req)
			notify(EventFriendRequest)
		}),
		c.On(EventFriendRequestRemoved, func(data json.RawMessage) {
			var req model.FriendRequest
			if err := json.Unmarshal(data, &req); err != nil {
				decodeErr(EventFriendRequestRemoved, err)
				return
			}
			s.Inbox.RemoveFriendRequest(req)
			notify(EventFriendRequestRemoved)
		}),
		// Transport lifecycle: log only. Whether a disconnect invalidates
		// room flags is the consumer's call, not the binder's.
		c.On(socket.EventDisconnect, func(json.RawMessage) {
			logger.Info("transport disconnected")
			notify(socket.EventDisconnect)
		}),
		c.On(socket.EventError, func(json.RawMessage) {
			logger.Warn("transport error")
			notify(socket.EventError)
		}),
	}

	return func() {
		for _, off := range offs {
			off()
		}
	}
}
