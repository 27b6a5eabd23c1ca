// Package model holds the wire-level data types shared by the transport,
// the stores, and the HTTP collaborator.
package model

import "encoding/json"

// Frame is the wire envelope: every frame, in both directions, is a JSON
// object with exactly these two fields. Data may be null.
type Frame struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

// SimpleUserInfo is the lightweight participant/author summary embedded
// in rooms and messages.
type SimpleUserInfo struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Avatar   *string `json:"avatar"`
	Online   bool    `json:"online"`
}

// Reaction is an aggregated reaction summary on a message.
type Reaction struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// MessageType distinguishes user text from system notices rendered
// inside the conversation.
type MessageType string

const (
	MessageText         MessageType = "text"
	MessageNotification MessageType = "notification"
)

// MessageInfo is one chat message. IDs are unique within a room, not
// globally; the room association is the ledger key, not a field here.
type MessageInfo struct {
	ID        int64          `json:"id"`
	Body      string         `json:"body"`
	Type      MessageType    `json:"type"`
	Author    SimpleUserInfo `json:"author"`
	Reactions []Reaction     `json:"reactions"`
	CreatedAt Timestamp      `json:"createdAt"`
}

// RoomType distinguishes two-party conversations from group rosters.
type RoomType string

const (
	RoomPrivate RoomType = "private"
	RoomGroup   RoomType = "group"
)

// RoomInfo is the metadata for one conversation context.
type RoomInfo struct {
	ID               int64            `json:"id"`
	Name             string           `json:"name"`
	Type             RoomType         `json:"type"`
	ParticipantInfos []SimpleUserInfo `json:"participantInfos"`
}

// ValidRoster reports whether the participant list matches the room
// type: a private room has exactly two participants, a group any number.
func (r RoomInfo) ValidRoster() bool {
	if r.Type == RoomPrivate {
		return len(r.ParticipantInfos) == 2
	}
	return true
}

// Notification is a generic inbox event (mention, reaction, system
// notice).
type Notification struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Body      string    `json:"body"`
	CreatedAt Timestamp `json:"createdAt"`
}

// FriendRequest is a pending friend request shown in the inbox.
type FriendRequest struct {
	ID        int64          `json:"id"`
	From      SimpleUserInfo `json:"from"`
	CreatedAt Timestamp      `json:"createdAt"`
}
