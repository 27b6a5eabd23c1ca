package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionClearAuth(t *testing.T) {
	s := NewSession()
	s.SetAuthenticated(true)
	s.SetValidated(true)
	s.SetToken("tok-123")

	s.ClearAuth()

	assert.False(t, s.IsAuthenticated())
	assert.False(t, s.IsValidated())
	assert.Empty(t, s.Token())
}

func TestSessionInvalidateKeepsToken(t *testing.T) {
	s := NewSession()
	s.SetAuthenticated(true)
	s.SetValidated(true)
	s.SetToken("tok-123")

	s.Invalidate()

	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.IsValidated())
	assert.Equal(t, "tok-123", s.Token())
}

func TestStoresReset(t *testing.T) {
	stores := New()
	stores.Session.SetToken("tok")
	stores.Rooms.SetRoomNewMessageState(1, true)

	stores.Reset()

	assert.Empty(t, stores.Session.Token())
	assert.False(t, stores.Rooms.RoomNewMessageState(1))
}
