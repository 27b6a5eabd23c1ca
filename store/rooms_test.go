package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmingle/mingle-go/model"
)

func TestAddOrUpdateRoomInfoMergesShallowly(t *testing.T) {
	dir := NewRoomDirectory()
	dir.AddOrUpdateRoomInfo(model.RoomInfo{
		ID:   1,
		Name: "general",
		Type: model.RoomGroup,
		ParticipantInfos: []model.SimpleUserInfo{
			{ID: 10, Username: "ana"},
			{ID: 11, Username: "bo"},
		},
	})

	// Partial update: only the name changes.
	dir.AddOrUpdateRoomInfo(model.RoomInfo{ID: 1, Name: "general-renamed"})

	info, ok := dir.RoomInfo(1)
	require.True(t, ok)
	assert.Equal(t, "general-renamed", info.Name)
	assert.Equal(t, model.RoomGroup, info.Type)
	require.Len(t, info.ParticipantInfos, 2)
	assert.Equal(t, "ana", info.ParticipantInfos[0].Username)
}

func TestAddOrUpdateRoomInfoCreatesMissing(t *testing.T) {
	dir := NewRoomDirectory()
	dir.AddOrUpdateRoomInfo(model.RoomInfo{ID: 7, Name: "dm", Type: model.RoomPrivate})

	info, ok := dir.RoomInfo(7)
	require.True(t, ok)
	assert.Equal(t, "dm", info.Name)
}

func TestRoomFlagsDefaultFalse(t *testing.T) {
	dir := NewRoomDirectory()
	assert.False(t, dir.RoomFetchAllMessageState(404))
	assert.False(t, dir.RoomNewMessageState(404))
}

func TestRemoveRoomInfoClearsFlags(t *testing.T) {
	dir := NewRoomDirectory()
	dir.AddOrUpdateRoomInfo(model.RoomInfo{ID: 1, Name: "general"})
	dir.SetRoomFetchAllMessageState(1, true)
	dir.SetRoomNewMessageState(1, true)

	dir.RemoveRoomInfo(1)

	_, ok := dir.RoomInfo(1)
	assert.False(t, ok)
	assert.False(t, dir.RoomFetchAllMessageState(1))
	assert.False(t, dir.RoomNewMessageState(1))
}

func TestRoomInfosSortedByID(t *testing.T) {
	dir := NewRoomDirectory()
	dir.AddOrUpdateRoomInfo(model.RoomInfo{ID: 3, Name: "c"})
	dir.AddOrUpdateRoomInfo(model.RoomInfo{ID: 1, Name: "a"})
	dir.AddOrUpdateRoomInfo(model.RoomInfo{ID: 2, Name: "b"})

	infos := dir.RoomInfos()
	require.Len(t, infos, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{infos[0].ID, infos[1].ID, infos[2].ID})
}

func TestValidRoster(t *testing.T) {
	two := []model.SimpleUserInfo{{ID: 1}, {ID: 2}}
	assert.True(t, model.RoomInfo{Type: model.RoomPrivate, ParticipantInfos: two}.ValidRoster())
	assert.False(t, model.RoomInfo{Type: model.RoomPrivate, ParticipantInfos: two[:1]}.ValidRoster())
	assert.True(t, model.RoomInfo{Type: model.RoomGroup, ParticipantInfos: two[:1]}.ValidRoster())
}
