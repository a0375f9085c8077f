package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToResponsesKeepsOrderAndIsNeverNil(t *testing.T) {
	assert.NotNil(t, ToResponses(nil))

	price := 1500.5
	out := ToResponses([]Housing{{ID: 2, Rooms: 3, Price: &price}, {ID: 1, Rooms: 1}})
	require.Len(t, out, 2)
	assert.Equal(t, int64(2), out[0].ID)
	assert.Equal(t, int64(1), out[1].ID)
	assert.Nil(t, out[1].Price)
}

func TestHousingResponseJSON(t *testing.T) {
	price := 1500.5
	raw, err := json.Marshal(ToResponse(Housing{ID: 7, Rooms: 3, Price: &price}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"rooms":3,"price":1500.5}`, string(raw))

	raw, err = json.Marshal(ToResponse(Housing{ID: 8, Rooms: 1}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":8,"rooms":1,"price":null}`, string(raw))
}

func TestParseIDAndValidateRooms(t *testing.T) {
	id, err := ParseID(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = ParseID("twelve")
	require.ErrorIs(t, err, ErrInvalidID)

	require.NoError(t, ValidateRooms(MinRooms))
	require.NoError(t, ValidateRooms(MaxRooms))
	require.ErrorIs(t, ValidateRooms(0), ErrInvalidRooms)
	require.ErrorIs(t, ValidateRooms(MaxRooms+1), ErrInvalidRooms)
}
