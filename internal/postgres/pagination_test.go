package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	c := Cursor{
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		ID:        "b2e4e049-3ab1-4a2a-9d69-16ff254a42cd",
	}

	enc, err := EncodeCursor(c)
	require.NoError(t, err)

	dec, err := DecodeCursor(enc)
	require.NoError(t, err)
	require.NotNil(t, dec)
	assert.True(t, c.CreatedAt.Equal(dec.CreatedAt))
	assert.Equal(t, c.ID, dec.ID)
}

func TestDecodeCursor_Empty(t *testing.T) {
	dec, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, dec)
}

func TestDecodeCursor_Garbage(t *testing.T) {
	_, err := DecodeCursor("!!not-base64!!")
	assert.ErrorIs(t, err, ErrInvalidCursor)

	_, err = DecodeCursor("bm90LWpzb24")
	assert.ErrorIs(t, err, ErrInvalidCursor)
}
