package videosdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoom(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rooms", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.EqualValues(t, 25, body["max_participants"])

		_ = json.NewEncoder(w).Encode(map[string]string{"roomId": "abcd-efgh-ijkl"})
	}))
	defer ts.Close()

	c := NewClient("key", "secret", ts.URL)

	roomID, err := c.CreateRoom(context.Background(), 25)
	require.NoError(t, err)
	assert.Equal(t, "abcd-efgh-ijkl", roomID)
}

func TestCreateRoom_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid api key"})
	}))
	defer ts.Close()

	c := NewClient("key", "secret", ts.URL)

	_, err := c.CreateRoom(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestCreateRoom_MissingRoomID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer ts.Close()

	c := NewClient("key", "secret", ts.URL)

	_, err := c.CreateRoom(context.Background(), 10)
	assert.ErrorIs(t, err, ErrNoRoomID)
}

func TestGenerateToken_Claims(t *testing.T) {
	c := NewClient("key", "secret", "")

	tok, err := c.GenerateToken("room-1", "participant-1")
	require.NoError(t, err)

	parsed, err := jwt.Parse(tok, func(t *jwt.Token) (any, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "key", claims["apikey"])
	assert.Equal(t, "room-1", claims["roomId"])
	assert.Equal(t, "participant-1", claims["participantId"])
}

func TestMeetingLink(t *testing.T) {
	c := NewClient("key", "secret", "")
	assert.Equal(t, "https://app.videosdk.live/meeting/room-1", c.MeetingLink("room-1"))
}
