package videosdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt"
)

const defaultBaseURL = "https://api.videosdk.live/v2"

var ErrNoRoomID = errors.New("provider did not return a roomId")

// Client is a thin wrapper around the VideoSDK HTTP API. Auth tokens are
// self-issued HS256 JWTs signed with the account's API secret.
type Client struct {
	apiKey    string
	apiSecret string
	baseURL   string
	httpc     *http.Client
	now       func() time.Time
}

func NewClient(apiKey, apiSecret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:    apiKey,
		apiSecret: apiSecret,
		baseURL:   baseURL,
		httpc:     &http.Client{Timeout: 10 * time.Second},
		now:       time.Now,
	}
}

// GenerateToken builds a provider token. With empty roomID/participantID it is
// an API token; with both set it is a join token for that participant.
func (c *Client) GenerateToken(roomID, participantID string) (string, error) {
	claims := jwt.MapClaims{
		"apikey":      c.apiKey,
		"permissions": []string{"allow_join"},
		"version":     2,
		"roles":       []string{"CRAWLER", "RTCPEER"},
		"exp":         c.now().Add(24 * time.Hour).Unix(),
	}
	if roomID != "" {
		claims["roomId"] = roomID
	}
	if participantID != "" {
		claims["participantId"] = participantID
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.apiSecret))
}

// CreateRoom provisions a provider-side room and returns its id.
func (c *Client) CreateRoom(ctx context.Context, maxParticipants int) (string, error) {
	token, err := c.GenerateToken("", "")
	if err != nil {
		return "", fmt.Errorf("videosdk token: %w", err)
	}

	body, err := json.Marshal(map[string]any{"max_participants": maxParticipants})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rooms", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("videosdk request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Error == "" {
			errBody.Error = resp.Status
		}
		return "", fmt.Errorf("videosdk api error: %s", errBody.Error)
	}

	var room struct {
		RoomID string `json:"roomId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&room); err != nil {
		return "", fmt.Errorf("videosdk decode: %w", err)
	}
	if room.RoomID == "" {
		return "", ErrNoRoomID
	}

	return room.RoomID, nil
}

func (c *Client) MeetingLink(roomID string) string {
	return "https://app.videosdk.live/meeting/" + roomID
}
