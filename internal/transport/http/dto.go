package http

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	User        UserItem `json:"user"`
}

type UserItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateRoomRequest struct {
	StartTime           *time.Time     `json:"start_time"`
	EndTime             *time.Time     `json:"end_time"`
	Permissions         map[string]any `json:"permissions"`
	MaximumParticipants int            `json:"maximum_participants"`
}

type RoomItem struct {
	ID                  string         `json:"id"`
	RoomID              string         `json:"room_id"`
	UserID              string         `json:"user_id"`
	StartTime           *time.Time     `json:"start_time,omitempty"`
	EndTime             *time.Time     `json:"end_time,omitempty"`
	Permissions         map[string]any `json:"permissions,omitempty"`
	MaximumParticipants int            `json:"maximum_participants"`
	MeetingLink         string         `json:"meeting_link,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
}

type RoomDetailsResponse struct {
	Room RoomItem  `json:"room"`
	Host *UserItem `json:"host,omitempty"`
}

type RoomsListResponse struct {
	Items      []RoomItem `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

type GetTokenRequest struct {
	ParticipantID string `json:"participant_id"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type CreateCompanyRequest struct {
	CompanyName string  `json:"company_name"`
	Email       *string `json:"email"`
	Contact     *string `json:"contact"`
	Location    *string `json:"location"`
}

type CompanyItem struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"company_name"`
	Email       *string   `json:"email,omitempty"`
	Contact     *string   `json:"contact,omitempty"`
	Location    *string   `json:"location,omitempty"`
	APIKey      string    `json:"apikey,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type PlanItem struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  *string        `json:"description,omitempty"`
	SubsID       string         `json:"subs_id"`
	Price        string         `json:"price"`
	DurationDays int            `json:"duration_days"`
	Features     map[string]any `json:"feature_entitlements,omitempty"`
}

type PlansResponse struct {
	Items []PlanItem `json:"items"`
}

type UserSubscriptionItem struct {
	ID        string         `json:"id"`
	SubsID    string         `json:"subs_id"`
	Status    string         `json:"status"`
	Features  map[string]any `json:"feature_entitlements,omitempty"`
	ExpiredAt *time.Time     `json:"expired_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type UserSubscriptionsResponse struct {
	Items []UserSubscriptionItem `json:"items"`
}

type SubscribeRequest struct {
	SubsID string `json:"subs_id"`
}
