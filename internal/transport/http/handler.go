package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/meetsync/meeting-service/internal/domain"
	"github.com/meetsync/meeting-service/internal/postgres"
	"github.com/meetsync/meeting-service/internal/security"
	"github.com/meetsync/meeting-service/internal/service"
	httpmw "github.com/meetsync/meeting-service/internal/transport/http/middleware"
)

type Handler struct {
	authSvc    *service.AuthService
	roomSvc    *service.RoomService
	companySvc *service.CompanyService
	subSvc     *service.SubscriptionService
}

func NewHandler(auth *service.AuthService, rooms *service.RoomService, companies *service.CompanyService, subs *service.SubscriptionService) *Handler {
	return &Handler{
		authSvc:    auth,
		roomSvc:    rooms,
		companySvc: companies,
		subSvc:     subs,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses; anything unmapped is a 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, security.ErrPasswordTooShort),
		errors.Is(err, postgres.ErrInvalidCursor):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidPassword):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUserInactive):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrPaymentPending):
		writeJSON(w, http.StatusPaymentRequired, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrCompanyNotFound),
		errors.Is(err, domain.ErrSubscriptionNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrCompanyNameTaken),
		errors.Is(err, domain.ErrAlreadySubscribed):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		slog.Error("handler: unexpected error", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func toUserItem(u *domain.User) UserItem {
	return UserItem{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func toRoomItem(r *domain.Room, link string) RoomItem {
	return RoomItem{
		ID:                  r.ID,
		RoomID:              r.RoomID,
		UserID:              r.UserID,
		StartTime:           r.StartTime,
		EndTime:             r.EndTime,
		Permissions:         r.Permissions,
		MaximumParticipants: r.MaximumParticipants,
		MeetingLink:         link,
		CreatedAt:           r.CreatedAt,
	}
}

// POST /auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	res, err := h.authSvc.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		AccessToken: res.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.authSvc.AccessTTL().Seconds()),
		User:        toUserItem(res.User),
	})
}

// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	res, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		AccessToken: res.AccessToken,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.authSvc.AccessTTL().Seconds()),
		User:        toUserItem(res.User),
	})
}

// GET /auth/user/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.authSvc.Me(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserItem(u))
}

// POST /rooms/create
func (h *Handler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "missing user id"})
		return
	}

	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	details, err := h.roomSvc.CreateRoom(r.Context(), userID, service.CreateRoomParams{
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		Permissions:         req.Permissions,
		MaximumParticipants: req.MaximumParticipants,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, RoomDetailsResponse{
		Room: toRoomItem(details.Room, details.MeetingLink),
	})
}

// GET /rooms?limit=&cursor=
func (h *Handler) ListRooms(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "missing user id"})
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		// non-positive values would hit LIMIT $n directly; keep the default
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			limit = n
		}
	}

	rooms, next, err := h.roomSvc.ListRooms(r.Context(), userID, limit, r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := RoomsListResponse{Items: make([]RoomItem, 0, len(rooms)), NextCursor: next}
	for i := range rooms {
		resp.Items = append(resp.Items, toRoomItem(&rooms[i], ""))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /rooms/{roomID}
func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	details, err := h.roomSvc.GetRoom(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		writeError(w, err)
		return
	}

	resp := RoomDetailsResponse{Room: toRoomItem(details.Room, details.MeetingLink)}
	if details.Host != nil {
		host := toUserItem(details.Host)
		resp.Host = &host
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /rooms/{roomID}/get-token
func (h *Handler) GetToken(w http.ResponseWriter, r *http.Request) {
	var req GetTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	token, err := h.roomSvc.Token(r.Context(), chi.URLParam(r, "roomID"), req.ParticipantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// POST /companies/create
func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}
	if req.CompanyName == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "company_name is required"})
		return
	}

	c, err := h.companySvc.CreateCompany(r.Context(), service.CreateCompanyParams{
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Contact:     req.Contact,
		Location:    req.Location,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCompanyItem(c, true))
}

// GET /companies/{id}
func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	c, err := h.companySvc.GetCompany(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	// API key is only revealed once, on creation.
	writeJSON(w, http.StatusOK, toCompanyItem(c, false))
}

// DELETE /companies/{id}
func (h *Handler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.companySvc.DeleteCompany(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func toCompanyItem(c *domain.Company, withKey bool) CompanyItem {
	item := CompanyItem{
		ID:          c.ID,
		CompanyName: c.CompanyName,
		Email:       c.Email,
		Contact:     c.Contact,
		Location:    c.Location,
		CreatedAt:   c.CreatedAt,
	}
	if withKey {
		item.APIKey = c.APIKey
	}
	return item
}

// GET /subscriptions
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.subSvc.ListPlans(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := PlansResponse{Items: make([]PlanItem, 0, len(plans))}
	for _, p := range plans {
		resp.Items = append(resp.Items, PlanItem{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			SubsID:       p.SubsID,
			Price:        p.Price,
			DurationDays: p.DurationDays,
			Features:     p.FeatureEntitlements,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /subscriptions/user
func (h *Handler) UserSubscriptions(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "missing user id"})
		return
	}

	subs, err := h.subSvc.UserSubscriptions(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := UserSubscriptionsResponse{Items: make([]UserSubscriptionItem, 0, len(subs))}
	for _, s := range subs {
		resp.Items = append(resp.Items, UserSubscriptionItem{
			ID:        s.ID,
			SubsID:    s.SubsID,
			Status:    s.Status,
			Features:  s.FeatureEntitlements,
			ExpiredAt: s.ExpiredAt,
			CreatedAt: s.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /subscriptions/subscribe
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID := httpmw.UserIDFromCtx(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "missing user id"})
		return
	}

	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	redirect, err := h.subSvc.Subscribe(r.Context(), userID, req.SubsID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, redirect)
}

// GET /subscriptions/callback?session_id=
func (h *Handler) SubscriptionCallback(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "session_id is required"})
		return
	}

	us, err := h.subSvc.ConfirmCheckout(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, UserSubscriptionItem{
		ID:        us.ID,
		SubsID:    us.SubsID,
		Status:    us.Status,
		Features:  us.FeatureEntitlements,
		ExpiredAt: us.ExpiredAt,
		CreatedAt: us.CreatedAt,
	})
}
