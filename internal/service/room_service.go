package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/meetsync/meeting-service/internal/domain"
)

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByRoomID(ctx context.Context, roomID string) (*domain.Room, error)
	Exists(ctx context.Context, roomID string) (bool, error)
	ListByUser(ctx context.Context, userID string, limit int, cursor string) ([]domain.Room, string, error)
}

// VideoProvider wraps the external video backend: room provisioning and
// client token issuance.
type VideoProvider interface {
	CreateRoom(ctx context.Context, maxParticipants int) (string, error)
	GenerateToken(roomID, participantID string) (string, error)
	MeetingLink(roomID string) string
}

type CreateRoomParams struct {
	StartTime           *time.Time
	EndTime             *time.Time
	Permissions         map[string]any
	MaximumParticipants int
}

type RoomDetails struct {
	Room        *domain.Room
	Host        *domain.User
	MeetingLink string
}

type RoomService struct {
	rooms RoomRepository
	users UserRepository
	video VideoProvider
}

func NewRoomService(rooms RoomRepository, users UserRepository, video VideoProvider) *RoomService {
	return &RoomService{
		rooms: rooms,
		users: users,
		video: video,
	}
}

// CreateRoom provisions a provider-side room and persists it for the user.
func (s *RoomService) CreateRoom(ctx context.Context, userID string, params CreateRoomParams) (*RoomDetails, error) {
	roomID, err := s.video.CreateRoom(ctx, params.MaximumParticipants)
	if err != nil {
		slog.Error("room.create.provider failed", slog.Any("err", err))
		return nil, err
	}

	room := &domain.Room{
		RoomID:              roomID,
		UserID:              userID,
		StartTime:           params.StartTime,
		EndTime:             params.EndTime,
		Permissions:         params.Permissions,
		MaximumParticipants: params.MaximumParticipants,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		slog.Error("room.create.persist failed", slog.Any("err", err))
		return nil, err
	}

	return &RoomDetails{
		Room:        room,
		MeetingLink: s.video.MeetingLink(room.RoomID),
	}, nil
}

func (s *RoomService) GetRoom(ctx context.Context, roomID string) (*RoomDetails, error) {
	room, err := s.rooms.GetByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	host, err := s.users.GetByID(ctx, room.UserID)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		slog.Error("room.get.host failed", slog.Any("err", err))
		return nil, err
	}

	return &RoomDetails{
		Room:        room,
		Host:        host,
		MeetingLink: s.video.MeetingLink(room.RoomID),
	}, nil
}

func (s *RoomService) ListRooms(ctx context.Context, userID string, limit int, cursor string) ([]domain.Room, string, error) {
	return s.rooms.ListByUser(ctx, userID, limit, cursor)
}

// Token issues a provider join token for a participant of an existing room.
func (s *RoomService) Token(ctx context.Context, roomID, participantID string) (string, error) {
	ok, err := s.rooms.Exists(ctx, roomID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", domain.ErrRoomNotFound
	}
	return s.video.GenerateToken(roomID, participantID)
}

func (s *RoomService) RoomExists(ctx context.Context, roomID string) (bool, error) {
	return s.rooms.Exists(ctx, roomID)
}
