package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meetsync/meeting-service/internal/domain"
)

type RoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	query := `
		INSERT INTO rooms (room_id, user_id, start_time, end_time, permissions, maximum_participants)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		room.RoomID, room.UserID, room.StartTime, room.EndTime, room.Permissions, room.MaximumParticipants).
		Scan(&room.ID, &room.CreatedAt, &room.UpdatedAt)
}

// GetByRoomID looks up by the provider-side room id, not the row id.
func (r *RoomRepository) GetByRoomID(ctx context.Context, roomID string) (*domain.Room, error) {
	var rm domain.Room
	query := `SELECT id, room_id, user_id, start_time, end_time, permissions, maximum_participants, created_at, updated_at
		FROM rooms WHERE room_id=$1`
	err := r.db.QueryRow(ctx, query, roomID).
		Scan(&rm.ID, &rm.RoomID, &rm.UserID, &rm.StartTime, &rm.EndTime, &rm.Permissions, &rm.MaximumParticipants, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

func (r *RoomRepository) Exists(ctx context.Context, roomID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM rooms WHERE room_id=$1)`, roomID).Scan(&exists)
	return exists, err
}

func (r *RoomRepository) ListByUser(ctx context.Context, userID string, limit int, cursorStr string) ([]domain.Room, string, error) {
	cur, err := DecodeCursor(cursorStr)
	if err != nil {
		return nil, "", err
	}

	query := `
		SELECT id, room_id, user_id, start_time, end_time, permissions, maximum_participants, created_at, updated_at
		FROM rooms
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR created_at < $2
		       OR (created_at = $2 AND id < $3))
		ORDER BY created_at DESC, id DESC
		LIMIT $4`

	var createdAt any
	var id any
	if cur != nil {
		createdAt = cur.CreatedAt
		id = cur.ID
	}

	rows, err := r.db.Query(ctx, query, userID, createdAt, id, limit)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.RoomID, &rm.UserID, &rm.StartTime, &rm.EndTime, &rm.Permissions, &rm.MaximumParticipants, &rm.CreatedAt, &rm.UpdatedAt); err != nil {
			return nil, "", err
		}
		rooms = append(rooms, rm)
	}

	var nextCursor string
	if len(rooms) == limit {
		last := rooms[len(rooms)-1]
		nextCursor, _ = EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return rooms, nextCursor, nil
}
