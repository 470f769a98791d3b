package waitingroom

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meetsync/meeting-service/internal/domain"
)

// BucketTTL caps how long a meeting's waiting-room bucket survives without
// writes. Refreshed on every insert; scoped to the whole bucket, not per entry.
const BucketTTL = 24 * time.Hour

// Store is the persistence seam for the admission protocol. All failures are
// swallowed and logged: reads come back empty, writes report a flag. The
// protocol layer must stay available even when the shared store is not.
type Store interface {
	List(ctx context.Context, meetingID string) []domain.WaitingEntry
	Insert(ctx context.Context, meetingID string, entry domain.WaitingEntry) bool
	Remove(ctx context.Context, meetingID string, connectionID string) *domain.WaitingEntry
}

// removeScript reads and deletes one hash field atomically, so two racing
// admit/deny decisions can never both observe the same entry.
const removeScript = `local v = redis.call('HGET', KEYS[1], ARGV[1])
if v then redis.call('HDEL', KEYS[1], ARGV[1]) end
return v`

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func bucketKey(meetingID string) string {
	return "waiting_room:" + meetingID
}

func (s *RedisStore) List(ctx context.Context, meetingID string) []domain.WaitingEntry {
	fields, err := s.rdb.HGetAll(ctx, bucketKey(meetingID)).Result()
	if err != nil {
		slog.Warn("waitingroom.list failed", "meeting", meetingID, "err", err)
		return nil
	}

	entries := make([]domain.WaitingEntry, 0, len(fields))
	for connID, raw := range fields {
		var e domain.WaitingEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			slog.Warn("waitingroom.list decode failed", "meeting", meetingID, "connection", connID, "err", err)
			continue
		}
		entries = append(entries, e)
	}

	return entries
}

func (s *RedisStore) Insert(ctx context.Context, meetingID string, entry domain.WaitingEntry) bool {
	data, err := json.Marshal(entry)
	if err != nil {
		slog.Warn("waitingroom.insert encode failed", "meeting", meetingID, "err", err)
		return false
	}

	key := bucketKey(meetingID)
	if err := s.rdb.HSet(ctx, key, entry.ConnectionID, data).Err(); err != nil {
		slog.Warn("waitingroom.insert failed", "meeting", meetingID, "connection", entry.ConnectionID, "err", err)
		return false
	}
	if err := s.rdb.Expire(ctx, key, BucketTTL).Err(); err != nil {
		slog.Warn("waitingroom.insert expire failed", "meeting", meetingID, "err", err)
		return false
	}

	return true
}

func (s *RedisStore) Remove(ctx context.Context, meetingID string, connectionID string) *domain.WaitingEntry {
	res, err := s.rdb.Eval(ctx, removeScript, []string{bucketKey(meetingID)}, connectionID).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("waitingroom.remove failed", "meeting", meetingID, "connection", connectionID, "err", err)
		}
		return nil
	}

	raw, ok := res.(string)
	if !ok {
		return nil
	}

	var e domain.WaitingEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		slog.Warn("waitingroom.remove decode failed", "meeting", meetingID, "connection", connectionID, "err", err)
		return nil
	}

	return &e
}
