package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"detailing-bot/internal/estimator"
	rdb "detailing-bot/pkg/redis"
)

const sessionTTL = 24 * time.Hour

// KV is the subset of pkg/redis the session store relies on.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error)
}

var _ KV = (*rdb.Client)(nil)

type Storage struct {
	kv  KV
	ttl time.Duration
}

func New(kv KV, ttl time.Duration) *Storage {
	if ttl <= 0 {
		ttl = sessionTTL
	}
	return &Storage{kv: kv, ttl: ttl}
}

// GetSession returns the chat's session, or an empty one if none is stored.
func (s *Storage) GetSession(ctx context.Context, chatID int64) (*Session, error) {
	data, err := s.kv.Get(ctx, buildSessionKey(chatID))
	if errors.Is(err, rdb.ErrNotFound) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *Storage) SetSession(ctx context.Context, chatID int64, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.kv.Set(ctx, buildSessionKey(chatID), data, s.ttl)
}

func (s *Storage) DropSession(ctx context.Context, chatID int64) error {
	return s.kv.Del(ctx, buildSessionKey(chatID))
}

// ToggleService flips one service in the chat's selection and returns the result.
func (s *Storage) ToggleService(ctx context.Context, chatID int64, serviceID string) (estimator.Selection, error) {
	return s.modify(ctx, chatID, func(session *Session) {
		session.Selection = session.Selection.Toggle(serviceID)
	})
}

// SelectPackage sets the chat's package; selecting the current one again clears it.
func (s *Storage) SelectPackage(ctx context.Context, chatID int64, packageID string) (estimator.Selection, error) {
	return s.modify(ctx, chatID, func(session *Session) {
		if session.Selection.Package == packageID {
			session.Selection.Package = ""
			return
		}
		session.Selection.Package = packageID
	})
}

// ClearSelection empties the selection but keeps the message reference.
func (s *Storage) ClearSelection(ctx context.Context, chatID int64) (estimator.Selection, error) {
	return s.modify(ctx, chatID, func(session *Session) {
		session.Selection = estimator.Selection{}
	})
}

func (s *Storage) SetMessageID(ctx context.Context, chatID int64, messageID int) error {
	_, err := s.modify(ctx, chatID, func(session *Session) {
		session.MessageID = messageID
	})
	return err
}

// AllowToggle is a fixed-window rate limit on selection changes per chat.
func (s *Storage) AllowToggle(ctx context.Context, chatID int64, limit int64, window time.Duration) (bool, error) {
	key := fmt.Sprintf("ratelimit:%d:toggle", chatID)

	count, err := s.kv.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if _, err := s.kv.Expire(ctx, key, window); err != nil {
			// A counter without a TTL would limit the chat forever.
			if delErr := s.kv.Del(ctx, key); delErr != nil {
				err = errors.Join(err, delErr)
			}
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}
	return count <= limit, nil
}

func (s *Storage) modify(ctx context.Context, chatID int64, fn func(*Session)) (estimator.Selection, error) {
	session, err := s.GetSession(ctx, chatID)
	if err != nil {
		return estimator.Selection{}, err
	}
	fn(session)
	if err := s.SetSession(ctx, chatID, session); err != nil {
		return estimator.Selection{}, fmt.Errorf("save session: %w", err)
	}
	return session.Selection, nil
}

func buildSessionKey(chatID int64) string {
	return fmt.Sprintf("session:%d", chatID)
}
