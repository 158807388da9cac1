package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResetCodeStore keeps one-shot password reset codes. Redis is preferred so
// codes survive restarts and consumption is atomic (GETDEL); a guarded
// in-memory map covers deployments without Redis.
type ResetCodeStore struct {
	rdb *redis.Client

	mu      sync.Mutex
	entries map[string]resetEntry
}

type resetEntry struct {
	code      string
	expiresAt time.Time
}

func NewResetCodeStore(rdb *redis.Client) *ResetCodeStore {
	return &ResetCodeStore{
		rdb:     rdb,
		entries: map[string]resetEntry{},
	}
}

// GenerateResetCode returns an n-digit numeric code.
func GenerateResetCode(n int) string {
	if n <= 0 {
		n = 6
	}
	digits := make([]byte, n)
	for i := 0; i < n; i++ {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			v = big.NewInt(time.Now().UnixNano() % 10)
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits)
}

func resetKey(email string) string {
	return "reset:email:" + email
}

func (s *ResetCodeStore) Save(ctx context.Context, email, code string, ttl time.Duration) {
	if s.rdb != nil {
		if err := s.rdb.Set(ctx, resetKey(email), code, ttl).Err(); err == nil {
			return
		}
	}

	s.mu.Lock()
	s.entries[email] = resetEntry{code: code, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
}

// VerifyAndConsume checks a code and deletes it when present, so a code can
// never authorize two resets.
func (s *ResetCodeStore) VerifyAndConsume(ctx context.Context, email, code string) bool {
	if s.rdb != nil {
		if val, err := s.rdb.GetDel(ctx, resetKey(email)).Result(); err == nil {
			return val == code
		}
		// On Redis error fall through to the memory store.
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[email]
	if !ok {
		return false
	}
	delete(s.entries, email)

	if time.Now().After(entry.expiresAt) {
		return false
	}
	return entry.code == code
}
