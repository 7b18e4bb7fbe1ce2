package ratestore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/transcript-summarizer/internal/domain/ratelimit"
)

// incrementLua bumps the counter and arms the expiry on the first hit, in
// one atomic step. Returns {count, pttl}.
const incrementLua = `
local count = redis.call('INCR', KEYS[1])
local ttl = redis.call('PTTL', KEYS[1])
if count == 1 or ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`

var incrementScript = valkey.NewLuaScript(incrementLua)

// ValkeyStore shares fixed windows between instances through Valkey.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	window time.Duration
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, window time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &ValkeyStore{client: client, prefix: prefix, window: window}
}

func (s *ValkeyStore) Increment(ctx context.Context, key string) (ratelimit.Window, error) {
	windowMs := strconv.FormatInt(s.window.Milliseconds(), 10)
	values, err := incrementScript.Exec(ctx, s.client, []string{s.windowKey(key)}, []string{windowMs}).AsIntSlice()
	if err != nil {
		return ratelimit.Window{}, err
	}
	if len(values) != 2 {
		return ratelimit.Window{}, fmt.Errorf("unexpected rate window reply: %v", values)
	}
	return ratelimit.Window{
		Count:   values[0],
		ResetAt: time.Now().Add(time.Duration(values[1]) * time.Millisecond),
	}, nil
}

func (s *ValkeyStore) Reset(ctx context.Context, key string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.windowKey(key)).Build()).Error()
}

func (s *ValkeyStore) windowKey(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

var _ ratelimit.Store = (*ValkeyStore)(nil)
