package diagnostics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultStream is the Redis stream events are appended to.
const DefaultStream = "runtime:diagnostics"

// RedisSink appends events to a Redis stream.
type RedisSink struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisSink builds a stream sink. maxLen caps the stream approximately;
// zero leaves it unbounded.
func NewRedisSink(client *redis.Client, stream string, maxLen int64) *RedisSink {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisSink{client: client, stream: stream, maxLen: maxLen}
}

// Report XADDs the event.
func (s *RedisSink) Report(ctx context.Context, event Event) error {
	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"id":              event.ID,
			"kind":            event.Kind,
			"block_number":    strconv.FormatUint(event.BlockNumber, 10),
			"extrinsic_index": strconv.Itoa(event.Index),
			"caller":          event.Caller,
			"error_kind":      event.ErrorKind,
			"error":           event.Error,
			"at":              event.At.Format(time.RFC3339Nano),
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}
