package worker

// A job the pool gives up on is parked in dlq:{queue}, newest first, together
// with the invoice it belongs to and how many tries it got. A job cut short
// by shutdown is not a failure: it goes back to the consuming end of its
// source queue and runs again on the next start.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DLQPrefix = "dlq:"

	// sinkTimeout bounds a park or requeue write once the pool context is gone.
	sinkTimeout = 5 * time.Second
)

// FailedJob is one parked job.
type FailedJob struct {
	Queue     string          `json:"queue"`
	Type      string          `json:"type"`
	InvoiceID string          `json:"invoice_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	Reason    string          `json:"reason"`
	Attempts  int             `json:"attempts"`
	FailedAt  time.Time       `json:"failed_at"`
}

// jobSink takes the jobs a worker could not complete.
type jobSink interface {
	Park(ctx context.Context, job FailedJob)
	Requeue(ctx context.Context, queue, raw string)
}

type redisSink struct{ rdb *redis.Client }

// detach returns a context that survives cancellation of ctx, bounded by
// sinkTimeout.
func detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
}

func (s redisSink) Park(ctx context.Context, job FailedJob) {
	data, err := json.Marshal(job)
	if err != nil {
		log.Error().Err(err).Str("queue", job.Queue).Msg("dlq: failed to marshal job")
		return
	}
	ctx, cancel := detach(ctx)
	defer cancel()

	key := DLQPrefix + job.Queue
	if err := s.rdb.LPush(ctx, key, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Str("invoice_id", job.InvoiceID).Msg("dlq: failed to park job")
		return
	}
	log.Warn().
		Str("queue", job.Queue).
		Str("type", job.Type).
		Str("invoice_id", job.InvoiceID).
		Str("reason", job.Reason).
		Int("attempts", job.Attempts).
		Msg("dlq: job parked")
}

func (s redisSink) Requeue(ctx context.Context, queue, raw string) {
	ctx, cancel := detach(ctx)
	defer cancel()

	// BRPOP takes from the right, so RPUSH puts the job first in line.
	if err := s.rdb.RPush(ctx, queue, raw).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Str("job", raw).Msg("dlq: failed to requeue interrupted job")
		return
	}
	log.Info().Str("queue", queue).Msg("interrupted job requeued")
}

// invoiceOf extracts the invoice id that document and e-mail payloads carry.
func invoiceOf(payload json.RawMessage) string {
	var ref struct {
		InvoiceID string `json:"invoice_id"`
	}
	if len(payload) == 0 || json.Unmarshal(payload, &ref) != nil {
		return ""
	}
	return ref.InvoiceID
}

// DLQLength returns the number of jobs parked for queue.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// LatestFailed returns the most recently parked job for queue, nil when none.
func LatestFailed(ctx context.Context, rdb *redis.Client, queue string) (*FailedJob, error) {
	raw, err := rdb.LIndex(ctx, DLQPrefix+queue, 0).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var job FailedJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, err
	}
	return &job, nil
}
