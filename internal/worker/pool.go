package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueDocuments = "jobs:invoice_documents"
	QueueEmail     = "jobs:email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Handler processes one job payload. A returned error parks the job in the
// dead letter queue; handlers retry transient failures themselves.
type Handler func(ctx context.Context, payload json.RawMessage) error

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueInvoiceDocument schedules PDF rendering (and the follow-up e-mail)
// for an invoice.
func (d *Dispatcher) EnqueueInvoiceDocument(ctx context.Context, invoiceID uuid.UUID) error {
	return d.enqueue(ctx, QueueDocuments, "invoice_document", DocumentJobPayload{InvoiceID: invoiceID.String()})
}

// EnqueueEmail pushes an email job to Redis.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	if d == nil || d.rdb == nil {
		return errors.New("dispatcher: redis not configured")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

type pool struct {
	rdb      *redis.Client
	handlers map[string]Handler
	sink     jobSink
	now      func() time.Time
}

// StartWorkerPool launches numWorkers goroutines consuming every queue that
// has a handler. Each goroutine blocks on BRPOP, so idle workers cost nothing.
// The returned WaitGroup completes once all workers have seen ctx cancelled.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers map[string]Handler) *sync.WaitGroup {
	p := &pool{
		rdb:      rdb,
		handlers: handlers,
		sink:     redisSink{rdb: rdb},
		now:      time.Now,
	}
	queues := make([]string, 0, len(handlers))
	for q := range handlers {
		queues = append(queues, q)
	}

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.run(ctx, id, queues)
		}(i)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", queues).Msg("worker pool started")
	return &wg
}

func (p *pool) run(ctx context.Context, id int, queues []string) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
					log.Warn().Err(err).Int("worker", id).Msg("worker: BRPOP failed")
					time.Sleep(time.Second)
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			p.process(ctx, result[0], result[1])
		}
	}
}

func (p *pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		quoted, _ := json.Marshal(raw)
		p.park(ctx, queue, Job{Type: "unknown", Payload: quoted}, "malformed envelope: "+err.Error(), 0)
		return
	}
	handler, ok := p.handlers[queue]
	if !ok {
		p.park(ctx, queue, job, "no handler for queue", 0)
		return
	}

	start := time.Now()
	if err := handler(ctx, job.Payload); err != nil {
		if ctx.Err() != nil {
			log.Warn().Err(err).Str("type", job.Type).Str("queue", queue).Msg("job interrupted by shutdown")
			p.sink.Requeue(ctx, queue, raw)
			return
		}
		log.Error().Err(err).Str("type", job.Type).Str("queue", queue).Msg("job failed")
		p.park(ctx, queue, job, err.Error(), attemptsOf(err))
		return
	}
	log.Info().Str("type", job.Type).Str("queue", queue).Dur("took", time.Since(start)).Msg("job processed")
}

func (p *pool) park(ctx context.Context, queue string, job Job, reason string, attempts int) {
	p.sink.Park(ctx, FailedJob{
		Queue:     queue,
		Type:      job.Type,
		InvoiceID: invoiceOf(job.Payload),
		Payload:   job.Payload,
		Reason:    reason,
		Attempts:  attempts,
		FailedAt:  p.now().UTC(),
	})
}

// maxAttempts is how many times a handler tries a job before giving up.
const maxAttempts = 3

// retryBase is the first backoff delay of withRetry.
var retryBase = time.Second

// retryError is the last error of a job that used up its attempts.
type retryError struct {
	attempts int
	err      error
}

func (e *retryError) Error() string { return e.err.Error() }
func (e *retryError) Unwrap() error { return e.err }

// attemptsOf reports how many tries produced err: the withRetry count when
// err came from there, otherwise one.
func attemptsOf(err error) int {
	var re *retryError
	if errors.As(err, &re) {
		return re.attempts
	}
	return 1
}

// withRetry calls fn up to maxAttempts times with exponential backoff
// (immediate, then retryBase, 2×retryBase, …). Returns the last error, or
// ctx.Err() when cancelled between attempts.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := retryBase * time.Duration(1<<uint(i-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	if lastErr == nil {
		return nil
	}
	return &retryError{attempts: maxAttempts, err: lastErr}
}
