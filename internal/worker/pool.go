package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DeadLetterQueue holds jobs whose handler failed; they wait there for
// operator inspection and manual replay.
const DeadLetterQueue = "jobs:dead"

// Handler processes one raw job payload from its queue.
type Handler func(ctx context.Context, payload []byte) error

// Pool runs N workers that block-pop jobs from the registered queues and
// dispatch them to the matching handler. A failed job goes to the dead-letter
// queue rather than back onto its source queue.
type Pool struct {
	rdb      *redis.Client
	size     int
	handlers map[string]Handler
	queues   []string
	log      zerolog.Logger
	wg       sync.WaitGroup
}

func NewPool(rdb *redis.Client, size int, log zerolog.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		rdb:      rdb,
		size:     size,
		handlers: make(map[string]Handler),
		log:      log.With().Str("component", "worker_pool").Logger(),
	}
}

// Register binds a handler to a queue. Must be called before Start.
func (p *Pool) Register(queue string, h Handler) {
	p.handlers[queue] = h
	p.queues = append(p.queues, queue)
}

// Start launches the workers. They exit when ctx is cancelled; Wait blocks
// until all of them have drained.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.work(ctx, i)
	}
	p.log.Info().Int("workers", p.size).Strs("queues", p.queues).Msg("worker pool started")
}

func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) work(ctx context.Context, id int) {
	defer p.wg.Done()
	log := p.log.With().Int("worker", id).Logger()

	for {
		if ctx.Err() != nil {
			return
		}

		res, err := p.rdb.BRPop(ctx, 5*time.Second, p.queues...).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("queue pop failed")
			time.Sleep(time.Second)
			continue
		}

		queue, payload := res[0], []byte(res[1])
		h, ok := p.handlers[queue]
		if !ok {
			log.Error().Str("queue", queue).Msg("no handler for queue")
			continue
		}

		if err := h(ctx, payload); err != nil {
			log.Error().Err(err).Str("queue", queue).Msg("job failed, moving to dead letter queue")
			p.deadLetter(ctx, queue, payload, err)
		}
	}
}

type deadLetter struct {
	Queue    string          `json:"queue"`
	Payload  json.RawMessage `json:"payload"`
	Error    string          `json:"error"`
	FailedAt time.Time       `json:"failed_at"`
}

func (p *Pool) deadLetter(ctx context.Context, queue string, payload []byte, cause error) {
	entry, err := json.Marshal(deadLetter{
		Queue:    queue,
		Payload:  payload,
		Error:    cause.Error(),
		FailedAt: time.Now(),
	})
	if err != nil {
		return
	}
	if err := p.rdb.LPush(context.WithoutCancel(ctx), DeadLetterQueue, entry).Err(); err != nil {
		p.log.Error().Err(err).Msg("could not write dead letter entry")
	}
}
