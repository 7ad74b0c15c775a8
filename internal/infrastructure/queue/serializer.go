package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrStopped is returned by Do once the serializer's workers have exited.
var ErrStopped = errors.New("queue: serializer stopped")

// Job states. A job is claimed exactly once, either by a worker that runs
// it or by a caller that gives up on it while it is still queued.
const (
	jobPending int32 = iota
	jobRunning
	jobAbandoned
)

type job struct {
	ctx   context.Context
	key   string
	fn    func(ctx context.Context) error
	done  chan error
	state atomic.Int32
}

// claim moves a pending job to next and reports whether it won.
func (j *job) claim(next int32) bool {
	return j.state.CompareAndSwap(jobPending, next)
}

// Serializer routes read-modify-write jobs to a fixed set of workers using
// consistent hashing on the job key, so that jobs for the same user never
// run concurrently and run in submission order.
type Serializer struct {
	workers []chan *job
	stopped chan struct{}
	depth   *prometheus.GaugeVec
	log     zerolog.Logger
}

type Option func(*Serializer)

// WithDepthGauge reports each worker's pending job count under a worker_id label.
func WithDepthGauge(g *prometheus.GaugeVec) Option {
	return func(s *Serializer) { s.depth = g }
}

// NewSerializer creates a Serializer with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewSerializer(numWorkers int, log zerolog.Logger, opts ...Option) *Serializer {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	s := &Serializer{
		workers: make([]chan *job, numWorkers),
		stopped: make(chan struct{}),
		log:     log,
	}
	for i := range s.workers {
		s.workers[i] = make(chan *job, channelBuffer)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled,
// after which Do fails fast with ErrStopped.
func (s *Serializer) Start(ctx context.Context) {
	for i, ch := range s.workers {
		go s.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(s.stopped)
	}()
}

// Do runs fn on the worker that owns key and waits for its result. If ctx
// ends before the job is picked up, fn is skipped and ctx.Err() is returned.
// Once fn has started, Do always reports fn's own result.
func (s *Serializer) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	idx := s.shardIndex(key)
	j := &job{ctx: ctx, key: key, fn: fn, done: make(chan error, 1)}

	select {
	case s.workers[idx] <- j:
		s.observeDepth(idx)
	case <-ctx.Done():
		return ctx.Err()
	case <-s.stopped:
		return ErrStopped
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		if j.claim(jobAbandoned) {
			return ctx.Err()
		}
	case <-s.stopped:
		if j.claim(jobAbandoned) {
			return ErrStopped
		}
	}
	// A worker already claimed the job; its result is authoritative.
	return <-j.done
}

// shardIndex maps a key deterministically to a worker index.
func (s *Serializer) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(s.workers)))
}

func (s *Serializer) observeDepth(idx int) {
	if s.depth == nil {
		return
	}
	s.depth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(s.workers[idx])))
}

func (s *Serializer) runWorker(ctx context.Context, id int, ch <-chan *job) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-ch:
			s.observeDepth(id)
			if !j.claim(jobRunning) {
				continue
			}
			if err := j.ctx.Err(); err != nil {
				j.done <- err
				continue
			}
			err := j.fn(j.ctx)
			if err != nil {
				s.log.Debug().Err(err).
					Str("key", j.key).
					Int("worker_id", id).
					Msg("serialized job failed")
			}
			j.done <- err
		}
	}
}
