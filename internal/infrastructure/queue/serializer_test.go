package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startSerializer(t *testing.T, workers int, opts ...Option) *Serializer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	s := NewSerializer(workers, zerolog.Nop(), opts...)
	s.Start(ctx)
	return s
}

func TestSerializer_ReturnsJobError(t *testing.T) {
	s := startSerializer(t, 2)
	boom := errors.New("boom")

	err := s.Do(context.Background(), "u1", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestSerializer_SameKeyNeverOverlaps(t *testing.T) {
	s := startSerializer(t, 4)

	var (
		inFlight int32
		overlaps int32
		counter  int
		wg       sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Do(context.Background(), "same-user", func(context.Context) error {
				if atomic.AddInt32(&inFlight, 1) > 1 {
					atomic.AddInt32(&overlaps, 1)
				}
				counter++ // unsynchronised on purpose: only safe if jobs never overlap
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&overlaps))
	assert.Equal(t, 50, counter)
}

func TestSerializer_PreservesSubmissionOrderPerKey(t *testing.T) {
	s := startSerializer(t, 3)

	var got []int
	for i := 0; i < 10; i++ {
		i := i
		require.NoError(t, s.Do(context.Background(), "k", func(context.Context) error {
			got = append(got, i)
			return nil
		}))
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestSerializer_ShardIndexIsStable(t *testing.T) {
	s := NewSerializer(8, zerolog.Nop())
	for _, key := range []string{"", "a", "65a1f0c2e4b0a1b2c3d4e5f6"} {
		idx := s.shardIndex(key)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 8)
		assert.Equal(t, idx, s.shardIndex(key))
	}
}

func TestSerializer_DefaultWorkers(t *testing.T) {
	s := NewSerializer(0, zerolog.Nop())
	assert.Len(t, s.workers, defaultWorkers)
}

func TestSerializer_SkipsJobWhenContextCancelled(t *testing.T) {
	s := startSerializer(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	err := s.Do(ctx, "k", func(context.Context) error { ran = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}

func TestSerializer_StartedJobReportsItsOwnResult(t *testing.T) {
	s := startSerializer(t, 1)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	var committed atomic.Bool
	go func() {
		<-started
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := s.Do(ctx, "k", func(context.Context) error {
		close(started)
		time.Sleep(60 * time.Millisecond)
		committed.Store(true)
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, committed.Load())
}

func TestSerializer_QueuedJobAbandonedOnCancel(t *testing.T) {
	s := startSerializer(t, 1)

	release := make(chan struct{})
	started := make(chan struct{})
	blocking := make(chan error, 1)
	go func() {
		blocking <- s.Do(context.Background(), "k", func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	var ran atomic.Bool
	err := s.Do(ctx, "k", func(context.Context) error { ran.Store(true); return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, <-blocking)
	require.NoError(t, s.Do(context.Background(), "k", func(context.Context) error { return nil }))
	assert.False(t, ran.Load())
}

func TestSerializer_StoppedAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewSerializer(1, zerolog.Nop())
	s.Start(ctx)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case <-s.stopped:
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	err := s.Do(context.Background(), "k", func(context.Context) error {
		// The worker may still drain this job if it raced the shutdown.
		return ErrStopped
	})
	assert.ErrorIs(t, err, ErrStopped)
}

func TestSerializer_ReportsQueueDepth(t *testing.T) {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "test_queue_depth"}, []string{"worker_id"})
	s := startSerializer(t, 1, WithDepthGauge(gauge))

	require.NoError(t, s.Do(context.Background(), "k", func(context.Context) error { return nil }))

	m, err := gauge.GetMetricWithLabelValues("0")
	require.NoError(t, err)
	assert.NotNil(t, m)
}
