package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool(t *testing.T) {
	t.Run("every job runs exactly once", func(t *testing.T) {
		for _, tc := range []struct {
			workers, jobs int
		}{
			{1, 1}, {1, 100}, {4, 100}, {8, 8}, {32, 1000},
		} {
			pool := New(tc.workers, 0, nil)
			require.Equal(t, tc.workers, pool.Size())

			var counter atomic.Int64
			for range tc.jobs {
				require.NoError(t, pool.Execute(func() {
					counter.Add(1)
				}))
			}

			pool.Close()
			require.Equal(t, int64(tc.jobs), counter.Load())
			require.Zero(t, pool.Pending())
		}
	})

	t.Run("close drains the queue", func(t *testing.T) {
		pool := New(2, 0, nil)
		release := make(chan struct{})
		var done atomic.Int64

		for range 10 {
			require.NoError(t, pool.Execute(func() {
				<-release
				done.Add(1)
			}))
		}

		closed := make(chan struct{})
		go func() {
			pool.Close()
			close(closed)
		}()

		select {
		case <-closed:
			t.Fatal("close returned before jobs are done")
		case <-time.After(50 * time.Millisecond):
		}

		close(release)
		<-closed
		require.Equal(t, int64(10), done.Load())
	})

	t.Run("closed pool rejects jobs", func(t *testing.T) {
		pool := New(1, 0, nil)
		pool.Close()
		require.ErrorIs(t, pool.Execute(func() {}), ErrClosed)
		pool.Close()
	})

	t.Run("bounded queue", func(t *testing.T) {
		pool := New(1, 2, nil)
		started := make(chan struct{})
		release := make(chan struct{})

		require.NoError(t, pool.Execute(func() {
			close(started)
			<-release
		}))
		<-started

		require.NoError(t, pool.Execute(func() {}))
		require.NoError(t, pool.Execute(func() {}))
		require.Equal(t, 2, pool.Pending())
		require.ErrorIs(t, pool.Execute(func() {}), ErrQueueFull)

		close(release)
		pool.Close()
	})

	t.Run("panicking job doesn't kill the worker", func(t *testing.T) {
		pool := New(1, 0, nil)
		var ran atomic.Bool

		require.NoError(t, pool.Execute(func() {
			panic("boom")
		}))
		require.NoError(t, pool.Execute(func() {
			ran.Store(true)
		}))

		pool.Close()
		require.True(t, ran.Load())
	})

	t.Run("concurrent submitters", func(t *testing.T) {
		pool := New(4, 0, nil)
		var (
			counter atomic.Int64
			wg      sync.WaitGroup
		)

		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 100 {
					assert.NoError(t, pool.Execute(func() {
						counter.Add(1)
					}))
				}
			}()
		}

		wg.Wait()
		pool.Close()
		require.Equal(t, int64(800), counter.Load())
	})
}
