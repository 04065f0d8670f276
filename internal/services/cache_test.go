package services

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumatch/ats-engine/internal/models"
)

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "JD-1_all", CacheKey("JD-1", nil))
	assert.Equal(t, "JD-1_all", CacheKey("JD-1", []string{}))
	assert.Equal(t, "JD-1_CAND-A_CAND-B", CacheKey("JD-1", []string{"CAND-B", "CAND-A"}))
	assert.Equal(t,
		CacheKey("JD-1", []string{"CAND-A", "CAND-B"}),
		CacheKey("JD-1", []string{"CAND-B", "CAND-A"}))
}

func TestCacheDoMemoizes(t *testing.T) {
	cache := NewEvaluationCache()
	calls := 0

	for i := 0; i < 3; i++ {
		resp, err := cache.Do("JD-1", "JD-1_all", func() (*models.EvaluationResponse, error) {
			calls++
			return &models.EvaluationResponse{JobID: "JD-1"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "JD-1", resp.JobID)
	}

	assert.Equal(t, 1, calls)
}

func TestCacheDoDoesNotCacheErrors(t *testing.T) {
	cache := NewEvaluationCache()
	calls := 0

	_, err := cache.Do("JD-1", "JD-1_all", func() (*models.EvaluationResponse, error) {
		calls++
		return nil, errors.New("boom")
	})
	require.Error(t, err)

	resp, err := cache.Do("JD-1", "JD-1_all", func() (*models.EvaluationResponse, error) {
		calls++
		return &models.EvaluationResponse{JobID: "JD-1"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "JD-1", resp.JobID)
	assert.Equal(t, 2, calls)
}

func TestCacheInvalidateJobDropsAllVariants(t *testing.T) {
	cache := NewEvaluationCache()

	fill := func(jobID, key string) {
		_, err := cache.Do(jobID, key, func() (*models.EvaluationResponse, error) {
			return &models.EvaluationResponse{JobID: jobID}, nil
		})
		require.NoError(t, err)
	}

	fill("JD-1", CacheKey("JD-1", nil))
	fill("JD-1", CacheKey("JD-1", []string{"CAND-A"}))
	fill("JD-2", CacheKey("JD-2", nil))

	cache.InvalidateJob("JD-1")

	_, ok := cache.Get(CacheKey("JD-1", nil))
	assert.False(t, ok)
	_, ok = cache.Get(CacheKey("JD-1", []string{"CAND-A"}))
	assert.False(t, ok)

	// Other jobs are untouched.
	_, ok = cache.Get(CacheKey("JD-2", nil))
	assert.True(t, ok)
}

func TestCacheDoSharesConcurrentComputation(t *testing.T) {
	cache := NewEvaluationCache()

	var calls int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := cache.Do("JD-1", "JD-1_all", func() (*models.EvaluationResponse, error) {
				atomic.AddInt32(&calls, 1)
				<-release
				return &models.EvaluationResponse{JobID: "JD-1"}, nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "JD-1", resp.JobID)
		}()
	}

	close(release)
	wg.Wait()

	// In-flight callers share one computation; stragglers that arrive
	// after completion hit the cache.
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
