package services

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"resumatch/ats-engine/internal/models"
)

// EvaluationCache memoizes evaluation responses per cache key and tracks
// which keys belong to which job, so a job-scoped write can invalidate all
// of its variants (full evaluation plus any candidate subsets). Concurrent
// misses on the same key share one computation.
type EvaluationCache struct {
	mu      sync.Mutex
	entries map[string]*models.EvaluationResponse
	jobKeys map[string]map[string]struct{}
	group   singleflight.Group
}

func NewEvaluationCache() *EvaluationCache {
	return &EvaluationCache{
		entries: make(map[string]*models.EvaluationResponse),
		jobKeys: make(map[string]map[string]struct{}),
	}
}

// CacheKey builds the cache key for a job evaluation. Candidate subsets
// are order-insensitive.
func CacheKey(jobID string, candidateIDs []string) string {
	if len(candidateIDs) == 0 {
		return jobID + "_all"
	}

	ids := make([]string, len(candidateIDs))
	copy(ids, candidateIDs)
	sort.Strings(ids)

	return jobID + "_" + strings.Join(ids, "_")
}

// Get returns the cached response for a key, if any. Callers must treat
// the returned response as read-only.
func (c *EvaluationCache) Get(key string) (*models.EvaluationResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp, ok := c.entries[key]
	return resp, ok
}

// Do returns the cached response for key or computes it with fn. Only one
// computation runs per key at a time; concurrent callers wait for it and
// share the result. Failed computations are not cached.
func (c *EvaluationCache) Do(jobID, key string, fn func() (*models.EvaluationResponse, error)) (*models.EvaluationResponse, error) {
	if resp, ok := c.Get(key); ok {
		return resp, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A concurrent caller may have filled the entry while we waited.
		if resp, ok := c.Get(key); ok {
			return resp, nil
		}

		resp, err := fn()
		if err != nil {
			return nil, err
		}

		c.put(jobID, key, resp)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*models.EvaluationResponse), nil
}

// InvalidateJob drops every cached response belonging to the job.
func (c *EvaluationCache) InvalidateJob(jobID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.jobKeys[jobID] {
		delete(c.entries, key)
	}
	delete(c.jobKeys, jobID)
}

func (c *EvaluationCache) put(jobID, key string, resp *models.EvaluationResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = resp
	if c.jobKeys[jobID] == nil {
		c.jobKeys[jobID] = make(map[string]struct{})
	}
	c.jobKeys[jobID][key] = struct{}{}
}
