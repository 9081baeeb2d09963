package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/learnsphere/assessment-client/internal/cache"
	"github.com/learnsphere/assessment-client/internal/models"
	"github.com/learnsphere/assessment-client/internal/utils"
)

// CachedClient is a read-through caching decorator around a Client.
// Assessment metadata and question lists are immutable once published, so
// they cache cleanly; submissions always pass through. Cache failures are
// logged and degrade to a direct fetch, never a load failure.
type CachedClient struct {
	inner  Client
	cache  cache.CacheService
	ttl    time.Duration
	logger utils.Logger
}

func NewCachedClient(inner Client, cacheService cache.CacheService, ttl time.Duration, logger utils.Logger) *CachedClient {
	return &CachedClient{
		inner:  inner,
		cache:  cacheService,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedClient) FetchAssessment(ctx context.Context, assessmentID string) (*models.Assessment, error) {
	key := assessmentCacheKey(assessmentID)

	var cached models.Assessment
	if err := c.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warn("Assessment cache read failed", "assessment_id", assessmentID, "error", err)
	}

	assessment, err := c.inner.FetchAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, assessment, c.ttl); err != nil {
		c.logger.Warn("Assessment cache write failed", "assessment_id", assessmentID, "error", err)
	}

	return assessment, nil
}

func (c *CachedClient) FetchQuestions(ctx context.Context, assessmentID string) ([]models.Question, error) {
	key := questionsCacheKey(assessmentID)

	var cached []models.Question
	if err := c.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		c.logger.Warn("Questions cache read failed", "assessment_id", assessmentID, "error", err)
	}

	questions, err := c.inner.FetchQuestions(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	// An empty list is not cached; it is a load failure at the session
	// layer and the next attempt should hit the service again.
	if len(questions) > 0 {
		if err := c.cache.Set(ctx, key, questions, c.ttl); err != nil {
			c.logger.Warn("Questions cache write failed", "assessment_id", assessmentID, "error", err)
		}
	}

	return questions, nil
}

func (c *CachedClient) SubmitAttempt(ctx context.Context, assessmentID string, req *models.SubmitAttemptRequest) (*models.AttemptResult, error) {
	return c.inner.SubmitAttempt(ctx, assessmentID, req)
}

func assessmentCacheKey(assessmentID string) string {
	return fmt.Sprintf("assessment:%s", assessmentID)
}

func questionsCacheKey(assessmentID string) string {
	return fmt.Sprintf("assessment:%s:questions", assessmentID)
}
