// internal/chatbot/conversation/tracker.go
package conversation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"wozo-chatbot/internal/common/logger"
	"wozo-chatbot/internal/common/metrics"
	"wozo-chatbot/internal/matching"
)

const trackTimeout = 2 * time.Second

// Tracker counts unanswered queries in a redis sorted set so curators can
// mine knowledge base gaps. Best-effort: failures are logged and swallowed.
type Tracker struct {
	client *redis.Client
	key    string
	logger logger.Logger
	wg     sync.WaitGroup
}

func NewTracker(client *redis.Client, key string, log logger.Logger) *Tracker {
	return &Tracker{
		client: client,
		key:    key,
		logger: log.WithFields(map[string]interface{}{"component": "fallback-tracker"}),
	}
}

// Track increments the counter for the normalized form of an unanswered
// query in the background. Queries that normalize to nothing are skipped.
func (t *Tracker) Track(query string) {
	normalized := strings.Join(matching.Tokenize(query), " ")
	if normalized == "" {
		return
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
		defer cancel()

		if err := t.client.ZIncrBy(ctx, t.key, 1, normalized).Err(); err != nil {
			metrics.CollaboratorFailures.WithLabelValues("fallback_tracker").Inc()
			t.logger.Warn("failed to track unanswered query", map[string]interface{}{
				"query": normalized,
				"error": err,
			})
		}
	}()
}

// Top returns the most frequent unanswered queries, highest count first.
func (t *Tracker) Top(ctx context.Context, n int64) ([]redis.Z, error) {
	return t.client.ZRevRangeWithScores(ctx, t.key, 0, n-1).Result()
}

// Wait blocks until in-flight increments finish. Called on shutdown and in tests.
func (t *Tracker) Wait() {
	t.wg.Wait()
}
