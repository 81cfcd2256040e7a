// internal/chatbot/conversation/tracker_test.go
package conversation

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"wozo-chatbot/internal/common/logger"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestTracker_Track(t *testing.T) {
	_, client := setupMiniredis(t)
	tracker := NewTracker(client, "chatbot:unanswered", logger.NewTestLogger(t))

	tracker.Track("How do I get a REFUND?")
	tracker.Wait()

	score := client.ZScore(context.Background(), "chatbot:unanswered", "how do get refund").Val()
	assert.Equal(t, 1.0, score)
}

func TestTracker_Track_IncrementsRepeatedQueries(t *testing.T) {
	_, client := setupMiniredis(t)
	tracker := NewTracker(client, "chatbot:unanswered", logger.NewTestLogger(t))

	// punctuation and casing normalize to the same member
	tracker.Track("how do i get a refund")
	tracker.Wait()
	tracker.Track("How do I get a refund???")
	tracker.Wait()

	score := client.ZScore(context.Background(), "chatbot:unanswered", "how do get refund").Val()
	assert.Equal(t, 2.0, score)
}

func TestTracker_Track_SkipsBlankQueries(t *testing.T) {
	_, client := setupMiniredis(t)
	tracker := NewTracker(client, "chatbot:unanswered", logger.NewTestLogger(t))

	tracker.Track("  ?!  ")
	tracker.Wait()

	count := client.ZCard(context.Background(), "chatbot:unanswered").Val()
	assert.Equal(t, int64(0), count)
}

func TestTracker_Track_RedisFailureIsSwallowed(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectZIncrBy("chatbot:unanswered", 1, "refund").SetErr(redis.ErrClosed)

	tracker := NewTracker(client, "chatbot:unanswered", logger.NewTestLogger(t))

	// must not panic or surface the error
	tracker.Track("refund")
	tracker.Wait()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTracker_Top(t *testing.T) {
	_, client := setupMiniredis(t)
	tracker := NewTracker(client, "chatbot:unanswered", logger.NewTestLogger(t))

	tracker.Track("refund please")
	tracker.Wait()
	tracker.Track("refund please")
	tracker.Wait()
	tracker.Track("opening hours")
	tracker.Wait()

	top, err := tracker.Top(context.Background(), 2)

	assert.NoError(t, err)
	assert.Len(t, top, 2)
	assert.Equal(t, "refund please", top[0].Member)
	assert.Equal(t, 2.0, top[0].Score)
}
