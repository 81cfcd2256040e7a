// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wozo-chatbot/internal/chatbot/conversation"
	"wozo-chatbot/internal/chatbot/faq"
	"wozo-chatbot/internal/chatbot/respond"
	"wozo-chatbot/internal/common/config"
	"wozo-chatbot/internal/common/logger"
	"wozo-chatbot/internal/server"
)

// knowledgeFixture is written to a temp file and served by the file source,
// so the whole stack runs without external infrastructure.
const knowledgeFixture = `[
	{
		"id": "faq-refund",
		"intent": "refund",
		"question_examples": ["How do I get a refund?", "Can I get my money back?"],
		"tags": ["refund", "money", "billing"],
		"answer": "Refunds are processed within 5 business days."
	},
	{
		"id": "faq-shipping",
		"intent": "shipping",
		"question_examples": ["Where is my order?", "When will my package arrive?"],
		"tags": ["delivery", "shipping", "order"],
		"answer": "Orders ship within 24 hours and arrive in 2 to 4 days."
	},
	{
		"id": "faq-hours",
		"intent": "opening_hours",
		"question_examples": ["What are your opening hours?"],
		"tags": ["hours", "opening", "schedule"],
		"answer": "Support is available Monday to Friday, 9am to 6pm."
	}
]`

type stack struct {
	handler     http.Handler
	recorder    *conversation.Recorder
	tracker     *conversation.Tracker
	sqlMock     sqlmock.Sqlmock
	redisClient *redis.Client
}

func newStack(t *testing.T) *stack {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "faq.json")
	require.NoError(t, os.WriteFile(path, []byte(knowledgeFixture), 0o644))

	log := logger.NewNoOpLogger()
	source := faq.NewFileSource(path, log)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := conversation.NewStore(db, "conversations", log)
	recorder := conversation.NewRecorder(store, time.Second, log)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	tracker := conversation.NewTracker(client, "chatbot:unanswered", log)

	cfg := &config.Config{
		Server: config.ServerConfig{
			AllowedOrigins: []string{"*"},
		},
		Matching: config.MatchingConfig{Threshold: 2, MaxSuggestions: 3},
	}
	responder := respond.NewHandler(&respond.Config{
		MatchThreshold: cfg.Matching.Threshold,
		MaxSuggestions: cfg.Matching.MaxSuggestions,
	}, log)

	h := server.NewHandler(cfg, source, responder, recorder, tracker, nil, nil, log)

	return &stack{
		handler:     h.Routes(),
		recorder:    recorder,
		tracker:     tracker,
		sqlMock:     mock,
		redisClient: client,
	}
}

func (s *stack) post(t *testing.T, body string) (*httptest.ResponseRecorder, respond.Output) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/message", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var out respond.Output
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestAnsweredQuestionRoundTrip(t *testing.T) {
	s := newStack(t)
	s.sqlMock.ExpectExec("INSERT INTO conversations").
		WithArgs(sqlmock.AnyArg(), "user-7", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, out := s.post(t, `{"user_id":"user-7","message":"how do i get a refund"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, out.Found)
	assert.Equal(t, "refund", out.Intent)
	assert.Equal(t, "Refunds are processed within 5 business days.", out.Answer)
	assert.GreaterOrEqual(t, out.MatchScore, 2.0)

	s.recorder.Wait()
	assert.NoError(t, s.sqlMock.ExpectationsWereMet())

	// An answered question must not end up in the unanswered set.
	s.tracker.Wait()
	count, err := s.redisClient.ZCard(context.Background(), "chatbot:unanswered").Result()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUnansweredQuestionRoundTrip(t *testing.T) {
	s := newStack(t)
	s.sqlMock.ExpectExec("INSERT INTO conversations").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec, out := s.post(t, `{"message":"tell me about enterprise pricing"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, out.Found)
	assert.Equal(t, respond.FallbackMessage, out.Answer)
	assert.Len(t, out.SuggestedQuestions, 3)

	s.recorder.Wait()
	s.tracker.Wait()

	// The query shows up in the curators' unanswered feed.
	req := httptest.NewRequest(http.MethodGet, "/api/unanswered", nil)
	feed := httptest.NewRecorder()
	s.handler.ServeHTTP(feed, req)

	assert.Equal(t, http.StatusOK, feed.Code)
	assert.Contains(t, feed.Body.String(), "enterprise pricing")
}

func TestRepeatedUnansweredQuestionsAccumulate(t *testing.T) {
	s := newStack(t)
	s.sqlMock.ExpectExec("INSERT INTO conversations").
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.sqlMock.ExpectExec("INSERT INTO conversations").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.post(t, `{"message":"Enterprise pricing?"}`)
	s.post(t, `{"message":"enterprise PRICING"}`)

	s.recorder.Wait()
	s.tracker.Wait()

	// Both phrasings normalize to the same key.
	score, err := s.redisClient.ZScore(context.Background(), "chatbot:unanswered", "enterprise pricing").Result()
	require.NoError(t, err)
	assert.Equal(t, 2.0, score)
}

func TestValidationAndReadiness(t *testing.T) {
	s := newStack(t)

	rec, _ := s.post(t, `{"message":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.post(t, `{"note":"no message field"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	ready := httptest.NewRecorder()
	s.handler.ServeHTTP(ready, req)
	assert.Equal(t, http.StatusOK, ready.Code)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	health := httptest.NewRecorder()
	s.handler.ServeHTTP(health, req)
	assert.Equal(t, http.StatusOK, health.Code)
}
