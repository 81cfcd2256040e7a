// internal/chatbot/conversation/recorder.go
package conversation

import (
	"context"
	"sync"
	"time"

	"wozo-chatbot/internal/common/logger"
	"wozo-chatbot/internal/common/metrics"
	"wozo-chatbot/internal/models"
)

// Recorder wraps the store with fire-and-forget semantics: logging runs in
// the background with its own timeout and a failure never reaches the user.
type Recorder struct {
	store   *Store
	timeout time.Duration
	logger  logger.Logger
	wg      sync.WaitGroup
}

func NewRecorder(store *Store, timeout time.Duration, log logger.Logger) *Recorder {
	return &Recorder{
		store:   store,
		timeout: timeout,
		logger:  log.WithFields(map[string]interface{}{"component": "conversation-recorder"}),
	}
}

// Record persists the exchange asynchronously. The caller's context is not
// used so an already-finished request cannot cancel the write.
func (r *Recorder) Record(userID string, messages []models.TranscriptMessage, metadata map[string]interface{}) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		conv := &models.Conversation{
			UserID:   userID,
			Messages: messages,
			Metadata: metadata,
		}
		if err := r.store.Insert(ctx, conv); err != nil {
			metrics.CollaboratorFailures.WithLabelValues("conversation_store").Inc()
			r.logger.Warn("failed to log conversation", map[string]interface{}{
				"userId": userID,
				"error":  err,
			})
		}
	}()
}

// Wait blocks until in-flight writes finish. Called on shutdown and in tests.
func (r *Recorder) Wait() {
	r.wg.Wait()
}
