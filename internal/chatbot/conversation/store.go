// internal/chatbot/conversation/store.go
package conversation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"wozo-chatbot/internal/common/logger"
	"wozo-chatbot/internal/models"
)

var (
	ErrLogFailed = errors.New("CONVERSATION_LOG_FAILED")
)

// Store persists conversation transcripts to postgres. Messages and metadata
// land in jsonb columns.
type Store struct {
	db     *sql.DB
	table  string
	logger logger.Logger
}

func NewStore(db *sql.DB, table string, log logger.Logger) *Store {
	return &Store{
		db:     db,
		table:  table,
		logger: log.WithFields(map[string]interface{}{"component": "conversation-store"}),
	}
}

// Insert writes one conversation. A missing ID is filled in with a fresh UUID.
func (s *Store) Insert(ctx context.Context, conv *models.Conversation) error {
	if conv == nil {
		return fmt.Errorf("%w: nil conversation", ErrLogFailed)
	}
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}

	messages, err := json.Marshal(conv.Messages)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLogFailed, err)
	}
	metadata, err := json.Marshal(conv.Metadata)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLogFailed, err)
	}

	userID := sql.NullString{String: conv.UserID, Valid: conv.UserID != ""}

	query := fmt.Sprintf(`INSERT INTO %s (id, user_id, messages, metadata) VALUES ($1, $2, $3, $4)`, s.table)
	if _, err := s.db.ExecContext(ctx, query, conv.ID, userID, messages, metadata); err != nil {
		return fmt.Errorf("%w: %v", ErrLogFailed, err)
	}

	s.logger.Debug("conversation logged", map[string]interface{}{
		"conversationId": conv.ID,
		"messageCount":   len(conv.Messages),
	})
	return nil
}
