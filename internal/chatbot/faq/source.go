// internal/chatbot/faq/source.go
package faq

import (
	"context"
	"errors"

	"wozo-chatbot/internal/models"
)

var (
	ErrFetchFailed = errors.New("FAQ_FETCH_FAILED")
)

// Source supplies the current knowledge base snapshot. Implementations must
// be safe for concurrent use; the server fetches a fresh snapshot per request.
type Source interface {
	Fetch(ctx context.Context) ([]models.KnowledgeRow, error)
	Name() string
}
