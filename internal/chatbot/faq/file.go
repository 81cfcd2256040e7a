// internal/chatbot/faq/file.go
package faq

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"wozo-chatbot/internal/common/logger"
	"wozo-chatbot/internal/models"
)

// FileSource reads the knowledge base from a JSON file holding an array of
// rows. Used for local development and tests; the file is re-read on every
// fetch so edits show up without a restart.
type FileSource struct {
	path   string
	logger logger.Logger
}

func NewFileSource(path string, log logger.Logger) *FileSource {
	return &FileSource{
		path:   path,
		logger: log.WithFields(map[string]interface{}{"faqSource": "file"}),
	}
}

func (s *FileSource) Name() string {
	return "file"
}

func (s *FileSource) Fetch(ctx context.Context) ([]models.KnowledgeRow, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	var rows []models.KnowledgeRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	s.logger.Debug("fetched faq rows", map[string]interface{}{"count": len(rows)})
	return rows, nil
}
