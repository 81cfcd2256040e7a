// internal/chatbot/faq/postgres.go
package faq

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"wozo-chatbot/internal/common/logger"
	"wozo-chatbot/internal/models"
)

// PostgresSource reads the knowledge base from a postgres table with
// question_examples and tags stored as jsonb arrays.
type PostgresSource struct {
	db     *sql.DB
	table  string
	logger logger.Logger
}

func NewPostgresSource(db *sql.DB, table string, log logger.Logger) *PostgresSource {
	return &PostgresSource{
		db:     db,
		table:  table,
		logger: log.WithFields(map[string]interface{}{"faqSource": "postgres"}),
	}
}

func (s *PostgresSource) Name() string {
	return "postgres"
}

func (s *PostgresSource) Fetch(ctx context.Context) ([]models.KnowledgeRow, error) {
	query := fmt.Sprintf(`SELECT id, intent, question_examples, tags, answer FROM %s`, s.table)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer rows.Close()

	var out []models.KnowledgeRow
	for rows.Next() {
		var row models.KnowledgeRow
		var intent, answer sql.NullString
		var examples, tags []byte

		if err := rows.Scan(&row.ID, &intent, &examples, &tags, &answer); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}

		row.Intent = intent.String
		row.Answer = answer.String
		if err := json.Unmarshal(examples, &row.QuestionExamples); err != nil {
			row.QuestionExamples = []string{}
		}
		if err := json.Unmarshal(tags, &row.Tags); err != nil {
			row.Tags = []string{}
		}

		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	s.logger.Debug("fetched faq rows", map[string]interface{}{"count": len(out)})
	return out, nil
}
