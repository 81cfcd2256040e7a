// internal/chatbot/faq/postgres_test.go
package faq

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"wozo-chatbot/internal/common/logger"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return db, mock
}

func faqColumns() []string {
	return []string{"id", "intent", "question_examples", "tags", "answer"}
}

func TestPostgresSource_Fetch(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, intent, question_examples, tags, answer FROM faq").
		WillReturnRows(sqlmock.NewRows(faqColumns()).
			AddRow("row-1", "refund", `["How do I get a refund?"]`, `["refund","money"]`, "Contact support.").
			AddRow("row-2", "shipping", `["Where is my order?"]`, `["delivery"]`, "Orders ship within two days."))

	source := NewPostgresSource(db, "faq", logger.NewTestLogger(t))
	rows, err := source.Fetch(context.Background())

	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "refund", rows[0].Intent)
	assert.Equal(t, []string{"How do I get a refund?"}, rows[0].QuestionExamples)
	assert.Equal(t, []string{"refund", "money"}, rows[0].Tags)
	assert.Equal(t, "Contact support.", rows[0].Answer)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_Fetch_MalformedJSONBColumns(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, intent, question_examples, tags, answer FROM faq").
		WillReturnRows(sqlmock.NewRows(faqColumns()).
			AddRow("row-1", "refund", `not json`, `{broken`, "Contact support."))

	source := NewPostgresSource(db, "faq", logger.NewTestLogger(t))
	rows, err := source.Fetch(context.Background())

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Empty(t, rows[0].QuestionExamples)
	assert.Empty(t, rows[0].Tags)
}

func TestPostgresSource_Fetch_NullColumns(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, intent, question_examples, tags, answer FROM faq").
		WillReturnRows(sqlmock.NewRows(faqColumns()).
			AddRow("row-1", nil, `[]`, `[]`, nil))

	source := NewPostgresSource(db, "faq", logger.NewTestLogger(t))
	rows, err := source.Fetch(context.Background())

	assert.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Empty(t, rows[0].Intent)
	assert.Empty(t, rows[0].Answer)
}

func TestPostgresSource_Fetch_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, intent, question_examples, tags, answer FROM faq").
		WillReturnError(errors.New("connection refused"))

	source := NewPostgresSource(db, "faq", logger.NewTestLogger(t))
	rows, err := source.Fetch(context.Background())

	assert.Nil(t, rows)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestPostgresSource_Name(t *testing.T) {
	db, _ := setupMockDB(t)
	defer db.Close()

	source := NewPostgresSource(db, "faq", logger.NewTestLogger(t))
	assert.Equal(t, "postgres", source.Name())
}
