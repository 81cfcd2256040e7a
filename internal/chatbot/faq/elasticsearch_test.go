// internal/chatbot/faq/elasticsearch_test.go
package faq

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"

	"wozo-chatbot/internal/common/logger"
)

// newESTestServer fakes an Elasticsearch node; the product header is required
// by the v8 client's response validation.
func newESTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *elasticsearch.Client) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		handler(w, r)
	}))

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	if err != nil {
		server.Close()
		t.Fatalf("failed to create elasticsearch client: %v", err)
	}
	return server, client
}

func TestElasticsearchSource_Fetch(t *testing.T) {
	server, client := newESTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/faq/_search", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"hits": {
				"total": {"value": 2},
				"hits": [
					{"_id": "es-1", "_source": {"intent":"refund","question_examples":["How do I get a refund?"],"tags":["refund"],"answer":"Contact support."}},
					{"_id": "es-2", "_source": {"id":"row-2","intent":"shipping","answer":"Orders ship within two days."}}
				]
			}
		}`))
	})
	defer server.Close()

	source := NewElasticsearchSource(client, "faq", logger.NewTestLogger(t))
	rows, err := source.Fetch(context.Background())

	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	// document id backfills a missing row id
	assert.Equal(t, "es-1", rows[0].ID)
	assert.Equal(t, "row-2", rows[1].ID)
	assert.Equal(t, "refund", rows[0].Intent)
}

func TestElasticsearchSource_Fetch_SearchError(t *testing.T) {
	server, client := newESTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	})
	defer server.Close()

	source := NewElasticsearchSource(client, "faq", logger.NewTestLogger(t))
	rows, err := source.Fetch(context.Background())

	assert.Nil(t, rows)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestElasticsearchSource_Fetch_EmptyIndex(t *testing.T) {
	server, client := newESTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"hits": {"total": {"value": 0}, "hits": []}}`))
	})
	defer server.Close()

	source := NewElasticsearchSource(client, "faq", logger.NewTestLogger(t))
	rows, err := source.Fetch(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, rows)
}
