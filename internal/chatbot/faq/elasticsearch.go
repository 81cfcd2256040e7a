// internal/chatbot/faq/elasticsearch.go
package faq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"wozo-chatbot/internal/common/logger"
	"wozo-chatbot/internal/models"
)

// maxIndexSize bounds a single fetch; FAQ indexes are small by design.
const maxIndexSize = 1000

// ElasticsearchSource reads the knowledge base from an Elasticsearch index.
type ElasticsearchSource struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewElasticsearchSource(client *elasticsearch.Client, index string, log logger.Logger) *ElasticsearchSource {
	return &ElasticsearchSource{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"faqSource": "elasticsearch"}),
	}
}

func (s *ElasticsearchSource) Name() string {
	return "elasticsearch"
}

func (s *ElasticsearchSource) Fetch(ctx context.Context) ([]models.KnowledgeRow, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"match_all": map[string]interface{}{},
		},
		"size": maxIndexSize,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: search failed: %s", ErrFetchFailed, res.Status())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				ID     string              `json:"_id"`
				Source models.KnowledgeRow `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	var out []models.KnowledgeRow
	for _, hit := range r.Hits.Hits {
		row := hit.Source
		if row.ID == "" {
			row.ID = hit.ID
		}
		out = append(out, row)
	}

	s.logger.Debug("fetched faq rows", map[string]interface{}{"count": len(out)})
	return out, nil
}
