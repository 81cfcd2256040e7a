// internal/chatbot/faq/supabase.go
package faq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	commonhttp "wozo-chatbot/internal/common/http"
	"wozo-chatbot/internal/common/logger"
	"wozo-chatbot/internal/models"
)

var (
	ErrSupabaseTimeout = errors.New("SUPABASE_TIMEOUT")
)

// SupabaseSource reads the knowledge base through the Supabase REST API using
// the service role key. Transient failures are retried with exponential
// backoff.
type SupabaseSource struct {
	client         *commonhttp.Client
	baseURL        string
	serviceRoleKey string
	table          string
	maxRetries     int
	logger         logger.Logger
}

func NewSupabaseSource(client *commonhttp.Client, baseURL, serviceRoleKey, table string, maxRetries int, log logger.Logger) *SupabaseSource {
	return &SupabaseSource{
		client:         client,
		baseURL:        baseURL,
		serviceRoleKey: serviceRoleKey,
		table:          table,
		maxRetries:     maxRetries,
		logger:         log.WithFields(map[string]interface{}{"faqSource": "supabase"}),
	}
}

func (s *SupabaseSource) Name() string {
	return "supabase"
}

func (s *SupabaseSource) Fetch(ctx context.Context) ([]models.KnowledgeRow, error) {
	url := fmt.Sprintf("%s/rest/v1/%s?select=*", s.baseURL, s.table)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("apikey", s.serviceRoleKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceRoleKey)
	req.Header.Set("Accept", "application/json")

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {

		if attempt > 0 {
			// Apply exponential backoff for retries
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrSupabaseTimeout
			}
		}

		resp, lastErr = s.client.Do(req)

		// If context expired during the request, return timeout immediately.
		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {

			return nil, ErrSupabaseTimeout
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			// For non-OK status codes, treat as error and retry
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if resp == nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, lastErr)
	}
	defer resp.Body.Close()

	var rows []models.KnowledgeRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	s.logger.Debug("fetched faq rows", map[string]interface{}{"count": len(rows)})
	return rows, nil
}
