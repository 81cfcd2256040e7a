// internal/chatbot/respond/handler.go
package respond

import (
	"context"
	"errors"

	"wozo-chatbot/internal/common/logger"
	"wozo-chatbot/internal/matching"
	"wozo-chatbot/internal/models"
)

const (
	// DefaultAnswer covers matched rows whose answer column is empty.
	DefaultAnswer = "Désolé, je n'ai pas de réponse prête."

	// FallbackMessage is returned when no row clears the match threshold.
	FallbackMessage = "Je n'ai pas trouvé une réponse précise. Souhaites-tu que je te mette en contact avec le support ou que je consulte la documentation API ?"
)

var (
	ErrNilInput = errors.New("NIL_INPUT")
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"component": "respond"}),
	}
}

// Execute matches the user message against the knowledge base snapshot and
// builds the reply. Above the threshold it returns the winning row's answer;
// below it, a fixed apology plus suggested questions drawn from the top of
// the ranked list. It never errors on empty messages or empty knowledge
// bases, those simply fall through to the apology path.
func (h *Handler) Execute(ctx context.Context, input *Input, rows []models.KnowledgeRow) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}

	result := matching.Match(input.Message, rows)

	if result.Found(h.config.MatchThreshold) {
		answer := result.Best.Row.Answer
		if answer == "" {
			answer = DefaultAnswer
		}

		h.logger.Info("faq match found", map[string]interface{}{
			"userId": input.UserID,
			"intent": result.Best.Row.Intent,
			"score":  result.Best.Score,
		})

		return &Output{
			Answer:     answer,
			Found:      true,
			Intent:     result.Best.Row.Intent,
			MatchScore: result.Best.Score,
		}, nil
	}

	h.logger.Info("no faq match above threshold", map[string]interface{}{
		"userId":    input.UserID,
		"bestScore": result.Best.Score,
		"threshold": h.config.MatchThreshold,
	})

	return &Output{
		Answer:             FallbackMessage,
		Found:              false,
		MatchScore:         result.Best.Score,
		SuggestedQuestions: h.suggestions(result.Ranked),
	}, nil
}

// suggestions takes the first example question of each top-ranked row, falling
// back to the row's intent when it has no examples.
func (h *Handler) suggestions(ranked []matching.ScoredRow) []string {
	limit := h.config.MaxSuggestions
	if len(ranked) < limit {
		limit = len(ranked)
	}

	out := make([]string, 0, limit)
	for _, candidate := range ranked[:limit] {
		out = append(out, candidate.Row.FirstExample())
	}
	return out
}
