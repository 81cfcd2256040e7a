// internal/chatbot/respond/models.go
package respond

type Input struct {
	UserID  string `json:"user_id,omitempty"`
	Message string `json:"message"`
}

type Output struct {
	Answer             string   `json:"answer"`
	Found              bool     `json:"found"`
	Intent             string   `json:"intent,omitempty"`
	MatchScore         float64  `json:"match_score"`
	SuggestedQuestions []string `json:"suggested_questions,omitempty"`
}
