// internal/models/faq.go
package models

// KnowledgeRow is one entry of the FAQ knowledge base: an intent with its
// example questions and tags, paired with a canned answer. Rows arrive from
// an external FAQ source and are never mutated by the matching engine.
type KnowledgeRow struct {
	ID               string   `json:"id,omitempty" db:"id"`
	Intent           string   `json:"intent,omitempty" db:"intent"`
	QuestionExamples []string `json:"question_examples,omitempty" db:"question_examples"`
	Tags             []string `json:"tags,omitempty" db:"tags"`
	Answer           string   `json:"answer,omitempty" db:"answer"`
}

// FirstExample returns the first example question, falling back to the
// intent name when the row has none. Used to build suggestion lists.
func (r KnowledgeRow) FirstExample() string {
	if len(r.QuestionExamples) > 0 && r.QuestionExamples[0] != "" {
		return r.QuestionExamples[0]
	}
	return r.Intent
}
