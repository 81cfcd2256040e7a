// internal/matching/matcher_test.go
package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wozo-chatbot/internal/models"
)

func knowledgeBase() []models.KnowledgeRow {
	return []models.KnowledgeRow{
		{
			Intent:           "refund",
			QuestionExamples: []string{"How do I get a refund?"},
			Tags:             []string{"refund", "money"},
			Answer:           "Contact support.",
		},
		{
			Intent:           "shipping",
			QuestionExamples: []string{"Where is my order?"},
			Tags:             []string{"delivery"},
			Answer:           "Orders ship within two days.",
		},
		{
			Intent:           "hours",
			QuestionExamples: []string{"What are your opening hours?"},
			Tags:             []string{"opening", "hours"},
			Answer:           "We are open 9 to 5.",
		},
	}
}

// ==========================
// Best Selection
// ==========================

func TestMatch_PicksHighestScoringRow(t *testing.T) {
	rows := knowledgeBase()

	result := Match("I want a refund please", rows)

	// "refund" hits the example, a tag and the intent: 3 * 1.0
	assert.NotNil(t, result.Best.Row)
	assert.Equal(t, "refund", result.Best.Row.Intent)
	assert.Equal(t, 3.0, result.Best.Score)
}

func TestMatch_EmptyKnowledgeBase(t *testing.T) {
	result := Match("anything", nil)

	assert.Nil(t, result.Best.Row)
	assert.Equal(t, 0.0, result.Best.Score)
	assert.Empty(t, result.Ranked)
}

func TestMatch_AllZeroScoresLeaveBestNil(t *testing.T) {
	rows := knowledgeBase()

	result := Match("totally unrelated gibberish xyzzy", rows)

	assert.Nil(t, result.Best.Row)
	assert.Equal(t, 0.0, result.Best.Score)
	assert.Len(t, result.Ranked, len(rows))
}

func TestMatch_WhitespaceOnlyQuery(t *testing.T) {
	result := Match("   \t ", knowledgeBase())

	assert.Nil(t, result.Best.Row)
	assert.False(t, result.Found(0.5))
}

func TestMatch_TieKeepsEarliestRow(t *testing.T) {
	rows := []models.KnowledgeRow{
		{Intent: "alpha", Tags: []string{"blue"}},
		{Intent: "beta", Tags: []string{"blue"}},
	}

	result := Match("blue", rows)

	assert.NotNil(t, result.Best.Row)
	assert.Equal(t, "alpha", result.Best.Row.Intent)
}

func TestMatch_Deterministic(t *testing.T) {
	rows := knowledgeBase()
	query := "refund for my order delivery"

	first := Match(query, rows)
	second := Match(query, rows)

	assert.Equal(t, first.Best.Score, second.Best.Score)
	assert.Equal(t, first.Best.Row.Intent, second.Best.Row.Intent)
	for i := range first.Ranked {
		assert.Equal(t, first.Ranked[i].Score, second.Ranked[i].Score)
		assert.Equal(t, first.Ranked[i].Row.Intent, second.Ranked[i].Row.Intent)
	}
}

// ==========================
// Ranking
// ==========================

func TestMatch_RankedDescendingAndStable(t *testing.T) {
	rows := []models.KnowledgeRow{
		{Intent: "noise", Tags: []string{"unrelated"}},
		{Intent: "first-hit", Tags: []string{"billing"}},
		{Intent: "second-hit", Tags: []string{"billing"}},
	}

	result := Match("billing", rows)

	assert.Len(t, result.Ranked, 3)
	assert.Equal(t, "first-hit", result.Ranked[0].Row.Intent)
	assert.Equal(t, "second-hit", result.Ranked[1].Row.Intent)
	assert.Equal(t, "noise", result.Ranked[2].Row.Intent)
	for i := 1; i < len(result.Ranked); i++ {
		assert.GreaterOrEqual(t, result.Ranked[i-1].Score, result.Ranked[i].Score)
	}
}

func TestMatch_DoesNotMutateRows(t *testing.T) {
	rows := knowledgeBase()
	snapshot := knowledgeBase()

	Match("refund opening hours delivery", rows)

	assert.Equal(t, snapshot, rows)
}

// ==========================
// Threshold
// ==========================

func TestMatchResult_Found(t *testing.T) {
	rows := knowledgeBase()

	tests := []struct {
		name      string
		query     string
		threshold float64
		expected  bool
	}{
		{"score above threshold", "I want a refund please", 2, true},
		{"score exactly at threshold", "I want a refund please", 3, true},
		{"score below threshold", "delivery tracking", 2, false},
		{"no candidate at all", "xyzzy", 2, false},
		{"zero threshold still needs a positive hit", "xyzzy", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Match(tt.query, rows)
			assert.Equal(t, tt.expected, result.Found(tt.threshold))
		})
	}
}

func BenchmarkMatch(b *testing.B) {
	rows := knowledgeBase()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Match("I want a refund for my order", rows)
	}
}
