// internal/matching/matcher.go
package matching

import (
	"sort"

	"wozo-chatbot/internal/models"
)

// ScoredRow pairs a knowledge row with its relevance score for one query.
type ScoredRow struct {
	Score float64
	Row   *models.KnowledgeRow
}

// MatchResult is the outcome of matching one query against a knowledge base:
// the best-scoring row (nil when nothing scored above zero) and the full
// list ranked by score descending.
type MatchResult struct {
	Best   ScoredRow
	Ranked []ScoredRow
}

// Found reports whether the best candidate clears the given threshold.
// A zero score never qualifies, even when it is the maximum.
func (r MatchResult) Found(threshold float64) bool {
	return r.Best.Row != nil && r.Best.Score >= threshold
}

// Match tokenizes the query once and scores every row with ScoreRow. The
// running best is replaced only on a strictly greater score, so ties keep
// the earliest row and results are deterministic for a given row order.
// The ranked list preserves input order between equal scores (stable sort).
// Rows are not mutated; an empty knowledge base yields a nil best row.
func Match(query string, rows []models.KnowledgeRow) MatchResult {
	queryTokens := Tokenize(query)

	best := ScoredRow{}
	ranked := make([]ScoredRow, 0, len(rows))
	for i := range rows {
		scored := ScoredRow{Score: ScoreRow(queryTokens, rows[i]), Row: &rows[i]}
		ranked = append(ranked, scored)
		if scored.Score > best.Score {
			best = scored
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return MatchResult{Best: best, Ranked: ranked}
}
