// internal/matching/scorer.go
package matching

import (
	"strings"

	"wozo-chatbot/internal/models"
)

// Score weights: an exact token hit is worth twice a partial overlap, which
// absorbs minor inflection and compounding without a stemmer.
const (
	exactMatchWeight     = 1.0
	substringMatchWeight = 0.5
)

// ScoreRow computes the relevance of one knowledge row for an already
// tokenized query. The row's question examples, tags and intent are joined
// in that order and tokenized with the same tokenizer. Each query token
// contributes 1.0 per verbatim occurrence in the row tokens (a word that
// appears in an example, a tag and the intent counts three times), else 0.5
// for the first row token that contains it or is contained by it. Duplicate
// query tokens are counted individually. A row with no usable text scores 0.
func ScoreRow(queryTokens []string, row models.KnowledgeRow) float64 {
	if len(queryTokens) == 0 {
		return 0
	}

	combined := strings.Join(row.QuestionExamples, " ") + " " +
		strings.Join(row.Tags, " ") + " " + row.Intent
	rowTokens := Tokenize(combined)
	if len(rowTokens) == 0 {
		return 0
	}

	occurrences := make(map[string]int, len(rowTokens))
	for _, t := range rowTokens {
		occurrences[t]++
	}

	score := 0.0
	for _, qt := range queryTokens {
		if n := occurrences[qt]; n > 0 {
			score += exactMatchWeight * float64(n)
			continue
		}
		// First partial hit only: the scan short-circuits so overlapping
		// row tokens are not rewarded more than once per query token.
		for _, rt := range rowTokens {
			if strings.Contains(rt, qt) || strings.Contains(qt, rt) {
				score += substringMatchWeight
				break
			}
		}
	}
	return score
}
