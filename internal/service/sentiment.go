package service

import (
	"strings"

	"github.com/noah-isme/campus-events-api/internal/models"
)

// SentimentPolicyVersion identifies the lexicon below. Bump it whenever a word list changes.
const SentimentPolicyVersion = "lexicon-v1"

var (
	positiveWords = []string{"good", "great", "excellent", "amazing", "fantastic", "love", "awesome", "perfect", "wonderful"}
	negativeWords = []string{"bad", "terrible", "awful", "hate", "worst", "horrible", "disappointing", "poor"}
)

// ClassifySentiment labels a feedback comment by counting lexicon words it contains.
// Matching is case-insensitive and substring based, so "loved" counts as "love".
// Each word counts once regardless of repetition. Ties, including no matches, are neutral.
func ClassifySentiment(comment string) models.Sentiment {
	text := strings.ToLower(strings.TrimSpace(comment))
	if text == "" {
		return models.SentimentNeutral
	}
	positive := countMatches(text, positiveWords)
	negative := countMatches(text, negativeWords)
	switch {
	case positive > negative:
		return models.SentimentPositive
	case negative > positive:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func countMatches(text string, words []string) int {
	count := 0
	for _, word := range words {
		if strings.Contains(text, word) {
			count++
		}
	}
	return count
}
