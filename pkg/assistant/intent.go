// Package assistant implements the rule-based support assistant: keyword
// intent classification, FAQ lookup, escalation rules and the response
// decision table. Everything here is pure and deterministic; there is no
// generative model behind it.
package assistant

import (
	"strings"

	"github.com/samber/lo"
)

type Intent string

const (
	INTENT_BOOKING Intent = "booking"
	INTENT_LISTING Intent = "listing"
	INTENT_ACCOUNT Intent = "account"
	INTENT_BILLING Intent = "billing"
	INTENT_SUPPORT Intent = "support"
	INTENT_GENERAL Intent = "general"
)

const (
	// GENERAL_CONFIDENCE is reported when no keyword table matches.
	GENERAL_CONFIDENCE = 0.5
	// MATCHED_CONFIDENCE_FLOOR keeps a matched intent out of the
	// low-confidence escalation band even when the keyword table is large
	// and only one keyword hit.
	MATCHED_CONFIDENCE_FLOOR = 0.6
)

type Classification struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

type Classifier interface {
	Classify(text string) Classification
}

type intentRule struct {
	intent   Intent
	base     float64
	keywords []string
}

// Iteration order doubles as the tie-break: the first rule reaching the
// max score wins.
var intentRules = []intentRule{
	{INTENT_BOOKING, 0.9, []string{"book", "rent", "reserve", "hire", "borrow", "rental", "reservation"}},
	{INTENT_LISTING, 0.9, []string{"list", "sell", "offer", "rent out", "create listing", "add item"}},
	{INTENT_ACCOUNT, 0.8, []string{"account", "profile", "login", "password", "verification", "settings"}},
	{INTENT_BILLING, 0.9, []string{"payment", "pay", "money", "fee", "charge", "refund", "billing"}},
	{INTENT_SUPPORT, 0.7, []string{"help", "support", "problem", "issue", "question", "how to"}},
}

type KeywordClassifier struct{}

func NewKeywordClassifier() KeywordClassifier {
	return KeywordClassifier{}
}

// Classify scores the text against each intent's keyword table, keeping
// the highest base × matched/total score. Never errors; unmatched text is
// classified as general.
func (KeywordClassifier) Classify(text string) Classification {
	lower := strings.ToLower(text)

	result := Classification{Intent: INTENT_GENERAL, Confidence: GENERAL_CONFIDENCE}
	bestScore := float64(0)
	for _, rule := range intentRules {
		matched := lo.CountBy(rule.keywords, func(keyword string) bool {
			return strings.Contains(lower, keyword)
		})
		if matched == 0 {
			continue
		}
		score := rule.base * float64(matched) / float64(len(rule.keywords))
		if score > bestScore {
			bestScore = score
			result.Intent = rule.intent
			result.Confidence = max(score, MATCHED_CONFIDENCE_FLOOR)
		}
	}
	return result
}
