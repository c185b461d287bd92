package assistant

import (
	"strings"

	"github.com/leli-rentals/leli-assist/pkg/types"
	"github.com/samber/lo"
)

var escalationTriggers = []string{
	"urgent", "emergency", "asap", "immediately", "crisis",
	"angry", "frustrated", "terrible", "worst", "horrible",
	"complaint", "dispute", "damage", "broken", "stolen",
	"refund", "money back", "compensation", "lawyer", "legal",
}

const (
	longConversationThreshold = 15
	similarityRatio           = 0.6
	similarityMinWordLen      = 3
)

// ShouldEscalate decides whether a turn goes to a human: a trigger word in
// the message, low classifier confidence, a conversation running past 15
// messages, or the user repeating the same question.
func ShouldEscalate(text string, history []types.ChatMessage, c Classification) bool {
	lower := strings.ToLower(text)
	for _, trigger := range escalationTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}

	if c.Confidence < MATCHED_CONFIDENCE_FLOOR {
		return true
	}
	if len(history) > longConversationThreshold {
		return true
	}
	return hasRepeatedIssues(history)
}

// hasRepeatedIssues reports whether any two of the last three user
// messages are similar. Under three user messages there is nothing to
// compare.
func hasRepeatedIssues(history []types.ChatMessage) bool {
	userMessages := lo.Filter(history, func(msg types.ChatMessage, _ int) bool {
		return msg.Sender == types.MESSAGE_SENDER_USER
	})
	if len(userMessages) < 3 {
		return false
	}

	recent := lo.Map(userMessages[len(userMessages)-3:], func(msg types.ChatMessage, _ int) string {
		return strings.ToLower(msg.Content)
	})
	for i := 0; i < len(recent)-1; i++ {
		for j := i + 1; j < len(recent); j++ {
			if messagesAreSimilar(recent[i], recent[j]) {
				return true
			}
		}
	}
	return false
}

// messagesAreSimilar compares the words longer than three characters and
// requires the overlap to cover 60% of the shorter message's words.
func messagesAreSimilar(a, b string) bool {
	wordsA := significantWords(a)
	wordsB := significantWords(b)

	common := lo.CountBy(wordsA, func(word string) bool {
		return lo.Contains(wordsB, word)
	})
	return float64(common) >= float64(min(len(wordsA), len(wordsB)))*similarityRatio
}

func significantWords(text string) []string {
	return lo.Filter(strings.Split(text, " "), func(word string, _ int) bool {
		return len(word) > similarityMinWordLen
	})
}
