package feedback

import "strings"

var positiveWords = []string{
	"good", "great", "excellent", "amazing", "love", "friendly", "fast", "quick",
	"tasty", "delicious", "nice", "satisfied", "recommended", "recommend", "fresh", "cozy",
}

var negativeWords = []string{
	"bad", "slow", "cold", "rude", "burnt", "dirty", "expensive", "small", "poor",
	"not good", "delay", "overpriced", "noisy", "stale", "salty", "waited", "waiting",
}

var tagKeywords = map[string][]string{
	"service":     {"service", "staff", "waiter", "waitress", "server", "host"},
	"food":        {"food", "taste", "flavor", "tasty", "delicious", "dish", "meal"},
	"price":       {"price", "expensive", "cheap", "value", "overpriced"},
	"portion":     {"portion", "small", "huge", "serving"},
	"cleanliness": {"clean", "dirty", "hygiene"},
	"ambience":    {"ambience", "atmosphere", "music", "noisy", "cozy", "decor"},
	"speed":       {"fast", "quick", "slow", "delay", "waited", "waiting"},
}

// Sentiment classifies a comment against the star rating. Any negative
// keyword wins over positive ones.
func Sentiment(comment string, rating int32) string {
	text := strings.ToLower(comment)
	hasPositive := containsAny(text, positiveWords)
	hasNegative := containsAny(text, negativeWords)

	if rating >= 4 && hasPositive && !hasNegative {
		return "positive"
	}
	if rating <= 2 || hasNegative {
		return "negative"
	}
	return "neutral"
}

func Tags(comment string) []string {
	text := strings.ToLower(comment)
	tags := make([]string, 0)
	for tag, keywords := range tagKeywords {
		if containsAny(text, keywords) {
			tags = append(tags, tag)
		}
	}
	return tags
}

func containsAny(text string, values []string) bool {
	for _, value := range values {
		if strings.Contains(text, value) {
			return true
		}
	}
	return false
}
