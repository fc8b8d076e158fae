package feedback

import (
	"sort"
	"testing"
)

func TestSentiment(t *testing.T) {
	cases := []struct {
		name     string
		comment  string
		rating   int32
		expected string
	}{
		{
			name:     "positive with strong rating",
			comment:  "Great service and fast kitchen",
			rating:   5,
			expected: "positive",
		},
		{
			name:     "negative due to keywords",
			comment:  "Slow and cold food",
			rating:   5,
			expected: "negative",
		},
		{
			name:     "negative due to low rating",
			comment:  "Fine I guess",
			rating:   2,
			expected: "negative",
		},
		{
			name:     "mixed comment leans negative",
			comment:  "Great taste but slow service",
			rating:   4,
			expected: "negative",
		},
		{
			name:     "neutral fallback",
			comment:  "Average experience",
			rating:   3,
			expected: "neutral",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sentiment(tc.comment, tc.rating); got != tc.expected {
				t.Fatalf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestTags(t *testing.T) {
	comment := "Friendly staff and fast kitchen, tasty food in a clean and cozy room"
	got := Tags(comment)
	expected := []string{"service", "speed", "food", "cleanliness", "ambience"}

	sort.Strings(got)
	sort.Strings(expected)

	if len(got) != len(expected) {
		t.Fatalf("expected %d tags, got %d: %v", len(expected), len(got), got)
	}
	for i, value := range expected {
		if got[i] != value {
			t.Fatalf("expected tag %s, got %s", value, got[i])
		}
	}

	if empty := Tags(""); len(empty) != 0 {
		t.Fatalf("expected no tags for empty comment")
	}
}
