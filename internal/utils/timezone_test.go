package utils

import (
	"testing"
	"time"
)

func TestLoadLocationFallsBackToUTC(t *testing.T) {
	if got := LoadLocation(""); got != time.UTC {
		t.Fatalf("expected UTC for empty zone, got %s", got)
	}
	if got := LoadLocation("Mars/Olympus_Mons"); got != time.UTC {
		t.Fatalf("expected UTC for unknown zone, got %s", got)
	}
}
