package storage

import (
	"regexp"
	"testing"
	"time"
)

func TestResolveKey(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		key  string
		ok   bool
	}{
		{name: "public url", raw: "https://cdn.example.com/menu/1/photo.jpg", key: "menu/1/photo.jpg", ok: true},
		{name: "path style", raw: "https://s3.example.com/restaurant/invoices/a.pdf", key: "invoices/a.pdf", ok: true},
		{name: "foreign host", raw: "https://elsewhere.example.com/other/a.pdf", ok: false},
		{name: "empty", raw: " ", ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key, ok := ResolveKey("https://cdn.example.com/", "restaurant", tc.raw)
			if ok != tc.ok || key != tc.key {
				t.Fatalf("expected (%q, %v), got (%q, %v)", tc.key, tc.ok, key, ok)
			}
		})
	}
}

func TestNewKey(t *testing.T) {
	now := time.Date(2024, 7, 4, 10, 0, 0, 0, time.UTC)
	key := NewKey("/menu/12/", ".jpg", now)
	pattern := regexp.MustCompile(`^menu/12/2024/07/[0-9a-f-]{36}\.jpg$`)
	if !pattern.MatchString(key) {
		t.Fatalf("unexpected key %s", key)
	}
	if NewKey("menu", "jpg", now) == NewKey("menu", "jpg", now) {
		t.Fatalf("keys must be unique")
	}
}

func TestConfigEnabled(t *testing.T) {
	if (Config{}).Enabled() {
		t.Fatalf("empty config must be disabled")
	}
	if !(Config{Endpoint: "minio:9000", Bucket: "restaurant"}).Enabled() {
		t.Fatalf("endpoint and bucket must enable the store")
	}
}
