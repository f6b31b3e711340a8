package metadata_cache

import (
	"testing"
	"time"

	"github.com/AngelinaFiera614/wrenchmark-sub010/models"
)

func TestCacheExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := New(time.Minute)
	c.now = func() time.Time { return now }

	if _, ok := c.Get(); ok {
		t.Fatal("expected empty cache")
	}

	md := &models.FilterMetadata{Manufacturers: []models.ManufacturerData{{Name: "Honda"}}}
	c.Set(md)
	if got, ok := c.Get(); !ok || got != md {
		t.Fatal("expected cached metadata")
	}

	now = now.Add(time.Minute)
	if _, ok := c.Get(); ok {
		t.Fatal("expected entry to expire after TTL")
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := New(0)
	c.Set(&models.FilterMetadata{})
	c.Invalidate()
	if _, ok := c.Get(); ok {
		t.Fatal("expected invalidated cache to miss")
	}
}
