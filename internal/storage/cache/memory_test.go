package cache

import (
	"testing"
	"time"
)

func TestMemoryPutGet(t *testing.T) {
	m := NewMemory()

	if err := m.Put("key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, ok := m.Get("key")
	if !ok {
		t.Fatal("expected hit")
	}
	if string(got) != "value" {
		t.Errorf("expected value, got %q", got)
	}

	if _, ok := m.Get("missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	now := time.Now()
	m.now = func() time.Time { return now }

	if err := m.Put("key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if _, ok := m.Get("key"); !ok {
		t.Fatal("expected hit before expiry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := m.Get("key"); ok {
		t.Error("expected miss after expiry")
	}
}

func TestMemoryNonPositiveTTL(t *testing.T) {
	m := NewMemory()

	if err := m.Put("key", []byte("value"), 0); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if _, ok := m.Get("key"); ok {
		t.Error("non-positive ttl must not store")
	}
}

func TestMemoryCopiesValue(t *testing.T) {
	m := NewMemory()
	buf := []byte("original")

	if err := m.Put("key", buf, time.Minute); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	buf[0] = 'X'

	got, _ := m.Get("key")
	if string(got) != "original" {
		t.Errorf("stored value must be isolated from caller mutation, got %q", got)
	}
}

func TestMemoryClear(t *testing.T) {
	m := NewMemory()
	m.Put("a", []byte("1"), time.Minute)
	m.Put("b", []byte("2"), time.Minute)

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if _, ok := m.Get("a"); ok {
		t.Error("expected empty cache after Clear")
	}
}
