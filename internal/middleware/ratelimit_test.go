package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllow_BlocksOverLimit(t *testing.T) {
	rl := &RateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   3,
		window:  time.Minute,
	}

	now := time.Now()
	for i := 1; i <= 3; i++ {
		if !rl.allow("10.0.0.1", now) {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	if rl.allow("10.0.0.1", now) {
		t.Error("request over the limit should be blocked")
	}
}

func TestRateLimiterAllow_IndependentClients(t *testing.T) {
	rl := &RateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   1,
		window:  time.Minute,
	}

	now := time.Now()
	if !rl.allow("10.0.0.1", now) {
		t.Fatal("first client should be allowed")
	}
	if !rl.allow("10.0.0.2", now) {
		t.Error("a different client should not share the first client's count")
	}
}

func TestRateLimiterAllow_IdleWindowResets(t *testing.T) {
	rl := &RateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   1,
		window:  time.Minute,
	}

	start := time.Now()
	rl.allow("10.0.0.1", start)
	if rl.allow("10.0.0.1", start.Add(time.Second)) {
		t.Fatal("second request inside the window should be blocked")
	}

	if !rl.allow("10.0.0.1", start.Add(2*time.Minute)) {
		t.Error("a client idle past the window should get a fresh count")
	}
}
