package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// frozenLimiter returns a limiter whose clock only moves when the test advances it.
func frozenLimiter(cfg *Config) (*Limiter, *time.Time) {
	l := NewLimiter(cfg)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_BurstThenDeny(t *testing.T) {
	l, _ := frozenLimiter(&Config{
		Enabled:   true,
		Endpoints: []EndpointConfig{{Path: "/api/getPokemon", Method: "POST", Limit: 60, Window: time.Minute, Burst: 3}},
	})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("10.0.0.1", "/api/getPokemon", "POST")
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if info.Limit != 60 {
			t.Errorf("Limit = %d, want 60", info.Limit)
		}
		if info.Remaining != 2-i {
			t.Errorf("request %d: Remaining = %d, want %d", i+1, info.Remaining, 2-i)
		}
	}

	allowed, info := l.Allow("10.0.0.1", "/api/getPokemon", "POST")
	if allowed {
		t.Fatal("4th request should be denied")
	}
	if info.RetryAfter <= 0 || info.RetryAfter > time.Second {
		t.Errorf("RetryAfter = %v, want (0, 1s]", info.RetryAfter)
	}
	if !info.ResetTime.After(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("reset time should be in the future")
	}
}

func TestLimiter_Refill(t *testing.T) {
	l, now := frozenLimiter(&Config{
		Enabled:   true,
		Endpoints: []EndpointConfig{{Path: "/x", Method: "GET", Limit: 60, Window: time.Minute, Burst: 1}},
	})
	defer l.Stop()

	if ok, _ := l.Allow("c", "/x", "GET"); !ok {
		t.Fatal("first request should be allowed")
	}
	if ok, _ := l.Allow("c", "/x", "GET"); ok {
		t.Fatal("second request should be denied")
	}

	*now = now.Add(time.Second)
	if ok, _ := l.Allow("c", "/x", "GET"); !ok {
		t.Error("request should be allowed after one token refills")
	}
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := frozenLimiter(&Config{
		Enabled:   true,
		Endpoints: []EndpointConfig{{Path: "/x", Method: "GET", Limit: 1, Window: time.Hour, Burst: 1}},
	})
	defer l.Stop()

	if ok, _ := l.Allow("a", "/x", "GET"); !ok {
		t.Fatal("client a should be allowed")
	}
	if ok, _ := l.Allow("b", "/x", "GET"); !ok {
		t.Fatal("client b has its own bucket")
	}
	if ok, _ := l.Allow("a", "/x", "GET"); ok {
		t.Fatal("client a should be throttled")
	}
}

func TestLimiter_DefaultLimit(t *testing.T) {
	l, _ := frozenLimiter(&Config{Enabled: true, DefaultLimit: 2, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 2; i++ {
		if ok, _ := l.Allow("c", "/anything", "GET"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if ok, _ := l.Allow("c", "/anything", "GET"); ok {
		t.Error("default limit should apply")
	}
}

func TestLimiter_UnmatchedPathsShareBucket(t *testing.T) {
	l, _ := frozenLimiter(&Config{Enabled: true, DefaultLimit: 2, DefaultWindow: time.Hour})
	defer l.Stop()

	for i, path := range []string{"/a1b2", "/c3d4", "/e5f6"} {
		ok, _ := l.Allow("c", path, "GET")
		if want := i < 2; ok != want {
			t.Fatalf("request %d to %s: allowed = %v, want %v", i+1, path, ok, want)
		}
	}
	if ok, _ := l.Allow("c", "/zzz", "POST"); ok {
		t.Error("other methods on unmatched paths should share the default bucket")
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestLimiter_PrefixRuleSharesBucket(t *testing.T) {
	l, _ := frozenLimiter(&Config{
		Enabled:   true,
		Endpoints: []EndpointConfig{{Path: "/static/", Method: "GET", Limit: 1, Window: time.Hour, Burst: 1}},
	})
	defer l.Stop()

	if ok, _ := l.Allow("c", "/static/one.js", "GET"); !ok {
		t.Fatal("first request should be allowed")
	}
	if ok, _ := l.Allow("c", "/static/two.css", "GET"); ok {
		t.Error("paths under one prefix rule should share a bucket")
	}
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1", l.Len())
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := frozenLimiter(&Config{Enabled: false, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		if ok, _ := l.Allow("c", "/x", "GET"); !ok {
			t.Fatal("disabled limiter must allow everything")
		}
	}
	if l.Len() != 0 {
		t.Errorf("disabled limiter created %d buckets", l.Len())
	}
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	l, _ := frozenLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
		Whitelist:     []string{"10.0.0.1"},
		Blacklist:     []string{"10.0.0.2"},
	})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		if ok, _ := l.Allow("10.0.0.1", "/x", "GET"); !ok {
			t.Fatal("whitelisted client must always be allowed")
		}
	}
	if ok, _ := l.Allow("10.0.0.2", "/x", "GET"); ok {
		t.Fatal("blacklisted client must be denied")
	}
}

func TestLimiter_HealthAndMetricsUnlimited(t *testing.T) {
	l, _ := frozenLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Hour})
	defer l.Stop()

	for _, path := range []string{"/health", "/metrics"} {
		for i := 0; i < 5; i++ {
			if ok, _ := l.Allow("c", path, "GET"); !ok {
				t.Fatalf("%s should be unlimited", path)
			}
		}
	}
}

func TestLimiter_CleanupDropsIdleBuckets(t *testing.T) {
	l, now := frozenLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, IdleTTL: time.Minute})
	defer l.Stop()

	l.Allow("a", "/x", "GET")
	*now = now.Add(2 * time.Minute)
	l.Allow("b", "/x", "GET")

	l.cleanupBuckets()
	if l.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after cleanup", l.Len())
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := frozenLimiter(&Config{
		Enabled:   true,
		Endpoints: []EndpointConfig{{Path: "/x", Method: "POST", Limit: 50, Window: time.Hour, Burst: 50}},
	})
	defer l.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/x", "POST"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Errorf("allowed = %d, want 50", allowed)
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	l := NewLimiter(nil)
	l.Stop()
	l.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/api/getPokemon", Method: "POST", Limit: 30},
		{Path: "/api/", Method: "GET", Limit: 100},
	}

	tests := []struct {
		path, method string
		wantLimit    int
		wantNil      bool
	}{
		{"/api/getPokemon", "POST", 30, false},
		{"/api/anything", "GET", 100, false},
		{"/api/getPokemon", "GET", 100, false},
		{"/health", "GET", 0, false},
		{"/metrics", "GET", 0, false},
		{"/other", "POST", 0, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("expected no match, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a match")
			}
			if got.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", got.Limit, tt.wantLimit)
			}
		})
	}
}

func TestParseList(t *testing.T) {
	got := ParseList(" 10.0.0.1, ,10.0.0.2 ")
	if len(got) != 2 || got[0] != "10.0.0.1" || got[1] != "10.0.0.2" {
		t.Errorf("ParseList() = %v", got)
	}
	if ParseList("") != nil {
		t.Error("empty list should be nil")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.Enabled {
		t.Error("rate limiting should be enabled by default")
	}
	ec := MatchEndpoint("/api/getPokemon", "POST", cfg.Endpoints)
	if ec == nil || ec.Limit != 30 || ec.Burst != 5 {
		t.Errorf("unexpected fortune endpoint config: %+v", ec)
	}
}
