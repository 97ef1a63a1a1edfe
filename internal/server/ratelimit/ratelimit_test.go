package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func TestTokenBucket_Take(t *testing.T) {
	clk := newFakeClock()
	bucket := newTokenBucket(10, 1.0, clk.Now)

	// Should allow 10 requests immediately (burst)
	for i := 0; i < 10; i++ {
		if ok, _, _ := bucket.take(); !ok {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}

	if ok, _, _ := bucket.take(); ok {
		t.Error("Expected 11th request to be denied")
	}
}

func TestTokenBucket_Refill(t *testing.T) {
	clk := newFakeClock()
	bucket := newTokenBucket(10, 1.0, clk.Now)

	for i := 0; i < 10; i++ {
		bucket.take()
	}

	clk.Advance(time.Second)
	if ok, _, _ := bucket.take(); !ok {
		t.Error("Expected request to be allowed after refill")
	}
	if ok, _, _ := bucket.take(); ok {
		t.Error("Expected request to be denied after consuming refilled token")
	}

	// Refill never exceeds capacity
	clk.Advance(time.Hour)
	_, remaining, _ := bucket.take()
	if remaining != 9 {
		t.Errorf("Expected 9 remaining after a long idle, got %d", remaining)
	}
}

func TestTokenBucket_Status(t *testing.T) {
	clk := newFakeClock()
	bucket := newTokenBucket(10, 1.0, clk.Now)

	var remaining int
	var reset time.Time
	for i := 0; i < 5; i++ {
		_, remaining, reset = bucket.take()
	}

	if remaining != 5 {
		t.Errorf("Expected 5 remaining tokens, got %d", remaining)
	}
	if want := clk.Now().Add(5 * time.Second); !reset.Equal(want) {
		t.Errorf("Expected reset at %v, got %v", want, reset)
	}
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/about", "GET")
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if info.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", info.Limit)
		}
		if info.Remaining != 9-i {
			t.Errorf("Expected remaining %d, got %d", 9-i, info.Remaining)
		}
	}

	allowed, info := limiter.Allow("127.0.0.1", "/about", "GET")
	if allowed {
		t.Error("Expected 11th request to be denied")
	}
	if info.RetryAfter <= 0 {
		t.Error("Expected retry after to be positive")
	}
}

func TestLimiter_DefaultBucketSharedAcrossPages(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 2, DefaultWindow: time.Minute})
	defer limiter.Stop()

	limiter.Allow("10.0.0.1", "/", "GET")
	limiter.Allow("10.0.0.1", "/about", "GET")
	if allowed, _ := limiter.Allow("10.0.0.1", "/projects", "GET"); allowed {
		t.Error("Expected pages to draw from one default bucket")
	}
	if allowed, _ := limiter.Allow("10.0.0.2", "/projects", "GET"); !allowed {
		t.Error("Expected another client to have its own bucket")
	}
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
		Blacklist:     map[string]bool{"10.0.0.66": true},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if allowed, _ := limiter.Allow("10.0.0.1", "/", "GET"); !allowed {
			t.Errorf("Expected whitelisted request %d to be allowed", i+1)
		}
	}
	if allowed, _ := limiter.Allow("10.0.0.66", "/", "GET"); allowed {
		t.Error("Expected blacklisted client to be denied")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false, DefaultLimit: 1})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		if allowed, _ := limiter.Allow("127.0.0.1", "/", "GET"); !allowed {
			t.Errorf("Expected request %d to be allowed when disabled", i+1)
		}
	}
}

func TestLimiter_EndpointTiers(t *testing.T) {
	limiter := NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer limiter.Stop()

	// Downloads share one bucket across projects and images (burst 5)
	for i := 0; i < 5; i++ {
		path := fmt.Sprintf("/project/%d/images/%d/download", i%2+1, i+1)
		if allowed, _ := limiter.Allow("127.0.0.1", path, "GET"); !allowed {
			t.Errorf("Expected download %d to be allowed", i+1)
		}
	}
	if allowed, info := limiter.Allow("127.0.0.1", "/project/3/images/1/download", "GET"); allowed || info.Limit != 30 {
		t.Errorf("Expected 6th download to be denied with limit 30, got allowed=%v limit=%d", allowed, info.Limit)
	}

	// Pages are unaffected
	if allowed, _ := limiter.Allow("127.0.0.1", "/projects", "GET"); !allowed {
		t.Error("Expected page request to use the default tier")
	}

	// Health and assets are unlimited
	for i := 0; i < 2000; i++ {
		if allowed, _ := limiter.Allow("127.0.0.1", "/health", "GET"); !allowed {
			t.Fatal("Expected health check to be unlimited")
		}
		if allowed, _ := limiter.Allow("127.0.0.1", "/assets/app.css", "GET"); !allowed {
			t.Fatal("Expected assets to be unlimited")
		}
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		path, method string
		want         string
	}{
		{"/project/4/images/2/download", "GET", "/project/*/images/*/download"},
		{"/api/projects/4/images/2/theme", "GET", "/api/projects/*/images/*/theme"},
		{"/api/projects/4", "GET", "/api/"},
		{"/assets/img/a.png", "GET", "/assets/"},
		{"/health", "GET", "/health"},
		{"/project//images/2/download", "GET", ""},
		{"/project/4", "GET", ""},
		{"/api/projects", "POST", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.want == "" {
				if got != nil {
					t.Errorf("Expected no match, got %q", got.Pattern)
				}
				return
			}
			if got == nil || got.Pattern != tt.want {
				t.Errorf("Expected %q, got %+v", tt.want, got)
			}
		})
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 100, DefaultWindow: time.Minute})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := limiter.Allow("127.0.0.1", "/", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowedCount != 100 {
		t.Errorf("Expected exactly 100 allowed requests, got %d", allowedCount)
	}
}

func TestLimiter_CleanupDropsIdleBuckets(t *testing.T) {
	clk := newFakeClock()
	limiter := newLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		IdleTTL:       time.Hour,
	}, clk.Now)
	defer limiter.Stop()

	limiter.Allow("10.0.0.1", "/", "GET")
	clk.Advance(30 * time.Minute)
	limiter.Allow("10.0.0.2", "/", "GET")

	if n := limiter.cleanupBuckets(); n != 0 {
		t.Errorf("Expected nothing removed yet, got %d", n)
	}

	clk.Advance(45 * time.Minute)
	if n := limiter.cleanupBuckets(); n != 1 {
		t.Errorf("Expected 1 idle bucket removed, got %d", n)
	}
	if limiter.Len() != 1 {
		t.Errorf("Expected 1 bucket left, got %d", limiter.Len())
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	limiter.Stop()
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")

	cfg := LoadConfig()
	if !cfg.Enabled || cfg.DefaultLimit != 42 {
		t.Errorf("Unexpected config: %+v", cfg)
	}
	if !cfg.Whitelist["10.0.0.2"] {
		t.Error("Expected whitelist to be parsed")
	}

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	if LoadConfig().Enabled {
		t.Error("Expected rate limiting to be disabled")
	}
}
