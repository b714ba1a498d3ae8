package ratelimit

import (
	"sync"
	"time"
)

const (
	ActionSendMessage       = "send_message"
	ActionStartConversation = "start_conversation"
	ActionTyping            = "typing"
	ActionAuth              = "auth"
)

// Policy describes one bucket: Burst tokens, refilled by one every Interval.
type Policy struct {
	Burst    int
	Interval time.Duration
}

// DefaultPolicies are the per-action limits used by the API.
var DefaultPolicies = map[string]Policy{
	ActionSendMessage:       {Burst: 10, Interval: 6 * time.Second},  // 10 per minute
	ActionStartConversation: {Burst: 20, Interval: 3 * time.Minute},  // 20 per hour
	ActionTyping:            {Burst: 30, Interval: 2 * time.Second},  // 30 per minute
	ActionAuth:              {Burst: 10, Interval: 30 * time.Second}, // 10, then 2 per minute
}

var defaultPolicy = Policy{Burst: 20, Interval: 3 * time.Second}

// TokenBucket represents a token bucket for rate limiting
type TokenBucket struct {
	tokens     int
	maxTokens  int
	refillTime time.Duration
	lastRefill time.Time
	lastUsed   time.Time
	mutex      sync.Mutex
}

// RateLimiter manages rate limiting for different subjects and actions
type RateLimiter struct {
	policies map[string]Policy
	buckets  map[string]*TokenBucket
	mutex    sync.RWMutex

	stop     chan struct{}
	stopOnce sync.Once
}

// NewRateLimiter creates a rate limiter. Actions missing from policies fall
// back to DefaultPolicies, then to 20 per minute.
func NewRateLimiter(policies map[string]Policy) *RateLimiter {
	merged := make(map[string]Policy, len(DefaultPolicies)+len(policies))
	for action, p := range DefaultPolicies {
		merged[action] = p
	}
	for action, p := range policies {
		merged[action] = p
	}
	return &RateLimiter{
		policies: merged,
		buckets:  make(map[string]*TokenBucket),
		stop:     make(chan struct{}),
	}
}

func NewTokenBucket(maxTokens int, refillTime time.Duration) *TokenBucket {
	now := time.Now()
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillTime: refillTime,
		lastRefill: now,
		lastUsed:   now,
	}
}

// Allow consumes a token if one is available. Otherwise it reports how long
// until the next token.
func (tb *TokenBucket) Allow() (bool, time.Duration) {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()

	now := time.Now()
	tb.lastUsed = now

	if elapsed := now.Sub(tb.lastRefill); elapsed >= tb.refillTime {
		refills := int(elapsed / tb.refillTime)
		tb.tokens += refills
		if tb.tokens > tb.maxTokens {
			tb.tokens = tb.maxTokens
		}
		tb.lastRefill = tb.lastRefill.Add(time.Duration(refills) * tb.refillTime)
	}

	if tb.tokens > 0 {
		tb.tokens--
		return true, 0
	}

	return false, tb.lastRefill.Add(tb.refillTime).Sub(now)
}

func (tb *TokenBucket) GetTokens() int {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()
	return tb.tokens
}

func (tb *TokenBucket) idleSince() time.Time {
	tb.mutex.Lock()
	defer tb.mutex.Unlock()
	return tb.lastUsed
}

// Allow checks if subject (a user id or client IP) may perform action.
func (rl *RateLimiter) Allow(subject, action string) (bool, time.Duration) {
	key := subject + ":" + action

	rl.mutex.RLock()
	bucket, exists := rl.buckets[key]
	rl.mutex.RUnlock()

	if !exists {
		rl.mutex.Lock()
		if bucket, exists = rl.buckets[key]; !exists {
			policy, ok := rl.policies[action]
			if !ok {
				policy = defaultPolicy
			}
			bucket = NewTokenBucket(policy.Burst, policy.Interval)
			rl.buckets[key] = bucket
		}
		rl.mutex.Unlock()
	}

	return bucket.Allow()
}

// GetStatus returns the remaining and maximum tokens for subject and action.
func (rl *RateLimiter) GetStatus(subject, action string) (tokens int, maxTokens int) {
	rl.mutex.RLock()
	bucket, exists := rl.buckets[subject+":"+action]
	rl.mutex.RUnlock()

	if !exists {
		return 0, 0
	}
	return bucket.GetTokens(), bucket.maxTokens
}

// Cleanup removes buckets idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	for key, bucket := range rl.buckets {
		if now.Sub(bucket.idleSince()) > maxIdle {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanupRoutine runs Cleanup every interval until Stop is called.
func (rl *RateLimiter) StartCleanupRoutine(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			case <-rl.stop:
				return
			}
		}
	}()
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}
