package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketRefill(t *testing.T) {
	tb := NewTokenBucket(2, 20*time.Millisecond)

	ok, _ := tb.Allow()
	assert.True(t, ok)
	ok, _ = tb.Allow()
	assert.True(t, ok)

	ok, wait := tb.Allow()
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))
	assert.LessOrEqual(t, wait, 20*time.Millisecond)

	time.Sleep(25 * time.Millisecond)
	ok, _ = tb.Allow()
	assert.True(t, ok)
}

func TestRateLimiterPerSubjectAndAction(t *testing.T) {
	rl := NewRateLimiter(map[string]Policy{
		ActionSendMessage: {Burst: 1, Interval: time.Hour},
	})
	defer rl.Stop()

	ok, _ := rl.Allow("1", ActionSendMessage)
	assert.True(t, ok)
	ok, wait := rl.Allow("1", ActionSendMessage)
	assert.False(t, ok)
	assert.Greater(t, wait, 59*time.Minute)

	ok, _ = rl.Allow("2", ActionSendMessage)
	assert.True(t, ok, "buckets are per subject")

	ok, _ = rl.Allow("1", ActionTyping)
	assert.True(t, ok, "buckets are per action")

	tokens, maxTokens := rl.GetStatus("1", ActionTyping)
	assert.Equal(t, DefaultPolicies[ActionTyping].Burst-1, tokens)
	assert.Equal(t, DefaultPolicies[ActionTyping].Burst, maxTokens)
}

func TestRateLimiterUnknownActionUsesDefault(t *testing.T) {
	rl := NewRateLimiter(nil)
	defer rl.Stop()

	for i := 0; i < defaultPolicy.Burst; i++ {
		ok, _ := rl.Allow("ip", "search")
		assert.True(t, ok)
	}
	ok, _ := rl.Allow("ip", "search")
	assert.False(t, ok)
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(nil)
	defer rl.Stop()

	rl.Allow("1", ActionAuth)
	time.Sleep(5 * time.Millisecond)
	rl.Cleanup(time.Millisecond)

	tokens, maxTokens := rl.GetStatus("1", ActionAuth)
	assert.Zero(t, tokens)
	assert.Zero(t, maxTokens)

	rl.Stop()
	rl.Stop()
}
