package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 10, cfg.MaxAttempts)
	assert.Equal(t, time.Second, cfg.InitialDelay)
	assert.Equal(t, 60*time.Second, cfg.MaxDelay)
	assert.Equal(t, 2.0, cfg.Multiplier)
	assert.Equal(t, 0.1, cfg.Jitter)
}

func TestAgentConfig(t *testing.T) {
	cfg := AgentConfig()
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Delay(0))
	assert.Equal(t, 2*time.Second, cfg.Delay(1))
	assert.Equal(t, 3*time.Second, cfg.Delay(2))
	assert.Equal(t, 4*time.Second, cfg.Delay(3))
	assert.Equal(t, 5*time.Second, cfg.Delay(4))
	assert.Equal(t, 5*time.Second, cfg.Delay(10))
}

func TestDisabled(t *testing.T) {
	cfg := Disabled()
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 1, Config{}.Attempts())
	assert.Equal(t, 1, Config{MaxAttempts: -3}.Attempts())
}

func TestConfigDelay(t *testing.T) {
	cfg := Config{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Multiplier:   2.0,
		Jitter:       0, // No jitter for deterministic test
	}

	assert.Equal(t, 100*time.Millisecond, cfg.Delay(0))
	assert.Equal(t, 200*time.Millisecond, cfg.Delay(1))
	assert.Equal(t, 400*time.Millisecond, cfg.Delay(2))
	assert.Equal(t, 800*time.Millisecond, cfg.Delay(3))
	assert.Equal(t, 100*time.Millisecond, cfg.Delay(-1))
}

func TestConfigDelayMaxCap(t *testing.T) {
	cfg := Config{
		InitialDelay: time.Second,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}

	// 1s * 2^10 = 1024s, but capped at 5s
	assert.Equal(t, 5*time.Second, cfg.Delay(10))
}

func TestConfigDelayZeroMultiplier(t *testing.T) {
	cfg := Config{InitialDelay: 10 * time.Millisecond, Increment: 5 * time.Millisecond}
	assert.Equal(t, 10*time.Millisecond, cfg.Delay(0))
	assert.Equal(t, 25*time.Millisecond, cfg.Delay(3))
}

func TestConfigDelayJitter(t *testing.T) {
	cfg := Config{
		InitialDelay: time.Second,
		MaxDelay:     time.Minute,
		Multiplier:   1.0,
		Jitter:       0.1,
	}

	for range 50 {
		d := cfg.Delay(0)
		assert.GreaterOrEqual(t, d, 900*time.Millisecond)
		assert.LessOrEqual(t, d, 1100*time.Millisecond)
	}
}
