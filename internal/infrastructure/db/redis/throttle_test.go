package redis

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestResetThrottle_Defaults(t *testing.T) {
	th := NewResetThrottle(redis.NewClient(&redis.Options{}), 0, 0)

	assert.Equal(t, int64(defaultThrottleLimit), th.limit)
	assert.Equal(t, defaultThrottleWindow, th.window)
}

func TestResetThrottle_KeyHidesEmail(t *testing.T) {
	th := NewResetThrottle(redis.NewClient(&redis.Options{}), 3, time.Minute)

	k := th.key("ada@example.com")
	assert.NotContains(t, k, "ada")
	assert.Equal(t, len("reset:throttle:")+64, len(k))
	assert.Equal(t, k, th.key("ada@example.com"))
	assert.NotEqual(t, k, th.key("grace@example.com"))
}
