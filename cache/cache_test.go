package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache

	var out map[string]int
	assert.False(t, c.GetJSON("explore:posts:1:10", &out))

	// must not panic
	c.SetJSON("explore:posts:1:10", map[string]int{"a": 1}, time.Minute)
}

func TestNewWithoutAddr(t *testing.T) {
	assert.Nil(t, New("", zap.NewNop()))
}

func TestNewWithAddr(t *testing.T) {
	c := New("localhost:11211", zap.NewNop())
	assert.NotNil(t, c)
}
