package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPLimitersEvictIdleClients(t *testing.T) {
	clock := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	l := newIPLimiters(5)
	l.now = func() time.Time { return clock }

	first := l.get("10.0.0.1")
	l.get("10.0.0.2")
	assert.Same(t, first, l.get("10.0.0.1"))
	assert.Equal(t, 2, l.size())

	clock = clock.Add(30 * time.Second)
	l.get("10.0.0.2")
	assert.Equal(t, 2, l.size())

	clock = clock.Add(45 * time.Second)
	l.get("10.0.0.3")
	assert.Equal(t, 2, l.size())
	_, kept := l.entries["10.0.0.1"]
	assert.False(t, kept)
	_, kept = l.entries["10.0.0.2"]
	assert.True(t, kept)
}

func TestIPLimitersKeepBurstPerClient(t *testing.T) {
	l := newIPLimiters(2)

	a := l.get("10.0.0.1")
	assert.True(t, a.Allow())
	assert.True(t, a.Allow())
	assert.False(t, a.Allow())
	assert.True(t, l.get("10.0.0.2").Allow())
}
