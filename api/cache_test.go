package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseCache_HitWithinTTL(t *testing.T) {
	current := time.Now()
	cache := newResponseCache(10 * time.Second)
	cache.now = func() time.Time { return current }

	cache.set("/posts?page=1", []byte(`{"posts":[]}`))

	body, ok := cache.get("/posts?page=1")
	require.True(t, ok)
	assert.Equal(t, `{"posts":[]}`, string(body))
}

func TestResponseCache_ExpiresAfterTTL(t *testing.T) {
	current := time.Now()
	cache := newResponseCache(10 * time.Second)
	cache.now = func() time.Time { return current }

	cache.set("/posts", []byte(`{}`))

	current = current.Add(11 * time.Second)
	_, ok := cache.get("/posts")
	assert.False(t, ok)
}

func TestResponseCache_KeyedByFullURL(t *testing.T) {
	cache := newResponseCache(10 * time.Second)
	cache.set("/posts?page=1", []byte(`one`))
	cache.set("/posts?page=2", []byte(`two`))

	body, ok := cache.get("/posts?page=2")
	require.True(t, ok)
	assert.Equal(t, "two", string(body))
}

func TestResponseCache_SweepsExpiredOnWrite(t *testing.T) {
	current := time.Now()
	cache := newResponseCache(10 * time.Second)
	cache.now = func() time.Time { return current }

	cache.set("/posts?old=1", []byte(`old`))
	current = current.Add(11 * time.Second)
	cache.set("/posts?new=1", []byte(`new`))

	cache.mu.Lock()
	defer cache.mu.Unlock()
	assert.Len(t, cache.entries, 1)
}
