package cache

import (
	"testing"
	"time"
)

func TestLRUCacheSetGet(t *testing.T) {
	c := NewLRUCache(2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)

	if v, ok := c.Get("a"); !ok || v.(int) != 1 {
		t.Fatalf("get a: %v %v", v, ok)
	}

	// "a" was just touched, so inserting "c" evicts "b".
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Fatal("least recently used entry must be evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("recently used entry must survive")
	}
	if c.Len() != 2 {
		t.Fatalf("want 2 entries, got %d", c.Len())
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	c := NewLRUCache(4, 5*time.Millisecond)
	c.Set("a", 1)
	time.Sleep(10 * time.Millisecond)

	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry must not be returned")
	}
}

func TestLRUCacheRefresh(t *testing.T) {
	c := NewLRUCache(4, time.Minute)
	c.Set("a", 1)
	c.Set("a", 2)

	if v, _ := c.Get("a"); v.(int) != 2 {
		t.Fatalf("set must overwrite: %v", v)
	}
	if c.Len() != 1 {
		t.Fatalf("overwrite must not grow the cache: %d", c.Len())
	}
}

func TestHashKeyStable(t *testing.T) {
	if HashKey("romantic dinner") != HashKey("romantic dinner") {
		t.Fatal("hash must be stable")
	}
	if HashKey("a") == HashKey("b") {
		t.Fatal("different inputs should hash differently")
	}
}
