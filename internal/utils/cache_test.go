package utils

import (
	"reflect"
	"testing"
	"time"
)

func TestEmbeddingCacheGetMissing(t *testing.T) {
	c := NewEmbeddingCache(4)
	c.Add("happy", []float64{1, 0})

	found := map[string][]float64{}
	missing := c.GetMissing([]string{"happy", "sad", "sad", "love"}, found)

	if !reflect.DeepEqual(missing, []string{"sad", "love"}) {
		t.Errorf("missing = %v", missing)
	}
	if !reflect.DeepEqual(found["happy"], []float64{1, 0}) {
		t.Errorf("found = %v", found)
	}
	if got := c.HitRate(); got != 1.0/3 {
		t.Errorf("HitRate = %v, want 1/3", got)
	}
}

func TestEmbeddingCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewEmbeddingCache(2)
	c.Add("a", []float64{1})
	time.Sleep(time.Millisecond)
	c.Add("b", []float64{2})
	time.Sleep(time.Millisecond)

	c.GetMissing([]string{"a"}, map[string][]float64{})
	time.Sleep(time.Millisecond)
	c.Add("c", []float64{3})

	if c.Size() != 2 {
		t.Fatalf("Size = %d, want 2", c.Size())
	}
	missing := c.GetMissing([]string{"a", "b", "c"}, map[string][]float64{})
	if !reflect.DeepEqual(missing, []string{"b"}) {
		t.Errorf("missing = %v, want [b]", missing)
	}
}

func TestEmbeddingCacheDisabled(t *testing.T) {
	c := NewEmbeddingCache(0)
	c.Add("a", []float64{1})

	if c.Size() != 0 {
		t.Errorf("Size = %d, want 0", c.Size())
	}
}
