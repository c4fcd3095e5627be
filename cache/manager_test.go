package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerTouchAndGet(t *testing.T) {

	m := NewManager[uint64, int](2)
	m.Touch(1, 42)

	v, ok := m.Get(1)
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = m.Get(2)
	assert.False(t, ok)
}

func TestManagerRetentionEviction(t *testing.T) {

	m := NewManager[uint64, int](1)
	m.Touch(1, 1)

	m.Tick() // the frame it was touched: clears the touched flag, retention untouched
	_, ok := m.Get(1)
	assert.True(t, ok, "entry should survive the tick of the frame it was touched in")

	m.Tick() // first untouched frame: retention 1 -> 0, evicted
	_, ok = m.Get(1)
	assert.False(t, ok, "entry should be evicted once its retention reaches zero")
}

func TestManagerTouchResetsRetention(t *testing.T) {

	m := NewManager[uint64, int](1)
	m.Touch(1, 1)
	m.Tick()
	m.Touch(1, 2) // re-touched before eviction, retention reset

	v, ok := m.Get(1)
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	m.Tick()
	_, ok = m.Get(1)
	assert.True(t, ok, "re-touching an entry should reset its retention countdown")
}

func TestManagerLen(t *testing.T) {

	m := NewManager[uint64, int](5)
	m.Touch(1, 1)
	m.Touch(2, 2)
	assert.Equal(t, 2, m.Len())
}
