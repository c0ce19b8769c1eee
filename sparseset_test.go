package archway_test

import (
	"testing"

	"github.com/edwinsyarief/archway"
	"github.com/stretchr/testify/assert"
)

func TestSparseSetInsertAndGet(t *testing.T) {
	s := archway.NewSparseSet[string]()

	_, ok := s.Get(5)
	assert.False(t, ok)

	s.Insert(5, "five")
	v, ok := s.Get(5)
	assert.True(t, ok)
	assert.Equal(t, "five", v)
	assert.Equal(t, 1, s.Len())
}

func TestSparseSetOverwrite(t *testing.T) {
	s := archway.NewSparseSet[int]()
	s.Insert(3, 30)
	s.Insert(3, 300)

	v, ok := s.Get(3)
	assert.True(t, ok)
	assert.Equal(t, 300, v)
	assert.Equal(t, 1, s.Len())
}

func TestSparseSetAscendingOrder(t *testing.T) {
	s := archway.NewSparseSet[int]()
	for _, k := range []int{7, 2, 9, 0, 4} {
		s.Insert(k, k*10)
	}

	keys := append([]int(nil), s.Keys()...)
	// Insertion order, not sorted order: ascending iteration is guaranteed
	// only when keys themselves are inserted in ascending order, which is
	// how archetype indices are always produced.
	assert.Equal(t, []int{7, 2, 9, 0, 4}, keys)

	s2 := archway.NewSparseSet[int]()
	for _, k := range []int{0, 1, 2, 3, 4} {
		s2.Insert(k, k)
	}
	var seen []int
	s2.OrderedKeysAndValues(func(key int, value int) bool {
		seen = append(seen, key)
		return true
	})
	assert.Equal(t, []int{0, 1, 2, 3, 4}, seen)
}

func TestSparseSetOrderedKeysAndValuesEarlyStop(t *testing.T) {
	s := archway.NewSparseSet[int]()
	for i := 0; i < 10; i++ {
		s.Insert(i, i)
	}

	var visited []int
	s.OrderedKeysAndValues(func(key int, value int) bool {
		visited = append(visited, key)
		return key < 3
	})
	assert.Equal(t, []int{0, 1, 2, 3}, visited)
}
