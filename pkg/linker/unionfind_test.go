package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisjointSet_InitiallyDisjoint(t *testing.T) {
	ds := newDisjointSet(4)

	for i := 0; i < 4; i++ {
		assert.Equal(t, i, ds.find(i))
	}
	assert.False(t, ds.sameSet(0, 1))
}

func TestDisjointSet_Union(t *testing.T) {
	ds := newDisjointSet(4)

	ds.union(0, 1)
	assert.True(t, ds.sameSet(0, 1))
	assert.False(t, ds.sameSet(0, 2))

	ds.union(2, 3)
	ds.union(1, 2)
	assert.True(t, ds.sameSet(0, 3))
}

func TestDisjointSet_UnionIdempotent(t *testing.T) {
	ds := newDisjointSet(3)

	ds.union(0, 1)
	ds.union(1, 0)
	ds.union(0, 1)

	assert.True(t, ds.sameSet(0, 1))
	assert.False(t, ds.sameSet(0, 2))
}

func TestDisjointSet_TransitiveChain(t *testing.T) {
	ds := newDisjointSet(100)

	for i := 0; i < 99; i++ {
		ds.union(i, i+1)
	}

	assert.True(t, ds.sameSet(0, 99))
	root := ds.find(0)
	for i := 1; i < 100; i++ {
		assert.Equal(t, root, ds.find(i))
	}
}
