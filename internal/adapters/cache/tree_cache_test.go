package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftplan/craftplan-go/internal/adapters/cache"
	"github.com/craftplan/craftplan-go/internal/domain/catalog"
	"github.com/craftplan/craftplan-go/internal/domain/materials"
)

func sampleTrees() []*materials.MaterialNode {
	return []*materials.MaterialNode{
		{Kind: catalog.KindItem, EntityID: 1, Name: "Plank", Quantity: 4},
		nil,
	}
}

func TestMemoryTreeCache_PutGetRoundtrip(t *testing.T) {
	// Arrange
	treeCache := cache.NewMemoryTreeCache(time.Minute)
	trees := sampleTrees()

	// Act
	treeCache.Put("list:hash", trees)
	cached, ok := treeCache.Get("list:hash")

	// Assert
	require.True(t, ok)
	require.Len(t, cached, 2)
	assert.Same(t, trees[0], cached[0])
	assert.Nil(t, cached[1], "nil slots survive caching")
}

func TestMemoryTreeCache_MissOnUnknownKey(t *testing.T) {
	treeCache := cache.NewMemoryTreeCache(time.Minute)

	_, ok := treeCache.Get("never-stored")

	assert.False(t, ok)
}

func TestMemoryTreeCache_ClearDropsEverything(t *testing.T) {
	treeCache := cache.NewMemoryTreeCache(time.Minute)
	treeCache.Put("a", sampleTrees())
	treeCache.Put("b", sampleTrees())

	treeCache.Clear()

	_, okA := treeCache.Get("a")
	_, okB := treeCache.Get("b")
	assert.False(t, okA)
	assert.False(t, okB)
}

func TestMemoryTreeCache_ZeroTTLNeverExpires(t *testing.T) {
	treeCache := cache.NewMemoryTreeCache(0)

	treeCache.Put("keep", sampleTrees())
	cached, ok := treeCache.Get("keep")

	require.True(t, ok)
	assert.Len(t, cached, 2)
}
