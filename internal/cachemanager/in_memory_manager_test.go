package cachemanager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type ExampleStruct struct {
	ID   int
	Name string
}

func TestNewInMemoryCacheManager(t *testing.T) {
	require.NotPanics(t, func() {
		NewInMemoryCacheManager[string, string]("test", NoExpiration, DefaultCleanupInterval)
	})
}

func TestNewInMemoryCacheManager_GetExistingValue_StructType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, ExampleStruct]("food-cache", NoExpiration, DefaultCleanupInterval)
	example := ExampleStruct{
		Name: "apple",
	}
	cache.Set(context.Background(), "ex:1", example, NoExpiration)

	got, ok := cache.Get(context.Background(), "ex:1")
	require.True(t, ok)
	require.Equal(t, example, got)
}

func TestNewInMemoryCacheManager_GetExistingValue_SliceType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, []string]("plugins", NoExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "plugins", []string{"aws", "azure_rm"}, NoExpiration)

	got, ok := cache.Get(context.Background(), "plugins")
	require.True(t, ok)
	require.Equal(t, []string{"aws", "azure_rm"}, got)
}

func TestNewInMemoryCacheManager_GetWithNoExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("food-cache", NoExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "food")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestNewInMemoryCacheManager_GetWithExistingInvalidValueType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("food-cache", NoExpiration, DefaultCleanupInterval)

	cache.cache.Set("food", 123, NoExpiration)

	got, ok := cache.Get(context.Background(), "food")
	require.False(t, ok)
	require.Empty(t, got)
}

type stageKey string

func TestNewInMemoryCacheManager_NamedKeyType(t *testing.T) {
	cache := NewInMemoryCacheManager[stageKey, int]("stages", NoExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), stageKey("discover"), 3, NoExpiration)

	got, ok := cache.Get(context.Background(), "discover")
	require.True(t, ok)
	require.Equal(t, 3, got)
}

func TestNewInMemoryCacheManager_Flush(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("food-cache", NoExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "food", "apple", NoExpiration)
	cache.Set(context.Background(), "drink", "juice", NoExpiration)
	require.Equal(t, 2, cache.Len())

	err := cache.Flush(context.Background())
	require.NoError(t, err)
	require.Zero(t, cache.Len())
}
