package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dinebook/backend/config"
	"github.com/dinebook/backend/internal/infrastructure/cache"
	"github.com/dinebook/backend/internal/infrastructure/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServe(t *testing.T) {
	t.Run("returns listener errors to the caller", func(t *testing.T) {
		busy, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer busy.Close()

		srv := &http.Server{Addr: busy.Addr().String(), Handler: http.NotFoundHandler()}

		done := make(chan error, 1)
		go func() { done <- serve(context.Background(), srv, zap.NewNop()) }()

		select {
		case err := <-done:
			assert.Error(t, err)
			assert.Contains(t, err.Error(), busy.Addr().String())
		case <-time.After(5 * time.Second):
			t.Fatal("serve did not return after the listener failed")
		}
	})

	t.Run("shuts down cleanly when the context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

		done := make(chan error, 1)
		go func() { done <- serve(ctx, srv, zap.NewNop()) }()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("serve did not return after cancellation")
		}
	})
}

func TestCatalogClientConfig(t *testing.T) {
	cfg := &config.Config{
		Supabase: config.SupabaseConfig{URL: "https://project.supabase.co", APIKey: "anon-key", Table: "venues"},
		Catalog:  config.CatalogConfig{RequestsPerSecond: 2, Burst: 4, Timeout: 3 * time.Second},
	}

	assert.Equal(t, catalog.ClientConfig{
		BaseURL:           "https://project.supabase.co",
		APIKey:            "anon-key",
		Table:             "venues",
		RequestsPerSecond: 2,
		Burst:             4,
		Timeout:           3 * time.Second,
	}, catalogClientConfig(cfg))
}

func TestNewCatalogProvider(t *testing.T) {
	cfg := &config.Config{Catalog: config.CatalogConfig{Source: "file", FilePath: "venues.json"}}
	assert.IsType(t, &catalog.FileProvider{}, newCatalogProvider(cfg, zap.NewNop()))

	cfg = &config.Config{Catalog: config.CatalogConfig{Source: "supabase"}}
	assert.IsType(t, &catalog.Client{}, newCatalogProvider(cfg, zap.NewNop()))
}

func TestNewCache(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		store, closeStore, err := newCache(context.Background(), &config.Config{Cache: config.CacheConfig{Type: "memory"}})
		require.NoError(t, err)
		defer closeStore()
		assert.IsType(t, &cache.MemoryCache{}, store)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, closeStore, err := newCache(context.Background(), &config.Config{
			Cache: config.CacheConfig{Type: "redis", RedisURL: "redis://" + mr.Addr(), KeyPrefix: "dinebook:"},
		})
		require.NoError(t, err)
		defer closeStore()
		assert.IsType(t, &cache.RedisCache{}, store)
	})
}
