package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ecschema-go/ecschema/deserializer"
	ecerrors "github.com/ecschema-go/ecschema/errors"
	"github.com/ecschema-go/ecschema/internal/cli/config"
	"github.com/ecschema-go/ecschema/registry"
	"github.com/ecschema-go/ecschema/schema"
)

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// buildContext assembles the schema context from configuration: an
// in-memory registry, optionally backed by the sqlite document store and
// its redis cache for load-on-demand reference resolution.
func buildContext(cfg *config.Config, logger *zap.Logger) (deserializer.SchemaContext, func(), error) {
	memory := registry.NewContext()
	if cfg.Store == "" {
		return memory, func() {}, nil
	}

	store, err := registry.OpenSQLiteStore(cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	var source registry.DocumentSource = store
	if cfg.Cache.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		source = registry.NewCachedSource(source, client, registry.CacheConfig{})
	}
	return deserializer.NewLocatingContext(memory, source, logger), func() { store.Close() }, nil
}

// readDocument reads a schema document, trying the configured search paths
// when the path as given does not exist.
func readDocument(cfg *config.Config, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil || !os.IsNotExist(err) || filepath.IsAbs(path) {
		return data, err
	}
	for _, dir := range cfg.SearchPaths {
		if data, dirErr := os.ReadFile(filepath.Join(dir, path)); dirErr == nil {
			return data, nil
		}
	}
	return nil, err
}

// loadFiles reads every named schema document into the context. Files may
// reference each other in any order, so unresolved-reference failures are
// retried until a pass makes no progress.
func loadFiles(ctx context.Context, sc deserializer.SchemaContext, cfg *config.Config, logger *zap.Logger, paths []string) ([]*schema.Schema, error) {
	type pending struct {
		path string
		data []byte
	}
	remaining := make([]pending, 0, len(paths))
	for _, path := range paths {
		data, err := readDocument(cfg, path)
		if err != nil {
			return nil, err
		}
		remaining = append(remaining, pending{path: path, data: data})
	}

	reader := deserializer.NewReader(sc, deserializer.WithLogger(logger))
	var schemas []*schema.Schema
	for len(remaining) > 0 {
		progress := false
		var next []pending
		var lastErr error
		for _, p := range remaining {
			s, err := reader.ReadSchema(ctx, p.data)
			if errors.Is(err, ecerrors.Sentinel(ecerrors.ErrUnresolvedSchemaReference)) {
				next = append(next, p)
				lastErr = fmt.Errorf("%s: %w", p.path, err)
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p.path, err)
			}
			schemas = append(schemas, s)
			progress = true
		}
		if !progress {
			return nil, lastErr
		}
		remaining = next
	}
	return schemas, nil
}
