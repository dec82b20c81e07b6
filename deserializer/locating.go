package deserializer

import (
	"context"
	"errors"

	"go.uber.org/zap"

	ecerrors "github.com/ecschema-go/ecschema/errors"
	"github.com/ecschema-go/ecschema/registry"
	"github.com/ecschema-go/ecschema/schema"
)

// LocatingContext is a SchemaContext that loads schemas on demand: lookups
// that miss the in-memory context fall back to a DocumentSource, whose
// document is deserialized (recursively resolving its own references
// through this same context) and registered before being returned.
//
// This is the suspending operating mode of the engine: fetching a document
// is the one point where a read may block on I/O, and the graphs it
// produces are identical to those built from an up-front-loaded context.
type LocatingContext struct {
	*registry.Context

	source registry.DocumentSource
	logger *zap.Logger
}

// NewLocatingContext wraps memory with on-demand loading from source.
// logger may be nil.
func NewLocatingContext(memory *registry.Context, source registry.DocumentSource, logger *zap.Logger) *LocatingContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocatingContext{Context: memory, source: source, logger: logger}
}

// Schema returns the registered schema for key, fetching and deserializing
// its document on a miss.
func (lc *LocatingContext) Schema(ctx context.Context, key schema.SchemaKey, policy schema.MatchPolicy) (*schema.Schema, error) {
	s, err := lc.Context.Schema(ctx, key, policy)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ecerrors.Sentinel(ecerrors.ErrSchemaNotFound)) {
		return nil, err
	}

	doc, srcErr := lc.source.Document(ctx, key, policy)
	if srcErr != nil {
		return nil, srcErr
	}
	lc.logger.Debug("loading schema on demand", zap.String("schema", key.String()))

	reader := NewReader(lc, WithLogger(lc.logger))
	return reader.ReadSchema(ctx, doc)
}

// SchemaItem resolves an item key, loading the owning schema on demand when
// it is not yet in memory. Without this override the embedded context would
// consult only memory and item lookup would lose the on-demand behavior.
func (lc *LocatingContext) SchemaItem(ctx context.Context, key schema.ItemKey) (schema.Item, error) {
	s, err := lc.Schema(ctx, key.Schema, schema.MatchExact)
	if err != nil {
		return nil, err
	}
	item, ok := s.Item(key.Name)
	if !ok {
		return nil, ecerrors.NewItemNotFound(key.String())
	}
	return item, nil
}
