package registry

import (
	"context"

	"github.com/ecschema-go/ecschema/schema"
)

// DocumentSource supplies raw schema JSON on demand, keyed by schema name
// and version under a match policy. Implementations may perform I/O; they
// honor ctx cancellation, and fetching a document is the engine's one
// suspension point.
//
// A miss fails with ErrSchemaNotFound.
type DocumentSource interface {
	Document(ctx context.Context, key schema.SchemaKey, policy schema.MatchPolicy) ([]byte, error)
}

// DocumentSink accepts raw schema JSON for storage.
type DocumentSink interface {
	PutDocument(ctx context.Context, key schema.SchemaKey, doc []byte) error
}
