// Package deserializer turns raw schema JSON into fully linked schema
// graphs. Construction is shell-first: every item is registered with its
// schema as an empty, typed shell before any of its fields are populated,
// and cross-links are deferred references, which is what lets the graph
// contain reference cycles without recursing forever.
package deserializer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	ecerrors "github.com/ecschema-go/ecschema/errors"
	"github.com/ecschema-go/ecschema/schema"
)

// SchemaContext is the registry surface the engine consumes: a versioned,
// named store of resolved schemas. registry.Context implements it, and so
// does LocatingContext for the load-on-demand pattern. Every method honors
// ctx; schema lookup is the engine's one suspension point.
type SchemaContext interface {
	AddSchema(ctx context.Context, s *schema.Schema) error
	Schema(ctx context.Context, key schema.SchemaKey, policy schema.MatchPolicy) (*schema.Schema, error)
	SchemaItem(ctx context.Context, key schema.ItemKey) (schema.Item, error)
	RemoveSchema(ctx context.Context, key schema.SchemaKey) error
}

// Reader deserializes schemas against one SchemaContext. A Reader is
// stateless across reads and safe for concurrent use on distinct schemas;
// per-read state lives on the readState it creates.
type Reader struct {
	context SchemaContext
	logger  *zap.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Reader) { r.logger = logger }
}

// NewReader creates a Reader resolving cross-schema references through sc.
func NewReader(sc SchemaContext, opts ...Option) *Reader {
	r := &Reader{context: sc, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadSchema deserializes one schema document into a fully linked, frozen
// Schema registered with the context. Construction is all-or-nothing: on
// any failure the partial schema is evicted from the context and the caller
// must discard it.
func (r *Reader) ReadSchema(ctx context.Context, data []byte) (*schema.Schema, error) {
	return r.ReadSchemaWithVisitor(ctx, data, nil)
}

// ReadSchemaWithVisitor is ReadSchema with per-item visitor callbacks,
// delivered in construction order and never before an item is complete.
func (r *Reader) ReadSchemaWithVisitor(ctx context.Context, data []byte, visitor *Visitor) (*schema.Schema, error) {
	st, err := r.begin(ctx, data, visitor)
	if err != nil {
		return nil, err
	}
	if err := st.run(); err != nil {
		// Roll the registration back so the context never serves a schema
		// that only partially deserialized.
		if rbErr := r.context.RemoveSchema(ctx, st.schema.Key); rbErr != nil {
			r.logger.Warn("rollback of failed schema read did not remove registration",
				zap.String("schema", st.schema.FullName()), zap.Error(rbErr))
		}
		return nil, err
	}
	return st.schema, nil
}

// readState is the per-read construction state: the schema being built, its
// raw item bodies, which items have been announced to the visitor, and the
// stack of deferred notifications for in-flight nested constructions.
type readState struct {
	reader  *Reader
	ctx     context.Context
	visitor *Visitor
	doc     schemaDoc

	schema    *schema.Schema
	itemOrder []string                   // declaration order
	itemDocs  map[string]json.RawMessage // lower-cased name -> body
	itemNames map[string]string          // lower-cased name -> declared name

	visited  map[string]bool // lower-cased names already announced
	deferred [][]schema.Item // notification frames, one per in-flight item
}

// begin populates the schema's own scalars and registers the still-empty
// schema with the context, so references back to it resolve while the rest
// of the document loads.
func (r *Reader) begin(ctx context.Context, data []byte, visitor *Visitor) (*readState, error) {
	var doc schemaDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ecerrors.NewInvalidSchemaJSON("$", err.Error())
	}
	if doc.Name == "" {
		return nil, ecerrors.NewMissingField("name")
	}
	if doc.Version == "" {
		return nil, ecerrors.NewMissingField("version")
	}
	version, err := schema.ParseVersion(doc.Version)
	if err != nil {
		return nil, err
	}

	s := schema.New(schema.SchemaKey{Name: doc.Name, Version: version}, doc.Alias)
	s.Description = doc.Description
	s.Label = doc.Label

	if err := r.context.AddSchema(ctx, s); err != nil {
		return nil, err
	}
	r.logger.Debug("registered schema shell", zap.String("schema", s.FullName()))

	return &readState{
		reader:  r,
		ctx:     ctx,
		visitor: visitor,
		doc:     doc,
		schema:  s,
		visited: make(map[string]bool),
	}, nil
}

// run drives the remaining construction steps in their required order.
func (st *readState) run() error {
	st.visitor.emptySchema(st.schema)

	if err := st.loadReferences(); err != nil {
		return err
	}
	if err := st.indexItems(); err != nil {
		return err
	}
	for _, name := range st.itemOrder {
		if _, done := st.schema.Item(name); done {
			// Already populated because an earlier item's references
			// reached it first.
			continue
		}
		if _, err := st.loadItem(name, false); err != nil {
			return err
		}
	}

	attrs, err := st.loadCustomAttributes(st.doc.CustomAttributes, "customAttributes")
	if err != nil {
		return err
	}
	st.schema.CustomAttributes = attrs

	st.schema.Freeze()
	st.visitor.fullSchema(st.schema)
	return nil
}

// loadReferences resolves every references entry against the context and
// attaches each resolved schema by shared reference.
func (st *readState) loadReferences() error {
	for _, ref := range st.doc.References {
		if ref.Name == "" {
			return ecerrors.NewMissingField("references.name")
		}
		version, err := schema.ParseVersion(ref.Version)
		if err != nil {
			return err
		}
		key := schema.SchemaKey{Name: ref.Name, Version: version}
		resolved, err := st.reader.context.Schema(st.ctx, key, schema.MatchLatestWriteCompatible)
		if err != nil {
			if errors.Is(err, ecerrors.Sentinel(ecerrors.ErrSchemaNotFound)) {
				return ecerrors.NewUnresolvedSchemaReference(st.schema.Key.Name, key.String())
			}
			return err
		}
		if err := st.schema.AddReference(resolved); err != nil {
			return err
		}
	}
	return nil
}

// indexItems decodes the items map into per-name raw bodies, dropping
// entries whose schemaItemType this engine does not know. Dropping, not
// failing, lets older readers tolerate newer schema-item kinds.
func (st *readState) indexItems() error {
	if len(st.doc.Items) == 0 {
		return nil
	}
	order, docs, err := decodeItemsMap(st.doc.Items)
	if err != nil {
		return err
	}
	st.itemDocs = make(map[string]json.RawMessage, len(docs))
	st.itemNames = make(map[string]string, len(docs))
	for _, name := range order {
		var probe kindProbe
		if err := decodeInto(docs[name], "items."+name, &probe); err != nil {
			return err
		}
		if probe.SchemaItemType == "" {
			return ecerrors.NewMissingField("items." + name + ".schemaItemType")
		}
		if !schema.KnownItemType(schema.ItemType(probe.SchemaItemType)) {
			st.reader.logger.Debug("dropping item of unknown kind",
				zap.String("schema", st.schema.FullName()),
				zap.String("item", name),
				zap.String("schemaItemType", probe.SchemaItemType))
			continue
		}
		lower := strings.ToLower(name)
		if _, exists := st.itemDocs[lower]; exists {
			return ecerrors.NewInvalidSchemaJSON(
				"items."+name,
				fmt.Sprintf("duplicate item name %q in schema %s", name, st.schema.Key.Name),
			)
		}
		st.itemOrder = append(st.itemOrder, name)
		st.itemDocs[lower] = docs[name]
		st.itemNames[lower] = name
	}
	return nil
}

// notify announces an item to the visitor, at most once.
func (st *readState) notify(item schema.Item) {
	lower := strings.ToLower(item.ItemName())
	if st.visited[lower] {
		return
	}
	st.visited[lower] = true
	st.visitor.item(item)
}

func (st *readState) pushFrame() {
	st.deferred = append(st.deferred, nil)
}

func (st *readState) popFrame() []schema.Item {
	frame := st.deferred[len(st.deferred)-1]
	st.deferred = st.deferred[:len(st.deferred)-1]
	return frame
}

// deferToCaller parks an item's notification on the enclosing construction
// frame; with no frame in flight the item is announced immediately.
func (st *readState) deferToCaller(item schema.Item) {
	if len(st.deferred) == 0 {
		st.notify(item)
		return
	}
	st.deferred[len(st.deferred)-1] = append(st.deferred[len(st.deferred)-1], item)
}
