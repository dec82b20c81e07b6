package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ecschema-go/ecschema/deserializer"
	ecerrors "github.com/ecschema-go/ecschema/errors"
	"github.com/ecschema-go/ecschema/internal/cli/config"
	"github.com/ecschema-go/ecschema/registry"
	"github.com/ecschema-go/ecschema/schema"
)

var storeCmd = &cobra.Command{
	Use:   "store <schema.json>...",
	Short: "Validate schema documents and write them to the configured store",
	Long: `Store reads the given schema JSON documents, resolves every reference,
and writes each validated document into the sqlite store configured as
"store" in ecschema.yml. References may point at documents named on the
same command line or already present in the store. Documents whose key the
store already holds are reported and left untouched.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Store == "" {
			return fmt.Errorf(`no store configured: set "store" in ecschema.yml`)
		}
		logger := newLogger()
		defer logger.Sync()

		st, err := registry.OpenSQLiteStore(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()

		sc := deserializer.NewLocatingContext(registry.NewContext(), st, logger)
		stored, skipped, err := storeFiles(context.Background(), sc, st, cfg, logger, args)
		if err != nil {
			printSchemaError(err)
			return fmt.Errorf("store failed")
		}

		green := color.New(color.FgGreen)
		for _, key := range stored {
			green.Printf("✓ %s", key)
			fmt.Println("  stored")
		}
		for _, path := range skipped {
			fmt.Printf("= %s  already stored\n", path)
		}
		return nil
	},
}

// storeFiles validates every named document against sc and writes each
// successfully resolved one to sink. Like loadFiles, unresolved-reference
// failures are retried until a pass makes no progress, so documents may be
// listed in any order. A document whose key is already held (by the sink,
// or by the context because reference resolution pulled it in first) lands
// in skipped rather than failing.
func storeFiles(ctx context.Context, sc deserializer.SchemaContext, sink registry.DocumentSink, cfg *config.Config, logger *zap.Logger, paths []string) (stored []schema.SchemaKey, skipped []string, err error) {
	type pending struct {
		path string
		data []byte
	}
	remaining := make([]pending, 0, len(paths))
	for _, path := range paths {
		data, readErr := readDocument(cfg, path)
		if readErr != nil {
			return nil, nil, readErr
		}
		remaining = append(remaining, pending{path: path, data: data})
	}

	reader := deserializer.NewReader(sc, deserializer.WithLogger(logger))
	for len(remaining) > 0 {
		progress := false
		var next []pending
		var lastErr error
		for _, p := range remaining {
			s, readErr := reader.ReadSchema(ctx, p.data)
			switch {
			case errors.Is(readErr, ecerrors.Sentinel(ecerrors.ErrUnresolvedSchemaReference)):
				next = append(next, p)
				lastErr = fmt.Errorf("%s: %w", p.path, readErr)
				continue
			case errors.Is(readErr, ecerrors.Sentinel(ecerrors.ErrAlreadyRegistered)):
				skipped = append(skipped, p.path)
				progress = true
				continue
			case readErr != nil:
				return nil, nil, fmt.Errorf("%s: %w", p.path, readErr)
			}

			putErr := sink.PutDocument(ctx, s.Key, p.data)
			switch {
			case errors.Is(putErr, ecerrors.Sentinel(ecerrors.ErrAlreadyRegistered)):
				skipped = append(skipped, p.path)
			case putErr != nil:
				return nil, nil, fmt.Errorf("%s: %w", p.path, putErr)
			default:
				stored = append(stored, s.Key)
			}
			progress = true
		}
		if !progress {
			return nil, nil, lastErr
		}
		remaining = next
	}
	return stored, skipped, nil
}
