package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	ecerrors "github.com/ecschema-go/ecschema/errors"
	"github.com/ecschema-go/ecschema/internal/cli/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate <schema.json>...",
	Short: "Deserialize and fully resolve schema documents",
	Long: `Validate reads the given schema JSON documents, resolves every
cross-schema and cross-item reference, and reports the first structural
error found. Referenced schemas must be among the arguments, in the
configured sqlite store, or already cached.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger := newLogger()
		defer logger.Sync()

		sc, cleanup, err := buildContext(cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		schemas, err := loadFiles(context.Background(), sc, cfg, logger, args)
		if err != nil {
			printSchemaError(err)
			return fmt.Errorf("validation failed")
		}

		green := color.New(color.FgGreen)
		for _, s := range schemas {
			green.Printf("✓ %s", s.FullName())
			fmt.Printf("  (%d items, %d references)\n", s.ItemCount(), len(s.References()))
		}
		return nil
	},
}

func printSchemaError(err error) {
	red := color.New(color.FgRed, color.Bold)
	var schemaErr *ecerrors.SchemaError
	if errors.As(err, &schemaErr) {
		red.Printf("✗ [%s] ", schemaErr.Code)
		fmt.Println(schemaErr.Message)
		if schemaErr.Path != "" {
			fmt.Printf("  at: %s\n", schemaErr.Path)
		}
		if schemaErr.Suggestion != "" {
			fmt.Printf("  hint: %s\n", schemaErr.Suggestion)
		}
		return
	}
	red.Print("✗ ")
	fmt.Println(err)
}
