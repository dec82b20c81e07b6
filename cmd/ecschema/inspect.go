package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ecschema-go/ecschema/internal/cli/config"
	"github.com/ecschema-go/ecschema/schema"
)

var inspectClass string

func init() {
	inspectCmd.Flags().StringVar(&inspectClass, "class", "", "inspect one class: precedence chain and properties")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <schema.json>...",
	Short: "Show the items of a resolved schema",
	Long: `Inspect deserializes the given schema documents and prints the item
inventory of the last one. With --class it instead prints that class's
inheritance chain in precedence order, followed by its properties.`,
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
			return fmt.Errorf("inspect failed")
		}
		target := schemas[len(schemas)-1]

		if inspectClass != "" {
			return inspectOneClass(target, inspectClass)
		}

		bold := color.New(color.Bold)
		bold.Printf("%s", target.FullName())
		fmt.Printf("  (%d items)\n", target.ItemCount())
		for item := range target.Items() {
			fmt.Printf("  %-24s %s\n", item.ItemName(), item.Kind())
		}
		return nil
	},
}

func inspectOneClass(s *schema.Schema, name string) error {
	item, ok := s.Item(name)
	if !ok {
		return fmt.Errorf("schema %s has no item %q", s.FullName(), name)
	}
	cls, ok := item.(schema.Class)
	if !ok {
		return fmt.Errorf("item %q is a %s, not a class", name, item.Kind())
	}

	bold := color.New(color.Bold)
	bold.Printf("%s", cls.FullName())
	fmt.Printf("  (%s, %s)\n", cls.Kind(), cls.ClassModifier())

	fmt.Println("precedence:")
	for base := range schema.AllBaseClasses(cls) {
		fmt.Printf("  %s\n", base.FullName())
	}

	fmt.Println("properties:")
	seen := map[string]bool{}
	for _, p := range cls.PropertyList() {
		seen[strings.ToLower(p.PropertyName())] = true
		fmt.Printf("  %-24s %s\n", p.PropertyName(), p.PropertyKind())
	}
	for base := range schema.AllBaseClasses(cls) {
		for _, p := range base.PropertyList() {
			lower := strings.ToLower(p.PropertyName())
			if seen[lower] {
				continue
			}
			seen[lower] = true
			fmt.Printf("  %-24s %s  (from %s)\n", p.PropertyName(), p.PropertyKind(), base.ItemName())
		}
	}
	return nil
}
