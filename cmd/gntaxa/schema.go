package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gnames/gntaxa/internal/iodb"
	"github.com/gnames/gntaxa/internal/ioschema"
	"github.com/gnames/gntaxa/pkg/db"
	"github.com/gnames/gntaxa/pkg/lifecycle"
	"github.com/spf13/cobra"
)

var forceCreate bool

func getSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the PostgreSQL expanded_taxa schema",
	}
	cmd.AddCommand(getSchemaCreateCmd())
	cmd.AddCommand(getSchemaMigrateCmd())
	return cmd
}

func getSchemaCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the expanded_taxa schema",
		Long: `Create the expanded_taxa schema from scratch.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Checks for existing tables and prompts for confirmation if found
  3. Creates the expanded_taxa table using GORM AutoMigrate
  4. Adds the per-rank ancestry columns and the ltree path column

Use --force to skip confirmation and drop existing tables
automatically.

Examples:
  gntaxa schema create
  gntaxa schema create --force
  gntaxa schema create --config custom.yaml`,
		RunE: runSchemaCreate,
	}
	cmd.Flags().BoolVar(&forceCreate, "force", false,
		"drop existing tables before creating schema (destructive)")
	return cmd
}

func getSchemaMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema changes to an existing database",
		Long: `Bring an existing expanded_taxa schema up to date without
dropping data. Missing columns and extensions are added; present
ones are left untouched.

Examples:
  gntaxa schema migrate`,
		RunE: runSchemaMigrate,
	}
}

func runSchemaCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	var op db.Operator = iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer op.Close()

	fmt.Printf("Connected to database: %s@%s:%d/%s\n",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for existing tables: %w", err)
	}

	if hasTables {
		if !forceCreate {
			fmt.Println("\n⚠️  Warning: Database contains existing tables.")
			fmt.Println("Creating schema will drop ALL existing tables and data.")
			fmt.Print("\nDo you want to continue? (yes/no): ")

			reader := bufio.NewReader(os.Stdin)
			response, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read user input: %w", err)
			}

			response = strings.TrimSpace(strings.ToLower(response))
			if response != "yes" && response != "y" {
				fmt.Println("Aborted. No changes made to the database.")
				return nil
			}
		}

		fmt.Println("Dropping all existing tables...")
		if err := op.DropAllTables(ctx); err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}
		fmt.Println("✓ All tables dropped")
	}

	var sm lifecycle.SchemaManager = ioschema.NewManager(op)

	fmt.Println("Creating expanded_taxa schema...")
	if err := sm.Create(ctx, cfg); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	fmt.Println("\n✓ Schema creation complete!")
	fmt.Println("\nNext steps:")
	fmt.Println("  - Run 'gntaxa load <file.tsv>' to import a snapshot")
	fmt.Println("  - Run 'gntaxa optimize' to build the path column and indexes")

	return nil
}

func runSchemaMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := getConfig()

	var op db.Operator = iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer op.Close()

	var sm lifecycle.SchemaManager = ioschema.NewManager(op)
	if err := sm.Migrate(ctx, cfg); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	fmt.Println("✓ Schema is up to date")
	return nil
}
