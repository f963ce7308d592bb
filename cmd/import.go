package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"patient-sync/core/config"
	"patient-sync/core/database"
	"patient-sync/core/logger"
	"patient-sync/core/reconcile"
	"patient-sync/core/storage"
	"patient-sync/feature/billing"
	"patient-sync/feature/billing/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// importCmd is the parent command for all import operations.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a batch of records from a JSON file",
	Long: `Import reconciles one batch of externally sourced records against the
local database, exactly as the HTTP endpoints do: new records are inserted,
changed records updated, and malformed records soft-delete their targets.

The file must contain a JSON array of records.`,
}

var importPatientsCmd = &cobra.Command{
	Use:   "patients <file>",
	Short: "Import a batch of patient records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(args[0], func(ctx context.Context, svc *billing.Service, batch []json.RawMessage) (*reconcile.Summary, error) {
			return svc.ImportPatients(ctx, batch)
		})
	},
}

var importPaymentsCmd = &cobra.Command{
	Use:   "payments <file>",
	Short: "Import a batch of payment records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(args[0], func(ctx context.Context, svc *billing.Service, batch []json.RawMessage) (*reconcile.Summary, error) {
			return svc.ImportPayments(ctx, batch)
		})
	},
}

func init() {
	importCmd.AddCommand(importPatientsCmd)
	importCmd.AddCommand(importPaymentsCmd)
	RootCmd.AddCommand(importCmd)
}

func runImport(path string, do func(context.Context, *billing.Service, []json.RawMessage) (*reconcile.Summary, error)) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := models.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Storage is optional; without it the batch is simply not archived.
	var store storage.Client
	if cfg.Storage.Enabled() {
		if client, err := storage.NewClient(cfg.Storage); err != nil {
			l.Warn("Failed to create storage client, skipping archival", zap.Error(err))
		} else {
			store = client
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var batch []json.RawMessage
	if err := json.Unmarshal(raw, &batch); err != nil {
		return fmt.Errorf("%s must contain a JSON array: %w", path, err)
	}

	svc := billing.NewService(db, l, store, cfg.Storage.Bucket)
	summary, err := do(ctx, svc, batch)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	l.Info("Import complete",
		zap.String("file", path),
		zap.Int("received", summary.Received),
		zap.Int("malformed", summary.Malformed),
		zap.Int("inserted", summary.Inserted),
		zap.Int("updated", summary.Updated),
		zap.Int("unchanged", summary.Unchanged),
		zap.Int("soft_deleted", summary.SoftDeleted),
		zap.Int("dropped", summary.Dropped),
	)
	return nil
}
