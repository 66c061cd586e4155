package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shiftdesk/shiftdesk/internal/daemon"
	"github.com/shiftdesk/shiftdesk/internal/infra/sheets"
	"github.com/shiftdesk/shiftdesk/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import source tables from the published sheets",
	Long: `Fetch the users, task groups, task catalog, and payscale tables from
their published CSV URLs (configured under [sheets] in config.toml) and
replace the contents of the local sqlite store. Tables without a
configured URL are left untouched.`,
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Sheets.Users == "" && cfg.Sheets.TaskGroups == "" &&
		cfg.Sheets.Tasks == "" && cfg.Sheets.Payscale == "" {
		return fmt.Errorf("no sheet URLs configured; set [sheets] in %s", daemon.DefaultConfigPath())
	}

	db, err := sqlite.Open(cfg.Store.Dir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	client := sheets.NewClient(cfg.Sheets.TimeoutDuration())

	if cfg.Sheets.Users != "" {
		if err := importUsers(ctx, client, db, cfg.Sheets.Users); err != nil {
			return err
		}
	}
	if cfg.Sheets.TaskGroups != "" {
		if err := importTaskGroups(ctx, client, db, cfg.Sheets.TaskGroups); err != nil {
			return err
		}
	}
	if cfg.Sheets.Tasks != "" {
		if err := importTasks(ctx, client, db, cfg.Sheets.Tasks); err != nil {
			return err
		}
	}
	if cfg.Sheets.Payscale != "" {
		if err := importPayscale(ctx, client, db, cfg.Sheets.Payscale); err != nil {
			return err
		}
	}

	fmt.Fprintln(os.Stdout, "Import complete.")
	return nil
}

func importUsers(ctx context.Context, c *sheets.Client, db *sqlite.DB, url string) error {
	users, err := c.FetchUsers(ctx, url)
	if err != nil {
		return err
	}
	if err := db.ReplaceUsers(ctx, users); err != nil {
		return fmt.Errorf("store users: %w", err)
	}
	fmt.Fprintf(os.Stdout, "  users: %d rows\n", len(users))
	return nil
}

func importTaskGroups(ctx context.Context, c *sheets.Client, db *sqlite.DB, url string) error {
	groups, err := c.FetchTaskGroups(ctx, url)
	if err != nil {
		return err
	}
	if err := db.ReplaceTaskGroups(ctx, groups); err != nil {
		return fmt.Errorf("store task groups: %w", err)
	}
	fmt.Fprintf(os.Stdout, "  task groups: %d rows\n", len(groups))
	return nil
}

func importTasks(ctx context.Context, c *sheets.Client, db *sqlite.DB, url string) error {
	tasks, err := c.FetchTasks(ctx, url)
	if err != nil {
		return err
	}
	if err := db.ReplaceTasks(ctx, tasks); err != nil {
		return fmt.Errorf("store tasks: %w", err)
	}
	fmt.Fprintf(os.Stdout, "  tasks: %d rows\n", len(tasks))
	return nil
}

func importPayscale(ctx context.Context, c *sheets.Client, db *sqlite.DB, url string) error {
	entries, err := c.FetchPayscale(ctx, url)
	if err != nil {
		return err
	}
	if err := db.ReplacePayscale(ctx, entries); err != nil {
		return fmt.Errorf("store payscale: %w", err)
	}
	fmt.Fprintf(os.Stdout, "  payscale: %d rows\n", len(entries))
	return nil
}
