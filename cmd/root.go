package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/district-atlas/internal/config"
	"github.com/sells-group/district-atlas/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "district-atlas",
	Short: "District-level school statistics maps and reports",
	Long:  "Loads district boundaries and school statistics, computes correlation and extreme-value reports, renders static choropleths and an interactive web map.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "district store path (default: from config)")
}

// openStore opens the configured district store and runs migrations.
func openStore(ctx context.Context, cmd *cobra.Command) (*store.SQLiteStore, error) {
	path, _ := cmd.Flags().GetString("db")
	if path == "" {
		path = cfg.Store.Path
	}
	st, err := store.NewSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
