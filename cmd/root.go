package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/YessenBoranbay/2gis-lead-generator/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "2gis-lead-generator",
	Short: "Lead generation from 2GIS business listings",
	Long:  "Scrapes business listings (name, phone, address, rating, description) from 2GIS country sites and exports them to Excel.",
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

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
