package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goodfoods/concierge/src/config"
	"github.com/goodfoods/concierge/src/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the configured store with the demo catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cfg := config.Load()

		st, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		restaurants := store.GenerateSeedRestaurants(cfg.SeedCount, cfg.SeedValue)
		if err := st.SeedRestaurants(ctx, restaurants); err != nil {
			return err
		}
		fmt.Printf("seeded %d restaurants (driver: %s)\n", len(restaurants), cfg.StoreDriver)
		return nil
	},
}
